package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type MetricsConfig struct {
	Enabled bool
	Port    int
}

type instrumentErrors struct {
	err error
}

func (b *instrumentErrors) histogram(meter metric.Meter, name, desc string) metric.Float64Histogram {
	if b.err != nil {
		return nil
	}
	h, err := meter.Float64Histogram(name, metric.WithDescription(desc))
	if err != nil {
		b.err = fmt.Errorf("failed to create histogram %s: %w", name, err)
	}
	return h
}

func (b *instrumentErrors) counter(meter metric.Meter, name, desc string) metric.Int64Counter {
	if b.err != nil {
		return nil
	}
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		b.err = fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return c
}

// InitMetrics registers the pipeline instruments against a Prometheus
// exporter. When disabled it returns a no-op recorder.
func InitMetrics(cfg MetricsConfig) (*PrometheusMetrics, error) {
	if !cfg.Enabled {
		return &PrometheusMetrics{}, nil
	}

	promExporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(promExporter),
	)
	meter := meterProvider.Meter("tutorkit")

	var b instrumentErrors
	m := &PrometheusMetrics{
		queryDuration:    b.histogram(meter, "tutorkit_query_duration_seconds", "Query duration in seconds"),
		queryCallsTotal:  b.counter(meter, "tutorkit_queries_total", "Total queries answered"),
		queryErrorsTotal: b.counter(meter, "tutorkit_query_errors_total", "Total query errors"),
		toolDuration:     b.histogram(meter, "tutorkit_tool_execution_duration_seconds", "Tool execution duration in seconds"),
		toolCallsTotal:   b.counter(meter, "tutorkit_tool_calls_total", "Total tool calls"),
		toolErrorsTotal:  b.counter(meter, "tutorkit_tool_errors_total", "Total tool errors"),
		llmDuration:      b.histogram(meter, "tutorkit_llm_request_duration_seconds", "LLM request duration in seconds"),
		llmInputTokens:   b.counter(meter, "tutorkit_llm_tokens_input_total", "Total input tokens sent to the LLM"),
		llmOutputTokens:  b.counter(meter, "tutorkit_llm_tokens_output_total", "Total output tokens from the LLM"),
		llmErrorsTotal:   b.counter(meter, "tutorkit_llm_errors_total", "Total LLM errors"),
	}
	if b.err != nil {
		return nil, b.err
	}
	return m, nil
}

// ServeMetrics exposes /metrics on the given port. It blocks, so callers
// run it in a goroutine.
func ServeMetrics(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
