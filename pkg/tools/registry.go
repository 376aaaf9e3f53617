package tools

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tutorkit/tutorkit/pkg/llms"
	"github.com/tutorkit/tutorkit/pkg/observability"
	"github.com/tutorkit/tutorkit/pkg/registry"
)

// ToolRegistry maps tool names to implementations and dispatches
// invocations. Declarations come back in registration order.
type ToolRegistry struct {
	*registry.BaseRegistry[Tool]
}

func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		BaseRegistry: registry.NewBaseRegistry[Tool](),
	}
}

// RegisterTool adds a tool keyed by its declared name.
func (r *ToolRegistry) RegisterTool(tool Tool) error {
	if tool == nil {
		return fmt.Errorf("tool cannot be nil")
	}
	return r.Register(tool.GetName(), tool)
}

// Declarations returns one wire-level declaration per registered tool.
func (r *ToolRegistry) Declarations() []llms.ToolDefinition {
	tools := r.List()
	definitions := make([]llms.ToolDefinition, 0, len(tools))
	for _, tool := range tools {
		definitions = append(definitions, tool.GetInfo().ToDefinition())
	}
	return definitions
}

// ExecuteTool invokes a tool by name. An unknown name is a normal
// outcome surfaced to the model as text, not an error. A non-nil error
// means the tool itself faulted during execution.
func (r *ToolRegistry) ExecuteTool(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	startTime := time.Now()

	tracer := observability.GetTracer("tutorkit.tools")
	ctx, span := tracer.Start(ctx, observability.SpanToolExecution,
		trace.WithAttributes(
			attribute.String(observability.AttrToolName, name),
		),
	)
	defer span.End()

	tool, exists := r.Get(name)
	if !exists {
		span.SetStatus(codes.Error, "tool not found")
		return fmt.Sprintf("Tool '%s' not found", name), nil
	}

	result, err := tool.Execute(ctx, args)
	duration := time.Since(startTime)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "success")
	}
	span.SetAttributes(attribute.Int64("tool.duration_ms", duration.Milliseconds()))

	if metrics := observability.GetGlobalMetrics(); metrics != nil {
		metrics.RecordToolExecution(ctx, name, duration, err)
	}

	return result, err
}

// LastSources aggregates the citations recorded by source-tracking
// tools, in registration order.
func (r *ToolRegistry) LastSources() []Source {
	sources := make([]Source, 0)
	for _, tool := range r.List() {
		if tracker, ok := tool.(SourceTracker); ok {
			sources = append(sources, tracker.LastSources()...)
		}
	}
	return sources
}

// ResetSources clears every tool's recorded citations. Callers must
// invoke this after reading sources so they never leak across queries.
func (r *ToolRegistry) ResetSources() {
	for _, tool := range r.List() {
		if tracker, ok := tool.(SourceTracker); ok {
			tracker.ResetSources()
		}
	}
}
