package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/tutorkit/tutorkit/pkg/config"
	"github.com/tutorkit/tutorkit/pkg/observability"
	"github.com/tutorkit/tutorkit/pkg/rag"
	"github.com/tutorkit/tutorkit/pkg/tools"
)

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.Default()
}

// buildSystem loads configuration, initializes observability and wires
// the answering pipeline.
func buildSystem(ctx context.Context, cli *CLI) (*rag.RAGSystem, error) {
	cfg, err := loadConfig(cli.Config)
	if err != nil {
		return nil, err
	}

	if cfg.Observability.TracingEnabled {
		if _, err := observability.InitGlobalTracer(ctx, observability.TracerConfig{
			Enabled:      true,
			Endpoint:     cfg.Observability.OTLPEndpoint,
			SamplingRate: 1.0,
			ServiceName:  cfg.Observability.ServiceName,
		}); err != nil {
			slog.Warn("tracing disabled", "error", err)
		}
	}
	if cli.MetricsPort > 0 || cfg.Observability.MetricsEnabled {
		metrics, err := observability.InitMetrics(observability.MetricsConfig{Enabled: true, Port: cli.MetricsPort})
		if err != nil {
			slog.Warn("metrics disabled", "error", err)
		} else {
			observability.SetGlobalMetrics(metrics)
			if cli.MetricsPort > 0 {
				go func() {
					if err := observability.ServeMetrics(cli.MetricsPort); err != nil {
						slog.Error("metrics server stopped", "error", err)
					}
				}()
			}
		}
	}

	return rag.New(cfg)
}

func printSources(sources []tools.Source) {
	if len(sources) == 0 {
		return
	}
	fmt.Println("\nSources:")
	for _, source := range sources {
		if source.URL != "" {
			fmt.Printf("  - %s (%s)\n", source.Name, source.URL)
		} else {
			fmt.Printf("  - %s\n", source.Name)
		}
	}
}

// AskCmd answers one question and exits.
type AskCmd struct {
	Question string `arg:"" help:"Question to answer."`
}

func (c *AskCmd) Run(cli *CLI) error {
	ctx := context.Background()
	system, err := buildSystem(ctx, cli)
	if err != nil {
		return err
	}
	defer system.Close()

	answer, sources, err := system.Query(ctx, c.Question, "")
	if err != nil {
		return err
	}
	fmt.Println(answer)
	printSources(sources)
	return nil
}

// ChatCmd runs an interactive loop sharing one session.
type ChatCmd struct{}

func (c *ChatCmd) Run(cli *CLI) error {
	ctx := context.Background()
	system, err := buildSystem(ctx, cli)
	if err != nil {
		return err
	}
	defer system.Close()

	sessionID := system.Sessions().Create()
	fmt.Println("Ask about your course materials. Type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" || question == "quit" {
			break
		}

		answer, sources, err := system.Query(ctx, question, sessionID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		fmt.Println(answer)
		printSources(sources)
	}
	return scanner.Err()
}

// CoursesCmd prints course analytics.
type CoursesCmd struct{}

func (c *CoursesCmd) Run(cli *CLI) error {
	ctx := context.Background()
	system, err := buildSystem(ctx, cli)
	if err != nil {
		return err
	}
	defer system.Close()

	analytics := system.Analytics()
	fmt.Printf("Total courses: %d\n", analytics.TotalCourses)
	for _, title := range analytics.CourseTitles {
		fmt.Printf("  - %s\n", title)
	}
	return nil
}
