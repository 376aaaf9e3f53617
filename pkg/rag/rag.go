// Package rag assembles the full answering pipeline: embedder, vector
// store, course store, search tool, completion provider, generation
// loop and session history.
package rag

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tutorkit/tutorkit/pkg/config"
	"github.com/tutorkit/tutorkit/pkg/databases"
	"github.com/tutorkit/tutorkit/pkg/embedders"
	"github.com/tutorkit/tutorkit/pkg/generator"
	"github.com/tutorkit/tutorkit/pkg/llms"
	"github.com/tutorkit/tutorkit/pkg/observability"
	"github.com/tutorkit/tutorkit/pkg/session"
	"github.com/tutorkit/tutorkit/pkg/store"
	"github.com/tutorkit/tutorkit/pkg/tools"
)

// responseGenerator matches *generator.Generator.
type responseGenerator interface {
	Generate(ctx context.Context, query string, history string, tools []llms.ToolDefinition, runner generator.ToolRunner) (string, error)
}

// Analytics summarizes the loaded course corpus.
type Analytics struct {
	TotalCourses int      `json:"total_courses"`
	CourseTitles []string `json:"course_titles"`
}

// RAGSystem answers questions about course materials. One instance
// serves many sessions; Query is not safe for concurrent use against
// the same tool registry because sources accumulate per query.
type RAGSystem struct {
	config    *config.Config
	provider  llms.Provider
	generator responseGenerator
	registry  *tools.ToolRegistry
	store     *store.CourseStore
	sessions  *session.Manager

	db       databases.Provider
	embedder embedders.Provider
}

// New wires the pipeline from configuration.
func New(cfg *config.Config) (*RAGSystem, error) {
	embedder, err := embedders.NewProvider(&cfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	db, err := databases.NewProvider(&cfg.VectorStore)
	if err != nil {
		return nil, fmt.Errorf("failed to create vector store: %w", err)
	}
	courseStore, err := store.NewCourseStore(db, embedder, &cfg.VectorStore, &cfg.Search)
	if err != nil {
		return nil, fmt.Errorf("failed to create course store: %w", err)
	}

	registry := tools.NewToolRegistry()
	if err := registry.RegisterTool(tools.NewCourseSearchTool(courseStore)); err != nil {
		return nil, fmt.Errorf("failed to register search tool: %w", err)
	}

	provider, err := llms.NewProvider(&cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create completion provider: %w", err)
	}

	return &RAGSystem{
		config:    cfg,
		provider:  provider,
		generator: generator.New(provider),
		registry:  registry,
		store:     courseStore,
		sessions:  session.NewManager(&cfg.Session),
		db:        db,
		embedder:  embedder,
	}, nil
}

// Query answers one question. sessionID may be empty for a one-shot
// query; when set, session history is included in the prompt and the
// exchange is recorded afterwards. Sources accumulated by the search
// tool are returned and cleared.
func (r *RAGSystem) Query(ctx context.Context, query string, sessionID string) (string, []tools.Source, error) {
	tracer := observability.GetTracer("tutorkit.rag")
	ctx, span := tracer.Start(ctx, observability.SpanQuery,
		trace.WithAttributes(attribute.String(observability.AttrSessionID, sessionID)),
	)
	defer span.End()

	startTime := time.Now()

	var history string
	if sessionID != "" {
		history = r.sessions.History(sessionID)
	}

	prompt := fmt.Sprintf("Answer this question about course materials: %s", query)
	answer, err := r.generator.Generate(ctx, prompt, history, r.registry.Declarations(), r.registry)

	if metrics := observability.GetGlobalMetrics(); metrics != nil {
		metrics.RecordQuery(ctx, time.Since(startTime), err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", nil, fmt.Errorf("query failed: %w", err)
	}

	sources := r.registry.LastSources()
	r.registry.ResetSources()

	if sessionID != "" {
		r.sessions.AddExchange(sessionID, query, answer)
	}

	span.SetAttributes(attribute.Int("query.sources", len(sources)))
	return answer, sources, nil
}

// Analytics reports what the course store currently holds.
func (r *RAGSystem) Analytics() Analytics {
	return Analytics{
		TotalCourses: r.store.CourseCount(),
		CourseTitles: r.store.CourseTitles(),
	}
}

// Store exposes the course store for loading course data.
func (r *RAGSystem) Store() *store.CourseStore {
	return r.store
}

// Sessions exposes the session manager.
func (r *RAGSystem) Sessions() *session.Manager {
	return r.sessions
}

// Close releases provider resources.
func (r *RAGSystem) Close() error {
	var firstErr error
	if err := r.provider.Close(); err != nil {
		firstErr = err
	}
	if err := r.embedder.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := r.db.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
