package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tutorkit/tutorkit/pkg/store"
)

// CourseRetriever is the retrieval surface the search tool depends on.
// *store.CourseStore satisfies it.
type CourseRetriever interface {
	Search(ctx context.Context, query string, courseName string, lessonNumber *int) store.SearchResults

	GetLessonLink(ctx context.Context, courseTitle string, lessonNumber int) string
}

// CourseSearchTool searches course materials with optional course and
// lesson filtering. Retrieval errors come back as text so the model
// can relay them; sources accumulate across calls until ResetSources.
type CourseSearchTool struct {
	retriever CourseRetriever

	mu      sync.Mutex
	sources []Source
}

func NewCourseSearchTool(retriever CourseRetriever) *CourseSearchTool {
	return &CourseSearchTool{
		retriever: retriever,
		sources:   make([]Source, 0),
	}
}

func (t *CourseSearchTool) GetName() string {
	return "search_course_content"
}

func (t *CourseSearchTool) GetDescription() string {
	return "Search course materials with smart course name matching and lesson filtering"
}

func (t *CourseSearchTool) GetInfo() ToolInfo {
	return ToolInfo{
		Name:        t.GetName(),
		Description: t.GetDescription(),
		Parameters: []ToolParameter{
			{
				Name:        "query",
				Type:        "string",
				Description: "What to search for in the course content",
				Required:    true,
			},
			{
				Name:        "course_name",
				Type:        "string",
				Description: "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				Required:    false,
			},
			{
				Name:        "lesson_number",
				Type:        "integer",
				Description: "Specific lesson number to search within (e.g. 1, 2, 3)",
				Required:    false,
			},
		},
	}
}

func (t *CourseSearchTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return "", fmt.Errorf("query parameter is required")
	}
	courseName, _ := args["course_name"].(string)
	lessonNumber := intArg(args, "lesson_number")

	results := t.retriever.Search(ctx, query, courseName, lessonNumber)
	if results.IsError() {
		return results.Err, nil
	}
	if results.IsEmpty() {
		return emptyMessage(courseName, lessonNumber), nil
	}
	return t.formatResults(ctx, results), nil
}

// formatResults renders one bracketed header per document followed by
// the document text, preserving retrieval order, and records one
// Source per document.
func (t *CourseSearchTool) formatResults(ctx context.Context, results store.SearchResults) string {
	formatted := make([]string, 0, len(results.Documents))
	sources := make([]Source, 0, len(results.Documents))

	for i, doc := range results.Documents {
		var meta map[string]interface{}
		if i < len(results.Metadata) {
			meta = results.Metadata[i]
		}
		courseTitle, _ := meta["course_title"].(string)
		if courseTitle == "" {
			courseTitle = "unknown"
		}

		header := fmt.Sprintf("[%s]", courseTitle)
		source := Source{Name: courseTitle}
		if lesson, ok := store.LessonNumberFrom(meta); ok {
			header = fmt.Sprintf("[%s - Lesson %d]", courseTitle, lesson)
			source.Name = fmt.Sprintf("%s - Lesson %d", courseTitle, lesson)
			source.URL = t.retriever.GetLessonLink(ctx, courseTitle, lesson)
		}

		formatted = append(formatted, header+"\n"+doc)
		sources = append(sources, source)
	}

	t.mu.Lock()
	t.sources = append(t.sources, sources...)
	t.mu.Unlock()

	return strings.Join(formatted, "\n\n")
}

func (t *CourseSearchTool) LastSources() []Source {
	t.mu.Lock()
	defer t.mu.Unlock()
	sources := make([]Source, len(t.sources))
	copy(sources, t.sources)
	return sources
}

func (t *CourseSearchTool) ResetSources() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sources = t.sources[:0]
}

func emptyMessage(courseName string, lessonNumber *int) string {
	var filters strings.Builder
	if courseName != "" {
		fmt.Fprintf(&filters, " in course '%s'", courseName)
	}
	if lessonNumber != nil {
		fmt.Fprintf(&filters, " in lesson %d", *lessonNumber)
	}
	return fmt.Sprintf("No relevant content found%s.", filters.String())
}

// intArg reads an optional integer argument. Decoded JSON numbers
// arrive as float64.
func intArg(args map[string]interface{}, key string) *int {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	var n int
	switch v := raw.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		n = int(v)
	default:
		return nil
	}
	return &n
}
