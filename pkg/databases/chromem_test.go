package databases

import (
	"context"
	"testing"

	"github.com/tutorkit/tutorkit/pkg/config"
)

func newTestChromem(t *testing.T) *ChromemProvider {
	t.Helper()
	provider, err := NewChromemProvider(&config.VectorStoreConfig{Type: "chromem"})
	if err != nil {
		t.Fatalf("NewChromemProvider() error = %v", err)
	}
	return provider
}

func TestChromemProvider_UpsertAndSearch(t *testing.T) {
	provider := newTestChromem(t)
	ctx := context.Background()

	docs := []struct {
		id     string
		vector []float32
		meta   map[string]interface{}
	}{
		{"c1", []float32{1, 0, 0}, map[string]interface{}{
			"content": "Lesson on neural networks", "course_title": "Intro to AI", "lesson_number": 1}},
		{"c2", []float32{0, 1, 0}, map[string]interface{}{
			"content": "Lesson on containers", "course_title": "Docker Basics", "lesson_number": 1}},
	}
	for _, d := range docs {
		if err := provider.Upsert(ctx, "course_content", d.id, d.vector, d.meta); err != nil {
			t.Fatalf("Upsert(%s) error = %v", d.id, err)
		}
	}

	results, err := provider.Search(ctx, "course_content", []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results length = %d, want 2", len(results))
	}
	if results[0].ID != "c1" {
		t.Errorf("best match = %s, want c1", results[0].ID)
	}
	if results[0].Content != "Lesson on neural networks" {
		t.Errorf("Content = %q", results[0].Content)
	}
}

func TestChromemProvider_SearchWithFilter(t *testing.T) {
	provider := newTestChromem(t)
	ctx := context.Background()

	meta := func(course string, lesson int, content string) map[string]interface{} {
		return map[string]interface{}{
			"content": content, "course_title": course, "lesson_number": lesson,
		}
	}
	provider.Upsert(ctx, "course_content", "a", []float32{1, 0}, meta("Intro to AI", 1, "ai text"))
	provider.Upsert(ctx, "course_content", "b", []float32{0.9, 0.1}, meta("Docker Basics", 1, "docker text"))

	results, err := provider.SearchWithFilter(ctx, "course_content", []float32{1, 0}, 5,
		map[string]interface{}{"course_title": "Docker Basics"})
	if err != nil {
		t.Fatalf("SearchWithFilter() error = %v", err)
	}
	if len(results) != 1 || results[0].ID != "b" {
		t.Fatalf("filtered results = %+v, want only b", results)
	}

	// chromem stringifies metadata values on write.
	if results[0].Metadata["lesson_number"] != "1" {
		t.Errorf("lesson_number metadata = %v, want string \"1\"", results[0].Metadata["lesson_number"])
	}
}

func TestChromemProvider_EmptyCollection(t *testing.T) {
	provider := newTestChromem(t)

	results, err := provider.Search(context.Background(), "empty", []float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("Search() on empty collection error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results length = %d, want 0", len(results))
	}
}

func TestChromemProvider_DeleteCollection(t *testing.T) {
	provider := newTestChromem(t)
	ctx := context.Background()

	provider.Upsert(ctx, "tmp", "x", []float32{1}, map[string]interface{}{"content": "text"})
	if err := provider.DeleteCollection(ctx, "tmp"); err != nil {
		t.Fatalf("DeleteCollection() error = %v", err)
	}

	results, err := provider.Search(ctx, "tmp", []float32{1}, 1)
	if err != nil {
		t.Fatalf("Search() after delete error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results after delete = %d, want 0", len(results))
	}
}
