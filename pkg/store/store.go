package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/tutorkit/tutorkit/pkg/config"
	"github.com/tutorkit/tutorkit/pkg/databases"
	"github.com/tutorkit/tutorkit/pkg/embedders"
)

// CourseStore wraps a vector database with course-aware retrieval.
// Two collections back it: the catalog holds one entry per course
// (title embedding plus lesson metadata), the content collection holds
// the embedded chunks searched at query time.
type CourseStore struct {
	db       databases.Provider
	embedder embedders.Provider

	catalogCollection string
	contentCollection string
	maxResults        int

	mu      sync.RWMutex
	courses map[string]*Course
	titles  []string
}

// NewCourseStore builds a store over the given backend and embedder.
func NewCourseStore(db databases.Provider, embedder embedders.Provider, storeCfg *config.VectorStoreConfig, searchCfg *config.SearchConfig) (*CourseStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database provider is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	return &CourseStore{
		db:                db,
		embedder:          embedder,
		catalogCollection: storeCfg.CatalogCollection,
		contentCollection: storeCfg.ContentCollection,
		maxResults:        searchCfg.MaxResults,
		courses:           make(map[string]*Course),
	}, nil
}

// Search runs one semantic retrieval over the content collection.
// courseName, when non-empty, is resolved against the catalog to an
// exact title before filtering; lessonNumber, when non-nil, restricts
// matches to that lesson. All failures come back as an error value in
// SearchResults.Err so callers can forward them as text.
func (s *CourseStore) Search(ctx context.Context, query string, courseName string, lessonNumber *int) SearchResults {
	if s.maxResults < 1 {
		return ErrorResults(fmt.Sprintf("Search error: max results must be at least 1, got %d", s.maxResults))
	}

	filter := make(map[string]interface{})
	if courseName != "" {
		title, err := s.ResolveCourseName(ctx, courseName)
		if err != nil {
			return ErrorResults(fmt.Sprintf("Search error: %v", err))
		}
		if title == "" {
			return ErrorResults(fmt.Sprintf("No course found matching '%s'", courseName))
		}
		filter["course_title"] = title
	}
	if lessonNumber != nil {
		filter["lesson_number"] = *lessonNumber
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return ErrorResults(fmt.Sprintf("Search error: %v", err))
	}

	var hits []databases.SearchResult
	if len(filter) > 0 {
		hits, err = s.db.SearchWithFilter(ctx, s.contentCollection, vector, s.maxResults, filter)
	} else {
		hits, err = s.db.Search(ctx, s.contentCollection, vector, s.maxResults)
	}
	if err != nil {
		return ErrorResults(fmt.Sprintf("Search error: %v", err))
	}

	results := SearchResults{
		Documents: make([]string, 0, len(hits)),
		Metadata:  make([]map[string]interface{}, 0, len(hits)),
		Distances: make([]float64, 0, len(hits)),
	}
	for _, hit := range hits {
		results.Documents = append(results.Documents, hit.Content)
		results.Metadata = append(results.Metadata, hit.Metadata)
		results.Distances = append(results.Distances, 1.0-float64(hit.Score))
	}
	return results
}

// ResolveCourseName maps a partial or fuzzy course name to the exact
// catalog title via a semantic lookup. An empty string means no course
// matched.
func (s *CourseStore) ResolveCourseName(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	if _, ok := s.courses[name]; ok {
		s.mu.RUnlock()
		return name, nil
	}
	s.mu.RUnlock()

	vector, err := s.embedder.Embed(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to embed course name: %w", err)
	}
	hits, err := s.db.Search(ctx, s.catalogCollection, vector, 1)
	if err != nil {
		return "", fmt.Errorf("course catalog lookup failed: %w", err)
	}
	if len(hits) == 0 {
		return "", nil
	}
	title, _ := hits[0].Metadata["title"].(string)
	return title, nil
}

// GetLessonLink returns the URL for a lesson, or empty string when the
// course or lesson has no link.
func (s *CourseStore) GetLessonLink(ctx context.Context, courseTitle string, lessonNumber int) string {
	course := s.lookupCourse(ctx, courseTitle)
	if course == nil {
		return ""
	}
	for _, lesson := range course.Lessons {
		if lesson.Number == lessonNumber {
			return lesson.Link
		}
	}
	return ""
}

// GetCourseLink returns the course-level URL, or empty string.
func (s *CourseStore) GetCourseLink(ctx context.Context, courseTitle string) string {
	course := s.lookupCourse(ctx, courseTitle)
	if course == nil {
		return ""
	}
	return course.Link
}

func (s *CourseStore) lookupCourse(ctx context.Context, title string) *Course {
	s.mu.RLock()
	course, ok := s.courses[title]
	s.mu.RUnlock()
	if ok {
		return course
	}

	vector, err := s.embedder.Embed(ctx, title)
	if err != nil {
		slog.Debug("course lookup embed failed", "title", title, "error", err)
		return nil
	}
	hits, err := s.db.SearchWithFilter(ctx, s.catalogCollection, vector, 1, map[string]interface{}{"title": title})
	if err != nil || len(hits) == 0 {
		return nil
	}
	course = courseFromMetadata(hits[0].Metadata)
	if course == nil {
		return nil
	}

	s.mu.Lock()
	if _, exists := s.courses[course.Title]; !exists {
		s.courses[course.Title] = course
		s.titles = append(s.titles, course.Title)
	}
	s.mu.Unlock()
	return course
}

// AddCourseMetadata registers a course in the catalog collection. The
// course title is embedded so fuzzy name resolution can find it; the
// lesson list rides along as JSON metadata.
func (s *CourseStore) AddCourseMetadata(ctx context.Context, course *Course) error {
	if course == nil || course.Title == "" {
		return fmt.Errorf("course title is required")
	}
	vector, err := s.embedder.Embed(ctx, course.Title)
	if err != nil {
		return fmt.Errorf("failed to embed course title: %w", err)
	}
	lessonsJSON, err := json.Marshal(course.Lessons)
	if err != nil {
		return fmt.Errorf("failed to serialize lessons: %w", err)
	}

	metadata := map[string]interface{}{
		"title":        course.Title,
		"instructor":   course.Instructor,
		"course_link":  course.Link,
		"lessons_json": string(lessonsJSON),
		"lesson_count": len(course.Lessons),
	}
	if err := s.db.Upsert(ctx, s.catalogCollection, courseID(course.Title), vector, metadata); err != nil {
		return fmt.Errorf("failed to store course metadata: %w", err)
	}

	s.mu.Lock()
	if _, exists := s.courses[course.Title]; !exists {
		s.titles = append(s.titles, course.Title)
	}
	s.courses[course.Title] = course
	s.mu.Unlock()

	slog.Info("course registered", "title", course.Title, "lessons", len(course.Lessons))
	return nil
}

// AddCourseContent embeds and stores content chunks.
func (s *CourseStore) AddCourseContent(ctx context.Context, chunks []CourseChunk) error {
	for i, chunk := range chunks {
		vector, err := s.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}
		metadata := map[string]interface{}{
			"content":      chunk.Content,
			"course_title": chunk.CourseTitle,
			"chunk_index":  chunk.ChunkIndex,
		}
		if chunk.LessonNumber != nil {
			metadata["lesson_number"] = *chunk.LessonNumber
		}
		id := fmt.Sprintf("%s_%d", courseID(chunk.CourseTitle), chunk.ChunkIndex)
		if err := s.db.Upsert(ctx, s.contentCollection, id, vector, metadata); err != nil {
			return fmt.Errorf("failed to store chunk %d: %w", i, err)
		}
	}
	return nil
}

// CourseCount returns the number of registered courses.
func (s *CourseStore) CourseCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.titles)
}

// CourseTitles returns registered course titles in registration order.
func (s *CourseStore) CourseTitles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	titles := make([]string, len(s.titles))
	copy(titles, s.titles)
	return titles
}

// Clear drops both collections and the in-memory catalog.
func (s *CourseStore) Clear(ctx context.Context) error {
	if err := s.db.DeleteCollection(ctx, s.catalogCollection); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}
	if err := s.db.DeleteCollection(ctx, s.contentCollection); err != nil {
		return fmt.Errorf("failed to clear content: %w", err)
	}
	s.mu.Lock()
	s.courses = make(map[string]*Course)
	s.titles = nil
	s.mu.Unlock()
	return nil
}

func courseFromMetadata(metadata map[string]interface{}) *Course {
	title, _ := metadata["title"].(string)
	if title == "" {
		return nil
	}
	course := &Course{Title: title}
	course.Instructor, _ = metadata["instructor"].(string)
	course.Link, _ = metadata["course_link"].(string)
	if raw, ok := metadata["lessons_json"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &course.Lessons); err != nil {
			slog.Debug("malformed lessons metadata", "title", title, "error", err)
		}
	}
	return course
}

func courseID(title string) string {
	return strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
}

// LessonNumberFrom extracts a lesson number from document metadata.
// Backends differ in how they round-trip numerics (chromem stores
// strings, JSON decoding yields float64), so all of those are accepted.
func LessonNumberFrom(metadata map[string]interface{}) (int, bool) {
	raw, ok := metadata["lesson_number"]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
