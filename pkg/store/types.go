// Package store implements the course store: a retrieval layer over a
// vector database holding a course catalog collection and a chunked
// course content collection.
package store

// SearchResults carries one retrieval outcome. Documents, Metadata and
// Distances are index-aligned. Err is an error-as-value channel: a
// non-empty Err means the retrieval failed, while zero documents with
// an empty Err is a valid "nothing found" outcome.
type SearchResults struct {
	Documents []string                 `json:"documents"`
	Metadata  []map[string]interface{} `json:"metadata"`
	Distances []float64                `json:"distances"`
	Err       string                   `json:"error,omitempty"`
}

// ErrorResults builds an empty result carrying an error message.
func ErrorResults(msg string) SearchResults {
	return SearchResults{
		Documents: []string{},
		Metadata:  []map[string]interface{}{},
		Distances: []float64{},
		Err:       msg,
	}
}

// IsError reports whether the retrieval failed.
func (r SearchResults) IsError() bool {
	return r.Err != ""
}

// IsEmpty reports whether the retrieval succeeded but matched nothing.
func (r SearchResults) IsEmpty() bool {
	return r.Err == "" && len(r.Documents) == 0
}

// Lesson is one lesson within a course.
type Lesson struct {
	Number int    `json:"lesson_number"`
	Title  string `json:"lesson_title"`
	Link   string `json:"lesson_link,omitempty"`
}

// Course is a catalog entry.
type Course struct {
	Title      string   `json:"title"`
	Link       string   `json:"course_link,omitempty"`
	Instructor string   `json:"instructor,omitempty"`
	Lessons    []Lesson `json:"lessons"`
}

// CourseChunk is one embeddable slice of course content.
type CourseChunk struct {
	Content      string `json:"content"`
	CourseTitle  string `json:"course_title"`
	LessonNumber *int   `json:"lesson_number,omitempty"`
	ChunkIndex   int    `json:"chunk_index"`
}
