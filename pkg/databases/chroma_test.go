package databases

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/tutorkit/tutorkit/pkg/config"
)

func chromaTestProvider(t *testing.T, server *httptest.Server) *ChromaProvider {
	t.Helper()

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, _ := strconv.Atoi(u.Port())

	provider, err := NewChromaProvider(&config.VectorStoreConfig{
		Type: "chroma",
		Host: u.Hostname(),
		Port: port,
	})
	if err != nil {
		t.Fatalf("NewChromaProvider() error = %v", err)
	}
	return provider
}

func TestChromaProvider_SearchWithFilter(t *testing.T) {
	var captured map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/collections/course_content/query") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&captured)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ids":       [][]string{{"doc-1", "doc-2"}},
			"distances": [][]float64{{0.1, 0.4}},
			"documents": [][]string{{"first chunk", "second chunk"}},
			"metadatas": [][]map[string]interface{}{{
				{"course_title": "Intro to AI", "lesson_number": 1},
				{"course_title": "Intro to AI", "lesson_number": 2},
			}},
		})
	}))
	defer server.Close()

	provider := chromaTestProvider(t, server)

	filter := map[string]interface{}{
		"course_title":  "Intro to AI",
		"lesson_number": 1,
	}
	results, err := provider.SearchWithFilter(context.Background(), "course_content", []float32{0.1, 0.2}, 5, filter)
	if err != nil {
		t.Fatalf("SearchWithFilter() error = %v", err)
	}

	// Two filter terms must be wrapped in $and.
	where, ok := captured["where"].(map[string]interface{})
	if !ok {
		t.Fatalf("where clause missing: %v", captured)
	}
	terms, ok := where["$and"].([]interface{})
	if !ok || len(terms) != 2 {
		t.Errorf("where = %v, want $and with 2 terms", where)
	}
	if captured["n_results"] != float64(5) {
		t.Errorf("n_results = %v, want 5", captured["n_results"])
	}

	if len(results) != 2 {
		t.Fatalf("results length = %d, want 2", len(results))
	}
	// Server order is preserved, no re-ranking.
	if results[0].ID != "doc-1" || results[1].ID != "doc-2" {
		t.Errorf("result order = [%s %s], want [doc-1 doc-2]", results[0].ID, results[1].ID)
	}
	if results[0].Content != "first chunk" {
		t.Errorf("Content = %q", results[0].Content)
	}
	// Distance 0.1 becomes similarity 0.9.
	if results[0].Score < 0.89 || results[0].Score > 0.91 {
		t.Errorf("Score = %v, want ~0.9", results[0].Score)
	}
}

func TestChromaProvider_SingleFilterNotWrapped(t *testing.T) {
	var captured map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"ids": [][]string{{}}})
	}))
	defer server.Close()

	provider := chromaTestProvider(t, server)

	_, err := provider.SearchWithFilter(context.Background(), "c", []float32{0.1}, 3,
		map[string]interface{}{"course_title": "Docker Basics"})
	if err != nil {
		t.Fatalf("SearchWithFilter() error = %v", err)
	}

	where, _ := captured["where"].(map[string]interface{})
	if where["course_title"] != "Docker Basics" {
		t.Errorf("where = %v, want direct equality term", where)
	}
	if _, hasAnd := where["$and"]; hasAnd {
		t.Error("single filter should not be wrapped in $and")
	}
}

func TestChromaProvider_ResponseMissingDistances(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Some responses carry ids without distances, documents, or metadatas.
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ids": [][]string{{"doc-1", "doc-2"}},
		})
	}))
	defer server.Close()

	provider := chromaTestProvider(t, server)

	results, err := provider.Search(context.Background(), "course_content", []float32{0.1}, 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results length = %d, want 2", len(results))
	}
	if results[0].ID != "doc-1" || results[0].Score != 0 || results[0].Content != "" {
		t.Errorf("results[0] = %+v, want id doc-1 with zero score and empty content", results[0])
	}
	if results[1].Metadata == nil || len(results[1].Metadata) != 0 {
		t.Errorf("Metadata = %v, want empty map", results[1].Metadata)
	}
}

func TestChromaProvider_SearchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("collection not found"))
	}))
	defer server.Close()

	provider := chromaTestProvider(t, server)

	if _, err := provider.Search(context.Background(), "missing", []float32{0.1}, 5); err == nil {
		t.Fatal("Search() should fail on HTTP 500")
	}
}

func TestNewChromaProvider_RequiresHost(t *testing.T) {
	if _, err := NewChromaProvider(&config.VectorStoreConfig{Type: "chroma"}); err == nil {
		t.Fatal("NewChromaProvider() should require a host")
	}
}
