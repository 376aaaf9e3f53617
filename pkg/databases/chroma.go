package databases

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tutorkit/tutorkit/pkg/config"
)

// ChromaProvider talks to a Chroma server over its HTTP API.
type ChromaProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewChromaProvider(cfg *config.VectorStoreConfig) (*ChromaProvider, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("host is required for Chroma")
	}

	scheme := "http"
	if cfg.UseTLS {
		scheme = "https"
	}
	port := cfg.Port
	if port == 0 {
		port = 8000
	}

	return &ChromaProvider{
		baseURL:    fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, port),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (db *ChromaProvider) post(ctx context.Context, path string, payload map[string]interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", db.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if db.apiKey != "" {
		req.Header.Set("X-Api-Key", db.apiKey)
	}

	return db.httpClient.Do(req)
}

func (db *ChromaProvider) Upsert(ctx context.Context, collection string, id string, vector []float32, metadata map[string]interface{}) error {
	vector64 := make([]float64, len(vector))
	for i, v := range vector {
		vector64[i] = float64(v)
	}

	document := ""
	if content, ok := metadata["content"].(string); ok {
		document = content
	}

	resp, err := db.post(ctx, fmt.Sprintf("/api/v1/collections/%s/add", collection), map[string]interface{}{
		"ids":        []string{id},
		"embeddings": [][]float64{vector64},
		"documents":  []string{document},
		"metadatas":  []map[string]interface{}{metadata},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to upsert: status %d, body: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (db *ChromaProvider) Search(ctx context.Context, collection string, vector []float32, topK int) ([]SearchResult, error) {
	return db.SearchWithFilter(ctx, collection, vector, topK, nil)
}

func (db *ChromaProvider) SearchWithFilter(ctx context.Context, collection string, vector []float32, topK int, filter map[string]interface{}) ([]SearchResult, error) {
	vector64 := make([]float64, len(vector))
	for i, v := range vector {
		vector64[i] = float64(v)
	}

	payload := map[string]interface{}{
		"query_embeddings": [][]float64{vector64},
		"n_results":        topK,
	}
	if len(filter) > 0 {
		payload["where"] = buildChromaWhere(filter)
	}

	resp, err := db.post(ctx, fmt.Sprintf("/api/v1/collections/%s/query", collection), payload)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return convertChromaResults(result), nil
}

// buildChromaWhere builds a Chroma where clause. Chroma requires a
// single operator at the top level, so multiple equality terms are
// wrapped in $and.
func buildChromaWhere(filter map[string]interface{}) map[string]interface{} {
	if len(filter) == 1 {
		for k, v := range filter {
			return map[string]interface{}{k: v}
		}
	}

	terms := make([]map[string]interface{}, 0, len(filter))
	for k, v := range filter {
		terms = append(terms, map[string]interface{}{k: v})
	}
	return map[string]interface{}{"$and": terms}
}

// convertChromaResults flattens the nested query response. Result order
// is preserved as returned by the server.
func convertChromaResults(result map[string]interface{}) []SearchResult {
	if result == nil {
		return []SearchResult{}
	}

	// Shape: { "ids": [[...]], "distances": [[...]], "documents": [[...]], "metadatas": [[...]] }
	ids, _ := result["ids"].([]interface{})
	if len(ids) == 0 {
		return []SearchResult{}
	}

	firstIds, _ := ids[0].([]interface{})

	var firstDistances, firstDocs, firstMetas []interface{}
	if distances, _ := result["distances"].([]interface{}); len(distances) > 0 {
		firstDistances, _ = distances[0].([]interface{})
	}
	if documents, _ := result["documents"].([]interface{}); len(documents) > 0 {
		firstDocs, _ = documents[0].([]interface{})
	}
	if metadatas, _ := result["metadatas"].([]interface{}); len(metadatas) > 0 {
		firstMetas, _ = metadatas[0].([]interface{})
	}

	results := make([]SearchResult, 0, len(firstIds))
	for i := 0; i < len(firstIds); i++ {
		id, _ := firstIds[i].(string)

		score := float32(0)
		if i < len(firstDistances) {
			if distVal, ok := firstDistances[i].(float64); ok {
				score = float32(1.0 - distVal)
			}
		}

		content := ""
		if i < len(firstDocs) && firstDocs[i] != nil {
			content, _ = firstDocs[i].(string)
		}

		metadata := make(map[string]interface{})
		if i < len(firstMetas) && firstMetas[i] != nil {
			if metaVal, ok := firstMetas[i].(map[string]interface{}); ok {
				metadata = metaVal
			}
		}

		results = append(results, SearchResult{
			ID:       id,
			Score:    score,
			Content:  content,
			Metadata: metadata,
		})
	}

	return results
}

func (db *ChromaProvider) Delete(ctx context.Context, collection string, id string) error {
	resp, err := db.post(ctx, fmt.Sprintf("/api/v1/collections/%s/delete", collection), map[string]interface{}{
		"ids": []string{id},
	})
	if err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to delete: status %d, body: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (db *ChromaProvider) CreateCollection(ctx context.Context, collection string, vectorSize int) error {
	resp, err := db.post(ctx, "/api/v1/collections", map[string]interface{}{
		"name":          collection,
		"metadata":      map[string]interface{}{},
		"get_or_create": true,
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to create collection: status %d, body: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (db *ChromaProvider) DeleteCollection(ctx context.Context, collection string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", fmt.Sprintf("%s/api/v1/collections/%s", db.baseURL, collection), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if db.apiKey != "" {
		req.Header.Set("X-Api-Key", db.apiKey)
	}

	resp, err := db.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("failed to delete collection: status %d, body: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (db *ChromaProvider) Close() error {
	return nil
}

var _ Provider = (*ChromaProvider)(nil)
