// Package databases provides vector database backends behind a common
// provider interface. Filters are flat metadata maps; each backend
// translates them into its native where clause.
package databases

import (
	"context"
	"fmt"

	"github.com/tutorkit/tutorkit/pkg/config"
	"github.com/tutorkit/tutorkit/pkg/registry"
)

// Provider is a vector database backend.
type Provider interface {
	Upsert(ctx context.Context, collection string, id string, vector []float32, metadata map[string]interface{}) error

	Search(ctx context.Context, collection string, vector []float32, topK int) ([]SearchResult, error)

	SearchWithFilter(ctx context.Context, collection string, vector []float32, topK int, filter map[string]interface{}) ([]SearchResult, error)

	Delete(ctx context.Context, collection string, id string) error

	DeleteCollection(ctx context.Context, collection string) error

	CreateCollection(ctx context.Context, collection string, vectorSize int) error

	Close() error
}

// SearchResult is one scored match. Score is a similarity in [0, 1]
// where higher is closer.
type SearchResult struct {
	ID       string                 `json:"id"`
	Score    float32                `json:"score"`
	Content  string                 `json:"content"`
	Metadata map[string]interface{} `json:"metadata"`
}

type Registry struct {
	*registry.BaseRegistry[Provider]
}

func NewRegistry() *Registry {
	return &Registry{
		BaseRegistry: registry.NewBaseRegistry[Provider](),
	}
}

func (r *Registry) RegisterProvider(name string, provider Provider) error {
	if provider == nil {
		return fmt.Errorf("database provider cannot be nil")
	}
	return r.Register(name, provider)
}

func (r *Registry) GetProvider(name string) (Provider, error) {
	provider, exists := r.Get(name)
	if !exists {
		return nil, fmt.Errorf("database provider '%s' not found", name)
	}
	return provider, nil
}

// NewProvider builds the backend named by the config.
func NewProvider(cfg *config.VectorStoreConfig) (Provider, error) {
	switch cfg.Type {
	case "chromem":
		return NewChromemProvider(cfg)
	case "chroma":
		return NewChromaProvider(cfg)
	case "qdrant":
		return NewQdrantProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported vector store type: %s", cfg.Type)
	}
}
