// Package embedders provides text embedding providers used to vectorize
// queries and course content.
package embedders

import (
	"context"
	"fmt"

	"github.com/tutorkit/tutorkit/pkg/config"
	"github.com/tutorkit/tutorkit/pkg/registry"
)

type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	GetDimension() int

	GetModelName() string

	Close() error
}

type Registry struct {
	*registry.BaseRegistry[Provider]
}

func NewRegistry() *Registry {
	return &Registry{
		BaseRegistry: registry.NewBaseRegistry[Provider](),
	}
}

func (r *Registry) RegisterEmbedder(name string, provider Provider) error {
	if provider == nil {
		return fmt.Errorf("embedder provider cannot be nil")
	}
	return r.Register(name, provider)
}

func (r *Registry) GetEmbedder(name string) (Provider, error) {
	provider, exists := r.Get(name)
	if !exists {
		return nil, fmt.Errorf("embedder provider '%s' not found", name)
	}
	return provider, nil
}

// NewProvider builds the embedder named by the config.
func NewProvider(cfg *config.EmbedderConfig) (Provider, error) {
	switch cfg.Type {
	case "ollama":
		return NewOllamaEmbedder(cfg)
	case "openai":
		return NewOpenAIEmbedder(cfg)
	default:
		return nil, fmt.Errorf("unsupported embedder type: %s", cfg.Type)
	}
}
