package llms

import (
	"fmt"

	"github.com/tutorkit/tutorkit/pkg/config"
)

// NewProvider builds the completion provider named by the config.
func NewProvider(cfg *config.LLMConfig) (Provider, error) {
	switch cfg.Type {
	case "anthropic":
		return NewAnthropicProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider type: %s", cfg.Type)
	}
}
