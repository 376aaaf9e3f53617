// Package config defines the YAML configuration for tutorkit.
package config

import (
	"fmt"
)

// Config is the root configuration.
type Config struct {
	LLM           LLMConfig           `yaml:"llm,omitempty" json:"llm,omitempty" jsonschema:"title=LLM,description=Completion provider configuration"`
	Embedder      EmbedderConfig      `yaml:"embedder,omitempty" json:"embedder,omitempty" jsonschema:"title=Embedder,description=Embedding provider configuration"`
	VectorStore   VectorStoreConfig   `yaml:"vector_store,omitempty" json:"vector_store,omitempty" jsonschema:"title=Vector Store,description=Vector database configuration"`
	Search        SearchConfig        `yaml:"search,omitempty" json:"search,omitempty" jsonschema:"title=Search,description=Course content search configuration"`
	Session       SessionConfig       `yaml:"session,omitempty" json:"session,omitempty" jsonschema:"title=Session,description=Conversation session configuration"`
	Logging       LoggingConfig       `yaml:"logging,omitempty" json:"logging,omitempty" jsonschema:"title=Logging,description=Logging configuration"`
	Observability ObservabilityConfig `yaml:"observability,omitempty" json:"observability,omitempty" jsonschema:"title=Observability,description=Tracing and metrics configuration"`
}

// LLMConfig configures the completion provider.
type LLMConfig struct {
	// Provider type. Only "anthropic" is supported today.
	Type string `yaml:"type,omitempty" json:"type,omitempty" jsonschema:"title=Type,enum=anthropic,default=anthropic"`

	Model string `yaml:"model,omitempty" json:"model,omitempty" jsonschema:"title=Model,description=Model identifier"`

	// APIKey supports ${VAR} expansion.
	APIKey string `yaml:"api_key,omitempty" json:"api_key,omitempty" jsonschema:"title=API Key,description=API key (use ${ENV_VAR})"`

	Host string `yaml:"host,omitempty" json:"host,omitempty" jsonschema:"title=Host,description=API base URL"`

	// Temperature is sent explicitly on every request. Zero keeps answers
	// deterministic, which is what a grading-adjacent tool wants.
	Temperature float64 `yaml:"temperature" json:"temperature" jsonschema:"title=Temperature,minimum=0,maximum=2,default=0"`

	MaxTokens int `yaml:"max_tokens,omitempty" json:"max_tokens,omitempty" jsonschema:"title=Max Tokens,minimum=1,default=800"`

	Timeout    int `yaml:"timeout,omitempty" json:"timeout,omitempty" jsonschema:"title=Timeout,description=Request timeout in seconds,default=120"`
	MaxRetries int `yaml:"max_retries,omitempty" json:"max_retries,omitempty" jsonschema:"title=Max Retries,default=3"`
	RetryDelay int `yaml:"retry_delay,omitempty" json:"retry_delay,omitempty" jsonschema:"title=Retry Delay,description=Base retry delay in seconds,default=2"`
}

func (c *LLMConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "anthropic"
	}
	if c.Model == "" {
		c.Model = "claude-sonnet-4-20250514"
	}
	if c.Host == "" {
		c.Host = "https://api.anthropic.com"
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 800
	}
	if c.Timeout == 0 {
		c.Timeout = 120
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = 2
	}
}

func (c *LLMConfig) Validate() error {
	if c.Type != "anthropic" {
		return fmt.Errorf("unsupported llm type: %s", c.Type)
	}
	if c.APIKey == "" {
		return fmt.Errorf("llm api_key is required")
	}
	return nil
}

// EmbedderConfig configures the embedding provider.
type EmbedderConfig struct {
	// Provider type: ollama or openai.
	Type string `yaml:"type,omitempty" json:"type,omitempty" jsonschema:"title=Type,enum=ollama,enum=openai,default=ollama"`

	Model string `yaml:"model,omitempty" json:"model,omitempty" jsonschema:"title=Model"`

	Host string `yaml:"host,omitempty" json:"host,omitempty" jsonschema:"title=Host"`

	APIKey string `yaml:"api_key,omitempty" json:"api_key,omitempty" jsonschema:"title=API Key"`

	Dimension int `yaml:"dimension,omitempty" json:"dimension,omitempty" jsonschema:"title=Dimension,description=Embedding vector dimension"`

	Timeout int `yaml:"timeout,omitempty" json:"timeout,omitempty" jsonschema:"title=Timeout,default=60"`
}

func (c *EmbedderConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "ollama"
	}
	if c.Model == "" {
		switch c.Type {
		case "openai":
			c.Model = "text-embedding-3-small"
		default:
			c.Model = "nomic-embed-text"
		}
	}
	if c.Host == "" {
		switch c.Type {
		case "openai":
			c.Host = "https://api.openai.com"
		default:
			c.Host = "http://localhost:11434"
		}
	}
	if c.Dimension == 0 {
		switch c.Type {
		case "openai":
			c.Dimension = 1536
		default:
			c.Dimension = 768
		}
	}
	if c.Timeout == 0 {
		c.Timeout = 60
	}
}

func (c *EmbedderConfig) Validate() error {
	switch c.Type {
	case "ollama":
	case "openai":
		if c.APIKey == "" {
			return fmt.Errorf("embedder api_key is required for openai")
		}
	default:
		return fmt.Errorf("unsupported embedder type: %s", c.Type)
	}
	return nil
}

// VectorStoreConfig configures the vector database backend.
type VectorStoreConfig struct {
	// Backend type: chromem (embedded), chroma, or qdrant.
	Type string `yaml:"type,omitempty" json:"type,omitempty" jsonschema:"title=Type,enum=chromem,enum=chroma,enum=qdrant,default=chromem"`

	Host string `yaml:"host,omitempty" json:"host,omitempty" jsonschema:"title=Host"`
	Port int    `yaml:"port,omitempty" json:"port,omitempty" jsonschema:"title=Port"`

	// Path is the persistence directory for the embedded backend.
	Path string `yaml:"path,omitempty" json:"path,omitempty" jsonschema:"title=Path,default=./course_db"`

	APIKey string `yaml:"api_key,omitempty" json:"api_key,omitempty" jsonschema:"title=API Key"`
	UseTLS bool   `yaml:"use_tls,omitempty" json:"use_tls,omitempty" jsonschema:"title=Use TLS"`

	// Collection names for the course catalog and chunked course content.
	CatalogCollection string `yaml:"catalog_collection,omitempty" json:"catalog_collection,omitempty" jsonschema:"title=Catalog Collection,default=course_catalog"`
	ContentCollection string `yaml:"content_collection,omitempty" json:"content_collection,omitempty" jsonschema:"title=Content Collection,default=course_content"`
}

func (c *VectorStoreConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "chromem"
	}
	if c.Path == "" {
		c.Path = "./course_db"
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		switch c.Type {
		case "qdrant":
			c.Port = 6334
		case "chroma":
			c.Port = 8000
		}
	}
	if c.CatalogCollection == "" {
		c.CatalogCollection = "course_catalog"
	}
	if c.ContentCollection == "" {
		c.ContentCollection = "course_content"
	}
}

func (c *VectorStoreConfig) Validate() error {
	switch c.Type {
	case "chromem", "chroma", "qdrant":
		return nil
	default:
		return fmt.Errorf("unsupported vector store type: %s", c.Type)
	}
}

// SearchConfig configures course content retrieval.
type SearchConfig struct {
	// MaxResults per search. The store rejects values below 1 at call
	// time, so a bad override degrades to a visible search error instead
	// of silently returning nothing.
	MaxResults int `yaml:"max_results,omitempty" json:"max_results,omitempty" jsonschema:"title=Max Results,minimum=1,default=5"`
}

func (c *SearchConfig) SetDefaults() {
	if c.MaxResults == 0 {
		c.MaxResults = 5
	}
}

// SessionConfig configures conversation sessions.
type SessionConfig struct {
	// MaxHistory is the number of past exchanges kept per session.
	MaxHistory int `yaml:"max_history,omitempty" json:"max_history,omitempty" jsonschema:"title=Max History,default=2"`

	// TokenBudget caps the rendered history string; oldest exchanges are
	// dropped first when the budget is exceeded.
	TokenBudget int `yaml:"token_budget,omitempty" json:"token_budget,omitempty" jsonschema:"title=Token Budget,default=2000"`

	// Encoding is the tiktoken encoding used to measure the budget.
	Encoding string `yaml:"encoding,omitempty" json:"encoding,omitempty" jsonschema:"title=Encoding,default=cl100k_base"`
}

func (c *SessionConfig) SetDefaults() {
	if c.MaxHistory == 0 {
		c.MaxHistory = 2
	}
	if c.TokenBudget == 0 {
		c.TokenBudget = 2000
	}
	if c.Encoding == "" {
		c.Encoding = "cl100k_base"
	}
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty" json:"level,omitempty" jsonschema:"title=Level,enum=debug,enum=info,enum=warn,enum=error,default=info"`
	Format string `yaml:"format,omitempty" json:"format,omitempty" jsonschema:"title=Format,enum=simple,enum=verbose,default=simple"`
}

func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "simple"
	}
}

// ObservabilityConfig configures tracing and metrics.
type ObservabilityConfig struct {
	TracingEnabled bool   `yaml:"tracing_enabled,omitempty" json:"tracing_enabled,omitempty" jsonschema:"title=Tracing Enabled"`
	OTLPEndpoint   string `yaml:"otlp_endpoint,omitempty" json:"otlp_endpoint,omitempty" jsonschema:"title=OTLP Endpoint,default=localhost:4317"`
	MetricsEnabled bool   `yaml:"metrics_enabled,omitempty" json:"metrics_enabled,omitempty" jsonschema:"title=Metrics Enabled"`
	ServiceName    string `yaml:"service_name,omitempty" json:"service_name,omitempty" jsonschema:"title=Service Name,default=tutorkit"`
}

func (c *ObservabilityConfig) SetDefaults() {
	if c.OTLPEndpoint == "" {
		c.OTLPEndpoint = "localhost:4317"
	}
	if c.ServiceName == "" {
		c.ServiceName = "tutorkit"
	}
}

// SetDefaults applies defaults across all sections.
func (c *Config) SetDefaults() {
	c.LLM.SetDefaults()
	c.Embedder.SetDefaults()
	c.VectorStore.SetDefaults()
	c.Search.SetDefaults()
	c.Session.SetDefaults()
	c.Logging.SetDefaults()
	c.Observability.SetDefaults()
}

// Validate checks the configuration for fatal problems.
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.Embedder.Validate(); err != nil {
		return err
	}
	if err := c.VectorStore.Validate(); err != nil {
		return err
	}
	return nil
}
