package config

// Config is the umbrella configuration object that encapsulates all
// registries, defaults, and configuration state. This is the primary object
// returned by Initialize() and used throughout the application.
type Config struct {
	configDir string // Configuration directory path (for reference)

	// System-wide defaults
	Defaults  *Defaults
	Ingest    *IngestConfig
	Retention *RetentionConfig
	API       *APIConfig
	Database  *DatabaseConfig

	// Component registries
	SourceRegistry            *SourceRegistry
	LLMProviderRegistry       *LLMProviderRegistry
	EmbeddingProviderRegistry *EmbeddingProviderRegistry
}

// Initialize is defined in loader.go

// ConfigStats contains statistics about loaded configuration.
type ConfigStats struct {
	Sources            int
	LLMProviders       int
	EmbeddingProviders int
}

// Stats returns configuration statistics for logging/monitoring.
func (c *Config) Stats() ConfigStats {
	return ConfigStats{
		Sources:            c.SourceRegistry.Len(),
		LLMProviders:       c.LLMProviderRegistry.Len(),
		EmbeddingProviders: c.EmbeddingProviderRegistry.Len(),
	}
}

// ConfigDir returns the configuration directory path.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// GetSource retrieves a source configuration by id.
// This is a convenience method that wraps SourceRegistry.Get().
func (c *Config) GetSource(id string) (*SourceConfig, error) {
	return c.SourceRegistry.Get(id)
}

// GetLLMProvider retrieves an LLM provider configuration by name.
// This is a convenience method that wraps LLMProviderRegistry.Get().
func (c *Config) GetLLMProvider(name string) (*LLMProviderConfig, error) {
	return c.LLMProviderRegistry.Get(name)
}

// GetEmbeddingProvider retrieves an embedding provider configuration by name.
// This is a convenience method that wraps EmbeddingProviderRegistry.Get().
func (c *Config) GetEmbeddingProvider(name string) (*EmbeddingProviderConfig, error) {
	return c.EmbeddingProviderRegistry.Get(name)
}
