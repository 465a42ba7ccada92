package config

// BuiltinConfig bundles the configuration shipped with the binary, merged
// with user-supplied YAML at load time (user entries win on id collision).
type BuiltinConfig struct {
	Sources            map[string]SourceConfig
	LLMProviders        map[string]LLMProviderConfig
	EmbeddingProviders  map[string]EmbeddingProviderConfig
	DefaultLLMProvider  string
	DefaultEmbeddingKey string
}

// GetBuiltinConfig returns the built-in configuration. It ships no sources
// (a deployment is useless without at least one configured) and one
// provider entry per kind so `pulsefeed.yaml` only needs to supply API keys
// via environment variables for the common case.
func GetBuiltinConfig() *BuiltinConfig {
	return &BuiltinConfig{
		Sources: map[string]SourceConfig{},
		LLMProviders: map[string]LLMProviderConfig{
			"default": {
				Name:        "default",
				BaseURL:     "https://api.openai.com/v1",
				Model:       "gpt-4o-mini",
				APIKeyEnv:   "LLM_API_KEY",
				TimeoutSecs: 30,
			},
		},
		EmbeddingProviders: map[string]EmbeddingProviderConfig{
			"default": {
				Name:        "default",
				BaseURL:     "https://api.openai.com/v1",
				Model:       "text-embedding-3-small",
				APIKeyEnv:   "EMBEDDING_API_KEY",
				Dimension:   1536,
				TimeoutSecs: 30,
				BatchLimit:  96,
			},
		},
		DefaultLLMProvider:  "default",
		DefaultEmbeddingKey: "default",
	}
}
