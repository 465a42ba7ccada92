package config

// mergeSources merges built-in and user-defined source configurations.
// User-defined sources override built-in sources with the same id.
func mergeSources(builtinSources map[string]SourceConfig, userSources map[string]SourceConfig) map[string]SourceConfig {
	result := make(map[string]SourceConfig, len(builtinSources)+len(userSources))
	for id, s := range builtinSources {
		result[id] = s
	}
	for id, s := range userSources {
		result[id] = s
	}
	return result
}

// mergeLLMProviders merges built-in and user-defined LLM provider
// configurations. User-defined providers override built-in providers with
// the same name.
func mergeLLMProviders(builtinProviders map[string]LLMProviderConfig, userProviders map[string]LLMProviderConfig) map[string]LLMProviderConfig {
	result := make(map[string]LLMProviderConfig, len(builtinProviders)+len(userProviders))
	for name, p := range builtinProviders {
		result[name] = p
	}
	for name, p := range userProviders {
		result[name] = p
	}
	return result
}

// mergeEmbeddingProviders merges built-in and user-defined embedding
// provider configurations, same override semantics as mergeLLMProviders.
func mergeEmbeddingProviders(builtinProviders map[string]EmbeddingProviderConfig, userProviders map[string]EmbeddingProviderConfig) map[string]EmbeddingProviderConfig {
	result := make(map[string]EmbeddingProviderConfig, len(builtinProviders)+len(userProviders))
	for name, p := range builtinProviders {
		result[name] = p
	}
	for name, p := range userProviders {
		result[name] = p
	}
	return result
}
