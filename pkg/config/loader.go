package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// PulseFeedYAMLConfig represents the complete pulsefeed.yaml file structure.
type PulseFeedYAMLConfig struct {
	Defaults           *Defaults                          `yaml:"defaults"`
	Ingest             *IngestConfig                       `yaml:"ingest"`
	Retention          *RetentionConfig                    `yaml:"retention"`
	API                *APIConfig                          `yaml:"api"`
	Database           *DatabaseConfig                     `yaml:"database"`
	Sources            map[string]SourceConfig             `yaml:"sources"`
	LLMProviders       map[string]LLMProviderConfig        `yaml:"llm_providers"`
	EmbeddingProviders map[string]EmbeddingProviderConfig  `yaml:"embedding_providers"`
	DefaultLLMProvider string                              `yaml:"default_llm_provider"`
	DefaultEmbedding   string                              `yaml:"default_embedding_provider"`
}

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load pulsefeed.yaml from configDir
//  2. Expand environment variables
//  3. Parse YAML into structs
//  4. Merge built-in + user-defined sources and providers
//  5. Build in-memory registries
//  6. Apply default values
//  7. Validate all configuration
//  8. Return Config ready for use
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("Initializing configuration")

	cfg, err := load(ctx, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	stats := cfg.Stats()
	log.Info("Configuration initialized successfully",
		"sources", stats.Sources,
		"llm_providers", stats.LLMProviders,
		"embedding_providers", stats.EmbeddingProviders)

	return cfg, nil
}

// load is the internal loader (not exported).
func load(_ context.Context, configDir string) (*Config, error) {
	loader := &configLoader{configDir: configDir}

	yamlCfg, err := loader.loadPulseFeedYAML()
	if err != nil {
		return nil, NewLoadError("pulsefeed.yaml", err)
	}

	builtin := GetBuiltinConfig()

	sources := mergeSources(builtin.Sources, yamlCfg.Sources)
	llmProviders := mergeLLMProviders(builtin.LLMProviders, yamlCfg.LLMProviders)
	embeddingProviders := mergeEmbeddingProviders(builtin.EmbeddingProviders, yamlCfg.EmbeddingProviders)

	defaultLLM := yamlCfg.DefaultLLMProvider
	if defaultLLM == "" {
		defaultLLM = builtin.DefaultLLMProvider
	}
	defaultEmbedding := yamlCfg.DefaultEmbedding
	if defaultEmbedding == "" {
		defaultEmbedding = builtin.DefaultEmbeddingKey
	}

	sourceRegistry := NewSourceRegistry(sources)
	llmProviderRegistry := NewLLMProviderRegistry(llmProviders, defaultLLM)
	embeddingProviderRegistry := NewEmbeddingProviderRegistry(embeddingProviders, defaultEmbedding)

	defaults := DefaultValues()
	if yamlCfg.Defaults != nil {
		if err := mergo.Merge(defaults, yamlCfg.Defaults, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge defaults: %w", err)
		}
	}

	ingestCfg := DefaultIngestConfig()
	if yamlCfg.Ingest != nil {
		if err := mergo.Merge(ingestCfg, yamlCfg.Ingest, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge ingest config: %w", err)
		}
	}

	retentionCfg := DefaultRetentionConfig()
	if yamlCfg.Retention != nil {
		if err := mergo.Merge(retentionCfg, yamlCfg.Retention, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge retention config: %w", err)
		}
	}

	apiCfg := &APIConfig{Listen: ":8080", APIKeyEnv: "PULSEFEED_API_KEY"}
	if yamlCfg.API != nil {
		if err := mergo.Merge(apiCfg, yamlCfg.API, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge API config: %w", err)
		}
	}

	dbCfg := &DatabaseConfig{
		Host: "localhost", Port: 5432, User: "pulsefeed",
		PasswordEnv: "PULSEFEED_DB_PASSWORD", Database: "pulsefeed",
		SSLMode: "disable", MaxOpenConns: 10, MaxIdleConns: 5,
	}
	if yamlCfg.Database != nil {
		if err := mergo.Merge(dbCfg, yamlCfg.Database, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge database config: %w", err)
		}
	}

	return &Config{
		configDir:                 configDir,
		Defaults:                  defaults,
		Ingest:                    ingestCfg,
		Retention:                 retentionCfg,
		API:                       apiCfg,
		Database:                  dbCfg,
		SourceRegistry:            sourceRegistry,
		LLMProviderRegistry:       llmProviderRegistry,
		EmbeddingProviderRegistry: embeddingProviderRegistry,
	}, nil
}

// validate performs comprehensive validation on loaded configuration.
func validate(cfg *Config) error {
	v := NewValidator(cfg)
	return v.ValidateAll()
}

type configLoader struct {
	configDir string
}

func (l *configLoader) loadYAML(filename string, target any) error {
	path := filepath.Join(l.configDir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}

	// Note: ExpandEnv has no error path; unset variables expand to the empty
	// string and the YAML parser below reports any resulting syntax problem.
	data = ExpandEnv(data)

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return nil
}

func (l *configLoader) loadPulseFeedYAML() (*PulseFeedYAMLConfig, error) {
	var cfg PulseFeedYAMLConfig
	cfg.Sources = make(map[string]SourceConfig)
	cfg.LLMProviders = make(map[string]LLMProviderConfig)
	cfg.EmbeddingProviders = make(map[string]EmbeddingProviderConfig)

	if err := l.loadYAML("pulsefeed.yaml", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
