package config

// SourceKind distinguishes the two concrete C1 adapter implementations.
type SourceKind string

const (
	SourceKindCalendar SourceKind = "calendar"
	SourceKindFeed     SourceKind = "feed"
)

// SourceConfig describes one external source adapter instance.
type SourceConfig struct {
	ID          string     `yaml:"id" validate:"required"`
	Kind        SourceKind `yaml:"kind" validate:"required,oneof=calendar feed"`
	DisplayName string     `yaml:"display_name,omitempty"`

	// URL is the feed/calendar endpoint. May contain ${VAR} references that
	// ExpandEnv resolves before the source is wired; the resolved form is
	// never logged or persisted in breadcrumbs (see RedactURL).
	URL string `yaml:"url" validate:"required,url"`

	// Organizer, used as a hostContext fallback when the payload declares
	// none.
	Organizer string `yaml:"organizer,omitempty"`

	// ChunkDays overrides the kind-default chunk size (config.IngestConfig)
	// for this source's ingest windows.
	ChunkDays int `yaml:"chunk_days,omitempty" validate:"omitempty,min=1"`

	// Disabled skips this source in scheduled and admin-triggered runs.
	Disabled bool `yaml:"disabled,omitempty"`
}

// LLMProviderConfig configures the tag/category classifier's LLM backend.
type LLMProviderConfig struct {
	Name        string `yaml:"name" validate:"required"`
	BaseURL     string `yaml:"base_url" validate:"required,url"`
	Model       string `yaml:"model" validate:"required"`
	APIKeyEnv   string `yaml:"api_key_env" validate:"required"`
	TimeoutSecs int    `yaml:"timeout_seconds,omitempty" validate:"omitempty,min=1"`
}

// EmbeddingProviderConfig configures the embedding backend.
type EmbeddingProviderConfig struct {
	Name        string `yaml:"name" validate:"required"`
	BaseURL     string `yaml:"base_url" validate:"required,url"`
	Model       string `yaml:"model" validate:"required"`
	APIKeyEnv   string `yaml:"api_key_env" validate:"required"`
	Dimension   int    `yaml:"dimension" validate:"required,min=1"`
	TimeoutSecs int    `yaml:"timeout_seconds,omitempty" validate:"omitempty,min=1"`
	BatchLimit  int    `yaml:"batch_limit,omitempty" validate:"omitempty,min=1"`
}

// APIConfig configures the client-facing HTTP surface.
type APIConfig struct {
	Listen    string `yaml:"listen,omitempty"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
}

// DatabaseConfig configures the Postgres-backed document store.
type DatabaseConfig struct {
	Host         string `yaml:"host,omitempty"`
	Port         int    `yaml:"port,omitempty"`
	User         string `yaml:"user,omitempty"`
	PasswordEnv  string `yaml:"password_env,omitempty"`
	Database     string `yaml:"database,omitempty"`
	SSLMode      string `yaml:"ssl_mode,omitempty"`
	MaxOpenConns int    `yaml:"max_open_conns,omitempty"`
	MaxIdleConns int    `yaml:"max_idle_conns,omitempty"`
}
