package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator runs struct-tag validation plus cross-field checks the
// go-playground/validator package cannot express on its own. A failure is a
// Fatal startup condition. For the LLM and embedding providers it checks
// that an active provider with an api_key_env name is configured, and for
// the client API that an api_key_env name is configured; it does not check
// that any of those environment variables is set.
type Validator struct {
	cfg      *Config
	validate *validator.Validate
}

// NewValidator constructs a Validator bound to cfg.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg, validate: validator.New()}
}

// ValidateAll runs every validation pass and returns the first failure.
func (v *Validator) ValidateAll() error {
	if err := v.validateSources(); err != nil {
		return err
	}
	if err := v.validateLLMProviders(); err != nil {
		return err
	}
	if err := v.validateEmbeddingProviders(); err != nil {
		return err
	}
	if err := v.validateDefaults(); err != nil {
		return err
	}
	if err := v.validateAPIKey(); err != nil {
		return err
	}
	return nil
}

func (v *Validator) validateSources() error {
	for _, s := range v.cfg.SourceRegistry.GetAll() {
		if err := v.validate.Struct(s); err != nil {
			return NewValidationError("source", s.ID, "", err)
		}
	}
	return nil
}

func (v *Validator) validateLLMProviders() error {
	provider, err := v.cfg.LLMProviderRegistry.Active()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLLMProviderNotConfigured, err)
	}
	if err := v.validate.Struct(provider); err != nil {
		return NewValidationError("llm_provider", provider.Name, "", err)
	}
	return nil
}

func (v *Validator) validateEmbeddingProviders() error {
	provider, err := v.cfg.EmbeddingProviderRegistry.Active()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEmbeddingProviderNotConfigured, err)
	}
	if err := v.validate.Struct(provider); err != nil {
		return NewValidationError("embedding_provider", provider.Name, "", err)
	}
	return nil
}

func (v *Validator) validateDefaults() error {
	if v.cfg.Defaults.DisplayTimeZone == "" {
		return NewValidationError("defaults", "display_timezone", "", ErrMissingRequiredField)
	}
	if v.cfg.Defaults.EmbeddingDimension <= 0 {
		return NewValidationError("defaults", "embedding_dimension", "", ErrInvalidValue)
	}
	return nil
}

func (v *Validator) validateAPIKey() error {
	if v.cfg.API.APIKeyEnv == "" {
		return ErrAPIKeyNotConfigured
	}
	return nil
}
