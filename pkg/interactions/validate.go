// Package interactions implements C11: recording user interactions and
// maintaining the derived pin and bundle-seen state they trigger.
package interactions

import (
	"errors"
	"fmt"

	"github.com/codeready-toolchain/pulsefeed/pkg/models"
)

// ValidationError names the interaction field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var errTooManyInBatch = errors.New("batch exceeds 100 interactions")

const maxBatchSize = 100

// Validate checks one interaction against the declared domain: non-empty
// identifiers, known enums, non-negative position, and (if present) an
// object-shaped metadata.
func Validate(in models.UserInteraction) error {
	if in.UserID == "" {
		return &ValidationError{Field: "userId", Message: "must not be empty"}
	}
	if in.ContentID == "" {
		return &ValidationError{Field: "contentId", Message: "must not be empty"}
	}
	if in.Action == "" {
		return &ValidationError{Field: "action", Message: "must not be empty"}
	}
	if !models.ValidContentTypes[in.ContentType] {
		return &ValidationError{Field: "contentType", Message: "unknown content type " + string(in.ContentType)}
	}
	if !models.ValidActions[in.Action] {
		return &ValidationError{Field: "action", Message: "unknown action " + string(in.Action)}
	}
	if in.Context.Position < 0 {
		return &ValidationError{Field: "context.position", Message: "must be >= 0"}
	}
	if in.Context.TimeOfDay != "" && !models.ValidTimesOfDay[in.Context.TimeOfDay] {
		return &ValidationError{Field: "context.timeOfDay", Message: "unknown time of day " + string(in.Context.TimeOfDay)}
	}
	if in.Context.DayOfWeek != "" && !models.ValidDaysOfWeek[in.Context.DayOfWeek] {
		return &ValidationError{Field: "context.dayOfWeek", Message: "unknown day of week " + in.Context.DayOfWeek}
	}
	if in.ContentType == models.ContentTypeCategoryBundle {
		if err := validateBundleMetadata(in.Metadata); err != nil {
			return err
		}
	}
	return nil
}

func validateBundleMetadata(metadata map[string]any) error {
	raw, ok := metadata["bundleState"]
	if !ok {
		return &ValidationError{Field: "metadata.bundleState", Message: "must be provided for event-category-bundle interactions"}
	}
	state, ok := raw.(map[string]any)
	if !ok {
		return &ValidationError{Field: "metadata.bundleState", Message: "must be an object"}
	}
	categoryID, _ := state["categoryId"].(string)
	if categoryID == "" {
		return &ValidationError{Field: "metadata.bundleState.categoryId", Message: "must not be empty"}
	}
	switch state["version"].(type) {
	case float64, int:
	default:
		return &ValidationError{Field: "metadata.bundleState.version", Message: "must be a number"}
	}
	return nil
}

// ValidateBatch validates every interaction and rejects batches over 100.
func ValidateBatch(batch []models.UserInteraction) error {
	if len(batch) == 0 {
		return &ValidationError{Field: "interactions", Message: "must not be empty"}
	}
	if len(batch) > maxBatchSize {
		return errTooManyInBatch
	}
	for i, in := range batch {
		if err := Validate(in); err != nil {
			return fmt.Errorf("interactions[%d]: %w", i, err)
		}
	}
	return nil
}

func metadataBool(metadata map[string]any, key string, fallback bool) bool {
	raw, ok := metadata[key]
	if !ok {
		return fallback
	}
	b, ok := raw.(bool)
	if !ok {
		return fallback
	}
	return b
}

func bundleState(metadata map[string]any) (categoryID string, version int, ok bool) {
	raw, present := metadata["bundleState"]
	if !present {
		return "", 0, false
	}
	state, present := raw.(map[string]any)
	if !present {
		return "", 0, false
	}
	categoryID, _ = state["categoryId"].(string)
	switch v := state["version"].(type) {
	case float64:
		version = int(v)
	case int:
		version = v
	default:
		return "", 0, false
	}
	return categoryID, version, categoryID != ""
}
