package eventstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTagsLowercasesTrimsDedupesAndSorts(t *testing.T) {
	out := NormalizeTags([]string{" Yoga ", "yoga", "Wellness", "", "  "})
	assert.Equal(t, []string{"wellness", "yoga"}, out)
}

func TestNormalizeTagsEmptyInput(t *testing.T) {
	out := NormalizeTags(nil)
	assert.Empty(t, out)
}
