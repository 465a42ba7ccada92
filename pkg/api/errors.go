package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/pulsefeed/pkg/config"
	"github.com/codeready-toolchain/pulsefeed/pkg/interactions"
	"github.com/codeready-toolchain/pulsefeed/pkg/ranker"
	"github.com/codeready-toolchain/pulsefeed/pkg/store"
)

// writeError maps err onto the spec's {error, message} 4xx/5xx taxonomy and
// writes the response, the way the teacher's mapServiceError dispatches on
// sentinel/typed errors at the HTTP boundary.
func writeError(c *gin.Context, err error) {
	var ve *interactions.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": ve.Error()})
	case errors.Is(err, ranker.ErrInvalidPageToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_page_token", "message": "Invalid page token"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": err.Error()})
	case errors.Is(err, config.ErrSourceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": err.Error()})
	default:
		slog.Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "internal server error"})
	}
}
