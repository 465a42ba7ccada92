package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/codeready-toolchain/pulsefeed/pkg/interactions"
	"github.com/codeready-toolchain/pulsefeed/pkg/ranker"
	"github.com/codeready-toolchain/pulsefeed/pkg/store"
)

func runWriteError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	writeError(c, err)
	return rec
}

func TestWriteErrorMapsValidationErrorTo400(t *testing.T) {
	rec := runWriteError(&interactions.ValidationError{Field: "userId", Message: "required"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWriteErrorMapsInvalidPageTokenTo400(t *testing.T) {
	rec := runWriteError(ranker.ErrInvalidPageToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWriteErrorMapsNotFoundTo404(t *testing.T) {
	rec := runWriteError(store.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWriteErrorMapsUnknownErrorTo500(t *testing.T) {
	rec := runWriteError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
