package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeready-toolchain/pulsefeed/pkg/version"
)

func TestFetcherGetJSONSendsVersionedUserAgent(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		_ = json.NewEncoder(w).Encode(map[string]string{"ok": "true"})
	}))
	defer server.Close()

	f := NewFetcher(10*time.Millisecond, 3, 1)
	var out map[string]string
	err := f.GetJSON(context.Background(), server.URL, &out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gotUserAgent, version.AppName+"/"))
	assert.Equal(t, version.Full(), gotUserAgent)
}
