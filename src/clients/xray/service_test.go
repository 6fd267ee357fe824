package xray_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pipeline/src/clients/xray"
	"pipeline/src/config"
	"pipeline/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *xray.XrayServiceClient {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.ExternalClients.Xray.BaseURL = server.URL
	return xray.NewClient(cfg, nil)
}

func TestAuthenticate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/authenticate", func(w http.ResponseWriter, r *http.Request) {
		var body xray.AuthenticateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.ClientID != "id" || body.ClientSecret != "secret" {
			http.Error(w, `{"error":"Authentication failed"}`, http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`"token-123"`))
	})
	client := newTestClient(t, mux)

	t.Run("returns the token", func(t *testing.T) {
		token, err := client.Authenticate(context.Background(), "id", "secret")
		require.NoError(t, err)
		assert.Equal(t, "token-123", token)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		_, err := client.Authenticate(context.Background(), "id", "wrong")
		require.Error(t, err)

		var httpErr *utils.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("missing credentials never reach the api", func(t *testing.T) {
		_, err := client.Authenticate(context.Background(), "", "secret")
		assert.ErrorIs(t, err, xray.ErrMissingCredentials)
	})
}

func TestImportJUnit(t *testing.T) {
	report := []byte(`<testsuites><testsuite name="services"><testcase name="TestII_61_Sync"/></testsuite></testsuites>`)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/import/execution/junit", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/xml", r.Header.Get("Content-Type"))
		assert.Equal(t, "II", r.URL.Query().Get("projectKey"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, report, body)

		_, _ = w.Write([]byte(`{"id":"10042","key":"II-120","self":"https://example.atlassian.net/rest/api/2/issue/10042"}`))
	})
	client := newTestClient(t, mux)

	result, err := client.ImportJUnit(context.Background(), "token-123", "II", report)
	require.NoError(t, err)
	assert.Equal(t, "II-120", result.Key)
	assert.Equal(t, "10042", result.ID)
}
