package qualitative

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equitylens/backend/pkg/config"
	"github.com/equitylens/backend/pkg/httputil"
	"github.com/equitylens/backend/pkg/logger"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	cfg := &config.Config{Env: "development", LogLevel: "error"}
	log := logger.New(cfg)
	httpClient := httputil.New(cfg, log).DisableRetry()

	return NewClient(config.QualitativeConfig{
		BaseURL: serverURL,
		APIKey:  "test-key",
	}, httpClient, log)
}

func TestLegacyFactors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/factors/ACME", r.URL.Path)
		w.Write([]byte(`{
			"ticker": "ACME",
			"factors": [
				{"factorId": "A1", "score": 1.5, "reason": "diversified supplier base"},
				{"factorId": "D2", "score": -0.5, "reason": "mixed analyst views"}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	factors, err := client.LegacyFactors(context.Background(), "ACME")
	require.NoError(t, err)
	require.Len(t, factors, 2)

	assert.Equal(t, 1.5, factors["A1"].Score)
	assert.Equal(t, "diversified supplier base", factors["A1"].Reason)
	assert.Equal(t, -0.5, factors["D2"].Score)
}

func TestLegacyFactors_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.LegacyFactors(context.Background(), "ACME")
	assert.Error(t, err)
}

func TestAltData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/altdata/ACME", r.URL.Path)
		w.Write([]byte(`{
			"patents": {"score": 8, "summary": "surging patent grants"},
			"fdaPipeline": {"score": 6}
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	alt, err := client.AltData(context.Background(), "ACME")
	require.NoError(t, err)
	require.NotNil(t, alt)

	require.NotNil(t, alt.Patents)
	assert.Equal(t, 8.0, alt.Patents.Score)
	assert.Equal(t, "surging patent grants", alt.Patents.Summary)
	require.NotNil(t, alt.FDAPipeline)
	assert.Nil(t, alt.Contracts)
}

func TestAltData_NotTracked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	alt, err := client.AltData(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Nil(t, alt)
}

func TestAltData_EmptyPayloadIsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	alt, err := client.AltData(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Nil(t, alt)
}
