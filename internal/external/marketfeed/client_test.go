package marketfeed

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

	return NewClient(config.MarketFeedConfig{
		BaseURL:        serverURL,
		APIKey:         "test-key",
		RequestsPerSec: 100,
		Burst:          100,
	}, httpClient, log)
}

func TestDailyBars(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/bars/AAPL", r.URL.Path)
		assert.Equal(t, "420", r.URL.Query().Get("days"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))

		// Feed returns newest-first; the client must reorder.
		w.Write([]byte(`[
			{"date":"2025-01-03","open":101,"high":103,"low":100,"close":102,"volume":1200},
			{"date":"2025-01-02","open":100,"high":102,"low":99,"close":101,"volume":1000}
		]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	bars, err := client.DailyBars(context.Background(), "AAPL", 420)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.True(t, bars[0].Date.Before(bars[1].Date), "bars must be oldest-first")
	assert.Equal(t, 101.0, bars[0].Close)
	assert.Equal(t, 102.0, bars[1].Close)
}

func TestDailyBars_SkipsMalformedRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"date":"not-a-date","close":1},
			{"date":"2025-01-02","open":100,"high":102,"low":99,"close":101,"volume":1000}
		]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	bars, err := client.DailyBars(context.Background(), "AAPL", 30)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 101.0, bars[0].Close)
}

func TestDailyBars_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.DailyBars(context.Background(), "AAPL", 30)
	assert.Error(t, err)
}

func TestLatestQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/quote/MSFT", r.URL.Path)
		w.Write([]byte(`{"ticker":"MSFT","price":420.5,"change":2.5,"changePct":0.6,"volume":1000000}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	quote, err := client.LatestQuote(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, "MSFT", quote.Ticker)
	assert.Equal(t, 420.5, quote.Price)
}
