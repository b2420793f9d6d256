package qualitative

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/equitylens/backend/internal/contracts"
	"github.com/equitylens/backend/pkg/config"
	"github.com/equitylens/backend/pkg/httputil"
	"github.com/equitylens/backend/pkg/logger"
)

// Client fetches the upstream LLM-produced qualitative factor set and the
// optional alternative-data composites. Alt data legitimately does not
// exist for most tickers, so an empty alt response is a normal outcome,
// not an error.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a qualitative service client.
func NewClient(cfg config.QualitativeConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}
}

type factorsResponse struct {
	Ticker  string                   `json:"ticker"`
	Factors []contracts.LegacyFactor `json:"factors"`
}

// LegacyFactors fetches the A1..F3 factor scores for the ticker, keyed by
// factor ID. Duplicate IDs keep the last occurrence.
func (c *Client) LegacyFactors(ctx context.Context, ticker string) (map[string]contracts.LegacyFactor, error) {
	endpoint := fmt.Sprintf("%s/v1/factors/%s?apikey=%s",
		c.baseURL, url.PathEscape(ticker), url.QueryEscape(c.apiKey))

	var payload factorsResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("fetch qualitative factors for %s failed: %w", ticker, err)
	}

	factors := make(map[string]contracts.LegacyFactor, len(payload.Factors))
	for _, f := range payload.Factors {
		factors[f.ID] = f
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":  ticker,
		"factors": len(factors),
	}).Debug("Fetched qualitative factors")
	return factors, nil
}

// AltData fetches the alternative-data composites for the ticker. A 404
// means no alt data is tracked for this ticker and returns nil without
// error.
func (c *Client) AltData(ctx context.Context, ticker string) (*contracts.AltDataScores, error) {
	endpoint := fmt.Sprintf("%s/v1/altdata/%s?apikey=%s",
		c.baseURL, url.PathEscape(ticker), url.QueryEscape(c.apiKey))

	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch alt data for %s failed: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d fetching alt data for %s", resp.StatusCode, ticker)
	}

	var scores contracts.AltDataScores
	if err := decodeJSON(resp.Body, &scores); err != nil {
		return nil, fmt.Errorf("decode alt data for %s failed: %w", ticker, err)
	}
	if !scores.Any() {
		return nil, nil
	}
	return &scores, nil
}

func decodeJSON(r io.Reader, out interface{}) error {
	return json.NewDecoder(r).Decode(out)
}
