package marketfeed

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/equitylens/backend/internal/contracts"
	"github.com/equitylens/backend/pkg/config"
	"github.com/equitylens/backend/pkg/httputil"
	"github.com/equitylens/backend/pkg/logger"
	"github.com/equitylens/backend/pkg/redis"
)

// Client fetches daily OHLCV history and live quotes from the market data
// feed. A local token bucket smooths request bursts below the feed's rate
// limit before the shared HTTP client applies its own retry policy.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	cache      *redis.Cache
}

// NewClient creates a market feed client.
func NewClient(cfg config.MarketFeedConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	rps := cfg.RequestsPerSec
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// WithCache enables Redis caching of bar history. Cached series expire
// daily; a cache miss or error falls through to the feed.
func (c *Client) WithCache(cache *redis.Cache) *Client {
	c.cache = cache
	return c
}

// barPayload is one bar as served by the feed.
type barPayload struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// DailyBars fetches up to lookbackDays of daily bars for the ticker,
// returned oldest-first regardless of feed ordering.
func (c *Client) DailyBars(ctx context.Context, ticker string, lookbackDays int) ([]contracts.PriceBar, error) {
	cacheKey := redis.BarsKey(ticker, lookbackDays)
	if c.cache != nil {
		var cached []contracts.PriceBar
		if hit, err := c.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/bars/%s?days=%d&apikey=%s",
		c.baseURL, url.PathEscape(ticker), lookbackDays, url.QueryEscape(c.apiKey))

	var payload []barPayload
	if err := c.httpClient.GetJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("fetch bars for %s failed: %w", ticker, err)
	}

	bars := make([]contracts.PriceBar, 0, len(payload))
	for _, p := range payload {
		date, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			// Skip malformed rows instead of failing the whole series.
			continue
		}
		bars = append(bars, contracts.PriceBar{
			Date:   date,
			Open:   p.Open,
			High:   p.High,
			Low:    p.Low,
			Close:  p.Close,
			Volume: p.Volume,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, bars, redis.TTLDaily); err != nil {
			c.logger.WithError(err).Warn("Failed to cache daily bars")
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"bars":   len(bars),
	}).Debug("Fetched daily bars")
	return bars, nil
}

// Quote is a point-in-time price snapshot from the feed.
type Quote struct {
	Ticker    string  `json:"ticker"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"changePct"`
	Volume    float64 `json:"volume"`
}

// LatestQuote fetches the current quote for the ticker.
func (c *Client) LatestQuote(ctx context.Context, ticker string) (*Quote, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/quote/%s?apikey=%s",
		c.baseURL, url.PathEscape(ticker), url.QueryEscape(c.apiKey))

	var quote Quote
	if err := c.httpClient.GetJSON(ctx, endpoint, &quote); err != nil {
		return nil, fmt.Errorf("fetch quote for %s failed: %w", ticker, err)
	}
	return &quote, nil
}
