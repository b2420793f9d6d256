package filings

import (
	"context"
	"fmt"
	"net/url"

	"github.com/equitylens/backend/internal/contracts"
	"github.com/equitylens/backend/pkg/config"
	"github.com/equitylens/backend/pkg/httputil"
	"github.com/equitylens/backend/pkg/logger"
	"github.com/equitylens/backend/pkg/redis"
)

// Client fetches extracted financial statements and market data from the
// filings service. The primary path is the JSON extraction API; when the
// service has no extraction for a ticker the client scrapes the published
// HTML statement tables instead.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
	limiter    *redis.RateLimiter
}

// NewClient creates a filings client.
func NewClient(cfg config.FilingsConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}
}

// WithRateLimiter applies a shared sliding-window limit to filings requests
// so multiple processes stay under the service quota together.
func (c *Client) WithRateLimiter(limiter *redis.RateLimiter) *Client {
	c.limiter = limiter
	return c
}

func (c *Client) waitQuota(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx, redis.FilingsRateLimit)
}

// statementPayload mirrors one fiscal year of the extraction API response.
// Numeric fields arrive as JSON numbers or formatted strings ("1,234.5");
// flexNumber coerces both and maps absent values to nil.
type statementPayload struct {
	FiscalYear         int        `json:"fiscalYear"`
	TotalAssets        flexNumber `json:"totalAssets"`
	TotalLiabilities   flexNumber `json:"totalLiabilities"`
	CurrentAssets      flexNumber `json:"currentAssets"`
	CurrentLiabilities flexNumber `json:"currentLiabilities"`
	RetainedEarnings   flexNumber `json:"retainedEarnings"`
	TotalEquity        flexNumber `json:"totalEquity"`
	Revenue            flexNumber `json:"revenue"`
	NetIncome          flexNumber `json:"netIncome"`
	EBIT               flexNumber `json:"ebit"`
	GrossProfit        flexNumber `json:"grossProfit"`
	SGAExpense         flexNumber `json:"sgaExpense"`
	Depreciation       flexNumber `json:"depreciation"`
	Receivables        flexNumber `json:"receivables"`
	PPE                flexNumber `json:"ppe"`
	LongTermDebt       flexNumber `json:"longTermDebt"`
	SharesOutstanding  flexNumber `json:"sharesOutstanding"`
	OperatingCashFlow  flexNumber `json:"operatingCashFlow"`
	Capex              flexNumber `json:"capex"`
}

type marketPayload struct {
	MarketCap         flexNumber `json:"marketCap"`
	Beta              flexNumber `json:"beta"`
	Price             flexNumber `json:"price"`
	SharesOutstanding flexNumber `json:"sharesOutstanding"`
}

type statementsResponse struct {
	Ticker     string             `json:"ticker"`
	Statements []statementPayload `json:"statements"`
	Market     marketPayload      `json:"market"`
}

// AnnualStatements fetches up to years of annual statements, most recent
// first, along with the current market snapshot. A JSON extraction failure
// falls back to scraping the HTML statement tables; the HTML path carries
// no market snapshot.
func (c *Client) AnnualStatements(ctx context.Context, ticker string, years int) (contracts.StatementSeries, contracts.MarketSnapshot, error) {
	if err := c.waitQuota(ctx); err != nil {
		return nil, contracts.MarketSnapshot{}, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/statements/%s?years=%d&apikey=%s",
		c.baseURL, url.PathEscape(ticker), years, url.QueryEscape(c.apiKey))

	var payload statementsResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, &payload); err != nil {
		c.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"error":  err.Error(),
		}).Warn("Statement extraction unavailable, falling back to HTML tables")

		series, scrapeErr := c.scrapeStatements(ctx, ticker, years)
		if scrapeErr != nil {
			return nil, contracts.MarketSnapshot{}, fmt.Errorf("fetch statements for %s failed: %w", ticker, err)
		}
		return series, contracts.MarketSnapshot{}, nil
	}

	series := make(contracts.StatementSeries, 0, len(payload.Statements))
	for _, p := range payload.Statements {
		series = append(series, contracts.AnnualStatement{
			FiscalYear:         p.FiscalYear,
			TotalAssets:        p.TotalAssets.value(),
			TotalLiabilities:   p.TotalLiabilities.value(),
			CurrentAssets:      p.CurrentAssets.value(),
			CurrentLiabilities: p.CurrentLiabilities.value(),
			RetainedEarnings:   p.RetainedEarnings.value(),
			TotalEquity:        p.TotalEquity.value(),
			Revenue:            p.Revenue.value(),
			NetIncome:          p.NetIncome.value(),
			EBIT:               p.EBIT.value(),
			GrossProfit:        p.GrossProfit.value(),
			SGAExpense:         p.SGAExpense.value(),
			Depreciation:       p.Depreciation.value(),
			Receivables:        p.Receivables.value(),
			PPE:                p.PPE.value(),
			LongTermDebt:       p.LongTermDebt.value(),
			SharesOutstanding:  p.SharesOutstanding.value(),
			OperatingCashFlow:  p.OperatingCashFlow.value(),
			Capex:              p.Capex.value(),
		})
	}

	market := contracts.MarketSnapshot{
		MarketCap:         payload.Market.MarketCap.value(),
		Beta:              payload.Market.Beta.value(),
		Price:             payload.Market.Price.value(),
		SharesOutstanding: payload.Market.SharesOutstanding.value(),
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"years":  len(series),
	}).Debug("Fetched annual statements")
	return series, market, nil
}

type basicPayload struct {
	PERatio         flexNumber `json:"peRatio"`
	PriceToBook     flexNumber `json:"priceToBook"`
	ROE             flexNumber `json:"roe"`
	ROA             flexNumber `json:"roa"`
	CurrentRatio    flexNumber `json:"currentRatio"`
	DebtToEquity    flexNumber `json:"debtToEquity"`
	NetProfitMargin flexNumber `json:"netProfitMargin"`
}

// BasicFinancials fetches the reduced metric set used when no statement
// extraction exists for the ticker.
func (c *Client) BasicFinancials(ctx context.Context, ticker string) (*contracts.BasicFinancials, error) {
	if err := c.waitQuota(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/metrics/%s?apikey=%s",
		c.baseURL, url.PathEscape(ticker), url.QueryEscape(c.apiKey))

	var payload basicPayload
	if err := c.httpClient.GetJSON(ctx, endpoint, &payload); err != nil {
		return nil, fmt.Errorf("fetch basic financials for %s failed: %w", ticker, err)
	}

	return &contracts.BasicFinancials{
		PERatio:         payload.PERatio.value(),
		PriceToBook:     payload.PriceToBook.value(),
		ROE:             payload.ROE.value(),
		ROA:             payload.ROA.value(),
		CurrentRatio:    payload.CurrentRatio.value(),
		DebtToEquity:    payload.DebtToEquity.value(),
		NetProfitMargin: payload.NetProfitMargin.value(),
	}, nil
}
