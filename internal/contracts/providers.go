package contracts

import "context"

// BarProvider supplies daily OHLCV history for a ticker, oldest-first.
type BarProvider interface {
	DailyBars(ctx context.Context, ticker string, lookbackDays int) ([]PriceBar, error)
}

// StatementProvider supplies the multi-year statement extraction together
// with current market data. An empty series is not an error; the
// fundamentals engine degrades to the basic-financials path.
type StatementProvider interface {
	AnnualStatements(ctx context.Context, ticker string, years int) (StatementSeries, MarketSnapshot, error)
	BasicFinancials(ctx context.Context, ticker string) (*BasicFinancials, error)
}

// QualitativeProvider supplies the upstream LLM-produced legacy factor set
// and the optional alternative-data composites.
type QualitativeProvider interface {
	LegacyFactors(ctx context.Context, ticker string) (map[string]LegacyFactor, error)
	AltData(ctx context.Context, ticker string) (*AltDataScores, error)
}

// ScoreRepository persists completed scoring runs.
type ScoreRepository interface {
	Save(ctx context.Context, result *ScoreResult) error
	GetLatest(ctx context.Context, ticker string) (*ScoreResult, error)
	ListLatest(ctx context.Context, limit int) ([]*ScoreResult, error)
}
