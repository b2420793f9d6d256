package scoring

import (
	"context"
	"sync"
	"time"

	"github.com/equitylens/backend/internal/contracts"
	"github.com/equitylens/backend/internal/factors"
	"github.com/equitylens/backend/internal/fundamentals"
	"github.com/equitylens/backend/internal/technical"
	"github.com/equitylens/backend/pkg/logger"
)

// Defaults for provider fetches.
const (
	DefaultLookbackDays   = 420
	DefaultStatementYears = 3
	DefaultWorkers        = 4
)

// Pipeline orchestrates the three scoring engines for one ticker: fetch
// inputs from the providers, run the engines, attach a label and persist.
// Provider failures are tolerated per input; the affected engine output is
// simply absent and the factor aggregation degrades those factors to
// neutral.
type Pipeline struct {
	technical    *technical.Engine
	fundamentals *fundamentals.Engine
	factors      *factors.Engine

	bars        contracts.BarProvider
	statements  contracts.StatementProvider
	qualitative contracts.QualitativeProvider
	repo        contracts.ScoreRepository

	lookbackDays   int
	statementYears int
	logger         *logger.Logger
}

// NewPipeline creates a scoring pipeline. Any provider and the repository
// may be nil; the pipeline treats a nil collaborator like a failed fetch.
func NewPipeline(
	bars contracts.BarProvider,
	statements contracts.StatementProvider,
	qualitative contracts.QualitativeProvider,
	repo contracts.ScoreRepository,
	log *logger.Logger,
) *Pipeline {
	return &Pipeline{
		technical:      technical.NewEngine(log),
		fundamentals:   fundamentals.NewEngine(log),
		factors:        factors.NewEngine(log),
		bars:           bars,
		statements:     statements,
		qualitative:    qualitative,
		repo:           repo,
		lookbackDays:   DefaultLookbackDays,
		statementYears: DefaultStatementYears,
		logger:         log,
	}
}

// WithWindows overrides the bar lookback and statement depth. Non-positive
// values keep the defaults.
func (p *Pipeline) WithWindows(lookbackDays, statementYears int) *Pipeline {
	if lookbackDays > 0 {
		p.lookbackDays = lookbackDays
	}
	if statementYears > 0 {
		p.statementYears = statementYears
	}
	return p
}

// Score runs one complete scoring pass for a ticker. It only fails on
// context cancellation: every upstream outage degrades to neutral factors
// instead of aborting the run.
func (p *Pipeline) Score(ctx context.Context, ticker string) (*contracts.ScoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot := p.fetchTechnical(ctx, ticker)
	analysis := p.fetchFundamentals(ctx, ticker)
	legacy, altData := p.fetchQualitative(ctx, ticker)

	computation := p.factors.Compute(ticker, factors.Inputs{
		Snapshot: snapshot,
		Analysis: analysis,
		Legacy:   legacy,
		AltData:  altData,
	})

	result := &contracts.ScoreResult{
		Ticker:       ticker,
		Timestamp:    time.Now().UTC(),
		Technical:    snapshot,
		Fundamentals: analysis,
		Factors:      computation,
		Label:        Label(computation.CompositeScore),
	}

	if p.repo != nil {
		if err := p.repo.Save(ctx, result); err != nil {
			p.warn(ticker, "Failed to persist score", err)
		}
	}

	if p.logger != nil {
		p.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"score":  computation.CompositeScore,
			"label":  result.Label,
		}).Info("Scoring completed")
	}
	return result, nil
}

func (p *Pipeline) fetchTechnical(ctx context.Context, ticker string) *contracts.IndicatorSnapshot {
	if p.bars == nil {
		return nil
	}
	bars, err := p.bars.DailyBars(ctx, ticker, p.lookbackDays)
	if err != nil {
		p.warn(ticker, "Failed to fetch price bars", err)
		return nil
	}
	snapshot := p.technical.Compute(bars)
	snapshot.Ticker = ticker
	return &snapshot
}

func (p *Pipeline) fetchFundamentals(ctx context.Context, ticker string) *contracts.FundamentalAnalysis {
	if p.statements == nil {
		return nil
	}
	series, market, err := p.statements.AnnualStatements(ctx, ticker, p.statementYears)
	if err != nil {
		p.warn(ticker, "Failed to fetch statements", err)
	} else if len(series) > 0 {
		return p.fundamentals.Analyze(ticker, series, market)
	}

	// No statement series: fall back to the reduced metric set.
	basic, err := p.statements.BasicFinancials(ctx, ticker)
	if err != nil {
		p.warn(ticker, "Failed to fetch basic financials", err)
		return nil
	}
	if basic == nil {
		return nil
	}
	return p.fundamentals.AnalyzeBasic(ticker, *basic)
}

func (p *Pipeline) fetchQualitative(ctx context.Context, ticker string) (map[string]contracts.LegacyFactor, *contracts.AltDataScores) {
	if p.qualitative == nil {
		return nil, nil
	}
	legacy, err := p.qualitative.LegacyFactors(ctx, ticker)
	if err != nil {
		p.warn(ticker, "Failed to fetch qualitative factors", err)
		legacy = nil
	}
	altData, err := p.qualitative.AltData(ctx, ticker)
	if err != nil {
		p.warn(ticker, "Failed to fetch alt data", err)
		altData = nil
	}
	return legacy, altData
}

// UniverseResult pairs a ticker with its scoring outcome.
type UniverseResult struct {
	Ticker string
	Result *contracts.ScoreResult
	Err    error
}

// ScoreUniverse scores a set of tickers concurrently with a fixed worker
// pool. Results are returned in completion order; per-ticker failures are
// reported in the result slice, never aborting the batch.
func (p *Pipeline) ScoreUniverse(ctx context.Context, tickers []string, workers int) []UniverseResult {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	tickerCh := make(chan string, len(tickers))
	resultCh := make(chan UniverseResult, len(tickers))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range tickerCh {
				result, err := p.Score(ctx, ticker)
				resultCh <- UniverseResult{Ticker: ticker, Result: result, Err: err}
			}
		}()
	}

	for _, ticker := range tickers {
		tickerCh <- ticker
	}
	close(tickerCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]UniverseResult, 0, len(tickers))
	failed := 0
	for r := range resultCh {
		if r.Err != nil {
			failed++
		}
		results = append(results, r)
	}

	if p.logger != nil {
		p.logger.WithFields(map[string]interface{}{
			"total":  len(tickers),
			"failed": failed,
		}).Info("Universe scoring completed")
	}
	return results
}

func (p *Pipeline) warn(ticker, msg string, err error) {
	if p.logger == nil {
		return
	}
	p.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"error":  err.Error(),
	}).Warn(msg)
}
