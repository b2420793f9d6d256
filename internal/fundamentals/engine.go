package fundamentals

import (
	"github.com/equitylens/backend/internal/contracts"
	"github.com/equitylens/backend/pkg/logger"
)

// Engine runs the four financial models plus ratios and the composite
// health grade over a statement series. Like the technical engine it is
// pure and stateless; every model independently returns nil when its
// required inputs are missing, so the engine computes as many models as
// the data allows instead of failing wholesale.
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a fundamentals engine.
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log}
}

// Analyze evaluates all models over the statement series and market data.
// An empty series still yields a structurally valid analysis; callers with
// a basic-financials source should prefer AnalyzeBasic in that case.
func (e *Engine) Analyze(ticker string, stmts contracts.StatementSeries, market contracts.MarketSnapshot) *contracts.FundamentalAnalysis {
	analysis := &contracts.FundamentalAnalysis{
		Ticker:     ticker,
		DataSource: contracts.FundamentalSourceStatements,
		Ratios:     map[string]float64{},
	}

	if len(stmts) == 0 {
		return analysis
	}

	latest := stmts[0]
	analysis.ZScore = computeZScore(latest, market.MarketCap)
	analysis.FScore = computeFScore(stmts)
	analysis.MScore = computeMScore(stmts)
	analysis.DCF = computeDCF(stmts, market)
	analysis.Ratios = computeRatios(latest, market)
	analysis.Health = computeHealthGrade(analysis.ZScore, analysis.FScore, analysis.MScore, analysis.Ratios)

	if e.logger != nil {
		e.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"years":  len(stmts),
			"models": e.modelCount(analysis),
		}).Debug("Computed fundamental analysis")
	}

	return analysis
}

// AnalyzeBasic is the degraded ratio-only path used when no statement
// series could be extracted for the ticker.
func (e *Engine) AnalyzeBasic(ticker string, basic contracts.BasicFinancials) *contracts.FundamentalAnalysis {
	ratios := basicRatios(basic)
	analysis := &contracts.FundamentalAnalysis{
		Ticker:     ticker,
		DataSource: contracts.FundamentalSourceBasic,
		Ratios:     ratios,
		Health:     computeHealthGrade(nil, nil, nil, ratios),
	}

	if e.logger != nil {
		e.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"ratios": len(ratios),
		}).Debug("Computed basic fundamental analysis")
	}

	return analysis
}

func (e *Engine) modelCount(a *contracts.FundamentalAnalysis) int {
	count := 0
	if a.ZScore != nil {
		count++
	}
	if a.FScore != nil {
		count++
	}
	if a.MScore != nil {
		count++
	}
	if a.DCF != nil {
		count++
	}
	return count
}
