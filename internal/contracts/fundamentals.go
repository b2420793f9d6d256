package contracts

import "time"

// AnnualStatement is one fiscal year of extracted financial-statement values.
// Index 0 of a StatementSeries is the most recent year. Any field may be nil
// when the filing did not expose it; downstream formulas tolerate gaps.
type AnnualStatement struct {
	FiscalYear         int      `json:"fiscalYear,omitempty"`
	TotalAssets        *float64 `json:"totalAssets,omitempty"`
	TotalLiabilities   *float64 `json:"totalLiabilities,omitempty"`
	CurrentAssets      *float64 `json:"currentAssets,omitempty"`
	CurrentLiabilities *float64 `json:"currentLiabilities,omitempty"`
	RetainedEarnings   *float64 `json:"retainedEarnings,omitempty"`
	TotalEquity        *float64 `json:"totalEquity,omitempty"`
	Revenue            *float64 `json:"revenue,omitempty"`
	NetIncome          *float64 `json:"netIncome,omitempty"`
	EBIT               *float64 `json:"ebit,omitempty"`
	GrossProfit        *float64 `json:"grossProfit,omitempty"`
	SGAExpense         *float64 `json:"sgaExpense,omitempty"`
	Depreciation       *float64 `json:"depreciation,omitempty"`
	Receivables        *float64 `json:"receivables,omitempty"`
	PPE                *float64 `json:"ppe,omitempty"`
	LongTermDebt       *float64 `json:"longTermDebt,omitempty"`
	SharesOutstanding  *float64 `json:"sharesOutstanding,omitempty"`
	OperatingCashFlow  *float64 `json:"operatingCashFlow,omitempty"`
	Capex              *float64 `json:"capex,omitempty"`
}

// Liabilities returns total liabilities, deriving them from
// totalAssets - totalEquity when the filing omitted the line item.
// Every statement consumer goes through this accessor so the derivation
// applies uniformly across all models.
func (s AnnualStatement) Liabilities() *float64 {
	if s.TotalLiabilities != nil {
		return s.TotalLiabilities
	}
	if s.TotalAssets != nil && s.TotalEquity != nil {
		v := *s.TotalAssets - *s.TotalEquity
		return &v
	}
	return nil
}

// WorkingCapital derives currentAssets - currentLiabilities.
func (s AnnualStatement) WorkingCapital() *float64 {
	if s.CurrentAssets == nil || s.CurrentLiabilities == nil {
		return nil
	}
	v := *s.CurrentAssets - *s.CurrentLiabilities
	return &v
}

// FreeCashFlow derives operatingCashFlow - capex. A missing capex is
// treated as zero; a missing operating cash flow makes FCF unavailable.
func (s AnnualStatement) FreeCashFlow() *float64 {
	if s.OperatingCashFlow == nil {
		return nil
	}
	v := *s.OperatingCashFlow
	if s.Capex != nil {
		v -= *s.Capex
	}
	return &v
}

// StatementSeries is up to three annual statements, most recent first.
type StatementSeries []AnnualStatement

// MarketSnapshot carries point-in-time market data supplied alongside the
// statement series.
type MarketSnapshot struct {
	MarketCap         *float64 `json:"marketCap,omitempty"`
	Beta              *float64 `json:"beta,omitempty"`
	Price             *float64 `json:"price,omitempty"`
	SharesOutstanding *float64 `json:"sharesOutstanding,omitempty"`
}

// BasicFinancials is the reduced metric set used for the degraded
// ratio-only analysis when no statement series is available.
type BasicFinancials struct {
	PERatio         *float64 `json:"peRatio,omitempty"`
	PriceToBook     *float64 `json:"priceToBook,omitempty"`
	ROE             *float64 `json:"roe,omitempty"`
	ROA             *float64 `json:"roa,omitempty"`
	CurrentRatio    *float64 `json:"currentRatio,omitempty"`
	DebtToEquity    *float64 `json:"debtToEquity,omitempty"`
	NetProfitMargin *float64 `json:"netProfitMargin,omitempty"`
}

// Altman Z-Score zones.
const (
	ZoneSafe     = "safe"
	ZoneGray     = "gray"
	ZoneDistress = "distress"
)

// ZScoreResult is the Altman Z-Score bankruptcy-risk model output.
// Components holds the weighted terms that were computable (keys x1..x5).
type ZScoreResult struct {
	Value      float64            `json:"value"`
	Zone       string             `json:"zone"`
	Components map[string]float64 `json:"components"`
}

// FScoreCriterion is one of the nine Piotroski criteria, in fixed order.
type FScoreCriterion struct {
	Name   string `json:"name"`
	Earned bool   `json:"earned"`
	Detail string `json:"detail"`
}

// FScoreResult is the Piotroski F-Score quality model output.
type FScoreResult struct {
	Value          int               `json:"value"`
	MaxScore       int               `json:"maxScore"`
	Interpretation string            `json:"interpretation"`
	Criteria       []FScoreCriterion `json:"criteria"`
}

// MScoreResult is the Beneish M-Score earnings-manipulation model output.
// Components holds the eight indices (DSRI, GMI, AQI, SGI, DEPI, SGAI,
// LVGI, TATA).
type MScoreResult struct {
	Value          float64            `json:"value"`
	Threshold      float64            `json:"threshold"`
	Interpretation string             `json:"interpretation"`
	Components     map[string]float64 `json:"components"`
}

// DCFSensitivity is one cell of the WACC x terminal-growth sensitivity grid.
type DCFSensitivity struct {
	WACCPct           float64 `json:"waccPct"`
	TerminalGrowthPct float64 `json:"terminalGrowthPct"`
	FairValue         float64 `json:"fairValue"`
}

// DCFResult is the two-stage discounted-cash-flow valuation output.
type DCFResult struct {
	FairValue         float64          `json:"fairValue"`
	CurrentPrice      *float64         `json:"currentPrice,omitempty"`
	UpsidePct         *float64         `json:"upside_pct,omitempty"`
	GrowthRatePct     float64          `json:"growthRate_pct"`
	DiscountRatePct   float64          `json:"discountRate_pct"`
	TerminalGrowthPct float64          `json:"terminalGrowth_pct"`
	Sensitivity       []DCFSensitivity `json:"sensitivity"`
}

// HealthGrade is the composite letter grade blended from the four models.
type HealthGrade struct {
	Grade      string  `json:"grade"`
	GradeScore float64 `json:"gradeScore"`
}

// Fundamental analysis data sources.
const (
	FundamentalSourceStatements = "statements"
	FundamentalSourceBasic      = "basic"
)

// FundamentalAnalysis is the full output of the fundamentals engine.
// Each model is nil when its required inputs were unavailable; the engine
// computes as many models as the data allows.
type FundamentalAnalysis struct {
	Ticker     string             `json:"ticker,omitempty"`
	AsOf       time.Time          `json:"asOf,omitempty"`
	DataSource string             `json:"dataSource"`
	ZScore     *ZScoreResult      `json:"zScore,omitempty"`
	FScore     *FScoreResult      `json:"fScore,omitempty"`
	MScore     *MScoreResult      `json:"mScore,omitempty"`
	DCF        *DCFResult         `json:"dcf,omitempty"`
	Ratios     map[string]float64 `json:"ratios"`
	Health     *HealthGrade       `json:"healthGrade,omitempty"`
}
