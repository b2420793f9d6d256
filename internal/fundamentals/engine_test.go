package fundamentals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equitylens/backend/internal/contracts"
)

// richSeries builds a two-year series with full coverage plus cash-flow
// history so every model has its inputs.
func richSeries() contracts.StatementSeries {
	series := perfectSeries()
	for i := range series {
		series[i].Receivables = ptr(90 + float64(len(series)-i)*10)
		series[i].PPE = ptr(400)
		series[i].Depreciation = ptr(40)
		series[i].SGAExpense = ptr(100)
		series[i].RetainedEarnings = ptr(300)
		series[i].EBIT = ptr(120)
		series[i].Capex = ptr(30)
	}
	return series
}

func TestAnalyze_AllModelsPresent(t *testing.T) {
	engine := NewEngine(nil)
	market := contracts.MarketSnapshot{
		MarketCap: ptr(2000),
		Beta:      ptr(1.1),
		Price:     ptr(20),
	}

	analysis := engine.Analyze("ACME", richSeries(), market)
	require.NotNil(t, analysis)

	assert.Equal(t, contracts.FundamentalSourceStatements, analysis.DataSource)
	assert.NotNil(t, analysis.ZScore)
	assert.NotNil(t, analysis.FScore)
	assert.NotNil(t, analysis.MScore)
	assert.NotNil(t, analysis.DCF)
	require.NotNil(t, analysis.Health)

	assert.GreaterOrEqual(t, analysis.Health.GradeScore, 0.0)
	assert.LessOrEqual(t, analysis.Health.GradeScore, 100.0)
	assert.Contains(t, []string{"A", "A-", "B+", "B", "C+", "C", "D", "F"}, analysis.Health.Grade)

	assert.Contains(t, analysis.Ratios, "currentRatio")
	assert.Contains(t, analysis.Ratios, "roe")
	assert.Contains(t, analysis.Ratios, "peRatio")
	assert.Contains(t, analysis.Ratios, "evToEbitda")
}

func TestAnalyze_EmptySeriesIsStructurallyValid(t *testing.T) {
	engine := NewEngine(nil)
	analysis := engine.Analyze("ACME", nil, contracts.MarketSnapshot{})

	require.NotNil(t, analysis)
	assert.Nil(t, analysis.ZScore)
	assert.Nil(t, analysis.FScore)
	assert.Nil(t, analysis.MScore)
	assert.Nil(t, analysis.DCF)
	assert.Nil(t, analysis.Health)
	assert.Empty(t, analysis.Ratios)
}

func TestAnalyze_PartialDataComputesWhatItCan(t *testing.T) {
	// One year, balance sheet only: Z and ratios work, the year-over-year
	// models stay nil.
	series := contracts.StatementSeries{{
		TotalAssets:        ptr(1000),
		TotalLiabilities:   ptr(400),
		CurrentAssets:      ptr(500),
		CurrentLiabilities: ptr(300),
		RetainedEarnings:   ptr(300),
		EBIT:               ptr(150),
		Revenue:            ptr(900),
	}}

	engine := NewEngine(nil)
	analysis := engine.Analyze("ACME", series, contracts.MarketSnapshot{MarketCap: ptr(2000)})

	assert.NotNil(t, analysis.ZScore)
	assert.NotNil(t, analysis.FScore)
	assert.Nil(t, analysis.MScore)
	assert.Nil(t, analysis.DCF)
	assert.NotNil(t, analysis.Health)
}

func TestAnalyzeBasic_DegradedRatioOnlyPath(t *testing.T) {
	engine := NewEngine(nil)
	analysis := engine.AnalyzeBasic("ACME", contracts.BasicFinancials{
		PERatio:      ptr(18),
		ROE:          ptr(0.2),
		CurrentRatio: ptr(2.5),
		DebtToEquity: ptr(0.3),
	})

	require.NotNil(t, analysis)
	assert.Equal(t, contracts.FundamentalSourceBasic, analysis.DataSource)
	assert.Nil(t, analysis.ZScore)
	assert.Nil(t, analysis.DCF)

	// Heuristic only: 50 + 15 (liquidity) + 15 (leverage) + 20 (ROE) = 100.
	require.NotNil(t, analysis.Health)
	assert.InDelta(t, 100.0, analysis.Health.GradeScore, 1e-9)
	assert.Equal(t, "A", analysis.Health.Grade)
}

func TestComputeRatios_NegativePEIsReported(t *testing.T) {
	latest := contracts.AnnualStatement{
		NetIncome:   ptr(-50),
		TotalEquity: ptr(600),
		Revenue:     ptr(900),
	}
	ratios := computeRatios(latest, contracts.MarketSnapshot{MarketCap: ptr(1000)})

	require.Contains(t, ratios, "peRatio")
	assert.Less(t, ratios["peRatio"], 0.0)
}

func TestComputeHealthGrade_RenormalizesOverPresentModels(t *testing.T) {
	z := &contracts.ZScoreResult{Value: 4.0, Zone: contracts.ZoneSafe}

	// Z alone: bucket value 95 at full weight.
	grade := computeHealthGrade(z, nil, nil, nil)
	require.NotNil(t, grade)
	assert.InDelta(t, 95.0, grade.GradeScore, 1e-9)
	assert.Equal(t, "A", grade.Grade)

	// Adding a perfect F keeps equal shares: (95*0.3 + 100*0.3) / 0.6.
	f := &contracts.FScoreResult{Value: 9, MaxScore: 9}
	grade = computeHealthGrade(z, f, nil, nil)
	require.NotNil(t, grade)
	assert.InDelta(t, 97.5, grade.GradeScore, 1e-9)
}

func TestComputeHealthGrade_NothingComputable(t *testing.T) {
	assert.Nil(t, computeHealthGrade(nil, nil, nil, nil))
	assert.Nil(t, computeHealthGrade(nil, nil, nil, map[string]float64{"peRatio": 12}))
}

func TestLetterGrade_Buckets(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{95, "A"}, {90, "A"}, {87, "A-"}, {80, "B+"}, {72, "B"},
		{65, "C+"}, {57, "C"}, {46, "D"}, {44.9, "F"}, {0, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, letterGrade(tt.score), "score=%v", tt.score)
	}
}
