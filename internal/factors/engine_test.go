package factors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equitylens/backend/internal/contracts"
)

func ptr(v float64) *float64 { return &v }

// findFactor returns the contribution with the given id, failing the test
// when it is absent.
func findFactor(t *testing.T, comp *contracts.FactorComputation, id string) contracts.FactorContribution {
	t.Helper()
	for _, c := range comp.FactorContributions {
		if c.FactorID == id {
			return c
		}
	}
	t.Fatalf("factor %s not found", id)
	return contracts.FactorContribution{}
}

func TestWeightTables_SumToOne(t *testing.T) {
	sum := 0.0
	for _, w := range weightsWithoutAlt {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	sum = 0.0
	for _, w := range weightsWithAlt {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	for dim, subs := range subFactorTable {
		intra := 0.0
		for _, sf := range subs {
			intra += sf.weight
		}
		assert.InDeltaf(t, 1.0, intra, 1e-9, "dimension %s intra weights", dim)
	}
}

func TestCompute_NoInputsDegradesToNeutral(t *testing.T) {
	engine := NewEngine(nil)

	comp := engine.Compute("ACME", Inputs{})
	require.NotNil(t, comp)

	assert.False(t, comp.HasAltData)
	assert.Equal(t, methodologyFiveDim, comp.ScoringMethodology)
	assert.Len(t, comp.DimensionScores, 5)
	assert.Len(t, comp.FactorContributions, 22)

	for dim, score := range comp.DimensionScores {
		assert.InDeltaf(t, 5.0, score, 1e-9, "dimension %s", dim)
	}
	assert.InDelta(t, 5.0, comp.CompositeScore, 1e-9)

	for _, c := range comp.FactorContributions {
		assert.Equal(t, contracts.DirectionNeutral, c.Direction)
		assert.Equal(t, "data not yet available", c.Explanation)
		assert.Zero(t, c.NormalizedScore)
		assert.Zero(t, c.Contribution)
	}
	assert.Empty(t, comp.TopPositive)
	assert.Empty(t, comp.TopNegative)
}

func TestCompute_AltDataSwitchesWeightTable(t *testing.T) {
	engine := NewEngine(nil)
	alt := &contracts.AltDataScores{
		Patents: &contracts.AltScore{Score: 10, Summary: "surging patent grants"},
	}

	without := engine.Compute("ACME", Inputs{})
	with := engine.Compute("ACME", Inputs{AltData: alt})

	assert.False(t, without.HasAltData)
	assert.True(t, with.HasAltData)
	assert.Equal(t, methodologySixDim, with.ScoringMethodology)
	assert.Len(t, with.DimensionScores, 6)
	assert.Len(t, with.FactorContributions, 25)

	// The mode switch changes every dimension weight, not just the new one.
	assert.InDelta(t, 0.20*0.25, findFactor(t, without, "sc_supplier_concentration").Weight, 1e-9)
	assert.InDelta(t, 0.18*0.25, findFactor(t, with, "sc_supplier_concentration").Weight, 1e-9)

	// A raw 10 rescales past the +2 cap and is clamped.
	patents := findFactor(t, with, "alt_patents")
	assert.InDelta(t, 10.0, patents.RawValue, 1e-9)
	assert.InDelta(t, 2.0, patents.NormalizedScore, 1e-9)
	assert.Equal(t, sourceAltData, patents.DataSource)
	assert.Equal(t, "surging patent grants", patents.Explanation)

	// Only patents present: alt dim wavg = 2*0.4 = 0.8 -> 7.0, everything
	// else neutral 5.0.
	assert.InDelta(t, 7.0, with.DimensionScores[DimAltData], 1e-9)
	assert.InDelta(t, 5.2, with.CompositeScore, 1e-9)
}

func TestCompute_LegacyScenarioRollup(t *testing.T) {
	engine := NewEngine(nil)
	legacy := map[string]contracts.LegacyFactor{
		"A1": {ID: "A1", Score: 2.0, Reason: "dominant supplier base"},
		"A2": {ID: "A2", Score: 1.0, Reason: "freight costs easing"},
		"A3": {ID: "A3", Score: -1.0, Reason: "input cost inflation"},
		"E1": {ID: "E1", Score: 1.5, Reason: "widening moat"},
		"E3": {ID: "E3", Score: 0.5, Reason: "solid backlog"},
		"B1": {ID: "B1", Score: -2.0, Reason: "heavy rate exposure"},
		"B2": {ID: "B2", Score: -1.0, Reason: "unhedged FX"},
		"B3": {ID: "B3", Score: 0.0, Reason: "mid-cycle"},
		"C1": {ID: "C1", Score: -0.5, Reason: "tariff overhang"},
		"C2": {ID: "C2", Score: 1.0, Reason: "stable regions"},
		"D1": {ID: "D1", Score: 2.0, Reason: "very positive coverage"},
		"D2": {ID: "D2", Score: -1.5, Reason: "analyst downgrades"},
		"D3": {ID: "D3", Score: 0.5, Reason: "mild retail interest"},
	}

	comp := engine.Compute("ACME", Inputs{Legacy: legacy})
	require.NotNil(t, comp)

	assert.InDelta(t, 7.0625, comp.DimensionScores[DimSupplyChain], 1e-9)
	assert.InDelta(t, 3.4375, comp.DimensionScores[DimMacroGeo], 1e-9)
	assert.InDelta(t, 5.8125, comp.DimensionScores[DimSentiment], 1e-9)
	assert.InDelta(t, 5.0, comp.DimensionScores[DimTechnical], 1e-9)
	assert.InDelta(t, 5.0, comp.DimensionScores[DimFundamental], 1e-9)

	// 0.2*7.0625 + 0.2*3.4375 + 0.2*5 + 0.25*5 + 0.15*5.8125 = 5.221875
	assert.InDelta(t, 5.2, comp.CompositeScore, 1e-9)

	// Legacy scores, reasons and source flow through the remapping.
	sc := findFactor(t, comp, "sc_supplier_concentration")
	assert.InDelta(t, 2.0, sc.NormalizedScore, 1e-9)
	assert.Equal(t, "dominant supplier base", sc.Explanation)
	assert.Equal(t, contracts.DirectionPositive, sc.Direction)
	assert.Equal(t, sourceQualitative, sc.DataSource)

	// Ranking is by signed contribution, not by normalized score:
	// se_news 2.0*(0.15*0.35)=0.105 beats sc_supplier_concentration
	// 2.0*(0.20*0.25)=0.100.
	require.Len(t, comp.TopPositive, 3)
	assert.Equal(t, "se_news", comp.TopPositive[0].FactorID)
	assert.Equal(t, "sc_supplier_concentration", comp.TopPositive[1].FactorID)
	assert.Equal(t, "sc_competitive_position", comp.TopPositive[2].FactorID)

	require.Len(t, comp.TopNegative, 3)
	assert.Equal(t, "mg_rates", comp.TopNegative[0].FactorID)
	assert.Equal(t, "se_analyst", comp.TopNegative[1].FactorID)
	assert.InDelta(t, -0.04, comp.TopNegative[2].Contribution, 1e-9)
}

func TestCompute_ContributionInvariant(t *testing.T) {
	engine := NewEngine(nil)
	comp := engine.Compute("ACME", Inputs{
		Legacy: map[string]contracts.LegacyFactor{
			"A1": {ID: "A1", Score: 1.25, Reason: "r"},
			"D2": {ID: "D2", Score: -0.75, Reason: "r"},
		},
		AltData: &contracts.AltDataScores{
			Contracts: &contracts.AltScore{Score: 3},
		},
	})

	weightSum := 0.0
	for _, c := range comp.FactorContributions {
		assert.InDeltaf(t, c.NormalizedScore*c.Weight, c.Contribution, 1e-12, "factor %s", c.FactorID)
		weightSum += c.Weight
	}
	// Per-factor weights partition the full composite weight.
	assert.InDelta(t, 1.0, weightSum, 1e-9)
}

func TestCompute_TechnicalFactorMapping(t *testing.T) {
	engine := NewEngine(nil)
	snap := &contracts.IndicatorSnapshot{
		LastClose:  100,
		RSI:        ptr(72),
		ATR:        ptr(1.0),
		MACD:       &contracts.MACDResult{Histogram: 0.5},
		Stochastic: &contracts.StochasticResult{K: 80, D: 70},
		Signals: contracts.SignalSummary{
			Trend: "strong_bullish",
		},
	}

	comp := engine.Compute("ACME", Inputs{Snapshot: snap})

	assert.InDelta(t, 2.0, findFactor(t, comp, "te_trend").NormalizedScore, 1e-9)
	assert.InDelta(t, -1.5, findFactor(t, comp, "te_momentum").NormalizedScore, 1e-9)
	assert.InDelta(t, 0.5, findFactor(t, comp, "te_volatility").NormalizedScore, 1e-9)
	assert.InDelta(t, 1.0, findFactor(t, comp, "te_pattern").NormalizedScore, 1e-9)

	// wavg = 2*0.3 - 1.5*0.3 + 0.5*0.2 + 1*0.2 = 0.45 -> 6.125
	assert.InDelta(t, 6.125, comp.DimensionScores[DimTechnical], 1e-9)

	mom := findFactor(t, comp, "te_momentum")
	assert.InDelta(t, 72.0, mom.RawValue, 1e-9)
	assert.Equal(t, contracts.DirectionNegative, mom.Direction)
	assert.Equal(t, sourceTechnical, mom.DataSource)
}

func TestCompute_FundamentalFactorMapping(t *testing.T) {
	engine := NewEngine(nil)
	fa := &contracts.FundamentalAnalysis{
		Health: &contracts.HealthGrade{Grade: "A", GradeScore: 85},
		FScore: &contracts.FScoreResult{Value: 8, MaxScore: 9},
		MScore: &contracts.MScoreResult{Value: -2.5},
		DCF: &contracts.DCFResult{
			FairValue:     125,
			UpsidePct:     ptr(25),
			GrowthRatePct: 10,
		},
	}

	comp := engine.Compute("ACME", Inputs{Analysis: fa})

	assert.InDelta(t, 1.0, findFactor(t, comp, "fu_valuation").NormalizedScore, 1e-9)
	assert.InDelta(t, 2.0, findFactor(t, comp, "fu_health").NormalizedScore, 1e-9)
	assert.InDelta(t, 2.0, findFactor(t, comp, "fu_profitability").NormalizedScore, 1e-9)
	assert.InDelta(t, 1.0, findFactor(t, comp, "fu_earnings_quality").NormalizedScore, 1e-9)
	assert.InDelta(t, 1.0, findFactor(t, comp, "fu_growth").NormalizedScore, 1e-9)

	// wavg = 1*0.25 + 2*0.25 + 2*0.2 + 1*0.15 + 1*0.15 = 1.45 -> 8.625
	assert.InDelta(t, 8.625, comp.DimensionScores[DimFundamental], 1e-9)
}

func TestCompute_ValuationFallsBackToPERatio(t *testing.T) {
	engine := NewEngine(nil)
	fa := &contracts.FundamentalAnalysis{
		Ratios: map[string]float64{"peRatio": 10},
	}

	comp := engine.Compute("ACME", Inputs{Analysis: fa})

	val := findFactor(t, comp, "fu_valuation")
	assert.InDelta(t, 1.0, val.NormalizedScore, 1e-9)
	assert.InDelta(t, 10.0, val.RawValue, 1e-9)

	// No models at all: the remaining fundamental factors stay neutral.
	assert.Equal(t, "data not yet available", findFactor(t, comp, "fu_health").Explanation)
}

func TestScoreAlt_RescalesAndClamps(t *testing.T) {
	cases := []struct {
		raw  float64
		want float64
	}{
		{1, -2},
		{3, -1},
		{5, 0},
		{7, 1},
		{9, 2},
		{10, 2},
	}
	for _, tc := range cases {
		alt := &contracts.AltDataScores{FDAPipeline: &contracts.AltScore{Score: tc.raw}}
		got := scoreAlt("alt_fda", alt)
		require.True(t, got.ok)
		assert.InDeltaf(t, tc.want, got.score, 1e-9, "raw %v", tc.raw)
	}
}

func TestScoreLegacy_ClampsOutOfRangeScores(t *testing.T) {
	legacy := map[string]contracts.LegacyFactor{
		"A1": {ID: "A1", Score: 3.5, Reason: "runaway score"},
	}
	got := scoreLegacy(legacy, "A1")
	assert.InDelta(t, 2.0, got.score, 1e-9)
	assert.InDelta(t, 3.5, got.raw, 1e-9)

	missing := scoreLegacy(legacy, "B1")
	assert.False(t, missing.ok)
	assert.Equal(t, "data not yet available", missing.expl)
}
