package fundamentals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/equitylens/backend/internal/contracts"
)

// perfectSeries builds a two-year series that earns all nine criteria.
func perfectSeries() contracts.StatementSeries {
	prior := contracts.AnnualStatement{
		TotalAssets:        ptr(1000),
		CurrentAssets:      ptr(300),
		CurrentLiabilities: ptr(150),
		TotalEquity:        ptr(600),
		Revenue:            ptr(900),
		NetIncome:          ptr(50),
		GrossProfit:        ptr(300),
		LongTermDebt:       ptr(100),
		SharesOutstanding:  ptr(100),
		OperatingCashFlow:  ptr(80),
	}
	current := contracts.AnnualStatement{
		TotalAssets:        ptr(1100),
		CurrentAssets:      ptr(330),
		CurrentLiabilities: ptr(120),
		TotalEquity:        ptr(700),
		Revenue:            ptr(1050),
		NetIncome:          ptr(70),
		GrossProfit:        ptr(370),
		LongTermDebt:       ptr(90),
		SharesOutstanding:  ptr(100),
		OperatingCashFlow:  ptr(110),
	}
	return contracts.StatementSeries{current, prior}
}

func TestComputeFScore_PerfectNine(t *testing.T) {
	result := computeFScore(perfectSeries())
	require.NotNil(t, result)

	assert.Equal(t, 9, result.Value)
	assert.Equal(t, 9, result.MaxScore)
	assert.Equal(t, "strong", result.Interpretation)
	require.Len(t, result.Criteria, 9)
	for _, c := range result.Criteria {
		assert.True(t, c.Earned, "criterion %s should be earned", c.Name)
	}
}

func TestComputeFScore_SingleCriterionMonotonicity(t *testing.T) {
	// Flipping one improving input from true to false moves the score by
	// exactly -1: the nine criteria are independent.
	tests := []struct {
		name string
		flip func(s contracts.StatementSeries)
	}{
		{"roa_improving", func(s contracts.StatementSeries) { s[0].NetIncome = ptr(55) }},     // ROA 0.05 == prior
		{"ocf_exceeds_net_income", func(s contracts.StatementSeries) { s[0].OperatingCashFlow = ptr(60) }},
		{"leverage_decreasing", func(s contracts.StatementSeries) { s[0].LongTermDebt = ptr(150) }},
		{"current_ratio_improving", func(s contracts.StatementSeries) { s[0].CurrentLiabilities = ptr(200) }},
		{"no_dilution", func(s contracts.StatementSeries) { s[0].SharesOutstanding = ptr(110) }},
		{"gross_margin_improving", func(s contracts.StatementSeries) { s[0].GrossProfit = ptr(300) }},
		{"asset_turnover_improving", func(s contracts.StatementSeries) { s[0].Revenue = ptr(850) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := perfectSeries()
			tt.flip(series)

			result := computeFScore(series)
			require.NotNil(t, result)
			assert.Equal(t, 8, result.Value)

			for _, c := range result.Criteria {
				if c.Name == tt.name {
					assert.False(t, c.Earned, "flipped criterion %s should not be earned", c.Name)
				} else {
					assert.True(t, c.Earned, "criterion %s should stay earned", c.Name)
				}
			}
		})
	}
}

func TestComputeFScore_ZeroDebtPassesLeverage(t *testing.T) {
	series := perfectSeries()
	series[0].LongTermDebt = ptr(0)
	series[1].LongTermDebt = ptr(0)

	result := computeFScore(series)
	require.NotNil(t, result)
	assert.Equal(t, 9, result.Value)
}

func TestComputeFScore_MissingPriorYear(t *testing.T) {
	series := perfectSeries()[:1]

	result := computeFScore(series)
	require.NotNil(t, result)

	// Only the three single-year criteria can be earned.
	assert.Equal(t, 3, result.Value)
	assert.Equal(t, "weak", result.Interpretation)
	require.Len(t, result.Criteria, 9)
}

func TestComputeFScore_EmptySeries(t *testing.T) {
	assert.Nil(t, computeFScore(nil))
	assert.Nil(t, computeFScore(contracts.StatementSeries{}))
}

func TestFInterpretation_Buckets(t *testing.T) {
	assert.Equal(t, "strong", fInterpretation(9))
	assert.Equal(t, "strong", fInterpretation(8))
	assert.Equal(t, "moderate", fInterpretation(7))
	assert.Equal(t, "moderate", fInterpretation(5))
	assert.Equal(t, "weak", fInterpretation(4))
	assert.Equal(t, "weak", fInterpretation(0))
}
