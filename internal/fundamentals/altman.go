package fundamentals

import "github.com/equitylens/backend/internal/contracts"

// Altman Z-Score coefficients and zone boundaries.
const (
	zCoefX1 = 1.2
	zCoefX2 = 1.4
	zCoefX3 = 3.3
	zCoefX4 = 0.6
	zCoefX5 = 1.0

	zSafeAbove    = 2.99
	zDistressBelow = 1.81
)

// computeZScore evaluates the Altman Z-Score bankruptcy-risk model on the
// latest statement. Missing terms contribute zero; the model itself is
// skipped unless at least X1 (working capital) or X3 (EBIT) is computable.
func computeZScore(latest contracts.AnnualStatement, marketCap *float64) *contracts.ZScoreResult {
	x1 := div(latest.WorkingCapital(), latest.TotalAssets)
	x2 := div(latest.RetainedEarnings, latest.TotalAssets)
	x3 := div(latest.EBIT, latest.TotalAssets)
	x4 := div(marketCap, latest.Liabilities())
	x5 := div(latest.Revenue, latest.TotalAssets)

	if x1 == nil && x3 == nil {
		return nil
	}

	components := make(map[string]float64)
	value := 0.0
	for _, term := range []struct {
		name string
		coef float64
		x    *float64
	}{
		{"x1", zCoefX1, x1},
		{"x2", zCoefX2, x2},
		{"x3", zCoefX3, x3},
		{"x4", zCoefX4, x4},
		{"x5", zCoefX5, x5},
	} {
		if term.x == nil {
			continue
		}
		components[term.name] = *term.x
		value += term.coef * *term.x
	}

	return &contracts.ZScoreResult{
		Value:      value,
		Zone:       zZone(value),
		Components: components,
	}
}

// zZone maps a Z value to its risk zone. Both boundaries belong to the
// gray zone: safety requires strictly more than 2.99 and distress strictly
// less than 1.81.
func zZone(z float64) string {
	switch {
	case z > zSafeAbove:
		return contracts.ZoneSafe
	case z < zDistressBelow:
		return contracts.ZoneDistress
	default:
		return contracts.ZoneGray
	}
}
