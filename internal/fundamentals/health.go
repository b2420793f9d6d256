package fundamentals

import "github.com/equitylens/backend/internal/contracts"

// Health grade component weights. The weighted average renormalizes over
// whichever components could be computed.
const (
	healthWeightZ      = 0.30
	healthWeightF      = 0.30
	healthWeightM      = 0.20
	healthWeightRatios = 0.20
)

// computeHealthGrade blends the four model outputs into a 0-100 score and
// an 8-bucket letter grade. Absent models drop out of the average instead
// of dragging it down.
func computeHealthGrade(
	z *contracts.ZScoreResult,
	f *contracts.FScoreResult,
	m *contracts.MScoreResult,
	ratios map[string]float64,
) *contracts.HealthGrade {
	var weighted, weightSum float64

	if z != nil {
		weighted += zGradeComponent(z.Value) * healthWeightZ
		weightSum += healthWeightZ
	}
	if f != nil {
		weighted += float64(f.Value) / float64(f.MaxScore) * 100 * healthWeightF
		weightSum += healthWeightF
	}
	if m != nil {
		weighted += mGradeComponent(m.Value) * healthWeightM
		weightSum += healthWeightM
	}
	if heuristic, ok := ratioHeuristic(ratios); ok {
		weighted += heuristic * healthWeightRatios
		weightSum += healthWeightRatios
	}

	if weightSum == 0 {
		return nil
	}

	score := weighted / weightSum
	return &contracts.HealthGrade{
		Grade:      letterGrade(score),
		GradeScore: score,
	}
}

// zGradeComponent maps the Z value onto 0-100 through five zone buckets.
func zGradeComponent(z float64) float64 {
	switch {
	case z > 3.5:
		return 95
	case z > zSafeAbove:
		return 80
	case z >= zDistressBelow:
		return 55
	case z >= 1.0:
		return 35
	default:
		return 15
	}
}

// mGradeComponent maps the M value onto 0-100 through four buckets; lower
// (more negative) means less manipulation risk.
func mGradeComponent(m float64) float64 {
	switch {
	case m < -3.0:
		return 90
	case m <= mThreshold:
		return 75
	case m <= -1.78:
		return 40
	default:
		return 20
	}
}

// ratioHeuristic scores liquidity, leverage and returns from a neutral 50,
// adjusting per threshold crossed. The second return is false when none of
// the three inputs is available.
func ratioHeuristic(ratios map[string]float64) (float64, bool) {
	score := 50.0
	available := false

	if cr, ok := ratios["currentRatio"]; ok {
		available = true
		switch {
		case cr > 2:
			score += 15
		case cr > 1.5:
			score += 10
		case cr < 1:
			score -= 15
		}
	}
	if de, ok := ratios["debtToEquity"]; ok {
		available = true
		switch {
		case de < 0.5:
			score += 15
		case de < 1:
			score += 5
		case de > 2:
			score -= 15
		}
	}
	if roe, ok := ratios["roe"]; ok {
		available = true
		switch {
		case roe > 0.15:
			score += 20
		case roe > 0.08:
			score += 10
		case roe < 0:
			score -= 20
		}
	}

	return clamp(score, 0, 100), available
}

// letterGrade assigns the letter via the 8-bucket threshold table.
func letterGrade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 85:
		return "A-"
	case score >= 78:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 62:
		return "C+"
	case score >= 55:
		return "C"
	case score >= 45:
		return "D"
	default:
		return "F"
	}
}
