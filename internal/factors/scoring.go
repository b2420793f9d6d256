package factors

import (
	"fmt"
	"math"

	"github.com/equitylens/backend/internal/contracts"
)

// Data source labels recorded on each contribution.
const (
	sourceQualitative  = "qualitative_llm"
	sourceTechnical    = "technical_engine"
	sourceFundamentals = "fundamentals_engine"
	sourceAltData      = "alt_data"

	missingExplanation = "data not yet available"
)

// scored is the result of evaluating one sub-factor: a normalized score
// in [-2, +2], the raw observed value it was derived from, and a short
// explanation. ok=false means the underlying data was absent and the
// factor should fall back to neutral.
type scored struct {
	score float64
	raw   float64
	expl  string
	ok    bool
}

func neutralScored() scored {
	return scored{score: 0, raw: 0, expl: missingExplanation, ok: false}
}

// scoreLegacy maps an upstream qualitative factor (already in [-2, +2])
// onto a sub-factor, clamping defensively.
func scoreLegacy(legacy map[string]contracts.LegacyFactor, id string) scored {
	lf, ok := legacy[id]
	if !ok {
		return neutralScored()
	}
	return scored{
		score: clampRange(lf.Score, -2, 2),
		raw:   lf.Score,
		expl:  lf.Reason,
		ok:    true,
	}
}

// scoreTechnical evaluates one technical sub-factor from the indicator
// snapshot. Piecewise bucket maps keep scores at stable, explainable
// levels rather than continuous functions of noisy inputs.
func scoreTechnical(id string, snap *contracts.IndicatorSnapshot) scored {
	if snap == nil {
		return neutralScored()
	}
	switch id {
	case "te_trend":
		return scoreTrendLabel(snap.Signals.Trend)
	case "te_momentum":
		if snap.RSI == nil {
			return neutralScored()
		}
		return scoreRSI(*snap.RSI)
	case "te_volatility":
		if snap.ATR == nil || snap.LastClose <= 0 {
			return neutralScored()
		}
		return scoreVolatility(*snap.ATR / snap.LastClose * 100)
	case "te_pattern":
		if snap.MACD == nil {
			return neutralScored()
		}
		return scorePattern(snap.MACD, snap.Stochastic)
	}
	return neutralScored()
}

func scoreTrendLabel(trend string) scored {
	var s float64
	switch trend {
	case "strong_bullish":
		s = 2
	case "bullish":
		s = 1
	case "bearish":
		s = -1
	case "strong_bearish":
		s = -2
	default:
		s = 0
	}
	return scored{score: s, raw: s, expl: fmt.Sprintf("moving average alignment is %s", trend), ok: true}
}

func scoreRSI(rsi float64) scored {
	var s float64
	var expl string
	switch {
	case rsi < 30:
		s, expl = 1.5, "RSI oversold, mean-reversion setup"
	case rsi < 45:
		s, expl = 0.5, "RSI below midline with room to run"
	case rsi <= 60:
		s, expl = 0, "RSI in neutral territory"
	case rsi <= 70:
		s, expl = -0.5, "RSI elevated"
	default:
		s, expl = -1.5, "RSI overbought, pullback risk"
	}
	return scored{score: s, raw: rsi, expl: expl, ok: true}
}

func scoreVolatility(atrPct float64) scored {
	var s float64
	var expl string
	switch {
	case atrPct < 2:
		s, expl = 0.5, "low realized volatility"
	case atrPct <= 5:
		s, expl = 0, "normal volatility regime"
	default:
		s, expl = -1, "elevated volatility regime"
	}
	return scored{score: s, raw: atrPct, expl: expl, ok: true}
}

func scorePattern(macd *contracts.MACDResult, stoch *contracts.StochasticResult) scored {
	hist := macd.Histogram
	stochConfirms := func(up bool) bool {
		if stoch == nil {
			return false
		}
		if up {
			return stoch.K > stoch.D
		}
		return stoch.K < stoch.D
	}
	var s float64
	var expl string
	switch {
	case hist > 0 && stochConfirms(true):
		s, expl = 1, "MACD momentum positive with stochastic confirmation"
	case hist > 0:
		s, expl = 0.5, "MACD momentum positive"
	case hist < 0 && stochConfirms(false):
		s, expl = -1, "MACD momentum negative with stochastic confirmation"
	case hist < 0:
		s, expl = -0.5, "MACD momentum negative"
	default:
		s, expl = 0, "no directional pattern signal"
	}
	return scored{score: s, raw: hist, expl: expl, ok: true}
}

// scoreFundamental evaluates one fundamental sub-factor from the
// fundamentals analysis.
func scoreFundamental(id string, fa *contracts.FundamentalAnalysis) scored {
	if fa == nil {
		return neutralScored()
	}
	switch id {
	case "fu_valuation":
		return scoreValuation(fa)
	case "fu_health":
		if fa.Health == nil {
			return neutralScored()
		}
		return scoreHealth(fa.Health.GradeScore)
	case "fu_profitability":
		if fa.FScore == nil {
			return neutralScored()
		}
		return scoreFScore(fa.FScore.Value)
	case "fu_earnings_quality":
		if fa.MScore == nil {
			return neutralScored()
		}
		return scoreMScore(fa.MScore.Value)
	case "fu_growth":
		if fa.DCF == nil {
			return neutralScored()
		}
		return scoreGrowth(fa.DCF.GrowthRatePct)
	}
	return neutralScored()
}

func scoreValuation(fa *contracts.FundamentalAnalysis) scored {
	if fa.DCF != nil && fa.DCF.UpsidePct != nil {
		up := *fa.DCF.UpsidePct
		var s float64
		var expl string
		switch {
		case up >= 50:
			s, expl = 2, "deep discount to intrinsic value"
		case up >= 20:
			s, expl = 1, "trading below intrinsic value"
		case up >= 0:
			s, expl = 0.5, "modest upside to intrinsic value"
		case up >= -20:
			s, expl = -0.5, "slightly above intrinsic value"
		default:
			s, expl = -1.5, "materially above intrinsic value"
		}
		return scored{score: s, raw: up, expl: expl, ok: true}
	}
	if pe, ok := fa.Ratios["peRatio"]; ok {
		var s float64
		var expl string
		switch {
		case pe <= 0:
			s, expl = -0.5, "negative earnings, P/E not meaningful"
		case pe < 12:
			s, expl = 1, "low earnings multiple"
		case pe < 20:
			s, expl = 0.5, "reasonable earnings multiple"
		case pe < 30:
			s, expl = 0, "average earnings multiple"
		default:
			s, expl = -1, "rich earnings multiple"
		}
		return scored{score: s, raw: pe, expl: expl, ok: true}
	}
	return neutralScored()
}

func scoreHealth(grade float64) scored {
	var s float64
	var expl string
	switch {
	case grade >= 80:
		s, expl = 2, "excellent financial health"
	case grade >= 65:
		s, expl = 1, "solid financial health"
	case grade >= 50:
		s, expl = 0, "adequate financial health"
	case grade >= 35:
		s, expl = -1, "strained balance sheet"
	default:
		s, expl = -2, "weak financial health"
	}
	return scored{score: s, raw: grade, expl: expl, ok: true}
}

func scoreFScore(f int) scored {
	var s float64
	var expl string
	switch {
	case f >= 8:
		s, expl = 2, "broad operating improvement (Piotroski)"
	case f >= 6:
		s, expl = 1, "improving operating quality (Piotroski)"
	case f == 5:
		s, expl = 0, "mixed operating signals (Piotroski)"
	case f >= 3:
		s, expl = -1, "deteriorating operating quality (Piotroski)"
	default:
		s, expl = -2, "broad operating deterioration (Piotroski)"
	}
	return scored{score: s, raw: float64(f), expl: expl, ok: true}
}

func scoreMScore(m float64) scored {
	var s float64
	var expl string
	switch {
	case m < -3:
		s, expl = 1.5, "very low earnings manipulation risk"
	case m <= -2.22:
		s, expl = 1, "low earnings manipulation risk"
	case m <= -1.78:
		s, expl = -1, "borderline earnings manipulation signal"
	default:
		s, expl = -2, "elevated earnings manipulation risk"
	}
	return scored{score: s, raw: m, expl: expl, ok: true}
}

func scoreGrowth(growthPct float64) scored {
	var s float64
	var expl string
	switch {
	case growthPct >= 15:
		s, expl = 2, "strong cash flow growth trajectory"
	case growthPct >= 8:
		s, expl = 1, "healthy cash flow growth"
	case growthPct >= 0:
		s, expl = 0, "flat to modest growth"
	default:
		s, expl = -1, "shrinking cash flow base"
	}
	return scored{score: s, raw: growthPct, expl: expl, ok: true}
}

// scoreAlt rescales an external 1-10 alt-data score onto [-2, +2].
func scoreAlt(id string, alt *contracts.AltDataScores) scored {
	if alt == nil {
		return neutralScored()
	}
	var as *contracts.AltScore
	switch id {
	case "alt_patents":
		as = alt.Patents
	case "alt_contracts":
		as = alt.Contracts
	case "alt_fda":
		as = alt.FDAPipeline
	}
	if as == nil {
		return neutralScored()
	}
	expl := as.Summary
	if expl == "" {
		expl = "alternative data composite"
	}
	return scored{
		score: clampRange((as.Score-5)*0.5, -2, 2),
		raw:   as.Score,
		expl:  expl,
		ok:    true,
	}
}

func clampRange(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
