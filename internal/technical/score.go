package technical

import (
	"math"

	"github.com/equitylens/backend/internal/contracts"
)

// Composite score weights. Sub-scores are each clamped to [1,10]; a
// missing sub-score contributes the neutral 5.0 at its full weight share.
const (
	weightTrend     = 0.30
	weightMomentum  = 0.25
	weightMACD      = 0.20
	weightADX       = 0.15
	weightBollinger = 0.10

	neutralScore = 5.0
)

// Signal summary labels.
const (
	trendStrongBullish = "strong_bullish"
	trendBullish       = "bullish"
	trendNeutral       = "neutral"
	trendBearish       = "bearish"
	trendStrongBearish = "strong_bearish"

	momentumOverbought = "overbought"
	momentumOversold   = "oversold"
	momentumNeutral    = "neutral"

	volatilityLow      = "low"
	volatilityModerate = "moderate"
	volatilityHigh     = "high"
)

// compositeScore blends the five weighted sub-scores into the final
// technical score, clamped to [1.0, 10.0] and rounded to one decimal.
func compositeScore(s *contracts.IndicatorSnapshot, di *directionalIndex) float64 {
	total := trendScore(s)*weightTrend +
		momentumScore(s.RSI)*weightMomentum +
		macdScore(s)*weightMACD +
		adxScore(di)*weightADX +
		bollingerScore(s)*weightBollinger

	return math.Round(clamp(total, 1, 10)*10) / 10
}

// trendAlignment counts bullish comparisons among the price/SMA20/SMA50/
// SMA200 pairs. Only pairs with both operands available are counted.
func trendAlignment(s *contracts.IndicatorSnapshot) (bullish, total int) {
	price := s.LastClose
	compare := func(a, b float64) {
		total++
		if a > b {
			bullish++
		}
	}
	if s.SMA20 != nil {
		compare(price, *s.SMA20)
	}
	if s.SMA50 != nil {
		compare(price, *s.SMA50)
	}
	if s.SMA200 != nil {
		compare(price, *s.SMA200)
	}
	if s.SMA20 != nil && s.SMA50 != nil {
		compare(*s.SMA20, *s.SMA50)
	}
	if s.SMA50 != nil && s.SMA200 != nil {
		compare(*s.SMA50, *s.SMA200)
	}
	if s.SMA20 != nil && s.SMA200 != nil {
		compare(*s.SMA20, *s.SMA200)
	}
	return bullish, total
}

// trendScore maps the bullish-comparison ratio onto a 1-10 scale.
func trendScore(s *contracts.IndicatorSnapshot) float64 {
	bullish, total := trendAlignment(s)
	if total == 0 {
		return neutralScore
	}
	ratio := float64(bullish) / float64(total)
	return clamp(1+9*ratio, 1, 10)
}

// momentumScore maps RSI onto a 1-10 scale with a piecewise-linear curve:
// oversold readings score high (entry opportunity), overbought low.
func momentumScore(rsi *float64) float64 {
	if rsi == nil {
		return neutralScore
	}
	r := *rsi
	var score float64
	switch {
	case r < 30:
		score = 8 + (30-r)/30*2
	case r < 50:
		score = 6 + (50-r)/20*2
	case r <= 70:
		score = 4 + (70-r)/20*2
	default:
		score = 2 + (100-r)/30*2
	}
	return clamp(score, 1, 10)
}

// macdScore scores the MACD histogram strength relative to price.
func macdScore(s *contracts.IndicatorSnapshot) float64 {
	if s.MACD == nil || s.LastClose == 0 {
		return neutralScore
	}
	histPct := s.MACD.Histogram / s.LastClose * 100
	return clamp(5+4*math.Tanh(histPct), 1, 10)
}

// adxScore scores trend strength, signed by the +DI/-DI direction so a
// strong downtrend scores low rather than high.
func adxScore(di *directionalIndex) float64 {
	if di == nil {
		return neutralScore
	}
	strength := math.Min(di.ADX/50, 1)
	direction := 1.0
	if di.MinusDI > di.PlusDI {
		direction = -1.0
	}
	return clamp(5+direction*strength*5, 1, 10)
}

// bollingerScore scores the close position within the bands: near the
// lower band is an opportunity, near the upper band a caution.
func bollingerScore(s *contracts.IndicatorSnapshot) float64 {
	if s.Bollinger == nil {
		return neutralScore
	}
	width := s.Bollinger.Upper - s.Bollinger.Lower
	if width == 0 {
		return neutralScore
	}
	position := (s.LastClose - s.Bollinger.Lower) / width
	return clamp(10-9*position, 1, 10)
}

// summarizeSignals derives the human-readable trend/momentum/volatility
// labels from the same comparisons used by the numeric score.
func summarizeSignals(s *contracts.IndicatorSnapshot) contracts.SignalSummary {
	summary := contracts.SignalSummary{
		Trend:      trendNeutral,
		Momentum:   momentumNeutral,
		Volatility: volatilityModerate,
	}

	if bullish, total := trendAlignment(s); total > 0 {
		ratio := float64(bullish) / float64(total)
		switch {
		case ratio >= 0.85:
			summary.Trend = trendStrongBullish
		case ratio >= 0.6:
			summary.Trend = trendBullish
		case ratio <= 0.15:
			summary.Trend = trendStrongBearish
		case ratio <= 0.4:
			summary.Trend = trendBearish
		}
	}

	if s.RSI != nil {
		switch {
		case *s.RSI > 70:
			summary.Momentum = momentumOverbought
		case *s.RSI < 30:
			summary.Momentum = momentumOversold
		}
	}

	if s.ATR != nil && s.LastClose > 0 {
		atrPct := *s.ATR / s.LastClose
		switch {
		case atrPct < 0.02:
			summary.Volatility = volatilityLow
		case atrPct > 0.05:
			summary.Volatility = volatilityHigh
		}
	}

	return summary
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
