package technical

import (
	"github.com/equitylens/backend/internal/contracts"
	"github.com/equitylens/backend/pkg/logger"
)

// DefaultMinBars is the bar count below which a snapshot is flagged as
// built from insufficient history. Indicators still degrade individually;
// the flag only tells consumers the composite leans on neutral defaults.
const DefaultMinBars = 50

// Engine derives the indicator snapshot and composite technical score from
// raw daily bars. It is pure and stateless: output depends only on input,
// so independent tickers can be computed concurrently without coordination.
type Engine struct {
	minBars int
	logger  *logger.Logger
}

// NewEngine creates a technical indicator engine.
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{
		minBars: DefaultMinBars,
		logger:  log,
	}
}

// Compute evaluates all indicators over the bar series (sorted oldest-first)
// and blends them into the composite score. Missing history never fails:
// each indicator is nil below its own minimum, and the composite substitutes
// a neutral 5.0 for any missing sub-score.
func (e *Engine) Compute(bars []contracts.PriceBar) contracts.IndicatorSnapshot {
	snapshot := contracts.IndicatorSnapshot{
		BarCount:         len(bars),
		InsufficientData: len(bars) < e.minBars,
		Signals: contracts.SignalSummary{
			Trend:      trendNeutral,
			Momentum:   momentumNeutral,
			Volatility: volatilityModerate,
		},
	}

	if len(bars) == 0 {
		snapshot.TechnicalScore = neutralScore
		return snapshot
	}

	closes := contracts.Closes(bars)
	snapshot.LastClose = closes[len(closes)-1]
	snapshot.AsOf = bars[len(bars)-1].Date

	snapshot.SMA20 = smaLast(closes, 20)
	snapshot.SMA50 = smaLast(closes, 50)
	snapshot.SMA200 = smaLast(closes, 200)
	snapshot.EMA12 = emaLast(closes, macdFast)
	snapshot.EMA26 = emaLast(closes, macdSlow)
	snapshot.MACD = macdResult(closes)
	snapshot.RSI = rsiWilder(closes, rsiPeriod)
	snapshot.Stochastic = stochasticResult(bars, stochPeriod, stochSmooth)
	snapshot.WilliamsR = williamsR(bars, willrPeriod)
	snapshot.Bollinger = bollingerBands(closes, bollPeriod, bollMult)
	snapshot.ATR = atrWilder(bars, atrPeriod)
	snapshot.OBV = obv(bars)

	di := adxWilder(bars, adxPeriod)
	if di != nil {
		snapshot.ADX = &di.ADX
	}

	snapshot.IndicatorCount = countIndicators(&snapshot)
	snapshot.TechnicalScore = compositeScore(&snapshot, di)
	snapshot.Signals = summarizeSignals(&snapshot)

	if e.logger != nil {
		e.logger.WithFields(map[string]interface{}{
			"bars":       len(bars),
			"indicators": snapshot.IndicatorCount,
			"score":      snapshot.TechnicalScore,
		}).Debug("Computed indicator snapshot")
	}

	return snapshot
}

// countIndicators counts the indicator fields that could be computed.
func countIndicators(s *contracts.IndicatorSnapshot) int {
	count := 0
	for _, present := range []bool{
		s.SMA20 != nil,
		s.SMA50 != nil,
		s.SMA200 != nil,
		s.EMA12 != nil,
		s.EMA26 != nil,
		s.MACD != nil,
		s.ADX != nil,
		s.RSI != nil,
		s.Stochastic != nil,
		s.WilliamsR != nil,
		s.Bollinger != nil,
		s.ATR != nil,
		s.OBV != nil,
	} {
		if present {
			count++
		}
	}
	return count
}
