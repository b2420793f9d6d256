package contracts

import "time"

// MACDResult holds the MACD line, its signal line and the histogram.
type MACDResult struct {
	Value     float64 `json:"value"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// StochasticResult holds the %K and %D lines of the stochastic oscillator.
type StochasticResult struct {
	K float64 `json:"k"`
	D float64 `json:"d"`
}

// BollingerBands holds the three Bollinger band levels.
type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// SignalSummary carries human-readable labels derived from the indicator set.
// Values are display-oriented; numeric consumers should use the raw fields.
type SignalSummary struct {
	Trend      string `json:"trend"`
	Momentum   string `json:"momentum"`
	Volatility string `json:"volatility"`
}

// IndicatorSnapshot is one evaluation of the technical indicator engine.
// Every pointer field is nil when the bar history is too short for that
// indicator; the engine degrades per-indicator instead of failing.
// Field names are fixed for compatibility with existing consumers.
type IndicatorSnapshot struct {
	Ticker     string    `json:"ticker,omitempty"`
	AsOf       time.Time `json:"asOf,omitempty"`
	BarCount   int       `json:"barCount"`
	LastClose  float64   `json:"lastClose"`
	SMA20      *float64  `json:"sma20,omitempty"`
	SMA50      *float64  `json:"sma50,omitempty"`
	SMA200     *float64  `json:"sma200,omitempty"`
	EMA12      *float64  `json:"ema12,omitempty"`
	EMA26      *float64  `json:"ema26,omitempty"`
	MACD       *MACDResult       `json:"macd,omitempty"`
	ADX        *float64          `json:"adx,omitempty"`
	RSI        *float64          `json:"rsi,omitempty"`
	Stochastic *StochasticResult `json:"stochastic,omitempty"`
	WilliamsR  *float64          `json:"williamsR,omitempty"`
	Bollinger  *BollingerBands   `json:"bollingerBands,omitempty"`
	ATR        *float64          `json:"atr,omitempty"`
	OBV        *float64          `json:"obv,omitempty"`
	Signals    SignalSummary     `json:"signals"`

	// TechnicalScore is the weighted composite, always within [1.0, 10.0]
	// and rounded to one decimal place.
	TechnicalScore float64 `json:"technicalScore"`

	// IndicatorCount is the number of indicators that could be computed.
	IndicatorCount int `json:"indicatorCount"`

	// InsufficientData flags a snapshot built from fewer bars than the
	// engine minimum. The score is still usable (neutral defaults fill in).
	InsufficientData bool `json:"insufficientData,omitempty"`
}
