package contracts

import "time"

// Score labels derived from the composite score by the host layer.
const (
	LabelStrongBuy  = "strong_buy"
	LabelBuy        = "buy"
	LabelHold       = "hold"
	LabelSell       = "sell"
	LabelStrongSell = "strong_sell"
)

// ScoreResult is one complete scoring run for a ticker. The engines are
// stateless; identity comes from the ticker plus the run timestamp.
type ScoreResult struct {
	Ticker       string               `json:"ticker"`
	Timestamp    time.Time            `json:"timestamp"`
	Technical    *IndicatorSnapshot   `json:"technical,omitempty"`
	Fundamentals *FundamentalAnalysis `json:"fundamentals,omitempty"`
	Factors      *FactorComputation   `json:"factors"`
	Label        string               `json:"label"`
}
