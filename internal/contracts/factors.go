package contracts

import "time"

// LegacyFactor is one qualitative factor score produced upstream by the
// LLM-based reasoning service. IDs follow the legacy A1..F3 scheme and
// scores are already normalized to [-2, 2].
type LegacyFactor struct {
	ID     string  `json:"factorId"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// AltScore is one bucketed 1-10 alternative-data composite produced by an
// independent ingestion collaborator.
type AltScore struct {
	Score   float64 `json:"score"`
	Summary string  `json:"summary,omitempty"`
}

// AltDataScores bundles the optional alternative-data composites. The alt
// dimension activates when at least one of the three is present.
type AltDataScores struct {
	Patents     *AltScore `json:"patents,omitempty"`
	Contracts   *AltScore `json:"contracts,omitempty"`
	FDAPipeline *AltScore `json:"fdaPipeline,omitempty"`
}

// Any reports whether at least one alt-data score is present.
func (a *AltDataScores) Any() bool {
	return a != nil && (a.Patents != nil || a.Contracts != nil || a.FDAPipeline != nil)
}

// Factor directions.
const (
	DirectionPositive = "positive"
	DirectionNegative = "negative"
	DirectionNeutral  = "neutral"
)

// FactorContribution is one scored sub-factor.
// Invariant: Contribution = NormalizedScore * Weight, where Weight is the
// product of the factor's intra-dimension weight and the dimension's active
// weight.
type FactorContribution struct {
	FactorID        string  `json:"factorId"`
	FactorName      string  `json:"factorName"`
	Dimension       string  `json:"dimension"`
	RawValue        float64 `json:"rawValue"`
	NormalizedScore float64 `json:"normalizedScore"`
	Direction       string  `json:"direction"`
	DataSource      string  `json:"dataSource"`
	Explanation     string  `json:"explanation"`
	Weight          float64 `json:"weight"`
	Contribution    float64 `json:"contribution"`
}

// FactorComputation is the final scorable unit produced by the factor
// aggregation engine.
type FactorComputation struct {
	Ticker              string               `json:"ticker"`
	ComputedAt          time.Time            `json:"computedAt"`
	DimensionScores     map[string]float64   `json:"dimensionScores"`
	CompositeScore      float64              `json:"compositeScore"`
	FactorContributions []FactorContribution `json:"factorContributions"`
	TopPositive         []FactorContribution `json:"topPositive"`
	TopNegative         []FactorContribution `json:"topNegative"`
	HasAltData          bool                 `json:"hasAltData"`
	ScoringMethodology  string               `json:"scoringMethodology"`
}
