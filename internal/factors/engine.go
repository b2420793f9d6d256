package factors

import (
	"math"
	"sort"
	"time"

	"github.com/equitylens/backend/internal/contracts"
	"github.com/equitylens/backend/pkg/logger"
)

// Methodology labels stamped on every computation.
const (
	methodologyFiveDim = "weighted_5_dimension"
	methodologySixDim  = "weighted_6_dimension_alt"
)

const topFactorCount = 3

// Inputs bundles the upstream engine outputs the aggregation consumes.
// Every field is optional; missing inputs degrade the affected factors
// to neutral instead of failing the computation.
type Inputs struct {
	Snapshot *contracts.IndicatorSnapshot
	Analysis *contracts.FundamentalAnalysis
	Legacy   map[string]contracts.LegacyFactor
	AltData  *contracts.AltDataScores
}

// Engine blends per-dimension sub-factor scores into the composite factor
// score. Like the other engines it is pure: the same inputs always produce
// the same computation.
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a factor aggregation engine.
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log}
}

// Compute scores every sub-factor, rolls them up into dimension scores and
// the weighted composite, and ranks the top contributors. Alt-data presence
// switches the dimension weight table; it never renormalizes weights.
func (e *Engine) Compute(ticker string, in Inputs) *contracts.FactorComputation {
	hasAlt := in.AltData.Any()
	dimWeights := activeWeights(hasAlt)

	comp := &contracts.FactorComputation{
		Ticker:          ticker,
		ComputedAt:      time.Now().UTC(),
		DimensionScores: make(map[string]float64),
		HasAltData:      hasAlt,
	}
	if hasAlt {
		comp.ScoringMethodology = methodologySixDim
	} else {
		comp.ScoringMethodology = methodologyFiveDim
	}

	composite := 0.0
	for _, dim := range activeDimensions(hasAlt) {
		dimWeight := dimWeights[dim]
		weightedSum := 0.0
		intraSum := 0.0

		for _, sf := range subFactorTable[dim] {
			sc := e.evaluate(dim, sf, in)
			weight := dimWeight * sf.weight
			contrib := contracts.FactorContribution{
				FactorID:        sf.id,
				FactorName:      sf.name,
				Dimension:       dim,
				RawValue:        sc.raw,
				NormalizedScore: sc.score,
				Direction:       direction(sc.score),
				DataSource:      dimensionSource(dim),
				Explanation:     sc.expl,
				Weight:          weight,
				Contribution:    sc.score * weight,
			}
			comp.FactorContributions = append(comp.FactorContributions, contrib)

			weightedSum += sc.score * sf.weight
			intraSum += sf.weight
		}

		dimScore := 5.0
		if intraSum > 0 {
			wavg := weightedSum / intraSum
			dimScore = clampRange((wavg+2)/4*10, 0, 10)
		}
		comp.DimensionScores[dim] = dimScore
		composite += dimScore * dimWeight
	}

	comp.CompositeScore = roundTo1(clampRange(composite, 1, 10))
	comp.TopPositive, comp.TopNegative = rankContributions(comp.FactorContributions)

	if e.logger != nil {
		e.logger.WithFields(map[string]interface{}{
			"ticker":    ticker,
			"composite": comp.CompositeScore,
			"altData":   hasAlt,
			"factors":   len(comp.FactorContributions),
		}).Debug("Computed factor aggregation")
	}
	return comp
}

// evaluate dispatches a sub-factor to the scorer for its dimension.
func (e *Engine) evaluate(dim string, sf subFactor, in Inputs) scored {
	switch dim {
	case DimSupplyChain, DimMacroGeo, DimSentiment:
		return scoreLegacy(in.Legacy, sf.legacyID)
	case DimTechnical:
		return scoreTechnical(sf.id, in.Snapshot)
	case DimFundamental:
		return scoreFundamental(sf.id, in.Analysis)
	case DimAltData:
		return scoreAlt(sf.id, in.AltData)
	}
	return neutralScored()
}

func dimensionSource(dim string) string {
	switch dim {
	case DimTechnical:
		return sourceTechnical
	case DimFundamental:
		return sourceFundamentals
	case DimAltData:
		return sourceAltData
	default:
		return sourceQualitative
	}
}

func direction(score float64) string {
	switch {
	case score > 0:
		return contracts.DirectionPositive
	case score < 0:
		return contracts.DirectionNegative
	default:
		return contracts.DirectionNeutral
	}
}

// rankContributions returns the top positive and top negative factors by
// signed contribution (most positive first, most negative first).
func rankContributions(all []contracts.FactorContribution) (pos, neg []contracts.FactorContribution) {
	ranked := make([]contracts.FactorContribution, len(all))
	copy(ranked, all)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Contribution > ranked[j].Contribution
	})

	for _, c := range ranked {
		if c.Contribution > 0 && len(pos) < topFactorCount {
			pos = append(pos, c)
		}
	}
	for i := len(ranked) - 1; i >= 0; i-- {
		if ranked[i].Contribution < 0 && len(neg) < topFactorCount {
			neg = append(neg, ranked[i])
		}
	}
	return pos, neg
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
