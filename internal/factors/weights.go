package factors

// Dimension identifiers.
const (
	DimSupplyChain = "supplyChain"
	DimMacroGeo    = "macroGeo"
	DimTechnical   = "technical"
	DimFundamental = "fundamental"
	DimSentiment   = "sentiment"
	DimAltData     = "altData"
)

// Dimension weight tables. Selecting between them is a discrete mode
// switch on alt-data presence, not a renormalization: downstream
// consumers depend on these exact splits.
var (
	weightsWithoutAlt = map[string]float64{
		DimSupplyChain: 0.20,
		DimMacroGeo:    0.20,
		DimTechnical:   0.20,
		DimFundamental: 0.25,
		DimSentiment:   0.15,
	}

	weightsWithAlt = map[string]float64{
		DimSupplyChain: 0.18,
		DimMacroGeo:    0.17,
		DimTechnical:   0.18,
		DimFundamental: 0.22,
		DimSentiment:   0.13,
		DimAltData:     0.12,
	}
)

// activeDimensions lists dimensions in output order for the given mode.
func activeDimensions(hasAlt bool) []string {
	dims := []string{DimSupplyChain, DimMacroGeo, DimTechnical, DimFundamental, DimSentiment}
	if hasAlt {
		dims = append(dims, DimAltData)
	}
	return dims
}

// activeWeights returns the weight table for the given mode.
func activeWeights(hasAlt bool) map[string]float64 {
	if hasAlt {
		return weightsWithAlt
	}
	return weightsWithoutAlt
}

// subFactor describes one named factor inside a dimension. Intra-dimension
// weights sum to 1.0 per dimension. legacyID is set for factors remapped
// from the upstream 18-factor qualitative scoring.
type subFactor struct {
	id       string
	name     string
	weight   float64
	legacyID string
}

// subFactorTable is the fixed factor layout per dimension.
var subFactorTable = map[string][]subFactor{
	DimSupplyChain: {
		{id: "sc_supplier_concentration", name: "Supplier Concentration", weight: 0.25, legacyID: "A1"},
		{id: "sc_logistics", name: "Logistics & Freight Exposure", weight: 0.20, legacyID: "A2"},
		{id: "sc_input_costs", name: "Input Cost Pressure", weight: 0.20, legacyID: "A3"},
		{id: "sc_competitive_position", name: "Competitive Position", weight: 0.15, legacyID: "E1"},
		{id: "sc_demand_visibility", name: "Demand Visibility", weight: 0.20, legacyID: "E3"},
	},
	DimMacroGeo: {
		{id: "mg_rates", name: "Interest Rate Sensitivity", weight: 0.25, legacyID: "B1"},
		{id: "mg_fx", name: "Currency Exposure", weight: 0.20, legacyID: "B2"},
		{id: "mg_cycle", name: "Economic Cycle Position", weight: 0.25, legacyID: "B3"},
		{id: "mg_trade_policy", name: "Trade Policy Risk", weight: 0.15, legacyID: "C1"},
		{id: "mg_regional", name: "Regional Stability", weight: 0.15, legacyID: "C2"},
	},
	DimSentiment: {
		{id: "se_news", name: "News Sentiment", weight: 0.35, legacyID: "D1"},
		{id: "se_analyst", name: "Analyst Sentiment", weight: 0.35, legacyID: "D2"},
		{id: "se_retail", name: "Retail Investor Buzz", weight: 0.30, legacyID: "D3"},
	},
	DimTechnical: {
		{id: "te_trend", name: "Trend Strength", weight: 0.30},
		{id: "te_momentum", name: "Momentum", weight: 0.30},
		{id: "te_volatility", name: "Volatility Regime", weight: 0.20},
		{id: "te_pattern", name: "Pattern Signal", weight: 0.20},
	},
	DimFundamental: {
		{id: "fu_valuation", name: "Valuation", weight: 0.25},
		{id: "fu_health", name: "Financial Health", weight: 0.25},
		{id: "fu_profitability", name: "Profitability & Quality", weight: 0.20},
		{id: "fu_earnings_quality", name: "Earnings Quality", weight: 0.15},
		{id: "fu_growth", name: "Growth", weight: 0.15},
	},
	DimAltData: {
		{id: "alt_patents", name: "Patent Activity", weight: 0.40},
		{id: "alt_contracts", name: "Government Contracts", weight: 0.30},
		{id: "alt_fda", name: "Regulatory Pipeline", weight: 0.30},
	},
}
