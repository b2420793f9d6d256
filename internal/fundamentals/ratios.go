package fundamentals

import "github.com/equitylens/backend/internal/contracts"

// computeRatios derives the standard ratio set from the latest statement.
// Market-dependent ratios (P/E, P/B, EV/EBITDA) are included only when a
// market capitalization is supplied. A negative net income produces a
// negative P/E rather than suppressing the ratio.
func computeRatios(latest contracts.AnnualStatement, market contracts.MarketSnapshot) map[string]float64 {
	ratios := make(map[string]float64)

	put := func(name string, v *float64) {
		if v != nil {
			ratios[name] = *v
		}
	}

	put("currentRatio", div(latest.CurrentAssets, latest.CurrentLiabilities))
	put("debtToEquity", div(latest.Liabilities(), latest.TotalEquity))
	put("roe", div(latest.NetIncome, latest.TotalEquity))
	put("roa", div(latest.NetIncome, latest.TotalAssets))
	put("netProfitMargin", div(latest.NetIncome, latest.Revenue))
	put("operatingMargin", div(latest.EBIT, latest.Revenue))
	put("assetTurnover", div(latest.Revenue, latest.TotalAssets))

	if market.MarketCap != nil {
		put("peRatio", div(market.MarketCap, latest.NetIncome))
		put("priceToBook", div(market.MarketCap, latest.TotalEquity))

		ebitda := addOpt(latest.EBIT, latest.Depreciation)
		enterpriseValue := ptr(*market.MarketCap + orZero(latest.LongTermDebt))
		put("evToEbitda", div(enterpriseValue, ebitda))
	}

	return ratios
}

// basicRatios builds the degraded ratio set from the simpler
// basic-financials source when no statement series is available.
func basicRatios(basic contracts.BasicFinancials) map[string]float64 {
	ratios := make(map[string]float64)

	put := func(name string, v *float64) {
		if v != nil {
			ratios[name] = *v
		}
	}

	put("peRatio", basic.PERatio)
	put("priceToBook", basic.PriceToBook)
	put("roe", basic.ROE)
	put("roa", basic.ROA)
	put("currentRatio", basic.CurrentRatio)
	put("debtToEquity", basic.DebtToEquity)
	put("netProfitMargin", basic.NetProfitMargin)

	return ratios
}
