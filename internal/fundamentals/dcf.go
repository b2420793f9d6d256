package fundamentals

import (
	"math"

	"github.com/equitylens/backend/internal/contracts"
)

// Two-stage DCF parameters. The discount rate comes from CAPM over a fixed
// risk-free rate and equity risk premium.
const (
	riskFreeRate      = 0.043
	equityRiskPremium = 0.055
	projectionYears   = 10

	growthFloor   = -0.05
	growthCeiling = 0.25
	terminalCap   = 0.03
	betaFloor     = 0.5
	betaCeiling   = 3.0
)

// computeDCF runs the two-stage discounted-cash-flow valuation. It needs a
// positive latest free cash flow, an estimable growth rate and a share
// count; anything less skips the model rather than guessing.
func computeDCF(stmts contracts.StatementSeries, market contracts.MarketSnapshot) *contracts.DCFResult {
	if len(stmts) == 0 {
		return nil
	}
	latest := stmts[0]

	fcf := latest.FreeCashFlow()
	if fcf == nil || *fcf <= 0 {
		return nil
	}

	growth := estimateGrowth(stmts)
	if growth == nil {
		return nil
	}
	g := clamp(*growth, growthFloor, growthCeiling)

	beta := 1.0
	if market.Beta != nil {
		beta = clamp(*market.Beta, betaFloor, betaCeiling)
	}
	discount := riskFreeRate + beta*equityRiskPremium
	terminal := math.Min(terminalCap, g*0.3)

	shares := market.SharesOutstanding
	if shares == nil {
		shares = latest.SharesOutstanding
	}
	if shares == nil || *shares <= 0 {
		return nil
	}

	fair := projectFairValue(*fcf, g, terminal, discount, *shares)
	if fair == nil {
		return nil
	}

	result := &contracts.DCFResult{
		FairValue:         *fair,
		GrowthRatePct:     g * 100,
		DiscountRatePct:   discount * 100,
		TerminalGrowthPct: terminal * 100,
		Sensitivity:       sensitivityGrid(*fcf, g, terminal, discount, *shares),
	}

	if market.Price != nil && *market.Price > 0 {
		result.CurrentPrice = market.Price
		result.UpsidePct = ptr((*fair - *market.Price) / *market.Price * 100)
	}

	return result
}

// estimateGrowth derives the baseline growth rate from the free-cash-flow
// CAGR across the series, falling back to revenue when FCF history is
// unusable.
func estimateGrowth(stmts contracts.StatementSeries) *float64 {
	if g := cagr(fcfAt(stmts, 0), fcfAt(stmts, len(stmts)-1), len(stmts)-1); g != nil {
		return g
	}
	if len(stmts) < 2 {
		return nil
	}
	return cagr(stmts[0].Revenue, stmts[len(stmts)-1].Revenue, len(stmts)-1)
}

func fcfAt(stmts contracts.StatementSeries, i int) *float64 {
	if i < 0 || i >= len(stmts) {
		return nil
	}
	return stmts[i].FreeCashFlow()
}

// cagr computes the compound annual growth rate from oldest to latest.
// Both endpoints must be positive for the geometric mean to be defined.
func cagr(latest, oldest *float64, years int) *float64 {
	if latest == nil || oldest == nil || years <= 0 {
		return nil
	}
	if *latest <= 0 || *oldest <= 0 {
		return nil
	}
	return ptr(math.Pow(*latest / *oldest, 1/float64(years)) - 1)
}

// projectFairValue projects free cash flow for the fixed horizon with the
// growth rate fading linearly from the baseline toward the terminal rate,
// discounts each year plus a Gordon-growth terminal value, and divides the
// enterprise value across shares. The same projection serves the main path
// and every sensitivity cell. Returns nil when the discount rate does not
// exceed the terminal rate (the terminal value is undefined there).
func projectFairValue(fcf, growth, terminal, discount, shares float64) *float64 {
	if shares <= 0 || discount <= terminal {
		return nil
	}

	presentValue := 0.0
	cash := fcf
	for year := 1; year <= projectionYears; year++ {
		fade := float64(year-1) / float64(projectionYears-1)
		rate := growth + (terminal-growth)*fade
		cash *= 1 + rate
		presentValue += cash / math.Pow(1+discount, float64(year))
	}

	terminalValue := cash * (1 + terminal) / (discount - terminal)
	presentValue += terminalValue / math.Pow(1+discount, float64(projectionYears))

	return ptr(presentValue / shares)
}

// sensitivityGrid builds the 3x3 WACC x terminal-growth grid around the
// base assumptions. Cells where the WACC does not exceed the terminal rate
// are skipped as undefined.
func sensitivityGrid(fcf, growth, terminal, discount, shares float64) []contracts.DCFSensitivity {
	grid := make([]contracts.DCFSensitivity, 0, 9)
	for _, dw := range []float64{-0.01, 0, 0.01} {
		for _, dt := range []float64{-0.005, 0, 0.005} {
			wacc := discount + dw
			term := terminal + dt
			if wacc <= term {
				continue
			}
			fair := projectFairValue(fcf, growth, term, wacc, shares)
			if fair == nil {
				continue
			}
			grid = append(grid, contracts.DCFSensitivity{
				WACCPct:           wacc * 100,
				TerminalGrowthPct: term * 100,
				FairValue:         *fair,
			})
		}
	}
	return grid
}
