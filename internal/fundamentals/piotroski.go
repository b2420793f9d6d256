package fundamentals

import (
	"fmt"

	"github.com/equitylens/backend/internal/contracts"
)

// F-Score interpretation buckets.
const (
	fScoreMax      = 9
	fStrongAtLeast = 8
	fWeakBelow     = 5
)

// computeFScore evaluates the nine Piotroski criteria. Criteria that lack
// the data they need simply score zero; only a completely empty series
// skips the model.
func computeFScore(stmts contracts.StatementSeries) *contracts.FScoreResult {
	if len(stmts) == 0 {
		return nil
	}

	cur := stmts[0]
	var prior *contracts.AnnualStatement
	if len(stmts) > 1 {
		prior = &stmts[1]
	}

	criteria := []contracts.FScoreCriterion{
		roaPositive(cur),
		ocfPositive(cur),
		roaImproving(cur, prior),
		ocfExceedsNetIncome(cur),
		leverageDecreasing(cur, prior),
		currentRatioImproving(cur, prior),
		noDilution(cur, prior),
		grossMarginImproving(cur, prior),
		assetTurnoverImproving(cur, prior),
	}

	score := 0
	for _, c := range criteria {
		if c.Earned {
			score++
		}
	}

	return &contracts.FScoreResult{
		Value:          score,
		MaxScore:       fScoreMax,
		Interpretation: fInterpretation(score),
		Criteria:       criteria,
	}
}

func fInterpretation(score int) string {
	switch {
	case score >= fStrongAtLeast:
		return "strong"
	case score >= fWeakBelow:
		return "moderate"
	default:
		return "weak"
	}
}

func roaPositive(cur contracts.AnnualStatement) contracts.FScoreCriterion {
	c := contracts.FScoreCriterion{Name: "roa_positive", Detail: "insufficient data"}
	roa := div(cur.NetIncome, cur.TotalAssets)
	if roa == nil {
		return c
	}
	c.Earned = *roa > 0
	c.Detail = fmt.Sprintf("ROA %.2f%%", *roa*100)
	return c
}

func ocfPositive(cur contracts.AnnualStatement) contracts.FScoreCriterion {
	c := contracts.FScoreCriterion{Name: "ocf_positive", Detail: "insufficient data"}
	if cur.OperatingCashFlow == nil {
		return c
	}
	c.Earned = *cur.OperatingCashFlow > 0
	c.Detail = fmt.Sprintf("operating cash flow %.0f", *cur.OperatingCashFlow)
	return c
}

func roaImproving(cur contracts.AnnualStatement, prior *contracts.AnnualStatement) contracts.FScoreCriterion {
	c := contracts.FScoreCriterion{Name: "roa_improving", Detail: "insufficient data"}
	if prior == nil {
		return c
	}
	roaCur := div(cur.NetIncome, cur.TotalAssets)
	roaPrior := div(prior.NetIncome, prior.TotalAssets)
	if roaCur == nil || roaPrior == nil {
		return c
	}
	c.Earned = *roaCur > *roaPrior
	c.Detail = fmt.Sprintf("ROA %.2f%% vs %.2f%%", *roaCur*100, *roaPrior*100)
	return c
}

func ocfExceedsNetIncome(cur contracts.AnnualStatement) contracts.FScoreCriterion {
	c := contracts.FScoreCriterion{Name: "ocf_exceeds_net_income", Detail: "insufficient data"}
	if cur.OperatingCashFlow == nil || cur.NetIncome == nil {
		return c
	}
	c.Earned = *cur.OperatingCashFlow > *cur.NetIncome
	c.Detail = fmt.Sprintf("OCF %.0f vs net income %.0f", *cur.OperatingCashFlow, *cur.NetIncome)
	return c
}

// leverageDecreasing compares long-term debt to assets year over year.
// A company with zero debt in both years passes: debt cannot decrease
// below none, and punishing the cleanest balance sheets would invert the
// intent of the criterion.
func leverageDecreasing(cur contracts.AnnualStatement, prior *contracts.AnnualStatement) contracts.FScoreCriterion {
	c := contracts.FScoreCriterion{Name: "leverage_decreasing", Detail: "insufficient data"}
	if prior == nil {
		return c
	}
	levCur := div(cur.LongTermDebt, cur.TotalAssets)
	levPrior := div(prior.LongTermDebt, prior.TotalAssets)
	if levCur == nil || levPrior == nil {
		if cur.LongTermDebt != nil && prior.LongTermDebt != nil && *cur.LongTermDebt == 0 && *prior.LongTermDebt == 0 {
			c.Earned = true
			c.Detail = "no long-term debt"
		}
		return c
	}
	if *levCur == 0 && *levPrior == 0 {
		c.Earned = true
		c.Detail = "no long-term debt"
		return c
	}
	c.Earned = *levCur < *levPrior
	c.Detail = fmt.Sprintf("debt/assets %.3f vs %.3f", *levCur, *levPrior)
	return c
}

func currentRatioImproving(cur contracts.AnnualStatement, prior *contracts.AnnualStatement) contracts.FScoreCriterion {
	c := contracts.FScoreCriterion{Name: "current_ratio_improving", Detail: "insufficient data"}
	if prior == nil {
		return c
	}
	crCur := div(cur.CurrentAssets, cur.CurrentLiabilities)
	crPrior := div(prior.CurrentAssets, prior.CurrentLiabilities)
	if crCur == nil || crPrior == nil {
		return c
	}
	c.Earned = *crCur > *crPrior
	c.Detail = fmt.Sprintf("current ratio %.2f vs %.2f", *crCur, *crPrior)
	return c
}

func noDilution(cur contracts.AnnualStatement, prior *contracts.AnnualStatement) contracts.FScoreCriterion {
	c := contracts.FScoreCriterion{Name: "no_dilution", Detail: "insufficient data"}
	if prior == nil || cur.SharesOutstanding == nil || prior.SharesOutstanding == nil {
		return c
	}
	c.Earned = *cur.SharesOutstanding <= *prior.SharesOutstanding
	c.Detail = fmt.Sprintf("shares %.0f vs %.0f", *cur.SharesOutstanding, *prior.SharesOutstanding)
	return c
}

func grossMarginImproving(cur contracts.AnnualStatement, prior *contracts.AnnualStatement) contracts.FScoreCriterion {
	c := contracts.FScoreCriterion{Name: "gross_margin_improving", Detail: "insufficient data"}
	if prior == nil {
		return c
	}
	gmCur := div(cur.GrossProfit, cur.Revenue)
	gmPrior := div(prior.GrossProfit, prior.Revenue)
	if gmCur == nil || gmPrior == nil {
		return c
	}
	c.Earned = *gmCur > *gmPrior
	c.Detail = fmt.Sprintf("gross margin %.2f%% vs %.2f%%", *gmCur*100, *gmPrior*100)
	return c
}

func assetTurnoverImproving(cur contracts.AnnualStatement, prior *contracts.AnnualStatement) contracts.FScoreCriterion {
	c := contracts.FScoreCriterion{Name: "asset_turnover_improving", Detail: "insufficient data"}
	if prior == nil {
		return c
	}
	atCur := div(cur.Revenue, cur.TotalAssets)
	atPrior := div(prior.Revenue, prior.TotalAssets)
	if atCur == nil || atPrior == nil {
		return c
	}
	c.Earned = *atCur > *atPrior
	c.Detail = fmt.Sprintf("asset turnover %.3f vs %.3f", *atCur, *atPrior)
	return c
}
