package fundamentals

import "github.com/equitylens/backend/internal/contracts"

// Beneish M-Score constants. A score above the threshold flags a likely
// earnings manipulator.
const (
	mThreshold = -2.22

	mIntercept = -4.84
	mCoefDSRI  = 0.92
	mCoefGMI   = 0.528
	mCoefAQI   = 0.404
	mCoefSGI   = 0.892
	mCoefDEPI  = 0.115
	mCoefSGAI  = -0.172
	mCoefTATA  = 4.679
	mCoefLVGI  = -0.327
)

// computeMScore evaluates the eight Beneish indices over the two most
// recent years. Each ratio-of-ratios index defaults to the neutral 1.0 when
// its inputs are unavailable, and the accrual term TATA defaults to zero.
// Two years of revenue and total assets are the hard minimum.
func computeMScore(stmts contracts.StatementSeries) *contracts.MScoreResult {
	if len(stmts) < 2 {
		return nil
	}
	cur, prior := stmts[0], stmts[1]
	if div(cur.Revenue, prior.Revenue) == nil || div(cur.TotalAssets, prior.TotalAssets) == nil {
		return nil
	}

	dsri := indexOf(div(cur.Receivables, cur.Revenue), div(prior.Receivables, prior.Revenue))
	gmi := indexOf(div(prior.GrossProfit, prior.Revenue), div(cur.GrossProfit, cur.Revenue))
	aqi := indexOf(assetQuality(cur), assetQuality(prior))
	sgi := indexOf(cur.Revenue, prior.Revenue)
	depi := indexOf(depreciationRate(prior), depreciationRate(cur))
	sgai := indexOf(div(cur.SGAExpense, cur.Revenue), div(prior.SGAExpense, prior.Revenue))
	lvgi := indexOf(leverage(cur), leverage(prior))

	tata := 0.0
	if accruals := div(netAccruals(cur), cur.TotalAssets); accruals != nil {
		tata = *accruals
	}

	value := mIntercept +
		mCoefDSRI*dsri +
		mCoefGMI*gmi +
		mCoefAQI*aqi +
		mCoefSGI*sgi +
		mCoefDEPI*depi +
		mCoefSGAI*sgai +
		mCoefTATA*tata +
		mCoefLVGI*lvgi

	interpretation := "unlikely_manipulator"
	if value > mThreshold {
		interpretation = "likely_manipulator"
	}

	return &contracts.MScoreResult{
		Value:          value,
		Threshold:      mThreshold,
		Interpretation: interpretation,
		Components: map[string]float64{
			"DSRI": dsri,
			"GMI":  gmi,
			"AQI":  aqi,
			"SGI":  sgi,
			"DEPI": depi,
			"SGAI": sgai,
			"LVGI": lvgi,
			"TATA": tata,
		},
	}
}

// indexOf divides the current ratio by the prior one, defaulting to the
// neutral 1.0 when either side is missing or the prior is zero.
func indexOf(cur, prior *float64) float64 {
	ratio := div(cur, prior)
	if ratio == nil {
		return 1.0
	}
	return *ratio
}

// assetQuality is the share of total assets that is neither current assets
// nor PP&E.
func assetQuality(s contracts.AnnualStatement) *float64 {
	hard := div(addOpt(s.CurrentAssets, s.PPE), s.TotalAssets)
	if hard == nil {
		return nil
	}
	return ptr(1 - *hard)
}

// depreciationRate is depreciation relative to gross depreciable base.
func depreciationRate(s contracts.AnnualStatement) *float64 {
	return div(s.Depreciation, addOpt(s.Depreciation, s.PPE))
}

// leverage is total debt (long-term plus current liabilities) over assets.
func leverage(s contracts.AnnualStatement) *float64 {
	return div(addOpt(s.LongTermDebt, s.CurrentLiabilities), s.TotalAssets)
}

// netAccruals is net income minus operating cash flow.
func netAccruals(s contracts.AnnualStatement) *float64 {
	if s.NetIncome == nil || s.OperatingCashFlow == nil {
		return nil
	}
	return ptr(*s.NetIncome - *s.OperatingCashFlow)
}
