package technical

import (
	"math"

	"github.com/equitylens/backend/internal/contracts"
)

// Per-indicator minimum bar counts. Each computation checks its own
// minimum and returns nil below it; the snapshot degrades per-indicator.
const (
	rsiPeriod    = 14
	stochPeriod  = 14
	stochSmooth  = 3
	willrPeriod  = 14
	bollPeriod   = 20
	bollMult     = 2.0
	atrPeriod    = 14
	adxPeriod    = 14
	macdFast     = 12
	macdSlow     = 26
	macdSignal   = 9
	macdMinBars  = macdSlow + macdSignal - 1
	adxMinBars   = 2*adxPeriod + 1
)

// smaLast returns the simple moving average of the trailing period.
func smaLast(values []float64, period int) *float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	var sum float64
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	v := sum / float64(period)
	return &v
}

// emaSeries returns the exponential moving average series seeded with the
// first period-length SMA. The result starts period-1 values into the input.
func emaSeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	out := make([]float64, 0, len(values)-period+1)
	var sum float64
	for _, v := range values[:period] {
		sum += v
	}
	ema := sum / float64(period)
	out = append(out, ema)

	k := 2.0 / (float64(period) + 1.0)
	for _, v := range values[period:] {
		ema = v*k + ema*(1-k)
		out = append(out, ema)
	}
	return out
}

func emaLast(values []float64, period int) *float64 {
	series := emaSeries(values, period)
	if series == nil {
		return nil
	}
	v := series[len(series)-1]
	return &v
}

// rsiWilder computes the Wilder-smoothed RSI over the full close series.
func rsiWilder(closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		var gain, loss float64
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		v := 100.0
		return &v
	}
	rs := avgGain / avgLoss
	v := 100 - 100/(1+rs)
	return &v
}

// macdResult computes MACD(12,26,9). The fast EMA series starts earlier
// than the slow one, so it is right-trimmed to the slow series' start
// before subtracting.
func macdResult(closes []float64) *contracts.MACDResult {
	if len(closes) < macdMinBars {
		return nil
	}
	fast := emaSeries(closes, macdFast)
	slow := emaSeries(closes, macdSlow)

	offset := len(fast) - len(slow)
	line := make([]float64, len(slow))
	for i := range slow {
		line[i] = fast[i+offset] - slow[i]
	}

	signal := emaSeries(line, macdSignal)
	if signal == nil {
		return nil
	}

	value := line[len(line)-1]
	sig := signal[len(signal)-1]
	return &contracts.MACDResult{
		Value:     value,
		Signal:    sig,
		Histogram: value - sig,
	}
}

// stochasticResult computes %K over the trailing window and %D as the
// smooth-period SMA of %K. A zero high-low range yields a neutral 50.
func stochasticResult(bars []contracts.PriceBar, period, smooth int) *contracts.StochasticResult {
	if len(bars) < period {
		return nil
	}

	// %K values for the most recent windows, enough to smooth %D.
	count := smooth
	if available := len(bars) - period + 1; available < count {
		count = available
	}
	ks := make([]float64, 0, count)
	for i := len(bars) - count; i < len(bars); i++ {
		window := bars[i-period+1 : i+1]
		hh, ll := windowRange(window)
		if hh == ll {
			ks = append(ks, 50)
			continue
		}
		ks = append(ks, (window[len(window)-1].Close-ll)/(hh-ll)*100)
	}

	var sum float64
	for _, k := range ks {
		sum += k
	}
	return &contracts.StochasticResult{
		K: ks[len(ks)-1],
		D: sum / float64(len(ks)),
	}
}

// williamsR computes Williams %R over the trailing window. A zero range
// yields the neutral -50.
func williamsR(bars []contracts.PriceBar, period int) *float64 {
	if len(bars) < period {
		return nil
	}
	window := bars[len(bars)-period:]
	hh, ll := windowRange(window)
	if hh == ll {
		v := -50.0
		return &v
	}
	v := (hh - window[len(window)-1].Close) / (hh - ll) * -100
	return &v
}

// bollingerBands computes the 20-period bands at 2 population standard
// deviations around the middle SMA.
func bollingerBands(closes []float64, period int, mult float64) *contracts.BollingerBands {
	middle := smaLast(closes, period)
	if middle == nil {
		return nil
	}
	window := closes[len(closes)-period:]
	var variance float64
	for _, v := range window {
		d := v - *middle
		variance += d * d
	}
	stddev := math.Sqrt(variance / float64(period))
	return &contracts.BollingerBands{
		Upper:  *middle + mult*stddev,
		Middle: *middle,
		Lower:  *middle - mult*stddev,
	}
}

// atrWilder computes the Wilder-smoothed average true range.
func atrWilder(bars []contracts.PriceBar, period int) *float64 {
	trs := trueRanges(bars)
	if len(trs) < period {
		return nil
	}
	var atr float64
	for _, tr := range trs[:period] {
		atr += tr
	}
	atr /= float64(period)
	for _, tr := range trs[period:] {
		atr = (atr*float64(period-1) + tr) / float64(period)
	}
	return &atr
}

// directionalIndex bundles the ADX with the final +DI/-DI readings so the
// composite score can tell trend strength from trend direction.
type directionalIndex struct {
	ADX     float64
	PlusDI  float64
	MinusDI float64
}

// adxWilder computes the Wilder ADX(14) with smoothed directional movement.
func adxWilder(bars []contracts.PriceBar, period int) *directionalIndex {
	if len(bars) < 2*period+1 {
		return nil
	}

	n := len(bars) - 1
	trs := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i := 1; i < len(bars); i++ {
		trs[i-1] = trueRange(bars[i], bars[i-1].Close)
		up := bars[i].High - bars[i-1].High
		down := bars[i-1].Low - bars[i].Low
		if up > down && up > 0 {
			plusDM[i-1] = up
		}
		if down > up && down > 0 {
			minusDM[i-1] = down
		}
	}

	// Seed smoothed sums with the first period, then Wilder-smooth.
	var sTR, sPlus, sMinus float64
	for i := 0; i < period; i++ {
		sTR += trs[i]
		sPlus += plusDM[i]
		sMinus += minusDM[i]
	}

	dxs := make([]float64, 0, n-period+1)
	plusDI, minusDI := 0.0, 0.0
	appendDX := func() {
		if sTR == 0 {
			dxs = append(dxs, 0)
			return
		}
		plusDI = 100 * sPlus / sTR
		minusDI = 100 * sMinus / sTR
		if plusDI+minusDI == 0 {
			dxs = append(dxs, 0)
			return
		}
		dxs = append(dxs, math.Abs(plusDI-minusDI)/(plusDI+minusDI)*100)
	}
	appendDX()

	for i := period; i < n; i++ {
		sTR = sTR - sTR/float64(period) + trs[i]
		sPlus = sPlus - sPlus/float64(period) + plusDM[i]
		sMinus = sMinus - sMinus/float64(period) + minusDM[i]
		appendDX()
	}

	if len(dxs) < period {
		return nil
	}

	// ADX: Wilder-smooth the DX series, seeded with its first period mean.
	var adx float64
	for _, dx := range dxs[:period] {
		adx += dx
	}
	adx /= float64(period)
	for _, dx := range dxs[period:] {
		adx = (adx*float64(period-1) + dx) / float64(period)
	}

	return &directionalIndex{ADX: adx, PlusDI: plusDI, MinusDI: minusDI}
}

// obv computes cumulative on-balance volume: signed volume on up/down
// days, unchanged on flat days.
func obv(bars []contracts.PriceBar) *float64 {
	if len(bars) < 2 {
		return nil
	}
	var total float64
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			total += bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			total -= bars[i].Volume
		}
	}
	return &total
}

func trueRange(bar contracts.PriceBar, prevClose float64) float64 {
	tr := bar.High - bar.Low
	if hc := math.Abs(bar.High - prevClose); hc > tr {
		tr = hc
	}
	if lc := math.Abs(bar.Low - prevClose); lc > tr {
		tr = lc
	}
	return tr
}

func trueRanges(bars []contracts.PriceBar) []float64 {
	if len(bars) < 2 {
		return nil
	}
	trs := make([]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		trs[i-1] = trueRange(bars[i], bars[i-1].Close)
	}
	return trs
}

func windowRange(window []contracts.PriceBar) (high, low float64) {
	high = window[0].High
	low = window[0].Low
	for _, b := range window[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low
}
