package indicators

import "github.com/gaineziswear/QuantumTradebot/pkg/types"

// StochasticResult holds %K (len-kPeriod+1 values) and %D
// (len(K)-dPeriod+1 values, aligned with the tail of K)
type StochasticResult struct {
	K []Value
	D []Value
}

// Stochastic computes the stochastic oscillator.
//
// %K = (close - lowestLow) / (highestHigh - lowestLow) * 100 over the trailing
// kPeriod candles. A window whose high equals its low has no defined %K and
// abstains. %D is the mean of the last dPeriod %K readings and abstains when
// any of them does.
func Stochastic(candles []types.OHLCV, kPeriod, dPeriod int) StochasticResult {
	n := outputLen(len(candles), kPeriod)
	if n == 0 {
		return StochasticResult{}
	}

	highs, lows := highsLows(candles)
	k := make([]Value, n)
	for i := 0; i < n; i++ {
		end := i + kPeriod
		hh, ll := highestLowest(highs[i:end], lows[i:end])
		rng := hh - ll
		if rng == 0 {
			k[i] = Abstain
			continue
		}
		k[i] = Some(clamp((candles[end-1].Close-ll)/rng*100, 0, 100))
	}

	return StochasticResult{K: k, D: smaValues(k, dPeriod)}
}

// smaValues is SMA over a tagged series; a window containing an absent
// reading is itself absent.
func smaValues(series []Value, period int) []Value {
	n := outputLen(len(series), period)
	if n == 0 {
		return nil
	}

	out := make([]Value, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		ok := true
		for _, v := range series[i : i+period] {
			if !v.OK {
				ok = false
				break
			}
			sum += v.Val
		}
		if ok {
			out[i] = Some(sum / float64(period))
		}
	}
	return out
}

func highsLows(candles []types.OHLCV) ([]float64, []float64) {
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		highs[i] = c.High
		lows[i] = c.Low
	}
	return highs, lows
}
