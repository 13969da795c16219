// Package indicators implements technical analysis indicators as pure
// functions over close prices or OHLCV candles.
//
// Every function is deterministic and keeps no state between calls. When the
// input is shorter than the indicator's warm-up period the function returns
// an empty series instead of an error.
package indicators

import "math"

// Value is a single indicator reading that may be absent.
//
// Formulas that divide by a price range (Stochastic, Williams %R) or by a
// volume total (VWAP) produce Abstain instead of NaN or Inf when the
// denominator is zero.
type Value struct {
	Val float64
	OK  bool
}

// Abstain is the absent reading
var Abstain = Value{}

// Some wraps a finite reading. Non-finite numbers become Abstain.
func Some(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Abstain
	}
	return Value{Val: v, OK: true}
}

// Last returns the most recent value of a plain series
func Last(series []float64) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}
	return series[len(series)-1], true
}

// LastValue returns the most recent reading of a tagged series.
// It reports false when the series is empty or the reading abstains.
func LastValue(series []Value) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}
	v := series[len(series)-1]
	return v.Val, v.OK
}

// alignTail trims series from the front so that it has exactly n elements.
// Series shorter than n are returned unchanged.
func alignTail[T any](series []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(series) <= n {
		return series
	}
	return series[len(series)-n:]
}

// outputLen is the number of full trailing windows of size period in n points
func outputLen(n, period int) int {
	if period <= 0 || period > n {
		return 0
	}
	return n - period + 1
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// highestLowest returns the max high and min low of a candle window
func highestLowest(highs, lows []float64) (float64, float64) {
	hh, ll := highs[0], lows[0]
	for i := 1; i < len(highs); i++ {
		hh = math.Max(hh, highs[i])
		ll = math.Min(ll, lows[i])
	}
	return hh, ll
}
