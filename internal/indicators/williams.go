package indicators

import "github.com/gaineziswear/QuantumTradebot/pkg/types"

// WilliamsR computes %R = (highestHigh - close) / (highestHigh - lowestLow) * -100
// over every trailing window of period candles. Readings lie in [-100, 0];
// a flat window abstains.
func WilliamsR(candles []types.OHLCV, period int) []Value {
	n := outputLen(len(candles), period)
	if n == 0 {
		return nil
	}

	highs, lows := highsLows(candles)
	out := make([]Value, n)
	for i := 0; i < n; i++ {
		end := i + period
		hh, ll := highestLowest(highs[i:end], lows[i:end])
		rng := hh - ll
		if rng == 0 {
			continue
		}
		r := (hh - candles[end-1].Close) / rng * -100
		out[i] = Some(clamp(r, -100, 0))
	}
	return out
}
