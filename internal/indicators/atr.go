package indicators

import (
	"math"

	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

// TrueRange returns one true range per candle.
// The first candle has no previous close and uses high-low.
func TrueRange(candles []types.OHLCV) []float64 {
	if len(candles) == 0 {
		return nil
	}

	out := make([]float64, len(candles))
	out[0] = candles[0].High - candles[0].Low
	for i := 1; i < len(candles); i++ {
		prevClose := candles[i-1].Close
		hl := candles[i].High - candles[i].Low
		hc := math.Abs(candles[i].High - prevClose)
		lc := math.Abs(candles[i].Low - prevClose)
		out[i] = math.Max(hl, math.Max(hc, lc))
	}
	return out
}

// ATR is the simple average of the true range over period candles.
// The output has len(candles)-period+1 values.
func ATR(candles []types.OHLCV, period int) []float64 {
	return SMA(TrueRange(candles), period)
}
