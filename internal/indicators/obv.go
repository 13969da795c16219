package indicators

import "github.com/gaineziswear/QuantumTradebot/pkg/types"

// OBV returns the running On-Balance Volume, one value per candle starting
// at 0. A close above the previous close adds the candle's volume, a close
// below subtracts it, an unchanged close carries the total forward.
func OBV(candles []types.OHLCV) []float64 {
	if len(candles) == 0 {
		return nil
	}

	out := make([]float64, len(candles))
	for i := 1; i < len(candles); i++ {
		out[i] = out[i-1]
		switch {
		case candles[i].Close > candles[i-1].Close:
			out[i] += candles[i].Volume
		case candles[i].Close < candles[i-1].Close:
			out[i] -= candles[i].Volume
		}
	}
	return out
}
