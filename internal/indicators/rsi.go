package indicators

import "math"

// DefaultRSIPeriod is the conventional 14-bar lookback
const DefaultRSIPeriod = 14

// RSI calculates the Relative Strength Index over trailing windows of period
// price changes, using simple averages of gains and absolute losses.
//
// A window without losses reads exactly 100. The output has
// len(prices)-period values; at least period+1 prices are required.
func RSI(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period+1 {
		return nil
	}

	changes := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		changes[i-1] = prices[i] - prices[i-1]
	}

	out := make([]float64, len(changes)-period+1)
	for i := range out {
		gain, loss := 0.0, 0.0
		for _, change := range changes[i : i+period] {
			if change > 0 {
				gain += change
			} else {
				loss += math.Abs(change)
			}
		}
		avgGain := gain / float64(period)
		avgLoss := loss / float64(period)

		if avgLoss == 0 {
			out[i] = 100
			continue
		}

		rs := avgGain / avgLoss
		out[i] = clamp(100-(100/(1+rs)), 0, 100)
	}
	return out
}
