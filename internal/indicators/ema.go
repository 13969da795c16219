package indicators

// EMA returns the exponential moving average of prices.
//
// The first value is the SMA of the first period prices; every later value
// follows ema[i] = (price[i] - ema[i-1]) * k + ema[i-1] with k = 2/(period+1).
// The output has len(prices)-period+1 values.
func EMA(prices []float64, period int) []float64 {
	n := outputLen(len(prices), period)
	if n == 0 {
		return nil
	}

	multiplier := 2.0 / float64(period+1)
	out := make([]float64, n)
	out[0] = windowMean(prices[:period])
	for i := period; i < len(prices); i++ {
		prev := out[i-period]
		out[i-period+1] = (prices[i]-prev)*multiplier + prev
	}
	return out
}
