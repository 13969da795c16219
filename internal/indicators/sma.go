package indicators

// SMA returns the arithmetic mean of every trailing window of length period.
// The output has len(prices)-period+1 values, or none if period is out of range.
func SMA(prices []float64, period int) []float64 {
	n := outputLen(len(prices), period)
	if n == 0 {
		return nil
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = windowMean(prices[i : i+period])
	}
	return out
}

// windowMean is summed per window rather than rolled, so results do not
// depend on how much history precedes the window.
func windowMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
