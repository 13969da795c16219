package indicators

import "math"

// Returns computes simple period-over-period returns. A zero previous price
// has no defined return and is skipped.
func Returns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		out = append(out, (prices[i]-prices[i-1])/prices[i-1])
	}
	return out
}

// StdDev is the sample standard deviation (n-1 denominator)
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := windowMean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// Volatility annualizes the standard deviation of returns by sqrt(periodsPerYear)
func Volatility(prices []float64, periodsPerYear float64) float64 {
	return StdDev(Returns(prices)) * math.Sqrt(periodsPerYear)
}

// ROC is the percent rate of change against the price period bars earlier.
// The output has len(prices)-period values.
func ROC(prices []float64, period int) []Value {
	if period <= 0 || len(prices) <= period {
		return nil
	}
	out := make([]Value, len(prices)-period)
	for i := period; i < len(prices); i++ {
		base := prices[i-period]
		if base == 0 {
			continue
		}
		out[i-period] = Some((prices[i] - base) / base * 100)
	}
	return out
}
