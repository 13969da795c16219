package indicators

import "math"

// BollingerResult holds the three bands, each len(prices)-period+1 long
type BollingerResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// BollingerBands computes mean ± k·σ over each trailing window, where σ is
// the population standard deviation of the window.
func BollingerBands(prices []float64, period int, stdDevMultiplier float64) BollingerResult {
	n := outputLen(len(prices), period)
	if n == 0 {
		return BollingerResult{}
	}

	res := BollingerResult{
		Upper:  make([]float64, n),
		Middle: make([]float64, n),
		Lower:  make([]float64, n),
	}

	for i := 0; i < n; i++ {
		window := prices[i : i+period]
		mean := windowMean(window)

		variance := 0.0
		for _, p := range window {
			d := p - mean
			variance += d * d
		}
		sigma := math.Sqrt(variance / float64(period))

		res.Middle[i] = mean
		res.Upper[i] = mean + stdDevMultiplier*sigma
		res.Lower[i] = mean - stdDevMultiplier*sigma
	}
	return res
}

// Latest returns the most recent upper, middle and lower band
func (b BollingerResult) Latest() (upper, middle, lower float64, ok bool) {
	if len(b.Middle) == 0 {
		return 0, 0, 0, false
	}
	i := len(b.Middle) - 1
	return b.Upper[i], b.Middle[i], b.Lower[i], true
}
