package indicators

// FibonacciRatios are the retracement fractions, shallowest first
var FibonacciRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1.0}

// FibonacciLevel is one retracement price
type FibonacciLevel struct {
	Ratio float64 `json:"ratio"`
	Price float64 `json:"price"`
}

// FibonacciLevels returns high - (high-low)*ratio for each ratio in FibonacciRatios
func FibonacciLevels(high, low float64) []FibonacciLevel {
	rng := high - low
	levels := make([]FibonacciLevel, len(FibonacciRatios))
	for i, ratio := range FibonacciRatios {
		levels[i] = FibonacciLevel{Ratio: ratio, Price: high - rng*ratio}
	}
	return levels
}
