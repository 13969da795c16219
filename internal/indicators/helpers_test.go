package indicators

import (
	"math"
	"time"

	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// candlesFromCloses builds candles with a fixed ±1% range around each close
func candlesFromCloses(closes []float64) []types.OHLCV {
	data := make([]types.OHLCV, len(closes))
	for i, c := range closes {
		data[i] = types.OHLCV{
			Timestamp: baseTime.Add(time.Duration(i) * time.Hour),
			Open:      c,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    1000,
		}
	}
	return data
}

func linearCloses(count int, start, step float64) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func flatCloses(count int, price float64) []float64 {
	return linearCloses(count, price, 0)
}

func geometricCloses(count int, start, growth float64) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = start * math.Pow(growth, float64(i))
	}
	return out
}

// generateRealisticData produces a deterministic oscillating series
func generateRealisticData(count int) []types.OHLCV {
	data := make([]types.OHLCV, count)
	basePrice := 100.0

	for i := 0; i < count; i++ {
		price := basePrice + 5*math.Sin(float64(i)/6) + float64(i%7-3)*0.4

		data[i] = types.OHLCV{
			Timestamp: baseTime.Add(time.Duration(i) * time.Hour),
			Open:      price * 0.999,
			High:      price * 1.005,
			Low:       price * 0.995,
			Close:     price,
			Volume:    1000.0 + float64(i%100),
		}
	}

	return data
}

func closesOf(data []types.OHLCV) []float64 {
	return types.Closes(data)
}
