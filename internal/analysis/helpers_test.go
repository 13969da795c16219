package analysis

import (
	"math"
	"time"

	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// candlesFromCloses builds hourly candles with a ±1% range around each close
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

func geometricCloses(count int, start, growth float64) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = start * math.Pow(growth, float64(i))
	}
	return out
}

func oscillatingCandles(count int) []types.OHLCV {
	data := make([]types.OHLCV, count)
	for i := range data {
		price := 100 + 5*math.Sin(float64(i)/6) + float64(i%7-3)*0.4
		data[i] = types.OHLCV{
			Timestamp: baseTime.Add(time.Duration(i) * time.Hour),
			Open:      price * 0.999,
			High:      price * 1.005,
			Low:       price * 0.995,
			Close:     price,
			Volume:    1000 + float64(i%100),
		}
	}
	return data
}

func indicatorsOf(signals []Signal) []string {
	names := make([]string, len(signals))
	for i, s := range signals {
		names[i] = s.Indicator
	}
	return names
}

func findSignal(signals []Signal, indicator string) (Signal, bool) {
	for _, s := range signals {
		if s.Indicator == indicator {
			return s, true
		}
	}
	return Signal{}, false
}
