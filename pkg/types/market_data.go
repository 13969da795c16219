package types

import "time"

// OHLCV is one fixed-interval candle. Sequences are ordered oldest first.
type OHLCV struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// TypicalPrice returns (high+low+close)/3
func (c OHLCV) TypicalPrice() float64 {
	return (c.High + c.Low + c.Close) / 3
}

// Closes extracts the close prices of a candle sequence
func Closes(data []OHLCV) []float64 {
	closes := make([]float64, len(data))
	for i, c := range data {
		closes[i] = c.Close
	}
	return closes
}

// Volumes extracts the traded volume of a candle sequence
func Volumes(data []OHLCV) []float64 {
	volumes := make([]float64, len(data))
	for i, c := range data {
		volumes[i] = c.Volume
	}
	return volumes
}
