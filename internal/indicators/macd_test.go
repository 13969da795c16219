package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMACD_Alignment(t *testing.T) {
	prices := closesOf(generateRealisticData(100))
	res := MACD(prices, 12, 26, 9)

	assert.Len(t, res.MACD, 100-26+1)
	assert.Len(t, res.Signal, len(res.MACD)-9+1)
	assert.Len(t, res.Histogram, len(res.Signal))

	fast := EMA(prices, 12)
	slow := EMA(prices, 26)
	offset := len(fast) - len(slow)
	for i := range res.MACD {
		assert.InDelta(t, fast[i+offset]-slow[i], res.MACD[i], 1e-12)
	}

	tail := res.MACD[len(res.MACD)-len(res.Signal):]
	for i := range res.Histogram {
		assert.InDelta(t, tail[i]-res.Signal[i], res.Histogram[i], 1e-12)
	}
}

func TestMACD_AcceleratingUptrendHasPositiveHistogram(t *testing.T) {
	res := MACD(geometricCloses(120, 100, 1.01), 12, 26, 9)
	require.NotEmpty(t, res.Histogram)
	for _, h := range res.Histogram {
		assert.Greater(t, h, 0.0)
	}

	macd, signal, hist, ok := res.Latest()
	require.True(t, ok)
	assert.Greater(t, macd, signal)
	assert.Greater(t, hist, 0.0)
}

func TestMACD_InsufficientData(t *testing.T) {
	res := MACD(linearCloses(20, 1, 1), 12, 26, 9)
	assert.Empty(t, res.MACD)
	assert.Empty(t, res.Signal)

	_, _, _, ok := res.Latest()
	assert.False(t, ok)

	// Enough for the MACD line, not for the signal line
	res = MACD(linearCloses(30, 1, 1), 12, 26, 9)
	assert.Len(t, res.MACD, 5)
	assert.Empty(t, res.Signal)
	assert.Empty(t, res.Histogram)
}

func TestMACD_InvalidPeriods(t *testing.T) {
	prices := linearCloses(100, 1, 1)
	assert.Empty(t, MACD(prices, 26, 12, 9).MACD)
	assert.Empty(t, MACD(prices, 0, 26, 9).MACD)
}

func BenchmarkMACD(b *testing.B) {
	closes := closesOf(generateRealisticData(500))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = MACD(closes, 12, 26, 9)
	}
}
