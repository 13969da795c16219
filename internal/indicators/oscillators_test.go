package indicators

import (
	"testing"
	"time"

	"github.com/gaineziswear/QuantumTradebot/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStochastic_Lengths(t *testing.T) {
	data := generateRealisticData(60)
	res := Stochastic(data, 14, 3)
	assert.Len(t, res.K, 60-14+1)
	assert.Len(t, res.D, len(res.K)-3+1)
}

func TestStochastic_Bounds(t *testing.T) {
	res := Stochastic(generateRealisticData(200), 14, 3)
	for _, k := range res.K {
		require.True(t, k.OK)
		assert.GreaterOrEqual(t, k.Val, 0.0)
		assert.LessOrEqual(t, k.Val, 100.0)
	}
}

func TestStochastic_CloseAtExtremes(t *testing.T) {
	data := candlesFromCloses(linearCloses(20, 100, 1))
	data[len(data)-1].Close = data[len(data)-1].High
	k, ok := LastValue(Stochastic(data, 14, 3).K)
	require.True(t, ok)
	assert.InDelta(t, 100.0, k, 1e-9)

	data[len(data)-1].Close = 50
	data[len(data)-1].Low = 50
	k, ok = LastValue(Stochastic(data, 14, 3).K)
	require.True(t, ok)
	assert.InDelta(t, 0.0, k, 1e-9)
}

func TestStochastic_FlatWindowAbstains(t *testing.T) {
	data := make([]types.OHLCV, 20)
	for i := range data {
		data[i] = types.OHLCV{Open: 5, High: 5, Low: 5, Close: 5, Volume: 1, Timestamp: baseTime.Add(time.Duration(i) * time.Minute)}
	}
	res := Stochastic(data, 14, 3)
	require.NotEmpty(t, res.K)
	for _, k := range res.K {
		assert.False(t, k.OK)
	}
	for _, d := range res.D {
		assert.False(t, d.OK)
	}
}

func TestStochastic_DIsMeanOfK(t *testing.T) {
	res := Stochastic(generateRealisticData(40), 14, 3)
	for i := range res.D {
		mean := (res.K[i].Val + res.K[i+1].Val + res.K[i+2].Val) / 3
		assert.InDelta(t, mean, res.D[i].Val, 1e-9)
	}
}

func TestWilliamsR_BoundsAndLength(t *testing.T) {
	data := generateRealisticData(100)
	got := WilliamsR(data, 14)
	assert.Len(t, got, 100-14+1)
	for _, r := range got {
		require.True(t, r.OK)
		assert.GreaterOrEqual(t, r.Val, -100.0)
		assert.LessOrEqual(t, r.Val, 0.0)
	}
}

func TestWilliamsR_CloseAtHighIsZero(t *testing.T) {
	data := candlesFromCloses(linearCloses(20, 100, 1))
	last := len(data) - 1
	data[last].Close = data[last].High
	r, ok := LastValue(WilliamsR(data, 14))
	require.True(t, ok)
	assert.InDelta(t, 0.0, r, 1e-9)
}

func TestWilliamsR_FlatWindowAbstains(t *testing.T) {
	data := candlesFromCloses(flatCloses(20, 10))
	for i := range data {
		data[i].High, data[i].Low = 10, 10
	}
	_, ok := LastValue(WilliamsR(data, 14))
	assert.False(t, ok)
	assert.Empty(t, WilliamsR(data[:5], 14))
}

func TestATR_ConstantRange(t *testing.T) {
	data := make([]types.OHLCV, 30)
	for i := range data {
		data[i] = types.OHLCV{Open: 100, High: 101, Low: 99, Close: 100, Volume: 10}
	}
	got := ATR(data, 14)
	require.Len(t, got, 30-14+1)
	for _, v := range got {
		assert.InDelta(t, 2.0, v, 1e-12)
	}
}

func TestTrueRange_UsesPreviousClose(t *testing.T) {
	data := []types.OHLCV{
		{High: 11, Low: 9, Close: 10},
		{High: 15, Low: 14, Close: 14.5}, // gap up: |15-10| = 5
		{High: 15, Low: 8, Close: 9},     // wide bar: 15-8 = 7
		{High: 9, Low: 8.5, Close: 8.7},  // |8.5-9| = 0.5 ties with high-low
	}
	assert.Equal(t, []float64{2, 5, 7, 0.5}, TrueRange(data))
}

func TestATR_NonNegative(t *testing.T) {
	for _, v := range ATR(generateRealisticData(100), 14) {
		assert.GreaterOrEqual(t, v, 0.0)
	}
	assert.Empty(t, ATR(generateRealisticData(10), 14))
}

func TestVWAP_ZeroVolumeAbstainsUntilTrading(t *testing.T) {
	data := []types.OHLCV{
		{High: 12, Low: 8, Close: 10, Volume: 0},
		{High: 12, Low: 8, Close: 10, Volume: 0},
		{High: 13, Low: 9, Close: 11, Volume: 2},
		{High: 16, Low: 14, Close: 15, Volume: 2},
	}
	got := VWAP(data)
	require.Len(t, got, 4)
	assert.False(t, got[0].OK)
	assert.False(t, got[1].OK)
	assert.True(t, got[2].OK)
	assert.InDelta(t, 11.0, got[2].Val, 1e-12)
	assert.InDelta(t, 13.0, got[3].Val, 1e-12)
}

func TestVWAP_ConstantTypicalPrice(t *testing.T) {
	got := VWAP(candlesFromCloses(flatCloses(10, 50)))
	for _, v := range got {
		require.True(t, v.OK)
		assert.InDelta(t, 50.0, v.Val, 1e-9)
		assert.GreaterOrEqual(t, v.Val, 0.0)
	}
	assert.Empty(t, VWAP(nil))
}
