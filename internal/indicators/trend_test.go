package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

// rangeCandles builds candles with a fixed ±1 range around each close
func rangeCandles(closes []float64) []types.OHLCV {
	data := candlesFromCloses(closes)
	for i := range data {
		data[i].High = closes[i] + 1
		data[i].Low = closes[i] - 1
	}
	return data
}

func TestADX_Lengths(t *testing.T) {
	d := ADX(generateRealisticData(60), 14)
	assert.Len(t, d.PlusDI, 60-14)
	assert.Len(t, d.MinusDI, 60-14)
	assert.Len(t, d.ADX, 60-2*14+1)
}

func TestADX_SteadyRiseIsAllPlusDirection(t *testing.T) {
	adx, plus, minus, ok := ADX(rangeCandles(linearCloses(40, 100, 1)), 14).Latest()
	require.True(t, ok)
	assert.InDelta(t, 50.0, plus, 1e-9)
	assert.InDelta(t, 0.0, minus, 1e-9)
	assert.InDelta(t, 100.0, adx, 1e-9)
}

func TestADX_SteadyFallIsAllMinusDirection(t *testing.T) {
	adx, plus, minus, ok := ADX(rangeCandles(linearCloses(40, 200, -1)), 14).Latest()
	require.True(t, ok)
	assert.InDelta(t, 0.0, plus, 1e-9)
	assert.InDelta(t, 50.0, minus, 1e-9)
	assert.InDelta(t, 100.0, adx, 1e-9)
}

func TestADX_FlatReadsZero(t *testing.T) {
	adx, plus, minus, ok := ADX(rangeCandles(flatCloses(40, 100)), 14).Latest()
	require.True(t, ok)
	assert.Zero(t, adx)
	assert.Zero(t, plus)
	assert.Zero(t, minus)

	noRange := candlesFromCloses(flatCloses(40, 100))
	for i := range noRange {
		noRange[i].High, noRange[i].Low = 100, 100
	}
	adx, _, _, ok = ADX(noRange, 14).Latest()
	require.True(t, ok)
	assert.Zero(t, adx)
}

func TestADX_Bounds(t *testing.T) {
	d := ADX(generateRealisticData(300), 14)
	require.NotEmpty(t, d.ADX)
	for _, v := range d.ADX {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestADX_InsufficientData(t *testing.T) {
	_, _, _, ok := ADX(generateRealisticData(27), 14).Latest()
	assert.False(t, ok)
	_, _, _, ok = ADX(generateRealisticData(28), 14).Latest()
	assert.True(t, ok)
	assert.Empty(t, ADX(generateRealisticData(50), 0).ADX)
}

func TestOBV(t *testing.T) {
	data := candlesFromCloses([]float64{10, 11, 11, 9, 12})
	for i := range data {
		data[i].Volume = float64(100 * (i + 1))
	}
	assert.Equal(t, []float64{0, 200, 200, -200, 300}, OBV(data))
	assert.Nil(t, OBV(nil))
}
