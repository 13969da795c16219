package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBollingerBands_KnownWindow(t *testing.T) {
	res := BollingerBands([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8, 2)
	require.Len(t, res.Middle, 1)

	assert.Equal(t, 5.0, res.Middle[0])
	assert.Equal(t, 9.0, res.Upper[0])
	assert.Equal(t, 1.0, res.Lower[0])
}

func TestBollingerBands_MiddleIsSMA(t *testing.T) {
	prices := closesOf(generateRealisticData(80))
	res := BollingerBands(prices, 20, 2)
	assert.Equal(t, SMA(prices, 20), res.Middle)

	for i := range res.Middle {
		assert.GreaterOrEqual(t, res.Upper[i], res.Middle[i])
		assert.LessOrEqual(t, res.Lower[i], res.Middle[i])
		assert.InDelta(t, res.Upper[i]-res.Middle[i], res.Middle[i]-res.Lower[i], 1e-9)
	}
}

func TestBollingerBands_FlatSeriesCollapses(t *testing.T) {
	upper, middle, lower, ok := BollingerBands(flatCloses(25, 42), 20, 2).Latest()
	require.True(t, ok)
	assert.Equal(t, 42.0, middle)
	assert.Equal(t, upper, lower)
}

func TestBollingerBands_InsufficientData(t *testing.T) {
	res := BollingerBands(linearCloses(10, 1, 1), 20, 2)
	assert.Empty(t, res.Middle)
	_, _, _, ok := res.Latest()
	assert.False(t, ok)
}
