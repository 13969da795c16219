package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(nil))
	require.NoError(t, Validate(oscillatingCandles(100)))

	tests := []struct {
		name   string
		mutate func([]types.OHLCV)
		errMsg string
	}{
		{"duplicate timestamp", func(c []types.OHLCV) { c[5].Timestamp = c[4].Timestamp }, "candle 5 timestamp"},
		{"out of order", func(c []types.OHLCV) { c[7].Timestamp = c[2].Timestamp.Add(-time.Hour) }, "candle 7 timestamp"},
		{"negative volume", func(c []types.OHLCV) { c[3].Volume = -1 }, "negative volume"},
		{"inverted range", func(c []types.OHLCV) { c[1].High, c[1].Low = c[1].Low, c[1].High }, "below low"},
		{"close above high", func(c []types.OHLCV) { c[9].Close = c[9].High + 1 }, "outside high-low"},
		{"nan", func(c []types.OHLCV) { c[0].Open = math.NaN() }, "non-finite"},
		{"negative price", func(c []types.OHLCV) {
			c[2].Low, c[2].Open, c[2].Close = -1, -0.5, -0.5
		}, "negative price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candles := oscillatingCandles(20)
			tt.mutate(candles)
			err := Validate(candles)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCandles)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
