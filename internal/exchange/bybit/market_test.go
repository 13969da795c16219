package bybit

import (
	"testing"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	boterrors "github.com/gaineziswear/QuantumTradebot/internal/errors"
	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

func klineResponse(list [][]string) *bybit_api.ServerResponse {
	return &bybit_api.ServerResponse{
		RetCode: 0,
		RetMsg:  "OK",
		Result: map[string]interface{}{
			"symbol":   "BTCUSDT",
			"category": "spot",
			"list":     list,
		},
	}
}

func TestParseKlineResponse_Chronological(t *testing.T) {
	resp := klineResponse([][]string{
		{"1700007200000", "102", "104", "101", "103", "7.5", "770"},
		{"1700003600000", "101", "103", "100", "102", "5", "510"},
		{"1700000000000", "100", "102", "99", "101", "2.25", "227"},
	})

	candles, err := parseKlineResponse(resp)
	require.NoError(t, err)
	require.Len(t, candles, 3)

	assert.Equal(t, []float64{101, 102, 103}, types.Closes(candles))
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), candles[0].Timestamp)
	assert.True(t, candles[0].Timestamp.Before(candles[2].Timestamp))
	assert.Equal(t, types.OHLCV{
		Open: 100, High: 102, Low: 99, Close: 101, Volume: 2.25,
		Timestamp: time.UnixMilli(1700000000000).UTC(),
	}, candles[0])
}

func TestParseKlineResponse_Empty(t *testing.T) {
	candles, err := parseKlineResponse(klineResponse(nil))
	require.NoError(t, err)
	assert.Empty(t, candles)
}

func TestParseKlineResponse_APIError(t *testing.T) {
	_, err := parseKlineResponse(&bybit_api.ServerResponse{RetCode: ErrCodeSymbolNotFound, RetMsg: "Symbol Is Invalid"})
	require.Error(t, err)

	var bybitErr *BybitError
	require.ErrorAs(t, err, &bybitErr)
	assert.Equal(t, ErrCodeSymbolNotFound, bybitErr.Code)
	assert.Equal(t, boterrors.ErrorCategoryValidation, toBotError(err, "GetKlines").Category)
}

func TestParseKlineResponse_Malformed(t *testing.T) {
	tests := map[string][]string{
		"short row":  {"1700000000000", "1", "2"},
		"bad time":   {"yesterday", "1", "2", "0.5", "1.5", "10", "15"},
		"bad number": {"1700000000000", "1", "two", "0.5", "1.5", "10", "15"},
	}
	for name, row := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseKlineResponse(klineResponse([][]string{row}))
			require.Error(t, err)
			botErr := toBotError(err, "GetKlines")
			assert.Equal(t, boterrors.ErrorCategoryData, botErr.Category)
			assert.False(t, botErr.IsRetryable())
		})
	}

	_, err := parseKlineResponse(nil)
	assert.Error(t, err)
}

func TestToKlineInterval(t *testing.T) {
	tests := map[string]KlineInterval{
		"1m": Interval1m, "15m": Interval15m, "1h": Interval1h, "4h": Interval4h,
		"1d": Interval1d, "1w": Interval1w, "1M": Interval1M, "240": Interval4h, "D": Interval1d,
	}
	for in, want := range tests {
		got, err := ToKlineInterval(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ToKlineInterval("7m")
	assert.Error(t, err)
}

func TestToBotError(t *testing.T) {
	tests := []struct {
		code      int
		category  boterrors.ErrorCategory
		retryable bool
	}{
		{ErrCodeRateLimitExceeded, boterrors.ErrorCategoryRateLimit, true},
		{ErrCodeInvalidAPIKey, boterrors.ErrorCategoryCredentials, false},
		{ErrCodeInvalidParameter, boterrors.ErrorCategoryValidation, false},
		{503, boterrors.ErrorCategoryExchange, true},
		{170001, boterrors.ErrorCategoryExchange, false},
	}
	for _, tt := range tests {
		botErr := toBotError(NewBybitError(tt.code, "x"), "GetKlines")
		assert.Equal(t, tt.category, botErr.Category, tt.code)
		assert.Equal(t, tt.retryable, botErr.IsRetryable(), tt.code)
	}
}

func TestNewClientEnvironment(t *testing.T) {
	assert.Equal(t, "mainnet", NewClient(Config{}).GetEnvironment())
	assert.Equal(t, "testnet", NewClient(Config{Testnet: true}).GetEnvironment())
	assert.Equal(t, "demo", NewClient(Config{Demo: true, Testnet: true}).GetEnvironment())

	c := NewClient(Config{})
	assert.Equal(t, "spot", c.Category())
	assert.Equal(t, "bybit", c.Name())
}
