package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"

	boterrors "github.com/gaineziswear/QuantumTradebot/internal/errors"
)

func TestExchangeConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  ExchangeConfig
		want boterrors.ErrorCategory // "" means valid
	}{
		{"bybit defaults", ExchangeConfig{Name: "Bybit"}, ""},
		{"binance futures", ExchangeConfig{Name: "binance", Binance: &BinanceConfig{Market: "futures"}}, ""},
		{"missing name", ExchangeConfig{}, boterrors.ErrorCategoryConfiguration},
		{"unknown exchange", ExchangeConfig{Name: "kraken"}, boterrors.ErrorCategoryConfiguration},
		{"testnet and demo", ExchangeConfig{Name: "bybit", Bybit: &BybitConfig{Testnet: true, Demo: true}}, boterrors.ErrorCategoryConfiguration},
		{"bad category", ExchangeConfig{Name: "bybit", Bybit: &BybitConfig{Category: "option"}}, boterrors.ErrorCategoryConfiguration},
		{"bad market", ExchangeConfig{Name: "binance", Binance: &BinanceConfig{Market: "margin"}}, boterrors.ErrorCategoryConfiguration},
		{"key without secret", ExchangeConfig{Name: "bybit", Bybit: &BybitConfig{APIKey: "k"}}, boterrors.ErrorCategoryCredentials},
		{"negative guard", ExchangeConfig{Name: "bybit", Guard: GuardConfig{Burst: -1}}, boterrors.ErrorCategoryConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, boterrors.CategoryOf(err))
		})
	}
}

func TestExchangeConfigCategory(t *testing.T) {
	assert.Equal(t, "spot", ExchangeConfig{Name: "bybit"}.Category())
	assert.Equal(t, "linear", ExchangeConfig{Name: "bybit", Bybit: &BybitConfig{Category: "linear"}}.Category())
	assert.Equal(t, "futures", ExchangeConfig{Name: "binance", Binance: &BinanceConfig{Market: "futures"}}.Category())
	assert.Equal(t, "spot", ExchangeConfig{Name: "binance", Bybit: &BybitConfig{Category: "linear"}}.Category())
}
