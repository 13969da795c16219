package adapters

import (
	"github.com/gaineziswear/QuantumTradebot/internal/exchange"
	"github.com/gaineziswear/QuantumTradebot/internal/exchange/binance"
	"github.com/gaineziswear/QuantumTradebot/internal/exchange/bybit"
	"github.com/gaineziswear/QuantumTradebot/internal/logger"
)

// NewKlineProvider builds the configured exchange client wrapped in a
// GuardedProvider.
func NewKlineProvider(config exchange.ExchangeConfig, log *logger.Logger) (*exchange.GuardedProvider, error) {
	raw, err := NewRawProvider(config)
	if err != nil {
		return nil, err
	}
	return exchange.NewGuardedProvider(raw, config.Guard, log), nil
}

// NewRawProvider builds the exchange client without rate limiting or retries.
func NewRawProvider(config exchange.ExchangeConfig) (exchange.KlineProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.NormalizedName() {
	case "binance":
		cfg := exchange.BinanceConfig{}
		if config.Binance != nil {
			cfg = *config.Binance
		}
		return binance.NewClient(binance.Config{
			APIKey:    cfg.APIKey,
			APISecret: cfg.APISecret,
			Testnet:   cfg.Testnet,
			Market:    binance.Market(cfg.Market),
		}), nil
	default:
		cfg := exchange.BybitConfig{}
		if config.Bybit != nil {
			cfg = *config.Bybit
		}
		return bybit.NewClient(bybit.Config{
			APIKey:    cfg.APIKey,
			APISecret: cfg.APISecret,
			Testnet:   cfg.Testnet,
			Demo:      cfg.Demo,
			Category:  cfg.Category,
		}), nil
	}
}
