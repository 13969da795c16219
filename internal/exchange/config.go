package exchange

import (
	"fmt"
	"strings"

	boterrors "github.com/gaineziswear/QuantumTradebot/internal/errors"
)

// ExchangeConfig holds configuration for creating kline providers
type ExchangeConfig struct {
	Name    string         `json:"name" yaml:"name"`                           // bybit or binance
	Bybit   *BybitConfig   `json:"bybit,omitempty" yaml:"bybit,omitempty"`     // Bybit-specific config
	Binance *BinanceConfig `json:"binance,omitempty" yaml:"binance,omitempty"` // Binance-specific config
	Guard   GuardConfig    `json:"guard" yaml:"guard"`
}

// BybitConfig holds Bybit-specific configuration. Credentials are optional
// because kline endpoints are public.
type BybitConfig struct {
	APIKey    string `json:"api_key" yaml:"api_key"`
	APISecret string `json:"api_secret" yaml:"api_secret"`
	Testnet   bool   `json:"testnet" yaml:"testnet"`   // Use testnet infrastructure
	Demo      bool   `json:"demo" yaml:"demo"`         // Use demo trading (paper trading)
	Category  string `json:"category" yaml:"category"` // spot, linear or inverse
}

// BinanceConfig holds Binance-specific configuration
type BinanceConfig struct {
	APIKey    string `json:"api_key" yaml:"api_key"`
	APISecret string `json:"api_secret" yaml:"api_secret"`
	Testnet   bool   `json:"testnet" yaml:"testnet"`
	Market    string `json:"market" yaml:"market"` // spot or futures
}

// SupportedExchanges returns the exchange names a provider can be built for
func SupportedExchanges() []string {
	return []string{"bybit", "binance"}
}

// NormalizedName returns the lower-case exchange name
func (c ExchangeConfig) NormalizedName() string {
	return strings.ToLower(strings.TrimSpace(c.Name))
}

// Category returns the market family klines are read from: the Bybit
// category or the Binance market, "spot" when unset.
func (c ExchangeConfig) Category() string {
	switch c.NormalizedName() {
	case "bybit":
		if c.Bybit != nil && c.Bybit.Category != "" {
			return c.Bybit.Category
		}
	case "binance":
		if c.Binance != nil && c.Binance.Market != "" {
			return c.Binance.Market
		}
	}
	return "spot"
}

// Validate validates the exchange configuration
func (c ExchangeConfig) Validate() error {
	const component, op = "exchange", "Validate"

	switch c.NormalizedName() {
	case "":
		return boterrors.NewConfigurationError(component, op, "exchange name is required")
	case "bybit":
		if c.Bybit != nil {
			if c.Bybit.Testnet && c.Bybit.Demo {
				return boterrors.NewConfigurationError(component, op,
					"cannot use both testnet and demo mode simultaneously")
			}
			switch c.Bybit.Category {
			case "", "spot", "linear", "inverse":
			default:
				return boterrors.NewConfigurationError(component, op,
					fmt.Sprintf("unsupported bybit category %q", c.Bybit.Category))
			}
			if err := validateCredentials("bybit", c.Bybit.APIKey, c.Bybit.APISecret); err != nil {
				return err
			}
		}
	case "binance":
		if c.Binance != nil {
			switch c.Binance.Market {
			case "", "spot", "futures":
			default:
				return boterrors.NewConfigurationError(component, op,
					fmt.Sprintf("unsupported binance market %q", c.Binance.Market))
			}
			if err := validateCredentials("binance", c.Binance.APIKey, c.Binance.APISecret); err != nil {
				return err
			}
		}
	default:
		return boterrors.NewConfigurationError(component, op,
			fmt.Sprintf("exchange '%s' is not supported, supported exchanges: %v", c.Name, SupportedExchanges()))
	}

	if c.Guard.RequestsPerSecond < 0 || c.Guard.Burst < 0 || c.Guard.Retry.MaxRetries < 0 {
		return boterrors.NewConfigurationError(component, op, "guard limits must not be negative")
	}
	return nil
}

// A key without its secret is almost always a copy-paste mistake.
func validateCredentials(name, key, secret string) error {
	if (key == "") != (secret == "") {
		return boterrors.NewCredentialsError(name, "Validate",
			fmt.Sprintf("%s api key and secret must be set together", name))
	}
	return nil
}
