package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/gaineziswear/QuantumTradebot/internal/exchange"
)

// LoadEnvFile loads environment variables from path. A missing file is not
// an error so that deployments can rely on the real environment alone.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// GetEnvWithDefault returns the value of key or defaultValue when unset
func GetEnvWithDefault(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return defaultValue
}

// ApplyEnv overlays environment variables onto cfg. Only variables that are
// set and non-empty take effect.
func (m *Manager) ApplyEnv(cfg *AppConfig) error {
	get := func(key string) (string, bool) {
		v, ok := m.lookupEnv(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	var firstErr error
	getBool := func(key string, dst *bool) {
		if v, ok := get(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", key, err)
				return
			}
			*dst = b
		}
	}

	if v, ok := get("EXCHANGE"); ok {
		cfg.Exchange.Name = strings.ToLower(v)
	}

	bybitKey, hasBybitKey := get("BYBIT_API_KEY")
	bybitSecret, hasBybitSecret := get("BYBIT_API_SECRET")
	_, hasBybitTestnet := get("BYBIT_TESTNET")
	_, hasBybitDemo := get("BYBIT_DEMO")
	if hasBybitKey || hasBybitSecret || hasBybitTestnet || hasBybitDemo {
		if cfg.Exchange.Bybit == nil {
			cfg.Exchange.Bybit = &exchange.BybitConfig{}
		}
		if hasBybitKey {
			cfg.Exchange.Bybit.APIKey = bybitKey
		}
		if hasBybitSecret {
			cfg.Exchange.Bybit.APISecret = bybitSecret
		}
		getBool("BYBIT_TESTNET", &cfg.Exchange.Bybit.Testnet)
		getBool("BYBIT_DEMO", &cfg.Exchange.Bybit.Demo)
	}

	binanceKey, hasBinanceKey := get("BINANCE_API_KEY")
	binanceSecret, hasBinanceSecret := get("BINANCE_API_SECRET")
	if !hasBinanceSecret {
		binanceSecret, hasBinanceSecret = get("BINANCE_SECRET_KEY")
	}
	_, hasBinanceTestnet := get("BINANCE_TESTNET")
	if hasBinanceKey || hasBinanceSecret || hasBinanceTestnet {
		if cfg.Exchange.Binance == nil {
			cfg.Exchange.Binance = &exchange.BinanceConfig{}
		}
		if hasBinanceKey {
			cfg.Exchange.Binance.APIKey = binanceKey
		}
		if hasBinanceSecret {
			cfg.Exchange.Binance.APISecret = binanceSecret
		}
		getBool("BINANCE_TESTNET", &cfg.Exchange.Binance.Testnet)
	}

	if v, ok := get("TRADING_SYMBOLS"); ok {
		cfg.Symbols = SplitSymbols(v)
	}
	if v, ok := get("SCAN_INTERVAL"); ok {
		cfg.Scan.Interval = v
	}
	if v, ok := get("SCAN_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SCAN_LIMIT: %w", err)
		}
		cfg.Scan.Limit = n
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v, ok := get("TELEGRAM_TOKEN"); ok {
		cfg.Alerts.TelegramToken = v
	}
	if v, ok := get("TELEGRAM_CHAT_ID"); ok {
		cfg.Alerts.TelegramChatID = v
	}
	if v, ok := get("METRICS_ADDR"); ok {
		cfg.Metrics.Addr = v
	}
	return firstErr
}

// SplitSymbols parses a comma separated symbol list, upper-casing entries
// and dropping blanks and duplicates.
func SplitSymbols(s string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(s, ",") {
		sym := strings.ToUpper(strings.TrimSpace(part))
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}
