package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envManager(env map[string]string) *Manager {
	return &Manager{lookupEnv: func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := DefaultAppConfig()
	require.NoError(t, Validate(cfg))
	assert.Equal(t, "bybit", cfg.Exchange.Name)
	assert.False(t, cfg.Offline())
}

func TestLoad_JSONOverlaysDefaults(t *testing.T) {
	path := writeFile(t, "config.json", `{
  "symbols": ["SOLUSDT"],
  "exchange": {"name": "binance", "binance": {"market": "futures"}, "guard": {"request_timeout": "5s"}},
  "scan": {"interval": "4h", "limit": 300},
  "watch": "1m"
}`)

	cfg, err := envManager(nil).Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"SOLUSDT"}, cfg.Symbols)
	assert.Equal(t, "binance", cfg.Exchange.Name)
	require.NotNil(t, cfg.Exchange.Binance)
	assert.Equal(t, "futures", cfg.Exchange.Binance.Market)
	assert.Equal(t, 5*time.Second, cfg.Exchange.Guard.RequestTimeout)
	assert.Equal(t, DefaultAppConfig().Exchange.Guard.Burst, cfg.Exchange.Guard.Burst)
	assert.Equal(t, "4h", cfg.Scan.Interval)
	assert.Equal(t, 300, cfg.Scan.Limit)
	assert.Equal(t, time.Minute, cfg.Watch)
	assert.Equal(t, DefaultAppConfig().Analysis, cfg.Analysis)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
symbols: [BTCUSDT]
analysis:
  rsi:
    period: 21
logging:
  level: debug
`)
	cfg, err := envManager(nil).Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 21, cfg.Analysis.RSI.Period)
	assert.Equal(t, DefaultAppConfig().Analysis.RSI.Overbought, cfg.Analysis.RSI.Overbought)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Rejects(t *testing.T) {
	tests := map[string]struct {
		name, body, want string
	}{
		"unknown field":   {"c.yaml", "symbolz: [BTCUSDT]\n", "symbolz"},
		"unsupported ext": {"c.toml", "symbols = []\n", "unsupported config format"},
		"bad interval":    {"c.yaml", "scan:\n  interval: 7m\n", "scan"},
		"bad exchange":    {"c.yaml", "exchange:\n  name: kraken\n", "kraken"},
		"limit too low":   {"c.yaml", "scan:\n  limit: 10\n", "limit 10"},
		"bad symbol":      {"c.yaml", "symbols: [BTC/USDT]\n", "invalid characters"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := envManager(nil).Load(writeFile(t, tt.name, tt.body), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := envManager(nil).Load(filepath.Join(t.TempDir(), "missing.json"), "")
	assert.Error(t, err)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.Symbols = nil
	cfg.Logging.Level = "loud"
	cfg.Sizing.MaxRiskPerTrade = -1

	err := Validate(cfg)
	require.Error(t, err)
	for _, section := range []string{"symbols", "logging", "sizing"} {
		assert.Contains(t, err.Error(), section)
	}
}

func TestValidate_OfflineSkipsExchange(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.Exchange.Name = ""
	assert.Error(t, Validate(cfg))

	cfg.Data.Root = "data"
	assert.NoError(t, Validate(cfg))

	cfg.Data = DataConfig{CSVFile: "btc.csv"}
	cfg.Symbols = nil
	assert.NoError(t, Validate(cfg))

	cfg.Data.Period = "30days"
	assert.NoError(t, Validate(cfg))
	cfg.Data.Period = "last month"
	assert.ErrorContains(t, Validate(cfg), "invalid period")
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultAppConfig()
	err := envManager(map[string]string{
		"EXCHANGE":           "Binance",
		"BINANCE_API_KEY":    "key",
		"BINANCE_SECRET_KEY": "secret",
		"BINANCE_TESTNET":    "true",
		"TRADING_SYMBOLS":    " btcusdt, ETHUSDT,,btcusdt ",
		"SCAN_INTERVAL":      "15m",
		"SCAN_LIMIT":         "500",
		"LOG_LEVEL":          "WARN",
		"METRICS_ADDR":       ":9090",
		"TELEGRAM_TOKEN":     "bot-token",
		"TELEGRAM_CHAT_ID":   "1234",
		"BYBIT_API_KEY":      "",
	}).ApplyEnv(cfg)
	require.NoError(t, err)

	assert.Equal(t, "binance", cfg.Exchange.Name)
	require.NotNil(t, cfg.Exchange.Binance)
	assert.Equal(t, "key", cfg.Exchange.Binance.APIKey)
	assert.Equal(t, "secret", cfg.Exchange.Binance.APISecret)
	assert.True(t, cfg.Exchange.Binance.Testnet)
	assert.Nil(t, cfg.Exchange.Bybit)
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, cfg.Symbols)
	assert.Equal(t, "15m", cfg.Scan.Interval)
	assert.Equal(t, 500, cfg.Scan.Limit)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.True(t, cfg.Alerts.Enabled())
	require.NoError(t, Validate(cfg))
}

func TestApplyEnv_BadValues(t *testing.T) {
	assert.Error(t, envManager(map[string]string{"SCAN_LIMIT": "many"}).ApplyEnv(DefaultAppConfig()))
	assert.Error(t, envManager(map[string]string{"BYBIT_DEMO": "maybe"}).ApplyEnv(DefaultAppConfig()))
}

func TestApplyEnv_BybitKeyWithoutSecret(t *testing.T) {
	m := envManager(map[string]string{"BYBIT_API_KEY": "key"})
	cfg := DefaultAppConfig()
	require.NoError(t, m.ApplyEnv(cfg))
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret")
}

func TestLoad_EnvFile(t *testing.T) {
	const key = "QTB_TEST_SCAN_INTERVAL_UNUSED"
	t.Cleanup(func() {
		os.Unsetenv("SCAN_INTERVAL")
		os.Unsetenv(key)
	})
	if _, set := os.LookupEnv("SCAN_INTERVAL"); set {
		t.Skip("SCAN_INTERVAL already set in the environment")
	}

	envFile := writeFile(t, ".env", "SCAN_INTERVAL=30m\n"+key+"=1\n")
	cfg, err := NewManager().Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "30m", cfg.Scan.Interval)

	_, err = NewManager().Load("", filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, DefaultAppConfig()))
	assert.True(t, strings.Contains(buf.String(), "request_timeout: 15s"), buf.String())

	cfg := &AppConfig{}
	require.NoError(t, Decode(&buf, cfg))
	assert.Equal(t, DefaultAppConfig(), cfg)
}

func TestSplitSymbols(t *testing.T) {
	assert.Empty(t, SplitSymbols(" , "))
	assert.Equal(t, []string{"A", "B"}, SplitSymbols("a,b,A"))
}

func TestLoad_OverridesWinOverEnv(t *testing.T) {
	m := envManager(map[string]string{"SCAN_INTERVAL": "15m"})
	cfg, err := m.Load("", "", func(c *AppConfig) { c.Scan.Interval = "1d" })
	require.NoError(t, err)
	assert.Equal(t, "1d", cfg.Scan.Interval)

	_, err = m.Load("", "", func(c *AppConfig) { c.Scan.Limit = 0 })
	assert.Error(t, err)
}

func TestValidate_Alerts(t *testing.T) {
	cfg := DefaultAppConfig()
	assert.False(t, cfg.Alerts.Enabled())

	cfg.Alerts.TelegramToken = "token"
	assert.ErrorContains(t, Validate(cfg), "alerts")

	cfg.Alerts.TelegramChatID = "1"
	cfg.Alerts.MinConfidence = 1.5
	assert.ErrorContains(t, Validate(cfg), "min_confidence")
}
