package config

import (
	"time"

	"github.com/gaineziswear/QuantumTradebot/internal/analysis"
	"github.com/gaineziswear/QuantumTradebot/internal/exchange"
	"github.com/gaineziswear/QuantumTradebot/internal/logger"
	"github.com/gaineziswear/QuantumTradebot/internal/risk"
	"github.com/gaineziswear/QuantumTradebot/internal/scanner"
	"github.com/gaineziswear/QuantumTradebot/pkg/reporting"
)

// AppConfig is the complete analyzer configuration. Every section has a
// usable default, so a config file only needs the fields it changes.
type AppConfig struct {
	Symbols   []string                  `json:"symbols" yaml:"symbols"`
	Exchange  exchange.ExchangeConfig   `json:"exchange" yaml:"exchange"`
	Scan      scanner.Config            `json:"scan" yaml:"scan"`
	Analysis  analysis.Config           `json:"analysis" yaml:"analysis"`
	Sizing    risk.SizingConfig         `json:"sizing" yaml:"sizing"`
	Reporting reporting.ReportingConfig `json:"reporting" yaml:"reporting"`
	Logging   logger.Config             `json:"logging" yaml:"logging"`
	Metrics   MetricsConfig             `json:"metrics" yaml:"metrics"`
	Data      DataConfig                `json:"data" yaml:"data"`
	Alerts    AlertConfig               `json:"alerts" yaml:"alerts"`
	Watch     time.Duration             `json:"watch" yaml:"watch"` // rescan period, 0 scans once
}

// MetricsConfig controls the /metrics and /health server
type MetricsConfig struct {
	Addr       string        `json:"addr" yaml:"addr"` // empty disables the server
	StaleAfter time.Duration `json:"stale_after" yaml:"stale_after"`
}

// DataConfig points the analyzer at local candle files instead of an exchange
type DataConfig struct {
	Root     string        `json:"root" yaml:"root"`           // data/<exchange>/<category>/<SYMBOL>/<interval>/candles.csv
	CSVFile  string        `json:"csv_file" yaml:"csv_file"`   // single file analysis
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"` // 0 disables the candle cache
	Period   string        `json:"period" yaml:"period"`       // trailing window of each file, e.g. 30d; empty keeps all
}

// AlertConfig enables Telegram messages for new BUY and SELL decisions
type AlertConfig struct {
	TelegramToken  string  `json:"telegram_token" yaml:"telegram_token"`
	TelegramChatID string  `json:"telegram_chat_id" yaml:"telegram_chat_id"`
	MinConfidence  float64 `json:"min_confidence" yaml:"min_confidence"`
}

// Enabled reports whether alerts can be sent.
func (a AlertConfig) Enabled() bool {
	return a.TelegramToken != "" && a.TelegramChatID != ""
}

// Offline reports whether candles come from disk.
func (c *AppConfig) Offline() bool {
	return c.Data.Root != "" || c.Data.CSVFile != ""
}

// DefaultAppConfig returns the defaults every loaded config starts from
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Symbols: []string{"BTCUSDT", "ETHUSDT"},
		Exchange: exchange.ExchangeConfig{
			Name:  "bybit",
			Guard: exchange.DefaultGuardConfig(),
		},
		Scan:      scanner.DefaultConfig(),
		Analysis:  analysis.DefaultConfig(),
		Sizing:    risk.DefaultSizingConfig(),
		Reporting: reporting.DefaultReportingConfig(),
		Logging:   logger.DefaultConfig(),
		Metrics: MetricsConfig{
			StaleAfter: 10 * time.Minute,
		},
		Alerts: AlertConfig{
			MinConfidence: 0.6,
		},
	}
}
