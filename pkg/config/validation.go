package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gaineziswear/QuantumTradebot/internal/safety"
	"github.com/gaineziswear/QuantumTradebot/pkg/data"
	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

// Validate checks every section and reports all problems at once.
func Validate(cfg *AppConfig) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	var errs []error
	add := func(section string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", section, err))
		}
	}

	if !cfg.Offline() {
		add("exchange", cfg.Exchange.Validate())
	}
	add("analysis", cfg.Analysis.Validate())
	add("sizing", cfg.Sizing.Validate())
	add("scan", validateScan(cfg))
	add("symbols", validateSymbols(cfg))

	if _, err := zerolog.ParseLevel(cfg.Logging.Level); err != nil {
		add("logging", fmt.Errorf("invalid level %q", cfg.Logging.Level))
	}
	add("alerts", validateAlerts(cfg.Alerts))
	if cfg.Watch < 0 {
		add("watch", fmt.Errorf("period must not be negative, got %s", cfg.Watch))
	}
	if cfg.Data.CacheTTL < 0 {
		add("data", fmt.Errorf("cache_ttl must not be negative, got %s", cfg.Data.CacheTTL))
	}
	if _, ok := data.ParseTrailingPeriod(cfg.Data.Period); cfg.Data.Period != "" && !ok {
		add("data", fmt.Errorf("invalid period %q, use e.g. 7d, 30days or 168h", cfg.Data.Period))
	}
	return errors.Join(errs...)
}

func validateScan(cfg *AppConfig) error {
	if _, err := types.ParseInterval(cfg.Scan.Interval); err != nil {
		return err
	}
	v := safety.NewValidator(cfg.Analysis.MinCandles)
	if err := v.ValidateLimit(cfg.Scan.Limit).Err(); err != nil {
		return err
	}
	if cfg.Scan.Balance < 0 {
		return fmt.Errorf("balance must not be negative, got %.2f", cfg.Scan.Balance)
	}
	return nil
}

func validateSymbols(cfg *AppConfig) error {
	if cfg.Data.CSVFile != "" {
		return nil
	}
	if len(cfg.Symbols) == 0 {
		return errors.New("at least one symbol is required")
	}
	v := safety.NewValidator(cfg.Analysis.MinCandles)
	var errs []error
	for _, s := range cfg.Symbols {
		if err := v.ValidateSymbol(s).Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func validateAlerts(a AlertConfig) error {
	if (a.TelegramToken == "") != (a.TelegramChatID == "") {
		return errors.New("telegram_token and telegram_chat_id must be set together")
	}
	if a.MinConfidence < 0 || a.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be within [0,1], got %.2f", a.MinConfidence)
	}
	return nil
}
