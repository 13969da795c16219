package scanner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gaineziswear/QuantumTradebot/internal/analysis"
	boterrors "github.com/gaineziswear/QuantumTradebot/internal/errors"
	"github.com/gaineziswear/QuantumTradebot/internal/exchange"
	"github.com/gaineziswear/QuantumTradebot/internal/logger"
	"github.com/gaineziswear/QuantumTradebot/internal/monitoring"
	"github.com/gaineziswear/QuantumTradebot/internal/risk"
	"github.com/gaineziswear/QuantumTradebot/internal/safety"
	"github.com/gaineziswear/QuantumTradebot/pkg/data"
	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

const component = "scanner"

// Config controls one scan.
type Config struct {
	Interval string  `json:"interval" yaml:"interval"`
	Limit    int     `json:"limit" yaml:"limit"`
	Workers  int     `json:"workers" yaml:"workers"` // <= 0 means runtime.NumCPU()
	Balance  float64 `json:"balance" yaml:"balance"` // quote balance used for position hints
}

// DefaultConfig scans hourly candles with enough history for every indicator.
func DefaultConfig() Config {
	return Config{
		Interval: "1h",
		Limit:    200,
		Balance:  1000,
	}
}

// Report is the outcome of analyzing one symbol. Exactly one of Result and
// Err is set.
type Report struct {
	Symbol   string                  `json:"symbol"`
	Result   *analysis.Result        `json:"result,omitempty"`
	Hint     *risk.PositionHint      `json:"position_hint,omitempty"`
	Stats    *risk.WindowStats       `json:"window_stats,omitempty"`
	Candles  int                     `json:"candles"`
	Err      error                   `json:"-"`
	Category boterrors.ErrorCategory `json:"error_category,omitempty"`
	Duration time.Duration           `json:"duration"`
}

// Error returns the report's error message or "".
func (r Report) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Option customizes a Scanner.
type Option func(*Scanner)

// WithLogger sets the scanner's logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Scanner) { s.log = l }
}

// WithCache reuses fetched candles for repeated scans of the same symbol.
func WithCache(c data.DataCache) Option {
	return func(s *Scanner) { s.cache = c }
}

// WithRiskManager attaches position hints to actionable results.
func WithRiskManager(rm risk.RiskManager) Option {
	return func(s *Scanner) { s.risk = rm }
}

// WithHealth reports scan outcomes to a health checker.
func WithHealth(h *monitoring.HealthChecker) Option {
	return func(s *Scanner) { s.health = h }
}

// WithErrorStats collects categorized failures.
func WithErrorStats(es *boterrors.ErrorStats) Option {
	return func(s *Scanner) { s.stats = es }
}

// Scanner fetches and analyzes many symbols concurrently.
type Scanner struct {
	provider  exchange.KlineProvider
	analyzer  *analysis.Analyzer
	cfg       Config
	pool      *WorkerPool
	validator *safety.Validator

	log    *logger.Logger
	cache  data.DataCache
	risk   risk.RiskManager
	health *monitoring.HealthChecker
	stats  *boterrors.ErrorStats
}

// New creates a scanner over provider.
func New(provider exchange.KlineProvider, analyzer *analysis.Analyzer, cfg Config, opts ...Option) (*Scanner, error) {
	if provider == nil || analyzer == nil {
		return nil, boterrors.NewConfigurationError(component, "New", "provider and analyzer are required")
	}
	interval, err := types.ParseInterval(cfg.Interval)
	if err != nil {
		return nil, boterrors.NewConfigurationError(component, "New", err.Error())
	}
	cfg.Interval = string(interval)

	s := &Scanner{
		provider:  provider,
		analyzer:  analyzer,
		cfg:       cfg,
		pool:      NewWorkerPool(cfg.Workers),
		validator: safety.NewValidator(analyzer.Config().MinCandles),
		log:       logger.Nop(),
		stats:     boterrors.NewErrorStats(100),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.stats == nil {
		s.stats = boterrors.NewErrorStats(100)
	}
	if err := s.validator.ValidateLimit(cfg.Limit).Err(); err != nil {
		return nil, boterrors.NewConfigurationError(component, "New", err.Error())
	}
	return s, nil
}

// Workers returns the effective parallelism.
func (s *Scanner) Workers() int {
	return s.pool.Workers()
}

// ErrorStats returns the collected failures.
func (s *Scanner) ErrorStats() *boterrors.ErrorStats {
	return s.stats
}

// Scan analyzes every symbol and returns one report per symbol in input
// order. A failing symbol never stops the others. Symbols not started
// before ctx is done get a CANCELED report.
func (s *Scanner) Scan(ctx context.Context, symbols []string) []Report {
	reports := make([]Report, len(symbols))
	progress := NewProgressTracker(len(symbols))

	skipped := s.pool.Run(ctx, len(symbols), func(ctx context.Context, i int) {
		reports[i] = s.scanSymbol(ctx, symbols[i])
		done := progress.Increment()
		s.log.Debug("scanned %s (%d/%d)", symbols[i], done, len(symbols))
	})

	for _, i := range skipped {
		err := boterrors.WrapError(ctx.Err(), boterrors.ErrorCategoryCanceled, component, "Scan").
			WithMessage("scan stopped before symbol was started")
		reports[i] = Report{Symbol: normalizeSymbol(symbols[i]), Err: err, Category: err.Category}
	}

	failures := 0
	for _, r := range reports {
		if r.Err != nil {
			failures++
		}
	}
	if s.health != nil {
		s.health.RecordScan(len(symbols), failures)
	}

	_, _, _, elapsed := progress.GetProgress()
	s.log.Info("scan of %d symbols finished in %s with %d failures", len(symbols), elapsed.Round(time.Millisecond), failures)
	return reports
}

// Watch scans symbols every period until ctx is done, passing each batch of
// reports to fn. The first scan runs immediately.
func (s *Scanner) Watch(ctx context.Context, symbols []string, period time.Duration, fn func([]Report)) error {
	if period <= 0 {
		return boterrors.NewConfigurationError(component, "Watch", fmt.Sprintf("period must be positive, got %s", period))
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		fn(s.Scan(ctx, symbols))

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Scanner) scanSymbol(ctx context.Context, symbol string) (report Report) {
	start := time.Now()
	symbol = normalizeSymbol(symbol)
	report.Symbol = symbol

	defer func() {
		report.Duration = time.Since(start)
		monitoring.ObserveDuration(s.provider.Name(), report.Duration)
		if report.Err != nil {
			botErr := boterrors.CategorizeError(report.Err, component, "scanSymbol").WithContext("symbol", symbol)
			report.Err = botErr
			report.Category = botErr.Category
			s.stats.RecordError(botErr)
			monitoring.RecordError(string(botErr.Category))
			if s.health != nil {
				s.health.RecordError(botErr.Error())
			}
			s.log.Warning("%s: %v (recovery: %s)", symbol, botErr, botErr.GetRecoveryAction())
		}
	}()

	if err := s.validator.ValidateRequest(symbol, s.cfg.Interval, s.cfg.Limit); err != nil {
		report.Err = boterrors.NewValidationError(component, "scanSymbol", err.Error())
		return report
	}

	candles, err := s.fetch(ctx, symbol)
	if err != nil {
		report.Err = err
		return report
	}
	report.Candles = len(candles)

	if err := analysis.Validate(candles); err != nil {
		report.Err = boterrors.NewDataError(component, "scanSymbol", err)
		return report
	}

	result := s.analyzer.AnalyzeSymbol(symbol, candles)
	report.Result = result
	monitoring.RecordAnalysis(result)

	stats := risk.EvaluateWindow(types.Closes(candles), s.analyzer.Config().PeriodsPerYear)
	report.Stats = &stats

	if s.risk != nil && s.risk.ShouldTrade(result) {
		hint := s.risk.PositionHint(result, stats, s.cfg.Balance)
		report.Hint = &hint
	}

	s.log.Debug("%s: %s confidence=%.2f risk=%.2f", symbol, result.OverallSignal, result.Confidence, result.RiskScore)
	return report
}

func (s *Scanner) fetch(ctx context.Context, symbol string) ([]types.OHLCV, error) {
	key := fmt.Sprintf("%s:%s:%s:%d", s.provider.Name(), symbol, s.cfg.Interval, s.cfg.Limit)
	if s.cache != nil {
		if candles, ok := s.cache.Get(key); ok {
			return candles, nil
		}
	}

	candles, err := s.provider.GetKlines(ctx, symbol, s.cfg.Interval, s.cfg.Limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, candles)
	}
	return candles, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
