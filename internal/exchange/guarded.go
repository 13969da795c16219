package exchange

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	boterrors "github.com/gaineziswear/QuantumTradebot/internal/errors"
	"github.com/gaineziswear/QuantumTradebot/internal/logger"
	"github.com/gaineziswear/QuantumTradebot/internal/monitoring"
	"github.com/gaineziswear/QuantumTradebot/internal/safety"
	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

// GuardConfig controls the protection wrapped around a raw exchange client.
type GuardConfig struct {
	RequestsPerSecond float64                     `json:"requests_per_second" yaml:"requests_per_second"`
	Burst             int                         `json:"burst" yaml:"burst"`
	RequestTimeout    time.Duration               `json:"request_timeout" yaml:"request_timeout"`
	Retry             RetryConfig                 `json:"retry" yaml:"retry"`
	Breaker           safety.CircuitBreakerConfig `json:"breaker" yaml:"breaker"`
}

// DefaultGuardConfig stays well under the public kline limits of both
// Bybit and Binance.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		RequestsPerSecond: 10,
		Burst:             20,
		RequestTimeout:    15 * time.Second,
		Retry:             DefaultRetryConfig(),
		Breaker:           safety.DefaultCircuitBreakerConfig(),
	}
}

// GuardedProvider rate limits, retries and circuit-breaks calls to another
// KlineProvider and records fetch metrics.
type GuardedProvider struct {
	inner   KlineProvider
	cfg     GuardConfig
	limiter *rate.Limiter
	breaker *safety.CircuitBreaker
	log     *logger.Logger
}

// NewGuardedProvider wraps inner. A nil log discards output.
func NewGuardedProvider(inner KlineProvider, cfg GuardConfig, log *logger.Logger) *GuardedProvider {
	if log == nil {
		log = logger.Nop()
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	breaker := safety.NewCircuitBreaker(inner.Name(), cfg.Breaker)
	breaker.OnStateChange(func(name string, from, to safety.CircuitBreakerState) {
		log.Warning("circuit breaker %s: %s -> %s", name, from, to)
	})

	return &GuardedProvider{
		inner:   inner,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, burst),
		breaker: breaker,
		log:     log.With("component", "exchange").With("exchange", inner.Name()),
	}
}

// Name returns the wrapped provider's name.
func (g *GuardedProvider) Name() string {
	return g.inner.Name()
}

// Breaker exposes the circuit breaker for health reporting.
func (g *GuardedProvider) Breaker() *safety.CircuitBreaker {
	return g.breaker
}

// GetKlines fetches candles through the limiter, retry loop and breaker.
// Only failures of the exchange itself count against the breaker, so one
// unknown symbol cannot lock out the others.
func (g *GuardedProvider) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]types.OHLCV, error) {
	const op = "GetKlines"
	var candles []types.OHLCV
	var fetchErr error
	attempt := 0

	err := g.breaker.Call(func() error {
		fetchErr = Retry(ctx, g.cfg.Retry, func() error {
			attempt++
			if err := g.limiter.Wait(ctx); err != nil {
				return boterrors.NewTimeoutError(g.Name(), op, err).WithRetryable(false)
			}

			reqCtx, cancel := ctx, context.CancelFunc(func() {})
			if g.cfg.RequestTimeout > 0 {
				reqCtx, cancel = context.WithTimeout(ctx, g.cfg.RequestTimeout)
			}
			defer cancel()

			data, err := g.inner.GetKlines(reqCtx, symbol, interval, limit)
			if err != nil {
				botErr := boterrors.CategorizeError(err, g.Name(), op)
				g.log.Debug("attempt %d for %s %s failed: %v", attempt, symbol, interval, botErr)
				return botErr
			}
			candles = data
			return nil
		})
		if fetchErr != nil && ctx.Err() == nil && tripsBreaker(fetchErr) {
			return fetchErr
		}
		return nil
	})
	if err == nil {
		err = fetchErr
	}

	if err != nil {
		var botErr *boterrors.BotError
		if errors.Is(err, safety.ErrCircuitOpen) {
			botErr = boterrors.WrapError(err, boterrors.ErrorCategoryTemporary, g.Name(), op).
				WithMessage("exchange temporarily disabled").
				WithRetryable(false)
		} else {
			botErr = boterrors.CategorizeError(err, g.Name(), op)
		}
		botErr.WithContext("symbol", symbol).WithContext("interval", interval)
		monitoring.RecordError(string(botErr.Category))
		return nil, botErr
	}

	monitoring.RecordKlines(g.Name(), len(candles))
	return candles, nil
}

// tripsBreaker reports whether err says the exchange is unhealthy rather than
// that this one request was wrong.
func tripsBreaker(err error) bool {
	switch boterrors.CategoryOf(err) {
	case boterrors.ErrorCategoryNetwork,
		boterrors.ErrorCategoryTimeout,
		boterrors.ErrorCategoryExchange,
		boterrors.ErrorCategoryRateLimit,
		boterrors.ErrorCategoryTemporary:
		return true
	default:
		return false
	}
}
