package exchange

import (
	"context"
	"math"
	"math/rand"
	"time"

	boterrors "github.com/gaineziswear/QuantumTradebot/internal/errors"
)

// RetryConfig holds configuration for retry mechanisms
type RetryConfig struct {
	MaxRetries    int           `json:"max_retries" yaml:"max_retries"`
	InitialDelay  time.Duration `json:"initial_delay" yaml:"initial_delay"`
	MaxDelay      time.Duration `json:"max_delay" yaml:"max_delay"`
	BackoffFactor float64       `json:"backoff_factor" yaml:"backoff_factor"`
	JitterEnabled bool          `json:"jitter_enabled" yaml:"jitter_enabled"`
}

// DefaultRetryConfig returns a default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		InitialDelay:  500 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2.0,
		JitterEnabled: true,
	}
}

// Retry runs fn until it succeeds, returns an error that should not be
// retried, the attempts run out or ctx is done. Only *errors.BotError values
// whose recovery action is RETRY or WAIT are retried; WAIT sleeps MaxDelay.
func Retry(ctx context.Context, config RetryConfig, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		delay, retry := retryDelay(err, attempt, config)
		if attempt == config.MaxRetries || !retry {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}
	}

	return lastErr
}

func retryDelay(err error, attempt int, config RetryConfig) (time.Duration, bool) {
	botErr, ok := boterrors.AsBotError(err)
	if !ok {
		return 0, false
	}
	switch botErr.GetRecoveryAction() {
	case boterrors.RecoveryActionRetry:
		return backoffDelay(attempt, config), true
	case boterrors.RecoveryActionWait:
		if config.MaxDelay > 0 {
			return config.MaxDelay, true
		}
		return backoffDelay(attempt, config), true
	default:
		return 0, false
	}
}

// backoffDelay calculates the delay before retry number attempt+1
func backoffDelay(attempt int, config RetryConfig) time.Duration {
	factor := config.BackoffFactor
	if factor < 1 {
		factor = 1
	}
	delay := float64(config.InitialDelay) * math.Pow(factor, float64(attempt))
	if config.MaxDelay > 0 && delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}

	// up to 10% jitter to avoid thundering herd
	if config.JitterEnabled && delay > 0 {
		delay += rand.Float64() * delay * 0.1
	}

	return time.Duration(delay)
}
