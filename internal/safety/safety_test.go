package safety

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream down")

func newTestBreaker(clock *time.Time) *CircuitBreaker {
	cb := NewCircuitBreaker("bybit", CircuitBreakerConfig{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
	})
	cb.now = func() time.Time { return *clock }
	return cb
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := newTestBreaker(&clock)

	var transitions []string
	cb.OnStateChange(func(name string, from, to CircuitBreakerState) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	fail := func() error { return errUpstream }
	assert.ErrorIs(t, cb.Call(fail), errUpstream)
	assert.Equal(t, StateClosed, cb.GetState())
	assert.ErrorIs(t, cb.Call(fail), errUpstream)
	assert.Equal(t, StateOpen, cb.GetState())

	called := false
	err := cb.Call(func() error { called = true; return nil })
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	clock = clock.Add(time.Minute)
	require.NoError(t, cb.Call(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.GetState())

	assert.Equal(t, []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}, transitions)
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := newTestBreaker(&clock)

	_ = cb.Call(func() error { return errUpstream })
	_ = cb.Call(func() error { return errUpstream })
	clock = clock.Add(2 * time.Minute)

	assert.ErrorIs(t, cb.Call(func() error { return errUpstream }), errUpstream)
	stats := cb.GetStats()
	assert.Equal(t, StateOpen, stats.State)
	assert.Equal(t, clock.Add(time.Minute), stats.NextAttempt)

	cb.Reset()
	assert.Equal(t, StateClosed, cb.GetState())
	assert.Zero(t, cb.GetStats().Failures)
}

func TestCircuitBreakerSuccessResetsFailures(t *testing.T) {
	clock := time.Now()
	cb := newTestBreaker(&clock)

	_ = cb.Call(func() error { return errUpstream })
	_ = cb.Call(func() error { return nil })
	_ = cb.Call(func() error { return errUpstream })
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestNewCircuitBreakerDefaults(t *testing.T) {
	cb := NewCircuitBreaker("x", CircuitBreakerConfig{})
	assert.Equal(t, DefaultCircuitBreakerConfig(), cb.config)
}

func TestValidatorRequest(t *testing.T) {
	v := NewValidator(50)

	tests := []struct {
		name     string
		symbol   string
		interval string
		limit    int
		code     string
	}{
		{"valid", "BTCUSDT", "1h", 200, ""},
		{"bybit code", "ETHUSDT", "240", 50, ""},
		{"empty symbol", " ", "1h", 200, "SYMBOL_EMPTY"},
		{"short symbol", "BT", "1h", 200, "SYMBOL_TOO_SHORT"},
		{"bad chars", "BTC/USDT", "1h", 200, "SYMBOL_INVALID_CHARS"},
		{"bad interval", "BTCUSDT", "7m", 200, "INTERVAL_UNSUPPORTED"},
		{"low limit", "BTCUSDT", "1h", 49, "LIMIT_TOO_LOW"},
		{"high limit", "BTCUSDT", "1h", 1001, "LIMIT_TOO_HIGH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateRequest(tt.symbol, tt.interval, tt.limit)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.code)
		})
	}
}
