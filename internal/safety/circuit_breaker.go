package safety

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrCircuitOpen is returned by Call while the breaker rejects requests.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerState represents the state of a circuit breaker
type CircuitBreakerState int

const (
	StateClosed CircuitBreakerState = iota
	StateOpen
	StateHalfOpen
)

// String returns the string representation of the circuit breaker state
func (s CircuitBreakerState) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// CircuitBreakerConfig holds configuration for a circuit breaker
type CircuitBreakerConfig struct {
	FailureThreshold uint32        `json:"failure_threshold" yaml:"failure_threshold"` // consecutive failures before opening
	SuccessThreshold uint32        `json:"success_threshold" yaml:"success_threshold"` // successes in half-open before closing
	Timeout          time.Duration `json:"timeout" yaml:"timeout"`                     // how long to stay open
}

// DefaultCircuitBreakerConfig suits a market data feed polled every few seconds.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
	}
}

// CircuitBreaker stops calling a failing data source for a cool-down period
// and tries it again in half-open state.
type CircuitBreaker struct {
	config        CircuitBreakerConfig
	name          string
	now           func() time.Time
	onStateChange func(name string, from, to CircuitBreakerState)

	mutex       sync.Mutex
	state       CircuitBreakerState
	failures    uint32
	successes   uint32
	lastFailure time.Time
	nextAttempt time.Time
}

// NewCircuitBreaker creates a new circuit breaker. Zero config fields take
// their defaults.
func NewCircuitBreaker(name string, config CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCircuitBreakerConfig()
	if config.FailureThreshold == 0 {
		config.FailureThreshold = def.FailureThreshold
	}
	if config.SuccessThreshold == 0 {
		config.SuccessThreshold = def.SuccessThreshold
	}
	if config.Timeout == 0 {
		config.Timeout = def.Timeout
	}

	return &CircuitBreaker{
		config: config,
		name:   name,
		now:    time.Now,
		state:  StateClosed,
	}
}

// OnStateChange registers a callback invoked synchronously after each
// transition, outside the breaker's lock.
func (cb *CircuitBreaker) OnStateChange(fn func(name string, from, to CircuitBreakerState)) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	cb.onStateChange = fn
}

// Call executes fn with circuit breaker protection. When the breaker is open
// fn is not called and the returned error wraps ErrCircuitOpen.
func (cb *CircuitBreaker) Call(fn func() error) error {
	if err := cb.before(); err != nil {
		return err
	}

	err := fn()
	cb.after(err == nil)
	return err
}

func (cb *CircuitBreaker) before() error {
	cb.mutex.Lock()
	from := cb.state
	if cb.state == StateOpen {
		if cb.now().Before(cb.nextAttempt) {
			retryIn := cb.nextAttempt.Sub(cb.now())
			cb.mutex.Unlock()
			return fmt.Errorf("%s: %w (retry in %s)", cb.name, ErrCircuitOpen, retryIn.Round(time.Millisecond))
		}
		cb.state = StateHalfOpen
		cb.successes = 0
	}
	to, callback := cb.state, cb.onStateChange
	cb.mutex.Unlock()

	cb.notify(callback, from, to)
	return nil
}

func (cb *CircuitBreaker) after(success bool) {
	cb.mutex.Lock()
	from := cb.state
	if success {
		cb.failures = 0
		if cb.state == StateHalfOpen {
			cb.successes++
			if cb.successes >= cb.config.SuccessThreshold {
				cb.state = StateClosed
				cb.successes = 0
			}
		}
	} else {
		cb.failures++
		cb.lastFailure = cb.now()
		if cb.state == StateHalfOpen || cb.failures >= cb.config.FailureThreshold {
			cb.state = StateOpen
			cb.successes = 0
			cb.nextAttempt = cb.now().Add(cb.config.Timeout)
		}
	}
	to, callback := cb.state, cb.onStateChange
	cb.mutex.Unlock()

	cb.notify(callback, from, to)
}

func (cb *CircuitBreaker) notify(callback func(string, CircuitBreakerState, CircuitBreakerState), from, to CircuitBreakerState) {
	if callback != nil && from != to {
		callback(cb.name, from, to)
	}
}

// GetState returns the current state of the circuit breaker
func (cb *CircuitBreaker) GetState() CircuitBreakerState {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

// CircuitBreakerStats holds statistics about a circuit breaker
type CircuitBreakerStats struct {
	Name        string
	State       CircuitBreakerState
	Failures    uint32
	Successes   uint32
	LastFailure time.Time
	NextAttempt time.Time
}

// GetStats returns statistics about the circuit breaker
func (cb *CircuitBreaker) GetStats() CircuitBreakerStats {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	return CircuitBreakerStats{
		Name:        cb.name,
		State:       cb.state,
		Failures:    cb.failures,
		Successes:   cb.successes,
		LastFailure: cb.lastFailure,
		NextAttempt: cb.nextAttempt,
	}
}

// Reset resets the circuit breaker to closed state
func (cb *CircuitBreaker) Reset() {
	cb.mutex.Lock()
	cb.state = StateClosed
	cb.failures = 0
	cb.successes = 0
	cb.mutex.Unlock()
}
