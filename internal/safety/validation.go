package safety

import (
	"fmt"
	"strings"

	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

// Exchange kline endpoints cap a single request at 1000 candles.
const MaxKlineLimit = 1000

// ValidationResult represents the result of a validation check
type ValidationResult struct {
	Valid   bool
	Message string
	Code    string
}

// Err converts a failed result into an error, nil when valid.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("%s: %s", r.Code, r.Message)
}

// Validator checks user supplied scan parameters before any request is made.
type Validator struct {
	minCandles int
}

// NewValidator creates a validator that requires at least minCandles per request.
func NewValidator(minCandles int) *Validator {
	return &Validator{minCandles: minCandles}
}

// ValidateSymbol validates a trading symbol format
func (v *Validator) ValidateSymbol(symbol string) ValidationResult {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return ValidationResult{
			Valid:   false,
			Message: "symbol cannot be empty",
			Code:    "SYMBOL_EMPTY",
		}
	}

	if len(symbol) < 3 {
		return ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("symbol '%s' too short: minimum 3 characters required", symbol),
			Code:    "SYMBOL_TOO_SHORT",
		}
	}

	if len(symbol) > 20 {
		return ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("symbol '%s' too long: maximum 20 characters allowed", symbol),
			Code:    "SYMBOL_TOO_LONG",
		}
	}

	for _, char := range symbol {
		if !((char >= 'A' && char <= 'Z') || (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9')) {
			return ValidationResult{
				Valid:   false,
				Message: fmt.Sprintf("symbol '%s' contains invalid characters: only alphanumeric allowed", symbol),
				Code:    "SYMBOL_INVALID_CHARS",
			}
		}
	}

	return ValidationResult{Valid: true}
}

// ValidateInterval validates a candle interval string
func (v *Validator) ValidateInterval(interval string) ValidationResult {
	if _, err := types.ParseInterval(interval); err != nil {
		return ValidationResult{
			Valid:   false,
			Message: err.Error(),
			Code:    "INTERVAL_UNSUPPORTED",
		}
	}
	return ValidationResult{Valid: true}
}

// ValidateLimit checks that a kline request can return enough history for a
// non-neutral analysis and fits in a single exchange call.
func (v *Validator) ValidateLimit(limit int) ValidationResult {
	if limit < v.minCandles {
		return ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("limit %d is below the %d candles needed for analysis", limit, v.minCandles),
			Code:    "LIMIT_TOO_LOW",
		}
	}
	if limit > MaxKlineLimit {
		return ValidationResult{
			Valid:   false,
			Message: fmt.Sprintf("limit %d exceeds exchange maximum of %d", limit, MaxKlineLimit),
			Code:    "LIMIT_TOO_HIGH",
		}
	}
	return ValidationResult{Valid: true}
}

// ValidateRequest runs every check for one kline request and returns the
// first failure.
func (v *Validator) ValidateRequest(symbol, interval string, limit int) error {
	for _, r := range []ValidationResult{
		v.ValidateSymbol(symbol),
		v.ValidateInterval(interval),
		v.ValidateLimit(limit),
	} {
		if err := r.Err(); err != nil {
			return err
		}
	}
	return nil
}
