package bybit

import (
	"errors"
	"fmt"
	"net/http"

	boterrors "github.com/gaineziswear/QuantumTradebot/internal/errors"
)

// BybitError represents a Bybit API error with additional context
type BybitError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *BybitError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Bybit API error %d: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("Bybit API error %d: %s", e.Code, e.Message)
}

// Bybit error codes relevant to market data
const (
	ErrCodeInvalidAPIKey     = 10003
	ErrCodeInvalidSignature  = 10004
	ErrCodeInvalidTimestamp  = 10005
	ErrCodeRateLimitExceeded = 10006
	ErrCodeInvalidParameter  = 10001
	ErrCodeSymbolNotFound    = 110009
)

// NewBybitError creates a new BybitError
func NewBybitError(code int, message string, details ...string) *BybitError {
	err := &BybitError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// ParseAPIError converts a non-zero retCode into a BybitError
func ParseAPIError(retCode int, retMsg string) error {
	if retCode == 0 {
		return nil
	}
	return NewBybitError(retCode, retMsg)
}

// IsRetryableError determines if an error should be retried
func IsRetryableError(err error) bool {
	var bybitErr *BybitError
	if !errors.As(err, &bybitErr) {
		return false
	}
	switch bybitErr.Code {
	case ErrCodeRateLimitExceeded,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// IsAuthenticationError checks if the error is related to authentication
func IsAuthenticationError(err error) bool {
	var bybitErr *BybitError
	if !errors.As(err, &bybitErr) {
		return false
	}
	switch bybitErr.Code {
	case ErrCodeInvalidAPIKey, ErrCodeInvalidSignature, ErrCodeInvalidTimestamp:
		return true
	}
	return false
}

// toBotError categorizes a Bybit failure for the retry and reporting layers.
func toBotError(err error, operation string) *boterrors.BotError {
	var bybitErr *BybitError
	if !errors.As(err, &bybitErr) {
		// malformed payloads are not worth retrying
		return boterrors.NewDataError("bybit", operation, err).WithRetryable(false)
	}

	switch {
	case bybitErr.Code == ErrCodeRateLimitExceeded:
		return boterrors.WrapError(err, boterrors.ErrorCategoryRateLimit, "bybit", operation)
	case IsAuthenticationError(err):
		return boterrors.WrapError(err, boterrors.ErrorCategoryCredentials, "bybit", operation)
	case bybitErr.Code == ErrCodeSymbolNotFound || bybitErr.Code == ErrCodeInvalidParameter:
		return boterrors.WrapError(err, boterrors.ErrorCategoryValidation, "bybit", operation)
	default:
		return boterrors.NewExchangeError("bybit", operation, err).WithRetryable(IsRetryableError(err))
	}
}
