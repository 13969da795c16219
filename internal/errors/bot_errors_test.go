package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, ErrorCategoryNetwork, "bybit", "GetKlines"))

	base := stderrors.New("boom")
	err := WrapError(base, ErrorCategoryNetwork, "bybit", "GetKlines").WithContext("symbol", "BTCUSDT")
	assert.ErrorIs(t, err, base)
	assert.True(t, err.IsRetryable())
	assert.False(t, err.IsFatal())
	assert.Equal(t, "BTCUSDT", err.Context["symbol"])
	assert.Equal(t, "[NETWORK:bybit] GetKlines: operation failed: boom", err.Error())
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		err      error
		expected ErrorCategory
	}{
		{context.Canceled, ErrorCategoryCanceled},
		{fmt.Errorf("fetch: %w", context.DeadlineExceeded), ErrorCategoryTimeout},
		{stderrors.New("i/o timeout"), ErrorCategoryTimeout},
		{stderrors.New("dial tcp: connection refused"), ErrorCategoryNetwork},
		{stderrors.New("invalid api key"), ErrorCategoryCredentials},
		{stderrors.New("Too Many Requests"), ErrorCategoryRateLimit},
		{stderrors.New("symbol not found"), ErrorCategoryValidation},
		{stderrors.New("something odd"), ErrorCategoryTemporary},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			botErr := CategorizeError(tt.err, "scanner", "scan")
			require.NotNil(t, botErr)
			assert.Equal(t, tt.expected, botErr.Category)
		})
	}
}

func TestCategorizeError_KeepsExistingBotError(t *testing.T) {
	inner := NewDataError("csv", "LoadData", stderrors.New("bad row"))
	wrapped := fmt.Errorf("load: %w", inner)

	assert.Same(t, inner, CategorizeError(wrapped, "scanner", "scan"))
	assert.Equal(t, ErrorCategoryData, CategoryOf(wrapped))
	assert.Equal(t, ErrorCategoryTemporary, CategoryOf(stderrors.New("plain")))
}

func TestGetRecoveryAction(t *testing.T) {
	assert.Equal(t, RecoveryActionStop, NewConfigurationError("config", "load", "bad").GetRecoveryAction())
	assert.Equal(t, RecoveryActionWait, WrapError(stderrors.New("x"), ErrorCategoryRateLimit, "c", "o").GetRecoveryAction())
	assert.Equal(t, RecoveryActionRetry, NewNetworkError("c", "o", stderrors.New("x")).GetRecoveryAction())
	assert.Equal(t, RecoveryActionSkip, NewValidationError("c", "o", "bad candles").GetRecoveryAction())
}

func TestErrorStats(t *testing.T) {
	stats := NewErrorStats(3)
	stats.RecordError(nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			category := ErrorCategoryNetwork
			if i%2 == 0 {
				category = ErrorCategoryData
			}
			stats.RecordError(WrapError(fmt.Errorf("err %d", i), category, "scanner", "scan"))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, stats.Total())
	assert.Len(t, stats.Recent(), 3)
	assert.Equal(t, map[ErrorCategory]int{ErrorCategoryNetwork: 5, ErrorCategoryData: 5}, stats.CountByCategory())
	assert.InDelta(t, 0.5, stats.GetErrorRate(ErrorCategoryData), 1e-12)
}
