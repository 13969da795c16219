package exchange

import (
	"context"

	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

// KlineProvider supplies historical candles for one exchange.
//
// GetKlines returns at most limit candles ordered oldest first. The interval
// is any form accepted by types.ParseInterval. Errors are *errors.BotError
// values carrying an EXCHANGE, NETWORK, TIMEOUT, RATE_LIMIT or VALIDATION
// category.
type KlineProvider interface {
	Name() string
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]types.OHLCV, error)
}

// Reverse puts a newest-first candle list into chronological order in place.
func Reverse(candles []types.OHLCV) {
	for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
		candles[i], candles[j] = candles[j], candles[i]
	}
}
