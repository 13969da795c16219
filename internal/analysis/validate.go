package analysis

import (
	"errors"
	"fmt"

	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

// ErrInvalidCandles is wrapped by every Validate failure
var ErrInvalidCandles = errors.New("invalid candle sequence")

// Validate is an opt-in precondition check for callers that do not trust
// their data source. Analyze itself never validates.
//
// It requires strictly increasing timestamps, finite non-negative prices and
// volume, and high >= max(open, close) >= min(open, close) >= low.
func Validate(candles []types.OHLCV) error {
	for i, c := range candles {
		if !finite(c.Open, c.High, c.Low, c.Close, c.Volume) {
			return fmt.Errorf("%w: candle %d has non-finite values", ErrInvalidCandles, i)
		}
		if c.Open < 0 || c.High < 0 || c.Low < 0 || c.Close < 0 {
			return fmt.Errorf("%w: candle %d has negative price", ErrInvalidCandles, i)
		}
		if c.Volume < 0 {
			return fmt.Errorf("%w: candle %d has negative volume %.4f", ErrInvalidCandles, i, c.Volume)
		}
		if c.High < c.Low {
			return fmt.Errorf("%w: candle %d high %.8f below low %.8f", ErrInvalidCandles, i, c.High, c.Low)
		}
		if c.Open > c.High || c.Close > c.High || c.Open < c.Low || c.Close < c.Low {
			return fmt.Errorf("%w: candle %d open/close outside high-low range", ErrInvalidCandles, i)
		}
		if i > 0 && !c.Timestamp.After(candles[i-1].Timestamp) {
			return fmt.Errorf("%w: candle %d timestamp %s not after %s",
				ErrInvalidCandles, i, c.Timestamp.Format("2006-01-02 15:04:05"), candles[i-1].Timestamp.Format("2006-01-02 15:04:05"))
		}
	}
	return nil
}
