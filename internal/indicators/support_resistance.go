package indicators

import "github.com/gaineziswear/QuantumTradebot/pkg/types"

// DefaultSupportResistancePeriod is the window on each side of a pivot
const DefaultSupportResistancePeriod = 20

// SupportResistanceLevels lists pivot prices in chronological order
type SupportResistanceLevels struct {
	Support    []float64
	Resistance []float64
}

// SupportResistance finds local pivots.
//
// Candle i is resistance when its high is >= every high in the period candles
// before and after it, and support when its low is <= every low in the same
// span. The first and last period candles are never classified.
func SupportResistance(candles []types.OHLCV, period int) SupportResistanceLevels {
	var levels SupportResistanceLevels
	if period <= 0 || len(candles) < 2*period+1 {
		return levels
	}

	for i := period; i < len(candles)-period; i++ {
		isResistance, isSupport := true, true
		for j := i - period; j <= i+period; j++ {
			if j == i {
				continue
			}
			if candles[j].High > candles[i].High {
				isResistance = false
			}
			if candles[j].Low < candles[i].Low {
				isSupport = false
			}
			if !isResistance && !isSupport {
				break
			}
		}
		if isResistance {
			levels.Resistance = append(levels.Resistance, candles[i].High)
		}
		if isSupport {
			levels.Support = append(levels.Support, candles[i].Low)
		}
	}
	return levels
}

// Tail keeps the most recent n levels of each kind
func (l SupportResistanceLevels) Tail(n int) SupportResistanceLevels {
	return SupportResistanceLevels{
		Support:    alignTail(l.Support, n),
		Resistance: alignTail(l.Resistance, n),
	}
}
