package indicators

import (
	"math"

	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

// DefaultADXPeriod is Wilder's smoothing length
const DefaultADXPeriod = 14

// DirectionalIndex holds +DI, -DI and ADX on a 0-100 scale.
// PlusDI and MinusDI start at candle period and have len(candles)-period
// values. ADX is the Wilder average of DX and has period-1 fewer values.
type DirectionalIndex struct {
	PlusDI  []float64
	MinusDI []float64
	ADX     []float64
}

// ADX measures trend strength regardless of direction. Readings above 20
// indicate a trending market, above 40 a strong trend.
//
// True range and directional movement are summed over the first period
// moves and then smoothed with sum - sum/period + next. The first ADX is the
// mean of the first period DX readings. At least 2*period candles are
// needed; a window without any range reads 0.
func ADX(candles []types.OHLCV, period int) DirectionalIndex {
	var out DirectionalIndex
	if period <= 0 || len(candles) < 2*period {
		return out
	}

	p := float64(period)
	size := len(candles) - period
	out.PlusDI = make([]float64, 0, size)
	out.MinusDI = make([]float64, 0, size)
	dx := make([]float64, 0, size)

	var trSum, plusSum, minusSum float64
	for i := 1; i < len(candles); i++ {
		tr, plusDM, minusDM := directionalMove(candles[i-1], candles[i])
		if i <= period {
			trSum += tr
			plusSum += plusDM
			minusSum += minusDM
			if i < period {
				continue
			}
		} else {
			trSum = trSum - trSum/p + tr
			plusSum = plusSum - plusSum/p + plusDM
			minusSum = minusSum - minusSum/p + minusDM
		}

		var plusDI, minusDI float64
		if trSum > 0 {
			plusDI = plusSum / trSum * 100
			minusDI = minusSum / trSum * 100
		}
		out.PlusDI = append(out.PlusDI, plusDI)
		out.MinusDI = append(out.MinusDI, minusDI)

		var d float64
		if sum := plusDI + minusDI; sum > 0 {
			d = math.Abs(plusDI-minusDI) / sum * 100
		}
		dx = append(dx, d)
	}

	adx := windowMean(dx[:period])
	out.ADX = make([]float64, 0, len(dx)-period+1)
	out.ADX = append(out.ADX, adx)
	for _, d := range dx[period:] {
		adx = (adx*(p-1) + d) / p
		out.ADX = append(out.ADX, adx)
	}
	return out
}

// Latest returns the most recent ADX, +DI and -DI
func (d DirectionalIndex) Latest() (adx, plusDI, minusDI float64, ok bool) {
	adx, ok = Last(d.ADX)
	if !ok {
		return 0, 0, 0, false
	}
	plusDI, _ = Last(d.PlusDI)
	minusDI, _ = Last(d.MinusDI)
	return adx, plusDI, minusDI, true
}

// directionalMove returns the true range, +DM and -DM of cur against prev.
// Only the larger of the up and down moves counts, and only when positive.
func directionalMove(prev, cur types.OHLCV) (tr, plusDM, minusDM float64) {
	tr = math.Max(cur.High-cur.Low, math.Max(math.Abs(cur.High-prev.Close), math.Abs(cur.Low-prev.Close)))

	up := cur.High - prev.High
	down := prev.Low - cur.Low
	if up > down && up > 0 {
		plusDM = up
	}
	if down > up && down > 0 {
		minusDM = down
	}
	return tr, plusDM, minusDM
}
