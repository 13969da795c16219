package indicators

import "github.com/gaineziswear/QuantumTradebot/pkg/types"

// VWAP returns the cumulative volume-weighted average of the typical price,
// one reading per candle from the start of the sequence. Readings abstain
// while no volume has traded yet.
func VWAP(candles []types.OHLCV) []Value {
	if len(candles) == 0 {
		return nil
	}

	out := make([]Value, len(candles))
	cumPV, cumVolume := 0.0, 0.0
	for i, c := range candles {
		cumPV += c.TypicalPrice() * c.Volume
		cumVolume += c.Volume
		if cumVolume == 0 {
			continue
		}
		out[i] = Some(cumPV / cumVolume)
	}
	return out
}
