package indicators

// MACDResult holds the three MACD series.
//
// MACD has len(prices)-slow+1 values. Signal and Histogram share the shorter
// length len(MACD)-signal+1 and are aligned with the tail of MACD.
type MACDResult struct {
	MACD      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes EMA(fast)-EMA(slow), its signal EMA and the histogram.
// fast must be smaller than slow; otherwise the result is empty.
func MACD(prices []float64, fast, slow, signal int) MACDResult {
	if fast <= 0 || fast >= slow {
		return MACDResult{}
	}

	fastEMA := EMA(prices, fast)
	slowEMA := EMA(prices, slow)
	if len(slowEMA) == 0 {
		return MACDResult{}
	}

	fastEMA = alignTail(fastEMA, len(slowEMA))
	macdLine := make([]float64, len(slowEMA))
	for i := range slowEMA {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}

	signalLine := EMA(macdLine, signal)
	if len(signalLine) == 0 {
		return MACDResult{MACD: macdLine}
	}

	aligned := alignTail(macdLine, len(signalLine))
	histogram := make([]float64, len(signalLine))
	for i := range signalLine {
		histogram[i] = aligned[i] - signalLine[i]
	}

	return MACDResult{
		MACD:      macdLine,
		Signal:    signalLine,
		Histogram: histogram,
	}
}

// Latest returns the most recent MACD, signal and histogram readings
func (m MACDResult) Latest() (macd, signal, histogram float64, ok bool) {
	if len(m.Signal) == 0 || len(m.Histogram) == 0 || len(m.MACD) == 0 {
		return 0, 0, 0, false
	}
	return m.MACD[len(m.MACD)-1], m.Signal[len(m.Signal)-1], m.Histogram[len(m.Histogram)-1], true
}
