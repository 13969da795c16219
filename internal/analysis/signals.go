package analysis

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gaineziswear/QuantumTradebot/internal/indicators"
	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

// SignalType is the direction of a signal or of the overall decision
type SignalType int

const (
	SignalHold SignalType = iota
	SignalBuy
	SignalSell
)

func (s SignalType) String() string {
	switch s {
	case SignalBuy:
		return "BUY"
	case SignalSell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// MarshalText renders the signal as BUY, SELL or HOLD
func (s SignalType) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses BUY, SELL or HOLD, case-insensitively
func (s *SignalType) UnmarshalText(text []byte) error {
	parsed, err := ParseSignalType(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSignalType parses a string into a SignalType
func ParseSignalType(v string) (SignalType, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "BUY":
		return SignalBuy, nil
	case "SELL":
		return SignalSell, nil
	case "HOLD", "":
		return SignalHold, nil
	default:
		return SignalHold, fmt.Errorf("unknown signal type: %s", v)
	}
}

// Indicator names carried by signals
const (
	IndicatorRSI        = "RSI"
	IndicatorMACD       = "MACD"
	IndicatorBollinger  = "BOLLINGER_BANDS"
	IndicatorMACross    = "MA_CROSS"
	IndicatorStochastic = "STOCHASTIC"
	IndicatorWilliamsR  = "WILLIAMS_R"
	IndicatorVWAP       = "VWAP"

	IndicatorADX             = "ADX_TREND"
	IndicatorFibonacci       = "FIBONACCI"
	IndicatorMarketStructure = "MARKET_STRUCTURE"
	IndicatorOBV             = "OBV"
	IndicatorVolumeBreakout  = "VOLUME_BREAKOUT"
)

// Signal is one indicator's vote. Strength and Confidence are in [0,1].
type Signal struct {
	Type       SignalType `json:"signal"`
	Strength   float64    `json:"strength"`
	Confidence float64    `json:"confidence"`
	Indicator  string     `json:"indicator"`
	Value      float64    `json:"value"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Weight is the signal's contribution to the aggregate
func (s Signal) Weight() float64 {
	return s.Strength * s.Confidence
}

// rsiSignal votes BUY below the oversold line and SELL above the overbought
// line. A window with no price movement at all reads 100 but carries no
// momentum, so it abstains.
func rsiSignal(cfg RSIRule, closes []float64, ts time.Time) (Signal, bool) {
	rsi, ok := indicators.Last(indicators.RSI(closes, cfg.Period))
	if !ok || !finite(rsi) || flatTail(closes, cfg.Period+1) {
		return Signal{}, false
	}

	sig := Signal{Indicator: IndicatorRSI, Value: rsi, Confidence: cfg.Confidence, Timestamp: ts}
	switch {
	case rsi < cfg.Oversold:
		sig.Type = SignalBuy
		sig.Strength = strength((cfg.Oversold - rsi) / cfg.Oversold)
	case rsi > cfg.Overbought:
		sig.Type = SignalSell
		sig.Strength = strength((rsi - cfg.Overbought) / (100 - cfg.Overbought))
	default:
		return Signal{}, false
	}
	return sig, true
}

func macdSignal(cfg MACDRule, closes []float64, ts time.Time) (Signal, bool) {
	macd, signal, hist, ok := indicators.MACD(closes, cfg.FastPeriod, cfg.SlowPeriod, cfg.SignalPeriod).Latest()
	if !ok || !finite(macd, signal, hist) {
		return Signal{}, false
	}

	sig := Signal{
		Indicator:  IndicatorMACD,
		Value:      hist,
		Strength:   strength(math.Abs(hist) / cfg.StrengthScale),
		Confidence: cfg.Confidence,
		Timestamp:  ts,
	}
	switch {
	case macd > signal && hist > 0:
		sig.Type = SignalBuy
	case macd < signal && hist < 0:
		sig.Type = SignalSell
	default:
		return Signal{}, false
	}
	return sig, true
}

func bollingerSignal(cfg BollingerRule, closes []float64, price float64, ts time.Time) (Signal, bool) {
	upper, _, lower, ok := indicators.BollingerBands(closes, cfg.Period, cfg.StdDev).Latest()
	if !ok || !finite(upper, lower, price) {
		return Signal{}, false
	}
	width := upper - lower
	if width <= 0 {
		return Signal{}, false
	}

	sig := Signal{Indicator: IndicatorBollinger, Value: price, Confidence: cfg.Confidence, Timestamp: ts}
	switch {
	case price <= lower:
		sig.Type = SignalBuy
		sig.Strength = strength((lower - price) / width)
	case price >= upper:
		sig.Type = SignalSell
		sig.Strength = strength((price - upper) / width)
	default:
		return Signal{}, false
	}
	return sig, true
}

func maCrossSignal(cfg MACrossRule, closes []float64, price float64, ts time.Time) (Signal, bool) {
	fast, okFast := indicators.Last(indicators.SMA(closes, cfg.FastPeriod))
	slow, okSlow := indicators.Last(indicators.SMA(closes, cfg.SlowPeriod))
	if !okFast || !okSlow || !finite(fast, slow, price) {
		return Signal{}, false
	}

	sig := Signal{
		Indicator:  IndicatorMACross,
		Value:      fast - slow,
		Strength:   strength(cfg.Strength),
		Confidence: cfg.Confidence,
		Timestamp:  ts,
	}
	switch {
	case fast > slow && price > fast:
		sig.Type = SignalBuy
	case fast < slow && price < fast:
		sig.Type = SignalSell
	default:
		return Signal{}, false
	}
	return sig, true
}

func stochasticSignal(cfg StochasticRule, candles []types.OHLCV, ts time.Time) (Signal, bool) {
	st := indicators.Stochastic(candles, cfg.KPeriod, cfg.DPeriod)
	k, okK := indicators.LastValue(st.K)
	d, okD := indicators.LastValue(st.D)
	if !okK || !okD {
		return Signal{}, false
	}

	sig := Signal{Indicator: IndicatorStochastic, Value: k, Confidence: cfg.Confidence, Timestamp: ts}
	switch {
	case k < cfg.Oversold && d < cfg.Oversold:
		sig.Type = SignalBuy
		sig.Strength = strength((cfg.Oversold - k) / cfg.Oversold)
	case k > cfg.Overbought && d > cfg.Overbought:
		sig.Type = SignalSell
		sig.Strength = strength((k - cfg.Overbought) / (100 - cfg.Overbought))
	default:
		return Signal{}, false
	}
	return sig, true
}

func williamsRSignal(cfg WilliamsRRule, candles []types.OHLCV, ts time.Time) (Signal, bool) {
	r, ok := indicators.LastValue(indicators.WilliamsR(candles, cfg.Period))
	if !ok {
		return Signal{}, false
	}

	sig := Signal{Indicator: IndicatorWilliamsR, Value: r, Confidence: cfg.Confidence, Timestamp: ts}
	switch {
	case r < cfg.Oversold:
		sig.Type = SignalBuy
		sig.Strength = strength((cfg.Oversold - r) / (cfg.Oversold + 100))
	case r > cfg.Overbought:
		sig.Type = SignalSell
		sig.Strength = strength((r - cfg.Overbought) / -cfg.Overbought)
	default:
		return Signal{}, false
	}
	return sig, true
}

// vwapSignal follows the trend: price holding above VWAP is bullish
func vwapSignal(cfg VWAPRule, candles []types.OHLCV, price float64, ts time.Time) (Signal, bool) {
	vwap, ok := indicators.LastValue(indicators.VWAP(candles))
	if !ok || vwap <= 0 || !finite(price) {
		return Signal{}, false
	}

	deviation := price/vwap - 1
	sig := Signal{Indicator: IndicatorVWAP, Value: vwap, Confidence: cfg.Confidence, Timestamp: ts}
	switch {
	case deviation > cfg.Band:
		sig.Type = SignalBuy
	case deviation < -cfg.Band:
		sig.Type = SignalSell
	default:
		return Signal{}, false
	}
	sig.Strength = strength(math.Abs(deviation) * cfg.StrengthScale)
	return sig, true
}

// adxSignal follows the stronger directional index once ADX clears the
// threshold
func adxSignal(cfg ADXRule, period int, candles []types.OHLCV, ts time.Time) (Signal, bool) {
	adx, plusDI, minusDI, ok := indicators.ADX(candles, period).Latest()
	if !ok || !finite(adx, plusDI, minusDI) || adx <= cfg.Threshold {
		return Signal{}, false
	}

	sig := Signal{
		Indicator:  IndicatorADX,
		Value:      adx,
		Strength:   strength(adx / cfg.StrengthScale),
		Confidence: cfg.Confidence,
		Timestamp:  ts,
	}
	switch {
	case plusDI > minusDI:
		sig.Type = SignalBuy
	case minusDI > plusDI:
		sig.Type = SignalSell
	default:
		return Signal{}, false
	}
	return sig, true
}

// fibonacciSignal votes on the retracement level nearest to price. A swing
// narrower than two tolerances puts every level inside the band, so it
// abstains.
func fibonacciSignal(cfg FibonacciRule, high, low, price float64, ts time.Time) (Signal, bool) {
	if price <= 0 || !finite(high, low, price) || high-low < 2*cfg.Tolerance*price {
		return Signal{}, false
	}

	var nearest indicators.FibonacciLevel
	best := math.Inf(1)
	for _, lvl := range indicators.FibonacciLevels(high, low) {
		if lvl.Ratio == 0 || lvl.Ratio == 1 || lvl.Price <= 0 {
			continue
		}
		if dist := math.Abs(price-lvl.Price) / lvl.Price; dist < cfg.Tolerance && dist < best {
			nearest, best = lvl, dist
		}
	}
	if math.IsInf(best, 1) {
		return Signal{}, false
	}

	sig := Signal{
		Indicator:  IndicatorFibonacci,
		Value:      nearest.Ratio,
		Strength:   strength(cfg.Strength),
		Confidence: cfg.Confidence,
		Timestamp:  ts,
	}
	if nearest.Ratio >= 0.5 {
		sig.Type = SignalBuy
	} else {
		sig.Type = SignalSell
	}
	return sig, true
}

// marketStructureSignal reads the last two swing highs and lows: higher
// highs with higher lows is an uptrend, lower highs with lower lows a
// downtrend. Mixed structure abstains.
func marketStructureSignal(cfg MarketStructureRule, candles []types.OHLCV, ts time.Time) (Signal, bool) {
	pivots := indicators.SupportResistance(candles, cfg.PivotWindow).Tail(2)
	if len(pivots.Resistance) < 2 || len(pivots.Support) < 2 {
		return Signal{}, false
	}
	highs, lows := pivots.Resistance, pivots.Support

	sig := Signal{
		Indicator:  IndicatorMarketStructure,
		Strength:   strength(cfg.Strength),
		Confidence: cfg.Confidence,
		Timestamp:  ts,
	}
	switch {
	case highs[1] > highs[0] && lows[1] > lows[0]:
		sig.Type, sig.Value = SignalBuy, 1
	case highs[1] < highs[0] && lows[1] < lows[0]:
		sig.Type, sig.Value = SignalSell, -1
	default:
		return Signal{}, false
	}
	return sig, true
}

// obvSignal confirms a rising close when OBV is above its moving average.
func obvSignal(cfg VolumeRule, candles []types.OHLCV, ts time.Time) (Signal, bool) {
	if len(candles) < 2 || !closedHigher(candles) {
		return Signal{}, false
	}
	obv := indicators.OBV(candles)
	avg, ok := indicators.Last(indicators.SMA(obv, cfg.OBVPeriod))
	current := obv[len(obv)-1]
	if !ok || !finite(avg, current) || current <= avg {
		return Signal{}, false
	}
	return Signal{
		Type:       SignalBuy,
		Indicator:  IndicatorOBV,
		Value:      current,
		Strength:   strength(cfg.OBVStrength),
		Confidence: cfg.OBVConfidence,
		Timestamp:  ts,
	}, true
}

// volumeBreakoutSignal confirms a rising close on a volume surge. Strength
// is the volume rate of change in percent over 100.
func volumeBreakoutSignal(cfg VolumeRule, candles []types.OHLCV, ts time.Time) (Signal, bool) {
	if len(candles) < 2 || !closedHigher(candles) {
		return Signal{}, false
	}
	roc, ok := indicators.LastValue(indicators.ROC(types.Volumes(candles), cfg.ROCPeriod))
	if !ok || roc <= cfg.BreakoutROC {
		return Signal{}, false
	}
	return Signal{
		Type:       SignalBuy,
		Indicator:  IndicatorVolumeBreakout,
		Value:      roc,
		Strength:   strength(roc / 100),
		Confidence: cfg.BreakoutConfidence,
		Timestamp:  ts,
	}, true
}

func closedHigher(candles []types.OHLCV) bool {
	n := len(candles)
	return candles[n-1].Close > candles[n-2].Close
}

// GenerateSignals runs every enabled rule against the latest candle. Rules
// that do not fire, or whose inputs are missing, emit nothing.
func GenerateSignals(cfg Config, candles []types.OHLCV) []Signal {
	signals := []Signal{}
	if len(candles) == 0 {
		return signals
	}

	closes := types.Closes(candles)
	last := candles[len(candles)-1]
	price, ts := last.Close, last.Timestamp

	add := func(sig Signal, ok bool) {
		if ok {
			signals = append(signals, sig)
		}
	}

	add(rsiSignal(cfg.RSI, closes, ts))
	add(macdSignal(cfg.MACD, closes, ts))
	add(bollingerSignal(cfg.Bollinger, closes, price, ts))
	add(maCrossSignal(cfg.MACross, closes, price, ts))
	if cfg.Stochastic.Enabled {
		add(stochasticSignal(cfg.Stochastic, candles, ts))
	}
	if cfg.WilliamsR.Enabled {
		add(williamsRSignal(cfg.WilliamsR, candles, ts))
	}
	if cfg.VWAP.Enabled {
		add(vwapSignal(cfg.VWAP, candles, price, ts))
	}
	if cfg.ADX.Enabled {
		add(adxSignal(cfg.ADX, cfg.ADXPeriod, candles, ts))
	}
	if cfg.Fibonacci.Enabled && !flatTail(closes, cfg.FibonacciLookback) {
		high, low := swingRange(candles, cfg.FibonacciLookback)
		add(fibonacciSignal(cfg.Fibonacci, high, low, price, ts))
	}
	if cfg.MarketStructure.Enabled {
		add(marketStructureSignal(cfg.MarketStructure, candles, ts))
	}
	if cfg.Volume.Enabled {
		add(obvSignal(cfg.Volume, candles, ts))
		add(volumeBreakoutSignal(cfg.Volume, candles, ts))
	}
	return signals
}

func strength(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// flatTail reports whether the last n prices are all equal
func flatTail(prices []float64, n int) bool {
	if n > len(prices) {
		n = len(prices)
	}
	if n < 2 {
		return false
	}
	tail := prices[len(prices)-n:]
	for _, p := range tail[1:] {
		if p != tail[0] {
			return false
		}
	}
	return true
}
