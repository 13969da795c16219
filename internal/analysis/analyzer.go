package analysis

import (
	"math"
	"time"

	"github.com/gaineziswear/QuantumTradebot/internal/indicators"
	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

// VolumeProfile summarizes traded volume over the analyzed window
type VolumeProfile struct {
	Total         float64 `json:"total"`
	RecentAverage float64 `json:"recent_average"`
	TrendRatio    float64 `json:"trend_ratio"`
}

// Result is the outcome of one analysis pass over a candle window
type Result struct {
	Symbol           string                      `json:"symbol,omitempty"`
	Price            float64                     `json:"price"`
	Timestamp        time.Time                   `json:"timestamp"`
	Signals          []Signal                    `json:"signals"`
	OverallSignal    SignalType                  `json:"overall_signal"`
	Confidence       float64                     `json:"confidence"`
	BuyWeight        float64                     `json:"buy_weight"`
	SellWeight       float64                     `json:"sell_weight"`
	RiskScore        float64                     `json:"risk_score"`
	SupportLevels    []float64                   `json:"support_levels"`
	ResistanceLevels []float64                   `json:"resistance_levels"`
	Fibonacci        []indicators.FibonacciLevel `json:"fibonacci"`
	Volatility       float64                     `json:"volatility"`
	MomentumScore    float64                     `json:"momentum_score"`
	TrendStrength    float64                     `json:"trend_strength"`
	VolumeProfile    VolumeProfile               `json:"volume_profile"`
}

// IsActionable reports whether the overall decision is BUY or SELL
func (r *Result) IsActionable() bool {
	return r.OverallSignal != SignalHold
}

// Decision is the folded outcome of a set of signals
type Decision struct {
	Signal     SignalType
	Confidence float64
	BuyWeight  float64
	SellWeight float64
}

// Aggregate sums strength*confidence per side. A side wins only when it
// outweighs the other and exceeds threshold.
func Aggregate(signals []Signal, threshold float64) Decision {
	var d Decision
	for _, sig := range signals {
		switch sig.Type {
		case SignalBuy:
			d.BuyWeight += sig.Weight()
		case SignalSell:
			d.SellWeight += sig.Weight()
		}
	}

	switch {
	case d.BuyWeight > d.SellWeight && d.BuyWeight > threshold:
		d.Signal = SignalBuy
		d.Confidence = math.Min(d.BuyWeight, 1)
	case d.SellWeight > d.BuyWeight && d.SellWeight > threshold:
		d.Signal = SignalSell
		d.Confidence = math.Min(d.SellWeight, 1)
	default:
		d.Signal = SignalHold
	}
	return d
}

// Analyzer turns candle windows into Results. It holds only its Config and is
// safe for concurrent use.
type Analyzer struct {
	config Config
}

// NewAnalyzer validates cfg and returns an Analyzer using it
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{config: cfg}, nil
}

// Config returns a copy of the analyzer's configuration
func (a *Analyzer) Config() Config {
	return a.config
}

// Analyze evaluates candles (oldest first). Fewer than MinCandles candles
// yield the neutral result.
func (a *Analyzer) Analyze(candles []types.OHLCV) *Result {
	return a.AnalyzeSymbol("", candles)
}

// AnalyzeSymbol is Analyze with the symbol recorded on the result
func (a *Analyzer) AnalyzeSymbol(symbol string, candles []types.OHLCV) *Result {
	if len(candles) < a.config.MinCandles {
		return neutralResult(symbol, candles)
	}

	cfg := a.config
	closes := types.Closes(candles)
	last := candles[len(candles)-1]

	signals := GenerateSignals(cfg, candles)
	decision := Aggregate(signals, cfg.DecisionThreshold)
	levels := indicators.SupportResistance(candles, cfg.SupportResistancePeriod).Tail(cfg.MaxLevels)

	return &Result{
		Symbol:           symbol,
		Price:            last.Close,
		Timestamp:        last.Timestamp,
		Signals:          signals,
		OverallSignal:    decision.Signal,
		Confidence:       decision.Confidence,
		BuyWeight:        decision.BuyWeight,
		SellWeight:       decision.SellWeight,
		RiskScore:        a.riskScore(candles, last.Close),
		SupportLevels:    nonNil(levels.Support),
		ResistanceLevels: nonNil(levels.Resistance),
		Fibonacci:        a.fibonacci(candles),
		Volatility:       indicators.Volatility(closes, cfg.PeriodsPerYear),
		MomentumScore:    a.momentumScore(closes),
		TrendStrength:    a.trendStrength(candles, closes),
		VolumeProfile:    volumeProfile(candles),
	}
}

// riskScore is ATR relative to price, scaled and capped at 1. Anything that
// prevents measuring it counts as maximum risk.
func (a *Analyzer) riskScore(candles []types.OHLCV, price float64) float64 {
	atr, ok := indicators.Last(indicators.ATR(candles, a.config.ATRPeriod))
	if !ok || price <= 0 || !finite(atr, price) {
		return 1
	}
	return math.Max(0, math.Min(atr/price*a.config.RiskScale, 1))
}

// momentumScore averages the RSI and ROC readings, each mapped to [-1,1],
// then rescales the mean to [0,1]. Missing readings count as neutral.
func (a *Analyzer) momentumScore(closes []float64) float64 {
	rsi, ok := indicators.Last(indicators.RSI(closes, a.config.RSI.Period))
	if !ok || !finite(rsi) || flatTail(closes, a.config.RSI.Period+1) {
		rsi = 50
	}
	roc, ok := indicators.LastValue(indicators.ROC(closes, a.config.MomentumROCPeriod))
	if !ok {
		roc = 0
	}

	rsiScore := (rsi - 50) / 50
	rocScore := math.Tanh(roc / 10)
	return strength(((rsiScore+rocScore)/2 + 1) / 2)
}

// trendStrength is ADX/50 signed by the price change over TrendLookback
// closes, within [-1,1]. Without enough history it reads 0.
func (a *Analyzer) trendStrength(candles []types.OHLCV, closes []float64) float64 {
	n := len(closes)
	adx, ok := indicators.Last(indicators.ADX(candles, a.config.ADXPeriod).ADX)
	if !ok || !finite(adx) || n < a.config.TrendLookback {
		return 0
	}
	change := closes[n-1] - closes[n-a.config.TrendLookback]
	switch {
	case change > 0:
		return math.Min(adx/50, 1)
	case change < 0:
		return -math.Min(adx/50, 1)
	default:
		return 0
	}
}

func (a *Analyzer) fibonacci(candles []types.OHLCV) []indicators.FibonacciLevel {
	return indicators.FibonacciLevels(swingRange(candles, a.config.FibonacciLookback))
}

// swingRange returns the highest high and lowest low of the last lookback
// candles. candles must not be empty.
func swingRange(candles []types.OHLCV, lookback int) (high, low float64) {
	window := candles
	if len(window) > lookback {
		window = window[len(window)-lookback:]
	}
	high, low = window[0].High, window[0].Low
	for _, c := range window[1:] {
		high = math.Max(high, c.High)
		low = math.Min(low, c.Low)
	}
	return high, low
}

const (
	recentVolumeBars   = 10
	baselineVolumeBars = 20
)

func volumeProfile(candles []types.OHLCV) VolumeProfile {
	var vp VolumeProfile
	for _, c := range candles {
		vp.Total += c.Volume
	}

	recent := meanVolume(candles, recentVolumeBars)
	baseline := meanVolume(candles, baselineVolumeBars)
	vp.RecentAverage = recent
	vp.TrendRatio = 1
	if baseline > 0 {
		vp.TrendRatio = recent / baseline
	}
	return vp
}

// meanVolume averages the volume of the last n candles
func meanVolume(candles []types.OHLCV, n int) float64 {
	if n > len(candles) {
		n = len(candles)
	}
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range candles[len(candles)-n:] {
		sum += c.Volume
	}
	return sum / float64(n)
}

func neutralResult(symbol string, candles []types.OHLCV) *Result {
	r := &Result{
		Symbol:           symbol,
		Signals:          []Signal{},
		OverallSignal:    SignalHold,
		RiskScore:        1,
		SupportLevels:    []float64{},
		ResistanceLevels: []float64{},
		Fibonacci:        []indicators.FibonacciLevel{},
		MomentumScore:    0.5,
		VolumeProfile:    VolumeProfile{TrendRatio: 1},
	}
	if n := len(candles); n > 0 {
		r.Price = candles[n-1].Close
		r.Timestamp = candles[n-1].Timestamp
	}
	return r
}

func nonNil(levels []float64) []float64 {
	if levels == nil {
		return []float64{}
	}
	return levels
}
