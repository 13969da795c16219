package analysis

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

func TestSignalType_TextForm(t *testing.T) {
	assert.Equal(t, "BUY", SignalBuy.String())
	assert.Equal(t, "SELL", SignalSell.String())
	assert.Equal(t, "HOLD", SignalHold.String())
	assert.Equal(t, "HOLD", SignalType(42).String())

	raw, err := json.Marshal(map[string]SignalType{"s": SignalSell})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"SELL"}`, string(raw))

	var decoded map[string]SignalType
	require.NoError(t, json.Unmarshal([]byte(`{"a":"buy","b":"Hold"}`), &decoded))
	assert.Equal(t, SignalBuy, decoded["a"])
	assert.Equal(t, SignalHold, decoded["b"])

	_, err = ParseSignalType("moon")
	assert.Error(t, err)
}

func sig(typ SignalType, indicator string, strength, confidence float64) Signal {
	return Signal{Type: typ, Indicator: indicator, Strength: strength, Confidence: confidence}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name       string
		signals    []Signal
		expected   SignalType
		buyWeight  float64
		sellWeight float64
		confidence float64
	}{
		{
			name:     "no signals",
			expected: SignalHold,
		},
		{
			name: "rsi and macd buy below threshold",
			signals: []Signal{
				sig(SignalBuy, IndicatorRSI, 0.5, 0.7),
				sig(SignalBuy, IndicatorMACD, 0.2, 0.6),
			},
			expected:  SignalHold,
			buyWeight: 0.5*0.7 + 0.2*0.6,
		},
		{
			name: "rsi and macd buy above threshold",
			signals: []Signal{
				sig(SignalBuy, IndicatorRSI, 0.5, 0.7),
				sig(SignalBuy, IndicatorMACD, 0.3, 0.6),
			},
			expected:   SignalBuy,
			buyWeight:  0.5*0.7 + 0.3*0.6,
			confidence: 0.5*0.7 + 0.3*0.6,
		},
		{
			name: "dominant but weak sell",
			signals: []Signal{
				sig(SignalSell, IndicatorBollinger, 0.6, 0.65),
				sig(SignalBuy, IndicatorRSI, 0.1, 0.7),
			},
			expected:   SignalHold,
			buyWeight:  0.1 * 0.7,
			sellWeight: 0.6 * 0.65,
		},
		{
			name: "strong sell",
			signals: []Signal{
				sig(SignalSell, IndicatorMACross, 0.7, 0.8),
				sig(SignalSell, IndicatorMACD, 1, 0.6),
				sig(SignalBuy, IndicatorRSI, 1, 0.7),
			},
			expected:   SignalSell,
			buyWeight:  0.7,
			sellWeight: 0.7*0.8 + 0.6,
			confidence: 1,
		},
		{
			name: "tie holds",
			signals: []Signal{
				sig(SignalSell, IndicatorMACD, 1, 0.6),
				sig(SignalBuy, IndicatorMACD, 1, 0.6),
			},
			expected:   SignalHold,
			buyWeight:  0.6,
			sellWeight: 0.6,
		},
		{
			name: "hold signals carry no weight",
			signals: []Signal{
				sig(SignalHold, IndicatorRSI, 1, 1),
			},
			expected: SignalHold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Aggregate(tt.signals, 0.5)
			assert.Equal(t, tt.expected, d.Signal)
			assert.InDelta(t, tt.buyWeight, d.BuyWeight, 1e-12)
			assert.InDelta(t, tt.sellWeight, d.SellWeight, 1e-12)
			assert.InDelta(t, tt.confidence, d.Confidence, 1e-12)
		})
	}
}

func TestBollingerSignal_ZeroWidthAbstains(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 50
	}
	_, ok := bollingerSignal(DefaultConfig().Bollinger, closes, 50, time.Time{})
	assert.False(t, ok)
}

func TestBollingerSignal_BandTouch(t *testing.T) {
	cfg := DefaultConfig().Bollinger
	closes := []float64{}
	for i := 0; i < 19; i++ {
		closes = append(closes, 100+float64(i%2))
	}

	crash := append(append([]float64{}, closes...), 90)
	s, ok := bollingerSignal(cfg, crash, 90, baseTime)
	require.True(t, ok)
	assert.Equal(t, SignalBuy, s.Type)
	assert.Greater(t, s.Strength, 0.0)
	assert.LessOrEqual(t, s.Strength, 1.0)
	assert.Equal(t, baseTime, s.Timestamp)

	spike := append(append([]float64{}, closes...), 110)
	s, ok = bollingerSignal(cfg, spike, 110, baseTime)
	require.True(t, ok)
	assert.Equal(t, SignalSell, s.Type)
}

func TestRSISignal_FlatWindowAbstains(t *testing.T) {
	closes := geometricCloses(40, 100, 1)
	_, ok := rsiSignal(DefaultConfig().RSI, closes, time.Time{})
	assert.False(t, ok)
}

func TestRSISignal_NeutralZoneAbstains(t *testing.T) {
	closes := []float64{}
	for i := 0; i < 40; i++ {
		closes = append(closes, 100+float64(i%2))
	}
	_, ok := rsiSignal(DefaultConfig().RSI, closes, time.Time{})
	assert.False(t, ok)
}

func TestStrengthClamp(t *testing.T) {
	assert.Equal(t, 0.0, strength(-0.3))
	assert.Equal(t, 1.0, strength(7))
	assert.Equal(t, 0.25, strength(0.25))
	assert.Equal(t, 0.0, strength(math.NaN()))
	assert.Equal(t, 0.0, strength(math.Inf(1)))
}

func TestGenerateSignals_Empty(t *testing.T) {
	signals := GenerateSignals(DefaultConfig(), nil)
	assert.NotNil(t, signals)
	assert.Empty(t, signals)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.NoError(t, DefaultConfig().WithExtendedSignals().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"min candles", func(c *Config) { c.MinCandles = 0 }, "min_candles"},
		{"rsi thresholds", func(c *Config) { c.RSI.Oversold = 80 }, "rsi thresholds"},
		{"macd periods", func(c *Config) { c.MACD.SlowPeriod = 5 }, "macd.fast_period"},
		{"bollinger std dev", func(c *Config) { c.Bollinger.StdDev = 0 }, "bollinger.std_dev"},
		{"ma cross strength", func(c *Config) { c.MACross.Strength = 2 }, "ma_cross.strength"},
		{"confidence range", func(c *Config) { c.RSI.Confidence = 1.5 }, "rsi.confidence"},
		{"williams thresholds when enabled", func(c *Config) {
			c.WilliamsR.Enabled = true
			c.WilliamsR.Oversold = -10
		}, "williams_r thresholds"},
		{"adx period", func(c *Config) { c.ADXPeriod = 0 }, "adx_period"},
		{"fibonacci tolerance when enabled", func(c *Config) {
			c.Fibonacci.Enabled = true
			c.Fibonacci.Tolerance = 0
		}, "fibonacci.tolerance"},
		{"pivot window when enabled", func(c *Config) {
			c.MarketStructure.Enabled = true
			c.MarketStructure.PivotWindow = 0
		}, "market_structure.pivot_window"},
		{"volume confidence", func(c *Config) { c.Volume.BreakoutConfidence = 2 }, "volume.breakout.confidence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestConfig_DisabledRulesSkipValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Stochastic.KPeriod = 0
	assert.NoError(t, cfg.Validate())
}

func TestADXSignal(t *testing.T) {
	cfg := DefaultConfig()
	rising := candlesFromCloses(geometricCloses(60, 100, 1.01))

	s, ok := adxSignal(cfg.ADX, cfg.ADXPeriod, rising, baseTime)
	require.True(t, ok)
	assert.Equal(t, SignalBuy, s.Type)
	assert.InDelta(t, 100.0, s.Value, 1e-9)
	assert.Equal(t, 1.0, s.Strength)
	assert.Equal(t, 0.7, s.Confidence)

	s, ok = adxSignal(cfg.ADX, cfg.ADXPeriod, candlesFromCloses(geometricCloses(60, 100, 0.99)), baseTime)
	require.True(t, ok)
	assert.Equal(t, SignalSell, s.Type)

	rule := cfg.ADX
	rule.Threshold = 99.9
	_, ok = adxSignal(rule, cfg.ADXPeriod, rising, baseTime)
	assert.True(t, ok, "just above threshold")
	rule.Threshold = 100
	_, ok = adxSignal(rule, cfg.ADXPeriod, rising, baseTime)
	assert.False(t, ok, "at threshold")

	_, ok = adxSignal(cfg.ADX, cfg.ADXPeriod, rising[:27], baseTime)
	assert.False(t, ok, "insufficient history")
}

func TestFibonacciSignal(t *testing.T) {
	cfg := DefaultConfig().Fibonacci
	const high, low = 200.0, 100.0
	golden := high - (high-low)*0.618

	tests := []struct {
		name     string
		price    float64
		fires    bool
		expected SignalType
		ratio    float64
	}{
		{"inside band of 0.618", golden * 1.009, true, SignalBuy, 0.618},
		{"outside band of 0.618", golden * 1.011, false, SignalHold, 0},
		{"on 0.5", 150, true, SignalBuy, 0.5},
		{"on 0.382", high - (high-low)*0.382, true, SignalSell, 0.382},
		{"inside band of 0.236", (high - (high-low)*0.236) * 0.991, true, SignalSell, 0.236},
		{"swing extremes do not vote", high, false, SignalHold, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := fibonacciSignal(cfg, high, low, tt.price, baseTime)
			require.Equal(t, tt.fires, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.expected, s.Type)
			assert.Equal(t, tt.ratio, s.Value)
			assert.Equal(t, 0.6, s.Strength)
			assert.Equal(t, 0.6, s.Confidence)
		})
	}

	_, ok := fibonacciSignal(cfg, 101, 100, 100.5, baseTime)
	assert.False(t, ok, "a swing inside the tolerance band abstains")
}

// structureCandles has swing highs at indexes 2 and 6 and swing lows at 4
// and 8 for a pivot window of 2
func structureCandles(lastLow float64) []types.OHLCV {
	return candlesFromCloses([]float64{10, 12, 15, 12, 11, 13, 17, 14, lastLow, 15, 16})
}

func TestMarketStructureSignal(t *testing.T) {
	cfg := DefaultConfig().MarketStructure
	cfg.PivotWindow = 2

	s, ok := marketStructureSignal(cfg, structureCandles(12.5), baseTime)
	require.True(t, ok, "higher highs and higher lows")
	assert.Equal(t, SignalBuy, s.Type)
	assert.Equal(t, 1.0, s.Value)
	assert.InDelta(t, 0.56, s.Weight(), 1e-12)

	_, ok = marketStructureSignal(cfg, structureCandles(10.5), baseTime)
	assert.False(t, ok, "higher high with a lower low is mixed")

	mirrored := structureCandles(12.5)
	for i := range mirrored {
		c := 30 - mirrored[i].Close
		mirrored[i].Open, mirrored[i].Close = c, c
		mirrored[i].High, mirrored[i].Low = c*1.01, c*0.99
	}
	s, ok = marketStructureSignal(cfg, mirrored, baseTime)
	require.True(t, ok, "lower highs and lower lows")
	assert.Equal(t, SignalSell, s.Type)
	assert.Equal(t, -1.0, s.Value)

	_, ok = marketStructureSignal(cfg, structureCandles(12.5)[:7], baseTime)
	assert.False(t, ok, "one swing of each kind is not a structure")
}

func TestOBVSignal(t *testing.T) {
	cfg := DefaultConfig().Volume

	s, ok := obvSignal(cfg, candlesFromCloses(geometricCloses(30, 100, 1.01)), baseTime)
	require.True(t, ok)
	assert.Equal(t, SignalBuy, s.Type)
	assert.Equal(t, 29000.0, s.Value)
	assert.InDelta(t, 0.39, s.Weight(), 1e-12)

	_, ok = obvSignal(cfg, candlesFromCloses(append(geometricCloses(29, 100, 1.01), 100)), baseTime)
	assert.False(t, ok, "last close lower")

	_, ok = obvSignal(cfg, candlesFromCloses(append(geometricCloses(29, 100, 0.99), 80)), baseTime)
	assert.False(t, ok, "OBV below its average")

	_, ok = obvSignal(cfg, candlesFromCloses(geometricCloses(20, 100, 1.01)), baseTime)
	assert.False(t, ok, "average needs obv_period values")
}

func TestVolumeBreakoutSignal(t *testing.T) {
	cfg := DefaultConfig().Volume
	withLastVolume := func(v float64, growth float64) []types.OHLCV {
		candles := candlesFromCloses(geometricCloses(20, 100, growth))
		candles[len(candles)-1].Volume = v
		return candles
	}

	s, ok := volumeBreakoutSignal(cfg, withLastVolume(1600, 1.01), baseTime)
	require.True(t, ok)
	assert.Equal(t, SignalBuy, s.Type)
	assert.InDelta(t, 60, s.Value, 1e-9)
	assert.InDelta(t, 0.6, s.Strength, 1e-9)
	assert.Equal(t, 0.7, s.Confidence)

	_, ok = volumeBreakoutSignal(cfg, withLastVolume(1400, 1.01), baseTime)
	assert.False(t, ok, "volume change below breakout_roc")

	_, ok = volumeBreakoutSignal(cfg, withLastVolume(1600, 0.99), baseTime)
	assert.False(t, ok, "surge on a falling close")
}

func TestGenerateSignals_ExtendedRulesStayQuietOnFlatWindow(t *testing.T) {
	candles := candlesFromCloses(geometricCloses(80, 100, 1))
	signals := GenerateSignals(DefaultConfig().WithExtendedSignals(), candles)
	for _, name := range []string{IndicatorADX, IndicatorFibonacci, IndicatorMarketStructure, IndicatorOBV, IndicatorVolumeBreakout} {
		assert.NotContains(t, indicatorsOf(signals), name)
	}
}
