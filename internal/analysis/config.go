package analysis

import (
	"errors"
	"fmt"
)

// RSIRule configures the RSI oversold/overbought vote
type RSIRule struct {
	Period     int     `json:"period" yaml:"period"`
	Oversold   float64 `json:"oversold" yaml:"oversold"`
	Overbought float64 `json:"overbought" yaml:"overbought"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// MACDRule configures the MACD momentum vote. Strength is |histogram|/StrengthScale.
type MACDRule struct {
	FastPeriod    int     `json:"fast_period" yaml:"fast_period"`
	SlowPeriod    int     `json:"slow_period" yaml:"slow_period"`
	SignalPeriod  int     `json:"signal_period" yaml:"signal_period"`
	StrengthScale float64 `json:"strength_scale" yaml:"strength_scale"`
	Confidence    float64 `json:"confidence" yaml:"confidence"`
}

// BollingerRule configures the band-touch vote
type BollingerRule struct {
	Period     int     `json:"period" yaml:"period"`
	StdDev     float64 `json:"std_dev" yaml:"std_dev"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// MACrossRule configures the fast/slow SMA trend vote
type MACrossRule struct {
	FastPeriod int     `json:"fast_period" yaml:"fast_period"`
	SlowPeriod int     `json:"slow_period" yaml:"slow_period"`
	Strength   float64 `json:"strength" yaml:"strength"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// StochasticRule configures the %K/%D vote
type StochasticRule struct {
	Enabled    bool    `json:"enabled" yaml:"enabled"`
	KPeriod    int     `json:"k_period" yaml:"k_period"`
	DPeriod    int     `json:"d_period" yaml:"d_period"`
	Oversold   float64 `json:"oversold" yaml:"oversold"`
	Overbought float64 `json:"overbought" yaml:"overbought"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// WilliamsRRule configures the %R vote. Thresholds are negative.
type WilliamsRRule struct {
	Enabled    bool    `json:"enabled" yaml:"enabled"`
	Period     int     `json:"period" yaml:"period"`
	Oversold   float64 `json:"oversold" yaml:"oversold"`
	Overbought float64 `json:"overbought" yaml:"overbought"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// VWAPRule votes when price leaves a band around VWAP
type VWAPRule struct {
	Enabled       bool    `json:"enabled" yaml:"enabled"`
	Band          float64 `json:"band" yaml:"band"`
	StrengthScale float64 `json:"strength_scale" yaml:"strength_scale"`
	Confidence    float64 `json:"confidence" yaml:"confidence"`
}

// ADXRule votes with the directional index once ADX shows a trend
type ADXRule struct {
	Enabled       bool    `json:"enabled" yaml:"enabled"`
	Threshold     float64 `json:"threshold" yaml:"threshold"`
	StrengthScale float64 `json:"strength_scale" yaml:"strength_scale"`
	Confidence    float64 `json:"confidence" yaml:"confidence"`
}

// FibonacciRule votes when price sits within Tolerance of a retracement
// level. Retracements of 0.5 or deeper read as support, shallower ones as
// resistance.
type FibonacciRule struct {
	Enabled    bool    `json:"enabled" yaml:"enabled"`
	Tolerance  float64 `json:"tolerance" yaml:"tolerance"`
	Strength   float64 `json:"strength" yaml:"strength"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// MarketStructureRule compares the last two swing highs and swing lows
type MarketStructureRule struct {
	Enabled     bool    `json:"enabled" yaml:"enabled"`
	PivotWindow int     `json:"pivot_window" yaml:"pivot_window"`
	Strength    float64 `json:"strength" yaml:"strength"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`
}

// VolumeRule configures the OBV and volume breakout votes. Both only
// confirm rising prices.
type VolumeRule struct {
	Enabled            bool    `json:"enabled" yaml:"enabled"`
	OBVPeriod          int     `json:"obv_period" yaml:"obv_period"`
	OBVStrength        float64 `json:"obv_strength" yaml:"obv_strength"`
	OBVConfidence      float64 `json:"obv_confidence" yaml:"obv_confidence"`
	ROCPeriod          int     `json:"roc_period" yaml:"roc_period"`
	BreakoutROC        float64 `json:"breakout_roc" yaml:"breakout_roc"` // percent
	BreakoutConfidence float64 `json:"breakout_confidence" yaml:"breakout_confidence"`
}

// Config holds every threshold and weight used by the Analyzer
type Config struct {
	MinCandles              int     `json:"min_candles" yaml:"min_candles"`
	DecisionThreshold       float64 `json:"decision_threshold" yaml:"decision_threshold"`
	ATRPeriod               int     `json:"atr_period" yaml:"atr_period"`
	RiskScale               float64 `json:"risk_scale" yaml:"risk_scale"`
	SupportResistancePeriod int     `json:"support_resistance_period" yaml:"support_resistance_period"`
	MaxLevels               int     `json:"max_levels" yaml:"max_levels"`
	FibonacciLookback       int     `json:"fibonacci_lookback" yaml:"fibonacci_lookback"`
	PeriodsPerYear          float64 `json:"periods_per_year" yaml:"periods_per_year"`
	MomentumROCPeriod       int     `json:"momentum_roc_period" yaml:"momentum_roc_period"`
	ADXPeriod               int     `json:"adx_period" yaml:"adx_period"`
	TrendLookback           int     `json:"trend_lookback" yaml:"trend_lookback"`

	RSI        RSIRule        `json:"rsi" yaml:"rsi"`
	MACD       MACDRule       `json:"macd" yaml:"macd"`
	Bollinger  BollingerRule  `json:"bollinger" yaml:"bollinger"`
	MACross    MACrossRule    `json:"ma_cross" yaml:"ma_cross"`
	Stochastic StochasticRule `json:"stochastic" yaml:"stochastic"`
	WilliamsR  WilliamsRRule  `json:"williams_r" yaml:"williams_r"`
	VWAP       VWAPRule       `json:"vwap" yaml:"vwap"`

	ADX             ADXRule             `json:"adx" yaml:"adx"`
	Fibonacci       FibonacciRule       `json:"fibonacci" yaml:"fibonacci"`
	MarketStructure MarketStructureRule `json:"market_structure" yaml:"market_structure"`
	Volume          VolumeRule          `json:"volume" yaml:"volume"`
}

// DefaultConfig returns the standard thresholds. The extended votes are off.
func DefaultConfig() Config {
	return Config{
		MinCandles:              50,
		DecisionThreshold:       0.5,
		ATRPeriod:               14,
		RiskScale:               100,
		SupportResistancePeriod: 20,
		MaxLevels:               5,
		FibonacciLookback:       50,
		PeriodsPerYear:          365,
		MomentumROCPeriod:       10,
		ADXPeriod:               14,
		TrendLookback:           20,
		RSI: RSIRule{
			Period:     14,
			Oversold:   30,
			Overbought: 70,
			Confidence: 0.7,
		},
		MACD: MACDRule{
			FastPeriod:    12,
			SlowPeriod:    26,
			SignalPeriod:  9,
			StrengthScale: 10,
			Confidence:    0.6,
		},
		Bollinger: BollingerRule{
			Period:     20,
			StdDev:     2,
			Confidence: 0.65,
		},
		MACross: MACrossRule{
			FastPeriod: 20,
			SlowPeriod: 50,
			Strength:   0.7,
			Confidence: 0.8,
		},
		Stochastic: StochasticRule{
			KPeriod:    14,
			DPeriod:    3,
			Oversold:   20,
			Overbought: 80,
			Confidence: 0.65,
		},
		WilliamsR: WilliamsRRule{
			Period:     14,
			Oversold:   -80,
			Overbought: -20,
			Confidence: 0.6,
		},
		VWAP: VWAPRule{
			Band:          0.01,
			StrengthScale: 20,
			Confidence:    0.6,
		},
		ADX: ADXRule{
			Threshold:     25,
			StrengthScale: 50,
			Confidence:    0.7,
		},
		Fibonacci: FibonacciRule{
			Tolerance:  0.01,
			Strength:   0.6,
			Confidence: 0.6,
		},
		MarketStructure: MarketStructureRule{
			PivotWindow: 5,
			Strength:    0.7,
			Confidence:  0.8,
		},
		Volume: VolumeRule{
			OBVPeriod:          21,
			OBVStrength:        0.6,
			OBVConfidence:      0.65,
			ROCPeriod:          10,
			BreakoutROC:        50,
			BreakoutConfidence: 0.7,
		},
	}
}

// WithExtendedSignals enables the Stochastic, Williams %R, VWAP, ADX,
// Fibonacci, market structure and volume votes
func (c Config) WithExtendedSignals() Config {
	c.Stochastic.Enabled = true
	c.WilliamsR.Enabled = true
	c.VWAP.Enabled = true
	c.ADX.Enabled = true
	c.Fibonacci.Enabled = true
	c.MarketStructure.Enabled = true
	c.Volume.Enabled = true
	return c
}

// Validate checks periods, thresholds and weights
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.MinCandles > 0, "min_candles must be positive, got %d", c.MinCandles)
	check(c.DecisionThreshold >= 0, "decision_threshold must be non-negative, got %.4f", c.DecisionThreshold)
	check(c.ATRPeriod > 0, "atr_period must be positive, got %d", c.ATRPeriod)
	check(c.RiskScale > 0, "risk_scale must be positive, got %.4f", c.RiskScale)
	check(c.SupportResistancePeriod > 0, "support_resistance_period must be positive, got %d", c.SupportResistancePeriod)
	check(c.MaxLevels >= 0, "max_levels must be non-negative, got %d", c.MaxLevels)
	check(c.FibonacciLookback > 0, "fibonacci_lookback must be positive, got %d", c.FibonacciLookback)
	check(c.PeriodsPerYear > 0, "periods_per_year must be positive, got %.2f", c.PeriodsPerYear)
	check(c.MomentumROCPeriod > 0, "momentum_roc_period must be positive, got %d", c.MomentumROCPeriod)
	check(c.ADXPeriod > 0, "adx_period must be positive, got %d", c.ADXPeriod)
	check(c.TrendLookback > 1, "trend_lookback must be above 1, got %d", c.TrendLookback)

	check(c.RSI.Period > 0, "rsi.period must be positive, got %d", c.RSI.Period)
	check(c.RSI.Oversold > 0 && c.RSI.Oversold < c.RSI.Overbought && c.RSI.Overbought < 100,
		"rsi thresholds must satisfy 0 < oversold < overbought < 100, got %.2f/%.2f", c.RSI.Oversold, c.RSI.Overbought)

	check(c.MACD.FastPeriod > 0 && c.MACD.FastPeriod < c.MACD.SlowPeriod,
		"macd.fast_period must be positive and below slow_period, got %d/%d", c.MACD.FastPeriod, c.MACD.SlowPeriod)
	check(c.MACD.SignalPeriod > 0, "macd.signal_period must be positive, got %d", c.MACD.SignalPeriod)
	check(c.MACD.StrengthScale > 0, "macd.strength_scale must be positive, got %.4f", c.MACD.StrengthScale)

	check(c.Bollinger.Period > 0, "bollinger.period must be positive, got %d", c.Bollinger.Period)
	check(c.Bollinger.StdDev > 0, "bollinger.std_dev must be positive, got %.4f", c.Bollinger.StdDev)

	check(c.MACross.FastPeriod > 0 && c.MACross.FastPeriod < c.MACross.SlowPeriod,
		"ma_cross.fast_period must be positive and below slow_period, got %d/%d", c.MACross.FastPeriod, c.MACross.SlowPeriod)
	check(c.MACross.Strength >= 0 && c.MACross.Strength <= 1, "ma_cross.strength must be within [0,1], got %.4f", c.MACross.Strength)

	if c.Stochastic.Enabled {
		check(c.Stochastic.KPeriod > 0 && c.Stochastic.DPeriod > 0,
			"stochastic periods must be positive, got %d/%d", c.Stochastic.KPeriod, c.Stochastic.DPeriod)
		check(c.Stochastic.Oversold > 0 && c.Stochastic.Oversold < c.Stochastic.Overbought && c.Stochastic.Overbought < 100,
			"stochastic thresholds must satisfy 0 < oversold < overbought < 100")
	}
	if c.WilliamsR.Enabled {
		check(c.WilliamsR.Period > 0, "williams_r.period must be positive, got %d", c.WilliamsR.Period)
		check(c.WilliamsR.Oversold > -100 && c.WilliamsR.Oversold < c.WilliamsR.Overbought && c.WilliamsR.Overbought < 0,
			"williams_r thresholds must satisfy -100 < oversold < overbought < 0")
	}
	if c.VWAP.Enabled {
		check(c.VWAP.Band >= 0, "vwap.band must be non-negative, got %.4f", c.VWAP.Band)
		check(c.VWAP.StrengthScale > 0, "vwap.strength_scale must be positive, got %.4f", c.VWAP.StrengthScale)
	}

	if c.ADX.Enabled {
		check(c.ADX.Threshold >= 0 && c.ADX.Threshold < 100, "adx.threshold must be within [0,100), got %.2f", c.ADX.Threshold)
		check(c.ADX.StrengthScale > 0, "adx.strength_scale must be positive, got %.4f", c.ADX.StrengthScale)
	}
	if c.Fibonacci.Enabled {
		check(c.Fibonacci.Tolerance > 0 && c.Fibonacci.Tolerance < 1, "fibonacci.tolerance must be within (0,1), got %.4f", c.Fibonacci.Tolerance)
		check(c.Fibonacci.Strength >= 0 && c.Fibonacci.Strength <= 1, "fibonacci.strength must be within [0,1], got %.4f", c.Fibonacci.Strength)
	}
	if c.MarketStructure.Enabled {
		check(c.MarketStructure.PivotWindow > 0, "market_structure.pivot_window must be positive, got %d", c.MarketStructure.PivotWindow)
		check(c.MarketStructure.Strength >= 0 && c.MarketStructure.Strength <= 1,
			"market_structure.strength must be within [0,1], got %.4f", c.MarketStructure.Strength)
	}
	if c.Volume.Enabled {
		check(c.Volume.OBVPeriod > 0 && c.Volume.ROCPeriod > 0,
			"volume periods must be positive, got %d/%d", c.Volume.OBVPeriod, c.Volume.ROCPeriod)
		check(c.Volume.OBVStrength >= 0 && c.Volume.OBVStrength <= 1, "volume.obv_strength must be within [0,1], got %.4f", c.Volume.OBVStrength)
		check(c.Volume.BreakoutROC > 0, "volume.breakout_roc must be positive, got %.2f", c.Volume.BreakoutROC)
	}

	confidences := []struct {
		name  string
		value float64
	}{
		{"rsi", c.RSI.Confidence},
		{"macd", c.MACD.Confidence},
		{"bollinger", c.Bollinger.Confidence},
		{"ma_cross", c.MACross.Confidence},
		{"stochastic", c.Stochastic.Confidence},
		{"williams_r", c.WilliamsR.Confidence},
		{"vwap", c.VWAP.Confidence},
		{"adx", c.ADX.Confidence},
		{"fibonacci", c.Fibonacci.Confidence},
		{"market_structure", c.MarketStructure.Confidence},
		{"volume.obv", c.Volume.OBVConfidence},
		{"volume.breakout", c.Volume.BreakoutConfidence},
	}
	for _, conf := range confidences {
		check(conf.value >= 0 && conf.value <= 1, "%s.confidence must be within [0,1], got %.4f", conf.name, conf.value)
	}

	return errors.Join(errs...)
}
