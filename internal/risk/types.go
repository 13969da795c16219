package risk

import "fmt"

// SizingConfig controls confidence- and volatility-adjusted position sizing
type SizingConfig struct {
	MaxRiskPerTrade      float64 `json:"max_risk_per_trade" yaml:"max_risk_per_trade"`
	ConfidenceMultiplier float64 `json:"confidence_multiplier" yaml:"confidence_multiplier"`
	RiskDampening        float64 `json:"risk_dampening" yaml:"risk_dampening"`
	MaxPositionFraction  float64 `json:"max_position_fraction" yaml:"max_position_fraction"`
	MinConfidence        float64 `json:"min_confidence" yaml:"min_confidence"`
	KellyCap             bool    `json:"kelly_cap" yaml:"kelly_cap"`
}

// DefaultSizingConfig risks 2% per trade, at most 10% of balance in one position
func DefaultSizingConfig() SizingConfig {
	return SizingConfig{
		MaxRiskPerTrade:      0.02,
		ConfidenceMultiplier: 0.1,
		RiskDampening:        0.5,
		MaxPositionFraction:  0.1,
		MinConfidence:        0.6,
	}
}

// Validate checks that every fraction is within range
func (c SizingConfig) Validate() error {
	if c.MaxRiskPerTrade <= 0 || c.MaxRiskPerTrade > 1 {
		return fmt.Errorf("max_risk_per_trade must be within (0,1], got %.4f", c.MaxRiskPerTrade)
	}
	if c.MaxPositionFraction <= 0 || c.MaxPositionFraction > 1 {
		return fmt.Errorf("max_position_fraction must be within (0,1], got %.4f", c.MaxPositionFraction)
	}
	if c.RiskDampening < 0 || c.RiskDampening > 1 {
		return fmt.Errorf("risk_dampening must be within [0,1], got %.4f", c.RiskDampening)
	}
	if c.ConfidenceMultiplier < 0 {
		return fmt.Errorf("confidence_multiplier must be non-negative, got %.4f", c.ConfidenceMultiplier)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be within [0,1], got %.4f", c.MinConfidence)
	}
	return nil
}

// PositionHint is a suggested position for one analysis result
type PositionHint struct {
	Fraction float64 `json:"fraction"`
	Notional float64 `json:"notional"`
	Quantity float64 `json:"quantity"`
	Kelly    float64 `json:"kelly"`
}
