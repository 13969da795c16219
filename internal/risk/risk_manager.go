package risk

import (
	"math"

	"github.com/gaineziswear/QuantumTradebot/internal/analysis"
)

// RiskManagerImpl sizes positions from confidence and risk score
type RiskManagerImpl struct {
	config SizingConfig
}

// NewRiskManager creates a new risk manager instance
func NewRiskManager(cfg SizingConfig) (RiskManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &RiskManagerImpl{config: cfg}, nil
}

// ShouldTrade requires a BUY or SELL decision at or above MinConfidence
func (rm *RiskManagerImpl) ShouldTrade(result *analysis.Result) bool {
	if result == nil || !result.IsActionable() {
		return false
	}
	return result.Confidence >= rm.config.MinConfidence
}

// fraction is the share of balance to commit. It grows with confidence above
// 0.5, shrinks with risk score, and never exceeds MaxPositionFraction.
func (rm *RiskManagerImpl) fraction(result *analysis.Result) float64 {
	if !rm.ShouldTrade(result) {
		return 0
	}

	f := rm.config.MaxRiskPerTrade * (1 + (result.Confidence-0.5)*rm.config.ConfidenceMultiplier)
	f *= 1 - result.RiskScore*rm.config.RiskDampening
	return math.Max(0, math.Min(f, rm.config.MaxPositionFraction))
}

// CalculatePositionSize returns the notional to commit for result
func (rm *RiskManagerImpl) CalculatePositionSize(result *analysis.Result, balance float64) float64 {
	if balance <= 0 {
		return 0
	}
	return balance * rm.fraction(result)
}

// PositionHint adds the base-asset quantity at the result's price and the
// Kelly fraction of the window on the decision's side. With KellyCap set the
// committed fraction never exceeds that Kelly fraction.
func (rm *RiskManagerImpl) PositionHint(result *analysis.Result, stats WindowStats, balance float64) PositionHint {
	if result == nil || balance <= 0 {
		return PositionHint{}
	}

	hint := PositionHint{Kelly: stats.KellyFor(result.OverallSignal)}
	f := rm.fraction(result)
	if rm.config.KellyCap {
		f = math.Min(f, hint.Kelly)
	}
	if f <= 0 {
		return hint
	}

	hint.Fraction = f
	hint.Notional = balance * f
	if result.Price > 0 {
		hint.Quantity = hint.Notional / result.Price
	}
	return hint
}
