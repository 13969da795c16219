package risk

import "github.com/gaineziswear/QuantumTradebot/internal/analysis"

// RiskManager turns analysis results into position sizing hints
type RiskManager interface {
	// ShouldTrade reports whether the result is strong enough to act on
	ShouldTrade(result *analysis.Result) bool

	// CalculatePositionSize returns the quote-currency notional for a result
	CalculatePositionSize(result *analysis.Result, balance float64) float64

	// PositionHint sizes a position for the result, its window stats and balance
	PositionHint(result *analysis.Result, stats WindowStats, balance float64) PositionHint
}
