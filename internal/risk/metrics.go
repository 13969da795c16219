package risk

import (
	"math"

	"github.com/gaineziswear/QuantumTradebot/internal/analysis"
	"github.com/gaineziswear/QuantumTradebot/internal/indicators"
)

// MaxKellyFraction caps the Kelly bet at a quarter of capital
const MaxKellyFraction = 0.25

// KellyFraction is (b*p - q)/b with b = avgWin/avgLoss, clamped to
// [0, MaxKellyFraction]. A non-positive average loss yields 0.
func KellyFraction(winRate, avgWin, avgLoss float64) float64 {
	if avgLoss <= 0 || avgWin <= 0 {
		return 0
	}
	b := avgWin / avgLoss
	p := winRate
	q := 1 - p
	kelly := (b*p - q) / b
	return math.Max(0, math.Min(kelly, MaxKellyFraction))
}

// SharpeRatio annualizes the mean excess return over its sample standard
// deviation. riskFree is an annual rate spread evenly over periodsPerYear.
func SharpeRatio(returns []float64, riskFree, periodsPerYear float64) float64 {
	if len(returns) < 2 || periodsPerYear <= 0 {
		return 0
	}

	perPeriod := riskFree / periodsPerYear
	excess := make([]float64, len(returns))
	mean := 0.0
	for i, r := range returns {
		excess[i] = r - perPeriod
		mean += excess[i]
	}
	mean /= float64(len(excess))

	stdDev := indicators.StdDev(excess)
	if stdDev < 1e-12 {
		return 0
	}
	return mean / stdDev * math.Sqrt(periodsPerYear)
}

// MaxDrawdown is the largest peak-to-trough decline as a fraction of the peak
func MaxDrawdown(prices []float64) float64 {
	peak, maxDD := 0.0, 0.0
	for _, p := range prices {
		if p > peak {
			peak = p
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - p) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// WindowStats summarizes the bar returns of an analyzed candle window
type WindowStats struct {
	SharpeRatio float64 `json:"sharpe_ratio"`
	MaxDrawdown float64 `json:"max_drawdown"`
	WinRate     float64 `json:"win_rate"`
	LongKelly   float64 `json:"long_kelly"`
	ShortKelly  float64 `json:"short_kelly"`
}

// EvaluateWindow measures closes (oldest first) as if each bar were one
// trade. Unchanged bars count as neither win nor loss.
func EvaluateWindow(closes []float64, periodsPerYear float64) WindowStats {
	returns := indicators.Returns(closes)
	stats := WindowStats{
		SharpeRatio: SharpeRatio(returns, 0, periodsPerYear),
		MaxDrawdown: MaxDrawdown(closes),
	}

	var wins, losses int
	var gain, loss float64
	for _, r := range returns {
		switch {
		case r > 0:
			wins++
			gain += r
		case r < 0:
			losses++
			loss -= r
		}
	}
	if wins+losses == 0 {
		return stats
	}

	stats.WinRate = float64(wins) / float64(wins+losses)
	var avgWin, avgLoss float64
	if wins > 0 {
		avgWin = gain / float64(wins)
	}
	if losses > 0 {
		avgLoss = loss / float64(losses)
	}
	stats.LongKelly = KellyFraction(stats.WinRate, avgWin, avgLoss)
	stats.ShortKelly = KellyFraction(1-stats.WinRate, avgLoss, avgWin)
	return stats
}

// KellyFor returns the Kelly fraction on the side of signal, 0 for HOLD
func (s WindowStats) KellyFor(signal analysis.SignalType) float64 {
	switch signal {
	case analysis.SignalBuy:
		return s.LongKelly
	case analysis.SignalSell:
		return s.ShortKelly
	default:
		return 0
	}
}
