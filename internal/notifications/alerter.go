package notifications

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gaineziswear/QuantumTradebot/internal/analysis"
	"github.com/gaineziswear/QuantumTradebot/internal/logger"
	"github.com/gaineziswear/QuantumTradebot/internal/scanner"
)

// SignalAlerter turns scan reports into alerts. A symbol is announced when
// its decision becomes BUY or SELL with enough confidence, and again only
// after the decision changes.
type SignalAlerter struct {
	notifier      Notifier
	minConfidence float64
	log           *logger.Logger

	mu   sync.Mutex
	last map[string]analysis.SignalType
}

// NewSignalAlerter creates an alerter. log may be nil.
func NewSignalAlerter(n Notifier, minConfidence float64, log *logger.Logger) *SignalAlerter {
	if log == nil {
		log = logger.Nop()
	}
	return &SignalAlerter{
		notifier:      n,
		minConfidence: minConfidence,
		log:           log,
		last:          make(map[string]analysis.SignalType),
	}
}

// Notify sends one alert per newly actionable symbol and returns how many
// were sent. Failed sends are retried on the next batch.
func (a *SignalAlerter) Notify(ctx context.Context, reports []scanner.Report) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sent := 0
	var errs []error
	for _, rep := range reports {
		r := rep.Result
		if r == nil {
			continue
		}
		actionable := r.OverallSignal != analysis.SignalHold && r.Confidence >= a.minConfidence
		if !actionable {
			delete(a.last, rep.Symbol)
			continue
		}
		if prev, ok := a.last[rep.Symbol]; ok && prev == r.OverallSignal {
			continue
		}

		if err := a.notifier.SendAlert(ctx, LevelInfo, FormatAlert(rep)); err != nil {
			a.log.Warning("alert for %s failed: %v", rep.Symbol, err)
			errs = append(errs, fmt.Errorf("%s: %w", rep.Symbol, err))
			continue
		}
		a.last[rep.Symbol] = r.OverallSignal
		sent++
	}
	return sent, errors.Join(errs...)
}

// FormatAlert renders a report as a short Markdown message
func FormatAlert(rep scanner.Report) string {
	r := rep.Result
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* %s @ %g\n", rep.Symbol, r.OverallSignal, r.Price)
	fmt.Fprintf(&b, "Confidence: %.1f%% | Risk: %.2f\n", r.Confidence*100, r.RiskScore)

	signals := make([]analysis.Signal, 0, len(r.Signals))
	for _, s := range r.Signals {
		if s.Type == r.OverallSignal {
			signals = append(signals, s)
		}
	}
	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].Strength*signals[i].Confidence > signals[j].Strength*signals[j].Confidence
	})
	if len(signals) > 0 {
		names := make([]string, len(signals))
		for i, s := range signals {
			names[i] = fmt.Sprintf("%s (%.2f)", s.Indicator, s.Strength)
		}
		fmt.Fprintf(&b, "Signals: %s\n", strings.Join(names, ", "))
	}
	if rep.Hint != nil {
		fmt.Fprintf(&b, "Position hint: %.2f (%.1f%% of balance)\n", rep.Hint.Notional, rep.Hint.Fraction*100)
	}
	return strings.TrimRight(b.String(), "\n")
}
