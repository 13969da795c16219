package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/gaineziswear/QuantumTradebot/internal/analysis"
	"github.com/gaineziswear/QuantumTradebot/internal/scanner"
)

// DefaultConsoleReporter renders go-pretty tables
type DefaultConsoleReporter struct {
	color bool
}

// NewDefaultConsoleReporter creates a console reporter; color adds ANSI
// colors to BUY and SELL cells.
func NewDefaultConsoleReporter(color bool) *DefaultConsoleReporter {
	return &DefaultConsoleReporter{color: color}
}

// PrintSummary prints one row per report
func (r *DefaultConsoleReporter) PrintSummary(w io.Writer, reports []scanner.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("📊 MARKET SCAN")
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Symbol", "Signal", "Confidence", "Price", "Risk", "Momentum", "Volatility", "Buy/Sell", "Sharpe / MaxDD", "Position", "Note"})

	var buys, sells, holds, failed int
	for _, rep := range reports {
		if rep.Err != nil {
			failed++
			t.AppendRow(table.Row{rep.Symbol, r.colorize("ERROR", text.FgRed), "", "", "", "", "", "", "", "", truncate(rep.Error(), 120)})
			continue
		}

		res := rep.Result
		switch res.OverallSignal {
		case analysis.SignalBuy:
			buys++
		case analysis.SignalSell:
			sells++
		default:
			holds++
		}

		position := "-"
		if rep.Hint != nil {
			position = fmt.Sprintf("$%.2f (%.2f%%, kelly %.1f%%)", rep.Hint.Notional, rep.Hint.Fraction*100, rep.Hint.Kelly*100)
		}
		stats := "-"
		if rep.Stats != nil {
			stats = fmt.Sprintf("%.2f / %.1f%%", rep.Stats.SharpeRatio, rep.Stats.MaxDrawdown*100)
		}
		note := ""
		if len(res.Signals) == 0 {
			note = fmt.Sprintf("insufficient history (%d candles)", rep.Candles)
		}

		t.AppendRow(table.Row{
			rep.Symbol,
			r.signalCell(res.OverallSignal),
			fmt.Sprintf("%.1f%%", res.Confidence*100),
			formatPrice(res.Price),
			fmt.Sprintf("%.2f", res.RiskScore),
			fmt.Sprintf("%.2f", res.MomentumScore),
			fmt.Sprintf("%.2f%%", res.Volatility*100),
			fmt.Sprintf("%.2f / %.2f", res.BuyWeight, res.SellWeight),
			stats,
			position,
			note,
		})
	}

	t.AppendFooter(table.Row{
		fmt.Sprintf("%d symbols", len(reports)),
		fmt.Sprintf("%d BUY", buys),
		fmt.Sprintf("%d SELL", sells),
		fmt.Sprintf("%d HOLD", holds),
		fmt.Sprintf("%d failed", failed),
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
	})
	t.Render()
}

// PrintDetails prints the individual signals and price levels of one report
func (r *DefaultConsoleReporter) PrintDetails(w io.Writer, rep scanner.Report) {
	if rep.Result == nil {
		return
	}
	res := rep.Result

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("%s @ %s", rep.Symbol, formatPrice(res.Price)))
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Indicator", "Signal", "Strength", "Confidence", "Value"})
	for _, sig := range res.Signals {
		t.AppendRow(table.Row{
			sig.Indicator,
			r.signalCell(sig.Type),
			fmt.Sprintf("%.2f", sig.Strength),
			fmt.Sprintf("%.2f", sig.Confidence),
			fmt.Sprintf("%.4f", sig.Value),
		})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"Support", joinPrices(res.SupportLevels)})
	t.AppendRow(table.Row{"Resistance", joinPrices(res.ResistanceLevels)})

	fib := make([]string, 0, len(res.Fibonacci))
	for _, lvl := range res.Fibonacci {
		fib = append(fib, fmt.Sprintf("%.1f%%=%s", lvl.Ratio*100, formatPrice(lvl.Price)))
	}
	t.AppendRow(table.Row{"Fibonacci", strings.Join(fib, " ")})
	t.AppendRow(table.Row{"Volume trend", fmt.Sprintf("%.2fx", res.VolumeProfile.TrendRatio)})
	t.AppendRow(table.Row{"Trend strength", fmt.Sprintf("%+.2f", res.TrendStrength)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 16, Align: text.AlignLeft},
		{Number: 2, WidthMax: 80},
	})
	t.Render()
}

func (r *DefaultConsoleReporter) signalCell(s analysis.SignalType) string {
	switch s {
	case analysis.SignalBuy:
		return r.colorize(s.String(), text.FgGreen)
	case analysis.SignalSell:
		return r.colorize(s.String(), text.FgRed)
	default:
		return s.String()
	}
}

func (r *DefaultConsoleReporter) colorize(s string, c text.Color) string {
	if !r.color {
		return s
	}
	return text.Colors{c, text.Bold}.Sprint(s)
}

// formatPrice keeps significant digits for sub-dollar assets
func formatPrice(p float64) string {
	switch {
	case p >= 1000:
		return fmt.Sprintf("%.2f", p)
	case p >= 1:
		return fmt.Sprintf("%.4f", p)
	default:
		return fmt.Sprintf("%.8f", p)
	}
}

func joinPrices(levels []float64) string {
	if len(levels) == 0 {
		return "-"
	}
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = formatPrice(l)
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
