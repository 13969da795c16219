package reporting

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/gaineziswear/QuantumTradebot/internal/scanner"
)

// DefaultCSVReporter implements CSV output functionality
type DefaultCSVReporter struct {
	paths *DefaultPathManager
}

// NewDefaultCSVReporter creates a new CSV reporter
func NewDefaultCSVReporter() *DefaultCSVReporter {
	return &DefaultCSVReporter{paths: NewDefaultPathManager()}
}

// WriteCSV writes one summary row per report. A path ending in .xlsx is
// delegated to the Excel writer.
func (r *DefaultCSVReporter) WriteCSV(reports []scanner.Report, path string) error {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return NewDefaultExcelReporter().WriteXLSX(reports, path)
	}
	if err := r.paths.EnsureDirectoryExists(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"Symbol",
		"Signal",
		"Confidence",
		"Price",
		"Risk_Score",
		"Momentum",
		"Volatility",
		"Buy_Weight",
		"Sell_Weight",
		"Support",
		"Resistance",
		"Position_Notional",
		"Kelly",
		"Sharpe",
		"Max_Drawdown",
		"Candles",
		"Error",
	}); err != nil {
		return err
	}

	for _, rep := range reports {
		if err := w.Write(csvRow(rep)); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func csvRow(rep scanner.Report) []string {
	row := make([]string, 17)
	row[0] = rep.Symbol
	row[15] = strconv.Itoa(rep.Candles)
	if rep.Err != nil {
		row[1] = "ERROR"
		row[16] = rep.Error()
		return row
	}

	res := rep.Result
	row[1] = res.OverallSignal.String()
	row[2] = formatFloat(res.Confidence)
	row[3] = formatFloat(res.Price)
	row[4] = formatFloat(res.RiskScore)
	row[5] = formatFloat(res.MomentumScore)
	row[6] = formatFloat(res.Volatility)
	row[7] = formatFloat(res.BuyWeight)
	row[8] = formatFloat(res.SellWeight)
	row[9] = joinFloats(res.SupportLevels)
	row[10] = joinFloats(res.ResistanceLevels)
	if rep.Hint != nil {
		row[11] = formatFloat(rep.Hint.Notional)
		row[12] = formatFloat(rep.Hint.Kelly)
	}
	if rep.Stats != nil {
		row[13] = formatFloat(rep.Stats.SharpeRatio)
		row[14] = formatFloat(rep.Stats.MaxDrawdown)
	}
	return row
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func joinFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatFloat(v)
	}
	return strings.Join(parts, ";")
}
