package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/gaineziswear/QuantumTradebot/internal/analysis"
	"github.com/gaineziswear/QuantumTradebot/internal/scanner"
)

const (
	summarySheet = "Summary"
	signalsSheet = "Signals"
	levelsSheet  = "Levels"
)

// DefaultExcelReporter writes scan workbooks with excelize
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// WriteXLSX writes Summary, Signals and Levels sheets to path
func (r *DefaultExcelReporter) WriteXLSX(reports []scanner.Report, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	fx := excelize.NewFile()
	defer fx.Close()

	if err := fx.SetSheetName(fx.GetSheetName(0), summarySheet); err != nil {
		return err
	}
	for _, sheet := range []string{signalsSheet, levelsSheet} {
		if _, err := fx.NewSheet(sheet); err != nil {
			return err
		}
	}

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	writers := []struct {
		sheet string
		fn    func(*excelize.File, string, []scanner.Report, ExcelStyles) error
	}{
		{summarySheet, r.writeSummarySheet},
		{signalsSheet, r.writeSignalsSheet},
		{levelsSheet, r.writeLevelsSheet},
	}
	for _, w := range writers {
		if err := w.fn(fx, w.sheet, reports, styles); err != nil {
			return fmt.Errorf("failed to write %s sheet: %w", w.sheet, err)
		}
	}

	return fx.SaveAs(path)
}

// WriteSheet implements ExcelFormatter with the summary layout
func (r *DefaultExcelReporter) WriteSheet(fx *excelize.File, sheet string, reports []scanner.Report, styles ExcelStyles) error {
	return r.writeSummarySheet(fx, sheet, reports, styles)
}

func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	border := []excelize.Border{
		{Type: "left", Color: "E0E0E0", Style: 1},
		{Type: "right", Color: "E0E0E0", Style: 1},
		{Type: "bottom", Color: "E0E0E0", Style: 1},
	}

	// Header style - Dark slate background with white text
	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF", Family: "Calibri"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	if styles.BaseStyle, err = fx.NewStyle(&excelize.Style{Border: border}); err != nil {
		return styles, err
	}

	fmtCode := "#,##0.00######"
	styles.PriceStyle, err = fx.NewStyle(&excelize.Style{
		CustomNumFmt: &fmtCode,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
		Border:       border,
	})
	if err != nil {
		return styles, err
	}

	styles.PercentStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    10, // 0.00%
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	signalStyle := func(font, fill string) (int, error) {
		return fx.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: font},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center"},
			Border:    border,
		})
	}
	if styles.BuyStyle, err = signalStyle("006100", "C6EFCE"); err != nil {
		return styles, err
	}
	if styles.SellStyle, err = signalStyle("9C0006", "FFC7CE"); err != nil {
		return styles, err
	}
	if styles.HoldStyle, err = signalStyle("595959", "F2F2F2"); err != nil {
		return styles, err
	}
	styles.ErrorStyle, err = fx.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Italic: true, Color: "9C0006"},
		Border: border,
	})
	return styles, err
}

func (r *DefaultExcelReporter) writeHeader(fx *excelize.File, sheet string, headers []string, widths []float64, styles ExcelStyles) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if i < len(widths) {
			if err := fx.SetColWidth(sheet, col, col, widths[i]); err != nil {
				return err
			}
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, "A1", last, styles.HeaderStyle); err != nil {
		return err
	}
	return fx.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

// writeRow writes values starting at column A with one style per value
func writeRow(fx *excelize.File, sheet string, row int, values []interface{}, cellStyles []int) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
		if i < len(cellStyles) {
			if err := fx.SetCellStyle(sheet, cell, cell, cellStyles[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *DefaultExcelReporter) writeSummarySheet(fx *excelize.File, sheet string, reports []scanner.Report, styles ExcelStyles) error {
	headers := []string{"Symbol", "Signal", "Confidence", "Price", "Risk Score", "Momentum", "Volatility",
		"Buy Weight", "Sell Weight", "Position Notional", "Kelly", "Sharpe", "Max Drawdown", "Candles", "Error"}
	widths := []float64{14, 10, 12, 16, 12, 12, 12, 12, 12, 18, 10, 10, 14, 10, 60}
	if err := r.writeHeader(fx, sheet, headers, widths, styles); err != nil {
		return err
	}

	for i, rep := range reports {
		row := i + 2
		if rep.Err != nil {
			values := []interface{}{rep.Symbol, "ERROR", "", "", "", "", "", "", "", "", "", "", "", rep.Candles, rep.Error()}
			cellStyles := []int{styles.BaseStyle, styles.SellStyle}
			for len(cellStyles) < len(values)-1 {
				cellStyles = append(cellStyles, styles.BaseStyle)
			}
			cellStyles = append(cellStyles, styles.ErrorStyle)
			if err := writeRow(fx, sheet, row, values, cellStyles); err != nil {
				return err
			}
			continue
		}

		res := rep.Result
		var notional, kelly, sharpe, drawdown float64
		if rep.Hint != nil {
			notional, kelly = rep.Hint.Notional, rep.Hint.Kelly
		}
		if rep.Stats != nil {
			sharpe, drawdown = rep.Stats.SharpeRatio, rep.Stats.MaxDrawdown
		}
		values := []interface{}{
			rep.Symbol, res.OverallSignal.String(), res.Confidence, res.Price, res.RiskScore,
			res.MomentumScore, res.Volatility, res.BuyWeight, res.SellWeight, notional, kelly,
			sharpe, drawdown, rep.Candles, "",
		}
		cellStyles := []int{
			styles.BaseStyle, signalStyle(res.OverallSignal, styles), styles.PercentStyle, styles.PriceStyle,
			styles.BaseStyle, styles.BaseStyle, styles.PercentStyle, styles.BaseStyle, styles.BaseStyle,
			styles.PriceStyle, styles.PercentStyle, styles.BaseStyle, styles.PercentStyle, styles.BaseStyle,
			styles.BaseStyle,
		}
		if err := writeRow(fx, sheet, row, values, cellStyles); err != nil {
			return err
		}
	}
	return nil
}

func (r *DefaultExcelReporter) writeSignalsSheet(fx *excelize.File, sheet string, reports []scanner.Report, styles ExcelStyles) error {
	headers := []string{"Symbol", "Indicator", "Signal", "Strength", "Confidence", "Value", "Timestamp"}
	widths := []float64{14, 18, 10, 10, 12, 14, 22}
	if err := r.writeHeader(fx, sheet, headers, widths, styles); err != nil {
		return err
	}

	row := 2
	for _, rep := range reports {
		if rep.Result == nil {
			continue
		}
		for _, sig := range rep.Result.Signals {
			values := []interface{}{
				rep.Symbol, sig.Indicator, sig.Type.String(), sig.Strength, sig.Confidence, sig.Value,
				sig.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			}
			cellStyles := []int{
				styles.BaseStyle, styles.BaseStyle, signalStyle(sig.Type, styles), styles.BaseStyle,
				styles.BaseStyle, styles.BaseStyle, styles.BaseStyle,
			}
			if err := writeRow(fx, sheet, row, values, cellStyles); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (r *DefaultExcelReporter) writeLevelsSheet(fx *excelize.File, sheet string, reports []scanner.Report, styles ExcelStyles) error {
	headers := []string{"Symbol", "Kind", "Label", "Price"}
	widths := []float64{14, 14, 10, 16}
	if err := r.writeHeader(fx, sheet, headers, widths, styles); err != nil {
		return err
	}

	row := 2
	write := func(symbol, kind, label string, price float64) error {
		err := writeRow(fx, sheet, row, []interface{}{symbol, kind, label, price},
			[]int{styles.BaseStyle, styles.BaseStyle, styles.BaseStyle, styles.PriceStyle})
		row++
		return err
	}

	for _, rep := range reports {
		if rep.Result == nil {
			continue
		}
		res := rep.Result
		for i, p := range res.SupportLevels {
			if err := write(rep.Symbol, "support", fmt.Sprintf("S%d", i+1), p); err != nil {
				return err
			}
		}
		for i, p := range res.ResistanceLevels {
			if err := write(rep.Symbol, "resistance", fmt.Sprintf("R%d", i+1), p); err != nil {
				return err
			}
		}
		for _, lvl := range res.Fibonacci {
			if err := write(rep.Symbol, "fibonacci", fmt.Sprintf("%.1f%%", lvl.Ratio*100), lvl.Price); err != nil {
				return err
			}
		}
	}
	return nil
}

func signalStyle(s analysis.SignalType, styles ExcelStyles) int {
	switch s {
	case analysis.SignalBuy:
		return styles.BuyStyle
	case analysis.SignalSell:
		return styles.SellStyle
	default:
		return styles.HoldStyle
	}
}
