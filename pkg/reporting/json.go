package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gaineziswear/QuantumTradebot/internal/analysis"
	"github.com/gaineziswear/QuantumTradebot/internal/risk"
	"github.com/gaineziswear/QuantumTradebot/internal/scanner"
)

// JSONReport is the serialized form of a scanner.Report
type JSONReport struct {
	Symbol     string             `json:"symbol"`
	Result     *analysis.Result   `json:"result,omitempty"`
	Position   *risk.PositionHint `json:"position_hint,omitempty"`
	Stats      *risk.WindowStats  `json:"window_stats,omitempty"`
	Candles    int                `json:"candles"`
	Error      string             `json:"error,omitempty"`
	Category   string             `json:"error_category,omitempty"`
	DurationMs int64              `json:"duration_ms"`
}

// JSONDocument wraps a scan with its generation time
type JSONDocument struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Reports     []JSONReport `json:"reports"`
}

// DefaultJSONFormatter implements JSON output functionality
type DefaultJSONFormatter struct {
	paths *DefaultPathManager
	now   func() time.Time
}

// NewDefaultJSONFormatter creates a new JSON formatter
func NewDefaultJSONFormatter() *DefaultJSONFormatter {
	return &DefaultJSONFormatter{paths: NewDefaultPathManager(), now: time.Now}
}

// Document converts reports to their serialized form
func (f *DefaultJSONFormatter) Document(reports []scanner.Report) JSONDocument {
	doc := JSONDocument{
		GeneratedAt: f.now().UTC(),
		Reports:     make([]JSONReport, 0, len(reports)),
	}
	for _, rep := range reports {
		doc.Reports = append(doc.Reports, JSONReport{
			Symbol:     rep.Symbol,
			Result:     rep.Result,
			Position:   rep.Hint,
			Stats:      rep.Stats,
			Candles:    rep.Candles,
			Error:      rep.Error(),
			Category:   string(rep.Category),
			DurationMs: rep.Duration.Milliseconds(),
		})
	}
	return doc
}

// Format returns indented JSON for reports
func (f *DefaultJSONFormatter) Format(reports []scanner.Report) ([]byte, error) {
	return json.MarshalIndent(f.Document(reports), "", "  ")
}

// Print writes indented JSON for reports to w
func (f *DefaultJSONFormatter) Print(w io.Writer, reports []scanner.Report) error {
	data, err := f.Format(reports)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// WriteJSON writes indented JSON for reports to path
func (f *DefaultJSONFormatter) WriteJSON(reports []scanner.Report, path string) error {
	data, err := f.Format(reports)
	if err != nil {
		return err
	}
	if err := f.paths.EnsureDirectoryExists(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
