package reporting

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/gaineziswear/QuantumTradebot/internal/scanner"
)

// DefaultReporter combines console and file output
type DefaultReporter struct {
	cfg     ReportingConfig
	console *DefaultConsoleReporter
	csv     *DefaultCSVReporter
	excel   *DefaultExcelReporter
	json    *DefaultJSONFormatter
	paths   *DefaultPathManager
}

// NewDefaultReporter creates a new default reporter with all functionality
func NewDefaultReporter(cfg ReportingConfig) *DefaultReporter {
	return &DefaultReporter{
		cfg:     cfg,
		console: NewDefaultConsoleReporter(cfg.Color),
		csv:     NewDefaultCSVReporter(),
		excel:   NewDefaultExcelReporter(),
		json:    NewDefaultJSONFormatter(),
		paths:   NewDefaultPathManager(),
	}
}

// Console output methods
func (r *DefaultReporter) PrintSummary(w io.Writer, reports []scanner.Report) {
	r.console.PrintSummary(w, reports)
}

func (r *DefaultReporter) PrintDetails(w io.Writer, report scanner.Report) {
	r.console.PrintDetails(w, report)
}

// File output methods
func (r *DefaultReporter) WriteCSV(reports []scanner.Report, path string) error {
	return r.csv.WriteCSV(reports, path)
}

func (r *DefaultReporter) WriteXLSX(reports []scanner.Report, path string) error {
	return r.excel.WriteXLSX(reports, path)
}

func (r *DefaultReporter) WriteJSON(reports []scanner.Report, path string) error {
	return r.json.WriteJSON(reports, path)
}

// Path methods
func (r *DefaultReporter) GetDefaultOutputDir(exchange, interval string) string {
	return r.paths.GetDefaultOutputDir(exchange, interval)
}

func (r *DefaultReporter) EnsureDirectoryExists(path string) error {
	return r.paths.EnsureDirectoryExists(path)
}

// Emit prints to w and writes every enabled file format into the output
// directory, named scan_<timestamp>. It returns the written paths.
func (r *DefaultReporter) Emit(w io.Writer, reports []scanner.Report, stamp time.Time) ([]string, error) {
	if r.cfg.EnableConsole {
		r.PrintSummary(w, reports)
		if r.cfg.Details {
			for _, rep := range reports {
				r.PrintDetails(w, rep)
			}
		}
	}

	dir := r.cfg.OutputDirectory
	if dir == "" {
		dir = "results"
	}
	base := filepath.Join(dir, fmt.Sprintf("scan_%s", stamp.UTC().Format("20060102_150405")))

	var written []string
	outputs := []struct {
		enabled bool
		ext     string
		write   func([]scanner.Report, string) error
	}{
		{r.cfg.CSVEnabled, ".csv", r.WriteCSV},
		{r.cfg.ExcelEnabled, ".xlsx", r.WriteXLSX},
		{r.cfg.JSONEnabled, ".json", r.WriteJSON},
	}
	for _, out := range outputs {
		if !out.enabled {
			continue
		}
		path := base + out.ext
		if err := out.write(reports, path); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

var (
	_ ConsoleReporter = (*DefaultReporter)(nil)
	_ FileReporter    = (*DefaultReporter)(nil)
	_ PathManager     = (*DefaultReporter)(nil)
	_ ExcelFormatter  = (*DefaultExcelReporter)(nil)
)
