package reporting

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/gaineziswear/QuantumTradebot/internal/scanner"
)

// ConsoleReporter renders scan reports for a terminal
type ConsoleReporter interface {
	PrintSummary(w io.Writer, reports []scanner.Report)
	PrintDetails(w io.Writer, report scanner.Report)
}

// FileReporter writes scan reports to disk
type FileReporter interface {
	WriteCSV(reports []scanner.Report, path string) error
	WriteXLSX(reports []scanner.Report, path string) error
	WriteJSON(reports []scanner.Report, path string) error
}

// ExcelFormatter writes one sheet of a workbook
type ExcelFormatter interface {
	WriteSheet(fx *excelize.File, sheet string, reports []scanner.Report, styles ExcelStyles) error
}

// PathManager defines interface for output path management
type PathManager interface {
	GetDefaultOutputDir(exchange, interval string) string
	EnsureDirectoryExists(path string) error
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle  int
	BaseStyle    int
	PriceStyle   int
	PercentStyle int
	BuyStyle     int
	SellStyle    int
	HoldStyle    int
	ErrorStyle   int
}

// ReportingConfig holds configuration for reporting
type ReportingConfig struct {
	EnableConsole   bool   `json:"enable_console" yaml:"enable_console"`
	Details         bool   `json:"details" yaml:"details"` // per-symbol signal tables
	Color           bool   `json:"color" yaml:"color"`
	OutputDirectory string `json:"output_directory" yaml:"output_directory"`
	ExcelEnabled    bool   `json:"excel_enabled" yaml:"excel_enabled"`
	CSVEnabled      bool   `json:"csv_enabled" yaml:"csv_enabled"`
	JSONEnabled     bool   `json:"json_enabled" yaml:"json_enabled"`
}

// DefaultReportingConfig prints a colored summary and writes no files
func DefaultReportingConfig() ReportingConfig {
	return ReportingConfig{
		EnableConsole: true,
		Color:         true,
	}
}
