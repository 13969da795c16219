package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gaineziswear/QuantumTradebot/internal/analysis"
)

// SessionLogger writes one analysis session for a symbol and interval to a
// dated file, optionally mirrored to a console writer.
type SessionLogger struct {
	*Logger
	symbol   string
	interval string
	logDir   string
	logFile  *os.File
	mu       sync.Mutex
	closed   bool
}

// NewSessionLogger opens <logDir>/<symbol>_<interval>_<date>.log for append.
// console may be nil.
func NewSessionLogger(logDir, symbol, interval, level string, console io.Writer) (*SessionLogger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	l := &SessionLogger{symbol: symbol, interval: interval, logDir: logDir}
	file, err := os.OpenFile(l.GetLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l.logFile = file

	var out io.Writer = file
	if console != nil {
		out = zerolog.MultiLevelWriter(file, zerolog.ConsoleWriter{Out: console, TimeFormat: time.TimeOnly})
	}
	l.Logger = newWithWriter(out, lvl).With("symbol", symbol).With("interval", interval)

	l.writeSessionHeader()
	return l, nil
}

func (l *SessionLogger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.logFile, `
================================================================================
ANALYSIS SESSION STARTED
================================================================================
Symbol: %s | Interval: %s
Started: %s
================================================================================
`, l.symbol, l.interval, time.Now().Format("2006-01-02 15:04:05"))
}

// LogAnalysis records the decision and its contributing signals
func (l *SessionLogger) LogAnalysis(result *analysis.Result) {
	if result == nil {
		return
	}

	l.zl.Info().
		Str("decision", result.OverallSignal.String()).
		Float64("price", result.Price).
		Float64("confidence", result.Confidence).
		Float64("risk_score", result.RiskScore).
		Float64("buy_weight", result.BuyWeight).
		Float64("sell_weight", result.SellWeight).
		Int("signals", len(result.Signals)).
		Msg("analysis")

	for _, s := range result.Signals {
		l.zl.Debug().
			Str("indicator", s.Indicator).
			Str("signal", s.Type.String()).
			Float64("value", s.Value).
			Float64("strength", s.Strength).
			Float64("confidence", s.Confidence).
			Msg("signal")
	}
}

// Close writes the session footer and closes the file
func (l *SessionLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	fmt.Fprintf(l.logFile, `
================================================================================
ANALYSIS SESSION ENDED
================================================================================
Ended: %s
================================================================================

`, time.Now().Format("2006-01-02 15:04:05"))

	return l.logFile.Close()
}

// GetLogPath returns the current log file path
func (l *SessionLogger) GetLogPath() string {
	filename := fmt.Sprintf("%s_%s_%s.log", l.symbol, l.interval, time.Now().Format("2006-01-02"))
	return filepath.Join(l.logDir, filename)
}
