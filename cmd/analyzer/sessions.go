package main

import (
	"fmt"
	"os"

	"github.com/gaineziswear/QuantumTradebot/internal/analysis"
	"github.com/gaineziswear/QuantumTradebot/internal/logger"
)

// sessionLogs keeps one session log file per symbol open for the lifetime
// of the process. A zero dir disables it.
type sessionLogs struct {
	dir      string
	interval string
	level    string
	open     map[string]*logger.SessionLogger
}

func newSessionLogs(dir, interval, level string) *sessionLogs {
	return &sessionLogs{dir: dir, interval: interval, level: level, open: make(map[string]*logger.SessionLogger)}
}

// Log is only called from the goroutine that emits reports.
func (s *sessionLogs) Log(result *analysis.Result) {
	if s.dir == "" || result == nil {
		return
	}
	l, ok := s.open[result.Symbol]
	if !ok {
		var err error
		l, err = logger.NewSessionLogger(s.dir, result.Symbol, s.interval, s.level, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "session log for %s disabled: %v\n", result.Symbol, err)
			s.open[result.Symbol] = nil
			return
		}
		s.open[result.Symbol] = l
	}
	if l != nil {
		l.LogAnalysis(result)
	}
}

func (s *sessionLogs) Close() {
	for _, l := range s.open {
		if l != nil {
			l.Close()
		}
	}
}
