package data

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultFileLocator implements FileLocator for standard file system operations
type DefaultFileLocator struct{}

// NewDefaultFileLocator creates a new default file locator
func NewDefaultFileLocator() *DefaultFileLocator {
	return &DefaultFileLocator{}
}

// ConvertIntervalToMinutes converts interval strings like "5m", "1h", "4h" to minute numbers
func (f *DefaultFileLocator) ConvertIntervalToMinutes(interval string) string {
	if _, err := strconv.Atoi(interval); err == nil {
		return interval
	}

	interval = strings.TrimSpace(interval)
	if strings.HasSuffix(interval, "M") {
		return "M" // monthly, not minutes
	}
	interval = strings.ToLower(interval)
	if len(interval) < 2 {
		return interval
	}

	num, err := strconv.Atoi(interval[:len(interval)-1])
	if err != nil {
		return interval
	}

	switch interval[len(interval)-1:] {
	case "m":
		return strconv.Itoa(num)
	case "h":
		return strconv.Itoa(num * 60)
	case "d":
		return strconv.Itoa(num * 24 * 60)
	case "w":
		return strconv.Itoa(num * 7 * 24 * 60)
	default:
		return interval
	}
}

// CandidatePaths lists where a candle file may live:
// {dataRoot}/{exchange}/{category}/{SYMBOL}/{minutes}/candles.csv
func (f *DefaultFileLocator) CandidatePaths(dataRoot, exchange, symbol, interval string) []string {
	symbol = strings.ToUpper(symbol)
	intervalMinutes := f.ConvertIntervalToMinutes(interval)

	var categories []string
	switch strings.ToLower(exchange) {
	case "bybit":
		categories = []string{"spot", "linear", "inverse"}
	case "binance":
		categories = []string{"spot", "futures"}
	default:
		categories = []string{"spot", "futures", "linear", "inverse"}
	}

	paths := make([]string, 0, len(categories))
	for _, category := range categories {
		paths = append(paths, filepath.Join(dataRoot, exchange, category, symbol, intervalMinutes, "candles.csv"))
	}
	return paths
}

// TargetPath is where a downloaded candle file for one market is stored
func (f *DefaultFileLocator) TargetPath(dataRoot, exchange, category, symbol, interval string) string {
	return filepath.Join(dataRoot, strings.ToLower(exchange), category, strings.ToUpper(symbol),
		f.ConvertIntervalToMinutes(interval), "candles.csv")
}

// FindDataFile returns the first existing candidate path, or "" if none exists
func (f *DefaultFileLocator) FindDataFile(dataRoot, exchange, symbol, interval string) string {
	for _, path := range f.CandidatePaths(dataRoot, exchange, symbol, interval) {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
