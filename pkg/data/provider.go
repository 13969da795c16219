package data

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

// DataManager combines loading, locating and filtering of stored candles
type DataManager struct {
	provider DataProvider
	filter   DataFilter
	locator  FileLocator
	period   time.Duration
}

// NewDataManager creates a data manager over a cached CSV provider
func NewDataManager() *DataManager {
	return NewDataManagerWithProvider(NewCachedProvider(NewCSVProvider()))
}

// NewDataManagerWithProvider creates a data manager with a custom provider
func NewDataManagerWithProvider(provider DataProvider) *DataManager {
	return &DataManager{
		provider: provider,
		filter:   NewDefaultDataFilter(),
		locator:  NewDefaultFileLocator(),
	}
}

// WithPeriod keeps only the trailing period of every loaded file; zero keeps
// everything
func (dm *DataManager) WithPeriod(period time.Duration) *DataManager {
	dm.period = period
	return dm
}

// LoadHistoricalData loads, sorts and de-duplicates a file, then trims it to
// the configured trailing period
func (dm *DataManager) LoadHistoricalData(filename string) ([]types.OHLCV, error) {
	data, err := dm.provider.LoadData(filename)
	if err != nil {
		return nil, err
	}
	return dm.filter.FilterByPeriod(dm.filter.Normalize(data), dm.period), nil
}

// FindDataFile locates data files
func (dm *DataManager) FindDataFile(dataRoot, exchange, symbol, interval string) string {
	return dm.locator.FindDataFile(dataRoot, exchange, symbol, interval)
}

// TargetPath returns where FindDataFile expects a market's candles
func (dm *DataManager) TargetPath(dataRoot, exchange, category, symbol, interval string) string {
	return dm.locator.TargetPath(dataRoot, exchange, category, symbol, interval)
}

// FileKlineProvider serves klines from the on-disk layout used by FindDataFile,
// so scans can run offline against downloaded history.
type FileKlineProvider struct {
	manager  *DataManager
	dataRoot string
	exchange string
}

// NewFileKlineProvider reads {dataRoot}/{exchange}/... candle files
func NewFileKlineProvider(manager *DataManager, dataRoot, exchange string) *FileKlineProvider {
	return &FileKlineProvider{manager: manager, dataRoot: dataRoot, exchange: exchange}
}

// Name identifies the source in logs and metrics
func (p *FileKlineProvider) Name() string {
	return "file:" + p.exchange
}

// GetKlines returns the last limit candles stored for symbol and interval
func (p *FileKlineProvider) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]types.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := p.manager.FindDataFile(p.dataRoot, p.exchange, symbol, interval)
	if path == "" {
		return nil, fmt.Errorf("no data file found for %s %s %s under %s", p.exchange, symbol, interval, p.dataRoot)
	}

	candles, err := p.manager.LoadHistoricalData(path)
	if err != nil {
		return nil, err
	}
	return Tail(candles, limit), nil
}

// ParseTrailingPeriod parses period strings like "7d", "30d", "180days" or
// Go durations like "168h"
func ParseTrailingPeriod(s string) (time.Duration, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(s, "days") {
		s = strings.TrimSuffix(s, "days") + "d"
	}
	if strings.HasSuffix(s, "d") {
		n, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || n <= 0 {
			return 0, false
		}
		return time.Duration(n) * 24 * time.Hour, true
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d, true
	}
	return 0, false
}

// SingleFileProvider serves one CSV file for any symbol. It backs the -csv
// mode of the analyzer, where the file name rather than the symbol selects
// the data.
type SingleFileProvider struct {
	manager *DataManager
	path    string
}

// NewSingleFileProvider reads every request from path
func NewSingleFileProvider(manager *DataManager, path string) *SingleFileProvider {
	return &SingleFileProvider{manager: manager, path: path}
}

// Name identifies the source in logs and metrics
func (p *SingleFileProvider) Name() string {
	return "csv"
}

// GetKlines returns the last limit candles of the file
func (p *SingleFileProvider) GetKlines(ctx context.Context, _, _ string, limit int) ([]types.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	candles, err := p.manager.LoadHistoricalData(p.path)
	if err != nil {
		return nil, err
	}
	return Tail(candles, limit), nil
}
