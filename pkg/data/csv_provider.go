package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gaineziswear/QuantumTradebot/internal/analysis"
	"github.com/gaineziswear/QuantumTradebot/internal/logger"
	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

// CSVProvider implements DataProvider for CSV files with a header row
type CSVProvider struct {
	format CSVColumnMapping
	log    *logger.Logger
}

// NewCSVProvider creates a new CSV data provider with default format
func NewCSVProvider() *CSVProvider {
	return NewCSVProviderWithFormat(DefaultCSVFormat)
}

// NewCSVProviderWithFormat creates a new CSV data provider with custom format
func NewCSVProviderWithFormat(format CSVColumnMapping) *CSVProvider {
	return &CSVProvider{format: format, log: logger.Nop()}
}

// WithLogger sets the logger used for skipped-row warnings
func (p *CSVProvider) WithLogger(l *logger.Logger) *CSVProvider {
	if l != nil {
		p.log = l
	}
	return p
}

// GetName returns the name of the data provider
func (p *CSVProvider) GetName() string {
	return "CSV Provider"
}

// LoadData loads historical data from a CSV file
func (p *CSVProvider) LoadData(source string) ([]types.OHLCV, error) {
	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", source, err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse reads candles from r. Rows that cannot be parsed or that fail basic
// price sanity are skipped with a warning.
func (p *CSVProvider) Parse(r io.Reader) ([]types.OHLCV, error) {
	format := p.format
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty CSV: missing header")
		}
		return nil, err
	}

	var data []types.OHLCV
	lineNum := 1
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum+1, err)
		}
		lineNum++

		if len(record) < format.MinColumns {
			p.log.Warning("insufficient columns at line %d (expected %d, got %d), skipping", lineNum, format.MinColumns, len(record))
			continue
		}

		timestamp, err := parseTimestamp(record[format.TimestampCol], format.DateFormat)
		if err != nil {
			p.log.Warning("invalid timestamp %q at line %d, skipping: %v", record[format.TimestampCol], lineNum, err)
			continue
		}

		values, err := parseFloats(record, format.OpenCol, format.HighCol, format.LowCol, format.CloseCol, format.VolumeCol)
		if err != nil {
			p.log.Warning("invalid number at line %d, skipping: %v", lineNum, err)
			continue
		}
		candle := types.OHLCV{
			Timestamp: timestamp,
			Open:      values[0],
			High:      values[1],
			Low:       values[2],
			Close:     values[3],
			Volume:    values[4],
		}

		if candle.Open <= 0 || candle.High <= 0 || candle.Low <= 0 || candle.Close <= 0 {
			p.log.Warning("non-positive price at line %d, skipping", lineNum)
			continue
		}
		if candle.High < candle.Low || candle.High < candle.Open || candle.High < candle.Close ||
			candle.Low > candle.Open || candle.Low > candle.Close {
			p.log.Warning("inconsistent high/low at line %d, skipping", lineNum)
			continue
		}

		data = append(data, candle)
	}

	return data, nil
}

func parseTimestamp(raw, layout string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if layout == UnixMillis {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Parse(layout, raw)
}

func parseFloats(record []string, cols ...int) ([]float64, error) {
	out := make([]float64, len(cols))
	for i, col := range cols {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", col, err)
		}
		out[i] = v
	}
	return out, nil
}

// ValidateCandles requires a non-empty, strictly chronological sequence of
// positive, internally consistent candles
func ValidateCandles(data []types.OHLCV) error {
	if len(data) == 0 {
		return fmt.Errorf("no data provided")
	}
	for i, candle := range data {
		if candle.Open <= 0 || candle.High <= 0 || candle.Low <= 0 || candle.Close <= 0 {
			return fmt.Errorf("invalid price data at index %d: prices must be positive", i)
		}
	}
	return analysis.Validate(data)
}
