package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"

	boterrors "github.com/gaineziswear/QuantumTradebot/internal/errors"
	"github.com/gaineziswear/QuantumTradebot/internal/exchange"
	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

// KlineInterval represents the time interval for kline data
type KlineInterval string

const (
	Interval1m  KlineInterval = "1"
	Interval3m  KlineInterval = "3"
	Interval5m  KlineInterval = "5"
	Interval15m KlineInterval = "15"
	Interval30m KlineInterval = "30"
	Interval1h  KlineInterval = "60"
	Interval2h  KlineInterval = "120"
	Interval4h  KlineInterval = "240"
	Interval6h  KlineInterval = "360"
	Interval12h KlineInterval = "720"
	Interval1d  KlineInterval = "D"
	Interval1w  KlineInterval = "W"
	Interval1M  KlineInterval = "M"
)

var klineIntervals = map[types.Interval]KlineInterval{
	types.Interval1m:  Interval1m,
	types.Interval3m:  Interval3m,
	types.Interval5m:  Interval5m,
	types.Interval15m: Interval15m,
	types.Interval30m: Interval30m,
	types.Interval1h:  Interval1h,
	types.Interval2h:  Interval2h,
	types.Interval4h:  Interval4h,
	types.Interval6h:  Interval6h,
	types.Interval12h: Interval12h,
	types.Interval1d:  Interval1d,
	types.Interval1w:  Interval1w,
	types.Interval1M:  Interval1M,
}

// ToKlineInterval converts any accepted interval spelling to Bybit's code.
func ToKlineInterval(interval string) (KlineInterval, error) {
	canonical, err := types.ParseInterval(interval)
	if err != nil {
		return "", err
	}
	code, ok := klineIntervals[canonical]
	if !ok {
		return "", fmt.Errorf("interval %s not supported by bybit", canonical)
	}
	return code, nil
}

// KlineParams holds parameters for fetching kline data
type KlineParams struct {
	Category string        // "spot", "linear", "inverse"
	Symbol   string        // Trading pair symbol (e.g., "BTCUSDT")
	Interval KlineInterval // Time interval
	Start    *time.Time    // Start time (optional)
	End      *time.Time    // End time (optional)
	Limit    int           // Number of records to return (max 1000, default 200)
}

// GetKlines implements exchange.KlineProvider. Candles come back oldest first.
func (c *Client) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]types.OHLCV, error) {
	code, err := ToKlineInterval(interval)
	if err != nil {
		return nil, boterrors.NewValidationError(c.Name(), "GetKlines", err.Error())
	}

	return c.FetchKlines(ctx, KlineParams{
		Category: c.category,
		Symbol:   strings.ToUpper(symbol),
		Interval: code,
		Limit:    limit,
	})
}

// FetchKlines calls /v5/market/kline with explicit parameters.
func (c *Client) FetchKlines(ctx context.Context, params KlineParams) ([]types.OHLCV, error) {
	if params.Category == "" {
		params.Category = c.category
	}
	if params.Limit <= 0 {
		params.Limit = 200
	}
	if params.Limit > 1000 {
		params.Limit = 1000
	}

	reqParams := map[string]interface{}{
		"category": params.Category,
		"symbol":   params.Symbol,
		"interval": string(params.Interval),
		"limit":    params.Limit,
	}
	if params.Start != nil {
		reqParams["start"] = params.Start.UnixMilli()
	}
	if params.End != nil {
		reqParams["end"] = params.End.UnixMilli()
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(reqParams).GetMarketKline(ctx)
	if err != nil {
		return nil, boterrors.CategorizeError(err, c.Name(), "GetKlines").
			WithContext("symbol", params.Symbol)
	}

	candles, err := parseKlineResponse(result)
	if err != nil {
		return nil, toBotError(err, "GetKlines").WithContext("symbol", params.Symbol)
	}
	return candles, nil
}

// parseKlineResponse decodes a kline response and returns chronological
// candles. Bybit lists the newest candle first.
func parseKlineResponse(resp *bybit_api.ServerResponse) ([]types.OHLCV, error) {
	if resp == nil {
		return nil, fmt.Errorf("empty kline response")
	}
	if err := ParseAPIError(resp.RetCode, resp.RetMsg); err != nil {
		return nil, err
	}

	resultBytes, err := json.Marshal(resp.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	var klineResult struct {
		Symbol   string     `json:"symbol"`
		Category string     `json:"category"`
		List     [][]string `json:"list"`
	}
	if err := json.Unmarshal(resultBytes, &klineResult); err != nil {
		return nil, fmt.Errorf("failed to unmarshal kline result: %w", err)
	}

	candles := make([]types.OHLCV, 0, len(klineResult.List))
	for i, item := range klineResult.List {
		candle, err := parseKlineRow(item)
		if err != nil {
			return nil, fmt.Errorf("kline row %d: %w", i, err)
		}
		candles = append(candles, candle)
	}

	exchange.Reverse(candles)
	return candles, nil
}

// parseKlineRow decodes [startTime, open, high, low, close, volume, turnover].
func parseKlineRow(item []string) (types.OHLCV, error) {
	if len(item) < 6 {
		return types.OHLCV{}, fmt.Errorf("expected at least 6 fields, got %d", len(item))
	}

	start, err := strconv.ParseInt(item[0], 10, 64)
	if err != nil {
		return types.OHLCV{}, fmt.Errorf("invalid start time %q: %w", item[0], err)
	}

	var values [5]float64
	for j := range values {
		values[j], err = strconv.ParseFloat(item[j+1], 64)
		if err != nil {
			return types.OHLCV{}, fmt.Errorf("invalid number %q: %w", item[j+1], err)
		}
	}

	return types.OHLCV{
		Timestamp: time.UnixMilli(start).UTC(),
		Open:      values[0],
		High:      values[1],
		Low:       values[2],
		Close:     values[3],
		Volume:    values[4],
	}, nil
}
