package binance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	gobinance "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"

	boterrors "github.com/gaineziswear/QuantumTradebot/internal/errors"
	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

// Market selects which Binance API serves klines.
type Market string

const (
	MarketSpot    Market = "spot"
	MarketFutures Market = "futures" // USDⓈ-M perpetuals
)

const (
	SpotTestnetURL    = "https://testnet.binance.vision"
	FuturesTestnetURL = "https://testnet.binancefuture.com"
)

// Config holds the configuration for the Binance client
type Config struct {
	APIKey    string
	APISecret string
	Testnet   bool
	Market    Market // defaults to spot
	BaseURL   string // overrides the environment selection when set
	Timeout   time.Duration
}

// rawKline is the subset of a spot or futures kline we convert.
type rawKline struct {
	OpenTime                       int64
	Open, High, Low, Close, Volume string
}

type klineFetcher func(ctx context.Context, symbol, interval string, limit int) ([]rawKline, error)

// Client reads market data through go-binance.
type Client struct {
	market  Market
	testnet bool
	fetch   klineFetcher
}

// NewClient creates a new Binance client
func NewClient(config Config) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	market := config.Market
	if market == "" {
		market = MarketSpot
	}

	c := &Client{market: market, testnet: config.Testnet}

	switch market {
	case MarketFutures:
		api := futures.NewClient(config.APIKey, config.APISecret)
		api.HTTPClient = httpClient
		if config.Testnet {
			api.BaseURL = FuturesTestnetURL
		}
		if config.BaseURL != "" {
			api.BaseURL = config.BaseURL
		}
		c.fetch = func(ctx context.Context, symbol, interval string, limit int) ([]rawKline, error) {
			klines, err := api.NewKlinesService().Symbol(symbol).Interval(interval).Limit(limit).Do(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]rawKline, len(klines))
			for i, k := range klines {
				out[i] = rawKline{OpenTime: k.OpenTime, Open: k.Open, High: k.High, Low: k.Low, Close: k.Close, Volume: k.Volume}
			}
			return out, nil
		}
	default:
		api := gobinance.NewClient(config.APIKey, config.APISecret)
		api.HTTPClient = httpClient
		if config.Testnet {
			api.BaseURL = SpotTestnetURL
		}
		if config.BaseURL != "" {
			api.BaseURL = config.BaseURL
		}
		c.fetch = func(ctx context.Context, symbol, interval string, limit int) ([]rawKline, error) {
			klines, err := api.NewKlinesService().Symbol(symbol).Interval(interval).Limit(limit).Do(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]rawKline, len(klines))
			for i, k := range klines {
				out[i] = rawKline{OpenTime: k.OpenTime, Open: k.Open, High: k.High, Low: k.Low, Close: k.Close, Volume: k.Volume}
			}
			return out, nil
		}
	}

	return c
}

// Name identifies the exchange in logs, metrics and reports.
func (c *Client) Name() string {
	return "binance"
}

// Market returns the API family klines are read from.
func (c *Client) Market() Market {
	return c.market
}

// GetEnvironment returns a string describing the current environment
func (c *Client) GetEnvironment() string {
	if c.testnet {
		return "testnet"
	}
	return "mainnet"
}

// GetKlines implements exchange.KlineProvider. Binance already returns
// candles oldest first.
func (c *Client) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]types.OHLCV, error) {
	const op = "GetKlines"

	canonical, err := types.ParseInterval(interval)
	if err != nil {
		return nil, boterrors.NewValidationError(c.Name(), op, err.Error())
	}
	if limit <= 0 {
		limit = 500
	}
	if limit > 1000 {
		limit = 1000
	}
	symbol = strings.ToUpper(symbol)

	klines, err := c.fetch(ctx, symbol, string(canonical), limit)
	if err != nil {
		return nil, toBotError(err, op).WithContext("symbol", symbol)
	}

	candles, err := convertKlines(klines)
	if err != nil {
		return nil, boterrors.NewDataError(c.Name(), op, err).WithRetryable(false).WithContext("symbol", symbol)
	}
	return candles, nil
}

func convertKlines(klines []rawKline) ([]types.OHLCV, error) {
	candles := make([]types.OHLCV, 0, len(klines))
	for i, k := range klines {
		var values [5]float64
		for j, s := range [5]string{k.Open, k.High, k.Low, k.Close, k.Volume} {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("kline %d: invalid number %q: %w", i, s, err)
			}
			values[j] = v
		}
		candles = append(candles, types.OHLCV{
			Timestamp: time.UnixMilli(k.OpenTime).UTC(),
			Open:      values[0],
			High:      values[1],
			Low:       values[2],
			Close:     values[3],
			Volume:    values[4],
		})
	}
	return candles, nil
}

// Binance error codes relevant to market data
const (
	ErrCodeDisconnected    = -1001
	ErrCodeTooManyRequests = -1003
	ErrCodeTimestamp       = -1021
	ErrCodeInvalidInterval = -1120
	ErrCodeInvalidSymbol   = -1121
	ErrCodeInvalidAPIKey   = -2014
	ErrCodeRejectedAPIKey  = -2015
)

// toBotError categorizes a go-binance failure.
func toBotError(err error, operation string) *boterrors.BotError {
	var apiErr *common.APIError
	if !errors.As(err, &apiErr) {
		return boterrors.CategorizeError(err, "binance", operation)
	}

	switch apiErr.Code {
	case ErrCodeTooManyRequests:
		return boterrors.WrapError(err, boterrors.ErrorCategoryRateLimit, "binance", operation)
	case ErrCodeInvalidAPIKey, ErrCodeRejectedAPIKey, ErrCodeTimestamp:
		return boterrors.WrapError(err, boterrors.ErrorCategoryCredentials, "binance", operation)
	case ErrCodeInvalidSymbol, ErrCodeInvalidInterval:
		return boterrors.WrapError(err, boterrors.ErrorCategoryValidation, "binance", operation)
	case ErrCodeDisconnected:
		return boterrors.NewNetworkError("binance", operation, err)
	default:
		return boterrors.NewExchangeError("binance", operation, err).WithRetryable(false)
	}
}
