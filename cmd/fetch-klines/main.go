package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gaineziswear/QuantumTradebot/cmd/common"
	"github.com/gaineziswear/QuantumTradebot/internal/exchange"
	"github.com/gaineziswear/QuantumTradebot/internal/exchange/adapters"
	"github.com/gaineziswear/QuantumTradebot/internal/logger"
	"github.com/gaineziswear/QuantumTradebot/internal/safety"
	"github.com/gaineziswear/QuantumTradebot/pkg/config"
	"github.com/gaineziswear/QuantumTradebot/pkg/data"
	"github.com/gaineziswear/QuantumTradebot/pkg/types"
)

const appName = "fetch-klines"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	commonFlags := common.RegisterCommonFlags(fs)
	var (
		exchangeName = fs.String("exchange", "", "Exchange to download from: bybit or binance")
		symbols      = fs.String("symbols", "", "Comma separated symbols (default from config)")
		intervals    = fs.String("intervals", "1h", "Comma separated intervals, e.g. 15m,1h,4h")
		category     = fs.String("category", "", "Bybit category (spot, linear, inverse) or Binance market (spot, futures)")
		limit        = fs.Int("limit", safety.MaxKlineLimit, "Most recent candles to keep per file")
	)
	common.NewUsageFormatter(appName, "download recent klines into the data directory used by analyzer -data-root").
		AddExample(appName+" -symbols BTCUSDT,ETHUSDT -intervals 1h,4h", "Download two symbols from Bybit").
		AddExample(appName+" -exchange binance -category futures -symbols BTCUSDT -data-root data", "Download Binance futures candles").
		Install(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *commonFlags.Version {
		common.PrintVersion(stdout, appName)
		return 0
	}

	v := common.NewFlagValidator().ValidateInt("limit", *limit, 1, safety.MaxKlineLimit)
	if *exchangeName != "" {
		v.ValidateChoice("exchange", *exchangeName, exchange.SupportedExchanges())
	}
	if err := v.GetError(); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	cfg, err := config.NewManager().Load(*commonFlags.ConfigFile, *commonFlags.EnvFile, func(c *config.AppConfig) {
		if *exchangeName != "" {
			c.Exchange.Name = *exchangeName
		}
		if *symbols != "" {
			c.Symbols = config.SplitSymbols(*symbols)
		}
		if *commonFlags.LogLevel != "" {
			c.Logging.Level = *commonFlags.LogLevel
		}
		if *category != "" {
			setCategory(c, *category)
		}
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	root := *commonFlags.DataRoot
	if root == "" {
		root = cfg.Data.Root
	}
	if root == "" {
		root = "data"
	}

	ivs, err := parseIntervals(*intervals)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer log.Close()

	provider, err := adapters.NewKlineProvider(cfg.Exchange, log.With("component", "exchange"))
	if err != nil {
		log.LogError("startup", err)
		return 1
	}

	d := downloader{
		provider: provider,
		manager:  data.NewDataManager(),
		root:     root,
		exchange: cfg.Exchange.NormalizedName(),
		category: cfg.Exchange.Category(),
		limit:    *limit,
		log:      log,
	}
	written, failed := d.fetchAll(ctx, cfg.Symbols, ivs)
	for _, path := range written {
		fmt.Fprintln(stdout, path)
	}
	if failed > 0 {
		log.Error("%d of %d downloads failed", failed, len(cfg.Symbols)*len(ivs))
		return 1
	}
	return 0
}

func setCategory(c *config.AppConfig, category string) {
	switch c.Exchange.NormalizedName() {
	case "binance":
		if c.Exchange.Binance == nil {
			c.Exchange.Binance = &exchange.BinanceConfig{}
		}
		c.Exchange.Binance.Market = category
	default:
		if c.Exchange.Bybit == nil {
			c.Exchange.Bybit = &exchange.BybitConfig{}
		}
		c.Exchange.Bybit.Category = category
	}
}

func parseIntervals(s string) ([]types.Interval, error) {
	var out []types.Interval
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		iv, err := types.ParseInterval(part)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("at least one interval is required")
	}
	return out, nil
}

type downloader struct {
	provider exchange.KlineProvider
	manager  *data.DataManager
	root     string
	exchange string
	category string
	limit    int
	log      *logger.Logger
}

// fetchAll downloads every symbol and interval pair, continuing past
// failures. It returns the written paths and the number of failures.
func (d downloader) fetchAll(ctx context.Context, symbols []string, intervals []types.Interval) ([]string, int) {
	var written []string
	failed := 0
	for _, symbol := range symbols {
		for _, iv := range intervals {
			if ctx.Err() != nil {
				return written, failed + 1
			}
			path, err := d.fetch(ctx, symbol, iv)
			if err != nil {
				failed++
				d.log.Warning("%s %s: %v", symbol, iv, err)
				continue
			}
			written = append(written, path)
		}
	}
	return written, failed
}

func (d downloader) fetch(ctx context.Context, symbol string, iv types.Interval) (string, error) {
	candles, err := d.provider.GetKlines(ctx, symbol, iv.String(), d.limit)
	if err != nil {
		return "", err
	}
	if err := data.ValidateCandles(candles); err != nil {
		return "", fmt.Errorf("exchange returned unusable candles: %w", err)
	}

	path := d.manager.TargetPath(d.root, d.exchange, d.category, symbol, iv.String())
	if err := data.SaveCandles(path, candles); err != nil {
		return "", err
	}
	d.log.Info("saved %d %s %s candles (%s of history) to %s",
		len(candles), symbol, iv, time.Duration(len(candles))*iv.Duration(), path)
	return path, nil
}
