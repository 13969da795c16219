package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gaineziswear/QuantumTradebot/cmd/common"
	"github.com/gaineziswear/QuantumTradebot/internal/analysis"
	boterrors "github.com/gaineziswear/QuantumTradebot/internal/errors"
	"github.com/gaineziswear/QuantumTradebot/internal/exchange"
	"github.com/gaineziswear/QuantumTradebot/internal/exchange/adapters"
	"github.com/gaineziswear/QuantumTradebot/internal/logger"
	"github.com/gaineziswear/QuantumTradebot/internal/monitoring"
	"github.com/gaineziswear/QuantumTradebot/internal/notifications"
	"github.com/gaineziswear/QuantumTradebot/internal/risk"
	"github.com/gaineziswear/QuantumTradebot/internal/scanner"
	"github.com/gaineziswear/QuantumTradebot/pkg/config"
	"github.com/gaineziswear/QuantumTradebot/pkg/data"
	"github.com/gaineziswear/QuantumTradebot/pkg/reporting"
)

const appName = "analyzer"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type cliFlags struct {
	common      *common.CommonFlags
	csvFile     *string
	exchange    *string
	symbols     *string
	interval    *string
	limit       *int
	workers     *int
	balance     *float64
	outDir      *string
	csvOut      *bool
	xlsx        *bool
	jsonOut     *bool
	details     *bool
	noColor     *bool
	metricsAddr *string
	extended    *bool
	period      *string
	watch       *time.Duration
	sessionLog  *string
	printConfig *bool
}

func registerFlags(fs *flag.FlagSet) *cliFlags {
	return &cliFlags{
		common:      common.RegisterCommonFlags(fs),
		csvFile:     fs.String("csv", "", "Analyze a single CSV file instead of fetching klines"),
		period:      fs.String("period", "", "Only use the trailing period of local files, e.g. 30d or 168h"),
		exchange:    fs.String("exchange", "", "Exchange to fetch from: bybit or binance"),
		symbols:     fs.String("symbols", "", "Comma separated symbols, e.g. BTCUSDT,ETHUSDT"),
		interval:    fs.String("interval", "", "Candle interval, e.g. 15m, 1h, 4h, 1d (Bybit codes like 60 also work)"),
		limit:       fs.Int("limit", 0, "Candles fetched per symbol"),
		workers:     fs.Int("workers", 0, "Symbols analyzed in parallel (0 = number of CPUs)"),
		balance:     fs.Float64("balance", 0, "Quote balance used for position hints"),
		outDir:      fs.String("out", "", "Output directory for report files (default results/EXCHANGE_interval)"),
		csvOut:      fs.Bool("csv-out", false, "Write a CSV report"),
		xlsx:        fs.Bool("xlsx", false, "Write an Excel report"),
		jsonOut:     fs.Bool("json", false, "Write a JSON report"),
		details:     fs.Bool("details", false, "Print per-symbol signal tables"),
		noColor:     fs.Bool("no-color", false, "Disable colored console output"),
		metricsAddr: fs.String("metrics-addr", "", "Serve /metrics and /health on this address"),
		extended:    fs.Bool("extended", false, "Enable the extended votes (oscillators, VWAP, ADX, Fibonacci, market structure, volume)"),
		watch:       fs.Duration("watch", 0, "Rescan every period until interrupted (0 = scan once)"),
		sessionLog:  fs.String("session-log", "", "Write per-symbol analysis session logs to this directory"),
		printConfig: fs.Bool("print-config", false, "Print the effective configuration as YAML and exit"),
	}
}

// overrides applies only the flags given on the command line, so unset
// flags never mask values from the config file or environment.
func (f *cliFlags) overrides(fs *flag.FlagSet) config.Override {
	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	return func(cfg *config.AppConfig) {
		if set["data-root"] {
			cfg.Data.Root = *f.common.DataRoot
		}
		if set["log-level"] {
			cfg.Logging.Level = *f.common.LogLevel
		}
		if set["csv"] {
			cfg.Data.CSVFile = *f.csvFile
		}
		if set["period"] {
			cfg.Data.Period = *f.period
		}
		if set["exchange"] {
			cfg.Exchange.Name = *f.exchange
		}
		if set["symbols"] {
			cfg.Symbols = config.SplitSymbols(*f.symbols)
		}
		if set["interval"] {
			cfg.Scan.Interval = *f.interval
		}
		if set["limit"] {
			cfg.Scan.Limit = *f.limit
		}
		if set["workers"] {
			cfg.Scan.Workers = *f.workers
		}
		if set["balance"] {
			cfg.Scan.Balance = *f.balance
		}
		if set["out"] {
			cfg.Reporting.OutputDirectory = *f.outDir
		}
		if set["csv-out"] {
			cfg.Reporting.CSVEnabled = *f.csvOut
		}
		if set["xlsx"] {
			cfg.Reporting.ExcelEnabled = *f.xlsx
		}
		if set["json"] {
			cfg.Reporting.JSONEnabled = *f.jsonOut
		}
		if set["details"] {
			cfg.Reporting.Details = *f.details
		}
		if set["no-color"] {
			cfg.Reporting.Color = !*f.noColor
		}
		if set["metrics-addr"] {
			cfg.Metrics.Addr = *f.metricsAddr
		}
		if set["watch"] {
			cfg.Watch = *f.watch
		}
		if *f.extended {
			cfg.Analysis = cfg.Analysis.WithExtendedSignals()
		}
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := registerFlags(fs)
	common.NewUsageFormatter(appName, "technical indicator scan and signal aggregation").
		AddExample(appName+" -symbols BTCUSDT,ETHUSDT -interval 4h", "Scan two symbols on Bybit").
		AddExample(appName+" -exchange binance -symbols SOLUSDT -xlsx -json", "Scan on Binance and write Excel and JSON reports").
		AddExample(appName+" -csv data/btc_1h.csv -symbols BTCUSDT -details", "Analyze a downloaded candle file").
		Install(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *flags.common.Version {
		common.PrintVersion(stdout, appName)
		return exitOK
	}

	v := common.NewFlagValidator().
		ValidateFile("csv", *flags.csvFile, false).
		ValidateDirectory("data-root", *flags.common.DataRoot, false)
	if *flags.exchange != "" {
		v.ValidateChoice("exchange", *flags.exchange, exchange.SupportedExchanges())
	}
	if err := v.GetError(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	cfg, err := config.NewManager().Load(*flags.common.ConfigFile, *flags.common.EnvFile, flags.overrides(fs))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if *flags.printConfig {
		if err := config.Encode(stdout, cfg); err != nil {
			fmt.Fprintln(stderr, err)
			return exitFailure
		}
		return exitOK
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	defer log.Close()

	a, err := newApp(cfg, log, *flags.sessionLog)
	if err != nil {
		log.LogError("startup", err)
		return exitFailure
	}
	return a.run(ctx, stdout)
}

type app struct {
	cfg      *config.AppConfig
	log      *logger.Logger
	scanner  *scanner.Scanner
	reporter *reporting.DefaultReporter
	health   *monitoring.HealthChecker
	source   string
	symbols  []string
	sessions *sessionLogs
	alerter  *notifications.SignalAlerter
}

func newApp(cfg *config.AppConfig, log *logger.Logger, sessionDir string) (*app, error) {
	analyzer, err := analysis.NewAnalyzer(cfg.Analysis)
	if err != nil {
		return nil, err
	}
	rm, err := risk.NewRiskManager(cfg.Sizing)
	if err != nil {
		return nil, err
	}

	provider, source, err := newProvider(cfg, log)
	if err != nil {
		return nil, err
	}

	symbols := cfg.Symbols
	if cfg.Data.CSVFile != "" {
		// a single file holds one market
		if len(symbols) == 0 {
			symbols = []string{"CSVDATA"}
		}
		symbols = symbols[:1]
	}

	health := monitoring.NewHealthChecker(cfg.Metrics.StaleAfter)
	opts := []scanner.Option{
		scanner.WithLogger(log.With("component", "scanner")),
		scanner.WithRiskManager(rm),
		scanner.WithHealth(health),
	}
	if cfg.Data.CacheTTL > 0 {
		opts = append(opts, scanner.WithCache(data.NewMemoryCacheWithTTL(cfg.Data.CacheTTL)))
	}
	sc, err := scanner.New(provider, analyzer, cfg.Scan, opts...)
	if err != nil {
		return nil, err
	}

	reportCfg := cfg.Reporting
	if reportCfg.OutputDirectory == "" {
		reportCfg.OutputDirectory = reporting.DefaultOutputDir(source, cfg.Scan.Interval)
	}

	var alerter *notifications.SignalAlerter
	if cfg.Alerts.Enabled() {
		alerter = notifications.NewSignalAlerter(
			notifications.NewTelegramNotifier(cfg.Alerts.TelegramToken, cfg.Alerts.TelegramChatID),
			cfg.Alerts.MinConfidence, log.With("component", "alerts"))
	}

	return &app{
		cfg:      cfg,
		log:      log,
		scanner:  sc,
		reporter: reporting.NewDefaultReporter(reportCfg),
		health:   health,
		source:   source,
		symbols:  symbols,
		sessions: newSessionLogs(sessionDir, cfg.Scan.Interval, cfg.Logging.Level),
		alerter:  alerter,
	}, nil
}

// newProvider picks the candle source: one CSV file, a data directory, or a
// guarded exchange client.
func newProvider(cfg *config.AppConfig, log *logger.Logger) (exchange.KlineProvider, string, error) {
	switch {
	case cfg.Data.CSVFile != "":
		return data.NewSingleFileProvider(newDataManager(cfg.Data, log), cfg.Data.CSVFile), "csv", nil
	case cfg.Data.Root != "":
		name := cfg.Exchange.NormalizedName()
		return data.NewFileKlineProvider(newDataManager(cfg.Data, log), cfg.Data.Root, name), name, nil
	default:
		p, err := adapters.NewKlineProvider(cfg.Exchange, log.With("component", "exchange"))
		if err != nil {
			return nil, "", err
		}
		return p, cfg.Exchange.NormalizedName(), nil
	}
}

// newDataManager reads local files through a cache that notices rewrites,
// so watch mode picks up files refreshed by fetch-klines.
func newDataManager(cfg config.DataConfig, log *logger.Logger) *data.DataManager {
	csvProvider := data.NewCSVProvider().WithLogger(log.With("component", "csv"))
	period, _ := data.ParseTrailingPeriod(cfg.Period)
	return data.NewDataManagerWithProvider(data.NewCachedProvider(csvProvider).WithLogger(log)).WithPeriod(period)
}

func (a *app) run(ctx context.Context, stdout io.Writer) int {
	defer a.sessions.Close()

	var srv *monitoring.Server
	errc := make(chan error, 1)
	if a.cfg.Metrics.Addr != "" {
		srv = monitoring.NewServer(a.cfg.Metrics.Addr, a.health)
		srv.Start(errc)
		a.log.Info("serving metrics and health on %s", a.cfg.Metrics.Addr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.log.LogError("metrics shutdown", err)
			}
		}()
	}

	a.log.Info("scanning %d symbols on %s (%s, %d candles, %d workers)",
		len(a.symbols), a.source, a.cfg.Scan.Interval, a.cfg.Scan.Limit, a.scanner.Workers())

	code := exitOK
	emit := func(reports []scanner.Report) {
		code = a.emit(ctx, stdout, reports)
	}

	if a.cfg.Watch > 0 {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case err := <-errc:
				a.log.LogError("metrics server", err)
				cancel()
			case <-ctx.Done():
			}
		}()
		if err := a.scanner.Watch(ctx, a.symbols, a.cfg.Watch, emit); err != nil {
			a.log.LogError("watch", err)
			return exitFailure
		}
		a.log.Info("watch stopped")
		return exitOK
	}

	emit(a.scanner.Scan(ctx, a.symbols))
	return code
}

// emit prints and writes one batch of reports. It returns exitFailure when
// no symbol could be analyzed or a report file could not be written.
func (a *app) emit(ctx context.Context, stdout io.Writer, reports []scanner.Report) int {
	written, err := a.reporter.Emit(stdout, reports, time.Now())
	for _, path := range written {
		a.log.Info("report written to %s", path)
	}
	if err != nil {
		a.log.LogError("report", err)
		return exitFailure
	}

	ok := 0
	for _, rep := range reports {
		if rep.Result == nil {
			continue
		}
		ok++
		a.sessions.Log(rep.Result)
	}

	if a.alerter != nil {
		if n, err := a.alerter.Notify(ctx, reports); err != nil {
			a.log.LogError("alerts", err)
		} else if n > 0 {
			a.log.Info("sent %d signal alerts", n)
		}
	}

	if stats := a.scanner.ErrorStats(); stats.Total() > 0 {
		for category, n := range stats.CountByCategory() {
			a.log.Debug("errors so far: %s=%d", category, n)
		}
	}
	if ok == 0 && len(reports) > 0 {
		a.log.Error("no symbol could be analyzed (%s)", summarizeFailure(reports))
		return exitFailure
	}
	return exitOK
}

func summarizeFailure(reports []scanner.Report) string {
	for _, rep := range reports {
		if rep.Err != nil {
			return fmt.Sprintf("%s: %s", rep.Symbol, boterrors.CategoryOf(rep.Err))
		}
	}
	return "no results"
}
