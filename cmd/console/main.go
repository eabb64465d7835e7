package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"TradeConsole/internal/catalog"
	"TradeConsole/internal/config"
	"TradeConsole/internal/console"
	"TradeConsole/internal/dashboard"
	"TradeConsole/internal/exchange"
	"TradeConsole/internal/funding"
	"TradeConsole/internal/logbook"
	"TradeConsole/internal/marketdata"
	"TradeConsole/internal/model"
	"TradeConsole/internal/notifier"
	"TradeConsole/internal/random"
	"TradeConsole/internal/recorder"
	"TradeConsole/internal/scheduler"
	"TradeConsole/internal/session"
	"TradeConsole/internal/trade"
	"TradeConsole/internal/tui"
	"TradeConsole/internal/workflow"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("TradeConsole starting", zap.String("config", cfgPath), zap.String("mode", cfg.Exchange.Mode))

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Journal
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
		} else {
			rec = sr
		}
	}
	defer rec.Close()

	// Session
	cat := catalog.Default()
	src := random.New(cfg.Workflow.Seed)
	book := logbook.New(logger)
	funds := funding.NewManager(funding.SimulatedProcessors(cfg.Funding.DepositDelay))
	if cfg.Funding.AvailableFunds > 0 && cfg.Funding.MaxPerTrade > 0 {
		if err := funds.Configure(cfg.Funding.AvailableFunds, cfg.Funding.MaxPerTrade, cfg.Funding.RiskLevel); err != nil {
			logger.Fatal("configure funding", zap.Error(err))
		}
	}
	st := session.New(book, funds, cat.Strategies, src)
	book.AddSink(recorder.LogSink{Recorder: rec, Logger: logger})

	// Exchange and market data
	ex, err := newExchange(cfg)
	if err != nil {
		logger.Fatal("init exchange", zap.Error(err))
	}
	logger.Info("exchange ready", zap.String("exchange", ex.Name()))
	loader := &marketdata.Loader{
		Source: &marketdata.Source{
			Public:  marketdata.NewCoinGeckoFetcher(cfg.MarketData.BaseURL, cfg.Proxy),
			Account: &marketdata.AccountFetcher{Exchange: ex},
		},
		Rand: src,
	}

	// Workflow
	executor := trade.NewExecutor(ex, rec, logger)
	sim := workflow.New(ctx, st, cat, executor, src, logger)
	sched := scheduler.NewScheduler(st, sim, cfg.Workflow.AnalysisInterval, cfg.Workflow.ChartInterval, logger)
	sched.Run()
	defer sched.Shutdown()

	svc := console.NewService(st, sched, sim, loader, ex, rec, logger)

	// Telegram
	if cfg.Telegram.BotToken != "" {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, logger)
		paired := func() bool {
			var ok bool
			st.Read(func(d *session.Data) { ok = d.TelegramConnected })
			return ok
		}
		fwd := notifier.NewForwarder(tn, paired, logger)
		book.AddSink(fwd)
		go fwd.Run(ctx)
		go tn.StartPolling(ctx, func(text string) string { return svc.HandleCommand(ctx, text) })
		logger.Info("telegram polling started")
	}

	// Dashboard
	hub := dashboard.NewHub(st.Snapshot, logger)
	st.AddRenderer(hub)
	srv := dashboard.NewServer(svc, hub, logger)
	go func() {
		if err := srv.ListenAndServe(ctx, cfg.Dashboard.Addr); err != nil {
			logger.Error("dashboard server", zap.Error(err))
			cancel()
		}
	}()

	var feed *tui.Feed
	if cfg.Terminal.Enabled {
		feed = tui.NewFeed()
		st.AddRenderer(feed)
	}

	var code string
	st.Read(func(d *session.Data) { code = d.ActivationCode })
	book.Recordf(model.LogSystem, "Console ready. Telegram activation code: %s", code)
	bootstrap(ctx, cfg, svc, logger)
	if cfg.Workflow.AutoStart {
		if err := svc.StartWorkflow(); err != nil {
			logger.Error("auto start workflow", zap.Error(err))
		}
	}

	if feed != nil {
		if err := tui.Run(ctx, svc, feed); err != nil {
			logger.Error("terminal ui", zap.Error(err))
		}
		cancel()
	} else {
		logger.Info("TradeConsole is running. Press Ctrl+C to stop.", zap.String("dashboard", cfg.Dashboard.Addr))
		<-ctx.Done()
	}

	logger.Info("shutdown signal received, stopping...")
}

// bootstrap tests configured credentials, which reloads the market on
// success, or does a plain public load.
func bootstrap(ctx context.Context, cfg *config.Config, svc *console.Service, logger *zap.Logger) {
	cred := cfg.Credential()
	if cred.Complete() {
		err := svc.SaveAPIConfig(ctx, cred.APIKey, cred.APISecret, cred.Passphrase)
		if err == nil {
			return
		}
		logger.Warn("configured Coinbase credentials rejected", zap.Error(err))
	}
	svc.LoadMarketData(ctx)
}

func newExchange(cfg *config.Config) (exchange.Exchange, error) {
	client := exchange.NewClient(cfg.Exchange.BaseURL, cfg.Proxy, 15*time.Second)
	if cfg.Exchange.Mode != config.ModePaper {
		return client, nil
	}
	balances := make(map[string]decimal.Decimal, len(cfg.Exchange.PaperBalances))
	for sym, v := range cfg.Exchange.PaperBalances {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("paper balance %s: %w", sym, err)
		}
		balances[sym] = d
	}
	return exchange.NewPaper(balances, client), nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.TimeKey = "time"

	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = level

	// The terminal UI owns the screen.
	if cfg.Terminal.Enabled {
		zc.OutputPaths = []string{"tradeconsole.log"}
		zc.ErrorOutputPaths = []string{"tradeconsole.log"}
	}
	return zc.Build()
}
