// Package console groups the user-triggered actions of a session behind one
// service used by the web dashboard, the terminal UI and the Telegram bot.
package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"TradeConsole/internal/exchange"
	"TradeConsole/internal/model"
	"TradeConsole/internal/recorder"
	"TradeConsole/internal/session"
)

// Workflow starts and stops the automated passes.
type Workflow interface {
	Start() error
	Stop()
	Running() bool
}

// Analyzer runs the on-demand coin analysis.
type Analyzer interface {
	AnalyzeCoin(symbol string) bool
}

// MarketLoader refreshes the coin list.
type MarketLoader interface {
	Load(ctx context.Context, st *session.State) bool
}

// Exchanges lists the selectable exchanges. Only coinbase takes credentials.
var Exchanges = []string{model.ExchangeCoinbase, "binance", "kraken"}

// Service is the action surface of one session.
type Service struct {
	State    *session.State
	Workflow Workflow
	Analyzer Analyzer
	Loader   MarketLoader
	Exchange exchange.Exchange
	Journal  recorder.Recorder

	logger *zap.Logger
}

// NewService wires a service. journal may be nil.
func NewService(st *session.State, wf Workflow, an Analyzer, loader MarketLoader, ex exchange.Exchange, journal recorder.Recorder, logger *zap.Logger) *Service {
	if journal == nil {
		journal = recorder.NewNoopRecorder()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		State:    st,
		Workflow: wf,
		Analyzer: an,
		Loader:   loader,
		Exchange: ex,
		Journal:  journal,
		logger:   logger.Named("console"),
	}
}

func (s *Service) StartWorkflow() error { return s.Workflow.Start() }

func (s *Service) StopWorkflow() { s.Workflow.Stop() }

func (s *Service) LoadMarketData(ctx context.Context) bool { return s.Loader.Load(ctx, s.State) }

func (s *Service) AnalyzeCoin(symbol string) bool { return s.Analyzer.AnalyzeCoin(symbol) }

func (s *Service) Snapshot() session.Snapshot { return s.State.Snapshot() }

func (s *Service) SetLogFilter(filter string) error { return s.State.Log.SetFilter(filter) }

func (s *Service) ClearLogs() { s.State.Log.Clear() }

// SelectExchange switches the market source and reloads.
func (s *Service) SelectExchange(ctx context.Context, name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	known := false
	for _, e := range Exchanges {
		known = known || e == name
	}
	if !known {
		return &model.ConfigError{Field: "exchange", Reason: fmt.Sprintf("unknown exchange %q", name)}
	}
	s.State.Mutate(func(d *session.Data) { d.SelectedExchange = name })
	s.LoadMarketData(ctx)
	return nil
}

// SaveAPIConfig stores the Coinbase key triple, tests it and, when the test
// passes, reloads the market from the account.
func (s *Service) SaveAPIConfig(ctx context.Context, key, secret, passphrase string) error {
	cred := model.APICredential{
		APIKey:     strings.TrimSpace(key),
		APISecret:  strings.TrimSpace(secret),
		Passphrase: strings.TrimSpace(passphrase),
	}
	if !cred.Complete() {
		return &model.ConfigError{Field: "api", Reason: "all fields are required"}
	}

	err := exchange.CheckConnection(ctx, s.Exchange, cred)
	cred.IsConfigured = err == nil
	s.State.Mutate(func(d *session.Data) { d.Credentials[model.ExchangeCoinbase] = cred })
	s.State.Render(session.ViewConnection)
	if err != nil {
		s.logger.Warn("api connection test failed", zap.Error(err))
		return &model.ConfigError{Field: "api", Reason: "connection failed, check credentials"}
	}

	s.State.Log.Record("Coinbase API successfully configured", model.LogSystem)
	s.LoadMarketData(ctx)
	return nil
}

// SaveFundingConfig replaces the funding limits.
func (s *Service) SaveFundingConfig(ctx context.Context, available, maxPerTrade float64, risk string) error {
	before := s.State.Funds.GetState()
	if err := s.State.Funds.Configure(available, maxPerTrade, risk); err != nil {
		return err
	}
	s.State.Log.Recordf(model.LogSystem, "Funding configured: $%s available with $%s max per trade",
		plain(available), plain(maxPerTrade))
	s.journalFunds(ctx, &recorder.FundEvent{
		EventType:   "CONFIGURE",
		Before:      before.AvailableFunds,
		After:       available,
		MaxPerTrade: maxPerTrade,
		Amount:      available - before.AvailableFunds,
		Note:        risk,
	})
	s.State.Render(session.ViewDashboard)
	return nil
}

// ProcessDeposit runs a deposit through its payment method. Validation
// failures are returned without logging; processing failures are logged.
func (s *Service) ProcessDeposit(ctx context.Context, amount float64, method string) error {
	before := s.State.Funds.GetState()
	if err := s.State.Funds.Deposit(ctx, method, amount); err != nil {
		var cfgErr *model.ConfigError
		if errors.As(err, &cfgErr) {
			return err
		}
		s.State.Log.Recordf(model.LogError, "Deposit failed: %v", err)
		return err
	}
	after := s.State.Funds.GetState()
	s.State.Log.Recordf(model.LogSystem, "Successfully deposited $%.2f", amount)
	s.journalFunds(ctx, &recorder.FundEvent{
		EventType:   "DEPOSIT",
		Method:      method,
		Before:      before.AvailableFunds,
		After:       after.AvailableFunds,
		MaxPerTrade: after.MaxPerTrade,
		Amount:      amount,
	})
	s.State.Render(session.ViewDashboard)
	return nil
}

// PairTelegram connects the chat when code matches the session's activation
// code.
func (s *Service) PairTelegram(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	ok := false
	s.State.Mutate(func(d *session.Data) {
		if code != "" && code == d.ActivationCode {
			d.TelegramConnected = true
			ok = true
		}
	})
	if !ok {
		s.State.Log.Record("Telegram pairing rejected: invalid activation code", model.LogWarning)
		return false
	}
	s.State.Log.Record("Telegram connected", model.LogSystem)
	s.State.Render(session.ViewConnection)
	return true
}

func (s *Service) journalFunds(ctx context.Context, evt *recorder.FundEvent) {
	if err := s.Journal.RecordFundEvent(ctx, evt); err != nil {
		s.logger.Warn("journal fund event", zap.String("type", evt.EventType), zap.Error(err))
	}
}

// plain formats an amount to at most two decimals without trailing zeros.
func plain(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}
