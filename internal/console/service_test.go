package console

import (
	"context"
	"errors"
	"strings"
	"testing"

	"TradeConsole/internal/exchange"
	"TradeConsole/internal/funding"
	"TradeConsole/internal/logbook"
	"TradeConsole/internal/model"
	"TradeConsole/internal/random"
	"TradeConsole/internal/session"
)

type fakeWorkflow struct {
	starts, stops int
	running       bool
}

func (f *fakeWorkflow) Start() error {
	f.starts++
	f.running = true
	return nil
}

func (f *fakeWorkflow) Stop() {
	f.stops++
	f.running = false
}

func (f *fakeWorkflow) Running() bool { return f.running }

type fakeAnalyzer struct{ symbols []string }

func (f *fakeAnalyzer) AnalyzeCoin(symbol string) bool {
	f.symbols = append(f.symbols, symbol)
	return true
}

type fakeLoader struct{ loads int }

func (f *fakeLoader) Load(context.Context, *session.State) bool {
	f.loads++
	return true
}

type rejectingExchange struct{ exchange.Paper }

func (r *rejectingExchange) Accounts(context.Context, model.APICredential) ([]exchange.Account, error) {
	return nil, &exchange.APIError{Status: 401, Message: "invalid signature"}
}

type fixture struct {
	svc      *Service
	workflow *fakeWorkflow
	analyzer *fakeAnalyzer
	loader   *fakeLoader
}

func newFixture(ex exchange.Exchange) fixture {
	st := session.New(logbook.New(nil), funding.NewManager(funding.SimulatedProcessors(0)), nil, random.New(1))
	f := fixture{workflow: &fakeWorkflow{}, analyzer: &fakeAnalyzer{}, loader: &fakeLoader{}}
	f.svc = NewService(st, f.workflow, f.analyzer, f.loader, ex, nil, nil)
	return f
}

func lastEntry(s *Service) model.LogEntry {
	entries := s.State.Log.Entries()
	if len(entries) == 0 {
		return model.LogEntry{}
	}
	return entries[0]
}

func TestSaveFundingConfig(t *testing.T) {
	tests := []struct {
		name      string
		available float64
		max       float64
		risk      string
		wantErr   bool
	}{
		{"valid", 100, 50, "medium", false},
		{"max above available", 100, 150, "low", true},
		{"zero available", 0, 10, "low", true},
		{"negative max", 100, -1, "low", true},
		{"bad risk", 100, 50, "extreme", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(exchange.NewPaper(nil, nil))
			err := f.svc.SaveFundingConfig(context.Background(), tt.available, tt.max, tt.risk)
			if tt.wantErr {
				var cfgErr *model.ConfigError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("expected ConfigError, got %v", err)
				}
				if f.svc.State.Funds.GetState().AvailableFunds != 0 {
					t.Error("funds changed on invalid input")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := lastEntry(f.svc).Text; got != "Funding configured: $100 available with $50 max per trade" {
				t.Errorf("unexpected log %q", got)
			}
		})
	}
}

func TestSaveAPIConfig(t *testing.T) {
	f := newFixture(exchange.NewPaper(nil, nil))
	var cfgErr *model.ConfigError
	if err := f.svc.SaveAPIConfig(context.Background(), "key", "", "pass"); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for missing secret, got %v", err)
	}

	if err := f.svc.SaveAPIConfig(context.Background(), " key ", "secret", "pass"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cred := f.svc.State.Credential(model.ExchangeCoinbase)
	if !cred.IsConfigured || cred.APIKey != "key" {
		t.Errorf("unexpected credential %+v", cred)
	}
	if f.loader.loads != 1 {
		t.Errorf("expected a market reload, got %d", f.loader.loads)
	}
	if got := lastEntry(f.svc).Text; got != "Coinbase API successfully configured" {
		t.Errorf("unexpected log %q", got)
	}
}

func TestSaveAPIConfig_ConnectionFails(t *testing.T) {
	f := newFixture(&rejectingExchange{})
	err := f.svc.SaveAPIConfig(context.Background(), "key", "secret", "pass")
	var cfgErr *model.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if f.svc.State.Credential(model.ExchangeCoinbase).IsConfigured {
		t.Error("credential should not be marked configured")
	}
	if f.loader.loads != 0 {
		t.Error("market should not reload after a failed test")
	}
}

func TestProcessDeposit(t *testing.T) {
	f := newFixture(exchange.NewPaper(nil, nil))
	ctx := context.Background()

	var cfgErr *model.ConfigError
	if err := f.svc.ProcessDeposit(ctx, 0, "card"); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for zero amount, got %v", err)
	}
	if err := f.svc.ProcessDeposit(ctx, 10, "paypal"); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for unknown method, got %v", err)
	}
	if f.svc.State.Log.Len() != 0 {
		t.Error("validation failures should not log")
	}

	if err := f.svc.ProcessDeposit(ctx, 250, "bank"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.svc.State.Funds.GetState().AvailableFunds; got != 250 {
		t.Errorf("expected 250 available, got %v", got)
	}
	if got := lastEntry(f.svc).Text; got != "Successfully deposited $250.00" {
		t.Errorf("unexpected log %q", got)
	}
}

func TestSelectExchange(t *testing.T) {
	f := newFixture(exchange.NewPaper(nil, nil))
	if err := f.svc.SelectExchange(context.Background(), "mtgox"); err == nil {
		t.Error("expected error for unknown exchange")
	}
	if err := f.svc.SelectExchange(context.Background(), "Kraken"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.svc.Snapshot().SelectedExchange != "kraken" || f.loader.loads != 1 {
		t.Error("expected kraken selected and a reload")
	}
}

func TestHandleCommand(t *testing.T) {
	f := newFixture(exchange.NewPaper(nil, nil))
	ctx := context.Background()

	if reply := f.svc.HandleCommand(ctx, "/status"); !strings.Contains(reply, "/pair") {
		t.Errorf("unpaired chat should be asked to pair, got %q", reply)
	}
	if reply := f.svc.HandleCommand(ctx, "/pair WRONG-CODE"); !strings.Contains(reply, "Invalid") {
		t.Errorf("unexpected reply %q", reply)
	}

	code := f.svc.Snapshot().ActivationCode
	if reply := f.svc.HandleCommand(ctx, "/start "+strings.ToLower(code)); !strings.Contains(reply, "Connected") {
		t.Fatalf("pairing failed: %q", reply)
	}
	if !f.svc.Snapshot().TelegramConnected {
		t.Fatal("expected chat connected")
	}

	f.svc.HandleCommand(ctx, "/start")
	f.svc.HandleCommand(ctx, "/stop@TradeConsoleBot")
	if f.workflow.starts != 1 || f.workflow.stops != 1 {
		t.Errorf("expected one start and one stop, got %d/%d", f.workflow.starts, f.workflow.stops)
	}

	f.svc.HandleCommand(ctx, "/analyze btc")
	if len(f.analyzer.symbols) != 1 || f.analyzer.symbols[0] != "btc" {
		t.Errorf("unexpected analyze calls %v", f.analyzer.symbols)
	}
	if reply := f.svc.HandleCommand(ctx, "/funds"); !strings.Contains(reply, "Risk level: medium") {
		t.Errorf("unexpected funds reply %q", reply)
	}
	if reply := f.svc.HandleCommand(ctx, "/filter bogus"); !strings.HasPrefix(reply, "❌") {
		t.Errorf("expected filter rejection, got %q", reply)
	}
	if reply := f.svc.HandleCommand(ctx, "/help"); reply != helpText {
		t.Errorf("expected help text, got %q", reply)
	}
}
