package funding

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"TradeConsole/internal/model"
)

func TestConfigure(t *testing.T) {
	tests := []struct {
		name      string
		available float64
		max       float64
		risk      string
		wantErr   bool
	}{
		{"valid", 1000, 100, "medium", false},
		{"max equals available", 100, 100, "high", false},
		{"zero available", 0, 10, "low", true},
		{"negative max", 100, -1, "low", true},
		{"nan", math.NaN(), 10, "low", true},
		{"max above available", 100, 150, "low", true},
		{"unknown risk", 100, 10, "extreme", true},
	}
	for _, tt := range tests {
		m := NewManager(nil)
		err := m.Configure(tt.available, tt.max, tt.risk)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err=%v, wantErr=%v", tt.name, err, tt.wantErr)
			continue
		}
		if err != nil {
			var ce *model.ConfigError
			if !errors.As(err, &ce) {
				t.Errorf("%s: expected ConfigError, got %T", tt.name, err)
			}
			if m.GetState().AvailableFunds != 0 {
				t.Errorf("%s: rejected configuration mutated state", tt.name)
			}
		}
	}
}

func TestReserveReleaseCredit(t *testing.T) {
	m := NewManager(nil)
	if err := m.Configure(100, 50, "medium"); err != nil {
		t.Fatal(err)
	}

	if err := m.Reserve(120); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := m.GetState().AvailableFunds; got != 100 {
		t.Fatalf("failed reserve changed funds to %.2f", got)
	}

	if err := m.Reserve(40); err != nil {
		t.Fatal(err)
	}
	m.Release(40)
	m.Credit(10)
	if got := m.GetState().AvailableFunds; got != 110 {
		t.Errorf("expected 110, got %.2f", got)
	}
}

type failingProcessor struct{}

func (failingProcessor) Process(context.Context, float64) error { return errors.New("card declined") }

func TestDeposit(t *testing.T) {
	procs := SimulatedProcessors(time.Millisecond)
	procs[model.PaymentCard] = failingProcessor{}
	m := NewManager(procs)

	if err := m.Deposit(context.Background(), "bank", 250); err != nil {
		t.Fatalf("bank deposit: %v", err)
	}
	if got := m.GetState().AvailableFunds; got != 250 {
		t.Errorf("expected 250 after deposit, got %.2f", got)
	}

	if err := m.Deposit(context.Background(), "card", 10); err == nil {
		t.Error("expected failing processor error")
	}
	if err := m.Deposit(context.Background(), "bank", 0); err == nil {
		t.Error("expected invalid amount error")
	}
	if err := m.Deposit(context.Background(), "cheque", 10); err == nil {
		t.Error("expected unknown method error")
	}
	if got := m.GetState().AvailableFunds; got != 250 {
		t.Errorf("failed deposits changed funds to %.2f", got)
	}
}

func TestDeposit_ContextCancelled(t *testing.T) {
	m := NewManager(SimulatedProcessors(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Deposit(ctx, "crypto", 5); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
