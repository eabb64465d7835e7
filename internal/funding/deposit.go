package funding

import (
	"context"
	"fmt"
	"time"

	"TradeConsole/internal/model"
)

// Processor moves money into the account through one payment method.
type Processor interface {
	Process(ctx context.Context, amount float64) error
}

// SimulatedProcessor accepts every deposit after a fixed delay.
type SimulatedProcessor struct {
	Delay time.Duration
}

func (p SimulatedProcessor) Process(ctx context.Context, amount float64) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(p.Delay):
		return nil
	}
}

// SimulatedProcessors returns a simulated processor for every payment method.
func SimulatedProcessors(delay time.Duration) map[model.PaymentMethod]Processor {
	p := SimulatedProcessor{Delay: delay}
	return map[model.PaymentMethod]Processor{
		model.PaymentBank:   p,
		model.PaymentCard:   p,
		model.PaymentCrypto: p,
	}
}

// Deposit processes a payment and, once it clears, adds it to the available
// funds. The lock is not held while the processor runs.
func (m *Manager) Deposit(ctx context.Context, method string, amount float64) error {
	if invalidAmount(amount) {
		return &model.ConfigError{Field: "deposit_amount", Reason: "please enter a valid deposit amount"}
	}
	pm, err := model.ParsePaymentMethod(method)
	if err != nil {
		return err
	}

	m.mu.Lock()
	proc, ok := m.processors[pm]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("no processor for %s deposits", pm)
	}

	if err := proc.Process(ctx, amount); err != nil {
		return fmt.Errorf("deposit processing failed: %w", err)
	}
	m.Credit(amount)
	return nil
}
