// Package funding owns the trading budget: configuration, reservations made
// by buys, credits from sells and deposits.
package funding

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"TradeConsole/internal/model"
)

// ErrInsufficientFunds is returned when a reservation exceeds available funds.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Manager guards the funding configuration.
type Manager struct {
	mu         sync.Mutex
	state      model.FundingConfig
	processors map[model.PaymentMethod]Processor
}

// NewManager creates an unfunded manager with medium risk and the given
// deposit processors.
func NewManager(processors map[model.PaymentMethod]Processor) *Manager {
	if processors == nil {
		processors = map[model.PaymentMethod]Processor{}
	}
	return &Manager{
		state:      model.FundingConfig{RiskLevel: model.RiskMedium},
		processors: processors,
	}
}

// GetState returns a copy of the current configuration.
func (m *Manager) GetState() model.FundingConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Configure replaces the configuration after validating it.
func (m *Manager) Configure(available, maxPerTrade float64, risk string) error {
	if invalidAmount(available) || invalidAmount(maxPerTrade) {
		return &model.ConfigError{Field: "funding", Reason: "please enter valid amounts"}
	}
	if maxPerTrade > available {
		return &model.ConfigError{Field: "max_per_trade", Reason: "max per trade cannot exceed available funds"}
	}
	level, err := model.ParseRiskLevel(risk)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = model.FundingConfig{
		AvailableFunds: available,
		MaxPerTrade:    maxPerTrade,
		RiskLevel:      level,
	}
	return nil
}

// Reserve takes notional out of the available funds for a buy. It fails
// without changing anything when the funds do not cover it.
func (m *Manager) Reserve(notional float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if notional > m.state.AvailableFunds {
		return fmt.Errorf("reserve %.2f of %.2f: %w", notional, m.state.AvailableFunds, ErrInsufficientFunds)
	}
	m.state.AvailableFunds -= notional
	return nil
}

// Release returns a reservation whose order did not go through.
func (m *Manager) Release(notional float64) {
	m.Credit(notional)
}

// Credit adds proceeds to the available funds.
func (m *Manager) Credit(amount float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.AvailableFunds += amount
}

func invalidAmount(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0) || v <= 0
}
