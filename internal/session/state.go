// Package session holds the single mutable state of a console session and
// fans state changes out to the attached renderers.
package session

import (
	"strings"
	"sync"
	"time"

	"TradeConsole/internal/chart"
	"TradeConsole/internal/funding"
	"TradeConsole/internal/logbook"
	"TradeConsole/internal/model"
	"TradeConsole/internal/random"
)

// Data is the mutable part of the session. It is only touched through
// State.Mutate or State.Read.
type Data struct {
	Market            model.MarketData
	LastAnalysis      time.Time
	Strategies        []model.Strategy
	AppliedStrategies []model.AppliedStrategy
	Bots              []model.Bot
	Credentials       map[string]model.APICredential
	SelectedExchange  string
	WorkflowActive    bool
	TelegramConnected bool
	ActivationCode    string
	Charts            chart.Series
}

// State is the aggregate root of one session.
//
// Log and Funds carry their own locks. Never record a log entry while
// holding the state lock: renderers take snapshots from inside RenderLogs.
type State struct {
	mu   sync.Mutex
	data Data

	Log   *logbook.Logbook
	Funds *funding.Manager

	rmu       sync.RWMutex
	renderers []Renderer

	now func() time.Time
}

// New creates a session with the given strategy catalog. The activation
// code for Telegram pairing is drawn from src.
func New(log *logbook.Logbook, funds *funding.Manager, strategies []model.Strategy, src random.Source) *State {
	s := &State{
		data: Data{
			Strategies:       append([]model.Strategy(nil), strategies...),
			Credentials:      map[string]model.APICredential{model.ExchangeCoinbase: {}},
			SelectedExchange: model.ExchangeCoinbase,
			ActivationCode:   ActivationCode(src),
			Charts:           chart.NewSeries(),
		},
		Log:   log,
		Funds: funds,
		now:   time.Now,
	}
	log.SetRenderer(s)
	return s
}

// SetClock replaces the wall clock. Used by tests.
func (s *State) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Now returns the session clock's current time.
func (s *State) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now()
}

// Mutate runs fn with exclusive access to the session data.
func (s *State) Mutate(fn func(d *Data)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
}

// Read runs fn with exclusive access to the session data. fn must not keep
// references to slices or maps after it returns.
func (s *State) Read(fn func(d *Data)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.data)
}

// Credential returns the stored credential for exchange.
func (s *State) Credential(exchange string) model.APICredential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Credentials[exchange]
}

// Coins returns a copy of the current coin list.
func (s *State) Coins() []model.Coin {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Coin(nil), s.data.Market.Coins...)
}

const activationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ActivationCode draws a pairing code of the form XXXX-XXXX-XXXX.
func ActivationCode(src random.Source) string {
	var b strings.Builder
	for g := 0; g < 3; g++ {
		if g > 0 {
			b.WriteByte('-')
		}
		for i := 0; i < 4; i++ {
			b.WriteByte(activationAlphabet[random.Intn(src, len(activationAlphabet))])
		}
	}
	return b.String()
}
