package session

import (
	"time"

	"TradeConsole/internal/chart"
	"TradeConsole/internal/model"
)

// View names a region of the console that can be redrawn independently.
type View string

const (
	ViewDashboard  View = "dashboard"
	ViewCoins      View = "coins"
	ViewStrategies View = "strategies"
	ViewCharts     View = "charts"
	ViewConnection View = "connection"
	ViewAll        View = "all"
)

// Renderer draws snapshots of the session. Implementations must not call
// back into State.Mutate from Render.
type Renderer interface {
	RenderLogs(entries []model.LogEntry, filter string)
	Render(view View, snap Snapshot)
}

// Snapshot is a deep copy of the session suitable for rendering or encoding.
type Snapshot struct {
	Market            model.MarketData               `json:"market"`
	LastAnalysis      time.Time                      `json:"lastAnalysis"`
	Strategies        []model.Strategy               `json:"strategies"`
	AppliedStrategies []model.AppliedStrategy        `json:"appliedStrategies"`
	Bots              []model.Bot                    `json:"bots"`
	Credentials       map[string]model.APICredential `json:"credentials"`
	SelectedExchange  string                         `json:"selectedExchange"`
	WorkflowActive    bool                           `json:"workflowActive"`
	TelegramConnected bool                           `json:"telegramConnected"`
	ActivationCode    string                         `json:"activationCode"`
	Charts            chart.Series                   `json:"charts"`
	Indicators        chart.Indicators               `json:"indicators"`
	Funding           model.FundingConfig            `json:"funding"`
	Logs              []model.LogEntry               `json:"logs"`
	LogFilter         string                         `json:"logFilter"`
}

// Snapshot copies the session.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		Market:            s.data.Market,
		LastAnalysis:      s.data.LastAnalysis,
		Strategies:        append([]model.Strategy(nil), s.data.Strategies...),
		AppliedStrategies: append([]model.AppliedStrategy(nil), s.data.AppliedStrategies...),
		Bots:              append([]model.Bot(nil), s.data.Bots...),
		Credentials:       make(map[string]model.APICredential, len(s.data.Credentials)),
		SelectedExchange:  s.data.SelectedExchange,
		WorkflowActive:    s.data.WorkflowActive,
		TelegramConnected: s.data.TelegramConnected,
		ActivationCode:    s.data.ActivationCode,
		Charts:            s.data.Charts.Clone(),
	}
	snap.Market.Coins = append([]model.Coin(nil), s.data.Market.Coins...)
	for k, v := range s.data.Credentials {
		snap.Credentials[k] = v
	}
	s.mu.Unlock()

	snap.Indicators = snap.Charts.Indicators()
	snap.Funding = s.Funds.GetState()
	snap.Logs = s.Log.Filtered()
	snap.LogFilter = s.Log.Filter()
	return snap
}

// AddRenderer registers r to receive every redraw.
func (s *State) AddRenderer(r Renderer) {
	s.rmu.Lock()
	defer s.rmu.Unlock()
	s.renderers = append(s.renderers, r)
}

// Render takes one snapshot and hands it to every renderer for each view.
// Must be called without holding the state lock.
func (s *State) Render(views ...View) {
	rs := s.registered()
	if len(rs) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, r := range rs {
		for _, v := range views {
			r.Render(v, snap)
		}
	}
}

// RenderLogs forwards a log redraw to every renderer.
func (s *State) RenderLogs(entries []model.LogEntry, filter string) {
	for _, r := range s.registered() {
		r.RenderLogs(entries, filter)
	}
}

func (s *State) registered() []Renderer {
	s.rmu.RLock()
	defer s.rmu.RUnlock()
	return append([]Renderer(nil), s.renderers...)
}
