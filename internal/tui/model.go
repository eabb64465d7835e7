// Package tui is the terminal dashboard of the console.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"TradeConsole/internal/model"
	"TradeConsole/internal/session"
)

// Actions is the part of the console service the terminal UI drives.
type Actions interface {
	StartWorkflow() error
	StopWorkflow()
	LoadMarketData(ctx context.Context) bool
	AnalyzeCoin(symbol string) bool
	SetLogFilter(filter string) error
	ClearLogs()
	Snapshot() session.Snapshot
}

var filterCycle = []string{
	model.FilterAll,
	string(model.LogSystem),
	string(model.LogAnalysis),
	string(model.LogTrade),
	string(model.LogError),
	string(model.LogWarning),
}

// statusMsg is the result line of a user action.
type statusMsg string

// Model is the bubbletea model of the terminal dashboard.
type Model struct {
	actions Actions
	feed    *Feed
	keys    keyMap
	ctx     context.Context

	snap   session.Snapshot
	logs   []model.LogEntry
	filter string
	cursor int
	status string
	width  int
	height int
	ready  bool
}

// NewModel creates the dashboard model. Redraws arrive through feed.
func NewModel(ctx context.Context, actions Actions, feed *Feed) *Model {
	snap := actions.Snapshot()
	return &Model{
		actions: actions,
		feed:    feed,
		keys:    defaultKeys(),
		ctx:     ctx,
		snap:    snap,
		logs:    snap.Logs,
		filter:  snap.LogFilter,
	}
}

// Run starts the program on the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, actions Actions, feed *Feed) error {
	p := tea.NewProgram(NewModel(ctx, actions, feed), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.feed.listen()
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case snapshotMsg:
		m.snap = msg.snap
		m.logs = msg.snap.Logs
		m.filter = msg.snap.LogFilter
		m.clampCursor()
		return m, m.feed.listen()

	case logsMsg:
		m.logs = msg.entries
		m.filter = msg.filter
		return m, m.feed.listen()

	case statusMsg:
		m.status = string(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snap.Market.Coins)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Start):
		return func() tea.Msg {
			if err := m.actions.StartWorkflow(); err != nil {
				return statusMsg("start failed: " + err.Error())
			}
			return statusMsg("workflow running")
		}
	case key.Matches(msg, m.keys.Stop):
		return func() tea.Msg {
			m.actions.StopWorkflow()
			return statusMsg("workflow stopped")
		}
	case key.Matches(msg, m.keys.Load):
		return func() tea.Msg {
			if m.actions.LoadMarketData(m.ctx) {
				return statusMsg("market data loaded")
			}
			return statusMsg("market load failed")
		}
	case key.Matches(msg, m.keys.Analyze):
		coin, ok := m.selected()
		if !ok {
			return nil
		}
		return func() tea.Msg {
			if m.actions.AnalyzeCoin(coin.Symbol) {
				return statusMsg("analyzed " + coin.Symbol)
			}
			return statusMsg(fmt.Sprintf("%s is no longer listed", coin.Symbol))
		}
	case key.Matches(msg, m.keys.Filter):
		next := nextFilter(m.filter)
		return func() tea.Msg {
			if err := m.actions.SetLogFilter(next); err != nil {
				return statusMsg(err.Error())
			}
			return statusMsg("log filter: " + next)
		}
	case key.Matches(msg, m.keys.Clear):
		return func() tea.Msg {
			m.actions.ClearLogs()
			return statusMsg("logs cleared")
		}
	}
	return nil
}

func (m *Model) selected() (model.Coin, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Market.Coins) {
		return model.Coin{}, false
	}
	return m.snap.Market.Coins[m.cursor], true
}

func (m *Model) clampCursor() {
	if n := len(m.snap.Market.Coins); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func nextFilter(current string) string {
	for i, f := range filterCycle {
		if f == current {
			return filterCycle[(i+1)%len(filterCycle)]
		}
	}
	return model.FilterAll
}
