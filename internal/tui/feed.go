package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"TradeConsole/internal/model"
	"TradeConsole/internal/session"
)

const feedBuffer = 64

type snapshotMsg struct {
	view session.View
	snap session.Snapshot
}

type logsMsg struct {
	entries []model.LogEntry
	filter  string
}

// Feed is the session.Renderer of the terminal UI. Redraws are queued and
// picked up by the running program; when the queue is full the redraw is
// dropped, since a later one carries the newer state.
type Feed struct {
	msgs chan tea.Msg
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{msgs: make(chan tea.Msg, feedBuffer)}
}

// Render implements session.Renderer.
func (f *Feed) Render(view session.View, snap session.Snapshot) {
	f.push(snapshotMsg{view: view, snap: snap})
}

// RenderLogs implements session.Renderer.
func (f *Feed) RenderLogs(entries []model.LogEntry, filter string) {
	f.push(logsMsg{entries: entries, filter: filter})
}

func (f *Feed) push(msg tea.Msg) {
	select {
	case f.msgs <- msg:
	default:
	}
}

func (f *Feed) listen() tea.Cmd {
	return func() tea.Msg {
		return <-f.msgs
	}
}
