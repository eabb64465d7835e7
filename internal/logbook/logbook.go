// Package logbook is the console's bounded, newest-first log buffer.
package logbook

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"TradeConsole/internal/model"
)

// Capacity is the maximum number of entries kept.
const Capacity = 100

// Renderer redraws the log view.
type Renderer interface {
	RenderLogs(entries []model.LogEntry, filter string)
}

// Sink receives every recorded entry after it has been buffered.
type Sink interface {
	Consume(entry model.LogEntry)
}

// Logbook records time-stamped, typed messages.
type Logbook struct {
	mu       sync.Mutex
	entries  []model.LogEntry // newest first
	filter   string
	renderer Renderer
	sinks    []Sink

	logger *zap.Logger
	now    func() time.Time
}

// New creates an empty logbook showing all entry types.
func New(logger *zap.Logger) *Logbook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logbook{
		entries: make([]model.LogEntry, 0, Capacity),
		filter:  model.FilterAll,
		logger:  logger.Named("console"),
		now:     time.Now,
	}
}

// SetRenderer attaches the log view.
func (b *Logbook) SetRenderer(r Renderer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.renderer = r
}

// AddSink registers an additional consumer of entries.
func (b *Logbook) AddSink(s Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, s)
}

// Record inserts an entry at the head of the buffer, evicting the oldest one
// past Capacity, and signals the renderer.
func (b *Logbook) Record(text string, typ model.LogType) model.LogEntry {
	entry := model.LogEntry{
		Time: b.now().Format("15:04:05"),
		Text: text,
		Type: typ,
	}

	b.mu.Lock()
	b.entries = append(b.entries, model.LogEntry{})
	copy(b.entries[1:], b.entries)
	b.entries[0] = entry
	if len(b.entries) > Capacity {
		b.entries = b.entries[:Capacity]
	}
	renderer, filter := b.renderer, b.filter
	visible := b.filteredLocked()
	sinks := append([]Sink(nil), b.sinks...)
	b.mu.Unlock()

	b.mirror(entry)
	for _, s := range sinks {
		s.Consume(entry)
	}
	if renderer != nil {
		renderer.RenderLogs(visible, filter)
	}
	return entry
}

// Recordf is Record with a format string.
func (b *Logbook) Recordf(typ model.LogType, format string, args ...any) model.LogEntry {
	return b.Record(fmt.Sprintf(format, args...), typ)
}

// Entries returns a copy of the buffer, newest first.
func (b *Logbook) Entries() []model.LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.LogEntry(nil), b.entries...)
}

// Len returns the number of buffered entries.
func (b *Logbook) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Filter returns the current view filter.
func (b *Logbook) Filter() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

// Filtered returns the entries visible under the current filter.
func (b *Logbook) Filtered() []model.LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filteredLocked()
}

// SetFilter changes the view filter and redraws.
func (b *Logbook) SetFilter(filter string) error {
	f, err := model.ParseLogFilter(filter)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.filter = f
	renderer := b.renderer
	visible := b.filteredLocked()
	b.mu.Unlock()

	if renderer != nil {
		renderer.RenderLogs(visible, f)
	}
	return nil
}

// Clear empties the buffer and records that it did so.
func (b *Logbook) Clear() {
	b.mu.Lock()
	b.entries = b.entries[:0]
	b.mu.Unlock()
	b.Record("Logs cleared", model.LogSystem)
}

func (b *Logbook) filteredLocked() []model.LogEntry {
	out := make([]model.LogEntry, 0, len(b.entries))
	for _, e := range b.entries {
		if e.Matches(b.filter) {
			out = append(out, e)
		}
	}
	return out
}

func (b *Logbook) mirror(e model.LogEntry) {
	fields := []zap.Field{zap.String("type", string(e.Type))}
	switch e.Type {
	case model.LogError:
		b.logger.Error(e.Text, fields...)
	case model.LogWarning:
		b.logger.Warn(e.Text, fields...)
	default:
		b.logger.Info(e.Text, fields...)
	}
}
