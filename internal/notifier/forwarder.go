package notifier

import (
	"context"
	"html"

	"go.uber.org/zap"

	"TradeConsole/internal/model"
)

// Sender delivers one chat message.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Forwarder relays trade and error log entries to the chat once the session
// has been paired. Delivery runs on its own goroutine and drops entries
// when the queue is full.
type Forwarder struct {
	sender Sender
	paired func() bool
	queue  chan model.LogEntry
	logger *zap.Logger
}

// NewForwarder creates a forwarder. paired reports whether the chat is
// connected.
func NewForwarder(sender Sender, paired func() bool, logger *zap.Logger) *Forwarder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Forwarder{
		sender: sender,
		paired: paired,
		queue:  make(chan model.LogEntry, 64),
		logger: logger.Named("forwarder"),
	}
}

// Consume queues trade and error entries.
func (f *Forwarder) Consume(entry model.LogEntry) {
	if entry.Type != model.LogTrade && entry.Type != model.LogError {
		return
	}
	if !f.paired() {
		return
	}
	select {
	case f.queue <- entry:
	default:
		f.logger.Warn("forward queue full, dropping entry", zap.String("text", entry.Text))
	}
}

// Run delivers queued entries until ctx is cancelled.
func (f *Forwarder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-f.queue:
			if err := f.sender.Send(ctx, FormatLogEntry(e)); err != nil {
				f.logger.Error("forward entry", zap.Error(err))
			}
		}
	}
}

// FormatLogEntry renders one entry as a chat line.
func FormatLogEntry(e model.LogEntry) string {
	icon := "ℹ️"
	switch e.Type {
	case model.LogTrade:
		icon = "💱"
	case model.LogError:
		icon = "❌"
	case model.LogWarning:
		icon = "⚠️"
	}
	return icon + " <code>" + e.Time + "</code> " + html.EscapeString(e.Text)
}
