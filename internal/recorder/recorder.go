// Package recorder keeps a write-only audit journal of the session: log
// entries, filled trades and funding changes. Nothing is read back.
package recorder

import (
	"context"

	"go.uber.org/zap"

	"TradeConsole/internal/model"
)

// FundEvent records a change of the available funds.
type FundEvent struct {
	EventType   string // "CONFIGURE" or "DEPOSIT"
	Method      string // deposits only
	Before      float64
	After       float64
	MaxPerTrade float64
	Amount      float64
	Note        string
}

// Recorder persists journal records.
type Recorder interface {
	RecordLog(ctx context.Context, entry model.LogEntry) error
	RecordTrade(ctx context.Context, t model.Trade) error
	RecordFundEvent(ctx context.Context, evt *FundEvent) error
	Close() error
}

// LogSink feeds every console log entry into a Recorder.
type LogSink struct {
	Recorder Recorder
	Logger   *zap.Logger
}

func (s LogSink) Consume(entry model.LogEntry) {
	if err := s.Recorder.RecordLog(context.Background(), entry); err != nil && s.Logger != nil {
		s.Logger.Warn("journal log entry", zap.Error(err))
	}
}
