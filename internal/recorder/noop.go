package recorder

import (
	"context"

	"TradeConsole/internal/model"
)

// NoopRecorder is used when no journal database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordLog(context.Context, model.LogEntry) error   { return nil }
func (n *NoopRecorder) RecordTrade(context.Context, model.Trade) error    { return nil }
func (n *NoopRecorder) RecordFundEvent(context.Context, *FundEvent) error { return nil }
func (n *NoopRecorder) Close() error                                      { return nil }
