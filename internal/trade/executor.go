// Package trade places market orders on behalf of the console, enforcing
// the funding limits before anything reaches the exchange.
package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"TradeConsole/internal/exchange"
	"TradeConsole/internal/model"
	"TradeConsole/internal/session"
)

// Kind classifies a failed trade.
type Kind int

const (
	NotConfigured Kind = iota + 1
	InsufficientFunds
	OrderFailed
)

// Error is a failed trade.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	switch e.Kind {
	case NotConfigured:
		return "API not configured"
	case InsufficientFunds:
		return "insufficient funds: " + e.Reason
	default:
		return "Order failed: " + e.Reason
	}
}

// Journal stores filled trades.
type Journal interface {
	RecordTrade(ctx context.Context, t model.Trade) error
}

// Executor submits trades for a session.
type Executor struct {
	Exchange exchange.Exchange
	Journal  Journal
	logger   *zap.Logger
}

// NewExecutor creates an executor. journal may be nil.
func NewExecutor(ex exchange.Exchange, journal Journal, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{Exchange: ex, Journal: journal, logger: logger.Named("trade")}
}

// Execute runs Submit and reduces the outcome to success or failure. The
// reason is always in the session log.
func (e *Executor) Execute(ctx context.Context, st *session.State, side model.Side, coin model.Coin, amount float64) bool {
	_, err := e.Submit(ctx, st, side, coin, amount)
	return err == nil
}

// Submit checks the credential and funding limits, clamps the size to the
// per-trade maximum and places a market order. Buys reserve their notional
// before the order goes out and release it if the order fails.
func (e *Executor) Submit(ctx context.Context, st *session.State, side model.Side, coin model.Coin, amount float64) (model.Trade, error) {
	cred := st.Credential(model.ExchangeCoinbase)
	if !cred.IsConfigured {
		st.Log.Record("Cannot execute trade: API not configured", model.LogError)
		return model.Trade{}, &Error{Kind: NotConfigured}
	}

	funds := st.Funds.GetState()
	notional := amount * coin.Price
	if side == model.SideBuy && notional > funds.AvailableFunds {
		return model.Trade{}, e.insufficient(st, side, coin, amount)
	}

	clamped := false
	if notional > funds.MaxPerTrade {
		st.Log.Record("Trade amount exceeds maximum per trade limit", model.LogWarning)
		amount = funds.MaxPerTrade / coin.Price
		notional = amount * coin.Price
		clamped = true
	}

	if side == model.SideBuy {
		if err := st.Funds.Reserve(notional); err != nil {
			return model.Trade{}, e.insufficient(st, side, coin, amount)
		}
	}

	order := exchange.NewMarketOrder(side, coin.Symbol, amount)
	ack, err := e.Exchange.PlaceOrder(ctx, cred, order)
	if err != nil {
		if side == model.SideBuy {
			st.Funds.Release(notional)
		}
		reason := err.Error()
		var apiErr *exchange.APIError
		if errors.As(err, &apiErr) {
			reason = apiErr.Message
		}
		tradeErr := &Error{Kind: OrderFailed, Reason: reason}
		st.Log.Recordf(model.LogError, "Trade execution error: %v", tradeErr)
		return model.Trade{}, tradeErr
	}

	if side == model.SideSell {
		st.Funds.Credit(notional)
	}

	t := model.Trade{
		Time:     st.Now(),
		OrderID:  ack.ID,
		Symbol:   coin.Symbol,
		Side:     side,
		Size:     amount,
		Price:    coin.Price,
		Notional: notional,
		Clamped:  clamped,
		Exchange: e.Exchange.Name(),
	}
	st.Log.Recordf(model.LogTrade, "Successfully placed %s order for %s %s @ $%.2f = $%.2f",
		strings.ToUpper(string(side)), order.Size.String(), coin.Symbol, coin.Price, notional)

	if e.Journal != nil {
		if err := e.Journal.RecordTrade(ctx, t); err != nil {
			e.logger.Warn("journal trade", zap.String("order_id", ack.ID), zap.Error(err))
		}
	}
	st.Render(session.ViewDashboard)
	return t, nil
}

func (e *Executor) insufficient(st *session.State, side model.Side, coin model.Coin, amount float64) error {
	size := decimal.NewFromFloat(amount).String()
	st.Log.Recordf(model.LogError, "Insufficient funds for %s order of %s %s", side, size, coin.Symbol)
	return &Error{Kind: InsufficientFunds, Reason: fmt.Sprintf("%s %s @ $%.2f", size, coin.Symbol, coin.Price)}
}
