// Package exchange talks to the Coinbase Exchange REST API, or to an
// in-process paper exchange with the same surface.
package exchange

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"TradeConsole/internal/model"
)

// Exchange is the subset of the exchange API the console uses.
type Exchange interface {
	Accounts(ctx context.Context, cred model.APICredential) ([]Account, error)
	ProductStats(ctx context.Context, productID string) (Stats, error)
	PlaceOrder(ctx context.Context, cred model.APICredential, order Order) (OrderAck, error)
	Name() string
}

// Account is one currency balance.
type Account struct {
	ID        string          `json:"id"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Available decimal.Decimal `json:"available"`
	Hold      decimal.Decimal `json:"hold"`
}

// Stats is the 24h summary of a product.
type Stats struct {
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Last   decimal.Decimal `json:"last"`
	Volume decimal.Decimal `json:"volume"`
}

// Order is a market order request.
type Order struct {
	Type      string          `json:"type"`
	Side      model.Side      `json:"side"`
	ProductID string          `json:"product_id"`
	Size      decimal.Decimal `json:"size"`
	ClientOID string          `json:"client_oid"`
}

// NewMarketOrder builds a market order with a fresh client order id.
func NewMarketOrder(side model.Side, symbol string, size float64) Order {
	return Order{
		Type:      "market",
		Side:      side,
		ProductID: model.ProductID(symbol),
		Size:      decimal.NewFromFloat(size),
		ClientOID: uuid.NewString(),
	}
}

// OrderAck is the exchange's reply to an accepted order.
type OrderAck struct {
	ID        string          `json:"id"`
	ClientOID string          `json:"client_oid"`
	ProductID string          `json:"product_id"`
	Side      model.Side      `json:"side"`
	Size      decimal.Decimal `json:"size"`
	Status    string          `json:"status"`
}

// APIError is a non-2xx reply from the exchange.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exchange API error: %d", e.Status)
	}
	return fmt.Sprintf("exchange API error: %d: %s", e.Status, e.Message)
}

// CheckConnection checks a credential by listing accounts.
func CheckConnection(ctx context.Context, ex Exchange, cred model.APICredential) error {
	if _, err := ex.Accounts(ctx, cred); err != nil {
		return fmt.Errorf("check connection: %w", err)
	}
	return nil
}
