package exchange

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"TradeConsole/internal/model"
)

// Paper is an in-process exchange that fills every order and reports a
// fixed set of balances. Prices come from Prices first, then from Public
// when set.
type Paper struct {
	Balances map[string]decimal.Decimal
	Prices   map[string]decimal.Decimal
	Public   Exchange

	mu     sync.Mutex
	orders []OrderAck
}

// NewPaper creates a paper exchange backed by public for price lookups.
func NewPaper(balances map[string]decimal.Decimal, public Exchange) *Paper {
	return &Paper{Balances: balances, Prices: map[string]decimal.Decimal{}, Public: public}
}

func (p *Paper) Name() string { return "paper" }

func (p *Paper) Accounts(_ context.Context, _ model.APICredential) ([]Account, error) {
	accounts := make([]Account, 0, len(p.Balances))
	for cur, bal := range p.Balances {
		accounts = append(accounts, Account{
			ID:        "paper-" + cur,
			Currency:  cur,
			Balance:   bal,
			Available: bal,
		})
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Currency < accounts[j].Currency })
	return accounts, nil
}

func (p *Paper) ProductStats(ctx context.Context, productID string) (Stats, error) {
	if price, ok := p.Prices[productID]; ok {
		return Stats{Open: price, High: price, Low: price, Last: price}, nil
	}
	if p.Public != nil {
		return p.Public.ProductStats(ctx, productID)
	}
	return Stats{}, &APIError{Status: 404, Message: "NotFound"}
}

func (p *Paper) PlaceOrder(_ context.Context, _ model.APICredential, order Order) (OrderAck, error) {
	ack := OrderAck{
		ID:        uuid.NewString(),
		ClientOID: order.ClientOID,
		ProductID: order.ProductID,
		Side:      order.Side,
		Size:      order.Size,
		Status:    "done",
	}
	p.mu.Lock()
	p.orders = append(p.orders, ack)
	p.mu.Unlock()
	return ack, nil
}

// Orders returns the orders filled so far.
func (p *Paper) Orders() []OrderAck {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]OrderAck(nil), p.orders...)
}
