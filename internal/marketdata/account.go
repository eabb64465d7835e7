package marketdata

import (
	"context"
	"errors"
	"strings"
	"sync"

	"TradeConsole/internal/exchange"
	"TradeConsole/internal/model"
)

// AccountFetcher builds the coin list from the non-zero balances of an
// exchange account.
type AccountFetcher struct {
	Exchange exchange.Exchange
}

// FetchAccount lists balances and prices each one. A failed price lookup
// leaves that coin at price 0 and trend 0.
func (f *AccountFetcher) FetchAccount(ctx context.Context, cred model.APICredential) ([]model.Coin, float64, error) {
	accounts, err := f.Exchange.Accounts(ctx, cred)
	if err != nil {
		var apiErr *exchange.APIError
		if errors.As(err, &apiErr) {
			return nil, 0, &FetchError{Status: apiErr.Status, Message: apiErr.Message}
		}
		return nil, 0, &FetchError{Message: err.Error()}
	}

	active := make([]exchange.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.Balance.IsPositive() {
			active = append(active, a)
		}
	}

	coins := make([]model.Coin, len(active))
	var wg sync.WaitGroup
	for i, a := range active {
		wg.Add(1)
		go func(i int, a exchange.Account) {
			defer wg.Done()
			coins[i] = f.price(ctx, a)
		}(i, a)
	}
	wg.Wait()

	var total float64
	for _, c := range coins {
		total += c.USDValue
	}
	return coins, total, nil
}

func (f *AccountFetcher) price(ctx context.Context, a exchange.Account) model.Coin {
	balance := a.Balance.InexactFloat64()
	coin := model.Coin{
		ID:      strings.ToLower(a.Currency),
		Symbol:  a.Currency,
		Name:    a.Currency,
		Balance: balance,
	}
	stats, err := f.Exchange.ProductStats(ctx, model.ProductID(a.Currency))
	if err != nil {
		return coin
	}
	coin.Price = stats.Last.InexactFloat64()
	if !stats.Open.IsZero() {
		coin.Trend = stats.Last.Sub(stats.Open).Div(stats.Open).InexactFloat64() * 100
	}
	coin.USDValue = balance * coin.Price
	return coin
}
