// Package marketdata loads the coin list, either from the public CoinGecko
// aggregator or from the balances of a credentialed exchange account.
package marketdata

import (
	"context"
	"fmt"

	"TradeConsole/internal/model"
)

// Fetcher returns a fresh public coin list.
type Fetcher interface {
	FetchCoins(ctx context.Context) ([]model.Coin, error)
	Name() string
}

// FetchError is a failed market data request. Status is 0 for transport
// failures.
type FetchError struct {
	Status  int
	Message string
}

func (e *FetchError) Error() string {
	switch {
	case e.Status == 0:
		return e.Message
	case e.Message == "":
		return fmt.Sprintf("API error: %d", e.Status)
	default:
		return fmt.Sprintf("API error: %d: %s", e.Status, e.Message)
	}
}

// MockFetcher returns fixed coins for development and testing.
type MockFetcher struct {
	Coins []model.Coin
	Err   error
	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCoins(_ context.Context) ([]model.Coin, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]model.Coin(nil), m.Coins...), nil
}
