package marketdata

import (
	"context"
	"fmt"

	"TradeConsole/internal/chart"
	"TradeConsole/internal/model"
	"TradeConsole/internal/random"
	"TradeConsole/internal/session"
)

// Source picks the account path or the public path for a load.
type Source struct {
	Public  Fetcher
	Account *AccountFetcher
}

// UsesAccount reports whether a load for exchangeName with cred goes to the
// exchange account rather than the public aggregator.
func (s *Source) UsesAccount(exchangeName string, cred model.APICredential) bool {
	return s.Account != nil && exchangeName == model.ExchangeCoinbase && cred.APIKey != ""
}

// FetchMarket returns the coin list and, on the account path, the summed USD
// value of the balances.
func (s *Source) FetchMarket(ctx context.Context, exchangeName string, cred model.APICredential) ([]model.Coin, float64, error) {
	if s.UsesAccount(exchangeName, cred) {
		return s.Account.FetchAccount(ctx, cred)
	}
	coins, err := s.Public.FetchCoins(ctx)
	return coins, 0, err
}

// Loader applies market loads to a session.
type Loader struct {
	Source *Source
	Rand   random.Source
}

// Load fetches the market and replaces the coin list wholesale. On failure
// it logs one error entry and leaves the session untouched.
func (l *Loader) Load(ctx context.Context, st *session.State) bool {
	var exchangeName string
	var cred model.APICredential
	st.Read(func(d *session.Data) {
		exchangeName = d.SelectedExchange
		cred = d.Credentials[exchangeName]
	})

	st.Log.Record("Fetching live market data...", model.LogSystem)
	account := l.Source.UsesAccount(exchangeName, cred)
	if account {
		st.Log.Record("Fetching live Coinbase market data...", model.LogSystem)
	}

	coins, total, err := l.Source.FetchMarket(ctx, exchangeName, cred)
	if err != nil {
		if account {
			st.Log.Record(fmt.Sprintf("Error fetching Coinbase data: Coinbase %v", err), model.LogError)
		} else {
			st.Log.Record(fmt.Sprintf("Error fetching market data: %v", err), model.LogError)
		}
		return false
	}

	now := st.Now()
	st.Mutate(func(d *session.Data) {
		d.Market.Coins = coins
		d.Market.LastUpdated = now
		if account {
			d.Market.TotalBalance = total
		}
		if primary, ok := chart.PrimaryCoin(coins); ok {
			d.Charts.SeedFromCoin(primary, now, l.Rand)
		}
	})

	if account {
		st.Log.Recordf(model.LogSystem, "Successfully loaded live data for %d coins from Coinbase", len(coins))
	} else {
		st.Log.Recordf(model.LogSystem, "Successfully loaded data for %d coins from %s", len(coins), exchangeName)
	}
	st.Render(session.ViewCoins, session.ViewDashboard, session.ViewCharts)
	return true
}
