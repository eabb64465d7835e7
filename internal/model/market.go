package model

import "time"

// Coin is one row of the target/market list.
type Coin struct {
	ID        string  `json:"id"`
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Trend     float64 `json:"trend"` // 24h change in percent
	Volume    float64 `json:"volume"`
	MarketCap float64 `json:"marketCap"`
	Image     string  `json:"image,omitempty"`

	// Set only when the list was loaded from an exchange account.
	Balance  float64 `json:"balance,omitempty"`
	USDValue float64 `json:"usdValue,omitempty"`
}

// MarketData is the market section of the session state.
type MarketData struct {
	Coins        []Coin    `json:"coins"`
	TotalBalance float64   `json:"totalBalance"`
	ProfitLoss   float64   `json:"profitLoss"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// FindCoin looks a coin up by symbol. Bots and applied strategies keep weak
// references to symbols, so a miss is a normal outcome.
func FindCoin(coins []Coin, symbol string) (Coin, bool) {
	for _, c := range coins {
		if c.Symbol == symbol {
			return c, true
		}
	}
	return Coin{}, false
}

// ProductID returns the exchange product for a coin quoted in USD.
func ProductID(symbol string) string {
	return symbol + "-USD"
}
