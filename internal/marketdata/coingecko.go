package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"TradeConsole/internal/model"
)

// DefaultCoinGeckoURL is the public aggregator API root.
const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// CoinGeckoFetcher implements Fetcher with the CoinGecko markets endpoint.
type CoinGeckoFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewCoinGeckoFetcher creates a fetcher with optional proxy support.
func NewCoinGeckoFetcher(baseURL, proxyURL string) *CoinGeckoFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultCoinGeckoURL
	}
	return &CoinGeckoFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *CoinGeckoFetcher) Name() string { return "coingecko" }

// geckoCoin is one element of the /coins/markets reply. Null numbers decode
// as zero.
type geckoCoin struct {
	ID        string   `json:"id"`
	Symbol    string   `json:"symbol"`
	Name      string   `json:"name"`
	Price     float64  `json:"current_price"`
	Change24h *float64 `json:"price_change_percentage_24h"`
	Volume    float64  `json:"total_volume"`
	MarketCap float64  `json:"market_cap"`
	Image     string   `json:"image"`
}

func (f *CoinGeckoFetcher) FetchCoins(ctx context.Context) ([]model.Coin, error) {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("order", "market_cap_desc")
	q.Set("per_page", "50")
	q.Set("page", "1")
	q.Set("sparkline", "false")
	q.Set("price_change_percentage", "24h")
	endpoint := f.BaseURL + "/coins/markets?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &FetchError{Message: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Status: resp.StatusCode}
	}

	var raw []geckoCoin
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &FetchError{Message: fmt.Sprintf("decode markets: %v", err)}
	}
	coins := make([]model.Coin, len(raw))
	for i, g := range raw {
		trend := 0.0
		if g.Change24h != nil {
			trend = *g.Change24h
		}
		coins[i] = model.Coin{
			ID:        g.ID,
			Symbol:    strings.ToUpper(g.Symbol),
			Name:      g.Name,
			Price:     g.Price,
			Trend:     trend,
			Volume:    g.Volume,
			MarketCap: g.MarketCap,
			Image:     g.Image,
		}
	}
	return coins, nil
}
