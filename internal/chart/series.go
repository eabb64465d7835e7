// Package chart keeps the two rolling chart series shown on the dashboard:
// a price line and a buy/sell activity histogram.
package chart

import (
	"fmt"
	"time"

	"TradeConsole/internal/calculator"
	"TradeConsole/internal/model"
	"TradeConsole/internal/random"
)

const (
	PriceWindow    = 20
	ActivityWindow = 12

	indicatorPeriod = 14
)

// PricePoint is one point of the price line.
type PricePoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ActivityBucket is one bar pair of the activity histogram.
type ActivityBucket struct {
	Label string `json:"label"`
	Buy   int    `json:"buy"`
	Sell  int    `json:"sell"`
}

// Series holds both rolling windows.
type Series struct {
	Label    string           `json:"label"`
	Prices   []PricePoint     `json:"prices"`
	Activity []ActivityBucket `json:"activity"`
}

// NewSeries returns empty series labelled for BTC.
func NewSeries() Series {
	return Series{Label: "BTC Price"}
}

// PushPrice appends a price point, evicting the oldest past the window.
func (s *Series) PushPrice(label string, v float64) {
	s.Prices = append(s.Prices, PricePoint{Label: label, Value: v})
	if len(s.Prices) > PriceWindow {
		s.Prices = append(s.Prices[:0:0], s.Prices[len(s.Prices)-PriceWindow:]...)
	}
}

// PushActivity appends an activity bucket, evicting the oldest past the window.
func (s *Series) PushActivity(label string, buy, sell int) {
	s.Activity = append(s.Activity, ActivityBucket{Label: label, Buy: buy, Sell: sell})
	if len(s.Activity) > ActivityWindow {
		s.Activity = append(s.Activity[:0:0], s.Activity[len(s.Activity)-ActivityWindow:]...)
	}
}

// Tick appends one synthetic price tick and one activity bucket. The first
// price is drawn in [30000, 31000); later ones drift by up to ±100.
func (s *Series) Tick(now time.Time, src random.Source) {
	var last float64
	if n := len(s.Prices); n > 0 {
		last = s.Prices[n-1].Value
	} else {
		last = random.Between(src, 30000, 31000)
	}
	change := (src.Float64() - 0.5) * 200
	s.PushPrice(now.Format("15:04"), last+change)

	buy := random.Intn(src, 8)
	sell := random.Intn(src, 6)
	s.PushActivity(fmt.Sprintf("%d:00", now.Hour()), buy, sell)
}

// SeedFromCoin replaces the price line with a synthetic history for coin:
// PriceWindow points spaced 30 minutes apart, oldest first, drifting
// towards the current price along the coin's 24h trend.
func (s *Series) SeedFromCoin(coin model.Coin, now time.Time, src random.Source) {
	s.Label = coin.Symbol + " Price"
	trend := coin.Trend / 100
	points := make([]PricePoint, PriceWindow)
	last := float64(PriceWindow - 1)
	for i := PriceWindow - 1; i >= 0; i-- {
		noise := (src.Float64() - 0.5) * 2
		factor := 1 + trend*(float64(i)/last) + noise*0.01
		ts := now.Add(-time.Duration(i) * 30 * time.Minute)
		points[PriceWindow-1-i] = PricePoint{Label: ts.Format("15:04"), Value: coin.Price * factor}
	}
	s.Prices = points
}

// PrimaryCoin picks the coin the price line follows: BTC when present,
// otherwise the first coin.
func PrimaryCoin(coins []model.Coin) (model.Coin, bool) {
	if c, ok := model.FindCoin(coins, "BTC"); ok {
		return c, true
	}
	if len(coins) == 0 {
		return model.Coin{}, false
	}
	return coins[0], true
}

// Clone returns a deep copy.
func (s Series) Clone() Series {
	return Series{
		Label:    s.Label,
		Prices:   append([]PricePoint(nil), s.Prices...),
		Activity: append([]ActivityBucket(nil), s.Activity...),
	}
}

// Indicators summarises the price window.
type Indicators struct {
	Ready    bool    `json:"ready"`
	Last     float64 `json:"last"`
	SMA      float64 `json:"sma"`
	RSI      float64 `json:"rsi"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Position float64 `json:"position"`
}

// Indicators computes SMA and RSI over the price window. Ready is false until
// the window holds more than indicatorPeriod points.
func (s Series) Indicators() Indicators {
	values := make([]float64, len(s.Prices))
	for i, p := range s.Prices {
		values[i] = p.Value
	}
	if len(values) <= indicatorPeriod {
		return Indicators{}
	}

	ind := Indicators{Ready: true, Last: values[len(values)-1]}
	ind.SMA, _ = calculator.SMA(values, indicatorPeriod)
	ind.RSI, _ = calculator.RSI(values, indicatorPeriod)
	ind.High, ind.Low, _ = calculator.Range(values)
	ind.Position, _ = calculator.Position(ind.Last, ind.High, ind.Low)
	return ind
}
