package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"TradeConsole/internal/catalog"
	"TradeConsole/internal/model"
	"TradeConsole/internal/random"
	"TradeConsole/internal/session"
)

// Event is a log line produced by a step, recorded once the state lock is
// released.
type Event struct {
	Text string
	Type model.LogType
}

func analysis(format string, args ...any) Event {
	return Event{Text: fmt.Sprintf(format, args...), Type: model.LogAnalysis}
}

// clearCoins drops the coin list with probability 0.3.
func clearCoins(d *session.Data, src random.Source) {
	if src.Float64() > 0.7 {
		d.Market.Coins = nil
	}
}

// discoverCoins tops the coin list up to 3-5 entries from the candidate
// pool. Each addition gets a price in [10, 1010) and a trend in [-3, 7).
func discoverCoins(d *session.Data, candidates []catalog.Candidate, src random.Source) []Event {
	target := 3 + random.Intn(src, 3)
	var events []Event
	for len(d.Market.Coins) < target && hasUnused(d.Market.Coins, candidates) {
		cand := candidates[random.Intn(src, len(candidates))]
		if _, ok := model.FindCoin(d.Market.Coins, cand.Symbol); ok {
			continue
		}
		coin := model.Coin{
			Symbol: cand.Symbol,
			Name:   cand.Name,
			Price:  random.Between(src, 10, 1010),
		}
		coin.Trend = src.Float64()*10 - 3
		d.Market.Coins = append(d.Market.Coins, coin)
		events = append(events, analysis("Added %s to target list based on pattern analysis", coin.Symbol))
	}
	return events
}

func hasUnused(coins []model.Coin, candidates []catalog.Candidate) bool {
	for _, c := range candidates {
		if _, ok := model.FindCoin(coins, c.Symbol); !ok {
			return true
		}
	}
	return false
}

// applyStrategies rebuilds the applied list with 2-4 (strategy, coin) pairs.
// Repeats are allowed.
func applyStrategies(d *session.Data, src random.Source) []Event {
	d.AppliedStrategies = nil
	if len(d.Strategies) == 0 || len(d.Market.Coins) == 0 {
		return nil
	}
	n := 2 + random.Intn(src, 3)
	events := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		strat := d.Strategies[random.Intn(src, len(d.Strategies))]
		coin := d.Market.Coins[random.Intn(src, len(d.Market.Coins))]
		d.AppliedStrategies = append(d.AppliedStrategies, model.AppliedStrategy{Strategy: strat, CoinSymbol: coin.Symbol})
		events = append(events, analysis("Applied %s strategy to %s", strat.Name, coin.Symbol))
	}
	return events
}

// spawnBots appends 0-2 bots. IDs are the pass time in milliseconds plus the
// bot's index within the pass.
func spawnBots(d *session.Data, now time.Time, src random.Source) []Event {
	if len(d.Strategies) == 0 || len(d.Market.Coins) == 0 {
		return nil
	}
	n := random.Intn(src, 3)
	var events []Event
	for i := 0; i < n; i++ {
		coin := d.Market.Coins[random.Intn(src, len(d.Market.Coins))]
		strat := d.Strategies[random.Intn(src, len(d.Strategies))]
		bot := model.Bot{
			ID:        now.UnixMilli() + int64(i),
			Coin:      coin.Symbol,
			Strategy:  strat.Name,
			Status:    model.BotActive,
			StartTime: now,
		}
		d.Bots = append(d.Bots, bot)
		events = append(events, Event{
			Text: fmt.Sprintf("Started new trading bot for %s using %s", bot.Coin, bot.Strategy),
			Type: model.LogTrade,
		})
	}
	return events
}

// botTrade is a trade chosen by a pass and run after it returns.
type botTrade struct {
	BotID  int64
	Coin   model.Coin
	Side   model.Side
	Amount decimal.Decimal // five decimal places
	Profit float64         // sells only, percent
}

// pickTrade chooses a bot trade with probability 0.7 when bots exist. A bot
// whose coin has left the list trades nothing.
func pickTrade(d *session.Data, src random.Source) (botTrade, bool) {
	if len(d.Bots) == 0 || src.Float64() <= 0.3 {
		return botTrade{}, false
	}
	bot := d.Bots[random.Intn(src, len(d.Bots))]
	coin, ok := model.FindCoin(d.Market.Coins, bot.Coin)
	if !ok {
		return botTrade{}, false
	}
	t := botTrade{BotID: bot.ID, Coin: coin, Side: model.SideSell}
	if src.Float64() > 0.5 {
		t.Side = model.SideBuy
	}
	t.Amount = decimal.NewFromFloat(random.Between(src, 0.1, 1.0)).Round(5)
	if t.Side == model.SideSell {
		t.Profit = src.Float64()*6 - 1.5
	}
	return t, true
}

// line is the log text for a filled bot trade.
func (t botTrade) line() string {
	value := t.Amount.InexactFloat64() * t.Coin.Price
	text := fmt.Sprintf("BOT #%d: %s %s %s @ $%.2f = $%.2f",
		t.BotID, strings.ToUpper(string(t.Side)), t.Amount.StringFixed(5), t.Coin.Symbol, t.Coin.Price, value)
	if t.Side == model.SideSell {
		text += fmt.Sprintf(" (%.2f%%)", t.Profit)
	}
	return text
}

// driftBalance moves the balance and P/L by the same amount in [-50, 150).
func driftBalance(d *session.Data, src random.Source) {
	delta := src.Float64()*200 - 50
	d.Market.TotalBalance += delta
	d.Market.ProfitLoss += delta
}

// injectFailure emits one synthetic error with probability 0.1.
func injectFailure(failures []string, src random.Source) []Event {
	if len(failures) == 0 || src.Float64() <= 0.9 {
		return nil
	}
	msg := failures[random.Intn(src, len(failures))]
	return []Event{{Text: "ERROR: " + msg, Type: model.LogError}}
}
