package workflow

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"TradeConsole/internal/catalog"
	"TradeConsole/internal/chart"
	"TradeConsole/internal/funding"
	"TradeConsole/internal/logbook"
	"TradeConsole/internal/model"
	"TradeConsole/internal/random"
	"TradeConsole/internal/session"
)

type call struct {
	side   model.Side
	symbol string
	amount float64
}

type stubTrader struct {
	mu    sync.Mutex
	ok    bool
	calls []call
}

func (s *stubTrader) Execute(_ context.Context, _ *session.State, side model.Side, coin model.Coin, amount float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{side, coin.Symbol, amount})
	return s.ok
}

func newSimulator(src random.Source, trader Trader) *Simulator {
	cat := catalog.Default()
	st := session.New(logbook.New(nil), funding.NewManager(nil), cat.Strategies, random.New(1))
	st.SetClock(func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) })
	return New(context.Background(), st, cat, trader, src, nil)
}

func countPrefix(entries []model.LogEntry, typ model.LogType, prefix string) int {
	n := 0
	for _, e := range entries {
		if e.Type == typ && strings.HasPrefix(e.Text, prefix) {
			n++
		}
	}
	return n
}

func TestAnalysisPass_DiscoversToTarget(t *testing.T) {
	src := random.NewSequence(
		0.1,                // keep list
		0.0,                // target 3
		0.0, 0.5, 0.5,      // BTC
		0.05,               // BTC again, skipped
		0.1, 0.5, 0.5,      // ETH
		0.2, 0.5, 0.5,      // XRP
		0.0,                // 2 strategies
		0.0, 0.0, 0.0, 0.0, // strategy/coin pairs
		0.0,                // no bots
		0.5,                // balance +50
		0.0,                // no failure
	)
	sim := newSimulator(src, &stubTrader{})
	sim.RunAnalysisPass()

	snap := sim.State.Snapshot()
	coins := snap.Market.Coins
	if len(coins) != 3 {
		t.Fatalf("expected 3 coins, got %d", len(coins))
	}
	for i, sym := range []string{"BTC", "ETH", "XRP"} {
		if coins[i].Symbol != sym {
			t.Errorf("coin %d: expected %s, got %s", i, sym, coins[i].Symbol)
		}
	}
	if coins[0].Price != 510 || coins[0].Trend != 2 {
		t.Errorf("unexpected BTC draw %+v", coins[0])
	}
	if n := countPrefix(sim.State.Log.Entries(), model.LogAnalysis, "Added "); n != 3 {
		t.Errorf("expected 3 discovery entries, got %d", n)
	}
	if len(snap.AppliedStrategies) != 2 || snap.AppliedStrategies[0].Name != "Mean Reversion" || snap.AppliedStrategies[0].CoinSymbol != "BTC" {
		t.Errorf("unexpected applied strategies %+v", snap.AppliedStrategies)
	}
	if snap.Market.TotalBalance != 50 || snap.Market.ProfitLoss != 50 {
		t.Errorf("expected balance drift of 50, got %v/%v", snap.Market.TotalBalance, snap.Market.ProfitLoss)
	}
	if src.Used() != 20 {
		t.Errorf("expected 20 draws, got %d", src.Used())
	}
}

func seedCoins(sim *Simulator, bots ...model.Bot) {
	sim.State.Mutate(func(d *session.Data) {
		d.Market.Coins = []model.Coin{
			{Symbol: "BTC", Price: 100},
			{Symbol: "ETH", Price: 50},
			{Symbol: "XRP", Price: 1},
			{Symbol: "ADA", Price: 2},
			{Symbol: "SOL", Price: 20},
		}
		d.Bots = bots
	})
}

func TestAnalysisPass_SpawnsBotTrade(t *testing.T) {
	src := random.NewSequence(
		0.0,                // keep list
		0.99,               // target 5, already full
		0.0,                // 2 strategies
		0.0, 0.0, 0.0, 0.0, // pairs
		0.0,                // no new bots
		0.9,                // trade
		0.0,                // bot 0
		0.9,                // buy
		0.5,                // amount 0.55
		0.25,               // balance +0
		0.0,                // no failure
	)
	trader := &stubTrader{ok: true}
	sim := newSimulator(src, trader)
	seedCoins(sim, model.Bot{ID: 7, Coin: "BTC", Strategy: "Arbitrage", Status: model.BotActive})

	sim.RunAnalysisPass()
	sim.Wait()

	if len(trader.calls) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trader.calls))
	}
	c := trader.calls[0]
	if c.side != model.SideBuy || c.symbol != "BTC" || c.amount != 0.55 {
		t.Errorf("unexpected trade %+v", c)
	}
	if n := countPrefix(sim.State.Log.Entries(), model.LogTrade, "BOT #7: BUY 0.55000 BTC @ $100.00 = $55.00"); n != 1 {
		t.Errorf("expected the bot trade line, got entries %+v", sim.State.Log.Entries())
	}
}

func TestAnalysisPass_StaleBotSkipsTrade(t *testing.T) {
	src := random.NewSequence(
		0.0, 0.99, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0,
		0.9, // trade gate passes
		0.0, // bot 0, coin gone
		0.25,
		0.0,
	)
	trader := &stubTrader{ok: true}
	sim := newSimulator(src, trader)
	seedCoins(sim, model.Bot{ID: 1, Coin: "GONE"})

	sim.RunAnalysisPass()
	sim.Wait()
	if len(trader.calls) != 0 {
		t.Errorf("stale bot should not trade, got %+v", trader.calls)
	}
	if got := sim.State.Snapshot().Market.TotalBalance; got != 0 {
		t.Errorf("expected no balance drift, got %v", got)
	}
}

func TestAnalysisPass_BotRosterGrowsMonotonically(t *testing.T) {
	sim := newSimulator(random.New(2024), &stubTrader{ok: false})
	prev := 0
	for i := 0; i < 50; i++ {
		sim.RunAnalysisPass()
		n := len(sim.State.Snapshot().Bots)
		if n < prev {
			t.Fatalf("pass %d: roster shrank from %d to %d", i, prev, n)
		}
		prev = n
		if got := sim.State.Log.Len(); got > logbook.Capacity {
			t.Fatalf("log grew past capacity: %d", got)
		}
	}
	sim.Wait()
	if prev == 0 {
		t.Error("expected some bots after 50 passes")
	}
}

func TestAnalysisPass_InjectsFailure(t *testing.T) {
	src := random.NewSequence(0.0, 0.99, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.25, 0.95, 0.0)
	sim := newSimulator(src, &stubTrader{})
	seedCoins(sim)

	sim.RunAnalysisPass()
	if n := countPrefix(sim.State.Log.Entries(), model.LogError, "ERROR: API rate limit exceeded"); n != 1 {
		t.Errorf("expected injected failure, got %+v", sim.State.Log.Entries())
	}
}

func TestChartPass_Windows(t *testing.T) {
	sim := newSimulator(random.New(9), &stubTrader{})
	for i := 0; i < 30; i++ {
		sim.RunChartPass()
	}
	snap := sim.State.Snapshot()
	if len(snap.Charts.Prices) != chart.PriceWindow || len(snap.Charts.Activity) != chart.ActivityWindow {
		t.Errorf("expected windows of 20/12, got %d/%d", len(snap.Charts.Prices), len(snap.Charts.Activity))
	}
}

func TestAnalyzeCoin(t *testing.T) {
	sim := newSimulator(random.New(1), &stubTrader{})
	seedCoins(sim)

	if sim.AnalyzeCoin("doge") {
		t.Error("expected unknown coin to fail")
	}
	if e := sim.State.Log.Entries()[0]; e.Type != model.LogWarning {
		t.Errorf("expected warning, got %+v", e)
	}

	if !sim.AnalyzeCoin("eth") {
		t.Fatal("expected ETH analysis")
	}
	entries := sim.State.Log.Entries()
	if entries[1].Text != "Starting deep analysis of ETH..." {
		t.Errorf("unexpected start line %q", entries[1].Text)
	}
	if !strings.HasPrefix(entries[0].Text, "ETH: price $50.00, 24h trend +0.00%") {
		t.Errorf("unexpected summary %q", entries[0].Text)
	}
	if !strings.Contains(entries[0].Text, "signal hold (score +0.00)") {
		t.Errorf("summary missing signal: %q", entries[0].Text)
	}
}
