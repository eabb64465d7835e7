// Package workflow runs the randomized market simulation: the analysis pass
// that discovers coins, applies strategies, spawns bots and trades, and the
// chart pass that extends the chart series.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"TradeConsole/internal/catalog"
	"TradeConsole/internal/model"
	"TradeConsole/internal/random"
	"TradeConsole/internal/session"
	"TradeConsole/internal/strategy"
)

// Trader executes a market order for a session.
type Trader interface {
	Execute(ctx context.Context, st *session.State, side model.Side, coin model.Coin, amount float64) bool
}

// Simulator drives the passes for one session.
type Simulator struct {
	State   *session.State
	Catalog *catalog.Catalog
	Trader  Trader
	Rand    random.Source

	ctx    context.Context
	logger *zap.Logger
	trades sync.WaitGroup
}

// New creates a simulator. ctx bounds the bot trades it spawns.
func New(ctx context.Context, st *session.State, cat *catalog.Catalog, trader Trader, src random.Source, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{
		State:   st,
		Catalog: cat,
		Trader:  trader,
		Rand:    src,
		ctx:     ctx,
		logger:  logger.Named("workflow"),
	}
}

// RunAnalysisPass runs one analysis pass. A chosen bot trade is started in
// the background and not waited for.
func (s *Simulator) RunAnalysisPass() {
	s.State.Log.Record("Running market analysis...", model.LogAnalysis)

	now := s.State.Now()
	var events []Event
	var trade botTrade
	var hasTrade bool
	s.State.Mutate(func(d *session.Data) {
		clearCoins(d, s.Rand)
		events = append(events, discoverCoins(d, s.Catalog.Candidates, s.Rand)...)
		events = append(events, applyStrategies(d, s.Rand)...)
		events = append(events, spawnBots(d, now, s.Rand)...)
		trade, hasTrade = pickTrade(d, s.Rand)
		driftBalance(d, s.Rand)
		events = append(events, injectFailure(s.Catalog.Failures, s.Rand)...)
		d.LastAnalysis = now
	})

	for _, e := range events {
		s.State.Log.Record(e.Text, e.Type)
	}
	if hasTrade {
		s.spawnTrade(trade)
	}
	s.State.Render(session.ViewDashboard, session.ViewCoins, session.ViewStrategies, session.ViewCharts)
}

func (s *Simulator) spawnTrade(t botTrade) {
	s.trades.Add(1)
	go func() {
		defer s.trades.Done()
		if s.Trader.Execute(s.ctx, s.State, t.Side, t.Coin, t.Amount.InexactFloat64()) {
			s.State.Log.Record(t.line(), model.LogTrade)
			return
		}
		s.logger.Debug("bot trade not filled", zap.Int64("bot", t.BotID), zap.String("symbol", t.Coin.Symbol))
	}()
}

// Wait blocks until every spawned bot trade has finished.
func (s *Simulator) Wait() {
	s.trades.Wait()
}

// RunChartPass appends one price tick and one activity bucket.
func (s *Simulator) RunChartPass() {
	now := s.State.Now()
	s.State.Mutate(func(d *session.Data) {
		d.Charts.Tick(now, s.Rand)
	})
	s.State.Render(session.ViewCharts)
}

// AnalyzeCoin logs a summary of one coin. The chart indicators are included
// when the price chart follows that coin.
func (s *Simulator) AnalyzeCoin(symbol string) bool {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	s.State.Log.Recordf(model.LogAnalysis, "Starting deep analysis of %s...", symbol)

	snap := s.State.Snapshot()
	coin, ok := model.FindCoin(snap.Market.Coins, symbol)
	if !ok {
		s.State.Log.Recordf(model.LogWarning, "%s is not in the current coin list", symbol)
		return false
	}

	in := strategy.Inputs{Trend: coin.Trend}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: price $%.2f, 24h trend %+.2f%%", coin.Symbol, coin.Price, coin.Trend)
	if ind := snap.Indicators; ind.Ready && snap.Charts.Label == coin.Symbol+" Price" {
		in.Indicators = ind
		fmt.Fprintf(&b, ", SMA14 $%.2f, RSI14 %.1f, range position %.0f%%", ind.SMA, ind.RSI, ind.Position*100)
	}
	for _, a := range snap.AppliedStrategies {
		if a.CoinSymbol == coin.Symbol {
			fmt.Fprintf(&b, ", strategy %s", a.Name)
		}
	}

	sig := strategy.Evaluate(in)
	fmt.Fprintf(&b, ", signal %s (score %+.2f)", sig.Verdict, sig.Total)
	if sig.Warning != "" {
		fmt.Fprintf(&b, "; %s", sig.Warning)
	}
	s.State.Log.Record(b.String(), model.LogAnalysis)
	return true
}
