package model

import "time"

// Strategy is an entry of the fixed strategy catalog.
type Strategy struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// AppliedStrategy binds a catalog strategy to a coin for one analysis pass.
type AppliedStrategy struct {
	Strategy
	CoinSymbol string `json:"coinSymbol"`
}

// BotStatus is the lifecycle state of a bot. Bots are only ever active.
type BotStatus string

const BotActive BotStatus = "active"

// Bot is a simulated trading bot. The roster is append-only.
type Bot struct {
	ID        int64     `json:"id"`
	Coin      string    `json:"coin"`
	Strategy  string    `json:"strategy"`
	Status    BotStatus `json:"status"`
	StartTime time.Time `json:"startTime"`
}

// Side is the direction of a market order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)
