package model

import "time"

// Trade is a filled order as recorded in the journal.
type Trade struct {
	Time     time.Time `json:"time"`
	OrderID  string    `json:"orderId"`
	Symbol   string    `json:"symbol"`
	Side     Side      `json:"side"`
	Size     float64   `json:"size"`
	Price    float64   `json:"price"`
	Notional float64   `json:"notional"`
	Clamped  bool      `json:"clamped"`
	Exchange string    `json:"exchange"`
}
