package model

import "github.com/shopspring/decimal"

// -----------------------------------------------------------------------------
// Account Types
// -----------------------------------------------------------------------------

// AccountSnapshot is a consistent point-in-time view of one account's
// financial state. Holdings map coin symbol to quantity.
type AccountSnapshot struct {
	Balance  decimal.Decimal
	Holdings map[string]decimal.Decimal
}

// Standing is one leaderboard entry.
type Standing struct {
	Username   string  `json:"username"`
	TotalValue float64 `json:"total_value"`
}

// -----------------------------------------------------------------------------
// Trade Types
// -----------------------------------------------------------------------------

// TradeSide distinguishes buys from sells.
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// TradeRecord is an immutable receipt for an executed trade. Records are
// append-only; once written they are never modified.
type TradeRecord struct {
	Type      TradeSide `json:"type"`
	Coin      string    `json:"coin"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
	Timestamp string    `json:"timestamp"` // "2006-01-02 15:04:05"
}

// -----------------------------------------------------------------------------
// Market Types
// -----------------------------------------------------------------------------

// Quote is one market entry as returned by SCAN.
//
// Change24h is cosmetic: it is synthesized per call from the simulator's
// random source, is not derived from price history, and is never persisted.
type Quote struct {
	Coin      string  `json:"coin"`
	Price     float64 `json:"price"`
	Change24h string  `json:"change_24h"`
}
