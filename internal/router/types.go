package router

import (
	"github.com/shopspring/decimal"

	"github.com/rickgao/ctsp-server/internal/model"
)

// Market is the dispatcher's view of the price simulator.
type Market interface {
	// Price returns the current unit price for the coin.
	Price(coin string) (decimal.Decimal, bool)

	// Snapshot returns all symbols with price and cosmetic 24h change.
	Snapshot() []model.Quote
}

// TradeLog receives executed trades, fire-and-forget.
type TradeLog interface {
	Record(username string, rec model.TradeRecord)
}

// Client-visible error messages. The exact strings are part of the wire
// contract; clients match on them.
const (
	msgCredentialsRequired = "Username and password are required"
	msgInvalidCredentials  = "Invalid credentials"
	msgNotLoggedIn         = "User not logged in"
	msgExitNotLoggedIn     = "Not logged in"
	msgTradeFieldsRequired = "Coin and amount are required"
	msgInvalidAmount       = "Invalid amount"
	msgInvalidCoin         = "Invalid coin"
	msgInsufficientFunds   = "Insufficient funds"
	msgInsufficientCoins   = "Insufficient coins"
	msgCheckTypeRequired   = "Check type is required"
	msgInvalidCheckType    = "Invalid check type"
	msgInvalidCommand      = "Invalid command"
	msgInternalError       = "Internal error"
)

// Request payloads.

type enterPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tradePayload struct {
	Coin   string `json:"coin"`
	Amount any    `json:"amount"` // number or numeric string
}

type checkPayload struct {
	Type string `json:"type"`
}

// Response bodies. Field names are part of the wire contract.

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

type enterResult struct {
	Message  string  `json:"message"`
	Balance  float64 `json:"balance"`
	PlayerID string  `json:"player_id"`
}

type scanResult struct {
	MarketData []model.Quote `json:"market_data"`
}

type transaction struct {
	Coin   string  `json:"coin"`
	Amount float64 `json:"amount"`
	Price  float64 `json:"price"`
	Total  float64 `json:"total"`
}

type tradeResult struct {
	Message     string      `json:"message"`
	Transaction transaction `json:"transaction"`
	NewBalance  float64     `json:"new_balance"`
}

type portfolioResult struct {
	Portfolio  map[string]float64 `json:"portfolio"`
	Balance    float64            `json:"balance"`
	TotalValue float64            `json:"total_value"`
}

type historyResult struct {
	History []model.TradeRecord `json:"history"`
}

type rankResult struct {
	Leaderboard []model.Standing `json:"leaderboard"`
}
