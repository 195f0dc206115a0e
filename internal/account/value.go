package account

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rickgao/ctsp-server/internal/model"
)

// PriceSource supplies current unit prices for valuation.
type PriceSource interface {
	Price(coin string) (decimal.Decimal, bool)
}

// TotalValue is balance plus the market value of all holdings. Holdings with
// no quoted price contribute nothing.
func (s *Store) TotalValue(username string, prices PriceSource) (decimal.Decimal, error) {
	snap, err := s.Snapshot(username)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return valueOf(snap, prices), nil
}

// Leaderboard ranks every account by total value, descending. Equal values
// keep registration order (stable sort), and at most limit entries return.
func (s *Store) Leaderboard(prices PriceSource, limit int) []model.Standing {
	s.mu.RLock()
	usernames := append([]string(nil), s.order...)
	s.mu.RUnlock()

	type ranked struct {
		username string
		value    decimal.Decimal
	}
	board := make([]ranked, 0, len(usernames))
	for _, username := range usernames {
		snap, err := s.Snapshot(username)
		if err != nil {
			continue // accounts are never deleted, so this cannot miss
		}
		board = append(board, ranked{username: username, value: valueOf(snap, prices)})
	}

	sort.SliceStable(board, func(i, j int) bool {
		return board[i].value.GreaterThan(board[j].value)
	})

	if limit > 0 && len(board) > limit {
		board = board[:limit]
	}

	standings := make([]model.Standing, len(board))
	for i, r := range board {
		standings[i] = model.Standing{
			Username:   r.username,
			TotalValue: r.value.InexactFloat64(),
		}
	}
	return standings
}

func valueOf(snap model.AccountSnapshot, prices PriceSource) decimal.Decimal {
	total := snap.Balance
	for coin, qty := range snap.Holdings {
		if price, ok := prices.Price(coin); ok {
			total = total.Add(qty.Mul(price))
		}
	}
	return total
}
