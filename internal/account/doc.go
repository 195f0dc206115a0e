// Package account implements the Account Store component.
//
// The Account Store:
//   - Owns balances, holdings, and trade history for every player
//   - Creates accounts on first login with the configured starting balance
//   - Applies buys and sells as atomic check-then-update operations
//   - Computes total value and the leaderboard against current prices
//
// Locking is per-entity: the store mutex only guards the username map and
// registration order, each account carries its own mutex, so trades on
// different users never contend. Raw maps are never handed to callers.
package account
