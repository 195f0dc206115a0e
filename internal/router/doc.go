// Package router implements the command dispatcher (the trading engine).
//
// The dispatcher routes parsed requests to their handlers:
//   - ENTER / EXIT manage sessions against the account store and registry
//   - SCAN reads the market snapshot
//   - BUY / SELL validate, price, and apply trades atomically
//   - CHECK returns portfolio or history views
//   - RANK computes the leaderboard
//
// Everything except ENTER requires an authenticated session. Trade prices
// are read once at execution time and used for both the ledger update and
// the returned receipt; no lock is held across the market read.
package router
