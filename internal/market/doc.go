// Package market implements the Market Simulator component.
//
// The Market Simulator:
//   - Owns the symbol→price table, seeded at startup
//   - Perturbs every price by a bounded random walk on a fixed interval
//   - Clamps prices to a positive floor so the walk can never cross zero
//   - Synthesizes a cosmetic 24h-change figure for SCAN snapshots
//
// The random source is injected so simulations and tests are deterministic.
package market
