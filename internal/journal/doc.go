// Package journal implements the trade journal component.
//
// The journal:
//   - Accepts executed trades from the dispatcher without blocking it
//   - Buffers them in a growable queue
//   - Logs each trade and feeds the trade counters from one consumer goroutine
//
// The journal is observability only; the authoritative trade history lives
// in the account store.
package journal
