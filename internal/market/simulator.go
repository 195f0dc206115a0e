package market

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/ctsp-server/internal/model"
)

// Config holds Market Simulator settings.
type Config struct {
	TickInterval time.Duration // walk interval
	Drift        float64       // max fractional step per tick (0.01 = ±1%)
	PriceFloor   float64       // minimum price after a step
	ChangeRange  float64       // cosmetic 24h change span (10 = ±10%)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TickInterval: 5 * time.Second,
		Drift:        0.01,
		PriceFloor:   0.0001,
		ChangeRange:  10,
	}
}

// SymbolPrice seeds one symbol at startup.
type SymbolPrice struct {
	Coin  string
	Price decimal.Decimal
}

// Simulator owns the price table. Prices are mutated only by the tick loop;
// readers always see a consistent value through the mutex.
type Simulator struct {
	cfg    Config
	logger *slog.Logger
	floor  decimal.Decimal

	mu      sync.RWMutex
	symbols []string // stable SCAN order
	prices  map[string]decimal.Decimal

	rngMu sync.Mutex
	rng   *rand.Rand

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSimulator seeds the price table. A nil rng gets a time-based seed.
func NewSimulator(cfg Config, initial []SymbolPrice, rng *rand.Rand, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	s := &Simulator{
		cfg:    cfg,
		logger: logger,
		floor:  decimal.NewFromFloat(cfg.PriceFloor),
		prices: make(map[string]decimal.Decimal, len(initial)),
		rng:    rng,
	}
	for _, sp := range initial {
		s.symbols = append(s.symbols, sp.Coin)
		s.prices[sp.Coin] = sp.Price
	}
	return s
}

// Start begins the price walk loop.
func (s *Simulator) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("market simulator started",
		"symbols", len(s.symbols),
		"tick_interval", s.cfg.TickInterval,
		"drift", s.cfg.Drift,
	)
	return nil
}

// Stop gracefully shuts down the simulator.
func (s *Simulator) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("market simulator stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the walk loop. The first step happens one full interval after
// start, so seed prices are observable.
func (s *Simulator) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.Step()
		}
	}
}

// Step applies one random walk step to every price: price *= 1+u with u
// uniform in [-drift, +drift], clamped to the floor.
func (s *Simulator) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, coin := range s.symbols {
		factor := decimal.NewFromFloat(1 + s.uniform(s.cfg.Drift))
		p := s.prices[coin].Mul(factor)
		if p.LessThan(s.floor) {
			p = s.floor
		}
		s.prices[coin] = p
	}
	s.logger.Debug("prices updated", "symbols", len(s.symbols))
}

// Price returns the current price for the coin.
func (s *Simulator) Price(coin string) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prices[coin]
	return p, ok
}

// Symbols returns the configured symbol set in seed order.
func (s *Simulator) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.symbols...)
}

// Snapshot returns every symbol with its current price and a synthetic 24h
// change. The change is display-only: drawn fresh from the random source on
// every call, never derived from history, never persisted.
func (s *Simulator) Snapshot() []model.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	quotes := make([]model.Quote, 0, len(s.symbols))
	for _, coin := range s.symbols {
		quotes = append(quotes, model.Quote{
			Coin:      coin,
			Price:     s.prices[coin].InexactFloat64(),
			Change24h: fmt.Sprintf("%.1f%%", s.uniform(s.cfg.ChangeRange)),
		})
	}
	return quotes
}

// uniform draws from [-span, +span). The rng has its own mutex: Snapshot
// holds the price RLock, which does not exclude concurrent readers.
func (s *Simulator) uniform(span float64) float64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return (s.rng.Float64()*2 - 1) * span
}
