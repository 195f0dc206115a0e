package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultListenAddr      = ":8080"
	DefaultMaxConns        = 256
	DefaultIdleTimeout     = Duration(5 * time.Minute)
	DefaultWriteTimeout    = Duration(10 * time.Second)
	DefaultShutdownTimeout = Duration(10 * time.Second)
	DefaultStartingBalance = 10000
	DefaultTickInterval    = Duration(5 * time.Second)
	DefaultDrift           = 0.01
	DefaultPriceFloor      = 0.0001
	DefaultChangeRange     = 10
	DefaultJournalBuffer   = 256
	DefaultMetricsPort     = 9090
	DefaultMetricsPath     = "/metrics"
)

// DefaultSymbols seeds the market when the config lists none.
var DefaultSymbols = []SymbolConfig{
	{Coin: "BTC", Price: 500.0},
	{Coin: "ETH", Price: 30.0},
	{Coin: "DOGE", Price: 0.5},
}

func (c *ServerConfig) applyDefaults() {
	// Listener defaults
	if c.Listen.Addr == "" {
		c.Listen.Addr = DefaultListenAddr
	}
	if c.Listen.MaxConns == 0 {
		c.Listen.MaxConns = DefaultMaxConns
	}
	if c.Listen.IdleTimeout == 0 {
		c.Listen.IdleTimeout = DefaultIdleTimeout
	}
	if c.Listen.WriteTimeout == 0 {
		c.Listen.WriteTimeout = DefaultWriteTimeout
	}
	if c.Listen.ShutdownTimeout == 0 {
		c.Listen.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Game defaults
	if c.Game.StartingBalance == 0 {
		c.Game.StartingBalance = DefaultStartingBalance
	}

	// Market defaults
	if len(c.Market.Symbols) == 0 {
		c.Market.Symbols = append([]SymbolConfig(nil), DefaultSymbols...)
	}
	if c.Market.TickInterval == 0 {
		c.Market.TickInterval = DefaultTickInterval
	}
	if c.Market.Drift == 0 {
		c.Market.Drift = DefaultDrift
	}
	if c.Market.PriceFloor == 0 {
		c.Market.PriceFloor = DefaultPriceFloor
	}
	if c.Market.ChangeRange == 0 {
		c.Market.ChangeRange = DefaultChangeRange
	}

	// Journal defaults
	if c.Journal.BufferSize == 0 {
		c.Journal.BufferSize = DefaultJournalBuffer
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
