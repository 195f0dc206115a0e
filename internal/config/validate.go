package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *ServerConfig) Validate() error {
	if c.Listen.Addr == "" {
		return errors.New("listen.addr is required")
	}
	if c.Listen.MaxConns < 1 {
		return errors.New("listen.max_conns must be >= 1")
	}
	if c.Listen.IdleTimeout <= 0 {
		return errors.New("listen.idle_timeout must be positive")
	}

	if c.Game.StartingBalance <= 0 {
		return errors.New("game.starting_balance must be positive")
	}
	for i, a := range c.Game.SeedAccounts {
		if err := a.validate(fmt.Sprintf("game.seed_accounts[%d]", i)); err != nil {
			return err
		}
	}

	if len(c.Market.Symbols) == 0 {
		return errors.New("market.symbols must not be empty")
	}
	seen := make(map[string]bool, len(c.Market.Symbols))
	for i, s := range c.Market.Symbols {
		if s.Coin == "" {
			return fmt.Errorf("market.symbols[%d].coin is required", i)
		}
		if seen[s.Coin] {
			return fmt.Errorf("market.symbols[%d]: duplicate coin %q", i, s.Coin)
		}
		seen[s.Coin] = true
		if s.Price <= 0 {
			return fmt.Errorf("market.symbols[%d].price must be positive, got %v", i, s.Price)
		}
	}
	if c.Market.TickInterval <= 0 {
		return errors.New("market.tick_interval must be positive")
	}
	if c.Market.Drift <= 0 || c.Market.Drift >= 1 {
		return fmt.Errorf("market.drift must be in (0, 1), got %v", c.Market.Drift)
	}
	if c.Market.PriceFloor <= 0 {
		return errors.New("market.price_floor must be positive")
	}
	if c.Market.ChangeRange <= 0 {
		return errors.New("market.change_range must be positive")
	}

	if c.Journal.BufferSize < 1 {
		return errors.New("journal.buffer_size must be >= 1")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

func (a *SeedAccount) validate(prefix string) error {
	if a.Username == "" {
		return fmt.Errorf("%s.username is required", prefix)
	}
	if a.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if a.Balance < 0 {
		return fmt.Errorf("%s.balance must be >= 0, got %v", prefix, a.Balance)
	}
	for coin, qty := range a.Holdings {
		if qty < 0 {
			return fmt.Errorf("%s.holdings[%s] must be >= 0, got %v", prefix, coin, qty)
		}
	}
	return nil
}
