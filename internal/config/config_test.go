package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
listen:
  addr: ":9999"
  max_conns: 16
game:
  starting_balance: 5000
  seed_accounts:
    - username: Satoshi
      password: bitcoin123
      balance: 10000
      holdings:
        BTC: 1
        DOGE: 1000
market:
  symbols:
    - coin: BTC
      price: 500
    - coin: ETH
      price: 30
  tick_interval: 2s
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Listen.Addr != ":9999" {
		t.Errorf("Listen.Addr = %q, want %q", cfg.Listen.Addr, ":9999")
	}
	if cfg.Listen.MaxConns != 16 {
		t.Errorf("Listen.MaxConns = %d, want %d", cfg.Listen.MaxConns, 16)
	}
	if cfg.Game.StartingBalance != 5000 {
		t.Errorf("Game.StartingBalance = %v, want %v", cfg.Game.StartingBalance, 5000.0)
	}
	if len(cfg.Game.SeedAccounts) != 1 {
		t.Fatalf("len(Game.SeedAccounts) = %d, want 1", len(cfg.Game.SeedAccounts))
	}
	if cfg.Game.SeedAccounts[0].Username != "Satoshi" {
		t.Errorf("SeedAccounts[0].Username = %q, want %q", cfg.Game.SeedAccounts[0].Username, "Satoshi")
	}
	if cfg.Game.SeedAccounts[0].Holdings["DOGE"] != 1000 {
		t.Errorf("SeedAccounts[0].Holdings[DOGE] = %v, want %v", cfg.Game.SeedAccounts[0].Holdings["DOGE"], 1000.0)
	}
	if len(cfg.Market.Symbols) != 2 {
		t.Fatalf("len(Market.Symbols) = %d, want 2", len(cfg.Market.Symbols))
	}
	if cfg.Market.Symbols[1].Coin != "ETH" || cfg.Market.Symbols[1].Price != 30 {
		t.Errorf("Market.Symbols[1] = %+v, want ETH at 30", cfg.Market.Symbols[1])
	}
	if cfg.Market.TickInterval != Duration(2*time.Second) {
		t.Errorf("Market.TickInterval = %v, want %v", cfg.Market.TickInterval, 2*time.Second)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_SEED_PASSWORD", "secret123")

	yaml := `
game:
  seed_accounts:
    - username: Satoshi
      password: ${TEST_SEED_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Game.SeedAccounts[0].Password != "secret123" {
		t.Errorf("SeedAccounts[0].Password = %q, want %q", cfg.Game.SeedAccounts[0].Password, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
listen:
  addr: ":9999"
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Explicit value is kept
	if cfg.Listen.Addr != ":9999" {
		t.Errorf("Listen.Addr = %q, want %q", cfg.Listen.Addr, ":9999")
	}

	// Check defaults were applied
	if cfg.Listen.MaxConns != DefaultMaxConns {
		t.Errorf("Listen.MaxConns = %d, want default %d", cfg.Listen.MaxConns, DefaultMaxConns)
	}
	if cfg.Listen.IdleTimeout != DefaultIdleTimeout {
		t.Errorf("Listen.IdleTimeout = %v, want default %v", cfg.Listen.IdleTimeout, DefaultIdleTimeout)
	}
	if cfg.Game.StartingBalance != DefaultStartingBalance {
		t.Errorf("Game.StartingBalance = %v, want default %v", cfg.Game.StartingBalance, float64(DefaultStartingBalance))
	}
	if len(cfg.Market.Symbols) != len(DefaultSymbols) {
		t.Errorf("len(Market.Symbols) = %d, want default %d", len(cfg.Market.Symbols), len(DefaultSymbols))
	}
	if cfg.Market.TickInterval != DefaultTickInterval {
		t.Errorf("Market.TickInterval = %v, want default %v", cfg.Market.TickInterval, DefaultTickInterval)
	}
	if cfg.Journal.BufferSize != DefaultJournalBuffer {
		t.Errorf("Journal.BufferSize = %d, want default %d", cfg.Journal.BufferSize, DefaultJournalBuffer)
	}
	if cfg.Metrics.Port != DefaultMetricsPort {
		t.Errorf("Metrics.Port = %d, want default %d", cfg.Metrics.Port, DefaultMetricsPort)
	}
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() unexpected error: %v", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() ServerConfig {
		cfg := *Default()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(c *ServerConfig) {},
			wantErr: "",
		},
		{
			name:    "missing addr",
			mutate:  func(c *ServerConfig) { c.Listen.Addr = "" },
			wantErr: "listen.addr is required",
		},
		{
			name:    "zero max conns",
			mutate:  func(c *ServerConfig) { c.Listen.MaxConns = 0 },
			wantErr: "listen.max_conns must be >= 1",
		},
		{
			name:    "negative starting balance",
			mutate:  func(c *ServerConfig) { c.Game.StartingBalance = -1 },
			wantErr: "game.starting_balance must be positive",
		},
		{
			name: "seed account without password",
			mutate: func(c *ServerConfig) {
				c.Game.SeedAccounts = []SeedAccount{{Username: "Satoshi"}}
			},
			wantErr: "game.seed_accounts[0].password is required",
		},
		{
			name:    "no symbols",
			mutate:  func(c *ServerConfig) { c.Market.Symbols = nil },
			wantErr: "market.symbols must not be empty",
		},
		{
			name: "duplicate symbol",
			mutate: func(c *ServerConfig) {
				c.Market.Symbols = []SymbolConfig{
					{Coin: "BTC", Price: 500},
					{Coin: "BTC", Price: 501},
				}
			},
			wantErr: `market.symbols[1]: duplicate coin "BTC"`,
		},
		{
			name: "non-positive price",
			mutate: func(c *ServerConfig) {
				c.Market.Symbols = []SymbolConfig{{Coin: "BTC", Price: 0}}
			},
			wantErr: "market.symbols[0].price must be positive, got 0",
		},
		{
			name:    "drift out of range",
			mutate:  func(c *ServerConfig) { c.Market.Drift = 1.5 },
			wantErr: "market.drift must be in (0, 1), got 1.5",
		},
		{
			name:    "metrics port out of range",
			mutate:  func(c *ServerConfig) { c.Metrics.Port = 70000 },
			wantErr: "metrics.port must be between 1 and 65535, got 70000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
