package config

// ServerConfig is the root configuration for a ctspd instance.
type ServerConfig struct {
	Listen  ListenConfig  `yaml:"listen"`
	Game    GameConfig    `yaml:"game"`
	Market  MarketConfig  `yaml:"market"`
	Journal JournalConfig `yaml:"journal"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ListenConfig holds the TCP listener settings.
type ListenConfig struct {
	Addr            string   `yaml:"addr"`
	MaxConns        int      `yaml:"max_conns"`
	IdleTimeout     Duration `yaml:"idle_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// GameConfig holds account and economy settings.
type GameConfig struct {
	StartingBalance float64       `yaml:"starting_balance"`
	SeedAccounts    []SeedAccount `yaml:"seed_accounts"`
}

// SeedAccount pre-registers an account at startup.
type SeedAccount struct {
	Username string             `yaml:"username"`
	Password string             `yaml:"password"`
	Balance  float64            `yaml:"balance"`
	Holdings map[string]float64 `yaml:"holdings"`
}

// MarketConfig holds the price simulator settings.
type MarketConfig struct {
	Symbols      []SymbolConfig `yaml:"symbols"`
	TickInterval Duration       `yaml:"tick_interval"`
	Drift        float64        `yaml:"drift"`        // max fractional step per tick, e.g. 0.01 = ±1%
	PriceFloor   float64        `yaml:"price_floor"`  // prices are clamped to this minimum
	ChangeRange  float64        `yaml:"change_range"` // cosmetic 24h change span, e.g. 10 = ±10%
	Seed         int64          `yaml:"seed"`         // 0 = time-based seed
}

// SymbolConfig seeds one tradable symbol.
type SymbolConfig struct {
	Coin  string  `yaml:"coin"`
	Price float64 `yaml:"price"`
}

// JournalConfig holds trade journal settings.
type JournalConfig struct {
	BufferSize int `yaml:"buffer_size"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
