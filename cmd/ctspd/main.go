package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/ctsp-server/internal/account"
	"github.com/rickgao/ctsp-server/internal/config"
	"github.com/rickgao/ctsp-server/internal/connection"
	"github.com/rickgao/ctsp-server/internal/journal"
	"github.com/rickgao/ctsp-server/internal/market"
	"github.com/rickgao/ctsp-server/internal/metrics"
	"github.com/rickgao/ctsp-server/internal/router"
	"github.com/rickgao/ctsp-server/internal/session"
	"github.com/rickgao/ctsp-server/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (built-in defaults when empty)")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting ctspd",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	var (
		cfg *config.ServerConfig
		err error
	)
	if *configPath == "" {
		cfg = config.Default()
	} else {
		cfg, err = config.LoadAndValidate(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Market simulator
	var rng *rand.Rand
	if cfg.Market.Seed != 0 {
		seed := uint64(cfg.Market.Seed)
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	initial := make([]market.SymbolPrice, 0, len(cfg.Market.Symbols))
	for _, s := range cfg.Market.Symbols {
		initial = append(initial, market.SymbolPrice{
			Coin:  s.Coin,
			Price: decimal.NewFromFloat(s.Price),
		})
	}
	sim := market.NewSimulator(market.Config{
		TickInterval: cfg.Market.TickInterval.Std(),
		Drift:        cfg.Market.Drift,
		PriceFloor:   cfg.Market.PriceFloor,
		ChangeRange:  cfg.Market.ChangeRange,
	}, initial, rng, logger)

	// Account store with configured seed accounts
	store := account.NewStore(decimal.NewFromFloat(cfg.Game.StartingBalance), logger)
	for _, a := range cfg.Game.SeedAccounts {
		holdings := make(map[string]decimal.Decimal, len(a.Holdings))
		for coin, qty := range a.Holdings {
			holdings[coin] = decimal.NewFromFloat(qty)
		}
		if err := store.Seed(a.Username, a.Password, decimal.NewFromFloat(a.Balance), holdings); err != nil {
			logger.Error("failed to seed account", "error", err)
			os.Exit(1)
		}
	}

	sessions := session.NewRegistry(logger)
	jnl := journal.New(cfg.Journal.BufferSize, logger)
	dispatcher := router.NewDispatcher(store, sessions, sim, jnl, logger)

	srv := connection.NewServer(connection.Config{
		Addr:         cfg.Listen.Addr,
		MaxConns:     int64(cfg.Listen.MaxConns),
		IdleTimeout:  cfg.Listen.IdleTimeout.Std(),
		WriteTimeout: cfg.Listen.WriteTimeout.Std(),
	}, dispatcher, sessions, logger)

	// Start components
	if err := sim.Start(ctx); err != nil {
		logger.Error("failed to start market simulator", "error", err)
		os.Exit(1)
	}
	if err := jnl.Start(ctx); err != nil {
		logger.Error("failed to start trade journal", "error", err)
		os.Exit(1)
	}
	if err := srv.Start(ctx); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	// Metrics and health server
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	mux.HandleFunc("/health", createHealthHandler(store, sessions, sim))

	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: mux,
	}
	go func() {
		logger.Info("starting metrics server", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	logger.Info("ctspd running",
		"addr", cfg.Listen.Addr,
		"symbols", len(cfg.Market.Symbols),
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Metrics.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Listen.ShutdownTimeout.Std())
	defer shutdownCancel()

	// Stop in reverse order: no new requests, drain the journal, halt prices.
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Warn("server stop", "error", err)
	}
	if err := jnl.Stop(shutdownCtx); err != nil {
		logger.Warn("journal stop", "error", err)
	}
	if err := sim.Stop(shutdownCtx); err != nil {
		logger.Warn("simulator stop", "error", err)
	}
	_ = healthServer.Shutdown(shutdownCtx)

	logger.Info("ctspd stopped")
}

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(store *account.Store, sessions session.Registry, sim *market.Simulator) http.HandlerFunc {
	start := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":   "healthy",
			"accounts": store.Count(),
			"sessions": sessions.Count(),
			"symbols":  sim.Symbols(),
			"uptime":   time.Since(start).String(),
		})
	}
}
