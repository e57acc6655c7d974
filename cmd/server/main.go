package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/api"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/config"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/stats"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/weapon"
	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/world"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	envErr := godotenv.Load(".env")

	logger := newLogger(os.Getenv("LOG_LEVEL"))
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Info("no .env file found, using environment variables only")
	}

	if err := run(logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func run(logger *slog.Logger) error {
	cfg := config.Load()

	tables, err := stats.Load(cfg.Stats.Path)
	if err != nil {
		return err
	}

	startWeapon := weapon.OverrideKatana
	if v := os.Getenv("START_WEAPON"); v != "" {
		if startWeapon, err = weapon.ParseName(v); err != nil {
			return err
		}
	}

	bus := events.NewBus()
	journal := events.NewEventLog(cfg.EventLog)
	if err := journal.Start(cfg.EventLog.Path); err != nil {
		return err
	}
	defer journal.Stop()
	bus.Subscribe(journal.Record)
	bus.Subscribe(api.ObserveEvent)

	engine := world.New(world.Options{
		Balance:  cfg.Balance,
		TickRate: cfg.Sim.TickRate,
		Tables:   tables,
		Bus:      bus,
		Logger:   logger,
	})
	engine.SetCallbacks(api.RecordTick, api.RecordDamage, api.RecordDeath, api.RecordTransition)
	if err := engine.SpawnEncounter(startWeapon); err != nil {
		return err
	}

	logger.Info("trinityflow combat server",
		"tickRate", cfg.Sim.TickRate,
		"weapon", startWeapon,
		"presets", len(tables.Presets),
		"journal", cfg.EventLog.Path)

	debug := api.DefaultObservabilityConfig()
	debug.Logger = logger
	if addr := os.Getenv("DEBUG_ADDR"); addr != "" {
		debug.ListenAddr = addr
	}
	debug.Enabled = os.Getenv("DEBUG_SERVER") != "false"
	api.StartDebugServer(debug)

	server := api.NewServer(engine, api.ServerOptions{
		EventLog:    journal,
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine.Start()
	defer engine.Stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(":" + strconv.Itoa(cfg.Server.Port))
	})
	g.Go(func() error {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				api.UpdateEventLogStats(journal.GetTotalCount(), journal.GetDroppedCount())
			}
		}
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
