package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"casino/config"
	"casino/database"
	"casino/jobs"
	"casino/providers"
	_ "casino/providers/playfivers"
	"casino/routes"
	"casino/services"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	factory := services.RegistryFactory(providers.Options{
		BaseURL:  cfg.Aggregator.BaseURL,
		ProxyURL: cfg.Aggregator.ProxyURL,
		Timeout:  cfg.Aggregator.Timeout,
	})

	settings := services.NewSettingsStore(db)
	players := services.NewPlayerService(db)
	ledger := services.NewBalanceLedger(db)
	deposits := services.NewDepositService(db, ledger, cfg.DepositTTL)
	reconciler := services.NewCatalogReconciler(db, settings, factory, services.CatalogOptions{
		Provider:    cfg.Aggregator.Provider,
		PageDelay:   cfg.Sync.PageDelay,
		Concurrency: cfg.Sync.Concurrency,
	})

	app := fiber.New(fiber.Config{AppName: "casino"})
	routes.Setup(app, routes.Services{
		Settings:    settings,
		Players:     players,
		Ledger:      ledger,
		Withdrawals: services.NewWithdrawalService(db, ledger, cfg.MinWithdrawal),
		Deposits:    deposits,
		Catalog:     services.NewCatalog(db),
		Reconciler:  reconciler,
		Launcher: services.NewGameLaunchGateway(db, settings, factory, services.LaunchOptions{
			Provider: cfg.Aggregator.Provider,
			Lang:     cfg.Aggregator.Lang,
			HomeURL:  cfg.Aggregator.HomeURL,
		}),
		Wallet:  services.NewSeamlessWallet(db, ledger, players),
		Bonuses: services.NewBonusService(db, ledger),

		AggregatorName: cfg.Aggregator.Provider,
		AdminAPIKey:    cfg.AdminAPIKey,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobs.StartCatalogSyncScheduler(ctx, reconciler, cfg.Sync.Interval)
	jobs.StartDepositExpiryScheduler(ctx, deposits, time.Minute)

	addr := cfg.Addr()
	slog.Info("server running", "addr", addr)

	go func() {
		if err := app.Listen(addr); err != nil {
			slog.Error("failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("gracefully shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server exited cleanly")
}
