package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"agridom/internal/amqp"
	"agridom/internal/config"
	"agridom/internal/services"
	"agridom/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting billing-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if err := storage.RunMigrations(cfg.SQLiteDBPath); err != nil {
		logger.Error("Failed to run migrations", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath, logger)
	if err != nil {
		logger.Error("Failed to initialize repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in SQLite-only mode", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	}

	materializer := services.NewMaterializer(repo, amqpClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Materializer configured",
		"interval", cfg.MaterializeInterval,
		"ahead_months", cfg.MaterializeAhead,
		"sqlite_db", cfg.SQLiteDBPath)

	ticker := time.NewTicker(cfg.MaterializeInterval)
	defer ticker.Stop()

	// Run once on startup, then on every tick.
	runMaterialization(ctx, materializer, cfg.MaterializeAhead, time.Now())

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				runMaterialization(ctx, materializer, cfg.MaterializeAhead, now)
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down billing-worker...")
	cancel()
	logger.Info("Billing-worker shutdown complete")
}

// runMaterialization expands the current month plus the configured number
// of months ahead. Every run is idempotent, so overlapping runs and
// restarts are harmless.
func runMaterialization(ctx context.Context, m *services.Materializer, ahead int, now time.Time) {
	year, month := now.UTC().Year(), int(now.UTC().Month())

	for i := 0; i <= ahead; i++ {
		y, mo := addMonths(year, month, i)
		result, err := m.MaterializePeriod(ctx, y, mo)
		if err != nil {
			slog.ErrorContext(ctx, "Materialization failed", "error", err, "year", y, "month", mo)
			continue
		}
		slog.InfoContext(ctx, "Materialization run complete",
			"year", y,
			"month", mo,
			"created", result.Created,
			"skipped", result.Skipped)
	}
}

func addMonths(year, month, n int) (int, int) {
	m := month - 1 + n
	return year + m/12, m%12 + 1
}
