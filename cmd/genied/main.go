package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/derekgallardo01/music-genie/internal/infra"
	"github.com/derekgallardo01/music-genie/internal/monitor"
	"github.com/derekgallardo01/music-genie/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := infra.NewPool(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize connection pool")
	}
	defer pool.Close()

	if err := pool.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure schema")
	}

	svc := service.New(pool, cfg, logger)

	// Metrics collector loop.
	collector := monitor.NewCollector(svc.Metrics(), logger)
	go collector.Run(ctx, cfg.MetricsInterval, func() monitor.Gauges {
		pool.LogStatus()
		return monitor.Gauges{}
	})

	// Periodic health log for operators.
	go func() {
		ticker := time.NewTicker(cfg.HealthInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				report := svc.GetHealth(ctx)
				logger.Info().
					Int("health_score", report.HealthScore).
					Str("status", report.Status).
					Msg("health check")
			}
		}
	}()

	// Hourly usage rollup; the upsert keeps one row per day.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := svc.SnapshotDailyUsage(ctx); err != nil {
					logger.Warn().Err(err).Msg("usage rollup failed")
				}
			}
		}
	}()

	logger.Info().Str("environment", cfg.AppEnv).Msg("generation store daemon started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	cancel()
	logger.Info().Msg("daemon stopped")
}
