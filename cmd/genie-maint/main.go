// Command genie-maint runs the retention policy once. It defaults to a dry
// run; pass -apply to actually delete records and artifacts.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"

	"github.com/derekgallardo01/music-genie/internal/infra"
	"github.com/derekgallardo01/music-genie/internal/service"
)

func main() {
	days := flag.Int("days", 30, "delete records older than this many days")
	keepFavorites := flag.Bool("keep-favorites", true, "exempt favorited records")
	apply := flag.Bool("apply", false, "actually delete; default is a dry run")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall run timeout")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := infra.NewPool(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize connection pool")
	}
	defer pool.Close()

	svc := service.New(pool, cfg, logger)

	report, err := svc.Cleanup(ctx, *days, *keepFavorites, !*apply)
	if err != nil {
		logger.Fatal().Err(err).Msg("cleanup failed")
	}

	logger.Info().
		Bool("dry_run", report.DryRun).
		Int("candidates", report.CandidateCount).
		Int("deleted_records", report.DeletedRecords).
		Int("deleted_files", report.DeletedFiles).
		Time("cutoff", report.CutoffDate).
		Msg("retention run finished")
}
