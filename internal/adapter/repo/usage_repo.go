package repo

import (
	"context"
	"fmt"

	"github.com/derekgallardo01/music-genie/internal/db"
	"github.com/derekgallardo01/music-genie/internal/domain"
	"github.com/derekgallardo01/music-genie/internal/sqlinline"
)

// UsageStatsRepositoryPG implements domain.UsageStatsRepository using
// PostgreSQL. The table carries one row per calendar day; re-running a rollup
// for the same day overwrites it.
type UsageStatsRepositoryPG struct {
	db db.DBTX
}

// NewUsageStatsRepository constructs the usage stats repository.
func NewUsageStatsRepository(dbtx db.DBTX) *UsageStatsRepositoryPG {
	return &UsageStatsRepositoryPG{db: dbtx}
}

// UpsertDaily writes the day's rollup, replacing any existing row for the date.
func (r *UsageStatsRepositoryPG) UpsertDaily(ctx context.Context, snap domain.UsageSnapshot) error {
	_, err := r.db.Exec(ctx, sqlinline.QUpsertUsageStats,
		snap.Date,
		snap.TotalGenerations,
		snap.SuccessfulGenerations,
		snap.FailedGenerations,
		snap.AvgGenerationTime,
		snap.AvgRealtimeFactor,
		snap.TotalPlays,
		snap.TotalDownloads,
		snap.TotalFavorites,
		snap.UniqueUsers,
	)
	if err != nil {
		return fmt.Errorf("upsert usage stats: %w", err)
	}
	return nil
}
