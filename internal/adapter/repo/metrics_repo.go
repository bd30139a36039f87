package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/derekgallardo01/music-genie/internal/db"
	"github.com/derekgallardo01/music-genie/internal/domain"
	"github.com/derekgallardo01/music-genie/internal/sqlinline"
)

// MetricsRepositoryPG implements domain.MetricsRepository using PostgreSQL.
type MetricsRepositoryPG struct {
	db db.DBTX
}

// NewMetricsRepository constructs the metrics repository.
func NewMetricsRepository(dbtx db.DBTX) *MetricsRepositoryPG {
	return &MetricsRepositoryPG{db: dbtx}
}

// Insert appends one monitoring sample.
func (r *MetricsRepositoryPG) Insert(ctx context.Context, sample domain.MetricsSample) error {
	id := sample.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, sqlinline.QInsertMetrics,
		id,
		sample.CPUUsage,
		sample.MemoryUsage,
		sample.GPUUsage,
		sample.GPUMemoryUsage,
		sample.DiskUsage,
		sample.ModelLoaded,
		sample.ModelLoadTime,
		sample.ActiveGenerations,
		sample.ResponseTimeAvg,
		sample.ErrorRate,
		sample.RequestsPerMinute,
	)
	if err != nil {
		return fmt.Errorf("insert metrics sample: %w", err)
	}
	return nil
}

// Latest returns the newest sample, or domain.ErrNotFound when none exist.
func (r *MetricsRepositoryPG) Latest(ctx context.Context) (*domain.MetricsSample, error) {
	row := r.db.QueryRow(ctx, sqlinline.QLatestMetrics)
	var s domain.MetricsSample
	if err := row.Scan(
		&s.ID,
		&s.Timestamp,
		&s.CPUUsage,
		&s.MemoryUsage,
		&s.GPUUsage,
		&s.GPUMemoryUsage,
		&s.DiskUsage,
		&s.ModelLoaded,
		&s.ModelLoadTime,
		&s.ActiveGenerations,
		&s.ResponseTimeAvg,
		&s.ErrorRate,
		&s.RequestsPerMinute,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("latest metrics sample: %w", err)
	}
	return &s, nil
}
