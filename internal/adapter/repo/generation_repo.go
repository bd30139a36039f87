package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/derekgallardo01/music-genie/internal/db"
	"github.com/derekgallardo01/music-genie/internal/domain"
	"github.com/derekgallardo01/music-genie/internal/sqlinline"
	"github.com/derekgallardo01/music-genie/internal/storage"
)

// Postgres SQLSTATEs that mean "full-text search is not available on this
// backend". Only these trigger the substring fallback; genuine faults
// propagate.
const (
	pgUndefinedFunction   = "42883"
	pgFeatureNotSupported = "0A000"
)

// GenerationRepositoryPG implements domain.GenerationRepository using PostgreSQL.
type GenerationRepositoryPG struct {
	db    db.DBTX
	store *storage.ArtifactStore
	log   zerolog.Logger
}

// NewGenerationRepository constructs the record store.
func NewGenerationRepository(dbtx db.DBTX, store *storage.ArtifactStore, log zerolog.Logger) *GenerationRepositoryPG {
	return &GenerationRepositoryPG{db: dbtx, store: store, log: log}
}

// Create validates the input, measures the artifact when one is supplied, and
// inserts the record in a single statement. On any failure nothing is
// persisted and the returned record is nil.
func (r *GenerationRepositoryPG) Create(ctx context.Context, in domain.GenerationInput, artifactPath string) (*domain.GenerationRecord, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var filePath, audioURL *string
	if artifactPath != "" {
		if size, ok := r.store.SizeMB(artifactPath); ok {
			in.FileSizeMB = size
			p := artifactPath
			u := r.store.URL(artifactPath)
			filePath = &p
			audioURL = &u
		}
	}

	rec := domain.GenerationRecord{
		GenerationID:   in.GenerationID,
		Prompt:         in.Prompt,
		Status:         in.Status,
		Device:         in.Device,
		Precision:      in.Precision,
		GenerationTime: in.GenerationTime,
		RealtimeFactor: in.RealtimeFactor,
		FilePath:       filePath,
		AudioURL:       audioURL,
		FileSizeMB:     in.FileSizeMB,
		Duration:       in.Duration,
		SampleRate:     in.SampleRate,
		UserID:         in.UserID,
		ErrorMessage:   in.ErrorMessage,
		ModelVersion:   in.ModelVersion,
	}

	row := r.db.QueryRow(ctx, sqlinline.QInsertGeneration,
		rec.GenerationID,
		rec.Prompt,
		rec.Status,
		rec.Device,
		rec.Precision,
		rec.GenerationTime,
		rec.RealtimeFactor,
		rec.FilePath,
		rec.AudioURL,
		rec.FileSizeMB,
		rec.Duration,
		rec.SampleRate,
		rec.UserID,
		rec.ErrorMessage,
		rec.ModelVersion,
	)
	if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		r.log.Error().Err(err).Str("generation_id", rec.GenerationID).Msg("failed to create generation record")
		return nil, fmt.Errorf("create generation record: %w", err)
	}

	r.log.Info().
		Str("generation_id", rec.GenerationID).
		Str("device", rec.Device).
		Float64("generation_time", rec.GenerationTime).
		Float64("file_size_mb", rec.FileSizeMB).
		Msg("created generation record")
	return &rec, nil
}

// Recent returns the newest records, completed-only unless includeFailed. For
// each result with a readable artifact whose measured size differs from the
// stored value, the stored value is corrected before the record is returned.
func (r *GenerationRepositoryPG) Recent(ctx context.Context, limit int, includeFailed bool) ([]domain.GenerationRecord, error) {
	recs, err := r.queryGenerations(ctx, sqlinline.QRecentGenerations, limit, includeFailed)
	if err != nil {
		return nil, err
	}

	for i := range recs {
		rec := &recs[i]
		if rec.FilePath == nil {
			continue
		}
		size, ok := r.store.SizeMB(*rec.FilePath)
		if !ok || size == rec.FileSizeMB {
			continue
		}
		if _, err := r.db.Exec(ctx, sqlinline.QUpdateFileSize, rec.GenerationID, size); err != nil {
			r.log.Warn().Err(err).Str("generation_id", rec.GenerationID).Msg("failed to persist reconciled file size")
			continue
		}
		rec.FileSizeMB = size
	}
	return recs, nil
}

// MostPlayed returns completed records with at least one play, most played first.
func (r *GenerationRepositoryPG) MostPlayed(ctx context.Context, limit int) ([]domain.GenerationRecord, error) {
	return r.queryGenerations(ctx, sqlinline.QMostPlayed, limit)
}

// Search matches prompts with Postgres full-text search, falling back to a
// case-insensitive substring match when the backend does not support it.
func (r *GenerationRepositoryPG) Search(ctx context.Context, query string, limit int) ([]domain.GenerationRecord, error) {
	recs, err := r.queryGenerations(ctx, sqlinline.QSearchFullText, query, limit)
	if err == nil {
		return recs, nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == pgUndefinedFunction || pgErr.Code == pgFeatureNotSupported) {
		r.log.Debug().Str("sqlstate", pgErr.Code).Msg("full-text search unavailable, using substring match")
		return r.queryGenerations(ctx, sqlinline.QSearchSubstring, query, limit)
	}
	return nil, err
}

// Favorites returns completed, favorited records, newest first.
func (r *GenerationRepositoryPG) Favorites(ctx context.Context, limit int) ([]domain.GenerationRecord, error) {
	return r.queryGenerations(ctx, sqlinline.QFavorites, limit)
}

// CountsSince returns total/completed/failed counts for records created at or
// after since.
func (r *GenerationRepositoryPG) CountsSince(ctx context.Context, since time.Time) (domain.WindowCounts, error) {
	var total, completed, failed int64
	row := r.db.QueryRow(ctx, sqlinline.QCountsSince, since)
	if err := row.Scan(&total, &completed, &failed); err != nil {
		return domain.WindowCounts{}, fmt.Errorf("count generations: %w", err)
	}
	return domain.WindowCounts{Total: int(total), Completed: int(completed), Failed: int(failed)}, nil
}

// AggregatesSince computes averages and engagement sums over completed records
// created at or after since.
func (r *GenerationRepositoryPG) AggregatesSince(ctx context.Context, since time.Time) (domain.WindowAggregates, error) {
	var agg domain.WindowAggregates
	var plays, downloads, favorites int64
	row := r.db.QueryRow(ctx, sqlinline.QAggregatesSince, since)
	if err := row.Scan(
		&agg.AvgGenerationTime,
		&agg.AvgRealtimeFactor,
		&agg.TotalFileSizeMB,
		&agg.AvgFileSizeMB,
		&plays,
		&downloads,
		&favorites,
	); err != nil {
		return domain.WindowAggregates{}, fmt.Errorf("aggregate generations: %w", err)
	}
	agg.TotalPlays = int(plays)
	agg.TotalDownloads = int(downloads)
	agg.TotalFavorites = int(favorites)
	return agg, nil
}

// DeviceBreakdownSince groups completed records by device.
func (r *GenerationRepositoryPG) DeviceBreakdownSince(ctx context.Context, since time.Time) ([]domain.DeviceAggregate, error) {
	rows, err := r.db.Query(ctx, sqlinline.QDeviceBreakdownSince, since)
	if err != nil {
		return nil, fmt.Errorf("device breakdown: %w", err)
	}
	defer rows.Close()

	var out []domain.DeviceAggregate
	for rows.Next() {
		var d domain.DeviceAggregate
		var count int64
		if err := rows.Scan(&d.Device, &count, &d.AvgTime); err != nil {
			return nil, fmt.Errorf("device breakdown: %w", err)
		}
		d.Count = int(count)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("device breakdown: %w", err)
	}
	return out, nil
}

// UniqueUsersSince counts distinct attributed users over the window. Records
// without a user are not counted.
func (r *GenerationRepositoryPG) UniqueUsersSince(ctx context.Context, since time.Time) (int, error) {
	var users int64
	row := r.db.QueryRow(ctx, sqlinline.QUniqueUsersSince, since)
	if err := row.Scan(&users); err != nil {
		return 0, fmt.Errorf("count unique users: %w", err)
	}
	return int(users), nil
}

// CandidatesOlderThan lists records created before cutoff, excluding favorites
// when skipFavorites.
func (r *GenerationRepositoryPG) CandidatesOlderThan(ctx context.Context, cutoff time.Time, skipFavorites bool) ([]domain.CleanupCandidate, error) {
	rows, err := r.db.Query(ctx, sqlinline.QCleanupCandidates, cutoff, !skipFavorites)
	if err != nil {
		return nil, fmt.Errorf("cleanup candidates: %w", err)
	}
	defer rows.Close()

	var out []domain.CleanupCandidate
	for rows.Next() {
		var c domain.CleanupCandidate
		if err := rows.Scan(&c.GenerationID, &c.FilePath); err != nil {
			return nil, fmt.Errorf("cleanup candidates: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cleanup candidates: %w", err)
	}
	return out, nil
}

// DeleteByGenerationIDs removes the given records in one statement and returns
// the number deleted.
func (r *GenerationRepositoryPG) DeleteByGenerationIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.db.Exec(ctx, sqlinline.QDeleteGenerations, ids)
	if err != nil {
		return 0, fmt.Errorf("delete generations: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *GenerationRepositoryPG) queryGenerations(ctx context.Context, query string, args ...any) ([]domain.GenerationRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.GenerationRecord
	for rows.Next() {
		rec, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanGeneration(row pgx.Row) (domain.GenerationRecord, error) {
	var rec domain.GenerationRecord
	err := row.Scan(
		&rec.ID,
		&rec.GenerationID,
		&rec.Prompt,
		&rec.Status,
		&rec.Device,
		&rec.Precision,
		&rec.GenerationTime,
		&rec.RealtimeFactor,
		&rec.FilePath,
		&rec.AudioURL,
		&rec.FileSizeMB,
		&rec.Duration,
		&rec.SampleRate,
		&rec.PlayCount,
		&rec.DownloadCount,
		&rec.IsFavorited,
		&rec.LastPlayed,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&rec.UserID,
		&rec.ErrorMessage,
		&rec.ModelVersion,
	)
	return rec, err
}
