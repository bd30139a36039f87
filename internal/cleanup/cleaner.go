package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/derekgallardo01/music-genie/internal/domain"
	"github.com/derekgallardo01/music-genie/internal/storage"
)

// Report describes one retention run.
type Report struct {
	DryRun            bool      `json:"dry_run"`
	CandidateCount    int       `json:"generations_to_delete"`
	DeletedRecords    int       `json:"deleted_records"`
	DeletedFiles      int       `json:"deleted_files"`
	FailedFileDeletes int       `json:"failed_file_deletes"`
	CutoffDate        time.Time `json:"cutoff_date"`
	KeepFavorites     bool      `json:"keep_favorites"`
}

// RecordPurger is the slice of the record store the cleaner mutates.
type RecordPurger interface {
	CandidatesOlderThan(ctx context.Context, cutoff time.Time, skipFavorites bool) ([]domain.CleanupCandidate, error)
	DeleteByGenerationIDs(ctx context.Context, ids []string) (int64, error)
}

// Cleaner enforces the storage retention policy. Artifact deletion is
// best-effort; record deletion is authoritative and never blocked by a failed
// file removal.
type Cleaner struct {
	gens  RecordPurger
	store *storage.ArtifactStore
	log   zerolog.Logger
	now   func() time.Time
}

// NewCleaner constructs the retention engine.
func NewCleaner(gens RecordPurger, store *storage.ArtifactStore, log zerolog.Logger) *Cleaner {
	return &Cleaner{gens: gens, store: store, log: log, now: time.Now}
}

// Run deletes records older than daysToKeep, optionally exempting favorites.
// In dry-run mode nothing is mutated and the report carries only the
// candidate count and cutoff. Cancellation between candidates is safe: only
// candidates whose artifacts were already handled are deleted.
func (c *Cleaner) Run(ctx context.Context, daysToKeep int, keepFavorites, dryRun bool) (Report, error) {
	if daysToKeep < 1 {
		return Report{}, fmt.Errorf("days to keep must be at least 1, got %d", daysToKeep)
	}
	cutoff := c.now().UTC().AddDate(0, 0, -daysToKeep)

	candidates, err := c.gens.CandidatesOlderThan(ctx, cutoff, keepFavorites)
	if err != nil {
		return Report{}, fmt.Errorf("select cleanup candidates: %w", err)
	}

	report := Report{
		DryRun:         dryRun,
		CandidateCount: len(candidates),
		CutoffDate:     cutoff,
		KeepFavorites:  keepFavorites,
	}
	if dryRun {
		c.log.Info().
			Int("candidates", len(candidates)).
			Time("cutoff", cutoff).
			Msg("cleanup dry run")
		return report, nil
	}

	ids := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		if ctx.Err() != nil {
			break
		}
		if cand.FilePath != nil && c.store.Exists(*cand.FilePath) {
			if err := c.store.Remove(*cand.FilePath); err != nil {
				report.FailedFileDeletes++
				c.log.Warn().Err(err).
					Str("generation_id", cand.GenerationID).
					Str("file_path", *cand.FilePath).
					Msg("failed to delete artifact, record will still be removed")
			} else {
				report.DeletedFiles++
			}
		}
		ids = append(ids, cand.GenerationID)
	}

	deleted, err := c.gens.DeleteByGenerationIDs(ctx, ids)
	if err != nil {
		return Report{}, fmt.Errorf("delete generation records: %w", err)
	}
	report.DeletedRecords = int(deleted)

	c.log.Info().
		Int("deleted_records", report.DeletedRecords).
		Int("deleted_files", report.DeletedFiles).
		Int("failed_file_deletes", report.FailedFileDeletes).
		Time("cutoff", cutoff).
		Msg("cleanup completed")
	return report, nil
}
