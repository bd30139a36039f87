package repo

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/derekgallardo01/music-genie/internal/domain"
	"github.com/derekgallardo01/music-genie/internal/sqlinline"
	"github.com/derekgallardo01/music-genie/internal/storage"
)

func writeArtifact(t *testing.T, sizeBytes int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gen-1.wav")
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, sizeBytes), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func TestCreateAppliesDefaultsAndMeasuresArtifact(t *testing.T) {
	artifact := writeArtifact(t, 3*1024*1024/2) // 1.5 MB

	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var gotSQL string
	var gotArgs []any
	fdb := &fakeDB{
		queryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
			gotSQL = sql
			gotArgs = args
			return fakeRow{scan: func(dest ...any) error {
				return scanInto([]any{int64(7), createdAt}, dest...)
			}}
		},
	}
	r := NewGenerationRepository(fdb, storage.NewArtifactStore("/audio"), zerolog.Nop())

	rec, err := r.Create(context.Background(), domain.GenerationInput{
		GenerationID:   "gen-1",
		Prompt:         "lofi piano over rain",
		Device:         "cuda",
		GenerationTime: 12.5,
		FileSizeMB:     2.0,
		RealtimeFactor: -1, // resets to the default, not an error
	}, artifact)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if gotSQL != sqlinline.QInsertGeneration {
		t.Fatalf("unexpected insert SQL: %s", gotSQL)
	}
	if rec.ID != 7 || !rec.CreatedAt.Equal(createdAt) {
		t.Errorf("unexpected id/created_at: %d %v", rec.ID, rec.CreatedAt)
	}
	if rec.Status != domain.StatusCompleted {
		t.Errorf("expected default status completed, got %q", rec.Status)
	}
	if rec.Precision != "float32" || rec.SampleRate != 32000 || rec.Duration != 30.0 {
		t.Errorf("defaults not applied: %+v", rec)
	}
	if rec.RealtimeFactor != 1.0 {
		t.Errorf("expected realtime factor reset to 1.0, got %v", rec.RealtimeFactor)
	}
	if rec.FileSizeMB != 1.5 {
		t.Errorf("expected measured artifact size 1.5, got %v", rec.FileSizeMB)
	}
	if rec.AudioURL == nil || *rec.AudioURL != "/audio/gen-1.wav" {
		t.Errorf("unexpected audio url: %v", rec.AudioURL)
	}
	if gotArgs[0] != "gen-1" {
		t.Errorf("expected generation_id as first insert arg, got %v", gotArgs[0])
	}
	if gotArgs[9] != 1.5 {
		t.Errorf("expected measured size in insert args, got %v", gotArgs[9])
	}
}

func TestCreateRejectsMissingRequiredFields(t *testing.T) {
	r := NewGenerationRepository(&fakeDB{}, storage.NewArtifactStore("/audio"), zerolog.Nop())

	rec, err := r.Create(context.Background(), domain.GenerationInput{
		GenerationID:   "gen-2",
		Device:         "cpu",
		GenerationTime: 3.0,
		FileSizeMB:     1.0,
	}, "")
	if rec != nil {
		t.Fatalf("expected no record on validation failure, got %+v", rec)
	}
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || ve.Field != "prompt" {
		t.Fatalf("expected prompt validation error, got %v", err)
	}
}

func TestRecentReconcilesStaleFileSize(t *testing.T) {
	artifact := writeArtifact(t, 1024*1024) // 1.0 MB on disk

	stored := domain.GenerationRecord{
		ID:             1,
		GenerationID:   "gen-1",
		Prompt:         "ambient drone",
		Status:         domain.StatusCompleted,
		Device:         "cuda",
		Precision:      "float32",
		GenerationTime: 4.2,
		RealtimeFactor: 1.0,
		FilePath:       &artifact,
		FileSizeMB:     99.0, // stale
		Duration:       30,
		SampleRate:     32000,
		CreatedAt:      time.Now().UTC(),
		ModelVersion:   "musicgen-small",
	}

	var execSQL string
	var execArgs []any
	fdb := &fakeDB{
		queryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &testRows{rows: [][]any{generationRow(stored)}}, nil
		},
		execFn: func(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			execSQL = sql
			execArgs = args
			return pgconn.NewCommandTag("UPDATE 1"), nil
		},
	}
	r := NewGenerationRepository(fdb, storage.NewArtifactStore("/audio"), zerolog.Nop())

	recs, err := r.Recent(context.Background(), 10, false)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].FileSizeMB != 1.0 {
		t.Errorf("expected reconciled size 1.0, got %v", recs[0].FileSizeMB)
	}
	if execSQL != sqlinline.QUpdateFileSize {
		t.Errorf("expected file size update, got %q", execSQL)
	}
	if len(execArgs) != 2 || execArgs[0] != "gen-1" || execArgs[1] != 1.0 {
		t.Errorf("unexpected update args: %v", execArgs)
	}
}

func TestRecentLeavesMissingArtifactsAlone(t *testing.T) {
	missing := "/nonexistent/gen-9.wav"
	stored := domain.GenerationRecord{
		ID:           2,
		GenerationID: "gen-9",
		Prompt:       "jazz trio",
		Status:       domain.StatusCompleted,
		Device:       "cpu",
		FilePath:     &missing,
		FileSizeMB:   3.2,
		CreatedAt:    time.Now().UTC(),
	}

	execCalled := false
	fdb := &fakeDB{
		queryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &testRows{rows: [][]any{generationRow(stored)}}, nil
		},
		execFn: func(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			execCalled = true
			return pgconn.CommandTag{}, nil
		},
	}
	r := NewGenerationRepository(fdb, storage.NewArtifactStore("/audio"), zerolog.Nop())

	recs, err := r.Recent(context.Background(), 5, true)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if execCalled {
		t.Error("no size update expected when the artifact is unreadable")
	}
	if recs[0].FileSizeMB != 3.2 {
		t.Errorf("stored size should be untouched, got %v", recs[0].FileSizeMB)
	}
}

// Only the unsupported-feature SQLSTATEs may route a search to the substring
// fallback. Genuine database faults on the full-text path must surface, which
// is deliberately stricter than swallowing every primary-path error.
func TestSearchFallsBackOnlyForUnsupportedFeature(t *testing.T) {
	stored := domain.GenerationRecord{
		ID:           3,
		GenerationID: "gen-3",
		Prompt:       "orchestral swell",
		Status:       domain.StatusCompleted,
		Device:       "cuda",
		CreatedAt:    time.Now().UTC(),
	}

	t.Run("undefined function falls back", func(t *testing.T) {
		fdb := &fakeDB{
			queryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
				if sql == sqlinline.QSearchFullText {
					return nil, &pgconn.PgError{Code: "42883"}
				}
				if sql != sqlinline.QSearchSubstring {
					t.Fatalf("unexpected query: %s", sql)
				}
				return &testRows{rows: [][]any{generationRow(stored)}}, nil
			},
		}
		r := NewGenerationRepository(fdb, storage.NewArtifactStore("/audio"), zerolog.Nop())

		recs, err := r.Search(context.Background(), "orchestral", 10)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(recs) != 1 || recs[0].GenerationID != "gen-3" {
			t.Fatalf("unexpected results: %+v", recs)
		}
	})

	t.Run("genuine fault propagates", func(t *testing.T) {
		fault := &pgconn.PgError{Code: "42P01"} // undefined_table
		fdb := &fakeDB{
			queryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
				if sql == sqlinline.QSearchSubstring {
					t.Fatal("fallback must not run for a genuine fault")
				}
				return nil, fault
			},
		}
		r := NewGenerationRepository(fdb, storage.NewArtifactStore("/audio"), zerolog.Nop())

		_, err := r.Search(context.Background(), "orchestral", 10)
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != "42P01" {
			t.Fatalf("expected the fault to surface, got %v", err)
		}
	})
}

func TestDeleteByGenerationIDs(t *testing.T) {
	fdb := &fakeDB{
		execFn: func(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
			if sql != sqlinline.QDeleteGenerations {
				t.Fatalf("unexpected SQL: %s", sql)
			}
			ids := args[0].([]string)
			if len(ids) != 2 {
				t.Fatalf("unexpected ids: %v", ids)
			}
			return pgconn.NewCommandTag("DELETE 2"), nil
		},
	}
	r := NewGenerationRepository(fdb, storage.NewArtifactStore("/audio"), zerolog.Nop())

	n, err := r.DeleteByGenerationIDs(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("DeleteByGenerationIDs: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deleted, got %d", n)
	}

	// An empty batch must not touch the database.
	r2 := NewGenerationRepository(&fakeDB{}, storage.NewArtifactStore("/audio"), zerolog.Nop())
	if n, err := r2.DeleteByGenerationIDs(context.Background(), nil); err != nil || n != 0 {
		t.Errorf("empty batch: got %d, %v", n, err)
	}
}
