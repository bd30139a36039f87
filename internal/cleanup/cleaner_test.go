package cleanup

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/derekgallardo01/music-genie/internal/domain"
	"github.com/derekgallardo01/music-genie/internal/storage"
)

type fakePurger struct {
	candidates []domain.CleanupCandidate
	deletedIDs []string
}

func (f *fakePurger) CandidatesOlderThan(context.Context, time.Time, bool) ([]domain.CleanupCandidate, error) {
	return f.candidates, nil
}

func (f *fakePurger) DeleteByGenerationIDs(_ context.Context, ids []string) (int64, error) {
	f.deletedIDs = append(f.deletedIDs, ids...)
	return int64(len(ids)), nil
}

func writeArtifact(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x01}, 2048), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func newTestCleaner(p RecordPurger, now time.Time) *Cleaner {
	c := NewCleaner(p, storage.NewArtifactStore("/audio"), zerolog.Nop())
	c.now = func() time.Time { return now }
	return c
}

func TestDryRunNeverMutates(t *testing.T) {
	dir := t.TempDir()
	artifact := writeArtifact(t, dir, "old.wav")
	purger := &fakePurger{candidates: []domain.CleanupCandidate{
		{GenerationID: "gen-1", FilePath: &artifact},
		{GenerationID: "gen-2"},
	}}
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	c := newTestCleaner(purger, now)

	report, err := c.Run(context.Background(), 30, true, true)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !report.DryRun || report.CandidateCount != 2 {
		t.Errorf("unexpected dry-run report: %+v", report)
	}
	if want := now.AddDate(0, 0, -30); !report.CutoffDate.Equal(want) {
		t.Errorf("expected cutoff %v, got %v", want, report.CutoffDate)
	}
	if len(purger.deletedIDs) != 0 {
		t.Errorf("dry run deleted records: %v", purger.deletedIDs)
	}
	if _, err := os.Stat(artifact); err != nil {
		t.Errorf("dry run touched the artifact: %v", err)
	}
	if report.DeletedRecords != 0 || report.DeletedFiles != 0 {
		t.Errorf("dry run reported deletions: %+v", report)
	}
}

func TestApplyDeletesExactlyTheDryRunCandidates(t *testing.T) {
	dir := t.TempDir()
	a := writeArtifact(t, dir, "a.wav")
	b := writeArtifact(t, dir, "b.wav")
	purger := &fakePurger{candidates: []domain.CleanupCandidate{
		{GenerationID: "gen-a", FilePath: &a},
		{GenerationID: "gen-b", FilePath: &b},
	}}
	now := time.Now().UTC()
	c := newTestCleaner(purger, now)

	ctx := context.Background()
	dry, err := c.Run(ctx, 30, true, true)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}

	applied, err := c.Run(ctx, 30, true, false)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if applied.DeletedRecords != dry.CandidateCount {
		t.Errorf("expected %d deletions, got %d", dry.CandidateCount, applied.DeletedRecords)
	}
	if applied.DeletedFiles != 2 {
		t.Errorf("expected both artifacts removed, got %d", applied.DeletedFiles)
	}
	for _, path := range []string{a, b} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("artifact %s should be gone", path)
		}
	}
}

func TestMissingArtifactDoesNotBlockRecordDeletion(t *testing.T) {
	dir := t.TempDir()
	present := writeArtifact(t, dir, "present.wav")
	gone := filepath.Join(dir, "already-removed.wav")
	purger := &fakePurger{candidates: []domain.CleanupCandidate{
		{GenerationID: "gen-present", FilePath: &present},
		{GenerationID: "gen-gone", FilePath: &gone},
	}}
	c := newTestCleaner(purger, time.Now().UTC())

	report, err := c.Run(context.Background(), 30, false, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.DeletedRecords != 2 {
		t.Fatalf("expected both records deleted, got %d", report.DeletedRecords)
	}
	if report.DeletedFiles >= report.DeletedRecords {
		t.Errorf("expected deleted_files < deleted_records, got %d/%d", report.DeletedFiles, report.DeletedRecords)
	}
	if len(purger.deletedIDs) != 2 {
		t.Errorf("expected both ids deleted, got %v", purger.deletedIDs)
	}
}

func TestCancelledRunDeletesNothing(t *testing.T) {
	dir := t.TempDir()
	artifact := writeArtifact(t, dir, "keep.wav")
	purger := &fakePurger{candidates: []domain.CleanupCandidate{
		{GenerationID: "gen-1", FilePath: &artifact},
	}}
	c := newTestCleaner(purger, time.Now().UTC())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := c.Run(ctx, 30, true, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.DeletedRecords != 0 {
		t.Errorf("cancelled run deleted records: %+v", report)
	}
	if _, err := os.Stat(artifact); err != nil {
		t.Errorf("cancelled run touched the artifact: %v", err)
	}
}

func TestRejectsNonPositiveRetention(t *testing.T) {
	c := newTestCleaner(&fakePurger{}, time.Now().UTC())
	if _, err := c.Run(context.Background(), 0, true, true); err == nil {
		t.Fatal("expected an error for daysToKeep < 1")
	}
}
