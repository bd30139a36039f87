package storage

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// ArtifactStore resolves generation artifacts on the local filesystem. Reads
// happen on the record store's reconciliation path; Remove is only called by
// retention cleanup.
type ArtifactStore struct {
	urlPrefix string
}

// NewArtifactStore creates a store that derives public URLs under urlPrefix.
func NewArtifactStore(urlPrefix string) *ArtifactStore {
	urlPrefix = strings.TrimRight(strings.TrimSpace(urlPrefix), "/")
	if urlPrefix == "" {
		urlPrefix = "/audio"
	}
	return &ArtifactStore{urlPrefix: urlPrefix}
}

// Exists reports whether the artifact is present and is a regular file.
func (s *ArtifactStore) Exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// SizeMB returns the measured artifact size in megabytes, rounded to two
// decimals. The second return is false when the artifact is not accessible.
func (s *ArtifactStore) SizeMB(path string) (float64, bool) {
	if path == "" {
		return 0, false
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return 0, false
	}
	mb := float64(info.Size()) / (1024 * 1024)
	return math.Round(mb*100) / 100, true
}

// Remove deletes the artifact file.
func (s *ArtifactStore) Remove(path string) error {
	if path == "" {
		return fmt.Errorf("storage: path is required")
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("storage: remove artifact: %w", err)
	}
	return nil
}

// URL derives the public URL from the artifact's base name.
func (s *ArtifactStore) URL(path string) string {
	return s.urlPrefix + "/" + filepath.Base(path)
}
