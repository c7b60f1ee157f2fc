package testsupport

import (
	"path/filepath"
	"testing"

	"presser/internal/config"
)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DownloadDir = filepath.Join(base, "downloads")
	cfg.Paths.DestinationDir = filepath.Join(base, "seeding")
	cfg.Paths.TorrentOutputDir = filepath.Join(base, "torrents")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.QueueFile = filepath.Join(base, "queue.txt")
	cfg.Tracker.AnnounceURL = "https://tracker.example/abc/announce"
	cfg.Tracker.APIKey = "test-key"
	return &cfg
}
