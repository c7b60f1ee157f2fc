package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"presser/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantDownload := filepath.Join(tempHome, ".local", "share", "presser", "downloads")
	if cfg.Paths.DownloadDir != wantDownload {
		t.Fatalf("unexpected download dir: got %q want %q", cfg.Paths.DownloadDir, wantDownload)
	}
	if cfg.Paths.DestinationDir != filepath.Join(tempHome, "seeding") {
		t.Fatalf("unexpected destination dir: %q", cfg.Paths.DestinationDir)
	}
	if cfg.Tools.QobuzDLBinary != "qobuz-dl" {
		t.Fatalf("unexpected qobuz-dl binary: %q", cfg.Tools.QobuzDLBinary)
	}
	if cfg.Tracker.SourceTag != "RED" {
		t.Fatalf("unexpected source tag: %q", cfg.Tracker.SourceTag)
	}
	if cfg.Tracker.RequestTimeout != 120 {
		t.Fatalf("unexpected tracker timeout: %d", cfg.Tracker.RequestTimeout)
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`download_dir = "` + filepath.Join(dir, "dl") + `"`,
		`destination_dir = "` + filepath.Join(dir, "dest") + `"`,
		`torrent_output_dir = "` + filepath.Join(dir, "torrents") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		"[tracker]",
		`announce_url = "https://flacsfor.me/abc/announce"`,
		`api_url = "https://redacted.sh/ajax.php/"`,
		`api_key = " secret "`,
		"[logging]",
		`format = "JSON"`,
		"debug = true",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Tracker.APIURL != "https://redacted.sh/ajax.php" {
		t.Fatalf("expected trailing slash stripped, got %q", cfg.Tracker.APIURL)
	}
	if cfg.Tracker.APIKey != "secret" {
		t.Fatalf("expected trimmed api key, got %q", cfg.Tracker.APIKey)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected lowercased format, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected debug flag to raise level, got %q", cfg.Logging.Level)
	}
	if err := cfg.RequireUpload(); err != nil {
		t.Fatalf("RequireUpload: %v", err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[tracker]",
		`announce_url = "not a url"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for invalid announce url")
	}
}

func TestRequireUploadMissingKey(t *testing.T) {
	cfg := config.Default()
	if err := cfg.RequireUpload(); err == nil {
		t.Fatal("expected error when announce url and api key are unset")
	}
}

func TestCreateSample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[tracker]") {
		t.Fatal("sample config missing tracker section")
	}
}
