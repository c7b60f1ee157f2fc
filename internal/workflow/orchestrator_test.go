package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"presser/internal/batch"
	"presser/internal/catalog"
	"presser/internal/config"
	"presser/internal/gazelle"
	"presser/internal/history"
	"presser/internal/logging"
	"presser/internal/organizer"
	"presser/internal/scrape"
	"presser/internal/services"
	"presser/internal/testsupport"
)

type fakeAcquirer struct {
	t          *testing.T
	folderName string
	fileSizes  []int64
	err        error
	calls      int
}

func (f *fakeAcquirer) Acquire(ctx context.Context, albumURL, downloadDir string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	folder := filepath.Join(downloadDir, f.folderName)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", err
	}
	for i, size := range f.fileSizes {
		name := filepath.Join(folder, fmt.Sprintf("%02d - track.flac", i+1))
		testsupport.WriteFlac(f.t, name, size, nil)
	}
	return folder, nil
}

type fakeRecompressor struct {
	calls int
	err   error
}

func (f *fakeRecompressor) RecompressFolder(ctx context.Context, folder string) error {
	f.calls++
	return f.err
}

type fakeBuilder struct {
	calls int
}

func (f *fakeBuilder) Build(folder, outputDir string) (string, error) {
	f.calls++
	path := filepath.Join(outputDir, filepath.Base(folder)+".torrent")
	if err := os.WriteFile(path, []byte("d4:infodee"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type fakeScraper struct {
	data  scrape.AlbumData
	links []string
	err   error
}

func (f *fakeScraper) Album(ctx context.Context, pageURL string) scrape.AlbumData {
	return f.data
}

func (f *fakeScraper) AlbumLinks(ctx context.Context, pageURL string) ([]string, error) {
	return f.links, f.err
}

type fakeUploader struct {
	subs    []catalog.Submission
	dryRuns []bool
	receipt gazelle.Receipt
	err     error
}

func (f *fakeUploader) Upload(ctx context.Context, sub catalog.Submission, torrentPath string, dryRun bool) (gazelle.Receipt, error) {
	f.subs = append(f.subs, sub)
	f.dryRuns = append(f.dryRuns, dryRun)
	if f.err != nil {
		return gazelle.Receipt{}, f.err
	}
	return f.receipt, nil
}

func newOrchestrator(t *testing.T, cfg *config.Config, deps Deps) *Orchestrator {
	t.Helper()
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	if deps.Files == nil {
		deps.Files = organizer.New(logging.NewNop())
	}
	if deps.Scraper == nil {
		deps.Scraper = &fakeScraper{}
	}
	return New(cfg, deps, logging.NewNop())
}

func TestRunFromURL(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	acquirer := &fakeAcquirer{t: t, folderName: "Artist - Album", fileSizes: []int64{2048, 2048}}
	recompressor := &fakeRecompressor{}
	builder := &fakeBuilder{}
	uploader := &fakeUploader{receipt: gazelle.Receipt{TorrentID: 7, GroupID: 3}}
	orch := newOrchestrator(t, cfg, Deps{
		Acquirer: acquirer,
		Flac:     recompressor,
		Torrents: builder,
		Uploader: uploader,
		Scraper:  &fakeScraper{data: scrape.AlbumData{CoverURL: "https://img.example/c.jpg"}},
	})

	result, err := orch.Run(context.Background(), RunOptions{SourceURL: "https://example.com/album/x"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.AlbumPath != filepath.Join(cfg.Paths.DestinationDir, "Artist - Album") {
		t.Fatalf("album path = %q", result.AlbumPath)
	}
	if recompressor.calls != 1 || builder.calls != 1 {
		t.Fatalf("recompress calls = %d, build calls = %d", recompressor.calls, builder.calls)
	}
	if len(uploader.subs) != 1 {
		t.Fatalf("uploads = %d", len(uploader.subs))
	}
	if uploader.subs[0].ImageURL != "https://img.example/c.jpg" {
		t.Fatalf("image url = %q", uploader.subs[0].ImageURL)
	}
	if result.Receipt.TorrentID != 7 {
		t.Fatalf("receipt = %+v", result.Receipt)
	}
	// download dir no longer holds the album after relocation
	if _, err := os.Stat(filepath.Join(cfg.Paths.DownloadDir, "Artist - Album")); !os.IsNotExist(err) {
		t.Fatalf("album still in download dir: %v", err)
	}
}

func TestRunExistingFolderSkipsAcquisition(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	acquirer := &fakeAcquirer{}
	recompressor := &fakeRecompressor{}
	uploader := &fakeUploader{}
	orch := newOrchestrator(t, cfg, Deps{
		Acquirer: acquirer,
		Flac:     recompressor,
		Torrents: &fakeBuilder{},
		Uploader: uploader,
	})

	folder := filepath.Join(cfg.Paths.DestinationDir, "Artist - Album")
	testsupport.WriteFile(t, filepath.Join(folder, "notes.txt"), 10)

	result, err := orch.Run(context.Background(), RunOptions{Folder: folder})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if acquirer.calls != 0 || recompressor.calls != 0 {
		t.Fatalf("acquire calls = %d, recompress calls = %d", acquirer.calls, recompressor.calls)
	}
	if result.AlbumPath != folder {
		t.Fatalf("album path = %q", result.AlbumPath)
	}
	// no tags and no track count: title falls back to the folder name
	if got := uploader.subs[0].Title; got != "Artist - Album" {
		t.Fatalf("title = %q", got)
	}
}

func TestRunMissingFolderFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	orch := newOrchestrator(t, cfg, Deps{
		Acquirer: &fakeAcquirer{},
		Flac:     &fakeRecompressor{},
		Torrents: &fakeBuilder{},
		Uploader: &fakeUploader{},
	})

	_, err := orch.Run(context.Background(), RunOptions{Folder: filepath.Join(cfg.Paths.DestinationDir, "absent")})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestRunReusesExistingTorrent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	builder := &fakeBuilder{}
	orch := newOrchestrator(t, cfg, Deps{
		Acquirer: &fakeAcquirer{},
		Flac:     &fakeRecompressor{},
		Torrents: builder,
		Uploader: &fakeUploader{},
	})

	folder := filepath.Join(cfg.Paths.DestinationDir, "Artist - Album")
	testsupport.WriteFile(t, filepath.Join(folder, "notes.txt"), 10)
	existing := filepath.Join(cfg.Paths.TorrentOutputDir, "Artist - Album.torrent")
	testsupport.WriteFile(t, existing, 64)

	result, err := orch.Run(context.Background(), RunOptions{Folder: folder})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if builder.calls != 0 {
		t.Fatalf("builder called %d times for an existing torrent", builder.calls)
	}
	if result.TorrentPath != existing {
		t.Fatalf("torrent path = %q", result.TorrentPath)
	}
}

func TestRunDryRunPassesFlag(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	uploader := &fakeUploader{}
	orch := newOrchestrator(t, cfg, Deps{
		Acquirer: &fakeAcquirer{},
		Flac:     &fakeRecompressor{},
		Torrents: &fakeBuilder{},
		Uploader: uploader,
	})

	folder := filepath.Join(cfg.Paths.DestinationDir, "Artist - Album")
	testsupport.WriteFile(t, filepath.Join(folder, "notes.txt"), 10)

	if _, err := orch.Run(context.Background(), RunOptions{Folder: folder, DryRun: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(uploader.dryRuns) != 1 || !uploader.dryRuns[0] {
		t.Fatalf("dry runs = %v", uploader.dryRuns)
	}
}

func TestRunMovesTorrentToWatchFolder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.WatchDir = filepath.Join(filepath.Dir(cfg.Paths.DownloadDir), "watch")
	orch := newOrchestrator(t, cfg, Deps{
		Acquirer: &fakeAcquirer{},
		Flac:     &fakeRecompressor{},
		Torrents: &fakeBuilder{},
		Uploader: &fakeUploader{},
	})

	folder := filepath.Join(cfg.Paths.DestinationDir, "Artist - Album")
	testsupport.WriteFile(t, filepath.Join(folder, "notes.txt"), 10)

	result, err := orch.Run(context.Background(), RunOptions{Folder: folder})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	watched := filepath.Join(cfg.Paths.WatchDir, filepath.Base(result.TorrentPath))
	if _, err := os.Stat(watched); err != nil {
		t.Fatalf("torrent not in watch folder: %v", err)
	}
	if _, err := os.Stat(result.TorrentPath); !os.IsNotExist(err) {
		t.Fatalf("torrent still at output path: %v", err)
	}
}

func TestRunBatchContinuesAfterFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.WriteFile(cfg.Paths.QueueFile,
		[]byte("https://example.com/album/fail\nhttps://example.com/album/ok\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	calls := 0
	acquirer := &acquireFunc{fn: func(ctx context.Context, url, dir string) (string, error) {
		calls++
		if url == "https://example.com/album/fail" {
			return "", services.Wrap(services.ErrAcquisition, "acquire", "download", url, nil)
		}
		folder := filepath.Join(dir, "Artist - Album")
		testsupport.WriteFile(t, filepath.Join(folder, "notes.txt"), 10)
		return folder, nil
	}}
	orch := newOrchestrator(t, cfg, Deps{
		Acquirer: acquirer,
		Flac:     &fakeRecompressor{},
		Torrents: &fakeBuilder{},
		Uploader: &fakeUploader{},
		Queue:    batch.NewQueue(cfg.Paths.QueueFile),
	})

	summary, err := orch.RunBatch(context.Background(), false)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if summary.Processed != 2 || summary.Succeeded != 1 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	remaining, err := batch.NewQueue(cfg.Paths.QueueFile).Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(remaining) != 1 || remaining[0] != "https://example.com/album/fail" {
		t.Fatalf("remaining = %v", remaining)
	}
}

type acquireFunc struct {
	fn func(ctx context.Context, url, dir string) (string, error)
}

func (a *acquireFunc) Acquire(ctx context.Context, url, dir string) (string, error) {
	return a.fn(ctx, url, dir)
}

func TestRunBatchStopsOnConfigurationError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.WriteFile(cfg.Paths.QueueFile,
		[]byte("https://example.com/album/a\nhttps://example.com/album/b\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	acquirer := &acquireFunc{fn: func(ctx context.Context, url, dir string) (string, error) {
		return "", services.Wrap(services.ErrConfiguration, "acquire", "tool", "binary missing", nil)
	}}
	orch := newOrchestrator(t, cfg, Deps{
		Acquirer: acquirer,
		Flac:     &fakeRecompressor{},
		Torrents: &fakeBuilder{},
		Uploader: &fakeUploader{},
		Queue:    batch.NewQueue(cfg.Paths.QueueFile),
	})

	summary, err := orch.RunBatch(context.Background(), false)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
	if summary.Processed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}

func TestRunBatchDryRunLeavesQueueUntouched(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.WriteFile(cfg.Paths.QueueFile, []byte("https://example.com/album/a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	orch := newOrchestrator(t, cfg, Deps{
		Acquirer: &fakeAcquirer{t: t, folderName: "Album", fileSizes: []int64{1024}},
		Flac:     &fakeRecompressor{},
		Torrents: &fakeBuilder{},
		Uploader: &fakeUploader{},
		Queue:    batch.NewQueue(cfg.Paths.QueueFile),
	})

	summary, err := orch.RunBatch(context.Background(), true)
	if err != nil {
		t.Fatalf("RunBatch: %v", err)
	}
	if summary.Succeeded != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	remaining, err := batch.NewQueue(cfg.Paths.QueueFile).Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("remaining = %v", remaining)
	}
}

func TestDiscoverAppendsOnlyUnseenLinks(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.PagesFile = filepath.Join(filepath.Dir(cfg.Paths.QueueFile), "pages.txt")
	if err := os.WriteFile(cfg.Paths.PagesFile, []byte("https://example.com/artist/someone\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.Paths.QueueFile,
		[]byte("# https://example.com/album/old\nhttps://example.com/album/pending\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	scraper := &fakeScraper{links: []string{
		"https://example.com/album/old",
		"https://example.com/album/pending",
		"https://example.com/album/new",
	}}
	orch := newOrchestrator(t, cfg, Deps{
		Acquirer: &fakeAcquirer{},
		Flac:     &fakeRecompressor{},
		Torrents: &fakeBuilder{},
		Uploader: &fakeUploader{},
		Scraper:  scraper,
		Queue:    batch.NewQueue(cfg.Paths.QueueFile),
	})

	fresh, err := orch.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(fresh) != 1 || fresh[0] != "https://example.com/album/new" {
		t.Fatalf("fresh = %v", fresh)
	}

	entries, err := batch.NewQueue(cfg.Paths.QueueFile).Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %v", entries)
	}
}

func TestRunRecordsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history open: %v", err)
	}
	defer store.Close()

	orch := newOrchestrator(t, cfg, Deps{
		Acquirer: &fakeAcquirer{},
		Flac:     &fakeRecompressor{},
		Torrents: &fakeBuilder{},
		Uploader: &fakeUploader{receipt: gazelle.Receipt{TorrentID: 55, GroupID: 9}},
		Recorder: store,
	})

	folder := filepath.Join(cfg.Paths.DestinationDir, "Artist - Album")
	testsupport.WriteFile(t, filepath.Join(folder, "notes.txt"), 10)

	if _, err := orch.Run(context.Background(), RunOptions{Folder: folder}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	rows, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(rows) != 1 || rows[0].TorrentID != 55 || rows[0].AlbumPath != folder {
		t.Fatalf("rows = %+v", rows)
	}
}
