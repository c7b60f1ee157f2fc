package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"presser/internal/batch"
	"presser/internal/catalog"
	"presser/internal/config"
	"presser/internal/fileutil"
	"presser/internal/gazelle"
	"presser/internal/history"
	"presser/internal/logging"
	"presser/internal/scrape"
	"presser/internal/services"
	"presser/internal/tags"
)

// Acquirer downloads an album and reports the folder it produced.
type Acquirer interface {
	Acquire(ctx context.Context, albumURL, downloadDir string) (string, error)
}

// Recompressor re-encodes every FLAC file in a folder at maximum compression.
type Recompressor interface {
	RecompressFolder(ctx context.Context, folder string) error
}

// Normalizer flattens redundant nesting and relocates the album folder.
type Normalizer interface {
	Normalize(folder string) (string, error)
	Relocate(folder, destinationRoot string) (string, error)
}

// TorrentBuilder writes a torrent descriptor for a folder.
type TorrentBuilder interface {
	Build(folder, outputDir string) (string, error)
}

// Scraper extracts cover and tracklist data from an album page.
type Scraper interface {
	Album(ctx context.Context, pageURL string) scrape.AlbumData
	AlbumLinks(ctx context.Context, pageURL string) ([]string, error)
}

// Uploader submits a finished torrent to the tracker.
type Uploader interface {
	Upload(ctx context.Context, sub catalog.Submission, torrentPath string, dryRun bool) (gazelle.Receipt, error)
}

// Recorder persists submission history. May be absent.
type Recorder interface {
	Record(ctx context.Context, sub history.Submission) (int64, error)
	FindByAlbum(ctx context.Context, albumPath string) ([]history.Submission, error)
}

// Editor lets the operator review and adjust derived submission fields.
// Absent in automatic mode.
type Editor interface {
	Edit(sub *catalog.Submission) error
}

// Orchestrator drives the album pipeline from source selection to tracker
// submission. Stages run strictly sequentially; at most one external call is
// in flight at any time.
type Orchestrator struct {
	cfg      *config.Config
	logger   *slog.Logger
	acquirer Acquirer
	flac     Recompressor
	files    Normalizer
	torrents TorrentBuilder
	scraper  Scraper
	uploader Uploader
	recorder Recorder
	editor   Editor
	queue    *batch.Queue
}

// Deps bundles the collaborators an Orchestrator composes. Recorder and
// Editor are optional; everything else is required.
type Deps struct {
	Acquirer Acquirer
	Flac     Recompressor
	Files    Normalizer
	Torrents TorrentBuilder
	Scraper  Scraper
	Uploader Uploader
	Recorder Recorder
	Editor   Editor
	Queue    *batch.Queue
}

func New(cfg *config.Config, deps Deps, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "workflow"),
		acquirer: deps.Acquirer,
		flac:     deps.Flac,
		files:    deps.Files,
		torrents: deps.Torrents,
		scraper:  deps.Scraper,
		uploader: deps.Uploader,
		recorder: deps.Recorder,
		editor:   deps.Editor,
		queue:    deps.Queue,
	}
}

// RunOptions selects the source and mode for a single pipeline run. Exactly
// one of SourceURL or Folder must be set.
type RunOptions struct {
	// SourceURL is an album page URL to download from.
	SourceURL string
	// Folder is an already-relocated album folder inside the destination
	// directory. Acquisition, normalization, recompression, and relocation
	// are skipped.
	Folder string
	// DryRun submits with the tracker's validation-only flag.
	DryRun bool
}

// Result reports what a completed run produced.
type Result struct {
	AlbumPath   string
	TorrentPath string
	Receipt     gazelle.Receipt
	DryRun      bool
}

// Run executes the single-item pipeline. Between stages it honors context
// cancellation so an interrupt stops cleanly without leaving partial state.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (*Result, error) {
	albumPath, err := o.prepareAlbum(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	torrentPath, err := o.obtainTorrent(services.WithStage(ctx, "torrent"), albumPath)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sub, err := o.deriveSubmission(services.WithStage(ctx, "metadata"), albumPath, opts.SourceURL)
	if err != nil {
		return nil, err
	}
	o.warnOnPriorUpload(ctx, albumPath)
	if o.editor != nil {
		if err := o.editor.Edit(&sub); err != nil {
			return nil, services.Wrap(services.ErrValidation, "metadata", "edit submission", "", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	receipt, err := o.uploader.Upload(services.WithStage(ctx, "submit"), sub, torrentPath, opts.DryRun)
	if err != nil {
		return nil, err
	}
	o.recordSubmission(ctx, opts, albumPath, torrentPath, receipt)

	if o.cfg.Paths.WatchDir != "" && !opts.DryRun {
		if err := o.moveToWatchFolder(torrentPath); err != nil {
			o.logger.Warn("watch folder move failed", logging.Error(err))
		}
	}

	return &Result{
		AlbumPath:   albumPath,
		TorrentPath: torrentPath,
		Receipt:     receipt,
		DryRun:      opts.DryRun,
	}, nil
}

// prepareAlbum resolves the relocated album folder, either by accepting an
// existing one or by running the acquisition half of the pipeline.
func (o *Orchestrator) prepareAlbum(ctx context.Context, opts RunOptions) (string, error) {
	if opts.Folder != "" {
		if !fileutil.IsDir(opts.Folder) {
			return "", services.Wrap(services.ErrValidation, "select", "existing folder",
				opts.Folder+" is not a directory", nil)
		}
		o.logger.Info("reusing existing album folder", logging.String("folder", opts.Folder))
		return opts.Folder, nil
	}
	if opts.SourceURL == "" {
		return "", services.Wrap(services.ErrValidation, "select", "source",
			"either a source URL or an existing folder is required", nil)
	}

	o.logger.Info("acquiring album", logging.String("url", opts.SourceURL))
	folder, err := o.acquirer.Acquire(services.WithStage(ctx, "acquire"), opts.SourceURL, o.cfg.Paths.DownloadDir)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	folder, err = o.files.Normalize(folder)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := o.flac.RecompressFolder(services.WithStage(ctx, "recompress"), folder); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	return o.files.Relocate(folder, o.cfg.Paths.DestinationDir)
}

// obtainTorrent reuses a torrent already present at the canonical output
// path, building a fresh one otherwise.
func (o *Orchestrator) obtainTorrent(ctx context.Context, albumPath string) (string, error) {
	canonical := filepath.Join(o.cfg.Paths.TorrentOutputDir, filepath.Base(albumPath)+".torrent")
	if fileutil.Exists(canonical) {
		o.logger.Info("reusing existing torrent", logging.String("torrent", canonical))
		return canonical, nil
	}
	return o.torrents.Build(albumPath, o.cfg.Paths.TorrentOutputDir)
}

func (o *Orchestrator) deriveSubmission(ctx context.Context, albumPath, sourceURL string) (catalog.Submission, error) {
	meta, err := tags.Extract(albumPath)
	if err != nil {
		return catalog.Submission{}, services.Wrap(services.ErrValidation, "metadata", "read tags", albumPath, err)
	}
	flacs, err := fileutil.FilesWithExt(albumPath, ".flac")
	if err != nil {
		return catalog.Submission{}, services.Wrap(services.ErrValidation, "metadata", "count tracks", albumPath, err)
	}

	in := catalog.Input{
		Meta:       meta,
		TrackCount: len(flacs),
		SourceURL:  sourceURL,
	}
	if sourceURL != "" {
		page := o.scraper.Album(ctx, sourceURL)
		in.CoverURL = page.CoverURL
		in.Tracklist = page.Tracklist
	}

	sub := catalog.Derive(in)
	if sub.Title == "" {
		sub.Title = filepath.Base(albumPath)
	}
	return sub, nil
}

func (o *Orchestrator) warnOnPriorUpload(ctx context.Context, albumPath string) {
	if o.recorder == nil {
		return
	}
	prior, err := o.recorder.FindByAlbum(ctx, albumPath)
	if err != nil {
		o.logger.Warn("history lookup failed", logging.Error(err))
		return
	}
	for _, sub := range prior {
		if !sub.DryRun {
			o.logger.Warn("album was already submitted",
				logging.String("album", albumPath),
				logging.Int64("torrent_id", sub.TorrentID),
				logging.String("submitted_at", sub.SubmittedAt.Format("2006-01-02")))
			return
		}
	}
}

func (o *Orchestrator) recordSubmission(ctx context.Context, opts RunOptions, albumPath, torrentPath string, receipt gazelle.Receipt) {
	if o.recorder == nil {
		return
	}
	_, err := o.recorder.Record(ctx, history.Submission{
		SourceURL:   opts.SourceURL,
		AlbumPath:   albumPath,
		TorrentPath: torrentPath,
		TorrentID:   receipt.TorrentID,
		GroupID:     receipt.GroupID,
		DryRun:      opts.DryRun,
	})
	if err != nil {
		o.logger.Warn("history record failed", logging.Error(err))
	}
}

func (o *Orchestrator) moveToWatchFolder(torrentPath string) error {
	target := filepath.Join(o.cfg.Paths.WatchDir, filepath.Base(torrentPath))
	if err := fileutil.MoveFile(torrentPath, target); err != nil {
		return err
	}
	o.logger.Info("torrent moved to watch folder", logging.String("torrent", target))
	return nil
}

// BatchSummary aggregates a queue run.
type BatchSummary struct {
	Processed int
	Succeeded int
	Failed    int
}

func (s BatchSummary) String() string {
	return fmt.Sprintf("%d processed, %d succeeded, %d failed", s.Processed, s.Succeeded, s.Failed)
}

// RunBatch processes every active queue entry sequentially. A failed entry is
// logged and skipped; configuration failures abort the batch since no later
// entry could succeed either. An entry is marked processed only after a
// successful non-dry-run submission.
func (o *Orchestrator) RunBatch(ctx context.Context, dryRun bool) (BatchSummary, error) {
	var summary BatchSummary
	if o.queue == nil || o.queue.Path() == "" {
		return summary, services.Wrap(services.ErrConfiguration, "batch", "queue",
			"no queue file configured", nil)
	}
	entries, err := o.queue.Read()
	if err != nil {
		return summary, err
	}
	if len(entries) == 0 {
		o.logger.Info("queue has no active entries", logging.String("queue", o.queue.Path()))
		return summary, nil
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Processed++
		entryCtx := services.WithEntry(ctx, entry)
		o.logger.Info("processing queue entry",
			logging.Int("position", summary.Processed),
			logging.Int("total", len(entries)),
			logging.String("entry", entry))

		_, err := o.Run(entryCtx, RunOptions{SourceURL: entry, DryRun: dryRun})
		if err != nil {
			summary.Failed++
			o.logger.Error("queue entry failed", logging.String("entry", entry), logging.Error(err))
			if services.FatalToBatch(err) {
				return summary, err
			}
			continue
		}
		summary.Succeeded++
		if !dryRun {
			if err := o.queue.MarkProcessed(entry); err != nil {
				o.logger.Warn("mark processed failed", logging.String("entry", entry), logging.Error(err))
			}
		}
	}

	o.logger.Info("batch finished", logging.String("summary", summary.String()))
	return summary, nil
}

// Discover scrapes each configured listing page for album links and appends
// the ones the queue has never seen, active or processed, to the queue file.
func (o *Orchestrator) Discover(ctx context.Context) ([]string, error) {
	if o.cfg.Paths.PagesFile == "" {
		return nil, services.Wrap(services.ErrConfiguration, "discover", "pages file",
			"no pages file configured", nil)
	}
	if o.queue == nil || o.queue.Path() == "" {
		return nil, services.Wrap(services.ErrConfiguration, "discover", "queue",
			"no queue file configured", nil)
	}

	pages, err := batch.NewQueue(o.cfg.Paths.PagesFile).Read()
	if err != nil {
		return nil, err
	}

	known, err := o.queue.Contents()
	if err != nil {
		return nil, err
	}

	var fresh []string
	seen := make(map[string]struct{})
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		links, err := o.scraper.AlbumLinks(services.WithStage(ctx, "discover"), page)
		if err != nil {
			o.logger.Warn("listing page scrape failed", logging.String("page", page), logging.Error(err))
			continue
		}
		for _, link := range links {
			if strings.Contains(known, link) {
				continue
			}
			if _, dup := seen[link]; dup {
				continue
			}
			seen[link] = struct{}{}
			fresh = append(fresh, link)
		}
	}

	if len(fresh) == 0 {
		o.logger.Info("no new album links discovered")
		return nil, nil
	}
	if err := o.queue.Append(fresh); err != nil {
		return nil, err
	}
	o.logger.Info("queued discovered albums", logging.Int("count", len(fresh)))
	return fresh, nil
}
