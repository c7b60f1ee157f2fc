package qobuzdl

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"

	"presser/internal/fileutil"
	"presser/internal/logging"
	"presser/internal/services"
)

// Detector identifies the album folder an acquisition run produced by diffing
// the destination directory's immediate subfolders around the download call.
// The directory is assumed quiescent for the duration; concurrent writers
// would make the diff meaningless.
type Detector struct {
	client Client
	logger *slog.Logger
}

func NewDetector(client Client, logger *slog.Logger) *Detector {
	return &Detector{client: client, logger: logging.NewComponentLogger(logger, "acquire")}
}

// Acquire downloads the album and returns the path of the single new
// top-level folder. Zero new folders is ErrNoNewContent, more than one is
// ErrAmbiguousDownload; neither is retried here since the download tool owns
// its own retry semantics.
func (d *Detector) Acquire(ctx context.Context, albumURL, downloadDir string) (string, error) {
	before, err := fileutil.SubdirNames(downloadDir)
	if err != nil {
		return "", services.Wrap(services.ErrAcquisition, "acquire", "snapshot", downloadDir, err)
	}

	if err := d.client.Download(ctx, albumURL, downloadDir); err != nil {
		return "", services.Wrap(services.ErrAcquisition, "acquire", "qobuz-dl", albumURL, err)
	}

	after, err := fileutil.SubdirNames(downloadDir)
	if err != nil {
		return "", services.Wrap(services.ErrAcquisition, "acquire", "snapshot", downloadDir, err)
	}

	var created []string
	for name := range after {
		if _, ok := before[name]; !ok {
			created = append(created, name)
		}
	}
	sort.Strings(created)

	switch len(created) {
	case 0:
		return "", services.Wrap(services.ErrNoNewContent, "acquire", "diff", albumURL, nil)
	case 1:
		folder := filepath.Join(downloadDir, created[0])
		d.logger.Info("album downloaded", logging.String("folder", folder))
		return folder, nil
	default:
		return "", services.Wrap(services.ErrAmbiguousDownload, "acquire", "diff",
			"multiple new folders: "+created[0]+", "+created[1]+", ...", nil)
	}
}
