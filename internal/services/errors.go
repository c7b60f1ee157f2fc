package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAcquisition marks a non-zero exit from the download tool.
	ErrAcquisition = errors.New("acquisition error")
	// ErrNoNewContent marks an acquisition run that produced no new album folder.
	ErrNoNewContent = errors.New("no new content")
	// ErrAmbiguousDownload marks an acquisition run that produced more than one
	// new top-level folder, which the pipeline refuses to guess between.
	ErrAmbiguousDownload = errors.New("ambiguous download")
	ErrExternalTool      = errors.New("external tool error")
	ErrTorrentBuild      = errors.New("torrent build error")
	ErrScrape            = errors.New("scrape error")
	ErrUpload            = errors.New("upload error")
	ErrValidation        = errors.New("validation error")
	ErrConfiguration     = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FatalToBatch reports whether a failure rules out retrying further queue
// entries without operator intervention. Configuration problems apply to every
// entry equally, so continuing the batch cannot help.
func FatalToBatch(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
