package catalog

import (
	"fmt"
	"strings"

	"presser/internal/tags"
)

const (
	formatFLAC = "FLAC"
	mediaWEB   = "WEB"
	ripLabel   = "WEB FLAC rip"
)

// BitrateLabel maps a bit depth to the catalog's fixed bitrate vocabulary.
func BitrateLabel(bitDepth int) string {
	if bitDepth == 24 {
		return "24bit Lossless"
	}
	return "Lossless"
}

// SampleRateKHz renders a sample rate in kHz, dropping a trailing .0 so
// 96000 Hz reads "96" while 44100 Hz reads "44.1".
func SampleRateKHz(sampleRate int) string {
	if sampleRate%1000 == 0 {
		return fmt.Sprintf("%d", sampleRate/1000)
	}
	return fmt.Sprintf("%.1f", float64(sampleRate)/1000)
}

// ReleaseDescription builds the per-torrent body, e.g. "24/96 WEB FLAC rip",
// with a bracketed source reference appended when a source URL is known.
func ReleaseDescription(bitDepth, sampleRate int, sourceURL string) string {
	desc := fmt.Sprintf("%d/%s %s", bitDepth, SampleRateKHz(sampleRate), ripLabel)
	if sourceURL != "" {
		desc += " [" + sourceURL + "]"
	}
	return desc
}

// Input carries everything the derivation core works from. Meta may be nil
// when the album folder held no readable audio; safe defaults are substituted.
type Input struct {
	Meta       *tags.AudioMetadata
	TrackCount int
	CoverURL   string
	Tracklist  string
	SourceURL  string
}

// Derive fills a complete Submission from tags, the release-type heuristic,
// and best-effort scrape results. This is the automatic mode and also the
// set of defaults the interactive editor starts from; absent optional fields
// stay empty.
func Derive(in Input) Submission {
	meta := in.Meta
	if meta == nil {
		meta = tags.Default()
	}

	return Submission{
		Category:           0,
		Artist:             meta.Artist,
		Title:              meta.Album,
		Year:               meta.Year,
		ReleaseType:        GuessReleaseType(meta.Album, in.TrackCount),
		RemasterLabel:      meta.Label,
		Format:             formatFLAC,
		Bitrate:            BitrateLabel(meta.BitDepth),
		Media:              mediaWEB,
		Tags:               TagList(meta.Genre),
		ImageURL:           in.CoverURL,
		AlbumDescription:   in.Tracklist,
		ReleaseDescription: ReleaseDescription(meta.BitDepth, meta.SampleRate, in.SourceURL),
	}
}

// TagList converts a genre tag into the catalog's tag syntax: lowercase,
// comma separated, spaces inside a tag folded to dots.
func TagList(genre string) string {
	parts := strings.Split(genre, ",")
	var out []string
	for _, part := range parts {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" {
			continue
		}
		tag = strings.ReplaceAll(tag, " ", ".")
		out = append(out, tag)
	}
	return strings.Join(out, ", ")
}
