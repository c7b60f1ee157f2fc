package tags

import (
	"path/filepath"
	"strings"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/meta"

	"presser/internal/fileutil"
	"presser/internal/services"
)

// AudioMetadata holds the fields read from one representative audio file.
// Absent text fields are empty strings, never an error.
type AudioMetadata struct {
	Artist     string
	Album      string
	Year       string
	Label      string
	Genre      string
	BitDepth   int
	SampleRate int
}

// Default returns the safe technical defaults callers substitute when a
// folder holds no readable audio.
func Default() *AudioMetadata {
	return &AudioMetadata{BitDepth: 16, SampleRate: 44100}
}

// Extract reads tags and stream info from the lexically first FLAC file in
// folder. The pipeline assumes per-album tag consistency, so any one file is
// representative. Returns (nil, nil) when the folder contains no FLAC files;
// callers substitute Default() values.
func Extract(folder string) (*AudioMetadata, error) {
	names, err := fileutil.FilesWithExt(folder, ".flac")
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "metadata", "list files", folder, err)
	}
	if len(names) == 0 {
		return nil, nil
	}

	path := filepath.Join(folder, names[0])
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "metadata", "parse flac", path, err)
	}
	defer stream.Close()

	md := &AudioMetadata{
		BitDepth:   int(stream.Info.BitsPerSample),
		SampleRate: int(stream.Info.SampleRate),
	}

	comments := vorbisComments(stream)
	md.Artist = firstTag(comments, "ALBUMARTIST", "ARTIST")
	md.Album = firstTag(comments, "ALBUM")
	md.Year = yearFrom(comments)
	md.Label = firstTag(comments, "LABEL", "ORGANIZATION")
	md.Genre = firstTag(comments, "GENRE")
	return md, nil
}

func vorbisComments(stream *flac.Stream) map[string]string {
	comments := make(map[string]string)
	for _, block := range stream.Blocks {
		vc, ok := block.Body.(*meta.VorbisComment)
		if !ok {
			continue
		}
		for _, tag := range vc.Tags {
			key := strings.ToUpper(strings.TrimSpace(tag[0]))
			if _, exists := comments[key]; !exists {
				comments[key] = strings.TrimSpace(tag[1])
			}
		}
	}
	return comments
}

// yearFrom prefers the first four characters of a full DATE value, then a
// dedicated YEAR tag, then empty.
func yearFrom(comments map[string]string) string {
	if date := comments["DATE"]; len(date) >= 4 {
		return date[:4]
	}
	if year := comments["YEAR"]; year != "" {
		return year
	}
	return ""
}

func firstTag(comments map[string]string, keys ...string) string {
	for _, key := range keys {
		if value := comments[key]; value != "" {
			return value
		}
	}
	return ""
}
