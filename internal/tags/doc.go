// Package tags extracts catalog-relevant metadata from embedded FLAC vorbis
// comments and stream info. Missing fields degrade to empty values; a folder
// without audio degrades to a nil result, never an error.
package tags
