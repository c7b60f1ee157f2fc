// Package torrent turns an album folder into a private, source-tagged torrent
// file. Piece size is a pure function of total content size so regenerating
// over unchanged content reproduces identical bytes.
package torrent
