// Package gazelle submits finished torrents to a Gazelle-based tracker via
// its ajax upload endpoint.
package gazelle
