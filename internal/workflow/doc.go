// Package workflow composes acquisition, recompression, torrent building,
// metadata derivation, and tracker submission into the single-item and batch
// pipelines.
package workflow
