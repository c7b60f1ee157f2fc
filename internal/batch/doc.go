// Package batch persists the pending-album queue as a plain text file with
// in-place completion marking.
package batch
