// Package qobuzdl wraps the qobuz-dl command-line downloader and recovers the
// downloaded album folder by diffing the destination directory around the
// call, since the tool reports nothing structured.
package qobuzdl
