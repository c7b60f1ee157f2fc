// Package catalog derives the upload submission record from extracted audio
// tags, the release type heuristic, and best-effort scrape results. The
// automatic and interactive modes share one derivation core; the interactive
// editor only resolves user overrides against derived defaults.
package catalog
