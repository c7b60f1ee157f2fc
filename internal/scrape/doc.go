// Package scrape extracts cover art URLs, tracklists, and album links from
// storefront pages. Extractions are best-effort and degrade to absent values
// so that markup drift never blocks a publication.
package scrape
