// Package background resolves the backdrop media for a pipeline run.
//
// Resolution policy, in order: an explicit manual file wins outright; with
// automatic lookup disabled a solid-color asset is produced; otherwise the
// configured stock-media providers are queried in priority order until one
// yields a downloadable hit. Provider and network failures are never fatal:
// the solid-color fallback always succeeds.
//
// Successful downloads land in an on-disk cache keyed by the exact search
// term, with a SQLite index alongside the media files so repeated terms skip
// both search and download. Entries have no TTL; overwrites are
// last-write-wins under the pipeline's single-writer run lock.
package background
