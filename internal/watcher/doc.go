// Package watcher reports changes to sequence files so searches can be
// re-run when the data behind them changes.
//
// A Watcher uses fsnotify on each file's parent directory, so editors that
// save by writing a temporary file and renaming it over the original are
// still seen. When fsnotify is unavailable it falls back to polling file
// size and modification time. Bursts of events are coalesced per path by a
// Debouncer before delivery.
package watcher
