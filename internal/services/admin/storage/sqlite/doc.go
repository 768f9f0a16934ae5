// Package sqlite provides SQLite-backed operator session persistence.
//
// Upstream bearer tokens are sealed with a key derived from the configured
// session secret before they reach disk.
package sqlite
