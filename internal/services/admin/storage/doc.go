// Package storage defines persistence contracts for operator sessions.
//
// Handlers depend on these interfaces so sign-in flows stay testable without
// a concrete SQLite schema.
package storage
