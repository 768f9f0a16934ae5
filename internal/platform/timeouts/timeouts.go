// Package timeouts defines shared timeout constants for the admin console.
package timeouts

import "time"

// APIRequest caps a single call from the console to the marketplace API.
const APIRequest = 20 * time.Second

// APIDial caps the TCP/TLS handshake to the marketplace API.
const APIDial = 5 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// StreamPoll is the interval between live-status polls while a stream
// control view is open.
const StreamPoll = 3 * time.Second

// EventPublish caps one admin-action event publish.
const EventPublish = 2 * time.Second
