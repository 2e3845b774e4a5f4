// Package upstream fetches live line statuses from an external transit
// status source. Two sources are supported: the TfL Unified API and a
// generic GTFS-Realtime service-alerts feed.
package upstream

import "context"

// Fetcher retrieves the current status text for every line the source
// knows about, keyed by line ID. Each fetch is independent and
// idempotent; there is no internal retry or backoff.
type Fetcher interface {
	FetchAll(ctx context.Context) (map[string]string, error)
}
