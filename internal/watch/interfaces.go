package watch

import (
	"context"
	"time"
)

// Fetcher retrieves the raw text content of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Extractor locates the availability count adjacent to a keyword in
// fetched page content.
type Extractor interface {
	Extract(body string, keyword string, ignoreCase bool) (int, error)
}

// Notifier emits one external alert per Notify decision.
type Notifier interface {
	Notify(ctx context.Context, cfg Config, value int, checkedAt time.Time) error
}

// StateStore persists per-watch state keyed by label.
type StateStore interface {
	Get(label string) (State, bool, error)
	Put(label string, st State) error
}

// WatchlistStore reads the user-authored watch configuration and
// writes back enabled-flag flips.
type WatchlistStore interface {
	Load() ([]Config, error)
	SetEnabled(label string, enabled bool) error
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
