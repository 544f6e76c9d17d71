// Package memory contains an in-process Notifier that records alerts,
// used in tests and in local runs where no issue tracker is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"coursewatch/internal/watch"
)

// Alert captures one Notify call.
type Alert struct {
	Label     string
	URL       string
	Value     int
	CheckedAt time.Time
}

// Notifier stores alerts for inspection.
type Notifier struct {
	mu     sync.RWMutex
	alerts []Alert
	err    error
}

// New returns a memory Notifier.
func New() *Notifier {
	return &Notifier{}
}

// Fail makes every subsequent Notify return err (delivery failure in
// tests). Pass nil to recover.
func (n *Notifier) Fail(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.err = err
}

// Notify records the alert.
func (n *Notifier) Notify(_ context.Context, cfg watch.Config, value int, checkedAt time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return &watch.NotifyError{Kind: watch.NotifyDeliveryFailed, Err: n.err}
	}
	n.alerts = append(n.alerts, Alert{
		Label:     cfg.Label,
		URL:       cfg.URL,
		Value:     value,
		CheckedAt: checkedAt,
	})
	return nil
}

// Alerts returns the recorded alerts.
func (n *Notifier) Alerts() []Alert {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]Alert, len(n.alerts))
	copy(out, n.alerts)
	return out
}
