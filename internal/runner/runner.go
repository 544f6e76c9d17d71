// Package runner executes one polling pass over the watch list.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coursewatch/internal/watch"
)

// Config controls Runner behavior.
type Config struct {
	// Delay is the polite pause between consecutive watches.
	Delay time.Duration
}

// Runner orchestrates fetch, extract, evaluate, notify and persist for
// each configured watch. Watches are processed independently; a
// failure in one never aborts the others.
type Runner struct {
	watchlist watch.WatchlistStore
	states    watch.StateStore
	fetcher   watch.Fetcher
	extractor watch.Extractor
	notifier  watch.Notifier
	clock     watch.Clock
	cfg       Config
	logger    *zap.Logger
}

// New constructs a Runner.
func New(
	watchlist watch.WatchlistStore,
	states watch.StateStore,
	fetcher watch.Fetcher,
	extractor watch.Extractor,
	notifier watch.Notifier,
	clock watch.Clock,
	cfg Config,
	logger *zap.Logger,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		watchlist: watchlist,
		states:    states,
		fetcher:   fetcher,
		extractor: extractor,
		notifier:  notifier,
		clock:     clock,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run performs a single pass. State is persisted per watch immediately
// after that watch completes, so a terminated run keeps the progress
// made so far. Only a watchlist-level failure aborts the pass.
func (r *Runner) Run(ctx context.Context) (watch.Report, error) {
	report := watch.Report{
		RunID:   uuid.NewString(),
		Started: r.clock.Now(),
	}
	logger := r.logger.With(zap.String("run_id", report.RunID))

	configs, err := r.watchlist.Load()
	if err != nil {
		return watch.Report{}, fmt.Errorf("load watchlist: %w", err)
	}
	logger.Info("pass started", zap.Int("watches", len(configs)))

	for i, cfg := range configs {
		if i > 0 && !r.pause(ctx) {
			logger.Warn("pass interrupted", zap.Int("processed", i))
			break
		}
		report.Rows = append(report.Rows, r.processWatch(ctx, logger, cfg))
	}

	report.Finished = r.clock.Now()
	c := report.Count()
	logger.Info("pass finished",
		zap.Int("ok", c.OK),
		zap.Int("notified", c.Notified),
		zap.Int("skipped", c.Skipped),
		zap.Int("errors", c.Errors),
	)
	return report, nil
}

// pause waits out the inter-watch delay; false means the context ended.
func (r *Runner) pause(ctx context.Context) bool {
	if r.cfg.Delay <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(r.cfg.Delay):
		return true
	}
}

func (r *Runner) processWatch(ctx context.Context, logger *zap.Logger, cfg watch.Config) watch.ReportRow {
	log := logger.With(zap.String("label", cfg.Label), zap.String("url", cfg.URL))

	if !cfg.Enabled {
		log.Debug("watch disabled, skipping")
		return watch.ReportRow{Label: cfg.Label, Outcome: watch.OutcomeSkipped, Reason: "disabled"}
	}

	state, _, err := r.states.Get(cfg.Label)
	if err != nil {
		log.Error("load state failed", zap.Error(err))
		return watch.ReportRow{Label: cfg.Label, Outcome: watch.OutcomeError, Reason: fmt.Sprintf("load state: %v", err)}
	}

	body, err := r.fetcher.Fetch(ctx, cfg.URL)
	if err != nil {
		log.Error("fetch failed", zap.Error(err))
		r.recordFailure(log, cfg.Label, state, err)
		return watch.ReportRow{Label: cfg.Label, Outcome: watch.OutcomeError, Reason: err.Error()}
	}

	value, err := r.extractor.Extract(body, cfg.Keyword, cfg.IgnoreCase)
	if err != nil {
		log.Warn("extract failed; if the page layout changed, adjust the watch keyword", zap.Error(err))
		r.recordFailure(log, cfg.Label, state, err)
		return watch.ReportRow{Label: cfg.Label, Outcome: watch.OutcomeError, Reason: err.Error()}
	}
	log.Info("availability extracted", zap.Int("value", value))

	decision, next := watch.Evaluate(cfg, state, value)
	next.LastCheckedAt = r.clock.Now()

	row := watch.ReportRow{Label: cfg.Label, Outcome: watch.OutcomeOK, Value: &value}
	if decision == watch.Notify {
		row = r.deliver(ctx, log, cfg, value, &next)
	}

	if err := r.states.Put(cfg.Label, next); err != nil {
		log.Error("persist state failed", zap.Error(err))
		row.Outcome = watch.OutcomeError
		row.Reason = fmt.Sprintf("persist state: %v", err)
	}
	return row
}

// deliver sends the alert and applies the post-delivery policy. On
// delivery failure the baseline (LastValue) still advances but
// LastNotifiedValue does not and the watch stays enabled, so the next
// scheduled run retries.
func (r *Runner) deliver(
	ctx context.Context,
	log *zap.Logger,
	cfg watch.Config,
	value int,
	next *watch.State,
) watch.ReportRow {
	if err := r.notifier.Notify(ctx, cfg, value, next.LastCheckedAt); err != nil {
		log.Error("notification delivery failed", zap.Error(err))
		return watch.ReportRow{Label: cfg.Label, Outcome: watch.OutcomeError, Value: &value, Reason: err.Error()}
	}

	v := value
	next.LastNotifiedValue = &v
	log.Info("notified", zap.Int("value", value), zap.String("mode", string(cfg.Mode)))

	row := watch.ReportRow{Label: cfg.Label, Outcome: watch.OutcomeNotified, Value: &value}
	if cfg.Mode == watch.ModeOnce {
		if err := r.watchlist.SetEnabled(cfg.Label, false); err != nil {
			log.Error("auto-disable failed", zap.Error(err))
			row.Reason = fmt.Sprintf("auto-disable: %v", err)
		} else {
			log.Info("watch auto-disabled")
		}
	}
	return row
}

// recordFailure stores the failure reason and check time without
// touching the observed/notified values.
func (r *Runner) recordFailure(log *zap.Logger, label string, state watch.State, cause error) {
	state.LastError = cause.Error()
	state.LastCheckedAt = r.clock.Now()
	if err := r.states.Put(label, state); err != nil {
		log.Error("persist state failed", zap.Error(err))
	}
}
