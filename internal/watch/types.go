// Package watch defines core types shared across subsystems.
package watch

import "time"

// Mode controls what happens to a watch after its first successful alert.
type Mode string

// Modes accepted in the watchlist.
const (
	// ModeOnce disables the watch after the first delivered alert.
	ModeOnce Mode = "once"
	// ModeRepeat keeps alerting on every future full-to-available transition.
	ModeRepeat Mode = "repeat"
)

// Config is one user-authored watch: a page, the keyword marking the
// availability count, and the delivery policy.
type Config struct {
	Label      string `yaml:"label" json:"label"`
	URL        string `yaml:"url" json:"url"`
	Keyword    string `yaml:"keyword" json:"keyword"`
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	Mode       Mode   `yaml:"mode" json:"mode"`
	IgnoreCase bool   `yaml:"ignore_case,omitempty" json:"ignore_case,omitempty"`
}

// State is the system-owned record per watch, keyed by label. Nil
// pointers mean "never observed" / "never notified".
type State struct {
	LastValue         *int      `json:"last_value,omitempty"`
	LastNotifiedValue *int      `json:"last_notified_value,omitempty"`
	LastCheckedAt     time.Time `json:"last_checked_at"`
	LastError         string    `json:"last_error,omitempty"`
}

// Decision is the evaluator's verdict for a single observation.
type Decision int

// Evaluator decisions.
const (
	NoAction Decision = iota
	Notify
)

// String returns the decision name for logs and reports.
func (d Decision) String() string {
	if d == Notify {
		return "notify"
	}
	return "no_action"
}

// Outcome classifies how a watch fared within one pass.
type Outcome string

// Per-watch outcomes recorded in the run report.
const (
	OutcomeOK       Outcome = "ok"
	OutcomeNotified Outcome = "notified"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeError    Outcome = "error"
)

// ReportRow is the outcome of one watch within a pass.
type ReportRow struct {
	Label   string  `json:"label"`
	Outcome Outcome `json:"outcome"`
	Value   *int    `json:"value,omitempty"`
	Reason  string  `json:"reason,omitempty"`
}

// Report aggregates the outcomes of a single polling pass.
type Report struct {
	RunID    string      `json:"run_id"`
	Started  time.Time   `json:"started_at"`
	Finished time.Time   `json:"finished_at"`
	Rows     []ReportRow `json:"rows"`
}

// Counters tallies report rows by outcome.
type Counters struct {
	OK       int
	Notified int
	Skipped  int
	Errors   int
}

// Count returns per-outcome tallies for the report.
func (r Report) Count() Counters {
	var c Counters
	for _, row := range r.Rows {
		switch row.Outcome {
		case OutcomeNotified:
			c.Notified++
		case OutcomeSkipped:
			c.Skipped++
		case OutcomeError:
			c.Errors++
		default:
			c.OK++
		}
	}
	return c
}
