package watch

import "fmt"

// FetchErrorKind classifies why a page retrieval failed.
type FetchErrorKind string

// Fetch failure kinds.
const (
	FetchNetwork    FetchErrorKind = "network"
	FetchTimeout    FetchErrorKind = "timeout"
	FetchHTTPStatus FetchErrorKind = "http_status"
)

// FetchError reports a failed page retrieval. Recovered at the runner
// boundary; the watch is skipped for this cycle.
type FetchError struct {
	Kind   FetchErrorKind
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Kind == FetchHTTPStatus {
		return fmt.Sprintf("fetch %s: http status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractErrorKind classifies why the availability count could not be
// located in the fetched text.
type ExtractErrorKind string

// Extraction failure kinds. There is deliberately no "ambiguous" kind:
// the first keyword occurrence always wins.
const (
	ExtractKeywordNotFound ExtractErrorKind = "keyword_not_found"
	ExtractNumberNotFound  ExtractErrorKind = "number_not_found"
)

// ExtractError reports a failed extraction. The usual fix is adjusting
// the watch keyword to match the current page text.
type ExtractError struct {
	Kind    ExtractErrorKind
	Keyword string
}

func (e *ExtractError) Error() string {
	switch e.Kind {
	case ExtractKeywordNotFound:
		return fmt.Sprintf("extract: keyword %q not found in page text", e.Keyword)
	default:
		return fmt.Sprintf("extract: no number within lookahead after keyword %q", e.Keyword)
	}
}

// NotifyErrorKind classifies a failed alert delivery.
type NotifyErrorKind string

// NotifyDeliveryFailed means the alert channel was unreachable or
// rejected the alert; the next scheduled run retries.
const NotifyDeliveryFailed NotifyErrorKind = "delivery_failed"

// NotifyError reports a failed alert delivery.
type NotifyError struct {
	Kind NotifyErrorKind
	Err  error
}

func (e *NotifyError) Error() string {
	return fmt.Sprintf("notify: %s: %v", e.Kind, e.Err)
}

func (e *NotifyError) Unwrap() error { return e.Err }
