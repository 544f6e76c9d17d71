package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coursewatch/internal/watch"
)

type fakeGitHub struct {
	issues   []issue
	created  []map[string]any
	comments map[int][]string
	failWith int
}

func (g *fakeGitHub) handler(t *testing.T) http.Handler {
	t.Helper()
	// Method-prefixed patterns and {number} wildcards need Go 1.22's
	// ServeMux; route by hand so this runs under Go 1.21.
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/someone/course-alerts/issues", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if g.failWith != 0 {
				w.WriteHeader(g.failWith)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(g.issues)
		case http.MethodPost:
			var payload map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			g.created = append(g.created, payload)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"number": 1}`))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/repos/someone/course-alerts/issues/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/comments") {
			http.NotFound(w, r)
			return
		}
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		if g.comments == nil {
			g.comments = map[int][]string{}
		}
		g.comments[7] = append(g.comments[7], payload["body"])
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1}`))
	})
	return mux
}

func testWatch() watch.Config {
	return watch.Config{
		Label:   "cs101",
		URL:     "https://example.edu/courses/cs101",
		Keyword: "Availability no",
		Enabled: true,
		Mode:    watch.ModeOnce,
	}
}

func newTestNotifier(t *testing.T, g *fakeGitHub) *Notifier {
	t.Helper()
	srv := httptest.NewServer(g.handler(t))
	t.Cleanup(srv.Close)
	return New(Config{
		Repo:       "someone/course-alerts",
		Token:      "t0ken",
		BaseURL:    srv.URL,
		IssueLabel: "coursewatch",
		Timeout:    5 * time.Second,
	})
}

func TestNotify_CreatesIssueOnFirstFiring(t *testing.T) {
	t.Parallel()

	g := &fakeGitHub{}
	n := newTestNotifier(t, g)

	checked := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, n.Notify(context.Background(), testWatch(), 2, checked))

	require.Len(t, g.created, 1)
	require.Equal(t, "Seat available: cs101", g.created[0]["title"])
	body, _ := g.created[0]["body"].(string)
	require.Contains(t, body, "https://example.edu/courses/cs101")
	require.Contains(t, body, "**Availability no:** 2")
	require.Contains(t, body, "2026-03-01T09:30:00Z")
	require.Equal(t, []any{"coursewatch"}, g.created[0]["labels"])
}

func TestNotify_CommentsWhenIssueExists(t *testing.T) {
	t.Parallel()

	g := &fakeGitHub{issues: []issue{
		{Number: 3, Title: "Seat available: math200"},
		{Number: 7, Title: "Seat available: cs101"},
	}}
	n := newTestNotifier(t, g)

	require.NoError(t, n.Notify(context.Background(), testWatch(), 4, time.Now()))

	require.Empty(t, g.created)
	require.Len(t, g.comments[7], 1)
	require.Contains(t, g.comments[7][0], "**Availability no:** 4")
}

func TestNotify_DeliveryFailure(t *testing.T) {
	t.Parallel()

	g := &fakeGitHub{failWith: http.StatusBadGateway}
	n := newTestNotifier(t, g)

	err := n.Notify(context.Background(), testWatch(), 2, time.Now())

	var nErr *watch.NotifyError
	require.ErrorAs(t, err, &nErr)
	require.Equal(t, watch.NotifyDeliveryFailed, nErr.Kind)
}

func TestNotify_UnreachableChannel(t *testing.T) {
	t.Parallel()

	n := New(Config{
		Repo:    "someone/course-alerts",
		Token:   "t0ken",
		BaseURL: "http://127.0.0.1:1",
		Timeout: time.Second,
	})

	err := n.Notify(context.Background(), testWatch(), 2, time.Now())

	var nErr *watch.NotifyError
	require.ErrorAs(t, err, &nErr)
	require.Equal(t, watch.NotifyDeliveryFailed, nErr.Kind)
}
