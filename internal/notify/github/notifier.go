// Package github delivers availability alerts as GitHub issues.
// Downstream email delivery is handled by repository subscription
// settings, outside this tool's control.
package github

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"coursewatch/internal/watch"
)

// Config points the notifier at a repository's issue tracker.
type Config struct {
	// Repo is the owner/name pair the issues are opened in.
	Repo string
	// Token authenticates API calls (GITHUB_TOKEN in Actions).
	Token string
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string
	// IssueLabel tags created issues.
	IssueLabel string
	Timeout    time.Duration
}

// Notifier opens one issue per watch label and comments on it for
// later firings, de-duplicating by exact title match.
type Notifier struct {
	cfg    Config
	client *resty.Client
}

// New builds a Notifier.
func New(cfg Config) *Notifier {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.github.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.Token).
		SetHeader("Accept", "application/vnd.github+json")
	return &Notifier{cfg: cfg, client: client}
}

type issue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}

// Notify raises one alert for the watch: it creates an issue titled
// after the label, or comments on the existing issue with that exact
// title so repeat-mode firings thread under one issue.
func (n *Notifier) Notify(ctx context.Context, cfg watch.Config, value int, checkedAt time.Time) error {
	title := issueTitle(cfg.Label)
	body := issueBody(cfg, value, checkedAt)

	number, err := n.findIssue(ctx, title)
	if err != nil {
		return err
	}
	if number == 0 {
		return n.createIssue(ctx, title, body)
	}
	return n.comment(ctx, number, body)
}

func issueTitle(label string) string {
	return fmt.Sprintf("Seat available: %s", label)
}

func issueBody(cfg watch.Config, value int, checkedAt time.Time) string {
	return fmt.Sprintf(
		"Seat appears available for:\n\n"+
			"- **Watch:** %s\n"+
			"- **URL:** %s\n"+
			"- **Availability no:** %d\n"+
			"- **Checked (UTC):** %s\n\n"+
			"Mode: `%s`\n\n"+
			"Note: this tool reads publicly available information only and does not automate enrolment.",
		cfg.Label, cfg.URL, value, checkedAt.UTC().Format(time.RFC3339), cfg.Mode,
	)
}

func (n *Notifier) findIssue(ctx context.Context, title string) (int, error) {
	var issues []issue
	resp, err := n.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"state": "all", "per_page": "100"}).
		SetResult(&issues).
		Get(fmt.Sprintf("/repos/%s/issues", n.cfg.Repo))
	if err != nil {
		return 0, &watch.NotifyError{Kind: watch.NotifyDeliveryFailed, Err: fmt.Errorf("list issues: %w", err)}
	}
	if resp.IsError() {
		return 0, &watch.NotifyError{Kind: watch.NotifyDeliveryFailed, Err: fmt.Errorf("list issues: %s", resp.Status())}
	}
	for _, is := range issues {
		if is.Title == title {
			return is.Number, nil
		}
	}
	return 0, nil
}

func (n *Notifier) createIssue(ctx context.Context, title, body string) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"title":  title,
			"body":   body,
			"labels": []string{n.cfg.IssueLabel},
		}).
		Post(fmt.Sprintf("/repos/%s/issues", n.cfg.Repo))
	if err != nil {
		return &watch.NotifyError{Kind: watch.NotifyDeliveryFailed, Err: fmt.Errorf("create issue: %w", err)}
	}
	if resp.IsError() {
		return &watch.NotifyError{Kind: watch.NotifyDeliveryFailed, Err: fmt.Errorf("create issue: %s", resp.Status())}
	}
	return nil
}

func (n *Notifier) comment(ctx context.Context, number int, body string) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(map[string]any{"body": body}).
		Post(fmt.Sprintf("/repos/%s/issues/%d/comments", n.cfg.Repo, number))
	if err != nil {
		return &watch.NotifyError{Kind: watch.NotifyDeliveryFailed, Err: fmt.Errorf("comment on issue #%d: %w", number, err)}
	}
	if resp.IsError() {
		return &watch.NotifyError{Kind: watch.NotifyDeliveryFailed, Err: fmt.Errorf("comment on issue #%d: %s", number, resp.Status())}
	}
	return nil
}
