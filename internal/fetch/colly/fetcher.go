// Package collyfetch implements watch.Fetcher using gocolly.
package collyfetch

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"coursewatch/internal/watch"
)

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Fetcher retrieves page bodies with a bounded timeout and an
// identifying user agent.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
}

// New builds a Fetcher.
func New(cfg Config) *Fetcher {
	// Synchronous is the collector default. The colly.Async(false)
	// option cannot be used here: in colly v2.1.0 it ignores its
	// argument and always enables async mode.
	c := colly.NewCollector()
	// Two watches may point at the same page.
	c.AllowURLRevisit = true
	// Single configured pages at a gentle scheduled cadence; no
	// crawling, so robots.txt is not consulted.
	c.IgnoreRobotsTxt = true
	c.WithTransport(newHTTPTransport())
	return &Fetcher{cfg: cfg, baseCollector: c}
}

// Fetch executes a single HTTP GET and returns the response body as
// text. Non-2xx responses, timeouts and transport failures surface as
// a watch.FetchError; there are no retries within a run.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var (
		body       []byte
		statusCode int
		fetchErr   error
	)

	collector := f.baseCollector.Clone()
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	timeout := f.cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	collector.SetRequestTimeout(timeout)

	collector.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return "", classify(url, 0, ctx.Err())
	case err := <-done:
		if err != nil {
			return "", classify(url, statusCode, err)
		}
		if fetchErr != nil {
			return "", classify(url, statusCode, fetchErr)
		}
		return string(body), nil
	}
}

func classify(url string, status int, err error) *watch.FetchError {
	var netErr net.Error
	switch {
	case status >= 100 && (status < 200 || status > 299):
		return &watch.FetchError{Kind: watch.FetchHTTPStatus, URL: url, Status: status, Err: err}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &watch.FetchError{Kind: watch.FetchTimeout, URL: url, Err: err}
	default:
		return &watch.FetchError{Kind: watch.FetchNetwork, URL: url, Err: err}
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}
}
