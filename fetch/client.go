package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds a single upstream request when the caller
	// does not configure one.
	DefaultTimeout = 10 * time.Second

	// MaxResponseSize caps how much of an upstream body is read (10MB).
	// Municipal feeds are a few hundred KB at most.
	MaxResponseSize = 10 * 1024 * 1024

	userAgent = "parkings-aggregator/1.0"
)

// ErrorKind classifies a fetch failure.
type ErrorKind string

const (
	// KindTimeout means the configured deadline elapsed before the
	// upstream answered.
	KindTimeout ErrorKind = "timeout"
	// KindUnreachable covers DNS, connection and non-2xx failures.
	KindUnreachable ErrorKind = "unreachable"
)

// Error is the only error type returned by Client.Fetch.
type Error struct {
	Kind   ErrorKind
	URL    string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("fetch %s: %s: %s", e.URL, e.Kind, e.Detail)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Client performs bounded HTTP retrieval of raw feed payloads. It is
// stateless and shared across all city adapters. Retry policy, if any,
// belongs to the adapter, not here.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	log        *zap.Logger
}

// NewClient creates a fetch client with the given per-request timeout.
// A zero timeout falls back to DefaultTimeout.
func NewClient(timeout time.Duration, log *zap.Logger) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
		log:        log.Named("fetch"),
	}
}

// Timeout reports the configured per-request deadline.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Fetch performs one GET against url and returns the raw body. Failures
// are always a *Error; the kind tells the adapter whether the deadline
// elapsed or the upstream was unreachable (including non-2xx answers).
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, URL: url, Detail: "invalid request", Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.classify(url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Kind: KindUnreachable, URL: url, Detail: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, c.classify(url, err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, &Error{Kind: KindUnreachable, URL: url, Detail: "response exceeds size limit"}
	}

	c.log.Debug("fetched feed",
		zap.String("url", url),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))
	return body, nil
}

func (c *Client) classify(url string, err error) *Error {
	var nerr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, URL: url, Err: err}
	case errors.As(err, &nerr) && nerr.Timeout():
		return &Error{Kind: KindTimeout, URL: url, Err: err}
	default:
		return &Error{Kind: KindUnreachable, URL: url, Detail: err.Error(), Err: err}
	}
}
