// Package iconresolve finds site icons for links and derives the text
// fallback shown when no icon image is available.
package iconresolve

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/navdesk/internal/apperr"
	"github.com/MrSnakeDoc/navdesk/internal/logger"
)

// DefaultTimeout bounds a single icon resolution.
const DefaultTimeout = 6 * time.Second

// Resolver races an icon fetch against a timeout.
type Resolver struct {
	client  *http.Client
	timeout time.Duration
	log     logger.Logger
}

// NewResolver builds a resolver. A zero timeout means DefaultTimeout.
func NewResolver(timeout time.Duration, log logger.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: timeout,
				}).DialContext,
				TLSHandshakeTimeout: timeout,
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				MaxIdleConnsPerHost: 2,
			},
		},
		timeout: timeout,
		log:     log.Named("iconresolve"),
	}
}

// WithClient swaps the HTTP client, mainly for tests.
func (r *Resolver) WithClient(c *http.Client) *Resolver {
	r.client = c
	return r
}

// Timeout returns the race deadline.
func (r *Resolver) Timeout() time.Duration { return r.timeout }

// Resolve returns the icon URL for rawURL's origin when it loads before the
// timeout. A false result is a normal outcome: the caller uses the text fallback.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (string, bool) {
	iconURL, err := FaviconURL(rawURL)
	if err != nil {
		return "", false
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel() // the losing fetch is abandoned

	done := make(chan error, 1)
	go func() {
		done <- r.probe(ctx, iconURL)
	}()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			r.log.Debug("icon unavailable", logger.String("url", iconURL), logger.Error(err))
			return "", false
		}
		return iconURL, true
	case <-timer.C:
		r.log.Debug("icon timed out", logger.String("url", iconURL), logger.Duration("timeout", r.timeout))
		return "", false
	case <-ctx.Done():
		return "", false
	}
}

// probe loads the icon and checks it looks like an image.
func (r *Resolver) probe(ctx context.Context, iconURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iconURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrResourceUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", apperr.ErrResourceUnavailable, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); strings.HasPrefix(ct, "text/") {
		return fmt.Errorf("%w: content type %s", apperr.ErrResourceUnavailable, ct)
	}

	// an empty body is not an image
	var one [1]byte
	if n, err := io.ReadFull(resp.Body, one[:]); n == 0 {
		if err == nil {
			err = errors.New("empty body")
		}
		return fmt.Errorf("%w: %v", apperr.ErrResourceUnavailable, err)
	}
	return nil
}

// FaviconURL returns the conventional icon location at rawURL's origin.
func FaviconURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("not an http url: %q", rawURL)
	}
	return u.Scheme + "://" + u.Host + "/favicon.ico", nil
}

// Origin returns scheme://host of rawURL, or "" when it has none.
func Origin(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
