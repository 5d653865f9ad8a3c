// Package feed validates feed URLs and extracts articles from RSS feeds.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/mmcdole/gofeed"
)

// ValidateTimeout is the default timeout for fetching a feed during validation.
const ValidateTimeout = 5 * time.Second

// maxDetectBytes limits how much of the body is read to find the root element.
const maxDetectBytes = 1 << 20

// Reasons for a feed to be rejected by the Validator.
var (
	ErrMalformedURL = errors.New("malformed url")
	ErrUnreachable  = errors.New("feed is unreachable")
	ErrBadStatus    = errors.New("bad status code")
	ErrNotAFeed     = errors.New("not an rss or atom feed")
)

// urlRe is a loose URL shape check, it is not meant to follow the RFC.
var urlRe = regexp.MustCompile(`(?i)^(?:http|ftp)s?://` +
	`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+(?:[A-Z]{2,6}\.?|[A-Z0-9-]{2,}\.?)|` + // domain
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}|` + // ipv4
	`\[?[A-F0-9]*:[A-F0-9:]+\]?)` + // ipv6
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

// Validator checks whether a URL points to a reachable RSS or Atom feed.
type Validator struct {
	log     *slog.Logger
	cl      *http.Client
	timeout time.Duration
}

// NewValidator makes new Validator. Non-positive timeout means ValidateTimeout.
func NewValidator(lg *slog.Logger, cl *http.Client, timeout time.Duration) *Validator {
	if timeout <= 0 {
		timeout = ValidateTimeout
	}
	return &Validator{log: lg, cl: cl, timeout: timeout}
}

// Valid reports whether the URL is a valid feed. The rejection reason is
// logged, never returned.
func (v *Validator) Valid(ctx context.Context, u string) bool {
	if err := v.Check(ctx, u); err != nil {
		v.log.WarnContext(ctx, "feed rejected", slog.String("url", u), slog.Any("err", err))
		return false
	}
	return true
}

// Check returns the reason why the URL is not a valid feed, or nil.
func (v *Validator) Check(ctx context.Context, u string) error {
	if !urlRe.MatchString(u) {
		return fmt.Errorf("%w: %q", ErrMalformedURL, u)
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrMalformedURL, err)
	}

	resp, err := v.cl.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			v.log.WarnContext(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	if !statusOK(resp.StatusCode) {
		return fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	switch gofeed.DetectFeedType(io.LimitReader(resp.Body, maxDetectBytes)) {
	case gofeed.FeedTypeRSS, gofeed.FeedTypeAtom:
		return nil
	default:
		return ErrNotAFeed
	}
}

func statusOK(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}
