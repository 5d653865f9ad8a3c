package feed

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Semior001/feedquiz/app/store"
	"github.com/mmcdole/gofeed/rss"
)

const (
	// MaxItemsPerFeed bounds the number of articles taken from a single feed.
	MaxItemsPerFeed = 2
	// TitleLimit is the maximum title length before truncation.
	TitleLimit = 100
	// DescriptionLimit is the maximum description length before truncation.
	DescriptionLimit = 300
	// NoDescription replaces a missing item description.
	NoDescription = "No description provided."

	truncationMarker = "..."
)

// ErrMalformedItem is returned when a feed item misses its title element
// or has no link.
var ErrMalformedItem = errors.New("malformed feed item")

// Extractor fetches RSS feeds and turns their first items into articles.
type Extractor struct {
	log     *slog.Logger
	cl      *http.Client
	timeout time.Duration
}

// NewExtractor makes new Extractor. Non-positive timeout disables the
// per-feed deadline, the client timeout still applies.
func NewExtractor(lg *slog.Logger, cl *http.Client, timeout time.Duration) *Extractor {
	return &Extractor{log: lg, cl: cl, timeout: timeout}
}

// Extract returns up to MaxItemsPerFeed articles of the feed.
// On ErrMalformedItem the articles preceding the malformed item are
// returned along with the error.
func (e *Extractor) Extract(ctx context.Context, feedURL string) ([]store.Article, error) {
	e.log.DebugContext(ctx, "extracting articles", slog.String("url", feedURL))

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := e.cl.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			e.log.WarnContext(ctx, "failed to close response body", slog.Any("err", err))
		}
	}()

	if !statusOK(resp.StatusCode) {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	fp := &rss.Parser{}
	feed, err := fp.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := feed.Items
	if len(items) > MaxItemsPerFeed {
		items = items[:MaxItemsPerFeed]
	}

	present := scanItemFields(body, len(feed.Items))

	res := make([]store.Article, 0, len(items))
	for idx, item := range items {
		fields := present(idx, item)
		if item == nil || !fields.title || item.Link == "" {
			return res, fmt.Errorf("%w: item #%d has no title or link", ErrMalformedItem, idx)
		}

		desc := item.Description
		if !fields.description {
			desc = NoDescription
		}

		res = append(res, store.Article{
			FeedURL:     feedURL,
			Title:       Truncate(item.Title, TitleLimit),
			Link:        item.Link,
			Description: Truncate(desc, DescriptionLimit),
		})
	}

	return res, nil
}

// itemPresence tells which of the item's elements are present in the
// document, even if empty.
type itemPresence struct {
	title       bool
	description bool
}

type rawItem struct {
	Title       *struct{} `xml:"title"`
	Description *struct{} `xml:"description"`
}

type rawFeed struct {
	Channel []rawItem `xml:"channel>item"` // rss 0.9x, 2.0
	RDF     []rawItem `xml:"item"`         // rss 1.0
}

// scanItemFields looks up element presence of the feed items, as the parsed
// items lose the difference between an empty and an absent element.
// When the document can't be matched against the parsed items, non-empty
// values are treated as present.
func scanItemFields(body []byte, parsed int) func(idx int, item *rss.Item) itemPresence {
	fallback := func(_ int, item *rss.Item) itemPresence {
		if item == nil {
			return itemPresence{}
		}
		return itemPresence{title: item.Title != "", description: item.Description != ""}
	}

	d := xml.NewDecoder(bytes.NewReader(body))
	d.Strict = false
	d.AutoClose = xml.HTMLAutoClose
	d.Entity = xml.HTMLEntity

	var raw rawFeed
	if err := d.Decode(&raw); err != nil {
		return fallback
	}

	items := raw.Channel
	if len(items) == 0 {
		items = raw.RDF
	}
	if len(items) != parsed {
		return fallback
	}

	return func(idx int, item *rss.Item) itemPresence {
		if item == nil {
			return itemPresence{}
		}
		return itemPresence{title: items[idx].Title != nil, description: items[idx].Description != nil}
	}
}

// Truncate cuts s to limit characters and appends the "..." marker,
// so a truncated string is limit+3 characters long.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + truncationMarker
}
