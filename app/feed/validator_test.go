package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLShape(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{url: "https://example.com/rss", valid: true},
		{url: "http://feeds.bbci.co.uk/news/rss.xml", valid: true},
		{url: "HTTPS://EXAMPLE.COM/feed?format=rss&lang=en", valid: true},
		{url: "http://localhost:8080/feed", valid: true},
		{url: "http://127.0.0.1:34567/rss", valid: true},
		{url: "http://[::1]:8080/rss", valid: true},
		{url: "ftp://files.example.org/feed.xml", valid: true},
		{url: "https://example.com", valid: true},
		{url: "https://example.com/", valid: true},
		{url: "", valid: false},
		{url: "example.com/rss", valid: false},
		{url: "www.example.com", valid: false},
		{url: "https://example.com/my feed", valid: false},
		{url: "https:// example.com", valid: false},
		{url: "mailto:someone@example.com", valid: false},
		{url: "https://-bad-.com/rss", valid: false},
		{url: "not a url", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.valid, urlRe.MatchString(tt.url))
		})
	}
}

func TestValidator_Check(t *testing.T) {
	ts := serveFeeds(t, map[string][]byte{
		"/rss":      rssFeed,
		"/atom":     atomFeed,
		"/note":     notFeed,
		"/html":     []byte("<!DOCTYPE html><html><body>hello</body></html>"),
		"/json":     []byte(`{"version":"https://jsonfeed.org/version/1.1","title":"json","items":[]}`),
		"/not-xml":  []byte("plain text"),
		"/rss-only": missingLinkFeed,
	})

	v := NewValidator(nopLogger, ts.Client(), time.Second)

	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{name: "rss", url: ts.URL + "/rss"},
		{name: "atom", url: ts.URL + "/atom"},
		{name: "rss with malformed items", url: ts.URL + "/rss-only"},
		{name: "empty", url: "", wantErr: ErrMalformedURL},
		{name: "no scheme", url: "example.com/rss", wantErr: ErrMalformedURL},
		{name: "spaces", url: ts.URL + "/my feed", wantErr: ErrMalformedURL},
		{name: "not found", url: ts.URL + "/missing", wantErr: ErrBadStatus},
		{name: "xml without feed root", url: ts.URL + "/note", wantErr: ErrNotAFeed},
		{name: "html", url: ts.URL + "/html", wantErr: ErrNotAFeed},
		{name: "json feed", url: ts.URL + "/json", wantErr: ErrNotAFeed},
		{name: "plain text", url: ts.URL + "/not-xml", wantErr: ErrNotAFeed},
		{name: "unsupported scheme", url: "ftp://127.0.0.1:1/feed.xml", wantErr: ErrUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Check(context.Background(), tt.url)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.True(t, v.Valid(context.Background(), tt.url))
				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, v.Valid(context.Background(), tt.url))
		})
	}
}

func TestValidator_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	u := ts.URL + "/rss"
	ts.Close()

	v := NewValidator(nopLogger, &http.Client{}, time.Second)
	assert.ErrorIs(t, v.Check(context.Background(), u), ErrUnreachable)
	assert.False(t, v.Valid(context.Background(), u))
}

func TestValidator_Timeout(t *testing.T) {
	done := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(done)

	v := NewValidator(nopLogger, ts.Client(), 50*time.Millisecond)

	start := time.Now()
	assert.ErrorIs(t, v.Check(context.Background(), ts.URL+"/rss"), ErrUnreachable)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestNewValidator_DefaultTimeout(t *testing.T) {
	v := NewValidator(nopLogger, http.DefaultClient, 0)
	assert.Equal(t, ValidateTimeout, v.timeout)
}
