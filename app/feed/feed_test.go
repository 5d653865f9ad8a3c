package feed

import (
	_ "embed"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Semior001/feedquiz/pkg/logx"
)

var (
	//go:embed testdata/rss.xml
	rssFeed []byte
	//go:embed testdata/atom.xml
	atomFeed []byte
	//go:embed testdata/not_feed.xml
	notFeed []byte
	//go:embed testdata/missing_link.xml
	missingLinkFeed []byte
	//go:embed testdata/single.xml
	singleFeed []byte
	//go:embed testdata/empty_fields.xml
	emptyFieldsFeed []byte
	//go:embed testdata/missing_title.xml
	missingTitleFeed []byte
)

var nopLogger = slog.New(logx.NoOp())

// serveFeeds starts a server that responds with the given bodies per path,
// and with 404 for unknown paths.
func serveFeeds(t *testing.T, bodies map[string][]byte) *httptest.Server {
	t.Helper()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write(body)
	}))
	t.Cleanup(ts.Close)

	return ts
}
