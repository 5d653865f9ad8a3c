package logx

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-pkgz/requester/middleware"
	"github.com/samber/lo"
)

// DefaultMaxBody is the number of body bytes logged when RoundTripperOpts
// doesn't set MaxBody.
const DefaultMaxBody = 1024

// RoundTripperOpts contains options for client logger.
type RoundTripperOpts struct {
	Level slog.Level
	// SecretHeaders are logged as "***", names are case-insensitive.
	SecretHeaders []string
	// MaxBody limits the logged part of request and response bodies.
	// Zero means DefaultMaxBody, negative turns body logging off.
	MaxBody int
}

// LoggingRoundTripper logs every client request and response.
// Bodies stay readable for the caller.
func LoggingRoundTripper(lg *slog.Logger, opts RoundTripperOpts) middleware.RoundTripperHandler {
	if opts.MaxBody == 0 {
		opts.MaxBody = DefaultMaxBody
	}

	secrets := lo.Map(opts.SecretHeaders, func(h string, _ int) string { return http.CanonicalHeaderKey(h) })

	return func(next http.RoundTripper) http.RoundTripper {
		return middleware.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			ctx := req.Context()
			if !lg.Enabled(ctx, opts.Level) {
				return next.RoundTrip(req)
			}

			var reqBody string
			req.Body, reqBody = peekBody(req.Body, opts.MaxBody)

			lg.LogAttrs(ctx, opts.Level, "request sent", slog.Group("request",
				slog.String("method", req.Method),
				slog.String("url", req.URL.String()),
				slog.Any("headers", maskHeaders(req.Header, secrets)),
				slog.String("body", reqBody),
			))

			start := time.Now()
			resp, err := next.RoundTrip(req)
			elapsed := time.Since(start)

			if resp == nil {
				lg.LogAttrs(ctx, opts.Level, "response received",
					slog.Duration("elapsed", elapsed), slog.Any("err", err))
				return resp, err
			}

			var respBody string
			resp.Body, respBody = peekBody(resp.Body, opts.MaxBody)

			lg.LogAttrs(ctx, opts.Level, "response received",
				slog.Group("response",
					slog.Int("status", resp.StatusCode),
					slog.Any("headers", maskHeaders(resp.Header, secrets)),
					slog.String("body", respBody),
				),
				slog.Duration("elapsed", elapsed),
				slog.Any("err", err),
			)

			return resp, err
		})
	}
}

func maskHeaders(h http.Header, secrets []string) map[string]string {
	res := make(map[string]string, len(h))
	for k, vals := range h {
		if lo.Contains(secrets, http.CanonicalHeaderKey(k)) {
			res[k] = "***"
			continue
		}
		res[k] = strings.Join(vals, ",")
	}
	return res
}

// peekBody reads up to limit bytes of the body for logging and returns
// a reader with the full body. The logged part is flattened to one line,
// "..." marks a cut.
func peekBody(body io.ReadCloser, limit int) (io.ReadCloser, string) {
	if body == nil || body == http.NoBody || limit < 0 {
		return body, ""
	}

	buf := &bytes.Buffer{}
	// one more byte tells whether the body is longer than the limit
	n, err := io.CopyN(buf, body, int64(limit)+1)

	rd := io.Reader(bytes.NewReader(buf.Bytes()))
	switch {
	case err == nil:
		rd = io.MultiReader(rd, body)
	case !errors.Is(err, io.EOF):
		// the reader of the body must still fail after the peeked part
		rd = io.MultiReader(rd, errReader{err: err})
	}

	portion := buf.Bytes()
	if n > int64(limit) {
		portion = append(portion[:limit:limit], "..."...)
	}

	return &readCloser{Reader: rd, close: body.Close}, strings.Join(strings.Fields(string(portion)), " ")
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

type readCloser struct {
	io.Reader
	close func() error
}

func (c *readCloser) Close() error { return c.close() }
