package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Semior001/feedquiz/pkg/logx"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// requestID puts the request id to the context and to the response headers.
// The id from the incoming header is reused if present.
func requestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			id := req.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}

			c.SetRequest(req.WithContext(logx.ContextWithRequestID(req.Context(), id)))
			c.Response().Header().Set(requestIDHeader, id)

			return next(c)
		}
	}
}

// logger logs every request.
func logger(lg *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := req.Context()
			start := time.Now()

			args := []any{
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
			}

			if lg.Handler().Enabled(ctx, slog.LevelDebug) {
				lg.DebugContext(ctx, "request received",
					append(args, slog.String("remote_ip", c.RealIP()), slog.String("query", req.URL.RawQuery))...)
			}

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			lg.InfoContext(ctx, "request processed", append(args,
				slog.Int("status", c.Response().Status),
				slog.Int64("size", c.Response().Size),
				slog.Duration("elapsed", time.Since(start)),
				slog.Any("err", err),
			)...)

			return nil
		}
	}
}

// recoverer recovers from panics and responds with internal error.
func recoverer(lg *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					lg.ErrorContext(c.Request().Context(), "panic recovered", slog.Any("panic", r))
					err = echo.NewHTTPError(http.StatusInternalServerError, "internal error")
				}
			}()

			return next(c)
		}
	}
}

// timeout sets the deadline for the request context. Zero means no deadline.
func timeout(dur time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if dur <= 0 {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), dur)
			defer cancel()

			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
