// Package rest provides HTTP API to submit feeds and browse generated questions.
package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Semior001/feedquiz/app/pipeline"
	"github.com/Semior001/feedquiz/app/store"
	cache "github.com/go-pkgz/expirable-cache/v2"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:generate moq -out mock_pipeline.go . Pipeline

// Pipeline generates and stores questions for the given feeds.
type Pipeline interface {
	Run(ctx context.Context, urls []string) ([]store.MCQ, error)
}

// Server serves HTTP API.
type Server struct {
	Addr     string
	Logger   *slog.Logger
	Pipeline Pipeline
	Store    store.Interface
	// Gatherer provides metrics for /metrics, no metrics are served when nil.
	Gatherer prometheus.Gatherer
	// CacheStat reports the question cache stats for /cache.
	CacheStat func() cache.Stats
	// RequestTimeout bounds the time of handling a single request,
	// feed submissions run to completion within it even if the client leaves.
	RequestTimeout time.Duration
	// PageSize is the number of questions on a single page.
	PageSize int
}

const shutdownTimeout = 10 * time.Second

// Run starts the server and blocks until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	e := s.routes()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			s.Logger.Warn("failed to shutdown http server", slog.Any("err", err))
		}
	}()

	s.Logger.Info("starting http server", slog.String("addr", s.Addr))
	if err := e.Start(s.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(
		requestID(),
		logger(s.Logger),
		recoverer(s.Logger),
	)

	e.GET("/ping", s.ping)
	e.GET("/metrics", s.metrics)
	e.GET("/cache", s.cacheStats)

	e.POST("/feeds", s.submitFeeds)
	e.GET("/mcqs", s.listMCQs, timeout(s.RequestTimeout))

	return e
}

type errResponse struct {
	Error string `json:"error"`
}

func (s *Server) submitFeeds(c echo.Context) error {
	params, err := c.FormParams()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errResponse{Error: "failed to parse form"})
	}

	if _, ok := params["rss_urls"]; !ok {
		return c.JSON(http.StatusBadRequest, errResponse{Error: "rss_urls is required"})
	}

	// started run is never canceled by the client, only bounded by the timeout
	ctx := context.WithoutCancel(c.Request().Context())
	if s.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.RequestTimeout)
		defer cancel()
	}

	batch, err := s.Pipeline.Run(ctx, pipeline.SplitURLs(params.Get("rss_urls")))
	switch {
	case errors.Is(err, pipeline.ErrNoValidFeeds):
		return c.JSON(http.StatusBadRequest, errResponse{Error: "No valid RSS feeds provided"})
	case err != nil:
		s.Logger.ErrorContext(ctx, "failed to process feeds",
			slog.Int("batch_size", len(batch)), slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, errResponse{Error: "failed to store questions"})
	}

	return c.Redirect(http.StatusSeeOther, "/mcqs")
}

type mcqsResponse struct {
	MCQs       []store.MCQ `json:"mcqs"`
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
	Total      int         `json:"total"`
}

func (s *Server) listMCQs(c echo.Context) error {
	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		var err error
		if page, err = strconv.Atoi(raw); err != nil || page < 1 {
			return c.JSON(http.StatusBadRequest, errResponse{Error: "page must be a positive integer"})
		}
	}

	ctx := c.Request().Context()
	res, err := s.Store.List(ctx, store.ListRequest{Page: page, PageSize: s.PageSize})
	switch {
	case errors.Is(err, store.ErrInvalidPage):
		return c.JSON(http.StatusBadRequest, errResponse{Error: "page must be a positive integer"})
	case err != nil:
		s.Logger.ErrorContext(ctx, "failed to list questions", slog.Int("page", page), slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, errResponse{Error: "failed to list questions"})
	}

	if res.Items == nil {
		res.Items = []store.MCQ{}
	}

	return c.JSON(http.StatusOK, mcqsResponse{
		MCQs:       res.Items,
		Page:       res.Page,
		TotalPages: res.TotalPages,
		Total:      res.Total,
	})
}

func (s *Server) ping(c echo.Context) error { return c.String(http.StatusOK, "pong") }

func (s *Server) metrics(c echo.Context) error {
	if s.Gatherer == nil {
		return echo.ErrNotFound
	}
	return echo.WrapHandler(promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))(c)
}

type cacheStatResponse struct {
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
	Added   int `json:"added"`
	Evicted int `json:"evicted"`
}

func (s *Server) cacheStats(c echo.Context) error {
	if s.CacheStat == nil {
		return echo.ErrNotFound
	}

	stat := s.CacheStat()
	return c.JSON(http.StatusOK, cacheStatResponse{
		Hits:    stat.Hits,
		Misses:  stat.Misses,
		Added:   stat.Added,
		Evicted: stat.Evicted,
	})
}
