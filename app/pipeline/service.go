// Package pipeline turns a list of feed URLs into a stored batch of questions.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Semior001/feedquiz/app/store"
	"github.com/samber/lo"
)

// ErrNoValidFeeds is returned when none of the submitted URLs is a valid feed.
var ErrNoValidFeeds = errors.New("no valid RSS feeds provided")

//go:generate moq -out mock_validator.go . Validator
//go:generate moq -out mock_extractor.go . Extractor
//go:generate moq -out mock_generator.go . Generator

// Validator checks whether the URL points to a feed.
type Validator interface {
	Valid(ctx context.Context, feedURL string) bool
}

// Extractor fetches the feed and returns its articles. Articles returned
// along with an error are still used.
type Extractor interface {
	Extract(ctx context.Context, feedURL string) ([]store.Article, error)
}

// Generator makes a question out of the article.
type Generator interface {
	Generate(ctx context.Context, article store.Article) (store.MCQ, error)
}

// Params of the pipeline service.
type Params struct {
	Validator Validator
	Extractor Extractor
	Generator Generator
	Store     store.Interface
	Metrics   *Metrics

	// ValidatedOnly makes the pipeline generate questions only for the
	// feeds that passed validation. By default, once at least one feed
	// is valid, every submitted URL is processed.
	ValidatedOnly bool
}

// Service runs the feed to questions pipeline.
type Service struct {
	Params
	log *slog.Logger
}

// NewService makes new pipeline service.
func NewService(lg *slog.Logger, params Params) *Service {
	if params.Metrics == nil {
		params.Metrics = NewMetrics(nil)
	}
	return &Service{Params: params, log: lg}
}

// SplitURLs splits comma-delimited list of URLs and trims each of them.
// Empty entries and duplicates are kept.
func SplitURLs(raw string) []string {
	return lo.Map(strings.Split(raw, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
}

// Run validates the feeds, extracts their articles, generates a question
// per article and stores the resulting batch. The batch is returned even
// if the store failed to save it.
func (s *Service) Run(ctx context.Context, urls []string) ([]store.MCQ, error) {
	valid := s.validate(ctx, urls)
	if len(valid) == 0 {
		return nil, ErrNoValidFeeds
	}

	feeds := urls
	if s.ValidatedOnly {
		feeds = valid
	}

	batch := []store.MCQ{}
	for _, feedURL := range feeds {
		batch = append(batch, s.process(ctx, feedURL)...)
	}

	s.Metrics.BatchSize.Observe(float64(len(batch)))

	inserted, err := s.Store.InsertBatch(ctx, batch)
	if err != nil {
		return batch, fmt.Errorf("insert batch: %w", err)
	}

	s.Metrics.MCQsStored.Add(float64(inserted))
	s.log.InfoContext(ctx, "pipeline finished",
		slog.Int("feeds", len(feeds)),
		slog.Int("valid_feeds", len(valid)),
		slog.Int("mcqs", inserted))

	return batch, nil
}

func (s *Service) validate(ctx context.Context, urls []string) []string {
	return lo.Filter(urls, func(u string, _ int) bool {
		ok := s.Validator.Valid(ctx, u)
		s.Metrics.FeedsValidated.WithLabelValues(validationResult(ok)).Inc()
		return ok
	})
}

func (s *Service) process(ctx context.Context, feedURL string) []store.MCQ {
	articles, err := s.Extractor.Extract(ctx, feedURL)
	if err != nil {
		s.Metrics.ExtractFailures.Inc()
		s.log.WarnContext(ctx, "failed to extract articles",
			slog.String("feed_url", feedURL),
			slog.Int("extracted", len(articles)),
			slog.Any("err", err))
	}

	s.Metrics.ArticlesExtracted.Add(float64(len(articles)))

	var res []store.MCQ
	for _, article := range articles {
		mcq, err := s.Generator.Generate(ctx, article)
		if err != nil {
			s.Metrics.MCQsGenerated.WithLabelValues("failed").Inc()
			s.log.WarnContext(ctx, "failed to generate question, article skipped",
				slog.String("title", article.Title),
				slog.String("feed_url", article.FeedURL),
				slog.Any("err", err))
			continue
		}

		s.Metrics.MCQsGenerated.WithLabelValues("ok").Inc()
		res = append(res, mcq)
	}

	return res
}

func validationResult(ok bool) string {
	if ok {
		return "valid"
	}
	return "invalid"
}
