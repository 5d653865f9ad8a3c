// Package cmd contains commands for the application.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Semior001/feedquiz/app/feed"
	"github.com/Semior001/feedquiz/app/pipeline"
	"github.com/Semior001/feedquiz/app/quiz"
	"github.com/Semior001/feedquiz/app/rest"
	"github.com/Semior001/feedquiz/app/store"
	"github.com/Semior001/feedquiz/pkg/logx"
	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

// Run is a command to run the server.
type Run struct {
	Addr           string        `long:"addr" env:"ADDR" default:":8080" description:"address to listen on"`
	RequestTimeout time.Duration `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"10m" description:"timeout for handling a single request"`
	PageSize       int           `long:"page-size" env:"PAGE_SIZE" default:"10" description:"number of questions on a page"`

	Store struct {
		Type     string `long:"type" env:"STORE_TYPE" choice:"mongo" choice:"bolt" default:"mongo" description:"type of the store"`
		MongoURI string `long:"mongo-uri" env:"MONGO_URI" default:"mongodb://localhost:27017/rssfeed" description:"mongo connection uri"`
		BoltPath string `long:"bolt-path" env:"BOLT_PATH" default:"feedquiz.db" description:"path to the bolt file"`
	} `group:"store" namespace:"store"`

	Feed struct {
		ValidateTimeout time.Duration `long:"validate-timeout" env:"VALIDATE_TIMEOUT" default:"5s" description:"timeout for feed validation"`
		FetchTimeout    time.Duration `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30s" description:"timeout for fetching feed articles"`
	} `group:"feed" namespace:"feed" env-namespace:"FEED"`

	OpenAI struct {
		Token     string        `long:"token" env:"TOKEN" description:"OpenAI token"`
		BaseURL   string        `long:"base-url" env:"BASE_URL" description:"OpenAI API base url"`
		API       string        `long:"api" env:"API" choice:"chat" choice:"completion" default:"chat" description:"OpenAI API to use"`
		Model     string        `long:"model" env:"MODEL" description:"model name, gpt-4o for chat and gpt-3.5-turbo-instruct for completion API if empty"`
		MaxTokens int           `long:"max-tokens" env:"MAX_TOKENS" default:"1000" description:"max tokens for OpenAI"`
		Timeout   time.Duration `long:"timeout" env:"TIMEOUT" default:"2m" description:"timeout for OpenAI calls"`
		CacheSize int           `long:"cache-size" env:"CACHE_SIZE" default:"100" description:"number of generated questions to cache"`
	} `group:"openai" namespace:"openai" env-namespace:"OPENAI"`

	Pipeline struct {
		ValidatedOnly bool `long:"validated-only" env:"VALIDATED_ONLY" description:"generate questions only for feeds that passed validation"`
	} `group:"pipeline" namespace:"pipeline" env-namespace:"PIPELINE"`

	Version string
}

// Execute runs the command.
func (r Run) Execute(_ []string) error {
	lg := slog.Default()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st, err := r.makeStore(ctx)
	if err != nil {
		return fmt.Errorf("make store: %w", err)
	}

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			lg.Error("close store", slog.Any("err", err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	feedCl := requester.New(http.Client{},
		middleware.Header("User-Agent", "feedquiz/"+r.Version),
		logx.LoggingRoundTripper(lg.With(slog.String("prefix", "feed_client")), logx.RoundTripperOpts{
			Level: slog.LevelDebug,
		}),
	).Client()

	gen := quiz.NewGenerator(lg.With(slog.String("prefix", "quiz")), r.makeCompleter(lg), r.OpenAI.CacheSize)

	svc := pipeline.NewService(lg.With(slog.String("prefix", "pipeline")), pipeline.Params{
		Validator:     feed.NewValidator(lg.With(slog.String("prefix", "validator")), feedCl, r.Feed.ValidateTimeout),
		Extractor:     feed.NewExtractor(lg.With(slog.String("prefix", "extractor")), feedCl, r.Feed.FetchTimeout),
		Generator:     gen,
		Store:         st,
		Metrics:       pipeline.NewMetrics(reg),
		ValidatedOnly: r.Pipeline.ValidatedOnly,
	})

	srv := &rest.Server{
		Addr:           r.Addr,
		Logger:         lg.With(slog.String("prefix", "rest")),
		Pipeline:       svc,
		Store:          st,
		Gatherer:       reg,
		CacheStat:      gen.CacheStat,
		RequestTimeout: r.RequestTimeout,
		PageSize:       r.PageSize,
	}

	ewg, ctx := errgroup.WithContext(ctx)
	ewg.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(sig)
		select {
		case sig := <-sig:
			lg.Warn("caught signal, stopping", slog.String("signal", sig.String()))
			stop()
			return ctx.Err()
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	ewg.Go(func() error {
		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("run http server: %w", err)
		}
		lg.Warn("http server stopped")
		return nil
	})

	if err := ewg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

func (r Run) makeStore(ctx context.Context) (store.Interface, error) {
	switch r.Store.Type {
	case "bolt":
		b, err := store.NewBolt(r.Store.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("open bolt at %s: %w", r.Store.BoltPath, err)
		}
		return b, nil
	case "mongo":
		connCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		m, err := store.NewMongo(connCtx, r.Store.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported store type %q", r.Store.Type)
	}
}

func (r Run) makeCompleter(lg *slog.Logger) quiz.Completer {
	cl := requester.New(http.Client{Timeout: r.OpenAI.Timeout},
		logx.LoggingRoundTripper(lg.With(slog.String("prefix", "openai_client")), logx.RoundTripperOpts{
			Level:         slog.LevelDebug,
			SecretHeaders: []string{"Authorization"},
		}),
	).Client()

	oai := quiz.NewOpenAIClient(lg.With(slog.String("prefix", "openai")), cl, r.OpenAI.Token, r.OpenAI.BaseURL)

	if r.OpenAI.API == "completion" {
		return quiz.NewCompletion(oai, r.OpenAI.Model, r.OpenAI.MaxTokens)
	}
	return quiz.NewChatGPT(oai, r.OpenAI.Model, r.OpenAI.MaxTokens)
}
