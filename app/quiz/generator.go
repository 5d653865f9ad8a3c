// Package quiz generates multiple-choice questions from article summaries
// with a text generation model.
package quiz

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/Semior001/feedquiz/app/store"
	cache "github.com/go-pkgz/expirable-cache/v2"
)

//go:embed data/prompt.tmpl
var prompt string

var promptTmpl = template.Must(template.New("prompt").Parse(prompt))

// DefaultCacheSize is the number of generated questions kept in memory.
const DefaultCacheSize = 100

//go:generate moq -out mock_completer.go . Completer

// Completer makes a reply of the model to the given prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (Reply, error)
}

// Generator makes MCQs out of articles.
type Generator struct {
	log   *slog.Logger
	llm   Completer
	cache cache.Cache[string, answer]
}

// NewGenerator makes new Generator. Non-positive cacheSize means DefaultCacheSize.
func NewGenerator(lg *slog.Logger, llm Completer, cacheSize int) *Generator {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	return &Generator{
		log: lg,
		llm: llm,
		cache: cache.NewCache[string, answer]().
			WithLRU().
			WithMaxKeys(cacheSize),
	}
}

// CacheStat returns cache stats.
func (g *Generator) CacheStat() cache.Stats { return g.cache.Stat() }

// Generate asks the model for a question about the article description.
func (g *Generator) Generate(ctx context.Context, article store.Article) (store.MCQ, error) {
	key := cacheKey(article)
	if ans, ok := g.cache.Get(key); ok {
		g.log.DebugContext(ctx, "question found in cache", slog.String("link", article.Link))
		return ans.mcq(article), nil
	}

	buf := &strings.Builder{}
	if err := promptTmpl.Execute(buf, article); err != nil {
		return store.MCQ{}, fmt.Errorf("build prompt: %w", err)
	}

	reply, err := g.llm.Complete(ctx, buf.String())
	if err != nil {
		return store.MCQ{}, fmt.Errorf("complete: %w", err)
	}

	text, err := replyText(reply)
	if err != nil {
		return store.MCQ{}, err
	}

	ans, err := parseAnswer(text)
	if err != nil {
		g.log.DebugContext(ctx, "unparsable reply", slog.String("reply", text))
		return store.MCQ{}, fmt.Errorf("parse reply: %w", err)
	}

	g.cache.Set(key, ans, 0)
	return ans.mcq(article), nil
}

// cacheKey identifies the article by its link and the description the question
// is made from, so an edited article gets a fresh question.
func cacheKey(article store.Article) string {
	return article.Link + "\n" + article.Description
}
