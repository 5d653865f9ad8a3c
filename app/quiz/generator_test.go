package quiz

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/Semior001/feedquiz/app/store"
	"github.com/Semior001/feedquiz/pkg/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed data/test/prompt.txt
var expectedPrompt string

//go:embed data/test/article.json
var articleJSON []byte

var nopLogger = slog.New(logx.NoOp())

const replyJSON = `{
	"question": "What could the new deep-sea species change?",
	"options": {
		"a": "Our understanding of life in extreme environments",
		"b": "The price of seafood",
		"c": "Ocean currents",
		"d": "Nothing"
	},
	"correct_answer": "a",
	"explanation": "Researchers say it could change how we understand life in extreme environments."
}`

func testArticle(t *testing.T) store.Article {
	t.Helper()
	var article store.Article
	require.NoError(t, json.Unmarshal(articleJSON, &article))
	return article
}

func expectedMCQ(article store.Article) store.MCQ {
	return store.MCQ{
		FeedURL:     article.FeedURL,
		Title:       article.Title,
		Link:        article.Link,
		Description: article.Description,
		Question:    "What could the new deep-sea species change?",
		Options: map[string]string{
			"a": "Our understanding of life in extreme environments",
			"b": "The price of seafood",
			"c": "Ocean currents",
			"d": "Nothing",
		},
		CorrectAnswer: "a",
		Explanation:   "Researchers say it could change how we understand life in extreme environments.",
	}
}

func TestGenerator_Generate(t *testing.T) {
	article := testArticle(t)

	llm := &CompleterMock{CompleteFunc: func(ctx context.Context, prompt string) (Reply, error) {
		assert.Equal(t, expectedPrompt, prompt)
		return WrappedContent{Content: replyJSON}, nil
	}}

	mcq, err := NewGenerator(nopLogger, llm, 10).Generate(context.Background(), article)
	require.NoError(t, err)
	assert.Equal(t, expectedMCQ(article), mcq)
	assert.Len(t, llm.CompleteCalls(), 1)
}

func TestGenerator_RawAndWrappedReplies(t *testing.T) {
	article := testArticle(t)

	generate := func(reply Reply) store.MCQ {
		llm := &CompleterMock{CompleteFunc: func(context.Context, string) (Reply, error) { return reply, nil }}
		mcq, err := NewGenerator(nopLogger, llm, 0).Generate(context.Background(), article)
		require.NoError(t, err)
		return mcq
	}

	fenced := "```json\n" + replyJSON + "\n```"

	raw := generate(RawText(replyJSON))
	assert.Equal(t, raw, generate(WrappedContent{Content: replyJSON}))
	assert.Equal(t, raw, generate(&WrappedContent{Content: replyJSON}))
	assert.Equal(t, raw, generate(RawText(fenced)))
	assert.Equal(t, raw, generate(WrappedContent{Content: fenced}))
	assert.Equal(t, expectedMCQ(article), raw)
}

func TestGenerator_Failures(t *testing.T) {
	errBackend := errors.New("backend is down")

	tests := []struct {
		name    string
		reply   Reply
		err     error
		wantErr error
	}{
		{name: "not a json", reply: RawText("I can't do that"), wantErr: ErrMalformedReply},
		{name: "empty reply", reply: WrappedContent{}, wantErr: ErrMalformedReply},
		{name: "json list", reply: RawText(`[1, 2, 3]`), wantErr: ErrMalformedReply},
		{
			name:    "no question",
			reply:   RawText(`{"options": {"a": "x", "b": "y"}, "correct_answer": "a"}`),
			wantErr: ErrMissingField,
		},
		{
			name:    "empty question",
			reply:   RawText(`{"question": " ", "options": {"a": "x"}, "correct_answer": "a"}`),
			wantErr: ErrMissingField,
		},
		{
			name:    "no options",
			reply:   RawText(`{"question": "q?", "correct_answer": "a"}`),
			wantErr: ErrMissingField,
		},
		{
			name:    "no correct answer",
			reply:   RawText(`{"question": "q?", "options": ["x", "y"]}`),
			wantErr: ErrMissingField,
		},
		{name: "nil reply", reply: nil, wantErr: ErrMalformedReply},
		{name: "nil wrapped content", reply: (*WrappedContent)(nil), wantErr: ErrMalformedReply},
		{name: "backend error", err: errBackend, wantErr: errBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &CompleterMock{CompleteFunc: func(context.Context, string) (Reply, error) {
				return tt.reply, tt.err
			}}

			var (
				mcq store.MCQ
				err error
			)
			require.NotPanics(t, func() {
				mcq, err = NewGenerator(nopLogger, llm, 0).Generate(context.Background(), testArticle(t))
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, mcq)
		})
	}
}

func TestGenerator_Cache(t *testing.T) {
	article := testArticle(t)

	llm := &CompleterMock{CompleteFunc: func(context.Context, string) (Reply, error) {
		return RawText(replyJSON), nil
	}}
	gen := NewGenerator(nopLogger, llm, 10)

	first, err := gen.Generate(context.Background(), article)
	require.NoError(t, err)

	article.FeedURL = "https://mirror.example.com/rss.xml"
	second, err := gen.Generate(context.Background(), article)
	require.NoError(t, err)

	assert.Len(t, llm.CompleteCalls(), 1)
	assert.Equal(t, first.Question, second.Question)
	assert.Equal(t, "https://mirror.example.com/rss.xml", second.FeedURL)

	stat := gen.CacheStat()
	assert.Equal(t, 1, stat.Hits)
	assert.Equal(t, 1, stat.Added)
}

func TestGenerator_CacheKeepsEditedArticlesApart(t *testing.T) {
	article := testArticle(t)

	llm := &CompleterMock{CompleteFunc: func(context.Context, string) (Reply, error) {
		return RawText(replyJSON), nil
	}}
	gen := NewGenerator(nopLogger, llm, 10)

	_, err := gen.Generate(context.Background(), article)
	require.NoError(t, err)

	article.Description += " Updated with new details."
	_, err = gen.Generate(context.Background(), article)
	require.NoError(t, err)

	require.Len(t, llm.CompleteCalls(), 2)
	assert.Contains(t, llm.CompleteCalls()[1].Prompt, "Updated with new details.")

	stat := gen.CacheStat()
	assert.Zero(t, stat.Hits)
	assert.Equal(t, 2, stat.Added)
}

func TestGenerator_FailuresAreNotCached(t *testing.T) {
	llm := &CompleterMock{CompleteFunc: func(context.Context, string) (Reply, error) {
		return RawText("not a json"), nil
	}}
	gen := NewGenerator(nopLogger, llm, 10)

	for i := 0; i < 2; i++ {
		_, err := gen.Generate(context.Background(), testArticle(t))
		require.ErrorIs(t, err, ErrMalformedReply)
	}

	assert.Len(t, llm.CompleteCalls(), 2)
	assert.Zero(t, gen.CacheStat().Added)
}
