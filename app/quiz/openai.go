package quiz

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// Models used when none is configured.
const (
	DefaultChatModel       = openai.GPT4o
	DefaultCompletionModel = openai.GPT3Dot5TurboInstruct
)

const systemPrompt = "You are an assistant that generates MCQ questions. " +
	"First plan, then observe, then provide the results. Always return proper json."

// errNoChoices is returned when the model responded without any choices.
var errNoChoices = errors.New("no choices in response")

//go:generate moq -out mock_openai_client.go . OpenAIClient

// OpenAIClient is interface for OpenAI client with the possibility to mock it
type OpenAIClient interface {
	CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateCompletion(context.Context, openai.CompletionRequest) (openai.CompletionResponse, error)
}

// NewOpenAIClient makes a client to OpenAI API, which logs every call
// at debug level. Empty baseURL means the default OpenAI endpoint.
func NewOpenAIClient(lg *slog.Logger, cl *http.Client, token, baseURL string) OpenAIClient {
	config := openai.DefaultConfig(token)
	config.HTTPClient = cl
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &loggingClient{log: lg, cl: openai.NewClientWithConfig(config)}
}

// ChatGPT generates replies with the chat completion API.
type ChatGPT struct {
	cl        OpenAIClient
	model     string
	maxTokens int
}

// NewChatGPT makes new chat backend.
func NewChatGPT(cl OpenAIClient, model string, maxTokens int) *ChatGPT {
	if model == "" {
		model = DefaultChatModel
	}
	return &ChatGPT{cl: cl, model: model, maxTokens: maxTokens}
}

// Complete sends the prompt as a user message and returns the content
// of the first choice.
func (c *ChatGPT) Complete(ctx context.Context, prompt string) (Reply, error) {
	resp, err := c.cl.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, errNoChoices
	}

	return WrappedContent{Content: resp.Choices[0].Message.Content, Model: resp.Model}, nil
}

// Completion generates replies with the legacy text completion API.
type Completion struct {
	cl        OpenAIClient
	model     string
	maxTokens int
}

// NewCompletion makes new text completion backend.
func NewCompletion(cl OpenAIClient, model string, maxTokens int) *Completion {
	if model == "" {
		model = DefaultCompletionModel
	}
	return &Completion{cl: cl, model: model, maxTokens: maxTokens}
}

// Complete sends the prompt prefixed with system instructions and returns
// the text of the first choice.
func (c *Completion) Complete(ctx context.Context, prompt string) (Reply, error) {
	resp, err := c.cl.CreateCompletion(ctx, openai.CompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Prompt:    systemPrompt + "\n\n" + prompt,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 {
		return nil, errNoChoices
	}

	return RawText(resp.Choices[0].Text), nil
}

type loggingClient struct {
	log *slog.Logger
	cl  OpenAIClient
}

func (l *loggingClient) CreateChatCompletion(
	ctx context.Context,
	req openai.ChatCompletionRequest,
) (openai.ChatCompletionResponse, error) {
	l.log.DebugContext(ctx, "sending chat completion request", slog.String("model", req.Model))
	resp, err := l.cl.CreateChatCompletion(ctx, req)
	l.log.DebugContext(ctx, "chat completion response received",
		slog.Int("total_tokens", resp.Usage.TotalTokens), slog.Any("err", err))
	return resp, err
}

func (l *loggingClient) CreateCompletion(
	ctx context.Context,
	req openai.CompletionRequest,
) (openai.CompletionResponse, error) {
	l.log.DebugContext(ctx, "sending completion request", slog.String("model", req.Model))
	resp, err := l.cl.CreateCompletion(ctx, req)
	var tokens int
	if resp.Usage != nil {
		tokens = resp.Usage.TotalTokens
	}
	l.log.DebugContext(ctx, "completion response received",
		slog.Int("total_tokens", tokens), slog.Any("err", err))
	return resp, err
}
