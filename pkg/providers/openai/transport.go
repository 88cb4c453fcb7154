package openai

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"net/http"

	"github.com/germanamz/modelservice/pkg/modeladapter"
)

const (
	completionsPath = "/chat/completions"
	modelsPath      = "/models"
)

// Transport is the wire-level client the Adapter talks to. HTTPTransport is
// the production implementation; tests substitute fakes.
type Transport interface {
	CreateChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)
	// CreateChatCompletionStream opens a streaming completion. The returned
	// sequence yields one raw chunk per event block and releases the
	// connection when iteration ends.
	CreateChatCompletionStream(ctx context.Context, req ChatCompletionRequest) (iter.Seq2[[]byte, error], error)
	ListModels(ctx context.Context) (*ModelList, error)
}

var _ Transport = (*HTTPTransport)(nil)

// HTTPTransport implements Transport over the OpenAI REST API.
type HTTPTransport struct {
	modeladapter.ModelAdapter
}

// NewHTTPTransport creates a transport for baseURL (e.g.
// "https://api.openai.com/v1", no trailing slash). A nil client falls back
// to the adapter default.
func NewHTTPTransport(baseURL string, creds Credentials, client *http.Client, logger *slog.Logger) *HTTPTransport {
	t := &HTTPTransport{
		ModelAdapter: modeladapter.New(baseURL, modeladapter.Auth{Key: creds.APIKey}, client),
	}
	t.HeaderParser = modeladapter.ParseOpenAIRateLimitHeaders
	t.Logger = logger

	if creds.Organization != "" {
		t.Headers = map[string]string{"OpenAI-Organization": creds.Organization}
	}

	return t
}

// CreateChatCompletion posts a non-streaming completion request.
func (t *HTTPTransport) CreateChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	req.Stream = false

	var resp ChatCompletionResponse
	if err := t.PostJSON(ctx, completionsPath, req, &resp); err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	return &resp, nil
}

// CreateChatCompletionStream posts a streaming completion request and
// returns its event blocks.
func (t *HTTPTransport) CreateChatCompletionStream(ctx context.Context, req ChatCompletionRequest) (iter.Seq2[[]byte, error], error) {
	req.Stream = true

	resp, err := t.PostStream(ctx, completionsPath, req)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	return modeladapter.EventChunks(resp.Body), nil
}

// ListModels fetches the models visible to the configured key.
func (t *HTTPTransport) ListModels(ctx context.Context) (*ModelList, error) {
	var list ModelList
	if err := t.GetJSON(ctx, modelsPath, &list); err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	return &list, nil
}
