// Package openai provides a ChatService implementation for the OpenAI Chat
// Completions API and compatible hosts.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/germanamz/modelservice/pkg/aierr"
	"github.com/germanamz/modelservice/pkg/modeladapter"
	"github.com/germanamz/modelservice/pkg/modeladapter/usage"
	"github.com/germanamz/modelservice/pkg/providers/model"
)

// ProviderID is the registry key and descriptor id of this adapter.
const ProviderID = "openai"

var (
	_ modeladapter.ChatService           = (*Adapter)(nil)
	_ modeladapter.UsageReporter         = (*Adapter)(nil)
	_ modeladapter.RateLimitInfoReporter = (*Adapter)(nil)
)

// Credentials identify the caller to the API.
type Credentials struct {
	APIKey       string
	Organization string // Optional; sent as OpenAI-Organization.
}

type options struct {
	transport Transport
	client    *http.Client
	baseURL   string
	logger    *slog.Logger
	models    []model.CatalogEntry
}

// Option configures an Adapter.
type Option func(*options)

// WithTransport replaces the HTTP transport. Client and base URL options are
// ignored when it is set.
func WithTransport(t Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithHTTPClient sets the client used by the default transport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithBaseURL points the default transport at an OpenAI-compatible host.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithLogger sets the logger. Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithModels extends the model catalog.
func WithModels(entries ...model.CatalogEntry) Option {
	return func(o *options) { o.models = append(o.models, entries...) }
}

// Adapter implements modeladapter.ChatService for the OpenAI Chat Completions
// API. It is safe for concurrent use.
type Adapter struct {
	transport Transport
	desc      model.Descriptor
	log       *slog.Logger
	estimator modeladapter.TokenEstimator
	usage     usage.Tracker
}

// New creates an Adapter. Without WithTransport it talks HTTP to the
// descriptor's default endpoint.
func New(creds Credentials, opts ...Option) *Adapter {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	desc := defaultDescriptor()
	for _, m := range o.models {
		addModel(&desc, m)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	t := o.transport
	if t == nil {
		baseURL := o.baseURL
		if baseURL == "" {
			baseURL = desc.DefaultEndpoint()
		}
		t = NewHTTPTransport(baseURL, creds, o.client, logger)
	}

	return &Adapter{
		transport: t,
		desc:      desc,
		log:       logger.With("provider", ProviderID),
	}
}

func defaultDescriptor() model.Descriptor {
	return model.Descriptor{
		ID:              ProviderID,
		DisplayName:     "OpenAI",
		SupportedModels: []string{"gpt-4", "gpt-3.5-turbo"},
		MaxTokensByModel: map[string]int{
			"gpt-4":         8192,
			"gpt-3.5-turbo": 4096,
		},
		Endpoints: []string{"https://api.openai.com/v1"},
		CostsByModel: map[string]model.Cost{
			"gpt-4":         {Price: 0.03, Unit: 1000},
			"gpt-3.5-turbo": {Price: 0.002, Unit: 1000},
		},
	}
}

func addModel(d *model.Descriptor, m model.CatalogEntry) {
	if m.Name == "" {
		return
	}
	if !d.Supports(m.Name) {
		d.SupportedModels = append(d.SupportedModels, m.Name)
	}
	if m.MaxTokens > 0 {
		d.MaxTokensByModel[m.Name] = m.MaxTokens
	}
	if m.Cost.Unit > 0 {
		d.CostsByModel[m.Name] = m.Cost
	}
}

// Descriptor returns a copy of the provider metadata.
func (a *Adapter) Descriptor() model.Descriptor { return a.desc.Clone() }

// Usage returns running token totals of successful non-streaming calls.
// Streams carry no usage block and are not counted.
func (a *Adapter) Usage() usage.Snapshot { return a.usage.Snapshot() }

// LastRateLimitInfo returns the rate limit headers of the most recent
// response, or nil when the transport does not record them.
func (a *Adapter) LastRateLimitInfo() *modeladapter.RateLimitInfo {
	if r, ok := a.transport.(modeladapter.RateLimitInfoReporter); ok {
		return r.LastRateLimitInfo()
	}
	return nil
}

// ValidateConfig applies the shared rules and this provider's catalog limits.
func (a *Adapter) ValidateConfig(cfg model.Config) error {
	return modeladapter.ValidateForDescriptor(cfg, a.desc)
}

// GenerateResponse sends prompt as a single user message.
func (a *Adapter) GenerateResponse(ctx context.Context, prompt string, cfg model.Config) (model.Response, error) {
	return modeladapter.Generate(ctx, prompt, cfg, a.ValidateConfig, a.complete)
}

// GenerateResponseWithHistory sends a full conversation.
func (a *Adapter) GenerateResponseWithHistory(ctx context.Context, msgs []model.Message, cfg model.Config) (model.Response, error) {
	if err := modeladapter.ValidateMessages(msgs); err != nil {
		return model.Response{}, err
	}
	if err := a.ValidateConfig(cfg); err != nil {
		return model.Response{}, err
	}
	return a.complete(ctx, msgs, cfg)
}

// StreamResponse streams the reply to prompt.
func (a *Adapter) StreamResponse(ctx context.Context, prompt string, cfg model.Config) (*modeladapter.Stream, error) {
	return modeladapter.OpenStream(ctx, prompt, cfg, a.ValidateConfig, a.stream)
}

// StreamResponseWithHistory streams the reply to a full conversation.
func (a *Adapter) StreamResponseWithHistory(ctx context.Context, msgs []model.Message, cfg model.Config) (*modeladapter.Stream, error) {
	if err := modeladapter.ValidateMessages(msgs); err != nil {
		return nil, err
	}
	if err := a.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return a.stream(ctx, msgs, cfg)
}

// ValidateAPIKey reports whether the credentials can list models. Any
// failure, including a reply without a data array, yields false.
func (a *Adapter) ValidateAPIKey(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			a.log.WarnContext(ctx, "api key validation panicked", "panic", fmt.Sprint(r))
			ok = false
		}
	}()

	list, err := a.transport.ListModels(ctx)
	if err != nil {
		a.log.DebugContext(ctx, "api key validation failed", "error", err)
		return false
	}

	return list != nil && list.Data != nil
}

func (a *Adapter) complete(ctx context.Context, msgs []model.Message, cfg model.Config) (model.Response, error) {
	req := a.buildRequest(msgs, cfg)

	resp, err := a.transport.CreateChatCompletion(ctx, req)
	if err != nil {
		return model.Response{}, aierr.FromTransport(err, aierr.RequestError, a.desc.DisplayName)
	}

	out, err := parseResponse(resp)
	if err != nil {
		return model.Response{}, err
	}

	a.usage.Add(out.Usage)
	a.log.DebugContext(ctx, "completion received",
		"model", cfg.ModelName,
		"prompt_tokens", out.Usage.PromptTokens,
		"completion_tokens", out.Usage.CompletionTokens,
	)

	return out, nil
}

func (a *Adapter) stream(ctx context.Context, msgs []model.Message, cfg model.Config) (*modeladapter.Stream, error) {
	req := a.buildRequest(msgs, cfg)
	req.Stream = true

	chunks, err := a.transport.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, aierr.FromTransport(err, aierr.StreamError, a.desc.DisplayName)
	}

	return a.textStream(ctx, chunks), nil
}

// --- conversion helpers ---

func (a *Adapter) buildRequest(msgs []model.Message, cfg model.Config) ChatCompletionRequest {
	req := ChatCompletionRequest{
		Model:            cfg.ModelName,
		Messages:         make([]ChatMessage, len(msgs)),
		Temperature:      cfg.Temperature,
		MaxTokens:        cfg.MaxTokens,
		TopP:             cfg.TopP,
		PresencePenalty:  cfg.PresencePenalty,
		FrequencyPenalty: cfg.FrequencyPenalty,
	}

	for i, m := range msgs {
		req.Messages[i] = ChatMessage{Role: m.Role.String(), Content: m.Content}
	}

	a.log.Debug("dispatching request",
		"model", cfg.ModelName,
		"messages", len(msgs),
		"estimated_prompt_tokens", a.estimator.EstimateMessages(msgs),
	)

	return req
}

func parseResponse(resp *ChatCompletionResponse) (model.Response, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return model.Response{}, aierr.New(aierr.EmptyResponse, "No content in response")
	}

	content := resp.Choices[0].Message.Content
	if content == nil || *content == "" {
		return model.Response{}, aierr.New(aierr.EmptyResponse, "No content in response")
	}

	out := model.Response{Content: *content}
	if resp.Usage != nil {
		out.Usage = model.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return out, nil
}
