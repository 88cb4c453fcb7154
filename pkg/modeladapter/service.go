package modeladapter

import (
	"context"
	"errors"

	"github.com/germanamz/modelservice/pkg/aierr"
	"github.com/germanamz/modelservice/pkg/modeladapter/usage"
	"github.com/germanamz/modelservice/pkg/providers/model"
)

var (
	// ErrNotImplemented is the cause of the error returned by the base
	// GenerateResponse stub.
	ErrNotImplemented = errors.New("adapter: not implemented")
	// ErrStreamingNotSupported is the cause of the error returned by
	// adapters that have no streaming implementation.
	ErrStreamingNotSupported = errors.New("adapter: streaming not supported")
)

// Service is the capability every provider adapter offers.
type Service interface {
	// GenerateResponse sends a single prompt and returns the full reply.
	GenerateResponse(ctx context.Context, prompt string, cfg model.Config) (model.Response, error)
	// StreamResponse sends a single prompt and returns the reply as a lazy
	// sequence of text fragments.
	StreamResponse(ctx context.Context, prompt string, cfg model.Config) (*Stream, error)
}

// ChatService extends Service with history-based requests and the
// provider-specific checks callers need before dispatching.
type ChatService interface {
	Service
	GenerateResponseWithHistory(ctx context.Context, msgs []model.Message, cfg model.Config) (model.Response, error)
	StreamResponseWithHistory(ctx context.Context, msgs []model.Message, cfg model.Config) (*Stream, error)
	// ValidateConfig applies the shared rules plus provider catalog limits.
	ValidateConfig(cfg model.Config) error
	// ValidateAPIKey probes the provider and reports whether the credentials
	// work. It never returns an error.
	ValidateAPIKey(ctx context.Context) bool
	// Descriptor returns a copy of the provider's static metadata.
	Descriptor() model.Descriptor
}

// UsageReporter is implemented by services that keep running token totals.
type UsageReporter interface {
	Usage() usage.Snapshot
}

// ConfigValidator checks a config before any transport call.
type ConfigValidator func(cfg model.Config) error

// Generate runs the shared single-prompt flow: prompt validation, then config
// validation, then send with the prompt wrapped as one user message.
func Generate(
	ctx context.Context,
	prompt string,
	cfg model.Config,
	validate ConfigValidator,
	send func(context.Context, []model.Message, model.Config) (model.Response, error),
) (model.Response, error) {
	if err := checkPreconditions(prompt, cfg, validate); err != nil {
		return model.Response{}, err
	}
	return send(ctx, []model.Message{model.User(prompt)}, cfg)
}

// OpenStream is the streaming counterpart of Generate.
func OpenStream(
	ctx context.Context,
	prompt string,
	cfg model.Config,
	validate ConfigValidator,
	open func(context.Context, []model.Message, model.Config) (*Stream, error),
) (*Stream, error) {
	if err := checkPreconditions(prompt, cfg, validate); err != nil {
		return nil, err
	}
	return open(ctx, []model.Message{model.User(prompt)}, cfg)
}

func checkPreconditions(prompt string, cfg model.Config, validate ConfigValidator) error {
	if err := ValidatePrompt(prompt); err != nil {
		return err
	}
	if validate == nil {
		validate = ValidateConfig
	}
	return validate(cfg)
}

// GenerateResponse is a stub that validates its input and then fails with a
// RequestError caused by ErrNotImplemented.
// Concrete adapters that embed ModelAdapter shadow it.
func (a *ModelAdapter) GenerateResponse(_ context.Context, prompt string, cfg model.Config) (model.Response, error) {
	if err := checkPreconditions(prompt, cfg, nil); err != nil {
		return model.Response{}, err
	}
	return model.Response{}, aierr.Wrap(aierr.RequestError, "Generation not implemented", ErrNotImplemented)
}

// StreamResponse validates its input and fails with a StreamError caused by
// ErrStreamingNotSupported.
// Adapters with real streaming shadow it.
func (a *ModelAdapter) StreamResponse(_ context.Context, prompt string, cfg model.Config) (*Stream, error) {
	if err := checkPreconditions(prompt, cfg, nil); err != nil {
		return nil, err
	}
	return nil, aierr.Wrap(aierr.StreamError, "Streaming not implemented", ErrStreamingNotSupported)
}
