// Package registry maps provider keys to ChatService instances. Each key is
// constructed at most once per Registry and reused for its lifetime.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/germanamz/modelservice/pkg/config"
	"github.com/germanamz/modelservice/pkg/modeladapter"
	"github.com/germanamz/modelservice/pkg/providers/model"
	"github.com/germanamz/modelservice/pkg/providers/openai"
)

var (
	// ErrUnknownProvider is returned for keys the registry has never heard of.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrNotImplemented is returned for declared keys without a factory.
	ErrNotImplemented = errors.New("provider not implemented")
)

// Credentials carry what a factory needs to build a service.
type Credentials struct {
	APIKey       string
	Organization string
	BaseURL      string               // Optional override of the provider endpoint.
	Models       []model.CatalogEntry // Optional catalog extensions.
}

// Factory builds a service from credentials. logger is never nil.
type Factory func(creds Credentials, logger *slog.Logger) (modeladapter.ChatService, error)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger handed to factories.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithoutDefaults skips registration of the built-in providers.
func WithoutDefaults() Option {
	return func(r *Registry) { r.noDefaults = true }
}

// Registry hands out one ChatService per provider key. It is safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	declared  map[string]struct{}
	instances map[string]modeladapter.ChatService

	group      singleflight.Group
	logger     *slog.Logger
	noDefaults bool
}

// New creates a Registry. Unless WithoutDefaults is given, "openai" is
// registered and "anthropic" is declared but not implemented.
func New(opts ...Option) *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		declared:  make(map[string]struct{}),
		instances: make(map[string]modeladapter.ChatService),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}

	if !r.noDefaults {
		r.factories[openai.ProviderID] = newOpenAI
		r.declared["anthropic"] = struct{}{}
	}

	return r
}

func newOpenAI(creds Credentials, logger *slog.Logger) (modeladapter.ChatService, error) {
	opts := []openai.Option{openai.WithLogger(logger)}
	if creds.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(creds.BaseURL))
	}
	if len(creds.Models) > 0 {
		opts = append(opts, openai.WithModels(creds.Models...))
	}

	return openai.New(openai.Credentials{
		APIKey:       creds.APIKey,
		Organization: creds.Organization,
	}, opts...), nil
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Register adds or replaces the factory for key. An instance already built
// for key is kept.
func (r *Registry) Register(key string, f Factory) {
	key = normalize(key)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[key] = f
	delete(r.declared, key)
}

// Declare marks key as a known provider that has no implementation yet.
func (r *Registry) Declare(key string) {
	key = normalize(key)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[key]; !ok {
		r.declared[key] = struct{}{}
	}
}

// Providers returns the keys that have a factory, sorted.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.factories))
	for k := range r.factories {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return keys
}

// GetService returns the cached service for key, building it on first use.
// Concurrent first calls for the same key share one construction. Once a
// service is cached, creds are ignored for that key.
func (r *Registry) GetService(key string, creds Credentials) (modeladapter.ChatService, error) {
	key = normalize(key)

	r.mu.RLock()
	svc, cached := r.instances[key]
	factory, known := r.factories[key]
	_, declared := r.declared[key]
	r.mu.RUnlock()

	if cached {
		return svc, nil
	}
	if !known {
		if declared {
			return nil, fmt.Errorf("registry: %w: %q", ErrNotImplemented, key)
		}
		return nil, fmt.Errorf("registry: %w: %q", ErrUnknownProvider, key)
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		r.mu.RLock()
		existing, ok := r.instances[key]
		r.mu.RUnlock()
		if ok {
			return existing, nil
		}

		built, err := factory(creds, r.logger)
		if err != nil {
			return nil, fmt.Errorf("registry: build %q: %w", key, err)
		}

		r.mu.Lock()
		defer r.mu.Unlock()

		if existing, ok := r.instances[key]; ok {
			return existing, nil
		}
		r.instances[key] = built
		r.logger.Debug("provider service created", "provider", key)

		return built, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(modeladapter.ChatService), nil
}

// Evict drops the cached service for key so the next GetService builds a
// fresh one, e.g. after rotating credentials.
func (r *Registry) Evict(key string) {
	key = normalize(key)

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.instances, key)
}

// CredentialsFrom converts a provider config entry.
func CredentialsFrom(p config.ProviderConfig) Credentials {
	return Credentials{
		APIKey:       p.APIKey,
		Organization: p.Organization,
		BaseURL:      p.BaseURL,
		Models:       p.Models,
	}
}

// FromConfig returns the service for the provider named name in cfg, or for
// cfg's default provider when name is empty.
func (r *Registry) FromConfig(cfg config.Config, name string) (modeladapter.ChatService, error) {
	p, ok := cfg.Provider(name)
	if !ok {
		if name == "" {
			name = cfg.DefaultProvider
		}
		return nil, fmt.Errorf("registry: provider %q not configured", name)
	}

	return r.GetService(p.Name, CredentialsFrom(p))
}
