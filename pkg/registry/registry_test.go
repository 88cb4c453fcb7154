package registry_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/modelservice/pkg/config"
	"github.com/germanamz/modelservice/pkg/modeladapter"
	"github.com/germanamz/modelservice/pkg/providers/model"
	"github.com/germanamz/modelservice/pkg/providers/openai"
	"github.com/germanamz/modelservice/pkg/registry"
)

func countingFactory(n *atomic.Int32, delay time.Duration) registry.Factory {
	return func(creds registry.Credentials, logger *slog.Logger) (modeladapter.ChatService, error) {
		n.Add(1)
		time.Sleep(delay)
		return openai.New(openai.Credentials{APIKey: creds.APIKey}, openai.WithLogger(logger)), nil
	}
}

func TestGetService_OpenAIDefault(t *testing.T) {
	r := registry.New()

	svc, err := r.GetService("openai", registry.Credentials{APIKey: "sk-test"})
	require.NoError(t, err)

	_, ok := svc.(*openai.Adapter)
	assert.True(t, ok)
	assert.Equal(t, "openai", svc.Descriptor().ID)
}

func TestGetService_ReturnsCachedInstance(t *testing.T) {
	r := registry.New()

	first, err := r.GetService("openai", registry.Credentials{APIKey: "sk-one"})
	require.NoError(t, err)

	second, err := r.GetService("openai", registry.Credentials{APIKey: "sk-two"})
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestGetService_KeyIsNormalized(t *testing.T) {
	r := registry.New()

	first, err := r.GetService("openai", registry.Credentials{APIKey: "k"})
	require.NoError(t, err)

	second, err := r.GetService(" OpenAI ", registry.Credentials{APIKey: "k"})
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestGetService_UnknownProvider(t *testing.T) {
	r := registry.New()

	svc, err := r.GetService("mistral", registry.Credentials{APIKey: "k"})
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, registry.ErrUnknownProvider)
	assert.ErrorContains(t, err, `"mistral"`)
}

func TestGetService_AnthropicNotImplemented(t *testing.T) {
	r := registry.New()

	svc, err := r.GetService("anthropic", registry.Credentials{APIKey: "k"})
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, registry.ErrNotImplemented)
	assert.NotErrorIs(t, err, registry.ErrUnknownProvider)
}

func TestGetService_ConcurrentFirstUseBuildsOnce(t *testing.T) {
	var built atomic.Int32

	r := registry.New(registry.WithoutDefaults())
	r.Register("slow", countingFactory(&built, 20*time.Millisecond))

	const goroutines = 32

	var wg sync.WaitGroup
	results := make([]modeladapter.ChatService, goroutines)

	wg.Add(goroutines)
	for i := range goroutines {
		go func() {
			defer wg.Done()
			svc, err := r.GetService("slow", registry.Credentials{APIKey: "k"})
			assert.NoError(t, err)
			results[i] = svc
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), built.Load())
	for _, svc := range results {
		assert.Same(t, results[0], svc)
	}
}

func TestGetService_FactoryErrorIsNotCached(t *testing.T) {
	calls := 0
	r := registry.New(registry.WithoutDefaults())
	r.Register("flaky", func(creds registry.Credentials, logger *slog.Logger) (modeladapter.ChatService, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("boom")
		}
		return openai.New(openai.Credentials{APIKey: creds.APIKey}), nil
	})

	_, err := r.GetService("flaky", registry.Credentials{})
	assert.ErrorContains(t, err, "boom")

	svc, err := r.GetService("flaky", registry.Credentials{})
	require.NoError(t, err)
	assert.NotNil(t, svc)
	assert.Equal(t, 2, calls)
}

func TestRegister_ReplacesDeclared(t *testing.T) {
	var built atomic.Int32

	r := registry.New()
	r.Register("anthropic", countingFactory(&built, 0))

	_, err := r.GetService("anthropic", registry.Credentials{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), built.Load())
}

func TestDeclare_DoesNotShadowFactory(t *testing.T) {
	r := registry.New()
	r.Declare("openai")

	_, err := r.GetService("openai", registry.Credentials{APIKey: "k"})
	assert.NoError(t, err)
}

func TestProviders(t *testing.T) {
	r := registry.New()
	assert.Equal(t, []string{"openai"}, r.Providers())

	var built atomic.Int32
	r.Register("local", countingFactory(&built, 0))
	assert.Equal(t, []string{"local", "openai"}, r.Providers())

	assert.Empty(t, registry.New(registry.WithoutDefaults()).Providers())
}

func TestEvict(t *testing.T) {
	var built atomic.Int32

	r := registry.New(registry.WithoutDefaults())
	r.Register("p", countingFactory(&built, 0))

	first, err := r.GetService("p", registry.Credentials{APIKey: "k"})
	require.NoError(t, err)

	r.Evict("p")

	second, err := r.GetService("p", registry.Credentials{APIKey: "k"})
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, int32(2), built.Load())
}

func TestFromConfig(t *testing.T) {
	var got registry.Credentials

	r := registry.New(registry.WithoutDefaults())
	r.Register("openai", func(creds registry.Credentials, _ *slog.Logger) (modeladapter.ChatService, error) {
		got = creds
		return openai.New(openai.Credentials{APIKey: creds.APIKey}, openai.WithModels(creds.Models...)), nil
	})

	cfg := config.Config{
		DefaultProvider: "openai",
		Providers: []config.ProviderConfig{{
			Name:         "openai",
			APIKey:       "sk-cfg",
			Organization: "org-1",
			BaseURL:      "http://localhost:1234/v1",
			Models:       []model.CatalogEntry{{Name: "local-model", MaxTokens: 2048}},
		}},
	}

	svc, err := r.FromConfig(cfg, "")
	require.NoError(t, err)

	assert.Equal(t, registry.Credentials{
		APIKey:       "sk-cfg",
		Organization: "org-1",
		BaseURL:      "http://localhost:1234/v1",
		Models:       []model.CatalogEntry{{Name: "local-model", MaxTokens: 2048}},
	}, got)
	assert.True(t, svc.Descriptor().Supports("local-model"))

	_, err = r.FromConfig(cfg, "missing")
	assert.ErrorContains(t, err, `provider "missing" not configured`)
}

func TestFromConfig_DefaultOpenAIFactoryWiresOptions(t *testing.T) {
	r := registry.New()

	cfg := config.Config{Providers: []config.ProviderConfig{{
		Name:   "openai",
		APIKey: "sk",
		Models: []model.CatalogEntry{{Name: "gpt-4o", MaxTokens: 16384}},
	}}}

	svc, err := r.FromConfig(cfg, "openai")
	require.NoError(t, err)

	c := model.DefaultConfig("gpt-4o")
	c.MaxTokens = 16384
	assert.NoError(t, svc.ValidateConfig(c))

	assert.False(t, svc.ValidateAPIKey(canceledContext()))
}

func canceledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}
