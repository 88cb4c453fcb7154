package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/germanamz/modelservice/pkg/config"
	"github.com/germanamz/modelservice/pkg/modeladapter"
	"github.com/germanamz/modelservice/pkg/providers/model"
	"github.com/germanamz/modelservice/pkg/providers/openai"
	"github.com/germanamz/modelservice/pkg/registry"
)

const (
	defaultConfigFile = "modelservice.yaml"
	defaultModel      = "gpt-3.5-turbo"
)

// app bundles what a subcommand needs once flags and config are resolved.
type app struct {
	cfg      config.Config
	registry *registry.Registry
	logger   *slog.Logger
}

func (o *rootOptions) setup(cmd *cobra.Command) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := o.logLevel
	if level == "" {
		level = cfg.LogLevel
	}
	logger := newLogger(cmd.ErrOrStderr(), level)

	return &app{
		cfg:      cfg,
		registry: registry.New(registry.WithLogger(logger)),
		logger:   logger,
	}, nil
}

// loadConfig resolves the configuration: explicit flag, then
// modelservice.yaml in the working directory, then the environment.
func (o *rootOptions) loadConfig() (config.Config, error) {
	path := o.configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}

	if path != "" {
		return config.Load(path)
	}

	return envConfig(), nil
}

// envConfig builds a single-provider config from OPENAI_* variables.
func envConfig() config.Config {
	return config.Config{
		DefaultProvider: openai.ProviderID,
		Providers: []config.ProviderConfig{{
			Name:         openai.ProviderID,
			APIKey:       os.Getenv("OPENAI_API_KEY"),
			Organization: os.Getenv("OPENAI_ORG_ID"),
			BaseURL:      os.Getenv("OPENAI_BASE_URL"),
		}},
		Defaults: config.Defaults{Model: defaultModel},
	}
}

func (a *app) service(provider string) (modeladapter.ChatService, error) {
	return a.registry.FromConfig(a.cfg, provider)
}

// requestConfig applies flag overrides on top of the configured defaults.
func (o *rootOptions) requestConfig(cmd *cobra.Command, defaults model.Config) model.Config {
	c := defaults
	flags := cmd.Flags()

	if flags.Changed("model") {
		c.ModelName = o.model
	}
	if flags.Changed("max-tokens") {
		c.MaxTokens = o.maxTokens
	}
	if flags.Changed("temperature") {
		c.Temperature = o.temperature
	}

	return c
}

// generate sends prompt, prefixed by the system prompt when one was given.
func (o *rootOptions) generate(ctx context.Context, svc modeladapter.ChatService, prompt string, cfg model.Config) (model.Response, error) {
	if o.system == "" {
		return svc.GenerateResponse(ctx, prompt, cfg)
	}
	return svc.GenerateResponseWithHistory(ctx, []model.Message{model.System(o.system), model.User(prompt)}, cfg)
}

// stream is the streaming counterpart of generate.
func (o *rootOptions) stream(ctx context.Context, svc modeladapter.ChatService, prompt string, cfg model.Config) (*modeladapter.Stream, error) {
	if o.system == "" {
		return svc.StreamResponse(ctx, prompt, cfg)
	}
	return svc.StreamResponseWithHistory(ctx, []model.Message{model.System(o.system), model.User(prompt)}, cfg)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
