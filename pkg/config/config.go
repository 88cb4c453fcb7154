// Package config loads the YAML configuration shared by the CLI and by hosts
// that build a registry from a file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/germanamz/modelservice/pkg/providers/model"
)

// Config is the top-level configuration.
type Config struct {
	DefaultProvider string           `yaml:"default_provider"`
	Providers       []ProviderConfig `yaml:"providers"`
	Defaults        Defaults         `yaml:"defaults"`
	LogLevel        string           `yaml:"log_level"`
}

// Defaults are the request settings applied when the caller sets none.
// Fields left out of the file are nil and take model.DefaultConfig values,
// so an explicit zero temperature or top_p survives.
type Defaults struct {
	Model            string   `yaml:"model"`
	Temperature      *float64 `yaml:"temperature"`
	MaxTokens        *int     `yaml:"max_tokens"`
	TopP             *float64 `yaml:"top_p"`
	PresencePenalty  *float64 `yaml:"presence_penalty"`
	FrequencyPenalty *float64 `yaml:"frequency_penalty"`
}

// ProviderConfig holds the credentials and catalog extensions for one
// provider. Name is the registry key (e.g. "openai").
type ProviderConfig struct {
	Name         string               `yaml:"name"`
	APIKey       string               `yaml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	Organization string               `yaml:"organization"`
	BaseURL      string               `yaml:"base_url"`
	Models       []model.CatalogEntry `yaml:"models"`
}

// Load reads a YAML file and returns a Config.
// Environment variables referenced as ${VAR} or $VAR in the YAML are expanded
// before parsing, so API keys can live in the environment (e.g. loaded from a
// .env file) rather than in the file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	return Parse(data)
}

// Parse expands environment variables in data and decodes it.
func Parse(data []byte) (Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	return cfg, nil
}

// Provider returns the entry named name, or the default provider when name
// is empty.
func (c Config) Provider(name string) (ProviderConfig, bool) {
	if name == "" {
		name = c.DefaultProvider
	}
	for _, p := range c.Providers {
		if p.Name == name {
			return p, true
		}
	}
	return ProviderConfig{}, false
}

// ModelDefaults resolves Defaults into a request config. Absent fields come
// from model.DefaultConfig.
func (c Config) ModelDefaults() model.Config {
	d := c.Defaults
	out := model.DefaultConfig(d.Model)

	if d.Temperature != nil {
		out.Temperature = *d.Temperature
	}
	if d.MaxTokens != nil {
		out.MaxTokens = *d.MaxTokens
	}
	if d.TopP != nil {
		out.TopP = *d.TopP
	}
	if d.PresencePenalty != nil {
		out.PresencePenalty = *d.PresencePenalty
	}
	if d.FrequencyPenalty != nil {
		out.FrequencyPenalty = *d.FrequencyPenalty
	}

	return out
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if len(c.Providers) == 0 {
		return fmt.Errorf("config: at least one provider is required")
	}

	names := make(map[string]struct{}, len(c.Providers))
	for _, p := range c.Providers {
		if p.Name == "" {
			return fmt.Errorf("config: provider name is required")
		}
		if _, dup := names[p.Name]; dup {
			return fmt.Errorf("config: duplicate provider name %q", p.Name)
		}
		names[p.Name] = struct{}{}

		if p.APIKey == "" {
			return fmt.Errorf("config: provider %q: api_key is required", p.Name)
		}
		for _, m := range p.Models {
			if m.Name == "" {
				return fmt.Errorf("config: provider %q: model name is required", p.Name)
			}
			if m.MaxTokens < 0 {
				return fmt.Errorf("config: provider %q: model %q: max_tokens must not be negative", p.Name, m.Name)
			}
		}
	}

	if c.DefaultProvider != "" {
		if _, ok := names[c.DefaultProvider]; !ok {
			return fmt.Errorf("config: default_provider %q not found in providers", c.DefaultProvider)
		}
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}

	return nil
}
