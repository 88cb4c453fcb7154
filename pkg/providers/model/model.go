// Package model holds the provider-agnostic value types exchanged with model
// services: sampling configuration, message turns, responses and the static
// descriptor each provider publishes about its catalog.
package model

import (
	"maps"
	"slices"

	"github.com/germanamz/modelservice/pkg/chats/role"
)

// Config holds the sampling and limit parameters for a single request.
// It is a value type; callers build one per request.
type Config struct {
	ModelName        string  `yaml:"model" json:"model"`
	Temperature      float64 `yaml:"temperature" json:"temperature"`
	MaxTokens        int     `yaml:"max_tokens" json:"max_tokens"`
	TopP             float64 `yaml:"top_p" json:"top_p"`
	PresencePenalty  float64 `yaml:"presence_penalty" json:"presence_penalty"`
	FrequencyPenalty float64 `yaml:"frequency_penalty" json:"frequency_penalty"`
}

// DefaultConfig returns a Config for modelName with common sampling defaults.
func DefaultConfig(modelName string) Config {
	return Config{
		ModelName:   modelName,
		Temperature: 0.7,
		MaxTokens:   1024,
		TopP:        1,
	}
}

// Message is a single conversation turn.
type Message struct {
	Role    role.Role `json:"role"`
	Content string    `json:"content"`
}

// User returns a user message.
func User(content string) Message { return Message{Role: role.User, Content: content} }

// System returns a system message.
func System(content string) Message { return Message{Role: role.System, Content: content} }

// Assistant returns an assistant message.
func Assistant(content string) Message { return Message{Role: role.Assistant, Content: content} }

// Usage reports token counts for one request.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add returns the field-wise sum of u and o.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		PromptTokens:     u.PromptTokens + o.PromptTokens,
		CompletionTokens: u.CompletionTokens + o.CompletionTokens,
		TotalTokens:      u.TotalTokens + o.TotalTokens,
	}
}

// Response is the result of a successful non-streaming request.
type Response struct {
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}

// Cost is the price charged per Unit tokens.
type Cost struct {
	Price float64 `yaml:"price" json:"price"`
	Unit  int     `yaml:"unit" json:"unit"`
}

// CatalogEntry describes a model to add to a provider's catalog, typically
// for OpenAI-compatible hosts serving models beyond the built-in list.
type CatalogEntry struct {
	Name      string `yaml:"name"`
	MaxTokens int    `yaml:"max_tokens"` // 0 leaves the model without a ceiling.
	Cost      Cost   `yaml:"cost"`       // Zero Unit leaves the model unpriced.
}

// Descriptor is the static metadata a provider publishes: which models it
// serves, their token ceilings, endpoints and pricing.
type Descriptor struct {
	ID               string
	DisplayName      string
	SupportedModels  []string
	MaxTokensByModel map[string]int
	Endpoints        []string
	CostsByModel     map[string]Cost
}

// Supports reports whether modelName is in the supported catalog.
func (d Descriptor) Supports(modelName string) bool {
	return slices.Contains(d.SupportedModels, modelName)
}

// MaxTokens returns the registered token ceiling for modelName.
func (d Descriptor) MaxTokens(modelName string) (int, bool) {
	n, ok := d.MaxTokensByModel[modelName]
	return n, ok
}

// Cost estimates the price of u for modelName. The bool is false when no
// pricing is registered for the model.
func (d Descriptor) Cost(modelName string, u Usage) (float64, bool) {
	c, ok := d.CostsByModel[modelName]
	if !ok || c.Unit <= 0 {
		return 0, false
	}
	return float64(u.TotalTokens) / float64(c.Unit) * c.Price, true
}

// DefaultEndpoint returns the first endpoint, or "" when none is declared.
func (d Descriptor) DefaultEndpoint() string {
	if len(d.Endpoints) == 0 {
		return ""
	}
	return d.Endpoints[0]
}

// Clone returns a deep copy of d so callers cannot mutate an adapter's
// descriptor through shared maps or slices.
func (d Descriptor) Clone() Descriptor {
	out := d
	out.SupportedModels = slices.Clone(d.SupportedModels)
	out.Endpoints = slices.Clone(d.Endpoints)
	out.MaxTokensByModel = maps.Clone(d.MaxTokensByModel)
	out.CostsByModel = maps.Clone(d.CostsByModel)
	return out
}
