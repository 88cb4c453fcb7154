package model

import (
	"testing"

	"github.com/germanamz/modelservice/pkg/chats/role"
	"github.com/stretchr/testify/assert"
)

func testDescriptor() Descriptor {
	return Descriptor{
		ID:              "openai",
		DisplayName:     "OpenAI",
		SupportedModels: []string{"gpt-4", "gpt-3.5-turbo"},
		MaxTokensByModel: map[string]int{
			"gpt-4":         8192,
			"gpt-3.5-turbo": 4096,
		},
		Endpoints: []string{"https://api.openai.com/v1"},
		CostsByModel: map[string]Cost{
			"gpt-4": {Price: 0.03, Unit: 1000},
		},
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("gpt-4")

	assert.Equal(t, "gpt-4", cfg.ModelName)
	assert.InDelta(t, 0.7, cfg.Temperature, 1e-9)
	assert.Equal(t, 1024, cfg.MaxTokens)
	assert.InDelta(t, 1.0, cfg.TopP, 1e-9)
	assert.Zero(t, cfg.PresencePenalty)
	assert.Zero(t, cfg.FrequencyPenalty)
}

func TestMessageHelpers(t *testing.T) {
	assert.Equal(t, Message{Role: role.User, Content: "hi"}, User("hi"))
	assert.Equal(t, Message{Role: role.System, Content: "be brief"}, System("be brief"))
	assert.Equal(t, Message{Role: role.Assistant, Content: "ok"}, Assistant("ok"))
}

func TestUsage_Add(t *testing.T) {
	got := Usage{1, 2, 3}.Add(Usage{10, 20, 30})
	assert.Equal(t, Usage{PromptTokens: 11, CompletionTokens: 22, TotalTokens: 33}, got)
}

func TestDescriptor_Supports(t *testing.T) {
	d := testDescriptor()

	assert.True(t, d.Supports("gpt-4"))
	assert.False(t, d.Supports("gpt-4o"))
	assert.False(t, d.Supports(""))
}

func TestDescriptor_MaxTokens(t *testing.T) {
	d := testDescriptor()

	n, ok := d.MaxTokens("gpt-3.5-turbo")
	assert.True(t, ok)
	assert.Equal(t, 4096, n)

	_, ok = d.MaxTokens("missing")
	assert.False(t, ok)
}

func TestDescriptor_Cost(t *testing.T) {
	d := testDescriptor()

	cost, ok := d.Cost("gpt-4", Usage{TotalTokens: 2000})
	assert.True(t, ok)
	assert.InDelta(t, 0.06, cost, 1e-9)

	_, ok = d.Cost("gpt-3.5-turbo", Usage{TotalTokens: 2000})
	assert.False(t, ok)
}

func TestDescriptor_DefaultEndpoint(t *testing.T) {
	assert.Equal(t, "https://api.openai.com/v1", testDescriptor().DefaultEndpoint())
	assert.Empty(t, Descriptor{}.DefaultEndpoint())
}

func TestDescriptor_CloneIsIndependent(t *testing.T) {
	d := testDescriptor()
	c := d.Clone()

	c.SupportedModels[0] = "changed"
	c.MaxTokensByModel["gpt-4"] = 1
	c.CostsByModel["gpt-4"] = Cost{}

	assert.Equal(t, "gpt-4", d.SupportedModels[0])
	assert.Equal(t, 8192, d.MaxTokensByModel["gpt-4"])
	assert.Equal(t, 1000, d.CostsByModel["gpt-4"].Unit)
}

func TestDescriptor_CloneZero(t *testing.T) {
	c := Descriptor{ID: "x"}.Clone()

	assert.Equal(t, "x", c.ID)
	assert.Nil(t, c.MaxTokensByModel)
	assert.Nil(t, c.CostsByModel)
}
