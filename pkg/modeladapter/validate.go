package modeladapter

import (
	"strings"

	"github.com/germanamz/modelservice/pkg/aierr"
	"github.com/germanamz/modelservice/pkg/providers/model"
)

// ValidatePrompt rejects empty or whitespace-only prompts.
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return aierr.New(aierr.InvalidInput, "Prompt cannot be empty")
	}
	return nil
}

// ValidateConfig applies the provider-independent rules in a fixed order and
// returns the first failure. NaN fails every range check.
func ValidateConfig(cfg model.Config) error {
	if !inRange(cfg.Temperature, 0, 1) {
		return aierr.New(aierr.InvalidConfig, "Temperature must be between 0 and 1")
	}
	if cfg.MaxTokens <= 0 {
		return aierr.New(aierr.InvalidConfig, "MaxTokens must be positive")
	}
	if !inRange(cfg.TopP, 0, 1) {
		return aierr.New(aierr.InvalidConfig, "TopP must be between 0 and 1")
	}
	if strings.TrimSpace(cfg.ModelName) == "" {
		return aierr.New(aierr.InvalidConfig, "Model name must be specified")
	}
	if !inRange(cfg.PresencePenalty, -2, 2) {
		return aierr.New(aierr.InvalidConfig, "Presence penalty must be between -2 and 2")
	}
	if !inRange(cfg.FrequencyPenalty, -2, 2) {
		return aierr.New(aierr.InvalidConfig, "Frequency penalty must be between -2 and 2")
	}
	return nil
}

// ValidateForDescriptor runs ValidateConfig and then checks cfg against the
// provider's catalog: the model must be supported and MaxTokens must not
// exceed its ceiling.
func ValidateForDescriptor(cfg model.Config, d model.Descriptor) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}

	if !d.Supports(cfg.ModelName) {
		return aierr.Newf(aierr.InvalidConfig, "Invalid model name: %s", cfg.ModelName)
	}

	if limit, ok := d.MaxTokens(cfg.ModelName); ok && cfg.MaxTokens > limit {
		return aierr.Newf(aierr.InvalidConfig, "Max tokens exceeds model limit of %d", limit)
	}

	return nil
}

// ValidateMessages checks a conversation history: it must be non-empty and
// every message needs a known role and non-blank content.
func ValidateMessages(msgs []model.Message) error {
	if len(msgs) == 0 {
		return aierr.New(aierr.InvalidMessages, "Messages array cannot be empty")
	}

	for _, m := range msgs {
		if !m.Role.Valid() {
			return aierr.Newf(aierr.InvalidRole, "Invalid role: %s", m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			return aierr.New(aierr.InvalidContent, "Message content cannot be empty")
		}
	}

	return nil
}

func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
