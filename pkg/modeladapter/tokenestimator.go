package modeladapter

import (
	"github.com/germanamz/modelservice/pkg/providers/model"
)

// perMessageOverhead is the estimated token overhead for each message (role,
// structure delimiters, etc.).
const perMessageOverhead = 4

// replyPriming accounts for the tokens the API adds to prime the assistant
// reply.
const replyPriming = 3

// TokenEstimator estimates token counts for prompts and chat histories.
// It uses a character-to-token heuristic (approximately 1 token per 4 characters
// for English text). The zero value is ready to use.
type TokenEstimator struct{}

// charsToTokens converts a character count to an estimated token count using the
// 1-token-per-4-characters heuristic.
func charsToTokens(chars int) int {
	return (chars + 3) / 4 // round up
}

// EstimateText estimates the tokens in a bare string.
func (e *TokenEstimator) EstimateText(s string) int {
	return charsToTokens(len(s))
}

// EstimateMessages estimates the total input tokens for a chat history,
// including per-message structural overhead.
func (e *TokenEstimator) EstimateMessages(msgs []model.Message) int {
	if len(msgs) == 0 {
		return 0
	}

	tokens := replyPriming
	for _, m := range msgs {
		tokens += perMessageOverhead + charsToTokens(len(m.Role)+len(m.Content))
	}

	return tokens
}
