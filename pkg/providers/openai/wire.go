package openai

// --- request types ---

// ChatCompletionRequest is the body of POST /chat/completions.
type ChatCompletionRequest struct {
	Model            string        `json:"model"`
	Messages         []ChatMessage `json:"messages"`
	Temperature      float64       `json:"temperature"`
	MaxTokens        int           `json:"max_tokens"`
	TopP             float64       `json:"top_p"`
	PresencePenalty  float64       `json:"presence_penalty"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	Stream           bool          `json:"stream,omitempty"`
}

// ChatMessage is one turn on the wire.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// --- response types ---

// ChatCompletionResponse is the non-streaming completion result.
type ChatCompletionResponse struct {
	ID      string      `json:"id,omitempty"`
	Choices []Choice    `json:"choices"`
	Usage   *UsageBlock `json:"usage,omitempty"`
}

// Choice is one candidate reply. Only the first is read.
type Choice struct {
	Index        int             `json:"index"`
	Message      ResponseMessage `json:"message"`
	FinishReason string          `json:"finish_reason,omitempty"`
}

// ResponseMessage is the assistant turn of a Choice. Content is nil when the
// API sends null.
type ResponseMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

// UsageBlock is the token accounting of a completion.
type UsageBlock struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ModelList is the body of GET /models. Data stays nil when the field is
// absent, which ValidateAPIKey treats as an unrecognized reply.
type ModelList struct {
	Object string      `json:"object,omitempty"`
	Data   []ModelInfo `json:"data"`
}

// ModelInfo is one entry of a ModelList.
type ModelInfo struct {
	ID      string `json:"id"`
	Object  string `json:"object,omitempty"`
	OwnedBy string `json:"owned_by,omitempty"`
}

// --- stream types ---

type streamChunk struct {
	Choices []streamChoice `json:"choices"`
}

type streamChoice struct {
	Delta struct {
		Content *string `json:"content"`
	} `json:"delta"`
}
