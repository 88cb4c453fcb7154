package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeChunk(t *testing.T) {
	tests := []struct {
		name     string
		chunk    string
		wantText string
		wantDone bool
		wantErr  bool
	}{
		{"content", `data: {"choices":[{"delta":{"content":"a"}}]}`, "a", false, false},
		{"done", "data: [DONE]", "", true, false},
		{"done with spaces", "  data: [DONE]  \r\n", "", true, false},
		{"content then done", "data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\ndata: [DONE]", "x", true, false},
		{"concatenates data lines", "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\ndata: {\"choices\":[{\"delta\":{\"content\":\"b\"}}]}", "ab", false, false},
		{"no delta content", `data: {"choices":[{"delta":{"role":"assistant"}}]}`, "", false, false},
		{"no choices", `data: {"choices":[]}`, "", false, false},
		{"ignores non-data lines", "event: message\nid: 7\n: ping", "", false, false},
		{"data without space is not data", `data:{"choices":[{"delta":{"content":"a"}}]}`, "", false, false},
		{"malformed", "data: {oops", "", false, true},
		{"empty", "", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, done, err := decodeChunk([]byte(tt.chunk))
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, text)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantDone, done)
		})
	}
}
