package modeladapter

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/kaptinlin/jsonrepair"
)

// maxDetailLen bounds the excerpt kept on a StatusError.
const maxDetailLen = 500

// apiErrorBody covers the error envelopes used by OpenAI-compatible APIs:
// {"error":{"message":...}}, {"error":"..."} and {"message":...}.
type apiErrorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

type apiErrorObject struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

// DescribeBody turns an error response body into a short human-readable
// message. JSON envelopes yield their message (truncated bodies are repaired
// first), HTML pages from proxies are reduced to text, anything else is
// returned trimmed.
func DescribeBody(contentType string, body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	if strings.Contains(contentType, "html") || bytes.HasPrefix(trimmed, []byte("<")) {
		if text, err := htmltomarkdown.ConvertString(string(trimmed)); err == nil {
			return truncate(collapseSpace(text))
		}
		return truncate(string(trimmed))
	}

	if trimmed[0] == '{' {
		if msg, ok := jsonErrorMessage(trimmed); ok {
			return truncate(msg)
		}
		if repaired, err := jsonrepair.JSONRepair(string(trimmed)); err == nil {
			if msg, ok := jsonErrorMessage([]byte(repaired)); ok {
				return truncate(msg)
			}
		}
	}

	return truncate(string(trimmed))
}

func jsonErrorMessage(data []byte) (string, bool) {
	var env apiErrorBody
	if err := json.Unmarshal(data, &env); err != nil {
		return "", false
	}

	if len(env.Error) > 0 {
		var obj apiErrorObject
		if err := json.Unmarshal(env.Error, &obj); err == nil && obj.Message != "" {
			return obj.Message, true
		}
		var s string
		if err := json.Unmarshal(env.Error, &s); err == nil && s != "" {
			return s, true
		}
	}

	if env.Message != "" {
		return env.Message, true
	}

	return "", false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string) string {
	if len(s) <= maxDetailLen {
		return s
	}
	cut := maxDetailLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
