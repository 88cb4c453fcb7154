package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	"github.com/germanamz/modelservice/pkg/aierr"
	"github.com/germanamz/modelservice/pkg/modeladapter"
)

const (
	dataPrefix   = "data: "
	doneSentinel = "[DONE]"
)

// decodeChunk extracts the text carried by one event block. Lines that are
// not data lines are ignored. done reports that the [DONE] sentinel was seen;
// text gathered before it is still returned.
func decodeChunk(chunk []byte) (text string, done bool, err error) {
	var sb strings.Builder

	for line := range bytes.Lines(chunk) {
		trimmed := strings.TrimSpace(string(line))
		if !strings.HasPrefix(trimmed, dataPrefix) {
			continue
		}

		payload := strings.TrimSpace(strings.TrimPrefix(trimmed, dataPrefix))
		if payload == doneSentinel {
			return sb.String(), true, nil
		}

		var c streamChunk
		if err := json.Unmarshal([]byte(payload), &c); err != nil {
			return "", false, fmt.Errorf("decode stream chunk: %w", err)
		}

		if len(c.Choices) > 0 && c.Choices[0].Delta.Content != nil {
			sb.WriteString(*c.Choices[0].Delta.Content)
		}
	}

	return sb.String(), false, nil
}

// textStream turns raw event blocks into a Stream of text fragments.
// Malformed blocks are skipped; a transport failure ends the stream with a
// classified error. Streams report no usage, so the completion size is
// estimated and logged when iteration ends.
func (a *Adapter) textStream(ctx context.Context, chunks iter.Seq2[[]byte, error]) *modeladapter.Stream {
	return modeladapter.NewStream(func(yield func(string, error) bool) {
		estimated := 0
		defer func() {
			a.log.DebugContext(ctx, "stream finished", "estimated_completion_tokens", estimated)
		}()

		for chunk, err := range chunks {
			if err != nil {
				yield("", aierr.FromTransport(err, aierr.StreamError, a.desc.DisplayName))
				return
			}

			text, done, derr := decodeChunk(chunk)
			if derr != nil {
				a.log.DebugContext(ctx, "dropping malformed stream chunk", "error", derr)
				continue
			}

			if text != "" {
				estimated += a.estimator.EstimateText(text)
				if !yield(text, nil) {
					return
				}
			}

			if done {
				return
			}
		}
	})
}
