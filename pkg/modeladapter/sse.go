package modeladapter

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"iter"
)

// maxEventLineSize bounds a single line of an event stream.
const maxEventLineSize = 1024 * 1024

// EventChunks splits a Server-Sent Events body into event blocks. Each chunk
// holds the raw lines of one event (terminated by a blank line), joined with
// "\n" and with CR stripped. A trailing block without a blank line is still
// yielded.
//
// The body is closed when the sequence ends, whether it is drained, a read
// fails, or the consumer stops early.
func EventChunks(body io.ReadCloser) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		defer func() { _ = body.Close() }()

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, 64*1024), maxEventLineSize)

		var block bytes.Buffer
		for scanner.Scan() {
			line := scanner.Bytes()

			if len(line) == 0 {
				if block.Len() == 0 {
					continue
				}
				if !yield(bytes.Clone(block.Bytes()), nil) {
					return
				}
				block.Reset()
				continue
			}

			if block.Len() > 0 {
				block.WriteByte('\n')
			}
			block.Write(line)
		}

		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("read event stream: %w", err))
			return
		}

		if block.Len() > 0 {
			yield(bytes.Clone(block.Bytes()), nil)
		}
	}
}
