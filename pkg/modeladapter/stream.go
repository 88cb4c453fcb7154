package modeladapter

import (
	"errors"
	"iter"
	"strings"
	"sync/atomic"
)

// ErrStreamConsumed is yielded when a Stream is iterated a second time.
var ErrStreamConsumed = errors.New("adapter: stream already consumed")

// Stream is a forward-only, single-use sequence of text fragments.
//
// Range over Iter to pull fragments in arrival order. Breaking out of the
// loop is the cancellation signal: the producer releases its transport
// resources as soon as the loop stops. A Stream that is never iterated may
// hold an open connection until its context ends.
type Stream struct {
	seq  iter.Seq2[string, error]
	used atomic.Bool
}

// NewStream wraps seq. seq yields fragments with a nil error and at most one
// terminal error.
func NewStream(seq iter.Seq2[string, error]) *Stream {
	return &Stream{seq: seq}
}

// StreamOf returns a Stream that yields the given fragments.
func StreamOf(fragments ...string) *Stream {
	return NewStream(func(yield func(string, error) bool) {
		for _, f := range fragments {
			if !yield(f, nil) {
				return
			}
		}
	})
}

// Iter returns the sequence for range-over-func loops.
//
//	for text, err := range stream.Iter() {
//	    if err != nil { ... }
//	    fmt.Print(text)
//	}
func (s *Stream) Iter() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if !s.used.CompareAndSwap(false, true) {
			yield("", ErrStreamConsumed)
			return
		}
		s.seq(yield)
	}
}

// Collect drains the stream and returns the concatenated text. On a
// mid-stream error the text received so far is returned with the error.
func (s *Stream) Collect() (string, error) {
	var sb strings.Builder
	for text, err := range s.Iter() {
		if err != nil {
			return sb.String(), err
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}
