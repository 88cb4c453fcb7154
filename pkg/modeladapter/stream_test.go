package modeladapter_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/modelservice/pkg/modeladapter"
)

func TestStream_Collect(t *testing.T) {
	s := modeladapter.StreamOf("Hel", "lo", "!")

	text, err := s.Collect()
	require.NoError(t, err)
	assert.Equal(t, "Hello!", text)
}

func TestStream_Empty(t *testing.T) {
	text, err := modeladapter.StreamOf().Collect()
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestStream_ErrorKeepsPartialText(t *testing.T) {
	boom := errors.New("boom")
	s := modeladapter.NewStream(func(yield func(string, error) bool) {
		if !yield("a", nil) {
			return
		}
		yield("", boom)
	})

	text, err := s.Collect()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "a", text)
}

func TestStream_SingleUse(t *testing.T) {
	s := modeladapter.StreamOf("a")

	_, err := s.Collect()
	require.NoError(t, err)

	_, err = s.Collect()
	assert.ErrorIs(t, err, modeladapter.ErrStreamConsumed)
}

func TestStream_EarlyBreakStopsProducer(t *testing.T) {
	produced := 0
	s := modeladapter.NewStream(func(yield func(string, error) bool) {
		for _, f := range []string{"a", "b", "c"} {
			produced++
			if !yield(f, nil) {
				return
			}
		}
	})

	for text, err := range s.Iter() {
		require.NoError(t, err)
		assert.Equal(t, "a", text)
		break
	}

	assert.Equal(t, 1, produced)
}
