package chunking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPacksParagraphs(t *testing.T) {
	s := NewSplitter(30, 0)
	text := "First paragraph.\n\nSecond one.\n\nThird paragraph here."

	chunks := s.Split(text)

	require.Len(t, chunks, 2)
	assert.Equal(t, "First paragraph.\n\nSecond one.", chunks[0])
	assert.Equal(t, "Third paragraph here.", chunks[1])
}

func TestSplitKeepsAllTextWithoutOverlap(t *testing.T) {
	s := NewSplitter(10, 0)
	long := strings.Repeat("abcdefghij", 3) + "xyz"

	chunks := s.Split("intro\n\n" + long)

	assert.Equal(t, []string{"intro", "abcdefghij", "abcdefghij", "abcdefghij", "xyz"}, chunks)
}

func TestSplitWindowOverlap(t *testing.T) {
	s := NewSplitter(6, 2)

	chunks := s.Split("abcdefghij")

	assert.Equal(t, []string{"abcdef", "efghij"}, chunks)
}

func TestSplitEmptyText(t *testing.T) {
	assert.Nil(t, NewSplitter(0, 0).Split(" \n\n "))
}

func TestSplitCountsRunes(t *testing.T) {
	s := NewSplitter(5, 0)

	chunks := s.Split("привет\n\nмир")

	assert.Equal(t, []string{"приве", "т", "мир"}, chunks)
}
