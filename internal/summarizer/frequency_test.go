package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeKeepsOriginalOrder(t *testing.T) {
	s := NewFrequencySummarizer()
	text := "Go compiles fast. Compilers matter. Go programs compile to a single binary. Lunch was good."

	out := s.Summarize(text, 2)
	picked := strings.Split(out, ". ")
	require.Len(t, picked, 2)

	// selected sentences must appear in source order
	first := strings.Index(text, strings.TrimSuffix(picked[0], "."))
	second := strings.Index(text, strings.TrimSuffix(picked[1], "."))
	assert.Less(t, first, second)
}

func TestSummarizeBoundsOutput(t *testing.T) {
	s := NewFrequencySummarizer()
	text := "One sentence here. Two sentences now. Three in total. Four for good measure."

	out := s.Summarize(text, 2)
	assert.Equal(t, 2, strings.Count(out, "."))

	out = s.Summarize(text, 100)
	assert.Equal(t, 4, strings.Count(out, "."))
}

func TestSummarizeNoSentenceBoundaries(t *testing.T) {
	s := NewFrequencySummarizer()
	assert.Equal(t, "just a fragment", s.Summarize("  just a fragment  ", 3))
}

func TestSummarizeEmpty(t *testing.T) {
	s := NewFrequencySummarizer()
	assert.Equal(t, "", s.Summarize("", 3))
}

func TestSummarizeDefaultSentenceCount(t *testing.T) {
	s := NewFrequencySummarizer()
	text := "Alpha one here. Beta two here. Gamma three here. Delta four here. Epsilon five here."
	out := s.Summarize(text, 0)
	assert.Equal(t, 3, strings.Count(out, "."))
}

func TestSummarizePrefersFrequentTopics(t *testing.T) {
	s := NewFrequencySummarizer()
	text := "Goroutines schedule cheaply. Goroutines multiplex onto threads. Goroutines block without spinning. My cat sleeps."

	out := s.Summarize(text, 2)
	assert.Contains(t, out, "Goroutines")
	assert.NotContains(t, out, "cat")
}
