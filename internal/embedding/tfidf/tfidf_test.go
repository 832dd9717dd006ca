package tfidf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func preparedEmbedder(t *testing.T) *Embedder {
	t.Helper()
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{
		"goroutines run concurrently",
		"channels connect goroutines",
		"maps store key value pairs",
	}))
	return e
}

func TestEmbedBeforePrepare(t *testing.T) {
	_, err := NewEmbedder().Embed("anything")
	assert.Error(t, err)
}

func TestPrepareEmptyCorpus(t *testing.T) {
	assert.Error(t, NewEmbedder().Prepare(nil))
}

func TestPrepareStopwordOnlyCorpus(t *testing.T) {
	assert.Error(t, NewEmbedder().Prepare([]string{"the and of"}))
}

func TestEmbedDimensionStable(t *testing.T) {
	e := preparedEmbedder(t)
	require.Greater(t, e.Dimension(), 0)

	v1, err := e.Embed("goroutines")
	require.NoError(t, err)
	v2, err := e.Embed("completely unrelated words")
	require.NoError(t, err)
	assert.Len(t, v1, e.Dimension())
	assert.Len(t, v2, e.Dimension())
}

func TestEmbedL2Normalized(t *testing.T) {
	e := preparedEmbedder(t)
	vec, err := e.Embed("goroutines connect channels")
	require.NoError(t, err)

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestEmbedUnknownTokensZeroVector(t *testing.T) {
	e := preparedEmbedder(t)
	vec, err := e.Embed("zebra quantum")
	require.NoError(t, err)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestEmbedSimilarityOrdering(t *testing.T) {
	e := preparedEmbedder(t)

	q, err := e.Embed("how do goroutines and channels work")
	require.NoError(t, err)
	onTopic, err := e.Embed("channels connect goroutines")
	require.NoError(t, err)
	offTopic, err := e.Embed("maps store key value pairs")
	require.NoError(t, err)

	assert.Greater(t, dot(q, onTopic), dot(q, offTopic))
}

func TestRareTermsWeighHeavier(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{
		"common word everywhere",
		"common word again",
		"common plus unique",
	}))

	vec, err := e.Embed("common unique")
	require.NoError(t, err)
	assert.Greater(t, vec[e.vocabulary["unique"]], vec[e.vocabulary["common"]])
}

func TestTokenizeHandlesApostrophes(t *testing.T) {
	e := NewEmbedder()
	toks := e.tokenize("Don't split contractions; they're single tokens.")
	assert.Contains(t, toks, "don't")
	assert.Contains(t, toks, "they're")
}

func TestPrepareRebuildsVocabulary(t *testing.T) {
	e := preparedEmbedder(t)
	first := e.Dimension()

	require.NoError(t, e.Prepare([]string{"entirely new corpus text"}))
	assert.NotEqual(t, first, e.Dimension())
	_, ok := e.vocabulary["goroutines"]
	assert.False(t, ok)
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
