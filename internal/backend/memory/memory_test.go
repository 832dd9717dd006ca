package memory

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// termEmbedder is a deterministic embedder over a fixed vocabulary, so tests
// can reason about which document is closest to a query.
type termEmbedder struct {
	terms    []string
	prepared int
}

func newTermEmbedder(terms ...string) *termEmbedder {
	return &termEmbedder{terms: terms}
}

func (e *termEmbedder) Name() string { return "term" }

func (e *termEmbedder) Dimension() int { return len(e.terms) }

func (e *termEmbedder) Prepare(corpus []string) error {
	e.prepared++
	return nil
}

func (e *termEmbedder) Embed(text string) ([]float64, error) {
	vec := make([]float64, len(e.terms))
	words := strings.Fields(strings.ToLower(text))
	for i, term := range e.terms {
		for _, w := range words {
			if strings.Trim(w, ".,!?") == term {
				vec[i]++
			}
		}
	}
	return vec, nil
}

func seedStorage(t *testing.T) *Storage {
	t.Helper()
	s := NewStorage(newTermEmbedder("cats", "dogs", "birds"))
	err := s.Upsert("docs",
		[]string{"a", "b", "c"},
		[]string{"cats purr and cats nap", "dogs bark at dogs", "birds sing to birds"},
		[]map[string]any{
			{"course_title": "Pets", "lesson_number": 1},
			{"course_title": "Pets", "lesson_number": 2},
			{"course_title": "Wildlife", "lesson_number": 1},
		})
	require.NoError(t, err)
	return s
}

func TestQueryRanksBySimilarity(t *testing.T) {
	s := seedStorage(t)
	res, err := s.Query("docs", "tell me about dogs", 2, nil)
	require.NoError(t, err)
	require.Len(t, res.Documents, 2)
	assert.Equal(t, "dogs bark at dogs", res.Documents[0])
	assert.Less(t, res.Distances[0], res.Distances[1])
}

func TestQueryEqualityFilter(t *testing.T) {
	s := seedStorage(t)
	res, err := s.Query("docs", "dogs", 5, map[string]any{"course_title": "Wildlife"})
	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "birds sing to birds", res.Documents[0])
}

func TestQueryAndFilter(t *testing.T) {
	s := seedStorage(t)
	where := map[string]any{"$and": []map[string]any{
		{"course_title": "Pets"},
		{"lesson_number": 2},
	}}
	res, err := s.Query("docs", "dogs", 5, where)
	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "dogs bark at dogs", res.Documents[0])
}

func TestQueryAndFilterDecodedForm(t *testing.T) {
	// JSON decoding produces []any rather than []map[string]any.
	s := seedStorage(t)
	where := map[string]any{"$and": []any{
		map[string]any{"course_title": "Pets"},
		map[string]any{"lesson_number": float64(2)},
	}}
	res, err := s.Query("docs", "dogs", 5, where)
	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	assert.Equal(t, "dogs bark at dogs", res.Documents[0])
}

func TestQueryNumericTolerance(t *testing.T) {
	s := seedStorage(t)
	res, err := s.Query("docs", "cats", 5, map[string]any{"lesson_number": float64(1)})
	require.NoError(t, err)
	assert.Len(t, res.Documents, 2)
}

func TestQueryMissingCollection(t *testing.T) {
	s := seedStorage(t)
	res, err := s.Query("nothing", "cats", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Documents)
}

func TestUpsertReplacesExisting(t *testing.T) {
	s := seedStorage(t)
	err := s.Upsert("docs", []string{"a"}, []string{"cats climb trees"}, []map[string]any{{"course_title": "Pets"}})
	require.NoError(t, err)

	res, err := s.Query("docs", "cats", 5, nil)
	require.NoError(t, err)
	assert.Contains(t, res.Documents, "cats climb trees")
	assert.NotContains(t, res.Documents, "cats purr and cats nap")
}

func TestUpsertLengthMismatch(t *testing.T) {
	s := NewStorage(newTermEmbedder("x"))
	err := s.Upsert("docs", []string{"a", "b"}, []string{"one"}, []map[string]any{{}})
	assert.Error(t, err)
}

func TestUpsertRetrainsEmbedder(t *testing.T) {
	emb := newTermEmbedder("cats")
	s := NewStorage(emb)
	require.NoError(t, s.Upsert("docs", []string{"a"}, []string{"cats"}, []map[string]any{{}}))
	require.NoError(t, s.Upsert("docs", []string{"b"}, []string{"more cats"}, []map[string]any{{}}))
	assert.Equal(t, 2, emb.prepared)
}

func TestGetAllAndByID(t *testing.T) {
	s := seedStorage(t)

	all, err := s.Get("docs", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, all.IDs)

	some, err := s.Get("docs", []string{"c", "missing"})
	require.NoError(t, err)
	require.Len(t, some.IDs, 1)
	assert.Equal(t, "c", some.IDs[0])
	assert.Equal(t, "Wildlife", some.Metadatas[0]["course_title"])
}

func TestDeleteCollection(t *testing.T) {
	s := seedStorage(t)
	require.NoError(t, s.DeleteCollection("docs"))
	res, err := s.Query("docs", "cats", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Documents)
}
