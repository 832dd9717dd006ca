// Package memory is an in-process vector backend using brute-force cosine
// similarity. It embeds with an injected Embedder and re-trains
// corpus-dependent embedders whenever a collection changes, which keeps it
// correct (if not fast) for local runs and tests.
package memory

import (
	"errors"
	"math"
	"sort"
	"sync"

	"coursechat/internal/backend"
	"coursechat/internal/domain"
)

type entry struct {
	id       string
	document string
	metadata map[string]any
	vector   []float64
}

type collection struct {
	order   []string // insertion order of ids
	entries map[string]*entry
}

// Storage implements backend.Backend in memory.
type Storage struct {
	mu          sync.RWMutex
	embedder    domain.Embedder
	collections map[string]*collection
}

func NewStorage(embedder domain.Embedder) *Storage {
	return &Storage{embedder: embedder, collections: make(map[string]*collection)}
}

func (s *Storage) Upsert(name string, ids, documents []string, metadatas []map[string]any) error {
	if len(ids) != len(documents) || len(ids) != len(metadatas) {
		return errors.New("ids, documents and metadatas length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	col := s.collections[name]
	if col == nil {
		col = &collection{entries: make(map[string]*entry)}
		s.collections[name] = col
	}
	for i, id := range ids {
		if _, exists := col.entries[id]; !exists {
			col.order = append(col.order, id)
		}
		col.entries[id] = &entry{id: id, document: documents[i], metadata: metadatas[i]}
	}
	return s.reembedLocked()
}

// reembedLocked retrains the embedder over every stored document and refreshes
// all vectors. Corpus-trained embedders (TF-IDF) change their whole vector
// space when the corpus grows, so partial updates are not sound.
func (s *Storage) reembedLocked() error {
	var corpus []string
	for _, col := range s.collections {
		for _, id := range col.order {
			corpus = append(corpus, col.entries[id].document)
		}
	}
	if len(corpus) == 0 {
		return nil
	}
	if err := s.embedder.Prepare(corpus); err != nil {
		return err
	}
	for _, col := range s.collections {
		for _, id := range col.order {
			e := col.entries[id]
			vec, err := s.embedder.Embed(e.document)
			if err != nil {
				return err
			}
			e.vector = vec
		}
	}
	return nil
}

func (s *Storage) Query(name, queryText string, n int, where map[string]any) (backend.QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	col := s.collections[name]
	if col == nil || len(col.order) == 0 {
		return backend.QueryResult{}, nil
	}
	if n <= 0 {
		n = 5
	}
	qvec, err := s.embedder.Embed(queryText)
	if err != nil {
		return backend.QueryResult{}, err
	}

	type scored struct {
		e     *entry
		score float64
	}
	var candidates []scored
	for _, id := range col.order {
		e := col.entries[id]
		if !matches(e.metadata, where) {
			continue
		}
		candidates = append(candidates, scored{e, cosine(qvec, e.vector)})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if n > len(candidates) {
		n = len(candidates)
	}
	var out backend.QueryResult
	for i := 0; i < n; i++ {
		c := candidates[i]
		out.Documents = append(out.Documents, c.e.document)
		out.Metadatas = append(out.Metadatas, c.e.metadata)
		// report cosine distance so smaller means closer, like a real backend
		out.Distances = append(out.Distances, 1-c.score)
	}
	return out, nil
}

func (s *Storage) Get(name string, ids []string) (backend.GetResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	col := s.collections[name]
	if col == nil {
		return backend.GetResult{}, nil
	}
	var out backend.GetResult
	if ids == nil {
		for _, id := range col.order {
			out.IDs = append(out.IDs, id)
			out.Metadatas = append(out.Metadatas, col.entries[id].metadata)
		}
		return out, nil
	}
	for _, id := range ids {
		if e, ok := col.entries[id]; ok {
			out.IDs = append(out.IDs, e.id)
			out.Metadatas = append(out.Metadatas, e.metadata)
		}
	}
	return out, nil
}

func (s *Storage) DeleteCollection(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, name)
	return nil
}

// matches evaluates the filter grammar from the backend contract: nil, a
// single equality, or {"$and": [...]} of equalities.
func matches(metadata, where map[string]any) bool {
	if where == nil {
		return true
	}
	if and, ok := where["$and"]; ok {
		clauses, ok := and.([]map[string]any)
		if !ok {
			if anyClauses, ok2 := and.([]any); ok2 {
				for _, c := range anyClauses {
					m, ok3 := c.(map[string]any)
					if !ok3 || !matches(metadata, m) {
						return false
					}
				}
				return true
			}
			return false
		}
		for _, c := range clauses {
			if !matches(metadata, c) {
				return false
			}
		}
		return true
	}
	for field, want := range where {
		if !valueEqual(metadata[field], want) {
			return false
		}
	}
	return true
}

// valueEqual compares metadata values loosely across numeric types, since
// JSON round-trips turn ints into float64.
func valueEqual(got, want any) bool {
	if gf, ok := toFloat(got); ok {
		if wf, ok2 := toFloat(want); ok2 {
			return gf == wf
		}
		return false
	}
	return got == want
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	dot, na, nb := 0.0, 0.0, 0.0
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
