// Package backend defines the vector search backend contract the index is
// written against. A backend owns embedding and nearest-neighbor search;
// callers only ever hand it text.
package backend

// QueryResult holds nearest-neighbor matches for one query, closest first.
type QueryResult struct {
	Documents []string
	Metadatas []map[string]any
	Distances []float64
}

// GetResult holds entries fetched by id.
type GetResult struct {
	IDs       []string
	Metadatas []map[string]any
}

// Backend stores documents with structured metadata in named collections and
// answers nearest-neighbor queries, optionally filtered by metadata.
//
// Filters are either a single {"field": value} equality or a conjunction
// {"$and": [{...}, {...}]} of equalities; nil means no filter.
type Backend interface {
	Query(collection, queryText string, n int, where map[string]any) (QueryResult, error)
	Upsert(collection string, ids, documents []string, metadatas []map[string]any) error
	// Get returns the entries with the given ids; with no ids, all entries.
	Get(collection string, ids []string) (GetResult, error)
	DeleteCollection(collection string) error
}
