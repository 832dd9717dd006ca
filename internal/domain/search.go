package domain

// SearchResults is an ordered set of matching chunks with their stored
// metadata and distances. Either Err is set and the set is empty, or Err is
// empty; an empty set with no error is a valid "nothing matched" outcome.
type SearchResults struct {
	Documents []string
	Metadata  []map[string]any
	Distances []float64
	Err       string
}

// ErrorResults returns an empty, error-flagged result set.
func ErrorResults(msg string) SearchResults {
	return SearchResults{Err: msg}
}

// IsEmpty reports whether the set contains no documents.
func (r SearchResults) IsEmpty() bool { return len(r.Documents) == 0 }
