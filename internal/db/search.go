package db

// TagHint carries the coarse tag pre-filters safe to push into the index.
// Exact numeric, size, and color constraints are reapplied downstream.
type TagHint struct {
	Brand    string
	Category string
}

// IsEmpty reports whether the hint constrains nothing.
func (h TagHint) IsEmpty() bool { return h.Brand == "" && h.Category == "" }

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName string
	Hint      TagHint
	Vector    []float32
	K         int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single hit from a vector search. Score is the raw index
// distance; callers convert it to a relevance score.
type SearchEntry struct {
	Key      string
	Distance float64
}
