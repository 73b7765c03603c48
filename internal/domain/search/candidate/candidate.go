// Package candidate holds the transient semantic search hit.
package candidate

// Candidate is a product id paired with its semantic relevance score, not
// yet validated against exact filters. Candidates are never persisted.
type Candidate struct {
	id    string
	score float64
}

// New creates a candidate. The score is clamped to [0,1].
func New(id string, score float64) Candidate {
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return Candidate{id: id, score: score}
}

// ID returns the product identifier.
func (c Candidate) ID() string { return c.id }

// Score returns the relevance score in [0,1].
func (c Candidate) Score() float64 { return c.score }

// IDs extracts the ids of a candidate slice preserving rank order.
func IDs(cands []Candidate) []string {
	ids := make([]string, len(cands))
	for i, c := range cands {
		ids[i] = c.ID()
	}
	return ids
}
