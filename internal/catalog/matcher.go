package catalog

import (
	"context"
	"sort"

	"github.com/acousticdna/acousticdna/internal/fingerprint"
)

// AcceptThreshold is the strict similarity floor a candidate must clear to
// be considered a match.
const AcceptThreshold = 0.3

// Match is a scored candidate from the catalog.
type Match struct {
	ID     string
	Title  string
	Artist string
	Score  float64
}

// Matcher queries a Store, scores candidates with the similarity evaluator,
// and enforces the acceptance threshold.
type Matcher struct {
	store *Store
}

// NewMatcher builds a Matcher over store.
func NewMatcher(store *Store) *Matcher {
	return &Matcher{store: store}
}

// FindBest scans every catalog entry, keeps the maximum-scoring one, and
// accepts it only if its score strictly exceeds AcceptThreshold. Ties at
// exact score are broken by earliest scanned entry. Returns ok=false if no
// entry clears the threshold.
func (m *Matcher) FindBest(ctx context.Context, query fingerprint.Fingerprint) (match Match, ok bool, err error) {
	entries, err := m.store.Scan(ctx)
	if err != nil {
		return Match{}, false, err
	}

	best := Match{}
	found := false
	for _, e := range entries {
		score := fingerprint.Similarity(query.Hashes, e.Fingerprint.Hashes)
		if score > AcceptThreshold && (!found || score > best.Score) {
			best = Match{ID: e.ID, Title: e.Title, Artist: e.Artist, Score: score}
			found = true
		}
	}
	return best, found, nil
}

// FindAll scans every catalog entry and returns every one whose score
// strictly exceeds AcceptThreshold, sorted by score descending; ties keep
// original scan order (stable sort).
func (m *Matcher) FindAll(ctx context.Context, query fingerprint.Fingerprint) ([]Match, error) {
	entries, err := m.store.Scan(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(entries))
	for _, e := range entries {
		score := fingerprint.Similarity(query.Hashes, e.Fingerprint.Hashes)
		if score > AcceptThreshold {
			matches = append(matches, Match{ID: e.ID, Title: e.Title, Artist: e.Artist, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	return matches, nil
}
