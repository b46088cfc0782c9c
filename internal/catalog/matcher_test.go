package catalog

import (
	"context"
	"testing"

	"github.com/acousticdna/acousticdna/internal/fingerprint"
)

func TestFindBestThresholdGate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Insert(ctx, "Song A", "Artist A", fingerprint.Fingerprint{
		Hashes: []uint32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, DurationSec: 10,
	}); err != nil {
		t.Fatal(err)
	}

	matcher := NewMatcher(store)

	// Query shares no hashes with the catalog entry: similarity is 0.
	_, ok, err := matcher.FindBest(ctx, fingerprint.Fingerprint{Hashes: []uint32{100, 101}})
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected no match below threshold")
	}
}

func TestFindBestAcceptsAboveThreshold(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	hashes := []uint32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if _, err := store.Insert(ctx, "Song A", "Artist A", fingerprint.Fingerprint{
		Hashes: hashes, DurationSec: 10,
	}); err != nil {
		t.Fatal(err)
	}

	matcher := NewMatcher(store)
	match, ok, err := matcher.FindBest(ctx, fingerprint.Fingerprint{Hashes: hashes})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected an exact-match query to clear the threshold")
	}
	if match.Title != "Song A" || match.Score != 1.0 {
		t.Errorf("unexpected match: %+v", match)
	}
}

func TestFindAllRanksDescending(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Insert(ctx, "High", "A", fingerprint.Fingerprint{Hashes: []uint32{1, 2, 3, 4}}); err != nil {
		t.Fatal(err)
	}
	// Shares 3 of 4 hashes with the query: intersection 3, union 5, score 0.6.
	if _, err := store.Insert(ctx, "Mid", "A", fingerprint.Fingerprint{Hashes: []uint32{1, 2, 3, 8}}); err != nil {
		t.Fatal(err)
	}
	// Shares only 1 hash: intersection 1, union 7, score ~0.14, below threshold.
	if _, err := store.Insert(ctx, "Low", "A", fingerprint.Fingerprint{Hashes: []uint32{1, 5, 6, 7}}); err != nil {
		t.Fatal(err)
	}

	matcher := NewMatcher(store)
	matches, err := matcher.FindAll(ctx, fingerprint.Fingerprint{Hashes: []uint32{1, 2, 3, 4}})
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches above threshold, got %d", len(matches))
	}
	if matches[0].Title != "High" {
		t.Errorf("expected exact match to rank first, got %s", matches[0].Title)
	}
	if matches[1].Title != "Mid" {
		t.Errorf("expected partial match to rank second, got %s", matches[1].Title)
	}
	if matches[0].Score < matches[1].Score {
		t.Errorf("expected descending scores, got %f then %f", matches[0].Score, matches[1].Score)
	}
}

func TestFindBestEmptyCatalogReturnsNoMatch(t *testing.T) {
	store := newTestStore(t)
	matcher := NewMatcher(store)

	_, ok, err := matcher.FindBest(context.Background(), fingerprint.Fingerprint{Hashes: []uint32{1, 2, 3}})
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected no match against an empty catalog")
	}
}
