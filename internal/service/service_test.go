package service

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/acousticdna/acousticdna/internal/pipeline"
)

// writeSineWAV writes a mono 16-bit PCM WAV file containing a pure tone,
// synthesized in-process so tests don't depend on checked-in audio fixtures.
func writeSineWAV(tb testing.TB, path string, freqHz float64, durationSec float64, sampleRate int) {
	tb.Helper()

	n := int(durationSec * float64(sampleRate))
	data := make([]int16, n)
	for i := range data {
		v := math.Sin(2 * math.Pi * freqHz * float64(i) / float64(sampleRate))
		data[i] = int16(v * 30000)
	}

	pcmBuf := &bytes.Buffer{}
	for _, s := range data {
		binary.Write(pcmBuf, binary.LittleEndian, s)
	}
	pcm := pcmBuf.Bytes()

	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		tb.Fatalf("writing test WAV: %v", err)
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "catalog.sqlite3")
	svc, err := New(WithDBPath(dbPath))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	return svc
}

// TestRoundTripIdentification is scenario S1: ingest a clip, then identify
// the same bytes and expect a confident match.
func TestRoundTripIdentification(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	wavPath := filepath.Join(t.TempDir(), "tone.wav")
	writeSineWAV(t, wavPath, 440, 5, 44100)

	if _, err := svc.Ingest(ctx, wavPath, "T", "A"); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	result, err := svc.Identify(ctx, wavPath)
	if err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if !result.Matched {
		t.Fatal("expected a match for identical bytes")
	}
	if result.Title != "T" || result.Artist != "A" {
		t.Errorf("unexpected match metadata: %+v", result)
	}
	if result.Confidence < 0.95 {
		t.Errorf("expected confidence >= 0.95 for exact round trip, got %f", result.Confidence)
	}
}

// TestNegativeMatch is scenario S3: an unrelated clip should not match.
func TestNegativeMatch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	w1 := filepath.Join(t.TempDir(), "w1.wav")
	writeSineWAV(t, w1, 440, 5, 44100)
	if _, err := svc.Ingest(ctx, w1, "T", "A"); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	w2 := filepath.Join(t.TempDir(), "w2.wav")
	writeSineWAV(t, w2, 880, 5, 44100)

	result, err := svc.Identify(ctx, w2)
	if err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if result.Matched {
		t.Errorf("expected no match for an unrelated clip, got %+v", result)
	}
}

// TestEmptyCatalogQuery is scenario S6.
func TestEmptyCatalogQuery(t *testing.T) {
	svc := newTestService(t)
	wavPath := filepath.Join(t.TempDir(), "tone.wav")
	writeSineWAV(t, wavPath, 440, 2, 44100)

	result, err := svc.Identify(context.Background(), wavPath)
	if err != nil {
		t.Fatalf("Identify against empty catalog should not error: %v", err)
	}
	if result.Matched {
		t.Error("expected no match against an empty catalog")
	}
}

// TestShortClipRejection is scenario S5.
func TestShortClipRejection(t *testing.T) {
	svc := newTestService(t)
	wavPath := filepath.Join(t.TempDir(), "short.wav")
	writeSineWAV(t, wavPath, 440, 0.05, 44100) // 50ms

	_, err := svc.Identify(context.Background(), wavPath)
	if err == nil {
		t.Fatal("expected TooShort error for a 50ms clip")
	}
	if !pipeline.IsClientError(err) {
		t.Errorf("expected a client error, got %v", err)
	}
}

func TestListAndDeleteSong(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	wavPath := filepath.Join(t.TempDir(), "tone.wav")
	writeSineWAV(t, wavPath, 440, 3, 44100)

	id, err := svc.Ingest(ctx, wavPath, "T", "A")
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	entries, err := svc.ListSongs(ctx)
	if err != nil {
		t.Fatalf("ListSongs failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	ok, err := svc.DeleteSong(ctx, id)
	if err != nil {
		t.Fatalf("DeleteSong failed: %v", err)
	}
	if !ok {
		t.Error("expected DeleteSong to report the entry was removed")
	}

	entries, err = svc.ListSongs(ctx)
	if err != nil {
		t.Fatalf("ListSongs failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty catalog after delete, got %d entries", len(entries))
	}
}

func BenchmarkIngest(b *testing.B) {
	dbPath := filepath.Join(b.TempDir(), "catalog.sqlite3")
	svc, err := New(WithDBPath(dbPath))
	if err != nil {
		b.Fatalf("New failed: %v", err)
	}
	defer svc.Close()

	wavPath := filepath.Join(b.TempDir(), "tone.wav")
	writeSineWAV(b, wavPath, 440, 5, 44100)

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Ingest(ctx, wavPath, "T", "A"); err != nil {
			b.Fatalf("Ingest failed: %v", err)
		}
	}
}
