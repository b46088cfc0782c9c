package fingerprint

import "testing"

// syntheticSpectrogram builds a spectrogram with a single, unambiguous
// interior peak at (frame, freq) so ExtractPeaks' local-maximum logic can
// be tested without depending on FFT output.
func syntheticSpectrogram(frames, bins, peakFrame, peakFreq int, peakMag float64) Spectrogram {
	data := make([][]float64, frames)
	for t := range data {
		data[t] = make([]float64, bins)
	}
	data[peakFrame][peakFreq] = peakMag
	return Spectrogram{Frames: data}
}

func TestExtractPeaksFindsLocalMaximum(t *testing.T) {
	spec := syntheticSpectrogram(10, 10, 5, 5, 1.0)
	peaks := ExtractPeaks(spec)
	if len(peaks) != 1 {
		t.Fatalf("expected exactly 1 peak, got %d", len(peaks))
	}
	if peaks[0].Frame != 5 || peaks[0].Freq != 5 {
		t.Errorf("unexpected peak location: %+v", peaks[0])
	}
}

func TestExtractPeaksRejectsBelowFloor(t *testing.T) {
	spec := syntheticSpectrogram(10, 10, 5, 5, MagnitudeFloor)
	peaks := ExtractPeaks(spec)
	if len(peaks) != 0 {
		t.Errorf("expected no peaks at exactly the floor (strict >), got %d", len(peaks))
	}
}

func TestExtractPeaksRejectsBorderCells(t *testing.T) {
	frames, bins := 10, 10
	data := make([][]float64, frames)
	for t := range data {
		data[t] = make([]float64, bins)
	}
	data[0][5] = 1.0
	data[9][5] = 1.0
	data[5][0] = 1.0
	data[5][9] = 1.0
	peaks := ExtractPeaks(Spectrogram{Frames: data})
	if len(peaks) != 0 {
		t.Errorf("expected border cells to be excluded, got %d peaks", len(peaks))
	}
}

func TestExtractPeaksCapsAt200(t *testing.T) {
	frames, bins := 50, 50
	data := make([][]float64, frames)
	for t := range data {
		data[t] = make([]float64, bins)
	}
	// Checkerboard every-other cell so no two candidates are adjacent,
	// producing far more than 200 independent local maxima.
	for t := 1; t < frames-1; t++ {
		for f := 1; f < bins-1; f++ {
			if (t+f)%2 == 0 {
				data[t][f] = 1.0 + float64(t*bins+f)*1e-6
			}
		}
	}
	peaks := ExtractPeaks(Spectrogram{Frames: data})
	if len(peaks) > MaxPeaks {
		t.Fatalf("expected at most %d peaks, got %d", MaxPeaks, len(peaks))
	}
	for i := 1; i < len(peaks); i++ {
		if peaks[i].Magnitude > peaks[i-1].Magnitude {
			t.Errorf("peaks not sorted by magnitude descending at index %d", i)
		}
	}
}

func TestHashPairingWindow(t *testing.T) {
	peaks := []Peak{
		{Freq: 10, Frame: 0, Magnitude: 5},
		{Freq: 20, Frame: 3, Magnitude: 4},
		{Freq: 30, Frame: 20, Magnitude: 3}, // outside the 10-frame window
		{Freq: 40, Frame: -1, Magnitude: 2}, // negative delta relative to anchor 0, dropped
	}
	hashes := GenerateHashes(peaks)
	if len(hashes) != 1 {
		t.Fatalf("expected exactly 1 hash within the pairing window, got %d", len(hashes))
	}
	want := Hash(peaks[0], peaks[1])
	if hashes[0] != want {
		t.Errorf("expected hash %d, got %d", want, hashes[0])
	}
}

func TestHashLayoutTruncatesFreq2To8Bits(t *testing.T) {
	anchor := Peak{Freq: 300, Frame: 0}
	target := Peak{Freq: 300, Frame: 5}
	h := Hash(anchor, target)
	wantFreq1 := uint32(300) << 16
	wantFreq2 := uint32(300&0xFF) << 8
	wantDelta := uint32(5)
	if h != wantFreq1|wantFreq2|wantDelta {
		t.Errorf("unexpected hash layout: got %#x want %#x", h, wantFreq1|wantFreq2|wantDelta)
	}
}

func TestSimilarityBoundsAndSymmetry(t *testing.T) {
	a := []uint32{1, 2, 3}
	b := []uint32{2, 3, 4}
	sab := Similarity(a, b)
	sba := Similarity(b, a)
	if sab != sba {
		t.Errorf("similarity not symmetric: %f vs %f", sab, sba)
	}
	if sab < 0 || sab > 1 {
		t.Errorf("similarity out of bounds: %f", sab)
	}
	if Similarity(a, a) != 1 {
		t.Errorf("expected self-similarity 1, got %f", Similarity(a, a))
	}
}

func TestSimilarityDisjointIsZero(t *testing.T) {
	a := []uint32{1, 2, 3}
	b := []uint32{4, 5, 6}
	if s := Similarity(a, b); s != 0 {
		t.Errorf("expected 0 for disjoint sets, got %f", s)
	}
}

func TestSimilarityEmptyIsZero(t *testing.T) {
	if Similarity(nil, []uint32{1}) != 0 {
		t.Error("expected 0 when first set is empty")
	}
	if Similarity([]uint32{1}, nil) != 0 {
		t.Error("expected 0 when second set is empty")
	}
}
