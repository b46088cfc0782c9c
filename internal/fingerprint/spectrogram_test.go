package fingerprint

import (
	"math"
	"testing"
)

func TestHannWindowSymmetry(t *testing.T) {
	for _, size := range []int{128, 256, 1024} {
		w := Hann(size)
		if len(w) != size {
			t.Fatalf("expected length %d, got %d", size, len(w))
		}
		for i := range w {
			if math.Abs(w[i]-w[size-1-i]) > 1e-12 {
				t.Errorf("Hann window not symmetric at i=%d: w[i]=%f w[n-1-i]=%f", i, w[i], w[size-1-i])
			}
		}
		if w[0] != 0 {
			t.Errorf("expected Hann window to start at 0, got %f", w[0])
		}
	}
}

func sineWave(freq float64, sampleRate, n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return s
}

func TestSTFTFrameCount(t *testing.T) {
	const sampleRate = 11025
	samples := sineWave(440, sampleRate, WindowSize*4)
	spec, err := STFT(samples)
	if err != nil {
		t.Fatalf("STFT failed: %v", err)
	}
	want := (len(samples)-WindowSize)/HopSize + 1
	if len(spec.Frames) != want {
		t.Errorf("expected %d frames, got %d", want, len(spec.Frames))
	}
	for _, frame := range spec.Frames {
		if len(frame) != FreqBins {
			t.Fatalf("expected %d freq bins, got %d", FreqBins, len(frame))
		}
		for _, m := range frame {
			if m < 0 {
				t.Errorf("magnitude must be non-negative, got %f", m)
			}
		}
	}
}

func TestSTFTTooShort(t *testing.T) {
	samples := make([]float64, WindowSize-1)
	if _, err := STFT(samples); err == nil {
		t.Fatal("expected error for input shorter than window size")
	}
}
