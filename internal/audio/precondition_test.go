package audio

import (
	"math"
	"testing"
)

func TestNormalizePeaksAtOne(t *testing.T) {
	s := []float64{0.1, -0.5, 0.25, -2.0, 1.0}
	out := Normalize(s)

	var max float64
	for _, v := range out {
		a := math.Abs(v)
		if a > max {
			max = a
		}
	}
	if math.Abs(max-1.0) > 1e-12 {
		t.Errorf("expected max abs sample of 1, got %f", max)
	}
}

func TestNormalizeSilentStaysZero(t *testing.T) {
	s := make([]float64, 64)
	out := Normalize(s)

	for i, v := range out {
		if v != 0 {
			t.Fatalf("expected silent input to stay all-zero, got out[%d]=%f", i, v)
		}
	}
}

func TestNormalizeEmptyUnchanged(t *testing.T) {
	out := Normalize(nil)
	if len(out) != 0 {
		t.Errorf("expected empty input to stay empty, got length %d", len(out))
	}
}

func TestResampleIdempotentAtEqualRates(t *testing.T) {
	s := sineWave(t, 440, 11025, 512)
	out := Resample(s, 11025, 11025)

	if len(out) != len(s) {
		t.Fatalf("expected unchanged length %d, got %d", len(s), len(out))
	}
	for i := range s {
		if out[i] != s[i] {
			t.Fatalf("expected unchanged samples at equal rates, differed at index %d", i)
		}
	}
}

func TestResampleMonotoneLength(t *testing.T) {
	cases := []struct{ sourceRate, targetRate, n int }{
		{44100, 11025, 44100},
		{48000, 11025, 48000},
		{22050, 11025, 1000},
	}

	for _, c := range cases {
		s := sineWave(t, 440, c.sourceRate, c.n)
		out := Resample(s, c.sourceRate, c.targetRate)

		want := int(float64(c.n) * float64(c.targetRate) / float64(c.sourceRate))
		if len(out) != want {
			t.Errorf("sourceRate=%d targetRate=%d: expected length %d, got %d", c.sourceRate, c.targetRate, want, len(out))
		}
	}
}

func TestResampleBelowTargetRateUnchanged(t *testing.T) {
	s := sineWave(t, 440, 11025, 256)
	out := Resample(s, 8000, 11025)

	if len(out) != len(s) {
		t.Fatalf("expected unchanged length when sourceRate <= targetRate, got %d", len(out))
	}
}

func sineWave(t *testing.T, freq float64, sampleRate, n int) []float64 {
	t.Helper()
	s := make([]float64, n)
	for i := range s {
		s[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return s
}
