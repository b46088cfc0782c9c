// Package fingerprint implements the spectrogram, peak-picking,
// landmark-hashing and similarity stages of the acoustic fingerprinting
// pipeline.
package fingerprint

import (
	"github.com/acousticdna/acousticdna/internal/audio"
	"github.com/acousticdna/acousticdna/internal/pipeline"
)

// Fingerprint is a content-derived signature of an audio clip: a list of
// landmark hashes (order not semantically meaningful, duplicates allowed)
// plus the clip's duration in seconds.
type Fingerprint struct {
	Hashes      []uint32
	DurationSec float64
}

// Generate runs the full pipeline — precondition, spectrogram, peak-pick,
// hash — over decoded mono PCM samples at sourceRate, producing a
// Fingerprint. Duration is computed from sourceRate (the Decoder's actual
// reported rate), not a hardcoded assumption.
func Generate(samples []float64, sourceRate int) (Fingerprint, error) {
	if len(samples) == 0 {
		return Fingerprint{}, pipeline.ErrEmptyInput
	}

	duration := float64(len(samples)) / float64(sourceRate)

	normalized := audio.Normalize(samples)
	downsampled := audio.Resample(normalized, sourceRate, audio.TargetSampleRate)

	spec, err := STFT(downsampled)
	if err != nil {
		return Fingerprint{}, err
	}

	peaks := ExtractPeaks(spec)
	hashes := GenerateHashes(peaks)

	return Fingerprint{Hashes: hashes, DurationSec: duration}, nil
}
