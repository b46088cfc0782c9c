package fingerprint

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/acousticdna/acousticdna/internal/pipeline"
)

// Fixed analysis parameters, per the landmark-hash format: changing any of
// these invalidates bit-compatibility with already-persisted fingerprints.
const (
	WindowSize = 1024
	HopSize    = 512
	FreqBins   = WindowSize / 2
)

// Hann returns a Hann window of length n: w[i] = 0.5*(1-cos(2*pi*i/(n-1))).
// It is symmetric: w[i] == w[n-1-i].
func Hann(n int) []float64 {
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// fftReal wraps the go-dsp FFT on a real-valued input frame.
func fftReal(frame []float64) []complex128 {
	return fft.FFTReal(frame)
}

// magnitudes returns |z| for the first FreqBins entries of a length-WindowSize
// complex spectrum (the lower half, including DC, excluding Nyquist).
func magnitudes(spectrum []complex128) []float64 {
	mag := make([]float64, FreqBins)
	for i := 0; i < FreqBins; i++ {
		mag[i] = cmplx.Abs(spectrum[i])
	}
	return mag
}

// Spectrogram is a time-major magnitude matrix: Frames[t][f].
type Spectrogram struct {
	Frames [][]float64
}

// STFT computes the short-time Fourier transform of samples using the fixed
// WindowSize/HopSize/FreqBins parameters and a Hann window, and returns the
// magnitude spectrogram. Frame k starts at sample k*HopSize and spans
// WindowSize samples; the number of frames is floor((N-W)/H)+1 when N>=W.
// Returns pipeline.ErrTooShort if fewer than WindowSize samples are given.
func STFT(samples []float64) (Spectrogram, error) {
	if len(samples) < WindowSize {
		return Spectrogram{}, pipeline.ErrTooShort
	}

	window := Hann(WindowSize)
	frames := make([][]float64, 0, (len(samples)-WindowSize)/HopSize+1)

	for start := 0; start+WindowSize <= len(samples); start += HopSize {
		frame := make([]float64, WindowSize)
		copy(frame, samples[start:start+WindowSize])
		for i := range frame {
			frame[i] *= window[i]
		}
		spec := fftReal(frame)
		frames = append(frames, magnitudes(spec))
	}

	return Spectrogram{Frames: frames}, nil
}
