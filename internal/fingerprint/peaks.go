package fingerprint

import "sort"

// MagnitudeFloor is the absolute minimum magnitude a cell must clear to be
// considered a peak candidate.
const MagnitudeFloor = 0.1

// MaxPeaks is the cap on accepted peaks retained per spectrogram, applied
// after ranking by magnitude descending.
const MaxPeaks = 200

// Peak is a spectral landmark: a time-frequency cell whose magnitude
// strictly exceeds its four orthogonal neighbors and the noise floor.
type Peak struct {
	Freq      int
	Frame     int
	Magnitude float64
}

// ExtractPeaks selects a bounded set of prominent local maxima from a
// magnitude spectrogram. A cell (f, t) in the interior (1 <= f <= F-2,
// 1 <= t <= T-2) is accepted when its magnitude exceeds MagnitudeFloor and
// is strictly greater than each of its four orthogonal neighbors; diagonal
// neighbors are ignored and ties are rejected. Accepted peaks are ranked by
// magnitude descending and truncated to MaxPeaks.
func ExtractPeaks(spec Spectrogram) []Peak {
	frames := spec.Frames
	T := len(frames)
	if T == 0 {
		return nil
	}
	F := len(frames[0])
	if F == 0 || T < 3 || F < 3 {
		return nil
	}

	peaks := make([]Peak, 0, T)
	for t := 1; t <= T-2; t++ {
		row := frames[t]
		for f := 1; f <= F-2; f++ {
			m := row[f]
			if m <= MagnitudeFloor {
				continue
			}
			if m > row[f-1] && m > row[f+1] && m > frames[t-1][f] && m > frames[t+1][f] {
				peaks = append(peaks, Peak{Freq: f, Frame: t, Magnitude: m})
			}
		}
	}

	sort.Slice(peaks, func(i, j int) bool { return peaks[i].Magnitude > peaks[j].Magnitude })
	if len(peaks) > MaxPeaks {
		peaks = peaks[:MaxPeaks]
	}
	return peaks
}
