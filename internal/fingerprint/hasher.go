package fingerprint

// FanOut is the number of subsequent peaks (in post-cap magnitude order)
// considered as a pairing partner for each anchor peak.
const FanOut = 5

// MaxDeltaFrames is the inclusive upper bound on the forward frame-distance
// between a paired anchor and target peak.
const MaxDeltaFrames = 10

// Hash packs a peak pair into a landmark hash: bits[31:16]=freq of the
// anchor peak, bits[15:8]=freq of the target peak (silently truncated to 8
// bits), bits[7:0]=Δt in frames. This asymmetry is intentional and
// preserved verbatim for bit-exact compatibility with persisted
// fingerprints; see the hash-layout design note.
func Hash(anchor, target Peak) uint32 {
	freq1 := uint32(anchor.Freq) << 16
	freq2 := (uint32(target.Freq) & 0xFF) << 8
	delta := uint32(target.Frame-anchor.Frame) & 0xFF
	return freq1 | freq2 | delta
}

// GenerateHashes pairs peaks in their given (post-cap, magnitude-descending)
// order: for each anchor at index i, the next up to FanOut peaks at
// i+1..i+FanOut are considered as targets, and a hash is emitted only if
// the forward time delta Δt = target.Frame - anchor.Frame satisfies
// 0 <= Δt <= MaxDeltaFrames. Because ordering is by magnitude and not time,
// Δt may be negative for some candidate pairs; those are dropped.
func GenerateHashes(peaks []Peak) []uint32 {
	hashes := make([]uint32, 0, len(peaks)*FanOut)
	for i, anchor := range peaks {
		end := i + 1 + FanOut
		if end > len(peaks) {
			end = len(peaks)
		}
		for j := i + 1; j < end; j++ {
			target := peaks[j]
			delta := target.Frame - anchor.Frame
			if delta < 0 || delta > MaxDeltaFrames {
				continue
			}
			hashes = append(hashes, Hash(anchor, target))
		}
	}
	return hashes
}
