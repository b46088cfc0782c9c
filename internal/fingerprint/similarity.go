package fingerprint

// Similarity returns the Jaccard coefficient |A∩B| / |A∪B| between two
// deduplicated landmark hash sets. Returns 0 if either input is empty.
// Symmetric: Similarity(a, b) == Similarity(b, a).
func Similarity(a, b []uint32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[uint32]struct{}, len(a))
	for _, h := range a {
		setA[h] = struct{}{}
	}
	setB := make(map[uint32]struct{}, len(b))
	for _, h := range b {
		setB[h] = struct{}{}
	}

	intersection := 0
	for h := range setA {
		if _, ok := setB[h]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
