package simhash

import (
	"hash/fnv"
	"math/bits"
	"strings"
)

// Fingerprint computes a 64-bit SimHash of the given text.
// Words are case-folded before hashing so that rewrites which only
// change capitalization ("Utilize" -> "use"-style substitutions aside)
// do not register as drift. FNV-64a per word, bit-vector accumulation.
func Fingerprint(text string) uint64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	var vector [64]int

	for _, word := range words {
		h := fnv.New64a()
		h.Write([]byte(strings.ToLower(word)))
		sum := h.Sum64()

		for i := 0; i < 64; i++ {
			if sum&(1<<uint(i)) != 0 {
				vector[i]++
			} else {
				vector[i]--
			}
		}
	}

	var fingerprint uint64
	for i := 0; i < 64; i++ {
		if vector[i] > 0 {
			fingerprint |= 1 << uint(i)
		}
	}

	return fingerprint
}

// Distance returns the Hamming distance between two fingerprints.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Similar returns true if the Hamming distance between two fingerprints
// is less than or equal to the threshold.
func Similar(a, b uint64, threshold int) bool {
	return Distance(a, b) <= threshold
}

// Similarity scores how much of the original text's word profile survived
// into the rewritten text, as 1 - distance/64 over the two fingerprints.
// 1.0 means indistinguishable profiles, values near 0 mean the rewrite
// kept almost nothing. Total over any pair of strings; two blank texts
// score 1.0.
func Similarity(original, rewritten string) float64 {
	dist := Distance(Fingerprint(original), Fingerprint(rewritten))
	return 1 - float64(dist)/64
}
