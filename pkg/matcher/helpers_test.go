package matcher

import (
	"context"
	"math/rand/v2"
	"strings"
)

const shortDNASample = "ACGTACGTTAGCTAGCGATCGATCGACGTACGTACGT"

// bruteForce returns every offset where pattern occurs in text.
func bruteForce(text, pattern string) []int {
	positions := []int{}
	if len(pattern) == 0 {
		return positions
	}
	for i := 0; i+len(pattern) <= len(text); i++ {
		if text[i:i+len(pattern)] == pattern {
			positions = append(positions, i)
		}
	}
	return positions
}

// randomDNA returns a deterministic random string over ACGT.
func randomDNA(r *rand.Rand, n int) string {
	const alphabet = "ACGT"
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteByte(alphabet[r.IntN(len(alphabet))])
	}
	return sb.String()
}

// fixedProbe always reports the same reading.
type fixedProbe struct {
	reading Reading
	ok      bool
}

func (p fixedProbe) Reading() (Reading, bool) {
	return p.reading, p.ok
}

func bg() context.Context {
	return context.Background()
}
