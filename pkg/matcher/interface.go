package matcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAlgorithm is returned when an algorithm name is not recognised.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Algorithm identifies an index implementation.
type Algorithm string

const (
	// AlgorithmSuffixArray selects the suffix array with binary search.
	AlgorithmSuffixArray Algorithm = "suffix"
	// AlgorithmFMIndex selects the FM-index with backward search.
	AlgorithmFMIndex Algorithm = "fm"
)

// Algorithms lists every supported algorithm in display order.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmSuffixArray, AlgorithmFMIndex}
}

// String returns the short algorithm identifier.
func (a Algorithm) String() string {
	return string(a)
}

// DisplayName returns the human-readable algorithm name.
func (a Algorithm) DisplayName() string {
	switch a {
	case AlgorithmSuffixArray:
		return "Suffix Array"
	case AlgorithmFMIndex:
		return "FM-Index"
	default:
		return string(a)
	}
}

// ParseAlgorithm converts a user-supplied name into an Algorithm.
// Accepts "suffix", "sa", "suffix-array", "fm" and "fm-index" in any case.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "suffix", "sa", "suffix-array", "suffixarray":
		return AlgorithmSuffixArray, nil
	case "fm", "fm-index", "fmindex":
		return AlgorithmFMIndex, nil
	default:
		return "", fmt.Errorf("%w: %q (use: suffix, fm)", ErrUnknownAlgorithm, s)
	}
}

// Index answers exact-substring queries against a fixed text.
//
// Implementations must be safe for concurrent use.
type Index interface {
	// Search returns every start offset where pattern occurs.
	//
	// A pattern that does not occur yields an empty Positions slice, never an
	// error. The probe attached to ctx, if any, supplies resource readings.
	Search(ctx context.Context, pattern string) Result

	// Len returns the length of the indexed text (without sentinel).
	Len() int

	// Algorithm identifies the implementation.
	Algorithm() Algorithm
}

// Verify interface implementation at compile time
var (
	_ Index = (*SuffixArray)(nil)
	_ Index = (*FMIndex)(nil)
)

// Build constructs an index of the given kind over text.
func Build(alg Algorithm, text string) (Index, error) {
	switch alg {
	case AlgorithmSuffixArray:
		return NewSuffixArray(text), nil
	case AlgorithmFMIndex:
		return NewFMIndex(text), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(alg))
	}
}
