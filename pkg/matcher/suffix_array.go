package matcher

import (
	"context"
	"slices"
	"strings"
	"time"
)

// SuffixArray answers queries with binary search over sorted suffix offsets.
type SuffixArray struct {
	text string
	sa   []int
}

// NewSuffixArray sorts every suffix offset of text by direct suffix
// comparison. Construction is O(n² log n) in the worst case.
func NewSuffixArray(text string) *SuffixArray {
	sa := make([]int, len(text))
	for i := range sa {
		sa[i] = i
	}
	// All suffixes differ at least in length, so the order is total.
	slices.SortFunc(sa, func(a, b int) int {
		return strings.Compare(text[a:], text[b:])
	})
	return &SuffixArray{text: text, sa: sa}
}

// Search locates pattern with a leftmost and a rightmost binary search.
//
// Every probe counts as one iteration and adds the number of characters it
// compares, min(len(pattern), n-SA[mid]), to CharComp. An empty pattern
// matches every offset.
func (s *SuffixArray) Search(ctx context.Context, pattern string) Result {
	start := time.Now()
	n, m := len(s.text), len(pattern)
	var iters, charComp int

	// window returns the suffix at rank i truncated to the pattern length.
	window := func(i int) string {
		off := s.sa[i]
		return s.text[off:min(off+m, n)]
	}
	probe := func(i int) string {
		iters++
		w := window(i)
		charComp += len(w)
		return w
	}

	// Leftmost rank whose window is >= pattern
	lo, hi := 0, n
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if probe(mid) >= pattern {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	if lo == n || window(lo) != pattern {
		return finish(ctx, start, nil, iters, charComp)
	}
	left := lo

	// First rank whose window is > pattern
	hi = n
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if probe(mid) > pattern {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	// Ranks are ordered by suffix, not by offset.
	positions := slices.Clone(s.sa[left:hi])
	slices.Sort(positions)
	return finish(ctx, start, positions, iters, charComp)
}

// Len returns the length of the indexed text.
func (s *SuffixArray) Len() int {
	return len(s.text)
}

// Algorithm returns AlgorithmSuffixArray.
func (s *SuffixArray) Algorithm() Algorithm {
	return AlgorithmSuffixArray
}

// Array returns a copy of the suffix array.
func (s *SuffixArray) Array() []int {
	return slices.Clone(s.sa)
}

// Text returns the indexed text.
func (s *SuffixArray) Text() string {
	return s.text
}
