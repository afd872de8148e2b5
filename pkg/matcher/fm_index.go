package matcher

import (
	"context"
	"slices"
	"strings"
	"time"
)

// Sentinel terminates the FM-index text. It sorts before A, C, G and T and
// must not occur in the indexed text.
const Sentinel byte = '$'

// FMIndex answers queries by backward search over the Burrows-Wheeler
// transform of text+Sentinel.
type FMIndex struct {
	n       int        // text length without sentinel
	bwt     []byte     // last column of the sorted rotations
	order   []int      // rotation start offsets in sorted order
	symbols []byte     // distinct BWT symbols, ascending
	c       [256]int   // count of BWT symbols smaller than each symbol
	occ     [256][]int // occ[ch][i] = count of ch in bwt[:i]; nil if ch is absent
}

// NewFMIndex builds the BWT, C-table and Occurrence table for text.
//
// The rotation order is taken from the suffix order of text+Sentinel: with
// a unique smallest sentinel, sorting rotations and sorting suffixes yield
// the same permutation, and BWT[i] = s[(order[i]-1) mod len(s)].
func NewFMIndex(text string) *FMIndex {
	s := text + string(Sentinel)
	size := len(s)

	order := make([]int, size)
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		return strings.Compare(s[a:], s[b:])
	})

	f := &FMIndex{
		n:     len(text),
		bwt:   make([]byte, size),
		order: order,
	}

	var counts [256]int
	for i, off := range order {
		ch := s[(off+size-1)%size]
		f.bwt[i] = ch
		counts[ch]++
	}

	// C-table over symbols in byte order
	total := 0
	for sym := 0; sym < 256; sym++ {
		if counts[sym] == 0 {
			continue
		}
		f.symbols = append(f.symbols, byte(sym))
		f.c[sym] = total
		total += counts[sym]
		f.occ[sym] = make([]int, size+1)
	}

	// Occurrence table: one cumulative row per symbol
	for _, sym := range f.symbols {
		row := f.occ[sym]
		for i, ch := range f.bwt {
			row[i+1] = row[i]
			if ch == sym {
				row[i+1]++
			}
		}
	}

	return f
}

// Search runs backward search from the last pattern character to the first.
//
// Each character visited counts one iteration. A character with no C-table
// entry, or the Sentinel itself, stops the search before its lookup is
// counted in CharComp. An empty pattern matches every offset of the text;
// the sentinel rotation (offset Len()) is never reported.
func (f *FMIndex) Search(ctx context.Context, pattern string) Result {
	start := time.Now()
	var iters, charComp int

	first, last := 0, len(f.bwt)-1
	for i := len(pattern) - 1; i >= 0; i-- {
		ch := pattern[i]
		iters++

		occ := f.occ[ch]
		if occ == nil || ch == Sentinel {
			return finish(ctx, start, nil, iters, charComp)
		}

		first = f.c[ch] + occ[first]
		last = f.c[ch] + occ[last+1] - 1
		charComp++

		if first > last {
			return finish(ctx, start, nil, iters, charComp)
		}
	}

	// Row 0 is the rotation starting at the sentinel
	if first == 0 {
		first = 1
	}
	positions := slices.Clone(f.order[first : last+1])
	slices.Sort(positions)
	return finish(ctx, start, positions, iters, charComp)
}

// Len returns the length of the indexed text without the sentinel.
func (f *FMIndex) Len() int {
	return f.n
}

// Algorithm returns AlgorithmFMIndex.
func (f *FMIndex) Algorithm() Algorithm {
	return AlgorithmFMIndex
}

// BWT returns the Burrows-Wheeler transform of text+Sentinel.
func (f *FMIndex) BWT() string {
	return string(f.bwt)
}

// RotationOrder returns a copy of the sorted rotation start offsets.
func (f *FMIndex) RotationOrder() []int {
	return slices.Clone(f.order)
}

// Symbols returns the distinct BWT symbols in ascending order.
func (f *FMIndex) Symbols() []byte {
	return slices.Clone(f.symbols)
}

// CTable returns the C-table as a map keyed by symbol.
func (f *FMIndex) CTable() map[byte]int {
	table := make(map[byte]int, len(f.symbols))
	for _, sym := range f.symbols {
		table[sym] = f.c[sym]
	}
	return table
}

// Occ returns the number of ch among the first i BWT characters.
// Returns 0 for symbols absent from the BWT or i out of range.
func (f *FMIndex) Occ(ch byte, i int) int {
	row := f.occ[ch]
	if row == nil || i < 0 || i >= len(row) {
		return 0
	}
	return row[i]
}

// lf maps a BWT row to the row of the rotation starting one character
// earlier in the text.
func (f *FMIndex) lf(row int) int {
	ch := f.bwt[row]
	return f.c[ch] + f.occ[ch][row]
}

// Text reconstructs text+Sentinel by walking the LF-mapping.
func (f *FMIndex) Text() string {
	size := len(f.bwt)
	out := make([]byte, size)
	out[size-1] = Sentinel

	// The rotation beginning with the sentinel is the first row of its bucket.
	row := f.c[Sentinel]
	for k := size - 2; k >= 0; k-- {
		out[k] = f.bwt[row]
		row = f.lf(row)
	}
	return string(out)
}
