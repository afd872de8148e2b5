package matcher

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Construction
// =============================================================================

func TestNewFMIndex_Tables(t *testing.T) {
	// Given: ACGT, whose rotations of ACGT$ sort as $ACGT, ACGT$, CGT$A, GT$AC, T$ACG
	fm := NewFMIndex("ACGT")

	// Then: BWT is the last column
	assert.Equal(t, "T$ACG", fm.BWT())
	assert.Equal(t, []int{4, 0, 1, 2, 3}, fm.RotationOrder())
	assert.Equal(t, []byte("$ACGT"), fm.Symbols())

	// And: C-table counts strictly smaller symbols
	assert.Equal(t, map[byte]int{'$': 0, 'A': 1, 'C': 2, 'G': 3, 'T': 4}, fm.CTable())

	// And: Occ rows are cumulative with entry 0 = 0
	for i, expected := range []int{0, 1, 1, 1, 1, 1} {
		assert.Equal(t, expected, fm.Occ('T', i), "Occ(T, %d)", i)
	}
	for i, expected := range []int{0, 0, 1, 1, 1, 1} {
		assert.Equal(t, expected, fm.Occ('$', i), "Occ($, %d)", i)
	}
}

func TestNewFMIndex_RepeatedSymbol(t *testing.T) {
	fm := NewFMIndex("AAAA")

	assert.Equal(t, "AAAA$", fm.BWT())
	assert.Equal(t, []int{4, 3, 2, 1, 0}, fm.RotationOrder())
	assert.Equal(t, map[byte]int{'$': 0, 'A': 1}, fm.CTable())
}

func TestNewFMIndex_OccTableLengths(t *testing.T) {
	fm := NewFMIndex(shortDNASample)
	size := len(shortDNASample) + 1

	for _, sym := range fm.Symbols() {
		assert.Equal(t, 0, fm.Occ(sym, 0))
		// Last entry equals total count of the symbol in the BWT
		total := 0
		for _, ch := range []byte(fm.BWT()) {
			if ch == sym {
				total++
			}
		}
		assert.Equal(t, total, fm.Occ(sym, size))
	}
}

func TestFMIndex_Occ_OutOfRange(t *testing.T) {
	fm := NewFMIndex("ACGT")

	assert.Equal(t, 0, fm.Occ('N', 2))
	assert.Equal(t, 0, fm.Occ('A', -1))
	assert.Equal(t, 0, fm.Occ('A', 100))
}

func TestFMIndex_RotationOrderMatchesSuffixArrayOfSentinelText(t *testing.T) {
	fm := NewFMIndex(shortDNASample)
	sa := NewSuffixArray(shortDNASample + "$")

	assert.Equal(t, sa.Array(), fm.RotationOrder())
}

// =============================================================================
// Search
// =============================================================================

func TestFMIndex_Search_OverlappingMatches(t *testing.T) {
	fm := NewFMIndex("AAAA")

	result := fm.Search(bg(), "AA")

	assert.Equal(t, []int{0, 1, 2}, result.Positions)
	assert.Equal(t, 2, result.Iters)
	assert.Equal(t, 2, result.CharComp)
}

func TestFMIndex_Search_NotFound(t *testing.T) {
	fm := NewFMIndex("ACGT")

	result := fm.Search(bg(), "TTTT")

	assert.NotNil(t, result.Positions)
	assert.Empty(t, result.Positions)
	// Range empties on the second character
	assert.Equal(t, 2, result.Iters)
	assert.Equal(t, 2, result.CharComp)
}

func TestFMIndex_Search_OutOfAlphabetShortCircuits(t *testing.T) {
	fm := NewFMIndex("ACGTACGT")

	// Given: the last character is not in the C-table
	result := fm.Search(bg(), "ACGN")

	// Then: the search stops at once, counting the visit but no lookup
	assert.Empty(t, result.Positions)
	assert.Equal(t, 1, result.Iters)
	assert.Equal(t, 0, result.CharComp)
}

func TestFMIndex_Search_SentinelInPatternShortCircuits(t *testing.T) {
	// Given: a pattern that ends in the sentinel
	fm := NewFMIndex("ACGT")

	// When: searching for it
	result := fm.Search(bg(), "T$")

	// Then: nothing matches, as with the suffix array
	assert.Empty(t, result.Positions)
	assert.Equal(t, 1, result.Iters)
	assert.Equal(t, 0, result.CharComp)
	assert.Empty(t, NewSuffixArray("ACGT").Search(bg(), "T$").Positions)
}

func TestFMIndex_Search_EmptyPatternOmitsSentinelOffset(t *testing.T) {
	tests := []struct {
		text     string
		expected []int
	}{
		{"ACGT", []int{0, 1, 2, 3}},
		{"A", []int{0}},
		{"", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			result := NewFMIndex(tt.text).Search(bg(), "")

			assert.Equal(t, tt.expected, result.Positions)
			assert.Equal(t, tt.expected, NewSuffixArray(tt.text).Search(bg(), "").Positions)
		})
	}
}

func TestFMIndex_Search_OutOfAlphabetMidPattern(t *testing.T) {
	fm := NewFMIndex("ACGTACGT")

	result := fm.Search(bg(), "ANGT")

	assert.Empty(t, result.Positions)
	assert.Equal(t, 3, result.Iters)
	assert.Equal(t, 2, result.CharComp)
}

func TestFMIndex_Search_OneStepPerCharacter(t *testing.T) {
	fm := NewFMIndex(shortDNASample)

	result := fm.Search(bg(), "ACGT")

	require.True(t, result.Found())
	assert.Equal(t, 4, result.Iters)
	assert.Equal(t, 4, result.CharComp)
	assert.True(t, sort.IntsAreSorted(result.Positions))
}

func TestFMIndex_Search_PatternLongerThanText(t *testing.T) {
	fm := NewFMIndex("ACG")

	result := fm.Search(bg(), "ACGTACGT")

	assert.Empty(t, result.Positions)
}

func TestFMIndex_Metadata(t *testing.T) {
	fm := NewFMIndex("ACGT")

	assert.Equal(t, 4, fm.Len())
	assert.Equal(t, AlgorithmFMIndex, fm.Algorithm())
}
