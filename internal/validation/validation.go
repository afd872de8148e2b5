// Package validation checks user-supplied DNA sequences and patterns before
// any index is built. The matcher core performs no alphabet checks itself.
package validation

import (
	"fmt"
	"strings"

	seqerrors "github.com/Aman-CERP/seqmatch/internal/errors"
)

// Alphabet is the set of accepted nucleotide symbols.
const Alphabet = "ACGT"

// Normalize trims surrounding whitespace and upper-cases s.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Sequence validates a normalized sequence. maxLen of 0 disables the length check.
func Sequence(s string, maxLen int) error {
	if s == "" {
		return seqerrors.New(seqerrors.ErrCodeEmptyInput, "please enter a DNA sequence", nil).
			WithSuggestion("Pass --seq, --file or --sample")
	}
	if pos, ch, ok := firstInvalid(s); ok {
		return seqerrors.New(seqerrors.ErrCodeInvalidAlphabet,
			"DNA sequence must contain only A, C, G, T characters", nil).
			WithDetail("position", fmt.Sprint(pos)).
			WithDetail("char", fmt.Sprintf("%q", ch))
	}
	if maxLen > 0 && len(s) > maxLen {
		return seqerrors.New(seqerrors.ErrCodeSequenceTooLong,
			fmt.Sprintf("sequence length %d exceeds limit %d", len(s), maxLen), nil).
			WithDetail("length", fmt.Sprint(len(s))).
			WithSuggestion("Raise limits.max_sequence_length or SEQMATCH_MAX_SEQUENCE_LENGTH")
	}
	return nil
}

// Pattern validates a normalized pattern against the sequence it will be searched in.
func Pattern(p, seq string) error {
	if p == "" {
		return seqerrors.New(seqerrors.ErrCodeEmptyInput, "please enter a search pattern", nil)
	}
	if pos, ch, ok := firstInvalid(p); ok {
		return seqerrors.New(seqerrors.ErrCodeInvalidAlphabet,
			"search pattern must contain only A, C, G, T characters", nil).
			WithDetail("position", fmt.Sprint(pos)).
			WithDetail("char", fmt.Sprintf("%q", ch))
	}
	if len(p) > len(seq) {
		return seqerrors.New(seqerrors.ErrCodePatternTooLong,
			"pattern cannot be longer than the sequence", nil).
			WithDetail("pattern_length", fmt.Sprint(len(p))).
			WithDetail("sequence_length", fmt.Sprint(len(seq)))
	}
	return nil
}

func firstInvalid(s string) (int, byte, bool) {
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(Alphabet, s[i]) < 0 {
			return i, s[i], true
		}
	}
	return 0, 0, false
}
