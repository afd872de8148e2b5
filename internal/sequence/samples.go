package sequence

import (
	"strings"
)

// SampleSequence is a built-in example sequence.
type SampleSequence struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Data        string `json:"sequence"`
	Description string `json:"description"`
}

var samples = []SampleSequence{
	{
		Slug:        "short",
		Name:        "Short DNA Sample",
		Data:        "ACGTACGTTAGCTAGCGATCGATCGACGTACGTACGT",
		Description: "Quick test sequence with repeating patterns",
	},
	{
		Slug:        "gene",
		Name:        "Gene Fragment",
		Data:        "ATGCGATCGTAGCTAGCGATCGATCGTAGCTAGCGATCGATCGTAGCTAGCGATCGATCGTAGCTAGCGATCGATCGTAGC",
		Description: "Longer sequence simulating a gene fragment",
	},
	{
		Slug:        "complex",
		Name:        "Complex Pattern",
		Data:        "AAATTTCCCGGGAAATTTCCCGGGTATATATGCGCGCAAATTTCCCGGGTATATATGCGCGC",
		Description: "Complex repeating patterns for advanced testing",
	},
}

// DefaultSample is the slug used when no input is given.
const DefaultSample = "short"

// Samples returns a copy of the built-in samples.
func Samples() []SampleSequence {
	out := make([]SampleSequence, len(samples))
	copy(out, samples)
	return out
}

// Sample finds a built-in sample by slug or display name, case-insensitively.
func Sample(name string) (SampleSequence, bool) {
	for _, s := range samples {
		if strings.EqualFold(s.Slug, name) || strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return SampleSequence{}, false
}

// Sequence converts the sample into a loadable Sequence.
func (s SampleSequence) Sequence() *Sequence {
	return &Sequence{Name: s.Name, Data: s.Data, Format: FormatPlain}
}
