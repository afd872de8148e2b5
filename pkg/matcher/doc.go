// Package matcher provides exact-substring search over DNA text.
//
// Two independent index structures implement the [Index] interface:
//
//   - [SuffixArray]: sorted suffix offsets, queried with two binary searches
//   - [FMIndex]: Burrows-Wheeler transform with C and Occurrence tables,
//     queried with backward search
//
// Both return the same [Result] shape, so callers can run them side by side
// and compare positions and counters.
//
// # Usage
//
//	sa := matcher.NewSuffixArray("ACGTACGT")
//	fm := matcher.NewFMIndex("ACGTACGT")
//
//	ctx := matcher.WithProbe(context.Background(), sampler)
//	r1 := sa.Search(ctx, "ACG")
//	r2 := fm.Search(ctx, "ACG")
//	// r1.Positions == r2.Positions == [0 4]
//
// # Resource readings
//
// A [Probe] attached with [WithProbe] supplies the memory and CPU readings
// copied into each [Result] when a search completes. Without a probe those
// fields are zero. The probe is read once per call and never started or
// stopped by the index.
//
// # Input
//
// Construction does not validate the alphabet. Callers are expected to pass
// non-empty text over A, C, G, T and to bound its length, since both
// constructions are worse than linear. An empty pattern is outside the
// search contract.
//
// # Thread Safety
//
// Indexes are immutable after construction. Search may be called from any
// number of goroutines on the same index.
package matcher
