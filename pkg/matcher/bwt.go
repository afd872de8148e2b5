package matcher

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSentinel is returned when a BWT does not contain exactly one sentinel.
var ErrSentinel = errors.New("bwt must contain exactly one sentinel")

// InverseBWT reconstructs the sentinel-terminated text from its
// Burrows-Wheeler transform using the LF-mapping.
func InverseBWT(bwt string) (string, error) {
	if n := strings.Count(bwt, string(Sentinel)); n != 1 {
		return "", fmt.Errorf("%w: found %d", ErrSentinel, n)
	}

	var counts [256]int
	rank := make([]int, len(bwt))
	for i := 0; i < len(bwt); i++ {
		ch := bwt[i]
		rank[i] = counts[ch]
		counts[ch]++
	}

	var c [256]int
	total := 0
	for sym := 0; sym < 256; sym++ {
		c[sym] = total
		total += counts[sym]
	}

	size := len(bwt)
	out := make([]byte, size)
	out[size-1] = Sentinel

	row := c[Sentinel]
	for k := size - 2; k >= 0; k-- {
		ch := bwt[row]
		out[k] = ch
		row = c[ch] + rank[row]
	}
	return string(out), nil
}
