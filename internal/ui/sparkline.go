package ui

import (
	"strings"
)

// Sparkline renders a text-based sparkline chart using Unicode block characters.
type Sparkline struct {
	samples []float64 // Ring buffer of samples
	width   int       // Display width (number of bars)
	head    int       // Current position in ring buffer
	count   int       // Number of samples added
	max     float64   // Maximum value seen (for scaling)
}

// SparklineChars are the Unicode block characters for rendering sparklines.
// 8 levels of height from empty to full.
var SparklineChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// NewSparkline creates a new sparkline with the given display width.
func NewSparkline(width int) *Sparkline {
	if width <= 0 {
		width = 40
	}
	return &Sparkline{
		samples: make([]float64, width),
		width:   width,
	}
}

// SparklineOf renders the most recent width values in one call.
func SparklineOf(values []float64, width int) string {
	s := NewSparkline(width)
	for _, v := range values {
		s.Add(v)
	}
	return s.Render()
}

// Add adds a new sample to the sparkline.
func (s *Sparkline) Add(value float64) {
	s.samples[s.head] = value
	s.head = (s.head + 1) % s.width
	s.count++

	if value > s.max {
		s.max = value
	}

	// Recalculate max once per lap so evicted peaks stop dominating
	if s.count%s.width == 0 {
		s.recalculateMax()
	}
}

// recalculateMax finds the current maximum in the buffer.
func (s *Sparkline) recalculateMax() {
	s.max = 0
	for _, v := range s.samples {
		if v > s.max {
			s.max = v
		}
	}
	// Ensure max is positive to avoid division by zero
	if s.max <= 0 {
		s.max = 1
	}
}

// Render returns the sparkline oldest to newest. Unfilled slots are blank.
func (s *Sparkline) Render() string {
	if s.count == 0 {
		return strings.Repeat(string(SparklineChars[0]), s.width)
	}
	if s.max <= 0 {
		s.recalculateMax()
	}

	var sb strings.Builder
	sb.Grow(s.width * 3) // UTF-8 chars can be up to 3 bytes

	numSamples := min(s.count, s.width)
	start := 0
	if s.count >= s.width {
		start = s.head
	}

	for i := 0; i < s.width; i++ {
		if i >= numSamples {
			sb.WriteRune(' ')
			continue
		}
		value := s.samples[(start+i)%s.width]
		charIdx := int(value / s.max * float64(len(SparklineChars)-1))
		charIdx = min(max(charIdx, 0), len(SparklineChars)-1)
		sb.WriteRune(SparklineChars[charIdx])
	}

	return sb.String()
}

// Clear resets the sparkline.
func (s *Sparkline) Clear() {
	for i := range s.samples {
		s.samples[i] = 0
	}
	s.head = 0
	s.count = 0
	s.max = 0
}

// Count returns the number of samples added.
func (s *Sparkline) Count() int {
	return s.count
}

// Max returns the current maximum value.
func (s *Sparkline) Max() float64 {
	return s.max
}
