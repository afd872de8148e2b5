package ui

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNewSparkline_DefaultWidth(t *testing.T) {
	s := NewSparkline(0)

	assert.Equal(t, 40, utf8.RuneCountInString(s.Render()))
}

func TestSparkline_EmptyRendersBaseline(t *testing.T) {
	s := NewSparkline(5)

	assert.Equal(t, "▁▁▁▁▁", s.Render())
	assert.Equal(t, 0, s.Count())
}

func TestSparkline_PartialFill(t *testing.T) {
	// Given: fewer samples than the width
	s := NewSparkline(4)
	s.Add(0)
	s.Add(7)

	// Then: samples render left to right and the rest is blank
	assert.Equal(t, "▁█  ", s.Render())
	assert.Equal(t, 7.0, s.Max())
}

func TestSparkline_ScalesToMax(t *testing.T) {
	s := NewSparkline(8)
	for i := range 8 {
		s.Add(float64(i))
	}

	assert.Equal(t, "▁▂▃▄▅▆▇█", s.Render())
}

func TestSparkline_Wraps(t *testing.T) {
	// Given: more samples than the width
	s := NewSparkline(3)
	for _, v := range []float64{100, 1, 2, 4, 3, 8} {
		s.Add(v)
	}

	// Then: evicted samples stop counting towards the scale
	assert.Equal(t, 6, s.Count())
	assert.Equal(t, 8.0, s.Max())
	assert.Equal(t, "▄▃█", s.Render())
}

func TestSparkline_AllZero(t *testing.T) {
	s := NewSparkline(3)
	s.Add(0)
	s.Add(0)
	s.Add(0)

	assert.Equal(t, "▁▁▁", s.Render())
}

func TestSparkline_Clear(t *testing.T) {
	s := NewSparkline(3)
	s.Add(5)

	s.Clear()

	assert.Equal(t, 0, s.Count())
	assert.Equal(t, 0.0, s.Max())
	assert.Equal(t, "▁▁▁", s.Render())
}

func TestSparklineOf(t *testing.T) {
	assert.Equal(t, "▁█", SparklineOf([]float64{1, 8}, 2))
}
