package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_StatusVariants(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer)
		icon  string
		text  string
	}{
		{"status", func(w *Writer) { w.Status("🔍", "Building FM-index...") }, "🔍", "Building FM-index..."},
		{"statusf", func(w *Writer) { w.Statusf("🧬", "%d bp", 37) }, "🧬", "37 bp"},
		{"success", func(w *Writer) { w.Successf("%d matches", 5) }, "✅", "5 matches"},
		{"warning", func(w *Writer) { w.Warningf("history disabled") }, "⚠️", "history disabled"},
		{"error", func(w *Writer) { w.Error("no sequence given") }, "❌", "no sequence given"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a writer with a buffer
			buf := &bytes.Buffer{}

			// When: writing
			tt.write(New(buf))

			// Then: icon and text appear on one line
			assert.Contains(t, buf.String(), tt.icon)
			assert.Contains(t, buf.String(), tt.text)
			assert.True(t, strings.HasSuffix(buf.String(), "\n"))
		})
	}
}

func TestWriter_Status_EmptyIconIndents(t *testing.T) {
	buf := &bytes.Buffer{}

	New(buf).Status("", "detail")

	assert.Equal(t, "   detail\n", buf.String())
}

func TestWriter_Fields_AlignsKeys(t *testing.T) {
	buf := &bytes.Buffer{}

	New(buf).Fields(
		[2]string{"Matches", "5"},
		[2]string{"Iterations", "12"},
	)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"   Matches:     5",
		"   Iterations:  12",
	}, lines)
}

func TestWriter_Block(t *testing.T) {
	buf := &bytes.Buffer{}

	New(buf).Block("T$ACG\n[4 0 1 2 3]")

	assert.Equal(t, "\n  T$ACG\n  [4 0 1 2 3]\n\n", buf.String())
}

func TestWriter_Progress(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	w.Progress(1, 2, "ACGT")
	assert.Contains(t, buf.String(), "50%")
	assert.NotContains(t, buf.String(), "\n")

	w.Progress(2, 2, "done")
	assert.Contains(t, buf.String(), "100%")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))

	buf.Reset()
	w.Progress(1, 0, "ignored")
	assert.Empty(t, buf.String())
}

func TestRenderProgressBar(t *testing.T) {
	assert.Equal(t, strings.Repeat("░", 10), renderProgressBar(0, 10, 10))
	assert.Equal(t, strings.Repeat("█", 5)+strings.Repeat("░", 5), renderProgressBar(5, 10, 10))
	assert.Equal(t, strings.Repeat("█", 10), renderProgressBar(20, 10, 10))
	assert.Equal(t, strings.Repeat("░", 4), renderProgressBar(1, 0, 4))
}
