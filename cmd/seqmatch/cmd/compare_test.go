package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/seqmatch/internal/compare"
	"github.com/Aman-CERP/seqmatch/internal/history"
)

func TestCompareCmd_SavesToHistory(t *testing.T) {
	// Given: an empty history
	env := newTestEnv(t)

	// When: comparing against the default sample
	stdout, _, err := env.run("compare", "ACGT")

	// Then: both cards print, the results agree and the search is saved
	require.NoError(t, err)
	assert.Contains(t, stdout, "Suffix Array")
	assert.Contains(t, stdout, "FM-Index")
	assert.Contains(t, stdout, "Both algorithms found the same positions")
	assert.Contains(t, stdout, "Saved as Short DNA Sample")

	listOut, _, err := env.run("history", "list", "--json")
	require.NoError(t, err)
	var items []*history.Item
	require.NoError(t, json.Unmarshal([]byte(listOut), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "ACGT", items[0].Pattern)
	assert.Equal(t, "Short DNA Sample", items[0].SequenceName)
	assert.Equal(t, []int{0, 4, 25, 29, 33}, items[0].FMResult.Positions)
	assert.Equal(t, items[0].SuffixResult.Positions, items[0].FMResult.Positions)
}

func TestCompareCmd_DefaultNameForRawSequence(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("compare", "AA", "--seq", "AAAA")
	require.NoError(t, err)
	_, _, err = env.run("compare", "AC", "--seq", "ACAC")
	require.NoError(t, err)

	listOut, _, err := env.run("history", "list", "--json")
	require.NoError(t, err)
	var items []*history.Item
	require.NoError(t, json.Unmarshal([]byte(listOut), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Search 1", items[0].SequenceName)
	assert.Equal(t, "Search 2", items[1].SequenceName)
}

func TestCompareCmd_NoHistory(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.run("compare", "ACGT", "--no-history")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Saved as")

	listOut, _, err := env.run("history", "list")
	require.NoError(t, err)
	assert.Contains(t, listOut, "No saved comparisons")
}

func TestCompareCmd_JSON(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.run("compare", "GCGC", "--sample", "complex", "--format", "json", "--name", "mine")

	require.NoError(t, err)
	var c compare.Comparison
	require.NoError(t, json.Unmarshal([]byte(stdout), &c))
	assert.Equal(t, "mine", c.Name)
	assert.True(t, c.Agreement.Agree)
	assert.Equal(t, c.Suffix.Positions, c.FM.Positions)
	assert.NotEmpty(t, c.FM.Positions)
}

func TestCompareCmd_RecordsTelemetry(t *testing.T) {
	// Given: one comparison that matches and one that does not
	env := newTestEnv(t)
	_, _, err := env.run("compare", "ACGT")
	require.NoError(t, err)
	_, _, err = env.run("compare", "TTTT", "--seq", "ACGTACGT")
	require.NoError(t, err)

	// When: reading stats
	stdout, _, err := env.run("stats")

	// Then: each comparison counted once per algorithm
	require.NoError(t, err)
	assert.Contains(t, stdout, "Searches:     4")
	assert.Contains(t, stdout, "Zero results: 2 (50.0%)")
	assert.Contains(t, stdout, "TTTT")
}
