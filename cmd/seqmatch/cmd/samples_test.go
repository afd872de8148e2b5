package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/seqmatch/internal/sequence"
)

func TestSamplesCmd_Text(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.run("samples")

	require.NoError(t, err)
	assert.Contains(t, stdout, "short")
	assert.Contains(t, stdout, "Short DNA Sample (37 bases)")
	assert.Contains(t, stdout, "Gene Fragment")
	assert.Contains(t, stdout, "Complex Pattern")
}

func TestSamplesCmd_JSON(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.run("samples", "--json")

	require.NoError(t, err)
	var samples []sequence.SampleSequence
	require.NoError(t, json.Unmarshal([]byte(stdout), &samples))
	assert.Equal(t, sequence.Samples(), samples)
}

func TestSchemesCmd_MarksCurrent(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("SEQMATCH_COLOR_SCHEME", "forest")

	stdout, _, err := env.run("schemes")

	require.NoError(t, err)
	assert.Contains(t, stdout, "* forest    Forest Green     ACGT")
	assert.Contains(t, stdout, "  default   Ocean Blue       ACGT")
}
