package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/REC17/cadnano2/internal/dna"
	"github.com/REC17/cadnano2/internal/session"
)

const minimalScenario = `
name: minimal
description: "one helix, one link"
parts:
  - id: p0
    helices:
      - {number: 0, length: 2}
steps:
  - {op: connect_strand, helix: 0, index: 0, end: 1}
assertions:
  - {type: invariants}
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, minimalScenario))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	require.Len(t, s.Parts, 1)
	assert.Equal(t, dna.PartID("p0"), s.Parts[0].ID)
	assert.Equal(t, []HelixSetup{{Number: 0, Length: 2}}, s.Parts[0].Helices)
	require.Len(t, s.Steps, 1)
	assert.Equal(t, session.OpConnectStrand, s.Steps[0].Op)
	assert.Equal(t, 1, s.Steps[0].End)
	assert.Equal(t, dna.Scaffold, s.Steps[0].Strand)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read scenario")
}

func TestParseScenario_StepFields(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: fields
description: "target and expected error decode"
parts: [{id: p0}]
steps:
  - op: crossover
    part: p0
    helix: 0
    strand: staple
    index: 3
    to: {part: p1, helix: 1, strand: stap, index: 2}
    expect_error: EDIT_FAILED
assertions:
  - {type: invariants}
`))
	require.NoError(t, err)

	step := s.Steps[0]
	assert.Equal(t, session.CodeEditFailed, step.ExpectError)
	assert.Equal(t, dna.Staple, step.Strand)
	require.NotNil(t, step.To)
	assert.Equal(t, session.Locator{Part: "p1", Helix: 1, Strand: dna.Staple, Index: 2}, *step.To)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "description: d\nparts: [{id: p0}]\nassertions: [{type: invariants}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: n\nparts: [{id: p0}]\nassertions: [{type: invariants}]\n",
			wantErr: "description is required",
		},
		{
			name:    "no parts",
			yaml:    "name: n\ndescription: d\nassertions: [{type: invariants}]\n",
			wantErr: "parts list is required",
		},
		{
			name:    "no assertions",
			yaml:    "name: n\ndescription: d\nparts: [{id: p0}]\n",
			wantErr: "assertions list is required",
		},
		{
			name:    "part without id",
			yaml:    "name: n\ndescription: d\nparts: [{helices: []}]\nassertions: [{type: invariants}]\n",
			wantErr: "parts[0]: id is required",
		},
		{
			name:    "zero length helix",
			yaml:    "name: n\ndescription: d\nparts: [{id: p0, helices: [{number: 0, length: 0}]}]\nassertions: [{type: invariants}]\n",
			wantErr: "length must be positive",
		},
		{
			name:    "step without op",
			yaml:    "name: n\ndescription: d\nparts: [{id: p0}]\nsteps: [{helix: 0}]\nassertions: [{type: invariants}]\n",
			wantErr: "steps[0]: op is required",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: n\ndescription: d\nparts: [{id: p0}]\nassertions: [{type: trace_count}]\n",
			wantErr: `unknown assertion type "trace_count"`,
		},
		{
			name:    "state without at",
			yaml:    "name: n\ndescription: d\nparts: [{id: p0}]\nassertions: [{type: state, expect: empty}]\n",
			wantErr: "state requires at",
		},
		{
			name:    "bad link state",
			yaml:    "name: n\ndescription: d\nparts: [{id: p0}]\nassertions: [{type: state, at: {helix: 0, index: 0}, expect: middle}]\n",
			wantErr: `unknown link state "middle"`,
		},
		{
			name:    "crossover without flag",
			yaml:    "name: n\ndescription: d\nparts: [{id: p0}]\nassertions: [{type: crossover, at: {helix: 0, index: 0}}]\n",
			wantErr: "crossover requires",
		},
		{
			name:    "neighbor bad end",
			yaml:    "name: n\ndescription: d\nparts: [{id: p0}]\nassertions: [{type: neighbor, at: {helix: 0, index: 0}, end: up, none: true}]\n",
			wantErr: "neighbor end must be 5p or 3p",
		},
		{
			name:    "neighbor and none",
			yaml:    "name: n\ndescription: d\nparts: [{id: p0}]\nassertions: [{type: neighbor, at: {helix: 0, index: 0}, end: 5p, none: true, neighbor: {helix: 0, index: 1}}]\n",
			wantErr: "exactly one of neighbor or none",
		},
		{
			name:    "strand without length",
			yaml:    "name: n\ndescription: d\nparts: [{id: p0}]\nassertions: [{type: strand, at: {helix: 0, index: 0}}]\n",
			wantErr: "strand requires a positive length",
		},
		{
			name:    "bad strand name",
			yaml:    "name: n\ndescription: d\nparts: [{id: p0}]\nassertions: [{type: render, at: {helix: 0, strand: loop, index: 0}, expect: __}]\n",
			wantErr: `unknown strand type "loop"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseScenario_UnknownFieldsRejected(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"top level", "name: n\ndescription: d\nparts: [{id: p0}]\nassertion: []\nassertions: [{type: invariants}]\n"},
		{"step", "name: n\ndescription: d\nparts: [{id: p0}]\nsteps: [{op: undo, expect: ok}]\nassertions: [{type: invariants}]\n"},
		{"locator", "name: n\ndescription: d\nparts: [{id: p0}]\nassertions: [{type: render, at: {helix: 0, idx: 1}, expect: __}]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not found")
		})
	}
}

func TestAssertionConstants(t *testing.T) {
	assert.Equal(t, "state", AssertState)
	assert.Equal(t, "crossover", AssertCrossover)
	assert.Equal(t, "render", AssertRender)
	assert.Equal(t, "neighbor", AssertNeighbor)
	assert.Equal(t, "strand", AssertStrand)
	assert.Equal(t, "invariants", AssertInvariants)
}

// TestLoadExampleScenarios loads the scenarios under testdata/scenarios, which
// double as documentation for the format.
func TestLoadExampleScenarios(t *testing.T) {
	tests := []struct {
		file           string
		wantName       string
		wantHelices    int
		wantSteps      int
		wantAssertions int
	}{
		{"crossover_roundtrip.yaml", "crossover_roundtrip", 2, 6, 10},
		{"circular_oligo.yaml", "circular_oligo", 2, 8, 8},
		{"eviction_and_clear.yaml", "eviction_and_clear", 1, 7, 5},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			s, err := LoadScenario(filepath.Join(scenarioDir, tt.file))
			require.NoError(t, err)

			assert.Equal(t, tt.wantName, s.Name)
			require.Len(t, s.Parts, 1)
			assert.Len(t, s.Parts[0].Helices, tt.wantHelices)
			assert.Len(t, s.Steps, tt.wantSteps)
			assert.Len(t, s.Assertions, tt.wantAssertions)
		})
	}
}
