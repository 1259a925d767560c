package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/REC17/cadnano2/internal/session"
)

// TestExampleScenariosGolden runs every example scenario and compares its
// snapshot with testdata/scenarios/golden. Regenerate with:
//
//	go test ./internal/harness -run TestExampleScenariosGolden -update
func TestExampleScenariosGolden(t *testing.T) {
	files, err := filepath.Glob(filepath.Join(scenarioDir, "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		s, err := LoadScenario(file)
		require.NoError(t, err)
		t.Run(s.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, filepath.Join(scenarioDir, GoldenDir), s))
		})
	}
}

func TestSnapshot_CanonicalShape(t *testing.T) {
	r := NewResult()
	r.Session = "s1"
	r.Diagram = "part p0\n"
	r.Steps = []StepRecord{
		{Seq: 1, Op: session.OpAddPart, Outcome: "ok"},
		{Seq: 2, Op: session.OpSetThreePrime, Outcome: "ok", Label: "set_3p 0.scaffold[0]", Calls: 1},
		{Seq: 3, Op: session.OpUndo, Outcome: "error", Code: session.CodeNothingToUndo},
	}

	got, err := Snapshot("shape", r)
	require.NoError(t, err)
	assert.Equal(t, `{"diagram":"part p0\n","scenario":"shape","session":"s1","steps":[`+
		`{"op":"add_part","outcome":"ok","seq":1},`+
		`{"calls":1,"label":"set_3p 0.scaffold[0]","op":"set_3p","outcome":"ok","seq":2},`+
		`{"code":"NOTHING_TO_UNDO","op":"undo","outcome":"error","seq":3}]}`, string(got))
}

func TestSnapshot_NoSteps(t *testing.T) {
	got, err := Snapshot("empty", NewResult())
	require.NoError(t, err)
	assert.Equal(t, `{"diagram":"","scenario":"empty","session":"","steps":[]}`, string(got))
}
