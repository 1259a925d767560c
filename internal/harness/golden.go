package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/REC17/cadnano2/internal/journal"
)

// GoldenDir is where scenario snapshots live, relative to the scenario files.
const GoldenDir = "golden"

// Snapshot is the canonical JSON of a run: every command's outcome and the
// final diagram. It is byte-stable across runs, so it can be compared against
// a golden file directly.
func Snapshot(name string, result *Result) ([]byte, error) {
	steps := make([]any, len(result.Steps))
	for i, st := range result.Steps {
		m := map[string]any{
			"seq":     st.Seq,
			"op":      string(st.Op),
			"outcome": st.Outcome,
		}
		if st.Label != "" {
			m["label"] = st.Label
			m["calls"] = st.Calls
		}
		if st.Code != "" {
			m["code"] = string(st.Code)
		}
		steps[i] = m
	}

	return journal.MarshalCanonical(map[string]any{
		"scenario": name,
		"session":  result.Session,
		"steps":    steps,
		"diagram":  result.Diagram,
	})
}

// RunWithGolden runs a scenario, requires it to pass and compares its snapshot
// with dir/{scenario.Name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, dir string, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Errorf("%s: %s", scenario.Name, msg)
	}
	return AssertGolden(t, dir, scenario.Name, result)
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, dir, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}
	g := goldie.New(t,
		goldie.WithFixtureDir(dir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
