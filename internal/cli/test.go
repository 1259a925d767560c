package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/REC17/cadnano2/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run connectivity scenarios",
		Long: `Run every scenario file in a directory.

Each scenario runs in a fresh in-memory session with a fixed session id, so
its snapshot is reproducible. When <scenarios-dir>/golden/<name>.golden exists
the snapshot must match it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  cadnano test ./testdata/scenarios
  cadnano test ./testdata/scenarios --filter "circular*"
  cadnano test ./testdata/scenarios --update
  cadnano test ./testdata/scenarios --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return out.Fail(ExitCommandError, CodeLoad, "scenarios directory not found", err)
	}

	scenarioFiles, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return out.Fail(ExitCommandError, CodeLoad, "failed to find scenarios", err)
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(scenarioFiles)),
		Total:     len(scenarioFiles),
	}
	if len(scenarioFiles) == 0 {
		if out.JSON() {
			return outputTestJSON(out, result)
		}
		fmt.Fprintln(out.Writer, "No scenarios found.")
		return nil
	}

	for _, scenarioFile := range scenarioFiles {
		out.VerboseLog("running %s", scenarioFile)
		scenResult := runScenario(scenarioFile, opts)
		if !out.JSON() {
			writeScenarioText(out.Writer, scenResult, opts.Update)
		}

		result.Scenarios = append(result.Scenarios, scenResult)
		if scenResult.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if out.JSON() {
		return outputTestJSON(out, result)
	}
	return outputTestText(out.Writer, result)
}

// findScenarioFiles finds all YAML scenario files under dir, skipping the
// golden directory.
func findScenarioFiles(dir string, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != dir && info.Name() == harness.GoldenDir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// runScenario executes a single scenario, then updates or checks its golden
// snapshot.
func runScenario(scenarioFile string, opts *TestOptions) ScenarioResult {
	scenario, err := harness.LoadScenario(scenarioFile)
	if err != nil {
		return ScenarioResult{
			Name:   filepath.Base(scenarioFile),
			Errors: []string{fmt.Sprintf("failed to load scenario: %v", err)},
		}
	}

	result, err := harness.Run(scenario)
	if err != nil {
		return ScenarioResult{
			Name:   scenario.Name,
			Errors: []string{fmt.Sprintf("execution failed: %v", err)},
		}
	}

	snapshot, err := harness.Snapshot(scenario.Name, result)
	if err != nil {
		return ScenarioResult{
			Name:   scenario.Name,
			Errors: []string{fmt.Sprintf("snapshot failed: %v", err)},
		}
	}

	goldenPath := goldenFilePath(scenarioFile)
	if opts.Update {
		if err := updateGoldenFile(goldenPath, snapshot); err != nil {
			return ScenarioResult{
				Name:   scenario.Name,
				Errors: []string{fmt.Sprintf("failed to update golden file: %v", err)},
			}
		}
	} else if golden, err := os.ReadFile(goldenPath); err == nil {
		if !bytes.Equal(golden, snapshot) {
			result.AddError("snapshot does not match golden file (run with --update to regenerate)")
		}
	} else if !os.IsNotExist(err) {
		result.AddError(fmt.Sprintf("failed to read golden file: %v", err))
	}

	return ScenarioResult{
		Name:   scenario.Name,
		Pass:   result.Pass,
		Errors: result.Errors,
	}
}

// goldenFilePath returns the path to the golden file for a scenario.
func goldenFilePath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, harness.GoldenDir, name+".golden")
}

func updateGoldenFile(goldenPath string, snapshot []byte) error {
	if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(goldenPath, snapshot, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

func writeScenarioText(w io.Writer, r ScenarioResult, updated bool) {
	if r.Pass {
		if updated {
			fmt.Fprintf(w, "✓ %s (golden updated)\n", r.Name)
		} else {
			fmt.Fprintf(w, "✓ %s\n", r.Name)
		}
		return
	}
	fmt.Fprintf(w, "✗ %s\n", r.Name)
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(e, "\n", "\n  "))
	}
}

func outputTestJSON(out *OutputFormatter, result TestResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    CodeTestFailed,
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}
	if err := out.Respond(response); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

func outputTestText(w io.Writer, result TestResult) error {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
