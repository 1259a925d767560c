package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/REC17/cadnano2/internal/harness"
)

// RenderResult is the JSON payload of the render command.
type RenderResult struct {
	Scenario string   `json:"scenario"`
	Diagram  string   `json:"diagram"`
	Pass     bool     `json:"pass"`
	Errors   []string `json:"errors,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <scenario.yaml>",
		Short: "Print the design a scenario builds",
		Long: `Run a scenario in memory and print the resulting design, one line per
helix strand:

  part p0
    0 scaffold -> _> <> <> <1
    0 staple   <- __ __ __ __

Each base is two symbols in index order: ">" or "<" for a neighbor on the
same helix in that direction, a helix number for a crossover partner, "_" for
no neighbor. Assertion results are not rendered; use "cadnano test" for that.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)

			scenario, err := harness.LoadScenario(args[0])
			if err != nil {
				return out.Fail(ExitCommandError, CodeLoad, "failed to load scenario", err)
			}
			result, err := harness.Run(scenario)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to run scenario", err)
			}

			if out.JSON() {
				return out.Success(RenderResult{
					Scenario: scenario.Name,
					Diagram:  result.Diagram,
					Pass:     result.Pass,
					Errors:   result.Errors,
				})
			}
			fmt.Fprint(out.Writer, result.Diagram)
			return nil
		},
	}
	return cmd
}
