package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/REC17/cadnano2/internal/harness"
	"github.com/REC17/cadnano2/internal/journal"
	"github.com/REC17/cadnano2/internal/session"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	Session  string
	Length   int
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Execute a scenario's edits in a journaled session",
		Long: `Execute the parts and steps of a scenario file as a live editing session.

Every command is appended to the journal (--db, or journal.path in the config).
With --session naming a session already in the journal, the session is
rebuilt by replay and the steps continue it; the scenario's parts are not
created again. Assertions in the file are checked against the final design.

Exit codes:
  0 - All steps behaved as declared and all assertions held
  1 - A step or assertion failed
  2 - Command error (unreadable scenario, journal failure, etc.)

Examples:
  cadnano run ./scenarios/crossover.yaml
  cadnano run ./scenarios/crossover.yaml --db ./design.db
  cadnano run ./more-edits.yaml --db ./design.db --session 0192...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioFile(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite journal")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session id to create or continue")
	cmd.Flags().IntVar(&opts.Length, "length", 0, "add_helix length when a step gives none")

	return cmd
}

func runScenarioFile(ctx context.Context, opts *RunOptions, path string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return out.Fail(ExitCommandError, CodeLoad, "failed to load scenario", err)
	}

	var j *journal.Journal
	if dbPath := opts.Config.Journal.Path; dbPath != "" {
		if j, err = journal.Open(dbPath); err != nil {
			return out.Fail(ExitCommandError, CodeJournal, "failed to open journal", err)
		}
		defer j.Close()
	}

	s, resumed, err := openSession(ctx, opts, j)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return out.Fail(exitErr.Code, CodeJournal, exitErr.Message, exitErr.Err)
		}
		return err
	}
	out.VerboseLog("session %s (resumed=%t, seq=%d)", s.ID(), resumed, s.Seq())

	result := harness.NewResult()
	result.Session = s.ID()
	if err := harness.Drive(ctx, s, scenario, !resumed, result); err != nil {
		var cerr *session.CommandError
		if errors.As(err, &cerr) {
			return out.Fail(ExitFailure, CodeStep, "scenario setup failed", err)
		}
		return out.Fail(ExitCommandError, CodeJournal, "failed to run scenario", err)
	}

	result.Diagram = s.Design().Diagram()
	for _, msg := range harness.EvaluateAssertions(s.Design(), scenario.Assertions, scenario.Parts[0].ID) {
		result.AddError(msg)
	}

	if out.JSON() {
		resp := CLIResponse{Status: "ok", Data: result, Session: s.ID()}
		if !result.Pass {
			resp.Status = "error"
			resp.Error = &CLIError{Code: CodeStep, Message: fmt.Sprintf("%d expectation(s) failed", len(result.Errors))}
		}
		if err := out.Respond(resp); err != nil {
			return err
		}
	} else {
		writeRunText(out.Writer, result)
	}

	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("%d expectation(s) failed", len(result.Errors)))
	}
	return nil
}

// openSession creates the session for a run, replaying it from the journal
// when --session names one that exists.
func openSession(ctx context.Context, opts *RunOptions, j *journal.Journal) (*session.Session, bool, error) {
	sopts := []session.Option{
		session.WithLogger(opts.Logger),
		session.WithDesign(opts.newDesign()),
		session.WithDefaultLength(opts.Config.Design.DefaultLength),
	}
	if opts.Session != "" {
		sopts = append(sopts, session.WithID(opts.Session))
	}
	if j == nil {
		return session.New(sopts...), false, nil
	}
	sopts = append(sopts, session.WithRecorder(j))

	if opts.Session != "" {
		entries, err := j.Read(ctx, opts.Session)
		if err != nil {
			return nil, false, WrapExitError(ExitCommandError, "failed to read journal", err)
		}
		if len(entries) > 0 {
			s, err := session.Replay(ctx, entries, sopts...)
			if err != nil {
				return nil, false, WrapExitError(ExitCommandError, "failed to replay session", err)
			}
			return s, true, nil
		}
	}
	return session.New(sopts...), false, nil
}

func writeRunText(w io.Writer, result *harness.Result) {
	fmt.Fprintf(w, "Session %s\n", result.Session)
	for _, st := range result.Steps {
		switch {
		case st.Outcome == journal.OutcomeError:
			fmt.Fprintf(w, "  [%d] %s: %s\n", st.Seq, st.Op, st.Code)
		case st.Label != "":
			fmt.Fprintf(w, "  [%d] %s: %s (%d calls)\n", st.Seq, st.Op, st.Label, st.Calls)
		default:
			fmt.Fprintf(w, "  [%d] %s\n", st.Seq, st.Op)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, result.Diagram)

	if result.Pass {
		fmt.Fprintln(w, "✓ All expectations held")
		return
	}
	fmt.Fprintln(w)
	for _, e := range result.Errors {
		fmt.Fprintf(w, "✗ %s\n", e)
	}
}
