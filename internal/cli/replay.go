package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/REC17/cadnano2/internal/journal"
	"github.com/REC17/cadnano2/internal/session"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Session  string // optional - one session only
}

// ReplaySessionResult holds the replay result for one session.
type ReplaySessionResult struct {
	Session       string `json:"session"`
	Entries       int    `json:"entries"`
	Failed        int    `json:"failed"`
	LastSeq       int64  `json:"last_seq"`
	UndoDepth     int    `json:"undo_depth"`
	RedoDepth     int    `json:"redo_depth"`
	Deterministic bool   `json:"deterministic"`
	Diagram       string `json:"diagram"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions         []ReplaySessionResult `json:"sessions"`
	TotalSessions    int                   `json:"total_sessions"`
	AllDeterministic bool                  `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Rebuild journaled sessions and verify determinism",
		Long: `Rebuild every session in the journal by re-executing its successful
commands in sequence order.

Each session is replayed twice into fresh designs; the two diagrams must be
identical. A journaled success that fails on replay is a command error.

Exit codes:
  0 - All sessions replay deterministically
  1 - Determinism verification failed
  2 - Command error (journal not found, replay failure, etc.)

Examples:
  cadnano replay --db ./design.db
  cadnano replay --db ./design.db --session 0192...
  cadnano replay --db ./design.db --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "replay one session only")

	return cmd
}

func runReplay(ctx context.Context, opts *ReplayOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	j, err := journal.Open(opts.Config.Journal.Path)
	if err != nil {
		return out.Fail(ExitCommandError, CodeJournal, "failed to open journal", err)
	}
	defer j.Close()

	var ids []string
	if opts.Session != "" {
		ids = []string{opts.Session}
	} else if ids, err = j.Sessions(ctx); err != nil {
		return out.Fail(ExitCommandError, CodeJournal, "failed to list sessions", err)
	}

	result := ReplayResult{
		Sessions:         make([]ReplaySessionResult, 0, len(ids)),
		TotalSessions:    len(ids),
		AllDeterministic: true,
	}
	for _, id := range ids {
		sr, err := replayAndVerifySession(ctx, opts, j, id)
		if err != nil {
			return out.Fail(ExitCommandError, CodeJournal, fmt.Sprintf("failed to replay session %s", id), err)
		}
		result.Sessions = append(result.Sessions, sr)
		if !sr.Deterministic {
			result.AllDeterministic = false
		}
	}

	if out.JSON() {
		return outputReplayJSON(out, result)
	}
	return outputReplayText(out.Writer, result, opts.Verbose)
}

// replayAndVerifySession replays a session twice and compares the designs.
func replayAndVerifySession(ctx context.Context, opts *ReplayOptions, j *journal.Journal, id string) (ReplaySessionResult, error) {
	entries, err := j.Read(ctx, id)
	if err != nil {
		return ReplaySessionResult{}, err
	}
	if len(entries) == 0 {
		return ReplaySessionResult{}, fmt.Errorf("no entries for session %s", id)
	}
	last, err := j.LastSeq(ctx, id)
	if err != nil {
		return ReplaySessionResult{}, err
	}

	first, err := session.Replay(ctx, entries, session.WithLogger(opts.Logger), session.WithDesign(opts.newDesign()))
	if err != nil {
		return ReplaySessionResult{}, fmt.Errorf("first replay failed: %w", err)
	}
	second, err := session.Replay(ctx, entries, session.WithLogger(opts.Logger), session.WithDesign(opts.newDesign()))
	if err != nil {
		return ReplaySessionResult{}, fmt.Errorf("second replay failed: %w", err)
	}

	failed := 0
	for _, e := range entries {
		if !e.OK() {
			failed++
		}
	}

	diagram := first.Design().Diagram()
	return ReplaySessionResult{
		Session:       id,
		Entries:       len(entries),
		Failed:        failed,
		LastSeq:       last,
		UndoDepth:     first.UndoDepth(),
		RedoDepth:     first.RedoDepth(),
		Deterministic: diagram == second.Design().Diagram() && first.Seq() == second.Seq(),
		Diagram:       diagram,
	}, nil
}

func outputReplayJSON(out *OutputFormatter, result ReplayResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{Code: CodeDeterminism, Message: "determinism verification failed"}
	}
	if err := out.Respond(response); err != nil {
		return err
	}
	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

func outputReplayText(w io.Writer, result ReplayResult, verbose bool) error {
	fmt.Fprintf(w, "Replay Summary: %d session(s)\n", result.TotalSessions)
	fmt.Fprintln(w)

	for _, s := range result.Sessions {
		status := "✓"
		if !s.Deterministic {
			status = "✗"
		}
		fmt.Fprintf(w, "%s Session: %s\n", status, s.Session)
		fmt.Fprintf(w, "  Entries: %d (%d failed), last seq %d\n", s.Entries, s.Failed, s.LastSeq)
		if verbose {
			fmt.Fprintf(w, "  Undo depth: %d, redo depth: %d\n", s.UndoDepth, s.RedoDepth)
			fmt.Fprint(w, s.Diagram)
		}
		if !s.Deterministic {
			fmt.Fprintln(w, "  Warning: Non-deterministic replay detected!")
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All sessions verified deterministic")
		return nil
	}
	fmt.Fprintln(w, "✗ Determinism verification failed")
	return NewExitError(ExitFailure, "determinism verification failed")
}
