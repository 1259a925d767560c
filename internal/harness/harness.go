package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/REC17/cadnano2/internal/dna"
	"github.com/REC17/cadnano2/internal/journal"
	"github.com/REC17/cadnano2/internal/session"
	"github.com/REC17/cadnano2/internal/testutil"
	"github.com/REC17/cadnano2/internal/vhelix"
)

// Harness runs one scenario against a fresh session.
type Harness struct {
	journal     *journal.Journal
	session     *session.Session
	logger      *slog.Logger
	defaultPart dna.PartID
}

// Run executes a scenario and returns its result.
//
// Each scenario runs against a fresh in-memory journal. Execution flow:
//  1. Create the parts and helices the scenario declares
//  2. Execute the steps, checking each against its expect_error
//  3. Evaluate the assertions on the final design
//  4. Replay the journal into a second session and compare diagrams
//
// An error is returned only when the scenario cannot run at all; expectation
// failures are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	j, err := journal.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory journal: %w", err)
	}
	defer j.Close()

	logger := slog.New(slog.DiscardHandler)
	design := vhelix.NewDesign(vhelix.WithInvariantChecks(true), vhelix.WithLogger(logger))
	s := session.New(
		session.WithIDGenerator(testutil.NewFixedSessionIDs(scenario.Session)),
		session.WithClock(testutil.NewDeterministicClock()),
		session.WithRecorder(j),
		session.WithLogger(logger),
		session.WithDesign(design),
	)

	h := &Harness{journal: j, session: s, logger: logger, defaultPart: defaultPart(scenario)}

	ctx := context.Background()
	result := NewResult()
	result.Session = s.ID()

	if err := h.executeSetup(ctx, scenario.Parts, result); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	result.Diagram = design.Diagram()
	for _, msg := range EvaluateAssertions(design, scenario.Assertions, h.defaultPart) {
		result.AddError(msg)
	}

	if err := h.checkReplay(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to replay journal: %w", err)
	}
	return result, nil
}

// Drive executes a scenario against an existing session, recording every
// command into result. The setup commands run only when setup is true, which
// lets a caller continue a session whose parts already exist. Assertions are
// not evaluated.
func Drive(ctx context.Context, s *session.Session, scenario *Scenario, setup bool, result *Result) error {
	h := &Harness{session: s, defaultPart: defaultPart(scenario)}
	if setup {
		if err := h.executeSetup(ctx, scenario.Parts, result); err != nil {
			return fmt.Errorf("setup: %w", err)
		}
	}
	return h.executeSteps(ctx, scenario.Steps, result)
}

func defaultPart(scenario *Scenario) dna.PartID {
	if len(scenario.Parts) == 0 {
		return ""
	}
	return scenario.Parts[0].ID
}

// SetupCommands returns the add_part and add_helix commands that create parts.
func SetupCommands(parts []PartSetup) []session.Command {
	var cmds []session.Command
	for _, p := range parts {
		cmds = append(cmds, session.Command{Op: session.OpAddPart, Part: p.ID})
		for _, hx := range p.Helices {
			cmds = append(cmds, session.Command{
				Op: session.OpAddHelix, Part: p.ID, Helix: hx.Number, Length: hx.Length,
			})
		}
	}
	return cmds
}

func (h *Harness) executeSetup(ctx context.Context, parts []PartSetup, result *Result) error {
	for _, cmd := range SetupCommands(parts) {
		out, err := h.session.Execute(ctx, cmd)
		if err != nil {
			return err
		}
		result.addStep(StepRecord{Seq: out.Seq, Op: out.Op, Outcome: journal.OutcomeOK})
	}
	return nil
}

func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		cmd := step.Command
		if cmd.Part == "" && cmd.Op != session.OpUndo && cmd.Op != session.OpRedo {
			cmd.Part = h.defaultPart
		}

		out, err := h.session.Execute(ctx, cmd)
		if err != nil {
			var cerr *session.CommandError
			if !errors.As(err, &cerr) {
				return fmt.Errorf("step %d: %w", i, err)
			}
			result.addStep(StepRecord{
				Seq: cerr.Seq, Op: cerr.Op, Outcome: journal.OutcomeError, Code: cerr.Code,
			})
			switch {
			case step.ExpectError == "":
				result.AddError(fmt.Sprintf("step %d (%s): unexpected error: %v", i, cmd.Op, err))
			case step.ExpectError != cerr.Code:
				result.AddError(fmt.Sprintf("step %d (%s): expected error %s, got %s",
					i, cmd.Op, step.ExpectError, cerr.Code))
			}
			continue
		}

		result.addStep(StepRecord{
			Seq: out.Seq, Op: out.Op, Outcome: journal.OutcomeOK, Label: out.Label, Calls: out.Steps,
		})
		if step.ExpectError != "" {
			result.AddError(fmt.Sprintf("step %d (%s): expected error %s, got success",
				i, cmd.Op, step.ExpectError))
		}
	}
	return nil
}

// checkReplay rebuilds the design from the journal; it must match the live one.
func (h *Harness) checkReplay(ctx context.Context, result *Result) error {
	entries, err := h.journal.Read(ctx, h.session.ID())
	if err != nil {
		return err
	}
	if len(entries) != len(result.Steps) {
		result.AddError(fmt.Sprintf("journal has %d entries, expected %d", len(entries), len(result.Steps)))
	}

	replayed, err := session.Replay(ctx, entries, session.WithLogger(h.logger))
	if err != nil {
		result.AddError(fmt.Sprintf("replay: %v", err))
		return nil
	}
	if got := replayed.Design().Diagram(); got != result.Diagram {
		result.AddError(fmt.Sprintf("replay: diagram differs\nlive:\n%sreplayed:\n%s", result.Diagram, got))
	}
	return nil
}
