package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/REC17/cadnano2/internal/journal"
	"github.com/REC17/cadnano2/internal/vhelix"
)

// DefaultHelixLength is the add_helix length used when neither the command nor
// the session sets one.
const DefaultHelixLength = 42

// Recorder receives one entry per executed command. *journal.Journal
// implements it.
type Recorder interface {
	Append(ctx context.Context, e journal.Entry) error
}

// Outcome describes a successful command.
type Outcome struct {
	Seq int64
	Op  Op
	// Label names the edit applied, undone or redone; empty for structural ops.
	Label string
	// Steps is the number of engine calls in the edit.
	Steps int
}

// Session executes commands against one design.
type Session struct {
	id            string
	design        *vhelix.Design
	clock         Sequencer
	recorder      Recorder
	logger        *slog.Logger
	defaultLength int

	undo []*vhelix.Edit
	redo []*vhelix.Edit
}

// Option configures a Session.
type Option func(*Session)

// WithID sets the session id instead of generating one.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithIDGenerator sets the generator for the session id. Ignored when WithID is
// also given.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Session) {
		if s.id == "" {
			s.id = g.Generate()
		}
	}
}

// WithClock sets the sequencer stamping commands.
func WithClock(c Sequencer) Option {
	return func(s *Session) { s.clock = c }
}

// WithRecorder journals every command.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithLogger sets the session logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithDesign runs the session against an existing design.
func WithDesign(d *vhelix.Design) Option {
	return func(s *Session) { s.design = d }
}

// WithDefaultLength sets the add_helix length used when a command gives none.
func WithDefaultLength(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.defaultLength = n
		}
	}
}

// New creates a session. Without options it has a fresh design, a UUIDv7 id,
// no journal and the default logger.
func New(opts ...Option) *Session {
	s := &Session{defaultLength: DefaultHelixLength}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = UUIDv7Generator{}.Generate()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.design == nil {
		s.design = vhelix.NewDesign(vhelix.WithLogger(s.logger))
	}
	if s.clock == nil {
		s.clock = NewClock()
	}
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Design returns the design the session edits.
func (s *Session) Design() *vhelix.Design { return s.design }

// UndoDepth returns the number of edits that can be undone.
func (s *Session) UndoDepth() int { return len(s.undo) }

// RedoDepth returns the number of edits that can be redone.
func (s *Session) RedoDepth() int { return len(s.redo) }

// Seq returns the sequence number of the last command.
func (s *Session) Seq() int64 { return s.clock.Current() }

// Execute validates and applies cmd. Every command, failed or not, consumes a
// sequence number and is journaled. A failure leaves the design unchanged and
// is returned as a *CommandError.
func (s *Session) Execute(ctx context.Context, cmd Command) (Outcome, error) {
	seq := s.clock.Next()
	if cmd.Op == OpAddHelix && cmd.Length == 0 {
		cmd.Length = s.defaultLength
	}
	if cmd.To != nil && cmd.To.Part == "" {
		to := *cmd.To
		to.Part = cmd.Part
		cmd.To = &to
	}

	out := Outcome{Seq: seq, Op: cmd.Op}
	var cerr *CommandError
	if cerr = cmd.validate(); cerr == nil {
		out, cerr = s.apply(cmd, out)
	}
	if cerr != nil {
		cerr.Seq = seq
		cerr.Op = cmd.Op
	}

	if err := s.record(ctx, seq, cmd, cerr); err != nil {
		return Outcome{}, err
	}

	if cerr != nil {
		s.logger.Warn("command failed",
			"session", s.id, "seq", seq, "op", cmd.Op, "code", cerr.Code, "error", cerr.Message)
		return Outcome{}, cerr
	}
	s.logger.Info("command applied",
		"session", s.id, "seq", seq, "op", cmd.Op, "label", out.Label, "steps", out.Steps)
	return out, nil
}

// Undo is Execute with an undo command.
func (s *Session) Undo(ctx context.Context) (Outcome, error) {
	return s.Execute(ctx, Command{Op: OpUndo})
}

// Redo is Execute with a redo command.
func (s *Session) Redo(ctx context.Context) (Outcome, error) {
	return s.Execute(ctx, Command{Op: OpRedo})
}

func (s *Session) record(ctx context.Context, seq int64, cmd Command, cerr *CommandError) error {
	if s.recorder == nil {
		return nil
	}
	args, err := cmd.MarshalCanonical()
	if err != nil {
		return fmt.Errorf("journal seq %d: %w", seq, err)
	}
	e := journal.Entry{
		Session: s.id,
		Seq:     seq,
		Op:      string(cmd.Op),
		Args:    args,
		Outcome: journal.OutcomeOK,
	}
	if cerr != nil {
		e.Outcome = journal.OutcomeError
		e.Error = cerr.Error()
	}
	if err := s.recorder.Append(ctx, e); err != nil {
		return fmt.Errorf("journal seq %d: %w", seq, err)
	}
	return nil
}

func failed(err error) *CommandError {
	return &CommandError{Code: CodeEditFailed, Message: err.Error(), Err: err}
}

func (s *Session) apply(cmd Command, out Outcome) (Outcome, *CommandError) {
	d := s.design
	switch cmd.Op {
	case OpAddPart:
		if _, err := d.AddPart(cmd.Part); err != nil {
			return out, failed(err)
		}
		return out, nil
	case OpRemovePart:
		if err := d.RemovePart(cmd.Part); err != nil {
			return out, failed(err)
		}
		s.dropDeadEdits()
		return out, nil
	case OpAddHelix:
		p, ok := d.Part(cmd.Part)
		if !ok {
			return out, failed(fmt.Errorf("%w: %s", vhelix.ErrPartNotFound, cmd.Part))
		}
		if _, err := p.AddHelix(cmd.Helix, cmd.Length); err != nil {
			return out, failed(err)
		}
		return out, nil
	case OpRemoveHelix:
		vh, err := d.Helix(cmd.Part, cmd.Helix)
		if err != nil {
			return out, failed(err)
		}
		if err := vh.Owner().RemoveHelix(vh.Number()); err != nil {
			return out, failed(err)
		}
		s.dropDeadEdits()
		return out, nil
	case OpUndo:
		return s.undoTop(out)
	case OpRedo:
		return s.redoTop(out)
	}

	e, err := s.edit(cmd)
	if err != nil {
		return out, failed(err)
	}
	s.undo = append(s.undo, e)
	s.redo = s.redo[:0]
	out.Label, out.Steps = e.Label(), e.Steps()
	return out, nil
}

func (s *Session) edit(cmd Command) (*vhelix.Edit, error) {
	vh, err := s.design.Helix(cmd.Part, cmd.Helix)
	if err != nil {
		return nil, err
	}
	var to vhelix.Base
	if cmd.To != nil {
		target, err := s.design.Helix(cmd.To.Part, cmd.To.Helix)
		if err != nil {
			return nil, err
		}
		if to, err = target.Base(cmd.To.Strand, cmd.To.Index); err != nil {
			return nil, err
		}
	}

	switch cmd.Op {
	case OpSetFivePrime:
		return vh.SetFivePrime(cmd.Strand, cmd.Index, to)
	case OpSetThreePrime:
		return vh.SetThreePrime(cmd.Strand, cmd.Index, to)
	case OpClearFive:
		return vh.ClearFivePrime(cmd.Strand, cmd.Index)
	case OpClearThree:
		return vh.ClearThreePrime(cmd.Strand, cmd.Index)
	case OpConnectStrand:
		return vh.ConnectStrand(cmd.Strand, cmd.Index, cmd.End)
	case OpClearStrand:
		return vh.ClearStrand(cmd.Strand, cmd.Index, cmd.End)
	case OpCrossover:
		return vh.InstallCrossover(cmd.Strand, cmd.Index, to)
	}
	return nil, errors.New("unreachable op " + string(cmd.Op))
}

// dropDeadEdits removes edits that touched released bases from both stacks.
// Structural removals are not undoable; edits on surviving bases stay.
func (s *Session) dropDeadEdits() {
	var dropped int
	s.undo, dropped = liveEdits(s.undo)
	var n int
	s.redo, n = liveEdits(s.redo)
	if dropped += n; dropped > 0 {
		s.logger.Debug("dropped edits of removed bases", "session", s.id, "count", dropped)
	}
}

func liveEdits(edits []*vhelix.Edit) ([]*vhelix.Edit, int) {
	kept := edits[:0]
	for _, e := range edits {
		if e.Live() {
			kept = append(kept, e)
		}
	}
	return kept, len(edits) - len(kept)
}

func (s *Session) undoTop(out Outcome) (Outcome, *CommandError) {
	if len(s.undo) == 0 {
		return out, &CommandError{Code: CodeNothingToUndo, Message: "undo stack is empty"}
	}
	e := s.undo[len(s.undo)-1]
	if err := e.Helix().Undo(e); err != nil {
		return out, failed(err)
	}
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, e)
	out.Label, out.Steps = e.Label(), e.Steps()
	return out, nil
}

func (s *Session) redoTop(out Outcome) (Outcome, *CommandError) {
	if len(s.redo) == 0 {
		return out, &CommandError{Code: CodeNothingToRedo, Message: "redo stack is empty"}
	}
	e := s.redo[len(s.redo)-1]
	if err := e.Helix().Redo(e); err != nil {
		return out, failed(err)
	}
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, e)
	out.Label, out.Steps = e.Label(), e.Steps()
	return out, nil
}
