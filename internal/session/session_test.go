package session

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/REC17/cadnano2/internal/dna"
	"github.com/REC17/cadnano2/internal/journal"
	"github.com/REC17/cadnano2/internal/testutil"
	"github.com/REC17/cadnano2/internal/vhelix"
)

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	base := []Option{
		WithIDGenerator(testutil.NewFixedSessionIDs("s-test")),
		WithClock(testutil.NewDeterministicClock()),
		WithLogger(slog.New(slog.DiscardHandler)),
	}
	return New(append(base, opts...)...)
}

func run(t *testing.T, s *Session, cmds ...Command) {
	t.Helper()
	for _, c := range cmds {
		_, err := s.Execute(context.Background(), c)
		require.NoError(t, err, "op %s", c.Op)
	}
}

// setup adds part p0 with helices 0 and 1 of length 4.
func setup() []Command {
	return []Command{
		{Op: OpAddPart, Part: "p0"},
		{Op: OpAddHelix, Part: "p0", Helix: 0, Length: 4},
		{Op: OpAddHelix, Part: "p0", Helix: 1, Length: 4},
	}
}

func base(t *testing.T, s *Session, h dna.HelixNumber, st dna.StrandType, i int) vhelix.Base {
	t.Helper()
	vh, err := s.Design().Helix("p0", h)
	require.NoError(t, err)
	b, err := vh.Base(st, i)
	require.NoError(t, err)
	return b
}

func TestNew_Defaults(t *testing.T) {
	s := New(WithLogger(slog.New(slog.DiscardHandler)))
	assert.Len(t, s.ID(), 36)
	assert.NotNil(t, s.Design())
	assert.Zero(t, s.Seq())

	fixed := New(WithID("mine"), WithIDGenerator(testutil.NewFixedSessionIDs("other")))
	assert.Equal(t, "mine", fixed.ID())
}

func TestExecute_StampsMonotonicSeq(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()

	var seqs []int64
	for _, c := range setup() {
		out, err := s.Execute(ctx, c)
		require.NoError(t, err)
		seqs = append(seqs, out.Seq)
	}
	_, err := s.Execute(ctx, Command{Op: "bogus"})
	require.Error(t, err)

	assert.Equal(t, []int64{1, 2, 3}, seqs)
	assert.Equal(t, int64(4), s.Seq(), "failed commands consume a seq too")
}

func TestExecute_DefaultHelixLength(t *testing.T) {
	s := newTestSession(t, WithDefaultLength(7))
	run(t, s, Command{Op: OpAddPart, Part: "p0"}, Command{Op: OpAddHelix, Part: "p0", Helix: 2})

	vh, err := s.Design().Helix("p0", 2)
	require.NoError(t, err)
	assert.Equal(t, 7, vh.Length())
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		code ErrorCode
	}{
		{"unknown op", Command{Op: "splice", Part: "p0"}, CodeUnknownOp},
		{"missing part", Command{Op: OpAddPart}, CodeInvalidCommand},
		{"negative length", Command{Op: OpAddHelix, Part: "p0", Length: -3}, CodeInvalidCommand},
		{"bad strand", Command{Op: OpClearFive, Part: "p0", Strand: 5}, CodeInvalidCommand},
		{"set without target", Command{Op: OpSetThreePrime, Part: "p0"}, CodeInvalidCommand},
		{"crossover without target", Command{Op: OpCrossover, Part: "p0"}, CodeInvalidCommand},
		{"unknown helix", Command{Op: OpClearFive, Part: "p0", Helix: 9}, CodeEditFailed},
		{"unknown part", Command{Op: OpAddHelix, Part: "nope", Length: 2}, CodeEditFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(t)
			run(t, s, setup()...)

			_, err := s.Execute(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.True(t, IsCode(err, tt.code), "got %v", err)

			var ce *CommandError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, int64(4), ce.Seq)
			assert.Equal(t, tt.cmd.Op, ce.Op)
		})
	}
}

func TestExecute_EditFailureWrapsCause(t *testing.T) {
	s := newTestSession(t)
	run(t, s, setup()...)

	_, err := s.Execute(context.Background(), Command{
		Op: OpSetThreePrime, Part: "p0", Helix: 0, Index: 1,
		To: &Locator{Helix: 0, Index: 1},
	})
	assert.True(t, IsCode(err, CodeEditFailed))
	assert.ErrorIs(t, err, vhelix.ErrSelfLink)
	assert.Zero(t, s.UndoDepth())
}

func TestExecute_LinkCommands(t *testing.T) {
	s := newTestSession(t)
	run(t, s, setup()...)
	ctx := context.Background()

	out, err := s.Execute(ctx, Command{Op: OpConnectStrand, Part: "p0", Helix: 0, Index: 0, End: 3})
	require.NoError(t, err)
	assert.Equal(t, "connect_strand 0.scaffold[0:3]", out.Label)
	assert.Equal(t, 3, out.Steps)

	_, err = s.Execute(ctx, Command{
		Op: OpCrossover, Part: "p0", Helix: 0, Index: 3,
		To: &Locator{Helix: 1, Index: 3},
	})
	require.NoError(t, err)
	assert.True(t, base(t, s, 0, dna.Scaffold, 3).IsCrossover())

	_, err = s.Execute(ctx, Command{Op: OpClearThree, Part: "p0", Helix: 0, Index: 3})
	require.NoError(t, err)
	assert.False(t, base(t, s, 0, dna.Scaffold, 3).IsCrossover())

	_, err = s.Execute(ctx, Command{
		Op: OpSetFivePrime, Part: "p0", Helix: 1, Strand: dna.Staple, Index: 1,
		To: &Locator{Helix: 1, Strand: dna.Staple, Index: 0},
	})
	require.NoError(t, err)
	assert.True(t, base(t, s, 1, dna.Staple, 0).Is5primeEnd())

	_, err = s.Execute(ctx, Command{Op: OpClearFive, Part: "p0", Helix: 1, Strand: dna.Staple, Index: 1})
	require.NoError(t, err)
	assert.True(t, base(t, s, 1, dna.Staple, 0).IsEmpty())

	_, err = s.Execute(ctx, Command{Op: OpClearStrand, Part: "p0", Helix: 0, Index: 0, End: 3})
	require.NoError(t, err)
	assert.True(t, base(t, s, 0, dna.Scaffold, 1).IsEmpty())

	assert.Equal(t, 6, s.UndoDepth())
	require.NoError(t, s.Design().Verify())
}

func TestUndoRedo_Stacks(t *testing.T) {
	s := newTestSession(t)
	run(t, s, setup()...)
	ctx := context.Background()
	empty := s.Design().Diagram()

	_, err := s.Undo(ctx)
	assert.True(t, IsCode(err, CodeNothingToUndo))
	_, err = s.Redo(ctx)
	assert.True(t, IsCode(err, CodeNothingToRedo))

	run(t, s, Command{Op: OpConnectStrand, Part: "p0", Helix: 0, Index: 0, End: 3})
	linked := s.Design().Diagram()

	out, err := s.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "connect_strand 0.scaffold[0:3]", out.Label)
	assert.Equal(t, empty, s.Design().Diagram())
	assert.Equal(t, 0, s.UndoDepth())
	assert.Equal(t, 1, s.RedoDepth())

	_, err = s.Redo(ctx)
	require.NoError(t, err)
	assert.Equal(t, linked, s.Design().Diagram())

	// A new edit drops the redo stack.
	run(t, s, Command{Op: OpUndo}, Command{Op: OpClearFive, Part: "p0", Helix: 1, Index: 0})
	assert.Zero(t, s.RedoDepth())
}

func TestUndo_RemovedHelixDropsItsEdits(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()
	run(t, s, setup()...)
	run(t, s,
		Command{Op: OpConnectStrand, Part: "p0", Helix: 0, Index: 0, End: 3},
		Command{Op: OpCrossover, Part: "p0", Helix: 0, Index: 3, To: &Locator{Helix: 1, Index: 3}},
		Command{Op: OpRemoveHelix, Part: "p0", Helix: 1},
	)
	assert.Equal(t, 1, s.UndoDepth(), "the crossover touched helix 1")

	out, err := s.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "connect_strand 0.scaffold[0:3]", out.Label)
	assert.True(t, base(t, s, 0, dna.Scaffold, 3).IsEmpty())
	require.NoError(t, s.Design().Verify())

	_, err = s.Undo(ctx)
	assert.True(t, IsCode(err, CodeNothingToUndo))
}

func TestRedo_RemovedHelixDropsItsEdits(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()
	run(t, s, setup()...)
	run(t, s,
		Command{Op: OpConnectStrand, Part: "p0", Helix: 0, Index: 0, End: 3},
		Command{Op: OpConnectStrand, Part: "p0", Helix: 1, Index: 3, End: 0},
		Command{Op: OpUndo},
		Command{Op: OpUndo},
	)
	require.Equal(t, 2, s.RedoDepth())

	run(t, s, Command{Op: OpRemoveHelix, Part: "p0", Helix: 1})
	assert.Equal(t, 1, s.RedoDepth())

	out, err := s.Redo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "connect_strand 0.scaffold[0:3]", out.Label)
	require.NoError(t, s.Design().Verify())
}

func TestUndo_RemovePartDropsAllEdits(t *testing.T) {
	s := newTestSession(t)
	run(t, s, setup()...)
	run(t, s,
		Command{Op: OpConnectStrand, Part: "p0", Helix: 0, Index: 0, End: 3},
		Command{Op: OpRemovePart, Part: "p0"},
	)
	assert.Zero(t, s.UndoDepth())
}

func TestExecute_StructuralCommands(t *testing.T) {
	s := newTestSession(t)
	run(t, s, setup()...)
	run(t, s, Command{Op: OpRemoveHelix, Part: "p0", Helix: 0})

	_, err := s.Design().Helix("p0", 0)
	assert.ErrorIs(t, err, vhelix.ErrHelixNotFound)

	_, err = s.Execute(context.Background(), Command{Op: OpAddPart, Part: "p0"})
	assert.ErrorIs(t, err, vhelix.ErrDuplicatePart)

	run(t, s, Command{Op: OpRemovePart, Part: "p0"})
	assert.Empty(t, s.Design().Parts())

	_, err = s.Execute(context.Background(), Command{Op: OpRemoveHelix, Part: "p0", Helix: 1})
	assert.ErrorIs(t, err, vhelix.ErrPartNotFound)
}

type failingRecorder struct{}

func (failingRecorder) Append(context.Context, journal.Entry) error {
	return errors.New("disk full")
}

func TestExecute_RecorderFailure(t *testing.T) {
	s := newTestSession(t, WithRecorder(failingRecorder{}))
	_, err := s.Execute(context.Background(), Command{Op: OpAddPart, Part: "p0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestExecute_JournalsEveryCommand(t *testing.T) {
	j, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()
	ctx := context.Background()

	s := newTestSession(t, WithRecorder(j))
	run(t, s, setup()...)
	run(t, s, Command{Op: OpCrossover, Part: "p0", Helix: 0, Index: 3, To: &Locator{Helix: 1, Index: 3}})
	_, err = s.Execute(ctx, Command{Op: OpUndo})
	require.NoError(t, err)
	_, err = s.Execute(ctx, Command{Op: OpUndo})
	require.Error(t, err)

	entries, err := j.Read(ctx, "s-test")
	require.NoError(t, err)
	require.Len(t, entries, 6)

	assert.Equal(t, `{"op":"add_part","part":"p0"}`, entries[0].Args)
	assert.Equal(t, `{"helix":0,"length":4,"op":"add_helix","part":"p0"}`, entries[1].Args)
	assert.Equal(t,
		`{"helix":0,"index":3,"op":"crossover","part":"p0","strand":"scaffold","to":{"helix":1,"index":3,"part":"p0","strand":"scaffold"}}`,
		entries[3].Args)
	assert.Equal(t, `{"op":"undo"}`, entries[4].Args)
	assert.True(t, entries[4].OK())
	assert.False(t, entries[5].OK())
	assert.Contains(t, entries[5].Error, "NOTHING_TO_UNDO")
}
