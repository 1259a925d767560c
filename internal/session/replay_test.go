package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/REC17/cadnano2/internal/dna"
	"github.com/REC17/cadnano2/internal/journal"
)

func TestReplay_RebuildsDesign(t *testing.T) {
	j, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()
	ctx := context.Background()

	s := newTestSession(t, WithRecorder(j))
	run(t, s, setup()...)
	run(t, s,
		Command{Op: OpConnectStrand, Part: "p0", Helix: 0, Index: 0, End: 3},
		Command{Op: OpCrossover, Part: "p0", Helix: 0, Index: 3, To: &Locator{Helix: 1, Index: 3}},
		Command{Op: OpConnectStrand, Part: "p0", Helix: 1, Index: 3, End: 0},
		Command{Op: OpConnectStrand, Part: "p0", Helix: 1, Strand: dna.Staple, Index: 0, End: 2},
		Command{Op: OpUndo},
	)
	_, err = s.Execute(ctx, Command{Op: OpSetThreePrime, Part: "p0", Helix: 0, Index: 0, To: &Locator{Helix: 0, Index: 0}})
	require.Error(t, err)

	entries, err := j.Read(ctx, s.ID())
	require.NoError(t, err)

	replayed, err := Replay(ctx, entries, WithLogger(s.logger))
	require.NoError(t, err)

	assert.Equal(t, s.ID(), replayed.ID())
	assert.Equal(t, s.Design().Diagram(), replayed.Design().Diagram())
	assert.Equal(t, s.UndoDepth(), replayed.UndoDepth())
	assert.Equal(t, s.RedoDepth(), replayed.RedoDepth())
	assert.Equal(t, s.Seq(), replayed.Seq())
	require.NoError(t, replayed.Design().Verify())

	// The replayed session can keep going: redo the undone staple strand.
	_, err = replayed.Redo(ctx)
	require.NoError(t, err)
}

func TestReplay_ResumesJournaling(t *testing.T) {
	j, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()
	ctx := context.Background()

	s := newTestSession(t, WithRecorder(j))
	run(t, s, setup()...)
	entries, err := j.Read(ctx, s.ID())
	require.NoError(t, err)

	replayed, err := Replay(ctx, entries, WithRecorder(j), WithLogger(s.logger))
	require.NoError(t, err)
	run(t, replayed, Command{Op: OpClearFive, Part: "p0", Helix: 0, Index: 0})

	all, err := j.Read(ctx, s.ID())
	require.NoError(t, err)
	require.Len(t, all, 4, "replay itself writes nothing")
	assert.Equal(t, int64(4), all[3].Seq)
}

func TestReplay_Rejects(t *testing.T) {
	ctx := context.Background()
	ok := func(session string, seq int64, args string) journal.Entry {
		return journal.Entry{Session: session, Seq: seq, Args: args, Outcome: journal.OutcomeOK}
	}

	tests := []struct {
		name    string
		entries []journal.Entry
	}{
		{"out of order", []journal.Entry{
			ok("s", 2, `{"op":"add_part","part":"p0"}`),
			ok("s", 1, `{"op":"add_part","part":"p1"}`),
		}},
		{"mixed sessions", []journal.Entry{
			ok("s", 1, `{"op":"add_part","part":"p0"}`),
			ok("t", 2, `{"op":"add_part","part":"p1"}`),
		}},
		{"undecodable", []journal.Entry{ok("s", 1, `{"op":`)}},
		{"command no longer applies", []journal.Entry{
			ok("s", 1, `{"op":"add_part","part":"p0"}`),
			ok("s", 2, `{"op":"add_part","part":"p0"}`),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Replay(ctx, tt.entries, WithLogger(newTestSession(t).logger))
			assert.Error(t, err)
		})
	}
}

func TestReplay_Empty(t *testing.T) {
	s, err := Replay(context.Background(), nil, WithID("fresh"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", s.ID())
	assert.Zero(t, s.Seq())
}

func TestCommand_CanonicalRoundTrip(t *testing.T) {
	cmds := []Command{
		{Op: OpUndo},
		{Op: OpAddHelix, Part: "p0", Helix: 3, Length: 21},
		{Op: OpClearStrand, Part: "p0", Helix: 1, Strand: dna.Staple, Index: 5, End: 2},
		{Op: OpSetFivePrime, Part: "p0", Helix: 1, Index: 2, To: &Locator{Part: "p1", Helix: 4, Strand: dna.Staple, Index: 9}},
	}
	for _, c := range cmds {
		args, err := c.MarshalCanonical()
		require.NoError(t, err)
		got, err := DecodeCommand(args)
		require.NoError(t, err)
		assert.Equal(t, c, got, args)
	}
}
