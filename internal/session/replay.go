package session

import (
	"context"
	"fmt"

	"github.com/REC17/cadnano2/internal/journal"
)

// Replay rebuilds a session from its journal. Successful entries are executed
// again in order and failed ones are skipped; a replayed command that fails is
// an error, since the journal says it once succeeded. The rebuilt session keeps
// the journaled id and resumes its clock after the last journaled seq.
//
// opts apply after the replay defaults, so callers can attach a logger. A
// Recorder passed in opts only sees commands executed after Replay returns.
func Replay(ctx context.Context, entries []journal.Entry, opts ...Option) (*Session, error) {
	s := New(opts...)
	recorder := s.recorder
	s.recorder = nil

	var last int64
	for _, e := range entries {
		if s.id != e.Session {
			if last != 0 {
				return nil, fmt.Errorf("replay: entry seq %d belongs to session %s, not %s", e.Seq, e.Session, s.id)
			}
			s.id = e.Session
		}
		if e.Seq <= last {
			return nil, fmt.Errorf("replay: seq %d out of order after %d", e.Seq, last)
		}
		last = e.Seq
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.OK() {
			continue
		}

		cmd, err := DecodeCommand(e.Args)
		if err != nil {
			return nil, fmt.Errorf("replay seq %d: %w", e.Seq, err)
		}
		if _, err := s.Execute(ctx, cmd); err != nil {
			return nil, fmt.Errorf("replay seq %d: %w", e.Seq, err)
		}
	}

	s.clock = NewClockAt(last)
	s.recorder = recorder
	return s, nil
}
