package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Outcome values stored with each entry.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Entry is one journaled command.
type Entry struct {
	ID      string
	Session string
	Seq     int64
	Op      string
	// Args is the command as canonical JSON.
	Args    string
	Outcome string
	Error   string
}

// OK reports whether the command succeeded.
func (e Entry) OK() bool {
	return e.Outcome == OutcomeOK
}

// ErrInvalidEntry is returned by Append for entries missing a required field.
var ErrInvalidEntry = errors.New("invalid journal entry")

// Append writes e. A missing ID is filled with EntryID. Appending the same
// entry twice is a no-op.
func (j *Journal) Append(ctx context.Context, e Entry) error {
	if e.Session == "" || e.Op == "" || e.Seq <= 0 {
		return fmt.Errorf("%w: session=%q op=%q seq=%d", ErrInvalidEntry, e.Session, e.Op, e.Seq)
	}
	if e.Outcome != OutcomeOK && e.Outcome != OutcomeError {
		return fmt.Errorf("%w: outcome %q", ErrInvalidEntry, e.Outcome)
	}
	if e.Args == "" {
		e.Args = "{}"
	}
	if e.ID == "" {
		id, err := EntryID(e.Session, e.Seq, e.Op, e.Args)
		if err != nil {
			return fmt.Errorf("append: %w", err)
		}
		e.ID = id
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO edits (id, session, seq, op, args, outcome, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, e.ID, e.Session, e.Seq, e.Op, e.Args, e.Outcome, e.Error)
	if err != nil {
		return fmt.Errorf("append: %w", err)
	}
	return nil
}

// Read returns every entry of session ordered by seq, then id. An unknown
// session yields an empty slice.
func (j *Journal) Read(ctx context.Context, session string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, session, seq, op, args, outcome, error
		FROM edits
		WHERE session = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, session)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", session, err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Session, &e.Seq, &e.Op, &e.Args, &e.Outcome, &e.Error); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// Sessions lists session ids in the order they first wrote to the journal.
func (j *Journal) Sessions(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session FROM edits
		GROUP BY session
		ORDER BY MIN(rowid) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// LastSeq returns the highest seq journaled for session, or 0.
func (j *Journal) LastSeq(ctx context.Context, session string) (int64, error) {
	var seq sql.NullInt64
	err := j.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM edits WHERE session = ?`, session).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq %s: %w", session, err)
	}
	return seq.Int64, nil
}
