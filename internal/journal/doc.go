// Package journal is the durable edit log behind a session.
//
// Every command a session executes is appended as one row: the session id, the
// logical sequence number, the op, its arguments as canonical JSON, and whether
// it succeeded. Reading a session back returns rows in (seq, id) order, which
// is the order session.Replay needs to rebuild the design.
//
// Storage is SQLite in WAL mode with a single connection. Appends are
// idempotent: the row id is a content hash, so writing the same entry twice is
// a no-op.
package journal
