// Package session is the command layer above the helix aggregate.
//
// A Session applies Commands to one vhelix.Design in a single writer loop. Each
// command is stamped with a logical sequence number, logged, and (when a
// Recorder is attached) journaled. Link edits go on an undo stack; undo and
// redo are themselves commands, so a journal of a session replays to the same
// design.
//
// Structural commands (add_part, add_helix, remove_helix, remove_part) are not
// undoable. Removing a helix leaves older edits on the stack; undoing one that
// touched the removed helix fails with EDIT_FAILED and changes nothing.
//
// A Session is not safe for concurrent use.
package session
