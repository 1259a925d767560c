package connect

import (
	"errors"
	"fmt"
)

// Reference errors
var (
	// ErrStaleRef indicates a handle to a slot that was released or never issued.
	ErrStaleRef = errors.New("stale base reference")

	// ErrSelfLink indicates an attempt to link a base to itself.
	ErrSelfLink = errors.New("base cannot link to itself")
)

// Undo errors
var (
	// ErrInvalidUndoToken indicates a nil token, a token issued by another pool,
	// or a token that is not in the state the operation requires.
	ErrInvalidUndoToken = errors.New("invalid undo token")

	// ErrTokenConflict indicates that a node touched by the token no longer holds
	// the linkage the token left behind.
	ErrTokenConflict = errors.New("linkage changed since token was issued")
)

// InvariantError reports a broken connectivity invariant.
//
// It never signals bad input: it means some path mutated links without going
// through the engine. Mutation paths raise it with panic; Verify returns it.
type InvariantError struct {
	Ref    Ref
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("connectivity invariant violated at %s: %s", e.Ref, e.Detail)
}
