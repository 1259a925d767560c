package vhelix

import (
	"errors"

	"github.com/REC17/cadnano2/internal/vhelix/internal/connect"
)

// Part errors
var (
	// ErrDuplicatePart indicates a part id already present in the design.
	ErrDuplicatePart = errors.New("part already exists")

	// ErrPartNotFound indicates an unknown part id.
	ErrPartNotFound = errors.New("part not found")

	// ErrEmptyPartID indicates a part added without an id.
	ErrEmptyPartID = errors.New("part id is required")
)

// Helix errors
var (
	// ErrDuplicateHelix indicates a helix number already used in the part.
	ErrDuplicateHelix = errors.New("helix already exists")

	// ErrHelixNotFound indicates an unknown helix number.
	ErrHelixNotFound = errors.New("helix not found")

	// ErrHelixRemoved indicates an operation on a helix that was removed from its part.
	ErrHelixRemoved = errors.New("helix was removed")

	// ErrInvalidLength indicates a helix created with no bases.
	ErrInvalidLength = errors.New("helix length must be positive")
)

// Base errors
var (
	// ErrIndexOutOfRange indicates a base index outside the helix.
	ErrIndexOutOfRange = errors.New("base index out of range")

	// ErrInvalidStrandType indicates a strand type other than scaffold or staple.
	ErrInvalidStrandType = errors.New("invalid strand type")

	// ErrInvalidRange indicates a strand range that does not span two bases.
	ErrInvalidRange = errors.New("range must span at least two bases")

	// ErrForeignBase indicates a base from another design.
	ErrForeignBase = errors.New("base belongs to another design")

	// ErrNotCrossover indicates a crossover whose ends share a helix.
	ErrNotCrossover = errors.New("crossover must join two different helices")
)

// Edit errors
var (
	// ErrForeignEdit indicates an edit undone or redone through a helix that did not make it.
	ErrForeignEdit = errors.New("edit belongs to another helix")
)

// Engine errors, re-exported for callers outside the helix aggregate.
var (
	ErrSelfLink         = connect.ErrSelfLink
	ErrStaleBase        = connect.ErrStaleRef
	ErrInvalidUndoToken = connect.ErrInvalidUndoToken
	ErrTokenConflict    = connect.ErrTokenConflict
)

// InvariantError reports a broken connectivity invariant found by Verify.
type InvariantError = connect.InvariantError
