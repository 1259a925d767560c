package vhelix

import (
	"fmt"

	"github.com/REC17/cadnano2/internal/vhelix/internal/connect"
)

// Edit is the undo record of one helix mutation. It holds the engine tokens in
// the order they were issued.
type Edit struct {
	helix  *VirtualHelix
	label  string
	tokens []*connect.UndoToken
}

// Label names the mutation that produced the edit, e.g. "set_3p 0.scaffold[4]".
func (e *Edit) Label() string {
	return e.label
}

// Helix returns the helix that made the edit.
func (e *Edit) Helix() *VirtualHelix {
	return e.helix
}

// Steps returns the number of engine calls the edit bundles.
func (e *Edit) Steps() int {
	return len(e.tokens)
}

// Undone reports whether the edit is currently undone.
func (e *Edit) Undone() bool {
	return len(e.tokens) > 0 && e.tokens[0].Undone()
}

// Live reports whether the edit can still be undone or redone: its helix is
// still in the design and none of the bases it touched were released.
func (e *Edit) Live() bool {
	if e.helix.Removed() {
		return false
	}
	for _, tok := range e.tokens {
		if !tok.Live() {
			return false
		}
	}
	return true
}

// Undo reverts an edit made by this helix. The edit is reverted completely or
// not at all.
func (vh *VirtualHelix) Undo(e *Edit) error {
	if err := vh.owns(e); err != nil {
		return err
	}
	if err := vh.design().pool.Undo(e.tokens...); err != nil {
		return fmt.Errorf("undo %s: %w", e.label, err)
	}
	return nil
}

// Redo re-applies an undone edit made by this helix.
func (vh *VirtualHelix) Redo(e *Edit) error {
	if err := vh.owns(e); err != nil {
		return err
	}
	if err := vh.design().pool.Redo(e.tokens...); err != nil {
		return fmt.Errorf("redo %s: %w", e.label, err)
	}
	return nil
}

func (vh *VirtualHelix) owns(e *Edit) error {
	if e == nil {
		return fmt.Errorf("%w: nil edit", ErrInvalidUndoToken)
	}
	if e.helix != vh {
		return fmt.Errorf("%w: %s", ErrForeignEdit, e.label)
	}
	if vh.removed {
		return fmt.Errorf("%w: %s/%d", ErrHelixRemoved, vh.part.id, vh.number)
	}
	return nil
}

// recorder collects the tokens of a composite edit and rolls them back if a
// later step fails.
type recorder struct {
	pool   *connect.Pool
	tokens []*connect.UndoToken
}

func (r *recorder) add(tok *connect.UndoToken, err error) error {
	if err != nil {
		if len(r.tokens) > 0 {
			if uerr := r.pool.Undo(r.tokens...); uerr != nil {
				return fmt.Errorf("%w (rollback failed: %v)", err, uerr)
			}
		}
		return err
	}
	r.tokens = append(r.tokens, tok)
	return nil
}
