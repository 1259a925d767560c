package vhelix

import (
	"github.com/REC17/cadnano2/internal/dna"
	"github.com/REC17/cadnano2/internal/vhelix/internal/connect"
)

// Base is a read-only view of one nucleotide position. It is a small value;
// copy it freely. Queries on a Base whose helix was removed panic, so callers
// that hold bases across structural changes check Valid first.
type Base struct {
	d   *Design
	ref connect.Ref
}

// IsZero reports whether b refers to no base.
func (b Base) IsZero() bool {
	return b.d == nil || b.ref.IsZero()
}

// Valid reports whether b still refers to a live base.
func (b Base) Valid() bool {
	return !b.IsZero() && b.d.pool.Valid(b.ref)
}

func (b Base) view(r connect.Ref) (Base, bool) {
	if r.IsZero() {
		return Base{}, false
	}
	return Base{d: b.d, ref: r}, true
}

// Helix returns the owning helix.
func (b Base) Helix() *VirtualHelix {
	return b.d.pool.Helix(b.ref).(*VirtualHelix)
}

// StrandType returns the strand b lies on.
func (b Base) StrandType() dna.StrandType {
	return b.d.pool.StrandType(b.ref)
}

// Index returns the offset along the helix.
func (b Base) Index() int {
	return b.d.pool.Index(b.ref)
}

// FivePrime returns the 5' neighbor, if any.
func (b Base) FivePrime() (Base, bool) {
	return b.view(b.d.pool.Link5(b.ref))
}

// ThreePrime returns the 3' neighbor, if any.
func (b Base) ThreePrime() (Base, bool) {
	return b.view(b.d.pool.Link3(b.ref))
}

// State returns which of the four link states b is in.
func (b Base) State() dna.LinkState {
	return b.d.pool.State(b.ref)
}

// IsEmpty reports a base with neither neighbor.
func (b Base) IsEmpty() bool { return b.d.pool.IsEmpty(b.ref) }

// Is5primeEnd reports a base with a 3' neighbor only.
func (b Base) Is5primeEnd() bool { return b.d.pool.Is5primeEnd(b.ref) }

// Is3primeEnd reports a base with a 5' neighbor only.
func (b Base) Is3primeEnd() bool { return b.d.pool.Is3primeEnd(b.ref) }

// IsEnd reports a base with exactly one neighbor.
func (b Base) IsEnd() bool { return b.d.pool.IsEnd(b.ref) }

// IsStrand reports an interior base, one with both neighbors.
func (b Base) IsStrand() bool { return b.d.pool.IsStrand(b.ref) }

// VhelixNumber returns the number of the owning helix.
func (b Base) VhelixNumber() dna.HelixNumber {
	return b.d.pool.HelixNumber(b.ref)
}

// PartID returns the id of the part containing the owning helix.
func (b Base) PartID() dna.PartID {
	return b.d.pool.PartID(b.ref)
}

// IsCrossover reports whether either neighbor lies on another helix.
func (b Base) IsCrossover() bool {
	return b.d.pool.IsCrossover(b.ref)
}

// String renders b as two symbols in index order, e.g. "<>" or "_3".
func (b Base) String() string {
	if b.IsZero() {
		return "base(none)"
	}
	if !b.Valid() {
		return "base(released)"
	}
	return b.d.pool.Render(b.ref)
}

// Describe renders b with its neighbors' coordinates, e.g. "(0.3, 4, 0.5)".
func (b Base) Describe() string {
	if b.IsZero() {
		return "base(none)"
	}
	if !b.Valid() {
		return "base(released)"
	}
	return b.d.pool.Describe(b.ref)
}

// Strand is the oligo containing a base, listed 5' to 3'.
type Strand struct {
	Bases    []Base
	Circular bool
}

// Strand walks b's oligo from its 5' end. For a circular oligo the listing
// starts at b. An Empty base is a strand of one.
func (b Base) Strand() (Strand, error) {
	pool := b.d.pool
	head, circular, err := pool.FivePrimeEnd(b.ref)
	if err != nil {
		return Strand{}, err
	}
	s := Strand{Circular: circular}
	if _, _, err := pool.Walk3(head, func(r connect.Ref) bool {
		s.Bases = append(s.Bases, Base{d: b.d, ref: r})
		return true
	}); err != nil {
		return Strand{}, err
	}
	return s, nil
}
