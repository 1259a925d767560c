package vhelix

import (
	"fmt"

	"github.com/REC17/cadnano2/internal/dna"
	"github.com/REC17/cadnano2/internal/vhelix/internal/connect"
)

// VirtualHelix owns one scaffold row and one staple row of bases.
// It implements dna.HelixContext.
type VirtualHelix struct {
	number  dna.HelixNumber
	part    *Part
	length  int
	bases   [2][]connect.Ref
	removed bool
}

var _ dna.HelixContext = (*VirtualHelix)(nil)

// Number returns the helix number within its part.
func (vh *VirtualHelix) Number() dna.HelixNumber {
	return vh.number
}

// Part returns the containing part as a handle.
func (vh *VirtualHelix) Part() dna.PartHandle {
	return vh.part
}

// Owner returns the containing part.
func (vh *VirtualHelix) Owner() *Part {
	return vh.part
}

// Length returns the number of bases on each strand.
func (vh *VirtualHelix) Length() int {
	return vh.length
}

// Removed reports whether the helix was removed from its part.
func (vh *VirtualHelix) Removed() bool {
	return vh.removed
}

// DirectionOfStrandIs5to3 reports whether strand st runs 5' to 3' with
// ascending index.
func (vh *VirtualHelix) DirectionOfStrandIs5to3(st dna.StrandType) bool {
	if vh.number.Even() {
		return st == dna.Scaffold
	}
	return st == dna.Staple
}

func (vh *VirtualHelix) design() *Design {
	return vh.part.design
}

func (vh *VirtualHelix) String() string {
	return fmt.Sprintf("%s/%d", vh.part.id, vh.number)
}

// Base returns the base at index i of strand st.
func (vh *VirtualHelix) Base(st dna.StrandType, i int) (Base, error) {
	r, err := vh.ref(st, i)
	if err != nil {
		return Base{}, err
	}
	return Base{d: vh.design(), ref: r}, nil
}

// Bases returns every base of strand st in index order.
func (vh *VirtualHelix) Bases(st dna.StrandType) []Base {
	if !st.Valid() || vh.removed {
		return nil
	}
	out := make([]Base, len(vh.bases[st]))
	for i, r := range vh.bases[st] {
		out[i] = Base{d: vh.design(), ref: r}
	}
	return out
}

func (vh *VirtualHelix) ref(st dna.StrandType, i int) (connect.Ref, error) {
	if vh.removed {
		return connect.Ref{}, fmt.Errorf("%w: %s", ErrHelixRemoved, vh)
	}
	if !st.Valid() {
		return connect.Ref{}, fmt.Errorf("%w: %d", ErrInvalidStrandType, st)
	}
	if i < 0 || i >= vh.length {
		return connect.Ref{}, fmt.Errorf("%w: %s.%s[%d] (length %d)", ErrIndexOutOfRange, vh, st, i, vh.length)
	}
	return vh.bases[st][i], nil
}

// resolve maps a Base argument to a pool handle. The zero Base means "none".
func (vh *VirtualHelix) resolve(b Base) (connect.Ref, error) {
	if b.IsZero() {
		return connect.Ref{}, nil
	}
	if b.d != vh.design() {
		return connect.Ref{}, ErrForeignBase
	}
	if !b.Valid() {
		return connect.Ref{}, fmt.Errorf("%w: %s", ErrStaleBase, b.ref)
	}
	return b.ref, nil
}

func (vh *VirtualHelix) single(label string, st dna.StrandType, i int, to Base,
	set func(self, other connect.Ref) (*connect.UndoToken, error)) (*Edit, error) {
	self, err := vh.ref(st, i)
	if err != nil {
		return nil, err
	}
	other, err := vh.resolve(to)
	if err != nil {
		return nil, err
	}
	tok, err := set(self, other)
	if err != nil {
		return nil, fmt.Errorf("%s %s.%s[%d]: %w", label, vh, st, i, err)
	}
	return &Edit{
		helix:  vh,
		label:  fmt.Sprintf("%s %d.%s[%d]", label, vh.number, st, i),
		tokens: []*connect.UndoToken{tok},
	}, nil
}

// SetFivePrime makes to the 5' neighbor of base (st, i). A zero to clears the
// link. Any previous partners on either side are evicted.
func (vh *VirtualHelix) SetFivePrime(st dna.StrandType, i int, to Base) (*Edit, error) {
	return vh.single("set_5p", st, i, to, vh.design().pool.SetFivePrime)
}

// SetThreePrime makes to the 3' neighbor of base (st, i). A zero to clears the
// link.
func (vh *VirtualHelix) SetThreePrime(st dna.StrandType, i int, to Base) (*Edit, error) {
	return vh.single("set_3p", st, i, to, vh.design().pool.SetThreePrime)
}

// ClearFivePrime removes the 5' link of base (st, i) on both sides.
func (vh *VirtualHelix) ClearFivePrime(st dna.StrandType, i int) (*Edit, error) {
	return vh.single("clear_5p", st, i, Base{}, vh.design().pool.SetFivePrime)
}

// ClearThreePrime removes the 3' link of base (st, i) on both sides.
func (vh *VirtualHelix) ClearThreePrime(st dna.StrandType, i int) (*Edit, error) {
	return vh.single("clear_3p", st, i, Base{}, vh.design().pool.SetThreePrime)
}

func (vh *VirtualHelix) span(st dna.StrandType, from, to int) ([]connect.Ref, error) {
	if from > to {
		from, to = to, from
	}
	if from == to {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, from, to)
	}
	if _, err := vh.ref(st, from); err != nil {
		return nil, err
	}
	if _, err := vh.ref(st, to); err != nil {
		return nil, err
	}
	return vh.bases[st][from : to+1], nil
}

// ConnectStrand links every consecutive pair of bases in [from, to] so that the
// range becomes one strand running in st's 5' to 3' direction. The bounds may
// be given in either order.
func (vh *VirtualHelix) ConnectStrand(st dna.StrandType, from, to int) (*Edit, error) {
	refs, err := vh.span(st, from, to)
	if err != nil {
		return nil, err
	}
	pool := vh.design().pool
	rec := &recorder{pool: pool}
	fiveTo3 := vh.DirectionOfStrandIs5to3(st)
	for i := 0; i+1 < len(refs); i++ {
		up, down := refs[i], refs[i+1]
		if !fiveTo3 {
			up, down = down, up
		}
		if err := rec.add(pool.SetThreePrime(up, down)); err != nil {
			return nil, fmt.Errorf("connect_strand %s.%s: %w", vh, st, err)
		}
	}
	return &Edit{
		helix:  vh,
		label:  fmt.Sprintf("connect_strand %d.%s[%d:%d]", vh.number, st, min(from, to), max(from, to)),
		tokens: rec.tokens,
	}, nil
}

// ClearStrand unlinks every base in [from, to], including links that leave the
// range.
func (vh *VirtualHelix) ClearStrand(st dna.StrandType, from, to int) (*Edit, error) {
	refs, err := vh.span(st, from, to)
	if err != nil {
		return nil, err
	}
	pool := vh.design().pool
	rec := &recorder{pool: pool}
	for _, r := range refs {
		if !pool.Link5(r).IsZero() {
			if err := rec.add(pool.SetFivePrime(r, connect.Ref{})); err != nil {
				return nil, fmt.Errorf("clear_strand %s.%s: %w", vh, st, err)
			}
		}
		if !pool.Link3(r).IsZero() {
			if err := rec.add(pool.SetThreePrime(r, connect.Ref{})); err != nil {
				return nil, fmt.Errorf("clear_strand %s.%s: %w", vh, st, err)
			}
		}
	}
	return &Edit{
		helix:  vh,
		label:  fmt.Sprintf("clear_strand %d.%s[%d:%d]", vh.number, st, min(from, to), max(from, to)),
		tokens: rec.tokens,
	}, nil
}

// InstallCrossover makes to, a base on another helix, the 3' neighbor of base
// (st, i).
func (vh *VirtualHelix) InstallCrossover(st dna.StrandType, i int, to Base) (*Edit, error) {
	if to.IsZero() {
		return nil, fmt.Errorf("%w: no target base", ErrNotCrossover)
	}
	if _, err := vh.resolve(to); err != nil {
		return nil, err
	}
	if to.Helix() == vh {
		return nil, fmt.Errorf("%w: %s", ErrNotCrossover, vh)
	}
	return vh.single("crossover", st, i, to, vh.design().pool.SetThreePrime)
}
