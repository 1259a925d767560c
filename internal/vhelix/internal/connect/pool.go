// Package connect is the base-level connectivity engine.
//
// Every nucleotide position lives in a slot of a Pool and is addressed by a Ref,
// a checked (index, generation) handle. Links between positions are Refs too, so
// circular strands are plain cycles of indices and a released slot can never be
// reached through an old handle.
//
// The pool is the sole writer of link fields. Each Set call updates both sides of
// every link it creates or breaks before returning, and hands back an UndoToken
// holding the exact before and after linkage of every node it touched.
//
// The package sits under vhelix/internal so that only the helix aggregate can
// import it; everything else sees the read-only vhelix.Base view.
//
// Concurrency: a Pool is not safe for concurrent use. All mutation comes from one
// logical actor, and no intermediate state is observable between calls.
package connect

import (
	"fmt"

	"github.com/REC17/cadnano2/internal/dna"
)

// Ref is a handle to a slot in a Pool. The zero Ref means "no base".
type Ref struct {
	index uint32
	gen   uint32
}

// IsZero reports whether r refers to no base.
func (r Ref) IsZero() bool {
	return r.gen == 0
}

func (r Ref) String() string {
	if r.IsZero() {
		return "ref(none)"
	}
	return fmt.Sprintf("ref(%d#%d)", r.index, r.gen)
}

type slot struct {
	helix  dna.HelixContext
	strand dna.StrandType
	index  int

	gen  uint32
	live bool

	link5 Ref
	link3 Ref
}

// Pool owns the Position Nodes of a design.
type Pool struct {
	slots  []slot
	free   []uint32
	live   int
	checks bool
}

// Option configures a Pool.
type Option func(*Pool)

// WithInvariantChecks enables or disables the local invariant check run after
// every mutation. Enabled by default.
func WithInvariantChecks(on bool) Option {
	return func(p *Pool) {
		p.checks = on
	}
}

// NewPool creates an empty pool.
func NewPool(opts ...Option) *Pool {
	p := &Pool{checks: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Alloc creates an Empty node for (helix, strand, index) and returns its handle.
func (p *Pool) Alloc(h dna.HelixContext, st dna.StrandType, index int) Ref {
	var i uint32
	if n := len(p.free); n > 0 {
		i = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		p.slots = append(p.slots, slot{})
		i = uint32(len(p.slots) - 1)
	}

	s := &p.slots[i]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.helix = h
	s.strand = st
	s.index = index
	s.live = true
	s.link5 = Ref{}
	s.link3 = Ref{}
	p.live++

	return Ref{index: i, gen: s.gen}
}

// Release evicts the node from both of its neighbors and frees the slot.
// The handle, and every token that touched it, is stale afterwards.
func (p *Pool) Release(r Ref) error {
	s, err := p.lookup(r)
	if err != nil {
		return err
	}
	if !s.link5.IsZero() {
		if _, err := p.set(r, fivePrime, Ref{}); err != nil {
			return err
		}
	}
	if !s.link3.IsZero() {
		if _, err := p.set(r, threePrime, Ref{}); err != nil {
			return err
		}
	}

	s.live = false
	s.helix = nil
	p.free = append(p.free, r.index)
	p.live--
	return nil
}

// Len returns the number of live nodes.
func (p *Pool) Len() int {
	return p.live
}

// Valid reports whether r refers to a live node of this pool.
func (p *Pool) Valid(r Ref) bool {
	_, err := p.lookup(r)
	return err == nil
}

// lookup is the checked dereference used by every operation.
func (p *Pool) lookup(r Ref) (*slot, error) {
	if r.IsZero() || int(r.index) >= len(p.slots) {
		return nil, fmt.Errorf("%w: %s", ErrStaleRef, r)
	}
	s := &p.slots[r.index]
	if !s.live || s.gen != r.gen {
		return nil, fmt.Errorf("%w: %s", ErrStaleRef, r)
	}
	return s, nil
}

// at dereferences a handle that queries require to be valid.
func (p *Pool) at(r Ref) *slot {
	s, err := p.lookup(r)
	if err != nil {
		panic(fmt.Sprintf("connect: query on %v", err))
	}
	return s
}
