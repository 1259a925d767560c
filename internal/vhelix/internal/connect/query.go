package connect

import (
	"github.com/REC17/cadnano2/internal/dna"
)

// Queries panic on a stale handle, the same way an out-of-range slice index does.
// Callers holding handles across helix removal check Valid first.

// Link5 returns the 5' neighbor of r, or the zero Ref.
func (p *Pool) Link5(r Ref) Ref {
	return p.at(r).link5
}

// Link3 returns the 3' neighbor of r, or the zero Ref.
func (p *Pool) Link3(r Ref) Ref {
	return p.at(r).link3
}

// Helix returns the owning helix of r.
func (p *Pool) Helix(r Ref) dna.HelixContext {
	return p.at(r).helix
}

// StrandType returns the strand type r was allocated for.
func (p *Pool) StrandType(r Ref) dna.StrandType {
	return p.at(r).strand
}

// Index returns r's offset along its helix.
func (p *Pool) Index(r Ref) int {
	return p.at(r).index
}

// State classifies r by which links are set.
func (p *Pool) State(r Ref) dna.LinkState {
	s := p.at(r)
	return dna.StateOf(!s.link5.IsZero(), !s.link3.IsZero())
}

// IsEmpty reports a node with neither link set.
func (p *Pool) IsEmpty(r Ref) bool {
	s := p.at(r)
	return s.link5.IsZero() && s.link3.IsZero()
}

// Is5primeEnd reports a node with no 5' neighbor but a 3' neighbor.
func (p *Pool) Is5primeEnd(r Ref) bool {
	s := p.at(r)
	return s.link5.IsZero() && !s.link3.IsZero()
}

// Is3primeEnd reports a node with a 5' neighbor but no 3' neighbor.
func (p *Pool) Is3primeEnd(r Ref) bool {
	s := p.at(r)
	return !s.link5.IsZero() && s.link3.IsZero()
}

// IsEnd reports whether exactly one link is set.
func (p *Pool) IsEnd(r Ref) bool {
	s := p.at(r)
	return s.link5.IsZero() != s.link3.IsZero()
}

// IsStrand reports an interior node, one with both links set.
func (p *Pool) IsStrand(r Ref) bool {
	s := p.at(r)
	return !s.link5.IsZero() && !s.link3.IsZero()
}

// HelixNumber is the number of r's owning helix.
func (p *Pool) HelixNumber(r Ref) dna.HelixNumber {
	return p.at(r).helix.Number()
}

// PartID is the id of the part containing r's owning helix.
func (p *Pool) PartID(r Ref) dna.PartID {
	return p.at(r).helix.Part().ID()
}

// IsCrossover reports whether either neighbor of r lies on a helix with a
// different number or in a different part.
func (p *Pool) IsCrossover(r Ref) bool {
	s := p.at(r)
	if s.link5.IsZero() && s.link3.IsZero() {
		return false
	}
	num, part := p.HelixNumber(r), p.PartID(r)
	for _, n := range []Ref{s.link5, s.link3} {
		if n.IsZero() {
			continue
		}
		if p.HelixNumber(n) != num || p.PartID(n) != part {
			return true
		}
	}
	return false
}
