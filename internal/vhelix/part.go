package vhelix

import (
	"fmt"
	"sort"

	"github.com/REC17/cadnano2/internal/dna"
	"github.com/REC17/cadnano2/internal/vhelix/internal/connect"
)

// Part groups virtual helices. It implements dna.PartHandle.
type Part struct {
	id      dna.PartID
	design  *Design
	helices map[dna.HelixNumber]*VirtualHelix
	removed bool
}

var _ dna.PartHandle = (*Part)(nil)

// ID returns the part's identity.
func (p *Part) ID() dna.PartID {
	return p.id
}

// Design returns the design the part belongs to.
func (p *Part) Design() *Design {
	return p.design
}

// AddHelix creates a helix of length bases on each strand. Every base starts
// Empty.
func (p *Part) AddHelix(number dna.HelixNumber, length int) (*VirtualHelix, error) {
	if p.removed {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, p.id)
	}
	if length <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	if _, ok := p.helices[number]; ok {
		return nil, fmt.Errorf("%w: %s/%d", ErrDuplicateHelix, p.id, number)
	}

	vh := &VirtualHelix{
		number: number,
		part:   p,
		length: length,
	}
	for _, st := range dna.StrandTypes {
		refs := make([]connect.Ref, length)
		for i := range refs {
			refs[i] = p.design.pool.Alloc(vh, st, i)
		}
		vh.bases[st] = refs
	}
	p.helices[number] = vh
	p.design.logger.Debug("helix added", "part", p.id, "helix", number, "length", length)
	return vh, nil
}

// Helix returns the helix with the given number.
func (p *Part) Helix(number dna.HelixNumber) (*VirtualHelix, bool) {
	vh, ok := p.helices[number]
	return vh, ok
}

// Helices returns the part's helices in ascending number order.
func (p *Part) Helices() []*VirtualHelix {
	out := make([]*VirtualHelix, 0, len(p.helices))
	for _, vh := range p.helices {
		out = append(out, vh)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].number < out[j].number })
	return out
}

// RemoveHelix releases every base of the helix, evicting it from any strand
// that crossed into it. Edits that touched those bases can no longer be undone.
func (p *Part) RemoveHelix(number dna.HelixNumber) error {
	vh, ok := p.helices[number]
	if !ok {
		return fmt.Errorf("%w: %s/%d", ErrHelixNotFound, p.id, number)
	}
	for _, st := range dna.StrandTypes {
		for _, r := range vh.bases[st] {
			if err := p.design.pool.Release(r); err != nil {
				return fmt.Errorf("remove helix %s/%d: %w", p.id, number, err)
			}
		}
		vh.bases[st] = nil
	}
	vh.removed = true
	delete(p.helices, number)
	p.design.logger.Debug("helix removed", "part", p.id, "helix", number)
	return nil
}
