package connect

import (
	"fmt"
)

// Walk3 visits start and then each 3' neighbor in turn. It stops when a node
// has no 3' neighbor, when the walk comes back to start, or when visit returns
// false. steps counts the links followed; circular is true only when the walk
// came back to start.
//
// For a linear strand of N nodes entered at its 5' end, Walk3 visits N nodes in
// N-1 steps. For a circular strand of N nodes it takes N steps.
func (p *Pool) Walk3(start Ref, visit func(Ref) bool) (steps int, circular bool, err error) {
	return p.walk(start, threePrime, visit)
}

// Walk5 is Walk3 in the 5' direction.
func (p *Pool) Walk5(start Ref, visit func(Ref) bool) (steps int, circular bool, err error) {
	return p.walk(start, fivePrime, visit)
}

func (p *Pool) walk(start Ref, e end, visit func(Ref) bool) (int, bool, error) {
	if _, err := p.lookup(start); err != nil {
		return 0, false, err
	}

	cur, steps := start, 0
	for {
		if visit != nil && !visit(cur) {
			return steps, false, nil
		}
		next := p.slots[cur.index].link(e)
		if next.IsZero() {
			return steps, false, nil
		}
		steps++
		if next == start {
			return steps, true, nil
		}
		if steps > p.live {
			return steps, false, &InvariantError{Ref: start, Detail: "walk exceeded live node count"}
		}
		if _, err := p.lookup(next); err != nil {
			return steps, false, &InvariantError{Ref: cur, Detail: fmt.Sprintf("dangling link to %s", next)}
		}
		cur = next
	}
}

// FivePrimeEnd returns the 5' end of the strand containing r. For a circular
// strand there is no end; r itself is returned with circular set.
func (p *Pool) FivePrimeEnd(r Ref) (head Ref, circular bool, err error) {
	head = r
	_, circular, err = p.Walk5(r, func(n Ref) bool {
		head = n
		return true
	})
	if circular {
		head = r
	}
	return head, circular, err
}

// Verify scans every live node for the symmetry, no-self-link and
// no-dangling-reference invariants. It returns the first violation found.
func (p *Pool) Verify() error {
	for i := range p.slots {
		s := &p.slots[i]
		if !s.live {
			continue
		}
		if err := p.checkNode(Ref{index: uint32(i), gen: s.gen}); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pool) checkNode(r Ref) error {
	s := &p.slots[r.index]
	if s.link5 == r || s.link3 == r {
		return &InvariantError{Ref: r, Detail: "self link"}
	}
	if !s.link5.IsZero() {
		n, err := p.lookup(s.link5)
		if err != nil {
			return &InvariantError{Ref: r, Detail: fmt.Sprintf("dangling 5' link to %s", s.link5)}
		}
		if n.link3 != r {
			return &InvariantError{Ref: r, Detail: fmt.Sprintf("5' neighbor %s does not link back", s.link5)}
		}
	}
	if !s.link3.IsZero() {
		n, err := p.lookup(s.link3)
		if err != nil {
			return &InvariantError{Ref: r, Detail: fmt.Sprintf("dangling 3' link to %s", s.link3)}
		}
		if n.link5 != r {
			return &InvariantError{Ref: r, Detail: fmt.Sprintf("3' neighbor %s does not link back", s.link3)}
		}
	}
	return nil
}
