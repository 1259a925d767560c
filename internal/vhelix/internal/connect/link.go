package connect

import (
	"fmt"
)

// end selects one of a node's two link fields.
type end int

const (
	fivePrime end = iota
	threePrime
)

func (e end) opposite() end {
	if e == fivePrime {
		return threePrime
	}
	return fivePrime
}

func (s *slot) link(e end) Ref {
	if e == fivePrime {
		return s.link5
	}
	return s.link3
}

func (s *slot) setLink(e end, r Ref) {
	if e == fivePrime {
		s.link5 = r
	} else {
		s.link3 = r
	}
}

// linkRecord is the full linkage of one node at one instant.
type linkRecord struct {
	ref   Ref
	link5 Ref
	link3 Ref
}

// UndoToken is the memento of one Set call: the linkage of every node the call
// touched, before and after. Undo restores "before" only while the nodes still
// hold "after", so a token can never resurrect a since-mutated neighbor.
type UndoToken struct {
	pool   *Pool
	before []linkRecord
	after  []linkRecord
	undone bool
}

// Undone reports whether the token has been undone and not redone since.
func (t *UndoToken) Undone() bool {
	return t.undone
}

// Touched returns the number of distinct nodes the operation touched.
func (t *UndoToken) Touched() int {
	return len(t.before)
}

// Live reports whether every node the token recorded, and every neighbor it
// would write back, is still allocated. A token that is not live can never be
// undone or redone.
func (t *UndoToken) Live() bool {
	for _, recs := range [][]linkRecord{t.before, t.after} {
		for _, rec := range recs {
			for _, r := range []Ref{rec.ref, rec.link5, rec.link3} {
				if !r.IsZero() && !t.pool.Valid(r) {
					return false
				}
			}
		}
	}
	return true
}

// SetFivePrime makes other the 5' neighbor of self, or clears self's 5' link
// when other is the zero Ref. The displaced 5' neighbor of self and the displaced
// 3' neighbor of other are evicted on both sides.
func (p *Pool) SetFivePrime(self, other Ref) (*UndoToken, error) {
	return p.set(self, fivePrime, other)
}

// SetThreePrime makes other the 3' neighbor of self, or clears self's 3' link
// when other is the zero Ref. Mirror of SetFivePrime.
func (p *Pool) SetThreePrime(self, other Ref) (*UndoToken, error) {
	return p.set(self, threePrime, other)
}

// set links self's e-side to other and other's opposite side to self.
// All checks happen before the first write.
func (p *Pool) set(self Ref, e end, other Ref) (*UndoToken, error) {
	s, err := p.lookup(self)
	if err != nil {
		return nil, err
	}
	var o *slot
	if !other.IsZero() {
		if other == self {
			return nil, fmt.Errorf("%w: %s", ErrSelfLink, self)
		}
		if o, err = p.lookup(other); err != nil {
			return nil, err
		}
	}

	opp := e.opposite()
	tok := &UndoToken{pool: p}
	seen := make(map[Ref]bool, 4)
	touch := func(r Ref) {
		if !seen[r] {
			seen[r] = true
			n := &p.slots[r.index]
			tok.before = append(tok.before, linkRecord{ref: r, link5: n.link5, link3: n.link3})
		}
	}

	touch(self)
	oldSelf := s.link(e)
	var oldOther Ref
	if o != nil {
		touch(other)
		oldOther = o.link(opp)
	}
	if !oldSelf.IsZero() {
		touch(oldSelf)
	}
	if !oldOther.IsZero() {
		touch(oldOther)
	}

	if !oldSelf.IsZero() {
		if n := p.at(oldSelf); n.link(opp) == self {
			n.setLink(opp, Ref{})
		}
	}
	if !oldOther.IsZero() {
		if n := p.at(oldOther); n.link(e) == other {
			n.setLink(e, Ref{})
		}
	}
	s.setLink(e, other)
	if o != nil {
		o.setLink(opp, self)
	}

	tok.after = make([]linkRecord, len(tok.before))
	for i, rec := range tok.before {
		n := &p.slots[rec.ref.index]
		tok.after[i] = linkRecord{ref: rec.ref, link5: n.link5, link3: n.link3}
	}

	if p.checks {
		p.assertLocal(tok.after)
	}
	return tok, nil
}

// Undo restores the linkage recorded by the tokens, last token first.
// Either every token is undone or none is.
func (p *Pool) Undo(toks ...*UndoToken) error {
	for i := len(toks) - 1; i >= 0; i-- {
		if err := p.restore(toks[i], true); err != nil {
			for j := i + 1; j < len(toks); j++ {
				p.write(toks[j].after)
				toks[j].undone = false
			}
			return err
		}
	}
	return nil
}

// Redo re-applies undone tokens, first token first.
// Either every token is redone or none is.
func (p *Pool) Redo(toks ...*UndoToken) error {
	for i, tok := range toks {
		if err := p.restore(tok, false); err != nil {
			for j := i - 1; j >= 0; j-- {
				p.write(toks[j].before)
				toks[j].undone = true
			}
			return err
		}
	}
	return nil
}

// restore moves one token from "after" to "before" (undo) or back (redo).
func (p *Pool) restore(tok *UndoToken, undo bool) error {
	if tok == nil || tok.pool != p {
		return fmt.Errorf("%w: token not issued by this pool", ErrInvalidUndoToken)
	}
	if tok.undone == undo {
		if undo {
			return fmt.Errorf("%w: token already undone", ErrInvalidUndoToken)
		}
		return fmt.Errorf("%w: token not undone", ErrInvalidUndoToken)
	}

	expect, target := tok.after, tok.before
	if !undo {
		expect, target = tok.before, tok.after
	}
	for _, rec := range expect {
		n, err := p.lookup(rec.ref)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTokenConflict, err)
		}
		if n.link5 != rec.link5 || n.link3 != rec.link3 {
			return fmt.Errorf("%w: %s", ErrTokenConflict, rec.ref)
		}
	}
	for _, rec := range target {
		for _, l := range []Ref{rec.link5, rec.link3} {
			if !l.IsZero() && !p.Valid(l) {
				return fmt.Errorf("%w: neighbor %s was released", ErrTokenConflict, l)
			}
		}
	}

	p.write(target)
	tok.undone = undo
	if p.checks {
		p.assertLocal(target)
	}
	return nil
}

// write assigns recorded linkage verbatim. Records always cover both sides of
// every link they create or break, so symmetry is preserved.
func (p *Pool) write(recs []linkRecord) {
	for _, rec := range recs {
		n := &p.slots[rec.ref.index]
		n.link5 = rec.link5
		n.link3 = rec.link3
	}
}

// assertLocal panics if any recorded node breaks symmetry or self-linking.
func (p *Pool) assertLocal(recs []linkRecord) {
	for _, rec := range recs {
		if err := p.checkNode(rec.ref); err != nil {
			panic(err)
		}
	}
}
