package connect

import (
	"fmt"
	"strconv"
)

const placeholder = "_"

// Render returns the two-symbol diagnostic form of r.
//
// Each neighbor renders as an arrow when it shares r's helix, as its helix
// number when it does not, and as "_" when absent. On a strand running 5' to 3'
// with ascending index the 5' symbol comes first; otherwise the 3' symbol does,
// so the text follows index order along the helix.
func (p *Pool) Render(r Ref) string {
	s := p.at(r)
	fiveTo3 := s.helix.DirectionOfStrandIs5to3(s.strand)

	threeB, fiveB := placeholder, placeholder
	if !s.link3.IsZero() {
		if p.at(s.link3).helix == s.helix {
			threeB = arrow(fiveTo3, ">", "<")
		} else {
			threeB = strconv.Itoa(int(p.HelixNumber(s.link3)))
		}
	}
	if !s.link5.IsZero() {
		if p.at(s.link5).helix == s.helix {
			fiveB = arrow(fiveTo3, "<", ">")
		} else {
			fiveB = strconv.Itoa(int(p.HelixNumber(s.link5)))
		}
	}

	if fiveTo3 {
		return fiveB + threeB
	}
	return threeB + fiveB
}

func arrow(fiveTo3 bool, forward, reverse string) string {
	if fiveTo3 {
		return forward
	}
	return reverse
}

// Describe returns r with its neighbors' coordinates, in index order:
// "(b5, n, b3)" on a 5' to 3' strand and "(b3, n, b5)" otherwise, where each
// neighbor is "helix.index" or "_".
func (p *Pool) Describe(r Ref) string {
	s := p.at(r)
	b5, b3 := p.coord(s.link5), p.coord(s.link3)
	if s.helix.DirectionOfStrandIs5to3(s.strand) {
		return fmt.Sprintf("(%s, %d, %s)", b5, s.index, b3)
	}
	return fmt.Sprintf("(%s, %d, %s)", b3, s.index, b5)
}

func (p *Pool) coord(r Ref) string {
	if r.IsZero() {
		return placeholder
	}
	n := p.at(r)
	return fmt.Sprintf("%d.%d", n.helix.Number(), n.index)
}
