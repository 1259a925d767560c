package connect

import (
	"testing"

	"github.com/REC17/cadnano2/internal/dna"
)

type fakePart struct{ id dna.PartID }

func (p *fakePart) ID() dna.PartID { return p.id }

type fakeHelix struct {
	number dna.HelixNumber
	part   *fakePart
}

func (h *fakeHelix) DirectionOfStrandIs5to3(st dna.StrandType) bool {
	if h.number.Even() {
		return st == dna.Scaffold
	}
	return st == dna.Staple
}

func (h *fakeHelix) Number() dna.HelixNumber { return h.number }

func (h *fakeHelix) Part() dna.PartHandle { return h.part }

// allocRow allocates n scaffold nodes on h.
func allocRow(p *Pool, h *fakeHelix, n int) []Ref {
	refs := make([]Ref, n)
	for i := range refs {
		refs[i] = p.Alloc(h, dna.Scaffold, i)
	}
	return refs
}

// snapshot captures the linkage of every given node.
func snapshot(p *Pool, refs ...Ref) map[Ref][2]Ref {
	m := make(map[Ref][2]Ref, len(refs))
	for _, r := range refs {
		m[r] = [2]Ref{p.Link5(r), p.Link3(r)}
	}
	return m
}

// requireSymmetric checks invariant 1 across every pair of the given nodes.
func requireSymmetric(t *testing.T, p *Pool, refs ...Ref) {
	t.Helper()
	for _, a := range refs {
		for _, b := range refs {
			if (p.Link3(a) == b) != (p.Link5(b) == a) {
				t.Fatalf("asymmetric link between %s and %s", a, b)
			}
		}
	}
	if err := p.Verify(); err != nil {
		t.Fatalf("Verify() = %v", err)
	}
}
