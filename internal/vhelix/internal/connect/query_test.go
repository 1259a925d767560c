package connect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/REC17/cadnano2/internal/dna"
)

func TestQueries_ExclusiveStates(t *testing.T) {
	p, h0, _ := newFixture(t)
	row := allocRow(p, h0, 4)
	_, err := p.SetThreePrime(row[0], row[1])
	require.NoError(t, err)
	_, err = p.SetThreePrime(row[1], row[2])
	require.NoError(t, err)

	tests := []struct {
		name  string
		ref   Ref
		state dna.LinkState
	}{
		{"five prime end", row[0], dna.FivePrimeEnd},
		{"interior", row[1], dna.Interior},
		{"three prime end", row[2], dna.ThreePrimeEnd},
		{"empty", row[3], dna.Empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.ref
			assert.Equal(t, tt.state, p.State(r))

			held := 0
			for _, b := range []bool{p.IsEmpty(r), p.Is5primeEnd(r), p.Is3primeEnd(r), p.IsStrand(r)} {
				if b {
					held++
				}
			}
			assert.Equal(t, 1, held, "exactly one state must hold")
			assert.Equal(t, p.Is5primeEnd(r) != p.Is3primeEnd(r), p.IsEnd(r))
		})
	}
}

func TestQueries_HelixAndPartIdentity(t *testing.T) {
	p, _, h1 := newFixture(t)
	r := p.Alloc(h1, dna.Staple, 2)

	assert.Equal(t, dna.HelixNumber(1), p.HelixNumber(r))
	assert.Equal(t, dna.PartID("p0"), p.PartID(r))
	assert.Same(t, h1, p.Helix(r))
}

func TestIsCrossover(t *testing.T) {
	p0 := &fakePart{id: "p0"}
	p1 := &fakePart{id: "p1"}
	h1 := &fakeHelix{number: 1, part: p0}
	h2 := &fakeHelix{number: 2, part: p0}
	h1Other := &fakeHelix{number: 1, part: p1}

	tests := []struct {
		name string
		from *fakeHelix
		to   *fakeHelix
		want bool
	}{
		{"same helix same part", h1, h1, false},
		{"different helix same part", h1, h2, true},
		{"same number different part", h1, h1Other, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPool()
			a := p.Alloc(tt.from, dna.Scaffold, 0)
			b := p.Alloc(tt.to, dna.Scaffold, 1)
			_, err := p.SetThreePrime(a, b)
			require.NoError(t, err)

			assert.Equal(t, tt.want, p.IsCrossover(a))
			assert.Equal(t, tt.want, p.IsCrossover(b))
		})
	}
}

func TestIsCrossover_EmptyAndOneSided(t *testing.T) {
	p, h0, h1 := newFixture(t)
	a := allocRow(p, h0, 3)
	x := p.Alloc(h1, dna.Scaffold, 2)

	assert.False(t, p.IsCrossover(a[0]), "empty node is never a crossover")

	_, err := p.SetThreePrime(a[0], a[1])
	require.NoError(t, err)
	_, err = p.SetThreePrime(a[1], x)
	require.NoError(t, err)

	assert.False(t, p.IsCrossover(a[0]))
	assert.True(t, p.IsCrossover(a[1]), "3' neighbor on another helix")
	assert.True(t, p.IsCrossover(x), "5' neighbor on another helix")
}

func TestRender(t *testing.T) {
	p, h0, h1 := newFixture(t)
	a := allocRow(p, h0, 4) // scaffold on even helix runs 5' to 3'
	b := allocRow(p, h1, 4) // scaffold on odd helix runs 3' to 5'
	for i := 0; i < 3; i++ {
		_, err := p.SetThreePrime(a[i], a[i+1])
		require.NoError(t, err)
	}
	for i := 3; i > 1; i-- {
		_, err := p.SetThreePrime(b[i], b[i-1])
		require.NoError(t, err)
	}

	assert.Equal(t, "_>", p.Render(a[0]))
	assert.Equal(t, "<>", p.Render(a[1]))
	assert.Equal(t, "<_", p.Render(a[3]))

	assert.Equal(t, "_>", p.Render(b[1]), "3' end of a reversed strand")
	assert.Equal(t, "<>", p.Render(b[2]))
	assert.Equal(t, "<_", p.Render(b[3]), "5' end of a reversed strand")
	assert.Equal(t, "__", p.Render(b[0]))

	// Crossover from the 3' end of helix 0 to the 5' end on helix 1.
	_, err := p.SetThreePrime(a[3], b[3])
	require.NoError(t, err)
	assert.Equal(t, "<1", p.Render(a[3]))
	assert.Equal(t, "<0", p.Render(b[3]))
}

func TestDescribe(t *testing.T) {
	p, h0, h1 := newFixture(t)
	a := allocRow(p, h0, 3)
	x := p.Alloc(h1, dna.Scaffold, 2)
	_, err := p.SetThreePrime(a[0], a[1])
	require.NoError(t, err)
	_, err = p.SetThreePrime(a[1], a[2])
	require.NoError(t, err)
	_, err = p.SetThreePrime(a[2], x)
	require.NoError(t, err)

	assert.Equal(t, "(0.0, 1, 0.2)", p.Describe(a[1]))
	assert.Equal(t, "(_, 0, 0.1)", p.Describe(a[0]))
	assert.Equal(t, "(_, 2, 0.2)", p.Describe(x), "reversed strand lists the 3' side first")
}
