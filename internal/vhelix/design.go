package vhelix

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/REC17/cadnano2/internal/dna"
	"github.com/REC17/cadnano2/internal/vhelix/internal/connect"
)

// Design owns the base pool and the parts whose helices allocate from it.
type Design struct {
	pool   *connect.Pool
	parts  map[dna.PartID]*Part
	order  []dna.PartID
	logger *slog.Logger
}

type options struct {
	checks bool
	logger *slog.Logger
}

// Option configures a Design.
type Option func(*options)

// WithInvariantChecks toggles the engine's per-mutation invariant check.
// Enabled by default.
func WithInvariantChecks(on bool) Option {
	return func(o *options) {
		o.checks = on
	}
}

// WithLogger sets the logger for structural changes. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// NewDesign creates an empty design.
func NewDesign(opts ...Option) *Design {
	o := options{checks: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return &Design{
		pool:   connect.NewPool(connect.WithInvariantChecks(o.checks)),
		parts:  make(map[dna.PartID]*Part),
		logger: o.logger,
	}
}

// AddPart creates a part with the given id.
func (d *Design) AddPart(id dna.PartID) (*Part, error) {
	if id == "" {
		return nil, ErrEmptyPartID
	}
	if _, ok := d.parts[id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicatePart, id)
	}
	p := &Part{
		id:      id,
		design:  d,
		helices: make(map[dna.HelixNumber]*VirtualHelix),
	}
	d.parts[id] = p
	d.order = append(d.order, id)
	d.logger.Debug("part added", "part", id)
	return p, nil
}

// Part returns the part with the given id.
func (d *Design) Part(id dna.PartID) (*Part, bool) {
	p, ok := d.parts[id]
	return p, ok
}

// Parts returns the parts in the order they were added.
func (d *Design) Parts() []*Part {
	parts := make([]*Part, 0, len(d.order))
	for _, id := range d.order {
		parts = append(parts, d.parts[id])
	}
	return parts
}

// RemovePart removes the part and every helix in it. Links from other parts
// into the removed helices are cleared.
func (d *Design) RemovePart(id dna.PartID) error {
	p, ok := d.parts[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPartNotFound, id)
	}
	for _, vh := range p.Helices() {
		if err := p.RemoveHelix(vh.number); err != nil {
			return fmt.Errorf("remove part %s: %w", id, err)
		}
	}
	delete(d.parts, id)
	for i, pid := range d.order {
		if pid == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	p.removed = true
	d.logger.Debug("part removed", "part", id)
	return nil
}

// Helix looks up a helix by part id and number.
func (d *Design) Helix(part dna.PartID, number dna.HelixNumber) (*VirtualHelix, error) {
	p, ok := d.parts[part]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, part)
	}
	vh, ok := p.helices[number]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%d", ErrHelixNotFound, part, number)
	}
	return vh, nil
}

// BaseCount returns the number of live bases across all parts.
func (d *Design) BaseCount() int {
	return d.pool.Len()
}

// Verify checks the connectivity invariants of every base in the design.
func (d *Design) Verify() error {
	return d.pool.Verify()
}

// Diagram renders every strand row of every helix, one line per row:
//
//	part p0
//	  0 scaffold -> _> <> <> <_
//	  0 staple   <- __ __ __ __
//
// The arrow gives the row's 5' to 3' direction in index order.
func (d *Design) Diagram() string {
	var b strings.Builder
	for _, p := range d.Parts() {
		fmt.Fprintf(&b, "part %s\n", p.id)
		for _, vh := range p.Helices() {
			for _, st := range dna.StrandTypes {
				dir := "<-"
				if vh.DirectionOfStrandIs5to3(st) {
					dir = "->"
				}
				bases := vh.Bases(st)
				cells := make([]string, len(bases))
				for i, b := range bases {
					cells[i] = b.String()
				}
				fmt.Fprintf(&b, "  %d %-8s %s %s\n", vh.number, st, dir, strings.Join(cells, " "))
			}
		}
	}
	return b.String()
}
