package harness

import (
	"fmt"
	"strings"

	"github.com/REC17/cadnano2/internal/dna"
	"github.com/REC17/cadnano2/internal/session"
	"github.com/REC17/cadnano2/internal/vhelix"
)

// AssertionError is returned when an assertion fails. It carries the design
// diagram so the failure can be read without rerunning the scenario.
type AssertionError struct {
	Type     string
	At       string
	Expected string
	Actual   string
	Diagram  string
}

func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s", e.Type)
	if e.At != "" {
		fmt.Fprintf(&buf, " at %s", e.At)
	}
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Diagram != "" {
		fmt.Fprintf(&buf, "\nDesign:\n%s", e.Diagram)
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion against d and returns one message
// per failure. Locators without a part resolve against defaultPart.
func EvaluateAssertions(d *vhelix.Design, assertions []Assertion, defaultPart dna.PartID) []string {
	var errs []string

	for i, a := range assertions {
		var err error
		if a.Type == AssertInvariants {
			if verr := d.Verify(); verr != nil {
				err = &AssertionError{Type: a.Type, Expected: "no violations", Actual: verr.Error()}
			}
		} else {
			err = evaluateAt(d, a, defaultPart)
		}

		if err != nil {
			if ae, ok := err.(*AssertionError); ok {
				ae.Diagram = d.Diagram()
			}
			errs = append(errs, fmt.Sprintf("assertion[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAt(d *vhelix.Design, a Assertion, defaultPart dna.PartID) error {
	if a.At == nil {
		return fmt.Errorf("%s requires at", a.Type)
	}
	at := withPart(*a.At, defaultPart)
	b, err := locate(d, at)
	if err != nil {
		return err
	}

	switch a.Type {
	case AssertState:
		return assertState(b, at, a)
	case AssertCrossover:
		return assertCrossover(b, at, a)
	case AssertRender:
		return assertRender(b, at, a)
	case AssertNeighbor:
		return assertNeighbor(b, at, a)
	case AssertStrand:
		return assertStrand(b, at, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func withPart(l session.Locator, part dna.PartID) session.Locator {
	if l.Part == "" {
		l.Part = part
	}
	return l
}

func locate(d *vhelix.Design, l session.Locator) (vhelix.Base, error) {
	vh, err := d.Helix(l.Part, l.Helix)
	if err != nil {
		return vhelix.Base{}, fmt.Errorf("locate %s: %w", l, err)
	}
	b, err := vh.Base(l.Strand, l.Index)
	if err != nil {
		return vhelix.Base{}, fmt.Errorf("locate %s: %w", l, err)
	}
	return b, nil
}

func locatorOf(b vhelix.Base) session.Locator {
	return session.Locator{Part: b.PartID(), Helix: b.VhelixNumber(), Strand: b.StrandType(), Index: b.Index()}
}

func assertState(b vhelix.Base, at session.Locator, a Assertion) error {
	want, err := dna.ParseLinkState(a.Expect)
	if err != nil {
		return err
	}
	if got := b.State(); got != want {
		return &AssertionError{Type: a.Type, At: at.String(), Expected: want.String(), Actual: got.String()}
	}
	return nil
}

func assertCrossover(b vhelix.Base, at session.Locator, a Assertion) error {
	if a.Crossover == nil {
		return fmt.Errorf("crossover requires crossover: true|false")
	}
	if got := b.IsCrossover(); got != *a.Crossover {
		return &AssertionError{
			Type: a.Type, At: at.String(),
			Expected: fmt.Sprintf("crossover=%t", *a.Crossover),
			Actual:   fmt.Sprintf("crossover=%t (%s)", got, b.Describe()),
		}
	}
	return nil
}

func assertRender(b vhelix.Base, at session.Locator, a Assertion) error {
	if got := b.String(); got != a.Expect {
		return &AssertionError{Type: a.Type, At: at.String(), Expected: a.Expect, Actual: got}
	}
	return nil
}

func assertNeighbor(b vhelix.Base, at session.Locator, a Assertion) error {
	var (
		n  vhelix.Base
		ok bool
	)
	if a.End == "5p" {
		n, ok = b.FivePrime()
	} else {
		n, ok = b.ThreePrime()
	}

	expected := "none"
	if a.Neighbor != nil {
		expected = withPart(*a.Neighbor, at.Part).String()
	}
	actual := "none"
	if ok {
		actual = locatorOf(n).String()
	}
	if actual != expected {
		return &AssertionError{Type: a.Type + " " + a.End, At: at.String(), Expected: expected, Actual: actual}
	}
	return nil
}

func assertStrand(b vhelix.Base, at session.Locator, a Assertion) error {
	s, err := b.Strand()
	if err != nil {
		return fmt.Errorf("walk strand at %s: %w", at, err)
	}
	if len(s.Bases) != a.Length {
		return &AssertionError{
			Type: a.Type, At: at.String(),
			Expected: fmt.Sprintf("length %d", a.Length),
			Actual:   fmt.Sprintf("length %d", len(s.Bases)),
		}
	}
	if a.Circular != nil && s.Circular != *a.Circular {
		return &AssertionError{
			Type: a.Type, At: at.String(),
			Expected: fmt.Sprintf("circular=%t", *a.Circular),
			Actual:   fmt.Sprintf("circular=%t", s.Circular),
		}
	}
	return nil
}
