package dna

import (
	"fmt"
	"strings"
)

// StrandType distinguishes the two strands routed along every virtual helix.
type StrandType int

const (
	Scaffold StrandType = iota
	Staple
)

// StrandTypes lists every strand type in rendering order.
var StrandTypes = []StrandType{Scaffold, Staple}

func (s StrandType) String() string {
	switch s {
	case Scaffold:
		return "scaffold"
	case Staple:
		return "staple"
	default:
		return fmt.Sprintf("StrandType(%d)", int(s))
	}
}

// Valid reports whether s is one of the defined strand types.
func (s StrandType) Valid() bool {
	return s == Scaffold || s == Staple
}

// ParseStrandType accepts "scaffold"/"scaf" and "staple"/"stap", case-insensitively.
func ParseStrandType(text string) (StrandType, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "scaffold", "scaf":
		return Scaffold, nil
	case "staple", "stap":
		return Staple, nil
	default:
		return 0, fmt.Errorf("unknown strand type %q", text)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s StrandType) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid strand type %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *StrandType) UnmarshalText(text []byte) error {
	v, err := ParseStrandType(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// HelixNumber identifies a virtual helix within its part.
type HelixNumber int

// Even reports whether the helix has even parity.
func (n HelixNumber) Even() bool {
	return n%2 == 0
}

// PartID identifies the part that groups a set of virtual helices.
type PartID string

// LinkState is the classification of a base by which of its links are set.
// Exactly one state holds for every base at all times.
type LinkState int

const (
	// Empty: neither link is set.
	Empty LinkState = iota
	// FivePrimeEnd: only the 3' link is set.
	FivePrimeEnd
	// ThreePrimeEnd: only the 5' link is set.
	ThreePrimeEnd
	// Interior: both links are set.
	Interior
)

var linkStateNames = map[LinkState]string{
	Empty:         "empty",
	FivePrimeEnd:  "five_prime_end",
	ThreePrimeEnd: "three_prime_end",
	Interior:      "interior",
}

func (s LinkState) String() string {
	if name, ok := linkStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("LinkState(%d)", int(s))
}

// StateOf classifies a base from the presence of its links.
func StateOf(has5, has3 bool) LinkState {
	switch {
	case has5 && has3:
		return Interior
	case has3:
		return FivePrimeEnd
	case has5:
		return ThreePrimeEnd
	default:
		return Empty
	}
}

// ParseLinkState parses the names produced by LinkState.String.
func ParseLinkState(text string) (LinkState, error) {
	want := strings.ToLower(strings.TrimSpace(text))
	for state, name := range linkStateNames {
		if name == want {
			return state, nil
		}
	}
	return 0, fmt.Errorf("unknown link state %q", text)
}

// MarshalText implements encoding.TextMarshaler.
func (s LinkState) MarshalText() ([]byte, error) {
	if _, ok := linkStateNames[s]; !ok {
		return nil, fmt.Errorf("invalid link state %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *LinkState) UnmarshalText(text []byte) error {
	v, err := ParseLinkState(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// PartHandle is the identity of the part containing a helix.
type PartHandle interface {
	ID() PartID
}

// HelixContext is what the connectivity engine needs from a base's owning helix.
// The engine only ever reads through it; it never owns the helix.
type HelixContext interface {
	// DirectionOfStrandIs5to3 reports whether increasing index corresponds to
	// 5' to 3' travel for the given strand type on this helix.
	DirectionOfStrandIs5to3(StrandType) bool

	// Number is the helix's stable identity within its part.
	Number() HelixNumber

	// Part returns the containing part.
	Part() PartHandle
}
