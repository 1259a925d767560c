package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/REC17/cadnano2/internal/dna"
	"github.com/REC17/cadnano2/internal/session"
)

// Scenario is one connectivity test.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Session is the fixed session id; defaults to "test-session".
	Session string `yaml:"session,omitempty"`

	// Parts are created before the steps run.
	Parts []PartSetup `yaml:"parts"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions"`
}

// PartSetup declares a part and its helices.
type PartSetup struct {
	ID      dna.PartID   `yaml:"id"`
	Helices []HelixSetup `yaml:"helices"`
}

// HelixSetup declares one helix.
type HelixSetup struct {
	Number dna.HelixNumber `yaml:"number"`
	Length int             `yaml:"length"`
}

// Step is a session command and the failure it is expected to produce, if any.
type Step struct {
	session.Command `yaml:",inline"`

	ExpectError session.ErrorCode `yaml:"expect_error,omitempty"`
}

// Assertion checks the design after all steps ran.
type Assertion struct {
	Type string           `yaml:"type"`
	At   *session.Locator `yaml:"at,omitempty"`

	// Expect is the link state (state) or the rendering (render).
	Expect string `yaml:"expect,omitempty"`

	// Crossover is the expected IsCrossover (crossover).
	Crossover *bool `yaml:"crossover,omitempty"`

	// End selects "5p" or "3p" (neighbor).
	End string `yaml:"end,omitempty"`
	// Neighbor is the expected neighbor; None expects no neighbor (neighbor).
	Neighbor *session.Locator `yaml:"neighbor,omitempty"`
	None     bool             `yaml:"none,omitempty"`

	// Length and Circular describe the oligo (strand).
	Length   int   `yaml:"length,omitempty"`
	Circular *bool `yaml:"circular,omitempty"`
}

// Assertion types.
const (
	AssertState      = "state"
	AssertCrossover  = "crossover"
	AssertRender     = "render"
	AssertNeighbor   = "neighbor"
	AssertStrand     = "strand"
	AssertInvariants = "invariants"
)

// LoadScenario reads a scenario file. Unknown fields are errors, so a typo such
// as "assertion:" fails loudly instead of silently skipping checks.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Parts) == 0 {
		return fmt.Errorf("parts list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, p := range s.Parts {
		if p.ID == "" {
			return fmt.Errorf("parts[%d]: id is required", i)
		}
		for j, h := range p.Helices {
			if h.Length <= 0 {
				return fmt.Errorf("parts[%d].helices[%d]: length must be positive", i, j)
			}
		}
	}
	for i, st := range s.Steps {
		if st.Op == "" {
			return fmt.Errorf("steps[%d]: op is required", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertInvariants:
		return nil
	case AssertState, AssertCrossover, AssertRender, AssertNeighbor, AssertStrand:
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	if a.At == nil {
		return fmt.Errorf("%s requires at", a.Type)
	}

	switch a.Type {
	case AssertState:
		if _, err := dna.ParseLinkState(a.Expect); err != nil {
			return err
		}
	case AssertCrossover:
		if a.Crossover == nil {
			return fmt.Errorf("crossover requires crossover: true|false")
		}
	case AssertRender:
		if len(a.Expect) == 0 {
			return fmt.Errorf("render requires expect")
		}
	case AssertNeighbor:
		if a.End != "5p" && a.End != "3p" {
			return fmt.Errorf("neighbor end must be 5p or 3p, got %q", a.End)
		}
		if (a.Neighbor == nil) == !a.None {
			return fmt.Errorf("neighbor requires exactly one of neighbor or none")
		}
	case AssertStrand:
		if a.Length <= 0 {
			return fmt.Errorf("strand requires a positive length")
		}
	}
	return nil
}
