package session

import (
	"encoding/json"
	"fmt"

	"github.com/REC17/cadnano2/internal/dna"
	"github.com/REC17/cadnano2/internal/journal"
)

// Op names a command.
type Op string

const (
	OpAddPart       Op = "add_part"
	OpRemovePart    Op = "remove_part"
	OpAddHelix      Op = "add_helix"
	OpRemoveHelix   Op = "remove_helix" // not undoable; drops edits on its bases
	OpSetFivePrime  Op = "set_5p"
	OpSetThreePrime Op = "set_3p"
	OpClearFive     Op = "clear_5p"
	OpClearThree    Op = "clear_3p"
	OpConnectStrand Op = "connect_strand"
	OpClearStrand   Op = "clear_strand"
	OpCrossover     Op = "crossover"
	OpUndo          Op = "undo"
	OpRedo          Op = "redo"
)

// Ops lists every op in documentation order.
var Ops = []Op{
	OpAddPart, OpRemovePart, OpAddHelix, OpRemoveHelix,
	OpSetFivePrime, OpSetThreePrime, OpClearFive, OpClearThree,
	OpConnectStrand, OpClearStrand, OpCrossover,
	OpUndo, OpRedo,
}

func (op Op) known() bool {
	for _, o := range Ops {
		if o == op {
			return true
		}
	}
	return false
}

// Locator addresses one base. An empty Part means the command's part.
type Locator struct {
	Part   dna.PartID      `yaml:"part,omitempty" json:"part,omitempty"`
	Helix  dna.HelixNumber `yaml:"helix" json:"helix"`
	Strand dna.StrandType  `yaml:"strand" json:"strand"`
	Index  int             `yaml:"index" json:"index"`
}

func (l Locator) String() string {
	return fmt.Sprintf("%s/%d.%s[%d]", l.Part, l.Helix, l.Strand, l.Index)
}

// Command is one request to a Session. Which fields matter depends on Op:
//
//	add_part, remove_part        part
//	add_helix                    part, helix, length (0 means the session default)
//	remove_helix                 part, helix
//	set_5p, set_3p, crossover    part, helix, strand, index, to
//	clear_5p, clear_3p           part, helix, strand, index
//	connect_strand, clear_strand part, helix, strand, index, end
//	undo, redo                   none
type Command struct {
	Op     Op              `yaml:"op" json:"op"`
	Part   dna.PartID      `yaml:"part,omitempty" json:"part,omitempty"`
	Helix  dna.HelixNumber `yaml:"helix,omitempty" json:"helix,omitempty"`
	Strand dna.StrandType  `yaml:"strand,omitempty" json:"strand,omitempty"`
	Index  int             `yaml:"index,omitempty" json:"index,omitempty"`
	End    int             `yaml:"end,omitempty" json:"end,omitempty"`
	Length int             `yaml:"length,omitempty" json:"length,omitempty"`
	To     *Locator        `yaml:"to,omitempty" json:"to,omitempty"`
}

func (c Command) base() Locator {
	return Locator{Part: c.Part, Helix: c.Helix, Strand: c.Strand, Index: c.Index}
}

func (c Command) validate() *CommandError {
	if !c.Op.known() {
		return &CommandError{Code: CodeUnknownOp, Message: fmt.Sprintf("unknown op %q", c.Op)}
	}
	if c.Op == OpUndo || c.Op == OpRedo {
		return nil
	}
	if c.Part == "" {
		return invalid("%s requires part", c.Op)
	}
	if !c.Strand.Valid() {
		return invalid("invalid strand %d", c.Strand)
	}
	switch c.Op {
	case OpAddHelix:
		if c.Length <= 0 {
			return invalid("add_helix requires a positive length, got %d", c.Length)
		}
	case OpSetFivePrime, OpSetThreePrime, OpCrossover:
		if c.To == nil {
			return invalid("%s requires to", c.Op)
		}
		if !c.To.Strand.Valid() {
			return invalid("invalid target strand %d", c.To.Strand)
		}
	}
	return nil
}

// fields is the canonical form of the command: only the fields its op uses.
func (c Command) fields() map[string]any {
	m := map[string]any{"op": string(c.Op)}
	switch c.Op {
	case OpUndo, OpRedo:
		return m
	}
	m["part"] = string(c.Part)
	switch c.Op {
	case OpAddPart, OpRemovePart:
	case OpAddHelix:
		m["helix"] = int(c.Helix)
		m["length"] = c.Length
	case OpRemoveHelix:
		m["helix"] = int(c.Helix)
	default:
		m["helix"] = int(c.Helix)
		m["strand"] = c.Strand.String()
		m["index"] = c.Index
		switch c.Op {
		case OpConnectStrand, OpClearStrand:
			m["end"] = c.End
		case OpSetFivePrime, OpSetThreePrime, OpCrossover:
			if c.To == nil {
				break
			}
			m["to"] = map[string]any{
				"part":   string(c.To.Part),
				"helix":  int(c.To.Helix),
				"strand": c.To.Strand.String(),
				"index":  c.To.Index,
			}
		}
	}
	return m
}

// MarshalCanonical encodes the command as canonical JSON for the journal.
func (c Command) MarshalCanonical() (string, error) {
	b, err := journal.MarshalCanonical(c.fields())
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", c.Op, err)
	}
	return string(b), nil
}

// DecodeCommand parses a journaled command.
func DecodeCommand(args string) (Command, error) {
	var c Command
	if err := json.Unmarshal([]byte(args), &c); err != nil {
		return Command{}, fmt.Errorf("decode command: %w", err)
	}
	return c, nil
}
