package behavior

import (
	"fmt"
	"strings"

	"silica/internal/blocks"
	"silica/internal/circuit"
	"silica/internal/graph"
)

// Behavior inference maps a detected block to a coarse semantic descriptor:
// what the block does, what each port means, and how wide it is. The
// descriptor doubles as the approximate correctness oracle the optimizer's
// verification gate compares against.

// Kind is the coarse behavior classification.
type Kind string

const (
	AdderBehavior    Kind = "adder"
	MuxBehavior      Kind = "multiplexer"
	CompareBehavior  Kind = "comparator"
	DecodeBehavior   Kind = "decoder"
	RegisterBehavior Kind = "register"
	CombBehavior     Kind = "combinational"
)

// Role names what a port is for.
type Role string

const (
	RoleClock    Role = "clock"
	RoleReset    Role = "reset"
	RoleSelect   Role = "select"
	RoleEnable   Role = "enable"
	RoleCarryIn  Role = "carry_in"
	RoleCarryOut Role = "carry_out"
	RoleDataIn   Role = "data_in"
	RoleDataOut  Role = "data_out"
	RoleInput    Role = "input"
	RoleOutput   Role = "output"
	RoleUnknown  Role = "unknown"
)

// PortRole pairs a port name with its inferred role.
type PortRole struct {
	PortName string
	Role     Role
}

// Descriptor is the coarse semantic summary of a block.
type Descriptor struct {
	SubjectID    string
	SubjectKind  string
	BehaviorKind Kind
	Ports        []PortRole
	BitWidth     int // -1 when unknown
	Description  string
}

// KindForBlock is the fixed 1:1 BlockKind to BehaviorKind map. Latches fold
// into registers: the distinction is structural, not behavioral.
func KindForBlock(k blocks.Kind) Kind {
	switch k {
	case blocks.Adder:
		return AdderBehavior
	case blocks.Mux:
		return MuxBehavior
	case blocks.Comparator:
		return CompareBehavior
	case blocks.Decoder:
		return DecodeBehavior
	case blocks.Register, blocks.Latch:
		return RegisterBehavior
	default:
		return CombBehavior
	}
}

// RoleForPortName matches a port name against the role vocabulary,
// case-insensitively. Unmatched names fall back to the port's direction.
func RoleForPortName(name string, dir circuit.PinDirection) Role {
	switch strings.ToLower(name) {
	case "clk", "clock":
		return RoleClock
	case "rst", "reset", "clr":
		return RoleReset
	case "en", "enable", "oe":
		return RoleEnable
	case "cin", "carryin":
		return RoleCarryIn
	case "cout", "carryout":
		return RoleCarryOut
	case "sum", "out", "q", "y":
		return RoleDataOut
	case "a", "b", "in", "d":
		return RoleDataIn
	}
	if strings.HasPrefix(strings.ToLower(name), "sel") {
		return RoleSelect
	}
	switch dir {
	case circuit.DirInput:
		return RoleInput
	case circuit.DirOutput:
		return RoleOutput
	}
	return RoleUnknown
}

// InferBehaviorForBlock builds the semantic descriptor for a block. The
// graph parameter is accepted for finer structural inference later and is
// not consulted by the vocabulary-based inference implemented today.
func InferBehaviorForBlock(b *blocks.Instance, g *graph.Graph) (*Descriptor, error) {
	_ = g

	kind := KindForBlock(b.Kind)
	d := &Descriptor{
		SubjectID:    b.ID,
		SubjectKind:  string(b.Kind),
		BehaviorKind: kind,
		BitWidth:     -1,
	}
	for _, p := range b.Ports {
		d.Ports = append(d.Ports, PortRole{
			PortName: p.Name,
			Role:     RoleForPortName(p.Name, p.Direction),
		})
		if n := len(p.Pins); n > d.BitWidth {
			d.BitWidth = n
		}
	}
	d.Description = describe(kind, d.BitWidth)
	return d, nil
}

// describe renders the fixed per-kind description template.
func describe(kind Kind, width int) string {
	w := "unknown-width"
	if width > 0 {
		w = fmt.Sprintf("%d-bit", width)
	}
	switch kind {
	case AdderBehavior:
		return fmt.Sprintf("%s ripple-carry adder with carry in/out", w)
	case MuxBehavior:
		return fmt.Sprintf("%s 2-way multiplexer", w)
	case CompareBehavior:
		return fmt.Sprintf("%s equality comparator", w)
	case DecodeBehavior:
		return fmt.Sprintf("%s one-hot decoder", w)
	case RegisterBehavior:
		return fmt.Sprintf("%s register with synchronous capture", w)
	default:
		return "uncharacterized combinational logic"
	}
}
