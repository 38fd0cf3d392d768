package ir

import (
	"silica/internal/behavior"
	"silica/internal/blocks"
	"silica/internal/circuit"
	"silica/internal/errors"
	"silica/internal/graph"
)

// IR synthesis. Blocks with a recognized behavior get their assignments from
// a small template library keyed by behavior kind; everything else yields an
// interface-only module, an explicit "unknown logic" result rather than a guess.

// InferIrForBlock synthesizes a module from a block and its behavior
// descriptor. Port values carry the port's pin count as width.
func InferIrForBlock(b *blocks.Instance, g *graph.Graph, d *behavior.Descriptor) (*Module, error) {
	_ = g

	m := &Module{ID: b.ID}
	for _, p := range b.Ports {
		v := Ref(p.Name, len(p.Pins))
		if p.Direction == circuit.DirOutput {
			m.Outputs = append(m.Outputs, v)
		} else {
			m.Inputs = append(m.Inputs, v)
		}
	}

	if err := applyTemplate(m, d); err != nil {
		return nil, err
	}
	if err := Validate(m); err != nil {
		return nil, errors.Internalf("synthesized module failed validation: %v", err)
	}
	return m, nil
}

// applyTemplate fills comb/reg assignments for the behavior kinds the
// template library covers. Decoder and combinational blocks stay
// interface-only.
func applyTemplate(m *Module, d *behavior.Descriptor) error {
	switch d.BehaviorKind {
	case behavior.AdderBehavior:
		return bindAdder(m, d)
	case behavior.MuxBehavior:
		return bindMux(m, d)
	case behavior.RegisterBehavior:
		return bindRegister(m, d)
	case behavior.CompareBehavior:
		return bindComparator(m, d)
	default:
		return nil
	}
}

// bindAdder emits one Add over the widest two data_in ports, with the carry
// in appended when present, targeting the sole data_out. A carry_out port
// stays a declared but unassigned output; the flat IR has no second
// expression to give it without a temporary nobody consumes.
func bindAdder(m *Module, d *behavior.Descriptor) error {
	dataIn := widestTwo(m, portsWithRole(d, behavior.RoleDataIn))
	if len(dataIn) < 2 {
		return errors.Unsupportedf(errors.CodeTemplateBindFailed,
			"adder block %s: need two data_in ports, have %d", m.ID, len(dataIn))
	}
	out, err := solePort(m, d, behavior.RoleDataOut, "adder")
	if err != nil {
		return err
	}

	args := []Value{inputValue(m, dataIn[0]), inputValue(m, dataIn[1])}
	if cin := portsWithRole(d, behavior.RoleCarryIn); len(cin) > 0 {
		args = append(args, inputValue(m, cin[0]))
	}
	m.CombAssigns = append(m.CombAssigns, Expr{Kind: OpAdd, Target: out, Args: args})
	return nil
}

// bindMux emits Mux(sel, a, b) over the first two data_in ports.
func bindMux(m *Module, d *behavior.Descriptor) error {
	sel := portsWithRole(d, behavior.RoleSelect)
	dataIn := portsWithRole(d, behavior.RoleDataIn)
	if len(sel) == 0 || len(dataIn) < 2 {
		return errors.Unsupportedf(errors.CodeTemplateBindFailed,
			"mux block %s: need a select and two data_in ports", m.ID)
	}
	out, err := solePort(m, d, behavior.RoleDataOut, "mux")
	if err != nil {
		return err
	}
	m.CombAssigns = append(m.CombAssigns, Expr{
		Kind:   OpMux,
		Target: out,
		Args:   []Value{inputValue(m, sel[0]), inputValue(m, dataIn[0]), inputValue(m, dataIn[1])},
	})
	return nil
}

// bindRegister emits one synchronous assignment capturing data_in, bound to
// the clock and reset roles when the block exposes them.
func bindRegister(m *Module, d *behavior.Descriptor) error {
	dataIn := portsWithRole(d, behavior.RoleDataIn)
	if len(dataIn) == 0 {
		return errors.Unsupportedf(errors.CodeTemplateBindFailed,
			"register block %s: no data_in port", m.ID)
	}
	out, err := solePort(m, d, behavior.RoleDataOut, "register")
	if err != nil {
		return err
	}
	clock := firstPort(d, behavior.RoleClock)
	reset := firstPort(d, behavior.RoleReset)
	m.RegAssigns = append(m.RegAssigns, RegAssign{
		Target: out,
		Expr:   Expr{Kind: OpValue, Target: out, Args: []Value{inputValue(m, dataIn[0])}},
		Clock:  clock,
		Reset:  reset,
	})
	return nil
}

// bindComparator emits Eq over the widest two data_in ports.
func bindComparator(m *Module, d *behavior.Descriptor) error {
	dataIn := widestTwo(m, portsWithRole(d, behavior.RoleDataIn))
	if len(dataIn) < 2 {
		return errors.Unsupportedf(errors.CodeTemplateBindFailed,
			"comparator block %s: need two data_in ports, have %d", m.ID, len(dataIn))
	}
	out, err := solePort(m, d, behavior.RoleDataOut, "comparator")
	if err != nil {
		return err
	}
	m.CombAssigns = append(m.CombAssigns, Expr{
		Kind:   OpEq,
		Target: out,
		Args:   []Value{inputValue(m, dataIn[0]), inputValue(m, dataIn[1])},
	})
	return nil
}

// InferIrForNodeRegion synthesizes an interface-only module for an ad-hoc
// region: the resolved node is the sole output and the backward cone's
// frontier (cone nodes with no producer inside the cone) are the inputs.
// The module declares that interface and nothing more; it carries no
// correctness guarantee about the logic between frontier and root.
func InferIrForNodeRegion(g *graph.Graph, rawID string, kindHint graph.NodeKind, maxDepth int) (*Module, error) {
	root, err := graph.ResolveFunctionalNode(g, rawID, kindHint)
	if err != nil {
		return nil, err
	}
	cone, err := graph.ComputeBackwardCone(g, root, maxDepth)
	if err != nil {
		return nil, err
	}

	inCone := map[graph.NodeID]bool{}
	for _, cn := range cone {
		inCone[cn.Node] = true
	}

	m := &Module{
		ID:      root.ID,
		Outputs: []Value{Ref(root.ID, 1)},
	}
	for _, cn := range cone {
		if hasProducerIn(g, cn.Node, inCone) {
			continue
		}
		m.Inputs = append(m.Inputs, Ref(cn.Node.ID, 1))
	}
	return m, nil
}

func hasProducerIn(g *graph.Graph, node graph.NodeID, set map[graph.NodeID]bool) bool {
	idx, ok := g.Index(node)
	if !ok {
		return false
	}
	for _, e := range g.Reverse[idx] {
		if e.Kind == graph.SignalFlow && set[e.From] {
			return true
		}
	}
	return false
}

// Template binding helpers.

func portsWithRole(d *behavior.Descriptor, role behavior.Role) []string {
	var out []string
	for _, p := range d.Ports {
		if p.Role == role {
			out = append(out, p.PortName)
		}
	}
	return out
}

func firstPort(d *behavior.Descriptor, role behavior.Role) string {
	ports := portsWithRole(d, role)
	if len(ports) == 0 {
		return ""
	}
	return ports[0]
}

// widestTwo orders port names by declared width, widest first, stable for
// ties, and returns at most two.
func widestTwo(m *Module, names []string) []string {
	sorted := append([]string{}, names...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && m.WidthOf(sorted[j]) > m.WidthOf(sorted[j-1]); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	if len(sorted) > 2 {
		sorted = sorted[:2]
	}
	return sorted
}

func solePort(m *Module, d *behavior.Descriptor, role behavior.Role, template string) (string, error) {
	ports := portsWithRole(d, role)
	if len(ports) != 1 {
		return "", errors.Unsupportedf(errors.CodeTemplateBindFailed,
			"%s block %s: need exactly one %s port, have %d", template, m.ID, role, len(ports))
	}
	return ports[0], nil
}

func inputValue(m *Module, name string) Value {
	return Ref(name, m.WidthOf(name))
}
