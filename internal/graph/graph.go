package graph

import (
	"silica/internal/circuit"
	"silica/internal/errors"
)

// NodeKind discriminates the three node flavors of the circuit graph.
type NodeKind string

const (
	KindComponent NodeKind = "component"
	KindPin       NodeKind = "pin"
	KindNet       NodeKind = "net"
)

// NodeID identifies a graph node. Pin ids are composite, "component:port".
type NodeID struct {
	Kind NodeKind
	ID   string
}

// PinID builds the composite id for a component's pin node.
func PinID(component, pin string) NodeID {
	return NodeID{Kind: KindPin, ID: component + ":" + pin}
}

// EdgeKind discriminates structural containment from derived signal flow.
type EdgeKind string

const (
	// Connectivity is structural containment, undirected in effect and
	// stored as a pair of directed edges.
	Connectivity EdgeKind = "connectivity"

	// SignalFlow is a directed producer→consumer edge derived from wiring
	// plus port direction. Cone analysis follows only this kind.
	SignalFlow EdgeKind = "signal_flow"
)

// Edge is one directed edge of the circuit graph.
type Edge struct {
	From NodeID
	To   NodeID
	Kind EdgeKind
}

// Graph is the typed node/edge view of one circuit snapshot. Nodes keep
// insertion order; Adjacency and Reverse are index-parallel with Nodes:
// Adjacency[i] holds exactly the edges with From == Nodes[i], Reverse[i]
// exactly those with To == Nodes[i]. Cone tie-breaking depends on this
// enumeration order, so the slices are authoritative and the index map is
// only a lookup accelerator.
type Graph struct {
	Nodes       []NodeID
	Edges       []Edge
	Adjacency   [][]Edge
	Reverse     [][]Edge
	Diagnostics []errors.Diagnostic

	index map[NodeID]int
}

// Index returns the position of a node in insertion order.
func (g *Graph) Index(id NodeID) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Contains reports whether the graph has a node with the given id.
func (g *Graph) Contains(id NodeID) bool {
	_, ok := g.index[id]
	return ok
}

func (g *Graph) addNode(id NodeID) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	i := len(g.Nodes)
	g.Nodes = append(g.Nodes, id)
	g.Adjacency = append(g.Adjacency, nil)
	g.Reverse = append(g.Reverse, nil)
	g.index[id] = i
	return i
}

func (g *Graph) addEdge(e Edge) {
	from, ok := g.index[e.From]
	if !ok {
		return
	}
	to, ok := g.index[e.To]
	if !ok {
		return
	}
	g.Edges = append(g.Edges, e)
	g.Adjacency[from] = append(g.Adjacency[from], e)
	g.Reverse[to] = append(g.Reverse[to], e)
}

func (g *Graph) addConnectivity(a, b NodeID) {
	g.addEdge(Edge{From: a, To: b, Kind: Connectivity})
	g.addEdge(Edge{From: b, To: a, Kind: Connectivity})
}

func (g *Graph) diag(code, subject, message string) {
	g.Diagnostics = append(g.Diagnostics, errors.Diagnostic{
		Level:   errors.LevelWarning,
		Code:    code,
		Subject: subject,
		Message: message,
	})
}

// BuildGraph constructs the typed graph for a snapshot. Malformed wiring
// degrades gracefully: dangling endpoints and degenerate wires surface as
// diagnostics on the result, never as errors.
func BuildGraph(c *circuit.Circuit) (*Graph, error) {
	g := &Graph{index: make(map[NodeID]int)}

	for i := range c.Components {
		comp := &c.Components[i]
		compNode := NodeID{Kind: KindComponent, ID: comp.ID}
		g.addNode(compNode)
		for _, p := range comp.Inputs {
			pin := PinID(comp.ID, p.Name)
			g.addNode(pin)
			g.addConnectivity(compNode, pin)
		}
		for _, p := range comp.Outputs {
			pin := PinID(comp.ID, p.Name)
			g.addNode(pin)
			g.addConnectivity(compNode, pin)
		}
	}

	for i := range c.Wires {
		w := &c.Wires[i]
		net := NodeID{Kind: KindNet, ID: w.ID}
		g.addNode(net)
		for _, ep := range []circuit.Endpoint{w.A, w.B} {
			pin, ok := g.endpointPin(c, w.ID, ep)
			if !ok {
				continue
			}
			g.addConnectivity(net, pin)
		}
	}

	g.deriveSignalFlow(c)
	return g, nil
}

// endpointPin resolves a wire endpoint to its pin node, diagnosing dangling
// references.
func (g *Graph) endpointPin(c *circuit.Circuit, wireID string, ep circuit.Endpoint) (NodeID, bool) {
	comp, ok := c.FindComponent(ep.Component)
	if !ok {
		g.diag(errors.DiagDanglingEndpoint, wireID,
			"endpoint references unknown component "+ep.Component)
		return NodeID{}, false
	}
	if !comp.HasPin(ep.Pin) {
		g.diag(errors.DiagDanglingEndpoint, wireID,
			"endpoint references unknown pin "+ep.Component+":"+ep.Pin)
		return NodeID{}, false
	}
	return PinID(ep.Component, ep.Pin), true
}

// deriveSignalFlow adds one directed SignalFlow edge per wire whose
// endpoints pair an output with an input. Input-input and output-output
// wires carry no flow and are diagnosed.
func (g *Graph) deriveSignalFlow(c *circuit.Circuit) {
	for i := range c.Wires {
		w := &c.Wires[i]
		dirA, okA := endpointDirection(c, w.A)
		dirB, okB := endpointDirection(c, w.B)
		if !okA || !okB {
			continue // already diagnosed as dangling
		}
		switch {
		case dirA == circuit.DirOutput && dirB == circuit.DirInput:
			g.addEdge(Edge{From: PinID(w.A.Component, w.A.Pin), To: PinID(w.B.Component, w.B.Pin), Kind: SignalFlow})
		case dirB == circuit.DirOutput && dirA == circuit.DirInput:
			g.addEdge(Edge{From: PinID(w.B.Component, w.B.Pin), To: PinID(w.A.Component, w.A.Pin), Kind: SignalFlow})
		default:
			g.diag(errors.DiagDegenerateWire, w.ID,
				"both endpoints are "+string(dirA)+" pins, no signal flow derived")
		}
	}
}

func endpointDirection(c *circuit.Circuit, ep circuit.Endpoint) (circuit.PinDirection, bool) {
	comp, ok := c.FindComponent(ep.Component)
	if !ok {
		return "", false
	}
	return comp.PinDirection(ep.Pin)
}
