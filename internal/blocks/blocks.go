package blocks

import (
	"fmt"
	"strings"

	"silica/internal/circuit"
	"silica/internal/graph"
)

// Block detection clusters a snapshot's components into semantic blocks:
// structural detectors claim known gate topologies (adders, muxes,
// comparators, decoders) in fixed priority order, then a catch-all groups
// whatever is left into connected clusters.

// Kind is the semantic classification of a block.
type Kind string

const (
	Adder       Kind = "adder"
	Mux         Kind = "mux"
	Comparator  Kind = "comparator"
	Decoder     Kind = "decoder"
	Register    Kind = "register"
	Latch       Kind = "latch"
	GenericComb Kind = "generic_comb"
)

// Port is one external connection point of a block. Pins sharing a net
// coalesce into one multi-pin port, modeling bit-sliced buses.
type Port struct {
	Name      string
	Direction circuit.PinDirection
	Pins      []string // composite pin ids, "component:port"
}

// Instance is one detected block. A component belongs to at most one block.
type Instance struct {
	ID         string
	Kind       Kind
	Components []string
	Nets       []string
	Ports      []Port
}

// Graph is the block-level view of a snapshot, consumed by listing, diffing,
// and IR synthesis.
type Graph struct {
	Blocks []Instance
}

// DetectBlocks runs the detector chain over the snapshot and groups the
// remainder into GenericComb clusters. Detectors run in fixed priority
// order; the first detector to claim a component wins.
func DetectBlocks(g *graph.Graph, c *circuit.Circuit) (*Graph, error) {
	ctx := newDetectContext(c, g)

	bg := &Graph{Blocks: []Instance{}}
	nextID := 0
	emit := func(kind Kind, members []string) {
		nextID++
		for _, m := range members {
			ctx.claimed[m] = true
		}
		bg.Blocks = append(bg.Blocks, Instance{
			ID:         fmt.Sprintf("blk%d", nextID),
			Kind:       kind,
			Components: members,
			Nets:       memberNets(ctx, members),
			Ports:      DetermineBlockPorts(c, g, members),
		})
	}

	for _, det := range detectorChain() {
		for _, grp := range det.detect(ctx) {
			emit(grp.kind, grp.components)
		}
	}

	for _, cluster := range clusterUnclaimed(ctx) {
		emit(ClassifyBlock(ctx, cluster), cluster)
	}

	return bg, nil
}

// ClassifyBlock assigns a kind to a clustered component group from its
// members' primitive types. Sequential primitives dominate: any flip-flop
// makes the group a register, any latch a latch, otherwise it is generic
// combinational logic.
func ClassifyBlock(ctx *detectContext, members []string) Kind {
	hasLatch := false
	for _, id := range members {
		switch ctx.typeOf[id] {
		case "DFF", "DFFE", "REG", "FLIPFLOP":
			return Register
		case "DLATCH", "LATCH", "SRLATCH":
			hasLatch = true
		}
	}
	if hasLatch {
		return Latch
	}
	return GenericComb
}

// clusterUnclaimed groups the components no detector claimed into connected
// components over wire adjacency restricted to unclaimed components.
func clusterUnclaimed(ctx *detectContext) [][]string {
	parent := map[string]string{}
	var find func(string) string
	find = func(x string) string {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	for i := range ctx.circ.Components {
		id := ctx.circ.Components[i].ID
		if !ctx.claimed[id] {
			parent[id] = id
		}
	}
	for i := range ctx.circ.Wires {
		w := &ctx.circ.Wires[i]
		a, b := w.A.Component, w.B.Component
		if _, ok := parent[a]; !ok {
			continue
		}
		if _, ok := parent[b]; !ok {
			continue
		}
		union(a, b)
	}

	// Preserve component insertion order inside and across clusters.
	groups := map[string][]string{}
	var roots []string
	for i := range ctx.circ.Components {
		id := ctx.circ.Components[i].ID
		if _, ok := parent[id]; !ok {
			continue
		}
		root := find(id)
		if _, seen := groups[root]; !seen {
			roots = append(roots, root)
		}
		groups[root] = append(groups[root], id)
	}

	clusters := make([][]string, 0, len(roots))
	for _, r := range roots {
		clusters = append(clusters, groups[r])
	}
	return clusters
}

// memberNets lists the nets touching any member pin, in net insertion order.
func memberNets(ctx *detectContext, members []string) []string {
	in := map[string]bool{}
	for _, m := range members {
		in[m] = true
	}
	var nets []string
	seen := map[string]bool{}
	for i := range ctx.circ.Wires {
		w := &ctx.circ.Wires[i]
		if seen[w.ID] {
			continue
		}
		if in[w.A.Component] || in[w.B.Component] {
			seen[w.ID] = true
			nets = append(nets, w.ID)
		}
	}
	return nets
}

// detectContext carries the component-level views the detectors match
// against: normalized types and driver/load adjacency derived from the
// graph's SignalFlow edges.
type detectContext struct {
	circ     *circuit.Circuit
	g        *graph.Graph
	claimed  map[string]bool
	typeOf   map[string]string
	drives   map[string][]string
	drivenBy map[string][]string
}

func newDetectContext(c *circuit.Circuit, g *graph.Graph) *detectContext {
	ctx := &detectContext{
		circ:     c,
		g:        g,
		claimed:  map[string]bool{},
		typeOf:   map[string]string{},
		drives:   map[string][]string{},
		drivenBy: map[string][]string{},
	}
	for i := range c.Components {
		comp := &c.Components[i]
		ctx.typeOf[comp.ID] = strings.ToUpper(comp.Type)
	}

	appendOnce := func(m map[string][]string, key, val string) {
		for _, v := range m[key] {
			if v == val {
				return
			}
		}
		m[key] = append(m[key], val)
	}
	for _, e := range g.Edges {
		if e.Kind != graph.SignalFlow {
			continue
		}
		from, _, okF := strings.Cut(e.From.ID, ":")
		to, _, okT := strings.Cut(e.To.ID, ":")
		if !okF || !okT || from == to {
			continue
		}
		appendOnce(ctx.drives, from, to)
		appendOnce(ctx.drivenBy, to, from)
	}

	return ctx
}

// driversOfType filters a component's drivers by normalized primitive type.
func (ctx *detectContext) driversOfType(id, typ string) []string {
	var out []string
	for _, d := range ctx.drivenBy[id] {
		if ctx.typeOf[d] == typ {
			out = append(out, d)
		}
	}
	return out
}

func (ctx *detectContext) anyClaimed(ids ...string) bool {
	for _, id := range ids {
		if ctx.claimed[id] {
			return true
		}
	}
	return false
}
