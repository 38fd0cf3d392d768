package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silica/internal/circuit"
	"silica/internal/errors"
)

// buffer chain: BUF u1 drives BUF u2 through wire w1.
func bufferChain() *circuit.Circuit {
	return &circuit.Circuit{
		Name: "chain",
		Components: []circuit.Component{
			{ID: "u1", Type: "BUF", Inputs: []circuit.Pin{{Name: "A"}}, Outputs: []circuit.Pin{{Name: "Y"}}},
			{ID: "u2", Type: "BUF", Inputs: []circuit.Pin{{Name: "A"}}, Outputs: []circuit.Pin{{Name: "Y"}}},
		},
		Wires: []circuit.Wire{
			{ID: "w1", A: circuit.Endpoint{Component: "u1", Pin: "Y"}, B: circuit.Endpoint{Component: "u2", Pin: "A"}},
		},
	}
}

func TestBuildGraphNodes(t *testing.T) {
	g, err := BuildGraph(bufferChain())
	require.NoError(t, err)

	// one component node + two pin nodes per BUF, plus the net
	assert.Len(t, g.Nodes, 7)
	assert.True(t, g.Contains(NodeID{Kind: KindComponent, ID: "u1"}))
	assert.True(t, g.Contains(PinID("u1", "Y")))
	assert.True(t, g.Contains(NodeID{Kind: KindNet, ID: "w1"}))
	assert.False(t, g.Contains(NodeID{Kind: KindComponent, ID: "w1"}), "kind is part of identity")
	assert.Empty(t, g.Diagnostics)
}

func TestBuildGraphNoDuplicateNodes(t *testing.T) {
	c := bufferChain()
	// second wire on the same pins must not re-add pin nodes
	c.Wires = append(c.Wires, circuit.Wire{
		ID: "w2",
		A:  circuit.Endpoint{Component: "u1", Pin: "Y"},
		B:  circuit.Endpoint{Component: "u2", Pin: "A"},
	})
	g, err := BuildGraph(c)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 8, "only the new net node is added")

	seen := map[NodeID]bool{}
	for _, n := range g.Nodes {
		assert.False(t, seen[n], "duplicate node %v", n)
		seen[n] = true
	}
}

func TestAdjacencyInvariants(t *testing.T) {
	g, err := BuildGraph(bufferChain())
	require.NoError(t, err)

	require.Len(t, g.Adjacency, len(g.Nodes))
	require.Len(t, g.Reverse, len(g.Nodes))
	for i, n := range g.Nodes {
		for _, e := range g.Adjacency[i] {
			assert.Equal(t, n, e.From, "adjacency[%d] holds a foreign edge", i)
		}
		for _, e := range g.Reverse[i] {
			assert.Equal(t, n, e.To, "reverse[%d] holds a foreign edge", i)
		}
	}
}

func TestConnectivityStoredAsPairs(t *testing.T) {
	g, err := BuildGraph(bufferChain())
	require.NoError(t, err)

	forward := map[[2]NodeID]bool{}
	for _, e := range g.Edges {
		if e.Kind == Connectivity {
			forward[[2]NodeID{e.From, e.To}] = true
		}
	}
	for pair := range forward {
		assert.True(t, forward[[2]NodeID{pair[1], pair[0]}],
			"connectivity %v has no mirror edge", pair)
	}
}

func TestSignalFlowDerivation(t *testing.T) {
	g, err := BuildGraph(bufferChain())
	require.NoError(t, err)

	var flows []Edge
	for _, e := range g.Edges {
		if e.Kind == SignalFlow {
			flows = append(flows, e)
		}
	}
	require.Len(t, flows, 1)
	assert.Equal(t, PinID("u1", "Y"), flows[0].From, "flow runs output to input")
	assert.Equal(t, PinID("u2", "A"), flows[0].To)
}

func TestSignalFlowReversedEndpoints(t *testing.T) {
	c := bufferChain()
	// same wire written input-first; direction still comes from the pins
	c.Wires[0].A, c.Wires[0].B = c.Wires[0].B, c.Wires[0].A

	g, err := BuildGraph(c)
	require.NoError(t, err)
	for _, e := range g.Edges {
		if e.Kind == SignalFlow {
			assert.Equal(t, PinID("u1", "Y"), e.From)
			assert.Equal(t, PinID("u2", "A"), e.To)
		}
	}
}

func TestDegenerateWireDiagnostic(t *testing.T) {
	c := bufferChain()
	c.Wires = []circuit.Wire{
		{ID: "w1", A: circuit.Endpoint{Component: "u1", Pin: "A"}, B: circuit.Endpoint{Component: "u2", Pin: "A"}},
	}
	g, err := BuildGraph(c)
	require.NoError(t, err, "degenerate wiring is not an error")

	for _, e := range g.Edges {
		assert.NotEqual(t, SignalFlow, e.Kind, "input-input wire must not flow")
	}
	require.Len(t, g.Diagnostics, 1)
	assert.Equal(t, errors.DiagDegenerateWire, g.Diagnostics[0].Code)
	assert.Equal(t, "w1", g.Diagnostics[0].Subject)
}

func TestDanglingEndpointDiagnostic(t *testing.T) {
	c := bufferChain()
	c.Wires = append(c.Wires, circuit.Wire{
		ID: "w2",
		A:  circuit.Endpoint{Component: "u1", Pin: "Y"},
		B:  circuit.Endpoint{Component: "ghost", Pin: "A"},
	})
	g, err := BuildGraph(c)
	require.NoError(t, err)

	require.NotEmpty(t, g.Diagnostics)
	assert.Equal(t, errors.DiagDanglingEndpoint, g.Diagnostics[0].Code)
	assert.Equal(t, "w2", g.Diagnostics[0].Subject)
	assert.True(t, g.Contains(NodeID{Kind: KindNet, ID: "w2"}), "the net node still exists")
}
