package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"silica/internal/errors"
)

func TestResolveWithKindHint(t *testing.T) {
	g, err := BuildGraph(bufferChain())
	require.NoError(t, err)

	id, err := ResolveFunctionalNode(g, "u1", KindComponent)
	require.NoError(t, err)
	assert.Equal(t, NodeID{Kind: KindComponent, ID: "u1"}, id)

	// hinted lookups are exact, no fallback to other kinds
	_, err = ResolveFunctionalNode(g, "u1", KindNet)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.NotFound))
}

func TestResolveInferredKinds(t *testing.T) {
	g, err := BuildGraph(bufferChain())
	require.NoError(t, err)

	id, err := ResolveFunctionalNode(g, "u2:A", "")
	require.NoError(t, err)
	assert.Equal(t, KindPin, id.Kind)

	id, err = ResolveFunctionalNode(g, "u2", "")
	require.NoError(t, err)
	assert.Equal(t, KindComponent, id.Kind)

	id, err = ResolveFunctionalNode(g, "w1", "")
	require.NoError(t, err)
	assert.Equal(t, KindNet, id.Kind)
}

func TestResolveUnmatched(t *testing.T) {
	g, err := BuildGraph(bufferChain())
	require.NoError(t, err)

	_, err = ResolveFunctionalNode(g, "u9:Q", "")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.InvalidArgument))

	_, err = ResolveFunctionalNode(g, "nothing", "")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.InvalidArgument))

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.CodeUnresolvableID, e.Code)
}
