package graph

import (
	"strings"

	"silica/internal/errors"
)

// ResolveFunctionalNode turns a raw, user-supplied id into a graph node.
//
// With a kind hint the lookup is exact: the node must exist with that kind
// and id, otherwise the result is NotFound. Without a hint the kind is
// inferred: ids containing ':' are pins, everything else is tried as a
// component and then as a net. An id matching nothing is InvalidArgument.
func ResolveFunctionalNode(g *Graph, rawID string, kindHint NodeKind) (NodeID, error) {
	if kindHint != "" {
		id := NodeID{Kind: kindHint, ID: rawID}
		if g.Contains(id) {
			return id, nil
		}
		return NodeID{}, errors.NotFoundf(errors.CodeKindMismatch,
			"no %s node with id %q", kindHint, rawID)
	}

	if strings.Contains(rawID, ":") {
		id := NodeID{Kind: KindPin, ID: rawID}
		if g.Contains(id) {
			return id, nil
		}
		return NodeID{}, errors.InvalidArgumentf(errors.CodeUnresolvableID,
			"id %q looks like a pin but no such pin exists", rawID)
	}

	for _, kind := range []NodeKind{KindComponent, KindNet} {
		id := NodeID{Kind: kind, ID: rawID}
		if g.Contains(id) {
			return id, nil
		}
	}
	return NodeID{}, errors.InvalidArgumentf(errors.CodeUnresolvableID,
		"id %q matches no component or net", rawID)
}
