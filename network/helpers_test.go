// SPDX-License-Identifier: MIT
// Package network_test contains fixtures shared by the network tests.

package network_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hgfnet/network"
)

// buildReference builds the reference model: four independent roots, then a
// node value-coupled to root 2, then a node value-coupled to root 3.
//
//	0   1   2   3
//	        ↑   ↑
//	        4   5
func buildReference(t *testing.T) (network.Attributes, network.Edges) {
	t.Helper()
	attrs, edges := network.NewAttributes(), network.Edges{}
	var err error

	attrs, edges, err = network.AddNodes(attrs, edges, network.NodeSpec{Count: 4})
	require.NoError(t, err)
	attrs, edges, err = network.AddNodes(attrs, edges, network.NodeSpec{ValueChildren: network.Links(2)})
	require.NoError(t, err)
	attrs, edges, err = network.AddNodes(attrs, edges, network.NodeSpec{ValueChildren: network.Links(3)})
	require.NoError(t, err)
	require.NoError(t, network.Validate(attrs, edges))

	return attrs, edges
}

// buildChain builds 0 ← 1 (value) ← 2 (volatility).
func buildChain(t *testing.T) (network.Attributes, network.Edges) {
	t.Helper()
	attrs, edges := network.NewAttributes(), network.Edges{}
	var err error

	attrs, edges, err = network.AddNodes(attrs, edges, network.NodeSpec{})
	require.NoError(t, err)
	attrs, edges, err = network.AddNodes(attrs, edges, network.NodeSpec{ValueChildren: network.Links(0)})
	require.NoError(t, err)
	attrs, edges, err = network.AddNodes(attrs, edges, network.NodeSpec{VolatilityChildren: network.Links(1)})
	require.NoError(t, err)

	return attrs, edges
}

// assertContiguous fails if any adjacency value falls outside [0, n).
func assertContiguous(t *testing.T, edges network.Edges) {
	t.Helper()
	n := edges.Len()
	for i, l := range edges.Lists() {
		for _, id := range append(l.AllParents(), l.AllChildren()...) {
			require.GreaterOrEqualf(t, id, 0, "node %d references %d", i, id)
			require.Lessf(t, id, n, "node %d references %d", i, id)
		}
	}
}
