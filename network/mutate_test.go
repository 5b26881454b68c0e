// SPDX-License-Identifier: MIT

package network_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/hgfnet/network"
)

func TestAddNodes_Defaults(t *testing.T) {
	attrs, edges, err := network.AddNodes(network.NewAttributes(), network.Edges{}, network.NodeSpec{Count: 3})
	require.NoError(t, err)

	assert.Equal(t, 3, attrs.Len())
	assert.Equal(t, 3, edges.Len())
	assert.Equal(t, 0, edges.CouplingCount())
	for i := 0; i < 3; i++ {
		assert.Equal(t, network.DefaultNodeAttributes(), attrs.Nodes[i])
		assert.Equal(t, network.NodeContinuous, edges.NodeType(i))
		assert.True(t, edges.At(i).IsRoot())
		assert.True(t, edges.At(i).IsLeaf())
	}
}

func TestAddNodes_WiresChildren(t *testing.T) {
	attrs, edges := buildChain(t)

	assert.Equal(t, []int{1}, edges.Parents(0, network.Value))
	assert.Equal(t, []int{0}, edges.Children(1, network.Value))
	assert.Equal(t, []int{2}, edges.Parents(1, network.Volatility))
	assert.Equal(t, []int{1}, edges.Children(2, network.Volatility))
	assert.Equal(t, []float64{1}, attrs.Nodes[0].ValueCouplingParents)
	assert.Equal(t, []float64{1}, attrs.Nodes[1].ValueCouplingChildren)
	assert.Equal(t, []float64{1}, attrs.Nodes[1].VolatilityCouplingParents)
	assert.Equal(t, []float64{1}, attrs.Nodes[2].VolatilityCouplingChildren)
	assert.NoError(t, network.Validate(attrs, edges))
}

func TestAddNodes_GroupSharesChildren(t *testing.T) {
	attrs, edges, err := network.AddNodes(network.NewAttributes(), network.Edges{}, network.NodeSpec{})
	require.NoError(t, err)
	attrs, edges, err = network.AddNodes(attrs, edges, network.NodeSpec{
		Type:          network.NodeExponentialFamily,
		Count:         2,
		ValueChildren: []network.Link{{Index: 0, Strength: 0.5}},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, edges.Parents(0, network.Value))
	assert.Equal(t, []float64{0.5, 0.5}, attrs.Nodes[0].ValueCouplingParents)
	assert.Equal(t, network.NodeExponentialFamily, edges.NodeType(2))
	assert.Equal(t, 2, edges.CouplingCount())
}

func TestAddNodes_Errors(t *testing.T) {
	attrs, edges := buildChain(t)

	_, _, err := network.AddNodes(attrs, edges, network.NodeSpec{ValueChildren: network.Links(7)})
	assert.ErrorIs(t, err, network.ErrStructuralReference)

	_, _, err = network.AddNodes(attrs, edges, network.NodeSpec{Count: -1})
	assert.ErrorIs(t, err, network.ErrStructuralReference)

	_, _, err = network.AddNodes(attrs, edges, network.NodeSpec{ValueChildren: network.Links(0, 0)})
	assert.ErrorIs(t, err, network.ErrDuplicateEdge)

	assert.Equal(t, 3, edges.Len(), "failed calls must leave the input untouched")
}

func TestAddEdges_Symmetric(t *testing.T) {
	attrs, edges, err := network.AddNodes(network.NewAttributes(), network.Edges{}, network.NodeSpec{Count: 4})
	require.NoError(t, err)

	attrs, edges, err = network.AddEdges(attrs, edges, network.Volatility,
		network.Coupling{Parent: 2, Child: 0, Strength: 1})
	require.NoError(t, err)
	attrs, edges, err = network.AddEdges(attrs, edges, network.Value,
		network.Coupling{Parent: 1, Child: 0, Strength: 0.25})
	require.NoError(t, err)

	assert.Equal(t, []int{2}, edges.Parents(0, network.Volatility))
	assert.Equal(t, []int{0}, edges.Children(2, network.Volatility))
	assert.Equal(t, []int{1}, edges.Parents(0, network.Value))
	assert.Equal(t, []float64{0.25}, attrs.Nodes[0].ValueCouplingParents)
	assert.Equal(t, []float64{0.25}, attrs.Nodes[1].ValueCouplingChildren)
	assert.True(t, edges.HasEdge(network.Value, 1, 0))
	assert.False(t, edges.HasEdge(network.Volatility, 1, 0))
	assert.NoError(t, network.Validate(attrs, edges))
}

func TestAddEdges_InvalidKindLeavesNetworkUnchanged(t *testing.T) {
	attrs, edges := buildReference(t)
	beforeAttrs, beforeEdges := attrs.Clone(), edges.Lists()

	gotAttrs, gotEdges, err := network.AddEdges(attrs, edges, network.CouplingKind("error"),
		network.Coupling{Parent: 0, Child: 1})
	require.ErrorIs(t, err, network.ErrInvalidCouplingKind)
	assert.Zero(t, gotAttrs.Len())
	assert.Zero(t, gotEdges.Len())

	assert.Equal(t, beforeAttrs, attrs)
	assert.Equal(t, beforeEdges, edges.Lists())

	_, err = network.ParseCouplingKind("error")
	assert.ErrorIs(t, err, network.ErrInvalidCouplingKind)
	k, err := network.ParseCouplingKind("volatility")
	require.NoError(t, err)
	assert.Equal(t, network.Volatility, k)
}

func TestAddEdges_Rejections(t *testing.T) {
	attrs, edges := buildChain(t)

	cases := []struct {
		name string
		kind network.CouplingKind
		c    network.Coupling
		want error
	}{
		{"parent out of range", network.Value, network.Coupling{Parent: 9, Child: 0}, network.ErrStructuralReference},
		{"child out of range", network.Value, network.Coupling{Parent: 0, Child: -1}, network.ErrStructuralReference},
		{"self coupling", network.Volatility, network.Coupling{Parent: 1, Child: 1}, network.ErrSelfCoupling},
		{"duplicate", network.Value, network.Coupling{Parent: 1, Child: 0}, network.ErrDuplicateEdge},
		{"direct cycle", network.Value, network.Coupling{Parent: 0, Child: 1}, network.ErrCyclicStructure},
		{"cycle across kinds", network.Value, network.Coupling{Parent: 0, Child: 2}, network.ErrCyclicStructure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := network.AddEdges(attrs, edges, tc.kind, tc.c)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAddEdges_SameEndpointsOtherKindAllowed(t *testing.T) {
	attrs, edges := buildChain(t)

	attrs, edges, err := network.AddEdges(attrs, edges, network.Volatility, network.Coupling{Parent: 1, Child: 0})
	require.NoError(t, err)
	assert.Equal(t, 3, edges.CouplingCount())
	assert.NoError(t, network.Validate(attrs, edges))
}

func TestAddEdges_AtomicOnPartialFailure(t *testing.T) {
	attrs, edges, err := network.AddNodes(network.NewAttributes(), network.Edges{}, network.NodeSpec{Count: 3})
	require.NoError(t, err)

	_, _, err = network.AddEdges(attrs, edges, network.Value,
		network.Coupling{Parent: 1, Child: 0},
		network.Coupling{Parent: 2, Child: 0},
		network.Coupling{Parent: 0, Child: 1}, // closes 0 → 1 → 0
	)
	require.ErrorIs(t, err, network.ErrCyclicStructure)
	assert.Equal(t, 0, edges.CouplingCount())
	assert.Nil(t, attrs.Nodes[0].ValueCouplingParents)
}

func TestAddEdges_CouplingFnAlignment(t *testing.T) {
	square := func(x float64) float64 { return x * x }
	attrs, edges, err := network.AddNodes(network.NewAttributes(), network.Edges{}, network.NodeSpec{Count: 3})
	require.NoError(t, err)

	attrs, edges, err = network.AddEdges(attrs, edges, network.Value, network.Coupling{Parent: 2, Child: 0})
	require.NoError(t, err)
	assert.Nil(t, edges.At(2).CouplingFn, "linear-only parents keep a nil CouplingFn")

	attrs, edges, err = network.AddEdges(attrs, edges, network.Value, network.Coupling{Parent: 2, Child: 1, Fn: square})
	require.NoError(t, err)
	fns := edges.At(2).CouplingFn
	require.Len(t, fns, 2)
	assert.Nil(t, fns[0])
	require.NotNil(t, fns[1])
	assert.Equal(t, 9.0, fns[1](3))
	assert.Equal(t, 3.0, network.CouplingFunc(nil).Resolve()(3))
	assert.True(t, edges.At(2).HasCustomCoupling())
	assert.NoError(t, network.Validate(attrs, edges))

	attrs, edges, err = network.RemoveNode(attrs, edges, 1)
	require.NoError(t, err)
	assert.Len(t, edges.At(1).CouplingFn, 1)
	assert.False(t, edges.At(1).HasCustomCoupling())
	assert.NoError(t, network.Validate(attrs, edges))
}

func TestAddParent_ReferenceScenario(t *testing.T) {
	attrs, edges := buildReference(t)
	require.Equal(t, 7, attrs.RecordCount())
	require.Equal(t, 6, edges.Len())
	require.Equal(t, 2, edges.CouplingCount())

	for _, kind := range network.Kinds {
		newAttrs, newEdges, err := network.AddParent(attrs, edges, 1, kind, 1.0)
		require.NoError(t, err)

		assert.Equal(t, 8, newAttrs.RecordCount())
		assert.Equal(t, 7, newEdges.Len())
		assert.Equal(t, 3, newEdges.CouplingCount())

		assert.Equal(t, []int{6}, newEdges.Parents(1, kind))
		assert.Equal(t, []int{1}, newEdges.Children(6, kind))
		assert.Equal(t, network.NodeContinuous, newEdges.NodeType(6))

		rec := newAttrs.Nodes[6]
		assert.Equal(t, 1.0, rec.Mean)
		assert.Equal(t, 1.0, rec.ExpectedMean)
		assert.Equal(t, 1.0, rec.Precision)
		assert.Equal(t, 1.0, rec.ExpectedPrecision)
		assert.Equal(t, network.DefaultTonicVolatility, rec.TonicVolatility)
		assert.Equal(t, []float64{1}, rec.CouplingChildren(kind))
		assert.Equal(t, []float64{1}, newAttrs.Nodes[1].CouplingParents(kind))
		assert.NoError(t, network.Validate(newAttrs, newEdges))
	}

	// the input pair is a snapshot and is never edited
	assert.Equal(t, 6, edges.Len())
	assert.Nil(t, edges.Parents(1, network.Volatility))
}

func TestAddParent_Errors(t *testing.T) {
	attrs, edges := buildReference(t)

	_, _, err := network.AddParent(attrs, edges, 6, network.Value, 0)
	assert.ErrorIs(t, err, network.ErrStructuralReference)

	_, _, err = network.AddParent(attrs, edges, 0, network.CouplingKind("drift"), 0)
	assert.ErrorIs(t, err, network.ErrInvalidCouplingKind)
}

func TestRemoveNode_Root(t *testing.T) {
	attrs, edges := buildReference(t)

	newAttrs, newEdges, err := network.RemoveNode(attrs, edges, 1)
	require.NoError(t, err)

	assert.Equal(t, 6, newAttrs.RecordCount())
	assert.Equal(t, 5, newEdges.Len())
	assert.Equal(t, 2, newEdges.CouplingCount())
	// old 4 → 3 (child old 2 → 1), old 5 → 4 (child old 3 → 2)
	assert.Equal(t, []int{1}, newEdges.Children(3, network.Value))
	assert.Equal(t, []int{3}, newEdges.Parents(1, network.Value))
	assert.Equal(t, []int{2}, newEdges.Children(4, network.Value))
	assert.Equal(t, []int{4}, newEdges.Parents(2, network.Value))
	assertContiguous(t, newEdges)
	assert.NoError(t, network.Validate(newAttrs, newEdges))
}

func TestRemoveNode_InteriorIsNotReconnected(t *testing.T) {
	attrs, edges := buildChain(t)

	newAttrs, newEdges, err := network.RemoveNode(attrs, edges, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, newEdges.Len())
	assert.Equal(t, 0, newEdges.CouplingCount())
	for _, l := range newEdges.Lists() {
		assert.True(t, l.IsRoot())
		assert.True(t, l.IsLeaf())
	}
	assert.Nil(t, newAttrs.Nodes[0].ValueCouplingParents)
	assert.Nil(t, newAttrs.Nodes[1].VolatilityCouplingChildren)
	assert.NoError(t, network.Validate(newAttrs, newEdges))
}

func TestRemoveNode_OutOfRange(t *testing.T) {
	attrs, edges := buildChain(t)

	for _, idx := range []int{-1, 3} {
		_, _, err := network.RemoveNode(attrs, edges, idx)
		assert.ErrorIs(t, err, network.ErrStructuralReference)
	}
}

func TestMismatchedPairRejected(t *testing.T) {
	attrs, edges := buildChain(t)
	attrs.Nodes = attrs.Nodes[:2]

	_, _, err := network.AddParent(attrs, edges, 0, network.Value, 0)
	assert.ErrorIs(t, err, network.ErrStructuralReference)
	_, _, err = network.RemoveNode(attrs, edges, 0)
	assert.ErrorIs(t, err, network.ErrStructuralReference)
	assert.ErrorIs(t, network.Validate(attrs, edges), network.ErrStructuralReference)
}

// TestCountInvariants grows and shrinks a pseudo-random network and checks the
// node/relation arithmetic after every call.
func TestCountInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	attrs, edges, err := network.AddNodes(network.NewAttributes(), network.Edges{}, network.NodeSpec{Count: 2})
	require.NoError(t, err)

	for step := 0; step < 60; step++ {
		n, e := edges.Len(), edges.CouplingCount()
		if rng.Intn(3) > 0 || n < 3 {
			kind := network.Kinds[rng.Intn(2)]
			attrs, edges, err = network.AddParent(attrs, edges, rng.Intn(n), kind, rng.Float64())
			require.NoError(t, err)
			assert.Equal(t, n+1, edges.Len())
			assert.Equal(t, e+1, edges.CouplingCount())
		} else {
			idx := rng.Intn(n)
			l := edges.At(idx)
			touching := len(l.AllParents()) + len(l.AllChildren())
			attrs, edges, err = network.RemoveNode(attrs, edges, idx)
			require.NoError(t, err)
			assert.Equal(t, n-1, edges.Len())
			assert.Equal(t, e-touching, edges.CouplingCount())
			assertContiguous(t, edges)
		}
		require.NoError(t, network.Validate(attrs, edges))
	}
}
