// SPDX-License-Identifier: MIT
// Package network is the structural core of an hgfnet model: a directed acyclic
// network of belief nodes joined by value and volatility couplings.
//
// What
//
//   - Attributes: one NodeAttributes record per node (means, precisions,
//     coupling strengths, dynamics parameters, scratch values) plus the
//     network-level TimeStep record.
//   - Edges: one AdjacencyList per node, ordered by node index, listing
//     parents and children per coupling kind and optional custom coupling
//     transforms for value-child edges.
//   - Mutations: AddNodes, AddEdges, AddParent and RemoveNode take a pair
//     (Attributes, Edges) and return a new pair. Inputs are never modified.
//
// Why
//
//	A model is built by applying mutations one after another. Because each call
//	consumes a snapshot and returns a new one, a pair that was handed to the
//	scheduler (or to another goroutine) can never be observed half-edited, and
//	there is no ambient "current network" object to synchronize.
//
// Invariants
//
//   - attrs.Len() == edges.Len().
//   - If B lists A as a kind-parent then A lists B as a kind-child.
//   - Lists are unique, contain no self reference, and the union of both
//     relations is acyclic.
//   - Coupling strengths are index-aligned with their adjacency list.
//
// Validate checks all of them; every mutation preserves them.
//
// Errors
//
//	Structural violations wrap the sentinels declared in types.go and are
//	checked with errors.Is. A failed call returns zero values, so the caller's
//	previous pair remains the valid current state.
//
// Usage
//
//	attrs, edges := network.NewAttributes(), network.Edges{}
//	attrs, edges, err := network.AddNodes(attrs, edges, network.NodeSpec{Count: 2})
//	attrs, edges, err = network.AddParent(attrs, edges, 0, network.Volatility, 1.0)
//	attrs, edges, err = network.RemoveNode(attrs, edges, 1)
package network
