// SPDX-License-Identifier: MIT
// File: mutate_nodes.go
// Role: Node lifecycle: AddNodes and RemoveNode.
// Determinism:
//   - New nodes take the next free indices in order.
//   - RemoveNode renumbers survivors preserving their relative order.
// AI-HINT (file):
//   - RemoveNode never reconnects grandparents to grandchildren; relations
//     through the removed node are simply severed.

package network

import "fmt"

// Link is a child reference used when creating nodes.
// Strength zero selects DefaultCouplingStrength; Fn applies to value links only.
type Link struct {
	Index    int
	Strength float64
	Fn       CouplingFunc
}

// Links builds default-strength links to the given indices.
func Links(indices ...int) []Link {
	out := make([]Link, len(indices))
	for i, idx := range indices {
		out[i] = Link{Index: idx}
	}

	return out
}

// NodeSpec describes a group of nodes for AddNodes.
type NodeSpec struct {
	// Type of every created node.
	Type NodeType

	// Count of nodes to create; zero means one.
	Count int

	// Attributes seeds each node; nil selects DefaultNodeAttributes.
	// Coupling slices in the seed are ignored.
	Attributes *NodeAttributes

	// ValueChildren and VolatilityChildren are existing nodes that every
	// created node becomes a parent of.
	ValueChildren      []Link
	VolatilityChildren []Link
}

// AddNodes appends spec.Count nodes and wires them to the requested children.
//
// Implementation:
//   - Stage 1: Validate the pair, the node type and every child index against
//     the nodes that exist before the call.
//   - Stage 2: Append default (or seeded) records and empty adjacency lists.
//   - Stage 3: Couple each new node to its value and volatility children.
//
// Errors:
//   - ErrStructuralReference: unknown child index, negative count or unknown type.
//   - Any AddEdges error (e.g. ErrDuplicateEdge when a child is listed twice).
//
// Complexity:
//   - Time O((V+E)·k) where k = Count·(#children), Space O(V+E).
func AddNodes(attrs Attributes, edges Edges, spec NodeSpec) (Attributes, Edges, error) {
	if err := checkPair(attrs, edges); err != nil {
		return Attributes{}, Edges{}, err
	}
	if spec.Count < 0 {
		return Attributes{}, Edges{}, fmt.Errorf("%w: negative node count %d", ErrStructuralReference, spec.Count)
	}
	if !spec.Type.Valid() {
		return Attributes{}, Edges{}, fmt.Errorf("%w: %d", ErrInvalidNodeType, int(spec.Type))
	}
	count := spec.Count
	if count == 0 {
		count = 1
	}
	existing := edges.Len()
	for _, group := range [][]Link{spec.ValueChildren, spec.VolatilityChildren} {
		for _, l := range group {
			if l.Index < 0 || l.Index >= existing {
				return Attributes{}, Edges{}, fmt.Errorf("%w: child %d not in [0,%d)", ErrStructuralReference, l.Index, existing)
			}
		}
	}

	seed := DefaultNodeAttributes()
	if spec.Attributes != nil {
		seed = spec.Attributes.Clone()
	}
	seed.ValueCouplingParents, seed.ValueCouplingChildren = nil, nil
	seed.VolatilityCouplingParents, seed.VolatilityCouplingChildren = nil, nil

	outAttrs := attrs.Clone()
	outEdges := edges.clone()
	for i := 0; i < count; i++ {
		outAttrs.Nodes = append(outAttrs.Nodes, seed.Clone())
		outEdges.lists = append(outEdges.lists, AdjacencyList{NodeType: spec.Type})
	}

	for i := 0; i < count; i++ {
		parent := existing + i
		for _, l := range spec.ValueChildren {
			c := Coupling{Parent: parent, Child: l.Index, Strength: l.Strength, Fn: l.Fn}
			if err := insertCoupling(&outAttrs, outEdges.lists, Value, c); err != nil {
				return Attributes{}, Edges{}, err
			}
		}
		for _, l := range spec.VolatilityChildren {
			c := Coupling{Parent: parent, Child: l.Index, Strength: l.Strength}
			if err := insertCoupling(&outAttrs, outEdges.lists, Volatility, c); err != nil {
				return Attributes{}, Edges{}, err
			}
		}
	}

	return outAttrs, outEdges, nil
}

// RemoveNode deletes node index and every relation that references it, then
// renumbers the remaining nodes to 0..N-2.
//
// Implementation:
//   - Stage 1: Build the remap table old→new (−1 for the removed node) before
//     touching any record.
//   - Stage 2: For every surviving record, drop references to the removed node
//     together with their aligned strengths / coupling functions, and map all
//     other references through the table.
//
// Behavior highlights:
//   - A removed interior node leaves its parents and children disconnected from
//     each other; nothing is rewired.
//   - Lists that become empty are normalized to nil ("absent").
//
// Errors:
//   - ErrStructuralReference: index out of range or mismatched pair.
//
// Complexity:
//   - Time O(V+E), Space O(V+E).
func RemoveNode(attrs Attributes, edges Edges, index int) (Attributes, Edges, error) {
	if err := checkPair(attrs, edges); err != nil {
		return Attributes{}, Edges{}, err
	}
	if !edges.Has(index) {
		return Attributes{}, Edges{}, fmt.Errorf("%w: RemoveNode %d not in [0,%d)", ErrStructuralReference, index, edges.Len())
	}

	n := edges.Len()
	remap := make([]int, n)
	next := 0
	for old := 0; old < n; old++ {
		if old == index {
			remap[old] = -1
			continue
		}
		remap[old] = next
		next++
	}

	src := edges.view()
	outAttrs := Attributes{TimeStep: attrs.TimeStep, Nodes: make([]NodeAttributes, 0, n-1)}
	outLists := make([]AdjacencyList, 0, n-1)
	for old := 0; old < n; old++ {
		if remap[old] < 0 {
			continue
		}
		l := src[old]
		a := attrs.Nodes[old].Clone()
		nl := AdjacencyList{NodeType: l.NodeType}

		nl.ValueParents, a.ValueCouplingParents, _ = rewrite(l.ValueParents, a.ValueCouplingParents, nil, remap)
		nl.VolatilityParents, a.VolatilityCouplingParents, _ = rewrite(l.VolatilityParents, a.VolatilityCouplingParents, nil, remap)
		nl.ValueChildren, a.ValueCouplingChildren, nl.CouplingFn = rewrite(l.ValueChildren, a.ValueCouplingChildren, l.CouplingFn, remap)
		nl.VolatilityChildren, a.VolatilityCouplingChildren, _ = rewrite(l.VolatilityChildren, a.VolatilityCouplingChildren, nil, remap)

		outAttrs.Nodes = append(outAttrs.Nodes, a)
		outLists = append(outLists, nl)
	}

	return outAttrs, Edges{lists: outLists}, nil
}

// rewrite maps ids through remap, dropping removed ids along with the entries
// at the same position in the aligned strengths and fns slices.
// Empty results are returned as nil.
func rewrite(ids []int, strengths []float64, fns []CouplingFunc, remap []int) ([]int, []float64, []CouplingFunc) {
	if len(ids) == 0 {
		return nil, nil, nil
	}
	var (
		outIDs []int
		outS   []float64
		outFn  []CouplingFunc
	)
	for i, id := range ids {
		if id < 0 || id >= len(remap) || remap[id] < 0 {
			continue
		}
		outIDs = append(outIDs, remap[id])
		if i < len(strengths) {
			outS = append(outS, strengths[i])
		}
		if fns != nil {
			var fn CouplingFunc
			if i < len(fns) {
				fn = fns[i]
			}
			outFn = append(outFn, fn)
		}
	}

	return outIDs, outS, outFn
}
