// SPDX-License-Identifier: MIT
// File: validate.go
// Role: Whole-network consistency check.

package network

import "fmt"

// Validate checks every invariant of an (Attributes, Edges) pair:
//   - one attribute record per adjacency record;
//   - every reference in range, unique within its list and not a self reference;
//   - symmetric parent/child lists per coupling kind;
//   - coupling strengths aligned with their lists, CouplingFn nil or aligned
//     with ValueChildren;
//   - no cycle across both coupling kinds.
//
// The first violation found (scanning nodes in index order) is returned,
// wrapping one of ErrStructuralReference, ErrDuplicateEdge, ErrSelfCoupling,
// ErrAsymmetricEdge, ErrMisalignedCoupling or ErrCyclicStructure.
//
// Complexity: O(V + E·d) where d is the largest list length.
func Validate(attrs Attributes, edges Edges) error {
	if err := checkPair(attrs, edges); err != nil {
		return err
	}
	lists := edges.view()
	n := len(lists)
	for i := range lists {
		l := lists[i]
		a := attrs.Nodes[i]
		for _, kind := range Kinds {
			if err := checkList(i, n, "parents", kind, l.Parents(kind), a.CouplingParents(kind)); err != nil {
				return err
			}
			if err := checkList(i, n, "children", kind, l.Children(kind), a.CouplingChildren(kind)); err != nil {
				return err
			}
			for _, p := range l.Parents(kind) {
				if indexOf(lists[p].Children(kind), i) < 0 {
					return fmt.Errorf("%w: node %d lists %s parent %d which does not list it as child", ErrAsymmetricEdge, i, kind, p)
				}
			}
			for _, c := range l.Children(kind) {
				if indexOf(lists[c].Parents(kind), i) < 0 {
					return fmt.Errorf("%w: node %d lists %s child %d which does not list it as parent", ErrAsymmetricEdge, i, kind, c)
				}
			}
		}
		if l.CouplingFn != nil && len(l.CouplingFn) != len(l.ValueChildren) {
			return fmt.Errorf("%w: node %d has %d coupling functions for %d value children",
				ErrMisalignedCoupling, i, len(l.CouplingFn), len(l.ValueChildren))
		}
	}
	if cycle := FindCycle(edges); cycle != nil {
		return fmt.Errorf("%w: %v", ErrCyclicStructure, cycle)
	}

	return nil
}

func checkList(node, n int, side string, kind CouplingKind, ids []int, strengths []float64) error {
	if len(strengths) != len(ids) {
		return fmt.Errorf("%w: node %d has %d %s %s strengths for %d indices",
			ErrMisalignedCoupling, node, len(strengths), kind, side, len(ids))
	}
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if id < 0 || id >= n {
			return fmt.Errorf("%w: node %d %s %s %d not in [0,%d)", ErrStructuralReference, node, kind, side, id, n)
		}
		if id == node {
			return fmt.Errorf("%w: node %d", ErrSelfCoupling, node)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: node %d lists %s %s %d twice", ErrDuplicateEdge, node, kind, side, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}

// Colors for the three-state depth-first search.
const (
	white = iota
	gray
	black
)

// FindCycle returns one cycle of the parent→child relation (both kinds) as
// a closed path [v0, ..., v0], or nil when the relation is acyclic.
// Roots are tried in ascending index order and children in list order, so
// the reported cycle is deterministic. References out of range are ignored.
//
// Complexity: O(V+E).
func FindCycle(edges Edges) []int {
	lists := edges.view()
	state := make([]int, len(lists))
	path := make([]int, 0, len(lists))

	var visit func(v int) []int
	visit = func(v int) []int {
		state[v] = gray
		path = append(path, v)
		for _, kind := range Kinds {
			for _, c := range lists[v].Children(kind) {
				if c < 0 || c >= len(lists) {
					continue
				}
				switch state[c] {
				case white:
					if cyc := visit(c); cyc != nil {
						return cyc
					}
				case gray:
					start := indexOf(path, c)
					cyc := append([]int(nil), path[start:]...)
					return append(cyc, c)
				}
			}
		}
		path = path[:len(path)-1]
		state[v] = black

		return nil
	}

	for v := range lists {
		if state[v] == white {
			if cyc := visit(v); cyc != nil {
				return cyc
			}
		}
	}

	return nil
}
