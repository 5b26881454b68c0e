// SPDX-License-Identifier: MIT
// Package branch resolves the set of nodes affected by a structural edit.
//
// ListBranches walks downstream (parent → child) from a set of start nodes,
// level by level, visiting each node once, so diamond-shaped subgraphs are
// reported without duplicates. ListOrphanedAncestors walks upstream and
// collects the parents that would be left without children if the start
// nodes were removed; RemoveBranch removes exactly that set.
package branch

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/hgfnet/network"
)

// ListBranches returns branchList followed by every node reachable from start
// through the configured coupling kinds, without duplicates.
//
// Order: the entries of branchList first (first occurrence kept), then the
// walk in depth order, ascending node index within one depth. Every reached
// node is expanded exactly once, including nodes already named in branchList,
// so a partial branchList is always completed.
//
// Errors: ErrStartNodeNotFound, ErrOptionViolation, context errors, or an
// OnVisit error wrapped with the node index.
//
// Complexity: O(V + E) time, O(V) memory (plus sorting per level).
func ListBranches(start []int, edges network.Edges, branchList []int, opts ...Option) ([]int, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	for _, s := range start {
		if !edges.Has(s) {
			return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrStartNodeNotFound, s, edges.Len())
		}
	}

	n := edges.Len()
	listed := make(map[int]bool, n)
	out := make([]int, 0, len(branchList)+len(start))
	for _, id := range branchList {
		if !listed[id] {
			listed[id] = true
			out = append(out, id)
		}
	}

	expanded := make([]bool, n)
	level := make([]int, 0, len(start))
	for _, s := range start {
		if !expanded[s] {
			expanded[s] = true
			level = append(level, s)
		}
	}

	for depth := 0; len(level) > 0; depth++ {
		select {
		case <-o.Ctx.Done():
			return nil, o.Ctx.Err()
		default:
		}

		var next []int
		for _, id := range level {
			if !listed[id] {
				listed[id] = true
				out = append(out, id)
				if err := o.OnVisit(id, depth); err != nil {
					return nil, fmt.Errorf("branch: OnVisit error at %d: %w", id, err)
				}
			}
			for _, kind := range o.Kinds {
				for _, c := range edges.Children(id, kind) {
					if c >= 0 && c < n && !expanded[c] {
						expanded[c] = true
						next = append(next, c)
					}
				}
			}
		}
		slices.Sort(next)
		level = next
	}

	return out, nil
}

// ListOrphanedAncestors returns start followed by every ancestor whose
// children all belong to the branch being built. These are the nodes that
// would be left without any child if the start nodes were removed.
//
// Parents are examined in adjacency order (value parents before volatility
// parents), depth first, each node at most once.
func ListOrphanedAncestors(start []int, edges network.Edges) ([]int, error) {
	for _, s := range start {
		if !edges.Has(s) {
			return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrStartNodeNotFound, s, edges.Len())
		}
	}

	inBranch := make(map[int]bool, len(start))
	var out []int
	var add func(id int)
	add = func(id int) {
		if inBranch[id] {
			return
		}
		inBranch[id] = true
		out = append(out, id)

		l := edges.At(id)
		for _, p := range l.AllParents() {
			if inBranch[p] || !edges.Has(p) {
				continue
			}
			orphaned := true
			for _, c := range edges.At(p).AllChildren() {
				if !inBranch[c] {
					orphaned = false
					break
				}
			}
			if orphaned {
				add(p)
			}
		}
	}
	for _, s := range start {
		add(s)
	}

	return out, nil
}

// RemoveBranch removes root together with its orphaned ancestors and returns
// the new pair plus the removed (original) indices in ascending order.
// Nodes are removed from the highest index down so that pending indices stay
// valid while the network is renumbered.
func RemoveBranch(attrs network.Attributes, edges network.Edges, root int) (network.Attributes, network.Edges, []int, error) {
	doomed, err := ListOrphanedAncestors([]int{root}, edges)
	if err != nil {
		return network.Attributes{}, network.Edges{}, nil, err
	}
	slices.Sort(doomed)

	for i := len(doomed) - 1; i >= 0; i-- {
		attrs, edges, err = network.RemoveNode(attrs, edges, doomed[i])
		if err != nil {
			return network.Attributes{}, network.Edges{}, nil, fmt.Errorf("branch: removing %d: %w", doomed[i], err)
		}
	}

	return attrs, edges, doomed, nil
}
