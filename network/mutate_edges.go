// SPDX-License-Identifier: MIT
// File: mutate_edges.go
// Role: Edge insertion (AddEdges) and the composite AddParent.
// Policy:
//   - Pure: inputs are never modified; a fresh (Attributes, Edges) pair is returned.
//   - Atomic: every coupling of a call is validated against a private working
//     copy; on error nothing escapes and the caller keeps its prior pair.
//   - Re-adding an existing relation is rejected with ErrDuplicateEdge.

package network

import "fmt"

// Coupling describes one parent→child relation to insert.
//
// Strength zero selects DefaultCouplingStrength. Fn is only meaningful for
// value coupling; a nil Fn selects LinearCoupling.
type Coupling struct {
	Parent   int
	Child    int
	Strength float64
	Fn       CouplingFunc
}

// AddEdges inserts one or more couplings of the given kind.
//
// Implementation:
//   - Stage 1: Validate kind and that attrs/edges describe the same node count.
//   - Stage 2: Clone both containers.
//   - Stage 3: For each coupling, check endpoints, self coupling, duplicates and
//     reachability child ⇝ parent (which would close a cycle), then append the
//     child to parent.{kind}Children and the parent to child.{kind}Parents,
//     keeping strengths (and value coupling functions) aligned.
//
// Errors:
//   - ErrInvalidCouplingKind, ErrStructuralReference, ErrSelfCoupling,
//     ErrDuplicateEdge, ErrCyclicStructure.
//
// Complexity:
//   - Time O(V·k + E·k) for k couplings (one reachability probe each), Space O(V+E).
func AddEdges(attrs Attributes, edges Edges, kind CouplingKind, couplings ...Coupling) (Attributes, Edges, error) {
	if !kind.Valid() {
		return Attributes{}, Edges{}, fmt.Errorf("%w: %q", ErrInvalidCouplingKind, string(kind))
	}
	if err := checkPair(attrs, edges); err != nil {
		return Attributes{}, Edges{}, err
	}

	outAttrs := attrs.Clone()
	outEdges := edges.clone()
	for _, c := range couplings {
		if err := insertCoupling(&outAttrs, outEdges.lists, kind, c); err != nil {
			return Attributes{}, Edges{}, err
		}
	}

	return outAttrs, outEdges, nil
}

// AddParent allocates a new continuous-state node and couples it as a
// kind-parent of the existing node index.
//
// Implementation:
//   - Stage 1: New index = current node count.
//   - Stage 2: Append DefaultNodeAttributes seeded with Mean = ExpectedMean = mean.
//   - Stage 3: Append an empty NodeContinuous adjacency record.
//   - Stage 4: Delegate the relation to AddEdges.
//
// Net effect: node count +1, relation count +1, exactly two adjacency records grow.
func AddParent(attrs Attributes, edges Edges, index int, kind CouplingKind, mean float64) (Attributes, Edges, error) {
	if !kind.Valid() {
		return Attributes{}, Edges{}, fmt.Errorf("%w: %q", ErrInvalidCouplingKind, string(kind))
	}
	if err := checkPair(attrs, edges); err != nil {
		return Attributes{}, Edges{}, err
	}
	if !edges.Has(index) {
		return Attributes{}, Edges{}, fmt.Errorf("%w: AddParent child %d not in [0,%d)", ErrStructuralReference, index, edges.Len())
	}

	parent := edges.Len()
	rec := DefaultNodeAttributes()
	rec.Mean, rec.ExpectedMean = mean, mean

	grownAttrs := attrs.Clone()
	grownAttrs.Nodes = append(grownAttrs.Nodes, rec)
	grown := edges.clone()
	grown.lists = append(grown.lists, AdjacencyList{NodeType: NodeContinuous})

	return AddEdges(grownAttrs, grown, kind, Coupling{Parent: parent, Child: index})
}

// insertCoupling applies one coupling to working copies owned by the caller.
func insertCoupling(attrs *Attributes, lists []AdjacencyList, kind CouplingKind, c Coupling) error {
	n := len(lists)
	if c.Parent < 0 || c.Parent >= n {
		return fmt.Errorf("%w: parent %d not in [0,%d)", ErrStructuralReference, c.Parent, n)
	}
	if c.Child < 0 || c.Child >= n {
		return fmt.Errorf("%w: child %d not in [0,%d)", ErrStructuralReference, c.Child, n)
	}
	if c.Parent == c.Child {
		return fmt.Errorf("%w: node %d", ErrSelfCoupling, c.Parent)
	}
	if indexOf(lists[c.Child].Parents(kind), c.Parent) >= 0 {
		return fmt.Errorf("%w: %s %d -> %d", ErrDuplicateEdge, kind, c.Parent, c.Child)
	}
	if reaches(lists, c.Child, c.Parent) {
		return fmt.Errorf("%w: %s %d -> %d closes a cycle", ErrCyclicStructure, kind, c.Parent, c.Child)
	}

	strength := c.Strength
	if strength == 0 {
		strength = DefaultCouplingStrength
	}

	p, ch := &lists[c.Parent], &lists[c.Child]
	wasValueChildren := len(p.ValueChildren)
	*p.childrenRef(kind) = append(*p.childrenRef(kind), c.Child)
	*ch.parentsRef(kind) = append(*ch.parentsRef(kind), c.Parent)
	// CouplingFn is either nil (all linear) or aligned with ValueChildren.
	if kind == Value && (p.CouplingFn != nil || c.Fn != nil) {
		fns := make([]CouplingFunc, wasValueChildren, wasValueChildren+1)
		copy(fns, p.CouplingFn)
		p.CouplingFn = append(fns, c.Fn)
	}

	pa, ca := &attrs.Nodes[c.Parent], &attrs.Nodes[c.Child]
	*pa.couplingChildren(kind) = append(*pa.couplingChildren(kind), strength)
	*ca.couplingParents(kind) = append(*ca.couplingParents(kind), strength)

	return nil
}

// reaches reports whether to is reachable from from following children of
// both kinds.
func reaches(lists []AdjacencyList, from, to int) bool {
	if from == to {
		return true
	}
	seen := make([]bool, len(lists))
	stack := []int{from}
	seen[from] = true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, kind := range Kinds {
			for _, nxt := range lists[cur].Children(kind) {
				if nxt == to {
					return true
				}
				if nxt >= 0 && nxt < len(lists) && !seen[nxt] {
					seen[nxt] = true
					stack = append(stack, nxt)
				}
			}
		}
	}

	return false
}

// checkPair enforces the one-record-per-node pairing of the two containers.
func checkPair(attrs Attributes, edges Edges) error {
	if attrs.Len() != edges.Len() {
		return fmt.Errorf("%w: %d attribute records for %d adjacency records",
			ErrStructuralReference, attrs.Len(), edges.Len())
	}

	return nil
}
