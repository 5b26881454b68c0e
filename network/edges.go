// SPDX-License-Identifier: MIT
// File: edges.go
// Role: Adjacency records (the EdgeTable) and read-only accessors.
// Policy:
//   - Edges is immutable: every accessor hands out copies, and structural
//     operations build a new backing slice instead of editing in place.
//   - Lists are ordered by node index; adjacency values are unique per list.
// AI-HINT (file):
//   - Use Parents/Children with a CouplingKind instead of switching on fields.
//   - CouplingCount() counts each relation once (from the child side).

package network

// AdjacencyList is the adjacency record of one node.
//
// A nil slice means "no relation of this kind". CouplingFn is aligned with
// ValueChildren; a nil entry selects LinearCoupling for that edge.
type AdjacencyList struct {
	NodeType NodeType

	ValueParents       []int
	VolatilityParents  []int
	ValueChildren      []int
	VolatilityChildren []int

	CouplingFn []CouplingFunc
}

// Clone returns a deep copy of the record.
func (l AdjacencyList) Clone() AdjacencyList {
	l.ValueParents = cloneInts(l.ValueParents)
	l.VolatilityParents = cloneInts(l.VolatilityParents)
	l.ValueChildren = cloneInts(l.ValueChildren)
	l.VolatilityChildren = cloneInts(l.VolatilityChildren)
	if l.CouplingFn != nil {
		l.CouplingFn = append([]CouplingFunc(nil), l.CouplingFn...)
	}

	return l
}

// Parents returns the kind-parents of this record (shared slice; do not modify).
func (l AdjacencyList) Parents(kind CouplingKind) []int {
	if kind == Volatility {
		return l.VolatilityParents
	}

	return l.ValueParents
}

// Children returns the kind-children of this record (shared slice; do not modify).
func (l AdjacencyList) Children(kind CouplingKind) []int {
	if kind == Volatility {
		return l.VolatilityChildren
	}

	return l.ValueChildren
}

// AllParents returns value parents followed by volatility parents.
func (l AdjacencyList) AllParents() []int {
	out := make([]int, 0, len(l.ValueParents)+len(l.VolatilityParents))
	out = append(out, l.ValueParents...)

	return append(out, l.VolatilityParents...)
}

// AllChildren returns value children followed by volatility children.
func (l AdjacencyList) AllChildren() []int {
	out := make([]int, 0, len(l.ValueChildren)+len(l.VolatilityChildren))
	out = append(out, l.ValueChildren...)

	return append(out, l.VolatilityChildren...)
}

// IsRoot reports whether the node has no parent of either kind.
func (l AdjacencyList) IsRoot() bool {
	return len(l.ValueParents) == 0 && len(l.VolatilityParents) == 0
}

// IsLeaf reports whether the node has no child of either kind.
func (l AdjacencyList) IsLeaf() bool {
	return len(l.ValueChildren) == 0 && len(l.VolatilityChildren) == 0
}

// HasCustomCoupling reports whether any value-child edge carries a custom transform.
func (l AdjacencyList) HasCustomCoupling() bool {
	for _, fn := range l.CouplingFn {
		if fn != nil {
			return true
		}
	}

	return false
}

func (l *AdjacencyList) parentsRef(kind CouplingKind) *[]int {
	if kind == Volatility {
		return &l.VolatilityParents
	}

	return &l.ValueParents
}

func (l *AdjacencyList) childrenRef(kind CouplingKind) *[]int {
	if kind == Volatility {
		return &l.VolatilityChildren
	}

	return &l.ValueChildren
}

// Edges is the EdgeTable: an immutable sequence of adjacency records,
// one per node, ordered by node index.
type Edges struct {
	lists []AdjacencyList
}

// NewEdges builds an Edges value from a copy of lists.
// It does not validate; use Validate for a consistency check.
func NewEdges(lists ...AdjacencyList) Edges {
	out := make([]AdjacencyList, len(lists))
	for i := range lists {
		out[i] = lists[i].Clone()
	}

	return Edges{lists: out}
}

// Len returns the number of adjacency records (the node count).
func (e Edges) Len() int { return len(e.lists) }

// Has reports whether i addresses an existing record.
func (e Edges) Has(i int) bool { return i >= 0 && i < len(e.lists) }

// At returns a deep copy of record i. It panics if i is out of range,
// like a slice index; use Has to guard.
func (e Edges) At(i int) AdjacencyList { return e.lists[i].Clone() }

// Lists returns deep copies of all records.
func (e Edges) Lists() []AdjacencyList {
	out := make([]AdjacencyList, len(e.lists))
	for i := range e.lists {
		out[i] = e.lists[i].Clone()
	}

	return out
}

// NodeType returns the type tag of node i.
func (e Edges) NodeType(i int) NodeType { return e.lists[i].NodeType }

// Parents returns a copy of node i's kind-parents.
func (e Edges) Parents(i int, kind CouplingKind) []int {
	return cloneInts(e.lists[i].Parents(kind))
}

// Children returns a copy of node i's kind-children.
func (e Edges) Children(i int, kind CouplingKind) []int {
	return cloneInts(e.lists[i].Children(kind))
}

// HasEdge reports whether parent→child exists under kind.
func (e Edges) HasEdge(kind CouplingKind, parent, child int) bool {
	if !e.Has(parent) || !e.Has(child) {
		return false
	}

	return indexOf(e.lists[child].Parents(kind), parent) >= 0
}

// CouplingCount returns the number of coupling relations in the table.
//
// Complexity: O(V).
func (e Edges) CouplingCount() int {
	n := 0
	for i := range e.lists {
		n += len(e.lists[i].ValueParents) + len(e.lists[i].VolatilityParents)
	}

	return n
}

// clone returns an Edges whose backing slice may be edited freely.
func (e Edges) clone() Edges { return Edges{lists: e.Lists()} }

// view returns the backing slice for read-only use inside this package.
func (e Edges) view() []AdjacencyList { return e.lists }

func cloneInts(s []int) []int {
	if s == nil {
		return nil
	}

	return append([]int(nil), s...)
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}

	return -1
}
