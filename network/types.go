// SPDX-License-Identifier: MIT
// Package network defines the data model of a hierarchical Gaussian filter
// network: the per-node attribute records (Attributes), the index-aligned
// adjacency records (Edges), and the pure structural mutations that grow or
// shrink the network while keeping both containers consistent.
//
// This file declares NodeType, CouplingKind, CouplingFunc and the sentinel
// errors shared by every structural operation.
//
// Errors:
//
//	ErrStructuralReference - index out of range or relation to a missing node.
//	ErrInvalidCouplingKind - edge kind outside {"value", "volatility"}.
//	ErrCyclicStructure     - relation set contains (or would contain) a cycle.
//	ErrDuplicateEdge       - relation already present between the two nodes.
//	ErrSelfCoupling        - a node coupled to itself.
//	ErrAsymmetricEdge      - parent/child lists disagree.
//	ErrMisalignedCoupling  - coupling strengths not aligned with adjacency.
//	ErrInvalidNodeType     - node type name or tag outside the declared kinds.
package network

import (
	"errors"
	"fmt"
)

// Sentinel errors for network operations.
var (
	// ErrStructuralReference indicates an index out of range, or a relation that
	// references a node which does not exist.
	ErrStructuralReference = errors.New("network: structural reference error")

	// ErrInvalidCouplingKind indicates an edge kind outside {value, volatility}.
	ErrInvalidCouplingKind = errors.New("network: invalid coupling kind")

	// ErrCyclicStructure indicates that the coupling relation contains a cycle.
	ErrCyclicStructure = errors.New("network: cyclic structure")

	// ErrDuplicateEdge indicates an attempt to add a relation that already exists.
	ErrDuplicateEdge = errors.New("network: duplicate edge")

	// ErrSelfCoupling indicates a relation whose parent and child are the same node.
	ErrSelfCoupling = errors.New("network: self coupling not allowed")

	// ErrAsymmetricEdge indicates that a parent lists a child (or vice versa)
	// without the matching back-reference.
	ErrAsymmetricEdge = errors.New("network: asymmetric edge")

	// ErrMisalignedCoupling indicates coupling strengths or coupling functions
	// whose length differs from the adjacency list they annotate.
	ErrMisalignedCoupling = errors.New("network: misaligned coupling")

	// ErrInvalidNodeType indicates a node type outside the declared kinds.
	ErrInvalidNodeType = errors.New("network: invalid node type")
)

// NodeType tags a node kind for the external update-equation dispatcher.
// The scheduler only consults it through HasPrediction.
type NodeType int

const (
	// NodeContinuous is a continuous state node (the default latent kind).
	NodeContinuous NodeType = iota
	// NodeBinary is a binary state node.
	NodeBinary
	// NodeExponentialFamily is an exponential-family state node.
	NodeExponentialFamily
	// NodeDirichletProcess is a Dirichlet-process state node; it has no prediction phase.
	NodeDirichletProcess
	// NodeGeneric is a generic latent state.
	NodeGeneric
)

var nodeTypeNames = [...]string{
	NodeContinuous:        "continuous-state",
	NodeBinary:            "binary-state",
	NodeExponentialFamily: "ef-state",
	NodeDirichletProcess:  "dp-state",
	NodeGeneric:           "generic-state",
}

// String returns the canonical name, e.g. "continuous-state".
func (t NodeType) String() string {
	if t < 0 || int(t) >= len(nodeTypeNames) {
		return fmt.Sprintf("NodeType(%d)", int(t))
	}

	return nodeTypeNames[t]
}

// Valid reports whether t is one of the declared node kinds.
func (t NodeType) Valid() bool { return t >= 0 && int(t) < len(nodeTypeNames) }

// HasPrediction reports whether nodes of this kind run a prediction step.
func (t NodeType) HasPrediction() bool { return t != NodeDirichletProcess }

// ParseNodeType maps a canonical name to its NodeType.
// The empty string maps to NodeContinuous, the zero value.
func ParseNodeType(name string) (NodeType, error) {
	if name == "" {
		return NodeContinuous, nil
	}
	for i, n := range nodeTypeNames {
		if n == name {
			return NodeType(i), nil
		}
	}

	return NodeContinuous, fmt.Errorf("%w: %q", ErrInvalidNodeType, name)
}

// CouplingKind selects one of the two coupling relations.
type CouplingKind string

const (
	// Value coupling: the parent's mean informs the child's predicted mean.
	Value CouplingKind = "value"
	// Volatility coupling: the parent's state modulates the child's precision dynamics.
	Volatility CouplingKind = "volatility"
)

// Kinds lists both coupling kinds in canonical order.
var Kinds = [2]CouplingKind{Value, Volatility}

// Valid reports whether k is value or volatility.
func (k CouplingKind) Valid() bool { return k == Value || k == Volatility }

// ParseCouplingKind validates a raw kind string.
func ParseCouplingKind(s string) (CouplingKind, error) {
	k := CouplingKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidCouplingKind, s, Value, Volatility)
	}

	return k, nil
}

// CouplingFunc is a custom transform applied to a parent's state along one
// value-coupling edge. A nil CouplingFunc means LinearCoupling.
type CouplingFunc func(x float64) float64

// LinearCoupling is the default coupling transform (identity; the coupling
// strength is applied by the update equations).
func LinearCoupling(x float64) float64 { return x }

// Resolve returns fn, or LinearCoupling when fn is nil.
func (fn CouplingFunc) Resolve() CouplingFunc {
	if fn == nil {
		return LinearCoupling
	}

	return fn
}
