// SPDX-License-Identifier: MIT
// File: attributes.go
// Role: Per-node attribute records (the AttributeStore).
// Policy:
//   - Pure data; no behavior beyond copying and resetting scratch fields.
//   - Attributes is a value type. Structural operations Clone before editing,
//     so a snapshot handed to another caller is never observed half-updated.

package network

// Default dynamics parameters for a freshly allocated node.
const (
	DefaultPrecision              = 1.0
	DefaultTonicVolatility        = -4.0
	DefaultTonicDrift             = 0.0
	DefaultAutoconnectionStrength = 1.0
	DefaultCouplingStrength       = 1.0
)

// Temp holds transient per-step values. They are recomputed every timestep and
// never carried from one timestep to the next.
type Temp struct {
	EffectivePrecision        float64
	ValuePredictionError      float64
	VolatilityPredictionError float64
}

// NodeAttributes is the attribute record of one node.
//
// The four coupling slices are nil when the node has no relation of that kind;
// otherwise they are index-aligned with the matching adjacency list in Edges
// (ValueCouplingParents[i] is the strength of the edge to ValueParents[i]).
type NodeAttributes struct {
	Mean              float64
	ExpectedMean      float64
	Precision         float64
	ExpectedPrecision float64

	ValueCouplingParents       []float64
	ValueCouplingChildren      []float64
	VolatilityCouplingParents  []float64
	VolatilityCouplingChildren []float64

	TonicVolatility        float64
	TonicDrift             float64
	AutoconnectionStrength float64

	// Observed reports whether the node receives a direct observation at the
	// current timestep.
	Observed bool

	Temp Temp
}

// DefaultNodeAttributes returns a record with zero mean, unit precision and the
// standard dynamics parameters.
func DefaultNodeAttributes() NodeAttributes {
	return NodeAttributes{
		Mean:                   0,
		ExpectedMean:           0,
		Precision:              DefaultPrecision,
		ExpectedPrecision:      DefaultPrecision,
		TonicVolatility:        DefaultTonicVolatility,
		TonicDrift:             DefaultTonicDrift,
		AutoconnectionStrength: DefaultAutoconnectionStrength,
		Observed:               true,
	}
}

// Clone returns a deep copy of the record (coupling slices are not shared).
func (a NodeAttributes) Clone() NodeAttributes {
	a.ValueCouplingParents = cloneFloats(a.ValueCouplingParents)
	a.ValueCouplingChildren = cloneFloats(a.ValueCouplingChildren)
	a.VolatilityCouplingParents = cloneFloats(a.VolatilityCouplingParents)
	a.VolatilityCouplingChildren = cloneFloats(a.VolatilityCouplingChildren)

	return a
}

// couplingParents returns a pointer to the parents strength slice for kind.
func (a *NodeAttributes) couplingParents(kind CouplingKind) *[]float64 {
	if kind == Volatility {
		return &a.VolatilityCouplingParents
	}

	return &a.ValueCouplingParents
}

// couplingChildren returns a pointer to the children strength slice for kind.
func (a *NodeAttributes) couplingChildren(kind CouplingKind) *[]float64 {
	if kind == Volatility {
		return &a.VolatilityCouplingChildren
	}

	return &a.ValueCouplingChildren
}

// CouplingParents returns the strengths aligned with the node's kind-parents.
func (a NodeAttributes) CouplingParents(kind CouplingKind) []float64 {
	return *a.couplingParents(kind)
}

// CouplingChildren returns the strengths aligned with the node's kind-children.
func (a NodeAttributes) CouplingChildren(kind CouplingKind) []float64 {
	return *a.couplingChildren(kind)
}

// Attributes is the AttributeStore: one record per node, in node-index order,
// plus the network-level record (the current time step).
type Attributes struct {
	// TimeStep is the network-level record: the elapsed time since the
	// previous observation.
	TimeStep float64

	// Nodes is dense: Nodes[i] belongs to node i.
	Nodes []NodeAttributes
}

// NewAttributes returns an empty store with TimeStep zero.
func NewAttributes() Attributes { return Attributes{} }

// Len returns the number of node records.
func (a Attributes) Len() int { return len(a.Nodes) }

// RecordCount returns the number of records including the network-level one.
func (a Attributes) RecordCount() int { return len(a.Nodes) + 1 }

// Has reports whether i addresses an existing node record.
func (a Attributes) Has(i int) bool { return i >= 0 && i < len(a.Nodes) }

// Clone returns a deep copy of the store.
func (a Attributes) Clone() Attributes {
	out := Attributes{TimeStep: a.TimeStep}
	if a.Nodes != nil {
		out.Nodes = make([]NodeAttributes, len(a.Nodes))
		for i := range a.Nodes {
			out.Nodes[i] = a.Nodes[i].Clone()
		}
	}

	return out
}

// ResetTemp zeroes every scratch record in place.
func (a *Attributes) ResetTemp() {
	for i := range a.Nodes {
		a.Nodes[i].Temp = Temp{}
	}
}

func cloneFloats(s []float64) []float64 {
	if s == nil {
		return nil
	}

	return append([]float64(nil), s...)
}
