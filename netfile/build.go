// SPDX-License-Identifier: MIT

package netfile

import (
	"fmt"

	"github.com/katalvlaran/hgfnet/network"
)

// Build creates the network described by d and validates it.
// Errors wrap ErrInvalidDocument together with the network error.
func (d *Document) Build() (network.Attributes, network.Edges, error) {
	attrs, edges := network.NewAttributes(), network.Edges{}
	var err error

	for i, g := range d.Nodes {
		spec, err := g.spec()
		if err != nil {
			return network.Attributes{}, network.Edges{}, fmt.Errorf("%w: node group %d (%s): %w", ErrInvalidDocument, i, g.Name, err)
		}
		attrs, edges, err = network.AddNodes(attrs, edges, spec)
		if err != nil {
			return network.Attributes{}, network.Edges{}, fmt.Errorf("%w: node group %d (%s): %w", ErrInvalidDocument, i, g.Name, err)
		}
	}

	for i, e := range d.Edges {
		kind, err := network.ParseCouplingKind(e.Kind)
		if err != nil {
			return network.Attributes{}, network.Edges{}, fmt.Errorf("%w: edge %d: %w", ErrInvalidDocument, i, err)
		}
		attrs, edges, err = network.AddEdges(attrs, edges, kind,
			network.Coupling{Parent: e.Parent, Child: e.Child, Strength: e.Strength})
		if err != nil {
			return network.Attributes{}, network.Edges{}, fmt.Errorf("%w: edge %d: %w", ErrInvalidDocument, i, err)
		}
	}

	if err = network.Validate(attrs, edges); err != nil {
		return network.Attributes{}, network.Edges{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return attrs, edges, nil
}

func (g NodeGroup) spec() (network.NodeSpec, error) {
	t, err := network.ParseNodeType(g.Type)
	if err != nil {
		return network.NodeSpec{}, err
	}
	if g.Count < 0 {
		return network.NodeSpec{}, fmt.Errorf("%w: negative count %d", network.ErrStructuralReference, g.Count)
	}

	seed := network.DefaultNodeAttributes()
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&seed.Mean, g.Mean)
	set(&seed.Precision, g.Precision)
	set(&seed.TonicVolatility, g.TonicVolatility)
	set(&seed.TonicDrift, g.TonicDrift)
	set(&seed.AutoconnectionStrength, g.AutoconnectionStrength)
	seed.ExpectedMean, seed.ExpectedPrecision = seed.Mean, seed.Precision

	links := func(ids []int) []network.Link {
		if len(ids) == 0 {
			return nil
		}
		out := make([]network.Link, len(ids))
		for i, id := range ids {
			out[i] = network.Link{Index: id, Strength: g.CouplingStrength}
		}
		return out
	}

	return network.NodeSpec{
		Type:               t,
		Count:              g.Count,
		Attributes:         &seed,
		ValueChildren:      links(g.ValueChildren),
		VolatilityChildren: links(g.VolatilityChildren),
	}, nil
}

// FromNetwork describes an existing network as a document: one group per
// node and one edge per coupling, in parent then kind order. Custom coupling
// transforms have no file representation and are dropped.
func FromNetwork(attrs network.Attributes, edges network.Edges) *Document {
	doc := &Document{Nodes: make([]NodeGroup, 0, attrs.Len())}
	for i, rec := range attrs.Nodes {
		doc.Nodes = append(doc.Nodes, NodeGroup{
			Name:                   fmt.Sprintf("n%d", i),
			Type:                   edges.NodeType(i).String(),
			Mean:                   &rec.Mean,
			Precision:              &rec.Precision,
			TonicVolatility:        &rec.TonicVolatility,
			TonicDrift:             &rec.TonicDrift,
			AutoconnectionStrength: &rec.AutoconnectionStrength,
		})
	}
	for p, rec := range attrs.Nodes {
		for _, kind := range network.Kinds {
			strengths := rec.CouplingChildren(kind)
			for j, c := range edges.Children(p, kind) {
				e := Edge{Kind: string(kind), Parent: p, Child: c}
				if j < len(strengths) {
					e.Strength = strengths[j]
				}
				doc.Edges = append(doc.Edges, e)
			}
		}
	}

	return doc
}
