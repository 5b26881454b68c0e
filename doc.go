// Package hgfnet is the structural core of a hierarchical Gaussian filter:
// the network data model, the structural edits that grow or shrink it, and
// the scheduler that turns a frozen topology into a belief propagation order.
//
// What is inside?
//
//	network/    — per-node attributes, adjacency records, AddNodes, AddEdges,
//	              AddParent, RemoveNode, Validate
//	branch/     — downstream impact sets and orphaned-ancestor removal
//	schedule/   — update sequence derivation, equation registry, fingerprint
//	runner/     — replay of a bound sequence over an observation series
//	netfile/    — YAML and HCL network definitions
//	cmd/hgfnet  — command-line front end
//
// The update equations themselves are not part of this module. They are
// plugged in through schedule.Registry, keyed by step kind, node type,
// posterior variant and coupling transform.
//
// Quick example:
//
//	    2      volatility parent
//	    ⇣
//	    1      value parent
//	    ↓
//	    0      input
//
//	attrs, edges, _ := network.AddNodes(network.NewAttributes(), network.Edges{}, network.NodeSpec{})
//	attrs, edges, _ = network.AddParent(attrs, edges, 0, network.Value, 0)
//	attrs, edges, _ = network.AddParent(attrs, edges, 1, network.Volatility, 0)
//	seq, _ := schedule.Derive(edges, schedule.WithResolver(registry))
//	r, _ := runner.New(edges, seq)
//	res, _ := r.Run(ctx, attrs, runner.Observations{Values: series})
//
//	go get github.com/katalvlaran/hgfnet
package hgfnet
