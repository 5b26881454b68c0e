// SPDX-License-Identifier: MIT

package network_test

import (
	"fmt"

	"github.com/katalvlaran/hgfnet/network"
)

// ExampleAddParent grows the reference model by a volatility parent.
//
//	0   1   2   3
//	    ⇡   ↑   ↑
//	    6   4   5
//
// Node 6 is the new parent; ⇡ marks volatility coupling.
func ExampleAddParent() {
	attrs, edges := network.NewAttributes(), network.Edges{}
	for _, spec := range []network.NodeSpec{
		{Count: 4},
		{ValueChildren: network.Links(2)},
		{ValueChildren: network.Links(3)},
	} {
		// Errors are ignored for brevity; every reference exists.
		attrs, edges, _ = network.AddNodes(attrs, edges, spec)
	}

	attrs, edges, err := network.AddParent(attrs, edges, 1, network.Volatility, 1.0)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println("records:", attrs.RecordCount())
	fmt.Println("adjacency records:", edges.Len())
	fmt.Println("couplings:", edges.CouplingCount())
	fmt.Println("parents of 1:", edges.Parents(1, network.Volatility))
	fmt.Println("mean of 6:", attrs.Nodes[6].Mean)

	// Output:
	// records: 8
	// adjacency records: 7
	// couplings: 3
	// parents of 1: [6]
	// mean of 6: 1
}
