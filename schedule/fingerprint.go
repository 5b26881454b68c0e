// SPDX-License-Identifier: MIT

package schedule

import (
	"encoding/binary"
	"encoding/hex"

	"lukechampine.com/blake3"

	"github.com/katalvlaran/hgfnet/network"
)

// Fingerprint is a blake3 digest of a topology: node count, node types, all
// four index lists and the position of every custom coupling transform.
// Coupling strengths and attribute values are not part of it.
type Fingerprint [32]byte

// String returns the hex form of the first 8 bytes.
func (f Fingerprint) String() string { return hex.EncodeToString(f[:8]) }

// FingerprintOf hashes the canonical encoding of edges.
func FingerprintOf(edges network.Edges) Fingerprint {
	h := blake3.New(32, nil)
	var buf [binary.MaxVarintLen64]byte
	put := func(v int) {
		n := binary.PutVarint(buf[:], int64(v))
		_, _ = h.Write(buf[:n])
	}
	list := func(ids []int) {
		put(len(ids))
		for _, id := range ids {
			put(id)
		}
	}

	lists := edges.Lists()
	put(len(lists))
	for _, l := range lists {
		put(int(l.NodeType))
		list(l.ValueParents)
		list(l.VolatilityParents)
		list(l.ValueChildren)
		list(l.VolatilityChildren)
		put(len(l.CouplingFn))
		for _, fn := range l.CouplingFn {
			if fn != nil {
				put(1)
			} else {
				put(0)
			}
		}
	}

	var f Fingerprint
	copy(f[:], h.Sum(nil))

	return f
}
