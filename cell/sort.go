// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cell

import (
	"bytes"
	"math"
	"sort"
)

// canonicalNaN returns the single bit pattern every NaN Double value
// collapses to, so that canonical encoding never has to distinguish
// one NaN payload from another.
func canonicalNaN() float64 {
	return math.Float64frombits(0x7ff8000000000000)
}

// sortMapEntries orders entries by their key's content hash, giving
// map encoding a canonical, insertion-order-independent layout.
func sortMapEntries(entries []MapEntry) []MapEntry {
	out := make([]MapEntry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool {
		hi, hj := out[i].Key.Hash(), out[j].Key.Hash()
		return bytes.Compare(hi[:], hj[:]) < 0
	})
	return out
}

// sortIndexEntries orders an Index node's branches by discriminating
// byte, the order the spec's trie traversal (and hence containsKey)
// relies on.
func sortIndexEntries(entries []IndexEntry) []IndexEntry {
	out := make([]IndexEntry, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool { return out[i].Byte < out[j].Byte })
	return out
}
