// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cell

import "sort"

// IndexPair is a single key/value input to BuildIndex.
type IndexPair struct {
	Key   []byte
	Value *Ref
}

// BuildIndex constructs the compressed trie holding exactly the given
// key/value pairs. Keys need not be presorted and must be unique;
// BuildIndex returns a BadFormat error on an empty input, since an
// Index always has at least a root node.
func BuildIndex(pairs []IndexPair) (*Index, error) {
	if len(pairs) == 0 {
		return nil, badFormat("cannot build an index from zero entries")
	}
	return buildIndex(pairs)
}

func buildIndex(pairs []IndexPair) (*Index, error) {
	prefix := pairs[0].Key
	for _, p := range pairs[1:] {
		prefix = commonPrefix(prefix, p.Key)
	}

	var value *Ref
	groups := make(map[byte][]IndexPair)
	var order []byte
	for _, p := range pairs {
		rem := p.Key[len(prefix):]
		if len(rem) == 0 {
			value = p.Value
			continue
		}
		b := rem[0]
		if _, ok := groups[b]; !ok {
			order = append(order, b)
		}
		groups[b] = append(groups[b], IndexPair{Key: rem[1:], Value: p.Value})
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	entries := make([]IndexEntry, 0, len(order))
	for _, b := range order {
		child, err := buildIndex(groups[b])
		if err != nil {
			return nil, err
		}
		ref, err := MakeRef(child)
		if err != nil {
			return nil, err
		}
		entries = append(entries, IndexEntry{Byte: b, Child: ref})
	}
	return NewIndex(prefix, value, entries), nil
}

func commonPrefix(a, b []byte) []byte {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}
