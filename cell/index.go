// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cell

import (
	"bytes"
	"sort"
)

// IndexGet walks the compressed trie rooted at root looking up key,
// resolving indirect children through resolve as needed. It returns
// the value Ref and true if key is present, or (nil, false, nil) if
// key is simply absent from the trie.
func IndexGet(root *Index, key []byte, resolve Resolve) (*Ref, bool, error) {
	node := root
	rem := key
	for {
		if !bytes.HasPrefix(rem, node.Prefix) {
			return nil, false, nil
		}
		rem = rem[len(node.Prefix):]
		if len(rem) == 0 {
			if node.Value == nil {
				return nil, false, nil
			}
			return node.Value, true, nil
		}

		b := rem[0]
		i := sort.Search(len(node.Entries), func(i int) bool { return node.Entries[i].Byte >= b })
		if i >= len(node.Entries) || node.Entries[i].Byte != b {
			return nil, false, nil
		}

		child, err := resolveChild(node.Entries[i].Child, resolve)
		if err != nil {
			return nil, false, err
		}
		next, ok := child.(*Index)
		if !ok {
			return nil, false, badFormat("index entry for byte 0x%02x does not point at an Index cell", b)
		}
		node = next
	}
}

// ContainsKey reports whether key is present anywhere in the trie
// rooted at root.
func ContainsKey(root *Index, key []byte, resolve Resolve) (bool, error) {
	_, found, err := IndexGet(root, key, resolve)
	return found, err
}

func resolveChild(r *Ref, resolve Resolve) (Cell, error) {
	if c, ok := r.Cached(); ok {
		return c, nil
	}
	if resolve == nil {
		return nil, NewMissingData(r.Hash())
	}
	c, err := resolve(r)
	if err != nil {
		return nil, err
	}
	r.setCached(c)
	return c, nil
}
