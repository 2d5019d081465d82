// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cell

// Resolve looks up the cell behind a Ref, consulting whatever cache
// or backing store the caller wants to wire in. Implementations
// return a MissingDataError (see NewMissingData) when the cell isn't
// available anywhere, rather than treating it as a format error.
type Resolve func(*Ref) (Cell, error)

// Walk visits every Ref transitively reachable from root exactly
// once, children before their parent, deduplicating by hash so a cell
// shared by two parents is only visited once. It is the traversal
// both Announce (publish novelty in dependency order) and Persist
// (write children before the parent that references them) build on.
//
// Embedded refs never need resolve: their cell travelled with them.
// Indirect refs call resolve to fetch the target, caching the result
// on the Ref so a later Walk over the same graph is free.
func Walk(root *Ref, resolve Resolve, visit func(*Ref) error) error {
	seen := make(map[Hash]struct{})
	return walk(root, resolve, visit, seen)
}

func walk(r *Ref, resolve Resolve, visit func(*Ref) error, seen map[Hash]struct{}) error {
	h := r.Hash()
	if _, ok := seen[h]; ok {
		return nil
	}
	seen[h] = struct{}{}

	c, ok := r.Cached()
	if !ok {
		if resolve == nil {
			return NewMissingData(h)
		}
		var err error
		c, err = resolve(r)
		if err != nil {
			return err
		}
		r.setCached(c)
	}

	if p, ok := c.(parented); ok {
		for _, child := range p.children() {
			if err := walk(child, resolve, visit, seen); err != nil {
				return err
			}
		}
	}
	return visit(r)
}
