// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package store

import "github.com/johnbendi/convex/cell"

// Resolver satisfies cell.Resolve by checking an in-process Cache
// before falling back to a durable Store, and persists cell graphs
// the other direction: Cache on the way out, Store if a backing
// database is configured.
type Resolver struct {
	cache *Cache
	store Store // nil means in-process only, no durable backing
}

// NewResolver returns a Resolver backed by cache and, optionally,
// store. A nil store makes Persist only cache cells in memory, leaving
// Ref status unchanged; Resolve then only ever succeeds for cells
// already seen in this process.
func NewResolver(cache *Cache, store Store) *Resolver {
	return &Resolver{cache: cache, store: store}
}

// Resolve implements cell.Resolve.
func (r *Resolver) Resolve(ref *cell.Ref) (cell.Cell, error) {
	h := ref.Hash()
	if c, ok := r.cache.Get(h); ok {
		return c, nil
	}
	if r.store == nil {
		return nil, cell.NewMissingData(h)
	}
	enc, err := r.store.Get(h)
	if err != nil {
		return nil, cell.NewMissingData(h)
	}
	c, err := cell.Decode(enc)
	if err != nil {
		return nil, err
	}
	if c.Hash() != h {
		return nil, &cell.BadFormatError{Reason: "stored encoding does not hash to its own key"}
	}
	r.cache.Put(c)
	ref.Advance(cell.Stored)
	return c, nil
}

// Persist walks the graph reachable from root and, for every
// non-embedded cell not yet durably stored, caches it in memory and
// writes it to the backing Store, advancing each Ref's status to
// Persisted. Children are written before the parents that reference
// them, so a crash mid-Persist never leaves a dangling reference in
// the store.
func (r *Resolver) Persist(root *cell.Ref) error {
	return cell.Walk(root, r.Resolve, func(ref *cell.Ref) error {
		if ref.Embedded() {
			return nil
		}
		if ref.Status() >= cell.Persisted {
			return nil
		}
		c, ok := ref.Cached()
		if !ok {
			return cell.NewMissingData(ref.Hash())
		}
		r.cache.Put(c)
		if r.store == nil {
			return nil
		}
		enc, err := cell.Encode(c)
		if err != nil {
			return err
		}
		if err := r.store.Put(ref.Hash(), enc); err != nil {
			return err
		}
		ref.Advance(cell.Persisted)
		return nil
	})
}
