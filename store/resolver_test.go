// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnbendi/convex/cell"
)

type memStore struct {
	data map[cell.Hash][]byte
}

func newMemStore() *memStore { return &memStore{data: make(map[cell.Hash][]byte)} }

func (m *memStore) Has(h cell.Hash) (bool, error) {
	_, ok := m.data[h]
	return ok, nil
}

func (m *memStore) Get(h cell.Hash) ([]byte, error) {
	enc, ok := m.data[h]
	if !ok {
		return nil, cell.NewMissingData(h)
	}
	return enc, nil
}

func (m *memStore) Put(h cell.Hash, encoding []byte) error {
	m.data[h] = encoding
	return nil
}

func bigBlob(n int) *cell.BlobLeaf {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return cell.NewBlobLeaf(b)
}

func TestResolverPersistAndResolve(t *testing.T) {
	backing := newMemStore()
	writer := NewResolver(NewCache(), backing)

	child, err := cell.MakeRef(bigBlob(500))
	require.NoError(t, err)
	vec, err := cell.NewVectorLeaf([]*cell.Ref{child})
	require.NoError(t, err)
	root, err := cell.MakeRef(vec)
	require.NoError(t, err)

	require.NoError(t, writer.Persist(root))
	require.Equal(t, cell.Persisted, root.Status())
	require.Equal(t, cell.Persisted, child.Status())

	has, err := backing.Has(child.Hash())
	require.NoError(t, err)
	require.True(t, has)

	// A fresh resolver sharing only the backing store, not the
	// in-process cache, must still resolve every descendant.
	reader := NewResolver(NewCache(), backing)
	freshRoot := cell.NewIndirectRef(root.Hash(), cell.Stored)
	err = cell.Walk(freshRoot, reader.Resolve, func(*cell.Ref) error { return nil })
	require.NoError(t, err)

	got, ok := freshRoot.Cached()
	require.True(t, ok)
	require.Equal(t, root.Hash(), got.Hash())
}

func TestResolverMissingData(t *testing.T) {
	reader := NewResolver(NewCache(), newMemStore())
	ref := cell.NewIndirectRef(cell.HashOf([]byte("nonexistent")), cell.Stored)
	_, err := reader.Resolve(ref)
	require.Error(t, err)
}
