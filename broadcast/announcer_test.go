// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package broadcast

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnbendi/convex/cell"
	"github.com/johnbendi/convex/store"
)

type memStore struct {
	mu   sync.Mutex
	data map[cell.Hash][]byte
}

func newMemStore() *memStore { return &memStore{data: make(map[cell.Hash][]byte)} }

func (m *memStore) Has(h cell.Hash) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[h]
	return ok, nil
}

func (m *memStore) Get(h cell.Hash) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	enc, ok := m.data[h]
	if !ok {
		return nil, cell.NewMissingData(h)
	}
	return enc, nil
}

func (m *memStore) Put(h cell.Hash, encoding []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[h] = encoding
	return nil
}

func bigBlob(n int, fill byte) *cell.BlobLeaf {
	b := make([]byte, n)
	for i := range b {
		b[i] = fill
	}
	return cell.NewBlobLeaf(b)
}

func TestAnnounceSendsNoveltyOnlyOnRepeat(t *testing.T) {
	resolver := store.NewResolver(store.NewCache(), newMemStore())

	var sent [][]byte
	transport := func(msg []byte) error {
		sent = append(sent, msg)
		return nil
	}
	a := NewAnnouncer(resolver, transport, nil, nil)

	shared, err := cell.MakeRef(bigBlob(500, 0xAA))
	require.NoError(t, err)

	vec1, err := cell.NewVectorLeaf([]*cell.Ref{shared})
	require.NoError(t, err)
	root1, err := cell.MakeRef(vec1)
	require.NoError(t, err)
	require.NoError(t, a.Announce(root1))
	require.Len(t, sent, 1)
	first := len(sent[0])

	other, err := cell.MakeRef(bigBlob(600, 0xBB))
	require.NoError(t, err)
	vec2, err := cell.NewVectorLeaf([]*cell.Ref{shared, other})
	require.NoError(t, err)
	root2, err := cell.MakeRef(vec2)
	require.NoError(t, err)
	require.NoError(t, a.Announce(root2))
	require.Len(t, sent, 2)
	require.Positive(t, first)

	a.mu.Lock()
	sharedAnnounced := a.announced.Contains(shared.Hash())
	otherAnnounced := a.announced.Contains(other.Hash())
	rootAnnounced := a.announced.Contains(root2.Hash())
	a.mu.Unlock()
	require.True(t, sharedAnnounced)
	require.True(t, otherAnnounced)
	require.True(t, rootAnnounced)
	require.Equal(t, cell.Announced, shared.Status())
}

func TestAnnounceAllSucceedsAcrossRoots(t *testing.T) {
	resolver := store.NewResolver(store.NewCache(), newMemStore())
	a := NewAnnouncer(resolver, func([]byte) error { return nil }, nil, nil)

	r1, err := cell.MakeRef(cell.NewLong(1))
	require.NoError(t, err)
	r2, err := cell.MakeRef(cell.NewLong(2))
	require.NoError(t, err)

	require.NoError(t, a.AnnounceAll([]*cell.Ref{r1, r2}))
}
