// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndexContainsKeyScenario(t *testing.T) {
	mustRef := func(v int64) *Ref {
		r, err := MakeRef(NewLong(v))
		require.NoError(t, err)
		return r
	}

	pairs := []IndexPair{
		{Key: []byte{}, Value: mustRef(0)},
		{Key: []byte{0x0a}, Value: mustRef(1)},
		{Key: []byte{0x0a, 0x56}, Value: mustRef(2)},
		{Key: []byte{0x0a, 0x79}, Value: mustRef(3)},
	}

	root, err := BuildIndex(pairs)
	require.NoError(t, err)

	// Index is never embeddable, so the decoded root's branch entries
	// are indirect refs; resolve them from their canonical encodings.
	rootRef, err := MakeRef(root)
	require.NoError(t, err)
	encodings := make(map[Hash][]byte)
	require.NoError(t, Walk(rootRef, nil, func(r *Ref) error {
		c, _ := r.Cached()
		e, err := Encode(c)
		encodings[r.Hash()] = e
		return err
	}))
	resolve := func(r *Ref) (Cell, error) {
		e, ok := encodings[r.Hash()]
		if !ok {
			return nil, NewMissingData(r.Hash())
		}
		return Decode(e)
	}

	enc, err := Encode(root)
	require.NoError(t, err)
	decoded, err := Decode(enc)
	require.NoError(t, err)
	rootBack := decoded.(*Index)

	for _, p := range pairs {
		ok, err := ContainsKey(rootBack, p.Key, resolve)
		require.NoError(t, err)
		require.True(t, ok, "key %x should be present", p.Key)
	}

	ok, err := ContainsKey(rootBack, []byte{0x0a, 0x79, 0x00}, resolve)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = ContainsKey(rootBack, []byte{0x0b}, resolve)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIndexMissingDataPropagates(t *testing.T) {
	mustRef := func(v int64) *Ref {
		r, err := MakeRef(NewLong(v))
		require.NoError(t, err)
		return r
	}
	pairs := []IndexPair{
		{Key: []byte{0x01}, Value: mustRef(1)},
		{Key: []byte{0x02}, Value: mustRef(2)},
	}
	root, err := BuildIndex(pairs)
	require.NoError(t, err)

	// Index is never embeddable, so round-tripping through the wire
	// leaves the branch entries as unresolved indirect refs.
	enc, err := Encode(root)
	require.NoError(t, err)
	decoded, err := Decode(enc)
	require.NoError(t, err)
	rootBack := decoded.(*Index)

	_, _, err = IndexGet(rootBack, []byte{0x01}, nil)
	require.Error(t, err)
}
