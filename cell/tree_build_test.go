// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cell

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnbendi/convex/utils/constants"
)

func cellOf(t *testing.T, r *Ref) Cell {
	t.Helper()
	c, ok := r.Cached()
	require.True(t, ok, "ref has no cached cell")
	return c
}

func TestBuildBlobTreeSmallStaysLeaf(t *testing.T) {
	ref, err := BuildBlobTree([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, KindBlobLeaf, cellOf(t, ref).Kind())
}

func TestBuildBlobTreeLargeSplitsAndRoundTrips(t *testing.T) {
	data := make([]byte, constants.ChunkLength*3+17)
	for i := range data {
		data[i] = byte(i)
	}

	ref, err := BuildBlobTree(data)
	require.NoError(t, err)
	tree, ok := cellOf(t, ref).(*BlobTree)
	require.True(t, ok)
	require.Equal(t, int64(len(data)), tree.Length)

	enc, err := Encode(tree)
	require.NoError(t, err)
	decoded, err := Decode(enc)
	require.NoError(t, err)
	require.Equal(t, tree.Hash(), decoded.Hash())

	var joined []byte
	for _, chunk := range tree.Chunks {
		leaf, ok := cellOf(t, chunk).(*BlobLeaf)
		require.True(t, ok)
		joined = append(joined, leaf.Value...)
	}
	require.Equal(t, data, joined)
}

func TestBuildStringTreeLargeRoundTrips(t *testing.T) {
	var b []byte
	for i := 0; i < constants.ChunkLength*2+5; i++ {
		b = append(b, byte('a'+i%26))
	}
	s := string(b)

	ref, err := BuildStringTree(s)
	require.NoError(t, err)
	tree, ok := cellOf(t, ref).(*StringTree)
	require.True(t, ok)
	require.Equal(t, int64(len(s)), tree.Length)

	enc, err := Encode(tree)
	require.NoError(t, err)
	decoded, err := Decode(enc)
	require.NoError(t, err)
	require.Equal(t, tree.Hash(), decoded.Hash())
}

func TestBuildVectorMultiLevel(t *testing.T) {
	const n = 16*16 + 3
	items := make([]*Ref, n)
	for i := range items {
		ref, err := MakeRef(NewLong(int64(i)))
		require.NoError(t, err)
		items[i] = ref
	}

	root, err := BuildVector(items)
	require.NoError(t, err)
	tree, ok := cellOf(t, root).(*VectorTree)
	require.True(t, ok)
	require.Equal(t, int64(n), tree.Count)

	enc, err := Encode(tree)
	require.NoError(t, err)
	decoded, err := Decode(enc)
	require.NoError(t, err)
	require.Equal(t, tree.Hash(), decoded.Hash())
}

func TestBuildVectorEmpty(t *testing.T) {
	ref, err := BuildVector(nil)
	require.NoError(t, err)
	leaf, ok := cellOf(t, ref).(*VectorLeaf)
	require.True(t, ok)
	require.Empty(t, leaf.Items)
}
