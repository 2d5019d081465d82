// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cell

import (
	"github.com/johnbendi/convex/utils/constants"
	smath "github.com/johnbendi/convex/utils/math"
)

// BuildBlobTree splits data into CHUNK_LENGTH-byte pieces and returns
// a Ref to the resulting leaf or tree, whichever the length calls
// for. Chunk refs are built through MakeRef, so a trailing partial
// chunk short enough to embed does.
func BuildBlobTree(data []byte) (*Ref, error) {
	if len(data) <= constants.ChunkLength {
		return MakeRef(NewBlobLeaf(data))
	}

	var chunks []*Ref
	var total uint64
	for off := 0; off < len(data); off += constants.ChunkLength {
		end := off + constants.ChunkLength
		if end > len(data) {
			end = len(data)
		}
		ref, err := MakeRef(NewBlobLeaf(data[off:end]))
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, ref)
		sum, err := smath.Add64(total, uint64(end-off))
		if err != nil {
			return nil, badFormat("blob length overflow")
		}
		total = sum
	}
	return MakeRef(NewBlobTree(int64(total), chunks))
}

// BuildStringTree splits s into CHUNK_LENGTH-byte pieces. s must
// already be valid UTF-8; chunk boundaries are placed on byte offsets
// without regard to rune boundaries, so individual chunks are stored
// as BlobLeaf (no per-chunk UTF-8 validation) rather than StringLeaf —
// only the reassembled whole is required to be valid text.
func BuildStringTree(s string) (*Ref, error) {
	data := []byte(s)
	if len(data) <= constants.ChunkLength {
		return MakeRef(NewStringLeaf(s))
	}

	var chunks []*Ref
	var total uint64
	for off := 0; off < len(data); off += constants.ChunkLength {
		end := off + constants.ChunkLength
		if end > len(data) {
			end = len(data)
		}
		ref, err := MakeRef(NewBlobLeaf(data[off:end]))
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, ref)
		sum, err := smath.Add64(total, uint64(end-off))
		if err != nil {
			return nil, badFormat("string length overflow")
		}
		total = sum
	}
	return MakeRef(NewStringTree(int64(total), chunks))
}

// BuildVector assembles items into a (possibly multi-level) 16-way
// vector trie and returns a Ref to its root, choosing a bare
// VectorLeaf when items fits in a single leaf.
func BuildVector(items []*Ref) (*Ref, error) {
	if len(items) == 0 {
		return MakeRef(&VectorLeaf{})
	}

	level := make([]*Ref, 0, (len(items)+vectorFanout-1)/vectorFanout)
	counts := make([]int64, 0, cap(level))
	for i := 0; i < len(items); i += vectorFanout {
		end := i + vectorFanout
		if end > len(items) {
			end = len(items)
		}
		leaf, err := NewVectorLeaf(items[i:end])
		if err != nil {
			return nil, err
		}
		ref, err := MakeRef(leaf)
		if err != nil {
			return nil, err
		}
		level = append(level, ref)
		counts = append(counts, int64(end-i))
	}

	for len(level) > 1 {
		var next []*Ref
		var nextCounts []int64
		for i := 0; i < len(level); i += vectorFanout {
			end := i + vectorFanout
			if end > len(level) {
				end = len(level)
			}
			var sum int64
			for _, c := range counts[i:end] {
				sum += c
			}
			tree, err := NewVectorTree(sum, level[i:end])
			if err != nil {
				return nil, err
			}
			ref, err := MakeRef(tree)
			if err != nil {
				return nil, err
			}
			next = append(next, ref)
			nextCounts = append(nextCounts, sum)
		}
		level, counts = next, nextCounts
	}
	return level[0], nil
}
