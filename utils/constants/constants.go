// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package constants holds the fixed size limits the canonical cell
// encoding is built around. Every bound here is load-bearing: changing
// one changes what a decoder must accept, which would change the hash
// of existing data.
package constants

const (
	// MaxEmbeddedLength is the largest encoding, in bytes, that may be
	// spliced inline into a parent rather than referenced by hash.
	MaxEmbeddedLength = 140

	// LimitEncodingLength is the largest canonical encoding, in bytes,
	// any single cell may produce. Cells that would exceed this must be
	// represented as trees (vector/map/blob-tree) instead.
	LimitEncodingLength = 8192

	// ChunkLength is the maximum size of a blob or short-string leaf
	// before it must be represented as a tree of chunks.
	ChunkLength = 4096

	// MaxVLQCountLength is the longest a VLQ-Count encoding can be: 10
	// bytes cover the full unsigned range up to 2^63-1.
	MaxVLQCountLength = 10

	// MaxVLQLongLength is the longest a VLQ-Long encoding can be: 10
	// bytes cover the full signed int64 range.
	MaxVLQLongLength = 10

	// MaxLongBytes is the most two's-complement bytes a Long cell's
	// payload may carry (an int64 always fits in 8).
	MaxLongBytes = 8

	// MinBigIntegerLength is the smallest VLQ-Count length a
	// BigInteger's byte payload may declare. Anything that would fit in
	// MaxLongBytes or fewer bytes must be encoded as a Long instead, so
	// a value never has two canonical representations.
	MinBigIntegerLength = MaxLongBytes + 1

	// MaxDepth is a bound on recursive cell-tree nesting. Neither the
	// cell decoder nor cell.Walk reads it: neither limits the nesting
	// depth it follows.
	MaxDepth = 128

	// MaxStreamFrameLength bounds a single stream-framed message (root
	// cell plus its transitively-reachable descendants), distinct from
	// and larger than LimitEncodingLength since a frame may carry many
	// cells back to back.
	MaxStreamFrameLength = 1<<31 - 1
)
