// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cell

import "github.com/johnbendi/convex/utils/constants"

// Kind identifies a cell's variant. It is distinct from the wire tag
// byte: several kinds (Long, ByteFlag, Record) carry extra
// information — a byte count, a 4-bit value, a record discriminator —
// directly in the leading tag byte, so the tag space is wider than
// the set of kinds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindByteFlag
	KindLong
	KindDouble
	KindBigInteger
	KindStringLeaf
	KindStringTree
	KindBlobLeaf
	KindBlobTree
	KindVectorLeaf
	KindVectorTree
	KindMapLeaf
	KindMapTree
	KindIndex
	KindAddress
	KindKeyword
	KindSymbol
	KindRecord
	KindSigned
)

// Wire tag bytes. Tags are disjoint; a decoder selects a variant by
// leading byte alone. Long and ByteFlag occupy a contiguous range
// rather than a single value, per §3.
const (
	tagNull         byte = 0x00
	tagFalse        byte = 0x01
	tagTrue         byte = 0x02
	tagLongBase     byte = 0x10 // + n, n = 0..8 (byte count of the two's-complement payload)
	tagBigInteger   byte = 0x19
	tagDouble       byte = 0x1D
	tagByteFlagBase byte = 0x20 // + v, v = 0..15
	tagStringLeaf   byte = 0x30
	tagBlobLeaf     byte = 0x31
	tagSymbol       byte = 0x32
	tagKeyword      byte = 0x33
	tagStringTree   byte = 0x38
	tagBlobTree     byte = 0x39
	tagVectorLeaf   byte = 0x80
	tagVectorTree   byte = 0x81
	tagMapLeaf      byte = 0x88
	tagMapTree      byte = 0x89
	tagIndex        byte = 0x8A
	tagSigned       byte = 0xCD
	tagRecordBase   byte = 0xE0 // + record kind, 0..15
	tagAddress      byte = 0xF0
	tagIndirectRef  byte = 0xFF
)

// embeddable reports whether a cell of the given kind is ever allowed
// to be spliced inline (subject to the MAX_EMBEDDED_LENGTH length
// check the encoder also applies). Tree-shaped container kinds are
// never embeddable: inlining them would let an attacker construct
// encodings with more than one canonical representation.
func (k Kind) embeddable() bool {
	switch k {
	case KindNull, KindBool, KindByteFlag, KindLong, KindDouble, KindBigInteger,
		KindStringLeaf, KindBlobLeaf, KindAddress, KindKeyword, KindSymbol:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindByteFlag:
		return "ByteFlag"
	case KindLong:
		return "Long"
	case KindDouble:
		return "Double"
	case KindBigInteger:
		return "BigInteger"
	case KindStringLeaf:
		return "StringLeaf"
	case KindStringTree:
		return "StringTree"
	case KindBlobLeaf:
		return "BlobLeaf"
	case KindBlobTree:
		return "BlobTree"
	case KindVectorLeaf:
		return "VectorLeaf"
	case KindVectorTree:
		return "VectorTree"
	case KindMapLeaf:
		return "MapLeaf"
	case KindMapTree:
		return "MapTree"
	case KindIndex:
		return "Index"
	case KindAddress:
		return "Address"
	case KindKeyword:
		return "Keyword"
	case KindSymbol:
		return "Symbol"
	case KindRecord:
		return "Record"
	case KindSigned:
		return "Signed"
	default:
		return "Unknown"
	}
}

// maxEncodingLength returns the buffer-sizing upper bound for kind,
// per the table in §4.C. Kinds not listed there size themselves from
// their own fields at encode time.
func (k Kind) maxEncodingLength() int {
	switch k {
	case KindBlobLeaf, KindStringLeaf:
		return 1 + constants.MaxVLQCountLength + constants.ChunkLength
	case KindMapLeaf:
		return 2 + 16*constants.MaxEmbeddedLength
	case KindVectorLeaf:
		return 1 + constants.MaxVLQCountLength + 17*constants.MaxEmbeddedLength
	case KindAddress:
		return 1 + constants.MaxVLQCountLength
	default:
		return constants.LimitEncodingLength
	}
}
