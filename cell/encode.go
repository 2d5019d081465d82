// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cell

import (
	"encoding/binary"
	"math"
	"math/big"
	"math/bits"
	"unicode/utf8"

	"github.com/johnbendi/convex/utils/constants"
	"github.com/johnbendi/convex/utils/wrappers"
)

// Encode produces c's canonical encoding: the exact byte sequence
// whose SHA3-256 digest is c.Hash(). Encode is deterministic and
// total over every value this package's constructors can build; the
// only error path is a size violation caught at the boundary.
func Encode(c Cell) ([]byte, error) {
	p := &wrappers.Packer{Bytes: make([]byte, 0, c.Kind().maxEncodingLength())}
	encodeInto(p, c)
	if p.Err != nil {
		return nil, p.Err
	}
	if len(p.Bytes) > constants.LimitEncodingLength {
		return nil, badFormat("encoding length %d exceeds limit %d", len(p.Bytes), constants.LimitEncodingLength)
	}
	return p.Bytes, nil
}

func encodeInto(p *wrappers.Packer, c Cell) {
	switch v := c.(type) {
	case *Null:
		p.PackByte(tagNull)
	case *Bool:
		if v.Value {
			p.PackByte(tagTrue)
		} else {
			p.PackByte(tagFalse)
		}
	case *ByteFlag:
		p.PackByte(tagByteFlagBase + v.Value)
	case *Long:
		b := longBytes(v.Value)
		p.PackByte(tagLongBase + byte(len(b)))
		p.PackBytes(b)
	case *Double:
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v.Value))
		p.PackByte(tagDouble)
		p.PackBytes(buf[:])
	case *BigInteger:
		b := bigIntBytes(v.Value)
		p.PackByte(tagBigInteger)
		p.PackVLQCount(uint64(len(b)))
		p.PackBytes(b)
	case *StringLeaf:
		encodeStringBytes(p, tagStringLeaf, []byte(v.Value))
	case *StringTree:
		p.PackByte(tagStringTree)
		p.PackVLQCount(uint64(v.Length))
		p.PackVLQCount(uint64(len(v.Chunks)))
		for _, r := range v.Chunks {
			encodeRef(p, r)
		}
	case *BlobLeaf:
		encodeStringBytes(p, tagBlobLeaf, v.Value)
	case *BlobTree:
		p.PackByte(tagBlobTree)
		p.PackVLQCount(uint64(v.Length))
		p.PackVLQCount(uint64(len(v.Chunks)))
		for _, r := range v.Chunks {
			encodeRef(p, r)
		}
	case *VectorLeaf:
		p.PackByte(tagVectorLeaf)
		p.PackVLQCount(uint64(len(v.Items)))
		for _, r := range v.Items {
			encodeRef(p, r)
		}
	case *VectorTree:
		p.PackByte(tagVectorTree)
		p.PackVLQCount(uint64(v.Count))
		p.PackVLQCount(uint64(len(v.Children)))
		for _, r := range v.Children {
			encodeRef(p, r)
		}
	case *MapLeaf:
		p.PackByte(tagMapLeaf)
		p.PackVLQCount(uint64(len(v.Entries)))
		for _, e := range v.Entries {
			encodeRef(p, e.Key)
			encodeRef(p, e.Value)
		}
	case *MapTree:
		p.PackByte(tagMapTree)
		var buf [2]byte
		binary.BigEndian.PutUint16(buf[:], v.Bitmap)
		p.PackBytes(buf[:])
		for _, r := range v.Children {
			encodeRef(p, r)
		}
	case *Index:
		p.PackByte(tagIndex)
		p.PackVLQCount(uint64(len(v.Prefix)))
		p.PackBytes(v.Prefix)
		if v.Value != nil {
			p.PackByte(1)
			encodeRef(p, v.Value)
		} else {
			p.PackByte(0)
		}
		p.PackVLQCount(uint64(len(v.Entries)))
		for _, e := range v.Entries {
			p.PackByte(e.Byte)
			encodeRef(p, e.Child)
		}
	case *Address:
		p.PackByte(tagAddress)
		p.PackVLQCount(v.Account)
	case *Keyword:
		encodeStringBytes(p, tagKeyword, []byte(v.Name))
	case *Symbol:
		encodeStringBytes(p, tagSymbol, []byte(v.Name))
	case *Record:
		p.PackByte(tagRecordBase + byte(v.RecordKind))
		p.PackVLQCount(uint64(len(v.Fields)))
		for _, r := range v.Fields {
			encodeRef(p, r)
		}
	case *Signed:
		p.PackByte(tagSigned)
		encodeRef(p, v.Value)
		p.PackBytes(v.Signer[:])
		p.PackVLQCount(uint64(len(v.Signature)))
		p.PackBytes(v.Signature)
	default:
		p.Err = badFormat("encode: unknown cell type %T", c)
	}
}

func encodeStringBytes(p *wrappers.Packer, tag byte, b []byte) {
	p.PackByte(tag)
	p.PackVLQCount(uint64(len(b)))
	p.PackBytes(b)
}

// encodeRef writes r inline if it is embedded, or as the reserved
// indirect marker byte followed by its hash otherwise. Because no
// real cell tag is ever 0xFF, a decoder can tell the two cases apart
// from the very next byte with no separate length prefix.
func encodeRef(p *wrappers.Packer, r *Ref) {
	if r.Embedded() {
		encodeInto(p, r.embedded)
		return
	}
	p.PackByte(tagIndirectRef)
	h := r.Hash()
	p.PackBytes(h[:])
}

// longBytes returns the minimal big-endian two's-complement
// representation of v: the shortest byte slice that, sign-extended
// from its leading bit, reproduces v exactly. Zero encodes as the
// empty slice.
func longBytes(v int64) []byte {
	if v == 0 {
		return nil
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	start := 0
	for start < 7 {
		b, next := buf[start], buf[start+1]
		if b == 0x00 && next&0x80 == 0 {
			start++
			continue
		}
		if b == 0xFF && next&0x80 != 0 {
			start++
			continue
		}
		break
	}
	out := make([]byte, 8-start)
	copy(out, buf[start:])
	return out
}

// longFromBytes is the inverse of longBytes: it sign-extends b from
// its leading bit and accumulates the two's-complement value.
func longFromBytes(b []byte) int64 {
	if len(b) == 0 {
		return 0
	}
	v := int64(int8(b[0]))
	for _, by := range b[1:] {
		v = v<<8 | int64(by)
	}
	return v
}

// bigIntBytes is longBytes generalized to arbitrary precision via
// math/big: the minimal two's-complement big-endian encoding of v.
func bigIntBytes(v *big.Int) []byte {
	if v.Sign() == 0 {
		return nil
	}
	// Bit length of the value without its sign bit (for a negative v,
	// that of -v-1), plus one sign bit, rounded up to bytes.
	mag := v
	if v.Sign() < 0 {
		mag = new(big.Int).Not(v)
	}
	nbits := mag.BitLen() + 1
	nbytes := (nbits + 7) / 8

	mod := new(big.Int).Lsh(big.NewInt(1), uint(nbytes*8))
	tc := new(big.Int).Mod(v, mod)
	out := make([]byte, nbytes)
	tc.FillBytes(out)
	return out
}

// bigIntFromBytes is the inverse of bigIntBytes.
func bigIntFromBytes(b []byte) *big.Int {
	if len(b) == 0 {
		return big.NewInt(0)
	}
	v := new(big.Int).SetBytes(b)
	if b[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8))
		v.Sub(v, mod)
	}
	return v
}

func popcount16(v uint16) int {
	return bits.OnesCount16(v)
}

func validUTF8(b []byte) bool {
	return utf8.Valid(b)
}
