// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cell

import (
	"encoding/binary"
	"math"

	"github.com/johnbendi/convex/utils/constants"
	"github.com/johnbendi/convex/vlq"
)

// Decode parses buf as a single canonical cell encoding. It is an
// error for any bytes to remain after the cell is consumed: a
// multi-cell message is framed separately (see the multicell
// package), so a lone blob here must be exactly one cell.
func Decode(buf []byte) (Cell, error) {
	c, n, err := decodeAt(buf, 0)
	if err != nil {
		return nil, err
	}
	if n != len(buf) {
		return nil, badFormat("trailing bytes after cell: consumed %d of %d", n, len(buf))
	}
	return c, nil
}

// DecodePrefix parses a single canonical cell encoding starting at
// the beginning of buf and returns it along with the number of bytes
// it consumed, leaving any trailing bytes unexamined. This is what a
// multi-cell message (package multicell) uses to learn where the
// root cell's encoding ends and the framed descendant list begins,
// per the wire format's root-encoding-first framing.
func DecodePrefix(buf []byte) (Cell, int, error) {
	return decodeAt(buf, 0)
}

func need(buf []byte, off, n int) error {
	if off+n > len(buf) {
		return badFormat("truncated encoding: need %d bytes at offset %d, have %d", n, off, len(buf)-off)
	}
	return nil
}

func decodeAt(buf []byte, off int) (Cell, int, error) {
	if off >= len(buf) {
		return nil, off, badFormat("truncated encoding: no tag byte at offset %d", off)
	}
	tag := buf[off]
	start := off
	off++

	switch {
	case tag == tagNull:
		return &Null{}, off, nil

	case tag == tagFalse:
		return &Bool{Value: false}, off, nil
	case tag == tagTrue:
		return &Bool{Value: true}, off, nil

	case tag >= tagByteFlagBase && tag < tagByteFlagBase+16:
		return &ByteFlag{Value: tag - tagByteFlagBase}, off, nil

	case tag >= tagLongBase && tag <= tagLongBase+8:
		n := int(tag - tagLongBase)
		if err := need(buf, off, n); err != nil {
			return nil, start, err
		}
		payload := buf[off : off+n]
		off += n
		v := longFromBytes(payload)
		if len(longBytes(v)) != n {
			return nil, start, badFormat("non-minimal long encoding at offset %d", start)
		}
		return &Long{Value: v}, off, nil

	case tag == tagDouble:
		if err := need(buf, off, 8); err != nil {
			return nil, start, err
		}
		bits64 := binary.BigEndian.Uint64(buf[off : off+8])
		off += 8
		v := math.Float64frombits(bits64)
		if math.IsNaN(v) && bits64 != math.Float64bits(canonicalNaN()) {
			return nil, start, badFormat("non-canonical NaN bit pattern at offset %d", start)
		}
		return &Double{Value: v}, off, nil

	case tag == tagBigInteger:
		n, noff, err := readCount(buf, off)
		if err != nil {
			return nil, start, err
		}
		off = noff
		if err := need(buf, off, int(n)); err != nil {
			return nil, start, err
		}
		payload := buf[off : off+int(n)]
		off += int(n)
		if int(n) < constants.MinBigIntegerLength {
			return nil, start, badFormat("big integer shorter than %d bytes at offset %d; should be a Long", constants.MinBigIntegerLength, start)
		}
		v := bigIntFromBytes(payload)
		if len(bigIntBytes(v)) != int(n) {
			return nil, start, badFormat("non-minimal big integer encoding at offset %d", start)
		}
		return &BigInteger{Value: v}, off, nil

	case tag == tagStringLeaf:
		b, noff, err := decodeLeafBytes(buf, off, start)
		if err != nil {
			return nil, start, err
		}
		if !validUTF8(b) {
			return nil, start, badFormat("invalid utf-8 in string leaf at offset %d", start)
		}
		return &StringLeaf{Value: string(b)}, noff, nil

	case tag == tagBlobLeaf:
		b, noff, err := decodeLeafBytes(buf, off, start)
		if err != nil {
			return nil, start, err
		}
		return &BlobLeaf{Value: b}, noff, nil

	case tag == tagStringTree || tag == tagBlobTree:
		length, noff, err := readCount(buf, off)
		if err != nil {
			return nil, start, err
		}
		off = noff
		childCount, noff, err := readCount(buf, off)
		if err != nil {
			return nil, start, err
		}
		off = noff
		chunks, noff, err := decodeRefs(buf, off, int(childCount))
		if err != nil {
			return nil, start, err
		}
		off = noff
		if tag == tagStringTree {
			return &StringTree{Length: int64(length), Chunks: chunks}, off, nil
		}
		return &BlobTree{Length: int64(length), Chunks: chunks}, off, nil

	case tag == tagVectorLeaf:
		count, noff, err := readCount(buf, off)
		if err != nil {
			return nil, start, err
		}
		off = noff
		if count > vectorFanout {
			return nil, start, badFormat("vector leaf with %d items exceeds fanout %d", count, vectorFanout)
		}
		items, noff, err := decodeRefs(buf, off, int(count))
		if err != nil {
			return nil, start, err
		}
		return &VectorLeaf{Items: items}, noff, nil

	case tag == tagVectorTree:
		count, noff, err := readCount(buf, off)
		if err != nil {
			return nil, start, err
		}
		off = noff
		childCount, noff, err := readCount(buf, off)
		if err != nil {
			return nil, start, err
		}
		off = noff
		if childCount > vectorFanout {
			return nil, start, badFormat("vector tree with %d children exceeds fanout %d", childCount, vectorFanout)
		}
		children, noff, err := decodeRefs(buf, off, int(childCount))
		if err != nil {
			return nil, start, err
		}
		return &VectorTree{Count: int64(count), Children: children}, noff, nil

	case tag == tagMapLeaf:
		count, noff, err := readCount(buf, off)
		if err != nil {
			return nil, start, err
		}
		off = noff
		if count > mapFanout {
			return nil, start, badFormat("map leaf with %d entries exceeds fanout %d", count, mapFanout)
		}
		entries := make([]MapEntry, count)
		var prevHash Hash
		havePrev := false
		for i := range entries {
			key, noff, err := decodeRef(buf, off)
			if err != nil {
				return nil, start, err
			}
			off = noff
			val, noff, err := decodeRef(buf, off)
			if err != nil {
				return nil, start, err
			}
			off = noff
			kh := key.Hash()
			if havePrev && compareHash(prevHash, kh) >= 0 {
				return nil, start, badFormat("map leaf entries not in canonical key-hash order at offset %d", start)
			}
			prevHash, havePrev = kh, true
			entries[i] = MapEntry{Key: key, Value: val}
		}
		return &MapLeaf{Entries: entries}, off, nil

	case tag == tagMapTree:
		if err := need(buf, off, 2); err != nil {
			return nil, start, err
		}
		bitmap := binary.BigEndian.Uint16(buf[off : off+2])
		off += 2
		childCount := popcount16(bitmap)
		children, noff, err := decodeRefs(buf, off, childCount)
		if err != nil {
			return nil, start, err
		}
		return &MapTree{Bitmap: bitmap, Children: children}, noff, nil

	case tag == tagIndex:
		plen, noff, err := readCount(buf, off)
		if err != nil {
			return nil, start, err
		}
		off = noff
		if err := need(buf, off, int(plen)); err != nil {
			return nil, start, err
		}
		prefix := append([]byte(nil), buf[off:off+int(plen)]...)
		off += int(plen)
		if err := need(buf, off, 1); err != nil {
			return nil, start, err
		}
		hasValue := buf[off]
		off++
		var value *Ref
		switch hasValue {
		case 0:
		case 1:
			value, off, err = decodeRef(buf, off)
			if err != nil {
				return nil, start, err
			}
		default:
			return nil, start, badFormat("invalid index value-flag %d at offset %d", hasValue, start)
		}
		entryCount, noff, err := readCount(buf, off)
		if err != nil {
			return nil, start, err
		}
		off = noff
		entries := make([]IndexEntry, entryCount)
		prevByte := -1
		for i := range entries {
			if err := need(buf, off, 1); err != nil {
				return nil, start, err
			}
			b := buf[off]
			off++
			if int(b) <= prevByte {
				return nil, start, badFormat("index entries not in canonical byte order at offset %d", start)
			}
			prevByte = int(b)
			child, noff, err := decodeRef(buf, off)
			if err != nil {
				return nil, start, err
			}
			off = noff
			entries[i] = IndexEntry{Byte: b, Child: child}
		}
		return &Index{Prefix: prefix, Value: value, Entries: entries}, off, nil

	case tag == tagAddress:
		account, noff, err := vlq.ReadCount(buf, off)
		if err != nil {
			return nil, start, err
		}
		return &Address{Account: account}, noff, nil

	case tag == tagKeyword:
		b, noff, err := decodeLeafBytes(buf, off, start)
		if err != nil {
			return nil, start, err
		}
		if !validUTF8(b) {
			return nil, start, badFormat("invalid utf-8 in keyword at offset %d", start)
		}
		return &Keyword{Name: string(b)}, noff, nil

	case tag == tagSymbol:
		b, noff, err := decodeLeafBytes(buf, off, start)
		if err != nil {
			return nil, start, err
		}
		if !validUTF8(b) {
			return nil, start, badFormat("invalid utf-8 in symbol at offset %d", start)
		}
		return &Symbol{Name: string(b)}, noff, nil

	case tag >= tagRecordBase && tag < tagRecordBase+16:
		kind := RecordKind(tag - tagRecordBase)
		count, noff, err := readCount(buf, off)
		if err != nil {
			return nil, start, err
		}
		off = noff
		fields, noff, err := decodeRefs(buf, off, int(count))
		if err != nil {
			return nil, start, err
		}
		return &Record{RecordKind: kind, Fields: fields}, noff, nil

	case tag == tagSigned:
		value, noff, err := decodeRef(buf, off)
		if err != nil {
			return nil, start, err
		}
		off = noff
		if err := need(buf, off, 32); err != nil {
			return nil, start, err
		}
		var signer [32]byte
		copy(signer[:], buf[off:off+32])
		off += 32
		siglen, noff, err := readCount(buf, off)
		if err != nil {
			return nil, start, err
		}
		off = noff
		if err := need(buf, off, int(siglen)); err != nil {
			return nil, start, err
		}
		sig := append([]byte(nil), buf[off:off+int(siglen)]...)
		off += int(siglen)
		return &Signed{Value: value, Signer: signer, Signature: sig}, off, nil

	default:
		return nil, start, badFormat("unknown tag 0x%02x at offset %d", tag, start)
	}
}

func decodeLeafBytes(buf []byte, off, start int) ([]byte, int, error) {
	n, noff, err := readCount(buf, off)
	if err != nil {
		return nil, start, err
	}
	off = noff
	if n > uint64(constants.ChunkLength) {
		return nil, start, badFormat("leaf of length %d exceeds chunk length %d at offset %d", n, constants.ChunkLength, start)
	}
	if err := need(buf, off, int(n)); err != nil {
		return nil, start, err
	}
	b := append([]byte(nil), buf[off:off+int(n)]...)
	return b, off + int(n), nil
}

func readCount(buf []byte, off int) (uint64, int, error) {
	v, n, err := vlq.ReadCount(buf, off)
	if err != nil {
		return 0, off, err
	}
	return v, n, nil
}

func decodeRef(buf []byte, off int) (*Ref, int, error) {
	if off >= len(buf) {
		return nil, off, badFormat("truncated encoding: no ref tag at offset %d", off)
	}
	if buf[off] == tagIndirectRef {
		start := off
		off++
		if err := need(buf, off, HashLength); err != nil {
			return nil, start, err
		}
		var h Hash
		copy(h[:], buf[off:off+HashLength])
		return NewIndirectRef(h, Stored), off + HashLength, nil
	}
	start := off
	c, noff, err := decodeAt(buf, off)
	if err != nil {
		return nil, start, err
	}
	if !c.Kind().embeddable() {
		return nil, start, badFormat("kind %s embedded at offset %d but is never embeddable", c.Kind(), start)
	}
	if noff-start > constants.MaxEmbeddedLength {
		return nil, start, badFormat("embedded cell of %d bytes exceeds MAX_EMBEDDED_LENGTH at offset %d", noff-start, start)
	}
	return NewEmbeddedRef(c), noff, nil
}

func decodeRefs(buf []byte, off, count int) ([]*Ref, int, error) {
	refs := make([]*Ref, count)
	for i := 0; i < count; i++ {
		r, noff, err := decodeRef(buf, off)
		if err != nil {
			return nil, off, err
		}
		off = noff
		refs[i] = r
	}
	return refs, off, nil
}

func compareHash(a, b Hash) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
