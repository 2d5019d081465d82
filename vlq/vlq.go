// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vlq implements the two variable-length quantity codecs the
// canonical cell encoding is built from: VLQ-Count (unsigned,
// minimum-length) and VLQ-Long (signed, minimum-length). Both pack 7
// payload bits per byte, most-significant group first, with the high
// bit of a byte set iff another byte follows.
package vlq

import (
	"errors"
	"fmt"
	"math"

	"github.com/johnbendi/convex/utils/constants"
)

// ErrBadFormat is wrapped by every malformed-input error this package
// returns, so callers can match on it with errors.Is.
var ErrBadFormat = errors.New("vlq: bad format")

func badFormat(reason string) error {
	return fmt.Errorf("%w: %s", ErrBadFormat, reason)
}

// CountLength returns the number of bytes WriteCount would produce for v.
func CountLength(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// AppendCount appends the minimum-length VLQ-Count encoding of v to dst
// and returns the extended slice.
func AppendCount(dst []byte, v uint64) []byte {
	n := CountLength(v)
	var groups [constants.MaxVLQCountLength]byte
	rem := v
	for i := n - 1; i >= 0; i-- {
		groups[i] = byte(rem & 0x7f)
		rem >>= 7
	}
	for i := 0; i < n-1; i++ {
		dst = append(dst, groups[i]|0x80)
	}
	return append(dst, groups[n-1])
}

// AppendLong appends the minimum-length VLQ-Long encoding of v to dst
// and returns the extended slice.
func AppendLong(dst []byte, v int64) []byte {
	groups := signedGroups(v)
	for i := 0; i < len(groups)-1; i++ {
		dst = append(dst, groups[i]|0x80)
	}
	return append(dst, groups[len(groups)-1])
}

// WriteCount writes the VLQ-Count encoding of v directly into
// buf[off:], which must already have room for CountLength(v) bytes,
// and returns the offset just past the written bytes.
func WriteCount(buf []byte, off int, v uint64) (int, error) {
	n := CountLength(v)
	if off+n > len(buf) {
		return 0, badFormat("buffer too small for VLQ-Count")
	}
	var groups [constants.MaxVLQCountLength]byte
	rem := v
	for i := n - 1; i >= 0; i-- {
		groups[i] = byte(rem & 0x7f)
		rem >>= 7
	}
	for i := 0; i < n-1; i++ {
		buf[off+i] = groups[i] | 0x80
	}
	buf[off+n-1] = groups[n-1]
	return off + n, nil
}

// ReadCount parses a VLQ-Count at buf[off:] and returns the decoded
// value together with the offset just past it.
func ReadCount(buf []byte, off int) (uint64, int, error) {
	var v uint64
	for i := 0; ; i++ {
		if i >= constants.MaxVLQCountLength {
			return 0, 0, badFormat("VLQ-Count too long")
		}
		if off >= len(buf) {
			return 0, 0, badFormat("VLQ-Count truncated")
		}
		b := buf[off]
		off++
		if i == 0 && b == 0x80 {
			return 0, 0, badFormat("non-minimal VLQ-Count")
		}
		if v > math.MaxUint64>>7 {
			return 0, 0, badFormat("VLQ-Count overflows 64 bits")
		}
		v = (v << 7) | uint64(b&0x7f)
		if b&0x80 == 0 {
			break
		}
	}
	return v, off, nil
}

// PeekCountPrefix reports how many bytes the VLQ-Count at the start of
// buf occupies, without requiring the value that follows it to be
// present. It returns ok=false if buf doesn't yet hold a complete
// prefix, and an error if the prefix is already malformed or would
// exceed limit bytes.
func PeekCountPrefix(buf []byte, limit int) (length int, ok bool, err error) {
	for i := 0; i < len(buf); i++ {
		if i >= constants.MaxVLQCountLength {
			return 0, false, badFormat("VLQ-Count too long")
		}
		if i == 0 && buf[0] == 0x80 {
			return 0, false, badFormat("non-minimal VLQ-Count")
		}
		if buf[i]&0x80 == 0 {
			n := i + 1
			if limit > 0 && n > limit {
				return 0, false, badFormat("VLQ-Count prefix exceeds limit")
			}
			return n, true, nil
		}
	}
	if len(buf) >= constants.MaxVLQCountLength {
		return 0, false, badFormat("VLQ-Count too long")
	}
	return 0, false, nil
}

// LongLength returns the number of bytes WriteLong would produce for v.
func LongLength(v int64) int {
	return len(signedGroups(v))
}

// WriteLong writes the VLQ-Long encoding of v directly into buf[off:],
// which must already have room for LongLength(v) bytes, and returns
// the offset just past the written bytes.
func WriteLong(buf []byte, off int, v int64) (int, error) {
	groups := signedGroups(v)
	n := len(groups)
	if off+n > len(buf) {
		return 0, badFormat("buffer too small for VLQ-Long")
	}
	for i := 0; i < n-1; i++ {
		buf[off+i] = groups[i] | 0x80
	}
	buf[off+n-1] = groups[n-1]
	return off + n, nil
}

// ReadLong parses a VLQ-Long at buf[off:] and returns the decoded
// value together with the offset just past it.
func ReadLong(buf []byte, off int) (int64, int, error) {
	var v int64
	count := 0
	for {
		if count >= constants.MaxVLQLongLength {
			return 0, 0, badFormat("VLQ-Long too long")
		}
		if off >= len(buf) {
			return 0, 0, badFormat("VLQ-Long truncated")
		}
		b := buf[off]
		off++
		count++
		v = (v << 7) | int64(b&0x7f)
		if b&0x80 == 0 {
			if shift := 64 - 7*count; shift > 0 {
				v = (v << uint(shift)) >> uint(shift)
			}
			break
		}
	}
	if LongLength(v) != count {
		return 0, 0, badFormat("non-minimal VLQ-Long")
	}
	return v, off, nil
}

// signedGroups returns the minimum-length, most-significant-group-first
// set of 7-bit payload bytes (continuation bits not yet applied) that
// encode v, following the same termination rule as LEB128: stop once
// the remaining sign-extended value is fully represented by the sign
// bit of the last emitted group.
func signedGroups(v int64) []byte {
	var lsbFirst []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		lsbFirst = append(lsbFirst, b)
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			break
		}
	}
	n := len(lsbFirst)
	out := make([]byte, n)
	for i, b := range lsbFirst {
		out[n-1-i] = b
	}
	return out
}
