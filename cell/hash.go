// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cell

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// HashLength is the length, in bytes, of a cell hash.
const HashLength = 32

// Hash is a cell's content address: the SHA3-256 digest of its
// canonical encoding. Two cells are equal iff their hashes are equal
// iff their canonical encodings are equal.
type Hash [HashLength]byte

// EmptyHash is the zero value; it is never the hash of a real
// encoding (every encoding is at least one byte) and is used as a
// sentinel for "not yet computed".
var EmptyHash Hash

// HashOf returns the SHA3-256 digest of encoding.
func HashOf(encoding []byte) Hash {
	return Hash(sha3.Sum256(encoding))
}

// String renders the hash as lowercase hex, the same convention the
// teacher's formatting.Encode helper uses for HexNC.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the sentinel EmptyHash.
func (h Hash) IsZero() bool {
	return h == EmptyHash
}

// HashFromHex parses a hex string produced by Hash.String.
func HashFromHex(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, badFormat("invalid hash hex: %v", err)
	}
	if len(b) != HashLength {
		return Hash{}, badFormat("hash must be %d bytes, got %d", HashLength, len(b))
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}
