// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cell

import (
	"encoding/hex"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLongLiteralVectors(t *testing.T) {
	tests := []struct {
		name string
		v    int64
		hex  string
	}{
		{"one", 1, "1101"},
		{"zero", 0, "10"},
		{"fifteen", 15, "110f"},
		{"minus one", -1, "11ff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Encode(NewLong(tt.v))
			require.NoError(t, err)
			require.Equal(t, tt.hex, hex.EncodeToString(enc))

			c, err := Decode(enc)
			require.NoError(t, err)
			l, ok := c.(*Long)
			require.True(t, ok)
			require.Equal(t, tt.v, l.Value)
		})
	}
}

func TestLongRoundTripProperty(t *testing.T) {
	seed := uint64(0xA5A5A5A5A5A5A5A5)
	for i := 0; i < 2000; i++ {
		seed = seed*6364136223846793005 + 1442695040888963407
		v := int64(seed)
		enc, err := Encode(NewLong(v))
		require.NoError(t, err)
		c, err := Decode(enc)
		require.NoError(t, err)
		require.Equal(t, v, c.(*Long).Value)
	}
}

func TestNonMinimalLongRejected(t *testing.T) {
	// tag for a 2-byte long whose payload is the 1-byte-representable
	// value 1: the leading 0x00 byte is redundant.
	_, err := Decode([]byte{0x12, 0x00, 0x01})
	require.Error(t, err)
}

func TestBoolAndNull(t *testing.T) {
	enc, err := Encode(NewBool(true))
	require.NoError(t, err)
	c, err := Decode(enc)
	require.NoError(t, err)
	require.True(t, c.(*Bool).Value)

	enc, err = Encode(NewNull())
	require.NoError(t, err)
	_, err = Decode(enc)
	require.NoError(t, err)
}

func TestDoubleCanonicalNaN(t *testing.T) {
	enc, err := Encode(NewDouble(math.NaN()))
	require.NoError(t, err)
	c, err := Decode(enc)
	require.NoError(t, err)
	require.True(t, math.IsNaN(c.(*Double).Value))

	// a differently-bit-patterned NaN is non-canonical and rejected.
	other := make([]byte, len(enc))
	copy(other, enc)
	other[len(other)-1] ^= 0x01
	_, err = Decode(other)
	require.Error(t, err)
}

func TestBigIntegerRejectsLongSizedValue(t *testing.T) {
	_, err := NewBigInteger(big.NewInt(42))
	require.Error(t, err)
}

func TestBigIntegerRoundTrip(t *testing.T) {
	v := new(big.Int)
	v.SetString("-123456789012345678901234567890", 10)
	bi, err := NewBigInteger(v)
	require.NoError(t, err)

	enc, err := Encode(bi)
	require.NoError(t, err)
	c, err := Decode(enc)
	require.NoError(t, err)
	require.Equal(t, 0, v.Cmp(c.(*BigInteger).Value))
}

func TestStringLeafRejectsInvalidUTF8(t *testing.T) {
	enc, err := Encode(NewBlobLeaf([]byte{0xff, 0xfe}))
	require.NoError(t, err)
	// Rewrite the tag to StringLeaf over BlobLeaf's (structurally
	// identical) payload to produce an invalid-UTF-8 string encoding.
	enc[0] = tagStringLeaf
	_, err = Decode(enc)
	require.Error(t, err)
}

func TestVectorRoundTrip(t *testing.T) {
	items := make([]*Ref, 0, 5)
	for i := int64(0); i < 5; i++ {
		r, err := MakeRef(NewLong(i))
		require.NoError(t, err)
		items = append(items, r)
	}
	vec, err := NewVectorLeaf(items)
	require.NoError(t, err)

	enc, err := Encode(vec)
	require.NoError(t, err)
	c, err := Decode(enc)
	require.NoError(t, err)
	got := c.(*VectorLeaf)
	require.Len(t, got.Items, 5)
	for i, r := range got.Items {
		require.True(t, r.Embedded())
		require.Equal(t, int64(i), r.embedded.(*Long).Value)
	}
}

func TestMapLeafRoundTrip(t *testing.T) {
	k1, _ := MakeRef(NewStringLeaf("alpha"))
	v1, _ := MakeRef(NewLong(1))
	k2, _ := MakeRef(NewStringLeaf("beta"))
	v2, _ := MakeRef(NewLong(2))

	m, err := NewMapLeaf([]MapEntry{{Key: k1, Value: v1}, {Key: k2, Value: v2}})
	require.NoError(t, err)

	enc, err := Encode(m)
	require.NoError(t, err)
	c, err := Decode(enc)
	require.NoError(t, err)
	require.Len(t, c.(*MapLeaf).Entries, 2)
}

func TestHashIsStableAcrossConstruction(t *testing.T) {
	a := NewLong(42)
	b := NewLong(42)
	require.Equal(t, a.Hash(), b.Hash())

	c := NewLong(43)
	require.NotEqual(t, a.Hash(), c.Hash())
}

func TestEmbeddedVersusIndirectRef(t *testing.T) {
	small, err := MakeRef(NewLong(7))
	require.NoError(t, err)
	require.True(t, small.Embedded())

	payload := make([]byte, 500)
	ref, err := MakeRef(NewBlobLeaf(payload))
	require.NoError(t, err)
	require.False(t, ref.Embedded())
	require.Equal(t, Direct, ref.Status())
}

func TestAddressString(t *testing.T) {
	a := NewAddress(0x0102030405060708)
	require.Equal(t, "0x0102030405060708", a.String())
}

func TestAddressEncodeDecodeRoundTrip(t *testing.T) {
	a := NewAddress(123456789)
	enc, err := Encode(a)
	require.NoError(t, err)
	require.LessOrEqual(t, len(enc), KindAddress.maxEncodingLength())

	c, err := Decode(enc)
	require.NoError(t, err)
	got, ok := c.(*Address)
	require.True(t, ok)
	require.Equal(t, a.Account, got.Account)
}
