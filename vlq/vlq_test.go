// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vlq

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCountLiteralVectors(t *testing.T) {
	tests := []struct {
		name string
		v    uint64
		want []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"sixty four fits one byte", 0x40, []byte{0x40}},
		{"two byte boundary", 0x80, []byte{0x81, 0x00}},
		{"one gibibyte", 1 << 30, []byte{0x84, 0x80, 0x80, 0x80, 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendCount(nil, tt.v)
			require.Equal(t, tt.want, got)
			require.Equal(t, len(tt.want), CountLength(tt.v))

			v, n, err := ReadCount(got, 0)
			require.NoError(t, err)
			require.Equal(t, tt.v, v)
			require.Equal(t, len(got), n)
		})
	}
}

func TestCountBoundaryTransitions(t *testing.T) {
	boundaries := []uint64{0x80, 0x4000, 1 << 21, 1 << 28, 1 << 35, 1 << 42, 1 << 49, 1 << 56, 1 << 63}
	for _, b := range boundaries {
		below := CountLength(b - 1)
		at := CountLength(b)
		require.Equal(t, below+1, at, "boundary at %#x", b)
	}
}

func TestCountNonMinimalRejected(t *testing.T) {
	_, _, err := ReadCount([]byte{0x80, 0x00}, 0)
	require.Error(t, err)
}

func TestCountRoundTripProperty(t *testing.T) {
	seed := uint64(0x9E3779B97F4A7C15)
	for i := 0; i < 5000; i++ {
		seed = seed*6364136223846793005 + 1442695040888963407
		v := seed % (1 << 63)
		buf := AppendCount(nil, v)
		require.Equal(t, CountLength(v), len(buf))

		got, n, err := ReadCount(buf, 0)
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, len(buf), n)
	}
}

func TestLongLiteralVectors(t *testing.T) {
	tests := []struct {
		name string
		v    int64
		want []byte
	}{
		{"fifteen", 15, []byte{0x0f}},
		{"one", 1, []byte{0x01}},
		{"minus one", -1, []byte{0x7f}},
		{"minus sixty four", -64, []byte{0x40}},
		{"sixty three", 63, []byte{0x3f}},
		{"sixty four needs two bytes", 64, []byte{0x80 | 0x00, 0x40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendLong(nil, tt.v)
			require.Equal(t, tt.want, got)

			v, n, err := ReadLong(got, 0)
			require.NoError(t, err)
			require.Equal(t, tt.v, v)
			require.Equal(t, len(got), n)
		})
	}
}

func TestLongRoundTripProperty(t *testing.T) {
	seed := uint64(0xD1B54A32D192ED03)
	for i := 0; i < 5000; i++ {
		seed = seed*6364136223846793005 + 1442695040888963407
		v := int64(seed)
		buf := AppendLong(nil, v)
		require.Equal(t, LongLength(v), len(buf))

		got, n, err := ReadLong(buf, 0)
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, len(buf), n)
	}

	for _, v := range []int64{0, 1, -1, math.MinInt64, math.MaxInt64, 64, -65} {
		buf := AppendLong(nil, v)
		got, _, err := ReadLong(buf, 0)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestLongNonMinimalRejected(t *testing.T) {
	// 0x01 alone encodes 1; prefixing a redundant continuation byte
	// whose payload matches the sign bit that would follow is invalid.
	_, _, err := ReadLong([]byte{0x80, 0x01}, 0)
	require.Error(t, err)
}

func TestPeekCountPrefix(t *testing.T) {
	full := AppendCount(nil, 1<<30)
	for i := 0; i < len(full)-1; i++ {
		_, ok, err := PeekCountPrefix(full[:i+1], 0)
		require.NoError(t, err)
		require.False(t, ok)
	}
	n, ok, err := PeekCountPrefix(full, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, len(full), n)

	_, _, err = PeekCountPrefix(full, len(full)-1)
	require.Error(t, err)
}

func TestReadTruncated(t *testing.T) {
	_, _, err := ReadCount([]byte{0x81}, 0)
	require.Error(t, err)

	_, _, err = ReadLong([]byte{0x81}, 0)
	require.Error(t, err)
}

func BenchmarkAppendCount(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = AppendCount(nil, uint64(i))
	}
}

func BenchmarkReadCount(b *testing.B) {
	buf := AppendCount(nil, 1<<40)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = ReadCount(buf, 0)
	}
}
