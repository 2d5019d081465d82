// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/johnbendi/convex/cell"
)

func TestFormatWriteReadRoundTrip(t *testing.T) {
	tests := []cell.Cell{
		cell.NewNull(),
		cell.NewBool(true),
		cell.NewLong(-42),
		cell.NewStringLeaf("convex"),
	}
	for _, c := range tests {
		enc, err := Default.Write(c)
		require.NoError(t, err)

		got, err := Default.Read(enc)
		require.NoError(t, err)
		require.Equal(t, c.Hash(), got.Hash())
	}
}

func TestFormatReadRejectsTrailingBytes(t *testing.T) {
	enc, err := Default.Write(cell.NewLong(1))
	require.NoError(t, err)
	_, err = Default.Read(append(enc, 0x00))
	require.Error(t, err)
}

func TestFormatMessageRoundTrip(t *testing.T) {
	payload := make([]byte, 400)
	child, err := cell.MakeRef(cell.NewBlobLeaf(payload))
	require.NoError(t, err)
	vec, err := cell.NewVectorLeaf([]*cell.Ref{child})
	require.NoError(t, err)
	root, err := cell.MakeRef(vec)
	require.NoError(t, err)

	msg, err := Default.WriteMessage(root, nil)
	require.NoError(t, err)

	got, err := Default.ReadMessage(msg)
	require.NoError(t, err)
	require.Equal(t, root.Hash(), got.Hash())
}
