// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package frame

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	type msg struct {
		messageType byte
		payload     []byte
	}
	messages := []msg{
		{1, []byte("first")},
		{2, []byte{}},
		{3, bytes.Repeat([]byte{0xAB}, 1000)},
	}
	for _, m := range messages {
		require.NoError(t, w.WriteFrame(m.messageType, m.payload))
	}

	r := NewReader(&buf)
	for _, want := range messages {
		gotType, gotPayload, err := r.ReadFrame()
		require.NoError(t, err)
		require.Equal(t, want.messageType, gotType)
		require.Equal(t, want.payload, gotPayload)
	}
	_, _, err := r.ReadFrame()
	require.ErrorIs(t, err, io.EOF)
}

func TestReadFrameTruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteFrame(1, []byte("hello")))

	truncated := buf.Bytes()[:buf.Len()-2]
	r := NewReader(bytes.NewReader(truncated))
	_, _, err := r.ReadFrame()
	require.Error(t, err)
}
