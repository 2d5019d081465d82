// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package frame delimits multi-cell messages on a byte stream. It is
// a thin layer above multicell: where multicell frames a root cell
// together with its descendants into one opaque blob, frame delimits
// a sequence of those blobs back to back on a single connection, so a
// reader knows where one message ends and the next begins without
// relying on the transport to preserve message boundaries.
package frame

import (
	"bufio"
	"io"
	"math"

	"github.com/johnbendi/convex/utils/constants"
	"github.com/johnbendi/convex/vlq"
)

// Writer delimits messages written to an underlying io.Writer.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteFrame writes a frame as [VLQ-Count total-length][1-byte
// messageType][payload], where total-length counts messageType plus
// payload. It rejects frames larger than MAX_STREAM_FRAME_LENGTH
// before writing anything, so a caller never has to unwind a partial
// write.
func (w *Writer) WriteFrame(messageType byte, payload []byte) error {
	total := len(payload) + 1
	if total > constants.MaxStreamFrameLength {
		return &frameError{"frame payload exceeds MAX_STREAM_FRAME_LENGTH"}
	}
	prefix := vlq.AppendCount(make([]byte, 0, constants.MaxVLQCountLength), uint64(total))
	if _, err := w.w.Write(prefix); err != nil {
		return err
	}
	if _, err := w.w.Write([]byte{messageType}); err != nil {
		return err
	}
	_, err := w.w.Write(payload)
	return err
}

// Reader reassembles length-delimited messages from an underlying
// io.Reader.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadFrame reads the next frame and returns its message-type code
// and payload. It returns io.EOF only if the stream ends cleanly
// between frames; an EOF in the middle of a length prefix, the
// message-type byte, or the payload is reported as an error, since
// that's a truncated stream, not a clean close.
func (r *Reader) ReadFrame() (byte, []byte, error) {
	total, err := r.readCount()
	if err != nil {
		return 0, nil, err
	}
	if total > uint64(constants.MaxStreamFrameLength) {
		return 0, nil, &frameError{"frame length exceeds MAX_STREAM_FRAME_LENGTH"}
	}
	if total == 0 {
		return 0, nil, &frameError{"frame length does not account for the message-type byte"}
	}
	buf := make([]byte, total)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		if err == io.EOF {
			return 0, nil, io.ErrUnexpectedEOF
		}
		return 0, nil, err
	}
	return buf[0], buf[1:], nil
}

// readCount reads one VLQ-Count directly off the stream, byte by
// byte, mirroring vlq.ReadCount's grouping rule without requiring the
// whole prefix to already be buffered in a slice.
func (r *Reader) readCount() (uint64, error) {
	var v uint64
	for i := 0; ; i++ {
		if i >= constants.MaxVLQCountLength {
			return 0, &frameError{"VLQ-Count prefix too long"}
		}
		b, err := r.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				if i == 0 {
					return 0, io.EOF
				}
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
		if i == 0 && b == 0x80 {
			return 0, &frameError{"non-minimal VLQ-Count prefix"}
		}
		if v > math.MaxUint64>>7 {
			return 0, &frameError{"VLQ-Count prefix overflows 64 bits"}
		}
		v = (v << 7) | uint64(b&0x7f)
		if b&0x80 == 0 {
			return v, nil
		}
	}
}

type frameError struct{ reason string }

func (e *frameError) Error() string { return "frame: " + e.reason }
