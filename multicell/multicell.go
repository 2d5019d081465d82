// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package multicell frames a cell together with the transitively
// reachable, non-embedded cells it depends on into a single message:
// the unit a transport sends and a peer can decode without any prior
// state beyond the bytes themselves.
package multicell

import (
	"github.com/johnbendi/convex/cell"
	"github.com/johnbendi/convex/utils/constants"
	"github.com/johnbendi/convex/utils/wrappers"
	"github.com/johnbendi/convex/vlq"
)

// EncodeMessage writes root's own canonical encoding followed by the
// canonical encoding of every distinct cell root transitively
// references by hash (embedded children travel with their parent and
// are not repeated). resolve supplies cells for refs not already
// cached in memory; pass nil if the whole graph is already resolved.
func EncodeMessage(root *cell.Ref, resolve cell.Resolve) ([]byte, error) {
	rootCell, err := resolveRoot(root, resolve)
	if err != nil {
		return nil, err
	}
	rootEnc, err := cell.Encode(rootCell)
	if err != nil {
		return nil, err
	}

	var descendants [][]byte
	err = cell.Walk(root, resolve, func(r *cell.Ref) error {
		if r.Hash() == root.Hash() || r.Embedded() {
			return nil
		}
		c, ok := r.Cached()
		if !ok {
			return cell.NewMissingData(r.Hash())
		}
		enc, err := cell.Encode(c)
		if err != nil {
			return err
		}
		descendants = append(descendants, enc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return packMessage(rootEnc, descendants)
}

// EncodeDelta is EncodeMessage restricted to novelty: descendants for
// which announced reports true are omitted from the message body
// (the root is always included, since it is the thing being
// announced). This is the shape a broadcaster uses to avoid resending
// cells a peer has already seen.
func EncodeDelta(root *cell.Ref, resolve cell.Resolve, announced func(cell.Hash) bool) ([]byte, error) {
	rootCell, err := resolveRoot(root, resolve)
	if err != nil {
		return nil, err
	}
	rootEnc, err := cell.Encode(rootCell)
	if err != nil {
		return nil, err
	}

	var descendants [][]byte
	err = cell.Walk(root, resolve, func(r *cell.Ref) error {
		if r.Hash() == root.Hash() || r.Embedded() {
			return nil
		}
		if announced != nil && announced(r.Hash()) {
			return nil
		}
		c, ok := r.Cached()
		if !ok {
			return cell.NewMissingData(r.Hash())
		}
		enc, err := cell.Encode(c)
		if err != nil {
			return err
		}
		descendants = append(descendants, enc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return packMessage(rootEnc, descendants)
}

// DecodeMessage parses a blob produced by EncodeMessage or
// EncodeDelta and returns a Ref to the root cell with every framed
// descendant already resolved and cached on the reconstructed graph.
// The root cell's own encoding begins the message directly, with no
// length prefix; every byte after it is a sequence of
// [VLQ-Count length][length-byte cell encoding] descendant frames
// running to the end of the buffer — so a lone 0x00 byte (Null, with
// no descendants) is itself a valid message.
// DecodeMessage does not require the descendant set to be complete:
// any ref the root doesn't actually reach is simply parsed and
// discarded, and any ref it does reach but that wasn't included
// surfaces as a MissingData error from the Walk below.
func DecodeMessage(data []byte) (*cell.Ref, error) {
	rootCell, rootLen, err := cell.DecodePrefix(data)
	if err != nil {
		return nil, err
	}

	byHash := make(map[cell.Hash]cell.Cell)
	off := rootLen
	for off < len(data) {
		var enc []byte
		enc, off, err = readFrame(data, off)
		if err != nil {
			return nil, err
		}
		c, err := cell.Decode(enc)
		if err != nil {
			return nil, err
		}
		if cell.WouldEmbed(c, len(enc)) {
			return nil, &cell.BadFormatError{Reason: "framed descendant would have been embedded in canonical form"}
		}
		byHash[cell.HashOf(enc)] = c
	}

	root, err := cell.MakeRef(rootCell)
	if err != nil {
		return nil, err
	}
	resolve := func(r *cell.Ref) (cell.Cell, error) {
		if c, ok := byHash[r.Hash()]; ok {
			return c, nil
		}
		return nil, cell.NewMissingData(r.Hash())
	}
	if err := cell.Walk(root, resolve, func(*cell.Ref) error { return nil }); err != nil {
		return nil, err
	}
	return root, nil
}

func resolveRoot(root *cell.Ref, resolve cell.Resolve) (cell.Cell, error) {
	if c, ok := root.Cached(); ok {
		return c, nil
	}
	if resolve == nil {
		return nil, cell.NewMissingData(root.Hash())
	}
	return resolve(root)
}

// packMessage frames rootEnc directly followed by each descendant as
// [VLQ-Count length][length-byte encoding], per spec §4.F: the root
// carries no length prefix of its own, and there is no leading
// descendant count — the list simply runs to the end of the buffer.
func packMessage(rootEnc []byte, descendants [][]byte) ([]byte, error) {
	p := &wrappers.Packer{Bytes: make([]byte, 0, len(rootEnc)+32*len(descendants))}
	p.PackBytes(rootEnc)
	for _, enc := range descendants {
		p.PackVLQCount(uint64(len(enc)))
		p.PackBytes(enc)
	}
	if p.Err != nil {
		return nil, p.Err
	}
	if len(p.Bytes) > constants.MaxStreamFrameLength {
		return nil, &cell.BadFormatError{Reason: "multi-cell message exceeds MAX_STREAM_FRAME_LENGTH"}
	}
	return p.Bytes, nil
}

func readCount(buf []byte, off int) (uint64, int, error) {
	v, n, err := vlq.ReadCount(buf, off)
	if err != nil {
		return 0, off, err
	}
	return v, n, nil
}

func readFrame(buf []byte, off int) ([]byte, int, error) {
	n, off, err := readCount(buf, off)
	if err != nil {
		return nil, off, err
	}
	if off+int(n) > len(buf) {
		return nil, off, vlq.ErrBadFormat
	}
	return buf[off : off+int(n)], off + int(n), nil
}
