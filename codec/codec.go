// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package codec is the top-level facade over the canonical cell
// encoding: Format.Write produces the bytes a Store or wire message
// carries, Format.Read parses them back, and both reject anything
// that isn't exactly one canonical cell.
package codec

import (
	"github.com/johnbendi/convex/cell"
	"github.com/johnbendi/convex/multicell"
)

// Format is the stateless entry point callers reach for instead of
// importing cell and multicell directly. It exists so call sites read
// "codec.Read"/"codec.Write" rather than naming the cell package at
// every use, the same separation the teacher draws between its wire
// codec and the types it moves across the wire.
type Format struct{}

// Default is the only Format implementation this package ships;
// it's exported as a value rather than a package-level function pair
// so a future second format (e.g. a debug pretty-printer) can satisfy
// the same shape.
var Default = Format{}

// Write returns c's canonical encoding.
func (Format) Write(c cell.Cell) ([]byte, error) {
	return cell.Encode(c)
}

// Read parses data as a single canonical cell.
func (Format) Read(data []byte) (cell.Cell, error) {
	return cell.Decode(data)
}

// WriteMessage frames root together with every non-embedded cell it
// transitively references, suitable for handing to a transport that
// has no separate cell store of its own.
func (Format) WriteMessage(root *cell.Ref, resolve cell.Resolve) ([]byte, error) {
	return multicell.EncodeMessage(root, resolve)
}

// ReadMessage parses a blob produced by WriteMessage, returning the
// root cell with every framed descendant already cached on its Ref
// graph.
func (Format) ReadMessage(data []byte) (*cell.Ref, error) {
	return multicell.DecodeMessage(data)
}
