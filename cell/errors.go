// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cell

import (
	"errors"
	"fmt"
)

// ErrBadFormat is the single error kind a malformed encoding produces.
// Every BadFormatError wraps it so callers can test with errors.Is
// instead of matching on message text.
var ErrBadFormat = errors.New("cell: bad format")

// BadFormatError carries a human-readable reason for a canonicality
// violation: an unknown tag, a truncated payload, trailing bytes,
// a non-minimal VLQ, an embeddable child sent as an indirect ref (or
// vice versa), an over-length encoding, or malformed UTF-8.
type BadFormatError struct {
	Reason string
}

func (e *BadFormatError) Error() string {
	return fmt.Sprintf("bad format: %s", e.Reason)
}

func (e *BadFormatError) Unwrap() error {
	return ErrBadFormat
}

func badFormat(format string, args ...interface{}) error {
	return &BadFormatError{Reason: fmt.Sprintf(format, args...)}
}

// MissingDataError is returned (never wrapped in BadFormatError) when a
// partial Ref is dereferenced and neither the in-process cell cache
// nor the Store holds the cell behind its hash. It is not a format
// error: the bytes the caller already has are well-formed, the graph
// is simply incomplete.
type MissingDataError struct {
	Hash Hash
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("missing data for %s", e.Hash)
}

func (e *MissingDataError) Is(target error) bool {
	_, ok := target.(*MissingDataError)
	return ok
}

// NewMissingData constructs the MissingData condition for hash h.
func NewMissingData(h Hash) error {
	return &MissingDataError{Hash: h}
}
