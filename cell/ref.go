// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cell

import (
	"sync/atomic"

	"github.com/johnbendi/convex/utils/constants"
)

// Status describes how much work has been done publishing the cell
// behind a Ref. Status only ever advances forward; Ref.Advance uses a
// compare-and-swap loop so concurrent publishers converge on the
// highest status any of them observed, the same pattern the teacher's
// focus counter uses for its monotonic consecutive-success count.
type Status uint32

const (
	// Embedded means the Ref's target was inlined into its parent's
	// encoding and has no independent identity worth publishing.
	Embedded Status = iota
	// Direct means the Cell is held in memory but has not yet been
	// written anywhere durable.
	Direct
	// Stored means the cell's encoding has been handed to a Store.
	Stored
	// Persisted means the Store has acknowledged the write durably.
	Persisted
	// Announced means the cell has been included in an outbound
	// delta broadcast at least once.
	Announced
)

func (s Status) String() string {
	switch s {
	case Embedded:
		return "embedded"
	case Direct:
		return "direct"
	case Stored:
		return "stored"
	case Persisted:
		return "persisted"
	case Announced:
		return "announced"
	default:
		return "unknown"
	}
}

// Ref is a reference to a cell, either carried inline (embedded) or
// addressed by Hash (indirect). A Ref's Hash never changes after
// construction; only its Status and its in-memory cell cache advance.
type Ref struct {
	hash     Hash
	embedded Cell // non-nil iff this ref is embedded
	status   atomic.Uint32
	cached   atomic.Value // holds Cell once resolved
}

// NewEmbeddedRef wraps c as an embedded reference. c must satisfy
// c.Kind().embeddable() and fit within MAX_EMBEDDED_LENGTH; callers
// that build Refs directly (rather than through Encode) are
// responsible for that invariant.
func NewEmbeddedRef(c Cell) *Ref {
	r := &Ref{hash: HashOf(nil), embedded: c}
	r.status.Store(uint32(Embedded))
	r.cached.Store(c)
	r.hash = c.Hash()
	return r
}

// MakeRef builds the Ref a canonical encoder would choose for c: an
// embedded reference if c's kind allows embedding and its encoding
// fits within MAX_EMBEDDED_LENGTH, an indirect reference addressed by
// hash otherwise. The cell itself is kept in the Ref's resolve cache
// either way, so an indirect Ref built this way never needs a round
// trip through a Store just to read its own fields back.
func MakeRef(c Cell) (*Ref, error) {
	enc, err := Encode(c)
	if err != nil {
		return nil, err
	}
	if WouldEmbed(c, len(enc)) {
		return NewEmbeddedRef(c), nil
	}
	r := NewIndirectRef(HashOf(enc), Direct)
	r.setCached(c)
	return r, nil
}

// WouldEmbed reports whether a cell of c's kind, encoded in
// encodedLen bytes, is one a canonical encoder would have inlined
// into its parent rather than referenced indirectly by hash. A
// multi-cell message that frames such a cell as a standalone
// descendant is non-canonical: the same cell could have been encoded
// more compactly as an embedded child.
func WouldEmbed(c Cell, encodedLen int) bool {
	return c.Kind().embeddable() && encodedLen <= constants.MaxEmbeddedLength
}

// NewIndirectRef wraps hash as a reference to a cell that must be
// resolved through a store or cache before its fields are visible.
func NewIndirectRef(hash Hash, status Status) *Ref {
	r := &Ref{hash: hash}
	r.status.Store(uint32(status))
	return r
}

// Hash returns the content address of the referenced cell.
func (r *Ref) Hash() Hash {
	return r.hash
}

// Embedded reports whether this reference was inlined rather than
// indirected through a hash.
func (r *Ref) Embedded() bool {
	return r.embedded != nil
}

// Status returns the current publication status.
func (r *Ref) Status() Status {
	return Status(r.status.Load())
}

// Cached returns the cell this Ref has resolved to, if any resolution
// (construction, Resolve, or a prior cache hit) has already happened.
func (r *Ref) Cached() (Cell, bool) {
	v := r.cached.Load()
	if v == nil {
		return nil, false
	}
	return v.(Cell), true
}

// setCached records c as the resolved value for this Ref. It does not
// change Status; callers combine setCached with Advance.
func (r *Ref) setCached(c Cell) {
	r.cached.Store(c)
}

// Advance raises the Ref's status to at least want, never moving it
// backwards and never racing a concurrent advance: two goroutines
// calling Advance(Stored) and Advance(Persisted) concurrently leave
// the Ref at Persisted regardless of interleaving.
func (r *Ref) Advance(want Status) {
	for {
		cur := Status(r.status.Load())
		if cur >= want {
			return
		}
		if r.status.CompareAndSwap(uint32(cur), uint32(want)) {
			return
		}
	}
}
