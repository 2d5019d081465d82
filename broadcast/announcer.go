// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package broadcast publishes cell graphs to peers as delta
// messages: each Announce call sends only the cells a peer hasn't
// already been sent, tracked by hash in the Announcer's own set; each
// sent Ref's status is also advanced to Announced.
package broadcast

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/johnbendi/convex/cell"
	"github.com/johnbendi/convex/log"
	"github.com/johnbendi/convex/metrics"
	"github.com/johnbendi/convex/multicell"
	"github.com/johnbendi/convex/store"
	"github.com/johnbendi/convex/utils/set"
	"github.com/johnbendi/convex/utils/wrappers"
)

// maxConcurrentAnnounces bounds how many roots AnnounceAll will
// persist and send in parallel, so a large batch doesn't open an
// unbounded number of concurrent Store writes.
const maxConcurrentAnnounces = 8

// Transport is the single operation an Announcer needs from whatever
// moves bytes between peers.
type Transport func(msg []byte) error

// Announcer persists a cell graph durably and then broadcasts it,
// remembering what it has already sent so repeat Announce calls for
// overlapping graphs only ever transmit novelty.
type Announcer struct {
	resolver  *store.Resolver
	transport Transport
	logger    log.Logger
	metrics   *metrics.Metrics

	mu        sync.Mutex
	announced set.Set[cell.Hash]
}

// NewAnnouncer returns an Announcer that persists through resolver
// and sends wire messages through transport. logger and m may be nil.
func NewAnnouncer(resolver *store.Resolver, transport Transport, logger log.Logger, m *metrics.Metrics) *Announcer {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	return &Announcer{
		resolver:  resolver,
		transport: transport,
		logger:    logger,
		metrics:   m,
		announced: set.NewSet[cell.Hash](0),
	}
}

// Announce persists root and its descendants, sends the novel subset
// over the transport, and advances every sent Ref's status to
// Announced. Calling Announce again with a graph that shares cells
// with a previous call only retransmits what's new.
func (a *Announcer) Announce(root *cell.Ref) error {
	if err := a.resolver.Persist(root); err != nil {
		a.logger.Error("broadcast: persist failed", "hash", root.Hash(), "error", err)
		return err
	}

	msg, err := multicell.EncodeDelta(root, a.resolver.Resolve, a.isAnnounced)
	if err != nil {
		a.logger.Error("broadcast: encode delta failed", "hash", root.Hash(), "error", err)
		return err
	}

	if a.transport != nil {
		if err := a.transport(msg); err != nil {
			return err
		}
	}

	return cell.Walk(root, a.resolver.Resolve, func(r *cell.Ref) error {
		if r.Embedded() {
			return nil
		}
		if !a.markAnnounced(r.Hash()) {
			return nil // already announced by a prior call; don't double-count
		}
		r.Advance(cell.Announced)
		if a.metrics != nil {
			a.metrics.CellsAnnounced.Inc()
		}
		return nil
	})
}

// AnnounceAll announces every root in roots concurrently (bounded by
// maxConcurrentAnnounces), collecting rather than short-circuiting on
// individual failures so one bad graph doesn't block the rest of the
// batch.
func (a *Announcer) AnnounceAll(roots []*cell.Ref) error {
	var errs wrappers.Errs
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(maxConcurrentAnnounces)
	for _, root := range roots {
		root := root
		g.Go(func() error {
			err := a.Announce(root)
			mu.Lock()
			errs.Add(err)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // errors are collected into errs above, never returned here
	return errs.Err()
}

func (a *Announcer) isAnnounced(h cell.Hash) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.announced.Contains(h)
}

// markAnnounced records h as sent, returning false if it was already
// recorded (so the caller can skip double-counting it).
func (a *Announcer) markAnnounced(h cell.Hash) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.announced.Contains(h) {
		return false
	}
	a.announced.Add(h)
	if a.metrics != nil {
		a.metrics.AnnouncedSetSize.Set(float64(a.announced.Len()))
	}
	return true
}
