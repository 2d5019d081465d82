// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package store persists and resolves cells by content hash. It
// layers an in-process cache over an opaque, key/value Store so that
// a cell already seen in this process never has to round-trip through
// the backing database to satisfy a Resolve call.
package store

import (
	"github.com/luxfi/database"

	"github.com/johnbendi/convex/cell"
)

// Store is the durability boundary the rest of this package builds
// on: a flat map from a cell's hash to its canonical encoding. It
// deliberately knows nothing about cell structure, so any
// database.Database (or a narrower database.KeyValueReader/Writer
// pair) can back it.
type Store interface {
	Has(h cell.Hash) (bool, error)
	Get(h cell.Hash) ([]byte, error)
	Put(h cell.Hash, encoding []byte) error
}

// databaseStore adapts a github.com/luxfi/database key/value database
// to Store, keyed directly by the 32-byte hash.
type databaseStore struct {
	db database.Database
}

// NewDatabaseStore wraps db as a Store.
func NewDatabaseStore(db database.Database) Store {
	return &databaseStore{db: db}
}

func (s *databaseStore) Has(h cell.Hash) (bool, error) {
	return s.db.Has(h[:])
}

func (s *databaseStore) Get(h cell.Hash) ([]byte, error) {
	return s.db.Get(h[:])
}

func (s *databaseStore) Put(h cell.Hash, encoding []byte) error {
	return s.db.Put(h[:], encoding)
}
