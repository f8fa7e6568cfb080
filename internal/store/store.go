// Package store provides Postgres persistence for assets and inspection
// transactions. It supplies the immutable snapshots the aggregation core
// consumes and performs no business logic of its own.
package store

import (
	"database/sql"
)

// Store wraps a database handle with typed queries for the two
// collections this service owns.
type Store struct {
	db *sql.DB
}

// New creates a Store on an open database handle. The caller owns the
// handle's lifecycle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}
