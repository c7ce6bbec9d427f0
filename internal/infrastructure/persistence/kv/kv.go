// Package kv defines the key-value contract the snapshot store is built on.
// Every backend (memory, Redis, PostgreSQL, SQLite) stores opaque byte blobs
// under string keys; serialization and versioning live a layer above.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by Get for an absent key.
var ErrKeyNotFound = errors.New("kv: key not found")

// Store is the minimal key-value surface required by the snapshot layer.
type Store interface {
	// Get returns the value for key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes every key with the given prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error

	// Ping reports backend reachability.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// ──────────────────────────────────────────────
// Key layout
// ──────────────────────────────────────────────

const keyPrefix = "progress"

// LearnerPrefix returns the common prefix of all keys for one learner.
func LearnerPrefix(learnerID string) string {
	return fmt.Sprintf("%s:%s:", keyPrefix, learnerID)
}

// SnapshotKey returns the key holding a learner's full progress snapshot.
func SnapshotKey(learnerID string) string {
	return LearnerPrefix(learnerID) + "snapshot"
}
