// Package persistence implements the learner.Store contract as a JSON
// snapshot document over any kv.Store backend.
//
// Semantics:
//   - Load for an absent learner creates a fresh snapshot and persists it,
//     so subsequent reads are stable.
//   - A blob that fails to deserialize is discarded with a warning and
//     replaced by a fresh snapshot; progression data is reconstructible
//     and not worth refusing service over.
//   - Save performs a compare-and-set on the snapshot version counter and
//     returns shared.ErrConcurrentModification on mismatch.
//   - Transient backend failures are retried with exponential backoff.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/learnpath/learnpath-progress/internal/domain/learner"
	"github.com/learnpath/learnpath-progress/internal/domain/shared"
	"github.com/learnpath/learnpath-progress/internal/infrastructure/persistence/kv"
	"github.com/learnpath/learnpath-progress/pkg/logger"
	"github.com/learnpath/learnpath-progress/pkg/retry"
)

// SnapshotStore persists learner.Snapshot documents in a kv.Store.
type SnapshotStore struct {
	backend kv.Store
	log     *logger.Logger
	retrier *retry.Retrier

	// mu makes the version check-and-write atomic within this process.
	// Cross-process writers are still detected by the version counter,
	// just one write later.
	mu sync.Mutex

	now func() time.Time
}

var _ learner.Store = (*SnapshotStore)(nil)

// NewSnapshotStore wires a snapshot store over the given backend.
func NewSnapshotStore(backend kv.Store, log *logger.Logger, retrier *retry.Retrier) *SnapshotStore {
	if log == nil {
		log = logger.Default()
	}
	if retrier == nil {
		retrier = retry.New(retry.DefaultConfig())
	}
	return &SnapshotStore{
		backend: backend,
		log:     log.With(logger.Component("snapshot_store")),
		retrier: retrier,
		now:     time.Now,
	}
}

// Load returns the learner's snapshot, creating and persisting a fresh one
// for an absent learner or a corrupt record.
func (s *SnapshotStore) Load(ctx context.Context, learnerID string) (*learner.Snapshot, error) {
	if learnerID == "" {
		return nil, shared.ErrInvalidLearnerID
	}

	key := kv.SnapshotKey(learnerID)
	raw, err := s.get(ctx, key)
	switch {
	case errors.Is(err, kv.ErrKeyNotFound):
		return s.initialize(ctx, learnerID, key)
	case err != nil:
		return nil, shared.WrapError("store", "Load", shared.ErrStorageUnavailable, "load snapshot", err)
	}

	snap := &learner.Snapshot{}
	if err := json.Unmarshal(raw, snap); err != nil || snap.User == nil {
		s.log.Warn("discarding corrupt snapshot",
			logger.LearnerID(learnerID),
			logger.StoreKey(key),
			logger.Err(err),
		)
		return s.initialize(ctx, learnerID, key)
	}
	if snap.Modules == nil {
		snap.Modules = make(map[string]*learner.ModuleProgress)
	}
	return snap, nil
}

// Save writes the snapshot in one logical write, bumping the version
// counter. Fails with shared.ErrConcurrentModification if the stored
// version no longer matches the one the snapshot was loaded at.
func (s *SnapshotStore) Save(ctx context.Context, snap *learner.Snapshot) error {
	if snap == nil || snap.User == nil {
		return shared.NewDomainError("store", "Save", shared.ErrInvalidInput, "snapshot must carry user progress")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := kv.SnapshotKey(snap.User.LearnerID)
	stored, err := s.currentVersion(ctx, key)
	if err != nil {
		return shared.WrapError("store", "Save", shared.ErrStorageUnavailable, "read current version", err)
	}
	if stored != snap.Version {
		return shared.WrapError("store", "Save", shared.ErrConcurrentModification,
			fmt.Sprintf("stored version %d, loaded version %d", stored, snap.Version), nil)
	}

	snap.Version++
	raw, err := json.Marshal(snap)
	if err != nil {
		snap.Version--
		return shared.WrapError("store", "Save", shared.ErrInvalidInput, "encode snapshot", err)
	}
	if err := s.set(ctx, key, raw); err != nil {
		snap.Version--
		return shared.WrapError("store", "Save", shared.ErrStorageUnavailable, "write snapshot", err)
	}
	return nil
}

// Clear removes every record the learner owns.
func (s *SnapshotStore) Clear(ctx context.Context, learnerID string) error {
	if learnerID == "" {
		return shared.ErrInvalidLearnerID
	}
	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		if err := s.backend.DeleteByPrefix(ctx, kv.LearnerPrefix(learnerID)); err != nil {
			return retry.Retryable(err)
		}
		return nil
	})
	if err != nil {
		return shared.WrapError("store", "Clear", shared.ErrStorageUnavailable, "delete learner records", err)
	}
	s.log.Info("cleared learner progress", logger.LearnerID(learnerID))
	return nil
}

// Ping reports backend reachability.
func (s *SnapshotStore) Ping(ctx context.Context) error {
	if err := s.backend.Ping(ctx); err != nil {
		return shared.WrapError("store", "Ping", shared.ErrStorageUnavailable, "backend unreachable", err)
	}
	return nil
}

// initialize persists and returns a zero-value snapshot for the learner.
func (s *SnapshotStore) initialize(ctx context.Context, learnerID, key string) (*learner.Snapshot, error) {
	snap := &learner.Snapshot{
		Version: 1,
		User:    learner.NewUserProgress(learnerID, s.now()),
		Modules: make(map[string]*learner.ModuleProgress),
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, shared.WrapError("store", "Load", shared.ErrInvalidInput, "encode fresh snapshot", err)
	}
	if err := s.set(ctx, key, raw); err != nil {
		return nil, shared.WrapError("store", "Load", shared.ErrStorageUnavailable, "persist fresh snapshot", err)
	}
	s.log.Debug("initialized fresh snapshot", logger.LearnerID(learnerID))
	return snap, nil
}

// currentVersion reads only the version counter of the stored snapshot.
// A missing or corrupt record counts as version 0 so the first Save after
// a corrupt Load succeeds.
func (s *SnapshotStore) currentVersion(ctx context.Context, key string) (int64, error) {
	raw, err := s.get(ctx, key)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var header struct {
		Version int64 `json:"version"`
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return 0, nil
	}
	return header.Version, nil
}

func (s *SnapshotStore) get(ctx context.Context, key string) ([]byte, error) {
	var raw []byte
	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		value, err := s.backend.Get(ctx, key)
		if errors.Is(err, kv.ErrKeyNotFound) {
			return retry.Permanent(err)
		}
		if err != nil {
			return retry.Retryable(err)
		}
		raw = value
		return nil
	})
	return raw, err
}

func (s *SnapshotStore) set(ctx context.Context, key string, value []byte) error {
	return s.retrier.Do(ctx, func(ctx context.Context) error {
		if err := s.backend.Set(ctx, key, value); err != nil {
			return retry.Retryable(err)
		}
		return nil
	})
}
