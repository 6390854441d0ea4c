package ingest

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNoCheckpoint is returned by Load when no checkpoint has been saved
// for the pipeline.
var ErrNoCheckpoint = errors.New("no checkpoint")

// Checkpoint records ingest progress for one pipeline. Position is the
// cumulative count of committed events and only moves forward.
type Checkpoint struct {
	Pipeline    string    `json:"pipeline"`
	Position    uint64    `json:"position"`
	CommittedAt time.Time `json:"committed_at"`
}

// CheckpointStore persists pipeline progress across restarts.
type CheckpointStore interface {
	// Save stores the checkpoint, replacing any previous one for the
	// same pipeline.
	Save(ctx context.Context, cp Checkpoint) error

	// Load returns the stored checkpoint for the named pipeline, or
	// ErrNoCheckpoint when none exists.
	Load(ctx context.Context, pipeline string) (Checkpoint, error)
}

// MemoryCheckpointStore keeps checkpoints in process memory. It is safe
// for concurrent use and suited to tests and single-process pipelines.
type MemoryCheckpointStore struct {
	mu          sync.RWMutex
	checkpoints map[string]Checkpoint
}

// NewMemoryCheckpointStore creates an empty in-memory store.
func NewMemoryCheckpointStore() *MemoryCheckpointStore {
	return &MemoryCheckpointStore{
		checkpoints: make(map[string]Checkpoint),
	}
}

// Save stores the checkpoint.
func (s *MemoryCheckpointStore) Save(_ context.Context, cp Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkpoints[cp.Pipeline] = cp
	return nil
}

// Load returns the stored checkpoint.
func (s *MemoryCheckpointStore) Load(_ context.Context, pipeline string) (Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp, ok := s.checkpoints[pipeline]
	if !ok {
		return Checkpoint{}, ErrNoCheckpoint
	}
	return cp, nil
}
