package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	gaerrors "github.com/vnykmshr/goadmit/pkg/common/errors"
)

const defaultCheckpointKeyPrefix = "goadmit:checkpoint:"

// RedisCheckpointStore persists checkpoints in Redis so a restarted
// pipeline resumes from the position a previous process reached. This is
// durable progress state, not shared admission state: each process still
// admits independently.
type RedisCheckpointStore struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
}

// RedisCheckpointOption configures a RedisCheckpointStore.
type RedisCheckpointOption func(*RedisCheckpointStore)

// WithKeyPrefix overrides the default "goadmit:checkpoint:" key prefix.
func WithKeyPrefix(prefix string) RedisCheckpointOption {
	return func(s *RedisCheckpointStore) {
		s.keyPrefix = prefix
	}
}

// WithTTL sets an expiry on checkpoint keys. Zero keeps them forever.
func WithTTL(ttl time.Duration) RedisCheckpointOption {
	return func(s *RedisCheckpointStore) {
		s.ttl = ttl
	}
}

// NewRedisCheckpointStore creates a store backed by the given client.
// The client may be a single-node, cluster, or sentinel client.
func NewRedisCheckpointStore(client redis.UniversalClient, opts ...RedisCheckpointOption) (*RedisCheckpointStore, error) {
	if client == nil {
		return nil, gaerrors.NewValidationError("ingest", "client", nil, "redis client must not be nil").
			WithHint("provide a connected redis.UniversalClient")
	}

	s := &RedisCheckpointStore{
		client:    client,
		keyPrefix: defaultCheckpointKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Save stores the checkpoint as a JSON value.
func (s *RedisCheckpointStore) Save(ctx context.Context, cp Checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return gaerrors.NewOperationError("ingest", "Save", err).WithContext("marshal checkpoint")
	}

	if err := s.client.Set(ctx, s.key(cp.Pipeline), data, s.ttl).Err(); err != nil {
		return gaerrors.NewOperationError("ingest", "Save", err).WithContext("redis set")
	}
	return nil
}

// Load returns the stored checkpoint, or ErrNoCheckpoint when the key
// is missing.
func (s *RedisCheckpointStore) Load(ctx context.Context, pipeline string) (Checkpoint, error) {
	data, err := s.client.Get(ctx, s.key(pipeline)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Checkpoint{}, ErrNoCheckpoint
	}
	if err != nil {
		return Checkpoint{}, gaerrors.NewOperationError("ingest", "Load", err).WithContext("redis get")
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return Checkpoint{}, gaerrors.NewOperationError("ingest", "Load", err).WithContext("unmarshal checkpoint")
	}
	return cp, nil
}

func (s *RedisCheckpointStore) key(pipeline string) string {
	return s.keyPrefix + pipeline
}
