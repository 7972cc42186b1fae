// Package storage provides the durable key-value adapters that hold the
// synthetic store's record sets. Each collection is one key whose value is
// a JSON array.
package storage

import (
	"context"
	"fmt"
	"regexp"

	"github.com/mesh-intelligence/admindesk/pkg/types"
)

// KV is a string-keyed blob store. Get returns types.ErrKeyNotFound when
// the key has never been written or was deleted.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

func checkKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: storage key %q", types.ErrValidation, key)
	}
	return nil
}

// Open validates cfg and builds the adapter it selects.
func Open(ctx context.Context, cfg types.StorageConfig) (KV, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Backend {
	case types.BackendFile:
		return NewFile(cfg.DataDir)
	case types.BackendSQLite:
		return OpenSQLite(ctx, cfg.DataDir)
	case types.BackendRedis:
		return OpenRedis(ctx, cfg.RedisAddr)
	case types.BackendPostgres:
		return OpenPostgres(ctx, cfg.PostgresDSN)
	case types.BackendMemory:
		return NewMemory(), nil
	}
	return nil, types.ErrBackendUnknown
}
