// Package kvcache is a small byte-oriented key/value store with file, SQLite
// and Redis backends. Values are opaque; expiry is the caller's concern.
package kvcache

import (
	"context"
	"errors"
	"fmt"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("kvcache: miss")

// Backend names.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Cache stores opaque values by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Path is the cache file for the file and sqlite backends.
	Path      string
	RedisAddr string
	RedisDB   int
}

// Open returns the Cache for opts.Backend. An empty backend means file.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFile(opts.Path)
	case BackendSQLite:
		return NewSQLite(ctx, opts.Path)
	case BackendRedis:
		return NewRedis(ctx, opts.RedisAddr, opts.RedisDB)
	default:
		return nil, fmt.Errorf("kvcache: unknown backend %q", opts.Backend)
	}
}
