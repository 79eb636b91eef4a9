package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Backend names accepted by New.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

const (
	defaultTTL        = 5 * time.Minute
	defaultMaxEntries = 10000
)

// ErrUnknownBackend is returned by New for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown cache backend")

// Cache stores encoded recommendation results by key. Implementations are
// safe for concurrent use. A miss is reported with ok == false and a nil
// error.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Options selects and tunes a backend.
type Options struct {
	Backend    string
	RedisURL   string
	TTL        time.Duration
	MaxEntries int64
}

// New builds the cache described by opts. An empty backend means none.
func New(opts Options, logger *zap.Logger) (Cache, error) {
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = defaultMaxEntries
	}

	switch opts.Backend {
	case "", BackendNone:
		return Nop{}, nil
	case BackendMemory:
		c, err := NewMemory(opts.MaxEntries, opts.TTL)
		if err != nil {
			return nil, err
		}
		logger.Info("result cache enabled", zap.String("backend", BackendMemory),
			zap.Int64("max_entries", opts.MaxEntries), zap.Duration("ttl", opts.TTL))
		return c, nil
	case BackendRedis:
		c, err := NewRedis(opts.RedisURL, opts.TTL)
		if err != nil {
			return nil, err
		}
		logger.Info("result cache enabled", zap.String("backend", BackendRedis), zap.Duration("ttl", opts.TTL))
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte) error         { return nil }
func (Nop) Close() error                                      { return nil }
