package store

import (
	"context"
	"fmt"
	"strings"
)

const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Options selects and configures a backend. Secrets are already resolved.
type Options struct {
	Driver string

	Path       string
	QuotaBytes int

	RedisURL      string
	RedisPassword string
	RedisPrefix   string

	PostgresURL   string
	PostgresTable string
}

// Open returns the backend named by opts.Driver. An empty driver means file.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverFile:
		if strings.TrimSpace(opts.Path) == "" {
			return nil, fmt.Errorf("file store requires a path")
		}
		return NewFile(opts.Path, opts.QuotaBytes), nil
	case DriverMemory:
		return NewMemory(), nil
	case DriverRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("redis store requires an url")
		}
		return NewRedis(ctx, opts.RedisURL, opts.RedisPassword, opts.RedisPrefix)
	case DriverPostgres:
		if opts.PostgresURL == "" {
			return nil, fmt.Errorf("postgres store requires an url")
		}
		return NewPostgres(ctx, opts.PostgresURL, opts.PostgresTable)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, opts.Driver)
	}
}
