package kv

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendS3       = "s3"
	BackendMemory   = "memory"
)

// Options selects and addresses a backend.
type Options struct {
	Backend  string
	DSN      string // sqlite file or postgres DSN
	RedisURL string
	S3       S3Config
	Prefix   string // key prefix for redis and s3
}

func Open(ctx context.Context, o Options) (Store, error) {
	switch o.Backend {
	case BackendSQLite, "":
		return OpenSQLite(ctx, o.DSN)
	case BackendPostgres:
		return OpenPostgres(ctx, o.DSN)
	case BackendRedis:
		return OpenRedis(ctx, o.RedisURL, o.Prefix)
	case BackendS3:
		s3c := o.S3
		if s3c.Prefix == "" {
			s3c.Prefix = o.Prefix
		}
		return OpenS3(ctx, s3c)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", o.Backend)
	}
}
