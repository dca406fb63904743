// Package kv provides the key/value stores the snapshot persister writes to.
// Every backend follows the same contract: Get returns (nil, nil) for a key
// that does not exist, Set overwrites, and SetMany writes all pairs or none
// where the backend supports it.
package kv

import (
	"context"
	"strings"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, pairs map[string][]byte) error
	Close() error
}

// joinKey namespaces key under prefix with sep between them. An empty
// prefix leaves key as is and a prefix already ending in sep is not doubled.
func joinKey(prefix, sep, key string) string {
	if prefix == "" {
		return key
	}
	if strings.HasSuffix(prefix, sep) {
		return prefix + key
	}
	return prefix + sep + key
}
