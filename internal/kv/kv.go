// Package kv provides the string key/value backends records are stored in.
//
// Keys are short identifiers such as "tasks" or "darkMode"; values are opaque
// strings, usually JSON. A missing key is reported as ErrNotFound.
package kv

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("key not found")

// Backend is a string key/value store.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Kind names a backend implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindRedis  Kind = "redis"
	KindMemory Kind = "memory"
)

// Kinds lists the supported backends.
func Kinds() []Kind {
	return []Kind{KindFile, KindSQLite, KindRedis, KindMemory}
}

// ParseKind parses a backend name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range Kinds() {
		if k == valid {
			return k, nil
		}
	}
	return "", fmt.Errorf("invalid store %q, must be one of: file, sqlite, redis, memory", s)
}

// Options selects and configures a backend.
type Options struct {
	Kind Kind

	// Dir is the directory of the file backend.
	Dir string

	// SQLitePath is the database file of the sqlite backend.
	SQLitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// RedisPrefix is prepended to every key.
	RedisPrefix string
}

// Open opens the backend named by opts.Kind.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Kind {
	case KindFile, "":
		return OpenFile(opts.Dir)
	case KindSQLite:
		return OpenSQLite(ctx, opts.SQLitePath)
	case KindRedis:
		return OpenRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisPrefix)
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store %q", opts.Kind)
	}
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidateKey reports whether key is usable by every backend.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) || strings.Contains(key, "..") {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}
