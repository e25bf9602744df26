/*
Package store defines the blob persistence contract and its drivers.

PURPOSE:
  The record snapshot is persisted as one opaque blob under a fixed key.
  A Blob driver only has to read and overwrite whole values; it knows
  nothing about records.

DRIVERS:
  - store/sqlite:   kv table in a SQLite file (default)
  - store/fs:       one file per key under a root directory
  - store/memory:   process memory (tests, demos)
  - store/s3:       one object per key in an S3 / MinIO bucket
  - store/redis:    one string value per key
  - store/postgres: kv table in PostgreSQL

SEMANTICS:
  Put replaces the prior value in full (last write wins).
  Get returns ErrNotFound when the key was never written.

SEE ALSO:
  - ppe/store.go: Record store built on a Blob
  - factory/factory.go: Driver selection from config
*/
package store

import (
	"context"
	"errors"
)

// Driver names a Blob implementation.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverFS       Driver = "fs"
	DriverMemory   Driver = "memory"
	DriverS3       Driver = "s3"
	DriverRedis    Driver = "redis"
	DriverPostgres Driver = "postgres"
)

// Blob is a key-value store of whole values.
type Blob interface {
	// Get returns the value stored at key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put overwrites the value at key.
	Put(ctx context.Context, key string, data []byte) error
	// Driver returns the backend identifier.
	Driver() Driver
}

// ErrNotFound is returned by Get for keys that were never written.
var ErrNotFound = errors.New("blob not found")
