// Package storage defines the string keyed, string valued key space on which all reader state is kept.
package storage

import (
	"context"
	"errors"
)

var (
	ErrNotDir   = errors.New("given root is not a directory")
	ErrInternal = errors.New("internal error")
	ErrNotExist = errors.New("key does not exist")
)

type Store interface {
	// Get returns the value stored under key, or ErrNotExist.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a key that does not exist is not an error.
	Remove(ctx context.Context, key string) error
}
