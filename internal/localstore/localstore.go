// Package localstore is the JSON layer over the key space. It mirrors how a browser page treats localStorage:
// every value is a JSON document, corrupt documents are logged and read as empty, and each read-modify-write of
// a key happens as one step.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"codeberg.org/gruf/go-mutexes"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gonovel/internal/storage"
)

// ErrStorageParse marks a persisted value that is not valid JSON or does not have the expected shape.
var ErrStorageParse = errors.New("corrupt stored value")

// ErrUnchanged may be returned by an Update function to skip the write.
var ErrUnchanged = errors.New("unchanged")

const (
	KeyUsers       = "users"
	KeyCurrentUser = "currentUser"
)

func ProgressKey(username string) string {
	return "reading_progress_" + username
}

func CommentsKey(novelID, chapterID string) string {
	return "comments_" + novelID + "_" + chapterID
}

// validator is implemented by records that check their own shape after decoding.
type validator interface {
	Validate() error
}

type Adapter struct {
	store storage.Store
	locks *mutexes.MutexMap
}

func New(store storage.Store) *Adapter {
	locks := mutexes.MutexMap{}
	return &Adapter{
		store: store,
		locks: &locks,
	}
}

// Lock acquires the write lock of key and returns the function that releases it.
func (a *Adapter) Lock(key string) (unlock func()) {
	return a.locks.Lock(key)
}

// Decode parses a stored value. Malformed JSON and records that fail validation yield ErrStorageParse. Records
// with a Normalize method are normalized first, so repeated entries are collapsed instead of failing the whole
// value.
func Decode[T any](raw string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrStorageParse, err)
	}
	if n, ok := any(v).(interface{ Normalize() T }); ok {
		v = n.Normalize()
	}
	if val, ok := any(v).(validator); ok {
		if err := val.Validate(); err != nil {
			var zero T
			return zero, fmt.Errorf("%w: %s", ErrStorageParse, err)
		}
	}
	return v, nil
}

// Load reads and decodes key. A missing key yields the zero value; so does a corrupt one, after being logged.
// Only backend failures are returned.
func Load[T any](ctx context.Context, a *Adapter, key string) (T, error) {
	var zero T
	raw, err := a.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotExist) {
		return zero, nil
	}
	if err != nil {
		return zero, fmt.Errorf("read %s: %w", key, err)
	}

	v, err := Decode[T](raw)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discarding corrupt stored value")
		return zero, nil
	}
	return v, nil
}

// Save encodes v and stores it under key.
func Save(ctx context.Context, a *Adapter, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err = a.store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Update loads key, applies fn and saves the result, holding the key's lock throughout. If fn fails nothing is
// written and its error is returned as is, except for ErrUnchanged, which makes Update succeed without writing.
func Update[T any](ctx context.Context, a *Adapter, key string, fn func(T) (T, error)) (T, error) {
	unlock := a.Lock(key)
	defer unlock()

	v, err := Load[T](ctx, a, key)
	if err != nil {
		return v, err
	}
	if v, err = fn(v); err != nil {
		if errors.Is(err, ErrUnchanged) {
			return v, nil
		}
		return v, err
	}
	return v, Save(ctx, a, key, v)
}

func (a *Adapter) Remove(ctx context.Context, key string) error {
	unlock := a.Lock(key)
	defer unlock()
	if err := a.store.Remove(ctx, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
