// Package kvstore is the marketplace persistence store: JSON documents addressed by string key,
// with read-through defaults. Reads that find nothing usable persist and return the caller's
// default, so first access seeds the dataset.
package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

const namespaceSeparator = "/"

// Backend persists raw encoded documents by key.
type Backend interface {
	Read(ctx context.Context, key string) ([]byte, bool, error)
	Write(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store is a namespaced view over a Backend.
type Store struct {
	backend Backend
	prefix  string
	logg    *logger.Logger
}

// New wraps backend in a root Store. logg may be nil.
func New(backend Backend, logg *logger.Logger) (*Store, error) {
	if backend == nil {
		return nil, errors.New("kvstore backend required")
	}
	return &Store{backend: backend, logg: logg}, nil
}

// Namespace returns a view whose keys live under name. Views share the backend.
func (s *Store) Namespace(name string) *Store {
	name = strings.Trim(strings.TrimSpace(name), namespaceSeparator)
	if name == "" {
		return s
	}
	return &Store{
		backend: s.backend,
		prefix:  s.prefix + name + namespaceSeparator,
		logg:    s.logg,
	}
}

// Prefix is the key prefix applied by this view.
func (s *Store) Prefix() string {
	return s.prefix
}

// Get returns the value stored under key. When the key is absent or its document cannot be
// decoded into T, def is persisted and returned instead. Only backend failures are errors.
func Get[T any](ctx context.Context, s *Store, key string, def T) (T, error) {
	fullKey := s.fullKey(key)
	raw, ok, err := s.backend.Read(ctx, fullKey)
	if err != nil {
		return def, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read "+key)
	}
	if ok {
		var value T
		decodeErr := json.Unmarshal(raw, &value)
		if decodeErr == nil {
			return value, nil
		}
		s.warn(ctx, fullKey, "kvstore.decode_failed", decodeErr)
	}
	if err := s.Set(ctx, key, def); err != nil {
		return def, err
	}
	return def, nil
}

// Set serializes value as JSON and stores it under key.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode "+key)
	}
	if err := s.backend.Write(ctx, s.fullKey(key), raw); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write "+key)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, s.fullKey(key)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete "+key)
	}
	return nil
}

// Ping checks the backend when it supports health checks.
func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.backend.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *Store) fullKey(key string) string {
	return s.prefix + key
}

func (s *Store) warn(ctx context.Context, key, msg string, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithFields(ctx, map[string]any{"key": key, "error": err.Error()})
	s.logg.Warn(ctx, msg)
}
