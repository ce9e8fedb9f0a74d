package store

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

// Open builds a store for backend. path is a directory for "file" and a
// database file for "sqlite"; it is ignored for "memory". The returned close
// func releases the backend and is never nil.
func Open(backend, path, namespace string) (*KVStore, func() error, error) {
	noop := func() error { return nil }

	switch backend {
	case BackendMemory:
		return New(NewMemoryKV(), namespace), noop, nil
	case BackendFile, "":
		if path == "" {
			return nil, noop, fmt.Errorf("file store: empty path")
		}
		return New(NewFileKV(path), namespace), noop, nil
	case BackendSQLite:
		if path == "" {
			return nil, noop, fmt.Errorf("sqlite store: empty path")
		}
		kv, err := OpenSQLite(filepath.Clean(path))
		if err != nil {
			return nil, noop, err
		}
		return New(kv, namespace), kv.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
