//go:build !cgo

package modelstore

import "errors"

// Open returns the store backend for the configured path. The KuzuDB
// backend wraps a C library, so a non-empty path requires a CGO build.
func Open(path string) (Store, error) {
	if path == "" {
		return NewMemStore(), nil
	}
	return nil, errors.New("persistent store requires a cgo build")
}
