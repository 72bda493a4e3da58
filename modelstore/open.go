//go:build cgo

package modelstore

// Open returns the store backend for the configured path: a file-backed
// KuzuStore when path is non-empty, the in-memory store otherwise.
func Open(path string) (Store, error) {
	if path == "" {
		return NewMemStore(), nil
	}
	return NewKuzuFileStore(path)
}
