package modelstore

import (
	"context"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using Go maps. Thread-safe via sync.RWMutex.
type MemStore struct {
	mu      sync.RWMutex
	symbols map[string]SymbolRow
	edges   []Edge
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{symbols: make(map[string]SymbolRow)}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// AddSymbol stores a symbol row keyed by its ID. A row with a known ID
// replaces the previous one.
func (m *MemStore) AddSymbol(_ context.Context, row SymbolRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.symbols[row.ID] = row
	return nil
}

// AddEdge appends an edge to the internal slice.
func (m *MemStore) AddEdge(_ context.Context, edge Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges = append(m.edges, edge)
	return nil
}

// SymbolsByKind returns all symbol rows of the given kind. An empty kind
// returns every row.
func (m *MemStore) SymbolsByKind(_ context.Context, kind string) ([]SymbolRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []SymbolRow
	for _, row := range m.symbols {
		if kind == "" || row.Kind == kind {
			out = append(out, row)
		}
	}
	return out, nil
}

// Edges returns a copy of all stored edges.
func (m *MemStore) Edges(_ context.Context) ([]Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Edge, len(m.edges))
	copy(out, m.edges)
	return out, nil
}

// Stats returns counts of stored symbols and edges.
func (m *MemStore) Stats(_ context.Context) (*StoreStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &StoreStats{
		SymbolCount: len(m.symbols),
		EdgeCount:   len(m.edges),
	}, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}
