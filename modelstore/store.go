// Package modelstore persists the symbol graph of translated documents for
// offline analysis. Documents are exported as symbol rows plus structure,
// reference and import edges; backends are an in-memory store for tests and
// a KuzuDB store for durable graphs.
package modelstore

import (
	"context"
	"io"
)

// Store is the interface for the symbol graph backend.
// Implementations: KuzuStore (persistent), MemStore (testing).
type Store interface {
	io.Closer

	// Schema setup — called once before any data is inserted.
	InitSchema(ctx context.Context) error

	// Write operations.
	AddSymbol(ctx context.Context, row SymbolRow) error
	AddEdge(ctx context.Context, edge Edge) error

	// Read operations.
	SymbolsByKind(ctx context.Context, kind string) ([]SymbolRow, error)

	// Stats.
	Stats(ctx context.Context) (*StoreStats, error)
}

// SymbolRow is one exported document entity.
type SymbolRow struct {
	ID   string `json:"id"`   // "<uri>#<kind>(<index>)"
	URI  string `json:"uri"`  // owning document
	Name string `json:"name"` // declared name, empty for unnamed entities
	Kind string `json:"kind"`
	Path string `json:"path"` // dotted path from the document root
	Line int    `json:"line"` // zero-based start line
}

// EdgeKind classifies relationships between symbol rows.
type EdgeKind string

const (
	// EdgeKindChild links a parent entity to a direct child.
	EdgeKindChild EdgeKind = "CHILD"
	// EdgeKindRefers links a reference to the entity its path resolves to.
	EdgeKindRefers EdgeKind = "REFERS"
	// EdgeKindImports links a document root to one of its imports.
	EdgeKindImports EdgeKind = "IMPORTS"
)

// Edge is a relationship between two symbol rows.
type Edge struct {
	SourceID string   `json:"sourceId"`
	TargetID string   `json:"targetId"`
	Kind     EdgeKind `json:"kind"`
}

// StoreStats summarizes a stored symbol graph.
type StoreStats struct {
	SymbolCount int `json:"symbolCount"`
	EdgeCount   int `json:"edgeCount"`
}
