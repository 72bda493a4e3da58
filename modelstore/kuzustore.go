//go:build cgo

package modelstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements the Store interface using KuzuDB as the graph
// backend. It requires CGO because the go-kuzu driver wraps KuzuDB's C
// library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(":memory:", cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given directory path. KuzuDB creates the leaf directory itself for new
// databases. This keeps symbol graphs across sessions.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(dbPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open file database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ddlStatements defines the Cypher DDL executed by InitSchema.
// The node table must precede the relationship tables.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Symbol(
		id STRING,
		uri STRING,
		name STRING,
		kind STRING,
		path STRING,
		line INT64,
		PRIMARY KEY(id)
	)`,
	`CREATE REL TABLE IF NOT EXISTS CHILD(FROM Symbol TO Symbol)`,
	`CREATE REL TABLE IF NOT EXISTS REFERS(FROM Symbol TO Symbol)`,
	`CREATE REL TABLE IF NOT EXISTS IMPORTS(FROM Symbol TO Symbol)`,
}

// InitSchema creates the node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// AddSymbol inserts a Symbol node.
func (s *KuzuStore) AddSymbol(_ context.Context, row SymbolRow) error {
	return s.exec(
		`CREATE (s:Symbol {
			id: $id,
			uri: $uri,
			name: $name,
			kind: $kind,
			path: $path,
			line: $line
		})`,
		map[string]any{
			"id":   row.ID,
			"uri":  row.URI,
			"name": row.Name,
			"kind": row.Kind,
			"path": row.Path,
			"line": int64(row.Line),
		},
	)
}

// AddEdge inserts a relationship edge between two symbol rows.
func (s *KuzuStore) AddEdge(_ context.Context, edge Edge) error {
	var cypher string
	switch edge.Kind {
	case EdgeKindChild:
		cypher = `MATCH (a:Symbol {id: $src}), (b:Symbol {id: $dst})
				CREATE (a)-[:CHILD]->(b)`
	case EdgeKindRefers:
		cypher = `MATCH (a:Symbol {id: $src}), (b:Symbol {id: $dst})
				CREATE (a)-[:REFERS]->(b)`
	case EdgeKindImports:
		cypher = `MATCH (a:Symbol {id: $src}), (b:Symbol {id: $dst})
				CREATE (a)-[:IMPORTS]->(b)`
	default:
		return fmt.Errorf("kuzu: unsupported edge kind: %s", edge.Kind)
	}
	return s.exec(cypher, map[string]any{
		"src": edge.SourceID,
		"dst": edge.TargetID,
	})
}

// SymbolsByKind returns all symbol rows of the given kind. An empty kind
// returns every row.
func (s *KuzuStore) SymbolsByKind(_ context.Context, kind string) ([]SymbolRow, error) {
	var rows [][]any
	var err error
	if kind == "" {
		rows, err = s.query(
			"MATCH (s:Symbol) RETURN s.id, s.uri, s.name, s.kind, s.path, s.line",
			nil,
		)
	} else {
		rows, err = s.query(
			`MATCH (s:Symbol {kind: $kind})
			 RETURN s.id, s.uri, s.name, s.kind, s.path, s.line`,
			map[string]any{"kind": kind},
		)
	}
	if err != nil {
		return nil, err
	}
	out := make([]SymbolRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, SymbolRow{
			ID:   toString(r[0]),
			URI:  toString(r[1]),
			Name: toString(r[2]),
			Kind: toString(r[3]),
			Path: toString(r[4]),
			Line: toInt(r[5]),
		})
	}
	return out, nil
}

// Stats returns counts of the symbol and edge tables.
func (s *KuzuStore) Stats(_ context.Context) (*StoreStats, error) {
	symbols, err := s.countTable("Symbol")
	if err != nil {
		return nil, err
	}
	edges := 0
	for _, t := range []string{"CHILD", "REFERS", "IMPORTS"} {
		n, err := s.countRel(t)
		if err != nil {
			return nil, err
		}
		edges += n
	}
	return &StoreStats{SymbolCount: symbols, EdgeCount: edges}, nil
}

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// countTable returns the number of rows in a node table.
func (s *KuzuStore) countTable(table string) (int, error) {
	// Table name is a fixed internal constant, not user input.
	cypher := fmt.Sprintf("MATCH (n:%s) RETURN count(n)", table)
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// countRel returns the number of edges in a relationship table.
func (s *KuzuStore) countRel(table string) (int, error) {
	cypher := fmt.Sprintf("MATCH ()-[r:%s]->() RETURN count(r)", table)
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// toString safely converts a Kuzu result value to string.
func toString(v any) string {
	s, _ := v.(string)
	return s
}

// toInt safely converts a Kuzu result value to int.
func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int32:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
