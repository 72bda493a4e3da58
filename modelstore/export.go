package modelstore

import (
	"context"
	"strings"

	"github.com/uvl-tools/uvlsem/ast"
)

// Export writes the symbol graph of doc into store: one row per entity
// reachable from the document root, CHILD edges along the structure
// relation, IMPORTS edges from the root to each import and REFERS edges
// from every resolvable reference to its target.
func Export(ctx context.Context, store Store, doc *ast.Document) error {
	if err := store.AddSymbol(ctx, rowFor(doc, ast.Root)); err != nil {
		return err
	}
	var exportErr error
	doc.VisitChildren(ast.Root, false, func(sym ast.Symbol) bool {
		if exportErr != nil {
			return false
		}
		if exportErr = store.AddSymbol(ctx, rowFor(doc, sym)); exportErr != nil {
			return false
		}
		if parent, ok := doc.Parent(sym, false); ok {
			exportErr = store.AddEdge(ctx, Edge{
				SourceID: symbolID(doc, parent),
				TargetID: symbolID(doc, sym),
				Kind:     EdgeKindChild,
			})
		}
		return exportErr == nil
	})
	if exportErr != nil {
		return exportErr
	}

	for _, im := range doc.AllImports() {
		err := store.AddEdge(ctx, Edge{
			SourceID: symbolID(doc, ast.Root),
			TargetID: symbolID(doc, im),
			Kind:     EdgeKindImports,
		})
		if err != nil {
			return err
		}
	}

	for _, ref := range doc.AllReferences() {
		path, ok := doc.ReferencePath(ref)
		if !ok {
			continue
		}
		if _, attached := doc.Parent(ref, false); !attached {
			// Constraint and expression references live outside the
			// structure relation and were not visited above.
			if err := store.AddSymbol(ctx, rowFor(doc, ref)); err != nil {
				return err
			}
		}
		targets := doc.Lookup(ast.Root, path.Names, func(ast.Symbol) bool { return true })
		if len(targets) == 0 {
			continue
		}
		err := store.AddEdge(ctx, Edge{
			SourceID: symbolID(doc, ref),
			TargetID: symbolID(doc, targets[0]),
			Kind:     EdgeKindRefers,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// symbolID builds the store-wide unique ID of a document entity.
func symbolID(doc *ast.Document, sym ast.Symbol) string {
	return doc.URI() + "#" + sym.String()
}

// symbolPath reconstructs the dotted name path of sym. Attributes are
// prefixed with their owning feature so paths are unique within a document.
func symbolPath(doc *ast.Document, sym ast.Symbol) []string {
	switch sym.Kind {
	case ast.KindImport, ast.KindReference:
		return doc.PathOf(sym)
	case ast.KindAttribute:
		owner := doc.ScopeOf(sym)
		if name, ok := doc.Name(owner); ok {
			return append([]string{name}, doc.Prefix(sym)...)
		}
		return doc.Prefix(sym)
	default:
		return doc.Prefix(sym)
	}
}

// rowFor flattens one entity into its exported row.
func rowFor(doc *ast.Document, sym ast.Symbol) SymbolRow {
	row := SymbolRow{
		ID:   symbolID(doc, sym),
		URI:  doc.URI(),
		Kind: sym.Kind.String(),
		Path: strings.Join(symbolPath(doc, sym), "."),
	}
	if name, ok := doc.Name(sym); ok {
		row.Name = name
	} else if p, ok := doc.ReferencePath(sym); ok {
		row.Name = p.String()
	}
	if rng, ok := doc.RangeOf(sym); ok {
		row.Line = int(rng.Start.Line)
	}
	return row
}
