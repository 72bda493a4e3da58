// Package export renders a translated document into interchange formats: a
// Mermaid feature diagram and a JSON snapshot. Both read the Document facade
// only and never touch the mutable model.
package export

import (
	"fmt"
	"strings"

	"github.com/uvl-tools/uvlsem/ast"
)

// Mermaid produces a "graph TD" diagram of the document's feature tree.
// Features are boxes, groups are hexagons, imports sit in their own
// subgraph. Attributes and constraints are omitted to keep diagrams
// readable on real models.
func Mermaid(doc *ast.Document) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	nodeIDs := make(map[ast.Symbol]string)
	nextID := 0
	getID := func(sym ast.Symbol) string {
		if id, ok := nodeIDs[sym]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[sym] = id
		return id
	}

	var emit func(parent, sym ast.Symbol)
	emit = func(parent, sym ast.Symbol) {
		switch sym.Kind {
		case ast.KindFeature:
			sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", getID(sym), featureLabel(doc, sym)))
		case ast.KindGroup:
			sb.WriteString(fmt.Sprintf("  %s{{\"%s\"}}\n", getID(sym), groupLabel(doc, sym)))
		default:
			return
		}
		if parent.Kind != ast.KindRoot {
			sb.WriteString(fmt.Sprintf("  %s --> %s\n", getID(parent), getID(sym)))
		}
		for _, c := range doc.DirectChildren(sym) {
			emit(sym, c)
		}
	}
	for _, c := range doc.DirectChildren(ast.Root) {
		emit(ast.Root, c)
	}

	imports := doc.AllImports()
	if len(imports) > 0 {
		sb.WriteString("  subgraph imports\n")
		for _, im := range imports {
			label := strings.Join(doc.ImportPrefix(im), ".")
			if path := doc.PathOf(im); strings.Join(path, ".") != label {
				label = strings.Join(path, ".") + " as " + label
			}
			sb.WriteString(fmt.Sprintf("    %s([\"%s\"])\n", getID(im), label))
		}
		sb.WriteString("  end\n")
	}

	return sb.String()
}

func featureLabel(doc *ast.Document, sym ast.Symbol) string {
	f, ok := doc.FeatureOf(sym)
	if !ok {
		return sym.String()
	}
	label := f.Name.Name
	if f.Type != ast.TypeBool {
		label += " : " + f.Type.String()
	}
	if f.Cardinality != nil {
		label += " " + f.Cardinality.String()
	}
	return label
}

func groupLabel(doc *ast.Document, sym ast.Symbol) string {
	g, ok := doc.GroupOf(sym)
	if !ok {
		return sym.String()
	}
	if g.Mode == ast.GroupCardinality {
		return g.Card.String()
	}
	return g.Mode.String()
}
