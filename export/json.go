package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/uvl-tools/uvlsem/ast"
)

// Snapshot is the top-level JSON export of one translated document.
type Snapshot struct {
	URI         string            `json:"uri"`
	Namespace   string            `json:"namespace,omitempty"`
	ExportedAt  string            `json:"exportedAt"`
	Includes    []string          `json:"includes,omitempty"`
	Imports     []ImportEntry     `json:"imports,omitempty"`
	Features    []FeatureEntry    `json:"features,omitempty"`
	Constraints []string          `json:"constraints,omitempty"`
	Diagnostics []DiagnosticEntry `json:"diagnostics,omitempty"`
}

// ImportEntry is one import declaration.
type ImportEntry struct {
	Path  string `json:"path"`
	Alias string `json:"alias,omitempty"`
}

// FeatureEntry is one feature with its attributes and child groups.
type FeatureEntry struct {
	Name        string           `json:"name"`
	Type        string           `json:"type"`
	Cardinality string           `json:"cardinality,omitempty"`
	Attributes  []AttributeEntry `json:"attributes,omitempty"`
	Groups      []GroupEntry     `json:"groups,omitempty"`
}

// GroupEntry is one group with its member features.
type GroupEntry struct {
	Mode        string         `json:"mode"`
	Cardinality string         `json:"cardinality,omitempty"`
	Features    []FeatureEntry `json:"features,omitempty"`
}

// AttributeEntry is one attribute; Value is nil for void values and a nested
// entry list for attribute-valued attributes.
type AttributeEntry struct {
	Name       string           `json:"name"`
	Value      any              `json:"value,omitempty"`
	Attributes []AttributeEntry `json:"attributes,omitempty"`
}

// DiagnosticEntry is one translation diagnostic.
type DiagnosticEntry struct {
	Message string `json:"message"`
	Weight  uint32 `json:"weight"`
	Line    uint32 `json:"line"`
}

// BuildSnapshot walks doc into a Snapshot ready for json.Marshal.
func BuildSnapshot(doc *ast.Document) *Snapshot {
	snap := &Snapshot{
		URI:        doc.URI(),
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if ns := doc.Namespace(); ns != nil {
		snap.Namespace = ns.String()
	}

	for _, sym := range doc.AllLangLevels() {
		lvl, ok := doc.LangLevel(sym)
		if !ok {
			continue
		}
		if len(lvl.Minors) == 0 {
			snap.Includes = append(snap.Includes, lvl.Major.String())
			continue
		}
		for _, m := range lvl.Minors {
			snap.Includes = append(snap.Includes, lvl.Major.String()+"."+m.String())
		}
	}

	for _, im := range doc.Imports() {
		entry := ImportEntry{Path: im.Path.String()}
		if im.Alias != nil {
			entry.Alias = im.Alias.Name
		}
		snap.Imports = append(snap.Imports, entry)
	}

	for _, sym := range doc.DirectChildren(ast.Root) {
		if sym.Kind == ast.KindFeature {
			snap.Features = append(snap.Features, featureEntry(doc, sym))
		}
	}

	for i := range doc.Constraints() {
		snap.Constraints = append(snap.Constraints, FormatConstraint(doc, &doc.Constraints()[i]))
	}

	for _, d := range doc.Diagnostics() {
		snap.Diagnostics = append(snap.Diagnostics, DiagnosticEntry{
			Message: d.Message,
			Weight:  uint32(d.Weight),
			Line:    d.Range.Start.Line,
		})
	}

	return snap
}

func featureEntry(doc *ast.Document, sym ast.Symbol) FeatureEntry {
	f, _ := doc.FeatureOf(sym)
	entry := FeatureEntry{Name: f.Name.Name, Type: f.Type.String()}
	if f.Cardinality != nil {
		entry.Cardinality = f.Cardinality.String()
	}
	for _, c := range doc.DirectChildren(sym) {
		switch c.Kind {
		case ast.KindAttribute:
			entry.Attributes = append(entry.Attributes, attributeEntry(doc, c))
		case ast.KindGroup:
			entry.Groups = append(entry.Groups, groupEntry(doc, c))
		}
	}
	return entry
}

func groupEntry(doc *ast.Document, sym ast.Symbol) GroupEntry {
	g, _ := doc.GroupOf(sym)
	entry := GroupEntry{Mode: g.Mode.String()}
	if g.Mode == ast.GroupCardinality {
		entry.Cardinality = g.Card.String()
	}
	for _, c := range doc.DirectChildren(sym) {
		if c.Kind == ast.KindFeature {
			entry.Features = append(entry.Features, featureEntry(doc, c))
		}
	}
	return entry
}

func attributeEntry(doc *ast.Document, sym ast.Symbol) AttributeEntry {
	a, _ := doc.AttributeOf(sym)
	entry := AttributeEntry{Name: a.Name.Name}
	switch a.Value.Value.Kind {
	case ast.ValueNumber:
		entry.Value = a.Value.Value.Number
	case ast.ValueString, ast.ValueVector:
		entry.Value = a.Value.Value.Str
	case ast.ValueBool:
		entry.Value = a.Value.Value.Bool
	case ast.ValueAttributes:
		for _, c := range doc.DirectChildren(sym) {
			if c.Kind == ast.KindAttribute {
				entry.Attributes = append(entry.Attributes, attributeEntry(doc, c))
			}
		}
	}
	return entry
}

// FormatConstraint renders a constraint tree back into source notation.
// References print as the path written in the document, whether or not they
// resolve.
func FormatConstraint(doc *ast.Document, c *ast.ConstraintDecl) string {
	if c == nil || c.Content == nil {
		return ""
	}
	switch n := c.Content.(type) {
	case ast.Constant:
		return fmt.Sprintf("%t", bool(n))
	case ast.ConstraintRef:
		return refString(doc, n.Sym)
	case ast.Not:
		return "!" + parenthesize(doc, n.Operand)
	case ast.Logic:
		return parenthesize(doc, n.Lhs) + " " + logicToken(n.Op) + " " + parenthesize(doc, n.Rhs)
	case ast.Equation:
		return FormatExpr(doc, n.Lhs) + " " + equationToken(n.Op) + " " + FormatExpr(doc, n.Rhs)
	default:
		return ""
	}
}

// FormatExpr renders a numeric/string expression back into source notation.
func FormatExpr(doc *ast.Document, e *ast.ExprDecl) string {
	if e == nil || e.Content == nil {
		return ""
	}
	switch n := e.Content.(type) {
	case ast.Number:
		return strconv.FormatFloat(float64(n), 'g', -1, 64)
	case ast.String:
		return fmt.Sprintf("%q", string(n))
	case ast.ExprRef:
		return refString(doc, n.Sym)
	case ast.Binary:
		return "(" + FormatExpr(doc, n.Lhs) + " " + numericToken(n.Op) + " " + FormatExpr(doc, n.Rhs) + ")"
	case ast.Aggregate:
		op := "sum"
		if n.Op == ast.OpAvg {
			op = "avg"
		}
		if n.Context.IsNone() {
			return fmt.Sprintf("%s(%s)", op, n.Query.String())
		}
		return fmt.Sprintf("%s(%s, %s)", op, refString(doc, n.Context), n.Query.String())
	case ast.Len:
		return "len(" + FormatExpr(doc, n.Arg) + ")"
	default:
		return ""
	}
}

func parenthesize(doc *ast.Document, c *ast.ConstraintDecl) string {
	s := FormatConstraint(doc, c)
	if c != nil {
		if _, nested := c.Content.(ast.Logic); nested {
			return "(" + s + ")"
		}
	}
	return s
}

func refString(doc *ast.Document, sym ast.Symbol) string {
	if p, ok := doc.ReferencePath(sym); ok {
		return p.String()
	}
	return sym.String()
}

func logicToken(op ast.LogicOp) string {
	switch op {
	case ast.OpAnd:
		return "&"
	case ast.OpOr:
		return "|"
	case ast.OpImplies:
		return "=>"
	default:
		return "<=>"
	}
}

func equationToken(op ast.EquationOp) string {
	switch op {
	case ast.OpGreater:
		return ">"
	case ast.OpSmaller:
		return "<"
	default:
		return "=="
	}
}

func numericToken(op ast.NumericOp) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	default:
		return "/"
	}
}
