package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uvl-tools/uvlsem/ast"
	"github.com/uvl-tools/uvlsem/diag"
	"github.com/uvl-tools/uvlsem/text"
)

// carModel builds:
//
//	Root
//	├── feature Car
//	│   ├── attribute weight = 2.5
//	│   └── group alternative
//	│       ├── feature Manual
//	│       └── feature Auto : Real [1..2]
//	├── import lib.base
//	├── import c.d as m
//	└── constraint Manual => !Auto
func carModel() *ast.Model {
	m := ast.NewModel()
	m.SetNamespace(ast.Path{Names: []string{"ns"}})
	m.AddInclude(ast.LangLevelDecl{Level: ast.LanguageLevel{
		Major:  ast.LevelSMT,
		Minors: []ast.LevelMinor{ast.MinorAggregate},
	}})

	car := m.AddFeature(ast.Feature{Name: ast.Ident{Name: "Car"}, Type: ast.TypeBool})
	m.Link(ast.Root, car)

	weight := m.AddAttribute(ast.Attribute{
		Name:  ast.Ident{Name: "weight"},
		Value: ast.ValueDecl{Value: ast.Value{Kind: ast.ValueNumber, Number: 2.5}},
	})
	m.Link(car, weight)

	g := m.AddGroup(ast.Group{Mode: ast.GroupAlternative})
	m.Link(car, g)

	manual := m.AddFeature(ast.Feature{Name: ast.Ident{Name: "Manual"}, Type: ast.TypeBool})
	m.Link(g, manual)

	auto := m.AddFeature(ast.Feature{
		Name:        ast.Ident{Name: "Auto"},
		Type:        ast.TypeReal,
		Cardinality: &ast.Cardinality{Kind: ast.CardRange, Min: 1, Max: 2},
	})
	m.Link(g, auto)

	m.AddImport(ast.Import{Path: ast.Path{Names: []string{"lib", "base"}}})
	alias := ast.Ident{Name: "m"}
	m.AddImport(ast.Import{Path: ast.Path{Names: []string{"c", "d"}}, Alias: &alias})

	lhs := m.AddReference(ast.Reference{Path: ast.Path{Names: []string{"Manual"}}})
	rhs := m.AddReference(ast.Reference{Path: ast.Path{Names: []string{"Auto"}}})
	c := m.AddConstraint(ast.ConstraintDecl{Content: ast.Logic{
		Op:  ast.OpImplies,
		Lhs: &ast.ConstraintDecl{Content: ast.ConstraintRef{Sym: lhs}},
		Rhs: &ast.ConstraintDecl{Content: ast.Not{
			Operand: &ast.ConstraintDecl{Content: ast.ConstraintRef{Sym: rhs}},
		}},
	}})
	m.Link(ast.Root, c)

	return m
}

func carDoc(t *testing.T, diags []diag.Diagnostic) *ast.Document {
	t.Helper()
	return ast.NewDocument(carModel(), text.NewSource(nil), "file:///models/car.uvl", time.Now(), diags)
}

// --- snapshot ---

func TestBuildSnapshot(t *testing.T) {
	doc := carDoc(t, []diag.Diagnostic{{
		Severity: diag.SeverityError,
		Weight:   30,
		Message:  "duplicate feature",
		Range:    text.Range{Start: text.Position{Line: 4, Character: 2}},
	}})

	snap := BuildSnapshot(doc)

	assert.Equal(t, "file:///models/car.uvl", snap.URI)
	assert.Equal(t, "ns", snap.Namespace)
	assert.Equal(t, []string{"SMT-level.aggregate-function"}, snap.Includes)

	require.Len(t, snap.Imports, 2)
	assert.Equal(t, ImportEntry{Path: "lib.base"}, snap.Imports[0])
	assert.Equal(t, ImportEntry{Path: "c.d", Alias: "m"}, snap.Imports[1])

	require.Len(t, snap.Features, 1)
	car := snap.Features[0]
	assert.Equal(t, "Car", car.Name)
	assert.Equal(t, "Boolean", car.Type)
	require.Len(t, car.Attributes, 1)
	assert.Equal(t, "weight", car.Attributes[0].Name)
	assert.Equal(t, 2.5, car.Attributes[0].Value)
	require.Len(t, car.Groups, 1)
	assert.Equal(t, "alternative", car.Groups[0].Mode)
	require.Len(t, car.Groups[0].Features, 2)
	auto := car.Groups[0].Features[1]
	assert.Equal(t, "Auto", auto.Name)
	assert.Equal(t, "Real", auto.Type)
	assert.Equal(t, "[1..2]", auto.Cardinality)

	assert.Equal(t, []string{"Manual => !Auto"}, snap.Constraints)

	require.Len(t, snap.Diagnostics, 1)
	assert.Equal(t, "duplicate feature", snap.Diagnostics[0].Message)
	assert.Equal(t, uint32(30), snap.Diagnostics[0].Weight)
	assert.Equal(t, uint32(4), snap.Diagnostics[0].Line)
}

func TestSnapshotMarshals(t *testing.T) {
	snap := BuildSnapshot(carDoc(t, nil))

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"namespace":"ns"`)
	assert.Contains(t, string(data), `"cardinality":"[1..2]"`)
}

// --- constraint formatting ---

func TestFormatConstraintOperators(t *testing.T) {
	m := ast.NewModel()
	a := m.AddReference(ast.Reference{Path: ast.Path{Names: []string{"a"}}})
	b := m.AddReference(ast.Reference{Path: ast.Path{Names: []string{"x", "b"}}})
	doc := ast.NewDocument(m, text.NewSource(nil), "file:///models/f.uvl", time.Now(), nil)

	refA := &ast.ConstraintDecl{Content: ast.ConstraintRef{Sym: a}}
	refB := &ast.ConstraintDecl{Content: ast.ConstraintRef{Sym: b}}

	tests := []struct {
		name string
		c    ast.Constraint
		want string
	}{
		{"constant", ast.Constant(true), "true"},
		{"ref path", ast.ConstraintRef{Sym: b}, "x.b"},
		{"not", ast.Not{Operand: refA}, "!a"},
		{"nested logic", ast.Logic{
			Op:  ast.OpOr,
			Lhs: &ast.ConstraintDecl{Content: ast.Logic{Op: ast.OpAnd, Lhs: refA, Rhs: refB}},
			Rhs: refA,
		}, "(a & x.b) | a"},
		{"equation", ast.Equation{
			Op:  ast.OpEqual,
			Lhs: &ast.ExprDecl{Content: ast.Len{Arg: &ast.ExprDecl{Content: ast.String("ab")}}},
			Rhs: &ast.ExprDecl{Content: ast.Number(2)},
		}, `len("ab") == 2`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatConstraint(doc, &ast.ConstraintDecl{Content: tt.c})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatExprAggregate(t *testing.T) {
	m := ast.NewModel()
	ctx := m.AddReference(ast.Reference{Path: ast.Path{Names: []string{"F"}}})
	doc := ast.NewDocument(m, text.NewSource(nil), "file:///models/f.uvl", time.Now(), nil)

	implicit := &ast.ExprDecl{Content: ast.Aggregate{
		Op:    ast.OpSum,
		Query: ast.Path{Names: []string{"G", "attr"}},
	}}
	assert.Equal(t, "sum(G.attr)", FormatExpr(doc, implicit))

	explicit := &ast.ExprDecl{Content: ast.Aggregate{
		Op:      ast.OpAvg,
		Context: ctx,
		Query:   ast.Path{Names: []string{"attr"}},
	}}
	assert.Equal(t, "avg(F, attr)", FormatExpr(doc, explicit))

	sum := &ast.ExprDecl{Content: ast.Binary{
		Op:  ast.OpAdd,
		Lhs: &ast.ExprDecl{Content: ast.Number(1)},
		Rhs: &ast.ExprDecl{Content: ast.Number(0.5)},
	}}
	assert.Equal(t, "(1 + 0.5)", FormatExpr(doc, sum))
}

// --- mermaid ---

func TestMermaidDiagram(t *testing.T) {
	out := Mermaid(carDoc(t, nil))

	assert.Contains(t, out, "graph TD\n")
	assert.Contains(t, out, `["Car"]`)
	assert.Contains(t, out, `{{"alternative"}}`)
	assert.Contains(t, out, `["Auto : Real [1..2]"]`)
	assert.Contains(t, out, "subgraph imports\n")
	assert.Contains(t, out, `(["lib.base"])`)
	assert.Contains(t, out, `(["c.d as m"])`)

	// Car --> group, group --> Manual, group --> Auto.
	assert.Equal(t, 3, strings.Count(out, " --> "))
}
