package ast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uvl-tools/uvlsem/text"
)

// --- model construction helpers ---

func ident(name string) Ident { return Ident{Name: name} }

func newDoc(t *testing.T, m *Model) *Document {
	t.Helper()
	return NewDocument(m, text.NewSource(nil), "file:///models/doc.uvl", time.Now(), nil)
}

// featureModel builds:
//
//	Root
//	├── feature x
//	│   ├── attribute a (depth 1)
//	│   │   └── attribute b (depth 2)
//	│   └── group or
//	│       └── feature y
//	└── feature z
func featureModel() (*Model, map[string]Symbol) {
	m := NewModel()
	syms := map[string]Symbol{}

	x := m.AddFeature(Feature{Name: ident("x"), Type: TypeBool})
	m.Link(Root, x)
	m.IndexInsert(Root, "x", KindFeature, x)

	a := m.AddAttribute(Attribute{Name: ident("a")})
	m.Link(x, a)
	m.IndexInsert(x, "a", KindAttribute, a)
	m.SetAttributeDepth(a.Index, 1)

	b := m.AddAttribute(Attribute{Name: ident("b")})
	m.Link(a, b)
	m.IndexInsert(a, "b", KindAttribute, b)
	m.SetAttributeDepth(b.Index, 2)

	g := m.AddGroup(Group{Mode: GroupOr})
	m.Link(x, g)

	y := m.AddFeature(Feature{Name: ident("y"), Type: TypeReal})
	m.Link(g, y)
	m.IndexInsert(Root, "y", KindFeature, y)

	z := m.AddFeature(Feature{Name: ident("z"), Type: TypeString})
	m.Link(Root, z)
	m.IndexInsert(Root, "z", KindFeature, z)

	syms["x"], syms["a"], syms["b"], syms["g"], syms["y"], syms["z"] = x, a, b, g, y, z
	return m, syms
}

// importModel builds Root -> dir a -> (import a.b, import a.c w/ alias m at root).
func importModel() (*Model, map[string]Symbol) {
	m := NewModel()
	syms := map[string]Symbol{}

	dir := m.AddDir(Dir{Name: "a", Depth: 1})
	m.Link(Root, dir)
	m.IndexInsert(Root, "a", KindDir, dir)

	ab := m.AddImport(Import{Path: Path{Names: []string{"a", "b"}}})
	m.Link(dir, ab)
	m.IndexInsert(dir, "b", KindImport, ab)

	alias := ident("m")
	cd := m.AddImport(Import{Path: Path{Names: []string{"c", "d"}}, Alias: &alias})
	m.Link(Root, cd)
	m.IndexInsert(Root, "m", KindImport, cd)

	syms["dir"], syms["ab"], syms["cd"] = dir, ab, cd
	return m, syms
}

// --- structure ---

func TestParentChainTerminatesAtRoot(t *testing.T) {
	m, syms := featureModel()
	doc := newDoc(t, m)

	sym := syms["b"]
	steps := 0
	for {
		p, ok := doc.Parent(sym, false)
		if !ok {
			break
		}
		sym = p
		steps++
		require.Less(t, steps, 10, "parent chain must terminate")
	}
	assert.Equal(t, Root, sym)
}

func TestParentMergeSkipsToRoot(t *testing.T) {
	m, syms := featureModel()
	doc := newDoc(t, m)

	p, ok := doc.Parent(syms["y"], true)
	require.True(t, ok)
	assert.Equal(t, Root, p)

	p, ok = doc.Parent(syms["y"], false)
	require.True(t, ok)
	assert.Equal(t, syms["g"], p)
}

func TestScopeOf(t *testing.T) {
	m, syms := featureModel()
	doc := newDoc(t, m)

	assert.Equal(t, syms["x"], doc.ScopeOf(syms["b"]))
	assert.Equal(t, syms["x"], doc.ScopeOf(syms["x"]))
	assert.Equal(t, syms["y"], doc.ScopeOf(syms["y"]))
}

// --- index ---

func TestIndexSingleEntryPerKey(t *testing.T) {
	m := NewModel()
	first := m.AddFeature(Feature{Name: ident("f")})
	second := m.AddFeature(Feature{Name: ident("f")})

	old, dup := m.IndexInsert(Root, "f", KindFeature, first)
	assert.False(t, dup)
	assert.True(t, old.IsNone())

	old, dup = m.IndexInsert(Root, "f", KindFeature, second)
	assert.True(t, dup)
	assert.Equal(t, first, old)

	live, ok := m.IndexGet(Root, "f", KindFeature)
	require.True(t, ok)
	assert.Equal(t, second, live, "the newest definition wins")
}

// --- lookup ---

func TestLookupKindLegality(t *testing.T) {
	m, syms := featureModel()
	doc := newDoc(t, m)
	all := func(Symbol) bool { return true }

	// Root resolves features; feature scopes resolve attributes.
	assert.Equal(t, []Symbol{syms["x"]}, doc.Lookup(Root, []string{"x"}, all))
	assert.Equal(t, []Symbol{syms["b"]}, doc.Lookup(Root, []string{"x", "a", "b"}, all))
	assert.Equal(t, []Symbol{syms["a"]}, doc.Lookup(syms["x"], []string{"a"}, all))

	// Attributes are not visible at Root directly.
	assert.Empty(t, doc.Lookup(Root, []string{"a"}, all))
	// Features are global, not children of other feature scopes.
	assert.Empty(t, doc.Lookup(syms["x"], []string{"y"}, all))
}

func TestLookupFilterPrunes(t *testing.T) {
	m, syms := featureModel()
	doc := newDoc(t, m)

	got := doc.Lookup(Root, []string{"x", "a"}, func(s Symbol) bool {
		return s.Kind != KindAttribute
	})
	assert.Empty(t, got)
	_ = syms
}

func TestLookupWithBinding(t *testing.T) {
	m, syms := featureModel()
	doc := newDoc(t, m)

	chains := doc.LookupWithBinding(Root, []string{"x", "a", "b"}, func(Symbol) bool { return true })
	require.Len(t, chains, 1)
	assert.Equal(t, []Symbol{syms["x"], syms["a"], syms["b"]}, chains[0])
}

func TestLookupImportResolutions(t *testing.T) {
	m, syms := importModel()
	doc := newDoc(t, m)

	exact := doc.LookupImport([]string{"a", "b"})
	require.Len(t, exact, 1)
	assert.Equal(t, syms["ab"], exact[0].Sym)
	assert.Empty(t, exact[0].Suffix)

	inside := doc.LookupImport([]string{"m", "sub", "leaf"})
	require.Len(t, inside, 1)
	assert.Equal(t, syms["cd"], inside[0].Sym)
	assert.Equal(t, []string{"sub", "leaf"}, inside[0].Suffix)

	assert.Empty(t, doc.LookupImport([]string{"a"}), "a directory is not an import")
}

// --- names and prefixes ---

func TestPrefixStopsAtFeatureBoundary(t *testing.T) {
	m, syms := featureModel()
	doc := newDoc(t, m)

	assert.Equal(t, []string{"a", "b"}, doc.Prefix(syms["b"]))
	assert.Equal(t, []string{"x"}, doc.Prefix(syms["x"]))
}

func TestPrefixOfImportIsEffectivePrefix(t *testing.T) {
	m, syms := importModel()
	doc := newDoc(t, m)

	assert.Equal(t, []string{"a", "b"}, doc.Prefix(syms["ab"]))
	assert.Equal(t, []string{"m"}, doc.Prefix(syms["cd"]))
}

func TestVisitNamedChildrenPrefixes(t *testing.T) {
	m, _ := featureModel()
	doc := newDoc(t, m)

	got := map[string]string{}
	doc.VisitNamedChildren(Root, false, func(sym Symbol, prefix []string) bool {
		name, _ := doc.Name(sym)
		key := ""
		for i, s := range prefix {
			if i > 0 {
				key += "."
			}
			key += s
		}
		got[key] = name
		return true
	})

	// Features restart the prefix; attributes extend their feature's.
	assert.Equal(t, map[string]string{
		"x":     "x",
		"x.a":   "a",
		"x.a.b": "b",
		"y":     "y",
		"z":     "z",
	}, got)
}

func TestVisitChildrenPrunes(t *testing.T) {
	m, syms := featureModel()
	doc := newDoc(t, m)

	var seen []Symbol
	doc.VisitChildren(Root, false, func(sym Symbol) bool {
		seen = append(seen, sym)
		return sym != syms["x"] // prune below x
	})
	assert.Contains(t, seen, syms["x"])
	assert.Contains(t, seen, syms["z"])
	assert.NotContains(t, seen, syms["a"])
	assert.NotContains(t, seen, syms["y"])
}

// --- metadata ---

func TestDepthAndTypeOf(t *testing.T) {
	m, syms := featureModel()
	doc := newDoc(t, m)

	assert.Equal(t, 1, doc.Depth(syms["x"]))
	assert.Equal(t, 1, doc.Depth(syms["a"]))
	assert.Equal(t, 2, doc.Depth(syms["b"]))

	ty, ok := doc.TypeOf(syms["y"])
	require.True(t, ok)
	assert.Equal(t, TypeReal, ty)

	ty, ok = doc.TypeOf(Root)
	require.True(t, ok)
	assert.Equal(t, TypeNamespace, ty)

	_, ok = doc.TypeOf(syms["g"])
	assert.False(t, ok)
}

func TestSpanOfImportCoversAlias(t *testing.T) {
	m := NewModel()
	alias := Ident{Name: "m", Span: text.NewSpan(10, 11)}
	im := m.AddImport(Import{
		Path: Path{
			Names: []string{"a", "b"},
			Spans: []text.Span{text.NewSpan(0, 1), text.NewSpan(2, 3)},
		},
		Alias: &alias,
	})
	span, ok := m.SpanOf(im)
	require.True(t, ok)
	assert.Equal(t, text.NewSpan(0, 11), span)
}

func TestDocumentPathFollowsNamespace(t *testing.T) {
	m := NewModel()
	m.SetNamespace(Path{Names: []string{"ns", "leaf"}})
	doc := NewDocument(m, text.NewSource(nil), "file:///org/x/y.uvl", time.Now(), nil)
	assert.Equal(t, []string{"org", "ns", "leaf"}, doc.Path())
}

func TestDocumentPathNamespaceLongerThanURI(t *testing.T) {
	m := NewModel()
	m.SetNamespace(Path{Names: []string{"a", "b", "c", "d"}})
	doc := NewDocument(m, text.NewSource(nil), "file:///y.uvl", time.Now(), nil)
	assert.Equal(t, []string{"a", "b", "c", "d"}, doc.Path())
}

func TestSetNamespaceFirstWins(t *testing.T) {
	m := NewModel()
	assert.True(t, m.SetNamespace(Path{Names: []string{"first"}}))
	assert.False(t, m.SetNamespace(Path{Names: []string{"second"}}))
	require.NotNil(t, m.Namespace())
	assert.Equal(t, "first", m.Namespace().String())
}

func TestValueTypes(t *testing.T) {
	tests := []struct {
		value Value
		want  Type
	}{
		{Value{Kind: ValueVoid}, TypeVoid},
		{Value{Kind: ValueNumber, Number: 1}, TypeReal},
		{Value{Kind: ValueString, Str: "s"}, TypeString},
		{Value{Kind: ValueBool, Bool: true}, TypeBool},
		{Value{Kind: ValueVector}, TypeVector},
		{Value{Kind: ValueAttributes}, TypeAttributes},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.value.Type())
	}
}
