package ast

import "github.com/uvl-tools/uvlsem/text"

// indexKey addresses one entry of the (scope, name, kind) index.
type indexKey struct {
	scope Symbol
	name  string
	kind  SymbolKind
}

// Model is the per-document entity store: one dense slice per symbol kind,
// the ordered parent/children relation, and the name index. A Model is
// populated once by translation and is immutable after the Document wrapping
// it is published.
type Model struct {
	namespace   *Path
	includes    []LangLevelDecl
	imports     []Import
	features    []Feature
	constraints []ConstraintDecl
	attributes  []Attribute
	references  []Reference
	groups      []Group
	dirs        []Dir

	children map[Symbol][]Symbol
	parent   map[Symbol]Symbol
	index    map[indexKey]Symbol
}

// NewModel returns an empty model ready for population.
func NewModel() *Model {
	return &Model{
		children: make(map[Symbol][]Symbol),
		parent:   make(map[Symbol]Symbol),
		index:    make(map[indexKey]Symbol),
	}
}

// SetNamespace records the declared namespace. The first valid declaration
// wins; SetNamespace reports false when one was already present.
func (m *Model) SetNamespace(p Path) bool {
	if m.namespace != nil {
		return false
	}
	m.namespace = &p
	return true
}

// Namespace returns the declared namespace, or nil.
func (m *Model) Namespace() *Path {
	return m.namespace
}

// AddInclude appends a language-level declaration.
func (m *Model) AddInclude(d LangLevelDecl) Symbol {
	m.includes = append(m.includes, d)
	return NewSymbol(KindLangLevel, len(m.includes)-1)
}

// AddImport appends an import declaration.
func (m *Model) AddImport(im Import) Symbol {
	m.imports = append(m.imports, im)
	return NewSymbol(KindImport, len(m.imports)-1)
}

// AddFeature appends a feature.
func (m *Model) AddFeature(f Feature) Symbol {
	m.features = append(m.features, f)
	return NewSymbol(KindFeature, len(m.features)-1)
}

// AddConstraint appends a constraint declaration.
func (m *Model) AddConstraint(c ConstraintDecl) Symbol {
	m.constraints = append(m.constraints, c)
	return NewSymbol(KindConstraint, len(m.constraints)-1)
}

// AddAttribute appends an attribute.
func (m *Model) AddAttribute(a Attribute) Symbol {
	m.attributes = append(m.attributes, a)
	return NewSymbol(KindAttribute, len(m.attributes)-1)
}

// AddReference appends a reference.
func (m *Model) AddReference(r Reference) Symbol {
	m.references = append(m.references, r)
	return NewSymbol(KindReference, len(m.references)-1)
}

// AddGroup appends a group.
func (m *Model) AddGroup(g Group) Symbol {
	m.groups = append(m.groups, g)
	return NewSymbol(KindGroup, len(m.groups)-1)
}

// AddDir appends a synthetic import directory node.
func (m *Model) AddDir(d Dir) Symbol {
	m.dirs = append(m.dirs, d)
	return NewSymbol(KindDir, len(m.dirs)-1)
}

// Link records child under parent, in insertion order. Every non-Root symbol
// has exactly one parent, fixed here at insertion time.
func (m *Model) Link(parent, child Symbol) {
	m.children[parent] = append(m.children[parent], child)
	m.parent[child] = parent
}

// Children returns the ordered children of sym.
func (m *Model) Children(sym Symbol) []Symbol {
	return m.children[sym]
}

// Parent returns the parent of sym, if any.
func (m *Model) Parent(sym Symbol) (Symbol, bool) {
	p, ok := m.parent[sym]
	return p, ok
}

// IndexInsert registers sym under (scope, name, kind). When the key was
// already taken the new symbol replaces the old one and the evicted symbol
// is returned with dup == true, so the caller can report both definitions.
func (m *Model) IndexInsert(scope Symbol, name string, kind SymbolKind, sym Symbol) (old Symbol, dup bool) {
	k := indexKey{scope: scope, name: name, kind: kind}
	old, dup = m.index[k]
	m.index[k] = sym
	return old, dup
}

// IndexGet returns the symbol registered under (scope, name, kind).
func (m *Model) IndexGet(scope Symbol, name string, kind SymbolKind) (Symbol, bool) {
	sym, ok := m.index[indexKey{scope: scope, name: name, kind: kind}]
	return sym, ok
}

// SetAttributeDepth stamps the nesting depth of an attribute. Called during
// indexing only.
func (m *Model) SetAttributeDepth(i, depth int) {
	m.attributes[i].Depth = depth
}

// ImportPrefix returns the effective namespace prefix of an import symbol:
// its alias when present, the full path otherwise.
func (m *Model) ImportPrefix(sym Symbol) []string {
	if sym.Kind != KindImport {
		return nil
	}
	im := m.imports[sym.Index]
	if im.Alias != nil {
		return []string{im.Alias.Name}
	}
	return im.Path.Names
}

// Name returns the name a symbol is indexed under. Only features,
// attributes, imports and directories are named.
func (m *Model) Name(sym Symbol) (string, bool) {
	switch sym.Kind {
	case KindFeature:
		return m.features[sym.Index].Name.Name, true
	case KindAttribute:
		return m.attributes[sym.Index].Name.Name, true
	case KindImport:
		im := m.imports[sym.Index]
		if im.Alias != nil {
			return im.Alias.Name, true
		}
		if n := len(im.Path.Names); n > 0 {
			return im.Path.Names[n-1], true
		}
		return "", false
	case KindDir:
		return m.dirs[sym.Index].Name, true
	default:
		return "", false
	}
}

// SpanOf returns the defining source span of a symbol.
func (m *Model) SpanOf(sym Symbol) (text.Span, bool) {
	switch sym.Kind {
	case KindFeature:
		return m.features[sym.Index].Name.Span, true
	case KindAttribute:
		return m.attributes[sym.Index].Name.Span, true
	case KindImport:
		im := m.imports[sym.Index]
		if im.Alias != nil {
			return text.NewSpan(im.Path.Range().Start, im.Alias.Span.End), true
		}
		return im.Path.Range(), true
	case KindReference:
		return m.references[sym.Index].Path.Range(), true
	case KindGroup:
		return m.groups[sym.Index].Span, true
	case KindConstraint:
		return m.constraints[sym.Index].Span, true
	case KindLangLevel:
		return m.includes[sym.Index].Span, true
	default:
		return text.Span{}, false
	}
}

// allOf returns the handles of every entity of one kind, in storage order.
func allOf(kind SymbolKind, n int) []Symbol {
	out := make([]Symbol, n)
	for i := range out {
		out[i] = NewSymbol(kind, i)
	}
	return out
}

func (m *Model) allImports() []Symbol     { return allOf(KindImport, len(m.imports)) }
func (m *Model) allFeatures() []Symbol    { return allOf(KindFeature, len(m.features)) }
func (m *Model) allAttributes() []Symbol  { return allOf(KindAttribute, len(m.attributes)) }
func (m *Model) allReferences() []Symbol  { return allOf(KindReference, len(m.references)) }
func (m *Model) allConstraints() []Symbol { return allOf(KindConstraint, len(m.constraints)) }
func (m *Model) allLangLevels() []Symbol  { return allOf(KindLangLevel, len(m.includes)) }

// AllImports returns every import symbol in declaration order.
func (m *Model) AllImports() []Symbol {
	return m.allImports()
}

// lookupStep calls f for every destination of one path segment under sym.
// Only certain kinds are legal per origin: Root fans out to imports,
// directories and features; features and attributes contain attributes;
// directories contain imports and further directories.
func (m *Model) lookupStep(sym Symbol, name string, f func(Symbol)) {
	switch sym.Kind {
	case KindRoot:
		if dst, ok := m.IndexGet(sym, name, KindImport); ok {
			f(dst)
		}
		if dst, ok := m.IndexGet(sym, name, KindDir); ok {
			f(dst)
		}
		if dst, ok := m.IndexGet(sym, name, KindFeature); ok {
			f(dst)
		}
	case KindFeature, KindAttribute:
		if dst, ok := m.IndexGet(sym, name, KindAttribute); ok {
			f(dst)
		}
	case KindDir:
		if dst, ok := m.IndexGet(sym, name, KindImport); ok {
			f(dst)
		}
		if dst, ok := m.IndexGet(sym, name, KindDir); ok {
			f(dst)
		}
	}
}

// find returns the first import, feature, attribute or reference whose span
// contains offset. Linear, which is fine for per-file symbol counts.
func (m *Model) find(offset uint) (Symbol, bool) {
	for _, group := range [][]Symbol{
		m.allImports(), m.allFeatures(), m.allAttributes(), m.allReferences(),
	} {
		for _, sym := range group {
			if span, ok := m.SpanOf(sym); ok && span.Contains(offset) {
				return sym, true
			}
		}
	}
	return Symbol{}, false
}
