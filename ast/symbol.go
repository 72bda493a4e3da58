// Package ast holds the typed entity model a UVL document translates into:
// per-kind dense storage for every semantic entity, the parent/children
// relation, the (scope, name, kind) index, and the read-only Document facade
// downstream consumers query. Entities are created once per document version
// and never mutated after publication.
package ast

import "fmt"

// SymbolKind discriminates the entity a Symbol points at.
type SymbolKind uint8

const (
	KindNone SymbolKind = iota
	KindFeature
	KindConstraint
	KindAttribute
	KindReference
	KindGroup
	KindImport
	KindLangLevel
	KindDir
	KindRoot
)

// String returns the lower-case kind name.
func (k SymbolKind) String() string {
	switch k {
	case KindFeature:
		return "feature"
	case KindConstraint:
		return "constraint"
	case KindAttribute:
		return "attribute"
	case KindReference:
		return "reference"
	case KindGroup:
		return "group"
	case KindImport:
		return "import"
	case KindLangLevel:
		return "language-level"
	case KindDir:
		return "directory"
	case KindRoot:
		return "root"
	default:
		return "none"
	}
}

// Symbol is a tagged handle identifying one entity within a document. Index
// is always a valid position in the matching per-kind slice. Symbols are
// comparable and usable as map keys; the zero value means "no symbol".
type Symbol struct {
	Kind  SymbolKind
	Index int
}

// Root is the singleton document root symbol.
var Root = Symbol{Kind: KindRoot}

// IsNone reports whether s is the zero "no symbol" value.
func (s Symbol) IsNone() bool {
	return s.Kind == KindNone
}

// NewSymbol returns the handle for index i of kind k.
func NewSymbol(k SymbolKind, i int) Symbol {
	return Symbol{Kind: k, Index: i}
}

// String formats the symbol for debugging.
func (s Symbol) String() string {
	if s.Kind == KindRoot {
		return "root"
	}
	return fmt.Sprintf("%s(%d)", s.Kind, s.Index)
}
