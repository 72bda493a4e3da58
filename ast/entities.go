package ast

import (
	"fmt"

	"github.com/uvl-tools/uvlsem/text"
)

// Type is the value type of a feature or attribute.
type Type uint8

const (
	TypeBool Type = iota
	TypeReal
	TypeString
	TypeVoid
	TypeVector
	TypeAttributes
	TypeNamespace
)

func (t Type) String() string {
	switch t {
	case TypeBool:
		return "Boolean"
	case TypeReal:
		return "Real"
	case TypeString:
		return "String"
	case TypeVoid:
		return "Void"
	case TypeVector:
		return "Vector"
	case TypeAttributes:
		return "Attributes"
	case TypeNamespace:
		return "Namespace"
	default:
		return "Unknown"
	}
}

// CardinalityKind discriminates the forms a cardinality takes.
type CardinalityKind uint8

const (
	CardAny CardinalityKind = iota // [*] or unbounded
	CardFrom                       // [n..*]
	CardRange                      // [n..m]
	CardMax                        // [..m]
)

// Cardinality bounds how often a feature or group member may be selected.
// Min is meaningful for CardFrom/CardRange, Max for CardRange/CardMax.
type Cardinality struct {
	Kind CardinalityKind
	Min  int
	Max  int
}

// String renders the cardinality in source notation.
func (c Cardinality) String() string {
	switch c.Kind {
	case CardFrom:
		return fmt.Sprintf("[%d..*]", c.Min)
	case CardRange:
		return fmt.Sprintf("[%d..%d]", c.Min, c.Max)
	case CardMax:
		return fmt.Sprintf("[..%d]", c.Max)
	default:
		return "[*]"
	}
}

// GroupMode is the selection semantics of a group.
type GroupMode uint8

const (
	GroupOr GroupMode = iota
	GroupAlternative
	GroupOptional
	GroupMandatory
	GroupCardinality
)

func (m GroupMode) String() string {
	switch m {
	case GroupOr:
		return "or"
	case GroupAlternative:
		return "alternative"
	case GroupOptional:
		return "optional"
	case GroupMandatory:
		return "mandatory"
	case GroupCardinality:
		return "cardinality"
	default:
		return "unknown"
	}
}

// LevelMajor is a declared major language level.
type LevelMajor uint8

const (
	LevelSAT LevelMajor = iota
	LevelSMT
)

// LevelMinor qualifies a major language level.
type LevelMinor uint8

const (
	MinorAny LevelMinor = iota // "*"
	MinorGroupCardinality
	MinorFeatureCardinality
	MinorAggregate
)

// String returns the level keyword as written in source.
func (m LevelMajor) String() string {
	if m == LevelSMT {
		return "SMT-level"
	}
	return "SAT-level"
}

// String returns the minor qualifier as written in source.
func (m LevelMinor) String() string {
	switch m {
	case MinorGroupCardinality:
		return "group-cardinality"
	case MinorFeatureCardinality:
		return "feature-cardinality"
	case MinorAggregate:
		return "aggregate-function"
	default:
		return "*"
	}
}

// LanguageLevel is a major level with its declared minor qualifiers.
type LanguageLevel struct {
	Major  LevelMajor
	Minors []LevelMinor
}

// LangLevelDecl is one language-level declaration in the include section.
type LangLevelDecl struct {
	Level LanguageLevel
	Span  text.Span
}

// Feature is a declared feature: implicit Bool when untyped.
type Feature struct {
	Name        Ident
	Cardinality *Cardinality
	Type        Type
}

// Import brings another document into scope. The effective namespace prefix
// is the alias when present, the full path otherwise.
type Import struct {
	Path  Path
	Alias *Ident
}

// Group is a child grouping under a feature. Card is set for GroupCardinality.
type Group struct {
	Mode GroupMode
	Card Cardinality
	Span text.Span
}

// Reference is a path occurrence awaiting resolution. Every path inside an
// expression or constraint becomes its own Reference entity.
type Reference struct {
	Path Path
}

// Attribute is a name/value pair owned by a feature or a parent attribute.
// Depth is the nesting level from the owning feature, stamped during
// indexing.
type Attribute struct {
	Name  Ident
	Value ValueDecl
	Depth int
}

// Dir is a synthetic node for one shared segment of an import-namespace
// prefix; shared prefixes collapse onto one Dir per segment position.
type Dir struct {
	Name  string
	Depth int
}

// ValueKind discriminates attribute values.
type ValueKind uint8

const (
	ValueVoid ValueKind = iota
	ValueNumber
	ValueString
	ValueVector
	ValueBool
	ValueAttributes
)

// Value is an attribute value. Number/Str/Bool are meaningful only for the
// matching kind; vectors are kept unparsed.
type Value struct {
	Kind   ValueKind
	Number float64
	Str    string
	Bool   bool
}

// Type maps the value onto the type lattice used by queries.
func (v Value) Type() Type {
	switch v.Kind {
	case ValueNumber:
		return TypeReal
	case ValueString:
		return TypeString
	case ValueVector:
		return TypeVector
	case ValueBool:
		return TypeBool
	case ValueAttributes:
		return TypeAttributes
	default:
		return TypeVoid
	}
}

// ValueDecl is a value with the span of its declaration site.
type ValueDecl struct {
	Value Value
	Span  text.Span
}
