package ast

import (
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/uvl-tools/uvlsem/diag"
	"github.com/uvl-tools/uvlsem/text"
)

// DocumentID is a stable per-document identifier derived from the URI.
type DocumentID string

// Document combines a translated model with its metadata and is the only
// externally visible read API. A published Document is immutable and safe to
// share across concurrent readers; a reparse yields a new Document.
type Document struct {
	model     *Model
	source    *text.Source
	uri       string
	id        DocumentID
	timestamp time.Time
	diags     []diag.Diagnostic
	path      []string
}

// NewDocument wraps a fully populated model. The document path is every
// component of the URI path including the file stem (extension stripped),
// with the declared namespace merged over its tail.
func NewDocument(model *Model, source *text.Source, uri string, timestamp time.Time, diags []diag.Diagnostic) *Document {
	p := uriToPath(uri)
	if ns := model.Namespace(); ns != nil {
		keep := len(p) - len(ns.Names)
		if keep < 0 {
			keep = 0
		}
		p = append(p[:keep:keep], ns.Names...)
	}
	return &Document{
		model:     model,
		source:    source,
		uri:       uri,
		id:        DocumentID(uri),
		timestamp: timestamp,
		diags:     diags,
		path:      p,
	}
}

// uriToPath splits a file URI into path components with the file extension
// removed. Non-file URIs fall back to their raw path component.
func uriToPath(uri string) []string {
	p := uri
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		p = u.Path
	}
	p = strings.TrimSuffix(p, path.Ext(p))
	var out []string
	for _, c := range strings.Split(p, "/") {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// URI returns the document URI.
func (d *Document) URI() string { return d.uri }

// ID returns the stable document identifier.
func (d *Document) ID() DocumentID { return d.id }

// Timestamp returns the version timestamp the document was translated for.
func (d *Document) Timestamp() time.Time { return d.timestamp }

// Path returns the namespace-qualified document path.
func (d *Document) Path() []string { return d.path }

// Source returns the source text the document was translated from.
func (d *Document) Source() *text.Source { return d.source }

// Diagnostics returns every diagnostic from translation and resolution.
func (d *Document) Diagnostics() []diag.Diagnostic { return d.diags }

// Namespace returns the declared namespace path, or nil.
func (d *Document) Namespace() *Path { return d.model.Namespace() }

// Parent returns the parent of sym. With mergeRootFeatures, features report
// Root as their parent regardless of nesting, which flattens nested features
// for presentation.
func (d *Document) Parent(sym Symbol, mergeRootFeatures bool) (Symbol, bool) {
	if mergeRootFeatures && sym.Kind == KindFeature {
		return Root, true
	}
	return d.model.Parent(sym)
}

// ScopeOf returns the nearest enclosing feature of sym, or Root. A feature
// is its own scope.
func (d *Document) ScopeOf(sym Symbol) Symbol {
	for {
		p, ok := d.Parent(sym, true)
		if !ok {
			return Root
		}
		if sym.Kind == KindFeature || sym.Kind == KindRoot {
			return sym
		}
		sym = p
	}
}

// Name returns the indexed name of sym, if it has one.
func (d *Document) Name(sym Symbol) (string, bool) {
	return d.model.Name(sym)
}

// AllLangLevels returns every language-level declaration symbol.
func (d *Document) AllLangLevels() []Symbol { return d.model.allLangLevels() }

// AllImports returns every import symbol in declaration order.
func (d *Document) AllImports() []Symbol { return d.model.allImports() }

// AllFeatures returns every feature symbol in declaration order.
func (d *Document) AllFeatures() []Symbol { return d.model.allFeatures() }

// AllAttributes returns every attribute symbol in declaration order.
func (d *Document) AllAttributes() []Symbol { return d.model.allAttributes() }

// AllReferences returns every reference symbol in declaration order.
func (d *Document) AllReferences() []Symbol { return d.model.allReferences() }

// AllConstraints returns every constraint symbol in declaration order.
func (d *Document) AllConstraints() []Symbol { return d.model.allConstraints() }

// LangLevel returns the language level declared by a lang-level symbol.
func (d *Document) LangLevel(sym Symbol) (LanguageLevel, bool) {
	if sym.Kind != KindLangLevel {
		return LanguageLevel{}, false
	}
	return d.model.includes[sym.Index].Level, true
}

// GroupOf returns the group entity behind a group symbol.
func (d *Document) GroupOf(sym Symbol) (Group, bool) {
	if sym.Kind != KindGroup {
		return Group{}, false
	}
	return d.model.groups[sym.Index], true
}

// FeatureOf returns the feature entity behind a feature symbol.
func (d *Document) FeatureOf(sym Symbol) (Feature, bool) {
	if sym.Kind != KindFeature {
		return Feature{}, false
	}
	return d.model.features[sym.Index], true
}

// AttributeOf returns the attribute entity behind an attribute symbol.
func (d *Document) AttributeOf(sym Symbol) (Attribute, bool) {
	if sym.Kind != KindAttribute {
		return Attribute{}, false
	}
	return d.model.attributes[sym.Index], true
}

// ConstraintOf returns the constraint declaration behind a constraint symbol.
func (d *Document) ConstraintOf(sym Symbol) (*ConstraintDecl, bool) {
	if sym.Kind != KindConstraint {
		return nil, false
	}
	return &d.model.constraints[sym.Index], true
}

// Constraints returns all constraint declarations in document order.
func (d *Document) Constraints() []ConstraintDecl { return d.model.constraints }

// Imports returns all import declarations in document order.
func (d *Document) Imports() []Import { return d.model.imports }

// ValueOf returns the value of an attribute symbol.
func (d *Document) ValueOf(sym Symbol) (Value, bool) {
	if sym.Kind != KindAttribute {
		return Value{}, false
	}
	return d.model.attributes[sym.Index].Value.Value, true
}

// DirectChildren returns the ordered children of sym.
func (d *Document) DirectChildren(sym Symbol) []Symbol {
	return d.model.Children(sym)
}

// SpanOf returns the defining byte span of sym.
func (d *Document) SpanOf(sym Symbol) (text.Span, bool) {
	return d.model.SpanOf(sym)
}

// RangeOf returns the defining span of sym as an LSP-style range.
func (d *Document) RangeOf(sym Symbol) (text.Range, bool) {
	span, ok := d.model.SpanOf(sym)
	if !ok {
		return text.Range{}, false
	}
	return d.source.Range(span), true
}

// PathOf returns the path segments of an import or reference symbol.
func (d *Document) PathOf(sym Symbol) []string {
	switch sym.Kind {
	case KindImport:
		return d.model.imports[sym.Index].Path.Names
	case KindReference:
		return d.model.references[sym.Index].Path.Names
	default:
		return nil
	}
}

// ReferencePath returns the full path (names and spans) of a reference.
func (d *Document) ReferencePath(sym Symbol) (Path, bool) {
	if sym.Kind != KindReference {
		return Path{}, false
	}
	return d.model.references[sym.Index].Path, true
}

// ImportPrefix returns the effective namespace prefix of an import.
func (d *Document) ImportPrefix(sym Symbol) []string {
	return d.model.ImportPrefix(sym)
}

// Depth returns the nesting depth of sym: 1 for features, the prefix length
// for imports, the stamped depth for attributes and directories, 0 otherwise.
func (d *Document) Depth(sym Symbol) int {
	switch sym.Kind {
	case KindFeature:
		return 1
	case KindImport:
		return len(d.model.imports[sym.Index].Path.Names)
	case KindDir:
		return d.model.dirs[sym.Index].Depth
	case KindAttribute:
		return d.model.attributes[sym.Index].Depth
	default:
		return 0
	}
}

// TypeOf returns the value type of sym. Root, imports and directories are
// namespaces.
func (d *Document) TypeOf(sym Symbol) (Type, bool) {
	switch sym.Kind {
	case KindRoot, KindImport, KindDir:
		return TypeNamespace, true
	case KindFeature:
		return d.model.features[sym.Index].Type, true
	case KindAttribute:
		return d.model.attributes[sym.Index].Value.Value.Type(), true
	default:
		return 0, false
	}
}

// Find returns the first import, feature, attribute or reference whose span
// contains offset.
func (d *Document) Find(offset uint) (Symbol, bool) {
	return d.model.find(offset)
}

// Lookup returns every symbol reached from root by consuming the path
// segments through the index. Each step fans out over all legal destination
// kinds; filter prunes search branches.
func (d *Document) Lookup(root Symbol, segments []string, filter func(Symbol) bool) []Symbol {
	type frame struct {
		sym  Symbol
		rest []string
	}
	var out []Symbol
	stack := []frame{{sym: root, rest: segments}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(top.rest) == 0 {
			out = append(out, top.sym)
			continue
		}
		d.model.lookupStep(top.sym, top.rest[0], func(dst Symbol) {
			if filter(dst) {
				stack = append(stack, frame{sym: dst, rest: top.rest[1:]})
			}
		})
	}
	return out
}

// ImportResolution is an import reached by LookupImport together with the
// path segments left unconsumed past the import boundary.
type ImportResolution struct {
	Sym    Symbol
	Suffix []string
}

// LookupImport resolves segments through directories and imports only. Every
// reached import is returned with its unconsumed suffix: an empty suffix
// means the path ended exactly at the import, a non-empty one means the path
// continues inside the imported document.
func (d *Document) LookupImport(segments []string) []ImportResolution {
	type frame struct {
		sym  Symbol
		rest []string
	}
	var out []ImportResolution
	stack := []frame{{sym: Root, rest: segments}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(top.rest) > 0 {
			d.model.lookupStep(top.sym, top.rest[0], func(dst Symbol) {
				if dst.Kind == KindDir || dst.Kind == KindImport {
					stack = append(stack, frame{sym: dst, rest: top.rest[1:]})
				}
			})
		}
		if top.sym.Kind == KindImport {
			out = append(out, ImportResolution{Sym: top.sym, Suffix: top.rest})
		}
	}
	return out
}

// LookupWithBinding is Lookup returning, for every match, the full chain of
// symbols visited while consuming the path.
func (d *Document) LookupWithBinding(root Symbol, segments []string, filter func(Symbol) bool) [][]Symbol {
	type frame struct {
		sym  Symbol
		rest []string
		bind []Symbol
	}
	var out [][]Symbol
	stack := []frame{{sym: root, rest: segments}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(top.rest) == 0 {
			out = append(out, top.bind)
			continue
		}
		d.model.lookupStep(top.sym, top.rest[0], func(dst Symbol) {
			if filter(dst) {
				bind := make([]Symbol, 0, len(top.bind)+1)
				bind = append(append(bind, top.bind...), dst)
				stack = append(stack, frame{sym: dst, rest: top.rest[1:], bind: bind})
			}
		})
	}
	return out
}

// Prefix reconstructs the dotted name of sym, outermost segment first,
// walking parents up to the nearest feature boundary or Root. Imports return
// their effective prefix.
func (d *Document) Prefix(sym Symbol) []string {
	if sym.Kind == KindImport {
		return d.model.ImportPrefix(sym)
	}
	var out []string
	for {
		if name, ok := d.model.Name(sym); ok {
			out = append(out, name)
		}
		p, ok := d.model.Parent(sym)
		if !ok || p.Kind == KindFeature {
			break
		}
		sym = p
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// VisitChildren walks every symbol below root depth-first, calling f until
// it returns false for a subtree. With mergeRootFeatures, nested features
// are skipped unless root is Root.
func (d *Document) VisitChildren(root Symbol, mergeRootFeatures bool, f func(Symbol) bool) {
	d.VisitChildrenDepth(root, mergeRootFeatures, func(sym Symbol, _ int) bool {
		return f(sym)
	})
}

// VisitChildrenDepth is VisitChildren with the traversal depth passed to f.
func (d *Document) VisitChildrenDepth(root Symbol, mergeRootFeatures bool, f func(Symbol, int) bool) {
	type frame struct {
		sym   Symbol
		depth int
	}
	stack := []frame{{sym: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		explore := true
		if top.sym != root {
			explore = f(top.sym, top.depth)
		}
		if !explore {
			continue
		}
		children := d.model.Children(top.sym)
		for i := len(children) - 1; i >= 0; i-- {
			c := children[i]
			if mergeRootFeatures && c.Kind == KindFeature && root.Kind != KindRoot {
				continue
			}
			stack = append(stack, frame{sym: c, depth: top.depth + 1})
		}
	}
}

// VisitNamedChildren walks the named symbols below root with their name
// prefix relative to root. f returning false prunes the subtree.
func (d *Document) VisitNamedChildren(root Symbol, mergeRootFeatures bool, f func(Symbol, []string) bool) {
	d.VisitNamedChildrenDepth(root, mergeRootFeatures, func(sym Symbol, prefix []string, _ int) bool {
		return f(sym, prefix)
	})
}

// VisitNamedChildrenDepth walks named symbols with prefix and naming depth.
// Features restart the prefix (feature names are global), attributes,
// directories and imports extend it; unnamed symbols pass through without
// affecting it. With mergeRootFeatures, only attributes are followed unless
// root is Root.
func (d *Document) VisitNamedChildrenDepth(root Symbol, mergeRootFeatures bool, f func(Symbol, []string, int) bool) {
	type frame struct {
		sym   Symbol
		depth int
	}
	stack := []frame{{sym: root}}
	var prefix []string
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n := top.depth - 1; n < 0 {
			prefix = prefix[:0]
		} else if n < len(prefix) {
			prefix = prefix[:n]
		}
		explore := true
		if name, ok := d.model.Name(top.sym); ok && top.sym != root {
			prefix = append(prefix, name)
			explore = f(top.sym, prefix, top.depth)
		}
		if !explore {
			continue
		}
		children := d.model.Children(top.sym)
		for i := len(children) - 1; i >= 0; i-- {
			c := children[i]
			if mergeRootFeatures && c.Kind != KindAttribute && root.Kind != KindRoot {
				continue
			}
			switch c.Kind {
			case KindFeature:
				stack = append(stack, frame{sym: c, depth: 1})
			case KindAttribute, KindDir, KindImport:
				stack = append(stack, frame{sym: c, depth: top.depth + 1})
			default:
				stack = append(stack, frame{sym: c, depth: top.depth})
			}
		}
	}
}

// VisitAttributes calls f for every attribute below root with its owning
// feature and its name prefix relative to that feature. Root must be Root or
// a feature.
func (d *Document) VisitAttributes(root Symbol, f func(owner, attr Symbol, prefix []string)) {
	owner := root
	underFeature := 0
	d.VisitNamedChildren(root, false, func(sym Symbol, prefix []string) bool {
		switch sym.Kind {
		case KindFeature:
			owner = sym
			underFeature = 1
			return true
		case KindAttribute:
			f(owner, sym, prefix[underFeature:])
			return true
		default:
			return false
		}
	})
}
