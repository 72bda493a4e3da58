// Package builder translates a concrete syntax tree into an ast.Document:
// one recursive-descent pass over the guarded walker populates the entity
// store and collects diagnostics, a post-pass resolves the import hierarchy
// and the name index. Translation never fails; malformed constructs are
// skipped, defaulted or kept with reduced fidelity so the rest of the
// document still translates.
package builder

import (
	"fmt"
	"time"

	"github.com/uvl-tools/uvlsem/ast"
	"github.com/uvl-tools/uvlsem/diag"
	"github.com/uvl-tools/uvlsem/syntax"
	"github.com/uvl-tools/uvlsem/text"
)

// missingName substitutes for names the parser marked as missing.
const missingName = "__MISSING__"

// state carries the walker, the model under construction and the diagnostic
// sink through the translation pass.
type state struct {
	w     *syntax.Walker
	model *ast.Model
	diags *diag.List
}

// Translate converts tree (with the source text it derives from) into a
// Document for the given URI and version timestamp. The returned document is
// complete even for empty or maximally malformed input.
func Translate(tree syntax.Tree, source []byte, uri string, timestamp time.Time) *ast.Document {
	src := text.NewSource(source)
	diags := &diag.List{}
	cur := tree.Walk()
	defer cur.Close()

	st := &state{
		w:     syntax.NewWalker(cur, src, diags),
		model: ast.NewModel(),
		diags: diags,
	}
	if st.w.GotoFirstChild() {
		st.visitTopLevel()
		st.w.GotoParent()
	}
	st.resolve()
	return ast.NewDocument(st.model, src, uri, timestamp, diags.Items())
}

// visitChildren descends into the current node's children, runs f and
// restores the cursor to the parent. Returns the zero value when the node
// has no semantic children. Recursion depth is bounded by Go's on-demand
// goroutine stack growth, so deep nesting degrades into allocation.
func visitChildren[T any](st *state, f func(*state) T) T {
	var zero T
	if !st.w.GotoFirstChild() {
		return zero
	}
	out := f(st)
	st.w.GotoParent()
	return out
}

// childScope is visitChildren for visitors without a result.
func childScope(st *state, f func(*state)) {
	if !st.w.GotoFirstChild() {
		return
	}
	f(st)
	st.w.GotoParent()
}

// childScopeArg is childScope with the parent symbol threaded through.
func childScopeArg(st *state, arg ast.Symbol, f func(*state, ast.Symbol)) {
	if !st.w.GotoFirstChild() {
		return
	}
	f(st, arg)
	st.w.GotoParent()
}

// header returns the current block's header node, or nil.
func (st *state) header() syntax.Node {
	return st.w.ChildByField("header")
}

// errorBlk raises a diagnostic at the current block's header, falling back
// to the block itself when the header is absent.
func (st *state) errorBlk(weight int, msg string) {
	if h := st.header(); h != nil {
		st.w.ErrorNode(h, weight, msg)
		return
	}
	st.w.Error(weight, msg)
}

// errorAt raises a diagnostic at a symbol's defining span.
func (st *state) errorAt(sym ast.Symbol, weight int, msg string) {
	if span, ok := st.model.SpanOf(sym); ok {
		st.diags.Error(st.w.Source().Range(span), weight, msg)
	}
}

func (st *state) addConstraint(c ast.ConstraintDecl, scope ast.Symbol) ast.Symbol {
	sym := st.model.AddConstraint(c)
	st.model.Link(scope, sym)
	return sym
}

func (st *state) addRef(p ast.Path, scope ast.Symbol) ast.Symbol {
	sym := st.model.AddReference(ast.Reference{Path: p})
	st.model.Link(scope, sym)
	return sym
}

// addRefDirect records a reference without attaching it to the symbol tree;
// constraint and expression references live outside the structure relation.
func (st *state) addRefDirect(p ast.Path) ast.Symbol {
	return st.model.AddReference(ast.Reference{Path: p})
}

// checkSimpleBlk diagnoses block fields that declarations of the given kind
// never admit.
func (st *state) checkSimpleBlk(kind string) {
	switch st.w.FieldName() {
	case "cardinality":
		st.w.Error(30, kind+" may not have a cardinality")
	case "attribs":
		st.w.Error(30, kind+" may not have any attributes")
	case "child":
		st.w.Error(30, kind+" may not have any children")
	}
}

// checkNoExtraBlk diagnoses cardinalities and attributes on section blocks
// that admit children but nothing else.
func (st *state) checkNoExtraBlk(kind string) {
	switch st.w.FieldName() {
	case "cardinality":
		st.w.Error(30, kind+" may not have a cardinality")
	case "attribs":
		st.w.Error(30, kind+" may not have any attributes")
	}
}

// sectionOrder is the fixed order of top-level sections.
var sectionOrder = [...]string{"namespace", "include", "imports", "features", "constraints"}

func sectionRank(kind string) int {
	for i, s := range sectionOrder {
		if s == kind {
			return i
		}
	}
	return -1
}

// visitTopLevel walks the top-level blocks, dispatches each known section
// and afterwards checks the observed section order against the fixed one.
// Unknown and incomplete sections are reported but do not block translation
// of what follows.
func (st *state) visitTopLevel() {
	var order []syntax.Node
	for {
		if st.w.Kind() == "blk" {
			h := st.header()
			if h == nil {
				st.w.Error(60, "expected a section header")
			} else {
				order = append(order, h)
				switch h.Kind() {
				case "namespace":
					childScope(st, (*state).visitNamespace)
				case "include":
					childScope(st, (*state).visitInclude)
				case "imports":
					childScope(st, (*state).visitImports)
				case "features":
					childScope(st, (*state).visitFeatures)
				case "constraints":
					childScope(st, (*state).visitConstraints)
				case "incomplete_namespace":
					st.errorBlk(60, "incomplete namespace")
					order = order[:len(order)-1]
				default:
					st.errorBlk(60, "only namespaces, imports, includes, features and constraints are allowed here")
					childScope(st, (*state).visitFeatures)
					order = order[:len(order)-1]
				}
			}
		}
		if !st.w.GotoNextSibling() {
			break
		}
	}
	st.checkSectionOrder(order)
}

func (st *state) checkSectionOrder(order []syntax.Node) {
	for i := 1; i < len(order); i++ {
		prev := sectionRank(order[i-1].Kind())
		cur := sectionRank(order[i].Kind())
		if prev == cur {
			st.w.ErrorNode(order[i], 50, fmt.Sprintf("duplicate %s section", order[i].Kind()))
		}
		if prev > cur {
			st.w.ErrorNode(order[i], 50, fmt.Sprintf(
				"%s section comes before the %s section",
				order[i-1].Kind(), order[i].Kind()))
		}
	}
}
