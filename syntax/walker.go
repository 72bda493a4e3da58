package syntax

import (
	"fmt"

	"github.com/uvl-tools/uvlsem/diag"
	"github.com/uvl-tools/uvlsem/text"
)

// Walker wraps a Cursor with error tolerance: every navigation primitive
// skips error and extra nodes automatically and returns false, without
// raising a diagnostic, when nothing semantic remains. Callers branch on the
// result explicitly. The walker also carries the source text and the
// diagnostic sink, so translation code can report against the current node.
type Walker struct {
	cur   Cursor
	src   *text.Source
	diags *diag.List
}

// NewWalker wraps cur. The sink collects every diagnostic raised during the
// walk.
func NewWalker(cur Cursor, src *text.Source, sink *diag.List) *Walker {
	return &Walker{cur: cur, src: src, diags: sink}
}

// Node returns the current node.
func (w *Walker) Node() Node {
	return w.cur.Node()
}

// Kind returns the current node's kind.
func (w *Walker) Kind() string {
	return w.cur.Node().Kind()
}

// FieldName returns the grammar field of the current node, or "".
func (w *Walker) FieldName() string {
	return w.cur.FieldName()
}

// Source returns the source text the tree derives from.
func (w *Walker) Source() *text.Source {
	return w.src
}

// Slice returns the source text of n.
func (w *Walker) Slice(n Node) string {
	return w.src.Slice(n.Span())
}

// skipExtra advances over error and extra nodes. It reports false when the
// sibling list ends before a semantic node is found, leaving the cursor on
// the last sibling.
func (w *Walker) skipExtra() bool {
	for {
		n := w.cur.Node()
		if !n.IsExtra() && !n.IsError() {
			return true
		}
		if !w.cur.GotoNextSibling() {
			return false
		}
	}
}

// GotoFirstChild descends to the first semantic child. When the node has
// only error/extra children the cursor is restored to the parent.
func (w *Walker) GotoFirstChild() bool {
	if !w.cur.GotoFirstChild() {
		return false
	}
	if w.skipExtra() {
		return true
	}
	w.cur.GotoParent()
	return false
}

// GotoNextSibling advances to the next semantic sibling.
func (w *Walker) GotoNextSibling() bool {
	return w.cur.GotoNextSibling() && w.skipExtra()
}

// GotoParent ascends one level.
func (w *Walker) GotoParent() {
	w.cur.GotoParent()
}

// GotoNamed scans from the current node to the next named sibling.
func (w *Walker) GotoNamed() bool {
	for {
		if w.Node().IsNamed() {
			return true
		}
		if !w.GotoNextSibling() {
			return false
		}
	}
}

// GotoField scans from the current node for a sibling occupying the given
// grammar field. On failure the cursor stays where scanning stopped.
func (w *Walker) GotoField(name string) bool {
	for {
		if w.cur.FieldName() == name {
			return true
		}
		if !w.GotoNextSibling() {
			return false
		}
	}
}

// GotoKind scans from the current node for a sibling of the given kind.
func (w *Walker) GotoKind(kind string) bool {
	for {
		if w.Kind() == kind {
			return true
		}
		if !w.GotoNextSibling() {
			return false
		}
	}
}

// GotoNextKind advances at least one sibling, then scans for the kind.
func (w *Walker) GotoNextKind(kind string) bool {
	for {
		if !w.GotoNextSibling() {
			return false
		}
		if w.Kind() == kind {
			return true
		}
	}
}

// ChildByField returns the current node's child in the given field, or nil.
func (w *Walker) ChildByField(name string) Node {
	return w.Node().ChildByField(name)
}

// Error raises a diagnostic located at the current node.
func (w *Walker) Error(weight int, msg string) {
	w.ErrorNode(w.Node(), weight, msg)
}

// Errorf raises a formatted diagnostic located at the current node.
func (w *Walker) Errorf(weight int, format string, args ...any) {
	w.ErrorNode(w.Node(), weight, fmt.Sprintf(format, args...))
}

// ErrorNode raises a diagnostic located at an explicitly supplied node.
func (w *Walker) ErrorNode(n Node, weight int, msg string) {
	w.diags.Error(w.src.Range(n.Span()), weight, msg)
}

