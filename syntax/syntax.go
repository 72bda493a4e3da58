// Package syntax is the boundary to the external concrete syntax tree. The
// semantic core never parses text itself; it consumes an immutable tree
// produced by an incremental parser through the Tree/Cursor interfaces here.
//
// Two implementations ship with the package: an adapter over
// tree-sitter trees (FromSitter) for embedders with a native UVL grammar
// binding, and an in-memory tree (Build) used by tests and embedders without
// one.
package syntax

import "github.com/uvl-tools/uvlsem/text"

// Node is one node of an immutable concrete syntax tree.
type Node interface {
	// Kind is the grammar production or token kind, e.g. "blk" or "name".
	Kind() string
	// Span is the byte range the node covers in the source text.
	Span() text.Span
	// IsNamed reports whether the node is a named grammar production rather
	// than an anonymous token.
	IsNamed() bool
	// IsError reports whether the node is a parser error node.
	IsError() bool
	// IsExtra reports whether the node is non-semantic (comments, stray
	// whitespace productions).
	IsExtra() bool
	// IsMissing reports whether the parser fabricated this node to recover
	// from a syntax error.
	IsMissing() bool
	// Parent returns the parent node, or nil at the root.
	Parent() Node
	// Child returns the i-th child (anonymous tokens included), or nil.
	Child(i int) Node
	// ChildCount returns the number of children, anonymous tokens included.
	ChildCount() int
	// ChildByField returns the first child occupying the given grammar
	// field, or nil.
	ChildByField(name string) Node
}

// Cursor navigates a tree. Navigation is stateful and cheap; the cursor
// never outlives its tree.
type Cursor interface {
	// Node returns the node the cursor currently points at.
	Node() Node
	// FieldName returns the grammar field the current node occupies in its
	// parent, or "".
	FieldName() string
	GotoFirstChild() bool
	GotoNextSibling() bool
	GotoParent() bool
	// Close releases cursor resources. Safe to call more than once.
	Close()
}

// Tree is an immutable parsed syntax tree.
type Tree interface {
	Root() Node
	Walk() Cursor
}
