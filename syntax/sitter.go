package syntax

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/uvl-tools/uvlsem/text"
)

// FromSitter wraps a parsed tree-sitter tree. The tree must stay alive (not
// Closed) for as long as the returned Tree is in use; the caller keeps
// ownership. The grammar used to produce the tree is the embedder's concern.
func FromSitter(t *tree_sitter.Tree) Tree {
	return &sitterTree{t: t}
}

type sitterTree struct {
	t *tree_sitter.Tree
}

func (st *sitterTree) Root() Node {
	return wrapSitterNode(st.t.RootNode())
}

func (st *sitterTree) Walk() Cursor {
	return &sitterCursor{c: st.t.Walk()}
}

type sitterNode struct {
	n *tree_sitter.Node
}

// wrapSitterNode returns a nil interface for a nil node so callers can
// compare against plain nil.
func wrapSitterNode(n *tree_sitter.Node) Node {
	if n == nil {
		return nil
	}
	return &sitterNode{n: n}
}

func (sn *sitterNode) Kind() string      { return sn.n.Kind() }
func (sn *sitterNode) IsNamed() bool     { return sn.n.IsNamed() }
func (sn *sitterNode) IsError() bool     { return sn.n.IsError() }
func (sn *sitterNode) IsExtra() bool     { return sn.n.IsExtra() }
func (sn *sitterNode) IsMissing() bool   { return sn.n.IsMissing() }
func (sn *sitterNode) Parent() Node      { return wrapSitterNode(sn.n.Parent()) }
func (sn *sitterNode) ChildCount() int   { return int(sn.n.ChildCount()) }
func (sn *sitterNode) Child(i int) Node  { return wrapSitterNode(sn.n.Child(uint(i))) }

func (sn *sitterNode) Span() text.Span {
	return text.NewSpan(sn.n.StartByte(), sn.n.EndByte())
}

func (sn *sitterNode) ChildByField(name string) Node {
	return wrapSitterNode(sn.n.ChildByFieldName(name))
}

type sitterCursor struct {
	c *tree_sitter.TreeCursor
}

func (sc *sitterCursor) Node() Node            { return wrapSitterNode(sc.c.Node()) }
func (sc *sitterCursor) FieldName() string     { return sc.c.FieldName() }
func (sc *sitterCursor) GotoFirstChild() bool  { return sc.c.GotoFirstChild() }
func (sc *sitterCursor) GotoNextSibling() bool { return sc.c.GotoNextSibling() }
func (sc *sitterCursor) GotoParent() bool      { return sc.c.GotoParent() }

func (sc *sitterCursor) Close() {
	if sc.c != nil {
		sc.c.Close()
		sc.c = nil
	}
}
