package syntax

import (
	"strings"

	"github.com/uvl-tools/uvlsem/text"
)

// M is a prototype node for building an in-memory syntax tree. Prototypes
// carry structure and literals; Build lays them out into a source text and
// assigns byte spans.
type M struct {
	kind     string
	field    string
	literal  string
	named    bool
	isError  bool
	isExtra  bool
	sMissing bool
	children []*M
}

// NewNode returns a named inner node of the given kind.
func NewNode(kind string, children ...*M) *M {
	return &M{kind: kind, named: true, children: children}
}

// Token returns a named leaf whose source text is literal.
func Token(kind, literal string) *M {
	return &M{kind: kind, named: true, literal: literal}
}

// Anon returns an anonymous token; its kind is its literal, as tree-sitter
// does for operators and keywords.
func Anon(literal string) *M {
	return &M{kind: literal, literal: literal}
}

// Field marks the grammar field this node occupies in its parent.
func (m *M) Field(name string) *M {
	m.field = name
	return m
}

// Extra marks the node as non-semantic (comment-like).
func (m *M) Extra() *M {
	m.isExtra = true
	return m
}

// Err marks the node as a parser error node.
func (m *M) Err() *M {
	m.isError = true
	return m
}

// Missing marks the node as parser-fabricated; it occupies no source text.
func (m *M) Missing() *M {
	m.sMissing = true
	m.literal = ""
	return m
}

type memNode struct {
	kind     string
	field    string
	span     text.Span
	named    bool
	isError  bool
	isExtra  bool
	missing  bool
	parent   *memNode
	idx      int
	children []*memNode
}

func (n *memNode) Kind() string    { return n.kind }
func (n *memNode) Span() text.Span { return n.span }
func (n *memNode) IsNamed() bool   { return n.named }
func (n *memNode) IsError() bool   { return n.isError }
func (n *memNode) IsExtra() bool   { return n.isExtra }
func (n *memNode) IsMissing() bool { return n.missing }
func (n *memNode) ChildCount() int { return len(n.children) }

func (n *memNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *memNode) Child(i int) Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

func (n *memNode) ChildByField(name string) Node {
	for _, c := range n.children {
		if c.field == name {
			return c
		}
	}
	return nil
}

type memTree struct {
	root *memNode
}

func (t *memTree) Root() Node { return t.root }

func (t *memTree) Walk() Cursor { return &memCursor{cur: t.root} }

type memCursor struct {
	cur *memNode
}

func (c *memCursor) Node() Node        { return c.cur }
func (c *memCursor) FieldName() string { return c.cur.field }
func (c *memCursor) Close()            {}

func (c *memCursor) GotoFirstChild() bool {
	if len(c.cur.children) == 0 {
		return false
	}
	c.cur = c.cur.children[0]
	return true
}

func (c *memCursor) GotoNextSibling() bool {
	p := c.cur.parent
	if p == nil || c.cur.idx+1 >= len(p.children) {
		return false
	}
	c.cur = p.children[c.cur.idx+1]
	return true
}

func (c *memCursor) GotoParent() bool {
	if c.cur.parent == nil {
		return false
	}
	c.cur = c.cur.parent
	return true
}

// Build lays out the prototype tree: leaf literals are joined with single
// spaces into a synthetic source text and every node receives the byte span
// it covers. It returns the tree together with that source.
func Build(root *M) (Tree, []byte) {
	var buf strings.Builder
	r := layout(root, nil, 0, &buf)
	return &memTree{root: r}, []byte(buf.String())
}

func layout(m *M, parent *memNode, idx int, buf *strings.Builder) *memNode {
	n := &memNode{
		kind:    m.kind,
		field:   m.field,
		named:   m.named,
		isError: m.isError,
		isExtra: m.isExtra,
		missing: m.sMissing,
		parent:  parent,
		idx:     idx,
	}
	if len(m.children) == 0 {
		if m.literal != "" {
			if buf.Len() > 0 {
				buf.WriteByte(' ')
			}
			start := uint(buf.Len())
			buf.WriteString(m.literal)
			n.span = text.NewSpan(start, uint(buf.Len()))
		} else {
			off := uint(buf.Len())
			n.span = text.NewSpan(off, off)
		}
		return n
	}
	for i, c := range m.children {
		n.children = append(n.children, layout(c, n, i, buf))
	}
	n.span = text.NewSpan(n.children[0].span.Start, n.children[len(n.children)-1].span.End)
	return n
}
