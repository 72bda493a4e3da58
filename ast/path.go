package ast

import (
	"strings"

	"github.com/uvl-tools/uvlsem/text"
)

// Ident is a single name together with its source span.
type Ident struct {
	Name string
	Span text.Span
}

// Path is a dotted identifier: parallel name and span sequences of equal
// length. Imports, namespaces and references are all paths.
type Path struct {
	Names []string
	Spans []text.Span
}

// Append returns a copy of p with id appended.
func (p Path) Append(id Ident) Path {
	out := Path{
		Names: make([]string, 0, len(p.Names)+1),
		Spans: make([]text.Span, 0, len(p.Spans)+1),
	}
	out.Names = append(append(out.Names, p.Names...), id.Name)
	out.Spans = append(append(out.Spans, p.Spans...), id.Span)
	return out
}

// Push appends id in place.
func (p *Path) Push(id Ident) {
	p.Names = append(p.Names, id.Name)
	p.Spans = append(p.Spans, id.Span)
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.Names)
}

// Range returns the byte span from the first to the last segment, or the
// empty span for an empty path.
func (p Path) Range() text.Span {
	if len(p.Spans) == 0 {
		return text.Span{}
	}
	return text.NewSpan(p.Spans[0].Start, p.Spans[len(p.Spans)-1].End)
}

// Segment returns the index of the segment containing offset, clamped to the
// first segment for offsets before the path.
func (p Path) Segment(offset uint) int {
	n := 0
	for _, s := range p.Spans {
		if s.Start >= offset {
			break
		}
		n++
	}
	if n > 0 {
		n--
	}
	return n
}

// String joins the segments with dots.
func (p Path) String() string {
	return strings.Join(p.Names, ".")
}
