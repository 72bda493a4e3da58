// Package text provides byte spans, LSP-style positions and a line-indexed
// view of source text for converting between the two.
package text

import "unicode/utf16"

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start uint
	End   uint
}

// NewSpan returns the span [start, end).
func NewSpan(start, end uint) Span {
	return Span{Start: start, End: end}
}

// Contains reports whether offset lies inside the span.
func (s Span) Contains(offset uint) bool {
	return s.Start <= offset && offset < s.End
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Position is a zero-based line/character location. Character counts UTF-16
// code units, matching the default LSP position encoding.
type Position struct {
	Line      uint32
	Character uint32
}

// Range is a half-open region between two positions.
type Range struct {
	Start Position
	End   Position
}

// Source wraps an immutable source text with a precomputed line index.
type Source struct {
	data  []byte
	lines []uint // byte offset of each line start, lines[0] == 0
}

// NewSource indexes data. The slice must not be mutated afterwards.
func NewSource(data []byte) *Source {
	lines := []uint{0}
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, uint(i)+1)
		}
	}
	return &Source{data: data, lines: lines}
}

// Bytes returns the underlying text.
func (s *Source) Bytes() []byte {
	return s.data
}

// Len returns the text length in bytes.
func (s *Source) Len() uint {
	return uint(len(s.data))
}

// Slice returns the text covered by span, clamped to the source bounds.
func (s *Source) Slice(span Span) string {
	start, end := span.Start, span.End
	if start > s.Len() {
		start = s.Len()
	}
	if end > s.Len() {
		end = s.Len()
	}
	if end < start {
		end = start
	}
	return string(s.data[start:end])
}

// Position converts a byte offset into a line/character position.
func (s *Source) Position(offset uint) Position {
	if offset > s.Len() {
		offset = s.Len()
	}
	line := s.lineAt(offset)
	prefix := s.data[s.lines[line]:offset]
	units := len(utf16.Encode([]rune(string(prefix))))
	return Position{Line: uint32(line), Character: uint32(units)}
}

// Range converts a byte span into a position range.
func (s *Source) Range(span Span) Range {
	return Range{Start: s.Position(span.Start), End: s.Position(span.End)}
}

// lineAt returns the index of the line containing offset (binary search over
// line starts).
func (s *Source) lineAt(offset uint) int {
	lo, hi := 0, len(s.lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.lines[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
