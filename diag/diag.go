// Package diag defines the diagnostics produced during translation and
// resolution. Diagnostics are always recoverable: they describe degraded
// fidelity, never an aborted translation.
package diag

import "github.com/uvl-tools/uvlsem/text"

// Severity of a diagnostic. Translation emits errors only; the Weight field
// carries the finer-grained ranking.
type Severity uint8

const (
	SeverityError Severity = iota + 1
)

// Diagnostic is one reported problem. Weight ranks confidence/importance for
// downstream filtering (observed range 10-60) and has no effect on
// recoverability.
type Diagnostic struct {
	Range    text.Range
	Severity Severity
	Weight   int
	Message  string
}

// List is an append-only diagnostic collector threaded through translation.
type List struct {
	items []Diagnostic
}

// Add appends d.
func (l *List) Add(d Diagnostic) {
	l.items = append(l.items, d)
}

// Error appends an error diagnostic with the given weight, message and range.
func (l *List) Error(rng text.Range, weight int, msg string) {
	l.Add(Diagnostic{Range: rng, Severity: SeverityError, Weight: weight, Message: msg})
}

// Items returns the collected diagnostics in emission order.
func (l *List) Items() []Diagnostic {
	return l.items
}

// Len returns the number of collected diagnostics.
func (l *List) Len() int {
	return len(l.items)
}

// Filter returns the diagnostics whose weight is at least min.
func (l *List) Filter(min int) []Diagnostic {
	return Filter(l.items, min)
}

// Filter returns the diagnostics in items whose weight is at least min.
func Filter(items []Diagnostic, min int) []Diagnostic {
	var out []Diagnostic
	for _, d := range items {
		if d.Weight >= min {
			out = append(out, d)
		}
	}
	return out
}
