// Package span implements byte-range source positions.
package span

// Span is an inclusive-start, exclusive-end byte range within a
// numbered source file. Spans are immutable value copies.
type Span struct {
	Start int
	End   int
	File  int
}

// New builds a Span. It does not validate start <= end so that
// zero-value and synthetic spans stay cheap to construct.
func New(start, end, file int) Span {
	return Span{Start: start, End: end, File: file}
}

// Zero is the span used for synthesized nodes with no source origin.
var Zero = Span{}

// Merge returns the smallest span enclosing both a and b. The file id
// of the result is a's; callers must not merge spans from different
// files.
func Merge(a, b Span) Span {
	start := a.Start
	if b.Start < start {
		start = b.Start
	}
	end := a.End
	if b.End > end {
		end = b.End
	}
	return Span{Start: start, End: end, File: a.File}
}

// Len returns the byte length covered by the span.
func (s Span) Len() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Contains reports whether byte offset b falls within [s.Start, s.End).
func (s Span) Contains(b int) bool {
	return b >= s.Start && b < s.End
}
