// Package diagprint renders diag.Diagnostic values to the terminal and
// diffs regenerated C output against a cached compilation, the way the
// teacher's internal/util.go renders colored unified diffs.
package diagprint

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/aetherlang/aethc/internal/diag"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorGreen  = "\x1b[32m"
	colorCyan   = "\x1b[36m"
	colorBold   = "\x1b[1m"
)

// Printer renders diagnostics and diffs to an output stream, deciding
// whether to colorize based on whether w is a real terminal (unless
// overridden by NoColor).
type Printer struct {
	w       io.Writer
	NoColor bool
}

// New creates a Printer writing to w. Pass os.Stderr for diagnostics
// and os.Stdout for diffs, matching the teacher's split of error vs.
// result output.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) colorEnabled() bool {
	if p.NoColor {
		return false
	}
	if f, ok := p.w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

func (p *Printer) colorize(c, s string) string {
	if !p.colorEnabled() {
		return s
	}
	return c + s + colorReset
}

// Diagnostic prints one diagnostic, resolving its span to a 1-based
// line/column against src when HasSpan is set.
func (p *Printer) Diagnostic(filename, src string, d diag.Diagnostic) {
	sev := string(d.Severity)
	color := colorYellow
	if d.Severity == diag.Fatal {
		color = colorRed
	}
	label := p.colorize(color, p.colorize(colorBold, sev)+":")

	if d.HasSpan {
		line, col := lineCol(src, d.Span.Start)
		fmt.Fprintf(p.w, "%s:%d:%d: %s %s [%s]\n", filename, line, col, label, d.Message, d.Kind)
		return
	}
	fmt.Fprintf(p.w, "%s: %s %s [%s]\n", filename, label, d.Message, d.Kind)
}

// Bag prints every diagnostic in a bag, in declaration order.
func (p *Printer) Bag(filename, src string, bag *diag.Bag) {
	if bag == nil {
		return
	}
	for _, d := range bag.Items() {
		p.Diagnostic(filename, src, d)
	}
}

func lineCol(src string, offset int) (line, col int) {
	line, col = 1, 1
	for i, r := range src {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// Diff renders a colored or plain unified diff between two C-text
// generations of the same source, mirroring the teacher's UnifiedDiff
// helper exactly (same difflib shape, same +/-/@ coloring rule).
func (p *Printer) Diff(previous, current, label string, context int) string {
	d := difflib.UnifiedDiff{
		A:        difflib.SplitLines(previous),
		B:        difflib.SplitLines(current),
		FromFile: label + " (cached)",
		ToFile:   label + " (current)",
		Context:  context,
	}
	text, err := difflib.GetUnifiedDiffString(d)
	if err != nil {
		return "(diff error: " + err.Error() + ")"
	}

	if !p.colorEnabled() {
		return text
	}

	var sb strings.Builder
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if i == len(lines)-1 && l == "" {
			continue
		}
		switch {
		case strings.HasPrefix(l, "+"):
			sb.WriteString(colorGreen + l + colorReset + "\n")
		case strings.HasPrefix(l, "-"):
			sb.WriteString(colorRed + l + colorReset + "\n")
		case strings.HasPrefix(l, "@"):
			sb.WriteString(colorCyan + l + colorReset + "\n")
		default:
			sb.WriteString(l + "\n")
		}
	}
	return sb.String()
}
