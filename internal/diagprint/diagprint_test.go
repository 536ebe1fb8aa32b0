package diagprint

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aetherlang/aethc/internal/diag"
	"github.com/aetherlang/aethc/internal/span"
)

func TestDiagnosticPlainNoColorForNonFile(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	p.Diagnostic("foo.aeth", "fn f() { }", diag.At(diag.KindUndefinedVariable, diag.Fatal, span.New(3, 4, 0), "undefined variable %q", "x"))
	out := buf.String()
	assert.Contains(t, out, "foo.aeth:1:4:")
	assert.Contains(t, out, "undefined variable")
	assert.NotContains(t, out, "\x1b[")
}

func TestDiagnosticWithoutSpanOmitsLineCol(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	p.Diagnostic("foo.aeth", "", diag.New(diag.KindIO, diag.Fatal, "reading file: %v", "not found"))
	out := buf.String()
	assert.Contains(t, out, "foo.aeth:")
	assert.NotContains(t, out, "foo.aeth:1:1:")
}

func TestLineColAdvancesAcrossNewlines(t *testing.T) {
	line, col := lineCol("abc\ndef\nghi", 6)
	assert.Equal(t, 2, line)
	assert.Equal(t, 3, col)
}

func TestBagPrintsEveryItemInOrder(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	bag := diag.NewBag(diag.Lenient)
	bag.Add(diag.New(diag.KindEffectViolation, diag.Warning, "first"))
	bag.Add(diag.New(diag.KindEffectViolation, diag.Warning, "second"))
	p.Bag("foo.aeth", "", bag)
	out := buf.String()
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
}

func TestDiffForcedPlainHasUnifiedHeaders(t *testing.T) {
	p := New(&bytes.Buffer{})
	out := p.Diff("int a;\n", "int b;\n", "out.c", 3)
	assert.Contains(t, out, "--- out.c (cached)")
	assert.Contains(t, out, "+++ out.c (current)")
	assert.Contains(t, out, "-int a;")
	assert.Contains(t, out, "+int b;")
}

func TestNoColorOptionSuppressesEscapeCodesEvenOnForcedColorPath(t *testing.T) {
	p := New(&bytes.Buffer{})
	p.NoColor = true
	assert.False(t, p.colorEnabled())
}
