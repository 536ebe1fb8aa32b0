package semgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherlang/aethc/internal/diag"
	"github.com/aetherlang/aethc/internal/lexer"
	"github.com/aetherlang/aethc/internal/parser"
	"github.com/aetherlang/aethc/internal/sema"
)

func checkedProgram(t *testing.T, src string) *sema.Program {
	t.Helper()
	toks := lexer.Tokenize(src, 0)
	prog, perr := parser.Parse(toks, 0)
	require.Nil(t, perr)
	checked, bag := sema.Check(prog, diag.Lenient)
	require.Nil(t, bag.Fatal())
	return checked
}

func TestBuildAddsOneNodePerFunction(t *testing.T) {
	prog := checkedProgram(t, `
		fn helper() -> i32 { return 1; }
		fn main() -> i32 { return helper(); }
	`)
	g := Build(prog)

	names := map[string]bool{}
	for _, n := range g.Nodes {
		names[n.Name] = true
	}
	assert.True(t, names["helper"])
	assert.True(t, names["main"])
}

func TestBuildAddsCallEdgeForDirectCall(t *testing.T) {
	prog := checkedProgram(t, `
		fn helper() -> i32 { return 1; }
		fn main() -> i32 { return helper(); }
	`)
	g := Build(prog)

	found := false
	for _, e := range g.Edges {
		if e.Kind == EdgeCall && e.From == "main" && e.To == "helper" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCalleesOfAndCallersOfAreInverse(t *testing.T) {
	prog := checkedProgram(t, `
		fn a() -> i32 { return 0; }
		fn b() -> i32 { return a(); }
		fn c() -> i32 { return a(); }
	`)
	g := Build(prog)

	callers := g.CallersOf("a")
	assert.ElementsMatch(t, []string{"b", "c"}, callers)

	callees := g.CalleesOf("b")
	assert.Equal(t, []string{"a"}, callees)
}

func TestBuildWalksNestedControlFlowForCalls(t *testing.T) {
	prog := checkedProgram(t, `
		fn target() -> i32 { return 1; }
		fn main() -> i32 {
			if true {
				return target();
			} else {
				return 0;
			}
		}
	`)
	g := Build(prog)

	found := false
	for _, e := range g.Edges {
		if e.Kind == EdgeCall && e.From == "main" && e.To == "target" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestIndexLookupFindsRegisteredNode(t *testing.T) {
	prog := checkedProgram(t, `fn solo() -> i32 { return 0; }`)
	g := Build(prog)
	idx := NewIndex(g)

	n, ok := idx.Lookup("solo")
	require.True(t, ok)
	assert.Equal(t, KindFunction, n.Kind)

	_, ok = idx.Lookup("missing")
	assert.False(t, ok)
}
