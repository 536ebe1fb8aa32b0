package irgen

import (
	"testing"

	"github.com/aetherlang/aethc/internal/diag"
	"github.com/aetherlang/aethc/internal/ir"
	"github.com/aetherlang/aethc/internal/lexer"
	"github.com/aetherlang/aethc/internal/parser"
	"github.com/aetherlang/aethc/internal/sema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lower(t *testing.T, src string) (*ir.Module, *diag.Bag) {
	t.Helper()
	toks := lexer.Tokenize(src, 0)
	prog, perr := parser.Parse(toks, 0)
	require.Nil(t, perr, "unexpected parse error: %v", perr)
	checked, sbag := sema.Check(prog, diag.Strict)
	require.Nil(t, sbag.Fatal(), "unexpected sema error: %v", sbag.Fatal())
	return Generate(checked)
}

func findFunc(t *testing.T, mod *ir.Module, name string) *ir.Function {
	t.Helper()
	fn := mod.FindFunc(name)
	require.NotNil(t, fn, "function %q not found in module", name)
	return fn
}

func TestGenerateSimpleFunction(t *testing.T) {
	mod, bag := lower(t, `fn add(a: i32, b: i32) -> i32 { return a + b; }`)
	assert.Nil(t, bag.Fatal())
	fn := findFunc(t, mod, "add")
	assert.Len(t, fn.Params, 2)
	assert.NotEmpty(t, fn.Blocks)
	entry := fn.Block(fn.Entry)
	require.NotNil(t, entry)
	assert.NotNil(t, entry.Term)
}

func TestGenerateReturnsTerminatedBlocks(t *testing.T) {
	mod, bag := lower(t, `
		fn abs(x: i32) -> i32 {
			if x < 0 {
				return -x;
			} else {
				return x;
			}
		}
	`)
	assert.Nil(t, bag.Fatal())
	fn := findFunc(t, mod, "abs")
	for _, b := range fn.Blocks {
		assert.NotNilf(t, b.Term, "block %s (L%d) left unterminated", b.Label, b.ID)
	}
}

func TestGenerateStructFieldAccessUsesGEP(t *testing.T) {
	mod, bag := lower(t, `
		struct Point { x: i32, y: i32 }
		fn sum(p: Point) -> i32 { return p.x + p.y; }
	`)
	assert.Nil(t, bag.Fatal())
	layout := mod.FindStruct("Point")
	require.NotNil(t, layout)
	assert.Equal(t, 0, layout.FieldIndex("x"))
	assert.Equal(t, 1, layout.FieldIndex("y"))

	fn := findFunc(t, mod, "sum")
	var sawGEP int
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if _, ok := instr.(*ir.GEP); ok {
				sawGEP++
			}
		}
	}
	assert.Equal(t, 2, sawGEP)
}

func TestGenerateStructLiteralAllocatesAndStores(t *testing.T) {
	mod, bag := lower(t, `
		struct Point { x: i32, y: i32 }
		fn origin() -> Point { return Point { x: 0, y: 0 }; }
	`)
	assert.Nil(t, bag.Fatal())
	fn := findFunc(t, mod, "origin")
	assert.True(t, fn.StructRet)
	var sawAlloca, sawStore int
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			switch instr.(type) {
			case *ir.Alloca:
				sawAlloca++
			case *ir.Store:
				sawStore++
			}
		}
	}
	assert.Equal(t, 1, sawAlloca)
	assert.Equal(t, 2, sawStore)
}

func TestGenerateWhileLoopWithBreak(t *testing.T) {
	mod, bag := lower(t, `
		fn countdown(mut n: i32) -> i32 {
			while n > 0 {
				if n == 5 {
					break;
				}
				n = n - 1;
			}
			return n;
		}
	`)
	assert.Nil(t, bag.Fatal())
	fn := findFunc(t, mod, "countdown")
	var sawBranch int
	for _, b := range fn.Blocks {
		if b.Term != nil && b.Term.Kind == ir.TermBranch {
			sawBranch++
		}
	}
	assert.GreaterOrEqual(t, sawBranch, 2)
}

func TestGenerateForRangeLoopLowersToCounterLoop(t *testing.T) {
	mod, bag := lower(t, `
		fn sumTo(n: i32) -> i32 {
			let mut total: i32 = 0;
			for i in 0..n {
				total = total + i;
			}
			return total;
		}
	`)
	assert.Nil(t, bag.Fatal())
	fn := findFunc(t, mod, "sumTo")
	var labels []string
	for _, b := range fn.Blocks {
		labels = append(labels, b.Label)
	}
	assert.Contains(t, labels, "for.header")
	assert.Contains(t, labels, "for.inc")
	assert.Contains(t, labels, "for.exit")
}

func TestGenerateCallArgumentIntWidthCast(t *testing.T) {
	mod, bag := lower(t, `
		fn takesI64(x: i64) -> i64 { return x; }
		fn caller(y: i32) -> i64 { return takesI64(y); }
	`)
	assert.Nil(t, bag.Fatal())
	fn := findFunc(t, mod, "caller")
	var sawCast bool
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if _, ok := instr.(*ir.Cast); ok {
				sawCast = true
			}
		}
	}
	assert.True(t, sawCast)
}

func TestGenerateMethodCallResolvesReceiverQualifiedName(t *testing.T) {
	mod, bag := lower(t, `
		struct Counter { n: i32 }
		impl Counter {
			fn get(self) -> i32 { return self.n; }
		}
		fn read(c: Counter) -> i32 { return c.get(); }
	`)
	assert.Nil(t, bag.Fatal())
	require.NotNil(t, mod.FindFunc("Counter::get"))
	fn := findFunc(t, mod, "read")
	var sawCall bool
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if call, ok := instr.(*ir.Call); ok {
				assert.Equal(t, "Counter::get", call.Fn)
				assert.Len(t, call.Args, 1)
				sawCall = true
			}
		}
	}
	assert.True(t, sawCall)
}

func TestGenerateClosureReportsCodegenDiagnostic(t *testing.T) {
	mod, bag := lower(t, `
		fn f() -> i32 {
			let g = |x: i32| x + 1;
			return 0;
		}
	`)
	_ = mod
	fatal := bag.Fatal()
	require.NotNil(t, fatal)
	assert.Equal(t, diag.KindCodegen, fatal.Kind)
}

func TestGeneratePreservesContractClauses(t *testing.T) {
	mod, bag := lower(t, `
		fn half(x: i32) -> i32 [requires x >= 0, ensures result <= x] {
			return x / 2;
		}
	`)
	assert.Nil(t, bag.Fatal())
	fn := findFunc(t, mod, "half")
	assert.NotEmpty(t, fn.Requires)
	assert.NotEmpty(t, fn.Ensures)
}
