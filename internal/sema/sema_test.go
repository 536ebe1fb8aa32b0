package sema

import (
	"testing"

	"github.com/aetherlang/aethc/internal/diag"
	"github.com/aetherlang/aethc/internal/lexer"
	"github.com/aetherlang/aethc/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, src string, mode diag.Mode) (*Program, *diag.Bag) {
	t.Helper()
	toks := lexer.New().Tokenize(src, 0)
	prog, perr := parser.Parse(toks, 0)
	require.Nil(t, perr, "unexpected parse error: %v", perr)
	return Check(prog, mode)
}

func TestCheckSimpleFunctionSucceeds(t *testing.T) {
	_, bag := analyze(t, `fn add(a: i32, b: i32) -> i32 { return a + b; }`, diag.Strict)
	assert.Nil(t, bag.Fatal())
}

func TestCheckUndefinedVariableIsFatal(t *testing.T) {
	_, bag := analyze(t, `fn f() -> i32 { return y; }`, diag.Strict)
	require.NotNil(t, bag.Fatal())
	assert.Equal(t, diag.KindUndefinedVariable, bag.Fatal().Kind)
}

func TestCheckTypeMismatchOnReturn(t *testing.T) {
	_, bag := analyze(t, `fn f() -> i32 { return true; }`, diag.Strict)
	require.NotNil(t, bag.Fatal())
	assert.Equal(t, diag.KindTypeMismatch, bag.Fatal().Kind)
}

func TestCheckStructFieldAccess(t *testing.T) {
	prog, bag := analyze(t, `
		struct Point { x: i32, y: i32 }
		fn sum(p: Point) -> i32 { return p.x + p.y; }
	`, diag.Strict)
	assert.Nil(t, bag.Fatal())
	require.Contains(t, prog.Structs, "Point")
}

func TestCheckUnknownFieldIsFatal(t *testing.T) {
	_, bag := analyze(t, `
		struct Point { x: i32, y: i32 }
		fn f(p: Point) -> i32 { return p.z; }
	`, diag.Strict)
	require.NotNil(t, bag.Fatal())
	assert.Equal(t, diag.KindUnknownField, bag.Fatal().Kind)
}

func TestCheckUseAfterMoveIsFatal(t *testing.T) {
	_, bag := analyze(t, `
		struct Box { v: i32 }
		fn consume(b: Box) -> i32 { return b.v; }
		fn f(b: Box) -> i32 {
			let x: i32 = consume(b);
			let y: i32 = consume(b);
			return x + y;
		}
	`, diag.Strict)
	require.NotNil(t, bag.Fatal())
	assert.Equal(t, diag.KindUseAfterMove, bag.Fatal().Kind)
}

func TestCheckDoubleMutableBorrowIsFatal(t *testing.T) {
	_, bag := analyze(t, `
		fn f(mut x: i32) -> i32 {
			let a: &mut i32 = &mut x;
			let b: &mut i32 = &mut x;
			return x;
		}
	`, diag.Strict)
	require.NotNil(t, bag.Fatal())
	assert.Equal(t, diag.KindDoubleMutableBorrow, bag.Fatal().Kind)
}

func TestCheckEffectViolationInPureFunction(t *testing.T) {
	_, bag := analyze(t, `fn f() -> () pure { println("hi"); return; }`, diag.Strict)
	require.NotNil(t, bag.Fatal())
	assert.Equal(t, diag.KindEffectViolation, bag.Fatal().Kind)
}

func TestCheckEffectViolationLenientIsNonFatal(t *testing.T) {
	_, bag := analyze(t, `fn f() -> () pure { println("hi"); return; }`, diag.Lenient)
	assert.Nil(t, bag.Fatal())
	assert.NotEmpty(t, bag.Items())
}

func TestCheckArgCountMismatch(t *testing.T) {
	_, bag := analyze(t, `
		fn add(a: i32, b: i32) -> i32 { return a + b; }
		fn f() -> i32 { return add(1); }
	`, diag.Strict)
	require.NotNil(t, bag.Fatal())
	assert.Equal(t, diag.KindArgCountMismatch, bag.Fatal().Kind)
}

func TestCheckEnsuresBindsResult(t *testing.T) {
	_, bag := analyze(t, `
		fn abs(x: i32) -> i32 [ensures result >= 0] {
			if x < 0 { return -x; }
			return x;
		}
	`, diag.Strict)
	assert.Nil(t, bag.Fatal())
}

func TestCheckDuplicateFunctionIsFatal(t *testing.T) {
	_, bag := analyze(t, `
		fn f() -> () { return; }
		fn f() -> () { return; }
	`, diag.Strict)
	require.NotNil(t, bag.Fatal())
	assert.Equal(t, diag.KindDuplicateDef, bag.Fatal().Kind)
}

func TestCheckCastIntegerToPointer(t *testing.T) {
	_, bag := analyze(t, `fn f(x: i64) -> *i8 { return x as *i8; }`, diag.Strict)
	assert.Nil(t, bag.Fatal())
}

func TestCheckImplMethodCall(t *testing.T) {
	prog, bag := analyze(t, `
		struct Counter { n: i32 }
		impl Counter {
			fn get(self) -> i32 { return self.n; }
		}
		fn f(c: Counter) -> i32 { return c.get(); }
	`, diag.Strict)
	assert.Nil(t, bag.Fatal())
	require.Contains(t, prog.Funcs, "Counter::get")
}
