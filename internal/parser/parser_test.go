package parser

import (
	"testing"

	"github.com/aetherlang/aethc/internal/ast"
	"github.com/aetherlang/aethc/internal/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks := lexer.New().Tokenize(src, 0)
	prog, err := Parse(toks, 0)
	require.Nil(t, err, "unexpected parse error: %v", err)
	require.NotNil(t, prog)
	return prog
}

func TestParseSimpleFunction(t *testing.T) {
	prog := parse(t, `fn add(a: i32, b: i32) -> i32 { return a + b; }`)
	require.Len(t, prog.Items, 1)
	fn, ok := prog.Items[0].(*ast.Function)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Len(t, fn.Params, 2)
	assert.Len(t, fn.Body.Stmts, 1)
}

func TestParseFunctionWithContractsAndEffects(t *testing.T) {
	prog := parse(t, `fn div(a: i32, b: i32) -> i32
		[requires b != 0, ensures result >= 0]
		effect[io] {
			return a / b;
		}`)
	fn := prog.Items[0].(*ast.Function)
	require.Len(t, fn.Contracts, 2)
	assert.Equal(t, ast.Requires, fn.Contracts[0].Kind)
	assert.Equal(t, ast.Ensures, fn.Contracts[1].Kind)
	assert.True(t, fn.Effects.Declared)
	assert.Equal(t, []ast.Effect{"io"}, fn.Effects.Effects)
}

func TestParsePureFunction(t *testing.T) {
	prog := parse(t, `fn id(x: i32) -> i32 pure { return x; }`)
	fn := prog.Items[0].(*ast.Function)
	assert.True(t, fn.Effects.Pure)
}

func TestParseStructWithInvariant(t *testing.T) {
	prog := parse(t, `struct Point { x: f64, y: f64, invariant x >= 0.0 }`)
	st := prog.Items[0].(*ast.Struct)
	assert.Equal(t, "Point", st.Name)
	require.Len(t, st.Fields, 2)
	require.Len(t, st.Invariants, 1)
}

func TestParseEnumWithPayload(t *testing.T) {
	prog := parse(t, `enum Option { Some(i32), None }`)
	en := prog.Items[0].(*ast.Enum)
	require.Len(t, en.Variants, 2)
	assert.Len(t, en.Variants[0].Fields, 1)
	assert.Len(t, en.Variants[1].Fields, 0)
}

func TestParseOwnershipTypes(t *testing.T) {
	prog := parse(t, `fn take(p: own Box, r: &mut i32, s: shared List) -> *i32 { return r; }`)
	fn := prog.Items[0].(*ast.Function)
	_, ok := fn.Params[0].Type.(*ast.OwnedType)
	assert.True(t, ok)
	_, ok = fn.Params[1].Type.(*ast.ReferenceType)
	assert.True(t, ok)
	_, ok = fn.Params[2].Type.(*ast.OwnedType)
	assert.True(t, ok)
	_, ok = fn.Return.(*ast.PointerType)
	assert.True(t, ok)
}

func TestParseArrayAndSliceTypes(t *testing.T) {
	prog := parse(t, `fn f(a: [i32; 4], b: [i32]) -> () { return; }`)
	fn := prog.Items[0].(*ast.Function)
	arr, ok := fn.Params[0].Type.(*ast.ArrayType)
	require.True(t, ok)
	assert.Equal(t, int64(4), arr.Size)
	_, ok = fn.Params[1].Type.(*ast.SliceType)
	assert.True(t, ok)
}

func TestParseIfElseIfChain(t *testing.T) {
	prog := parse(t, `fn f(x: i32) -> i32 {
		if x > 0 { return 1; } else if x < 0 { return -1; } else { return 0; }
	}`)
	fn := prog.Items[0].(*ast.Function)
	stmt := fn.Body.Stmts[0].(*ast.ExprStmt)
	ifExpr := stmt.X.(*ast.If)
	_, ok := ifExpr.Else.(*ast.If)
	assert.True(t, ok)
}

func TestParseMatchExpression(t *testing.T) {
	prog := parse(t, `fn f(x: i32) -> i32 {
		return match x {
			0 => 1,
			n if n > 0 => n,
			_ => -1,
		};
	}`)
	fn := prog.Items[0].(*ast.Function)
	ret := fn.Body.Stmts[0].(*ast.Return)
	m := ret.Value.(*ast.Match)
	require.Len(t, m.Arms, 3)
	assert.NotNil(t, m.Arms[1].Guard)
}

func TestParseBinaryPrecedence(t *testing.T) {
	prog := parse(t, `fn f() -> i32 { return 1 + 2 * 3 == 7 && true; }`)
	fn := prog.Items[0].(*ast.Function)
	ret := fn.Body.Stmts[0].(*ast.Return)
	top := ret.Value.(*ast.Binary)
	assert.Equal(t, ast.BinOp("&&"), top.Op)
	eq := top.Left.(*ast.Binary)
	assert.Equal(t, ast.BinOp("=="), eq.Op)
	add := eq.Left.(*ast.Binary)
	assert.Equal(t, ast.BinOp("+"), add.Op)
	mul := add.Right.(*ast.Binary)
	assert.Equal(t, ast.BinOp("*"), mul.Op)
}

func TestParseAssignmentRightAssociative(t *testing.T) {
	prog := parse(t, `fn f() -> () { let mut a: i32 = 0; let mut b: i32 = 0; a = b = 1; return; }`)
	fn := prog.Items[0].(*ast.Function)
	stmt := fn.Body.Stmts[2].(*ast.ExprStmt)
	assign := stmt.X.(*ast.Binary)
	assert.Equal(t, ast.BinOp("="), assign.Op)
	_, ok := assign.Right.(*ast.Binary)
	assert.True(t, ok)
}

func TestParseStructLiteralVsBlockDisambiguation(t *testing.T) {
	prog := parse(t, `fn f() -> Point { let p: Point = Point { x: 1, y: 2 }; if p.x > 0 { return p; } return p; }`)
	fn := prog.Items[0].(*ast.Function)
	let := fn.Body.Stmts[0].(*ast.Let)
	lit, ok := let.Init.(*ast.StructLit)
	require.True(t, ok)
	assert.Equal(t, "Point", lit.Name)
	require.Len(t, lit.Fields, 2)

	ifStmt := fn.Body.Stmts[1].(*ast.ExprStmt)
	ifExpr := ifStmt.X.(*ast.If)
	assert.Len(t, ifExpr.Then.Stmts, 1)
}

func TestParsePostfixChaining(t *testing.T) {
	prog := parse(t, `fn f(p: Point) -> i32 { return p.vec[0].len()?; }`)
	fn := prog.Items[0].(*ast.Function)
	ret := fn.Body.Stmts[0].(*ast.Return)
	tryExpr := ret.Value.(*ast.Try)
	_, ok := tryExpr.X.(*ast.MethodCall)
	assert.True(t, ok)
}

func TestParseCastBindsTighterThanBinary(t *testing.T) {
	prog := parse(t, `fn f(x: i32) -> i64 { return x as i64 + 1; }`)
	fn := prog.Items[0].(*ast.Function)
	ret := fn.Body.Stmts[0].(*ast.Return)
	bin := ret.Value.(*ast.Binary)
	_, ok := bin.Left.(*ast.Cast)
	assert.True(t, ok)
}

func TestParseUnsafeBlockWithHeader(t *testing.T) {
	prog := parse(t, `fn f(p: *i32) -> i32 {
		return unsafe(reason="raw pointer deref", verifier="j.doe") { *p };
	}`)
	fn := prog.Items[0].(*ast.Function)
	ret := fn.Body.Stmts[0].(*ast.Return)
	u := ret.Value.(*ast.Unsafe)
	assert.Equal(t, "raw pointer deref", u.Reason)
	assert.Equal(t, "j.doe", u.Verifier)
}

func TestParseExternBlock(t *testing.T) {
	prog := parse(t, `extern "C" { fn puts(s: *i8) -> i32; static errno: i32; }`)
	ext := prog.Items[0].(*ast.ExternBlock)
	assert.Equal(t, "C", ext.ABI)
	require.Len(t, ext.Funcs, 1)
	require.Len(t, ext.Statics, 1)
}

func TestParseImplBlock(t *testing.T) {
	prog := parse(t, `impl Point { fn len(self) -> f64 { return 0.0; } }`)
	impl := prog.Items[0].(*ast.Impl)
	assert.Equal(t, "Point", impl.TypeName)
	require.Len(t, impl.Methods, 1)
	assert.Equal(t, "len", impl.Methods[0].Name)
}

func TestParseUseDeclaration(t *testing.T) {
	prog := parse(t, `use std::collections::HashMap;`)
	use := prog.Items[0].(*ast.Use)
	assert.Equal(t, []string{"std", "collections", "HashMap"}, use.Path)
}

func TestParseForAndWhileLoops(t *testing.T) {
	prog := parse(t, `fn f() -> () {
		for i in 0..10 { }
		while true { }
		return;
	}`)
	fn := prog.Items[0].(*ast.Function)
	forStmt := fn.Body.Stmts[0].(*ast.ExprStmt)
	forExpr := forStmt.X.(*ast.For)
	assert.Equal(t, "i", forExpr.Binder)
	rng := forExpr.Iter.(*ast.Range)
	assert.False(t, rng.Inclusive)

	whileStmt := fn.Body.Stmts[1].(*ast.ExprStmt)
	_, ok := whileStmt.X.(*ast.While)
	assert.True(t, ok)
}

func TestParseAttributeOnStruct(t *testing.T) {
	prog := parse(t, `#[repr(packed)] struct Flags { bits: i32 }`)
	st := prog.Items[0].(*ast.Struct)
	assert.Equal(t, ast.ReprPacked, st.Repr)
}

func TestParseUnexpectedTokenProducesDiagnostic(t *testing.T) {
	toks := lexer.New().Tokenize(`fn f( -> i32 { return 0; }`, 0)
	_, err := Parse(toks, 0)
	require.NotNil(t, err)
	assert.NotEmpty(t, err.Message)
}
