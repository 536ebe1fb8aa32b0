package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeEmitsIndentAndDedent(t *testing.T) {
	src := "def main():\n    pass\n    return 0\n"
	toks, err := Tokenize(src)
	require.NoError(t, err)

	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Contains(t, kinds, Indent)
	assert.Contains(t, kinds, Dedent)
	assert.Equal(t, Eof, kinds[len(kinds)-1])
}

func TestTokenizeMismatchedIndentationIsHardError(t *testing.T) {
	src := "def main():\n    if x:\n        pass\n   return 0\n"
	_, err := Tokenize(src)
	assert.Error(t, err)
}

func TestParseSimpleFunction(t *testing.T) {
	mod, err := Parse("def main(args: List[str]) -> int:\n    print(\"Hello\")\n    return 0\n")
	require.NoError(t, err)
	require.Len(t, mod.Stmts, 1)
	fn, ok := mod.Stmts[0].(*FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "main", fn.Name)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "args", fn.Params[0].Name)
	require.NotNil(t, fn.ReturnType)
	require.Len(t, fn.Body, 2)
}

func TestParseIfElifElseDesugarsToNestedIf(t *testing.T) {
	src := "def f():\n    if x:\n        pass\n    elif y:\n        pass\n    else:\n        pass\n"
	mod, err := Parse(src)
	require.NoError(t, err)
	fn := mod.Stmts[0].(*FunctionDef)
	ifs := fn.Body[0].(*IfStmt)
	require.Len(t, ifs.Else, 1)
	nested, ok := ifs.Else[0].(*IfStmt)
	require.True(t, ok)
	require.NotNil(t, nested.Else)
}

func TestParseWhileAndFor(t *testing.T) {
	src := "def f():\n    while x:\n        pass\n    for y in z:\n        pass\n"
	mod, err := Parse(src)
	require.NoError(t, err)
	fn := mod.Stmts[0].(*FunctionDef)
	require.Len(t, fn.Body, 2)
	_, isWhile := fn.Body[0].(*WhileStmt)
	assert.True(t, isWhile)
	forStmt, isFor := fn.Body[1].(*ForStmt)
	require.True(t, isFor)
	assert.Equal(t, "y", forStmt.Var)
}

func TestParseBinaryPrecedence(t *testing.T) {
	mod, err := Parse("def f():\n    return 1 + 2 * 3\n")
	require.NoError(t, err)
	fn := mod.Stmts[0].(*FunctionDef)
	ret := fn.Body[0].(*ReturnStmt)
	bin, ok := ret.Value.(*Binary)
	require.True(t, ok)
	assert.Equal(t, OpAdd, bin.Op)
	rhs, ok := bin.Right.(*Binary)
	require.True(t, ok)
	assert.Equal(t, OpMul, rhs.Op)
}

func TestTranspileSimpleFunction(t *testing.T) {
	out, err := Transpile("def greet(name: str) -> str:\n    return name\n")
	require.NoError(t, err)
	assert.Contains(t, out, "fn greet")
	assert.Contains(t, out, "name: *u8")
	assert.Contains(t, out, "-> *u8")
	assert.Contains(t, out, `extern "C"`)
	assert.Contains(t, out, "fn puts")
}

func TestTranspilePrintMapsToPuts(t *testing.T) {
	out, err := Transpile("def main():\n    print(\"hi\")\n")
	require.NoError(t, err)
	assert.Contains(t, out, "puts(")
}

func TestTranspileAssignInfersType(t *testing.T) {
	out, err := Transpile("def f():\n    x = 1\n    y = 1 == 2\n    return x\n")
	require.NoError(t, err)
	assert.Contains(t, out, "let x: i64 = 1;")
	assert.Contains(t, out, "let y: bool = (1 == 2);")
}

func TestTranspileMainGetsI32ReturnWhenUnannotated(t *testing.T) {
	out, err := Transpile("def main():\n    return 0\n")
	require.NoError(t, err)
	assert.Contains(t, out, "fn main() -> i32")
}
