package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintSimpleFunction(t *testing.T) {
	fn := &Function{
		Name:   "add",
		Params: []FuncParam{{Name: "a", Type: Prim(I32)}, {Name: "b", Type: Prim(I32)}},
		Ret:    Prim(I32),
		Entry:  0,
		Blocks: []*Block{
			{
				ID:    0,
				Label: "entry",
				Instrs: []Instr{
					&BinOp{DestReg: 2, Op: Add, Left: Reg(0, Prim(I32)), Right: Reg(1, Prim(I32)), ResultT: Prim(I32)},
				},
				Term: &Terminator{Kind: TermReturn, Value: ptrVal(Reg(2, Prim(I32)))},
			},
		},
	}
	mod := &Module{Name: "m", Funcs: []*Function{fn}}
	out := Print(mod)
	assert.True(t, strings.Contains(out, "fn add(a: i32, b: i32) -> i32"))
	assert.True(t, strings.Contains(out, "%r2 = %r0 + %r1"))
	assert.True(t, strings.Contains(out, "return %r2;"))
}

func TestTypeByteSize(t *testing.T) {
	assert.Equal(t, 4, Prim(I32).ByteSize())
	assert.Equal(t, 8, NewPointer(Prim(I8)).ByteSize())
	assert.Equal(t, 40, NewArray(Prim(I64), 5).ByteSize())
}

func TestBinOpIsComparison(t *testing.T) {
	assert.True(t, Eq.IsComparison())
	assert.False(t, Add.IsComparison())
}

func ptrVal(v Value) *Value { return &v }
