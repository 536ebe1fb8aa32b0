package emit

import (
	"testing"

	"github.com/aetherlang/aethc/internal/ir"
	"github.com/stretchr/testify/assert"
)

func i64T() *ir.Type { return ir.Prim(ir.I64) }

func TestGenerateEmptyFunction(t *testing.T) {
	fn := &ir.Function{Name: "main", Ret: ir.Prim(ir.Void)}
	b := &ir.Block{ID: 0, Term: &ir.Terminator{Kind: ir.TermReturn}}
	fn.Blocks = []*ir.Block{b}
	fn.Entry = 0
	mod := &ir.Module{Name: "test", Funcs: []*ir.Function{fn}}

	out := New(mod, "x86_64-unknown-linux-gnu").Generate()
	assert.Contains(t, out, "void main(void)")
	assert.Contains(t, out, "return;")
}

func TestGenerateReturnsConstant(t *testing.T) {
	fn := &ir.Function{Name: "answer", Ret: i64T()}
	b := &ir.Block{ID: 0}
	v := ir.ConstInt(42, i64T())
	b.Term = &ir.Terminator{Kind: ir.TermReturn, Value: &v}
	fn.Blocks = []*ir.Block{b}
	fn.Entry = 0
	mod := &ir.Module{Name: "test", Funcs: []*ir.Function{fn}}

	out := New(mod, "x86_64-unknown-linux-gnu").Generate()
	assert.Contains(t, out, "return 42LL;")
}

func TestGenerateBinaryExpression(t *testing.T) {
	fn := &ir.Function{Name: "add", Ret: i64T()}
	b := &ir.Block{ID: 0}
	b.Append(&ir.BinOp{DestReg: 0, Op: ir.Add, Left: ir.ConstInt(1, i64T()), Right: ir.ConstInt(2, i64T()), ResultT: i64T()})
	rv := ir.Reg(0, i64T())
	b.Term = &ir.Terminator{Kind: ir.TermReturn, Value: &rv}
	fn.Blocks = []*ir.Block{b}
	fn.Entry = 0
	mod := &ir.Module{Name: "test", Funcs: []*ir.Function{fn}}

	out := New(mod, "x86_64-unknown-linux-gnu").Generate()
	assert.Contains(t, out, "1LL + 2LL")
	assert.Contains(t, out, "int64_t _r0;")
}

func TestGenerateIfBranchesToLabels(t *testing.T) {
	fn := &ir.Function{Name: "test", Ret: ir.Prim(ir.Void)}
	entry := &ir.Block{ID: 0, Label: "entry", Term: &ir.Terminator{Kind: ir.TermBranch, Cond: ir.ConstBool(true), ThenBlk: 1, ElseBlk: 2}}
	thenB := &ir.Block{ID: 1, Label: "if.then", Term: &ir.Terminator{Kind: ir.TermReturn}}
	elseB := &ir.Block{ID: 2, Label: "if.else", Term: &ir.Terminator{Kind: ir.TermReturn}}
	fn.Blocks = []*ir.Block{entry, thenB, elseB}
	fn.Entry = 0
	mod := &ir.Module{Name: "test", Funcs: []*ir.Function{fn}}

	out := New(mod, "x86_64-unknown-linux-gnu").Generate()
	assert.Contains(t, out, "if (1) goto")
	assert.Contains(t, out, "L_if.then_1:")
}

func TestGenerateStructFieldGEPUsesArrow(t *testing.T) {
	layout := &ir.StructLayout{Name: "Point", Fields: []ir.StructField{
		{Name: "x", Type: i64T()}, {Name: "y", Type: i64T()},
	}}
	fn := &ir.Function{Name: "getX", Ret: i64T(), Params: []ir.FuncParam{{Name: "p", Type: ir.NewPointer(ir.NewStruct("Point"))}}}
	b := &ir.Block{ID: 0}
	base := ir.Param(0, ir.NewPointer(ir.NewStruct("Point")))
	baseReg := ir.Reg(0, ir.NewPointer(ir.NewStruct("Point")))
	b.Append(&ir.Assign{DestReg: 0, Value: base, ResultT: ir.NewPointer(ir.NewStruct("Point"))})
	b.Append(&ir.GEP{DestReg: 1, Base: baseReg, FieldName: "x", FieldIdx: 0, ElemT: i64T()})
	b.Append(&ir.Load{DestReg: 2, Ptr: ir.Reg(1, ir.NewPointer(i64T())), ElemT: i64T()})
	rv := ir.Reg(2, i64T())
	b.Term = &ir.Terminator{Kind: ir.TermReturn, Value: &rv}
	fn.Blocks = []*ir.Block{b}
	fn.Entry = 0
	mod := &ir.Module{Name: "test", Structs: []*ir.StructLayout{layout}, Funcs: []*ir.Function{fn}}

	out := New(mod, "x86_64-unknown-linux-gnu").Generate()
	assert.Contains(t, out, "->x;")
}

func TestGenerateStructToStructStoreCopies(t *testing.T) {
	layout := &ir.StructLayout{Name: "Point", Fields: []ir.StructField{{Name: "x", Type: i64T()}}}
	structPtr := ir.NewPointer(ir.NewStruct("Point"))
	fn := &ir.Function{Name: "copy", Ret: ir.Prim(ir.Void)}
	b := &ir.Block{ID: 0}
	b.Append(&ir.Store{Ptr: ir.Reg(0, structPtr), Value: ir.Reg(1, structPtr)})
	b.Term = &ir.Terminator{Kind: ir.TermReturn}
	fn.Blocks = []*ir.Block{b}
	fn.Entry = 0
	mod := &ir.Module{Name: "test", Structs: []*ir.StructLayout{layout}, Funcs: []*ir.Function{fn}}

	e := New(mod, "x86_64-unknown-linux-gnu")
	e.regType = map[int]*ir.Type{0: structPtr, 1: structPtr}
	e.writeStore(&ir.Store{Ptr: ir.Reg(0, structPtr), Value: ir.Reg(1, structPtr)}, nil)
	assert.Contains(t, e.sb.String(), "*_r0 = *_r1;")
}

func TestGenerateBuiltinPrintCallsRuntimeShim(t *testing.T) {
	fn := &ir.Function{Name: "hello", Ret: ir.Prim(ir.Void)}
	b := &ir.Block{ID: 0}
	b.Append(&ir.Call{DestReg: -1, Fn: "print", Args: []ir.Value{ir.ConstString("hi")}, ResultT: ir.Prim(ir.Void)})
	b.Term = &ir.Terminator{Kind: ir.TermReturn}
	fn.Blocks = []*ir.Block{b}
	fn.Entry = 0
	mod := &ir.Module{Name: "test", Funcs: []*ir.Function{fn}}

	out := New(mod, "x86_64-unknown-linux-gnu").Generate()
	assert.Contains(t, out, "aether_print(")
	assert.Contains(t, out, "static void aether_print(const char* s)")
}

func TestVectorTypeMapsToNEONOnARM(t *testing.T) {
	v := ir.NewVector(ir.Prim(ir.F32), 4)
	assert.Equal(t, "float32x4_t", cType(v, "aarch64-apple-darwin"))
	assert.Equal(t, "__m128", cType(v, "x86_64-unknown-linux-gnu"))
}

func TestPackedStructGetsAttribute(t *testing.T) {
	layout := &ir.StructLayout{Name: "Packed", Packed: true, Fields: []ir.StructField{{Name: "a", Type: ir.Prim(ir.I8)}}}
	mod := &ir.Module{Name: "test", Structs: []*ir.StructLayout{layout}}
	out := New(mod, "x86_64-unknown-linux-gnu").Generate()
	assert.Contains(t, out, "struct Packed __attribute__((packed)) {")
}
