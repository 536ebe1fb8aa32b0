package optimize

import (
	"testing"

	"github.com/aetherlang/aethc/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i64() *ir.Type { return ir.Prim(ir.I64) }

func TestFoldConstantsAddsIntegers(t *testing.T) {
	fn := &ir.Function{Ret: i64()}
	b := &ir.Block{ID: 0}
	b.Append(&ir.BinOp{DestReg: 0, Op: ir.Add, Left: ir.ConstInt(2, i64()), Right: ir.ConstInt(3, i64()), ResultT: i64()})
	b.Term = &ir.Terminator{Kind: ir.TermReturn, Value: valPtr(ir.Reg(0, i64()))}
	fn.Blocks = []*ir.Block{b}
	fn.Entry = 0

	changed := foldConstants(fn)
	assert.True(t, changed)
	assign, ok := b.Instrs[0].(*ir.Assign)
	require.True(t, ok)
	assert.Equal(t, int64(5), assign.Value.IntVal)
}

func TestFoldConstantsLeavesOverflowingAddUntouched(t *testing.T) {
	fn := &ir.Function{Ret: i64()}
	b := &ir.Block{ID: 0}
	huge := int64(1) << 62
	b.Append(&ir.BinOp{DestReg: 0, Op: ir.Add, Left: ir.ConstInt(huge, i64()), Right: ir.ConstInt(huge, i64()), ResultT: i64()})
	fn.Blocks = []*ir.Block{b}
	fn.Entry = 0

	changed := foldConstants(fn)
	assert.False(t, changed)
	_, stillBinOp := b.Instrs[0].(*ir.BinOp)
	assert.True(t, stillBinOp)
}

func TestAlgebraicSimplificationAddZero(t *testing.T) {
	fn := &ir.Function{Ret: i64()}
	b := &ir.Block{ID: 0}
	b.Append(&ir.BinOp{DestReg: 0, Op: ir.Add, Left: ir.Reg(1, i64()), Right: ir.ConstInt(0, i64()), ResultT: i64()})
	fn.Blocks = []*ir.Block{b}
	fn.Entry = 0

	changed := foldConstants(fn)
	assert.True(t, changed)
	assign, ok := b.Instrs[0].(*ir.Assign)
	require.True(t, ok)
	assert.Equal(t, ir.VRegister, assign.Value.Kind)
	assert.Equal(t, 1, assign.Value.Reg)
}

func TestAlgebraicSimplificationMulZero(t *testing.T) {
	fn := &ir.Function{Ret: i64()}
	b := &ir.Block{ID: 0}
	b.Append(&ir.BinOp{DestReg: 0, Op: ir.Mul, Left: ir.Reg(1, i64()), Right: ir.ConstInt(0, i64()), ResultT: i64()})
	fn.Blocks = []*ir.Block{b}
	fn.Entry = 0

	changed := foldConstants(fn)
	assert.True(t, changed)
	assign, ok := b.Instrs[0].(*ir.Assign)
	require.True(t, ok)
	assert.Equal(t, int64(0), assign.Value.IntVal)
}

func TestSimplifyBranchesConstantTrueBecomesJump(t *testing.T) {
	fn := &ir.Function{}
	entry := &ir.Block{ID: 0, Term: &ir.Terminator{Kind: ir.TermBranch, Cond: ir.ConstBool(true), ThenBlk: 1, ElseBlk: 2}}
	thenB := &ir.Block{ID: 1, Term: &ir.Terminator{Kind: ir.TermReturn}}
	elseB := &ir.Block{ID: 2, Term: &ir.Terminator{Kind: ir.TermReturn}}
	fn.Blocks = []*ir.Block{entry, thenB, elseB}
	fn.Entry = 0

	changed := simplifyBranches(fn)
	assert.True(t, changed)
	assert.Equal(t, ir.TermJump, entry.Term.Kind)
	assert.Equal(t, 1, entry.Term.Target)
}

func TestClearDeadBlocksPreservesIndicesButClearsContent(t *testing.T) {
	fn := &ir.Function{}
	entry := &ir.Block{ID: 0, Term: &ir.Terminator{Kind: ir.TermJump, Target: 1}}
	live := &ir.Block{ID: 1, Term: &ir.Terminator{Kind: ir.TermReturn}}
	dead := &ir.Block{ID: 2}
	dead.Append(&ir.Assign{DestReg: 5, Value: ir.ConstInt(1, i64()), ResultT: i64()})
	dead.Term = &ir.Terminator{Kind: ir.TermReturn}
	fn.Blocks = []*ir.Block{entry, live, dead}
	fn.Entry = 0

	changed := clearDeadBlocks(fn)
	assert.True(t, changed)
	require.Len(t, fn.Blocks, 3)
	assert.Equal(t, 2, fn.Blocks[2].ID)
	assert.Empty(t, fn.Blocks[2].Instrs)
	assert.Equal(t, ir.TermUnreachable, fn.Blocks[2].Term.Kind)
}

func TestRunReachesFixedPointWithinCap(t *testing.T) {
	mod := &ir.Module{Name: "test"}
	fn := &ir.Function{Name: "f", Ret: i64()}
	b := &ir.Block{ID: 0}
	b.Append(&ir.BinOp{DestReg: 0, Op: ir.Add, Left: ir.ConstInt(1, i64()), Right: ir.ConstInt(1, i64()), ResultT: i64()})
	b.Term = &ir.Terminator{Kind: ir.TermReturn, Value: valPtr(ir.Reg(0, i64()))}
	fn.Blocks = []*ir.Block{b}
	fn.Entry = 0
	mod.Funcs = []*ir.Function{fn}

	assert.NotPanics(t, func() { Run(mod) })
	assign, ok := b.Instrs[0].(*ir.Assign)
	require.True(t, ok)
	assert.Equal(t, int64(2), assign.Value.IntVal)
}

func valPtr(v ir.Value) *ir.Value { return &v }
