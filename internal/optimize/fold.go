package optimize

import (
	"math"

	"github.com/aetherlang/aethc/internal/ir"
)

// foldConstants implements §4.6's constant-folding and
// algebraic-simplification passes: a BinOp with two same-kind
// constant operands is evaluated at compile time (integer arithmetic
// checked, overflow leaves the instruction untouched); failing that,
// the fixed algebraic-identity table rewrites the binop to an assign.
func foldConstants(fn *ir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		for i, instr := range b.Instrs {
			bo, ok := instr.(*ir.BinOp)
			if !ok {
				continue
			}
			if v, ok := evalConstBinOp(bo); ok {
				b.Instrs[i] = &ir.Assign{DestReg: bo.DestReg, Value: v, ResultT: bo.ResultT}
				changed = true
				continue
			}
			if v, ok := simplifyAlgebraic(bo); ok {
				b.Instrs[i] = &ir.Assign{DestReg: bo.DestReg, Value: v, ResultT: bo.ResultT}
				changed = true
			}
		}
	}
	return changed
}

// evalConstBinOp evaluates bo if both operands are constants of the
// same kind. Integer overflow aborts the fold (the instruction is
// left untouched, so the only caller must check the ok result).
func evalConstBinOp(bo *ir.BinOp) (ir.Value, bool) {
	l, r := bo.Left, bo.Right
	if !l.IsConst() || !r.IsConst() || l.Kind != r.Kind {
		return ir.Value{}, false
	}
	switch l.Kind {
	case ir.VConstInt:
		return evalConstInt(bo.Op, l.IntVal, r.IntVal, bo.ResultT)
	case ir.VConstFloat:
		return evalConstFloat(bo.Op, l.FloatVal, r.FloatVal, bo.ResultT)
	case ir.VConstBool:
		return evalConstBool(bo.Op, l.BoolVal, r.BoolVal)
	}
	return ir.Value{}, false
}

func evalConstInt(op ir.BinOpKind, l, r int64, resultT *ir.Type) (ir.Value, bool) {
	switch op {
	case ir.Add:
		sum := l + r
		if (r > 0 && sum < l) || (r < 0 && sum > l) {
			return ir.Value{}, false // overflow
		}
		return ir.ConstInt(sum, resultT), true
	case ir.Sub:
		diff := l - r
		if (r < 0 && diff < l) || (r > 0 && diff > l) {
			return ir.Value{}, false
		}
		return ir.ConstInt(diff, resultT), true
	case ir.Mul:
		if l == 0 || r == 0 {
			return ir.ConstInt(0, resultT), true
		}
		prod := l * r
		if prod/l != r {
			return ir.Value{}, false // overflow
		}
		return ir.ConstInt(prod, resultT), true
	case ir.Div:
		if r == 0 {
			return ir.Value{}, false
		}
		return ir.ConstInt(l/r, resultT), true
	case ir.Mod:
		if r == 0 {
			return ir.Value{}, false
		}
		return ir.ConstInt(l%r, resultT), true
	case ir.Eq:
		return ir.ConstBool(l == r), true
	case ir.Neq:
		return ir.ConstBool(l != r), true
	case ir.Lt:
		return ir.ConstBool(l < r), true
	case ir.Le:
		return ir.ConstBool(l <= r), true
	case ir.Gt:
		return ir.ConstBool(l > r), true
	case ir.Ge:
		return ir.ConstBool(l >= r), true
	case ir.BitAnd:
		return ir.ConstInt(l&r, resultT), true
	case ir.BitOr:
		return ir.ConstInt(l|r, resultT), true
	case ir.BitXor:
		return ir.ConstInt(l^r, resultT), true
	case ir.Shl:
		return ir.ConstInt(l<<uint(r), resultT), true
	case ir.Shr:
		return ir.ConstInt(l>>uint(r), resultT), true
	}
	return ir.Value{}, false
}

// floatEpsilon is the machine epsilon used for ==/!= folding, per
// §4.6 ("Float comparisons use an epsilon of machine-epsilon").
const floatEpsilon = 2.220446049250313e-16

func evalConstFloat(op ir.BinOpKind, l, r float64, resultT *ir.Type) (ir.Value, bool) {
	switch op {
	case ir.Add:
		return ir.ConstFloat(l+r, resultT), true
	case ir.Sub:
		return ir.ConstFloat(l-r, resultT), true
	case ir.Mul:
		return ir.ConstFloat(l*r, resultT), true
	case ir.Div:
		if r == 0 {
			return ir.Value{}, false
		}
		return ir.ConstFloat(l/r, resultT), true
	case ir.Eq:
		return ir.ConstBool(math.Abs(l-r) <= floatEpsilon), true
	case ir.Neq:
		return ir.ConstBool(math.Abs(l-r) > floatEpsilon), true
	case ir.Lt:
		return ir.ConstBool(l < r), true
	case ir.Le:
		return ir.ConstBool(l <= r), true
	case ir.Gt:
		return ir.ConstBool(l > r), true
	case ir.Ge:
		return ir.ConstBool(l >= r), true
	}
	return ir.Value{}, false
}

func evalConstBool(op ir.BinOpKind, l, r bool) (ir.Value, bool) {
	switch op {
	case ir.And:
		return ir.ConstBool(l && r), true
	case ir.Or:
		return ir.ConstBool(l || r), true
	case ir.Eq:
		return ir.ConstBool(l == r), true
	case ir.Neq:
		return ir.ConstBool(l != r), true
	}
	return ir.Value{}, false
}

// simplifyAlgebraic applies §4.6's identity table: x+0=x, 0+x=x,
// x-0=x, x*1=x, 1*x=x, x/1=x, x*0=0, 0*x=0, x|0=x, x^0=x, x&0=0.
func simplifyAlgebraic(bo *ir.BinOp) (ir.Value, bool) {
	l, r := bo.Left, bo.Right
	switch bo.Op {
	case ir.Add:
		if isIntZero(r) {
			return l, true
		}
		if isIntZero(l) {
			return r, true
		}
	case ir.Sub:
		if isIntZero(r) {
			return l, true
		}
	case ir.Mul:
		if isIntOne(r) {
			return l, true
		}
		if isIntOne(l) {
			return r, true
		}
		if isIntZero(r) || isIntZero(l) {
			return ir.ConstInt(0, bo.ResultT), true
		}
	case ir.Div:
		if isIntOne(r) {
			return l, true
		}
	case ir.BitOr:
		if isIntZero(r) {
			return l, true
		}
	case ir.BitXor:
		if isIntZero(r) {
			return l, true
		}
	case ir.BitAnd:
		if isIntZero(r) || isIntZero(l) {
			return ir.ConstInt(0, bo.ResultT), true
		}
	}
	return ir.Value{}, false
}

func isIntZero(v ir.Value) bool { return v.Kind == ir.VConstInt && v.IntVal == 0 }
func isIntOne(v ir.Value) bool  { return v.Kind == ir.VConstInt && v.IntVal == 1 }
