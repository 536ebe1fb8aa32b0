package irgen

import (
	"github.com/aetherlang/aethc/internal/ast"
	"github.com/aetherlang/aethc/internal/ir"
	"github.com/aetherlang/aethc/internal/rtype"
)

func (fgen *funcGen) lowerBlock(b *ast.Block) {
	for _, s := range b.Stmts {
		fgen.lowerStmt(s)
	}
}

func (fgen *funcGen) lowerStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Let:
		fgen.lowerLet(n)
	case *ast.ExprStmt:
		fgen.lowerExpr(n.X)
	case *ast.Return:
		fgen.lowerReturn(n)
	case *ast.Break:
		if len(fgen.breakTargets) > 0 {
			fgen.jumpTo(fgen.fn.Block(fgen.breakTargets[len(fgen.breakTargets)-1]))
		}
	case *ast.Continue:
		if len(fgen.continueTargets) > 0 {
			fgen.jumpTo(fgen.fn.Block(fgen.continueTargets[len(fgen.continueTargets)-1]))
		}
	case *ast.Empty:
		// nothing to lower
	}
}

// lowerLet implements §4.5's "evaluate e to v, allocate a fresh
// register r, emit assign r = v, record (x -> r, type)".
func (fgen *funcGen) lowerLet(n *ast.Let) {
	if n.Init == nil {
		rt := fgen.g.exprDeclaredType(n)
		elemT := toIRType(rt)
		r := fgen.freshReg()
		fgen.cur.Append(&ir.Alloca{DestReg: r, ElemT: elemT})
		fgen.locals[n.Name] = local{reg: r, typ: ir.NewPointer(elemT), rt: rt, isAlloc: true}
		return
	}
	rt := fgen.g.prog.TypeOf(n.Init)
	v := fgen.lowerExpr(n.Init)
	if rt.Kind == rtype.Struct {
		// Struct values already flow as a pointer to their own storage
		// (their alloca, or a pointer passed through from a call/field).
		fgen.locals[n.Name] = local{reg: v.Reg, typ: v.Type, rt: rt, isAlloc: true}
		return
	}
	r := fgen.freshReg()
	it := toIRType(rt)
	fgen.cur.Append(&ir.Assign{DestReg: r, Value: v, ResultT: it})
	fgen.locals[n.Name] = local{reg: r, typ: it, rt: rt}
}

func (fgen *funcGen) lowerReturn(n *ast.Return) {
	if n.Value == nil {
		fgen.cur.Term = &ir.Terminator{Kind: ir.TermReturn}
		return
	}
	v := fgen.lowerExpr(n.Value)
	v = fgen.castIfIntMismatch(v, fgen.fn.Ret)
	fgen.cur.Term = &ir.Terminator{Kind: ir.TermReturn, Value: &v}
}

// castIfIntMismatch implements the "if the return-type and the
// returned value's integer types differ, emit a cast first" rule
// (also reused for call-argument unification).
func (fgen *funcGen) castIfIntMismatch(v ir.Value, target *ir.Type) ir.Value {
	if v.Type == nil || target == nil {
		return v
	}
	if !v.Type.IsInteger() || !target.IsInteger() {
		return v
	}
	if v.Type.Kind == target.Kind {
		return v
	}
	r := fgen.freshReg()
	fgen.cur.Append(&ir.Cast{DestReg: r, Value: v, ToT: target})
	return ir.Reg(r, target)
}
