package sema

import (
	"strconv"

	"github.com/aetherlang/aethc/internal/ast"
	"github.com/aetherlang/aethc/internal/diag"
	"github.com/aetherlang/aethc/internal/ownership"
	"github.com/aetherlang/aethc/internal/rtype"
	"github.com/aetherlang/aethc/internal/span"
	"github.com/aetherlang/aethc/internal/symtab"
)

// checkExpr type-checks x, records its resolved type in a.types, and
// returns that type.
func (a *Analyzer) checkExpr(x ast.Expr) *rtype.Type {
	t := a.checkExprInner(x)
	a.types[x] = t
	return t
}

func (a *Analyzer) checkExprInner(x ast.Expr) *rtype.Type {
	switch n := x.(type) {
	case *ast.Literal:
		return a.checkLiteral(n)
	case *ast.Ident:
		return a.checkIdent(n)
	case *ast.Path:
		return a.checkPath(n)
	case *ast.Binary:
		return a.checkBinary(n)
	case *ast.Unary:
		return a.checkExpr(n.X)
	case *ast.Call:
		return a.checkCall(n)
	case *ast.Field:
		return a.checkField(n)
	case *ast.MethodCall:
		return a.checkMethodCall(n)
	case *ast.Index:
		return a.checkIndex(n)
	case *ast.If:
		return a.checkIf(n)
	case *ast.Match:
		return a.checkMatch(n)
	case *ast.Loop:
		a.checkBlock(n.Body)
		return unitType()
	case *ast.While:
		a.checkExpr(n.Cond)
		a.checkBlock(n.Body)
		return unitType()
	case *ast.For:
		a.checkFor(n)
		return unitType()
	case *ast.StructLit:
		return a.checkStructLit(n)
	case *ast.ArrayLit:
		return a.checkArrayLit(n)
	case *ast.TupleLit:
		elems := make([]*rtype.Type, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = a.checkExpr(e)
		}
		return rtype.NewTuple(elems)
	case *ast.Ref:
		return a.checkRef(n)
	case *ast.Deref:
		return a.checkDeref(n)
	case *ast.Cast:
		return a.checkCast(n)
	case *ast.Range:
		if n.Start != nil {
			a.checkExpr(n.Start)
		}
		if n.End != nil {
			a.checkExpr(n.End)
		}
		return rtype.NewUnknown()
	case *ast.Unsafe:
		a.checkBlock(n.Body)
		return unitType()
	case *ast.Asm:
		for _, op := range n.Operands {
			if op.Expr != nil {
				a.checkExpr(op.Expr)
			}
		}
		return unitType()
	case *ast.Try:
		return a.checkExpr(n.X)
	case *ast.Closure:
		// Parsed but unsupported past this point: closures have no IR lowering yet.
		a.scope = a.scope.Push()
		for _, p := range n.Params {
			a.scope.Define(&symtab.Symbol{Name: p.Name, Kind: symtab.KindParameter})
		}
		t := a.checkExpr(n.Body)
		a.scope = a.scope.Pop()
		params := make([]*rtype.Type, len(n.Params))
		for i := range n.Params {
			params[i] = rtype.NewUnknown()
		}
		return rtype.NewFunction(params, t)
	case *ast.Block:
		return a.checkBlockExpr(n)
	default:
		return rtype.NewUnknown()
	}
}

// checkBlockExpr checks a block used in expression position (if
// branches, block-bodied match arms, bare blocks), yielding its final
// expression statement's type.
func (a *Analyzer) checkBlockExpr(b *ast.Block) *rtype.Type {
	a.scope = a.scope.Push()
	parentOwn := a.own
	a.own = ownership.NewScope(parentOwn)
	var last *rtype.Type = unitType()
	for i, s := range b.Stmts {
		if es, ok := s.(*ast.ExprStmt); ok && i == len(b.Stmts)-1 {
			last = a.checkExpr(es.X)
			continue
		}
		a.checkStmt(s)
	}
	a.own.Release()
	a.own = parentOwn
	a.scope = a.scope.Pop()
	return last
}

func (a *Analyzer) checkLiteral(n *ast.Literal) *rtype.Type {
	switch n.Kind {
	case ast.LitInt:
		return rtype.NewPrim(rtype.I64)
	case ast.LitFloat:
		return rtype.NewPrim(rtype.F64)
	case ast.LitString:
		return rtype.NewString()
	case ast.LitChar:
		return rtype.NewPrim(rtype.Char)
	case ast.LitBool:
		return rtype.NewPrim(rtype.Bool)
	}
	return rtype.NewUnknown()
}

// checkIdent resolves a bare identifier reference as a place
// expression: it fails if the name was already moved, but (unlike
// checkValueUse) does not itself consume the binding. Reading through
// a name to reach one of its fields, or taking a reference to it,
// does not move it; only a genuine by-value use does.
func (a *Analyzer) checkIdent(n *ast.Ident) *rtype.Type {
	sym, ok := a.scope.Lookup(n.Name)
	if !ok {
		a.bag.Add(diag.At(diag.KindUndefinedVariable, diag.Fatal, n.Span, "undefined variable %q", n.Name))
		return rtype.NewUnknown()
	}
	if sym.Kind == symtab.KindVariable || sym.Kind == symtab.KindParameter {
		if k := a.own.CheckMoved(n.Name); k != nil {
			a.bag.Add(diag.At(*k, diag.Fatal, n.Span, "%s: %q", *k, n.Name))
		}
	}
	if sym.Type != nil {
		return sym.Type
	}
	if sym.Kind == symtab.KindFunction {
		return rtype.NewFunction(sym.ParamTypes, sym.ReturnType)
	}
	return rtype.NewUnknown()
}

// checkValueUse checks x where it occupies a genuine move position —
// a call argument, a let initializer, a return value, or an
// assignment's right-hand side: moving x is a by-value use at a move
// position. A bare identifier there is consumed; any
// other expression shape (a literal, a field access yielding a
// non-struct value, a freshly constructed value, ...) carries nothing
// to move.
func (a *Analyzer) checkValueUse(x ast.Expr) *rtype.Type {
	ident, ok := x.(*ast.Ident)
	if !ok {
		return a.checkExpr(x)
	}
	sym, found := a.scope.Lookup(ident.Name)
	if !found {
		a.bag.Add(diag.At(diag.KindUndefinedVariable, diag.Fatal, ident.Span, "undefined variable %q", ident.Name))
		t := rtype.NewUnknown()
		a.types[x] = t
		return t
	}
	if sym.Kind == symtab.KindVariable || sym.Kind == symtab.KindParameter {
		if k := a.own.Move(ident.Name); k != nil {
			a.bag.Add(diag.At(*k, diag.Fatal, ident.Span, "%s: %q", *k, ident.Name))
		}
	}
	t := sym.Type
	if t == nil {
		if sym.Kind == symtab.KindFunction {
			t = rtype.NewFunction(sym.ParamTypes, sym.ReturnType)
		} else {
			t = rtype.NewUnknown()
		}
	}
	a.types[x] = t
	return t
}

func (a *Analyzer) checkPath(n *ast.Path) *rtype.Type {
	last := n.Segments[len(n.Segments)-1]
	if fi, ok := a.funcs[last]; ok {
		return rtype.NewFunction(fi.ParamTypes, fi.ReturnType)
	}
	if sym, ok := a.global.Lookup(last); ok {
		return sym.Type
	}
	return rtype.NewUnknown()
}

var comparisonOps = map[ast.BinOp]bool{"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true}
var logicalOps = map[ast.BinOp]bool{"&&": true, "||": true}

func (a *Analyzer) checkBinary(n *ast.Binary) *rtype.Type {
	if isAssignOp(string(n.Op)) {
		return a.checkAssign(n)
	}
	lt := a.checkExpr(n.Left)
	rt := a.checkExpr(n.Right)
	if comparisonOps[n.Op] || logicalOps[n.Op] {
		if !rtype.Compatible(lt, rt) && lt.Kind != rtype.Unknown && rt.Kind != rtype.Unknown {
			a.bag.Add(diag.Mismatch(diag.KindTypeMismatch, diag.Fatal, n.Span, lt.String(), rt.String()))
		}
		return rtype.NewPrim(rtype.Bool)
	}
	// Arithmetic/bitwise: two compatible operands yield the left type.
	if !rtype.Compatible(lt, rt) && lt.Kind != rtype.Unknown && rt.Kind != rtype.Unknown {
		a.bag.Add(diag.Mismatch(diag.KindTypeMismatch, diag.Fatal, n.Span, lt.String(), rt.String()))
	}
	return lt
}

func isAssignOp(op string) bool {
	switch op {
	case "=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=":
		return true
	}
	return false
}

func (a *Analyzer) checkAssign(n *ast.Binary) *rtype.Type {
	rt := a.checkValueUse(n.Right)
	switch lhs := n.Left.(type) {
	case *ast.Ident:
		sym, ok := a.scope.Lookup(lhs.Name)
		if !ok {
			a.bag.Add(diag.At(diag.KindUndefinedVariable, diag.Fatal, lhs.Span, "undefined variable %q", lhs.Name))
			return unitType()
		}
		if sym.Type != nil && !rtype.Compatible(sym.Type, rt) && sym.Type.Kind != rtype.Unknown && rt.Kind != rtype.Unknown {
			a.bag.Add(diag.Mismatch(diag.KindTypeMismatch, diag.Fatal, n.Span, sym.Type.String(), rt.String()))
		}
		a.types[lhs] = sym.Type
	case *ast.Field:
		a.checkExpr(lhs)
	case *ast.Deref:
		a.checkExpr(lhs)
	default:
		a.bag.Add(diag.At(diag.KindUnexpectedToken, diag.Fatal, n.Span, "invalid assignment target"))
	}
	return unitType()
}

func (a *Analyzer) checkCall(n *ast.Call) *rtype.Type {
	calleeT := a.checkExpr(n.Callee)
	if ident, ok := n.Callee.(*ast.Ident); ok {
		a.checkEffect(ident.Name, n.Span)
	}
	for _, arg := range n.Args {
		a.checkValueUse(arg)
	}
	if calleeT.Kind != rtype.Function {
		if calleeT.Kind != rtype.Unknown {
			a.bag.Add(diag.At(diag.KindNotCallable, diag.Fatal, n.Span, "not callable: %s", calleeT.String()))
		}
		return rtype.NewUnknown()
	}
	if len(n.Args) != len(calleeT.Params) {
		a.bag.Add(diag.Mismatch(diag.KindArgCountMismatch, diag.Fatal, n.Span, strconv.Itoa(len(calleeT.Params)), strconv.Itoa(len(n.Args))))
	} else {
		for i, arg := range n.Args {
			at := a.types[arg]
			if at != nil && !rtype.Compatible(calleeT.Params[i], at) && at.Kind != rtype.Unknown {
				a.bag.Add(diag.Mismatch(diag.KindTypeMismatch, diag.Fatal, arg.Spanned(), calleeT.Params[i].String(), at.String()))
			}
		}
	}
	return calleeT.Return
}

// checkEffect flags a call to a known impure built-in from within a
// pure function: fatal in strict mode, a non-fatal diagnostic in
// lenient mode.
func (a *Analyzer) checkEffect(name string, sp span.Span) {
	if !a.pure || !builtinIsImpure(name) {
		return
	}
	sev := diag.Warning
	if a.mode == diag.Strict {
		sev = diag.Fatal
	}
	a.bag.Add(diag.At(diag.KindEffectViolation, sev, sp, "pure function calls impure built-in %q", name))
}

func (a *Analyzer) checkField(n *ast.Field) *rtype.Type {
	xt := a.checkExpr(n.X)
	st, ok := rtype.IsStruct(xt)
	if !ok {
		if xt.Kind != rtype.Unknown {
			a.bag.Add(diag.At(diag.KindNotAStruct, diag.Fatal, n.Span, "not a struct: %s", xt.String()))
		}
		return rtype.NewUnknown()
	}
	for _, f := range st.Fields {
		if f.Name == n.Name {
			return f.Type
		}
	}
	a.bag.Add(diag.At(diag.KindUnknownField, diag.Fatal, n.Span, "unknown field %q on %s", n.Name, st.Name))
	return rtype.NewUnknown()
}

func (a *Analyzer) checkMethodCall(n *ast.MethodCall) *rtype.Type {
	rt := a.checkExpr(n.Recv)
	for _, arg := range n.Args {
		a.checkValueUse(arg)
	}
	recvName := ""
	if st, ok := rtype.IsStruct(rt); ok {
		recvName = st.Name
	}
	fi, ok := a.funcs[recvName+"::"+n.Name]
	if !ok {
		if rt.Kind != rtype.Unknown {
			a.bag.Add(diag.At(diag.KindUnknownField, diag.Fatal, n.Span, "unknown method %q on %s", n.Name, rt.String()))
		}
		return rtype.NewUnknown()
	}
	if len(n.Args) != len(fi.ParamTypes) {
		a.bag.Add(diag.Mismatch(diag.KindArgCountMismatch, diag.Fatal, n.Span, strconv.Itoa(len(fi.ParamTypes)), strconv.Itoa(len(n.Args))))
	}
	return fi.ReturnType
}

func (a *Analyzer) checkIndex(n *ast.Index) *rtype.Type {
	xt := a.checkExpr(n.X)
	it := a.checkExpr(n.Idx)
	if it.Kind == rtype.Primitive && !it.Prim.IsInteger() {
		a.bag.Add(diag.At(diag.KindTypeMismatch, diag.Fatal, n.Span, "index must be an integer type, got %s", it.String()))
	}
	switch xt.Kind {
	case rtype.Array, rtype.Slice:
		return xt.Elem
	case rtype.Unknown:
		return rtype.NewUnknown()
	default:
		a.bag.Add(diag.At(diag.KindNotIndexable, diag.Fatal, n.Span, "not indexable: %s", xt.String()))
		return rtype.NewUnknown()
	}
}

func (a *Analyzer) checkIf(n *ast.If) *rtype.Type {
	ct := a.checkExpr(n.Cond)
	if ct.Kind == rtype.Primitive && ct.Prim != rtype.Bool {
		a.bag.Add(diag.Mismatch(diag.KindTypeMismatch, diag.Fatal, n.Cond.Spanned(), "bool", ct.String()))
	}
	thenT := a.checkBlockExpr(n.Then)
	if n.Else != nil {
		// If/match arm agreement is recorded, not enforced.
		a.checkExpr(n.Else)
	}
	return thenT
}

func (a *Analyzer) checkMatch(n *ast.Match) *rtype.Type {
	a.checkExpr(n.Subject)
	var result *rtype.Type = unitType()
	for i, arm := range n.Arms {
		a.scope = a.scope.Push()
		if ident, ok := arm.Pattern.(*ast.Ident); ok && ident.Name != "_" {
			a.scope.Define(&symtab.Symbol{Name: ident.Name, Kind: symtab.KindVariable, Type: a.types[n.Subject]})
			a.own.Declare(ident.Name)
		} else {
			a.checkExpr(arm.Pattern)
		}
		if arm.Guard != nil {
			a.checkExpr(arm.Guard)
		}
		t := a.checkExpr(arm.Body)
		if i == 0 {
			result = t
		}
		a.scope = a.scope.Pop()
	}
	return result
}

func (a *Analyzer) checkFor(n *ast.For) {
	a.checkExpr(n.Iter)
	a.scope = a.scope.Push()
	a.scope.Define(&symtab.Symbol{Name: n.Binder, Kind: symtab.KindVariable, Type: rtype.NewPrim(rtype.I64)})
	a.own.Declare(n.Binder)
	a.checkBlock(n.Body)
	a.scope = a.scope.Pop()
}

func (a *Analyzer) checkStructLit(n *ast.StructLit) *rtype.Type {
	info, ok := a.structs[n.Name]
	for _, f := range n.Fields {
		a.checkExpr(f.Expr)
	}
	if !ok {
		a.bag.Add(diag.At(diag.KindUndefinedType, diag.Fatal, n.Span, "undefined struct %q", n.Name))
		return rtype.NewUnknown()
	}
	for _, f := range n.Fields {
		found := false
		for _, sf := range info.Type.Fields {
			if sf.Name == f.Name {
				found = true
				ft := a.types[f.Expr]
				if ft != nil && !rtype.Compatible(sf.Type, ft) && ft.Kind != rtype.Unknown {
					a.bag.Add(diag.Mismatch(diag.KindTypeMismatch, diag.Fatal, f.Span, sf.Type.String(), ft.String()))
				}
				break
			}
		}
		if !found {
			a.bag.Add(diag.At(diag.KindUnknownField, diag.Fatal, f.Span, "unknown field %q on %s", f.Name, n.Name))
		}
	}
	return info.Type
}

func (a *Analyzer) checkArrayLit(n *ast.ArrayLit) *rtype.Type {
	var elem *rtype.Type = rtype.NewUnknown()
	for i, e := range n.Elems {
		t := a.checkExpr(e)
		if i == 0 {
			elem = t
		}
	}
	return rtype.NewArray(elem, int64(len(n.Elems)))
}

func (a *Analyzer) checkRef(n *ast.Ref) *rtype.Type {
	if ident, ok := n.X.(*ast.Ident); ok {
		var k *diag.Kind
		if n.Mut {
			k = a.own.BorrowMutable(ident.Name)
		} else {
			k = a.own.BorrowImmutable(ident.Name)
		}
		if k != nil {
			a.bag.Add(diag.At(*k, diag.Fatal, n.Span, "%s: %q", *k, ident.Name))
		}
	}
	t := a.checkExpr(n.X)
	return rtype.NewReference(t, n.Mut)
}

func (a *Analyzer) checkDeref(n *ast.Deref) *rtype.Type {
	t := a.checkExpr(n.X)
	switch t.Kind {
	case rtype.Pointer, rtype.Reference:
		return t.Elem
	case rtype.Unknown:
		return rtype.NewUnknown()
	default:
		a.bag.Add(diag.At(diag.KindNotDereferenceable, diag.Fatal, n.Span, "not dereferenceable: %s", t.String()))
		return rtype.NewUnknown()
	}
}

// checkCast validates `expr as T` against the closed set of
// permitted conversions: same type; integer<->integer;
// integer<->pointer; pointer<->pointer; reference->pointer when inner
// types match; permissive when the source type is unknown.
func (a *Analyzer) checkCast(n *ast.Cast) *rtype.Type {
	xt := a.checkExpr(n.X)
	target := a.resolveType(n.Type)
	if xt.Kind == rtype.Unknown || target.Kind == rtype.Unknown {
		return target
	}
	ok := false
	switch {
	case rtype.Equal(xt, target):
		ok = true
	case xt.Kind == rtype.Primitive && xt.Prim.IsInteger() && target.Kind == rtype.Primitive && target.Prim.IsInteger():
		ok = true
	case xt.Kind == rtype.Primitive && xt.Prim.IsInteger() && target.Kind == rtype.Pointer:
		ok = true
	case xt.Kind == rtype.Pointer && target.Kind == rtype.Primitive && target.Prim.IsInteger():
		ok = true
	case xt.Kind == rtype.Pointer && target.Kind == rtype.Pointer:
		ok = true
	case xt.Kind == rtype.Reference && target.Kind == rtype.Pointer && rtype.Equal(xt.Elem, target.Elem):
		ok = true
	}
	if !ok {
		a.bag.Add(diag.Mismatch(diag.KindTypeMismatch, diag.Fatal, n.Span, target.String(), xt.String()))
	}
	return target
}
