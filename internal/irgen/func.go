package irgen

import (
	"github.com/aetherlang/aethc/internal/ast"
	"github.com/aetherlang/aethc/internal/ir"
	"github.com/aetherlang/aethc/internal/rtype"
	"github.com/aetherlang/aethc/internal/sema"
)

// local records where a lowered `let`/parameter binding lives: the
// register holding its value (for scalars), or — for a struct value,
// which is always materialized through an alloca — the register
// holding the pointer to its storage.
type local struct {
	reg     int
	typ     *ir.Type
	rt      *rtype.Type
	isAlloc bool // true when reg holds a pointer from Alloca (struct values)
}

// funcGen holds the per-function lowering state: register/block
// counters, the block under construction, and the local-name table.
type funcGen struct {
	g         *Generator
	fi        *sema.FuncInfo
	fn        *ir.Function
	cur       *ir.Block
	nextReg   int
	nextBlock int
	locals    map[string]local
	// breakTargets/continueTargets track the enclosing loop's exit and
	// header blocks, innermost last, for break/continue lowering.
	breakTargets    []int
	continueTargets []int
}

func (g *Generator) genFunction(name string, fi *sema.FuncInfo) *ir.Function {
	n := fi.Node
	fn := &ir.Function{
		Name:      name,
		Ret:       toIRType(fi.ReturnType),
		StructRet: fi.ReturnType != nil && fi.ReturnType.Kind == rtype.Struct,
		Pure:      fi.Effects.Pure,
		Effects:   effectStrings(fi.Effects),
	}
	for _, c := range n.Contracts {
		switch c.Kind {
		case ast.Requires:
			fn.Requires = append(fn.Requires, exprSource(c.Expr))
		case ast.Ensures:
			fn.Ensures = append(fn.Ensures, exprSource(c.Expr))
		}
	}
	for _, attr := range n.Attrs {
		switch attr.Name {
		case "simd":
			fn.SIMD = true
		case "naked":
			fn.Naked = true
		case "interrupt":
			fn.Interrupt = true
		}
	}

	fgen := &funcGen{g: g, fi: fi, fn: fn, locals: make(map[string]local)}
	entry := fgen.newBlock("entry")
	fgen.cur = entry
	fn.Entry = entry.ID

	pIdx := 0
	for _, p := range n.Params {
		if p.Name == "self" {
			st, _ := g.prog.Structs[fi.Receiver]
			var rt *rtype.Type
			if st != nil {
				rt = st.Type
			} else {
				rt = rtype.NewUnknown()
			}
			fgen.bindParam("self", rt)
			continue
		}
		fgen.bindParam(p.Name, fi.ParamTypes[pIdx])
		pIdx++
	}
	fgen.lowerBlock(n.Body)
	fgen.terminateFallthrough()

	return fn
}

// bindParam materializes parameter i (by declaration order, self
// counted) as `assign %r = arg(i)`, matching §4.5's "synthetic assign
// to make subsequent uses SSA-shaped".
func (fgen *funcGen) bindParam(name string, rt *rtype.Type) {
	sigT := toIRType(rt)
	idx := len(fgen.fn.Params)
	fgen.fn.Params = append(fgen.fn.Params, ir.FuncParam{Name: name, Type: sigT})
	runtimeT := exprType(rt)
	r := fgen.freshReg()
	fgen.cur.Append(&ir.Assign{DestReg: r, Value: ir.Param(idx, runtimeT), ResultT: runtimeT})
	fgen.locals[name] = local{reg: r, typ: runtimeT, rt: rt, isAlloc: rt.Kind == rtype.Struct}
}

func effectStrings(es ast.EffectSet) []string {
	out := make([]string, len(es.Effects))
	for i, e := range es.Effects {
		out[i] = string(e)
	}
	return out
}

// exprSource preserves a contract clause as a readable placeholder
// string carried through to the emitter's `assert(expr)` preamble,
// since the IR does not keep the original source text.
func exprSource(x ast.Expr) string {
	switch n := x.(type) {
	case *ast.Ident:
		return n.Name
	case *ast.Binary:
		return exprSource(n.Left) + " " + string(n.Op) + " " + exprSource(n.Right)
	case *ast.Unary:
		return string(n.Op) + exprSource(n.X)
	case *ast.Literal:
		switch n.Kind {
		case ast.LitInt:
			return intToStr(n.Int)
		case ast.LitBool:
			if n.Bool {
				return "true"
			}
			return "false"
		}
	case *ast.Field:
		return exprSource(n.X) + "." + n.Name
	}
	return "<expr>"
}

func intToStr(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func (fgen *funcGen) newBlock(label string) *ir.Block {
	b := &ir.Block{ID: fgen.nextBlock, Label: label}
	fgen.nextBlock++
	fgen.fn.Blocks = append(fgen.fn.Blocks, b)
	return b
}

func (fgen *funcGen) freshReg() int {
	r := fgen.nextReg
	fgen.nextReg++
	return r
}

// jumpTo sets the current block's terminator if unset, then switches
// lowering to target as the new current block.
func (fgen *funcGen) jumpTo(target *ir.Block) {
	if fgen.cur.Term == nil {
		fgen.cur.Term = &ir.Terminator{Kind: ir.TermJump, Target: target.ID}
	}
	fgen.cur = target
}

// terminateFallthrough implements §4.5's block-termination rule: at
// function end, an unterminated current block gets `return` for a
// void return type, `unreachable` otherwise.
func (fgen *funcGen) terminateFallthrough() {
	for _, b := range fgen.fn.Blocks {
		if b.Term != nil {
			continue
		}
		if fgen.fn.Ret.Kind == ir.Void {
			b.Term = &ir.Terminator{Kind: ir.TermReturn}
		} else {
			b.Term = &ir.Terminator{Kind: ir.TermUnreachable}
		}
	}
}
