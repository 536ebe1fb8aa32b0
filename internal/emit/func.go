package emit

import (
	"fmt"
	"sort"

	"github.com/aetherlang/aethc/internal/ir"
)

func (e *Emitter) writeFunction(fn *ir.Function) {
	e.regType = make(map[int]*ir.Type)
	paramType := make(map[int]*ir.Type, len(fn.Params))
	for i, p := range fn.Params {
		paramType[i] = p.Type
	}

	if len(fn.Effects) > 0 {
		e.writeln(fmt.Sprintf("/* effects: %s */", joinStrings(fn.Effects)))
	}
	if fn.SIMD {
		e.writeln("/* simd: auto-vectorization enabled */")
		e.writeln("#if defined(__GNUC__) || defined(__clang__)")
		e.writeln(`__attribute__((optimize("tree-vectorize")))`)
		e.writeln("#endif")
	}

	e.writeln(fmt.Sprintf("%s %s(%s) {", cType(fn.Ret, e.target), fn.Name, funcParamList(fn.Params, e.target)))
	e.indent++

	for i, req := range fn.Requires {
		e.writeln(fmt.Sprintf("assert(%s); /* requires #%d */", req, i+1))
	}

	e.analyzeRegisterTypes(fn, paramType)
	e.writeDeclarations(fn)

	for i, b := range fn.Blocks {
		if i > 0 {
			e.indent--
			e.writeln(fmt.Sprintf("L_%s_%d:", b.Label, b.ID))
			e.indent++
		}
		for _, instr := range b.Instrs {
			e.writeInstr(instr, paramType)
		}
		if b.Term != nil {
			e.writeTerm(fn, b.Term)
		}
	}

	e.indent--
	e.writeln("}")
	e.writeln("")
}

func joinStrings(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

// valueType resolves the IR type an already-analyzed value carries:
// a register's pre-pass result, a parameter's declared type, or the
// value's own recorded Type for constants/globals/unit.
func (e *Emitter) valueType(v ir.Value, paramType map[int]*ir.Type) *ir.Type {
	switch v.Kind {
	case ir.VRegister:
		if t, ok := e.regType[v.Reg]; ok {
			return t
		}
	case ir.VParam:
		if t, ok := paramType[v.ParamIdx]; ok {
			return t
		}
	}
	return v.Type
}

// analyzeRegisterTypes implements §4.7's destination-register
// pre-pass: parameters seed the map; loads peel a pointer; GEP across
// a known struct layout resolves to the field type; binop defaults to
// i64 (the documented simplification — see §9); cast takes its
// target type; call uses the callee's recorded return type.
func (e *Emitter) analyzeRegisterTypes(fn *ir.Function, paramType map[int]*ir.Type) {
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			switch n := instr.(type) {
			case *ir.Assign:
				e.regType[n.DestReg] = e.valueType(n.Value, paramType)
			case *ir.BinOp:
				e.regType[n.DestReg] = ir.Prim(ir.I64)
			case *ir.UnaryOp:
				e.regType[n.DestReg] = e.valueType(n.Operand, paramType)
			case *ir.Call:
				if n.DestReg < 0 {
					continue
				}
				if rt, ok := e.retType[n.Fn]; ok && rt != nil {
					e.regType[n.DestReg] = rt
				} else {
					e.regType[n.DestReg] = ir.Prim(ir.I64)
				}
			case *ir.Alloca:
				e.regType[n.DestReg] = ir.NewPointer(n.ElemT)
			case *ir.Load:
				if pt := e.valueType(n.Ptr, paramType); pt != nil && pt.Kind == ir.PointerT {
					e.regType[n.DestReg] = pt.Elem
				} else {
					e.regType[n.DestReg] = n.ElemT
				}
			case *ir.GEP:
				e.regType[n.DestReg] = e.gepResultType(n, paramType)
			case *ir.Phi:
				if len(n.Incoming) > 0 {
					e.regType[n.DestReg] = e.valueType(n.Incoming[0].Value, paramType)
				}
			case *ir.Cast:
				e.regType[n.DestReg] = n.ToT
			case *ir.InlineAsm:
				for _, op := range n.Operands {
					if op.Kind == ir.AsmOut || op.Kind == ir.AsmInOut {
						e.regType[op.DestReg] = ir.Prim(ir.I64)
					}
				}
			}
		}
	}
}

func (e *Emitter) gepResultType(n *ir.GEP, paramType map[int]*ir.Type) *ir.Type {
	baseT := e.valueType(n.Base, paramType)
	if baseT != nil && baseT.Kind == ir.PointerT && baseT.Elem != nil && baseT.Elem.Kind == ir.StructT {
		if layout, ok := e.structs[baseT.Elem.Name]; ok && n.FieldIdx < len(layout.Fields) {
			return ir.NewPointer(layout.Fields[n.FieldIdx].Type)
		}
	}
	if baseT != nil && baseT.Kind == ir.PointerT {
		return ir.NewPointer(baseT.Elem)
	}
	return ir.NewPointer(n.ElemT)
}

// writeDeclarations emits a C89-style upfront declaration for every
// destination register, deduplicated, skipping void types: every
// destination register is declared at function top, deduplicated.
func (e *Emitter) writeDeclarations(fn *ir.Function) {
	seen := make(map[int]bool)
	var regs []int
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			d := instr.Dest()
			if d < 0 || seen[d] {
				continue
			}
			seen[d] = true
			regs = append(regs, d)
		}
	}
	sort.Ints(regs)
	for _, r := range regs {
		t := e.regType[r]
		if t != nil && t.Kind == ir.Void {
			continue
		}
		e.writeln(fmt.Sprintf("%s %s;", cType(t, e.target), regVar(r)))
	}
	if len(regs) > 0 {
		e.writeln("")
	}
}

func (e *Emitter) writeTerm(fn *ir.Function, t *ir.Terminator) {
	switch t.Kind {
	case ir.TermReturn:
		if t.Value != nil {
			e.writeln(fmt.Sprintf("return %s;", e.valueToC(*t.Value)))
		} else {
			e.writeln("return;")
		}
	case ir.TermJump:
		e.writeln(fmt.Sprintf("goto %s;", e.blockLabel(fn, t.Target)))
	case ir.TermBranch:
		e.writeln(fmt.Sprintf("if (%s) goto %s; else goto %s;",
			e.valueToC(t.Cond), e.blockLabel(fn, t.ThenBlk), e.blockLabel(fn, t.ElseBlk)))
	case ir.TermUnreachable:
		e.writeln("__builtin_unreachable();")
	}
}

func (e *Emitter) blockLabel(fn *ir.Function, id int) string {
	b := fn.Block(id)
	if b == nil {
		return fmt.Sprintf("L__%d", id)
	}
	return fmt.Sprintf("L_%s_%d", b.Label, b.ID)
}
