package emit

import (
	"fmt"
	"strings"

	"github.com/aetherlang/aethc/internal/ir"
)

func (e *Emitter) writeInstr(instr ir.Instr, paramType map[int]*ir.Type) {
	switch n := instr.(type) {
	case *ir.Assign:
		e.writeln(fmt.Sprintf("%s = %s;", regVar(n.DestReg), e.valueToC(n.Value)))
	case *ir.BinOp:
		e.writeln(fmt.Sprintf("%s = %s %s %s;", regVar(n.DestReg), e.valueToC(n.Left), binOpToC(n.Op), e.valueToC(n.Right)))
	case *ir.UnaryOp:
		e.writeln(fmt.Sprintf("%s = %s%s;", regVar(n.DestReg), unaryOpToC(n.Op), e.valueToC(n.Operand)))
	case *ir.Call:
		e.writeCall(n)
	case *ir.Alloca:
		allocaVar := "_alloca_" + regVar(n.DestReg)[1:]
		e.writeln(fmt.Sprintf("%s %s;", cType(n.ElemT, e.target), allocaVar))
		e.writeln(fmt.Sprintf("%s = &%s;", regVar(n.DestReg), allocaVar))
	case *ir.Load:
		e.writeln(fmt.Sprintf("%s = *%s;", regVar(n.DestReg), e.valueToC(n.Ptr)))
	case *ir.Store:
		e.writeStore(n, paramType)
	case *ir.GEP:
		e.writeGEP(n, paramType)
	case *ir.Cast:
		e.writeln(fmt.Sprintf("%s = (%s)%s;", regVar(n.DestReg), cType(n.ToT, e.target), e.valueToC(n.Value)))
	case *ir.Phi:
		// Structured-C simplification: assign from the first incoming
		// value; true control-flow merges are not represented.
		if len(n.Incoming) > 0 {
			e.writeln(fmt.Sprintf("%s = %s;", regVar(n.DestReg), e.valueToC(n.Incoming[0].Value)))
		}
	case *ir.InlineAsm:
		e.writeAsm(n)
	}
}

// writeStore implements the struct-pointer-to-struct-pointer copy
// special case: `*ptr = *val;` rather than `*ptr = val;` when both
// sides are pointers to the same struct kind (§4.7).
func (e *Emitter) writeStore(n *ir.Store, paramType map[int]*ir.Type) {
	ptrT := e.valueType(n.Ptr, paramType)
	valT := e.valueType(n.Value, paramType)
	if isStructPtr(ptrT) && isStructPtr(valT) {
		e.writeln(fmt.Sprintf("*%s = *%s;", e.valueToC(n.Ptr), e.valueToC(n.Value)))
		return
	}
	e.writeln(fmt.Sprintf("*%s = %s;", e.valueToC(n.Ptr), e.valueToC(n.Value)))
}

func isStructPtr(t *ir.Type) bool {
	return t != nil && t.Kind == ir.PointerT && t.Elem != nil && t.Elem.Kind == ir.StructT
}

func (e *Emitter) writeGEP(n *ir.GEP, paramType map[int]*ir.Type) {
	baseT := e.valueType(n.Base, paramType)
	if n.FieldName != "" && baseT != nil && baseT.Kind == ir.PointerT && baseT.Elem != nil && baseT.Elem.Kind == ir.StructT {
		e.writeln(fmt.Sprintf("%s = &%s->%s;", regVar(n.DestReg), e.valueToC(n.Base), n.FieldName))
		return
	}
	e.writeln(fmt.Sprintf("%s = &%s[%s];", regVar(n.DestReg), e.valueToC(n.Base), e.valueToC(n.Index)))
}

func (e *Emitter) writeCall(n *ir.Call) {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = e.valueToC(a)
	}
	cName := n.Fn
	isVoid := n.DestReg < 0
	if b, ok := builtinCalls[n.Fn]; ok {
		cName = b.cName
		isVoid = isVoid || b.isVoid
	}
	call := fmt.Sprintf("%s(%s)", cName, strings.Join(args, ", "))
	if isVoid {
		e.writeln(call + ";")
		return
	}
	e.writeln(fmt.Sprintf("%s = %s;", regVar(n.DestReg), call))
}

// writeAsm lowers an InlineAsm instruction to a GCC/clang extended
// asm statement: input constraints pass through; outputs receive a
// prefixed `=` if not already present; inouts are seeded with a copy
// and receive a prefixed `+` (§4.7).
func (e *Emitter) writeAsm(n *ir.InlineAsm) {
	var inputs, outputs, clobbers []string
	for _, op := range n.Operands {
		switch op.Kind {
		case ir.AsmIn:
			inputs = append(inputs, fmt.Sprintf("%q (%s)", op.Constraint, e.valueToC(op.Value)))
		case ir.AsmOut:
			constraint := op.Constraint
			if !strings.HasPrefix(constraint, "=") && !strings.HasPrefix(constraint, "+") {
				constraint = "=" + constraint
			}
			outputs = append(outputs, fmt.Sprintf("%q (%s)", constraint, regVar(op.DestReg)))
		case ir.AsmInOut:
			if op.Value.Kind != ir.VUnit {
				e.writeln(fmt.Sprintf("%s = %s;", regVar(op.DestReg), e.valueToC(op.Value)))
			}
			constraint := op.Constraint
			if !strings.HasPrefix(constraint, "+") {
				constraint = "+" + constraint
			}
			outputs = append(outputs, fmt.Sprintf("%q (%s)", constraint, regVar(op.DestReg)))
		case ir.AsmClobber:
			clobbers = append(clobbers, fmt.Sprintf("%q", op.Constraint))
		}
	}
	e.writeln(fmt.Sprintf("__asm__ volatile (%q : %s : %s : %s);",
		n.Template, strings.Join(outputs, ", "), strings.Join(inputs, ", "), strings.Join(clobbers, ", ")))
}
