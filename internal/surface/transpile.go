package surface

import (
	"fmt"
	"strconv"
	"strings"
)

// Transpiler lowers a parsed Module to primary-syntax (.aeth) source
// text, mirroring the original Rust transpiler's indent-tracking
// string-builder shape.
type Transpiler struct {
	indent int
	sb     strings.Builder
}

// Transpile lexes, parses, and transpiles src (a .ath file's
// contents), returning the generated .aeth text.
func Transpile(src string) (string, error) {
	mod, err := Parse(src)
	if err != nil {
		return "", err
	}
	t := &Transpiler{}
	return t.Run(mod), nil
}

// Run transpiles an already-parsed Module.
func (t *Transpiler) Run(mod *Module) string {
	t.emitLine("// Auto-generated from the indented surface dialect (.ath)")
	t.emitLine("// DO NOT EDIT - regenerate from source")
	t.emitLine("")
	t.emitLine(`extern "C" {`)
	t.emitLine("    fn puts(s: *u8) -> i32;")
	t.emitLine("    fn malloc(size: u64) -> *void;")
	t.emitLine("    fn free(ptr: *void);")
	t.emitLine("}")
	t.emitLine("")

	for _, s := range mod.Stmts {
		t.stmt(s)
	}
	return t.sb.String()
}

func (t *Transpiler) emit(s string)     { t.sb.WriteString(s) }
func (t *Transpiler) emitIndentStr()    { t.sb.WriteString(strings.Repeat("    ", t.indent)) }
func (t *Transpiler) emitLine(s string) { t.emitIndentStr(); t.sb.WriteString(s); t.sb.WriteByte('\n') }

func (t *Transpiler) stmt(s Stmt) {
	switch n := s.(type) {
	case *FunctionDef:
		t.function(n)
	case *IfStmt:
		t.ifStmt(n)
	case *WhileStmt:
		t.whileStmt(n)
	case *ForStmt:
		t.forStmt(n)
	case *ReturnStmt:
		t.returnStmt(n)
	case *AssignStmt:
		t.assignStmt(n)
	case *ExprStmt:
		t.emitIndentStr()
		t.emit(t.expr(n.Value))
		t.emit(";\n")
	case *PassStmt:
		t.emitLine("// pass")
	}
}

func (t *Transpiler) function(f *FunctionDef) {
	t.emitIndentStr()
	if f.Comptime {
		t.emit("#[comptime]\n")
		t.emitIndentStr()
	}
	t.emit("fn ")
	t.emit(f.Name)
	t.emit("(")
	for i, param := range f.Params {
		t.emit(param.Name)
		t.emit(": ")
		if param.Type != nil {
			t.emit(mapType(param.Type))
		} else {
			t.emit("_")
		}
		if i < len(f.Params)-1 {
			t.emit(", ")
		}
	}
	t.emit(")")

	switch {
	case f.ReturnType != nil:
		t.emit(" -> ")
		t.emit(mapType(f.ReturnType))
	case f.Name == "main":
		t.emit(" -> i32")
	}

	t.emit(" {\n")
	t.indent++
	for _, s := range f.Body {
		t.stmt(s)
	}
	t.indent--
	t.emitLine("}")
	t.emitLine("")
}

func (t *Transpiler) ifStmt(i *IfStmt) {
	t.emitIndentStr()
	t.emit("if ")
	t.emit(t.expr(i.Cond))
	t.emit(" {\n")
	t.indent++
	for _, s := range i.Then {
		t.stmt(s)
	}
	t.indent--
	t.emitIndentStr()
	t.emit("}")
	if i.Else != nil {
		t.emit(" else {\n")
		t.indent++
		for _, s := range i.Else {
			t.stmt(s)
		}
		t.indent--
		t.emitIndentStr()
		t.emit("}")
	}
	t.emit("\n")
}

func (t *Transpiler) whileStmt(w *WhileStmt) {
	t.emitIndentStr()
	t.emit("while ")
	t.emit(t.expr(w.Cond))
	t.emit(" {\n")
	t.indent++
	for _, s := range w.Body {
		t.stmt(s)
	}
	t.indent--
	t.emitLine("}")
}

func (t *Transpiler) forStmt(f *ForStmt) {
	t.emitIndentStr()
	t.emit("for ")
	t.emit(f.Var)
	t.emit(" in ")
	t.emit(t.expr(f.Iterable))
	t.emit(" {\n")
	t.indent++
	for _, s := range f.Body {
		t.stmt(s)
	}
	t.indent--
	t.emitLine("}")
}

func (t *Transpiler) returnStmt(r *ReturnStmt) {
	t.emitIndentStr()
	t.emit("return")
	if r.Value != nil {
		t.emit(" ")
		t.emit(t.expr(r.Value))
	}
	t.emit(";\n")
}

func (t *Transpiler) assignStmt(a *AssignStmt) {
	t.emitIndentStr()
	t.emit("let ")
	t.emit(t.expr(a.Target))
	t.emit(": ")
	t.emit(inferType(a.Value))
	t.emit(" = ")
	t.emit(t.expr(a.Value))
	t.emit(";\n")
}

// inferType derives a `let` target's type annotation from its
// initializer: the target type is inferred from the initializer.
func inferType(e Expr) string {
	switch n := e.(type) {
	case *IntLit:
		return "i64"
	case *FloatLit:
		return "f64"
	case *StringLit:
		return "*u8"
	case *Ident:
		return "_"
	case *Binary:
		switch n.Op {
		case OpEq, OpNe, OpLt, OpGt, OpLe, OpGe, OpAnd, OpOr:
			return "bool"
		default:
			return inferType(n.Left)
		}
	case *Call:
		if id, ok := n.Func.(*Ident); ok {
			switch id.Name {
			case "len":
				return "u64"
			case "malloc":
				return "*void"
			}
		}
		return "_"
	case *ListLit:
		if len(n.Elements) > 0 {
			return "*" + inferType(n.Elements[0])
		}
		return "*void"
	default:
		return "_"
	}
}

func (t *Transpiler) expr(e Expr) string {
	switch n := e.(type) {
	case *Ident:
		return n.Name
	case *IntLit:
		return strconv.FormatInt(n.Value, 10)
	case *FloatLit:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	case *StringLit:
		quoted := strconv.Quote(n.Value)
		return quoted[:len(quoted)-1] + `\0" as *u8`
	case *Binary:
		return fmt.Sprintf("(%s %s %s)", t.expr(n.Left), binOpStr(n.Op), t.expr(n.Right))
	case *Call:
		funcText := t.expr(n.Func)
		if funcText == "print" {
			funcText = "puts"
		}
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = t.expr(a)
		}
		return fmt.Sprintf("%s(%s)", funcText, strings.Join(args, ", "))
	case *FieldAccess:
		return fmt.Sprintf("%s.%s", t.expr(n.Target), n.Field)
	case *ListLit:
		elems := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = t.expr(el)
		}
		return fmt.Sprintf("[%s]", strings.Join(elems, ", "))
	default:
		return ""
	}
}

func binOpStr(op BinOp) string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLe:
		return "<="
	case OpGe:
		return ">="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	}
	return "?"
}

// mapType maps a surface-dialect type hint to its primary-syntax
// spelling via a fixed name-based mapping table; unknown names pass
// through unchanged.
func mapType(h *TypeHint) string {
	switch h.Name {
	case "int":
		return "i64"
	case "float":
		return "f64"
	case "bool":
		return "bool"
	case "str":
		return "*u8"
	case "None":
		return "void"
	case "List":
		if len(h.Generics) > 0 {
			return "*" + mapType(h.Generics[0])
		}
		return "*void"
	case "i32", "i64", "f32", "f64", "u8", "u32", "u64":
		return h.Name
	default:
		return h.Name
	}
}
