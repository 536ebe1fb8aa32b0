package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aetherlang/aethc/internal/ir"
)

// builtinCalls maps a fixed set of built-in names to their C runtime
// counterparts, alongside whether the call is void regardless of the
// callee's recorded return type.
var builtinCalls = map[string]struct {
	cName  string
	isVoid bool
}{
	"print":         {"aether_print", true},
	"println":       {"aether_println", true},
	"print_i64":     {"aether_print_i64", true},
	"println_i64":   {"aether_println_i64", true},
	"assert":        {"aether_assert", true},
	"alloc":         {"malloc", false},
	"free":          {"free", true},
	"exit":          {"exit", true},
	"f32x4_splat":   {"_mm_set1_ps", false},
	"f32x4_add":     {"_mm_add_ps", false},
	"f32x4_sub":     {"_mm_sub_ps", false},
	"f32x4_mul":     {"_mm_mul_ps", false},
	"f32x4_div":     {"_mm_div_ps", false},
	"f64x2_splat":   {"_mm_set1_pd", false},
	"f64x2_add":     {"_mm_add_pd", false},
	"f64x2_mul":     {"_mm_mul_pd", false},
	"i32x4_splat":   {"_mm_set1_epi32", false},
	"i32x4_add":     {"_mm_add_epi32", false},
	"i32x4_mul":     {"_mm_mullo_epi32", false},
}

// Emitter lowers one IR module to C text for a given target triple.
type Emitter struct {
	target  string
	mod     *ir.Module
	structs map[string]*ir.StructLayout
	retType map[string]*ir.Type

	sb      strings.Builder
	indent  int
	regType map[int]*ir.Type
}

// New creates an Emitter for mod targeting the given triple (e.g.
// "x86_64-unknown-linux-gnu", "aarch64-apple-darwin").
func New(mod *ir.Module, target string) *Emitter {
	e := &Emitter{
		target:  target,
		mod:     mod,
		structs: make(map[string]*ir.StructLayout),
		retType: make(map[string]*ir.Type),
	}
	for _, s := range mod.Structs {
		e.structs[s.Name] = s
	}
	for _, f := range mod.Funcs {
		e.retType[f.Name] = f.Ret
	}
	for _, x := range mod.Externs {
		e.retType[x.Name] = x.Ret
	}
	return e
}

func (e *Emitter) writeln(line string) {
	for i := 0; i < e.indent; i++ {
		e.sb.WriteString("    ")
	}
	e.sb.WriteString(line)
	e.sb.WriteByte('\n')
}

// Generate produces the complete C translation-unit text for the
// module: headers, runtime shims, struct definitions, forward
// declarations, then function bodies.
func (e *Emitter) Generate() string {
	e.sb.Reset()
	e.writeHeader()
	e.writeRuntimeShims()
	e.writeStructs()
	e.writeForwardDecls()
	for _, fn := range e.mod.Funcs {
		e.writeFunction(fn)
	}
	return e.sb.String()
}

func (e *Emitter) writeHeader() {
	e.writeln("/* Generated by the AetherLang C backend. Do not edit. */")
	e.writeln("#include <stdint.h>")
	e.writeln("#include <stdbool.h>")
	e.writeln("#include <stdio.h>")
	e.writeln("#include <stdlib.h>")
	e.writeln(fmt.Sprintf("#include <%s>", simdHeader(e.target)))
	e.writeln("")
}

func (e *Emitter) writeRuntimeShims() {
	e.writeln("/* runtime shims */")
	e.writeln(`static void aether_print(const char* s) { printf("%s", s); }`)
	e.writeln(`static void aether_println(const char* s) { printf("%s\n", s); }`)
	e.writeln(`static void aether_print_i64(int64_t n) { printf("%lld", (long long)n); }`)
	e.writeln(`static void aether_println_i64(int64_t n) { printf("%lld\n", (long long)n); }`)
	e.writeln(`static void aether_assert(bool c) { if (!c) { fprintf(stderr, "Assertion failed\n"); exit(1); } }`)
	e.writeln("")
}

func (e *Emitter) writeStructs() {
	for _, s := range e.mod.Structs {
		attr := ""
		if s.Packed {
			attr = " __attribute__((packed))"
		}
		e.writeln(fmt.Sprintf("struct %s%s {", s.Name, attr))
		e.indent++
		for _, f := range s.Fields {
			e.writeln(fmt.Sprintf("%s %s;", cType(f.Type, e.target), f.Name))
		}
		e.indent--
		e.writeln("};")
		e.writeln("")
	}
}

func (e *Emitter) writeForwardDecls() {
	for _, x := range e.mod.Externs {
		e.writeln(fmt.Sprintf("%s %s(%s);", cType(x.Ret, e.target), x.Name, paramTypeList(x.Params, e.target)))
	}
	for _, fn := range e.mod.Funcs {
		e.writeln(fmt.Sprintf("%s %s(%s);", cType(fn.Ret, e.target), fn.Name, funcParamList(fn.Params, e.target)))
	}
	e.writeln("")
}

func paramTypeList(types []*ir.Type, target string) string {
	if len(types) == 0 {
		return "void"
	}
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = cType(t, target)
	}
	return strings.Join(parts, ", ")
}

func funcParamList(params []ir.FuncParam, target string) string {
	if len(params) == 0 {
		return "void"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = cType(p.Type, target)
	}
	return strings.Join(parts, ", ")
}

// valueToC renders a value as a C expression. Registers use the
// destination-register pre-pass naming convention `_r<N>`.
func (e *Emitter) valueToC(v ir.Value) string {
	switch v.Kind {
	case ir.VRegister:
		return regVar(v.Reg)
	case ir.VConstInt:
		return strconv.FormatInt(v.IntVal, 10) + "LL"
	case ir.VConstFloat:
		return strconv.FormatFloat(v.FloatVal, 'g', -1, 64)
	case ir.VConstBool:
		if v.BoolVal {
			return "1"
		}
		return "0"
	case ir.VConstString:
		return strconv.Quote(v.StringVal)
	case ir.VConstNull:
		return "NULL"
	case ir.VParam:
		return fmt.Sprintf("_arg%d", v.ParamIdx)
	case ir.VGlobal:
		return v.StringVal
	case ir.VUnit:
		return "((void)0)"
	}
	return "0"
}

func regVar(reg int) string { return fmt.Sprintf("_r%d", reg) }

func binOpToC(op ir.BinOpKind) string {
	switch op {
	case ir.Add:
		return "+"
	case ir.Sub:
		return "-"
	case ir.Mul:
		return "*"
	case ir.Div:
		return "/"
	case ir.Mod:
		return "%"
	case ir.Eq:
		return "=="
	case ir.Neq:
		return "!="
	case ir.Lt:
		return "<"
	case ir.Le:
		return "<="
	case ir.Gt:
		return ">"
	case ir.Ge:
		return ">="
	case ir.And:
		return "&&"
	case ir.Or:
		return "||"
	case ir.BitAnd:
		return "&"
	case ir.BitOr:
		return "|"
	case ir.BitXor:
		return "^"
	case ir.Shl:
		return "<<"
	case ir.Shr:
		return ">>"
	}
	return "?"
}

func unaryOpToC(op ir.UnaryOpKind) string {
	switch op {
	case ir.Neg:
		return "-"
	case ir.Not:
		return "!"
	case ir.BitNot:
		return "~"
	}
	return ""
}
