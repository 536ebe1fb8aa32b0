package irgen

import (
	"github.com/aetherlang/aethc/internal/ast"
	"github.com/aetherlang/aethc/internal/diag"
	"github.com/aetherlang/aethc/internal/ir"
	"github.com/aetherlang/aethc/internal/rtype"
	"github.com/aetherlang/aethc/internal/sema"
)

// Generator lowers one checked program into an IR module.
type Generator struct {
	prog *sema.Program
	mod  *ir.Module
	bag  *diag.Bag
}

// Generate lowers prog (the output of a successful sema.Check) into an
// IR module. The returned Bag follows the other stages' convention:
// callers check Fatal() before trusting the module. Codegen-kind
// diagnostics are always fatal, so Mode has no effect here; Strict is
// used only for Bag's own bookkeeping.
func Generate(prog *sema.Program) (*ir.Module, *diag.Bag) {
	g := &Generator{
		prog: prog,
		mod:  &ir.Module{Name: "main"},
		bag:  diag.NewBag(diag.Strict),
	}
	for name, si := range prog.Structs {
		g.mod.Structs = append(g.mod.Structs, g.lowerStruct(name, si))
	}
	g.collectExterns(prog.AST.Items)
	for name, fi := range prog.Funcs {
		if fi.Node.Body == nil {
			continue
		}
		g.mod.Funcs = append(g.mod.Funcs, g.genFunction(name, fi))
	}
	return g.mod, g.bag
}

func (g *Generator) lowerStruct(name string, si *sema.StructInfo) *ir.StructLayout {
	fields := make([]ir.StructField, len(si.Type.Fields))
	for i, f := range si.Type.Fields {
		fields[i] = ir.StructField{Name: f.Name, Type: toIRType(f.Type)}
	}
	return &ir.StructLayout{
		Name:   name,
		Fields: fields,
		Packed: si.Node.Repr == ast.ReprPacked,
	}
}

func (g *Generator) collectExterns(items []ast.Item) {
	for _, item := range items {
		switch n := item.(type) {
		case *ast.ExternBlock:
			for _, f := range n.Funcs {
				params := make([]*ir.Type, len(f.Params))
				for i, p := range f.Params {
					params[i] = toIRType(g.resolveParamType(p.Type))
				}
				ret := ir.Prim(ir.Void)
				if f.Return != nil {
					ret = toIRType(g.resolveParamType(f.Return))
				}
				g.mod.Externs = append(g.mod.Externs, &ir.Extern{Name: f.Name, Params: params, Ret: ret})
			}
		case *ast.Module:
			g.collectExterns(n.Items)
		}
	}
}

// resolveParamType re-resolves an extern signature's declared type
// through the struct/enum tables sema already built, since externs
// aren't carried in sema.Program beyond their effect on name
// resolution.
func (g *Generator) resolveParamType(t ast.Type) *rtype.Type {
	switch n := t.(type) {
	case *ast.NamedType:
		if si, ok := g.prog.Structs[n.Name]; ok {
			return si.Type
		}
		if ei, ok := g.prog.Enums[n.Name]; ok {
			return ei.Type
		}
		return primFallback(n.Name)
	case *ast.PointerType:
		return rtype.NewPointer(g.resolveParamType(n.Elem))
	case *ast.ReferenceType:
		return rtype.NewReference(g.resolveParamType(n.Elem), n.Mut)
	default:
		return rtype.NewUnknown()
	}
}

var primNameFallback = map[string]rtype.Prim{
	"i8": rtype.I8, "i16": rtype.I16, "i32": rtype.I32, "i64": rtype.I64, "isize": rtype.Isize,
	"u8": rtype.U8, "u16": rtype.U16, "u32": rtype.U32, "u64": rtype.U64, "usize": rtype.Usize,
	"f32": rtype.F32, "f64": rtype.F64, "bool": rtype.Bool, "char": rtype.Char,
}

// exprDeclaredType resolves a `let` with no initializer through its
// written type annotation.
func (g *Generator) exprDeclaredType(n *ast.Let) *rtype.Type {
	if n.Type == nil {
		return rtype.NewUnknown()
	}
	return g.resolveParamType(n.Type)
}

func primFallback(name string) *rtype.Type {
	if p, ok := primNameFallback[name]; ok {
		return rtype.NewPrim(p)
	}
	if name == "str" {
		return rtype.NewString()
	}
	if name == "void" {
		return rtype.NewPrim(rtype.Unit)
	}
	return rtype.NewUnknown()
}
