package sema

import (
	"github.com/aetherlang/aethc/internal/ast"
	"github.com/aetherlang/aethc/internal/rtype"
)

// resolveType turns an AST type into its resolved form, looking up
// named types (structs, enums, primitives) in the analyzer's global
// tables. Unresolvable names degrade to rtype.Unknown rather than
// aborting resolution, and no diagnostic is reported for them; Unknown
// is accepted by every compatibility check. The only KindUndefinedType
// diagnostic the analyzer reports is for an unknown struct-literal
// name (checkStructLit).
func (a *Analyzer) resolveType(t ast.Type) *rtype.Type {
	if t == nil {
		return unitType()
	}
	switch n := t.(type) {
	case *ast.NamedType:
		return a.resolveNamed(n)
	case *ast.PointerType:
		return rtype.NewPointer(a.resolveType(n.Elem))
	case *ast.ReferenceType:
		return rtype.NewReference(a.resolveType(n.Elem), n.Mut)
	case *ast.ArrayType:
		return rtype.NewArray(a.resolveType(n.Elem), n.Size)
	case *ast.SliceType:
		return rtype.NewSlice(a.resolveType(n.Elem))
	case *ast.TupleType:
		elems := make([]*rtype.Type, len(n.Elems))
		for i, e := range n.Elems {
			elems[i] = a.resolveType(e)
		}
		return rtype.NewTuple(elems)
	case *ast.UnitType:
		return unitType()
	case *ast.NeverType:
		return rtype.NewPrim(rtype.Never)
	case *ast.InferredType:
		return rtype.NewUnknown()
	case *ast.FunctionType:
		params := make([]*rtype.Type, len(n.Params))
		for i, pt := range n.Params {
			params[i] = a.resolveType(pt)
		}
		return rtype.NewFunction(params, a.resolveType(n.Return))
	case *ast.OwnedType:
		// Ownership is tracked by the ownership checker, not the type
		// system proper; own/shared wrap the same resolved inner type.
		return a.resolveType(n.Elem)
	case *ast.VolatileType:
		return a.resolveType(n.Elem)
	default:
		return rtype.NewUnknown()
	}
}

var primByName = map[string]rtype.Prim{
	"i8": rtype.I8, "i16": rtype.I16, "i32": rtype.I32, "i64": rtype.I64, "isize": rtype.Isize,
	"u8": rtype.U8, "u16": rtype.U16, "u32": rtype.U32, "u64": rtype.U64, "usize": rtype.Usize,
	"f32": rtype.F32, "f64": rtype.F64, "bool": rtype.Bool, "char": rtype.Char,
}

func (a *Analyzer) resolveNamed(n *ast.NamedType) *rtype.Type {
	if p, ok := primByName[n.Name]; ok {
		return rtype.NewPrim(p)
	}
	if n.Name == "str" {
		return rtype.NewString()
	}
	if n.Name == "void" {
		return unitType()
	}
	if len(n.Args) > 0 {
		args := make([]*rtype.Type, len(n.Args))
		for i, arg := range n.Args {
			args[i] = a.resolveType(arg)
		}
		if st, ok := a.structs[mangleGeneric(n.Name, n.Args)]; ok {
			return st.Type
		}
		return rtype.NewGeneric(n.Name, args)
	}
	if st, ok := a.structs[n.Name]; ok {
		return st.Type
	}
	if en, ok := a.enums[n.Name]; ok {
		return en.Type
	}
	if _, ok := a.typeParamScope[n.Name]; ok {
		return rtype.NewGenericParam(n.Name)
	}
	return rtype.NewUnknown()
}

// mangleGeneric mangles a generic application's name the way the IR
// generator's monomorphization-free lowering does: base name
// concatenated with argument identifiers, e.g. Box<i64> -> Box_i64.
// Kept here too so the type resolver and IR lowering agree on the
// same struct name when a generic instantiation happens to match a
// pre-declared mangled struct.
func mangleGeneric(name string, args []ast.Type) string {
	out := name
	for _, a := range args {
		if nt, ok := a.(*ast.NamedType); ok {
			out += "_" + nt.Name
		}
	}
	return out
}
