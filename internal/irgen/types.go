// Package irgen lowers a checked AST (sema.Program) into the typed IR:
// a fresh register counter and local-name table per function, an
// entry block materializing each parameter with a synthetic
// `assign %r = arg(i)`, then statement-by-statement lowering of the
// body.
package irgen

import (
	"github.com/aetherlang/aethc/internal/ir"
	"github.com/aetherlang/aethc/internal/rtype"
)

// toIRType maps a resolved type to its IR representation. References
// lower to pointers (the C backend has no separate reference
// representation); slices lower to a pointer-to-element (no length
// metadata — an accepted simplification; fat-pointer slices are not
// lowered); tuples lower to Unit, the same transparent-unsupported
// treatment already applied to closures and try-expressions.
func toIRType(t *rtype.Type) *ir.Type {
	if t == nil {
		return ir.Prim(ir.Void)
	}
	switch t.Kind {
	case rtype.Primitive:
		return toIRPrim(t.Prim)
	case rtype.String:
		return ir.NewPointer(ir.Prim(ir.U8))
	case rtype.Pointer:
		return ir.NewPointer(toIRType(t.Elem))
	case rtype.Reference:
		return ir.NewPointer(toIRType(t.Elem))
	case rtype.Array:
		return ir.NewArray(toIRType(t.Elem), int(t.Size))
	case rtype.Slice:
		return ir.NewPointer(toIRType(t.Elem))
	case rtype.Tuple:
		return ir.Prim(ir.Void)
	case rtype.Struct:
		return ir.NewStruct(t.Name)
	case rtype.Enum:
		// Payload-carrying enums are out of scope for layout generation
		// (full generic monomorphization and the associated instantiation
		// machinery are not implemented); represent as a tagged 64-bit
		// discriminant.
		return ir.Prim(ir.I64)
	case rtype.Function:
		params := make([]*ir.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = toIRType(p)
		}
		return ir.NewFunction(params, toIRType(t.Return))
	case rtype.Generic:
		return ir.NewStruct(mangleGeneric(t.Name, t.Args))
	default:
		return ir.Prim(ir.I64)
	}
}

func toIRPrim(p rtype.Prim) *ir.Type {
	switch p {
	case rtype.I8:
		return ir.Prim(ir.I8)
	case rtype.I16:
		return ir.Prim(ir.I16)
	case rtype.I32:
		return ir.Prim(ir.I32)
	case rtype.I64, rtype.Isize:
		return ir.Prim(ir.I64)
	case rtype.U8:
		return ir.Prim(ir.U8)
	case rtype.U16:
		return ir.Prim(ir.U16)
	case rtype.U32:
		return ir.Prim(ir.U32)
	case rtype.U64, rtype.Usize:
		return ir.Prim(ir.U64)
	case rtype.F32:
		return ir.Prim(ir.F32)
	case rtype.F64:
		return ir.Prim(ir.F64)
	case rtype.Bool:
		return ir.Prim(ir.Bool)
	case rtype.Char:
		return ir.Prim(ir.U32)
	case rtype.Unit, rtype.Never:
		return ir.Prim(ir.Void)
	}
	return ir.Prim(ir.I64)
}

// mangleGeneric mirrors sema's name-mangling convention: no real
// monomorphization, generic arguments are mangled into struct names.
func mangleGeneric(name string, args []*rtype.Type) string {
	out := name
	for _, a := range args {
		out += "_" + a.String()
	}
	return out
}

// exprType is toIRType's counterpart for the value an expression
// actually evaluates to at lowering time, rather than a declared
// signature/field type: struct-typed expressions always flow through
// registers as a pointer to their storage (a struct literal yields its
// alloca'd address; field access on a struct field yields the
// sub-object's address "enabling chained access", per §4.5), so here a
// struct resolves to a pointer-to-struct while every other kind is
// unchanged from toIRType.
func exprType(t *rtype.Type) *ir.Type {
	if t != nil && t.Kind == rtype.Struct {
		return ir.NewPointer(ir.NewStruct(t.Name))
	}
	return toIRType(t)
}

func isIntegerIR(t *ir.Type) bool { return t.IsInteger() }

func widthOf(t *ir.Type) int { return t.ByteSize() * 8 }
