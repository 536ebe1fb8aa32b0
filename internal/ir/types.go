// Package ir implements the typed intermediate representation: a
// module of functions, each a list of basic blocks of three-address
// instructions, built once by the generator and then mutated in
// place by the optimizer.
package ir

import "fmt"

// TypeKind tags an IR type's variant.
type TypeKind int

const (
	Void TypeKind = iota
	Bool
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	PointerT
	ArrayT
	StructT
	FunctionT
	VectorT
)

// Type is an IR type: void; bool; signed/unsigned integers 8/16/32/64;
// float 32/64; pointer-to-T; fixed-size array-of-T; struct-by-name;
// function type; vector(element, lane-count).
type Type struct {
	Kind TypeKind

	Elem *Type // PointerT, ArrayT, VectorT
	Len  int   // ArrayT, VectorT (lane count)

	Name string // StructT

	Params []*Type // FunctionT
	Ret    *Type   // FunctionT
}

func Prim(k TypeKind) *Type            { return &Type{Kind: k} }
func NewPointer(elem *Type) *Type      { return &Type{Kind: PointerT, Elem: elem} }
func NewArray(elem *Type, n int) *Type { return &Type{Kind: ArrayT, Elem: elem, Len: n} }
func NewStruct(name string) *Type      { return &Type{Kind: StructT, Name: name} }
func NewVector(elem *Type, lanes int) *Type {
	return &Type{Kind: VectorT, Elem: elem, Len: lanes}
}
func NewFunction(params []*Type, ret *Type) *Type {
	return &Type{Kind: FunctionT, Params: params, Ret: ret}
}

// ByteSize reports the in-memory size of t on an LP64 target. Struct
// sizes are not known to the IR layer (only the emitter, which has the
// full layout table, can compute them) and report 0.
func (t *Type) ByteSize() int {
	switch t.Kind {
	case Void:
		return 0
	case Bool, I8, U8:
		return 1
	case I16, U16:
		return 2
	case I32, U32, F32:
		return 4
	case I64, U64, F64:
		return 8
	case PointerT, FunctionT:
		return 8
	case ArrayT:
		return t.Elem.ByteSize() * t.Len
	case VectorT:
		return t.Elem.ByteSize() * t.Len
	case StructT:
		return 0
	}
	return 0
}

// IsInteger reports whether t is one of the integer kinds.
func (t *Type) IsInteger() bool {
	switch t.Kind {
	case I8, I16, I32, I64, U8, U16, U32, U64:
		return true
	}
	return false
}

// IsSigned reports whether an integer Type is signed.
func (t *Type) IsSigned() bool {
	switch t.Kind {
	case I8, I16, I32, I64:
		return true
	}
	return false
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case Void:
		return "void"
	case Bool:
		return "bool"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case PointerT:
		return "*" + t.Elem.String()
	case ArrayT:
		return fmt.Sprintf("[%s; %d]", t.Elem.String(), t.Len)
	case StructT:
		return "struct " + t.Name
	case FunctionT:
		s := "fn("
		for i, p := range t.Params {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		return s + ") -> " + t.Ret.String()
	case VectorT:
		return fmt.Sprintf("vector(%s, %d)", t.Elem.String(), t.Len)
	}
	return "?"
}
