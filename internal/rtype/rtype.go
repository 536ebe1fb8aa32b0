// Package rtype implements the resolved-type representation and
// compatibility rules shared by semantic analysis and IR lowering.
package rtype

import "fmt"

// Kind tags which resolved-type variant a Type holds.
type Kind int

const (
	Primitive Kind = iota
	Pointer
	Reference
	Array
	Slice
	Tuple
	Struct
	Enum
	Function
	Generic
	GenericParam
	String
	Unknown
)

// Primitive kinds: signed/unsigned integers of widths 8/16/32/64 plus
// pointer-sized, floats of 32/64, bool, char, unit, never.
type Prim int

const (
	I8 Prim = iota
	I16
	I32
	I64
	Isize
	U8
	U16
	U32
	U64
	Usize
	F32
	F64
	Bool
	Char
	Unit
	Never
)

var primNames = map[Prim]string{
	I8: "i8", I16: "i16", I32: "i32", I64: "i64", Isize: "isize",
	U8: "u8", U16: "u16", U32: "u32", U64: "u64", Usize: "usize",
	F32: "f32", F64: "f64", Bool: "bool", Char: "char", Unit: "()", Never: "never",
}

func (p Prim) String() string { return primNames[p] }

// IsInteger reports whether p is one of the integer primitives.
func (p Prim) IsInteger() bool {
	switch p {
	case I8, I16, I32, I64, Isize, U8, U16, U32, U64, Usize:
		return true
	}
	return false
}

// IsSigned reports whether an integer primitive is signed.
func (p Prim) IsSigned() bool {
	switch p {
	case I8, I16, I32, I64, Isize:
		return true
	}
	return false
}

// Width returns the bit width of an integer primitive (pointer-sized
// widths report 64, matching the emitter's LP64 assumption).
func (p Prim) Width() int {
	switch p {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32:
		return 32
	case I64, U64, Isize, Usize:
		return 64
	case F32:
		return 32
	case F64:
		return 64
	}
	return 0
}

// Field is one field of a resolved struct type.
type Field struct {
	Name string
	Type *Type
}

// Type is a resolved type: a closed variant selected by Kind plus the
// payload fields relevant to that variant.
type Type struct {
	Kind Kind

	Prim Prim // Kind == Primitive

	Elem *Type // Pointer, Reference, Array, Slice, Generic element use N/A
	Mut  bool  // Reference

	Size int64 // Array

	Elems []*Type // Tuple

	Name   string  // Struct, Enum, Generic, GenericParam
	Fields []Field // Struct

	Params []*Type // Function
	Return *Type   // Function

	Args []*Type // Generic
}

// NewPrim builds a primitive resolved type.
func NewPrim(p Prim) *Type { return &Type{Kind: Primitive, Prim: p} }

// NewString builds the string resolved type.
func NewString() *Type { return &Type{Kind: String} }

// NewUnknown builds the permissive unknown type used during lenient
// error recovery.
func NewUnknown() *Type { return &Type{Kind: Unknown} }

// NewPointer builds `*elem`.
func NewPointer(elem *Type) *Type { return &Type{Kind: Pointer, Elem: elem} }

// NewReference builds `&[mut] elem`.
func NewReference(elem *Type, mut bool) *Type {
	return &Type{Kind: Reference, Elem: elem, Mut: mut}
}

// NewArray builds `[elem; size]`.
func NewArray(elem *Type, size int64) *Type {
	return &Type{Kind: Array, Elem: elem, Size: size}
}

// NewSlice builds `[elem]`.
func NewSlice(elem *Type) *Type { return &Type{Kind: Slice, Elem: elem} }

// NewTuple builds `(elems...)`.
func NewTuple(elems []*Type) *Type { return &Type{Kind: Tuple, Elems: elems} }

// NewStruct builds a named struct type with resolved fields.
func NewStruct(name string, fields []Field) *Type {
	return &Type{Kind: Struct, Name: name, Fields: fields}
}

// NewEnum builds a named enum type.
func NewEnum(name string) *Type { return &Type{Kind: Enum, Name: name} }

// NewFunction builds a function type.
func NewFunction(params []*Type, ret *Type) *Type {
	return &Type{Kind: Function, Params: params, Return: ret}
}

// NewGeneric builds a generic application, e.g. Box<i64>.
func NewGeneric(name string, args []*Type) *Type {
	return &Type{Kind: Generic, Name: name, Args: args}
}

// NewGenericParam builds a bare generic parameter reference.
func NewGenericParam(name string) *Type { return &Type{Kind: GenericParam, Name: name} }

// String renders a human-readable type description, used in
// diagnostics' expected/got fields.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case Primitive:
		return t.Prim.String()
	case String:
		return "str"
	case Unknown:
		return "_"
	case Pointer:
		return "*" + t.Elem.String()
	case Reference:
		if t.Mut {
			return "&mut " + t.Elem.String()
		}
		return "&" + t.Elem.String()
	case Array:
		return fmt.Sprintf("[%s; %d]", t.Elem.String(), t.Size)
	case Slice:
		return "[" + t.Elem.String() + "]"
	case Tuple:
		s := "("
		for i, e := range t.Elems {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + ")"
	case Struct:
		return t.Name
	case Enum:
		return t.Name
	case Function:
		s := "fn("
		for i, p := range t.Params {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		s += ")"
		if t.Return != nil && !(t.Return.Kind == Primitive && t.Return.Prim == Unit) {
			s += " -> " + t.Return.String()
		}
		return s
	case Generic:
		s := t.Name + "<"
		for i, a := range t.Args {
			if i > 0 {
				s += ", "
			}
			s += a.String()
		}
		return s + ">"
	case GenericParam:
		return t.Name
	}
	return "?"
}

// Compatible implements the strict-with-documented-widening
// compatibility relation: target accepts a value of type src.
func Compatible(target, src *Type) bool {
	if target == nil || src == nil {
		return true
	}
	if target.Kind == Unknown || src.Kind == Unknown {
		return true
	}
	if target.Kind != src.Kind {
		// Integer widening exception handled below even across the same
		// Kind (Primitive), so a Kind mismatch here is always
		// incompatible except string<->string which share Kind==String.
		return false
	}
	switch target.Kind {
	case Primitive:
		if target.Prim == src.Prim {
			return true
		}
		if target.Prim.IsInteger() && src.Prim.IsInteger() {
			// Signed/unsigned of the same width are compatible.
			if target.Prim.Width() == src.Prim.Width() {
				return true
			}
			// Any narrower integer widened to i64 is permitted (the
			// integer-literal default widens into narrower targets).
			if src.Prim == I64 && target.Prim.Width() < 64 {
				return true
			}
			if target.Prim == I64 && src.Prim.Width() < 64 {
				return true
			}
			return false
		}
		return false
	case String:
		return true
	case Pointer:
		return Compatible(target.Elem, src.Elem)
	case Reference:
		if !Compatible(target.Elem, src.Elem) {
			return false
		}
		// A mutable reference is usable where immutable is expected.
		if !target.Mut && src.Mut {
			return true
		}
		return target.Mut == src.Mut
	case Array:
		return target.Size == src.Size && Compatible(target.Elem, src.Elem)
	case Slice:
		return Compatible(target.Elem, src.Elem)
	case Tuple:
		if len(target.Elems) != len(src.Elems) {
			return false
		}
		for i := range target.Elems {
			if !Compatible(target.Elems[i], src.Elems[i]) {
				return false
			}
		}
		return true
	case Struct:
		return target.Name == src.Name
	case Enum:
		return target.Name == src.Name
	case Function:
		if len(target.Params) != len(src.Params) {
			return false
		}
		for i := range target.Params {
			if !Compatible(target.Params[i], src.Params[i]) {
				return false
			}
		}
		return Compatible(target.Return, src.Return)
	case Generic:
		if target.Name != src.Name || len(target.Args) != len(src.Args) {
			return false
		}
		for i := range target.Args {
			if !Compatible(target.Args[i], src.Args[i]) {
				return false
			}
		}
		return true
	case GenericParam:
		return target.Name == src.Name
	}
	return false
}

// Equal reports mutual compatibility: Compatible holds in both
// directions. For integers this is looser than identity: same-width
// signed/unsigned pairs, and i64 paired with any narrower integer,
// are Equal.
func Equal(a, b *Type) bool {
	return Compatible(a, b) && Compatible(b, a)
}

// IsStruct reports whether t is a struct, possibly behind exactly one
// level of pointer or reference (the field-access auto-deref rule).
// Returns the struct type and true if so.
func IsStruct(t *Type) (*Type, bool) {
	if t == nil {
		return nil, false
	}
	switch t.Kind {
	case Struct:
		return t, true
	case Pointer, Reference:
		if t.Elem != nil && t.Elem.Kind == Struct {
			return t.Elem, true
		}
	}
	return nil, false
}
