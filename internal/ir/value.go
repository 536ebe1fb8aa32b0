package ir

import "fmt"

// ValueKind tags a Value's variant: register, constant, parameter
// index, named global, or unit.
type ValueKind int

const (
	VRegister ValueKind = iota
	VConstInt
	VConstFloat
	VConstBool
	VConstString
	VConstNull
	VParam
	VGlobal
	VUnit
)

// Value is an IR value used as an instruction operand: a register
// reference, a compile-time constant, a parameter slot, a named
// global, or the unit value.
type Value struct {
	Kind ValueKind
	Type *Type

	Reg int // VRegister

	IntVal    int64   // VConstInt
	FloatVal  float64 // VConstFloat
	BoolVal   bool    // VConstBool
	StringVal string  // VConstString, VGlobal (name)

	ParamIdx int // VParam
}

func Reg(id int, t *Type) Value          { return Value{Kind: VRegister, Reg: id, Type: t} }
func ConstInt(v int64, t *Type) Value    { return Value{Kind: VConstInt, IntVal: v, Type: t} }
func ConstFloat(v float64, t *Type) Value { return Value{Kind: VConstFloat, FloatVal: v, Type: t} }
func ConstBool(v bool) Value             { return Value{Kind: VConstBool, BoolVal: v, Type: Prim(Bool)} }
func ConstString(v string) Value {
	return Value{Kind: VConstString, StringVal: v, Type: NewPointer(Prim(U8))}
}
func ConstNull(t *Type) Value    { return Value{Kind: VConstNull, Type: t} }
func Param(idx int, t *Type) Value { return Value{Kind: VParam, ParamIdx: idx, Type: t} }
func Global(name string, t *Type) Value {
	return Value{Kind: VGlobal, StringVal: name, Type: t}
}
func Unit() Value { return Value{Kind: VUnit, Type: Prim(Void)} }

// IsConst reports whether v is one of the constant-value kinds.
func (v Value) IsConst() bool {
	switch v.Kind {
	case VConstInt, VConstFloat, VConstBool, VConstString, VConstNull:
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.Kind {
	case VRegister:
		return fmt.Sprintf("%%r%d", v.Reg)
	case VConstInt:
		return fmt.Sprintf("%d", v.IntVal)
	case VConstFloat:
		return fmt.Sprintf("%g", v.FloatVal)
	case VConstBool:
		return fmt.Sprintf("%t", v.BoolVal)
	case VConstString:
		return fmt.Sprintf("%q", v.StringVal)
	case VConstNull:
		return "null"
	case VParam:
		return fmt.Sprintf("arg(%d)", v.ParamIdx)
	case VGlobal:
		return "@" + v.StringVal
	case VUnit:
		return "unit"
	}
	return "?"
}
