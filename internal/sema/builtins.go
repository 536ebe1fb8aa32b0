package sema

import "github.com/aetherlang/aethc/internal/rtype"

// builtinSig is one built-in function's fixed signature.
type builtinSig struct {
	Params []*rtype.Type
	Return *rtype.Type
	Impure bool
}

// builtins is the fixed registry seeded into the global scope before
// checking begins. Every entry but assert is impure: a pure function
// that calls one is an effect violation.
var builtins = map[string]builtinSig{
	"print":          {Params: []*rtype.Type{rtype.NewString()}, Return: unitType(), Impure: true},
	"println":        {Params: []*rtype.Type{rtype.NewString()}, Return: unitType(), Impure: true},
	"print_i64":      {Params: []*rtype.Type{rtype.NewPrim(rtype.I64)}, Return: unitType(), Impure: true},
	"println_i64":    {Params: []*rtype.Type{rtype.NewPrim(rtype.I64)}, Return: unitType(), Impure: true},
	"puts":           {Params: []*rtype.Type{rtype.NewPointer(rtype.NewPrim(rtype.U8))}, Return: rtype.NewPrim(rtype.I32), Impure: true},
	"alloc":          {Params: []*rtype.Type{rtype.NewPrim(rtype.U64)}, Return: rtype.NewPointer(rtype.NewPrim(rtype.U8)), Impure: true},
	"free":           {Params: []*rtype.Type{rtype.NewPointer(rtype.NewPrim(rtype.U8))}, Return: unitType(), Impure: true},
	"exit":           {Params: []*rtype.Type{rtype.NewPrim(rtype.I32)}, Return: rtype.NewPrim(rtype.Never), Impure: true},
	"assert":         {Params: []*rtype.Type{rtype.NewPrim(rtype.Bool)}, Return: unitType(), Impure: false},
}

func unitType() *rtype.Type { return rtype.NewPrim(rtype.Unit) }

// builtinIsImpure reports whether calling name from inside a `pure`
// function is an effect violation, reading the one Impure bit each
// builtins entry already carries rather than maintaining a second,
// independently-updated list that can drift out of sync with it.
func builtinIsImpure(name string) bool {
	sig, ok := builtins[name]
	return ok && sig.Impure
}
