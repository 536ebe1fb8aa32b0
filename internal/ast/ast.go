// Package ast defines the tagged tree of items, statements,
// expressions, and types produced by the parser.
//
// Every node carries a span. Node families are modeled as Go
// interfaces with an unexported marker method per family, and one
// concrete struct per variant — a tagged sum in the idiom the rest of
// this compiler uses for closed enumerations.
package ast

import "github.com/aetherlang/aethc/internal/span"

// Node is implemented by every AST node.
type Node interface {
	Spanned() span.Span
}

type Base struct {
	Span span.Span
}

// Spanned implements Node.
func (b Base) Spanned() span.Span { return b.Span }

// Program is the ordered sequence of top-level items.
type Program struct {
	Base
	Items []Item
}

// ---- Items ----

// Item is one of Function, Struct, Enum, Impl, Interface, Const,
// Static, ExternBlock, Union, TypeAlias, Module, Use, MacroDecl.
type Item interface {
	Node
	itemNode()
}

// Attribute is a collected `#[name(args)]` annotation.
type Attribute struct {
	Name string
	Args []string
}

// Param is a function or closure parameter.
type Param struct {
	Name      string
	Ownership Ownership
	Type      Type // nil for closure params with no annotation
	Span      span.Span
}

// Ownership tags a parameter's or type's ownership modifier.
type Ownership int

const (
	OwnNone Ownership = iota
	OwnOwn
	OwnRef
	OwnMut
	OwnShared
)

// ContractKind distinguishes requires/ensures/invariant clauses.
type ContractKind int

const (
	Requires ContractKind = iota
	Ensures
	Invariant
)

// Contract is a single requires/ensures/invariant clause.
type Contract struct {
	Kind ContractKind
	Expr Expr
	Span span.Span
}

// Effect is a member of the closed effect set.
type Effect string

const (
	EffectRead  Effect = "read"
	EffectWrite Effect = "write"
	EffectIO    Effect = "io"
	EffectAlloc Effect = "alloc"
	EffectPanic Effect = "panic"
)

// EffectSet is a purity flag plus a set drawn from the closed effect
// vocabulary.
type EffectSet struct {
	Pure     bool
	Effects  []Effect
	Declared bool // true if an effect/pure annotation was written at all
}

// TypeParam is a generic type parameter name on a function, struct,
// or enum.
type TypeParam struct {
	Name string
	Span span.Span
}

// Function is a top-level or impl-block function definition.
type Function struct {
	Base
	Name       string
	TypeParams []TypeParam
	Params     []Param
	Return     Type // nil means unit
	Body       *Block
	Public     bool
	Contracts  []Contract
	Effects    EffectSet
	Attrs      []Attribute
}

func (*Function) itemNode() {}

// StructField is one field of a struct declarator.
type StructField struct {
	Name   string
	Type   Type
	Public bool
	Span   span.Span
}

// Repr is the struct layout packing kind.
type Repr int

const (
	ReprDefault Repr = iota
	ReprTransparent
	ReprPacked
)

// Struct is a struct declarator.
type Struct struct {
	Base
	Name       string
	Public     bool
	TypeParams []TypeParam
	Fields     []StructField
	Invariants []Contract
	Repr       Repr
	Attrs      []Attribute
}

func (*Struct) itemNode() {}

// EnumVariant is one variant of an enum declarator.
type EnumVariant struct {
	Name   string
	Fields []Type // tuple-style payload; empty for a unit variant
	Span   span.Span
}

// Enum is an enum declarator.
type Enum struct {
	Base
	Name       string
	Public     bool
	TypeParams []TypeParam
	Variants   []EnumVariant
}

func (*Enum) itemNode() {}

// Impl is an `impl Name { ... }` block.
type Impl struct {
	Base
	TypeName   string
	TraitName  string // empty for an inherent impl
	TypeParams []TypeParam
	Methods    []*Function
}

func (*Impl) itemNode() {}

// InterfaceMethod is one method signature inside an interface/trait.
type InterfaceMethod struct {
	Name   string
	Params []Param
	Return Type
	Span   span.Span
}

// Interface is an interface/trait declaration.
type Interface struct {
	Base
	Name    string
	Methods []InterfaceMethod
}

func (*Interface) itemNode() {}

// Const is a top-level constant declaration.
type Const struct {
	Base
	Name  string
	Type  Type
	Value Expr
}

func (*Const) itemNode() {}

// Static is a top-level mutable static declaration.
type Static struct {
	Base
	Name  string
	Type  Type
	Value Expr
	Mut   bool
}

func (*Static) itemNode() {}

// ExternFunc is one function signature inside an extern block.
type ExternFunc struct {
	Name   string
	Params []Param
	Return Type
	Span   span.Span
}

// ExternStatic is one static declaration inside an extern block.
type ExternStatic struct {
	Name string
	Type Type
	Span span.Span
}

// ExternBlock is an `extern "ABI" { ... }` block.
type ExternBlock struct {
	Base
	ABI     string
	Funcs   []ExternFunc
	Statics []ExternStatic
}

func (*ExternBlock) itemNode() {}

// Union is a union declarator.
type Union struct {
	Base
	Name   string
	Fields []StructField
}

func (*Union) itemNode() {}

// TypeAlias is a `type Name = T;` declaration.
type TypeAlias struct {
	Base
	Name string
	Type Type
}

func (*TypeAlias) itemNode() {}

// Module is a nested `module name { ... }` declaration.
type Module struct {
	Base
	Name  string
	Items []Item
}

func (*Module) itemNode() {}

// Use is a `use path;` declaration.
type Use struct {
	Base
	Path []string
}

func (*Use) itemNode() {}

// MacroDecl is a `macro name(...) { ... }` declaration. The core
// accepts macro declarations syntactically but never expands them.
type MacroDecl struct {
	Base
	Name string
	Body span.Span
}

func (*MacroDecl) itemNode() {}

// ---- Types ----

// Type is one of the variants below.
type Type interface {
	Node
	typeNode()
}

// NamedType is a simple or generic-application named type, e.g. `i64`
// or `Box<T>`.
type NamedType struct {
	Base
	Name string
	Args []Type
}

func (*NamedType) typeNode() {}

// PointerType is `*T`.
type PointerType struct {
	Base
	Elem Type
}

func (*PointerType) typeNode() {}

// ReferenceType is `&[mut] [lifetime] T`.
type ReferenceType struct {
	Base
	Mut      bool
	Lifetime string
	Elem     Type
}

func (*ReferenceType) typeNode() {}

// ArrayType is `[T; N]`.
type ArrayType struct {
	Base
	Elem Type
	Size int64
}

func (*ArrayType) typeNode() {}

// SliceType is `[T]`.
type SliceType struct {
	Base
	Elem Type
}

func (*SliceType) typeNode() {}

// TupleType is `(T, ...)`.
type TupleType struct {
	Base
	Elems []Type
}

func (*TupleType) typeNode() {}

// UnitType is `()`.
type UnitType struct{ Base }

func (*UnitType) typeNode() {}

// NeverType is the bottom type (the return type of a diverging
// function).
type NeverType struct{ Base }

func (*NeverType) typeNode() {}

// InferredType is `_`: the type is left for the analyzer to fill in.
type InferredType struct{ Base }

func (*InferredType) typeNode() {}

// FunctionType is a first-class function type `fn(T, ...) -> R`.
type FunctionType struct {
	Base
	Params []Type
	Return Type
}

func (*FunctionType) typeNode() {}

// OwnedType wraps a type with an `own`/`shared` ownership prefix.
type OwnedType struct {
	Base
	Ownership Ownership
	Elem      Type
}

func (*OwnedType) typeNode() {}

// VolatileType wraps a type with the `volatile` qualifier.
type VolatileType struct {
	Base
	Elem Type
}

func (*VolatileType) typeNode() {}

// ---- Statements ----

// Stmt is one of Let, ExprStmt, Return, Break, Continue, Empty.
type Stmt interface {
	Node
	stmtNode()
}

// Let is a `let [mut] name [: T] [= expr];` binding.
type Let struct {
	Base
	Name    string
	Mut     bool
	Type    Type // nil if not declared
	Init    Expr // nil if not initialized
}

func (*Let) stmtNode() {}

// ExprStmt is an expression used as a statement; its value is
// discarded.
type ExprStmt struct {
	Base
	X Expr
}

func (*ExprStmt) stmtNode() {}

// Return is a `return [expr];` statement.
type Return struct {
	Base
	Value Expr // nil for bare `return`
}

func (*Return) stmtNode() {}

// Break is a `break;` statement.
type Break struct{ Base }

func (*Break) stmtNode() {}

// Continue is a `continue;` statement.
type Continue struct{ Base }

func (*Continue) stmtNode() {}

// Empty is a bare `;`.
type Empty struct{ Base }

func (*Empty) stmtNode() {}

// Block is `{ stmt... }`; its value is the last statement's value
// when that statement is an ExprStmt with no trailing semicolon is
// not separately tracked here — Block's result is whatever the
// lowering stage decides from its final ExprStmt.
type Block struct {
	Base
	Stmts []Stmt
}

func (*Block) exprNode() {}

// ---- Expressions ----

// Expr is implemented by every expression node, including Block.
type Expr interface {
	Node
	exprNode()
}

// LitKind tags a Literal's payload type.
type LitKind int

const (
	LitInt LitKind = iota
	LitFloat
	LitString
	LitChar
	LitBool
)

// Literal is an int/float/string/char/bool literal.
type Literal struct {
	Base
	Kind LitKind
	Int  int64
	Flt  float64
	Str  string
	Chr  rune
	Bool bool
}

func (*Literal) exprNode() {}

// Ident is a bare identifier reference.
type Ident struct {
	Base
	Name string
}

func (*Ident) exprNode() {}

// Path is a multi-segment `a::b::c` reference.
type Path struct {
	Base
	Segments []string
}

func (*Path) exprNode() {}

// BinOp is a binary operator token, e.g. "+", "==", "=", "+=".
type BinOp string

// Binary is a binary (including assignment) expression.
type Binary struct {
	Base
	Op    BinOp
	Left  Expr
	Right Expr
}

func (*Binary) exprNode() {}

// UnOp is a unary operator token.
type UnOp string

// Unary is a prefix unary expression.
type Unary struct {
	Base
	Op Operand
	X  Expr
}

// Operand aliases UnOp to keep the Unary struct compact; kept as a
// distinct name so call sites read `ast.Operand` rather than a bare
// string type.
type Operand = UnOp

func (*Unary) exprNode() {}

// Call is a function call expression.
type Call struct {
	Base
	Callee Expr
	Args   []Expr
}

func (*Call) exprNode() {}

// Field is a `.name` field access.
type Field struct {
	Base
	X    Expr
	Name string
}

func (*Field) exprNode() {}

// MethodCall is a `.name(args)` method call.
type MethodCall struct {
	Base
	Recv Expr
	Name string
	Args []Expr
}

func (*MethodCall) exprNode() {}

// Index is a `[idx]` index access.
type Index struct {
	Base
	X   Expr
	Idx Expr
}

func (*Index) exprNode() {}

// If is an if/else expression. Else may be nil, a *Block, or another
// *If (the desugaring of `else if`).
type If struct {
	Base
	Cond Expr
	Then *Block
	Else Expr
}

func (*If) exprNode() {}

// MatchArm is one `pattern => expr` arm of a match expression.
type MatchArm struct {
	Pattern Expr // patterns are parsed as expressions (literals, idents, paths)
	Guard   Expr // nil if no guard
	Body    Expr
	Span    span.Span
}

// Match is a match expression.
type Match struct {
	Base
	Subject Expr
	Arms    []MatchArm
}

func (*Match) exprNode() {}

// Loop is an unconditional `loop { ... }`.
type Loop struct {
	Base
	Body *Block
}

func (*Loop) exprNode() {}

// While is a `while cond { ... }`.
type While struct {
	Base
	Cond Expr
	Body *Block
}

func (*While) exprNode() {}

// For is a `for name in expr { ... }`.
type For struct {
	Base
	Binder string
	Iter   Expr
	Body   *Block
}

func (*For) exprNode() {}

// FieldInit is one `name: expr` initializer of a struct literal.
type FieldInit struct {
	Name string
	Expr Expr
	Span span.Span
}

// StructLit is a `Name { field: expr, ... }` struct literal.
type StructLit struct {
	Base
	Name   string
	Fields []FieldInit
}

func (*StructLit) exprNode() {}

// ArrayLit is a `[e, e, ...]` array literal.
type ArrayLit struct {
	Base
	Elems []Expr
}

func (*ArrayLit) exprNode() {}

// TupleLit is a `(e, e, ...)` tuple literal.
type TupleLit struct {
	Base
	Elems []Expr
}

func (*TupleLit) exprNode() {}

// Ref is `&[mut] expr`.
type Ref struct {
	Base
	Mut bool
	X   Expr
}

func (*Ref) exprNode() {}

// Deref is `*expr`.
type Deref struct {
	Base
	X Expr
}

func (*Deref) exprNode() {}

// Cast is `expr as T`.
type Cast struct {
	Base
	X    Expr
	Type Type
}

func (*Cast) exprNode() {}

// Range is `a..b` or `a..=b`.
type Range struct {
	Base
	Start     Expr
	End       Expr
	Inclusive bool
}

func (*Range) exprNode() {}

// Unsafe is an `unsafe [(reason = "...", verifier = name)] { ... }`
// block.
type Unsafe struct {
	Base
	Reason   string
	Verifier string
	Body     *Block
}

func (*Unsafe) exprNode() {}

// AsmOperandKind tags an inline-asm operand's direction.
type AsmOperandKind int

const (
	AsmIn AsmOperandKind = iota
	AsmOut
	AsmInOut
	AsmClobber
)

// AsmOperand is one operand of an `asm!` expression.
type AsmOperand struct {
	Kind       AsmOperandKind
	Constraint string
	Expr       Expr // nil for Clobber operands
	Span       span.Span
}

// Asm is an `asm!("template", operand, ...)` inline-assembly
// expression.
type Asm struct {
	Base
	Template string
	Operands []AsmOperand
}

func (*Asm) exprNode() {}

// Try is `expr?`, error-propagation.
type Try struct {
	Base
	X Expr
}

func (*Try) exprNode() {}

// Closure is `|params| expr` or `|params| -> type { ... }`. Parsed but
// never lowered to IR.
type Closure struct {
	Base
	Params []Param
	Return Type // nil if not annotated
	Body   Expr
}

func (*Closure) exprNode() {}
