// Package metaengine is the compile-time metaprogramming engine stub:
// it accepts a macro declaration plus the token stream of one
// invocation site and always reports that expansion is unsupported.
// It never drives compilation; nothing in internal/compiler imports
// this package.
//
// The capability-probe shape — ask an Engine what it supports before
// handing it work, rather than letting it fail deep inside a call —
// is grounded on the teacher's providers/base.LanguageConfig /
// Provider split (providers/base/provider.go).
package metaengine

import (
	"fmt"

	"github.com/aetherlang/aethc/internal/ast"
	"github.com/aetherlang/aethc/internal/token"
)

// Capability names one unit of metaprogramming support an Engine may
// or may not provide.
type Capability string

const (
	CapMacroExpansion  Capability = "macro_expansion"
	CapCompileTimeEval Capability = "compile_time_eval"
	CapCodeGeneration  Capability = "code_generation"
)

// Engine is the interface a real metaprogramming backend would
// satisfy; Stub implements it by reporting no capabilities.
type Engine interface {
	Supports(cap Capability) bool
	Expand(decl *ast.MacroDecl, invocation []token.Token) (ExpansionResult, error)
}

// ExpansionResult carries a macro expansion's generated tokens. A Stub
// Engine never populates Tokens; Unsupported is always true.
type ExpansionResult struct {
	Tokens      []token.Token
	Unsupported bool
	Reason      string
}

// Stub is the always-unsupported Engine. No part of the compiler
// pipeline calls it.
type Stub struct{}

// New returns the placeholder Engine.
func New() Engine { return Stub{} }

// Supports always reports false: a Stub has no capabilities.
func (Stub) Supports(Capability) bool { return false }

// Expand always fails with an unsupported-operation error, naming the
// macro so the caller can surface a useful diagnostic.
func (Stub) Expand(decl *ast.MacroDecl, invocation []token.Token) (ExpansionResult, error) {
	name := "<anonymous>"
	if decl != nil {
		name = decl.Name
	}
	return ExpansionResult{
		Unsupported: true,
		Reason:      fmt.Sprintf("macro %q: compile-time macro expansion is not implemented", name),
	}, fmt.Errorf("metaengine: macro %q: expansion unsupported", name)
}
