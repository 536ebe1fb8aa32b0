// Package llvmbackend is the LLVM backend placeholder: it satisfies
// the Backend interface internal/compiler declares, and its Generate
// always reports LLVM codegen unimplemented, since only the C
// backend is implemented. `--backend llvm` resolves to this package
// and fails cleanly rather than silently falling back to C.
//
// Grounded on the original Rust reference's backend::llvm::LLVMCodeGen
// — a CodeGen trait implementation whose generate() is a TODO'd stub
// returning an empty byte slice.
package llvmbackend

import (
	"fmt"

	"github.com/aetherlang/aethc/internal/ir"
)

// Backend implements the same single-method contract
// internal/compiler.Backend declares, kept here as a local type to
// avoid an import cycle; internal/compiler.CBackend and this type are
// structurally interchangeable.
type Backend struct {
	Target string
}

// New returns an LLVM backend placeholder for the given target
// triple. The triple is recorded but never consulted, since Generate
// always fails.
func New(target string) *Backend {
	return &Backend{Target: target}
}

// Generate always reports that LLVM codegen is not implemented.
func (b *Backend) Generate(mod *ir.Module, target string) (string, error) {
	return "", fmt.Errorf("llvmbackend: LLVM code generation is not implemented (target %q)", target)
}

// Name identifies this backend for diagnostics and --backend
// validation messages.
func (b *Backend) Name() string { return "llvm" }
