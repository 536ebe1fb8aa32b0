// Package compiler orchestrates the full pipeline — lex, parse,
// analyze, lower, optimize, emit — behind a single entry point, the
// way the teacher's internal/core.Pipeline.Apply staged one
// deterministic run over an Input and accumulated a Stats/Diagnostics
// result as it went.
package compiler

import (
	"time"

	"github.com/aetherlang/aethc/internal/diag"
	"github.com/aetherlang/aethc/internal/emit"
	"github.com/aetherlang/aethc/internal/ir"
	"github.com/aetherlang/aethc/internal/irgen"
	"github.com/aetherlang/aethc/internal/lexer"
	"github.com/aetherlang/aethc/internal/optimize"
	"github.com/aetherlang/aethc/internal/parser"
	"github.com/aetherlang/aethc/internal/sema"
)

// Backend is the interface CBackend (over internal/emit) and
// internal/llvmbackend.Backend both satisfy, so the CLI driver can
// select one behind --backend without internal/compiler importing
// internal/llvmbackend.
type Backend interface {
	Generate(mod *ir.Module, target string) (string, error)
}

// CBackend adapts internal/emit.Emitter to Backend.
type CBackend struct{}

func (CBackend) Generate(mod *ir.Module, target string) (string, error) {
	return emit.New(mod, target).Generate(), nil
}

// Stage names the last pipeline step Options asked the Compiler to
// run. CheckOnly stops after semantic analysis; Build runs the full
// pipeline through emission.
type Stage int

const (
	CheckOnly Stage = iota
	Build
)

// Options configures one Compile call. Mode selects strict-vs-lenient
// diagnostic accumulation (§7). OptLevel above zero runs the optimizer
// to its fixed point (§4.6); zero skips it entirely, matching `-O0`.
// Target is a C target triple consulted by the backend's type mapping
// (§4.7). EmitIR/EmitC request the textual forms of intermediate
// stages be captured in the Result even when they are not the final
// output a caller needs.
type Options struct {
	Stage    Stage
	Mode     diag.Mode
	OptLevel int
	Target   string
	Backend  Backend
	EmitIR   bool
	EmitC    bool
}

// Result is everything a caller — the CLI driver, the language-server
// shell, a test — might want out of one compilation.
type Result struct {
	Diagnostics *diag.Bag
	Module      *ir.Module
	IRText      string
	CText       string
	Duration    time.Duration
}

// Fatal reports whether any stage produced a diagnostic that halts
// compilation, per the Bag convention every stage already follows.
func (r *Result) Fatal() *diag.Diagnostic {
	if r == nil || r.Diagnostics == nil {
		return nil
	}
	return r.Diagnostics.Fatal()
}

// Compile runs src (from logical file id) through every stage Options
// selects, stopping at the first fatal diagnostic. Parse errors are
// always fatal and are wrapped into the same Bag the later stages
// use, so callers only ever inspect Result.Fatal().
func Compile(src string, file int, opts Options) *Result {
	start := time.Now()
	bag := diag.NewBag(opts.Mode)
	result := &Result{Diagnostics: bag}

	toks := lexer.Tokenize(src, file)

	prog, perr := parser.Parse(toks, file)
	if perr != nil {
		bag.Add(*perr)
		result.Duration = time.Since(start)
		return result
	}

	checked, sbag := sema.Check(prog, opts.Mode)
	absorb(bag, sbag)
	if bag.Fatal() != nil {
		result.Duration = time.Since(start)
		return result
	}

	if opts.Stage == CheckOnly {
		result.Duration = time.Since(start)
		return result
	}

	mod, ibag := irgen.Generate(checked)
	absorb(bag, ibag)
	if bag.Fatal() != nil {
		result.Duration = time.Since(start)
		return result
	}
	result.Module = mod

	if opts.OptLevel > 0 {
		optimize.Run(mod)
	}

	if opts.EmitIR {
		result.IRText = ir.Print(mod)
	}

	backend := opts.Backend
	if backend == nil {
		backend = CBackend{}
	}
	cText, err := backend.Generate(mod, opts.Target)
	if err != nil {
		bag.Add(diag.New(diag.KindCodegen, diag.Fatal, "backend failed: %v", err))
		result.Duration = time.Since(start)
		return result
	}
	result.CText = cText

	result.Duration = time.Since(start)
	return result
}

// absorb folds a stage's own Bag into the accumulating result Bag, so
// a caller only ever inspects the one Bag compiler.Compile returns.
func absorb(into *diag.Bag, from *diag.Bag) {
	if from == nil {
		return
	}
	for _, d := range from.Items() {
		into.Add(d)
	}
}
