// Command aethc is the AetherLang core compiler driver: lex, parse,
// analyze, lower, optimize, emit, then hand the generated C off to an
// external C compiler, mirroring the teacher's cobra-based command
// surface (demo/cmd/main.go) layered over the flag set the teacher's
// primary driver (cmd/morfx/main.go) exposes.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/aetherlang/aethc/internal/cache"
	"github.com/aetherlang/aethc/internal/compiler"
	"github.com/aetherlang/aethc/internal/diag"
	"github.com/aetherlang/aethc/internal/diagprint"
	"github.com/aetherlang/aethc/internal/emit"
	"github.com/aetherlang/aethc/internal/lexer"
	"github.com/aetherlang/aethc/internal/llvmbackend"
	"github.com/aetherlang/aethc/internal/lspshell"
	"github.com/aetherlang/aethc/internal/parser"
	"github.com/aetherlang/aethc/internal/sema"
	"github.com/aetherlang/aethc/internal/semgraph"
	"github.com/aetherlang/aethc/internal/surface"
)

const toolVersion = "0.1.0"

// errCompileFailed signals a fatal diagnostic was already printed via
// diagprint; cobra's root.Execute() error path turns it into exit
// status 1 without reprinting the underlying message.
var errCompileFailed = errors.New("aethc: compilation failed")

// flags holds the shared option set every subcommand reads from, the
// way the teacher's Runner gathers CLI flags into one struct before
// dispatch.
type flags struct {
	output    string
	emitC     bool
	emitIR    bool
	optLevel  int
	backend   string
	strict    bool
	noColor   bool
	cachePath string
	ccPath    string
}

func main() {
	_ = godotenv.Load()

	f := &flags{}

	root := &cobra.Command{
		Use:   "aethc [input]",
		Short: "The AetherLang core compiler",
		Long:  "aethc compiles AetherLang source to C and, by default, an executable.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runBuild(args[0], f)
		},
	}

	root.SilenceUsage = true
	root.SilenceErrors = true
	bindFlags(root, f)

	buildCmd := &cobra.Command{
		Use:   "build <input>",
		Short: "Compile input to C (and link, unless --emit-c/--emit-ir)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args[0], f)
		},
	}
	bindFlags(buildCmd, f)

	checkCmd := &cobra.Command{
		Use:   "check <input>",
		Short: "Run lexing, parsing, and semantic analysis only",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0], f)
		},
	}
	bindFlags(checkCmd, f)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the compiler version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("aethc " + toolVersion)
		},
	}

	semgraphCmd := &cobra.Command{
		Use:   "semgraph <input>",
		Short: "Print the call/contract graph of a checked program as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSemgraph(args[0], f)
		},
	}
	bindFlags(semgraphCmd, f)

	lspCmd := &cobra.Command{
		Use:   "lsp",
		Short: "Run a minimal language-server shell over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return lspshell.New(os.Stdin, os.Stdout, "aethc-lsp", toolVersion).Run()
		},
	}

	root.AddCommand(buildCmd, checkCmd, versionCmd, semgraphCmd, lspCmd)

	if err := root.Execute(); err != nil {
		if !errors.Is(err, errCompileFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func bindFlags(cmd *cobra.Command, f *flags) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output path (defaults to the input's base name)")
	cmd.Flags().BoolVar(&f.emitC, "emit-c", false, "emit the generated C instead of invoking a C compiler")
	cmd.Flags().BoolVar(&f.emitIR, "emit-ir", false, "emit the intermediate representation text")
	cmd.Flags().IntVarP(&f.optLevel, "opt", "O", 0, "optimizer level (0-3)")
	cmd.Flags().StringVar(&f.backend, "backend", "c", "codegen backend (c|llvm)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "halt on the first type/effect diagnostic instead of accumulating")
	cmd.Flags().BoolVar(&f.noColor, "no-color", false, "disable diagnostic colorization")
	cmd.Flags().StringVar(&f.cachePath, "cache", "", "compilation cache DSN (sqlite file path or libsql:// URL)")
	cmd.Flags().StringVar(&f.ccPath, "cc", "", "accepted but not read; clang, gcc and cc are always tried in that order")
}

// resolveInputs expands glob patterns in pattern against the working
// directory, mirroring the teacher's core/filewalker.go glob matching
// but via doublestar so "**" matches across directory boundaries.
func resolveInputs(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[") {
		return []string{pattern}, nil
	}
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("aethc: expanding glob %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("aethc: glob %q matched no files", pattern)
	}
	return matches, nil
}

// loadSource reads input, transpiling it through internal/surface
// first when it carries the indentation-sensitive dialect's .ath
// extension.
func loadSource(input string) (path, src string, err error) {
	if filepath.Ext(input) != ".ath" {
		b, err := os.ReadFile(input)
		if err != nil {
			return "", "", fmt.Errorf("aethc: reading %s: %w", input, err)
		}
		return input, string(b), nil
	}

	raw, err := os.ReadFile(input)
	if err != nil {
		return "", "", fmt.Errorf("aethc: reading %s: %w", input, err)
	}
	generated, err := surface.Transpile(string(raw))
	if err != nil {
		return "", "", fmt.Errorf("aethc: transpiling %s: %w", input, err)
	}

	genPath := strings.TrimSuffix(input, ".ath") + ".gen.aeth"
	if err := os.WriteFile(genPath, []byte(generated), 0o644); err != nil {
		return "", "", fmt.Errorf("aethc: writing %s: %w", genPath, err)
	}
	return genPath, generated, nil
}

func modeFor(f *flags) diag.Mode {
	if f.strict {
		return diag.Strict
	}
	return diag.Lenient
}

func runCheck(input string, f *flags) error {
	inputs, err := resolveInputs(input)
	if err != nil {
		return err
	}
	printer := diagprint.New(os.Stderr)
	printer.NoColor = f.noColor

	hadFatal := false
	for _, in := range inputs {
		path, src, err := loadSource(in)
		if err != nil {
			return err
		}
		result := compiler.Compile(src, 0, compiler.Options{
			Stage: compiler.CheckOnly,
			Mode:  modeFor(f),
		})
		printer.Bag(path, src, result.Diagnostics)
		if result.Fatal() != nil {
			hadFatal = true
		}
	}
	if hadFatal {
		return errCompileFailed
	}
	return nil
}

func runBuild(input string, f *flags) error {
	if f.backend != "c" && f.backend != "llvm" {
		return fmt.Errorf("aethc: unknown backend %q (want c or llvm)", f.backend)
	}

	inputs, err := resolveInputs(input)
	if err != nil {
		return err
	}

	printer := diagprint.New(os.Stderr)
	printer.NoColor = f.noColor

	var c *cache.Cache
	if f.cachePath != "" {
		c, err = cache.Open(f.cachePath)
		if err != nil {
			return err
		}
		defer c.Close()
	}

	target := defaultTarget()
	hadFatal := false

	for _, in := range inputs {
		path, src, err := loadSource(in)
		if err != nil {
			return err
		}

		digest := cache.Digest(src)
		if c != nil && !f.emitIR {
			if cached, _ := c.Lookup(digest, toolVersion, target, f.optLevel); cached != nil && !cached.HadFatalError {
				if err := emitOutput(path, f, cached.CText, printer); err != nil {
					if errors.Is(err, errCompileFailed) {
						hadFatal = true
						continue
					}
					return err
				}
				continue
			}
		}

		opts := compiler.Options{
			Stage:    compiler.Build,
			Mode:     modeFor(f),
			OptLevel: f.optLevel,
			Target:   target,
			EmitIR:   f.emitIR,
			EmitC:    f.emitC,
		}
		if f.backend == "llvm" {
			opts.Backend = llvmbackend.New(target)
		}

		result := compiler.Compile(src, 0, opts)
		printer.Bag(path, src, result.Diagnostics)

		if result.Fatal() != nil {
			hadFatal = true
			if c != nil {
				_ = c.Store(digest, toolVersion, target, f.optLevel, "", nil, true)
			}
			continue
		}

		if f.emitIR {
			fmt.Println(result.IRText)
			continue
		}

		if c != nil {
			_ = c.Store(digest, toolVersion, target, f.optLevel, result.CText, nil, false)
		}

		if err := emitOutput(path, f, result.CText, printer); err != nil {
			if errors.Is(err, errCompileFailed) {
				hadFatal = true
				continue
			}
			return err
		}
	}

	if hadFatal {
		return errCompileFailed
	}
	return nil
}

// runSemgraph lexes, parses, and checks input, then prints its
// call/contract graph as JSON. It never reaches irgen, optimize, or a
// backend — internal/semgraph is a read-only view over a checked
// program, not a pipeline stage.
func runSemgraph(input string, f *flags) error {
	path, src, err := loadSource(input)
	if err != nil {
		return err
	}

	toks := lexer.Tokenize(src, 0)
	prog, perr := parser.Parse(toks, 0)
	printer := diagprint.New(os.Stderr)
	printer.NoColor = f.noColor
	if perr != nil {
		printer.Diagnostic(path, src, *perr)
		return errCompileFailed
	}

	checked, bag := sema.Check(prog, modeFor(f))
	printer.Bag(path, src, bag)
	if bag.Fatal() != nil {
		return errCompileFailed
	}

	graph := semgraph.Build(checked)
	out, err := json.MarshalIndent(graph, "", "  ")
	if err != nil {
		return fmt.Errorf("aethc: encoding semantic graph: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func defaultTarget() string {
	return "x86_64-unknown-linux-gnu"
}

// emitOutput decides what the C text a compilation produced turns
// into on disk: with --emit-c it is written verbatim; otherwise
// internal/emit.CompileExecutable invokes the external C compiler
// fallback chain and the linked binary is written instead, so that
// --emit-c and the default path never both produce an object or
// executable. A C compiler failure is reported as a diagnostic and
// errCompileFailed, the same as any other fatal stage.
func emitOutput(inputPath string, f *flags, cText string, printer *diagprint.Printer) error {
	if f.emitC {
		return writeOutput(inputPath, f, []byte(cText), false)
	}

	out, bag := emit.CompileExecutable(cText)
	printer.Bag(inputPath, cText, bag)
	if bag.Fatal() != nil {
		return errCompileFailed
	}
	return writeOutput(inputPath, f, out, true)
}

// writeOutput writes data to the configured output path (or the
// input's base name, plus a .c extension for generated C text) and
// marks the file executable when it's a linked binary.
func writeOutput(inputPath string, f *flags, data []byte, executable bool) error {
	out := f.output
	if out == "" {
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		if executable {
			out = base
		} else {
			out = base + ".c"
		}
	}
	perm := os.FileMode(0o644)
	if executable {
		perm = 0o755
	}
	if err := os.WriteFile(out, data, perm); err != nil {
		return fmt.Errorf("aethc: writing %s: %w", out, err)
	}
	return nil
}
