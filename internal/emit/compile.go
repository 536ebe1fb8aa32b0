package emit

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/aetherlang/aethc/internal/diag"
)

// compilers is the fallback chain tried in order: clang, then gcc,
// then cc.
var compilers = []string{"clang", "gcc", "cc"}

// CompileObject writes source to a temporary .c file and invokes the
// first working compiler in the fallback chain with `-c -o <obj>`,
// returning the resulting object bytes. Every temp file is removed on
// every exit path. On failure from every compiler, the last
// compiler's stderr becomes a KindCCompiler diagnostic.
func CompileObject(source string) ([]byte, *diag.Bag) {
	return compileWith(source, []string{"-c"})
}

// CompileExecutable is CompileObject's counterpart producing a linked
// binary instead of an object file.
func CompileExecutable(source string) ([]byte, *diag.Bag) {
	return compileWith(source, nil)
}

func compileWith(source string, extraArgs []string) ([]byte, *diag.Bag) {
	bag := diag.NewBag(diag.Strict)

	dir, err := os.MkdirTemp("", "aethc")
	if err != nil {
		bag.Add(diag.New(diag.KindIO, diag.Fatal, "creating temp dir: %v", err))
		return nil, bag
	}
	defer os.RemoveAll(dir)

	cFile := filepath.Join(dir, "aether_temp.c")
	outFile := filepath.Join(dir, "aether_temp.out")
	if err := os.WriteFile(cFile, []byte(source), 0o644); err != nil {
		bag.Add(diag.New(diag.KindIO, diag.Fatal, "writing generated C: %v", err))
		return nil, bag
	}

	var lastStderr string
	for _, compiler := range compilers {
		args := append(append([]string{}, extraArgs...), "-o", outFile, cFile)
		cmd := exec.Command(compiler, args...)
		out, err := cmd.CombinedOutput()
		if err == nil {
			bytes, rerr := os.ReadFile(outFile)
			if rerr != nil {
				bag.Add(diag.New(diag.KindIO, diag.Fatal, "reading compiled output: %v", rerr))
				return nil, bag
			}
			return bytes, bag
		}
		lastStderr = string(out)
	}

	bag.Add(diag.New(diag.KindCCompiler, diag.Fatal, "failed to compile generated C: %s", lastStderr))
	return nil, bag
}
