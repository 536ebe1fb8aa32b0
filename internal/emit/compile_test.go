package emit

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherlang/aethc/internal/diag"
)

func findCCompiler(t *testing.T) {
	t.Helper()
	for _, name := range compilers {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no C compiler (clang/gcc/cc) found on PATH; skipping")
}

const validProgram = `
#include <stdlib.h>
int main(void) { return 0; }
`

func TestCompileObjectProducesNonEmptyBytesOnValidSource(t *testing.T) {
	findCCompiler(t)

	out, bag := CompileObject(validProgram)
	require.Nil(t, bag.Fatal())
	assert.NotEmpty(t, out)
}

func TestCompileExecutableProducesNonEmptyBytesOnValidSource(t *testing.T) {
	findCCompiler(t)

	out, bag := CompileExecutable(validProgram)
	require.Nil(t, bag.Fatal())
	assert.NotEmpty(t, out)
}

func TestCompileExecutableReportsCCompilerDiagnosticOnInvalidSource(t *testing.T) {
	findCCompiler(t)

	_, bag := CompileExecutable("this is not valid C at all {{{")
	fatal := bag.Fatal()
	require.NotNil(t, fatal)
	assert.Equal(t, diag.KindCCompiler, fatal.Kind)
}
