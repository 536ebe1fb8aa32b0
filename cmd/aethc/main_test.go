package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherlang/aethc/internal/diag"
)

// findCCompiler skips the calling test when none of the external C
// compiler fallback chain (clang, gcc, cc) is on PATH, the same way
// the teacher's sqlite_integration_test.go skips when its external
// dependency (a live database URL) isn't configured.
func findCCompiler(t *testing.T) {
	t.Helper()
	for _, name := range []string{"clang", "gcc", "cc"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no C compiler (clang/gcc/cc) found on PATH; skipping")
}

func TestModeForSelectsStrictOrLenient(t *testing.T) {
	assert.Equal(t, diag.Strict, modeFor(&flags{strict: true}))
	assert.Equal(t, diag.Lenient, modeFor(&flags{strict: false}))
}

func TestResolveInputsPassesThroughNonGlobPath(t *testing.T) {
	inputs, err := resolveInputs("src/main.aeth")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.aeth"}, inputs)
}

func TestResolveInputsExpandsGlob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.aeth"), []byte("fn f() {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.aeth"), []byte("fn g() {}"), 0o644))

	inputs, err := resolveInputs(filepath.Join(dir, "*.aeth"))
	require.NoError(t, err)
	assert.Len(t, inputs, 2)
}

func TestResolveInputsErrorsOnGlobWithNoMatches(t *testing.T) {
	dir := t.TempDir()
	_, err := resolveInputs(filepath.Join(dir, "*.nope"))
	assert.Error(t, err)
}

func TestLoadSourcePassesThroughPlainAethFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "main.aeth")
	require.NoError(t, os.WriteFile(p, []byte("fn main() -> i32 { return 0; }"), 0o644))

	path, src, err := loadSource(p)
	require.NoError(t, err)
	assert.Equal(t, p, path)
	assert.Contains(t, src, "fn main")
}

func TestLoadSourceTranspilesAthFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "main.ath")
	require.NoError(t, os.WriteFile(p, []byte("def main():\n    return 0\n"), 0o644))

	path, src, err := loadSource(p)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "main.gen.aeth"), path)
	assert.Contains(t, src, "fn main")

	generated, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, src, string(generated))
}

func TestRunBuildRejectsUnknownBackend(t *testing.T) {
	err := runBuild("whatever.aeth", &flags{backend: "cobol"})
	assert.Error(t, err)
}

func TestRunSemgraphPrintsGraphJSONForWellFormedProgram(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "main.aeth")
	require.NoError(t, os.WriteFile(p, []byte("fn main() -> i32 { return 0; }"), 0o644))

	err := runSemgraph(p, &flags{})
	assert.NoError(t, err)
}

func TestRunSemgraphReportsCompileFailedOnParseError(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "main.aeth")
	require.NoError(t, os.WriteFile(p, []byte("fn main( {"), 0o644))

	err := runSemgraph(p, &flags{})
	assert.ErrorIs(t, err, errCompileFailed)
}

func TestRunCheckReturnsCompileFailedErrorRatherThanExiting(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "main.aeth")
	require.NoError(t, os.WriteFile(p, []byte("fn main( {"), 0o644))

	err := runCheck(p, &flags{})
	assert.ErrorIs(t, err, errCompileFailed)
}

func TestRunBuildWithLLVMBackendFailsCleanlyDuringCompile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "main.aeth")
	require.NoError(t, os.WriteFile(p, []byte("fn main() -> i32 { return 0; }"), 0o644))
	wd, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	err := runBuild(p, &flags{backend: "llvm", output: "out.c"})
	assert.ErrorIs(t, err, errCompileFailed, "a fatal diagnostic was already printed; the caller just needs the exit status")

	_, statErr := os.Stat("out.c")
	assert.Error(t, statErr, "no C output should be written when the backend fails")
}

func TestWriteOutputDefaultsToBaseNameWithCExtension(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	f := &flags{}
	require.NoError(t, writeOutput("src/prog.aeth", f, []byte("int main(void){return 0;}"), false))

	out, err := os.ReadFile("prog.c")
	require.NoError(t, err)
	assert.Contains(t, string(out), "int main")
}

func TestWriteOutputExecutableDefaultsToBaseNameWithNoExtensionAndExecBit(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	f := &flags{}
	require.NoError(t, writeOutput("src/prog.aeth", f, []byte{0x7f, 'E', 'L', 'F'}, true))

	info, err := os.Stat("prog")
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111, "linked output should be marked executable")
}

func TestRunBuildDefaultInvokesExternalCompilerAndWritesLinkedExecutable(t *testing.T) {
	findCCompiler(t)

	dir := t.TempDir()
	p := filepath.Join(dir, "main.aeth")
	require.NoError(t, os.WriteFile(p, []byte("fn main() -> i32 { return 0; }"), 0o644))
	wd, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	require.NoError(t, runBuild(p, &flags{backend: "c"}))

	info, err := os.Stat("main")
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111, "default build output should be a linked, executable binary")
}

func TestRunBuildEmitCWritesGeneratedCInsteadOfCompiling(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "main.aeth")
	require.NoError(t, os.WriteFile(p, []byte("fn main() -> i32 { return 0; }"), 0o644))
	wd, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	require.NoError(t, runBuild(p, &flags{backend: "c", emitC: true}))

	out, err := os.ReadFile("main.c")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Generated by the AetherLang C backend")
	assert.Contains(t, string(out), "main(")

	_, statErr := os.Stat("main")
	assert.Error(t, statErr, "--emit-c should not also invoke the external C compiler")
}
