package llvmbackend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aetherlang/aethc/internal/ir"
)

func TestGenerateAlwaysReturnsUnimplementedError(t *testing.T) {
	b := New("x86_64-unknown-linux-gnu")
	mod := &ir.Module{Name: "test"}

	out, err := b.Generate(mod, "x86_64-unknown-linux-gnu")
	assert.Empty(t, out)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not implemented")
}

func TestNameReportsLLVM(t *testing.T) {
	b := New("aarch64-unknown-linux-gnu")
	assert.Equal(t, "llvm", b.Name())
}
