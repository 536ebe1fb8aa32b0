package metaengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherlang/aethc/internal/ast"
	"github.com/aetherlang/aethc/internal/token"
)

func TestNewStubSupportsNoCapabilities(t *testing.T) {
	e := New()
	assert.False(t, e.Supports(CapMacroExpansion))
	assert.False(t, e.Supports(CapCompileTimeEval))
	assert.False(t, e.Supports(CapCodeGeneration))
}

func TestExpandAlwaysReturnsUnsupportedWithMacroName(t *testing.T) {
	e := New()
	decl := &ast.MacroDecl{Name: "stringify"}

	result, err := e.Expand(decl, []token.Token{})
	require.Error(t, err)
	assert.True(t, result.Unsupported)
	assert.Contains(t, result.Reason, "stringify")
	assert.Contains(t, err.Error(), "stringify")
}

func TestExpandHandlesNilDeclGracefully(t *testing.T) {
	e := New()
	result, err := e.Expand(nil, nil)
	require.Error(t, err)
	assert.True(t, result.Unsupported)
	assert.Contains(t, result.Reason, "<anonymous>")
}
