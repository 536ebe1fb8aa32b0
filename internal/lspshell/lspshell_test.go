package lspshell

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAnswersInitializeWithNoCapabilities(t *testing.T) {
	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"initialize"}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"shutdown"}` + "\n")
	var out bytes.Buffer

	s := New(in, &out, "aethc-lsp", "0.1.0")
	err := s.Run()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var initResp ResponseMessage
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &initResp))
	assert.Nil(t, initResp.Error)

	resultBytes, err := json.Marshal(initResp.Result)
	require.NoError(t, err)
	var result InitializeResult
	require.NoError(t, json.Unmarshal(resultBytes, &result))
	assert.Equal(t, "none", result.Capabilities.TextDocumentSync)
	assert.False(t, result.Capabilities.HoverProvider)
	assert.Nil(t, result.Capabilities.CompletionProvider)
	assert.Equal(t, "aethc-lsp", result.ServerInfo.Name)
}

func TestRunStopsAfterShutdown(t *testing.T) {
	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"shutdown"}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"initialize"}` + "\n")
	var out bytes.Buffer

	s := New(in, &out, "aethc-lsp", "0.1.0")
	require.NoError(t, s.Run())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 1, "shutdown must end the loop before the second request is read")
}

func TestUnknownMethodReturnsMethodNotFoundError(t *testing.T) {
	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"textDocument/hover"}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"shutdown"}` + "\n")
	var out bytes.Buffer

	s := New(in, &out, "aethc-lsp", "0.1.0")
	require.NoError(t, s.Run())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	var resp ResponseMessage
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)
}

func TestRunReturnsNilOnCleanEOF(t *testing.T) {
	in := strings.NewReader("")
	var out bytes.Buffer
	s := New(in, &out, "aethc-lsp", "0.1.0")
	assert.NoError(t, s.Run())
	assert.Empty(t, out.String())
}
