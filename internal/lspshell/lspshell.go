// Package lspshell is the language-server shell: a stdio JSON-RPC 2.0
// loop that answers only "initialize" (advertising no real
// capabilities — no completion, no hover, no sync) and "shutdown". It
// never drives compilation; nothing in internal/compiler imports this
// package.
//
// The message envelope and stdio loop shape are grounded on the
// teacher's mcp/protocol.go (RequestMessage/ResponseMessage/
// ErrorObject) and mcp/server.go's bufio.Reader/Writer request loop,
// trimmed to the two methods this shell actually answers.
package lspshell

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// JSONRPCVersion is the protocol version every envelope declares.
const JSONRPCVersion = "2.0"

// RequestMessage is a JSON-RPC 2.0 request.
type RequestMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// ResponseMessage is a JSON-RPC 2.0 response.
type ResponseMessage struct {
	JSONRPC string       `json:"jsonrpc"`
	ID      any          `json:"id"`
	Result  any          `json:"result,omitempty"`
	Error   *ErrorObject `json:"error,omitempty"`
}

// ErrorObject is a JSON-RPC 2.0 error payload.
type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	codeMethodNotFound = -32601
	codeParseError     = -32700
)

// ServerCapabilities advertises what this shell can do: nothing.
// TextDocumentSync is the literal string "none" rather than an
// incremental-sync integer, signalling that the shell never tracks
// document state.
type ServerCapabilities struct {
	TextDocumentSync   string    `json:"textDocumentSync"`
	HoverProvider      bool      `json:"hoverProvider"`
	CompletionProvider *struct{} `json:"completionProvider,omitempty"`
}

// InitializeResult is the response payload for "initialize".
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}

// ServerInfo names this shell in the initialize handshake.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Shell answers "initialize" and "shutdown" over a stdio JSON-RPC
// stream and rejects every other method with MethodNotFound.
type Shell struct {
	reader *bufio.Reader
	writer *bufio.Writer

	Name    string
	Version string
}

// New creates a Shell reading requests from r and writing responses
// to w (newline-delimited JSON, one message per line).
func New(r io.Reader, w io.Writer, name, version string) *Shell {
	return &Shell{
		reader:  bufio.NewReader(r),
		writer:  bufio.NewWriter(w),
		Name:    name,
		Version: version,
	}
}

// Run processes requests until EOF or a "shutdown" request completes,
// returning nil on a clean shutdown or the first I/O/decode error.
func (s *Shell) Run() error {
	decoder := json.NewDecoder(s.reader)
	for {
		var req RequestMessage
		if err := decoder.Decode(&req); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("lspshell: decoding request: %w", err)
		}

		resp := s.handle(req)
		if err := s.write(resp); err != nil {
			return err
		}

		if req.Method == "shutdown" {
			return nil
		}
	}
}

func (s *Shell) handle(req RequestMessage) ResponseMessage {
	switch req.Method {
	case "initialize":
		return ResponseMessage{
			JSONRPC: JSONRPCVersion,
			ID:      req.ID,
			Result: InitializeResult{
				Capabilities: ServerCapabilities{TextDocumentSync: "none"},
				ServerInfo:   ServerInfo{Name: s.Name, Version: s.Version},
			},
		}
	case "shutdown":
		return ResponseMessage{JSONRPC: JSONRPCVersion, ID: req.ID, Result: nil}
	default:
		return ResponseMessage{
			JSONRPC: JSONRPCVersion,
			ID:      req.ID,
			Error:   &ErrorObject{Code: codeMethodNotFound, Message: fmt.Sprintf("method not found: %s", req.Method)},
		}
	}
}

func (s *Shell) write(resp ResponseMessage) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("lspshell: encoding response: %w", err)
	}
	if _, err := s.writer.Write(b); err != nil {
		return fmt.Errorf("lspshell: writing response: %w", err)
	}
	if err := s.writer.WriteByte('\n'); err != nil {
		return err
	}
	return s.writer.Flush()
}
