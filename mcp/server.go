// Package mcp serves ticket and roster rendering to Model Context Protocol
// clients.
//
// Messages are newline-delimited JSON-RPC 2.0 on stdin and stdout, protocol
// version 2024-11-05, with the tools and resources capabilities. A client
// configuration looks like:
//
//	{
//	  "mcpServers": {
//	    "festpdf": {
//	      "command": "festpdf-mcp"
//	    }
//	  }
//	}
//
// Bad arguments and configuration faults (unknown zone, invalid theme, a
// page too small for a ticket) are answered as JSON-RPC invalid-params
// errors carrying the offending key. Failures while rendering are returned
// as tool results with isError set.
package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	festpdf "github.com/zonefest/festpdf"
)

const protocolVersion = "2024-11-05"

// maxMessage bounds one request line.
const maxMessage = 16 << 20

// JSON-RPC error codes.
const (
	codeParse          = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternal       = -32603
)

// Tool is a callable tool. Handler is not serialized.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
	Handler     ToolHandler            `json:"-"`
}

// ToolHandler runs a tool. A returned error is reported to the client; see
// the package documentation for how it is classified.
type ToolHandler func(ctx context.Context, args map[string]interface{}) (ToolResult, error)

// ToolResult is what a tool call returns.
type ToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock is one piece of a tool result: "text", or a "resource"
// carrying base64 Data.
type ContentBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

// Resource is a readable document addressed by URI.
type Resource struct {
	URI         string          `json:"uri"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	MIMEType    string          `json:"mimeType,omitempty"`
	Handler     ResourceHandler `json:"-"`
}

// ResourceHandler produces the contents of a resource.
type ResourceHandler func(uri string) ([]ResourceContent, error)

// ResourceContent is one part of a read resource.
type ResourceContent struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

type request struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type response struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id"`
	Result  interface{}      `json:"result,omitempty"`
	Error   *rpcError        `json:"error,omitempty"`
}

type rpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("jsonrpc %d: %s", e.Code, e.Message)
}

func invalidParams(msg string, data interface{}) *rpcError {
	return &rpcError{Code: codeInvalidParams, Message: msg, Data: data}
}

// errArguments marks tool arguments that do not match the tool's schema.
var errArguments = errors.New("invalid tool arguments")

type method func(ctx context.Context, params json.RawMessage) (interface{}, error)

// Server dispatches JSON-RPC requests to the registered tools and
// resources. Register everything before calling Run.
type Server struct {
	in  io.Reader
	out io.Writer
	mu  sync.Mutex // serializes writes to out

	tools     map[string]Tool
	resources map[string]Resource
	methods   map[string]method
}

// NewServer returns a server on stdin and stdout.
func NewServer() *Server {
	return NewServerWithIO(os.Stdin, os.Stdout)
}

// NewServerWithIO returns a server reading requests from in and writing
// responses to out.
func NewServerWithIO(in io.Reader, out io.Writer) *Server {
	s := &Server{
		in:        in,
		out:       out,
		tools:     make(map[string]Tool),
		resources: make(map[string]Resource),
	}
	s.methods = map[string]method{
		"initialize":     s.initialize,
		"ping":           func(context.Context, json.RawMessage) (interface{}, error) { return struct{}{}, nil },
		"tools/list":     s.listTools,
		"tools/call":     s.callTool,
		"resources/list": s.listResources,
		"resources/read": s.readResource,
	}
	return s
}

// AddTool registers t, replacing any tool of the same name.
func (s *Server) AddTool(t Tool) { s.tools[t.Name] = t }

// AddResource registers r, replacing any resource with the same URI.
func (s *Server) AddResource(r Resource) { s.resources[r.URI] = r }

// Run answers requests until the input ends. Notifications (requests
// without an id) get no response. ctx is handed to every tool call.
func (s *Server) Run(ctx context.Context) error {
	sc := bufio.NewScanner(s.in)
	sc.Buffer(make([]byte, 0, 64<<10), maxMessage)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		s.serve(ctx, line)
	}
	return sc.Err()
}

func (s *Server) serve(ctx context.Context, line []byte) {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		s.reply(nil, nil, &rpcError{Code: codeParse, Message: "Parse error", Data: err.Error()})
		return
	}
	if req.ID == nil {
		return
	}
	m, ok := s.methods[req.Method]
	if !ok {
		s.reply(req.ID, nil, &rpcError{Code: codeMethodNotFound, Message: "Method not found", Data: req.Method})
		return
	}
	result, err := m(ctx, req.Params)
	if err != nil {
		var re *rpcError
		if !errors.As(err, &re) {
			re = &rpcError{Code: codeInternal, Message: "Internal error", Data: err.Error()}
		}
		s.reply(req.ID, nil, re)
		return
	}
	s.reply(req.ID, result, nil)
}

func (s *Server) reply(id *json.RawMessage, result interface{}, rerr *rpcError) {
	data, err := json.Marshal(response{JSONRPC: "2.0", ID: id, Result: result, Error: rerr})
	if err != nil {
		data, _ = json.Marshal(response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: codeInternal, Message: "Internal error", Data: err.Error()}})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.out.Write(append(data, '\n'))
}

func decodeParams(params json.RawMessage, v interface{}) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return invalidParams("Invalid params", err.Error())
	}
	return nil
}

func (s *Server) initialize(context.Context, json.RawMessage) (interface{}, error) {
	return map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]interface{}{
			"tools":     map[string]interface{}{},
			"resources": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    "festpdf-mcp",
			"version": "1.0.0",
		},
	}, nil
}

func (s *Server) listTools(context.Context, json.RawMessage) (interface{}, error) {
	tools := make([]Tool, 0, len(s.tools))
	for _, t := range s.tools {
		tools = append(tools, t)
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return map[string]interface{}{"tools": tools}, nil
}

func (s *Server) callTool(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	tool, ok := s.tools[p.Name]
	if !ok {
		return nil, invalidParams("Unknown tool", p.Name)
	}
	result, err := tool.Handler(ctx, p.Arguments)
	if err == nil {
		return result, nil
	}
	if re := classify(err); re != nil {
		return nil, re
	}
	return errorResult(err), nil
}

// classify turns argument and configuration faults into invalid-params
// errors. It returns nil for failures of the render itself.
func classify(err error) *rpcError {
	var ce *festpdf.ConfigurationError
	switch {
	case errors.As(err, &ce):
		return invalidParams("Invalid configuration", map[string]string{"key": ce.Key, "detail": err.Error()})
	case errors.Is(err, festpdf.ErrEmptyExport), errors.Is(err, errArguments):
		return invalidParams("Invalid params", err.Error())
	}
	return nil
}

func errorResult(err error) ToolResult {
	text := "Error: " + err.Error()
	var me *festpdf.MeasurementError
	if errors.As(err, &me) {
		text = fmt.Sprintf("Error: cannot lay out %q: %v", me.Text, me.Err)
	}
	return ToolResult{Content: []ContentBlock{{Type: "text", Text: text}}, IsError: true}
}

func (s *Server) listResources(context.Context, json.RawMessage) (interface{}, error) {
	resources := make([]Resource, 0, len(s.resources))
	for _, r := range s.resources {
		resources = append(resources, r)
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i].URI < resources[j].URI })
	return map[string]interface{}{"resources": resources}, nil
}

func (s *Server) readResource(_ context.Context, params json.RawMessage) (interface{}, error) {
	var p struct {
		URI string `json:"uri"`
	}
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	r, ok := s.resources[p.URI]
	if !ok {
		return nil, invalidParams("Unknown resource", p.URI)
	}
	contents, err := r.Handler(p.URI)
	if err != nil {
		return nil, &rpcError{Code: codeInternal, Message: "Resource error", Data: err.Error()}
	}
	return map[string]interface{}{"contents": contents}, nil
}
