package introspect

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcpscout/mcpscout/internal/catalog"
)

const (
	protocolVersion = "2024-11-05"
	clientName      = "mcpscout"
	clientVersion   = "0.1.0"

	methodInitialize    = "initialize"
	methodInitialized   = "notifications/initialized"
	methodListTools     = "tools/list"
	methodListResources = "resources/list"
	methodListPrompts   = "prompts/list"
)

// rpcRequest is a JSON-RPC 2.0 request frame. A nil ID marks a notification.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      *int64 `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// rpcResponse is a JSON-RPC 2.0 response frame.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func newRequest(id int64, method string, params any) rpcRequest {
	return rpcRequest{JSONRPC: "2.0", ID: &id, Method: method, Params: params}
}

func newNotification(method string) rpcRequest {
	return rpcRequest{JSONRPC: "2.0", Method: method}
}

// initializeParams is the protocol-negotiation payload sent on every session.
func initializeParams() map[string]any {
	return map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]any{
			"roots":    map[string]any{"listChanged": true},
			"sampling": map[string]any{},
		},
		"clientInfo": map[string]any{
			"name":    clientName,
			"version": clientVersion,
		},
	}
}

// Wire shapes returned by the capability-listing methods. Field keys follow
// the MCP protocol: inputSchema, mimeType etc.

type wireToolAnnotations struct {
	DestructiveHint *bool `json:"destructiveHint,omitempty"`
}

type wireTool struct {
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	InputSchema catalog.JSONSchema   `json:"inputSchema"`
	Annotations *wireToolAnnotations `json:"annotations,omitempty"`
}

type wireResource struct {
	URI         string `json:"uri"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	MIMEType    string `json:"mimeType,omitempty"`
}

type wirePromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

type wirePrompt struct {
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Arguments   []wirePromptArgument `json:"arguments,omitempty"`
}

// listing is the outcome of one successful transport session.
// Empty collections are a valid success.
type listing struct {
	tools     []catalog.ToolDescriptor
	resources []catalog.ResourceDescriptor
	prompts   []catalog.PromptDescriptor
}

func parseToolsResult(result json.RawMessage) ([]catalog.ToolDescriptor, error) {
	var payload struct {
		Tools []wireTool `json:"tools"`
	}
	if err := json.Unmarshal(result, &payload); err != nil {
		return nil, fmt.Errorf("malformed tools/list result: %w", err)
	}

	tools := make([]catalog.ToolDescriptor, 0, len(payload.Tools))
	for _, t := range payload.Tools {
		if t.Name == "" {
			continue
		}
		desc := catalog.ToolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		}
		if t.Annotations != nil && t.Annotations.DestructiveHint != nil {
			desc.IsDestructive = *t.Annotations.DestructiveHint
		}
		tools = append(tools, desc)
	}
	return tools, nil
}

func parseResourcesResult(result json.RawMessage) ([]catalog.ResourceDescriptor, error) {
	var payload struct {
		Resources []wireResource `json:"resources"`
	}
	if err := json.Unmarshal(result, &payload); err != nil {
		return nil, fmt.Errorf("malformed resources/list result: %w", err)
	}

	resources := make([]catalog.ResourceDescriptor, 0, len(payload.Resources))
	for _, r := range payload.Resources {
		if r.URI == "" {
			continue
		}
		resources = append(resources, catalog.ResourceDescriptor{
			URI:         r.URI,
			Name:        r.Name,
			Description: r.Description,
			MIMEType:    r.MIMEType,
		})
	}
	return resources, nil
}

func parsePromptsResult(result json.RawMessage) ([]catalog.PromptDescriptor, error) {
	var payload struct {
		Prompts []wirePrompt `json:"prompts"`
	}
	if err := json.Unmarshal(result, &payload); err != nil {
		return nil, fmt.Errorf("malformed prompts/list result: %w", err)
	}

	prompts := make([]catalog.PromptDescriptor, 0, len(payload.Prompts))
	for _, p := range payload.Prompts {
		if p.Name == "" {
			continue
		}
		args := make([]catalog.PromptArgument, 0, len(p.Arguments))
		for _, a := range p.Arguments {
			args = append(args, catalog.PromptArgument(a))
		}
		prompts = append(prompts, catalog.PromptDescriptor{
			Name:        p.Name,
			Description: p.Description,
			Arguments:   args,
		})
	}
	return prompts, nil
}

// rpcSession abstracts a connected request/response JSON-RPC exchange over a
// raw transport (container stdio, websocket).
type rpcSession interface {
	// call sends one request and waits for the response with a matching id.
	call(req rpcRequest, timeout time.Duration) (rpcResponse, error)

	// notify sends a notification without waiting for a response.
	notify(req rpcRequest) error
}

// introspectSession drives the full capability-listing exchange over an
// established session: initialize handshake, then the three listing calls.
func introspectSession(session rpcSession, callTimeout time.Duration) (listing, error) {
	resp, err := session.call(newRequest(1, methodInitialize, initializeParams()), callTimeout)
	if err != nil {
		return listing{}, fmt.Errorf("initialize: %w", err)
	}
	if resp.Error != nil {
		return listing{}, fmt.Errorf("initialize: %w", resp.Error)
	}

	// Per protocol, the client confirms the handshake before issuing requests.
	if err := session.notify(newNotification(methodInitialized)); err != nil {
		return listing{}, fmt.Errorf("initialized notification: %w", err)
	}

	var result listing

	toolsResp, err := session.call(newRequest(2, methodListTools, nil), callTimeout)
	if err != nil {
		return listing{}, fmt.Errorf("%s: %w", methodListTools, err)
	}
	if toolsResp.Error == nil {
		result.tools, err = parseToolsResult(toolsResp.Result)
		if err != nil {
			return listing{}, err
		}
	}

	resourcesResp, err := session.call(newRequest(3, methodListResources, nil), callTimeout)
	if err != nil {
		return listing{}, fmt.Errorf("%s: %w", methodListResources, err)
	}
	if resourcesResp.Error == nil {
		result.resources, err = parseResourcesResult(resourcesResp.Result)
		if err != nil {
			return listing{}, err
		}
	}

	promptsResp, err := session.call(newRequest(4, methodListPrompts, nil), callTimeout)
	if err != nil {
		return listing{}, fmt.Errorf("%s: %w", methodListPrompts, err)
	}
	if promptsResp.Error == nil {
		result.prompts, err = parsePromptsResult(promptsResp.Result)
		if err != nil {
			return listing{}, err
		}
	}

	return result, nil
}
