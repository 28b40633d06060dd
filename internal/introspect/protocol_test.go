package introspect

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// scriptedSession answers each method from a fixed table.
type scriptedSession struct {
	responses map[string]rpcResponse
	errors    map[string]error
	notified  []string
}

func (s *scriptedSession) call(req rpcRequest, _ time.Duration) (rpcResponse, error) {
	if err, ok := s.errors[req.Method]; ok {
		return rpcResponse{}, err
	}
	resp, ok := s.responses[req.Method]
	if !ok {
		return rpcResponse{}, fmt.Errorf("unexpected method: %s", req.Method)
	}
	resp.ID = req.ID
	return resp, nil
}

func (s *scriptedSession) notify(req rpcRequest) error {
	s.notified = append(s.notified, req.Method)
	return nil
}

func okResult(payload string) rpcResponse {
	return rpcResponse{JSONRPC: "2.0", Result: json.RawMessage(payload)}
}

func errResult(code int, msg string) rpcResponse {
	return rpcResponse{JSONRPC: "2.0", Error: &rpcError{Code: code, Message: msg}}
}

func TestIntrospectSession_FullExchange(t *testing.T) {
	t.Parallel()

	session := &scriptedSession{
		responses: map[string]rpcResponse{
			methodInitialize: okResult(`{"protocolVersion":"2024-11-05"}`),
			methodListTools: okResult(`{"tools":[
				{"name":"get_time","description":"current time","inputSchema":{"type":"object"}},
				{"name":"delete_file","annotations":{"destructiveHint":true}}
			]}`),
			methodListResources: okResult(`{"resources":[{"uri":"file:///data","mimeType":"text/plain"}]}`),
			methodListPrompts:   okResult(`{"prompts":[{"name":"summarize","arguments":[{"name":"text","required":true}]}]}`),
		},
	}

	got, err := introspectSession(session, time.Second)
	require.NoError(t, err)

	require.Equal(t, []string{methodInitialized}, session.notified)

	require.Len(t, got.tools, 2)
	require.Equal(t, "get_time", got.tools[0].Name)
	require.False(t, got.tools[0].IsDestructive)
	require.True(t, got.tools[1].IsDestructive)

	require.Len(t, got.resources, 1)
	require.Equal(t, "text/plain", got.resources[0].MIMEType)

	require.Len(t, got.prompts, 1)
	require.Equal(t, "summarize", got.prompts[0].Name)
	require.True(t, got.prompts[0].Arguments[0].Required)
}

func TestIntrospectSession_InitializeErrorFailsSession(t *testing.T) {
	t.Parallel()

	session := &scriptedSession{
		responses: map[string]rpcResponse{
			methodInitialize: errResult(-32600, "unsupported protocol"),
		},
	}

	_, err := introspectSession(session, time.Second)
	require.Error(t, err)
	require.Contains(t, err.Error(), "initialize")
}

func TestIntrospectSession_MethodNotFoundYieldsEmptyCollection(t *testing.T) {
	t.Parallel()

	// A server that only implements tools. The unimplemented listing methods
	// answer with an rpc error, which is a valid empty collection, not a
	// transport failure.
	session := &scriptedSession{
		responses: map[string]rpcResponse{
			methodInitialize:    okResult(`{}`),
			methodListTools:     okResult(`{"tools":[{"name":"only_tool"}]}`),
			methodListResources: errResult(-32601, "Method not found"),
			methodListPrompts:   errResult(-32601, "Method not found"),
		},
	}

	got, err := introspectSession(session, time.Second)
	require.NoError(t, err)
	require.Len(t, got.tools, 1)
	require.Empty(t, got.resources)
	require.Empty(t, got.prompts)
}

func TestIntrospectSession_TransportErrorFailsSession(t *testing.T) {
	t.Parallel()

	session := &scriptedSession{
		responses: map[string]rpcResponse{
			methodInitialize: okResult(`{}`),
		},
		errors: map[string]error{
			methodListTools: fmt.Errorf("connection reset"),
		},
	}

	_, err := introspectSession(session, time.Second)
	require.Error(t, err)
	require.Contains(t, err.Error(), methodListTools)
}

func TestParseToolsResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		payload   string
		wantErr   bool
		wantCount int
	}{
		{
			name:      "valid tools",
			payload:   `{"tools":[{"name":"a"},{"name":"b"}]}`,
			wantCount: 2,
		},
		{
			name:      "nameless entries skipped",
			payload:   `{"tools":[{"name":""},{"name":"b"}]}`,
			wantCount: 1,
		},
		{
			name:      "empty result",
			payload:   `{}`,
			wantCount: 0,
		},
		{
			name:    "malformed payload",
			payload: `{"tools":"nope"}`,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseToolsResult(json.RawMessage(tc.payload))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, tc.wantCount)
		})
	}
}

func TestParseResourcesResult_SkipsEntriesWithoutURI(t *testing.T) {
	t.Parallel()

	got, err := parseResourcesResult(json.RawMessage(`{"resources":[{"uri":""},{"uri":"file:///ok"}]}`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "file:///ok", got[0].URI)
}

func TestParsePromptsResult_Malformed(t *testing.T) {
	t.Parallel()

	_, err := parsePromptsResult(json.RawMessage(`[]`))
	require.Error(t, err)
}
