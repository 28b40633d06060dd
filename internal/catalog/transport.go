package catalog

import "strings"

const (
	// TransportStdio represents standard input/output transport.
	// By convention this is the transport most MCP servers support.
	TransportStdio Transport = "stdio"

	// TransportWebSocket represents WebSocket transport.
	TransportWebSocket Transport = "websocket"

	// TransportHTTP represents plain HTTP (streamable-http) transport.
	TransportHTTP Transport = "http"

	// TransportSSE represents server-sent events transport.
	TransportSSE Transport = "sse"
)

// Transport represents a connection mechanism advertised by an MCP server.
type Transport string

// TransportsFromStrings converts a slice of strings to transports.
// Values are normalized; unknown values are skipped.
func TransportsFromStrings(ts []string) []Transport {
	valid := map[string]Transport{
		string(TransportStdio):     TransportStdio,
		string(TransportWebSocket): TransportWebSocket,
		string(TransportHTTP):      TransportHTTP,
		string(TransportSSE):       TransportSSE,
	}

	var result []Transport
	for _, s := range ts {
		if t, ok := valid[strings.ToLower(strings.TrimSpace(s))]; ok {
			result = append(result, t)
		}
	}
	return result
}
