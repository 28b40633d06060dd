package introspect

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"

	"github.com/mcpscout/mcpscout/internal/catalog"
)

const transportWebSocket = "websocket"

// webSocketTransport introspects a server that advertises websocket support,
// speaking JSON-RPC over message frames. The endpoint is derived from the
// record's URL by switching to the ws scheme.
type webSocketTransport struct {
	logger      hclog.Logger
	dialTimeout time.Duration
	callTimeout time.Duration
}

func newWebSocketTransport(logger hclog.Logger, dialTimeout, callTimeout time.Duration) *webSocketTransport {
	return &webSocketTransport{
		logger:      logger.Named(transportWebSocket),
		dialTimeout: dialTimeout,
		callTimeout: callTimeout,
	}
}

func (t *webSocketTransport) name() string {
	return transportWebSocket
}

func (t *webSocketTransport) eligible(record catalog.ServerRecord) bool {
	return record.HasTransport(catalog.TransportWebSocket)
}

func (t *webSocketTransport) introspect(ctx context.Context, record catalog.ServerRecord) (listing, error) {
	endpoint, err := webSocketEndpoint(record.URL)
	if err != nil {
		return listing{}, err
	}

	dialCtx, cancel := context.WithTimeout(ctx, t.dialTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, endpoint, nil)
	if err != nil {
		return listing{}, fmt.Errorf("failed to dial '%s': %w", endpoint, err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			t.logger.Debug("Error closing websocket", "server", record.Name, "error", closeErr)
		}
	}()

	session := &webSocketSession{conn: conn}
	return introspectSession(session, t.callTimeout)
}

// webSocketEndpoint converts the record's URL into a ws/wss endpoint.
func webSocketEndpoint(rawURL string) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("record has no URL to derive a websocket endpoint from")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL '%s': %w", rawURL, err)
	}

	switch u.Scheme {
	case "ws", "wss":
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("cannot derive websocket endpoint from scheme '%s'", u.Scheme)
	}

	return u.String(), nil
}

// webSocketSession adapts a websocket connection to the rpcSession interface.
type webSocketSession struct {
	conn *websocket.Conn
}

func (s *webSocketSession) notify(req rpcRequest) error {
	return s.conn.WriteJSON(req)
}

func (s *webSocketSession) call(req rpcRequest, timeout time.Duration) (rpcResponse, error) {
	if err := s.conn.WriteJSON(req); err != nil {
		return rpcResponse{}, fmt.Errorf("failed to send %s request: %w", req.Method, err)
	}

	deadline := time.Now().Add(timeout)
	if err := s.conn.SetReadDeadline(deadline); err != nil {
		return rpcResponse{}, err
	}

	// Skip frames that are not the response to this request: server
	// notifications, or late responses to abandoned requests.
	for time.Now().Before(deadline) {
		var resp rpcResponse
		if err := s.conn.ReadJSON(&resp); err != nil {
			return rpcResponse{}, fmt.Errorf("failed to read %s response: %w", req.Method, err)
		}
		if resp.ID == nil || req.ID == nil || *resp.ID != *req.ID {
			continue
		}
		return resp, nil
	}

	return rpcResponse{}, fmt.Errorf("timed out waiting for response to %s", req.Method)
}
