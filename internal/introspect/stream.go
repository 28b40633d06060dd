package introspect

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// streamSession speaks newline-delimited JSON-RPC over a byte stream, such as
// an attached container's stdin/stdout.
type streamSession struct {
	w         io.Writer
	responses chan rpcResponse
}

// newStreamSession starts a reader over r and returns a session ready for
// calls. Non-JSON output lines (startup banners, stray logging) and server
// notifications are skipped.
func newStreamSession(w io.Writer, r io.Reader) *streamSession {
	s := &streamSession{
		w:         w,
		responses: make(chan rpcResponse, 16),
	}
	go s.readLoop(r)
	return s
}

func (s *streamSession) readLoop(r io.Reader) {
	defer close(s.responses)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}

		var resp rpcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		if resp.ID == nil {
			// Server-initiated notification, not a response.
			continue
		}
		s.responses <- resp
	}
}

func (s *streamSession) write(req rpcRequest) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", req.Method, err)
	}
	if _, err := s.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to send %s request: %w", req.Method, err)
	}
	return nil
}

func (s *streamSession) notify(req rpcRequest) error {
	return s.write(req)
}

func (s *streamSession) call(req rpcRequest, timeout time.Duration) (rpcResponse, error) {
	if err := s.write(req); err != nil {
		return rpcResponse{}, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case resp, ok := <-s.responses:
			if !ok {
				return rpcResponse{}, fmt.Errorf("stream closed waiting for response to %s", req.Method)
			}
			if req.ID != nil && *resp.ID == *req.ID {
				return resp, nil
			}
			// Response to an earlier, already-abandoned request.
		case <-timer.C:
			return rpcResponse{}, fmt.Errorf("timed out waiting for response to %s", req.Method)
		}
	}
}
