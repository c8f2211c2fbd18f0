package diagnostics

import (
	"encoding/json"

	"github.com/gorilla/websocket"
)

// StreamClient is a thin subscriber used by tooling outside the host
// process (a separate dashboard, an integration test) to observe a
// running engine's snapshots without sharing its address space.
type StreamClient struct {
	conn *websocket.Conn
}

// DialStream connects to a Stream's websocket endpoint at url
// (e.g. "ws://127.0.0.1:7777/diagnostics").
func DialStream(url string) (*StreamClient, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return &StreamClient{conn: conn}, nil
}

// Next blocks for the next Snapshot frame.
func (c *StreamClient) Next() (Snapshot, error) {
	var snap Snapshot
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, err
	}
	return snap, nil
}

func (c *StreamClient) Close() error { return c.conn.Close() }
