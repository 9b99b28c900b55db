package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/kestrelhq/ptyhost/internal/ptysession"
)

// wsClient owns the single websocket connection to ptyhostd and demuxes
// inbound frames by session id, mirroring the host's own downstream-sender
// discipline from the other side of the wire.
type wsClient struct {
	conn      *websocket.Conn
	sessionID string
}

func dialHost(addr, shellKind string, cols, rows int) (*wsClient, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}

	init := ptysession.InboundMessage{
		MsgType:   ptysession.MsgInit,
		ShellType: shellKind,
		Cols:      cols,
		Rows:      rows,
	}
	if err := conn.WriteJSON(init); err != nil {
		conn.Close()
		return nil, fmt.Errorf("send init: %w", err)
	}

	var raw json.RawMessage
	if err := conn.ReadJSON(&raw); err != nil {
		conn.Close()
		return nil, fmt.Errorf("read init response: %w", err)
	}

	var moduleErr struct {
		Type  string `json:"type"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &moduleErr); err == nil && moduleErr.Type == "module_error" {
		conn.Close()
		return nil, fmt.Errorf("host rejected init: %s", moduleErr.Error)
	}

	var resp ptysession.InitComplete
	if err := json.Unmarshal(raw, &resp); err != nil || !resp.Success {
		conn.Close()
		return nil, fmt.Errorf("unexpected init response: %s", raw)
	}

	return &wsClient{conn: conn, sessionID: resp.SessionID}, nil
}

func (c *wsClient) close() {
	_ = c.conn.WriteJSON(ptysession.InboundMessage{
		MsgType:   ptysession.MsgDestroy,
		SessionID: c.sessionID,
	})
	c.conn.Close()
}

func (c *wsClient) resize(cols, rows int) error {
	return c.conn.WriteJSON(ptysession.InboundMessage{
		MsgType:   ptysession.MsgResize,
		SessionID: c.sessionID,
		Cols:      cols,
		Rows:      rows,
	})
}

func (c *wsClient) writeBytes(b []byte) error {
	frame, err := ptysession.EncodeFrame(c.sessionID, b)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.BinaryMessage, frame)
}

// ptyOutputMsg carries a decoded chunk of terminal output into the bubbletea
// update loop.
type ptyOutputMsg struct{ data []byte }

// ptyClosedMsg reports that the host tore down the session.
type ptyClosedMsg struct{ err error }

// readLoop runs in its own goroutine (there is no blocking Read to hide
// behind here, only the websocket's own framing) and feeds bubbletea
// messages through the provided program.
func (c *wsClient) readLoop(p *tea.Program) {
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			p.Send(ptyClosedMsg{err: err})
			return
		}
		switch msgType {
		case websocket.BinaryMessage:
			sessionID, payload, derr := ptysession.DecodeFrame(data)
			if derr != nil || sessionID != c.sessionID {
				continue
			}
			p.Send(ptyOutputMsg{data: payload})
		case websocket.TextMessage:
			var probe struct {
				Type string `json:"type"`
			}
			if json.Unmarshal(data, &probe) == nil && strings.EqualFold(probe.Type, "exit") {
				p.Send(ptyClosedMsg{})
				return
			}
		}
	}
}
