// Package transport implements the Downstream Sender external collaborator
// described by spec.md §2/§9, over a websocket connection, and the HTTP
// upgrade route that binds one ptysession.Manager to each connection.
package transport

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mordilloSan/go_logger/logger"

	"github.com/kestrelhq/ptyhost/internal/ptysession"
)

var upgrader = websocket.Upgrader{
	// Origin checking belongs to an outer CORS layer, not this package.
	CheckOrigin: func(*http.Request) bool { return true },
}

// safeConn wraps a *websocket.Conn so concurrent pumps and the manager's
// own response sends never interleave writes on the wire (spec.md §5:
// "the downstream lock is held for one full send").
type safeConn struct {
	conn      *websocket.Conn
	mu        sync.Mutex
	closeOnce sync.Once
}

func (s *safeConn) SendText(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *safeConn) SendBinary(b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.BinaryMessage, b)
}

func (s *safeConn) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		_ = s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		s.mu.Unlock()
		_ = s.conn.Close()
	})
}

// Config controls per-connection Manager behaviour.
type Config struct {
	IdleTimeout time.Duration
}

// Handler upgrades the request to a websocket connection, binds a fresh
// ptysession.Manager to it, and services inbound control/raw-write
// messages until the peer disconnects, at which point it runs
// CleanupAll (spec.md §4.5).
func Handler(cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Errorf("websocket upgrade failed: %v", err)
			return
		}
		sc := &safeConn{conn: conn}
		defer sc.Close()

		manager := ptysession.NewManager(cfg.IdleTimeout)
		manager.SetDownstream(sc)
		defer manager.Close()
		defer manager.CleanupAll()

		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				logger.DebugKV("websocket read ended", "error", err)
				return
			}

			switch msgType {
			case websocket.TextMessage:
				handleControlMessage(manager, sc, data)
			case websocket.BinaryMessage:
				handleRawWrite(manager, data)
			}
		}
	}
}

func handleControlMessage(manager *ptysession.Manager, sc *safeConn, data []byte) {
	var msg ptysession.InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.WarnKV("malformed control message", "error", err)
		return
	}

	resp, err := manager.Handle(msg)
	if err != nil {
		logger.WarnKV("control message failed", "msg_type", msg.MsgType, "error", err)
		_ = sc.SendText(moduleError(err))
		return
	}
	if resp != nil {
		_ = sc.SendText(resp)
	}
}

// handleRawWrite decodes an inbound binary message using the same §6 frame
// layout as outbound data frames (the transport-binding supplement in
// SPEC_FULL §6) and routes it to write_data.
func handleRawWrite(manager *ptysession.Manager, data []byte) {
	sessionID, payload, err := ptysession.DecodeFrame(data)
	if err != nil {
		logger.WarnKV("malformed raw write frame", "error", err)
		return
	}
	if err := manager.WriteData(sessionID, payload); err != nil {
		logger.WarnKV("write_data failed", "session_id", sessionID, "error", err)
	}
}

// moduleError surfaces a core failure to the peer as a ModuleError, per
// spec.md §6: "the message string begins with a stable tag...".
func moduleError(err error) map[string]string {
	return map[string]string{
		"type":  "module_error",
		"error": err.Error(),
	}
}
