package ptysession

// Downstream is the external collaborator described in spec.md §2/§9:
// a shared, exclusively-locked send-one-frame endpoint. internal/transport
// provides the concrete implementation over a websocket connection; every
// Output Pump and the Session Manager share exactly one instance per
// connection.
type Downstream interface {
	// SendText sends one control message (init_complete, exit) as a text
	// frame.
	SendText(v any) error
	// SendBinary sends one raw data frame, laid out per §6.
	SendBinary(b []byte) error
}

// InitComplete is the outbound control message acknowledging a successful
// init (§6).
type InitComplete struct {
	Type      string `json:"type"`
	Success   bool   `json:"success"`
	SessionID string `json:"session_id"`
}

// ExitNotice is the outbound control message emitted when a pump observes
// EOF (§4.3 step 5, §6). A pump that ends on a read error sends none.
type ExitNotice struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Code      int    `json:"code"`
}

func newInitComplete(sessionID string) InitComplete {
	return InitComplete{Type: "init_complete", Success: true, SessionID: sessionID}
}

func newExitNotice(sessionID string) ExitNotice {
	// The exit code is always zero: the PTY abstraction used here (creack/pty)
	// does not reliably surface a wait status at EOF on all platforms, and
	// the pump must not block waiting for one (§4.3 rationale).
	return ExitNotice{Type: "exit", SessionID: sessionID, Code: 0}
}
