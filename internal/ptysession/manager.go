package ptysession

import (
	"sync"
	"time"

	"github.com/mordilloSan/go_logger/logger"
)

// cleanupAwaitTimeout bounds how long cleanup_all waits for each pump to
// unwind after kill() — spec.md §4.5 accepts a bounded wait here (unlike
// destroy, which never waits).
const cleanupAwaitTimeout = 2 * time.Second

// Manager is the Session Manager / Handler of spec.md §4.5: it dispatches
// inbound control messages against the session table, serialises table
// access, owns the single downstream handle, and implements cleanup-all.
type Manager struct {
	mu         sync.Mutex
	table      map[string]*entry
	downstream Downstream

	idleTimeout time.Duration
	reaperStop  chan struct{}
	reaperDone  chan struct{}
}

type entry struct {
	ctx          sessionContext
	lastActivity time.Time
}

// NewManager constructs an empty Session Manager. idleTimeout of zero
// disables the idle reaper (SPEC_FULL §D.4).
func NewManager(idleTimeout time.Duration) *Manager {
	m := &Manager{
		table:       make(map[string]*entry),
		idleTimeout: idleTimeout,
	}
	if idleTimeout > 0 {
		m.reaperStop = make(chan struct{})
		m.reaperDone = make(chan struct{})
		go m.reapIdleLoop()
	}
	return m
}

// SetDownstream stores or replaces the downstream handle. Must be called
// before the first init (§4.5).
func (m *Manager) SetDownstream(d Downstream) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downstream = d
}

// Handle dispatches one inbound control message (§4.5). The returned value
// is either an InitComplete (on a successful init), nil (resize/destroy/env
// produce no response), or an *Error.
func (m *Manager) Handle(msg InboundMessage) (any, error) {
	if msg.requiresSessionID() && msg.SessionID == "" {
		return nil, errSessionIDRequired()
	}

	switch msg.MsgType {
	case MsgInit:
		return m.handleInit(msg)
	case MsgResize:
		return nil, m.handleResize(msg)
	case MsgDestroy:
		return nil, m.handleDestroy(msg.SessionID)
	case MsgEnv:
		logger.DebugKV("env message ignored", "cwd", msg.Cwd)
		return nil, nil
	default:
		return nil, errUnknownMessageType(msg.MsgType)
	}
}

func (m *Manager) handleInit(msg InboundMessage) (any, error) {
	m.mu.Lock()
	downstream := m.downstream
	m.mu.Unlock()
	if downstream == nil {
		return nil, errDownstreamUnavailable()
	}

	handle, err := Create(CreateOptions{
		Cols:      defaultCols,
		Rows:      defaultRows,
		ShellKind: msg.ShellType,
		ExtraArgs: msg.ShellArgs,
		Cwd:       msg.Cwd,
		Env:       msg.Env,
	})
	if err != nil {
		return nil, err
	}

	sessionID := newSessionID()
	p := startPump(sessionID, handle.Reader(), downstream)

	m.mu.Lock()
	m.table[sessionID] = &entry{
		ctx:          sessionContext{handle: handle, pump: p},
		lastActivity: time.Now(),
	}
	m.mu.Unlock()

	logger.InfoKV("session created", "session_id", sessionID, "shell_type", msg.ShellType)
	return newInitComplete(sessionID), nil
}

func (m *Manager) handleResize(msg InboundMessage) error {
	cols, rows := msg.Cols, msg.Rows
	if cols <= 0 {
		cols = defaultCols
	}
	if rows <= 0 {
		rows = defaultRows
	}

	e := m.lookup(msg.SessionID)
	if e == nil {
		return errSessionNotFound(msg.SessionID)
	}
	m.touch(msg.SessionID)
	return e.ctx.handle.Resize(cols, rows)
}

func (m *Manager) handleDestroy(sessionID string) error {
	m.mu.Lock()
	e, ok := m.table[sessionID]
	if ok {
		delete(m.table, sessionID)
	}
	m.mu.Unlock()
	if !ok {
		return errSessionNotFound(sessionID)
	}

	e.ctx.handle.Kill()
	// Fire-and-forget: destroy does not wait for the pump, unlike cleanup_all.
	go func() { <-e.ctx.pump.Done() }()

	logger.InfoKV("session destroyed", "session_id", sessionID)
	return nil
}

// WriteData writes bytes synchronously to the session's writer (§4.5). The
// transport layer calls this directly for raw binary frames, bypassing the
// JSON control path.
func (m *Manager) WriteData(sessionID string, data []byte) error {
	e := m.lookup(sessionID)
	if e == nil {
		return errSessionNotFound(sessionID)
	}
	m.touch(sessionID)
	if _, err := e.ctx.handle.Write(data); err != nil {
		return errWriteFailed(err)
	}
	return nil
}

// CleanupAll drains the table; for each removed entry it kills the child
// and awaits the pump to completion (bounded), per §4.5. Called on peer
// disconnect. Never returns an error — kill/await failures are swallowed.
func (m *Manager) CleanupAll() {
	m.mu.Lock()
	drained := m.table
	m.table = make(map[string]*entry)
	m.mu.Unlock()

	for sessionID, e := range drained {
		e.ctx.handle.Kill()
		select {
		case <-e.ctx.pump.Done():
		case <-time.After(cleanupAwaitTimeout):
			logger.WarnKV("pump did not exit before cleanup timeout", "session_id", sessionID)
		}
	}
	logger.InfoKV("cleanup_all complete", "sessions_removed", len(drained))
}

// HasSessions reports whether any session remains, letting the transport
// decide whether to keep the downstream channel live.
func (m *Manager) HasSessions() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.table) > 0
}

// Close stops the idle reaper, if one is running. It does not touch the
// session table; call CleanupAll first if a full teardown is wanted.
func (m *Manager) Close() {
	if m.reaperStop == nil {
		return
	}
	close(m.reaperStop)
	<-m.reaperDone
}

func (m *Manager) lookup(sessionID string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.table[sessionID]
}

func (m *Manager) touch(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.table[sessionID]; ok {
		e.lastActivity = time.Now()
	}
}

// reapIdleLoop destroys sessions that have seen no write_data/resize
// activity for longer than idleTimeout (SPEC_FULL §D.4). This supplements
// spec.md's lifecycle operations rather than replacing any of them: it
// only ever calls the same destroy path a caller's explicit destroy would.
func (m *Manager) reapIdleLoop() {
	defer close(m.reaperDone)
	ticker := time.NewTicker(m.idleTimeout / 4)
	defer ticker.Stop()
	for {
		select {
		case <-m.reaperStop:
			return
		case <-ticker.C:
			m.reapOnce()
		}
	}
}

func (m *Manager) reapOnce() {
	cutoff := time.Now().Add(-m.idleTimeout)
	var stale []string
	m.mu.Lock()
	for id, e := range m.table {
		if e.lastActivity.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.Unlock()

	for _, id := range stale {
		logger.InfoKV("session reaped for inactivity", "session_id", id, "idle_timeout", m.idleTimeout)
		_ = m.handleDestroy(id)
	}
}
