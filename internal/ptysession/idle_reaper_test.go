package ptysession

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManager_IdleReaperDestroysInactiveSessions(t *testing.T) {
	requireBash(t)

	m := NewManager(40 * time.Millisecond)
	defer m.Close()
	m.SetDownstream(&fakeDownstream{})

	resp, err := m.Handle(InboundMessage{MsgType: MsgInit, ShellType: "bash"})
	require.NoError(t, err)
	sessionID := resp.(InitComplete).SessionID

	require.Eventually(t, func() bool {
		return !m.HasSessions()
	}, 2*time.Second, 10*time.Millisecond, "idle session should be reaped")

	require.Error(t, m.WriteData(sessionID, []byte("x")))
}

func TestManager_IdleReaperDisabledByDefault(t *testing.T) {
	m := NewManager(0)
	require.Nil(t, m.reaperStop)
	m.Close() // must be a no-op, not a panic
}
