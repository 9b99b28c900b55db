package ptysession

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeDownstream records every frame/control message sent to it, guarded by
// a mutex so pump goroutines never race with test assertions.
type fakeDownstream struct {
	mu      sync.Mutex
	binary  [][]byte
	text    []any
	failAll bool
}

func (f *fakeDownstream) SendBinary(b []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return io.ErrClosedPipe
	}
	cp := append([]byte{}, b...)
	f.binary = append(f.binary, cp)
	return nil
}

func (f *fakeDownstream) SendText(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return io.ErrClosedPipe
	}
	f.text = append(f.text, v)
	return nil
}

func (f *fakeDownstream) snapshot() (binary [][]byte, text []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte{}, f.binary...), append([]any{}, f.text...)
}

func TestPump_CoalescesBurstIntoOneFrame(t *testing.T) {
	WithBatchWindow(20 * time.Millisecond)
	defer WithBatchWindow(4 * time.Millisecond)

	pr, pw := io.Pipe()
	ds := &fakeDownstream{}
	p := startPump("sess-1", pr, ds)

	go func() {
		_, _ = pw.Write([]byte("hel"))
		_, _ = pw.Write([]byte("lo\n"))
		_ = pw.Close()
	}()

	<-p.Done()

	binary, text := ds.snapshot()
	require.Len(t, binary, 1)
	sessionID, payload, err := DecodeFrame(binary[0])
	require.NoError(t, err)
	require.Equal(t, "sess-1", sessionID)
	require.Equal(t, "hello\n", string(payload))

	require.Len(t, text, 1)
	exit, ok := text[0].(ExitNotice)
	require.True(t, ok)
	require.Equal(t, "sess-1", exit.SessionID)
	require.Equal(t, 0, exit.Code)
}

func TestPump_EOFAtWindowStartProducesNoDataFrame(t *testing.T) {
	pr, pw := io.Pipe()
	ds := &fakeDownstream{}
	p := startPump("sess-2", pr, ds)
	_ = pw.Close()

	<-p.Done()

	binary, text := ds.snapshot()
	require.Empty(t, binary)
	require.Len(t, text, 1)
}

func TestPump_ErrorMidBurstFlushesThenTerminatesWithoutExit(t *testing.T) {
	pr, pw := io.Pipe()
	ds := &fakeDownstream{}
	p := startPump("sess-3", pr, ds)

	go func() {
		_, _ = pw.Write([]byte("partial"))
		_ = pw.CloseWithError(io.ErrUnexpectedEOF)
	}()

	<-p.Done()

	binary, text := ds.snapshot()
	require.Len(t, binary, 1)
	_, payload, err := DecodeFrame(binary[0])
	require.NoError(t, err)
	require.Equal(t, "partial", string(payload))
	require.Empty(t, text, "a read error must not produce an exit notice")
}

func TestPump_DeadlineNotResetByContinuedBursts(t *testing.T) {
	WithBatchWindow(30 * time.Millisecond)
	defer WithBatchWindow(4 * time.Millisecond)

	pr, pw := io.Pipe()
	ds := &fakeDownstream{}
	p := startPump("sess-4", pr, ds)

	go func() {
		// Keep writing small chunks for longer than the window; the spec
		// requires the deadline to NOT reset on each chunk, so this must
		// still flush within one window's worth of time, not stall forever.
		for i := 0; i < 10; i++ {
			_, _ = pw.Write([]byte("x"))
			time.Sleep(5 * time.Millisecond)
		}
		_ = pw.Close()
	}()

	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("pump did not terminate in time")
	}

	binary, _ := ds.snapshot()
	require.GreaterOrEqual(t, len(binary), 2, "deadline must flush mid-burst at least once")
}
