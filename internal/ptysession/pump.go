package ptysession

import (
	"io"
	"time"

	"github.com/mordilloSan/go_logger/logger"
)

// batchWindow is the coalescing deadline from spec.md §4.3. Overridable
// through WithBatchWindow, never by the wire protocol.
var batchWindow = 4 * time.Millisecond

// WithBatchWindow overrides the batching window for the lifetime of the
// process. Tests call it for a short, deterministic window, and ptyhostd
// calls it with its --batch-window flag (default 4ms); no message on the
// wire changes it.
func WithBatchWindow(d time.Duration) { batchWindow = d }

// readQueueCapacity is the bounded handoff queue's capacity (§4.3): the
// backpressure mechanism that, if downstream stalls, eventually blocks the
// OS read loop and lets the kernel apply flow control on the PTY.
const readQueueCapacity = 32

const readChunkSize = 8 * 1024

type pumpEventKind int

const (
	pumpData pumpEventKind = iota
	pumpEOF
	pumpError
)

type pumpEvent struct {
	kind    pumpEventKind
	payload []byte
	err     error
}

// pump is the per-session Output Pump: a blocking reader goroutine plus a
// cooperative batcher goroutine, bridged by a bounded channel (§4.3, §5).
type pump struct {
	sessionID  string
	reader     io.Reader
	downstream Downstream
	done       chan struct{}
}

func startPump(sessionID string, reader io.Reader, downstream Downstream) *pump {
	p := &pump{
		sessionID:  sessionID,
		reader:     reader,
		downstream: downstream,
		done:       make(chan struct{}),
	}
	queue := make(chan pumpEvent, readQueueCapacity)
	go p.readLoop(queue)
	go p.batchLoop(queue)
	return p
}

// Done reports completion, mirroring the "read_task" completion future
// the Session Context owns per §3.
func (p *pump) Done() <-chan struct{} { return p.done }

// readLoop is the blocking worker: one goroutine that, whenever the Read
// syscall blocks, is parked by Go's runtime on its own OS thread, so it
// never starves the cooperative scheduler (SPEC_FULL §5). It never closes
// the queue itself: destroy/cleanup unblock a stuck readLoop by closing the
// PTY master underneath it, which turns the next Read into an error. Once
// the batcher has exited, a send gives up and readLoop returns.
func (p *pump) readLoop(queue chan<- pumpEvent) {
	send := func(ev pumpEvent) bool {
		select {
		case queue <- ev:
			return true
		case <-p.done:
			return false
		}
	}
	buf := make([]byte, readChunkSize)
	for {
		n, err := p.reader.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			if !send(pumpEvent{kind: pumpData, payload: chunk}) {
				return
			}
		}
		if err != nil {
			if err == io.EOF {
				send(pumpEvent{kind: pumpEOF})
			} else {
				send(pumpEvent{kind: pumpError, err: err})
			}
			return
		}
	}
}

// batchLoop is the cooperative batcher implementing the algorithm of §4.3.
func (p *pump) batchLoop(queue <-chan pumpEvent) {
	defer close(p.done)
	for {
		first := <-queue

		switch first.kind {
		case pumpData:
			if !p.coalesceAndSend(queue, first) {
				return
			}
		case pumpEOF:
			p.emitExit()
			return
		case pumpError:
			logger.WarnKV("pty read failed", "session_id", p.sessionID, "error", first.err)
			return
		}
	}
}

// coalesceAndSend accumulates Data events until the deadline (opened on
// the first chunk and never reset) expires, or an Eof/Error event is seen.
// Returns false if the pump should exit afterwards.
func (p *pump) coalesceAndSend(queue <-chan pumpEvent, first pumpEvent) bool {
	accumulator := append([]byte{}, first.payload...)
	deadline := time.NewTimer(batchWindow)
	defer deadline.Stop()

	pendingExit := false
	pendingErr := false

coalesce:
	for {
		select {
		case ev := <-queue:
			switch ev.kind {
			case pumpData:
				accumulator = append(accumulator, ev.payload...)
				continue
			case pumpEOF:
				pendingExit = true
			case pumpError:
				pendingErr = true
				logger.WarnKV("pty read failed", "session_id", p.sessionID, "error", ev.err)
			}
			break coalesce
		case <-deadline.C:
			break coalesce
		}
	}

	if len(accumulator) > 0 {
		frame, err := EncodeFrame(p.sessionID, accumulator)
		if err != nil {
			logger.WarnKV("pty frame encode failed", "session_id", p.sessionID, "error", err)
			return false
		}
		if err := p.downstream.SendBinary(frame); err != nil {
			logger.WarnKV("pty downstream send failed", "session_id", p.sessionID, "error", err)
			return false
		}
	}

	if pendingErr {
		return false
	}
	if pendingExit {
		p.emitExit()
		return false
	}
	return true
}

func (p *pump) emitExit() {
	if err := p.downstream.SendText(newExitNotice(p.sessionID)); err != nil {
		logger.WarnKV("pty exit notice send failed", "session_id", p.sessionID, "error", err)
	}
}
