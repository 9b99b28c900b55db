package ptysession

import (
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

const (
	defaultCols = 80
	defaultRows = 24
)

// CreateOptions carries the per-init parameters accepted by the PTY
// factory, mirroring spec.md §4.2's create(cols, rows, kind, extra_args,
// cwd, env).
type CreateOptions struct {
	Cols, Rows int
	ShellKind  string
	ExtraArgs  []string
	Cwd        string
	Env        map[string]string
}

// Handle is the PTY session handle returned by the factory: the master
// side of the PTY plus the child process it drives. write/resize/kill are
// serialised by mu so the manager's destroy/cleanup path never races a
// concurrent write_data/resize on the same file descriptor.
type Handle struct {
	mu     sync.Mutex
	master *os.File
	cmd    *exec.Cmd
	killed bool
}

// Create spawns a shell under a freshly allocated PTY pair, per §4.2.
func Create(opts CreateOptions) (*Handle, error) {
	cols, rows := opts.Cols, opts.Rows
	if cols <= 0 {
		cols = defaultCols
	}
	if rows <= 0 {
		rows = defaultRows
	}

	shellCmd, err := ResolveShell(opts.ShellKind, hostGOOS())
	if err != nil {
		return nil, err
	}
	args := append(append([]string{}, shellCmd.Args...), loginArgs(shellCmd.Path)...)
	args = append(args, opts.ExtraArgs...)

	cmd := exec.Command(shellCmd.Path, args...)
	if opts.Cwd != "" {
		cmd.Dir = opts.Cwd
	}
	cmd.Env = buildEnviron(opts.Env)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true}

	master, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)})
	if err != nil {
		return nil, errSpawnFailed(err)
	}

	return &Handle{master: master, cmd: cmd}, nil
}

// buildEnviron merges a login-shell-friendly base environment with the
// caller-supplied overrides, per SPEC_FULL §4.1's environment supplement:
// caller-provided keys always win.
func buildEnviron(overrides map[string]string) []string {
	env := append([]string{}, os.Environ()...)
	env = append(env,
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
	)
	if home, ok := os.LookupEnv("HOME"); ok && home != "" {
		env = append(env, "HISTFILE="+home+"/.bash_history")
	}
	for k, v := range overrides {
		env = append(env, k+"="+v)
	}
	return env
}

// Reader returns the blocking read endpoint of the master PTY.
func (h *Handle) Reader() *os.File { return h.master }

// Write is the short, synchronous write endpoint used by write_data (§4.5).
func (h *Handle) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.master.Write(p)
}

// Resize forwards a window-change request to the master PTY (§4.2).
func (h *Handle) Resize(cols, rows int) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := pty.Setsize(h.master, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)}); err != nil {
		return errResizeFailed(err)
	}
	return nil
}

// Kill terminates the underlying child, serialised against any in-flight
// Write/Resize via the handle's own lock. Write and Resize are both
// short, synchronous calls, so blocking here briefly is harmless.
func (h *Handle) Kill() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.kill()
}

// kill sends the platform terminate signal and reaps the child,
// best-effort. Idempotent.
func (h *Handle) kill() {
	if h.killed {
		return
	}
	h.killed = true

	if h.cmd != nil && h.cmd.Process != nil {
		_ = syscall.Kill(-h.cmd.Process.Pid, syscall.SIGHUP)
	}
	if h.master != nil {
		_ = h.master.Close()
	}
	if h.cmd == nil || h.cmd.Process == nil {
		return
	}
	done := make(chan error, 1)
	go func() { done <- h.cmd.Wait() }()
	select {
	case <-done:
	case <-time.After(750 * time.Millisecond):
		_ = h.cmd.Process.Kill()
		<-done
	}
}
