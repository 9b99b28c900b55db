package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hinshun/vt10x"
)

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// model is the bubbletea model for a single remote PTY session: it owns a
// local vt10x virtual terminal that mirrors the host's shell output, the
// same client/server split the host itself uses between PTY and Downstream
// Sender, just one hop further out.
type model struct {
	client   *wsClient
	vterm    vt10x.Terminal
	cols     int
	rows     int
	closed   bool
	closeErr error
}

func newModel(client *wsClient, cols, rows int) model {
	return model{
		client: client,
		vterm:  vt10x.New(vt10x.WithSize(cols, rows)),
		cols:   cols,
		rows:   rows,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, m.sendKeyCmd(msg)
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height-1
		if m.cols > 0 && m.rows > 0 {
			m.vterm = vt10x.New(vt10x.WithSize(m.cols, m.rows))
			_ = m.client.resize(m.cols, m.rows)
		}
		return m, nil
	case ptyOutputMsg:
		m.vterm.Write(msg.data)
		return m, nil
	case ptyClosedMsg:
		m.closed = true
		m.closeErr = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m model) sendKeyCmd(msg tea.KeyMsg) tea.Cmd {
	data := keyToBytes(msg)
	if len(data) == 0 {
		return nil
	}
	return func() tea.Msg {
		if err := m.client.writeBytes(data); err != nil {
			return ptyClosedMsg{err: err}
		}
		return nil
	}
}

func (m model) View() string {
	if m.closed {
		if m.closeErr != nil {
			return fmt.Sprintf("session closed: %v\n", m.closeErr)
		}
		return "session closed\n"
	}
	status := statusStyle.Render(fmt.Sprintf("session %s  %dx%d  ctrl+c to exit", m.client.sessionID, m.cols, m.rows))
	return renderVterm(m.vterm) + status
}
