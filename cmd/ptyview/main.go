// Command ptyview is a terminal client for inspecting a session hosted by
// ptyhostd: it dials the websocket endpoint, decodes the §6 frame
// protocol, and renders the session through a local vt10x virtual
// terminal using bubbletea.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
)

func main() {
	var (
		addr  = pflag.String("addr", "127.0.0.1:8642", "ptyhostd address")
		shell = pflag.String("shell", "default", "shell kind to request (cmd|powershell|pwsh|wsl|gitbash|bash|zsh|custom:<path>|default)")
		cols  = pflag.Int("cols", 80, "initial terminal columns")
		rows  = pflag.Int("rows", 24, "initial terminal rows")
	)
	pflag.Parse()

	client, err := dialHost(*addr, *shell, *cols, *rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ptyview: %v\n", err)
		os.Exit(1)
	}
	defer client.close()

	m := newModel(client, *cols, *rows)
	p := tea.NewProgram(m, tea.WithAltScreen())
	go client.readLoop(p)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ptyview: %v\n", err)
		os.Exit(1)
	}
}
