package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// keyToBytes translates a bubbletea key event into the raw byte sequence a
// terminal program expects on stdin, following the same switch-by-name
// table the pack's own TUI pane uses for its embedded PTY.
func keyToBytes(msg tea.KeyMsg) []byte {
	switch msg.String() {
	case "enter":
		return []byte{'\r'}
	case "backspace":
		return []byte{127}
	case "tab":
		return []byte("\t")
	case "shift+tab":
		return []byte{27, '[', 'Z'}
	case "esc":
		return []byte{27}
	case "ctrl+a":
		return []byte{1}
	case "ctrl+b":
		return []byte{2}
	case "ctrl+c":
		return []byte{3}
	case "ctrl+d":
		return []byte{4}
	case "ctrl+e":
		return []byte{5}
	case "ctrl+f":
		return []byte{6}
	case "ctrl+k":
		return []byte{11}
	case "ctrl+l":
		return []byte{12}
	case "ctrl+n":
		return []byte{14}
	case "ctrl+p":
		return []byte{16}
	case "ctrl+r":
		return []byte{18}
	case "ctrl+u":
		return []byte{21}
	case "ctrl+w":
		return []byte{23}
	case "up":
		return []byte{27, '[', 'A'}
	case "down":
		return []byte{27, '[', 'B'}
	case "left":
		return []byte{27, '[', 'D'}
	case "right":
		return []byte{27, '[', 'C'}
	case "home":
		return []byte{27, '[', 'H'}
	case "end":
		return []byte{27, '[', 'F'}
	case "pgup":
		return []byte{27, '[', '5', '~'}
	case "pgdown":
		return []byte{27, '[', '6', '~'}
	case "delete":
		return []byte{27, '[', '3', '~'}
	}

	keyStr := msg.String()
	if strings.HasPrefix(keyStr, "alt+") && len(keyStr) == 5 {
		return []byte{27, keyStr[4]}
	}
	if len(msg.Runes) > 0 {
		return []byte(string(msg.Runes))
	}
	return nil
}
