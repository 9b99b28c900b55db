package main

import (
	"fmt"
	"strings"

	"github.com/hinshun/vt10x"
)

// renderVterm walks the virtual terminal's cell grid and re-emits ANSI SGR
// codes only on color/cursor transitions, matching the run-length approach
// the pane renderer uses to avoid emitting an escape per cell.
func renderVterm(vterm vt10x.Terminal) string {
	cols, rows := vterm.Size()
	cursor := vterm.Cursor()
	showCursor := vterm.CursorVisible()

	var out strings.Builder
	for row := 0; row < rows; row++ {
		var lastFG, lastBG vt10x.Color = vt10x.DefaultFG, vt10x.DefaultBG
		var lastInverse bool

		for col := 0; col < cols; col++ {
			cell := vterm.Cell(col, row)
			isCursor := showCursor && col == cursor.X && row == cursor.Y

			if cell.FG != lastFG || cell.BG != lastBG || isCursor != lastInverse {
				out.WriteString("\x1b[0m")
				writeFG(&out, cell.FG)
				writeBG(&out, cell.BG)
				if isCursor {
					out.WriteString("\x1b[7m")
				}
				lastFG, lastBG, lastInverse = cell.FG, cell.BG, isCursor
			}
			if cell.Char == 0 {
				out.WriteRune(' ')
			} else {
				out.WriteRune(cell.Char)
			}
		}
		out.WriteString("\x1b[0m\r\n")
	}
	return out.String()
}

func writeFG(out *strings.Builder, c vt10x.Color) {
	if c == vt10x.DefaultFG {
		return
	}
	writeColor(out, c, 30, 90, 38)
}

func writeBG(out *strings.Builder, c vt10x.Color) {
	if c == vt10x.DefaultBG {
		return
	}
	writeColor(out, c, 40, 100, 48)
}

// writeColor follows vt10x's own encoding: ANSI colors 0-15 map to the
// classic/bright SGR ranges, values above 255 are packed truecolor
// (r<<16|g<<8|b), and everything else is 256-color indexed.
func writeColor(out *strings.Builder, c vt10x.Color, base, brightBase, trueBase int) {
	switch {
	case c.ANSI():
		if c < 8 {
			fmt.Fprintf(out, "\x1b[%dm", base+int(c))
		} else {
			fmt.Fprintf(out, "\x1b[%dm", brightBase+int(c)-8)
		}
	case c > 255:
		r := (c >> 16) & 0xFF
		g := (c >> 8) & 0xFF
		b := c & 0xFF
		fmt.Fprintf(out, "\x1b[%d;2;%d;%d;%dm", trueBase, r, g, b)
	default:
		fmt.Fprintf(out, "\x1b[%d;5;%dm", trueBase, c)
	}
}
