package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fatih/color"

	"github.com/kiri-wys/chetro/board"
)

var (
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
)

func logRequest(req *http.Request) {
	fmt.Println(req.Method, req.URL, GetIP(req))
}

func logWarn(format string, args ...interface{}) {
	warnColor.Fprintf(color.Output, format+"\n", args...)
}

func logError(format string, args ...interface{}) {
	errorColor.Fprintf(color.Output, format+"\n", args...)
}

// renderBoard draws m with the first rank at the bottom. Squares in marks
// are painted red and get a dot when empty; the selected square is yellow.
func renderBoard(m *board.Match, marks board.Set) string {
	var sb strings.Builder
	size := m.Size()
	selected, hasSelected := m.Selected()
	for y := int(size.H) - 1; y >= 0; y-- {
		fmt.Fprintf(&sb, "%3d ", y+1)
		for x := 0; x < int(size.W); x++ {
			pos := board.Pos{X: uint16(x), Y: uint16(y)}
			p, occupied := m.PieceAt(pos)
			cell := "   "
			switch {
			case occupied && p.Color == board.White:
				cell = " " + string(p.Kind.Letter()) + " "
			case occupied:
				cell = " " + strings.ToLower(string(p.Kind.Letter())) + " "
			case marks.Contains(pos):
				cell = " . "
			}
			bg := squareBackground(x, y)
			switch {
			case hasSelected && selected == pos:
				bg = color.BgYellow
			case marks.Contains(pos):
				bg = color.BgRed
			}
			fg := color.FgBlack
			if occupied && p.Color == board.White {
				fg = color.FgHiWhite
			}
			sb.WriteString(color.New(bg, fg, color.Bold).Sprint(cell))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("    ")
	for x := 0; x < int(size.W); x++ {
		file := strings.TrimSuffix(board.Pos{X: uint16(x)}.String(), "1")
		fmt.Fprintf(&sb, " %-2s", file)
	}
	sb.WriteByte('\n')
	return sb.String()
}

func squareBackground(x, y int) color.Attribute {
	if (x+y)%2 == 1 {
		return color.BgWhite
	}
	return color.BgHiBlack
}

func printBoard(w io.Writer, m *board.Match, marks board.Set) {
	fmt.Fprint(w, renderBoard(m, marks))
}
