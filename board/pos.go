package board

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// maxCoord is the exclusive ceiling of a single axis.
const maxCoord = math.MaxUint16

// ErrBadSquare is returned by ParsePos for labels that do not name a square.
var ErrBadSquare = errors.New("board: malformed square label")

// Pos is a square on the grid. X is the file, Y the rank, both zero based.
type Pos struct {
	X uint16 `json:"x"`
	Y uint16 `json:"y"`
}

// TryAdd offsets p by (dx, dy). It reports false instead of wrapping when
// either axis would leave the representable range. Board bounds are not
// checked here.
func (p Pos) TryAdd(dx, dy int) (Pos, bool) {
	x, okX := addAxis(p.X, dx)
	y, okY := addAxis(p.Y, dy)
	if !okX || !okY {
		return Pos{}, false
	}
	return Pos{X: x, Y: y}, true
}

func addAxis(v uint16, d int) (uint16, bool) {
	if d <= -maxCoord || d >= maxCoord {
		return 0, false
	}
	n := int(v) + d
	if n < 0 || n >= maxCoord {
		return 0, false
	}
	return uint16(n), true
}

// String renders the file as base-26 letters (A..Z, AA, AB, ...) followed by
// the one-based rank, e.g. "A1" or "AB12".
func (p Pos) String() string {
	return fileLabel(p.X) + strconv.Itoa(int(p.Y)+1)
}

func fileLabel(x uint16) string {
	var buf []byte
	n := int(x)
	for {
		buf = append(buf, byte('A'+n%26))
		n /= 26
		if n == 0 {
			break
		}
		n--
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// ParsePos is the inverse of Pos.String. Letters are case-insensitive.
func ParsePos(s string) (Pos, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(s) {
		return Pos{}, ErrBadSquare
	}
	file := 0
	for _, c := range s[:i] {
		file = file*26 + int(c-'A') + 1
		if file > maxCoord {
			return Pos{}, ErrBadSquare
		}
	}
	rank, err := strconv.Atoi(s[i:])
	if err != nil || rank < 1 || rank > maxCoord || strings.HasPrefix(s[i:], "+") {
		return Pos{}, ErrBadSquare
	}
	return Pos{X: uint16(file - 1), Y: uint16(rank - 1)}, nil
}

// Size holds the board bounds.
type Size struct {
	W uint16 `json:"w"`
	H uint16 `json:"h"`
}

// Contains reports whether p lies on a board of this size.
func (s Size) Contains(p Pos) bool {
	return p.X < s.W && p.Y < s.H
}
