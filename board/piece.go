package board

import "fmt"

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

// Opposite returns the other side.
func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// Forward is the rank direction pawns of this color advance in.
func (c Color) Forward() int {
	if c == White {
		return 1
	}
	return -1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// ParseColor accepts "white"/"w" and "black"/"b" in any case.
func ParseColor(s string) (Color, bool) {
	switch s {
	case "white", "White", "WHITE", "w", "W":
		return White, true
	case "black", "Black", "BLACK", "b", "B":
		return Black, true
	}
	return White, false
}

// Kind is a piece type.
type Kind uint8

const (
	Pawn Kind = iota
	Rook
	Bishop
	Knight
	Queen
	King
)

var kindNames = [...]string{"pawn", "rook", "bishop", "knight", "queen", "king"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Letter is the uppercase FEN letter of the kind.
func (k Kind) Letter() byte {
	return "PRBNQK?"[min(int(k), 6)]
}

// Piece is a plain value: what it is, whose it is and where it stands.
type Piece struct {
	Kind  Kind  `json:"kind"`
	Color Color `json:"color"`
	Pos   Pos   `json:"pos"`
}

func (p Piece) String() string {
	return fmt.Sprintf("%s %s %s", p.Color, p.Kind, p.Pos)
}
