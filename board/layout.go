package board

import (
	"fmt"
	"strings"
)

// Layout is a starting position handed to NewMatch.
type Layout struct {
	Size   Size    `json:"size"`
	Pieces []Piece `json:"pieces"`
}

var backRank = [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// StandardLayout is the usual 32 piece opening position on 8x8.
func StandardLayout() Layout {
	l := Layout{Size: Size{W: 8, H: 8}}
	for x, kind := range backRank {
		file := uint16(x)
		l.Pieces = append(l.Pieces,
			Piece{Kind: kind, Color: White, Pos: Pos{X: file, Y: 0}},
			Piece{Kind: Pawn, Color: White, Pos: Pos{X: file, Y: 1}},
			Piece{Kind: Pawn, Color: Black, Pos: Pos{X: file, Y: 6}},
			Piece{Kind: kind, Color: Black, Pos: Pos{X: file, Y: 7}},
		)
	}
	return l
}

// SandboxLayout is a reduced testing position: White has one of each piece
// on the third rank, Black only a king and a rook.
func SandboxLayout() Layout {
	l := Layout{Size: Size{W: 8, H: 8}}
	for x, kind := range []Kind{Rook, Bishop, Pawn, Knight, King, Queen} {
		l.Pieces = append(l.Pieces, Piece{Kind: kind, Color: White, Pos: Pos{X: uint16(x), Y: 2}})
	}
	l.Pieces = append(l.Pieces,
		Piece{Kind: King, Color: Black, Pos: Pos{X: 7, Y: 7}},
		Piece{Kind: Rook, Color: Black, Pos: Pos{X: 3, Y: 3}},
	)
	return l
}

// LayoutByName resolves "standard" or "sandbox". An empty name is standard.
func LayoutByName(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "standard":
		return StandardLayout(), nil
	case "sandbox":
		return SandboxLayout(), nil
	}
	return Layout{}, fmt.Errorf("board: unknown layout %q", name)
}

func (l Layout) validate() error {
	if l.Size.W == 0 || l.Size.H == 0 {
		return ErrEmptyBoard
	}
	seen := make(Set, len(l.Pieces))
	for _, p := range l.Pieces {
		if !l.Size.Contains(p.Pos) {
			return fmt.Errorf("%w: %s", ErrOutOfBounds, p)
		}
		if seen.Contains(p.Pos) {
			return fmt.Errorf("%w: %s", ErrOverlap, p.Pos)
		}
		seen.Add(p.Pos)
	}
	return nil
}
