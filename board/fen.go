package board

import (
	"fmt"

	"github.com/Oliverans/GooseEngineMG/goosemg"
)

const emptyFEN = "8/8/8/8/8/8/8/8 w - - 0 1"

var fenSize = Size{W: 8, H: 8}

var (
	toGoose = map[Kind]goosemg.PieceType{
		Pawn:   goosemg.PieceTypePawn,
		Rook:   goosemg.PieceTypeRook,
		Bishop: goosemg.PieceTypeBishop,
		Knight: goosemg.PieceTypeKnight,
		Queen:  goosemg.PieceTypeQueen,
		King:   goosemg.PieceTypeKing,
	}
	fromGoose = map[goosemg.PieceType]Kind{
		goosemg.PieceTypePawn:   Pawn,
		goosemg.PieceTypeRook:   Rook,
		goosemg.PieceTypeBishop: Bishop,
		goosemg.PieceTypeKnight: Knight,
		goosemg.PieceTypeQueen:  Queen,
		goosemg.PieceTypeKing:   King,
	}
)

// ParseFEN reads the placement and side-to-move fields of a FEN record.
// Castling and en passant fields are accepted but ignored.
func ParseFEN(fen string) (Layout, Color, error) {
	b, err := goosemg.ParseFEN(fen)
	if err != nil {
		return Layout{}, White, fmt.Errorf("board: %w", err)
	}
	l := Layout{Size: fenSize}
	for sq := goosemg.Square(0); sq < 64; sq++ {
		gp := b.PieceAt(sq)
		if gp == goosemg.NoPiece {
			continue
		}
		l.Pieces = append(l.Pieces, Piece{
			Kind:  fromGoose[gp.Type()],
			Color: fromGooseColor(gp.Color()),
			Pos:   Pos{X: uint16(sq % 8), Y: uint16(sq / 8)},
		})
	}
	return l, fromGooseColor(b.SideToMove()), nil
}

// FEN renders the position with the side to move. Castling and en passant
// are always "-".
func (m *Match) FEN() (string, error) {
	if m.size != fenSize {
		return "", ErrUnsupportedSize
	}
	b, err := goosemg.ParseFEN(emptyFEN)
	if err != nil {
		return "", err
	}
	for _, p := range m.Pieces() {
		sq := goosemg.Square(int(p.Pos.Y)*8 + int(p.Pos.X))
		b.SetPiece(sq, goosemg.PieceFromType(toGooseColor(p.Color), toGoose[p.Kind]))
	}
	b.SetSideToMove(toGooseColor(m.turn))
	return b.ToFEN(), nil
}

func toGooseColor(c Color) goosemg.Color {
	if c == White {
		return goosemg.White
	}
	return goosemg.Black
}

func fromGooseColor(c goosemg.Color) Color {
	if c == goosemg.White {
		return White
	}
	return Black
}
