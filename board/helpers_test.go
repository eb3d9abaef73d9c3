package board

import (
	"math/rand"
	"testing"
)

var std = Size{W: 8, H: 8}

func at(s string) Pos {
	p, err := ParsePos(s)
	if err != nil {
		panic("bad square " + s)
	}
	return p
}

func pc(kind Kind, c Color, square string) Piece {
	return Piece{Kind: kind, Color: c, Pos: at(square)}
}

func snap8(pieces ...Piece) *Snapshot {
	return NewSnapshot(std, pieces...)
}

func newMatch(t *testing.T, pieces ...Piece) *Match {
	t.Helper()
	m, err := NewMatch(Layout{Size: std, Pieces: pieces})
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	return m
}

func equalLabels(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// randomPieces places both kings and n more pieces drawn from kinds on
// distinct squares of an 8x8 board.
func randomPieces(r *rand.Rand, kinds []Kind, n int) []Piece {
	used := make(Set)
	free := func() Pos {
		for {
			p := Pos{X: uint16(r.Intn(8)), Y: uint16(r.Intn(8))}
			if !used.Contains(p) {
				used.Add(p)
				return p
			}
		}
	}
	out := []Piece{
		{Kind: King, Color: White, Pos: free()},
		{Kind: King, Color: Black, Pos: free()},
	}
	for i := 0; i < n; i++ {
		out = append(out, Piece{
			Kind:  kinds[r.Intn(len(kinds))],
			Color: Color(r.Intn(2)),
			Pos:   free(),
		})
	}
	return out
}

func bitboard(s Set) uint64 {
	var bb uint64
	for p := range s {
		bb |= 1 << (uint(p.Y)*8 + uint(p.X))
	}
	return bb
}

func square(p Pos) uint8 { return uint8(p.Y)*8 + uint8(p.X) }
