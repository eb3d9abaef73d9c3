package board

import (
	"math/rand"
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

func TestPseudoLegal(t *testing.T) {
	tests := []struct {
		name   string
		mover  Piece
		others []Piece
		want   []string
	}{
		{
			name:  "white pawn single step",
			mover: pc(Pawn, White, "E2"),
			want:  []string{"E3"},
		},
		{
			name:  "pawn takes diagonally only",
			mover: pc(Pawn, White, "E2"),
			others: []Piece{
				pc(Knight, Black, "D3"), pc(Bishop, Black, "F3"), pc(Rook, White, "E3"),
			},
			want: []string{"D3", "F3"},
		},
		{
			name:   "black pawn walks down",
			mover:  pc(Pawn, Black, "E7"),
			others: []Piece{pc(Queen, White, "D6"), pc(Queen, Black, "F6")},
			want:   []string{"D6", "E6"},
		},
		{
			name:   "pawn cannot take straight ahead",
			mover:  pc(Pawn, White, "E2"),
			others: []Piece{pc(Pawn, Black, "E3")},
			want:   []string{},
		},
		{
			name:  "pawn on last rank has nowhere to go",
			mover: pc(Pawn, White, "C8"),
			want:  []string{},
		},
		{
			name:   "knight jumps over pieces",
			mover:  pc(Knight, White, "B1"),
			others: []Piece{pc(Pawn, White, "D2"), pc(Pawn, Black, "C3"), pc(Pawn, White, "B2"), pc(Pawn, White, "C2")},
			want:   []string{"A3", "C3"},
		},
		{
			name:   "rook stops at first blocker",
			mover:  pc(Rook, White, "A1"),
			others: []Piece{pc(Pawn, White, "A3"), pc(Knight, Black, "D1")},
			want:   []string{"B1", "C1", "D1", "A2"},
		},
		{
			name:   "bishop",
			mover:  pc(Bishop, White, "C1"),
			others: []Piece{pc(Pawn, White, "B2"), pc(Pawn, Black, "E3")},
			want:   []string{"D2", "E3"},
		},
		{
			name:  "king one step",
			mover: pc(King, White, "E1"),
			want:  []string{"D1", "F1", "D2", "E2", "F2"},
		},
		{
			name:   "king may take but not onto own",
			mover:  pc(King, Black, "A8"),
			others: []Piece{pc(Rook, White, "A7"), pc(Rook, Black, "B8")},
			want:   []string{"A7", "B7"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snap8(append([]Piece{tt.mover}, tt.others...)...)
			got := PseudoLegal(tt.mover, s).Labels()
			if !equalLabels(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueenOpenBoard(t *testing.T) {
	q := pc(Queen, White, "D4")
	if n := PseudoLegal(q, snap8(q)).Len(); n != 27 {
		t.Fatalf("queen on open board reaches %d squares, want 27", n)
	}
}

func TestNonSquareBoard(t *testing.T) {
	r := Piece{Kind: Rook, Color: White, Pos: Pos{0, 0}}
	s := NewSnapshot(Size{W: 3, H: 10}, r)
	if n := PseudoLegal(r, s).Len(); n != 11 {
		t.Fatalf("rook on 3x10 reaches %d squares, want 11", n)
	}
	k := Piece{Kind: Knight, Color: Black, Pos: Pos{2, 9}}
	got := PseudoLegal(k, NewSnapshot(Size{W: 3, H: 10}, k)).Labels()
	if !equalLabels(got, []string{"B8", "A9"}) {
		t.Fatalf("knight in corner: %v", got)
	}
}

func TestGeneratedSquaresProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	all := []Kind{Pawn, Rook, Bishop, Knight, Queen, King}
	for i := 0; i < 300; i++ {
		pieces := randomPieces(r, all, 12)
		s := snap8(pieces...)
		for _, p := range pieces {
			dests := PseudoLegal(p, s)
			for d := range dests {
				if !s.InBounds(d) {
					t.Fatalf("%s generated off-board %s", p, d)
				}
				if occ, ok := s.PieceAt(d); ok && occ.Color == p.Color {
					t.Fatalf("%s generated own-occupied %s", p, d)
				}
			}
			checkSlideStop(t, s, p, dests)
		}
	}
}

func checkSlideStop(t *testing.T, s *Snapshot, p Piece, dests Set) {
	t.Helper()
	var dirs []direction
	switch p.Kind {
	case Rook:
		dirs = orthogonal[:]
	case Bishop:
		dirs = diagonal[:]
	case Queen:
		dirs = append(append(dirs, orthogonal[:]...), diagonal[:]...)
	default:
		return
	}
	for _, d := range dirs {
		blocked := false
		for i := 1; i < 8; i++ {
			sq, ok := p.Pos.TryAdd(d.dx*i, d.dy*i)
			if !ok || !s.InBounds(sq) {
				break
			}
			if blocked && dests.Contains(sq) {
				t.Fatalf("%s slid past a blocker to %s", p, sq)
			}
			if _, ok := s.PieceAt(sq); ok {
				blocked = true
			}
		}
	}
}

func TestSlidersMatchDragontooth(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		pieces := randomPieces(r, []Kind{Rook, Bishop, Queen, Knight, Pawn}, 14)
		s := snap8(pieces...)
		var occ, own [2]uint64
		for _, p := range pieces {
			occ[0] |= 1 << square(p.Pos)
			own[p.Color] |= 1 << square(p.Pos)
		}
		for _, p := range pieces {
			var want uint64
			switch p.Kind {
			case Rook:
				want = dragontoothmg.CalculateRookMoveBitboard(square(p.Pos), occ[0])
			case Bishop:
				want = dragontoothmg.CalculateBishopMoveBitboard(square(p.Pos), occ[0])
			case Queen:
				want = dragontoothmg.CalculateRookMoveBitboard(square(p.Pos), occ[0]) |
					dragontoothmg.CalculateBishopMoveBitboard(square(p.Pos), occ[0])
			default:
				continue
			}
			want &^= own[p.Color]
			if got := bitboard(PseudoLegal(p, s)); got != want {
				t.Fatalf("%s: got %016x, want %016x", p, got, want)
			}
		}
	}
}

func TestSetSorted(t *testing.T) {
	s := NewSet(at("B2"), at("C1"), at("A1"), at("C1"))
	if s.Len() != 3 {
		t.Fatalf("len %d", s.Len())
	}
	if got := s.Labels(); !equalLabels(got, []string{"A1", "C1", "B2"}) {
		t.Fatalf("labels %v", got)
	}
}
