package board

// inclusion says which kinds of target square a scan may emit.
type inclusion uint8

const (
	includeEmpty inclusion = 1 << iota
	includeSame
	includeOther
)

const emptyOrOther = includeEmpty | includeOther

type direction struct{ dx, dy int }

var (
	orthogonal = [...]direction{{1, 0}, {0, 1}, {0, -1}, {-1, 0}}
	diagonal   = [...]direction{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
	jumps      = [...]direction{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
)

// PseudoLegal returns the squares p can reach by its movement pattern on s,
// without asking whether the move would leave its own king attacked.
func PseudoLegal(p Piece, s *Snapshot) Set {
	g := generator{snap: s, from: p.Pos, color: p.Color, out: make(Set)}
	switch p.Kind {
	case Pawn:
		fwd := p.Color.Forward()
		g.line(direction{0, fwd}, 1, includeEmpty)
		g.line(direction{1, fwd}, 1, includeOther)
		g.line(direction{-1, fwd}, 1, includeOther)
	case Rook:
		g.lines(orthogonal[:], 0, emptyOrOther)
	case Bishop:
		g.lines(diagonal[:], 0, emptyOrOther)
	case Queen:
		g.lines(orthogonal[:], 0, emptyOrOther)
		g.lines(diagonal[:], 0, emptyOrOther)
	case King:
		g.lines(orthogonal[:], 1, emptyOrOther)
		g.lines(diagonal[:], 1, emptyOrOther)
	case Knight:
		g.corners(jumps[:])
	}
	return g.out
}

type generator struct {
	snap  *Snapshot
	from  Pos
	color Color
	out   Set
}

func (g *generator) lines(dirs []direction, limit int, inc inclusion) {
	for _, d := range dirs {
		g.line(d, limit, inc)
	}
}

// line walks from the origin along d, one square further each step, up to
// limit steps (0 means until the edge). The walk always ends on the first
// occupied square; whether that square is emitted depends on inc.
func (g *generator) line(d direction, limit int, inc inclusion) {
	for i := 1; limit == 0 || i <= limit; i++ {
		dst, ok := g.from.TryAdd(d.dx*i, d.dy*i)
		if !ok || !g.snap.InBounds(dst) {
			return
		}
		occupant, taken := g.snap.PieceAt(dst)
		if !taken {
			if inc&includeEmpty != 0 {
				g.out.Add(dst)
			}
			continue
		}
		same := occupant.Color == g.color
		if (same && inc&includeSame != 0) || (!same && inc&includeOther != 0) {
			g.out.Add(dst)
		}
		return
	}
}

// corners emits each offset target that is on the board and not held by a
// piece of the mover's color.
func (g *generator) corners(offsets []direction) {
	for _, d := range offsets {
		dst, ok := g.from.TryAdd(d.dx, d.dy)
		if !ok || !g.snap.InBounds(dst) {
			continue
		}
		if occupant, taken := g.snap.PieceAt(dst); taken && occupant.Color == g.color {
			continue
		}
		g.out.Add(dst)
	}
}
