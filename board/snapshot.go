package board

import "slices"

// Snapshot is an independent copy of board occupancy used for move
// generation and simulation. Mutating a snapshot never touches the rosters
// it was built from.
type Snapshot struct {
	size    Size
	squares map[Pos]Piece
	attacks map[Color]Set
}

// NewSnapshot builds a snapshot from pieces. A later piece on an already
// occupied square replaces the earlier one.
func NewSnapshot(size Size, pieces ...Piece) *Snapshot {
	s := &Snapshot{
		size:    size,
		squares: make(map[Pos]Piece, len(pieces)),
	}
	for _, p := range pieces {
		s.squares[p.Pos] = p
	}
	return s
}

func (s *Snapshot) Size() Size { return s.size }

// InBounds reports whether p is on the board.
func (s *Snapshot) InBounds(p Pos) bool { return s.size.Contains(p) }

// PieceAt returns the piece occupying p.
func (s *Snapshot) PieceAt(p Pos) (Piece, bool) {
	piece, ok := s.squares[p]
	return piece, ok
}

// Pieces returns every piece, rank by rank.
func (s *Snapshot) Pieces() []Piece {
	out := make([]Piece, 0, len(s.squares))
	for _, p := range s.squares {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Piece) int { return comparePos(a.Pos, b.Pos) })
	return out
}

// AttackMap is the union of the pseudo-legal destinations of every piece of
// color. The result is computed once per color and cached for the life of
// the snapshot; callers must not modify it.
func (s *Snapshot) AttackMap(color Color) Set {
	if set, ok := s.attacks[color]; ok {
		return set
	}
	set := make(Set)
	for _, p := range s.squares {
		if p.Color != color {
			continue
		}
		for dst := range PseudoLegal(p, s) {
			set.Add(dst)
		}
	}
	if s.attacks == nil {
		s.attacks = make(map[Color]Set, 2)
	}
	s.attacks[color] = set
	return set
}

// Clone returns a deep copy with an empty attack cache.
func (s *Snapshot) Clone() *Snapshot {
	c := &Snapshot{
		size:    s.size,
		squares: make(map[Pos]Piece, len(s.squares)),
	}
	for k, v := range s.squares {
		c.squares[k] = v
	}
	return c
}

// applyMove relocates the piece at from to to without any legality check,
// returning the piece it displaced. Nothing changes when from is empty.
func (s *Snapshot) applyMove(from, to Pos) (captured Piece, ok bool) {
	moved, found := s.squares[from]
	if !found {
		return Piece{}, false
	}
	delete(s.squares, from)
	captured, ok = s.squares[to]
	moved.Pos = to
	s.squares[to] = moved
	s.attacks = nil
	return captured, ok
}
