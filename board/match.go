package board

import "slices"

// Match holds both sides of a game in progress along with the square the
// player currently has selected.
type Match struct {
	size  Size
	white *Roster
	black *Roster

	selected    Pos
	hasSelected bool

	turn         Color
	enforceTurns bool
	history      []Move
}

// Option configures a Match.
type Option func(*Match)

// WithTurnOrder makes TryMove refuse pieces of the side not on move.
func WithTurnOrder() Option {
	return func(m *Match) { m.enforceTurns = true }
}

// WithTurn sets the side to move first. White by default.
func WithTurn(c Color) Option {
	return func(m *Match) { m.turn = c }
}

// NewMatch validates layout and splits it into the two rosters.
func NewMatch(layout Layout, opts ...Option) (*Match, error) {
	if err := layout.validate(); err != nil {
		return nil, err
	}
	white, err := newRoster(White, layout.Pieces)
	if err != nil {
		return nil, err
	}
	black, err := newRoster(Black, layout.Pieces)
	if err != nil {
		return nil, err
	}
	m := &Match{size: layout.Size, white: white, black: black}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Match) Size() Size { return m.size }

// Turn is the side expected to move next.
func (m *Match) Turn() Color { return m.turn }

func (m *Match) roster(c Color) *Roster {
	if c == White {
		return m.white
	}
	return m.black
}

// Roster exposes one side read-only.
func (m *Match) Roster(c Color) *Roster { return m.roster(c) }

// KingPosition is the cached king square of c.
func (m *Match) KingPosition(c Color) Pos { return m.roster(c).King() }

// PieceAt returns the piece on p, if any.
func (m *Match) PieceAt(p Pos) (Piece, bool) {
	if piece, ok := m.white.pieceAt(p); ok {
		return piece, true
	}
	return m.black.pieceAt(p)
}

// Pieces lists every live piece, rank by rank.
func (m *Match) Pieces() []Piece {
	return m.Snapshot().Pieces()
}

// Layout captures the current position in a form NewMatch accepts.
func (m *Match) Layout() Layout {
	return Layout{Size: m.size, Pieces: m.Pieces()}
}

// Selected returns the selected square.
func (m *Match) Selected() (Pos, bool) { return m.selected, m.hasSelected }

// Select marks p as selected. Occupancy is the caller's concern.
func (m *Match) Select(p Pos) {
	m.selected, m.hasSelected = p, true
}

func (m *Match) ClearSelection() {
	m.selected, m.hasSelected = Pos{}, false
}

// History returns the accepted moves, oldest first.
func (m *Match) History() []Move { return slices.Clone(m.history) }

// Snapshot copies the live position of both sides.
func (m *Match) Snapshot() *Snapshot {
	s := NewSnapshot(m.size, m.white.pieces...)
	for _, p := range m.black.pieces {
		s.squares[p.Pos] = p
	}
	return s
}

// InCheck reports whether c's king stands on a square the other side attacks.
func (m *Match) InCheck(c Color) bool {
	return m.Snapshot().AttackMap(c.Opposite()).Contains(m.KingPosition(c))
}

// PseudoLegalDestinations is the movement pattern of the piece on p. Empty
// when p holds no piece.
func (m *Match) PseudoLegalDestinations(p Pos) Set {
	piece, ok := m.PieceAt(p)
	if !ok {
		return Set{}
	}
	return PseudoLegal(piece, m.Snapshot())
}

// LegalDestinations filters the pseudo-legal destinations of the piece on p
// through the same checks TryMove commits with.
func (m *Match) LegalDestinations(p Pos) Set {
	piece, ok := m.PieceAt(p)
	if !ok {
		return Set{}
	}
	snap := m.Snapshot()
	out := make(Set)
	for dst := range PseudoLegal(piece, snap) {
		if m.legal(snap, piece, dst) == nil {
			out.Add(dst)
		}
	}
	return out
}

// legal reports why piece may not go to dst, which must already be one of
// its pseudo-legal destinations on snap.
func (m *Match) legal(snap *Snapshot, piece Piece, dst Pos) error {
	// Kings are never taken; a side always keeps exactly one.
	if target, ok := snap.PieceAt(dst); ok && target.Kind == King {
		return ErrIllegal
	}
	if !m.safe(snap, piece, dst) {
		return ErrUnsafe
	}
	return nil
}

// safe plays piece to dst on a copy of snap and reports whether its king
// escapes every attack of the opponent afterwards.
func (m *Match) safe(snap *Snapshot, piece Piece, dst Pos) bool {
	sim := snap.Clone()
	sim.applyMove(piece.Pos, dst)
	king := m.KingPosition(piece.Color)
	if piece.Kind == King {
		king = dst
	}
	return !sim.AttackMap(piece.Color.Opposite()).Contains(king)
}

// TryMove plays from->to when the piece on from can reach to without
// exposing its own king. A rejected move changes nothing except clearing a
// selection on from.
func (m *Match) TryMove(from, to Pos) error {
	if m.hasSelected && m.selected == from {
		m.ClearSelection()
	}
	piece, ok := m.PieceAt(from)
	if !ok {
		return &MoveError{From: from, To: to, Err: ErrInvalidOrigin}
	}
	if m.enforceTurns && piece.Color != m.turn {
		return &MoveError{From: from, To: to, Err: ErrWrongTurn}
	}
	snap := m.Snapshot()
	if !PseudoLegal(piece, snap).Contains(to) {
		return &MoveError{From: from, To: to, Err: ErrIllegal}
	}
	if err := m.legal(snap, piece, to); err != nil {
		return &MoveError{From: from, To: to, Err: err}
	}

	mv := Move{Piece: piece, From: from, To: to}
	if captured, ok := m.roster(piece.Color.Opposite()).remove(to); ok {
		mv.Captured = &captured
	}
	m.roster(piece.Color).relocate(from, to)
	m.history = append(m.history, mv)
	m.turn = piece.Color.Opposite()
	return nil
}
