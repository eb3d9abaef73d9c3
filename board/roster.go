package board

import "fmt"

// Roster owns the live pieces of one side and remembers where its king is.
type Roster struct {
	color  Color
	king   Pos
	pieces []Piece
}

func newRoster(color Color, pieces []Piece) (*Roster, error) {
	r := &Roster{color: color, pieces: make([]Piece, 0, len(pieces))}
	kings := 0
	for _, p := range pieces {
		if p.Color != color {
			continue
		}
		if p.Kind == King {
			kings++
			r.king = p.Pos
		}
		r.pieces = append(r.pieces, p)
	}
	switch {
	case kings == 0:
		return nil, fmt.Errorf("%w: %s", ErrNoKing, color)
	case kings > 1:
		return nil, fmt.Errorf("%w: %s", ErrExtraKing, color)
	}
	return r, nil
}

func (r *Roster) Color() Color { return r.color }

// King is the square of this side's king.
func (r *Roster) King() Pos { return r.king }

// Pieces returns a copy of the live pieces.
func (r *Roster) Pieces() []Piece {
	out := make([]Piece, len(r.pieces))
	copy(out, r.pieces)
	return out
}

func (r *Roster) index(p Pos) int {
	for i := range r.pieces {
		if r.pieces[i].Pos == p {
			return i
		}
	}
	return -1
}

func (r *Roster) pieceAt(p Pos) (Piece, bool) {
	if i := r.index(p); i >= 0 {
		return r.pieces[i], true
	}
	return Piece{}, false
}

// remove drops the piece at p. Order of the remaining pieces is not kept.
func (r *Roster) remove(p Pos) (Piece, bool) {
	i := r.index(p)
	if i < 0 {
		return Piece{}, false
	}
	removed := r.pieces[i]
	last := len(r.pieces) - 1
	r.pieces[i] = r.pieces[last]
	r.pieces = r.pieces[:last]
	return removed, true
}

// relocate moves the piece at from to to and keeps the king square in sync.
func (r *Roster) relocate(from, to Pos) bool {
	i := r.index(from)
	if i < 0 {
		return false
	}
	r.pieces[i].Pos = to
	if r.pieces[i].Kind == King {
		r.king = to
	}
	return true
}
