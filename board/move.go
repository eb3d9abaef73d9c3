package board

import "fmt"

// Move records an accepted move. Piece is as it stood before moving.
type Move struct {
	Piece    Piece  `json:"piece"`
	From     Pos    `json:"from"`
	To       Pos    `json:"to"`
	Captured *Piece `json:"captured,omitempty"`
}

func (mv Move) String() string {
	s := fmt.Sprintf("%s %s->%s", mv.Piece.Kind, mv.From, mv.To)
	if mv.Captured != nil {
		s += " x " + mv.Captured.Kind.String()
	}
	return s
}
