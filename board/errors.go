package board

import (
	"errors"
	"fmt"
)

// Move rejections. They are ordinary results: the board is left unchanged.
var (
	ErrInvalidOrigin = errors.New("no piece on origin square")
	ErrIllegal       = errors.New("destination not reachable by the piece")
	ErrUnsafe        = errors.New("move leaves own king attacked")
	ErrWrongTurn     = errors.New("piece does not belong to the side to move")
)

// Layout problems reported by NewMatch.
var (
	ErrEmptyBoard      = errors.New("board: zero sized board")
	ErrOutOfBounds     = errors.New("board: piece outside the board")
	ErrOverlap         = errors.New("board: two pieces on one square")
	ErrNoKing          = errors.New("board: side has no king")
	ErrExtraKing       = errors.New("board: side has more than one king")
	ErrUnsupportedSize = errors.New("board: only 8x8 boards have a FEN form")
)

// MoveError ties a rejection to the attempted move.
type MoveError struct {
	From, To Pos
	Err      error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("%s->%s: %v", e.From, e.To, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }
