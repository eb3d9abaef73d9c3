package main

import "github.com/kiri-wys/chetro/board"

// Move authors as stored with each board state.
const (
	sideWhite = "WHITE"
	sideBlack = "BLACK"
)

// Rejection codes returned to clients.
const (
	codeInvalidOrigin = "invalid_origin"
	codeIllegal       = "illegal"
	codeUnsafe        = "unsafe"
	codeWrongTurn     = "wrong_turn"
)

func sideOf(c board.Color) string {
	if c == board.White {
		return sideWhite
	}
	return sideBlack
}

// nextMover is the side to play after author's move.
func nextMover(author string) board.Color {
	if author == sideWhite {
		return board.Black
	}
	return board.White
}
