package board

import (
	"cmp"
	"slices"

	"golang.org/x/exp/maps"
)

// Set is an unordered collection of squares.
type Set map[Pos]struct{}

// NewSet returns a set holding ps.
func NewSet(ps ...Pos) Set {
	s := make(Set, len(ps))
	for _, p := range ps {
		s.Add(p)
	}
	return s
}

func (s Set) Add(p Pos) { s[p] = struct{}{} }

func (s Set) Contains(p Pos) bool {
	_, ok := s[p]
	return ok
}

func (s Set) Len() int { return len(s) }

// Sorted returns the squares rank by rank, files ascending.
func (s Set) Sorted() []Pos {
	out := maps.Keys(s)
	slices.SortFunc(out, comparePos)
	return out
}

// Labels returns the sorted squares as strings.
func (s Set) Labels() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, p := range sorted {
		out[i] = p.String()
	}
	return out
}

func comparePos(a, b Pos) int {
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.X, b.X)
}
