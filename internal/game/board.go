package game

import "errors"

// ErrAlreadyRevealed is returned when a tile is clicked twice; the message is
// part of the client protocol.
var ErrAlreadyRevealed = errors.New("Already revealed")

// lcg is the linear-congruential generator that drives mine placement.
// The constants match the classic Numerical Recipes parameters, so a seed
// always reproduces the same board on every client that knows it.
type lcg struct {
	s uint32
}

func (r *lcg) next() float64 {
	r.s = r.s*1664525 + 1013904223
	return float64(r.s) / (1 << 32)
}

// MinePositions places exactly mines mines on a width x height board. The
// full coordinate list is Fisher-Yates shuffled with the seeded generator and
// the first mines entries become the mine set.
func MinePositions(seed uint32, width, height, mines int) map[Coord]struct{} {
	r := &lcg{s: seed}

	coords := make([]Coord, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			coords = append(coords, Coord{X: x, Y: y})
		}
	}
	for i := len(coords) - 1; i > 0; i-- {
		j := int(r.next() * float64(i+1))
		coords[i], coords[j] = coords[j], coords[i]
	}

	set := make(map[Coord]struct{}, mines)
	for _, c := range coords[:mines] {
		set[c] = struct{}{}
	}
	return set
}

func (s *Session) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.Width && y < s.Height
}

func (s *Session) neighbors(x, y int) []Coord {
	res := make([]Coord, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if s.InBounds(nx, ny) {
				res = append(res, Coord{X: nx, Y: ny})
			}
		}
	}
	return res
}

// adjacent counts mines in the 8-neighborhood of (x,y).
func (s *Session) adjacent(x, y int) int {
	mines := s.MineSet()
	n := 0
	for _, c := range s.neighbors(x, y) {
		if _, ok := mines[c]; ok {
			n++
		}
	}
	return n
}

// Reveal opens (x,y) for playerID. A mine yields a single boom update and a
// score point; a safe tile yields its adjacency value and, when that value is
// zero, an iterative flood fill over the connected zero region. Mines are
// never opened by the flood. Callers must bounds-check first.
func (s *Session) Reveal(playerID string, x, y int) (updates []TileUpdate, hitMine bool, err error) {
	at := Coord{X: x, Y: y}
	if _, ok := s.revealed[at]; ok {
		return nil, false, ErrAlreadyRevealed
	}

	mines := s.MineSet()
	_, isMine := mines[at]
	s.revealed[at] = struct{}{}

	// Every revealer gets a score entry, even at zero, so the scoreboard
	// and the victory math see them.
	if isMine {
		s.Scores[playerID]++
	} else if _, ok := s.Scores[playerID]; !ok {
		s.Scores[playerID] = 0
	}

	if isMine {
		u := TileUpdate{X: x, Y: y, State: TileBoom, Value: -1, Owner: playerID}
		s.RevealedLog = append(s.RevealedLog, u)
		return []TileUpdate{u}, true, nil
	}

	value := s.adjacent(x, y)
	first := TileUpdate{X: x, Y: y, State: TileRevealed, Value: value, Owner: playerID}
	updates = append(updates, first)

	if value == 0 {
		stack := s.neighbors(x, y)
		for len(stack) > 0 {
			c := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if _, ok := s.revealed[c]; ok {
				continue
			}
			if _, ok := mines[c]; ok {
				continue
			}
			s.revealed[c] = struct{}{}
			v := s.adjacent(c.X, c.Y)
			updates = append(updates, TileUpdate{X: c.X, Y: c.Y, State: TileRevealed, Value: v, Owner: playerID})
			if v == 0 {
				stack = append(stack, s.neighbors(c.X, c.Y)...)
			}
		}
	}

	s.RevealedLog = append(s.RevealedLog, updates...)
	return updates, false, nil
}
