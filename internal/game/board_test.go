package game

import (
	"reflect"
	"testing"
)

func testOptions(w, h, mines int) Options {
	return Options{
		Width:       w,
		Height:      h,
		Mines:       mines,
		Mode:        ModeTurn,
		StunSmall:   3,
		StunBig:     10,
		TurnSeconds: 10,
	}
}

// findSeedWithMineAt scans seeds until the generator places the single mine
// of a w x h board exactly at (x,y).
func findSeedWithMineAt(t *testing.T, w, h, x, y int) uint32 {
	t.Helper()
	want := Coord{X: x, Y: y}
	for seed := uint32(0); seed < 100000; seed++ {
		set := MinePositions(seed, w, h, 1)
		if _, ok := set[want]; ok {
			return seed
		}
	}
	t.Fatalf("no seed found placing the mine at (%d,%d)", x, y)
	return 0
}

// findTile returns the first coordinate whose mine-ness and adjacency value
// satisfy the predicate, scanning row-major.
func findTile(t *testing.T, s *Session, wantMine bool, valueOK func(int) bool) Coord {
	t.Helper()
	mines := s.MineSet()
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			c := Coord{X: x, Y: y}
			_, isMine := mines[c]
			if isMine != wantMine {
				continue
			}
			if valueOK == nil || valueOK(s.adjacent(x, y)) {
				return c
			}
		}
	}
	t.Fatal("no tile matching predicate")
	return Coord{}
}

func TestMinePositions(t *testing.T) {
	tests := []struct {
		name   string
		seed   uint32
		width  int
		height int
		mines  int
	}{
		{name: "default board", seed: 12345, width: 16, height: 16, mines: 41},
		{name: "small board", seed: 0, width: 9, height: 9, mines: 10},
		{name: "single mine", seed: 7, width: 9, height: 9, mines: 1},
		{name: "dense board", seed: 4242424, width: 8, height: 8, mines: 40},
		{name: "wide board", seed: 99999, width: 30, height: 4, mines: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := MinePositions(tt.seed, tt.width, tt.height, tt.mines)

			if len(set) != tt.mines {
				t.Errorf("got %d mines, want %d", len(set), tt.mines)
			}
			for c := range set {
				if c.X < 0 || c.Y < 0 || c.X >= tt.width || c.Y >= tt.height {
					t.Errorf("mine out of bounds: %+v", c)
				}
			}

			again := MinePositions(tt.seed, tt.width, tt.height, tt.mines)
			if !reflect.DeepEqual(set, again) {
				t.Error("same inputs produced a different mine set")
			}
		})
	}
}

func TestMinePositionsDifferentSeeds(t *testing.T) {
	a := MinePositions(1, 16, 16, 41)
	b := MinePositions(2, 16, 16, 41)
	if reflect.DeepEqual(a, b) {
		t.Error("different seeds produced identical boards")
	}
}

func TestRevealAlreadyRevealed(t *testing.T) {
	s := NewSession(testOptions(9, 9, 10), 42)
	safe := findTile(t, s, false, func(v int) bool { return v > 0 })

	if _, _, err := s.Reveal("p1", safe.X, safe.Y); err != nil {
		t.Fatalf("first reveal: %v", err)
	}
	before := s.RevealedCount()

	_, _, err := s.Reveal("p2", safe.X, safe.Y)
	if err != ErrAlreadyRevealed {
		t.Fatalf("second reveal: got %v, want ErrAlreadyRevealed", err)
	}
	if s.RevealedCount() != before {
		t.Error("failed reveal mutated the revealed set")
	}
	if s.Scores["p2"] != 0 {
		t.Error("failed reveal changed a score")
	}
}

func TestRevealMine(t *testing.T) {
	s := NewSession(testOptions(9, 9, 10), 42)
	mine := findTile(t, s, true, nil)

	updates, hitMine, err := s.Reveal("p1", mine.X, mine.Y)
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if !hitMine {
		t.Error("hitMine = false on a mine tile")
	}
	if len(updates) != 1 {
		t.Fatalf("mine reveal cascaded: %d updates", len(updates))
	}
	u := updates[0]
	if u.State != TileBoom || u.Value != -1 || u.Owner != "p1" {
		t.Errorf("unexpected boom update: %+v", u)
	}
	if s.Scores["p1"] != 1 {
		t.Errorf("score = %d, want 1", s.Scores["p1"])
	}
	if s.RevealedCount() != 1 {
		t.Errorf("revealed count = %d, want 1", s.RevealedCount())
	}
}

func TestFloodFillFullOpenRegion(t *testing.T) {
	// One mine tucked into the far corner: revealing (0,0) must cascade
	// through the whole zero region and stop only on the numbered border
	// around the mine.
	seed := findSeedWithMineAt(t, 9, 9, 8, 8)
	s := NewSession(testOptions(9, 9, 1), seed)

	updates, hitMine, err := s.Reveal("p1", 0, 0)
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if hitMine {
		t.Fatal("hit a mine at (0,0)")
	}
	if len(updates) != 80 {
		t.Errorf("got %d updates, want all 80 safe tiles", len(updates))
	}

	seen := map[Coord]bool{}
	for _, u := range updates {
		c := Coord{X: u.X, Y: u.Y}
		if seen[c] {
			t.Errorf("tile %+v revealed twice", c)
		}
		seen[c] = true
		if c == (Coord{X: 8, Y: 8}) {
			t.Error("flood fill revealed the mine")
		}
	}
	for _, c := range []Coord{{X: 7, Y: 7}, {X: 8, Y: 7}, {X: 7, Y: 8}} {
		if !seen[c] {
			t.Errorf("boundary tile %+v not revealed", c)
		}
	}
	if s.IsRevealed(8, 8) {
		t.Error("mine ended up in the revealed set")
	}
}

func TestFloodFillSkipsMinesAndValues(t *testing.T) {
	s := NewSession(testOptions(16, 16, 20), 777)
	start := findTile(t, s, false, func(v int) bool { return v == 0 })

	updates, _, err := s.Reveal("p1", start.X, start.Y)
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if len(updates) < 2 {
		t.Fatalf("zero tile did not cascade: %d updates", len(updates))
	}

	mines := s.MineSet()
	for _, u := range updates {
		if _, isMine := mines[Coord{X: u.X, Y: u.Y}]; isMine {
			t.Errorf("flood revealed mine at (%d,%d)", u.X, u.Y)
		}
		if u.State != TileRevealed {
			t.Errorf("flood produced non-revealed state %q", u.State)
		}
	}
	if s.Scores["p1"] != 0 {
		t.Error("safe cascade scored a point")
	}
}

func TestRevealEverythingMatchesMineCount(t *testing.T) {
	s := NewSession(testOptions(5, 5, 3), 99)
	players := []string{"a", "b"}
	turn := 0
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if s.IsRevealed(x, y) {
				continue
			}
			if _, _, err := s.Reveal(players[turn%2], x, y); err != nil {
				t.Fatalf("reveal (%d,%d): %v", x, y, err)
			}
			turn++
		}
	}

	if s.RevealedCount() != 25 {
		t.Errorf("revealed %d tiles, want 25", s.RevealedCount())
	}
	if s.FoundMines() != 3 {
		t.Errorf("found %d mines, want 3", s.FoundMines())
	}
	if got := len(s.RevealedLog); got != 25 {
		t.Errorf("revealed log has %d entries, want 25", got)
	}
	if out := CheckOver(s.Scores, s.Mines); !out.Over {
		t.Error("exhaustion did not end the round")
	}
}
