package game

// Session is the mutable state of one round. A room replaces the whole
// session on every restart instead of resetting fields in place.
type Session struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Mines       int    `json:"mines"`
	Seed        uint32 `json:"seed"`
	Mode        Mode   `json:"mode"`
	StunSmall   int    `json:"stunSmall"`
	StunBig     int    `json:"stunBig"`
	TurnSeconds int    `json:"turnSeconds"`

	Started bool `json:"started"`
	Over    bool `json:"over"`

	Winner     *string `json:"winner,omitempty"`
	OverReason string  `json:"overReason,omitempty"`

	// Scores counts mines detonated per player, not safe tiles.
	Scores map[string]int `json:"scores"`

	// RevealedLog is append-only and replayed verbatim to late joiners.
	RevealedLog []TileUpdate `json:"-"`

	revealed map[Coord]struct{}
	mineSet  map[Coord]struct{}
}

func NewSession(opt Options, seed uint32) *Session {
	return &Session{
		Width:       opt.Width,
		Height:      opt.Height,
		Mines:       opt.Mines,
		Seed:        seed,
		Mode:        opt.Mode,
		StunSmall:   opt.StunSmall,
		StunBig:     opt.StunBig,
		TurnSeconds: opt.TurnSeconds,
		Scores:      map[string]int{},
		revealed:    map[Coord]struct{}{},
	}
}

// MineSet computes the mine placement lazily and caches it; it is a pure
// function of (seed, width, height, mines).
func (s *Session) MineSet() map[Coord]struct{} {
	if s.mineSet == nil {
		s.mineSet = MinePositions(s.Seed, s.Width, s.Height, s.Mines)
	}
	return s.mineSet
}

func (s *Session) IsRevealed(x, y int) bool {
	_, ok := s.revealed[Coord{X: x, Y: y}]
	return ok
}

func (s *Session) RevealedCount() int {
	return len(s.revealed)
}

// FoundMines is the number of mines detonated so far across all players.
func (s *Session) FoundMines() int {
	sum := 0
	for _, v := range s.Scores {
		sum += v
	}
	return sum
}

func (s *Session) MinesLeft() int {
	return s.Mines - s.FoundMines()
}

// Options reports the session settings so a restart can inherit them
// field by field.
func (s *Session) Options() Options {
	return Options{
		Width:       s.Width,
		Height:      s.Height,
		Mines:       s.Mines,
		Mode:        s.Mode,
		StunSmall:   s.StunSmall,
		StunBig:     s.StunBig,
		TurnSeconds: s.TurnSeconds,
	}
}
