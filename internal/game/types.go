package game

// Mode selects the scheduling discipline for a round.
type Mode string

const (
	ModeTurn     Mode = "TURN"
	ModeRealtime Mode = "REALTIME"
)

type TileState string

const (
	TileRevealed TileState = "revealed"
	TileBoom     TileState = "boom"
)

// Coord addresses a tile on the board, 0-based, x left-to-right.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// TileUpdate describes one tile transition, broadcast to the room and kept
// in the session log for late-joiner replay.
type TileUpdate struct {
	X     int       `json:"x"`
	Y     int       `json:"y"`
	State TileState `json:"state"`
	Value int       `json:"value"` // adjacent mine count, -1 for a boom
	Owner string    `json:"owner,omitempty"`
}

// MinesRange asks for a mine count drawn from [Min, Max], nudged odd.
type MinesRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Options carries the per-round settings. Mines is the effective count for
// the round; MinesRange is kept so the next round can redraw from it.
type Options struct {
	Width       int         `json:"width" mapstructure:"width"`
	Height      int         `json:"height" mapstructure:"height"`
	Mines       int         `json:"mines" mapstructure:"mines"`
	MinesRange  *MinesRange `json:"minesRange,omitempty" mapstructure:"minesRange"`
	Mode        Mode        `json:"mode" mapstructure:"mode"`
	StunSmall   int         `json:"stunSmall" mapstructure:"stunSmall"`
	StunBig     int         `json:"stunBig" mapstructure:"stunBig"`
	TurnSeconds int         `json:"turnSeconds" mapstructure:"turnSeconds"`
}
