package room

import (
	"errors"
	"fmt"
)

// Admission and state errors surfaced to the requesting client only. The
// messages are part of the client protocol.
var (
	ErrRoomNotFound   = errors.New("Room not found")
	ErrRoomFull       = errors.New("Room full")
	ErrRoundInactive  = errors.New("Not started or already over")
	ErrNotParticipant = errors.New("Game already started. You can't participate in this round.")
	ErrNotYourTurn    = errors.New("Not your turn")
	ErrOutOfBounds    = errors.New("Tile out of bounds")
)

// LockedError rejects a realtime reveal while the player's lockout is still
// running. It is answered with a private stun:active, never broadcast.
type LockedError struct {
	Remaining int // whole seconds, rounded up
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("locked out for %ds", e.Remaining)
}
