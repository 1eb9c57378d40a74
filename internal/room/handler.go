package room

import (
	"math"
	"time"

	"github.com/gin-gonic/gin"
)

// floodStunThreshold separates a small reveal from a big one in realtime
// mode: cascades opening more than this many tiles earn the long lockout.
const floodStunThreshold = 10

// modeHandler is the closed set of scheduling disciplines. Each instance is
// scoped to exactly one started round and discarded on stop or restart. All
// methods run with the room lock held.
type modeHandler interface {
	start()
	admit(playerID string) error
	afterReveal(playerID string, hitMine bool, updateCount int)
	stop()
	playerLeft(playerID string)
}

// turnHandler enforces strict rotation: only the turn holder may reveal, a
// safe reveal passes the turn, a mine keeps it but restarts the countdown.
type turnHandler struct {
	room *Room
}

func (h *turnHandler) start() {
	r := h.room
	r.emitTurnUpdate()
	r.startTurnTimer(r.session.TurnSeconds)
}

func (h *turnHandler) admit(playerID string) error {
	if h.room.turnPlayer != playerID {
		return ErrNotYourTurn
	}
	return nil
}

func (h *turnHandler) afterReveal(_ string, hitMine bool, _ int) {
	r := h.room
	if hitMine {
		// Wrong guess: same player keeps the turn against a fresh countdown.
		r.startTurnTimer(r.session.TurnSeconds)
		return
	}
	r.passTurn()
}

func (h *turnHandler) stop() {
	h.room.clearTurnTimer()
}

func (h *turnHandler) playerLeft(playerID string) {
	if h.room.turnPlayer == playerID {
		h.room.passTurn()
	}
}

// realtimeHandler lets every participant reveal at any time, rate-limiting
// successful reveals with a per-player lockout instead of a shared turn.
type realtimeHandler struct {
	room *Room
}

func (h *realtimeHandler) start() {
	// No shared countdown in this mode; the zero reset only keeps client
	// timer widgets in sync.
	h.room.emitTimerReset(0)
}

func (h *realtimeHandler) admit(playerID string) error {
	until, ok := h.room.lockouts[playerID]
	if !ok {
		return nil
	}
	now := time.Now()
	if now.Before(until) {
		return &LockedError{Remaining: int(math.Ceil(until.Sub(now).Seconds()))}
	}
	return nil
}

func (h *realtimeHandler) afterReveal(playerID string, hitMine bool, updateCount int) {
	if hitMine {
		// Mine finds are the scoring resource; only safe sweeps are
		// rate-limited.
		return
	}
	r := h.room
	stun := r.session.StunSmall
	if updateCount > floodStunThreshold {
		stun = r.session.StunBig
	}
	r.lockouts[playerID] = time.Now().Add(time.Duration(stun) * time.Second)
	r.bus.Unicast(playerID, "stun:start", gin.H{"duration": stun})
	r.emit("stun:state", gin.H{"playerId": playerID, "duration": stun})
}

func (h *realtimeHandler) stop() {}

func (h *realtimeHandler) playerLeft(playerID string) {
	delete(h.room.lockouts, playerID)
}
