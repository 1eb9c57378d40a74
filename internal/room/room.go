package room

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"sweeper-royale/internal/game"
)

// Player is a connected room member. Identity is the transport connection id.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Room owns one game session, its mode handler and the connected players.
// Every inbound action and timer firing for the room runs under mu, so
// session mutation is never concurrent with itself.
type Room struct {
	mu  sync.Mutex
	bus Bus

	ID     string
	HostID string

	players       []Player // join order, host first
	participants  []string // frozen at round start
	pendingOption *game.Options

	session *game.Session
	handler modeHandler

	turnPlayer string
	lockouts   map[string]time.Time

	timer *time.Timer
	// generation distinguishes successive rounds; timerSeq distinguishes
	// successive timers within one round. A firing callback whose captured
	// pair no longer matches is stale and must no-op.
	generation uint64
	timerSeq   uint64
}

func newRoom(bus Bus, id, hostID, hostName string, initial *game.Session, pending *game.Options) *Room {
	return &Room{
		bus:           bus,
		ID:            id,
		HostID:        hostID,
		players:       []Player{{ID: hostID, Name: hostName}},
		pendingOption: pending,
		session:       initial,
		lockouts:      map[string]time.Time{},
	}
}

// --- broadcast helpers ---

func (r *Room) emit(event string, data interface{}) {
	r.bus.Broadcast(r.ID, event, data)
}

func (r *Room) emitError(playerID string, err error) {
	r.bus.Unicast(playerID, "error", gin.H{"message": err.Error()})
}

func (r *Room) emitTimerReset(remaining int) {
	r.emit("timer:reset", gin.H{"remaining": remaining})
}

func (r *Room) emitTurnUpdate() {
	r.emit("turn:update", gin.H{"turnPlayer": r.turnValue()})
}

func (r *Room) turnValue() interface{} {
	if r.turnPlayer == "" {
		return nil
	}
	return r.turnPlayer
}

func (r *Room) statePayload(started bool) gin.H {
	g := r.session
	return gin.H{
		"seed":        g.Seed,
		"width":       g.Width,
		"height":      g.Height,
		"mines":       g.Mines,
		"started":     started,
		"turnPlayer":  r.turnValue(),
		"mode":        g.Mode,
		"stunSmall":   g.StunSmall,
		"stunBig":     g.StunBig,
		"turnSeconds": g.TurnSeconds,
	}
}

func (r *Room) broadcastGameState(started bool) {
	r.emit("game:state", r.statePayload(started))
}

func (r *Room) broadcastScore() {
	g := r.session
	r.emit("score:update", gin.H{
		"scores":      g.Scores,
		"victoryInfo": game.VictoryInfo(g.Scores, g.Mines),
		"minesLeft":   g.MinesLeft(),
	})
}

// --- membership ---

func (r *Room) hasPlayer(id string) bool {
	for _, p := range r.players {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (r *Room) playerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

func (r *Room) participantIndex(id string) int {
	for i, p := range r.participants {
		if p == id {
			return i
		}
	}
	return -1
}

// Join adds the player to the roster and resyncs them: roster and state go
// to the whole room, while the pending options, the tile replay, current
// scores and the final outcome (if the round already ended) go to the
// joiner alone. Mid-round joiners stay off the participants list until the
// next start.
func (r *Room) Join(playerID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.hasPlayer(playerID) {
		r.players = append(r.players, Player{ID: playerID, Name: name})
	}

	canParticipate := !r.session.Started
	roster := make([]gin.H, 0, len(r.players))
	for idx, p := range r.players {
		roster = append(roster, gin.H{"id": p.ID, "name": p.Name, "idx": idx})
	}
	r.emit("room:joined", gin.H{
		"roomId":         r.ID,
		"players":        roster,
		"hostId":         r.HostID,
		"canParticipate": canParticipate,
	})
	r.broadcastGameState(r.session.Started)

	if r.pendingOption != nil {
		r.bus.Unicast(playerID, "option:update", r.pendingOption)
	}
	for _, t := range r.session.RevealedLog {
		r.bus.Unicast(playerID, "tile:update", t)
	}
	if len(r.session.Scores) > 0 {
		r.bus.Unicast(playerID, "score:update", gin.H{"scores": r.session.Scores})
	}
	if r.session.Over {
		r.bus.Unicast(playerID, "game:over", gin.H{
			"winner": r.session.Winner,
			"reason": r.session.OverReason,
		})
	}
}

// UpdateOption stores the pending settings and relays them to the room.
// Host checks happen in the registry.
func (r *Room) UpdateOption(opt game.Options) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingOption = &opt
	r.emit("option:update", &opt)
}

// Options reports the live session's settings for restart merging.
func (r *Room) Options() game.Options {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.Options()
}

// Start replaces the session and handler with a fresh round: participants
// are frozen from the current roster, the full state is broadcast, then the
// mode handler announces its own turn or timer reset. Restarting mid-round
// simply discards the previous round.
func (r *Room) Start(cfg game.Options, seed uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.generation++
	r.clearTurnTimer()

	r.session = game.NewSession(cfg, seed)
	r.pendingOption = &cfg
	r.lockouts = map[string]time.Time{}

	r.participants = make([]string, 0, len(r.players))
	for _, p := range r.players {
		r.participants = append(r.participants, p.ID)
	}

	if cfg.Mode == game.ModeTurn {
		r.handler = &turnHandler{room: r}
		r.turnPlayer = r.HostID
	} else {
		r.handler = &realtimeHandler{room: r}
		r.turnPlayer = ""
	}

	r.session.Started = true
	r.session.Over = false

	r.broadcastGameState(true)
	r.handler.start()
}

// Stop aborts the round without scoring it.
func (r *Room) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.generation++
	r.clearTurnTimer()
	if r.handler != nil {
		r.handler.stop()
	}
	r.session.Started = false
	r.session.Over = false
	r.turnPlayer = ""
	r.broadcastGameState(false)
}

// Reveal runs the shared pipeline: round gate, participant gate, mode
// admission, core reveal, then tile -> score -> termination broadcasts in
// that order, and finally the mode's post effect unless the round just
// ended. Errors go back to the requester only.
func (r *Room) Reveal(playerID string, x, y int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g := r.session
	if r.handler == nil || !g.Started || g.Over {
		r.emitError(playerID, ErrRoundInactive)
		return
	}
	if r.participantIndex(playerID) < 0 {
		r.emitError(playerID, ErrNotParticipant)
		return
	}
	if err := r.handler.admit(playerID); err != nil {
		if locked, ok := err.(*LockedError); ok {
			r.bus.Unicast(playerID, "stun:active", gin.H{"remaining": locked.Remaining})
		} else {
			r.emitError(playerID, err)
		}
		return
	}
	if !g.InBounds(x, y) {
		r.emitError(playerID, ErrOutOfBounds)
		return
	}

	updates, hitMine, err := g.Reveal(playerID, x, y)
	if err != nil {
		r.emitError(playerID, err)
		return
	}

	for _, u := range updates {
		r.emit("tile:update", u)
	}
	r.broadcastScore()

	if out := game.CheckOver(g.Scores, g.Mines); out.Over {
		r.endGame(out.Winner, out.Reason)
		return
	}

	r.handler.afterReveal(playerID, hitMine, len(updates))
}

// Leave removes the player; a leaver holding the turn force-passes it. The
// second return reports an empty room so the registry can reclaim it.
func (r *Room) Leave(playerID string) (removed, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, p := range r.players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, false
	}
	r.players = append(r.players[:idx], r.players[idx+1:]...)

	if pi := r.participantIndex(playerID); pi >= 0 {
		r.participants = append(r.participants[:pi], r.participants[pi+1:]...)
	}

	if r.handler != nil && r.session.Started && !r.session.Over {
		r.handler.playerLeft(playerID)
	}

	if len(r.players) == 0 {
		r.generation++
		r.clearTurnTimer()
		return true, true
	}
	r.emit("error", gin.H{"message": "Opponent left"})
	return true, false
}

// --- turn timer (TURN mode only) ---

func (r *Room) clearTurnTimer() {
	r.timerSeq++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Room) startTurnTimer(seconds int) {
	if r.session.Mode != game.ModeTurn {
		return
	}
	r.clearTurnTimer()
	r.emitTimerReset(seconds)
	gen, seq := r.generation, r.timerSeq
	r.timer = time.AfterFunc(time.Duration(seconds)*time.Second, func() {
		r.turnTimeout(gen, seq)
	})
}

// turnTimeout is the deferred expiry callback. A stale generation or timer
// sequence means the round was restarted, stopped or re-timed after this
// timer was armed.
func (r *Room) turnTimeout(gen, seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation || seq != r.timerSeq {
		return
	}
	if !r.session.Started || r.session.Over {
		return
	}
	r.passTurn()
}

// passTurn rotates to the next participant; a turn holder missing from the
// list (just left) resolves to index -1 so the next holder is index 0.
func (r *Room) passTurn() {
	if r.session.Mode != game.ModeTurn || len(r.participants) == 0 {
		return
	}
	cur := r.participantIndex(r.turnPlayer)
	r.turnPlayer = r.participants[(cur+1)%len(r.participants)]
	r.emitTurnUpdate()
	r.startTurnTimer(r.session.TurnSeconds)
}

func (r *Room) endGame(winner *string, reason string) {
	r.generation++
	r.clearTurnTimer()
	g := r.session
	g.Over = true
	g.Started = false
	g.Winner = winner
	g.OverReason = reason
	r.emit("game:over", gin.H{"winner": winner, "reason": reason})
}

// Summary is the debug endpoint's view of a room.
type Summary struct {
	RoomID  string `json:"roomId"`
	Players int    `json:"players"`
	Started bool   `json:"started"`
	Over    bool   `json:"over"`
	Mode    string `json:"mode"`
}

func (r *Room) Snapshot() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Summary{
		RoomID:  r.ID,
		Players: len(r.players),
		Started: r.session.Started,
		Over:    r.session.Over,
		Mode:    string(r.session.Mode),
	}
}
