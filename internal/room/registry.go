package room

import (
	"log/slog"
	"math/rand"
	"sync"

	"github.com/gin-gonic/gin"

	"sweeper-royale/internal/config"
	"sweeper-royale/internal/game"
)

// Store keeps the live rooms. The in-memory implementation lives in
// internal/store.
type Store interface {
	GetRoom(id string) (*Room, bool)
	SaveRoom(r *Room)
	DeleteRoom(id string)
	Rooms() []*Room
}

// StartOptions are the per-field overrides a host may send with game:start
// or room:create. Nil fields inherit the previous round's value; MinesRange
// is never inherited and must be re-sent each round.
type StartOptions struct {
	Width       *int             `json:"width"`
	Height      *int             `json:"height"`
	Mines       *int             `json:"mines"`
	MinesRange  *game.MinesRange `json:"minesRange"`
	Mode        *game.Mode       `json:"mode"`
	StunSmall   *int             `json:"stunSmall"`
	StunBig     *int             `json:"stunBig"`
	TurnSeconds *int             `json:"turnSeconds"`
}

// CreateOptions is the room:create payload.
type CreateOptions struct {
	Name string `json:"name"`
	StartOptions
}

// JoinOptions is the room:join payload.
type JoinOptions struct {
	RoomID string `json:"roomId"`
	Name   string `json:"name"`
}

// Registry maps room ids to rooms and routes every inbound player action to
// the right one. Rooms are reclaimed as soon as their last player leaves.
type Registry struct {
	mu       sync.Mutex
	store    Store
	cfg      config.Config
	bus      Bus
	byPlayer map[string]string // player id -> room id
}

func NewRegistry(s Store, cfg config.Config, bus Bus) *Registry {
	return &Registry{
		store:    s,
		cfg:      cfg,
		bus:      bus,
		byPlayer: map[string]string{},
	}
}

func (reg *Registry) defaults() game.Options {
	return game.Options{
		Width:       reg.cfg.Game.Width,
		Height:      reg.cfg.Game.Height,
		Mines:       reg.cfg.Game.Mines,
		Mode:        game.Mode(reg.cfg.Game.Mode),
		StunSmall:   reg.cfg.Game.StunSmall,
		StunBig:     reg.cfg.Game.StunBig,
		TurnSeconds: reg.cfg.Game.TurnSeconds,
	}
}

// merge lays non-nil overrides on top of the base options. MinesRange comes
// only from the overrides; when present it redraws the mine count.
func merge(base game.Options, ov StartOptions) game.Options {
	out := base
	if ov.Width != nil {
		out.Width = *ov.Width
	}
	if ov.Height != nil {
		out.Height = *ov.Height
	}
	if ov.Mines != nil {
		out.Mines = *ov.Mines
	}
	if ov.Mode != nil {
		out.Mode = *ov.Mode
	}
	if ov.StunSmall != nil {
		out.StunSmall = *ov.StunSmall
	}
	if ov.StunBig != nil {
		out.StunBig = *ov.StunBig
	}
	if ov.TurnSeconds != nil {
		out.TurnSeconds = *ov.TurnSeconds
	}
	out.MinesRange = ov.MinesRange
	if out.MinesRange != nil {
		out.Mines = pickOddRand(out.MinesRange.Min, out.MinesRange.Max)
	}
	return clampOptions(out)
}

// clampOptions forces client-supplied settings into playable ranges. Clients
// are not trusted: a hostile mine count must degrade, not break the round.
func clampOptions(o game.Options) game.Options {
	if o.Width < 1 {
		o.Width = 1
	}
	if o.Height < 1 {
		o.Height = 1
	}
	if o.Mines < 1 {
		o.Mines = 1
	}
	if cells := o.Width * o.Height; o.Mines > cells {
		o.Mines = cells
	}
	if o.StunSmall < 1 {
		o.StunSmall = 1
	}
	if o.StunBig < 1 {
		o.StunBig = 1
	}
	if o.TurnSeconds < 1 {
		o.TurnSeconds = 1
	}
	return o
}

// CreateRoom opens a new room with the caller as host and answers with a
// private room:created.
func (reg *Registry) CreateRoom(playerID string, opts CreateOptions) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	name := opts.Name
	if name == "" {
		name = "P1"
	}

	// Opening a room is also leaving the current one; otherwise the old
	// room never empties and leaks.
	if prev, ok := reg.byPlayer[playerID]; ok {
		reg.detach(playerID, prev)
	}

	cfg := merge(reg.defaults(), opts.StartOptions)
	pending := cfg
	if pending.MinesRange == nil {
		pending.MinesRange = &game.MinesRange{Min: cfg.Mines, Max: cfg.Mines}
	}

	roomID := randCode(6)
	session := game.NewSession(cfg, newSeed())
	r := newRoom(reg.bus, roomID, playerID, name, session, &pending)

	reg.store.SaveRoom(r)
	reg.byPlayer[playerID] = roomID
	reg.bus.Subscribe(roomID, playerID)
	reg.bus.Unicast(playerID, "room:created", gin.H{"roomId": roomID})

	slog.Info("room created", "room", roomID, "host", playerID, "mode", cfg.Mode)
}

// JoinRoom adds the player to a room, detaching them from any room they were
// in before (and reclaiming that one if it ends up empty).
func (reg *Registry) JoinRoom(playerID string, opts JoinOptions) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.store.GetRoom(opts.RoomID)
	if !ok {
		reg.bus.Unicast(playerID, "error", gin.H{"message": ErrRoomNotFound.Error()})
		return
	}
	if r.playerCount() >= reg.cfg.Game.MaxPlayers {
		reg.bus.Unicast(playerID, "error", gin.H{"message": ErrRoomFull.Error()})
		return
	}

	if prev, ok := reg.byPlayer[playerID]; ok && prev != opts.RoomID {
		reg.detach(playerID, prev)
	}

	name := opts.Name
	if name == "" {
		name = "P2"
	}
	reg.byPlayer[playerID] = opts.RoomID
	reg.bus.Subscribe(opts.RoomID, playerID)
	r.Join(playerID, name)
}

// UpdateOption relays pending settings to the room. Non-host requests are
// dropped without a reply, they only come from stale clients.
func (reg *Registry) UpdateOption(playerID string, opt game.Options) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r := reg.roomOf(playerID)
	if r == nil || r.HostID != playerID {
		return
	}
	r.UpdateOption(opt)
}

// StartGame merges the overrides over the previous round's settings and
// starts a fresh session. Host only; silently ignored otherwise.
func (reg *Registry) StartGame(playerID string, ov StartOptions) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r := reg.roomOf(playerID)
	if r == nil || r.HostID != playerID {
		return
	}
	cfg := merge(r.Options(), ov)
	r.Start(cfg, newSeed())
}

// StopGame aborts the current round. Host only; silently ignored otherwise.
func (reg *Registry) StopGame(playerID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r := reg.roomOf(playerID)
	if r == nil || r.HostID != playerID {
		return
	}
	r.Stop()
}

// Reveal routes a tile click to the player's room.
func (reg *Registry) Reveal(playerID string, x, y int) {
	reg.mu.Lock()
	r := reg.roomOf(playerID)
	reg.mu.Unlock()
	if r == nil {
		return
	}
	r.Reveal(playerID, x, y)
}

// Disconnect treats a dropped connection as a leave.
func (reg *Registry) Disconnect(playerID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	roomID, ok := reg.byPlayer[playerID]
	if !ok {
		return
	}
	reg.detach(playerID, roomID)
}

// Snapshot lists the live rooms for the debug endpoint.
func (reg *Registry) Snapshot() []Summary {
	reg.mu.Lock()
	rooms := reg.store.Rooms()
	reg.mu.Unlock()

	out := make([]Summary, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Snapshot())
	}
	return out
}

func (reg *Registry) roomOf(playerID string) *Room {
	roomID, ok := reg.byPlayer[playerID]
	if !ok {
		return nil
	}
	r, ok := reg.store.GetRoom(roomID)
	if !ok {
		return nil
	}
	return r
}

// detach removes the player from a room and reclaims the room when it ends
// up empty. Callers hold reg.mu.
func (reg *Registry) detach(playerID, roomID string) {
	delete(reg.byPlayer, playerID)
	reg.bus.Unsubscribe(roomID, playerID)
	r, ok := reg.store.GetRoom(roomID)
	if !ok {
		return
	}
	if _, empty := r.Leave(playerID); empty {
		reg.store.DeleteRoom(roomID)
		slog.Info("room reclaimed", "room", roomID)
	}
}

const letters = "abcdefghijklmnopqrstuvwxyz0123456789"

func randCode(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

func newSeed() uint32 {
	return uint32(rand.Int31())
}

// pickOddRand draws uniformly from [min, max] and nudges the draw to the
// nearest odd value still inside the range; inverted ends are swapped and a
// range holding no odd value keeps the even draw. Odd counts keep ties rare.
func pickOddRand(min, max int) int {
	if max < min {
		min, max = max, min
	}
	n := rand.Intn(max-min+1) + min
	if n%2 == 0 {
		switch {
		case n+1 <= max:
			n++
		case n-1 >= min:
			n--
		}
	}
	return n
}
