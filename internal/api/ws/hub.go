package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"sweeper-royale/internal/game"
	"sweeper-royale/internal/room"
)

// Handler is what the hub needs from the room registry: one method per
// inbound event. The connection id doubles as the player id.
type Handler interface {
	CreateRoom(playerID string, opts room.CreateOptions)
	JoinRoom(playerID string, opts room.JoinOptions)
	UpdateOption(playerID string, opt game.Options)
	StartGame(playerID string, ov room.StartOptions)
	StopGame(playerID string)
	Reveal(playerID string, x, y int)
	Disconnect(playerID string)
}

// envelope is the wire frame in both directions.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outEnvelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex // one writer at a time per gorilla's contract
}

func (c *client) send(event string, data interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(outEnvelope{Event: event, Data: data})
}

// Hub owns the websocket connections and the room membership used for
// fan-out. It implements room.Bus.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	rooms   map[string]map[string]struct{} // room id -> connection ids
	handler Handler
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*client),
		rooms:   make(map[string]map[string]struct{}),
	}
}

// SetHandler wires the registry in after construction; hub and registry
// reference each other, so one side has to be bound late.
func (h *Hub) SetHandler(handler Handler) {
	h.handler = handler
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

// HandleWS upgrades the connection, assigns it an id and pumps inbound
// events into the registry until the peer goes away.
func (h *Hub) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	cl := &client{id: uuid.NewString(), conn: conn}
	h.mu.Lock()
	h.clients[cl.id] = cl
	h.mu.Unlock()

	slog.Info("client connected", "conn", cl.id)

	// The client needs its own id to recognise turn and stun events
	// addressed to it.
	_ = cl.send("session:welcome", gin.H{"id": cl.id})

	defer func() {
		h.handler.Disconnect(cl.id)
		h.drop(cl.id)
		_ = conn.Close()
		slog.Info("client disconnected", "conn", cl.id)
	}()

	for {
		var msg envelope
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		h.dispatch(cl, msg)
	}
}

func (h *Hub) dispatch(cl *client, msg envelope) {
	switch msg.Event {
	case "room:create":
		var opts room.CreateOptions
		if !h.decode(cl, msg.Data, &opts) {
			return
		}
		h.handler.CreateRoom(cl.id, opts)
	case "room:join":
		var opts room.JoinOptions
		if !h.decode(cl, msg.Data, &opts) {
			return
		}
		h.handler.JoinRoom(cl.id, opts)
	case "option:update":
		var opt game.Options
		if !h.decode(cl, msg.Data, &opt) {
			return
		}
		h.handler.UpdateOption(cl.id, opt)
	case "game:start":
		var ov room.StartOptions
		if !h.decode(cl, msg.Data, &ov) {
			return
		}
		h.handler.StartGame(cl.id, ov)
	case "game:stop":
		h.handler.StopGame(cl.id)
	case "tile:reveal":
		var click struct {
			X int `json:"x"`
			Y int `json:"y"`
		}
		if !h.decode(cl, msg.Data, &click) {
			return
		}
		h.handler.Reveal(cl.id, click.X, click.Y)
	default:
		slog.Warn("unknown event", "conn", cl.id, "event", msg.Event)
	}
}

func (h *Hub) decode(cl *client, raw json.RawMessage, v interface{}) bool {
	if len(raw) == 0 {
		return true // missing payload means all defaults
	}
	if err := json.Unmarshal(raw, v); err != nil {
		slog.Warn("bad payload", "conn", cl.id, "error", err)
		_ = cl.send("error", gin.H{"message": "invalid payload"})
		return false
	}
	return true
}

// drop forgets a connection everywhere.
func (h *Hub) drop(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, connID)
	for _, members := range h.rooms {
		delete(members, connID)
	}
}

// --- room.Bus ---

func (h *Hub) Subscribe(roomID, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[string]struct{})
	}
	h.rooms[roomID][playerID] = struct{}{}
}

func (h *Hub) Unsubscribe(roomID, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[roomID]; ok {
		delete(members, playerID)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

func (h *Hub) Broadcast(roomID, event string, data interface{}) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.rooms[roomID]))
	for id := range h.rooms[roomID] {
		if cl, ok := h.clients[id]; ok {
			targets = append(targets, cl)
		}
	}
	h.mu.RUnlock()

	for _, cl := range targets {
		if err := cl.send(event, data); err != nil {
			slog.Warn("broadcast write failed", "conn", cl.id, "event", event, "error", err)
		}
	}
}

func (h *Hub) Unicast(playerID, event string, data interface{}) {
	h.mu.RLock()
	cl, ok := h.clients[playerID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if err := cl.send(event, data); err != nil {
		slog.Warn("unicast write failed", "conn", playerID, "event", event, "error", err)
	}
}
