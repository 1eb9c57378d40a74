package room

// Bus is the room-scoped event fan-out the core emits into. The websocket
// hub implements it in production; tests substitute a recorder.
type Bus interface {
	Subscribe(roomID, playerID string)
	Unsubscribe(roomID, playerID string)
	Broadcast(roomID, event string, data interface{})
	Unicast(playerID, event string, data interface{})
}
