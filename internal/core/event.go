package core

import "time"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRoomCreated confirms to the creator that their room exists.
	EventRoomCreated EventKind = iota
	// EventRoomJoined confirms to a client that they entered a room.
	EventRoomJoined
	// EventUserJoined notifies room members about a new arrival.
	EventUserJoined
	// EventUserLeft notifies room members that someone disconnected.
	EventUserLeft
	// EventChatMessage carries a chat message to room members.
	EventChatMessage
	// EventError notifies a client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind      EventKind
	Room      string
	User      string
	Text      string
	Timestamp time.Time // set by the router for chat messages
	IsOwner   bool      // true on EventRoomCreated, false on EventRoomJoined
	Error     *CoreError
}
