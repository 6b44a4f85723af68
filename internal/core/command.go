package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandCreateRoom registers a new room and binds the client to it.
	CommandCreateRoom CommandKind = iota
	// CommandJoinRoom binds the client to an existing room.
	CommandJoinRoom
	// CommandChat delivers a chat message to the client's current room.
	CommandChat
)

// Command represents an action requested by a client.
type Command struct {
	Kind CommandKind
	Room string
	User string
	Text string
}
