package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

const (
	InboundTypeCreate = "create"
	InboundTypeJoin   = "join"
	InboundTypeChat   = "chat"

	OutboundTypeRoomCreated = "room_created"
	OutboundTypeRoomJoined  = "room_joined"
	OutboundTypeUserJoined  = "user_joined"
	OutboundTypeUserLeft    = "user_left"
	OutboundTypeChatMessage = "chat_message"
	OutboundTypeError       = "error"
)

// CreatePayload requests a new room. The same shape serves join requests.
type CreatePayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

// JoinPayload requests entry into an existing room.
type JoinPayload = CreatePayload

// ChatPayload is a chat message from the client to its current room.
type ChatPayload struct {
	Message string `json:"message"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// RoomStatusPayload confirms a create or join to the requesting client.
type RoomStatusPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
	Message  string `json:"message"`
	IsOwner  bool   `json:"isOwner"`
}

// PresencePayload notifies room members that a user joined or left.
type PresencePayload struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// ChatMessagePayload carries a chat message to room members. Timestamp
// is RFC 3339, assigned server-side when the message is routed.
type ChatMessagePayload struct {
	Username  string `json:"username"`
	Message   string `json:"message"`
	RoomID    string `json:"roomId"`
	Timestamp string `json:"timestamp"`
}

// ErrorPayload describes a rejected request.
type ErrorPayload struct {
	Message string `json:"message"`
}
