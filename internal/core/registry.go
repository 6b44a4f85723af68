package core

import "sync"

// Member is the binding of one client to one room plus a display name.
type Member struct {
	Room     string
	Username string
}

// RoomInfo is a point-in-time view of one room for the query surface.
type RoomInfo struct {
	RoomID      string `json:"roomId"`
	MemberCount int    `json:"userCount"`
}

// Registry is the authoritative in-memory store of rooms and memberships.
// It keeps the active-room set and a per-client index in sync under one
// lock, so concurrent joins, sends, and disconnects observe consistent
// membership. Room existence is derived: a room lives from CreateRoom
// until its last member leaves.
type Registry struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	members map[*Client]Member
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:   make(map[string]map[*Client]struct{}),
		members: make(map[*Client]Member),
	}
}

// CreateRoom registers roomID and binds the client to it as its first
// member. Returns ErrRoomExists if the identifier is already taken.
func (r *Registry) CreateRoom(roomID string, c *Client, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[roomID]; exists {
		return ErrRoomExists
	}
	r.rooms[roomID] = make(map[*Client]struct{})
	r.bind(c, roomID, username)
	return nil
}

// JoinRoom binds the client to an existing room. Returns ErrRoomNotFound
// if no room with that identifier is active.
func (r *Registry) JoinRoom(roomID string, c *Client, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[roomID]; !exists {
		return ErrRoomNotFound
	}
	r.bind(c, roomID, username)
	return nil
}

// bind upserts the membership record for c. A client rebinding to a new
// room implicitly leaves its previous one; if that empties the old room,
// the old room is deleted. Callers must hold the write lock.
func (r *Registry) bind(c *Client, roomID, username string) {
	if prev, ok := r.members[c]; ok && prev.Room != roomID {
		r.removeFromRoom(c, prev.Room)
	}
	r.members[c] = Member{Room: roomID, Username: username}
	r.rooms[roomID][c] = struct{}{}
}

// removeFromRoom drops c from a room's member set and deletes the room
// once it has no members left. Callers must hold the write lock.
func (r *Registry) removeFromRoom(c *Client, roomID string) {
	set, ok := r.rooms[roomID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(r.rooms, roomID)
	}
}

// MemberOf resolves the room binding for a client. The second return is
// false if the client never created or joined a room.
func (r *Registry) MemberOf(c *Client) (Member, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.members[c]
	return m, ok
}

// RoomMembers returns the current members of a room, excluding one client
// if exclude is non-nil. The slice is a snapshot; membership may change
// as soon as the lock is released.
func (r *Registry) RoomMembers(roomID string, exclude *Client) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	out := make([]*Client, 0, len(set))
	for c := range set {
		if c == exclude {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Disconnect removes the client's membership record and deletes its room
// if the client was the last member. Returns the pre-removal binding so
// the caller can notify remaining members, or false if the client had no
// binding.
func (r *Registry) Disconnect(c *Client) (Member, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.members[c]
	if !ok {
		return Member{}, false
	}
	delete(r.members, c)
	r.removeFromRoom(c, m.Room)
	return m, true
}

// RoomExists reports whether a room identifier is currently active.
func (r *Registry) RoomExists(roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[roomID]
	return ok
}

// RoomMemberCount returns the number of members currently bound to a room,
// or zero if the room does not exist.
func (r *Registry) RoomMemberCount(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms[roomID])
}

// ListRooms returns a snapshot of all active rooms with member counts.
func (r *Registry) ListRooms() []RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RoomInfo, 0, len(r.rooms))
	for id, set := range r.rooms {
		out = append(out, RoomInfo{RoomID: id, MemberCount: len(set)})
	}
	return out
}
