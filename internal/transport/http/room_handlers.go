package http

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomrelay/roomrelay-server/internal/core"
)

// RoomHandlers provides the read-only room query endpoints. They observe
// registry state without mutating it; clients use them to probe a room
// before opening a WebSocket connection.
type RoomHandlers struct {
	registry *core.Registry
	log      *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(registry *core.Registry, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		registry: registry,
		log:      logger,
	}
}

// RoomExistsResponse answers a room existence probe.
type RoomExistsResponse struct {
	Exists    bool   `json:"exists"`
	RoomID    string `json:"roomId"`
	UserCount int    `json:"userCount"`
}

// RoomListResponse lists all active rooms.
type RoomListResponse struct {
	Rooms []core.RoomInfo `json:"rooms"`
}

// RoomExists handles an existence probe for one room.
// GET /rooms/:roomId/exists
func (h *RoomHandlers) RoomExists(c *gin.Context) {
	roomID := c.Param("roomId")

	exists := h.registry.RoomExists(roomID)
	count := 0
	if exists {
		count = h.registry.RoomMemberCount(roomID)
	}

	h.log.Debug().Str("room", roomID).Bool("exists", exists).Msg("room existence probe")
	c.JSON(http.StatusOK, RoomExistsResponse{
		Exists:    exists,
		RoomID:    roomID,
		UserCount: count,
	})
}

// ListRooms handles listing all active rooms with member counts.
// GET /rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	rooms := h.registry.ListRooms()
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].RoomID < rooms[j].RoomID })

	c.JSON(http.StatusOK, RoomListResponse{Rooms: rooms})
}
