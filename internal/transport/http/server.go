package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomrelay/roomrelay-server/internal/config"
	"github.com/roomrelay/roomrelay-server/internal/core"
)

// NewServer builds the HTTP server: WebSocket relay endpoint plus the
// read-only room query surface.
func NewServer(router *core.Router, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(LoggerMiddleware(logger), gin.Recovery())

	engine.GET("/health", healthHandler)
	engine.GET("/ws", gin.WrapH(NewWSHandler(router, cfg, logger)))

	roomHandlers := NewRoomHandlers(router.Registry(), logger)
	engine.GET("/rooms", roomHandlers.ListRooms)
	engine.GET("/rooms/:roomId/exists", roomHandlers.RoomExists)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
