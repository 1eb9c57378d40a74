package http

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"sweeper-royale/internal/api/ws"
	"sweeper-royale/internal/config"
	"sweeper-royale/internal/room"
)

func SetupRouter(reg *room.Registry, hub *ws.Hub, cfg config.Config) *gin.Engine {
	r := gin.Default()

	// WebSocket: the only game-facing surface
	r.GET("/ws", hub.HandleWS)

	// --- OPS ENDPOINTS ---
	r.GET("/healthz", HealthHandler())
	r.GET("/rooms", RoomsHandler(reg))
	r.GET("/config/defaults", DefaultsHandler(cfg))

	// Static client, when bundled alongside the binary
	if st, err := os.Stat(cfg.Server.StaticDir); err == nil && st.IsDir() {
		r.Static("/app", cfg.Server.StaticDir)
		r.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/app")
		})
	}

	return r
}
