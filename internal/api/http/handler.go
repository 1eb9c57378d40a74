package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sweeper-royale/internal/config"
	"sweeper-royale/internal/room"
)

// HealthHandler answers liveness probes.
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// RoomsHandler lists the live rooms; an ops/debug view, not a game surface.
func RoomsHandler(reg *room.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		rooms := reg.Snapshot()
		c.JSON(http.StatusOK, gin.H{"rooms": rooms, "count": len(rooms)})
	}
}

// DefaultsHandler exposes the server's default game options so the lobby UI
// can prefill its form before creating a room.
func DefaultsHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"width":       cfg.Game.Width,
			"height":      cfg.Game.Height,
			"mines":       cfg.Game.Mines,
			"mode":        cfg.Game.Mode,
			"stunSmall":   cfg.Game.StunSmall,
			"stunBig":     cfg.Game.StunBig,
			"turnSeconds": cfg.Game.TurnSeconds,
			"maxPlayers":  cfg.Game.MaxPlayers,
		})
	}
}
