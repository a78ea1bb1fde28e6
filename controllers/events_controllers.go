package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dinetap/dinetap/events"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventsHandler -> WebSocket endpoint for a tenant's dashboard. The auth
// middleware has already put admin_uid into the context; the connection only
// ever receives that tenant's events.
func EventsHandler(c *gin.Context) {
	adminUID := c.GetString("admin_uid")
	if adminUID == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	events.RegisterClient(ws, adminUID)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	events.UnregisterClient(ws)
}
