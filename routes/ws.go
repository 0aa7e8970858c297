package routes

import (
	"github.com/gin-gonic/gin"

	"gas-complaint-server/middleware"
	ws "gas-complaint-server/websocket"
)

// RegisterWebSocketRoutes registers the complaint event stream endpoint.
// The route group must run WebSocketAuthMiddleware first.
func RegisterWebSocketRoutes(rg *gin.RouterGroup, hub *ws.Hub) {
	rg.GET("/ws", func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			return
		}
		ws.ServeWebSocket(hub, c.Writer, c.Request, user.ID, string(user.Role))
	})
}
