package events

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func WSHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		if err := hub.JoinWS(ws); err != nil {
			hub.logger.Debug("ws welcome failed", zap.Error(err))
			_ = ws.Close()
			return
		}
		hub.logger.Debug("ws listener connected", zap.String("remote", c.ClientIP()))

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.RemoveWS(ws)
		hub.logger.Debug("ws listener disconnected", zap.String("remote", c.ClientIP()))
	}
}
