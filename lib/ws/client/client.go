package wsclient

import (
	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

func NewClient(email string, c *websocket.Conn) *WsClient {
	return &WsClient{
		conn:  c,
		email: email,
	}
}

type WsClient struct {
	conn  *websocket.Conn
	email string
}

var closeCodes []int

func init() {
	for i := websocket.CloseNormalClosure; i <= websocket.CloseTLSHandshake; i++ {
		closeCodes = append(closeCodes, i)
	}
}

// Dispatch reads until the peer goes away. Clients only listen, so inbound frames are ignored.
func (c *WsClient) Dispatch() {
	logger := log.WithField("email", c.email)
	for {
		if c.conn == nil {
			return
		}
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, closeCodes...) {
				logger.WithError(err).Error("failed to read ws message")
			}
			return
		}
		logger.WithField("size", len(data)).Debug("ws message ignored")
	}
}
