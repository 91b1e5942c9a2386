package connectionhub

import (
	wsmodels "sabbatical-backend/models/ws"
	"testing"

	"github.com/gofiber/contrib/websocket"
	"github.com/stretchr/testify/require"
)

func TestHub(t *testing.T) {
	h := NewInstance().(*impl)
	first := &websocket.Conn{}
	second := &websocket.Conn{}

	h.AddClient("Jane@Example.org", first)
	h.AddClient("jane@example.org ", second)
	require.Len(t, h.clients, 1)
	require.Same(t, second, h.clients["jane@example.org"].conn)

	// a replaced connection closing must not drop the newer one
	h.DeleteClient("jane@example.org", first)
	require.Len(t, h.clients, 1)

	require.NotPanics(t, func() {
		for i := 0; i < sendBufferSize*4; i++ {
			h.SendMessage(wsmodels.ServerMessage{ToEmail: "JANE@example.org", Code: "submitted_confirmation"})
		}
		h.SendMessage(wsmodels.ServerMessage{ToEmail: "nobody@example.org"})
	})
	require.False(t, h.IsConnected("nobody@example.org"))

	h.DeleteClient("jane@example.org", second)
	require.Empty(t, h.clients)
}
