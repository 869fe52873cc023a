package server

import (
	"net/http"

	"github.com/Abhi-2104/Auralis/logger"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// EventsHandler upgrades to a websocket and streams catalog events until the
// client disconnects. The feed is one-way; inbound messages are discarded.
func (h *APIHandler) EventsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("[Events] Upgrade failed", logger.ErrorField(err))
		return
	}

	h.hub.Register(conn)
	defer func() {
		h.hub.Unregister(conn)
		conn.Close()
	}()

	// Block draining the connection; returning on read error is how we learn
	// the client went away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
