package http

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StateStreamHandler pushes a StateView on connect and after every state change.
// Slow clients only ever see the latest state.
func (s *Server) StateStreamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already replied with an HTTP error.
			log.Warn("Failed to upgrade websocket connection", "error", err)
			return
		}
		defer conn.Close()

		updates, cancel := s.Machine.Subscribe()
		defer cancel()

		log.Info("State stream client connected", "remote", r.RemoteAddr, "request_id", requestIDFromContext(r))
		closed := make(chan struct{})
		go readPump(conn, closed)

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case state, ok := <-updates:
				if !ok {
					return
				}
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(s.stateView(state)); err != nil {
					log.Debug("State stream write failed", "error", err)
					return
				}
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-closed:
				log.Info("State stream client disconnected", "remote", r.RemoteAddr)
				return
			}
		}
	}
}

// readPump drains client frames so control messages are processed.
// It closes done when the connection goes away.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
