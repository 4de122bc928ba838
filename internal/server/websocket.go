package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/five82/video2gif/internal/processing"
)

const writeWait = 10 * time.Second

// handleEvents streams a job's events over a WebSocket: the backlog first,
// then live events. The socket is closed after the complete event.
func (s *Server) handleEvents(c *gin.Context) {
	job, ok := s.lookup(c)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "id", job.ID, "error", err)
		return
	}
	defer conn.Close()

	backlog, listenerID, live := job.subscribe()
	if live != nil {
		defer job.unsubscribe(listenerID)
	}

	// Drain client frames so close messages are seen.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for _, ev := range backlog {
		if err := writeEvent(conn, ev); err != nil {
			return
		}
	}

	if live != nil {
	stream:
		for {
			select {
			case ev, ok := <-live:
				if !ok {
					break stream
				}
				if err := writeEvent(conn, ev); err != nil {
					return
				}
			case <-gone:
				return
			}
		}
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "conversion complete"))
}

func writeEvent(conn *websocket.Conn, ev processing.Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(ev)
}
