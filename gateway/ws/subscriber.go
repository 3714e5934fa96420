package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// maxInbound bounds client->server frames; subscribers only listen.
	maxInbound = 512
)

// subscriber is one connected WebSocket client with a bounded outbound queue.
type subscriber struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// mu guards send against closure: enqueue holds it across the channel
	// send, and close flips closed under it before closing the channel, so a
	// broadcast can never race a disconnecting subscriber onto a closed
	// channel.
	mu     sync.Mutex
	closed bool
	drops  int
}

// enqueue queues data without blocking. A full queue drops the message; too
// many consecutive drops disconnect the subscriber. Safe to call concurrently
// with close; enqueue after close is a no-op.
func (s *subscriber) enqueue(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	select {
	case s.send <- data:
		s.drops = 0
	default:
		s.drops++
		if s.drops == 1 || s.drops == maxConsecutiveDrops {
			s.hub.logger.Warn("websocket subscriber lagging, dropping delta",
				"id", s.id, "consecutiveDrops", s.drops)
		}
		if s.drops >= maxConsecutiveDrops {
			s.closeLocked()
		}
	}
}

// close shuts the outbound queue exactly once; the write pump finishes the
// connection teardown.
func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *subscriber) closeLocked() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}

// writePump drains the send queue to the connection and keeps it alive with
// pings. Owns all writes.
func (s *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
		s.hub.remove(s.id)
	}()

	for {
		select {
		case data, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump consumes and discards inbound frames so control messages are
// processed; any read error ends the subscription.
func (s *subscriber) readPump() {
	defer s.close()

	s.conn.SetReadLimit(maxInbound)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}
