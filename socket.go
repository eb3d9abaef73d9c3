package main

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	uuid "github.com/satori/go.uuid"
)

const socketWriteWait = 5 * time.Second

// SocketSub is a subscription to a socket.
type SocketSub struct {
	GameID uuid.UUID       `json:"gameID"`
	Conn   *websocket.Conn `json:"-"`
}

// subscriptions fans game updates out to websocket clients.
type subscriptions struct {
	mu   sync.Mutex
	subs []SocketSub
}

func (s *subscriptions) add(sub SocketSub) {
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
}

// remove forgets every subscription on conn.
func (s *subscriptions) remove(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.subs[:0]
	for _, sub := range s.subs {
		if sub.Conn != conn {
			kept = append(kept, sub)
		}
	}
	s.subs = kept
}

func (s *subscriptions) count(gameID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sub := range s.subs {
		if uuid.Equal(sub.GameID, gameID) {
			n++
		}
	}
	return n
}

func (s *subscriptions) of(gameID uuid.UUID) []SocketSub {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []SocketSub
	for _, sub := range s.subs {
		if uuid.Equal(sub.GameID, gameID) {
			out = append(out, sub)
		}
	}
	return out
}

// broadcast sends v to every subscriber of gameID and drops the ones whose
// connection failed. Writes happen outside the lock, each bounded by
// socketWriteWait; callers must not broadcast concurrently.
func (s *subscriptions) broadcast(gameID uuid.UUID, v interface{}) int {
	sent := 0
	for _, sub := range s.of(gameID) {
		sub.Conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
		if err := sub.Conn.WriteJSON(v); err != nil {
			logWarn("Dropping subscriber for %s: %v", gameID, err)
			sub.Conn.Close()
			s.remove(sub.Conn)
			continue
		}
		sent++
	}
	return sent
}

// watch reads from conn until the client goes away, then unsubscribes it.
// Clients never send anything the server acts on.
func (s *subscriptions) watch(conn *websocket.Conn) {
	for {
		if _, _, err := conn.NextReader(); err != nil {
			s.remove(conn)
			conn.Close()
			return
		}
	}
}

func (s *subscriptions) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		sub.Conn.Close()
	}
	s.subs = nil
}
