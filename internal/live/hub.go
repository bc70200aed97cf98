// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package live pushes store revisions to open pages over websockets so
// public pages refresh after an admin change.
package live

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"cyberfolio/internal/store"
)

const (
	// DefaultBuffer is how many messages a client may fall behind by
	// before it is disconnected.
	DefaultBuffer = 16

	// DefaultWriteTimeout bounds a single message write.
	DefaultWriteTimeout = 5 * time.Second

	// KindHello is sent once on connect with the current revision.
	KindHello store.EventKind = "hello"
)

// Message is the JSON frame sent to browsers.
type Message struct {
	Revision  uint64          `json:"revision"`
	Kind      store.EventKind `json:"kind"`
	ArticleID string          `json:"articleId,omitempty"`
}

type subscriber struct {
	msgs      chan Message
	closeSlow func()
}

// Hub fans store events out to connected websocket clients.
type Hub struct {
	cs           *store.ContentStore
	buffer       int
	writeTimeout time.Duration

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}

	unsubscribe func()
	done        chan struct{}
	closeOnce   sync.Once
}

// NewHub creates a hub subscribed to cs. buffer <= 0 selects DefaultBuffer.
// Call Close on shutdown.
func NewHub(cs *store.ContentStore, buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	h := &Hub{
		cs:           cs,
		buffer:       buffer,
		writeTimeout: DefaultWriteTimeout,
		subscribers:  make(map[*subscriber]struct{}),
		done:         make(chan struct{}),
	}
	h.unsubscribe = cs.Subscribe(func(e store.Event) {
		h.Publish(Message{Revision: e.Revision, Kind: e.Kind, ArticleID: e.ArticleID})
	})
	return h
}

// ServeHTTP upgrades the request and streams messages until the client
// goes away or the hub closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "")

	// Clients never send; CloseRead handles control frames and cancels
	// ctx when the peer disconnects.
	ctx := c.CloseRead(r.Context())

	s := &subscriber{
		msgs: make(chan Message, h.buffer),
		closeSlow: func() {
			c.Close(websocket.StatusPolicyViolation, "connection too slow to keep up with messages")
		},
	}
	h.add(s)
	defer h.remove(s)

	if err := h.write(ctx, c, Message{Revision: h.cs.Revision(), Kind: KindHello}); err != nil {
		return
	}

	for {
		select {
		case m := <-s.msgs:
			if err := h.write(ctx, c, m); err != nil {
				if websocket.CloseStatus(err) == -1 {
					slog.Debug("live write failed", "error", err)
				}
				return
			}
		case <-h.done:
			c.Close(websocket.StatusGoingAway, "server shutting down")
			return
		case <-ctx.Done():
			return
		}
	}
}

// Publish queues m for every client. Clients whose buffer is full are
// disconnected.
func (h *Hub) Publish(m Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subscribers {
		select {
		case s.msgs <- m:
		default:
			go s.closeSlow()
		}
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Close unsubscribes from the store and disconnects every client.
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		h.unsubscribe()
		close(h.done)
	})
}

func (h *Hub) add(s *subscriber) {
	h.mu.Lock()
	h.subscribers[s] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	delete(h.subscribers, s)
	h.mu.Unlock()
}

func (h *Hub) write(ctx context.Context, c *websocket.Conn, m Message) error {
	ctx, cancel := context.WithTimeout(ctx, h.writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, c, m)
}
