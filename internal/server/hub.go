package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

const (
	subscriberBuffer = 8
	writeTimeout     = 5 * time.Second
)

// Hub fans saved worksheets out to websocket subscribers of the same ID.
// It implements editor.Notifier.
type Hub struct {
	mu      sync.Mutex
	subs    map[string]map[chan worksheet.Worksheet]struct{}
	origins []string
}

// NewHub creates a Hub that accepts websocket upgrades from the given origin
// patterns.
func NewHub(origins []string) *Hub {
	return &Hub{
		subs:    make(map[string]map[chan worksheet.Worksheet]struct{}),
		origins: origins,
	}
}

// Publish queues w for every subscriber of w.ID. A slow subscriber loses its
// oldest pending snapshot, never the newest.
func (h *Hub) Publish(w worksheet.Worksheet) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[w.ID] {
		select {
		case ch <- w:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- w:
		default:
		}
	}
}

// Subscribers returns the number of open subscriptions for id.
func (h *Hub) Subscribers(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[id])
}

func (h *Hub) subscribe(id string) (<-chan worksheet.Worksheet, func()) {
	ch := make(chan worksheet.Worksheet, subscriberBuffer)
	h.mu.Lock()
	if h.subs[id] == nil {
		h.subs[id] = make(map[chan worksheet.Worksheet]struct{})
	}
	h.subs[id][ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[id], ch)
		if len(h.subs[id]) == 0 {
			delete(h.subs, id)
		}
	}
}

// stream upgrades the request and writes initial followed by every update
// until the client goes away.
func (h *Hub) stream(w http.ResponseWriter, r *http.Request, initial worksheet.Worksheet, updates <-chan worksheet.Worksheet) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.origins})
	if err != nil {
		slog.Warn("websocket accept failed", "worksheet_id", initial.ID, "error", err)
		return
	}
	defer c.CloseNow()

	ctx := c.CloseRead(r.Context())
	slog.Debug("live subscriber connected", "worksheet_id", initial.ID)

	if err := send(ctx, c, initial); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			c.Close(websocket.StatusNormalClosure, "")
			return
		case ws := <-updates:
			if err := send(ctx, c, ws); err != nil {
				slog.Debug("live subscriber dropped", "worksheet_id", initial.ID, "error", err)
				return
			}
		}
	}
}

func send(ctx context.Context, c *websocket.Conn, w worksheet.Worksheet) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, c, w)
}
