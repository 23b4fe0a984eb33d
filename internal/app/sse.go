package app

import (
	"log/slog"
	"sync"
)

type SSEEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type SSEHub struct {
	log *slog.Logger

	mu   sync.RWMutex
	subs map[string]map[chan SSEEvent]struct{} // topic -> set(ch)
}

func NewSSEHub(logger *slog.Logger) *SSEHub {
	if logger == nil {
		logger = slog.Default()
	}
	return &SSEHub{
		log:  logger,
		subs: map[string]map[chan SSEEvent]struct{}{},
	}
}

func (h *SSEHub) Subscribe(topics []string, buf int) (<-chan SSEEvent, func()) {
	if buf <= 0 {
		buf = 16
	}
	ch := make(chan SSEEvent, buf)

	h.mu.Lock()
	for _, t := range topics {
		if h.subs[t] == nil {
			h.subs[t] = map[chan SSEEvent]struct{}{}
		}
		h.subs[t][ch] = struct{}{}
	}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		for _, t := range topics {
			if set, ok := h.subs[t]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(h.subs, t)
				}
			}
		}
		h.mu.Unlock()
		close(ch)
	}
	return ch, cancel
}

// Broadcast sends while still holding the read lock: cancel closes channels
// under the write lock, so a send can never race a close.
func (h *SSEHub) Broadcast(topic string, ev SSEEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[topic] {
		select {
		case ch <- ev:
		default:
			// drop if slow consumer
		}
	}
}

/* ---- topic helpers ---- */

func TopicOrders() string         { return "pedidos:global" }
func TopicInventory() string      { return "inventario:global" }
func TopicCaja() string           { return "caja:global" }
func TopicRole(rol string) string { return "rol:" + rol }

func (h *SSEHub) BroadcastOrders(ev SSEEvent)           { h.Broadcast(TopicOrders(), ev) }
func (h *SSEHub) BroadcastInventory(ev SSEEvent)        { h.Broadcast(TopicInventory(), ev) }
func (h *SSEHub) BroadcastCaja(ev SSEEvent)             { h.Broadcast(TopicCaja(), ev) }
func (h *SSEHub) BroadcastRole(rol string, ev SSEEvent) { h.Broadcast(TopicRole(rol), ev) }
