package services

import (
	"log"
	"sync"

	"campusvote/internal/core/domain"
)

// ============================================================
// SSE Hub - live election status stream
// ============================================================

// StreamBuffer is the per-client event buffer; a full buffer drops events for that client
const StreamBuffer = 16

// StreamClient is one connected event-stream subscriber
type StreamClient struct {
	ID         string
	VoterID    uint
	ElectionID uint
	Channel    chan domain.ElectionEvent
}

// EventHub fans committed election events out to stream subscribers
type EventHub struct {
	mu      sync.RWMutex
	clients map[string]*StreamClient
}

// NewEventHub creates a new event hub
func NewEventHub() *EventHub {
	return &EventHub{
		clients: make(map[string]*StreamClient),
	}
}

// Subscribe registers a client for one election's events
func (h *EventHub) Subscribe(id string, voterID, electionID uint) *StreamClient {
	client := &StreamClient{
		ID:         id,
		VoterID:    voterID,
		ElectionID: electionID,
		Channel:    make(chan domain.ElectionEvent, StreamBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[id] = client
	log.Printf("📡 Stream client registered: %s (voter=%d, election=%d) | total=%d",
		id, voterID, electionID, len(h.clients))
	return client
}

// Unsubscribe removes a client and closes its channel
func (h *EventHub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[id]; ok {
		close(client.Channel)
		delete(h.clients, id)
		log.Printf("📡 Stream client unregistered: %s | total=%d", id, len(h.clients))
	}
}

// Publish implements EventPublisher; it never blocks on a slow client
func (h *EventHub) Publish(event domain.ElectionEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for _, client := range h.clients {
		if client.ElectionID != event.ElectionID {
			continue
		}
		select {
		case client.Channel <- event:
			sent++
		default:
			log.Printf("⚠️ Stream buffer full for client %s, dropping %s", client.ID, event.Type)
		}
	}
	if sent > 0 {
		log.Printf("📡 Stream broadcast [%s] election %d → %d clients", event.Type, event.ElectionID, sent)
	}
}

// ClientCount returns the number of connected clients
func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
