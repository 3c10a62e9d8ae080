package sse

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/studymaster-backend/internal/logger"
)

type SSEEvent string

const (
	SSEEventScheduleReady      SSEEvent = "ScheduleReady"
	SSEEventSubmissionProgress SSEEvent = "SubmissionProgress"
	SSEEventClassRegistered    SSEEvent = "ClassRegistered"
	SSEEventPracticeReady      SSEEvent = "PracticeProblemsReady"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

type SSEClient struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Outbound chan SSEMessage
	done     chan struct{}
}

func (c *SSEClient) Close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

func (c *SSEClient) Done() <-chan struct{} { return c.done }

// SSEHub fans messages out to per-user channels. Channel names are user
// IDs; every client subscribes to its own user channel on connect.
type SSEHub struct {
	mu            sync.RWMutex
	log           *logger.Logger
	subscriptions map[string]map[*SSEClient]bool
}

func NewSSEHub(log *logger.Logger) *SSEHub {
	return &SSEHub{
		log:           log.With("component", "SSEHub"),
		subscriptions: make(map[string]map[*SSEClient]bool),
	}
}

func (hub *SSEHub) NewSSEClient(userID uuid.UUID) *SSEClient {
	client := &SSEClient{
		ID:       uuid.New(),
		UserID:   userID,
		Outbound: make(chan SSEMessage, 16),
		done:     make(chan struct{}),
	}
	hub.subscribe(userID.String(), client)
	return client
}

func (hub *SSEHub) subscribe(channel string, client *SSEClient) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if hub.subscriptions[channel] == nil {
		hub.subscriptions[channel] = make(map[*SSEClient]bool)
	}
	hub.subscriptions[channel][client] = true
}

func (hub *SSEHub) Remove(client *SSEClient) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for channel, clients := range hub.subscriptions {
		if clients[client] {
			delete(clients, client)
			if len(clients) == 0 {
				delete(hub.subscriptions, channel)
			}
		}
	}
	client.Close()
}

// Publish drops the message for clients whose outbound buffer is full
// rather than blocking the publisher.
func (hub *SSEHub) Publish(msg SSEMessage) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	for client := range hub.subscriptions[msg.Channel] {
		select {
		case client.Outbound <- msg:
		default:
			hub.log.Debug("dropping SSE message for slow client", "client_id", client.ID, "event", msg.Event)
		}
	}
}
