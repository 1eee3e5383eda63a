package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Room holds the clients attached to one project.
type Room struct {
	projectID string
	clients   map[*Client]struct{}
	roster    *Roster
}

func newRoom(projectID string) *Room {
	return &Room{
		projectID: projectID,
		clients:   make(map[*Client]struct{}),
		roster:    NewRoster(),
	}
}

// Hub owns all project rooms and routes messages between their clients.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes registrations until ctx is canceled. Start it once, before
// accepting connections.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.ProjectID]
	if !ok {
		room = newRoom(client.ProjectID)
		h.rooms[client.ProjectID] = room
	}
	room.clients[client] = struct{}{}
	room.roster.Add(Session{
		SessionID:   client.SessionID,
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	h.mu.Unlock()

	// The newcomer gets the full roster; everyone else just hears the join.
	if msg, err := room.roster.Message(client.ProjectID); err == nil {
		client.queueMessage(msg)
	}

	payload, err := json.Marshal(Session{
		SessionID:   client.SessionID,
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	if err != nil {
		return
	}
	h.broadcast(room, Message{
		Type:      TypeSessionJoined,
		ProjectID: client.ProjectID,
		ClientID:  client.ClientID,
		UserID:    client.UserID,
		Payload:   payload,
	}, client)

	slog.Info("session joined",
		"projectId", client.ProjectID,
		"sessionId", client.SessionID,
		"userId", client.UserID,
	)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.ProjectID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, attached := room.clients[client]; !attached {
		h.mu.Unlock()
		return
	}
	delete(room.clients, client)
	close(client.send)
	room.roster.Remove(client.SessionID)
	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.ProjectID)
	}
	h.mu.Unlock()

	slog.Info("session left",
		"projectId", client.ProjectID,
		"sessionId", client.SessionID,
		"userId", client.UserID,
	)

	if empty {
		return
	}

	payload, err := json.Marshal(SessionLeftPayload{
		SessionID: client.SessionID,
		UserID:    client.UserID,
	})
	if err != nil {
		return
	}
	h.broadcast(room, Message{
		Type:      TypeSessionLeft,
		ProjectID: client.ProjectID,
		ClientID:  client.ClientID,
		UserID:    client.UserID,
		Payload:   payload,
	}, nil)
}

// handleMessage routes a client message. Only coarse editor state is
// relayed; everything else is rejected so the stream cannot become a
// side channel for document edits.
func (h *Hub) handleMessage(sender *Client, msg Message) {
	switch msg.Type {
	case TypeEditorDirty, TypeEditorSelection:
		h.mu.RLock()
		room := h.rooms[sender.ProjectID]
		h.mu.RUnlock()
		if room == nil {
			return
		}
		h.broadcast(room, msg, sender)
	default:
		slog.Warn("rejecting unsupported message type",
			"type", msg.Type,
			"clientId", sender.ClientID,
		)
		sender.queueMessage(Message{
			Type:      TypeError,
			ProjectID: sender.ProjectID,
			Payload:   json.RawMessage(`{"error":"unsupported message type"}`),
		})
	}
}

// ProjectSaved tells every session on the project that a new layout
// revision was stored. Implements the project handler's Notifier.
func (h *Hub) ProjectSaved(projectID string, rev int) {
	h.mu.RLock()
	room := h.rooms[projectID]
	h.mu.RUnlock()
	if room == nil {
		return
	}

	payload, err := json.Marshal(ProjectSavedPayload{Rev: rev})
	if err != nil {
		return
	}
	h.broadcast(room, Message{
		Type:      TypeProjectSaved,
		ProjectID: projectID,
		Payload:   payload,
	}, nil)
}

// broadcast queues msg for every client in the room except skip.
func (h *Hub) broadcast(room *Room, msg Message, skip *Client) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal broadcast", "type", msg.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range room.clients {
		if client == skip {
			continue
		}
		client.queue(data)
	}
}

// SessionCount reports the number of sessions attached to a project.
func (h *Hub) SessionCount(projectID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[projectID]
	if !ok {
		return 0
	}
	return room.roster.Len()
}
