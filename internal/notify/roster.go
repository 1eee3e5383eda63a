package notify

import (
	"encoding/json"
	"sort"
	"sync"
)

// Roster tracks the editor sessions currently attached to one project room.
type Roster struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewRoster() *Roster {
	return &Roster{
		sessions: make(map[string]Session),
	}
}

func (r *Roster) Add(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.SessionID] = s
}

func (r *Roster) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// Sessions returns the attached sessions sorted by session ID so roster
// messages are deterministic.
func (r *Roster) Sessions() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SessionID < out[j].SessionID
	})
	return out
}

func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Message builds the session.roster message sent to a newly attached client.
func (r *Roster) Message(projectID string) (Message, error) {
	payload, err := json.Marshal(RosterPayload{Sessions: r.Sessions()})
	if err != nil {
		return Message{}, err
	}
	return Message{
		Type:      TypeSessionRoster,
		ProjectID: projectID,
		Payload:   payload,
	}, nil
}
