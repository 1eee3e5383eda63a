package notify

import (
	"encoding/json"
	"testing"
)

func TestRosterAddRemove(t *testing.T) {
	r := NewRoster()

	r.Add(Session{SessionID: "sess_b", UserID: "user_1", DisplayName: "Ada"})
	r.Add(Session{SessionID: "sess_a", UserID: "user_2", DisplayName: "Grace"})
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}

	// Re-adding a session replaces it instead of duplicating.
	r.Add(Session{SessionID: "sess_a", UserID: "user_2", DisplayName: "Grace H."})
	if r.Len() != 2 {
		t.Errorf("Len after re-add = %d, want 2", r.Len())
	}

	r.Remove("sess_b")
	if r.Len() != 1 {
		t.Errorf("Len after remove = %d, want 1", r.Len())
	}
	r.Remove("sess_unknown")
	if r.Len() != 1 {
		t.Errorf("removing an unknown session changed Len to %d", r.Len())
	}
}

func TestRosterSessionsSorted(t *testing.T) {
	r := NewRoster()
	r.Add(Session{SessionID: "sess_c"})
	r.Add(Session{SessionID: "sess_a"})
	r.Add(Session{SessionID: "sess_b"})

	got := r.Sessions()
	want := []string{"sess_a", "sess_b", "sess_c"}
	if len(got) != len(want) {
		t.Fatalf("got %d sessions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].SessionID != want[i] {
			t.Errorf("session %d = %q, want %q", i, got[i].SessionID, want[i])
		}
	}
}

func TestRosterMessage(t *testing.T) {
	r := NewRoster()
	r.Add(Session{SessionID: "sess_1", UserID: "user_1", DisplayName: "Ada"})

	msg, err := r.Message("proj_1")
	if err != nil {
		t.Fatalf("Message: %v", err)
	}
	if msg.Type != TypeSessionRoster {
		t.Errorf("type = %q, want %q", msg.Type, TypeSessionRoster)
	}
	if msg.ProjectID != "proj_1" {
		t.Errorf("projectId = %q, want proj_1", msg.ProjectID)
	}

	var payload RosterPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if len(payload.Sessions) != 1 || payload.Sessions[0].DisplayName != "Ada" {
		t.Errorf("payload = %+v, want the one attached session", payload)
	}
}
