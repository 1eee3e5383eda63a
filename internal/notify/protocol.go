// Package notify runs the per-project WebSocket event stream: a roster of
// open editor sessions, relay of coarse editor state between tabs, and
// server-originated save notifications. It carries no document-editing
// traffic; layouts travel only through the REST snapshot endpoints.
package notify

import "encoding/json"

type Message struct {
	Type      string          `json:"type"`
	ProjectID string          `json:"projectId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Session lifecycle, server-originated.
	TypeSessionJoined = "session.joined"
	TypeSessionLeft   = "session.left"
	TypeSessionRoster = "session.roster"

	// Editor state relayed from the active tab to passive observers, so a
	// second open tab can warn about unsaved changes elsewhere.
	TypeEditorDirty     = "editor.dirty"
	TypeEditorSelection = "editor.selection"

	// Broadcast after a layout snapshot is stored.
	TypeProjectSaved = "project.saved"

	TypeError = "error"
)

// Session describes one open editor session on a project.
type Session struct {
	SessionID   string `json:"sessionId"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type SessionLeftPayload struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
}

type RosterPayload struct {
	Sessions []Session `json:"sessions"`
}

type EditorDirtyPayload struct {
	Dirty bool `json:"dirty"`
}

// EditorSelectionPayload carries the selected area's instanceId, empty when
// nothing is selected.
type EditorSelectionPayload struct {
	InstanceID string `json:"instanceId"`
}

type ProjectSavedPayload struct {
	Rev int `json:"rev"`
}
