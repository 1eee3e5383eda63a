package editor

import (
	"github.com/fieldline/fieldline/backend-go/internal/document"
)

// AreaProperties is the pair of user-editable fields carried by the
// properties dialog: the fieldId linking the area to a data field, and the
// optional user-facing prompt text.
type AreaProperties struct {
	FieldID string `json:"fieldId"`
	Prompt  string `json:"prompt"`
}

// PropertiesPrompt is the dialog collaborator. PromptProperties blocks until
// the user accepts or cancels; ok is false on cancel. The editor re-invokes
// it when a field kind comes back with an empty FieldID, passing the
// previously entered values back in as the new suggestion.
type PropertiesPrompt interface {
	PromptProperties(kind document.AreaKind, suggested AreaProperties) (props AreaProperties, ok bool)
}

// PromptFunc adapts a plain function to the PropertiesPrompt interface.
type PromptFunc func(kind document.AreaKind, suggested AreaProperties) (AreaProperties, bool)

func (f PromptFunc) PromptProperties(kind document.AreaKind, suggested AreaProperties) (AreaProperties, bool) {
	return f(kind, suggested)
}
