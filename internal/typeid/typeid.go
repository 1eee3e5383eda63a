package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixUser     = "user"
	PrefixProject  = "proj"
	PrefixDocument = "doc"
	PrefixArea     = "area"
	PrefixSnapshot = "snap"
	PrefixSession  = "sess"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewUserID() string     { return New(PrefixUser) }
func NewProjectID() string  { return New(PrefixProject) }
func NewDocumentID() string { return New(PrefixDocument) }
func NewAreaID() string     { return New(PrefixArea) }
func NewSnapshotID() string { return New(PrefixSnapshot) }
func NewSessionID() string  { return New(PrefixSession) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
