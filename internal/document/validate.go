package document

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedVersion = errors.New("unsupported document version")
	ErrDuplicateInstance  = errors.New("duplicate area instanceId")
)

// Validate checks the invariants every stored area must satisfy.
func (a *Area) Validate() error {
	if a.InstanceID == "" {
		return errors.New("area has empty instanceId")
	}
	if a.PageIndex < 0 {
		return fmt.Errorf("area %s: negative pageIndex %d", a.InstanceID, a.PageIndex)
	}
	if !a.Kind.Valid() {
		return fmt.Errorf("area %s: unknown kind %q", a.InstanceID, a.Kind)
	}
	if a.Rect.Left > a.Rect.Right || a.Rect.Top > a.Rect.Bottom {
		return fmt.Errorf("area %s: rect not normalized", a.InstanceID)
	}
	if a.Kind.IsField() && a.FieldID == "" {
		return fmt.Errorf("area %s: %s requires a fieldId", a.InstanceID, a.Kind)
	}
	return nil
}

// Validate checks the whole document: format version, per-area invariants,
// instanceId uniqueness, and page bounds when page geometry is present.
func (d *Document) Validate() error {
	if d.Version != FormatVersion {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, d.Version)
	}
	seen := make(map[string]bool, len(d.Areas))
	for i := range d.Areas {
		a := &d.Areas[i]
		if err := a.Validate(); err != nil {
			return fmt.Errorf("area %d: %w", i, err)
		}
		if seen[a.InstanceID] {
			return fmt.Errorf("%w: %s", ErrDuplicateInstance, a.InstanceID)
		}
		seen[a.InstanceID] = true
		if len(d.Pages) > 0 && a.PageIndex >= len(d.Pages) {
			return fmt.Errorf("area %s: pageIndex %d beyond last page %d",
				a.InstanceID, a.PageIndex, len(d.Pages)-1)
		}
	}
	return nil
}
