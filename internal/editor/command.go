package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fieldline/fieldline/backend-go/internal/document"
)

var (
	// ErrMissingArea signals a command whose target id is absent from the
	// store. That only happens when an upstream invariant broke (a stale id
	// survived a delete), so the engine logs it and drops the command.
	ErrMissingArea = errors.New("area missing from store")

	// ErrDuplicateArea signals an add whose id is already present.
	ErrDuplicateArea = errors.New("area already in store")
)

// Command is one reversible mutation of the area store. A command is
// executed and undone only as a whole; Execute must leave state it can
// reverse with Undo, and Undo state that Execute can re-apply.
type Command interface {
	Label() string
	Execute() error
	Undo() error
}

// AddAreaCommand inserts a full area snapshot at the top of the z-order.
type AddAreaCommand struct {
	store *Store
	area  document.Area
}

func NewAddAreaCommand(store *Store, area document.Area) *AddAreaCommand {
	return &AddAreaCommand{store: store, area: area}
}

func (c *AddAreaCommand) Label() string { return "Add Area" }

func (c *AddAreaCommand) Execute() error {
	a := c.area
	if !c.store.Add(&a) {
		return fmt.Errorf("add %s: %w", c.area.InstanceID, ErrDuplicateArea)
	}
	return nil
}

func (c *AddAreaCommand) Undo() error {
	if _, _, ok := c.store.Remove(c.area.InstanceID); !ok {
		return fmt.Errorf("undo add %s: %w", c.area.InstanceID, ErrMissingArea)
	}
	return nil
}

// DeleteAreaCommand removes an area, remembering its full snapshot and its
// z-order position so undo restores it exactly where it sat.
type DeleteAreaCommand struct {
	store *Store
	id    string
	area  document.Area
	index int
}

func NewDeleteAreaCommand(store *Store, id string) *DeleteAreaCommand {
	return &DeleteAreaCommand{store: store, id: id}
}

func (c *DeleteAreaCommand) Label() string { return "Delete Area" }

func (c *DeleteAreaCommand) Execute() error {
	area, index, ok := c.store.Remove(c.id)
	if !ok {
		return fmt.Errorf("delete %s: %w", c.id, ErrMissingArea)
	}
	c.area = area
	c.index = index
	return nil
}

func (c *DeleteAreaCommand) Undo() error {
	a := c.area
	if !c.store.Insert(c.index, &a) {
		return fmt.Errorf("undo delete %s: %w", c.id, ErrDuplicateArea)
	}
	return nil
}

// EditAreaPropertiesCommand rewrites an area's fieldId and prompt, keeping
// the previous pair for undo. The previous values are captured when the
// command first executes.
type EditAreaPropertiesCommand struct {
	store      *Store
	id         string
	newFieldID string
	newPrompt  string
	oldFieldID string
	oldPrompt  string
}

func NewEditAreaPropertiesCommand(store *Store, id, fieldID, prompt string) *EditAreaPropertiesCommand {
	return &EditAreaPropertiesCommand{store: store, id: id, newFieldID: fieldID, newPrompt: prompt}
}

func (c *EditAreaPropertiesCommand) Label() string { return "Edit Area Properties" }

func (c *EditAreaPropertiesCommand) Execute() error {
	a, ok := c.store.Get(c.id)
	if !ok {
		return fmt.Errorf("edit %s: %w", c.id, ErrMissingArea)
	}
	c.oldFieldID = a.FieldID
	c.oldPrompt = a.Prompt
	c.store.SetProperties(c.id, c.newFieldID, c.newPrompt)
	return nil
}

func (c *EditAreaPropertiesCommand) Undo() error {
	if !c.store.SetProperties(c.id, c.oldFieldID, c.oldPrompt) {
		return fmt.Errorf("undo edit %s: %w", c.id, ErrMissingArea)
	}
	return nil
}

// MoveAreaCommand translates an area's document rect. Both the document and
// view rects of the before/after states are carried so neither direction
// ever re-derives geometry through the transform.
type MoveAreaCommand struct {
	store   *Store
	id      string
	oldDoc  document.Rect
	newDoc  document.Rect
	oldView Rect
	newView Rect
}

func NewMoveAreaCommand(store *Store, id string, oldDoc, newDoc document.Rect, oldView, newView Rect) *MoveAreaCommand {
	return &MoveAreaCommand{store: store, id: id, oldDoc: oldDoc, newDoc: newDoc, oldView: oldView, newView: newView}
}

func (c *MoveAreaCommand) Label() string { return "Move Area" }

func (c *MoveAreaCommand) Execute() error {
	if !c.store.SetRect(c.id, c.newDoc) {
		return fmt.Errorf("move %s: %w", c.id, ErrMissingArea)
	}
	return nil
}

func (c *MoveAreaCommand) Undo() error {
	if !c.store.SetRect(c.id, c.oldDoc) {
		return fmt.Errorf("undo move %s: %w", c.id, ErrMissingArea)
	}
	return nil
}

// ResizeAreaCommand is the handle-drag counterpart of MoveAreaCommand.
type ResizeAreaCommand struct {
	store   *Store
	id      string
	oldDoc  document.Rect
	newDoc  document.Rect
	oldView Rect
	newView Rect
}

func NewResizeAreaCommand(store *Store, id string, oldDoc, newDoc document.Rect, oldView, newView Rect) *ResizeAreaCommand {
	return &ResizeAreaCommand{store: store, id: id, oldDoc: oldDoc, newDoc: newDoc, oldView: oldView, newView: newView}
}

func (c *ResizeAreaCommand) Label() string { return "Resize Area" }

func (c *ResizeAreaCommand) Execute() error {
	if !c.store.SetRect(c.id, c.newDoc) {
		return fmt.Errorf("resize %s: %w", c.id, ErrMissingArea)
	}
	return nil
}

func (c *ResizeAreaCommand) Undo() error {
	if !c.store.SetRect(c.id, c.oldDoc) {
		return fmt.Errorf("undo resize %s: %w", c.id, ErrMissingArea)
	}
	return nil
}

// CommandEngine owns the undo/redo stacks and the document dirty flag. Every
// mutation of the area store passes through Execute, so each state change is
// paired with its inverse on the stack.
type CommandEngine struct {
	undo    []Command
	redo    []Command
	dirty   bool
	logger  *slog.Logger
	onDirty func(bool)
}

func NewCommandEngine(logger *slog.Logger) *CommandEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandEngine{logger: logger}
}

// SetDirtyListener registers the observer notified whenever the dirty flag
// flips. Passing nil removes the observer.
func (e *CommandEngine) SetDirtyListener(fn func(bool)) {
	e.onDirty = fn
}

// Execute runs the command, pushes it onto the undo stack, clears the redo
// stack, and marks the document dirty. A failing command is logged and
// dropped; the stacks and dirty flag are left exactly as they were.
func (e *CommandEngine) Execute(cmd Command) bool {
	if err := cmd.Execute(); err != nil {
		e.logger.Error("command failed", "label", cmd.Label(), "error", err)
		return false
	}
	e.undo = append(e.undo, cmd)
	e.redo = nil
	e.setDirty(true)
	return true
}

// Undo reverses the most recent command, moving it to the redo stack. It is
// a no-op when the undo stack is empty. A failing undo leaves both stacks
// and the dirty flag untouched.
func (e *CommandEngine) Undo() bool {
	if len(e.undo) == 0 {
		return false
	}
	cmd := e.undo[len(e.undo)-1]
	if err := cmd.Undo(); err != nil {
		e.logger.Error("undo failed", "label", cmd.Label(), "error", err)
		return false
	}
	e.undo = e.undo[:len(e.undo)-1]
	e.redo = append(e.redo, cmd)
	e.setDirty(true)
	return true
}

// Redo re-executes the most recently undone command, moving it back to the
// undo stack. It is a no-op when the redo stack is empty.
func (e *CommandEngine) Redo() bool {
	if len(e.redo) == 0 {
		return false
	}
	cmd := e.redo[len(e.redo)-1]
	if err := cmd.Execute(); err != nil {
		e.logger.Error("redo failed", "label", cmd.Label(), "error", err)
		return false
	}
	e.redo = e.redo[:len(e.redo)-1]
	e.undo = append(e.undo, cmd)
	e.setDirty(true)
	return true
}

// MarkSaved clears both stacks and the dirty flag. Undo history does not
// survive a save boundary.
func (e *CommandEngine) MarkSaved() {
	e.undo = nil
	e.redo = nil
	e.setDirty(false)
}

func (e *CommandEngine) Dirty() bool   { return e.dirty }
func (e *CommandEngine) CanUndo() bool { return len(e.undo) > 0 }
func (e *CommandEngine) CanRedo() bool { return len(e.redo) > 0 }

// UndoDepth reports how many commands the undo stack holds.
func (e *CommandEngine) UndoDepth() int { return len(e.undo) }

// RedoDepth reports how many commands the redo stack holds.
func (e *CommandEngine) RedoDepth() int { return len(e.redo) }

// UndoLabel returns the label of the command Undo would reverse, for menu
// titles like "Undo Move Area". Empty when there is nothing to undo.
func (e *CommandEngine) UndoLabel() string {
	if len(e.undo) == 0 {
		return ""
	}
	return e.undo[len(e.undo)-1].Label()
}

// RedoLabel returns the label of the command Redo would re-apply.
func (e *CommandEngine) RedoLabel() string {
	if len(e.redo) == 0 {
		return ""
	}
	return e.redo[len(e.redo)-1].Label()
}

func (e *CommandEngine) setDirty(d bool) {
	if e.dirty == d {
		return
	}
	e.dirty = d
	if e.onDirty != nil {
		e.onDirty(d)
	}
}
