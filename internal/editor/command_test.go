package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldline/fieldline/backend-go/internal/document"
)

func TestCommandEngineStackDiscipline(t *testing.T) {
	store := NewStore()
	engine := NewCommandEngine(nil)

	added := testArea("a", 0, 10, 10, 50, 50, document.KindDrawnRect)
	require.True(t, engine.Execute(NewAddAreaCommand(store, added)))
	assert.True(t, engine.Dirty())
	assert.True(t, engine.CanUndo())
	assert.False(t, engine.CanRedo())
	assert.Equal(t, "Add Area", engine.UndoLabel())

	moved := document.Rect{Left: 30, Top: 30, Right: 70, Bottom: 70}
	require.True(t, engine.Execute(NewMoveAreaCommand(store, "a",
		added.Rect, moved, Rect{}, Rect{})))
	assert.Equal(t, 2, engine.UndoDepth())

	require.True(t, engine.Undo())
	got, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, added.Rect, got.Rect, "undo must restore the exact old rect")
	assert.Equal(t, 1, engine.UndoDepth())
	assert.Equal(t, 1, engine.RedoDepth())
	assert.Equal(t, "Move Area", engine.RedoLabel())

	require.True(t, engine.Redo())
	got, _ = store.Get("a")
	assert.Equal(t, moved, got.Rect)
	assert.Equal(t, 0, engine.RedoDepth())

	// A fresh command wipes the redo stack.
	require.True(t, engine.Undo())
	require.True(t, engine.CanRedo())
	require.True(t, engine.Execute(NewDeleteAreaCommand(store, "a")))
	assert.False(t, engine.CanRedo(), "executing a new command must clear redo")
}

func TestCommandEngineUndoEmptyStacks(t *testing.T) {
	engine := NewCommandEngine(nil)
	assert.False(t, engine.Undo())
	assert.False(t, engine.Redo())
	assert.False(t, engine.Dirty())
	assert.Empty(t, engine.UndoLabel())
	assert.Empty(t, engine.RedoLabel())
}

func TestCommandEngineFailedExecuteLeavesStateUntouched(t *testing.T) {
	store := NewStore()
	engine := NewCommandEngine(nil)

	a := testArea("a", 0, 0, 0, 10, 10, document.KindDrawnRect)
	require.True(t, engine.Execute(NewAddAreaCommand(store, a)))

	// Deleting an id that was never added fails inside the command.
	assert.False(t, engine.Execute(NewDeleteAreaCommand(store, "ghost")))
	assert.Equal(t, 1, engine.UndoDepth(), "failed command must not be pushed")
	assert.True(t, engine.Dirty())
	assert.Equal(t, "Add Area", engine.UndoLabel())
}

func TestCommandEngineFailedUndoKeepsCommand(t *testing.T) {
	store := NewStore()
	engine := NewCommandEngine(nil)

	a := testArea("a", 0, 0, 0, 10, 10, document.KindDrawnRect)
	require.True(t, engine.Execute(NewAddAreaCommand(store, a)))

	// Yank the area out from under the engine; the add's undo now fails.
	_, _, ok := store.Remove("a")
	require.True(t, ok)

	assert.False(t, engine.Undo())
	assert.Equal(t, 1, engine.UndoDepth(), "failed undo must keep the command")
	assert.Equal(t, 0, engine.RedoDepth())
	assert.True(t, engine.Dirty())
}

func TestCommandEngineMarkSaved(t *testing.T) {
	store := NewStore()
	engine := NewCommandEngine(nil)

	a := testArea("a", 0, 0, 0, 10, 10, document.KindDrawnRect)
	require.True(t, engine.Execute(NewAddAreaCommand(store, a)))
	require.True(t, engine.Undo())
	require.True(t, engine.CanRedo())

	engine.MarkSaved()
	assert.False(t, engine.Dirty())
	assert.False(t, engine.CanUndo())
	assert.False(t, engine.CanRedo())
	assert.False(t, engine.Undo(), "history must not survive a save boundary")
}

func TestCommandEngineDirtyListener(t *testing.T) {
	store := NewStore()
	engine := NewCommandEngine(nil)

	var events []bool
	engine.SetDirtyListener(func(d bool) { events = append(events, d) })

	a := testArea("a", 0, 0, 0, 10, 10, document.KindDrawnRect)
	b := testArea("b", 0, 20, 20, 30, 30, document.KindDrawnRect)
	require.True(t, engine.Execute(NewAddAreaCommand(store, a)))
	require.True(t, engine.Execute(NewAddAreaCommand(store, b)))

	// Only the flip fires, not every command.
	assert.Equal(t, []bool{true}, events)

	engine.MarkSaved()
	assert.Equal(t, []bool{true, false}, events)

	engine.MarkSaved()
	assert.Equal(t, []bool{true, false}, events, "saving a clean document must not re-notify")
}

func TestDeleteAreaCommandRestoresZOrder(t *testing.T) {
	store := NewStore()
	engine := NewCommandEngine(nil)
	for _, id := range []string{"a", "b", "c"} {
		area := testArea(id, 0, 0, 0, 10, 10, document.KindDrawnRect)
		require.True(t, store.Add(&area))
	}

	require.True(t, engine.Execute(NewDeleteAreaCommand(store, "b")))
	require.Equal(t, []string{"a", "c"}, storeIDs(store))

	require.True(t, engine.Undo())
	assert.Equal(t, []string{"a", "b", "c"}, storeIDs(store),
		"undo of delete must reinsert at the original z position")
}

func TestEditAreaPropertiesCommandRoundTrip(t *testing.T) {
	store := NewStore()
	engine := NewCommandEngine(nil)
	a := testArea("a", 0, 0, 0, 10, 10, document.KindTextField)
	a.FieldID = "FirstName"
	a.Prompt = "Given name"
	require.True(t, store.Add(&a))

	require.True(t, engine.Execute(NewEditAreaPropertiesCommand(store, "a", "FullName", "Complete legal name")))
	got, _ := store.Get("a")
	assert.Equal(t, "FullName", got.FieldID)
	assert.Equal(t, "Complete legal name", got.Prompt)

	require.True(t, engine.Undo())
	got, _ = store.Get("a")
	assert.Equal(t, "FirstName", got.FieldID)
	assert.Equal(t, "Given name", got.Prompt)
}

func TestCommandLabels(t *testing.T) {
	store := NewStore()
	tests := []struct {
		cmd  Command
		want string
	}{
		{NewAddAreaCommand(store, document.Area{}), "Add Area"},
		{NewDeleteAreaCommand(store, "x"), "Delete Area"},
		{NewEditAreaPropertiesCommand(store, "x", "", ""), "Edit Area Properties"},
		{NewMoveAreaCommand(store, "x", document.Rect{}, document.Rect{}, Rect{}, Rect{}), "Move Area"},
		{NewResizeAreaCommand(store, "x", document.Rect{}, document.Rect{}, Rect{}, Rect{}), "Resize Area"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.cmd.Label())
	}
}
