//go:build js && wasm

package main

import (
	"encoding/json"
	"strings"
	"syscall/js"

	"github.com/fieldline/fieldline/backend-go/internal/document"
	"github.com/fieldline/fieldline/backend-go/internal/editor"
)

var ed *editor.Editor

// Frontend-registered callbacks. The zero js.Value is undefined, so unset
// callbacks are simply skipped.
var (
	jsPrompt      js.Value
	jsOnSelection js.Value
	jsOnDirty     js.Value
	jsOnRedraw    js.Value
)

func main() {
	ed = newEditor(nil)

	// Create the editor API object
	fieldlineEditor := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	fieldlineEditor.Set("loadDocument", js.FuncOf(loadDocument))
	fieldlineEditor.Set("newDocument", js.FuncOf(newDocument))
	fieldlineEditor.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	fieldlineEditor.Set("setTool", js.FuncOf(setTool))
	fieldlineEditor.Set("pointerDown", js.FuncOf(pointerDown))
	fieldlineEditor.Set("pointerMove", js.FuncOf(pointerMove))
	fieldlineEditor.Set("pointerUp", js.FuncOf(pointerUp))
	fieldlineEditor.Set("setZoom", js.FuncOf(setZoom))
	fieldlineEditor.Set("zoomIn", js.FuncOf(zoomIn))
	fieldlineEditor.Set("zoomOut", js.FuncOf(zoomOut))
	fieldlineEditor.Set("setPage", js.FuncOf(setPage))
	fieldlineEditor.Set("nextPage", js.FuncOf(nextPage))
	fieldlineEditor.Set("prevPage", js.FuncOf(prevPage))
	fieldlineEditor.Set("undo", js.FuncOf(undo))
	fieldlineEditor.Set("redo", js.FuncOf(redo))
	fieldlineEditor.Set("deleteSelection", js.FuncOf(deleteSelection))
	fieldlineEditor.Set("editSelectionProperties", js.FuncOf(editSelectionProperties))
	fieldlineEditor.Set("markSaved", js.FuncOf(markSaved))
	fieldlineEditor.Set("setPropertiesPrompt", js.FuncOf(setPropertiesPrompt))
	fieldlineEditor.Set("onSelectionChanged", js.FuncOf(onSelectionChanged))
	fieldlineEditor.Set("onDirtyChanged", js.FuncOf(onDirtyChanged))
	fieldlineEditor.Set("onRedraw", js.FuncOf(onRedraw))

	// --- Queries (frontend ← backend) ---
	fieldlineEditor.Set("render", js.FuncOf(render))
	fieldlineEditor.Set("snapshot", js.FuncOf(snapshot))
	fieldlineEditor.Set("selection", js.FuncOf(selection))
	fieldlineEditor.Set("selectionBounds", js.FuncOf(selectionBounds))
	fieldlineEditor.Set("dirty", js.FuncOf(dirty))
	fieldlineEditor.Set("canUndo", js.FuncOf(canUndo))
	fieldlineEditor.Set("canRedo", js.FuncOf(canRedo))
	fieldlineEditor.Set("undoLabel", js.FuncOf(undoLabel))
	fieldlineEditor.Set("redoLabel", js.FuncOf(redoLabel))
	fieldlineEditor.Set("cursorHint", js.FuncOf(cursorHint))
	fieldlineEditor.Set("state", js.FuncOf(state))
	fieldlineEditor.Set("pageInfo", js.FuncOf(pageInfo))

	// Register on global scope
	js.Global().Set("fieldlineEditor", fieldlineEditor)

	// Signal that WASM is ready
	js.Global().Set("fieldlineWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// newEditor builds an editor whose collaborators bridge to the registered
// JS callbacks. Rebuilt on every document load; the callbacks live in
// package vars so they survive the swap.
func newEditor(pages []document.PageGeometry) *editor.Editor {
	return editor.NewEditor(
		editor.NewStaticPageRenderer(pages),
		editor.PromptFunc(bridgePrompt),
		editor.WithSelectionListener(notifySelection),
		editor.WithDirtyListener(notifyDirty),
		editor.WithRedrawListener(notifyRedraw),
	)
}

// bridgePrompt forwards the properties dialog to the frontend. The JS
// function receives (kind, suggestedJSON) and returns a JSON string of the
// accepted properties, or null/undefined for cancel. A missing registration
// cancels, matching a dismissed dialog.
func bridgePrompt(kind document.AreaKind, suggested editor.AreaProperties) (editor.AreaProperties, bool) {
	if !jsPrompt.Truthy() {
		return editor.AreaProperties{}, false
	}
	suggestedJSON, err := json.Marshal(suggested)
	if err != nil {
		return editor.AreaProperties{}, false
	}

	result := jsPrompt.Invoke(string(kind), string(suggestedJSON))
	if result.IsNull() || result.IsUndefined() {
		return editor.AreaProperties{}, false
	}

	var props editor.AreaProperties
	if err := json.Unmarshal([]byte(result.String()), &props); err != nil {
		return editor.AreaProperties{}, false
	}
	return props, true
}

func notifySelection(instanceID string) {
	if jsOnSelection.Truthy() {
		jsOnSelection.Invoke(instanceID)
	}
}

func notifyDirty(dirty bool) {
	if jsOnDirty.Truthy() {
		jsOnDirty.Invoke(dirty)
	}
}

func notifyRedraw() {
	if jsOnRedraw.Truthy() {
		jsOnRedraw.Invoke()
	}
}

// loadEditor swaps in a fresh editor for doc and loads it.
func loadEditor(doc *document.Document) interface{} {
	next := newEditor(doc.Pages)
	if err := next.LoadDocument(doc); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	ed = next
	notifyRedraw()
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}

	doc, err := document.Decode(strings.NewReader(args[0].String()))
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return loadEditor(doc)
}

func newDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing page geometry JSON"})
	}

	var pages []document.PageGeometry
	if err := json.Unmarshal([]byte(args[0].String()), &pages); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	sourcePath := ""
	if len(args) > 1 && args[1].Type() == js.TypeString {
		sourcePath = args[1].String()
	}

	doc := document.New(sourcePath, pages)
	if len(args) > 2 && args[2].Type() == js.TypeString {
		doc.SourceID = args[2].String()
	}
	return loadEditor(doc)
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	return loadEditor(document.NewSampleDocument())
}

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	ed.SetTool(editor.Tool(args[0].String()))
	return nil
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	var mods editor.Modifiers
	if len(args) > 2 && args[2].Truthy() {
		mods |= editor.ModCycle
	}
	ed.PointerDown(args[0].Float(), args[1].Float(), mods)
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.PointerMove(args[0].Float(), args[1].Float())
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	ed.PointerUp(args[0].Float(), args[1].Float())
	return nil
}

func setZoom(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	if err := ed.SetZoom(args[0].Float()); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true, "zoom": ed.Zoom()})
}

func zoomIn(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.ZoomIn())
}

func zoomOut(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.ZoomOut())
}

func setPage(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing page index"})
	}
	if err := ed.SetPage(args[0].Int()); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func nextPage(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.NextPage())
}

func prevPage(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.PrevPage())
}

func undo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Undo())
}

func redo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Redo())
}

func deleteSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.DeleteSelection())
}

func editSelectionProperties(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.EditSelectionProperties())
}

func markSaved(this js.Value, args []js.Value) interface{} {
	ed.MarkSaved()
	return nil
}

func setPropertiesPrompt(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsPrompt = js.Undefined()
		return nil
	}
	jsPrompt = args[0]
	return nil
}

func onSelectionChanged(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsOnSelection = js.Undefined()
		return nil
	}
	jsOnSelection = args[0]
	return nil
}

func onDirtyChanged(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsOnDirty = js.Undefined()
		return nil
	}
	jsOnDirty = args[0]
	return nil
}

func onRedraw(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		jsOnRedraw = js.Undefined()
		return nil
	}
	jsOnRedraw = args[0]
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.RenderOverlay())
}

func snapshot(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(ed.Snapshot())
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func selection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Selection())
}

func selectionBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.SelectionBounds())
}

func dirty(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Dirty())
}

func canUndo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.CanUndo())
}

func canRedo(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.CanRedo())
}

func undoLabel(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.UndoLabel())
}

func redoLabel(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.RedoLabel())
}

func cursorHint(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.CursorHint())
}

func state(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.State().String())
}

func pageInfo(this js.Value, args []js.Value) interface{} {
	w, h := ed.PageSize()
	return js.ValueOf(map[string]interface{}{
		"page":        ed.Page(),
		"pageCount":   ed.PageCount(),
		"zoom":        ed.Zoom(),
		"pixelWidth":  w,
		"pixelHeight": h,
	})
}
