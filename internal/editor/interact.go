package editor

import (
	"fmt"

	"github.com/fieldline/fieldline/backend-go/internal/document"
	"github.com/fieldline/fieldline/backend-go/internal/typeid"
)

// Tool is the active editing mode. Exactly one tool is active at a time.
type Tool string

const (
	ToolSelect        Tool = "select"
	ToolMove          Tool = "move"
	ToolDrawText      Tool = "draw-text"
	ToolDrawSignature Tool = "draw-signature"
	ToolDrawInitials  Tool = "draw-initials"
	ToolDrawRect      Tool = "draw-rect"
	ToolDrawOval      Tool = "draw-oval"
	ToolDrawLine      Tool = "draw-line"
)

func (t Tool) Valid() bool {
	switch t {
	case ToolSelect, ToolMove, ToolDrawText, ToolDrawSignature,
		ToolDrawInitials, ToolDrawRect, ToolDrawOval, ToolDrawLine:
		return true
	}
	return false
}

// DrawKind maps a drawing tool to the kind of area it creates. ok is false
// for select and move.
func (t Tool) DrawKind() (document.AreaKind, bool) {
	switch t {
	case ToolDrawText:
		return document.KindTextField, true
	case ToolDrawSignature:
		return document.KindSignatureField, true
	case ToolDrawInitials:
		return document.KindInitialsField, true
	case ToolDrawRect:
		return document.KindDrawnRect, true
	case ToolDrawOval:
		return document.KindDrawnOval, true
	case ToolDrawLine:
		return document.KindDrawnLine, true
	}
	return "", false
}

// keepsSelection reports whether switching to this tool preserves the
// current selection. Select and move both operate on a selection; the draw
// tools start from a clean slate.
func (t Tool) keepsSelection() bool {
	return t == ToolSelect || t == ToolMove
}

// DragState is the interaction machine's current state.
type DragState int

const (
	StateIdle DragState = iota
	StateDrawingNewArea
	StateMovingSelection
	StateResizingSelection
)

func (s DragState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDrawingNewArea:
		return "drawing"
	case StateMovingSelection:
		return "moving"
	case StateResizingSelection:
		return "resizing"
	}
	return "idle"
}

// Modifiers is the keyboard modifier bitmask carried by pointer-down events.
type Modifiers uint8

// ModCycle (Alt in the browser frontend) makes repeated clicks step through
// overlapping areas instead of always selecting the topmost.
const ModCycle Modifiers = 1 << iota

func (m Modifiers) Has(flag Modifiers) bool {
	return m&flag != 0
}

// SetTool switches the active tool. Switching away from select/move clears
// the selection; re-asserting the current tool changes nothing. Any drag in
// progress is abandoned without committing.
func (e *Editor) SetTool(t Tool) {
	if !t.Valid() || t == e.tool {
		return
	}
	e.state = StateIdle
	e.handle = HandleNone
	e.tool = t
	if !t.keepsSelection() {
		e.setSelection("")
	}
	e.requestRedraw()
}

// Tool returns the active tool.
func (e *Editor) Tool() Tool {
	return e.tool
}

// State returns the interaction machine's current state.
func (e *Editor) State() DragState {
	return e.state
}

// PointerDown begins an interaction at a view-space position. Draw tools
// start a rubber band; select and move first test the selection's resize
// handles, then hit-test areas (honoring the cycle modifier), and for move a
// press inside the current selection grabs it directly so a fully overlapped
// area can still be dragged.
func (e *Editor) PointerDown(x, y float64, mods Modifiers) {
	if e.state != StateIdle {
		return
	}
	p := Point{X: x, Y: y}
	e.origin = p

	if kind, ok := e.tool.DrawKind(); ok {
		e.state = StateDrawingNewArea
		e.drawKind = kind
		e.preview = RectFromPoints(p, p)
		e.setSelection("")
		e.requestRedraw()
		return
	}

	// Resize handles outrank everything for both select and move.
	if sel, ok := e.selectedArea(); ok {
		selView := e.tr.ToView(sel.Rect)
		if h := HandleAt(selView, p); h != HandleNone {
			e.state = StateResizingSelection
			e.handle = h
			e.startDoc = sel.Rect
			e.startView = selView
			e.preview = selView
			return
		}
	}

	switch e.tool {
	case ToolSelect:
		hit := HitTest(p, e.store.ByPage(e.page), e.tr, mods.Has(ModCycle), e.selection)
		e.setSelection(hit)
		e.requestRedraw()

	case ToolMove:
		target := ""
		if sel, ok := e.selectedArea(); ok && e.tr.ToView(sel.Rect).Contains(x, y) {
			// Keep dragging the current selection even when another area
			// fully overlaps it; re-hit-testing here would steal the grab.
			target = e.selection
		}
		if target == "" {
			target = HitTest(p, e.store.ByPage(e.page), e.tr, mods.Has(ModCycle), e.selection)
		}
		e.setSelection(target)
		if target == "" {
			e.requestRedraw()
			return
		}
		sel, ok := e.store.Get(target)
		if !ok {
			return
		}
		e.state = StateMovingSelection
		e.startDoc = sel.Rect
		e.startView = e.tr.ToView(sel.Rect)
		e.preview = e.startView
		e.requestRedraw()
	}
}

// PointerMove advances the live preview of whatever drag is in progress.
// The store is never touched here; with no drag active it only refreshes
// the cursor hint.
func (e *Editor) PointerMove(x, y float64) {
	switch e.state {
	case StateDrawingNewArea:
		e.preview = RectFromPoints(e.origin, Point{X: x, Y: y})
		e.requestRedraw()
	case StateMovingSelection:
		e.preview = e.startView.Translate(x-e.origin.X, y-e.origin.Y)
		e.requestRedraw()
	case StateResizingSelection:
		e.preview = ResizeRect(e.startView, e.handle, x-e.origin.X, y-e.origin.Y)
		e.requestRedraw()
	default:
		e.updateCursor(x, y)
	}
}

// PointerUp completes the interaction. Drawing commits a new area (after the
// properties dialog for field kinds); move and resize convert the final
// preview back to document space and commit a command only when the result
// actually differs from the starting rect.
func (e *Editor) PointerUp(x, y float64) {
	state := e.state
	e.state = StateIdle
	p := Point{X: x, Y: y}

	switch state {
	case StateDrawingNewArea:
		band := RectFromPoints(e.origin, p)
		e.preview = Rect{}
		if band.Width > 0 && band.Height > 0 {
			e.commitDraw(band)
		}
		e.requestRedraw()

	case StateMovingSelection:
		final := e.startView.Translate(x-e.origin.X, y-e.origin.Y)
		e.commitDrag(final, false)

	case StateResizingSelection:
		final := ResizeRect(e.startView, e.handle, x-e.origin.X, y-e.origin.Y)
		e.handle = HandleNone
		e.commitDrag(final, true)
	}
}

// commitDraw turns an accepted rubber band into an AddArea command. Field
// kinds go through the properties dialog first and loop on an empty fieldId,
// retaining what the user already typed; cancelling commits nothing. Drawn
// shapes skip the dialog and use their instanceId as the fieldId.
func (e *Editor) commitDraw(band Rect) {
	kind := e.drawKind
	props := AreaProperties{}

	if kind.IsField() {
		suggested := AreaProperties{FieldID: e.suggestFieldID(kind)}
		for {
			result, ok := e.promptProperties(kind, suggested)
			if !ok {
				e.logger.Debug("area definition cancelled", "kind", kind)
				return
			}
			if result.FieldID != "" {
				props = result
				break
			}
			suggested = AreaProperties{Prompt: result.Prompt}
		}
	}

	id := typeid.NewAreaID()
	if props.FieldID == "" {
		props.FieldID = id
	}
	area := document.Area{
		InstanceID: id,
		PageIndex:  e.page,
		Rect:       e.tr.ToDoc(band),
		Kind:       kind,
		FieldID:    props.FieldID,
		Prompt:     props.Prompt,
		Style:      document.DefaultStyle(kind),
	}
	e.engine.Execute(NewAddAreaCommand(e.store, area))
}

// commitDrag finishes a move or resize. A drag that ends where it started,
// or whose document rect matches the starting one, produces no command, so
// clicks and cancelled drags leave the undo stack alone.
func (e *Editor) commitDrag(final Rect, resize bool) {
	defer e.requestRedraw()

	if final == e.startView {
		return
	}
	newDoc := e.tr.ToDoc(final)
	if newDoc == e.startDoc {
		return
	}
	var cmd Command
	if resize {
		cmd = NewResizeAreaCommand(e.store, e.selection, e.startDoc, newDoc, e.startView, final)
	} else {
		cmd = NewMoveAreaCommand(e.store, e.selection, e.startDoc, newDoc, e.startView, final)
	}
	e.engine.Execute(cmd)
}

// suggestFieldID proposes a fieldId for a new field area, numbered after the
// areas already defined.
func (e *Editor) suggestFieldID(kind document.AreaKind) string {
	base := kind.FieldBase()
	if base == "" {
		return ""
	}
	return fmt.Sprintf("%s_%d", base, e.store.Len()+1)
}

// promptProperties invokes the dialog collaborator, treating a missing
// collaborator as a cancel.
func (e *Editor) promptProperties(kind document.AreaKind, suggested AreaProperties) (AreaProperties, bool) {
	if e.prompt == nil {
		e.logger.Warn("no properties prompt configured, treating as cancelled", "kind", kind)
		return AreaProperties{}, false
	}
	return e.prompt.PromptProperties(kind, suggested)
}

// updateCursor refreshes the hover hint: crosshair for draw tools, resize
// cursors over the selection's handles, a move cursor over draggable areas.
func (e *Editor) updateCursor(x, y float64) {
	hint := "default"

	if _, drawing := e.tool.DrawKind(); drawing {
		hint = "crosshair"
	} else {
		if sel, ok := e.selectedArea(); ok {
			if h := HandleAt(e.tr.ToView(sel.Rect), Point{X: x, Y: y}); h != HandleNone {
				hint = h.Cursor()
			}
		}
		if hint == "default" && e.tool == ToolMove {
			for _, a := range e.store.ByPage(e.page) {
				if e.tr.ToView(a.Rect).Contains(x, y) {
					hint = "move"
					break
				}
			}
		}
	}

	if hint != e.cursor {
		e.cursor = hint
	}
}

// CursorHint returns the CSS cursor name the host surface should show.
func (e *Editor) CursorHint() string {
	if e.cursor == "" {
		return "default"
	}
	return e.cursor
}
