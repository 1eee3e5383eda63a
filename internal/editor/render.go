package editor

import (
	"encoding/json"

	"github.com/fieldline/fieldline/backend-go/internal/document"
)

// DrawCommand is a single overlay drawing operation for the host surface to
// execute on its canvas. The page bitmap underneath is painted by the host;
// these commands only describe the areas, previews and selection chrome.
type DrawCommand struct {
	Op          string  `json:"op"` // "rect", "oval", "line", "hatch", "handle"
	InstanceID  string  `json:"instanceId,omitempty"`
	Rect        Rect    `json:"rect"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Fill        string  `json:"fill,omitempty"`
	Opacity     float64 `json:"opacity,omitempty"`
	Dashed      bool    `json:"dashed,omitempty"`
}

// handle chrome colors
const (
	handleStroke = "#0ea5e9"
	handleFill   = "#ffffff"
)

// RenderOverlay compiles the displayed page's overlay to draw commands and
// returns them as JSON. Commands are in painter's order: areas bottom to
// top, then the in-progress rubber band, then the selection handles.
func (e *Editor) RenderOverlay() string {
	commands := e.compileOverlay()
	data, err := json.Marshal(commands)
	if err != nil {
		e.logger.Error("marshal draw commands", "error", err)
		return "[]"
	}
	return string(data)
}

func (e *Editor) compileOverlay() []DrawCommand {
	commands := []DrawCommand{}

	dragging := e.state == StateMovingSelection || e.state == StateResizingSelection

	for _, a := range e.store.ByPage(e.page) {
		rect := e.tr.ToView(a.Rect)
		if dragging && a.InstanceID == e.selection {
			// The live preview stands in for the committed geometry.
			rect = e.preview
		}
		commands = append(commands, areaDrawCommands(a, rect)...)
	}

	if e.state == StateDrawingNewArea && !e.preview.IsEmpty() {
		style := document.DefaultStyle(e.drawKind)
		commands = append(commands, DrawCommand{
			Op:          areaKindOp(e.drawKind),
			Rect:        e.preview,
			Stroke:      style.Stroke,
			StrokeWidth: 1,
			Dashed:      true,
		})
	}

	if sel, ok := e.selectedArea(); ok {
		rect := e.tr.ToView(sel.Rect)
		if dragging {
			rect = e.preview
		}
		for _, h := range allHandles {
			commands = append(commands, DrawCommand{
				Op:          "handle",
				InstanceID:  sel.InstanceID,
				Rect:        HandleRect(rect, h),
				Stroke:      handleStroke,
				StrokeWidth: 1,
				Fill:        handleFill,
			})
		}
	}

	return commands
}

// areaKindOp maps an area kind to its overlay drawing primitive.
func areaKindOp(kind document.AreaKind) string {
	switch kind {
	case document.KindDrawnOval:
		return "oval"
	case document.KindDrawnLine:
		return "line"
	}
	return "rect"
}

// areaDrawCommands emits the command(s) for one area: its shape, plus a
// diagonal hatch overlay for signature and initials fields.
func areaDrawCommands(a *document.Area, rect Rect) []DrawCommand {
	cmds := []DrawCommand{{
		Op:          areaKindOp(a.Kind),
		InstanceID:  a.InstanceID,
		Rect:        rect,
		Stroke:      a.Style.Stroke,
		StrokeWidth: a.Style.StrokeWidth,
		Fill:        a.Style.Fill,
		Opacity:     a.Style.Opacity,
	}}
	if a.Kind == document.KindSignatureField || a.Kind == document.KindInitialsField {
		cmds = append(cmds, DrawCommand{
			Op:          "hatch",
			InstanceID:  a.InstanceID,
			Rect:        rect,
			Stroke:      a.Style.Stroke,
			StrokeWidth: 1,
			Opacity:     0.35,
		})
	}
	return cmds
}

// SelectionBounds returns the selected area's view rect as JSON (the live
// preview rect while a drag is in progress), or "{}" with no selection.
func (e *Editor) SelectionBounds() string {
	sel, ok := e.selectedArea()
	if !ok {
		return "{}"
	}
	rect := e.tr.ToView(sel.Rect)
	if e.state == StateMovingSelection || e.state == StateResizingSelection {
		rect = e.preview
	}
	return RectToJSON(rect)
}

// RectToJSON serializes a rect, falling back to an empty object on error.
func RectToJSON(r Rect) string {
	data, err := json.Marshal(r)
	if err != nil {
		return "{}"
	}
	return string(data)
}
