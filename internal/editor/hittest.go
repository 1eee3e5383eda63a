package editor

import (
	"github.com/fieldline/fieldline/backend-go/internal/document"
)

// HandleSize is the side length, in view pixels, of the square resize
// handles drawn on the selected area's corners and edge midpoints.
const HandleSize = 8.0

// Handle identifies one of the eight resize hotspots of a selection.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
)

var handleNames = map[Handle]string{
	HandleNone:        "none",
	HandleTopLeft:     "top-left",
	HandleTop:         "top",
	HandleTopRight:    "top-right",
	HandleRight:       "right",
	HandleBottomRight: "bottom-right",
	HandleBottom:      "bottom",
	HandleBottomLeft:  "bottom-left",
	HandleLeft:        "left",
}

func (h Handle) String() string {
	if name, ok := handleNames[h]; ok {
		return name
	}
	return "none"
}

// Cursor returns the CSS cursor name matching the handle's resize direction.
func (h Handle) Cursor() string {
	switch h {
	case HandleTopLeft, HandleBottomRight:
		return "nwse-resize"
	case HandleTopRight, HandleBottomLeft:
		return "nesw-resize"
	case HandleTop, HandleBottom:
		return "ns-resize"
	case HandleLeft, HandleRight:
		return "ew-resize"
	}
	return "default"
}

// handleAnchor returns the view-space center of a handle on rect r.
func handleAnchor(r Rect, h Handle) Point {
	cx, cy := r.Center().X, r.Center().Y
	switch h {
	case HandleTopLeft:
		return Point{X: r.X, Y: r.Y}
	case HandleTop:
		return Point{X: cx, Y: r.Y}
	case HandleTopRight:
		return Point{X: r.Right(), Y: r.Y}
	case HandleRight:
		return Point{X: r.Right(), Y: cy}
	case HandleBottomRight:
		return Point{X: r.Right(), Y: r.Bottom()}
	case HandleBottom:
		return Point{X: cx, Y: r.Bottom()}
	case HandleBottomLeft:
		return Point{X: r.X, Y: r.Bottom()}
	case HandleLeft:
		return Point{X: r.X, Y: cy}
	}
	return Point{}
}

var allHandles = [8]Handle{
	HandleTopLeft, HandleTop, HandleTopRight, HandleRight,
	HandleBottomRight, HandleBottom, HandleBottomLeft, HandleLeft,
}

// HandleRect returns the square hotspot for one handle of a selection rect.
func HandleRect(sel Rect, h Handle) Rect {
	a := handleAnchor(sel, h)
	return Rect{
		X:      a.X - HandleSize/2,
		Y:      a.Y - HandleSize/2,
		Width:  HandleSize,
		Height: HandleSize,
	}
}

// HandleAt returns which resize handle of the selection rect contains the
// point, or HandleNone. Handles are tested before any area hit-testing so a
// grab on a handle always wins over starting a move or a new selection.
func HandleAt(sel Rect, p Point) Handle {
	for _, h := range allHandles {
		if HandleRect(sel, h).Contains(p.X, p.Y) {
			return h
		}
	}
	return HandleNone
}

// ResizeRect adjusts the edge(s) owned by the handle to follow a pointer
// delta and returns the normalized result, so a drag across the opposite
// edge folds over instead of producing a negative size.
func ResizeRect(start Rect, h Handle, dx, dy float64) Rect {
	x0, y0 := start.X, start.Y
	x1, y1 := start.Right(), start.Bottom()

	switch h {
	case HandleTopLeft:
		x0 += dx
		y0 += dy
	case HandleTop:
		y0 += dy
	case HandleTopRight:
		x1 += dx
		y0 += dy
	case HandleRight:
		x1 += dx
	case HandleBottomRight:
		x1 += dx
		y1 += dy
	case HandleBottom:
		y1 += dy
	case HandleBottomLeft:
		x0 += dx
		y1 += dy
	case HandleLeft:
		x0 += dx
	}

	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// HitTest returns the instanceId of the area under the point, or "" when the
// point hits nothing. Areas are tested topmost first (reverse of store
// order). A plain hit returns the topmost candidate. With the cycle modifier
// held, a hit steps to the candidate just below previousID, wrapping back to
// the topmost, so repeated clicks walk through fully overlapping areas.
func HitTest(p Point, areas []*document.Area, tr PageTransform, cycle bool, previousID string) string {
	var candidates []string
	for i := len(areas) - 1; i >= 0; i-- {
		if tr.ToView(areas[i].Rect).Contains(p.X, p.Y) {
			candidates = append(candidates, areas[i].InstanceID)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	if !cycle || previousID == "" {
		return candidates[0]
	}
	for i, id := range candidates {
		if id == previousID {
			return candidates[(i+1)%len(candidates)]
		}
	}
	return candidates[0]
}
