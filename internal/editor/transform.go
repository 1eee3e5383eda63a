package editor

import (
	"math"

	"github.com/fieldline/fieldline/backend-go/internal/document"
)

// ZoomLevels is the ascending list of supported view scales (document units
// to pixels). Zoom stepping moves through this list and stops at the ends.
// The floor is 0.5 rather than something smaller: view edges are rounded to
// whole pixels, so a round trip through the transform can drift by up to
// 0.5/scale document units per edge, and scale >= 0.5 keeps that within one
// unit.
var ZoomLevels = []float64{0.5, 0.75, 1.0, 1.25, 1.5, 2.0, 3.0, 4.0}

// DefaultZoom is the scale a freshly loaded document is displayed at.
const DefaultZoom = 1.5

// zoomIndexFor returns the index of the zoom level closest to scale.
func zoomIndexFor(scale float64) int {
	best := 0
	bestDist := math.Abs(ZoomLevels[0] - scale)
	for i, z := range ZoomLevels[1:] {
		if d := math.Abs(z - scale); d < bestDist {
			best = i + 1
			bestDist = d
		}
	}
	return best
}

// PageTransform converts between document space and the view space of a page
// rendered at one fixed scale. The two directions are mutual inverses up to
// the rounding of view coordinates to whole pixels.
type PageTransform struct {
	scale float64
	view  Matrix2D
	doc   Matrix2D
}

// NewPageTransform builds the transform for the given scale. Scale must be
// positive; non-positive values fall back to 1:1 rather than producing a
// degenerate matrix.
func NewPageTransform(scale float64) PageTransform {
	if scale <= 0 {
		scale = 1
	}
	view := Scale(scale, scale)
	return PageTransform{
		scale: scale,
		view:  view,
		doc:   view.Invert(),
	}
}

// Scale returns the document-to-pixel multiplier.
func (t PageTransform) Scale() float64 {
	return t.scale
}

// ToView converts a document-space rect to view space. Each edge is rounded
// to the nearest whole pixel; rounding half away from zero is applied to all
// four edges alike so repeated conversions stay stable.
func (t PageTransform) ToView(r document.Rect) Rect {
	x0, y0 := t.view.TransformPoint(r.Left, r.Top)
	x1, y1 := t.view.TransformPoint(r.Right, r.Bottom)
	x0, y0 = math.Round(x0), math.Round(y0)
	x1, y1 = math.Round(x1), math.Round(y1)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// ToDoc converts a view-space rect back to document space. Document
// coordinates are kept as exact floats; only the forward direction rounds.
func (t PageTransform) ToDoc(r Rect) document.Rect {
	l, top := t.doc.TransformPoint(r.X, r.Y)
	rt, bot := t.doc.TransformPoint(r.X+r.Width, r.Y+r.Height)
	return document.Rect{Left: l, Top: top, Right: rt, Bottom: bot}.Normalized()
}

// ToViewPoint converts a document-space point to (unrounded) view space.
func (t PageTransform) ToViewPoint(x, y float64) (float64, float64) {
	return t.view.TransformPoint(x, y)
}

// ToDocPoint converts a view-space point to document space.
func (t PageTransform) ToDocPoint(x, y float64) (float64, float64) {
	return t.doc.TransformPoint(x, y)
}
