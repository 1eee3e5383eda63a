package editor

import (
	"fmt"
	"math"

	"github.com/fieldline/fieldline/backend-go/internal/document"
)

// RenderedPage is one page rasterized at a given scale. The editor itself
// only reads the pixel dimensions; Image is an opaque payload passed through
// to the host surface (and may be nil when the host paints the page by other
// means, as the browser does).
type RenderedPage struct {
	PixelWidth  int
	PixelHeight int
	Image       []byte
}

// PageRenderer is the rasterizer collaborator: it knows how many pages the
// source document has and produces a bitmap (or at least its dimensions) for
// one page at one scale.
type PageRenderer interface {
	PageCount() int
	RenderPage(pageIndex int, scale float64) (RenderedPage, error)
}

// StaticPageRenderer derives pixel dimensions from known page geometry
// without producing bitmaps. The wasm build uses it with geometry reported
// by the server; tests use it directly.
type StaticPageRenderer struct {
	pages []document.PageGeometry
}

func NewStaticPageRenderer(pages []document.PageGeometry) *StaticPageRenderer {
	return &StaticPageRenderer{pages: pages}
}

func (r *StaticPageRenderer) PageCount() int {
	return len(r.pages)
}

func (r *StaticPageRenderer) RenderPage(pageIndex int, scale float64) (RenderedPage, error) {
	if pageIndex < 0 || pageIndex >= len(r.pages) {
		return RenderedPage{}, fmt.Errorf("page %d out of range [0, %d)", pageIndex, len(r.pages))
	}
	if scale <= 0 {
		return RenderedPage{}, fmt.Errorf("non-positive scale %v", scale)
	}
	g := r.pages[pageIndex]
	return RenderedPage{
		PixelWidth:  int(math.Round(g.Width * scale)),
		PixelHeight: int(math.Round(g.Height * scale)),
	}, nil
}
