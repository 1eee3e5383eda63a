// Package editor implements the interactive area editor: the document/view
// transform, the ordered area store, pointer-driven drawing, moving and
// resizing of areas, and command-based undo/redo. It is headless; a host
// surface (the wasm frontend) feeds it pointer events and paints the draw
// commands it emits.
package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fieldline/fieldline/backend-go/internal/document"
)

var ErrNoDocument = errors.New("no document loaded")

// Editor composes the store, transform, hit testing, interaction machine
// and command engine for the currently displayed page. All methods must be
// called from a single goroutine; events arrive in strict order and nothing
// here blocks.
type Editor struct {
	logger   *slog.Logger
	store    *Store
	engine   *CommandEngine
	renderer PageRenderer
	prompt   PropertiesPrompt

	meta   document.Document // version/source/pages of the loaded document
	loaded bool

	page     int
	zoomIdx  int
	tr       PageTransform
	pageView RenderedPage

	tool      Tool
	selection string

	state     DragState
	origin    Point
	startDoc  document.Rect
	startView Rect
	handle    Handle
	preview   Rect
	drawKind  document.AreaKind
	cursor    string

	onSelection func(string)
	onRedraw    func()
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger routes the editor's internal-error and debug logging.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSelectionListener registers the observer called whenever the selected
// instanceId changes; the empty string means nothing is selected.
func WithSelectionListener(fn func(instanceID string)) Option {
	return func(e *Editor) { e.onSelection = fn }
}

// WithDirtyListener registers the observer called whenever the document
// dirty flag flips.
func WithDirtyListener(fn func(dirty bool)) Option {
	return func(e *Editor) { e.engine.SetDirtyListener(fn) }
}

// WithRedrawListener registers the observer poked whenever visible state
// changes. It is a signal only; the host decides when to actually repaint
// (typically batched once per frame).
func WithRedrawListener(fn func()) Option {
	return func(e *Editor) { e.onRedraw = fn }
}

// NewEditor creates an editor bound to a page renderer and a properties
// dialog. No document is loaded yet; most operations are inert until
// LoadDocument succeeds.
func NewEditor(renderer PageRenderer, prompt PropertiesPrompt, opts ...Option) *Editor {
	e := &Editor{
		logger:   slog.Default(),
		store:    NewStore(),
		renderer: renderer,
		prompt:   prompt,
		tool:     ToolSelect,
		zoomIdx:  zoomIndexFor(DefaultZoom),
		tr:       NewPageTransform(DefaultZoom),
	}
	e.engine = NewCommandEngine(e.logger)
	for _, opt := range opts {
		opt(e)
	}
	// Options may replace the logger after the engine was built.
	e.engine.logger = e.logger
	return e
}

// --- Document lifecycle ---

// LoadDocument validates doc, repopulates the store from its area list, and
// displays the first page at the document's saved zoom (or the default).
// The undo history and dirty flag reset: a freshly loaded document is clean.
func (e *Editor) LoadDocument(doc *document.Document) error {
	if doc == nil {
		return ErrNoDocument
	}
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	pageCount := e.renderer.PageCount()
	for i := range doc.Areas {
		if doc.Areas[i].PageIndex >= pageCount {
			return fmt.Errorf("load document: area %s on page %d but source has %d pages",
				doc.Areas[i].InstanceID, doc.Areas[i].PageIndex, pageCount)
		}
	}

	e.store = NewStore()
	for i := range doc.Areas {
		a := doc.Areas[i]
		e.store.Add(&a)
	}
	e.meta = document.Document{
		Version:    doc.Version,
		SourcePath: doc.SourcePath,
		SourceID:   doc.SourceID,
		Pages:      doc.Pages,
	}
	e.loaded = true

	zoom := doc.Zoom
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	e.zoomIdx = zoomIndexFor(zoom)
	e.page = 0
	e.state = StateIdle
	e.handle = HandleNone
	e.preview = Rect{}
	e.setSelection("")
	e.engine.MarkSaved()

	return e.renderCurrentPage()
}

// Snapshot exports the current state as a persistence record: every area in
// z-order plus the source reference and active zoom. Writing it anywhere is
// the caller's concern; the editor does no file I/O.
func (e *Editor) Snapshot() *document.Document {
	return &document.Document{
		Version:    document.FormatVersion,
		SourcePath: e.meta.SourcePath,
		SourceID:   e.meta.SourceID,
		Zoom:       e.Zoom(),
		Pages:      e.meta.Pages,
		Areas:      e.store.Snapshot(),
	}
}

// MarkSaved records a save boundary: both undo stacks clear and the dirty
// flag drops.
func (e *Editor) MarkSaved() {
	e.engine.MarkSaved()
}

// --- Page and zoom ---

func (e *Editor) Page() int { return e.page }

func (e *Editor) PageCount() int {
	if e.renderer == nil {
		return 0
	}
	return e.renderer.PageCount()
}

// SetPage displays another page. The selection survives only when the
// selected area lives on the new page. Drags are assumed complete before
// navigation; the surrounding application enforces that.
func (e *Editor) SetPage(pageIndex int) error {
	if !e.loaded {
		return ErrNoDocument
	}
	if pageIndex < 0 || pageIndex >= e.PageCount() {
		return fmt.Errorf("page %d out of range [0, %d)", pageIndex, e.PageCount())
	}
	if pageIndex == e.page {
		return nil
	}
	e.page = pageIndex
	if a, ok := e.selectedArea(); !ok || a.PageIndex != pageIndex {
		e.setSelection("")
	}
	return e.renderCurrentPage()
}

// NextPage moves one page forward; false at the last page.
func (e *Editor) NextPage() bool {
	if !e.loaded || e.page >= e.PageCount()-1 {
		return false
	}
	return e.SetPage(e.page+1) == nil
}

// PrevPage moves one page back; false at the first page.
func (e *Editor) PrevPage() bool {
	if !e.loaded || e.page <= 0 {
		return false
	}
	return e.SetPage(e.page-1) == nil
}

// Zoom returns the active document-to-pixel scale.
func (e *Editor) Zoom() float64 {
	return ZoomLevels[e.zoomIdx]
}

// SetZoom snaps to the closest supported zoom level and re-renders.
func (e *Editor) SetZoom(scale float64) error {
	idx := zoomIndexFor(scale)
	if idx == e.zoomIdx {
		return nil
	}
	e.zoomIdx = idx
	return e.renderCurrentPage()
}

// ZoomIn steps one level up the zoom list; false at the top.
func (e *Editor) ZoomIn() bool {
	if e.zoomIdx >= len(ZoomLevels)-1 {
		return false
	}
	e.zoomIdx++
	e.renderCurrentPage()
	return true
}

// ZoomOut steps one level down the zoom list; false at the bottom.
func (e *Editor) ZoomOut() bool {
	if e.zoomIdx <= 0 {
		return false
	}
	e.zoomIdx--
	e.renderCurrentPage()
	return true
}

// Transform returns the doc/view transform for the displayed page.
func (e *Editor) Transform() PageTransform {
	return e.tr
}

// PageImage returns the opaque rasterized payload for the displayed page,
// if the renderer produced one.
func (e *Editor) PageImage() []byte {
	return e.pageView.Image
}

// PageSize returns the pixel dimensions of the displayed page.
func (e *Editor) PageSize() (width, height int) {
	return e.pageView.PixelWidth, e.pageView.PixelHeight
}

// renderCurrentPage rebuilds the transform for the active zoom and asks the
// rasterizer for the page. Only the returned dimensions matter here.
func (e *Editor) renderCurrentPage() error {
	if !e.loaded {
		return ErrNoDocument
	}
	scale := ZoomLevels[e.zoomIdx]
	e.tr = NewPageTransform(scale)
	rp, err := e.renderer.RenderPage(e.page, scale)
	if err != nil {
		e.logger.Error("render page", "page", e.page, "scale", scale, "error", err)
		return fmt.Errorf("render page %d: %w", e.page, err)
	}
	e.pageView = rp
	e.requestRedraw()
	return nil
}

// --- Selection ---

// Selection returns the selected area's instanceId, or "".
func (e *Editor) Selection() string {
	return e.selection
}

// SelectedArea returns the selected area itself.
func (e *Editor) SelectedArea() (document.Area, bool) {
	a, ok := e.selectedArea()
	if !ok {
		return document.Area{}, false
	}
	return *a, true
}

func (e *Editor) selectedArea() (*document.Area, bool) {
	if e.selection == "" {
		return nil, false
	}
	return e.store.Get(e.selection)
}

// setSelection updates the selection, notifying the listener only when the
// id actually changes.
func (e *Editor) setSelection(id string) {
	if id == e.selection {
		return
	}
	e.selection = id
	if e.onSelection != nil {
		e.onSelection(id)
	}
}

// validateSelection drops a selection whose area no longer exists (after
// undo of an add, redo of a delete, or a document swap).
func (e *Editor) validateSelection() {
	if e.selection == "" {
		return
	}
	if _, ok := e.store.Get(e.selection); !ok {
		e.setSelection("")
	}
}

// --- Mutations beyond pointer gestures ---

// DeleteSelection removes the selected area through a command, clearing the
// selection on success.
func (e *Editor) DeleteSelection() bool {
	if e.selection == "" {
		return false
	}
	if !e.engine.Execute(NewDeleteAreaCommand(e.store, e.selection)) {
		return false
	}
	e.setSelection("")
	e.requestRedraw()
	return true
}

// EditSelectionProperties runs the properties dialog against the selected
// area, re-prompting while a field kind comes back with an empty fieldId.
// Accepting unchanged values commits nothing.
func (e *Editor) EditSelectionProperties() bool {
	a, ok := e.selectedArea()
	if !ok {
		return false
	}
	suggested := AreaProperties{FieldID: a.FieldID, Prompt: a.Prompt}
	for {
		result, accepted := e.promptProperties(a.Kind, suggested)
		if !accepted {
			return false
		}
		if result.FieldID == "" {
			if a.Kind.IsField() {
				suggested = AreaProperties{Prompt: result.Prompt}
				continue
			}
			result.FieldID = a.InstanceID
		}
		if result.FieldID == a.FieldID && result.Prompt == a.Prompt {
			return false
		}
		if !e.engine.Execute(NewEditAreaPropertiesCommand(e.store, a.InstanceID, result.FieldID, result.Prompt)) {
			return false
		}
		e.requestRedraw()
		return true
	}
}

// --- Undo / redo ---

// Undo reverses the most recent command. The selection is dropped if its
// area vanished with the undo.
func (e *Editor) Undo() bool {
	if !e.engine.Undo() {
		return false
	}
	e.validateSelection()
	e.requestRedraw()
	return true
}

// Redo re-applies the most recently undone command.
func (e *Editor) Redo() bool {
	if !e.engine.Redo() {
		return false
	}
	e.validateSelection()
	e.requestRedraw()
	return true
}

func (e *Editor) Dirty() bool       { return e.engine.Dirty() }
func (e *Editor) CanUndo() bool     { return e.engine.CanUndo() }
func (e *Editor) CanRedo() bool     { return e.engine.CanRedo() }
func (e *Editor) UndoLabel() string { return e.engine.UndoLabel() }
func (e *Editor) RedoLabel() string { return e.engine.RedoLabel() }

// Areas returns the areas on the displayed page in z-order.
func (e *Editor) Areas() []*document.Area {
	return e.store.ByPage(e.page)
}

// Store exposes the area store for queries; mutations must go through
// commands.
func (e *Editor) Store() *Store {
	return e.store
}

func (e *Editor) requestRedraw() {
	if e.onRedraw != nil {
		e.onRedraw()
	}
}
