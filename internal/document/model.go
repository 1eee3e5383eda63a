package document

import (
	"encoding/json"
	"io"
)

// FormatVersion is the project file format written and accepted by this build.
const FormatVersion = "1.0"

// Rect is an axis-aligned rectangle in document space (units native to the
// source page, origin at the page's top-left). A normalized rect has
// Left <= Right and Top <= Bottom.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

func (r Rect) IsEmpty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Normalized returns r with edges swapped as needed so that width and
// height are non-negative.
func (r Rect) Normalized() Rect {
	if r.Left > r.Right {
		r.Left, r.Right = r.Right, r.Left
	}
	if r.Top > r.Bottom {
		r.Top, r.Bottom = r.Bottom, r.Top
	}
	return r
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

type AreaKind string

const (
	KindTextField      AreaKind = "text-field"
	KindSignatureField AreaKind = "signature-field"
	KindInitialsField  AreaKind = "initials-field"
	KindDrawnRect      AreaKind = "drawn-rectangle"
	KindDrawnOval      AreaKind = "drawn-oval"
	KindDrawnLine      AreaKind = "drawn-line"
)

func (k AreaKind) Valid() bool {
	switch k {
	case KindTextField, KindSignatureField, KindInitialsField,
		KindDrawnRect, KindDrawnOval, KindDrawnLine:
		return true
	}
	return false
}

// IsField reports whether areas of this kind capture a named piece of data
// and therefore require a non-empty FieldID.
func (k AreaKind) IsField() bool {
	switch k {
	case KindTextField, KindSignatureField, KindInitialsField:
		return true
	}
	return false
}

// FieldBase is the stem used to suggest a fieldId for newly drawn areas
// ("TextArea_3"). Empty for drawn shapes, which default to the instanceId.
func (k AreaKind) FieldBase() string {
	switch k {
	case KindTextField:
		return "TextArea"
	case KindSignatureField:
		return "SignatureArea"
	case KindInitialsField:
		return "InitialsArea"
	}
	return ""
}

type Style struct {
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Fill        string  `json:"fill,omitempty"`
	Opacity     float64 `json:"opacity"`
}

// DefaultStyle returns the outline/fill defaults for a kind. Field kinds use
// a thin outline with no fill (signature and initials additionally render a
// diagonal hatch, which is a draw-time effect, not part of the style).
func DefaultStyle(kind AreaKind) Style {
	switch kind {
	case KindTextField:
		return Style{Stroke: "#2563eb", StrokeWidth: 1, Opacity: 1}
	case KindSignatureField:
		return Style{Stroke: "#7c3aed", StrokeWidth: 1, Opacity: 1}
	case KindInitialsField:
		return Style{Stroke: "#0d9488", StrokeWidth: 1, Opacity: 1}
	case KindDrawnRect:
		return Style{Stroke: "#dc2626", StrokeWidth: 2, Fill: "#dc26261a", Opacity: 1}
	case KindDrawnOval:
		return Style{Stroke: "#ea580c", StrokeWidth: 2, Fill: "#ea580c1a", Opacity: 1}
	case KindDrawnLine:
		return Style{Stroke: "#111827", StrokeWidth: 2, Opacity: 1}
	}
	return Style{Stroke: "#111827", StrokeWidth: 1, Opacity: 1}
}

// Area is one typed, named region placed on a single page. InstanceID is
// assigned at creation and never changes; PageIndex and Kind are likewise
// immutable once the area exists.
type Area struct {
	InstanceID string   `json:"instanceId"`
	PageIndex  int      `json:"pageIndex"`
	Rect       Rect     `json:"rect"`
	Kind       AreaKind `json:"kind"`
	FieldID    string   `json:"fieldId"`
	Prompt     string   `json:"prompt,omitempty"`
	Style      Style    `json:"style"`
}

// PageGeometry is the document-space size of one page.
type PageGeometry struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Document is the persistent project record: the source reference, the last
// active zoom factor, per-page geometry, and every defined area in z-order
// (earlier entries draw below later ones).
type Document struct {
	Version    string         `json:"version"`
	SourcePath string         `json:"sourcePath,omitempty"`
	SourceID   string         `json:"sourceId,omitempty"`
	Zoom       float64        `json:"zoom,omitempty"`
	Pages      []PageGeometry `json:"pages,omitempty"`
	Areas      []Area         `json:"areas"`
}

// New creates an empty document for a freshly loaded source.
func New(sourcePath string, pages []PageGeometry) *Document {
	return &Document{
		Version:    FormatVersion,
		SourcePath: sourcePath,
		Pages:      pages,
		Areas:      []Area{},
	}
}

// Decode reads and validates a document from r.
func Decode(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Encode writes d to w as indented JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
