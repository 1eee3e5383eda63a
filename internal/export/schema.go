// Package export produces the fill-side artifact of a project: a JSON schema
// listing every defined area, which downstream form-filling tooling consumes.
package export

import (
	"github.com/fieldline/fieldline/backend-go/internal/document"
)

// SchemaField is one area in the exported contract. Rects are document-space
// so consumers are independent of any display scale.
type SchemaField struct {
	FieldID   string            `json:"fieldId"`
	Kind      document.AreaKind `json:"kind"`
	PageIndex int               `json:"pageIndex"`
	Rect      document.Rect     `json:"rect"`
	Prompt    string            `json:"prompt,omitempty"`
}

// Schema is the downloadable export of a saved layout.
type Schema struct {
	Version   string        `json:"version"`
	SourceID  string        `json:"sourceId,omitempty"`
	PageCount int           `json:"pageCount"`
	Fields    []SchemaField `json:"fields"`
}

// BuildSchema flattens a layout document into its export schema. Fields keep
// the document's z-order, which doubles as definition order.
func BuildSchema(doc *document.Document) Schema {
	fields := make([]SchemaField, 0, len(doc.Areas))
	for _, a := range doc.Areas {
		fields = append(fields, SchemaField{
			FieldID:   a.FieldID,
			Kind:      a.Kind,
			PageIndex: a.PageIndex,
			Rect:      a.Rect,
			Prompt:    a.Prompt,
		})
	}
	return Schema{
		Version:   doc.Version,
		SourceID:  doc.SourceID,
		PageCount: len(doc.Pages),
		Fields:    fields,
	}
}
